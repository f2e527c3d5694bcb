package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/arena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.BattleMode, convey.ShouldBeFalse)
				convey.So(cfg.OutputPath, convey.ShouldEqual, "output")
				convey.So(cfg.RunTimeBudgetSeconds, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ARENA_BATTLE_MODE", "true")
			_ = os.Setenv("ARENA_NUM_WORKERS", "16")
			_ = os.Setenv("ARENA_RESTART_WORKERS", "false")
			_ = os.Setenv("ARENA_RUN_TIME_BUDGET_SECONDS", "30")
			_ = os.Setenv("ARENA_MAXIMIZE_WEIGHT", "true")
			_ = os.Setenv("ARENA_OUTPUT_PATH", "result.txt")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BattleMode, convey.ShouldBeTrue)
				convey.So(cfg.NumWorkers, convey.ShouldEqual, 16)
				convey.So(cfg.RestartWorkers, convey.ShouldBeFalse)
				convey.So(cfg.RunTimeBudgetSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.MaximizeWeight, convey.ShouldBeTrue)
				convey.So(cfg.OutputPath, convey.ShouldEqual, "result.txt")
			})
		})

		convey.Convey("When only the legacy BATTLE_MODE variable is present", func() {
			_ = os.Setenv("BATTLE_MODE", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then battle mode should be on", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BattleMode, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
mode: tournament
battle_mode: true
num_workers: 4
run_time_budget_seconds: 20
maximize_weight: true
poll_interval_ms: 250
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("ARENA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Mode, convey.ShouldEqual, config.ModeTournament)
				convey.So(cfg.NumWorkers, convey.ShouldEqual, 4)
				convey.So(cfg.RunTimeBudgetSeconds, convey.ShouldEqual, 20)
				convey.So(cfg.PollIntervalMS, convey.ShouldEqual, 250)
				convey.So(cfg.OutputPath, convey.ShouldEqual, "output") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
battle_mode: true
num_workers: 4
run_time_budget_seconds: 20
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("ARENA_CONFIG", tmpFile)
			_ = os.Setenv("ARENA_NUM_WORKERS", "8") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.NumWorkers, convey.ShouldEqual, 8)            // Overridden by env
				convey.So(cfg.RunTimeBudgetSeconds, convey.ShouldEqual, 20) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("ARENA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ARENA_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the worker count does not fit the worker pool size", func() {
			_ = os.Setenv("ARENA_NUM_WORKERS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When battle mode is combined with a budget that leaves no margin", func() {
			_ = os.Setenv("ARENA_BATTLE_MODE", "true")
			_ = os.Setenv("ARENA_RUN_TIME_BUDGET_SECONDS", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.
func clearConfigEnvVars() {
	envVars := []string{
		"ARENA_CONFIG",
		"ARENA_BATTLE_MODE",
		"ARENA_NUM_WORKERS",
		"ARENA_RESTART_WORKERS",
		"ARENA_RUN_TIME_BUDGET_SECONDS",
		"ARENA_MAXIMIZE_WEIGHT",
		"ARENA_OUTPUT_PATH",
		"BATTLE_MODE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "arena-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
