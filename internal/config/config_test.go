package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/arena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Mode, convey.ShouldEqual, config.ModeSingle)
			convey.So(cfg.BattleMode, convey.ShouldBeFalse)
			convey.So(cfg.NumWorkers, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.RunTimeBudgetSeconds, convey.ShouldEqual, 10)
			convey.So(cfg.OutputPath, convey.ShouldEqual, "output")
			convey.So(cfg.PollInterval(), convey.ShouldEqual, 500*time.Millisecond)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid battle-mode config", t, func() {
		cfg := config.New()
		cfg.BattleMode = true

		convey.Convey("When the mode is unknown", func() {
			cfg.Mode = "relay"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the output path is empty", func() {
			cfg.OutputPath = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the poll interval is not positive", func() {
			cfg.PollIntervalMS = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the budget leaves no finalize margin", func() {
			cfg.RunTimeBudgetSeconds = 2
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "run_time_budget_seconds")
		})

		convey.Convey("When no instance source is configured", func() {
			cfg.InputPath = ""
			cfg.InstanceJobs = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a tournament has no budget", func() {
			cfg.Mode = config.ModeTournament
			cfg.BattleMode = false
			cfg.RunTimeBudgetSeconds = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestRace(t *testing.T) {
	convey.Convey("Given race parameters", t, func() {
		r := config.NewRace(3, false, 10, true)

		convey.Convey("Then NewRace should default to battle mode", func() {
			convey.So(r.BattleMode, convey.ShouldBeTrue)
			convey.So(r.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the polling window should keep a two second margin", func() {
			convey.So(r.Budget(), convey.ShouldEqual, 10*time.Second)
			convey.So(r.PollingWindow(), convey.ShouldEqual, 8*time.Second)
		})

		convey.Convey("When the budget is too small in battle mode", func() {
			small := config.NewRace(3, false, 2, true)
			convey.So(errors.Is(small.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(small.PollingWindow(), convey.ShouldEqual, 0)

			convey.Convey("Then verbose mode should still accept it", func() {
				convey.So(small.WithBattleMode(false).Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When there are no workers in battle mode", func() {
			none := config.NewRace(0, true, 10, false)
			convey.So(errors.Is(none.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Then Config.Race should copy the race fields", func() {
			cfg := config.New()
			cfg.BattleMode = true
			cfg.NumWorkers = 7
			cfg.MaximizeWeight = true
			got := cfg.Race()
			convey.So(got.BattleMode, convey.ShouldBeTrue)
			convey.So(got.NumWorkers, convey.ShouldEqual, 7)
			convey.So(got.MaximizeWeight, convey.ShouldBeTrue)
			convey.So(got.RunTimeBudgetSeconds, convey.ShouldEqual, cfg.RunTimeBudgetSeconds)
		})
	})
}
