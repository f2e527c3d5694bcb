package instancegen

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/arena/internal/problems/flowshop"
	"github.com/okian/arena/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testConfig(dir string) *Config {
	return &Config{
		Count:    4,
		Jobs:     6,
		Machines: 3,
		MinTime:  1,
		MaxTime:  20,
		Seed:     7,
		OutDir:   dir,
		Prefix:   "fs",
		Encoding: flowshop.EncodingText,
		Workers:  2,
		Verify:   true,
	}
}

func TestRun(t *testing.T) {
	convey.Convey("Given a generator config", t, func() {
		ctx := context.Background()
		cfg := testConfig(filepath.Join(t.TempDir(), "nested"))

		convey.Convey("When generating text instances", func() {
			stats, err := Run(ctx, cfg)

			convey.Convey("Then every file is written and verified", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.Generated, convey.ShouldEqual, 4)
				convey.So(stats.Verified, convey.ShouldEqual, 4)
				convey.So(filepath.Base(stats.Files[2]), convey.ShouldEqual, "fs-6x3-002.txt")

				inst, err := flowshop.ReadFile(stats.Files[0])
				convey.So(err, convey.ShouldBeNil)
				convey.So(inst.Jobs, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When generating the same batch twice", func() {
			first, err := Run(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			a, _ := os.ReadFile(first.Files[1])
			second, err := Run(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			b, _ := os.ReadFile(second.Files[1])

			convey.Convey("Then the output is reproducible", func() {
				convey.So(string(a), convey.ShouldEqual, string(b))
			})
		})

		convey.Convey("When generating YAML instances", func() {
			cfg.Encoding = flowshop.EncodingYAML
			stats, err := Run(ctx, cfg)

			convey.Convey("Then files carry the yaml extension", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(filepath.Ext(stats.Files[0]), convey.ShouldEqual, ".yaml")
				convey.So(stats.Verified, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the config is invalid", func() {
			cfg.MaxTime = 0
			_, err := Run(ctx, cfg)

			convey.Convey("Then nothing is generated", func() {
				convey.So(errors.Is(err, ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the format is unknown", func() {
			cfg.Encoding = "json"
			convey.So(errors.Is(cfg.Validate(), ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestVerifyDetectsMismatch(t *testing.T) {
	convey.Convey("Given a file that was changed after writing", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "x.txt")
		inst, err := flowshop.NewInstance(1, 2, []int{3, 4})
		convey.So(err, convey.ShouldBeNil)
		convey.So(flowshop.WriteFile(path, inst), convey.ShouldBeNil)
		other, _ := flowshop.NewInstance(1, 2, []int{3, 5})

		n, err := verify([]string{path}, []*flowshop.Instance{other})

		convey.Convey("Then verification fails", func() {
			convey.So(errors.Is(err, ErrMismatch), convey.ShouldBeTrue)
			convey.So(n, convey.ShouldEqual, 0)
		})
	})
}
