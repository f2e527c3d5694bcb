package sink_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/arena/internal/adapters/sink"
	"github.com/okian/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestFileSink(t *testing.T) {
	Convey("Given a file sink in a temp directory", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "output")
		var stdout bytes.Buffer
		s := sink.NewFileSink(sink.WithPath(path), sink.WithStdout(&stdout))
		ctx := context.Background()

		Convey("When emitting a formatted solution", func() {
			err := s.Emit(ctx, "3 1 2")

			Convey("Then it is printed and written verbatim", func() {
				So(err, ShouldBeNil)
				So(stdout.String(), ShouldEqual, "3 1 2\n")
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldEqual, "3 1 2")
				So(s.Path(), ShouldEqual, path)
			})
		})

		Convey("When emitting twice", func() {
			So(s.Emit(ctx, "a much longer first result"), ShouldBeNil)
			So(s.Emit(ctx, "short"), ShouldBeNil)

			Convey("Then the previous contents are overwritten", func() {
				data, _ := os.ReadFile(path)
				So(string(data), ShouldEqual, "short")
			})
		})

		Convey("When reporting", func() {
			err := s.Report(ctx, 42, 1234*time.Millisecond)

			Convey("Then the report follows the console format", func() {
				So(err, ShouldBeNil)
				So(stdout.String(), ShouldEqual, "Successfully solved input\n\nWeight: 42\nElapsed: 1234 milliseconds\n")
			})
		})

		Convey("When the artifact cannot be created", func() {
			bad := sink.NewFileSink(sink.WithPath(filepath.Join(dir, "missing", "output")), sink.WithStdout(io.Discard))
			err := bad.Emit(ctx, "x")

			Convey("Then ErrEmit is returned", func() {
				So(errors.Is(err, sink.ErrEmit), ShouldBeTrue)
			})
		})

		Convey("When the console is broken", func() {
			bad := sink.NewFileSink(sink.WithPath(path), sink.WithStdout(failingWriter{}))

			Convey("Then both operations fail with ErrEmit", func() {
				So(errors.Is(bad.Emit(ctx, "x"), sink.ErrEmit), ShouldBeTrue)
				So(errors.Is(bad.Report(ctx, 1, time.Second), sink.ErrEmit), ShouldBeTrue)
			})
		})

		Convey("When using defaults", func() {
			def := sink.NewFileSink()

			Convey("Then the artifact is named output", func() {
				So(def.Path(), ShouldEqual, sink.DefaultPath)
			})
		})
	})
}
