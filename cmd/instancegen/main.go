package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/arena/internal/instancegen"
	"github.com/okian/arena/internal/problems/flowshop"
	"github.com/okian/arena/pkg/logger"
)

// Default configuration constants.
const (
	defaultCount    = 5
	defaultJobs     = 20
	defaultMachines = 5
	defaultMaxTime  = 99
)

func main() {
	var (
		count    = flag.Int("count", defaultCount, "Number of instances to write")
		jobs     = flag.Int("jobs", defaultJobs, "Jobs per instance")
		machines = flag.Int("machines", defaultMachines, "Machines per instance")
		minTime  = flag.Int("min", flowshop.DefaultMinTime, "Smallest processing time")
		maxTime  = flag.Int("max", defaultMaxTime, "Largest processing time")
		seed     = flag.Int64("seed", 1, "Seed of the first instance")
		outDir   = flag.String("out", "instances", "Output directory")
		prefix   = flag.String("prefix", "flowshop", "File name prefix")
		format   = flag.String("format", string(flowshop.EncodingText), "text or yaml")
		workers  = flag.Int("workers", runtime.NumCPU(), "Concurrent writers")
		verify   = flag.Bool("verify", true, "Read every file back after writing")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		instancegen.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &instancegen.Config{
		Count:    *count,
		Jobs:     *jobs,
		Machines: *machines,
		MinTime:  *minTime,
		MaxTime:  *maxTime,
		Seed:     *seed,
		OutDir:   *outDir,
		Prefix:   *prefix,
		Encoding: flowshop.Encoding(*format),
		Workers:  *workers,
		Verify:   *verify,
	}

	stats, err := instancegen.Run(ctx, cfg)
	if err != nil {
		logger.Get().Error(ctx, "generation failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
	for _, f := range stats.Files {
		_, _ = os.Stdout.WriteString(f + "\n")
	}
}
