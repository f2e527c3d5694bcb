package instancegen

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/arena/internal/problems/flowshop"
	"github.com/okian/arena/pkg/logger"
)

const directoryPermission = 0o750

type job struct {
	index int
	path  string
}

type jobResult struct {
	index int
	inst  *flowshop.Instance
	err   error
}

// Run writes cfg.Count instances and optionally verifies them.
func Run(ctx context.Context, cfg *Config) (Stats, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	l := logger.Get().Named("instancegen")
	l.Info(ctx, "generating instances",
		logger.Int("count", cfg.Count),
		logger.Int("jobs", cfg.Jobs),
		logger.Int("machines", cfg.Machines),
		logger.String("format", string(cfg.Encoding)),
		logger.String("dir", cfg.OutDir),
	)

	if err := os.MkdirAll(cfg.OutDir, directoryPermission); err != nil {
		return Stats{}, fmt.Errorf("create output directory: %w", err)
	}

	stats := Stats{Files: make([]string, cfg.Count)}
	written := make([]*flowshop.Instance, cfg.Count)

	jobs := make(chan job)
	results := make(chan jobResult, cfg.Workers)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				inst, err := generate(cfg, j)
				results <- jobResult{index: j.index, inst: inst, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Count; i++ {
			path := filepath.Join(cfg.OutDir, fileName(cfg, i))
			stats.Files[i] = path
			select {
			case jobs <- job{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var errs []error
	for r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		written[r.index] = r.inst
		stats.Generated++
	}
	if err := errors.Join(errs...); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if cfg.Verify {
		n, err := verify(stats.Files, written)
		stats.Verified = n
		if err != nil {
			return stats, err
		}
	}

	stats.Duration = time.Since(start)
	l.Info(ctx, "instances written",
		logger.Int("generated", stats.Generated),
		logger.Int("verified", stats.Verified),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func generate(cfg *Config, j job) (*flowshop.Instance, error) {
	rng := rand.New(rand.NewSource(cfg.Seed + int64(j.index)))
	inst, err := flowshop.Random(cfg.Jobs, cfg.Machines, cfg.MinTime, cfg.MaxTime, rng)
	if err != nil {
		return nil, fmt.Errorf("instance %d: %w", j.index, err)
	}
	if err := flowshop.WriteFile(j.path, inst); err != nil {
		return nil, fmt.Errorf("instance %d: %w", j.index, err)
	}
	return inst, nil
}

func fileName(cfg *Config, i int) string {
	ext := ".txt"
	if cfg.Encoding == flowshop.EncodingYAML {
		ext = ".yaml"
	}
	return fmt.Sprintf("%s-%dx%d-%03d%s", cfg.Prefix, cfg.Jobs, cfg.Machines, i, ext)
}
