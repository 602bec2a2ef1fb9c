package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// lockedWriter serializes preview writes from concurrent workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// runConcurrent processes input files concurrently with bounded parallelism
// and API rate limiting.
func runConcurrent(ctx context.Context, provider Provider, opts Options) error {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	out := opts.PreviewOut
	if out == nil {
		out = os.Stdout
	}
	opts.PreviewOut = &lockedWriter{w: out}

	slog.Info("starting concurrent processing",
		"inputs", len(opts.InputPaths),
		"max_concurrent", maxConcurrent,
		"rate_limit_rpm", opts.RateLimitPerMin)

	// Rate limiter: tokens per second = RPM / 60.
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimitPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RateLimitPerMin)/60.0), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, input := range opts.InputPaths {
		i, input := i, input
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			slog.Info("starting input",
				"file", fmt.Sprintf("%d/%d", i+1, len(opts.InputPaths)))

			if err := processOne(gctx, provider, input, opts); err != nil {
				return err
			}

			slog.Info("input completed",
				"file", fmt.Sprintf("%d/%d", i+1, len(opts.InputPaths)))
			return nil
		})
	}

	return g.Wait()
}
