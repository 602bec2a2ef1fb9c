package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// runSequential processes input files one at a time.
func runSequential(ctx context.Context, provider Provider, opts Options) error {
	for i, input := range opts.InputPaths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if len(opts.InputPaths) > 1 {
			slog.Info("processing input",
				"file", fmt.Sprintf("%d/%d", i+1, len(opts.InputPaths)),
				"name", filepath.Base(input))
		}

		if err := processOne(ctx, provider, input, opts); err != nil {
			return err
		}
	}
	return nil
}
