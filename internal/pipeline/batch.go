package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/landscape/pkg/export"
)

const lz4Extension = ".lz4"

// BatchJobs maps each input to outDir/<name><ext>, where ext follows the
// output format and gains ".lz4" when compressing. An empty outDir writes
// next to each input.
func BatchJobs(inputs []string, outDir string, format export.Format, compress bool) ([]Job, error) {
	ext := format.Extension()
	if compress {
		ext += lz4Extension
	}

	jobs := make([]Job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))

	for _, input := range inputs {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(input)
		}

		name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		output := filepath.Join(dir, name+ext)

		if prev, dup := seen[output]; dup {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateOutput, prev, input, output)
		}

		seen[output] = input
		jobs = append(jobs, Job{Input: input, Output: output})
	}

	return jobs, nil
}

// RunBatch runs jobs concurrently with at most workers in flight (zero means
// GOMAXPROCS). Every job runs even when others fail; reports keep job order
// and the returned error joins all failures.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job, workers int) ([]Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	reports := make([]Report, len(jobs))
	errs := make([]error, len(jobs))

	var group errgroup.Group

	group.SetLimit(workers)

	for idx, job := range jobs {
		group.Go(func() error {
			report, err := r.Run(ctx, job)
			report.Err = err
			reports[idx], errs[idx] = report, err

			return nil
		})
	}

	waitErr := group.Wait()
	if waitErr != nil {
		return reports, fmt.Errorf("batch: %w", waitErr)
	}

	return reports, errors.Join(errs...)
}
