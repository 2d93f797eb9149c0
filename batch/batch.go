package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/midbel/dialect/sheetxml"
)

// Translate rewrites one formula. Implementations have to be safe for
// concurrent use: the runner calls them from several goroutines at once.
type Translate func(sheetxml.Formula) (string, error)

// Result pairs a formula with its translation. When translating failed the
// original text is kept and Err records why.
type Result struct {
	sheetxml.Formula
	Output string
	Err    error
}

// Runner feeds a batch of formulas through a fixed pool of workers. One
// malformed formula never stops the batch: its result keeps the original
// text and carries the error.
type Runner struct {
	workers int
	logger  zerolog.Logger
}

func NewRunner(workers int, logger zerolog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		workers: workers,
		logger:  logger.With().Str("component", "batch").Logger(),
	}
}

// Run translates every formula of list with fn. Results come back in input
// order. Cancelling ctx stops feeding the pool; formulas not yet handed out
// come back untranslated with the context error attached.
func (r *Runner) Run(ctx context.Context, list []sheetxml.Formula, fn Translate) []Result {
	var (
		results = make([]Result, len(list))
		jobs    = make(chan int)
		wg      sync.WaitGroup
	)
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ix := range jobs {
				results[ix] = r.translate(list[ix], fn)
			}
		}()
	}
feed:
	for i := range list {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(list); j++ {
				results[j] = Result{
					Formula: list[j],
					Output:  list[j].Text,
					Err:     ctx.Err(),
				}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (r *Runner) translate(f sheetxml.Formula, fn Translate) Result {
	res := Result{
		Formula: f,
		Output:  f.Text,
	}
	out, err := fn(f)
	if err != nil {
		res.Err = err
		r.logger.Warn().
			Str("sheet", f.Sheet).
			Str("cell", f.Cell).
			Err(err).
			Msg("formula left unchanged")
		return res
	}
	res.Output = out
	return res
}
