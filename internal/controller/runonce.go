package controller

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentPolls limits parallel one-shot fetches.
const maxConcurrentPolls = 5

// Result reports the outcome of one controller's poll in a one-shot run.
type Result struct {
	Name  string
	Items int
	Err   error
}

// RunOnce polls every controller exactly once, in parallel, and returns the
// per-source results in the same order as the input. Errors are reported
// per source, never failing the group.
func RunOnce(ctx context.Context, controllers []*Controller) []Result {
	results := make([]Result, len(controllers))

	var g errgroup.Group
	g.SetLimit(maxConcurrentPolls)

	for i, c := range controllers {
		i, c := i, c
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = Result{Name: c.opts.Name, Err: ctx.Err()}
				return nil
			}
			n, err := c.PollOnce(ctx)
			results[i] = Result{Name: c.opts.Name, Items: n, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
