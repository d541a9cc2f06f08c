package ghdevops

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Call is one client invocation participating in a fan-out.
type Call func(ctx context.Context) (*Result, error)

// Outcome is the settled state of one Call.
type Outcome struct {
	Result *Result
	Err    error
}

// Gather runs calls concurrently and returns their results in call order.
// A failing call does not cancel the others: every call runs to completion
// on ctx, and the first error is returned once all of them have returned.
func Gather(ctx context.Context, calls ...Call) ([]*Result, error) {
	results := make([]*Result, len(calls))

	var g errgroup.Group
	for i, call := range calls {
		g.Go(func() error {
			res, err := call(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GatherSettled runs every call to completion and returns one Outcome per
// call in call order. A failing call does not affect the others.
func GatherSettled(ctx context.Context, calls ...Call) []Outcome {
	return GatherSettledLimit(ctx, 0, calls...)
}

// GatherSettledLimit is GatherSettled with at most limit calls in flight.
// A limit of zero or less means no limit.
func GatherSettledLimit(ctx context.Context, limit int, calls ...Call) []Outcome {
	outcomes := make([]Outcome, len(calls))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, call := range calls {
		g.Go(func() error {
			res, err := call(ctx)
			outcomes[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
