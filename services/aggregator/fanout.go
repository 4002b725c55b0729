package aggregator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome pairs a reference with the result of fetching it.
type Outcome[R any, T any] struct {
	Ref   R
	Value T
	Err   error
}

// FanOut runs fetch once per ref concurrently and waits for every call.
// Outcomes come back in input order regardless of completion order. A limit
// of zero or less means no concurrency cap. A failed fetch never cancels its
// peers; only ctx does.
func FanOut[R any, T any](ctx context.Context, refs []R, limit int, fetch func(context.Context, R) (T, error)) []Outcome[R, T] {
	out := make([]Outcome[R, T], len(refs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, ref := range refs {
		g.Go(func() error {
			v, err := fetch(ctx, ref)
			out[i] = Outcome[R, T]{Ref: ref, Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Survivors keeps successful values in input order and returns the refs
// that failed alongside.
func Survivors[R any, T any](outcomes []Outcome[R, T]) ([]T, []R) {
	values := make([]T, 0, len(outcomes))
	var failed []R
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.Ref)
			continue
		}
		values = append(values, o.Value)
	}
	return values, failed
}
