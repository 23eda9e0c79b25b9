package validate

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tagcheck/internal/diag"
	"tagcheck/internal/facts"
	"tagcheck/internal/source"
)

// UnitResult is the outcome of validating one unit. Err is non-nil (wrapping
// ErrMalformedFacts) when the unit's facts broke the model contract; in that
// case Diagnostics holds a single Internal diagnostic.
type UnitResult struct {
	Path        string
	File        source.FileID
	Diagnostics []diag.Diagnostic
	Err         error
}

// ValidateUnits validates units concurrently with at most jobs workers
// (GOMAXPROCS when jobs <= 0). Results are indexed like units. A malformed
// unit does not affect the others; only context cancellation is returned
// as an error.
func (v *Validator) ValidateUnits(ctx context.Context, units []facts.Unit, jobs int) ([]UnitResult, error) {
	results := make([]UnitResult, len(units))
	err := FanOut(ctx, len(units), jobs, func(_ context.Context, i int) {
		// each call owns results[i]
		results[i] = v.ValidateUnit(&units[i])
	})
	return results, err
}

// FanOut calls fn once for every index in [0, n) on at most jobs workers
// (GOMAXPROCS when jobs <= 0). Indexes not yet started when ctx is done are
// skipped and the context error is returned.
func FanOut(ctx context.Context, n, jobs int, fn func(ctx context.Context, i int)) error {
	if n == 0 {
		return ctx.Err()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, n)))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ValidateUnit validates one unit, turning a malformed-facts panic into an
// Internal diagnostic.
func (v *Validator) ValidateUnit(u *facts.Unit) (res UnitResult) {
	res = UnitResult{Path: u.Path, File: u.File}
	defer func() {
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("%w: %s: %v", ErrMalformedFacts, u.Path, rec)
			res.Diagnostics = []diag.Diagnostic{{
				Severity: diag.SevError,
				Code:     diag.IntMalformedFacts,
				Kind:     diag.Internal,
				Primary:  source.Span{File: u.File},
				Message:  res.Err.Error(),
			}}
		}
	}()
	res.Diagnostics = v.Validate(u.Facts)
	return res
}
