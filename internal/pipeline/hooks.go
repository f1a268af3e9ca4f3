package pipeline

import (
	"context"

	"github.com/electwix/sqlinclude/catalog"
)

// Output is the encoded catalog about to be written. An empty Path is
// standard output.
type Output struct {
	Path    string
	Content []byte
}

// Hooks are extension points of a run. A hook that returns an error
// aborts the run with that error.
type Hooks struct {
	// BeforeParse receives the resolved document paths.
	BeforeParse func(ctx context.Context, paths []string) error
	// AfterParse receives every parsed file, in path order.
	AfterParse func(ctx context.Context, files []*catalog.File) error
	// BeforeWrite is skipped for list and dry runs.
	BeforeWrite func(ctx context.Context, out Output) error
	// AfterWrite runs last, even when an earlier stage failed.
	AfterWrite func(ctx context.Context, summary Summary) error
}

// Chain calls h's hooks first, then other's. An error from h's hook skips
// other's.
func (h Hooks) Chain(other Hooks) Hooks {
	return Hooks{
		BeforeParse: chainHook(h.BeforeParse, other.BeforeParse),
		AfterParse:  chainHook(h.AfterParse, other.AfterParse),
		BeforeWrite: chainHook(h.BeforeWrite, other.BeforeWrite),
		AfterWrite:  chainHook(h.AfterWrite, other.AfterWrite),
	}
}

func chainHook[T any](first, second func(context.Context, T) error) func(context.Context, T) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, arg T) error {
		if err := first(ctx, arg); err != nil {
			return err
		}
		return second(ctx, arg)
	}
}
