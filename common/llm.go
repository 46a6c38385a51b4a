package common

import "context"

// TextGenerator is the uniform adapter contract for generative text
// backends. Implementations honor ctx cancellation; callers invoke with an
// explicit timeout and degrade gracefully on any failure.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close()
}

// ModelLister exposes provider model introspection for the list-models mode.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
