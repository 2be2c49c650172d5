package secondary

import (
	"context"

	"github.com/example/muse/internal/personas"
)

// ReasoningBackend completes a prompt with free text.
// Output is untrusted and must be validated by the caller.
type ReasoningBackend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageBackend renders an image from a description.
type ImageBackend interface {
	GenerateImage(ctx context.Context, description string) ([]byte, error)
}

// PersonaRegistry looks up static personas by name.
type PersonaRegistry interface {
	Lookup(name string) (personas.Persona, error)
	List() []personas.Persona
}
