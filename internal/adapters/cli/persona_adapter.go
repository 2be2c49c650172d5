package cli

import (
	"fmt"
	"io"

	"github.com/example/muse/internal/personas"
	"github.com/example/muse/internal/ports/secondary"
)

// PersonaAdapter prints entries from the persona registry.
type PersonaAdapter struct {
	registry secondary.PersonaRegistry
	out      io.Writer
}

// NewPersonaAdapter creates a new PersonaAdapter.
func NewPersonaAdapter(registry secondary.PersonaRegistry, out io.Writer) *PersonaAdapter {
	return &PersonaAdapter{registry: registry, out: out}
}

// List lists every persona.
func (a *PersonaAdapter) List() {
	for _, p := range a.registry.List() {
		fmt.Fprintf(a.out, "%-20s %s\n", p.Name, p.ShortDescription)
	}
}

// Show prints a persona in full.
func (a *PersonaAdapter) Show(name string) error {
	p, err := a.registry.Lookup(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, p.Format(personas.FormatOptions{IncludePhysical: true, IncludeBloggingVoice: true}))
	return nil
}
