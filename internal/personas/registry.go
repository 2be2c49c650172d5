// Package personas provides the read-only catalog of personas.
package personas

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrPersonaNotFound is returned when a persona name is not in the catalog.
var ErrPersonaNotFound = errors.New("persona not found")

//go:embed catalog.yaml
var embeddedCatalog []byte

// Persona is a static behavioral and voice profile.
type Persona struct {
	Name                string `yaml:"name"`
	ShortDescription    string `yaml:"short_description"`
	Personality         string `yaml:"personality"`
	Interests           string `yaml:"interests"`
	BloggingVoice       string `yaml:"blogging_voice"`
	PhysicalDescription string `yaml:"physical_description"`
	Avatar              string `yaml:"avatar,omitempty"`
}

// FormatOptions selects the optional sections of a persona rendering.
type FormatOptions struct {
	IncludePhysical      bool
	IncludeBloggingVoice bool
}

// Format renders the persona for inclusion in a prompt.
func (p Persona) Format(opts FormatOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", p.Name)
	fmt.Fprintf(&b, "- **Personality Description**: %s\n", p.Personality)
	fmt.Fprintf(&b, "- **Interests**: %s", p.Interests)
	if opts.IncludeBloggingVoice {
		fmt.Fprintf(&b, "\n- **Blogging Voice**: %s", p.BloggingVoice)
	}
	if opts.IncludePhysical && p.PhysicalDescription != "" {
		fmt.Fprintf(&b, "\n- **Physical Description**: %s", p.PhysicalDescription)
	}
	return b.String()
}

type catalogFile struct {
	Personas []Persona `yaml:"personas"`
}

// Registry is an immutable persona catalog keyed by name.
type Registry struct {
	byName map[string]Persona
	names  []string
}

// NewRegistry loads the catalog. An empty path uses the embedded catalog.
func NewRegistry(path string) (*Registry, error) {
	data := embeddedCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read persona catalog: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a registry from YAML catalog bytes.
func Parse(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse persona catalog: %w", err)
	}
	if len(file.Personas) == 0 {
		return nil, errors.New("persona catalog is empty")
	}

	r := &Registry{byName: make(map[string]Persona, len(file.Personas))}
	for _, p := range file.Personas {
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.New("persona catalog entry has no name")
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate persona %q in catalog", p.Name)
		}
		r.byName[p.Name] = p
		r.names = append(r.names, p.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Lookup returns the persona with the given name.
func (r *Registry) Lookup(name string) (Persona, error) {
	p, ok := r.byName[name]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %s", ErrPersonaNotFound, name)
	}
	return p, nil
}

// List returns every persona sorted by name.
func (r *Registry) List() []Persona {
	out := make([]Persona, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n])
	}
	return out
}
