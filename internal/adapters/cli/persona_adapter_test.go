package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/example/muse/internal/personas"
)

func TestPersonaAdapter(t *testing.T) {
	reg, err := personas.NewRegistry("")
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	adapter := NewPersonaAdapter(reg, &out)

	adapter.List()
	if !strings.Contains(out.String(), "Lucas Darkthorn") || !strings.Contains(out.String(), "Mira Vance") {
		t.Errorf("list missing personas:\n%s", out.String())
	}

	out.Reset()
	if err := adapter.Show("Mira Vance"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "**Mira Vance**") {
		t.Errorf("unexpected show output: %q", out.String())
	}

	if err := adapter.Show("Nobody"); !errors.Is(err, personas.ErrPersonaNotFound) {
		t.Errorf("expected ErrPersonaNotFound, got %v", err)
	}
}
