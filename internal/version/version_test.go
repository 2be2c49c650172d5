package version

import (
	"strings"
	"testing"
)

func TestString_ShortensCommit(t *testing.T) {
	old := Commit
	t.Cleanup(func() { Commit = old })

	Commit = "0123456789abcdef"
	got := String()
	if !strings.Contains(got, "commit: 0123456,") {
		t.Errorf("String() = %q, want short commit", got)
	}
	if !strings.HasPrefix(got, "muse ") {
		t.Errorf("String() = %q, want muse prefix", got)
	}
}
