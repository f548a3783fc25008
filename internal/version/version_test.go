package version

import (
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	s := String()
	if s == "" {
		t.Fatalf("version string is empty")
	}
	if !strings.Contains(s, Version) || !strings.Contains(s, Commit) {
		t.Fatalf("version string missing build info: %q", s)
	}
}
