package slug

import (
	"strings"
	"testing"
)

func TestAllocateGeneratesFixedLength(t *testing.T) {
	a := New(6)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := a.Allocate("")
		if err != nil {
			t.Fatal(err)
		}
		if len(s) != 6 {
			t.Fatalf("slug %q has length %d, want 6", s, len(s))
		}
		for _, r := range s {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("slug %q contains %q outside alphabet", s, r)
			}
		}
		seen[s] = true
	}
	if len(seen) < 95 {
		t.Errorf("only %d distinct slugs out of 100, generator looks broken", len(seen))
	}
}

func TestAllocatePassesRequestedThrough(t *testing.T) {
	a := New(6)
	s, err := a.Allocate("abc123")
	if err != nil {
		t.Fatal(err)
	}
	if s != "abc123" {
		t.Errorf("got %q, want abc123", s)
	}
}

func TestAllocateRejectsInvalidRequested(t *testing.T) {
	a := New(6)
	for _, bad := range []string{"has space", "a/b", "q?x=1", strings.Repeat("a", 65), "émoji"} {
		if _, err := a.Allocate(bad); err == nil {
			t.Errorf("Allocate(%q) succeeded, want error", bad)
		}
	}
}

func TestValid(t *testing.T) {
	for _, ok := range []string{"a", "abc123", "with-dash", "with_underscore", "ABCdef"} {
		if !Valid(ok) {
			t.Errorf("Valid(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"", "a b", "a.b", "a/b"} {
		if Valid(bad) {
			t.Errorf("Valid(%q) = true, want false", bad)
		}
	}
}

func TestNewDefaultsLength(t *testing.T) {
	a := New(0)
	s, err := a.Allocate("")
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != defaultLength {
		t.Errorf("got length %d, want %d", len(s), defaultLength)
	}
}
