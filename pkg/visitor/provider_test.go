package visitor

import (
	"strings"
	"testing"
)

func TestVisitorIDIsStable(t *testing.T) {
	dir := t.TempDir()

	p, err := NewProvider(dir)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	first, err := p.GetOrCreateVisitorID()
	if err != nil {
		t.Fatalf("GetOrCreateVisitorID: %v", err)
	}
	if !strings.HasPrefix(first, "visitor_") {
		t.Errorf("id = %q, want visitor_ prefix", first)
	}

	second, err := p.GetOrCreateVisitorID()
	if err != nil {
		t.Fatalf("second GetOrCreateVisitorID: %v", err)
	}
	if second != first {
		t.Errorf("id changed within one open store: %q -> %q", first, second)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening the same directory must yield the same identity.
	p, err = NewProvider(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p.Close()

	third, err := p.GetOrCreateVisitorID()
	if err != nil {
		t.Fatalf("GetOrCreateVisitorID after reopen: %v", err)
	}
	if third != first {
		t.Errorf("id not persisted across reopen: %q -> %q", first, third)
	}
}

func TestDistinctStoresGetDistinctIDs(t *testing.T) {
	a, err := NewProvider(t.TempDir())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer a.Close()
	b, err := NewProvider(t.TempDir())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer b.Close()

	idA, err := a.GetOrCreateVisitorID()
	if err != nil {
		t.Fatalf("GetOrCreateVisitorID: %v", err)
	}
	idB, err := b.GetOrCreateVisitorID()
	if err != nil {
		t.Fatalf("GetOrCreateVisitorID: %v", err)
	}
	if idA == idB {
		t.Errorf("two stores produced the same id %q", idA)
	}
}
