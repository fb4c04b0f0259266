package scope

import (
	"errors"
	"testing"

	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/token"
)

func tok(name string) token.Token { return token.Token{Kind: token.IDENT, Text: name} }

func TestDeclareThenLookup(t *testing.T) {
	tbl := NewTable()
	idx, err := tbl.Declare(tok("x"), None, 0, ctype.Index(1), Auto, Ordinary)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	got, err := tbl.Lookup(tok("x"), idx)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != idx {
		t.Errorf("Lookup returned %d, want %d", got, idx)
	}
}

func TestRedefinitionAtSameDepth(t *testing.T) {
	tbl := NewTable()
	idx, _ := tbl.Declare(tok("x"), None, 0, ctype.Index(1), Auto, Ordinary)
	_, err := tbl.Declare(tok("x"), idx, 0, ctype.Index(1), Auto, Ordinary)
	var redef *RedefinitionError
	if !errors.As(err, &redef) {
		t.Fatalf("expected RedefinitionError, got %v", err)
	}
}

func TestShadowingAtDeeperDepthAllowed(t *testing.T) {
	tbl := NewTable()
	outer, err := tbl.Declare(tok("x"), None, 0, ctype.Index(1), Auto, Ordinary)
	if err != nil {
		t.Fatalf("Declare outer: %v", err)
	}
	inner, err := tbl.Declare(tok("x"), outer, 1, ctype.Index(2), Auto, Ordinary)
	if err != nil {
		t.Fatalf("shadowing at a deeper block depth should be allowed: %v", err)
	}
	got, err := tbl.Lookup(tok("x"), inner)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != inner {
		t.Errorf("Lookup from the inner scope should find the inner x, got entry %d (outer=%d inner=%d)", got, outer, inner)
	}
	if tbl.At(got).Type != ctype.Index(2) {
		t.Errorf("inner x has type %d, want 2", tbl.At(got).Type)
	}
}

func TestOrdinaryAndTagNamespacesDoNotCollide(t *testing.T) {
	tbl := NewTable()
	ordIdx, err := tbl.Declare(tok("Point"), None, 0, ctype.Index(1), StorageNone, Ordinary)
	if err != nil {
		t.Fatalf("Declare ordinary: %v", err)
	}
	tagIdx, err := tbl.Declare(tok("Point"), ordIdx, 0, ctype.Index(2), StorageNone, Tag)
	if err != nil {
		t.Fatalf("declaring the same name in the tag namespace should not conflict: %v", err)
	}
	if got, err := tbl.Lookup(tok("Point"), tagIdx); err != nil || got != ordIdx {
		t.Errorf("Lookup(ordinary) = %d, %v; want %d, nil", got, err, ordIdx)
	}
	if got, err := tbl.LookupTag(tok("Point"), tagIdx); err != nil || got != tagIdx {
		t.Errorf("LookupTag = %d, %v; want %d, nil", got, err, tagIdx)
	}
}

func TestLookupUndeclared(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.Lookup(tok("nope"), None)
	var undecl *UndeclaredError
	if !errors.As(err, &undecl) {
		t.Fatalf("expected UndeclaredError, got %v", err)
	}
}
