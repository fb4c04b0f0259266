package diag

import (
	"bytes"
	"testing"

	"github.com/cc23/cc23/internal/token"
)

func TestGateReturnsNilWhenEmpty(t *testing.T) {
	bag := NewBag("t", nil)
	if err := bag.Gate(); err != nil {
		t.Fatalf("Gate on an empty bag returned %v, want nil", err)
	}
}

func TestGateAccumulatesAndRenders(t *testing.T) {
	bag := NewBag("t", []byte("int x\n"))
	var out bytes.Buffer
	bag.SetOutput(&out)
	bag.Addf(Syntactic, token.Pos{Line: 1, Col: 5}, "expected ';'")
	bag.Addf(SemanticScope, token.Pos{Line: 2, Col: 1}, "undeclared identifier %q", "y")
	if err := bag.Gate(); err == nil {
		t.Fatalf("Gate on a non-empty bag returned nil")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", bag.Len())
	}
	if out.Len() == 0 {
		t.Fatalf("Gate did not render any diagnostics")
	}
}

func TestNoteAttachesToMostRecentError(t *testing.T) {
	bag := NewBag("t", []byte("int x\nint x\n"))
	bag.Addf(SemanticScope, token.Pos{Line: 2, Col: 5}, "redefinition of %q", "x")
	bag.Note(token.Pos{Line: 1, Col: 5}, "previous definition here")
	errs := bag.Errors()
	if len(errs[0].Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(errs[0].Notes))
	}
}
