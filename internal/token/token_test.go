package token

import (
	"bytes"
	"testing"
)

func TestLookupExactLength(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
	}{
		{"if", IF},
		{"int", INT},
		{"ifx", IDENT},   // must not be mistaken for "if" by a prefix match
		{"intx", IDENT},  // must not be mistaken for "int"
		{"_Atomic", ATOMIC},
		{"x", IDENT},
	}
	for _, tt := range tests {
		if got := Lookup(tt.ident); got != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestKindIsKeyword(t *testing.T) {
	if !INT.IsKeyword() {
		t.Errorf("INT.IsKeyword() = false, want true")
	}
	if IDENT.IsKeyword() {
		t.Errorf("IDENT.IsKeyword() = true, want false")
	}
}

func TestDump(t *testing.T) {
	toks := []Token{
		{Kind: INT, Text: "int", Pos: Pos{Line: 1, Col: 1}},
		{Kind: IDENT, Text: "x", Pos: Pos{Line: 1, Col: 5}},
		{Kind: SEMI, Text: ";", Pos: Pos{Line: 1, Col: 6}},
		{Kind: EOF, Pos: Pos{Line: 2, Col: 1}},
	}
	var buf bytes.Buffer
	Dump(&buf, toks)
	out := buf.String()
	for _, want := range []string{"int", "x", ";", "eof"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("Dump output missing %q; got:\n%s", want, out)
		}
	}
}
