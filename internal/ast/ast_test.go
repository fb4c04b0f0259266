package ast

import (
	"bytes"
	"testing"

	"github.com/cc23/cc23/internal/token"
)

func TestFdumpSmoke(t *testing.T) {
	name := token.Token{Kind: token.IDENT, Text: "x"}
	lit := token.Token{Kind: token.INT_LIT, Text: "1", IntVal: 1}
	root := &Root{
		Base: NewBase(name, lit),
		Decls: []Node{
			&Declaration{
				Base: NewBase(name, lit),
				Specs: &DeclSpec{
					Base:   NewBase(name, name),
					Tokens: []token.Token{{Kind: token.INT, Text: "int"}},
				},
				Declarators: []*InitDeclarator{
					{
						Base:       NewBase(name, lit),
						Declarator: &PlainDeclarator{Base: NewBase(name, name), Name: &name},
						Init:       &Literal{Base: NewBase(lit, lit), Tok: lit},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	Fdump(&buf, root)
	if buf.Len() == 0 {
		t.Fatalf("Fdump produced no output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("x")) {
		t.Errorf("Fdump output missing declared name %q:\n%s", "x", buf.String())
	}
}

func TestBaseFirstLastFallBackToFirstTok(t *testing.T) {
	tk := token.Token{Kind: token.IDENT, Text: "x"}
	b := NewBase(tk, token.Token{})
	if b.Last() != tk {
		t.Errorf("Last() with a zero LastTok should fall back to FirstTok")
	}
}
