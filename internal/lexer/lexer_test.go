package lexer

import (
	"testing"

	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	bag := diag.NewBag("test", []byte(src))
	toks := New([]byte(src), "test", bag).Lex()
	if err := bag.Gate(); err != nil {
		t.Fatalf("lex errors for %q: %v", src, err)
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tk := range toks {
		ks[i] = tk.Kind
	}
	return ks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "int x = 1;")
	want := []token.Kind{token.INT, token.IDENT, token.ASSIGN, token.INT_LIT, token.SEMI, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexEndsInEOF(t *testing.T) {
	toks := lexAll(t, "")
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("empty source should lex to a lone EOF, got %v", toks)
	}
}

func TestLexIntLiteralValue(t *testing.T) {
	toks := lexAll(t, "42")
	if toks[0].Kind != token.INT_LIT || toks[0].IntVal != 42 {
		t.Fatalf("got kind=%s intval=%d, want INT_LIT 42", toks[0].Kind, toks[0].IntVal)
	}
}

func TestLexIdentNotMistakenForKeywordPrefix(t *testing.T) {
	toks := lexAll(t, "ifx")
	if toks[0].Kind != token.IDENT {
		t.Fatalf("got %s, want IDENT (ifx must not lex as keyword if)", toks[0].Kind)
	}
}

func TestLexSkipsCommentsAndWhitespace(t *testing.T) {
	toks := lexAll(t, "/* c */ int /* x */ y // trailing\n;")
	want := []token.Kind{token.INT, token.IDENT, token.SEMI, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
