package resolve

import (
	"testing"

	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/lexer"
	"github.com/cc23/cc23/internal/parser"
	"github.com/cc23/cc23/internal/scope"
	"github.com/cc23/cc23/internal/token"
)

// parseAndResolve runs the full lex -> parse -> resolve pipeline over src
// and returns the resolved root plus the Resolver that built it, so tests
// can inspect the resulting type/scope bindings directly.
func parseAndResolve(t *testing.T, src string) (*ast.Root, *Resolver, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag("t", []byte(src))
	toks := lexer.New([]byte(src), "t", bag).Lex()
	root := parser.New(toks, bag).Parse()
	types := ctype.NewTable()
	scopes := scope.NewTable()
	r := New(types, scopes, bag, func(s string) string { return s })
	r.Resolve(root)
	return root, r, bag
}

func firstFuncDef(root *ast.Root) *ast.FuncDef {
	for _, d := range root.Decls {
		if fd, ok := d.(*ast.FuncDef); ok {
			return fd
		}
	}
	return nil
}

// findIdent walks fn's body for the n-th (0-indexed) occurrence of an
// *ast.Ident whose text is name, in source order.
func findIdent(n ast.Node, name string, occurrence *int, want int) *ast.Ident {
	var found *ast.Ident
	ast.Inspect(n, func(node ast.Node) bool {
		if found != nil {
			return false
		}
		if id, ok := node.(*ast.Ident); ok && id.Tok.Text == name {
			if *occurrence == want {
				found = id
			}
			*occurrence++
		}
		return found == nil
	})
	return found
}

func TestNestedBlockShadowing(t *testing.T) {
	src := `int main(void) {
	int x = 1;
	{
		int x = 2;
		x = x + 1;
	}
	x = x + 100;
	return x;
}
`
	root, r, bag := parseAndResolve(t, src)
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	fd := firstFuncDef(root)
	if fd == nil {
		t.Fatalf("no function definition parsed")
	}

	occ := 0
	innerUse := findIdent(fd.Body, "x", &occ, 1) // the right-hand x in the nested block's "x = x + 1"
	occ = 0
	outerUse := findIdent(fd.Body, "x", &occ, 3) // the right-hand x in "x = x + 100", after the nested block closes
	if innerUse == nil || outerUse == nil {
		t.Fatalf("could not locate expected identifier occurrences")
	}

	innerEntry := r.Scopes.At(r.NodeScope[innerUse])
	outerEntry := r.Scopes.At(r.NodeScope[outerUse])
	if innerEntry.Depth <= outerEntry.Depth {
		t.Errorf("inner x (depth %d) should resolve at a deeper depth than outer x (depth %d)", innerEntry.Depth, outerEntry.Depth)
	}
	if r.NodeScope[innerUse] == r.NodeScope[outerUse] {
		t.Errorf("inner and outer x must resolve to distinct scope entries")
	}
}

func TestRedefinitionInSameBlockIsAnError(t *testing.T) {
	src := `int main(void) {
	int x;
	int x;
	return 0;
}
`
	_, _, bag := parseAndResolve(t, src)
	if bag.Len() == 0 {
		t.Fatalf("expected a redefinition diagnostic, got none")
	}
}

func TestParamRedeclaredAsImmediateLocalIsAnError(t *testing.T) {
	src := `int f(int x) {
	int x;
	return x;
}
`
	_, _, bag := parseAndResolve(t, src)
	if bag.Len() == 0 {
		t.Fatalf("redeclaring a parameter as an immediate local should be a redefinition error")
	}
}

func TestDeclaratorInversionPointerToArrayOfInt(t *testing.T) {
	// "int (*p)[3];" declares p as pointer to array-of-3-int, not array
	// of pointer-to-int: the parenthesized '*' binds tighter than '[3]'.
	src := `int g;
int (*p)[3];
`
	_, r, bag := parseAndResolve(t, src)
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	idx, err := r.Scopes.Lookup(identTok("p"), lastGlobalScope(r))
	if err != nil {
		t.Fatalf("Lookup(p): %v", err)
	}
	ty := r.Types.At(r.Scopes.At(idx).Type)
	if ty.Tag != ctype.Pointer {
		t.Fatalf("p's outermost layer = %s, want pointer", ty.Tag)
	}
	inner := r.Types.At(ty.Inner)
	if inner.Tag != ctype.Array || inner.Len != 3 {
		t.Fatalf("p's pointee = %s[%d], want array[3]", inner.Tag, inner.Len)
	}
}

func TestSpecifierConflictLongAndShortTogetherIsAnError(t *testing.T) {
	src := `long short x;
`
	_, _, bag := parseAndResolve(t, src)
	if bag.Len() == 0 {
		t.Fatalf("'long short' should be rejected as an incompatible specifier combination")
	}
}

func TestSelfReferentialStructResolves(t *testing.T) {
	src := `struct Node {
	int val;
	struct Node *next;
};
`
	_, r, bag := parseAndResolve(t, src)
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	idx, err := r.Scopes.LookupTag(identTok("Node"), lastGlobalScope(r))
	if err != nil {
		t.Fatalf("LookupTag(Node): %v", err)
	}
	ty := r.Types.At(r.Scopes.At(idx).Type)
	if len(ty.Fields) != 2 {
		t.Fatalf("struct Node should have 2 fields, got %d", len(ty.Fields))
	}
	nextField := r.Types.At(ty.Fields[1].Type)
	if nextField.Tag != ctype.Pointer {
		t.Fatalf("next's type = %s, want pointer", nextField.Tag)
	}
}

func identTok(name string) token.Token { return token.Token{Kind: token.IDENT, Text: name} }

func lastGlobalScope(r *Resolver) scope.Index {
	return scope.Index(r.Scopes.Len() - 1)
}
