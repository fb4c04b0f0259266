package parser

import (
	"testing"

	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/lexer"
)

func parse(t *testing.T, src string) (*ast.Root, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag("t", []byte(src))
	toks := lexer.New([]byte(src), "t", bag).Lex()
	root := New(toks, bag).Parse()
	return root, bag
}

func TestParseSimpleDeclaration(t *testing.T) {
	root, bag := parse(t, "int x = 1;\n")
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(root.Decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(root.Decls))
	}
	decl, ok := root.Decls[0].(*ast.Declaration)
	if !ok {
		t.Fatalf("got %T, want *ast.Declaration", root.Decls[0])
	}
	if len(decl.Declarators) != 1 {
		t.Fatalf("got %d declarators, want 1", len(decl.Declarators))
	}
	pd, ok := decl.Declarators[0].Declarator.(*ast.PlainDeclarator)
	if !ok || pd.Name == nil || pd.Name.Text != "x" {
		t.Fatalf("declarator = %#v, want plain declarator named x", decl.Declarators[0].Declarator)
	}
	if decl.Declarators[0].Init == nil {
		t.Fatalf("expected an initializer")
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	root, bag := parse(t, "int add(int a, int b) { return a + b; }\n")
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(root.Decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(root.Decls))
	}
	fd, ok := root.Decls[0].(*ast.FuncDef)
	if !ok {
		t.Fatalf("got %T, want *ast.FuncDef", root.Decls[0])
	}
	fdecl, ok := fd.Declarator.(*ast.FuncDeclarator)
	if !ok {
		t.Fatalf("declarator = %T, want *ast.FuncDeclarator", fd.Declarator)
	}
	if len(fdecl.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fdecl.Params))
	}
	if len(fd.Body.Stmts) != 1 {
		t.Fatalf("got %d body statements, want 1", len(fd.Body.Stmts))
	}
	if _, ok := fd.Body.Stmts[0].(*ast.Return); !ok {
		t.Fatalf("got %T, want *ast.Return", fd.Body.Stmts[0])
	}
}

func TestParsePointerDeclaratorBindsTighterThanArray(t *testing.T) {
	root, bag := parse(t, "int (*p)[3];\n")
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	decl := root.Decls[0].(*ast.Declaration)
	arr, ok := decl.Declarators[0].Declarator.(*ast.ArrayDeclarator)
	if !ok {
		t.Fatalf("outermost declarator = %T, want *ast.ArrayDeclarator", decl.Declarators[0].Declarator)
	}
	ptr, ok := arr.Inner.(*ast.PlainDeclarator)
	if !ok || !ptr.Pointer {
		t.Fatalf("array's inner declarator = %#v, want a pointer declarator", arr.Inner)
	}
}

func TestParseAssignmentVsTernaryDisambiguation(t *testing.T) {
	root, bag := parse(t, "int x = c ? 1 : 2;\n")
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	decl := root.Decls[0].(*ast.Declaration)
	if _, ok := decl.Declarators[0].Init.(*ast.Ternary); !ok {
		t.Fatalf("init = %T, want *ast.Ternary", decl.Declarators[0].Init)
	}
}

func TestParseSizeofTypeNameVsExpression(t *testing.T) {
	root, bag := parse(t, "int a = sizeof(int);\nint b = sizeof(x);\n")
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	a := root.Decls[0].(*ast.Declaration).Declarators[0].Init.(*ast.Sizeof)
	if a.Specs == nil || a.Operand != nil {
		t.Errorf("sizeof(int) should resolve to the type-name form")
	}
	b := root.Decls[1].(*ast.Declaration).Declarators[0].Init.(*ast.Sizeof)
	if b.Operand == nil {
		t.Errorf("sizeof(x) should resolve to the expression form")
	}
}

func TestParseCaseLeavesStmtNilForFallthroughGrouping(t *testing.T) {
	root, bag := parse(t, `int f(int c) {
	switch (c) {
	case 1:
		c = 1;
		break;
	default:
		c = 2;
	}
	return c;
}
`)
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	fd := root.Decls[0].(*ast.FuncDef)
	sw := fd.Body.Stmts[0].(*ast.Switch)
	body := sw.Body.(*ast.Block)
	caseStmt, ok := body.Stmts[0].(*ast.Case)
	if !ok {
		t.Fatalf("got %T, want *ast.Case", body.Stmts[0])
	}
	if caseStmt.Stmt != nil {
		t.Errorf("ast.Case.Stmt should stay nil; trailing statements are grouped by internal/ir, not attached here")
	}
}

func TestParseTypedefNameRecognizedAsTypeInLaterDeclaration(t *testing.T) {
	root, bag := parse(t, "typedef int myint;\nmyint x;\n")
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(root.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(root.Decls))
	}
	second, ok := root.Decls[1].(*ast.Declaration)
	if !ok {
		t.Fatalf("got %T, want *ast.Declaration (myint x recognized as a declaration)", root.Decls[1])
	}
	if second.Specs.TypedefName == nil || second.Specs.TypedefName.Text != "myint" {
		t.Fatalf("expected the second declaration's specifiers to record the typedef name myint")
	}
}

func TestParseResyncOnMalformedInput(t *testing.T) {
	_, bag := parse(t, "int x = ;\n")
	if bag.Len() == 0 {
		t.Fatalf("expected a diagnostic for the malformed declaration")
	}
}

func TestParseEOFToken(t *testing.T) {
	_, bag := parse(t, "")
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics on empty input: %v", err)
	}
}
