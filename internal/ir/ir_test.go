package ir

import (
	"testing"

	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/lexer"
	"github.com/cc23/cc23/internal/parser"
	"github.com/cc23/cc23/internal/resolve"
	"github.com/cc23/cc23/internal/scope"
)

// buildPipeline runs lex -> parse -> resolve -> build over src and returns
// the lowered functions, for tests that need to inspect real SSA shape
// rather than hand-assembling Function/BasicBlock values.
func buildPipeline(t *testing.T, src string) ([]*Function, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag("t", []byte(src))
	toks := lexer.New([]byte(src), "t", bag).Lex()
	root := parser.New(toks, bag).Parse()
	types := ctype.NewTable()
	scopes := scope.NewTable()
	r := resolve.New(types, scopes, bag, func(s string) string { return s })
	r.Resolve(root)
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics before build: %v", err)
	}
	bind := Bindings{NodeType: r.NodeType, NodeScope: r.NodeScope}
	funcs := Build(root, types, scopes, bind, bag)
	return funcs, bag
}

func blockNamed(fn *Function, name string) *BasicBlock {
	for _, b := range fn.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func hasPhi(b *BasicBlock) bool {
	for _, v := range b.Instrs {
		if v.Op == OpPhi {
			return true
		}
	}
	return false
}

func TestIfElseMergeInsertsPhi(t *testing.T) {
	src := `int f(int c) {
	int x;
	if (c) {
		x = 1;
	} else {
		x = 2;
	}
	return x;
}
`
	funcs, bag := buildPipeline(t, src)
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(funcs) != 1 {
		t.Fatalf("got %d functions, want 1", len(funcs))
	}
	end := blockNamed(funcs[0], "if.end")
	if end == nil {
		t.Fatalf("no if.end block found")
	}
	if !hasPhi(end) {
		t.Errorf("if.end should contain a phi for x, assigned differently on each branch")
	}
}

func TestLoopCarriedVariableGetsPhi(t *testing.T) {
	src := `int f(void) {
	int i = 0;
	while (i) {
		i = i + 1;
	}
	return i;
}
`
	funcs, bag := buildPipeline(t, src)
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	testBlk := blockNamed(funcs[0], "while.test")
	if testBlk == nil {
		t.Fatalf("no while.test block found")
	}
	if !hasPhi(testBlk) {
		t.Errorf("while.test should contain a phi for the loop-carried variable i")
	}
}

func TestSwitchGroupsTrailingStatementsIntoOpenCase(t *testing.T) {
	// The parser leaves ast.Case.Stmt nil; collectSwitchBody groups
	// subsequent plain statements into the currently open case.
	src := `int f(int c) {
	int r = 0;
	switch (c) {
	case 1:
		r = 10;
		break;
	default:
		r = 99;
		break;
	}
	return r;
}
`
	funcs, bag := buildPipeline(t, src)
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(funcs) != 1 || len(funcs[0].Blocks) == 0 {
		t.Fatalf("expected a lowered function with blocks")
	}
	caseBlk := blockNamed(funcs[0], "switch.case")
	if caseBlk == nil {
		t.Fatalf("no switch.case block found")
	}
	hasMove := false
	for _, v := range caseBlk.Instrs {
		if v.Op == OpMove {
			hasMove = true
		}
	}
	if !hasMove {
		t.Errorf("switch.case should hold the assignment r = 10 that follows the case 1 label")
	}
}

func TestParamDeclaredFunctionBuildsEntryBlock(t *testing.T) {
	funcs, bag := buildPipeline(t, "int id(int x) { return x; }\n")
	if err := bag.Gate(); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(funcs) != 1 {
		t.Fatalf("got %d functions, want 1", len(funcs))
	}
	if len(funcs[0].Params) != 1 {
		t.Fatalf("got %d params, want 1", len(funcs[0].Params))
	}
}
