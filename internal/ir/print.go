package ir

import (
	"fmt"
	"io"

	"github.com/cc23/cc23/internal/scope"
)

// Fdump writes fn's basic blocks and instructions in the specification's
// IR dump format: one instruction per line, "r<index> := <op>
// <operand>, <operand>", with a scope-name prefix on registers that
// correspond to a source variable, and "label: <name>:" lines marking
// block entry.
func Fdump(w io.Writer, scopes *scope.Table, fn *Function) {
	fmt.Fprintf(w, "func %s {\n", fn.Name)
	for _, blk := range fn.Blocks {
		fmt.Fprintf(w, "label: %s:\n", blk.Name)
		for _, v := range blk.Instrs {
			fmt.Fprintf(w, "  %s\n", formatInstr(scopes, v))
		}
	}
	fmt.Fprintln(w, "}")
}

func formatInstr(scopes *scope.Table, v *Value) string {
	reg := regName(scopes, v)
	if v.Phi {
		return fmt.Sprintf("%s := phi %s", reg, formatOperandList(scopes, v.Args))
	}
	switch v.Op {
	case OpImm:
		return fmt.Sprintf("%s := imm %d", reg, v.Imm)
	case OpParam:
		return fmt.Sprintf("%s := param %d", reg, v.ParamIndex)
	case OpJmp:
		return fmt.Sprintf("jmp %s", v.Label)
	case OpJz:
		return fmt.Sprintf("jz %s, %s", formatOperand(scopes, v.Args[0]), v.Label)
	case OpRet:
		if len(v.Args) == 0 {
			return "ret"
		}
		return fmt.Sprintf("ret %s", formatOperand(scopes, v.Args[0]))
	case OpTest:
		return fmt.Sprintf("%s := test.%s %s", reg, v.Cmp, formatOperandList(scopes, v.Args))
	case OpCall:
		return fmt.Sprintf("%s := call %s", reg, formatOperandList(scopes, v.Args))
	case OpSt:
		return fmt.Sprintf("st %s", formatOperandList(scopes, v.Args))
	default:
		if len(v.Args) == 0 {
			return fmt.Sprintf("%s := %s", reg, v.Op)
		}
		return fmt.Sprintf("%s := %s %s", reg, v.Op, formatOperandList(scopes, v.Args))
	}
}

func formatOperandList(scopes *scope.Table, vs []*Value) string {
	s := ""
	for i, v := range vs {
		if i > 0 {
			s += ", "
		}
		s += formatOperand(scopes, v)
	}
	return s
}

func formatOperand(scopes *scope.Table, v *Value) string {
	if v == nil {
		return "<nil>"
	}
	return regName(scopes, v)
}

func regName(scopes *scope.Table, v *Value) string {
	if v.Scope != scope.None && scopes != nil {
		return fmt.Sprintf("r%d.%s", v.Index, scopes.At(v.Scope).Name)
	}
	return fmt.Sprintf("r%d", v.Index)
}
