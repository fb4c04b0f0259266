package ast

import (
	"fmt"
	"io"
)

// Fdump writes the indented AST dump described in the specification: two
// spaces per level, each node printing its kind and, when relevant, its
// token text, with short labels (lhs:, rhs:, cnd:, ...) prefixing labeled
// children.
func Fdump(w io.Writer, n Node) {
	dumpNode(w, "", n, 0)
}

func indent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
}

func dumpNode(w io.Writer, label string, n Node, depth int) {
	indent(w, depth)
	if label != "" {
		fmt.Fprintf(w, "%s", label)
	}
	if n == nil {
		fmt.Fprintln(w, "<nil>")
		return
	}
	fmt.Fprintf(w, "%s", kindName(n))
	if tok, ok := tokenText(n); ok {
		fmt.Fprintf(w, " %q", tok)
	}
	fmt.Fprintln(w)

	switch n := n.(type) {
	case *Root:
		for _, d := range n.Decls {
			dumpNode(w, "dcl: ", d, depth+1)
		}
	case *DeclSpec:
		if n.Tag != nil {
			dumpNode(w, "typ: ", n.Tag, depth+1)
		}
	case *PlainDeclarator:
		dumpNode(w, "nxt: ", n.Inner, depth+1)
	case *ArrayDeclarator:
		dumpNode(w, "nxt: ", n.Inner, depth+1)
		if n.Size != nil {
			dumpNode(w, "arr: ", n.Size, depth+1)
		}
	case *FuncDeclarator:
		dumpNode(w, "nxt: ", n.Inner, depth+1)
		for _, p := range n.Params {
			dumpNode(w, "arg: ", p.Declarator, depth+1)
		}
	case *InitDeclarator:
		dumpNode(w, "dcl: ", n.Declarator, depth+1)
		if n.Init != nil {
			dumpNode(w, "ini: ", n.Init, depth+1)
		}
	case *Declaration:
		dumpNode(w, "typ: ", n.Specs, depth+1)
		for _, d := range n.Declarators {
			dumpNode(w, "dcl: ", d, depth+1)
		}
	case *FuncDef:
		dumpNode(w, "typ: ", n.Specs, depth+1)
		dumpNode(w, "dcl: ", n.Declarator, depth+1)
		dumpNode(w, "bdy: ", n.Body, depth+1)
	case *StructDef:
		for _, f := range n.Fields {
			dumpNode(w, "dcl: ", f, depth+1)
		}
	case *UnionDef:
		for _, f := range n.Fields {
			dumpNode(w, "dcl: ", f, depth+1)
		}
	case *EnumDef:
		for _, e := range n.Enumerators {
			dumpNode(w, "dcl: ", e, depth+1)
		}
	case *Field:
		dumpNode(w, "typ: ", n.Specs, depth+1)
		dumpNode(w, "dcl: ", n.Declarator, depth+1)
	case *Enumerator:
		if n.Value != nil {
			dumpNode(w, "ini: ", n.Value, depth+1)
		}
	case *StaticAssert:
		dumpNode(w, "cnd: ", n.Cond, depth+1)
	case *Binary:
		dumpNode(w, "lhs: ", n.LHS, depth+1)
		dumpNode(w, "rhs: ", n.RHS, depth+1)
	case *Unary:
		dumpNode(w, "rhs: ", n.Operand, depth+1)
	case *Subscript:
		dumpNode(w, "arr: ", n.Array, depth+1)
		dumpNode(w, "sub: ", n.Index, depth+1)
	case *Call:
		dumpNode(w, "fun: ", n.Fun, depth+1)
		for _, a := range n.Args {
			dumpNode(w, "arg: ", a, depth+1)
		}
	case *Member:
		dumpNode(w, "lhs: ", n.Object, depth+1)
	case *Ternary:
		dumpNode(w, "cnd: ", n.Cond, depth+1)
		dumpNode(w, "tru: ", n.True, depth+1)
		dumpNode(w, "fls: ", n.False, depth+1)
	case *Assign:
		dumpNode(w, "lhs: ", n.LHS, depth+1)
		dumpNode(w, "rhs: ", n.RHS, depth+1)
	case *Cast:
		dumpNode(w, "typ: ", n.Specs, depth+1)
		dumpNode(w, "rhs: ", n.Operand, depth+1)
	case *Sizeof:
		if n.Operand != nil {
			dumpNode(w, "rhs: ", n.Operand, depth+1)
		} else {
			dumpNode(w, "typ: ", n.Specs, depth+1)
		}
	case *Block:
		for _, s := range n.Stmts {
			dumpNode(w, "blk: ", s, depth+1)
		}
	case *If:
		dumpNode(w, "cnd: ", n.Cond, depth+1)
		dumpNode(w, "tru: ", n.Then, depth+1)
		if n.Else != nil {
			dumpNode(w, "fls: ", n.Else, depth+1)
		}
	case *While:
		dumpNode(w, "cnd: ", n.Cond, depth+1)
		dumpNode(w, "bdy: ", n.Body, depth+1)
	case *DoWhile:
		dumpNode(w, "bdy: ", n.Body, depth+1)
		dumpNode(w, "cnd: ", n.Cond, depth+1)
	case *For:
		if n.Init != nil {
			dumpNode(w, "dcl: ", n.Init, depth+1)
		}
		if n.Cond != nil {
			dumpNode(w, "cnd: ", n.Cond, depth+1)
		}
		if n.Post != nil {
			dumpNode(w, "nxt: ", n.Post, depth+1)
		}
		dumpNode(w, "bdy: ", n.Body, depth+1)
	case *Switch:
		dumpNode(w, "cnd: ", n.Tag, depth+1)
		dumpNode(w, "bdy: ", n.Body, depth+1)
	case *Case:
		dumpNode(w, "cnd: ", n.Value, depth+1)
		dumpNode(w, "bdy: ", n.Stmt, depth+1)
	case *Default:
		dumpNode(w, "bdy: ", n.Stmt, depth+1)
	case *Goto:
	case *Label:
		dumpNode(w, "bdy: ", n.Stmt, depth+1)
	case *Return:
		if n.Value != nil {
			dumpNode(w, "rhs: ", n.Value, depth+1)
		}
	case *ExprStmt:
		dumpNode(w, "rhs: ", n.Expr, depth+1)
	}
}

func kindName(n Node) string {
	switch n.(type) {
	case *Root:
		return "Root"
	case *DeclSpec:
		return "DeclSpec"
	case *PlainDeclarator:
		return "PlainDeclarator"
	case *ArrayDeclarator:
		return "ArrayDeclarator"
	case *FuncDeclarator:
		return "FuncDeclarator"
	case *InitDeclarator:
		return "InitDeclarator"
	case *Declaration:
		return "Declaration"
	case *FuncDef:
		return "FuncDef"
	case *StructDef:
		return "StructDef"
	case *UnionDef:
		return "UnionDef"
	case *EnumDef:
		return "EnumDef"
	case *Field:
		return "Field"
	case *Enumerator:
		return "Enumerator"
	case *StaticAssert:
		return "StaticAssert"
	case *Ident:
		return "Ident"
	case *Literal:
		return "Literal"
	case *Binary:
		return "Binary"
	case *Unary:
		return "Unary"
	case *Subscript:
		return "Subscript"
	case *Call:
		return "Call"
	case *Member:
		return "Member"
	case *Ternary:
		return "Ternary"
	case *Assign:
		return "Assign"
	case *Cast:
		return "Cast"
	case *Sizeof:
		return "Sizeof"
	case *Block:
		return "Block"
	case *If:
		return "If"
	case *While:
		return "While"
	case *DoWhile:
		return "DoWhile"
	case *For:
		return "For"
	case *Switch:
		return "Switch"
	case *Case:
		return "Case"
	case *Default:
		return "Default"
	case *Break:
		return "Break"
	case *Continue:
		return "Continue"
	case *Goto:
		return "Goto"
	case *Label:
		return "Label"
	case *Return:
		return "Return"
	case *Null:
		return "Null"
	case *ExprStmt:
		return "ExprStmt"
	case *Error:
		return "Error"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// tokenText returns the token text worth printing alongside a node's kind,
// for kinds where that's useful (identifiers, literals, operators, labels).
func tokenText(n Node) (string, bool) {
	switch n := n.(type) {
	case *Ident:
		return n.Tok.Text, true
	case *Literal:
		return n.Tok.Text, true
	case *Binary:
		return n.Op.String(), true
	case *Unary:
		return n.Op.String(), true
	case *Assign:
		return n.Op.String(), true
	case *Goto:
		return n.Label.Text, true
	case *Label:
		return n.Name.Text, true
	case *Member:
		return n.Field.Text, true
	case *PlainDeclarator:
		if n.Name != nil {
			return n.Name.Text, true
		}
		return "", false
	}
	return "", false
}
