package ast

// Visitor is called once per node by Walk. If Visit returns a non-nil
// Visitor w, Walk visits n's children with w; it then calls w.Visit(nil)
// after the last child, mirroring go/ast.Walk's shape. Returning nil stops
// descent into n's children.
type Visitor interface {
	Visit(n Node) Visitor
}

// Walk traverses an AST in depth-first order. The printer, the resolver,
// and the IR builder do not use it; each has its own switch over the node
// variants.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	v = v.Visit(n)
	if v == nil {
		return
	}
	defer v.Visit(nil)

	switch n := n.(type) {
	case *Root:
		walkAll(v, n.Decls)
	case *DeclSpec:
		Walk(v, n.Tag)
	case *PlainDeclarator:
		Walk(v, n.Inner)
	case *ArrayDeclarator:
		Walk(v, n.Inner)
		Walk(v, n.Size)
	case *FuncDeclarator:
		Walk(v, n.Inner)
		for _, p := range n.Params {
			Walk(v, p.Specs)
			Walk(v, p.Declarator)
		}
	case *InitDeclarator:
		Walk(v, n.Declarator)
		Walk(v, n.Init)
	case *Declaration:
		Walk(v, n.Specs)
		for _, d := range n.Declarators {
			Walk(v, d)
		}
	case *FuncDef:
		Walk(v, n.Specs)
		Walk(v, n.Declarator)
		Walk(v, n.Body)
	case *StructDef:
		for _, f := range n.Fields {
			Walk(v, f)
		}
	case *UnionDef:
		for _, f := range n.Fields {
			Walk(v, f)
		}
	case *EnumDef:
		for _, e := range n.Enumerators {
			Walk(v, e)
		}
	case *Field:
		Walk(v, n.Specs)
		Walk(v, n.Declarator)
	case *Enumerator:
		Walk(v, n.Value)
	case *StaticAssert:
		Walk(v, n.Cond)
	case *Ident, *Literal, *Break, *Continue, *Goto, *Null, *Error:
		// leaves
	case *Binary:
		Walk(v, n.LHS)
		Walk(v, n.RHS)
	case *Unary:
		Walk(v, n.Operand)
	case *Subscript:
		Walk(v, n.Array)
		Walk(v, n.Index)
	case *Call:
		Walk(v, n.Fun)
		walkAll(v, n.Args)
	case *Member:
		Walk(v, n.Object)
	case *Ternary:
		Walk(v, n.Cond)
		Walk(v, n.True)
		Walk(v, n.False)
	case *Assign:
		Walk(v, n.LHS)
		Walk(v, n.RHS)
	case *Cast:
		Walk(v, n.Specs)
		Walk(v, n.Declarator)
		Walk(v, n.Operand)
	case *Sizeof:
		Walk(v, n.Operand)
		Walk(v, n.Specs)
		Walk(v, n.Declarator)
	case *Block:
		walkAll(v, n.Stmts)
	case *If:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *DoWhile:
		Walk(v, n.Body)
		Walk(v, n.Cond)
	case *For:
		Walk(v, n.Init)
		Walk(v, n.Cond)
		Walk(v, n.Post)
		Walk(v, n.Body)
	case *Switch:
		Walk(v, n.Tag)
		Walk(v, n.Body)
	case *Case:
		Walk(v, n.Value)
		Walk(v, n.Stmt)
	case *Default:
		Walk(v, n.Stmt)
	case *Label:
		Walk(v, n.Stmt)
	case *Return:
		Walk(v, n.Value)
	case *ExprStmt:
		Walk(v, n.Expr)
	default:
		panic("ast.Walk: unhandled node type")
	}
}

func walkAll(v Visitor, nodes []Node) {
	for _, n := range nodes {
		Walk(v, n)
	}
}

// inspector adapts a plain function to the Visitor interface, mirroring
// go/ast.Inspect.
type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses the tree rooted at n, calling f for each node. If f
// returns false, Inspect skips n's children.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
