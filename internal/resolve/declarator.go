package resolve

import (
	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/scope"
	"github.com/cc23/cc23/internal/token"
)

// resolveDeclarator walks a declarator node outside-in, per specification
// §4.2: the syntactically outermost declarator wraps a layer around base
// and passes the wrapped result down to Inner; the base case (a name, or a
// nameless abstract declarator) returns the accumulated type unchanged.
// It returns the resolved type together with the innermost name token's
// declarator node (nil for a nameless declarator). current/depth are
// threaded through purely so nested function-parameter lists can resolve
// specifiers that reference tags visible at this point in scope.
func (r *Resolver) resolveDeclarator(n ast.Node, base ctype.Index, current scope.Index, depth int) (ctype.Index, ast.Node) {
	switch n := n.(type) {
	case nil:
		return base, nil
	case *ast.PlainDeclarator:
		wrapped := base
		if n.Pointer {
			var flags ctype.Flags
			for _, q := range n.PtrQuals {
				flags |= qualFlag(q)
			}
			wrapped = r.Types.FindOrCreate(base, ctype.Pointer, flags)
		}
		if n.Inner == nil {
			r.NodeType[n] = wrapped
			return wrapped, n
		}
		return r.resolveDeclarator(n.Inner, wrapped, current, depth)
	case *ast.ArrayDeclarator:
		length := r.foldArrayLength(n.Size)
		wrapped := r.Types.FindOrCreateArray(base, 0, length)
		return r.resolveDeclarator(n.Inner, wrapped, current, depth)
	case *ast.FuncDeclarator:
		params := r.resolveParams(n.Params, current, depth)
		wrapped := r.Types.NewFunction(base, params, n.Variadic, 0)
		return r.resolveDeclarator(n.Inner, wrapped, current, depth)
	default:
		r.Bag.Addf(diag.SemanticType, n.First().Pos, "invalid declarator kind during type resolution: %T", n)
		return base, nil
	}
}

func qualFlag(k token.Kind) ctype.Flags {
	switch k {
	case token.CONST:
		return ctype.Const
	case token.VOLATILE:
		return ctype.Volatile
	case token.RESTRICT:
		return ctype.Restrict
	case token.ATOMIC:
		return ctype.AtomicQ
	}
	return 0
}

// resolveParams resolves a function declarator's parameter list
// independently of the return type being threaded through it, per
// specification §4.2 ("parameters computed independently"). Parameter
// names are not declared as scope entries here: that happens when the
// enclosing function body's block is resolved, so parameters share the
// function body's outermost block depth per specification §4.3.
func (r *Resolver) resolveParams(params []*ast.Param, current scope.Index, depth int) []ctype.Param {
	out := make([]ctype.Param, 0, len(params))
	for _, p := range params {
		base, _, _ := r.resolveSpecifiers(p.Specs, current, depth)
		ty, nameNode := r.resolveDeclarator(p.Declarator, base, current, depth)
		name := ""
		if pd, ok := nameNode.(*ast.PlainDeclarator); ok && pd.Name != nil {
			name = pd.Name.Text
		}
		out = append(out, ctype.Param{Name: name, Type: ty})
	}
	return out
}

// foldArrayLength evaluates a constant integer array-size expression when
// it is a literal or a constant arithmetic expression over literals
// (specification §9's resolution of the array-sizeof open question); it
// returns -1 for "no size given" or an expression it cannot fold, rather
// than guessing.
func (r *Resolver) foldArrayLength(n ast.Node) int {
	v, ok := foldConstInt(n)
	if !ok {
		return -1
	}
	return v
}

func foldConstInt(n ast.Node) (int, bool) {
	switch n := n.(type) {
	case nil:
		return 0, false
	case *ast.Literal:
		return int(n.Tok.IntVal), true
	case *ast.Unary:
		if n.Op == token.MINUS {
			v, ok := foldConstInt(n.Operand)
			return -v, ok
		}
	case *ast.Binary:
		l, lok := foldConstInt(n.LHS)
		r, rok := foldConstInt(n.RHS)
		if !lok || !rok {
			return 0, false
		}
		switch n.Op {
		case token.PLUS:
			return l + r, true
		case token.MINUS:
			return l - r, true
		case token.STAR:
			return l * r, true
		case token.SLASH:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		}
	}
	return 0, false
}
