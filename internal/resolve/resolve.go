package resolve

import (
	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/scope"
)

// Resolve drives one full pass over root: declaration specifiers (§4.1),
// declarator chains (§4.2), and scope resolution (§4.3) all happen
// together, depth-first, in source order, since a name must be declared
// before internal/ir can bind its later uses.
//
// Block depth follows specification §4.3: the file scope is depth 0; a
// function's parameter list and its immediate body share depth 1 (C
// itself treats a parameter and a same-named immediate local as the same
// scope, so redeclaring one is an error rather than shadowing); every
// further nested "{ }" compound, and every single-statement body of an
// if/while/do/for/switch, goes one level deeper again.
func (r *Resolver) Resolve(root *ast.Root) {
	current := scope.None
	for _, d := range root.Decls {
		switch d := d.(type) {
		case *ast.FuncDef:
			r.resolveFuncDef(d, &current)
		case *ast.Declaration:
			current = r.resolveDecl(d, current, 0)
		case *ast.StaticAssert:
			r.resolveExpr(d.Cond, current, 0)
		}
	}
}

// resolveDecl resolves one declaration's shared specifiers and each of
// its declarators in turn, declaring each named one in scope. It returns
// the updated scope cursor: the index of the last entry declared, so the
// next sibling declaration (or statement) in the same block chains from
// it.
func (r *Resolver) resolveDecl(d *ast.Declaration, current scope.Index, depth int) scope.Index {
	base, storage, _ := r.resolveSpecifiers(d.Specs, current, depth)
	for _, id := range d.Declarators {
		ty, nameNode := r.resolveDeclarator(id.Declarator, base, current, depth)
		if id.Init != nil {
			r.resolveExpr(id.Init, current, depth)
		}
		pd, ok := nameNode.(*ast.PlainDeclarator)
		if !ok || pd.Name == nil {
			continue
		}
		idx, err := r.Scopes.Declare(*pd.Name, current, depth, ty, storage, scope.Ordinary)
		if err != nil {
			r.Bag.Addf(diag.SemanticScope, pd.Name.Pos, "%s", err.Error())
			continue
		}
		r.NodeScope[pd] = idx
		current = idx
	}
	return current
}

// resolveFuncDef resolves a function definition's own declarator (so its
// name and signature are visible to later declarations and to recursive
// calls within its own body), then declares its parameters and resolves
// its body at depth 1, sharing the function-definition-level cursor.
func (r *Resolver) resolveFuncDef(fd *ast.FuncDef, current *scope.Index) {
	base, storage, _ := r.resolveSpecifiers(fd.Specs, *current, 0)
	_, nameNode := r.resolveDeclarator(fd.Declarator, base, *current, 0)

	if pd, ok := nameNode.(*ast.PlainDeclarator); ok && pd.Name != nil {
		ty := r.NodeType[pd]
		idx, err := r.Scopes.Declare(*pd.Name, *current, 0, ty, storage, scope.Ordinary)
		if err != nil {
			r.Bag.Addf(diag.SemanticScope, pd.Name.Pos, "%s", err.Error())
		} else {
			r.NodeScope[pd] = idx
			*current = idx
		}
	}

	bodyDepth := 1
	bodyCurrent := *current

	if fdecl, ok := fd.Declarator.(*ast.FuncDeclarator); ok {
		for _, p := range fdecl.Params {
			if p.Declarator == nil {
				continue // abstract/nameless parameter: nothing to declare
			}
			pbase, pstorage, _ := r.resolveSpecifiers(p.Specs, bodyCurrent, bodyDepth)
			_, pnameNode := r.resolveDeclarator(p.Declarator, pbase, bodyCurrent, bodyDepth)
			pd, ok := pnameNode.(*ast.PlainDeclarator)
			if !ok || pd.Name == nil {
				continue
			}
			idx, err := r.Scopes.Declare(*pd.Name, bodyCurrent, bodyDepth, r.NodeType[pd], pstorage, scope.Ordinary)
			if err != nil {
				r.Bag.Addf(diag.SemanticScope, pd.Name.Pos, "%s", err.Error())
				continue
			}
			r.NodeScope[pd] = idx
			bodyCurrent = idx
		}
	}

	if fd.Body != nil {
		r.resolveStmts(fd.Body.Stmts, bodyCurrent, bodyDepth)
	}
}

// resolveStmts resolves a sequence of statements sharing one block's
// scope: a declaration's cursor carries forward to later statements in
// the same sequence, per ordinary lexical scoping.
func (r *Resolver) resolveStmts(stmts []ast.Node, current scope.Index, depth int) {
	for _, s := range stmts {
		current = r.resolveStmt(s, current, depth)
	}
}

// resolveStmt resolves one statement and returns the scope cursor visible
// to the statement immediately following it in the same block. Anything
// that opens its own nested scope (a compound body, or a single-statement
// if/while/do/for/switch body) is resolved one depth deeper and does not
// leak its declarations back out: the cursor returned for those cases is
// unchanged from the one passed in.
func (r *Resolver) resolveStmt(n ast.Node, current scope.Index, depth int) scope.Index {
	// body resolves a control statement's body one level deeper than the
	// statement itself; a compound body's own braces supply that level.
	body := func(s ast.Node, cur scope.Index, d int) {
		if _, ok := s.(*ast.Block); ok {
			r.resolveStmt(s, cur, d)
			return
		}
		r.resolveStmt(s, cur, d+1)
	}
	switch n := n.(type) {
	case nil:
		return current
	case *ast.Block:
		r.resolveStmts(n.Stmts, current, depth+1)
		return current
	case *ast.Declaration:
		return r.resolveDecl(n, current, depth)
	case *ast.ExprStmt:
		r.resolveExpr(n.Expr, current, depth)
		return current
	case *ast.If:
		r.resolveExpr(n.Cond, current, depth)
		body(n.Then, current, depth)
		if n.Else != nil {
			body(n.Else, current, depth)
		}
		return current
	case *ast.While:
		r.resolveExpr(n.Cond, current, depth)
		body(n.Body, current, depth)
		return current
	case *ast.DoWhile:
		body(n.Body, current, depth)
		r.resolveExpr(n.Cond, current, depth)
		return current
	case *ast.For:
		forDepth := depth + 1
		forCurrent := current
		switch init := n.Init.(type) {
		case *ast.Declaration:
			forCurrent = r.resolveDecl(init, forCurrent, forDepth)
		case nil:
		default:
			r.resolveExpr(init, forCurrent, forDepth)
		}
		r.resolveExpr(n.Cond, forCurrent, forDepth)
		body(n.Body, forCurrent, forDepth)
		r.resolveExpr(n.Post, forCurrent, forDepth)
		return current
	case *ast.Switch:
		r.resolveExpr(n.Tag, current, depth)
		body(n.Body, current, depth)
		return current
	case *ast.Case:
		r.resolveExpr(n.Value, current, depth)
		return r.resolveStmt(n.Stmt, current, depth)
	case *ast.Default:
		return r.resolveStmt(n.Stmt, current, depth)
	case *ast.Label:
		return r.resolveStmt(n.Stmt, current, depth)
	case *ast.Return:
		r.resolveExpr(n.Value, current, depth)
		return current
	case *ast.StaticAssert:
		r.resolveExpr(n.Cond, current, depth)
		return current
	case *ast.Goto, *ast.Break, *ast.Continue, *ast.Null, *ast.Error:
		return current
	default:
		r.Bag.Addf(diag.Internal, n.First().Pos, "unhandled statement kind during resolution: %T", n)
		return current
	}
}

// resolveExpr binds every identifier occurrence in n to the scope entry
// it refers to, resolving constructs (sizeof, cast) that carry their own
// embedded type name along the way.
func (r *Resolver) resolveExpr(n ast.Node, current scope.Index, depth int) {
	switch n := n.(type) {
	case nil:
		return
	case *ast.Ident:
		idx, err := r.Scopes.Lookup(n.Tok, current)
		if err != nil {
			r.Bag.Addf(diag.SemanticScope, n.Tok.Pos, "%s", err.Error())
			return
		}
		r.NodeScope[n] = idx
	case *ast.Literal:
	case *ast.Binary:
		r.resolveExpr(n.LHS, current, depth)
		r.resolveExpr(n.RHS, current, depth)
	case *ast.Unary:
		r.resolveExpr(n.Operand, current, depth)
	case *ast.Subscript:
		r.resolveExpr(n.Array, current, depth)
		r.resolveExpr(n.Index, current, depth)
	case *ast.Call:
		r.resolveExpr(n.Fun, current, depth)
		for _, a := range n.Args {
			r.resolveExpr(a, current, depth)
		}
	case *ast.Member:
		r.resolveExpr(n.Object, current, depth)
	case *ast.Ternary:
		r.resolveExpr(n.Cond, current, depth)
		r.resolveExpr(n.True, current, depth)
		r.resolveExpr(n.False, current, depth)
	case *ast.Assign:
		r.resolveExpr(n.LHS, current, depth)
		r.resolveExpr(n.RHS, current, depth)
	case *ast.Cast:
		base, _, _ := r.resolveSpecifiers(n.Specs, current, depth)
		r.resolveDeclarator(n.Declarator, base, current, depth)
		r.resolveExpr(n.Operand, current, depth)
	case *ast.Sizeof:
		if n.Operand != nil {
			r.resolveExpr(n.Operand, current, depth)
			if id, ok := n.Operand.(*ast.Ident); ok {
				if sidx, ok := r.NodeScope[id]; ok {
					r.NodeType[n.Operand] = r.Scopes.At(sidx).Type
				}
			}
			return
		}
		base, _, _ := r.resolveSpecifiers(n.Specs, current, depth)
		ty, _ := r.resolveDeclarator(n.Declarator, base, current, depth)
		r.NodeType[n] = ty
	case *ast.Error:
	default:
		r.Bag.Addf(diag.Internal, n.First().Pos, "unhandled expression kind during resolution: %T", n)
	}
}
