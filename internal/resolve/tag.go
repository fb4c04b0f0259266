package resolve

import (
	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/scope"
	"github.com/cc23/cc23/internal/token"
)

// resolveTag resolves an inline struct/union/enum definition or a bare
// tag reference ("struct Point p;") to a canonical type index. Tag names
// live in their own namespace (scope.Tag), declared and looked up
// separately from ordinary identifiers per specification §4.3.
func (r *Resolver) resolveTag(n ast.Node, current scope.Index, depth int) ctype.Index {
	switch n := n.(type) {
	case *ast.StructDef:
		return r.resolveAggregate(n.Tag, n.Fields, n.HasBody, current, depth, ctype.Struct)
	case *ast.UnionDef:
		return r.resolveAggregate(n.Tag, n.Fields, n.HasBody, current, depth, ctype.Union)
	case *ast.EnumDef:
		return r.resolveEnum(n, current, depth)
	default:
		r.Bag.Addf(diag.SemanticType, n.First().Pos, "invalid tag node: %T", n)
		return r.Types.FindOrCreate(ctype.None, ctype.Int, 0)
	}
}

// resolveAggregate handles both struct and union tags: a bare reference
// resolves (or forward-declares) the tag; a definition reserves an
// incomplete tag entry before resolving its fields, so a self-referential
// member ("struct Node *next;") sees an already-visible incomplete type.
func (r *Resolver) resolveAggregate(tagTok *token.Token, fields []*ast.Field, hasBody bool, current scope.Index, depth int, kind ctype.Tag) ctype.Index {
	name := ""
	if tagTok != nil {
		name = tagTok.Text
	}

	if !hasBody {
		if tagTok == nil {
			return r.Types.NewIncompleteTag(kind, name)
		}
		if idx, err := r.Scopes.LookupTag(*tagTok, current); err == nil {
			return r.Scopes.At(idx).Type
		}
		tyIdx := r.Types.NewIncompleteTag(kind, name)
		r.Scopes.Declare(*tagTok, current, depth, tyIdx, scope.StorageNone, scope.Tag)
		return tyIdx
	}

	tyIdx := r.Types.NewIncompleteTag(kind, name)
	if tagTok != nil {
		if existing, err := r.Scopes.LookupTag(*tagTok, current); err == nil && r.Scopes.At(existing).Depth == depth {
			r.Bag.Addf(diag.SemanticType, tagTok.Pos, "redefinition of tag %q", name)
		} else if idx, err := r.Scopes.Declare(*tagTok, current, depth, tyIdx, scope.StorageNone, scope.Tag); err == nil {
			// Fields resolve from the new tag entry, so a self-referential
			// member finds the incomplete tag reserved above.
			current = idx
		}
	}

	out := make([]ctype.Field, 0, len(fields))
	for _, f := range fields {
		base, _, _ := r.resolveSpecifiers(f.Specs, current, depth)
		ft, nameNode := r.resolveDeclarator(f.Declarator, base, current, depth)
		fname := ""
		if pd, ok := nameNode.(*ast.PlainDeclarator); ok && pd.Name != nil {
			fname = pd.Name.Text
		}
		out = append(out, ctype.Field{Name: fname, Type: ft})
	}

	switch kind {
	case ctype.Struct:
		r.Types.CompleteStruct(tyIdx, out)
	case ctype.Union:
		r.completeUnion(tyIdx, out)
	}
	return tyIdx
}

// completeUnion lays out fields all at offset 0, sized to the widest
// member, per specification §4.5's union layout rule.
func (r *Resolver) completeUnion(idx ctype.Index, fields []ctype.Field) {
	size, align := 0, 1
	for i, f := range fields {
		fs, fa := r.Types.SizeAlign(f.Type)
		fields[i].Offset = 0
		if fs > size {
			size = fs
		}
		if fa > align {
			align = fa
		}
	}
	r.Types.SetUnionLayout(idx, fields, size, align)
}

func (r *Resolver) resolveEnum(n *ast.EnumDef, current scope.Index, depth int) ctype.Index {
	name := ""
	if n.Tag != nil {
		name = n.Tag.Text
	}
	if !n.HasBody {
		if n.Tag != nil {
			if idx, err := r.Scopes.LookupTag(*n.Tag, current); err == nil {
				return r.Scopes.At(idx).Type
			}
		}
		return r.Types.NewIncompleteTag(ctype.Enum, name)
	}

	intType := r.Types.FindOrCreate(ctype.None, ctype.Int, 0)
	tyIdx := r.Types.NewEnum(name, intType)
	if n.Tag != nil {
		r.Scopes.Declare(*n.Tag, current, depth, tyIdx, scope.StorageNone, scope.Tag)
	}

	for _, e := range n.Enumerators {
		r.Scopes.Declare(e.Name, current, depth, tyIdx, scope.StorageNone, scope.Ordinary)
	}
	return tyIdx
}
