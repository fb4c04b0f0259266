// Package resolve ties declaration-specifier resolution (specification
// §4.1), declarator chain resolution (§4.2), and scope resolution (§4.3)
// together into a single pass over the AST.
package resolve

import (
	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/scope"
	"github.com/cc23/cc23/internal/token"
)

// Resolver drives one resolution pass over a translation unit's AST.
type Resolver struct {
	Types  *ctype.Table
	Scopes *scope.Table
	Bag    *diag.Bag
	Intern func(string) string

	NodeType  map[ast.Node]ctype.Index
	NodeScope map[ast.Node]scope.Index
}

// New creates a Resolver over the given (already allocated) type and
// scope tables.
func New(types *ctype.Table, scopes *scope.Table, bag *diag.Bag, intern func(string) string) *Resolver {
	return &Resolver{
		Types: types, Scopes: scopes, Bag: bag, Intern: intern,
		NodeType:  make(map[ast.Node]ctype.Index),
		NodeScope: make(map[ast.Node]scope.Index),
	}
}

// specSeen tracks which declaration-specifier kinds have been observed so
// far, to implement the combining/rejection table of specification §4.1.
type specSeen struct {
	char, short, int_, signed, unsigned, float, double, void, bool_, complex_ bool
	longCount                                                                 int
	storageSeen                                                               bool
	storage                                                                   scope.Storage
	inline, noreturn                                                          bool
	quals                                                                     ctype.Flags
}

// resolveSpecifiers collapses the token run in ds (plus any inline tag
// definition) into a single canonical base type, storage class, and
// qualifier/specifier flags, per specification §4.1.
func (r *Resolver) resolveSpecifiers(ds *ast.DeclSpec, current scope.Index, depth int) (ctype.Index, scope.Storage, ctype.Flags) {
	if ds == nil {
		return r.Types.FindOrCreate(ctype.None, ctype.Int, 0), scope.StorageNone, 0
	}
	if ds.TypedefName != nil {
		if idx, err := r.Scopes.Lookup(*ds.TypedefName, current); err == nil {
			return r.Scopes.At(idx).Type, scope.StorageNone, 0
		}
	}

	var seen specSeen
	for _, tok := range ds.Tokens {
		r.classifySpecifier(ds, tok, &seen)
	}

	if ds.Tag != nil {
		base := r.resolveTag(ds.Tag, current, depth)
		return base, seen.storage, seen.quals
	}

	tag := combineTag(seen)
	return r.Types.FindOrCreate(ctype.None, tag, seen.quals), seen.storage, seen.quals
}

// classifySpecifier folds one specifier token into seen, rejecting
// combinations forbidden by specification §4.1's table.
func (r *Resolver) classifySpecifier(ds *ast.DeclSpec, tok token.Token, seen *specSeen) {
	reject := func(what string) {
		r.Bag.Addf(diag.SemanticSpecifier, tok.Pos, "invalid combination of declaration specifiers: %s", what)
	}
	switch tok.Kind {
	case token.CHAR:
		if seen.short || seen.longCount > 0 || seen.float || seen.double {
			reject("char with short/long/floating")
		}
		seen.char = true
	case token.SHORT:
		if seen.char || seen.longCount > 0 || seen.float || seen.double {
			reject("short with char/long/floating")
		}
		seen.short = true
	case token.LONG:
		if seen.char || seen.float {
			reject("long with char/float")
		}
		if seen.longCount >= 2 {
			reject("too many long")
		}
		seen.longCount++
	case token.INT:
		if seen.char || seen.float || seen.double {
			reject("int with char/floating")
		}
		seen.int_ = true
	case token.SIGNED:
		if seen.unsigned || seen.float || seen.double {
			reject("signed with unsigned/floating")
		}
		seen.signed = true
	case token.UNSIGNED:
		if seen.signed || seen.float || seen.double {
			reject("unsigned with signed/floating")
		}
		seen.unsigned = true
	case token.FLOAT:
		if seen.char || seen.short || seen.longCount > 0 || seen.int_ || seen.signed || seen.unsigned {
			reject("float with an integer specifier")
		}
		seen.float = true
	case token.DOUBLE:
		if seen.char || seen.short || seen.int_ || seen.signed || seen.unsigned {
			reject("double with an integer specifier")
		}
		seen.double = true
	case token.VOID:
		seen.void = true
	case token.BOOL:
		seen.bool_ = true
	case token.COMPLEX:
		seen.complex_ = true
	case token.CONST:
		seen.quals |= ctype.Const
	case token.VOLATILE:
		seen.quals |= ctype.Volatile
	case token.RESTRICT:
		seen.quals |= ctype.Restrict
	case token.ATOMIC:
		seen.quals |= ctype.AtomicQ
	case token.INLINE:
		seen.quals |= ctype.Inline
	case token.NORETURN:
		seen.quals |= ctype.Noreturn
	case token.AUTO, token.REGISTER, token.STATIC, token.EXTERN, token.THREAD_LOCAL, token.TYPEDEF, token.CONSTEXPR:
		if seen.storageSeen {
			r.Bag.Addf(diag.SemanticSpecifier, tok.Pos, "duplicate storage class specifier")
			return
		}
		seen.storageSeen = true
		seen.storage = storageFor(tok.Kind)
	}
}

func storageFor(k token.Kind) scope.Storage {
	switch k {
	case token.AUTO:
		return scope.Auto
	case token.REGISTER:
		return scope.Register
	case token.STATIC:
		return scope.Static
	case token.EXTERN:
		return scope.Extern
	case token.THREAD_LOCAL:
		return scope.ThreadLocal
	case token.TYPEDEF:
		return scope.Typedef
	case token.CONSTEXPR:
		return scope.Constexpr
	}
	return scope.StorageNone
}

// combineTag derives the final base type tag from the specifiers seen,
// applying specification §4.1's combining rules: char with no sign
// modifier canonicalizes as signed char, long double is its own base,
// and bare "int"/"signed"/"unsigned" with nothing else default to int.
func combineTag(s specSeen) ctype.Tag {
	switch {
	case s.void:
		return ctype.Void
	case s.bool_:
		return ctype.Bool
	case s.float:
		if s.complex_ {
			return ctype.ComplexFloat
		}
		return ctype.Float
	case s.double && s.longCount >= 1:
		if s.complex_ {
			return ctype.ComplexLongDouble
		}
		return ctype.LongDouble
	case s.double:
		if s.complex_ {
			return ctype.ComplexDouble
		}
		return ctype.Double
	case s.char:
		if s.unsigned {
			return ctype.UChar
		}
		return ctype.Char
	case s.short:
		if s.unsigned {
			return ctype.UShort
		}
		return ctype.Short
	case s.longCount >= 2:
		if s.unsigned {
			return ctype.ULongLong
		}
		return ctype.LongLong
	case s.longCount == 1:
		if s.unsigned {
			return ctype.ULong
		}
		return ctype.Long
	default:
		if s.unsigned {
			return ctype.UInt
		}
		return ctype.Int
	}
}
