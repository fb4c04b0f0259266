// Package ast defines the abstract syntax tree produced by internal/parser
// and consumed by internal/resolve and internal/ir.
//
// Every node variant is a small struct implementing Node; there is no
// single tagged union with flag-dependent interpretation. Walk and Inspect
// (see visit.go) provide a generic traversal; the printer, internal/resolve
// and internal/ir each walk the tree with their own type switch.
package ast

import "github.com/cc23/cc23/internal/token"

// Node is implemented by every AST variant. First and Last delimit the
// node's token range for diagnostic extents; Last may equal First for
// single-token nodes.
type Node interface {
	First() token.Token
	Last() token.Token
	node()
}

// Base is embedded by every concrete node to supply First/Last.
type Base struct {
	FirstTok token.Token
	LastTok  token.Token
}

func (b Base) First() token.Token { return b.FirstTok }
func (b Base) Last() token.Token {
	if b.LastTok.Kind == token.ILLEGAL && b.LastTok.Text == "" {
		return b.FirstTok
	}
	return b.LastTok
}
func (Base) node() {}

func mkBase(first, last token.Token) Base { return Base{FirstTok: first, LastTok: last} }

// ---- root ----

// Root is the top of every AST: a translation unit's sequence of external
// definitions (function definitions, declarations, static-asserts).
type Root struct {
	Base
	Decls []Node
}

// ---- declaration specifiers ----

// DeclSpec is the resolved-but-not-yet-canonicalized run of declaration
// specifier tokens preceding a declarator, per specification §4.1. Tag is
// non-nil when the specifiers include an inline struct/union/enum
// definition or reference.
type DeclSpec struct {
	Base
	Tokens       []token.Token // raw specifier tokens, in source order
	Tag          Node          // *StructDef, *UnionDef, or *EnumDef, or nil
	TypedefName  *token.Token  // set when a specifier is a previously-declared typedef name
}

// ---- declarators ----

// PlainDeclarator is a name (possibly pointer-qualified, possibly nameless)
// wrapping an inner declarator. A nil Inner with a non-nil Name is the
// Base case: the bare declared identifier.
type PlainDeclarator struct {
	Base
	Inner      Node // nil at the innermost (named) position
	Name       *token.Token
	Pointer    bool
	PtrQuals   []token.Kind // const/volatile/restrict/_Atomic on this pointer layer
}

// ArrayDeclarator wraps Inner as "array of Inner". Size is the element
// count expression, stored unevaluated per specification §4.2; nil for an
// incomplete array type ("[]").
type ArrayDeclarator struct {
	Base
	Inner Node
	Size  Node
}

// FuncDeclarator wraps Inner as "function returning Inner".
type FuncDeclarator struct {
	Base
	Inner    Node
	Params   []*Param
	Variadic bool
	IsVoid   bool // explicit "(void)" parameter list
}

// Param is one parameter in a function declarator's parameter list.
type Param struct {
	Base
	Specs      *DeclSpec
	Declarator Node // may be nil for an abstract (nameless) parameter
}

// ---- declarations ----

// InitDeclarator pairs one declarator with its optional initializer.
type InitDeclarator struct {
	Base
	Declarator Node
	Init       Node
}

// Declaration is a full declaration: shared specifiers over one or more
// init-declarators ("int a = 1, *b;").
type Declaration struct {
	Base
	Specs       *DeclSpec
	Declarators []*InitDeclarator
}

// FuncDef is a function definition: specifiers, a function declarator, and
// a body block.
type FuncDef struct {
	Base
	Specs      *DeclSpec
	Declarator Node
	Body       *Block
}

// ---- struct/union/enum ----

// StructDef and UnionDef share shape; kept distinct so type switches
// dispatch without an extra discriminant field.
type StructDef struct {
	Base
	Tag    *token.Token
	Fields []*Field
	HasBody bool
}

type UnionDef struct {
	Base
	Tag     *token.Token
	Fields  []*Field
	HasBody bool
}

type EnumDef struct {
	Base
	Tag         *token.Token
	Enumerators []*Enumerator
	HasBody     bool
}

// Field is one struct/union member declaration.
type Field struct {
	Base
	Specs      *DeclSpec
	Declarator Node
}

// Enumerator is one "NAME" or "NAME = value" enum member.
type Enumerator struct {
	Base
	Name  token.Token
	Value Node // nil if unspecified
}

// StaticAssert models a "static_assert(cond, "msg");" declaration.
type StaticAssert struct {
	Base
	Cond Node
	Msg  *token.Token
}

// ---- expressions ----

type Ident struct {
	Base
	Tok token.Token
}

type Literal struct {
	Base
	Tok token.Token
}

type Binary struct {
	Base
	Op       token.Kind
	LHS, RHS Node
}

// Unary covers prefix unary operators (-, !, ~, &, *, ++x, --x) and, when
// Postfix is true, postfix ++/--.
type Unary struct {
	Base
	Op      token.Kind
	Operand Node
	Postfix bool
}

type Subscript struct {
	Base
	Array, Index Node
}

type Call struct {
	Base
	Fun  Node
	Args []Node
}

type Member struct {
	Base
	Object Node
	Field  token.Token
	Arrow  bool // true for "->", false for "."
}

type Ternary struct {
	Base
	Cond, True, False Node
}

// Assign covers plain "=" and every compound-assignment operator; the
// SSA builder desugars compound ops to read-modify-write per spec §4.4.
type Assign struct {
	Base
	Op       token.Kind
	LHS, RHS Node
}

// Cast is an explicit "(type) expr" cast.
type Cast struct {
	Base
	Specs      *DeclSpec
	Declarator Node // abstract declarator, may be nil
	Operand    Node
}

// Sizeof covers both "sizeof expr" and "sizeof(type-name)" forms.
type Sizeof struct {
	Base
	Operand    Node // expression form
	Specs      *DeclSpec
	Declarator Node // type-name form
}

// ---- statements ----

type Block struct {
	Base
	Stmts []Node
}

type If struct {
	Base
	Cond, Then, Else Node
}

type While struct {
	Base
	Cond, Body Node
}

type DoWhile struct {
	Base
	Body, Cond Node
}

type For struct {
	Base
	Init, Cond, Post, Body Node
}

type Switch struct {
	Base
	Tag, Body Node
}

type Case struct {
	Base
	Value Node
	Stmt  Node
}

type Default struct {
	Base
	Stmt Node
}

type Break struct{ Base }
type Continue struct{ Base }

type Goto struct {
	Base
	Label token.Token
}

type Label struct {
	Base
	Name token.Token
	Stmt Node
}

type Return struct {
	Base
	Value Node // nil for bare "return;"
}

type Null struct{ Base }

// ExprStmt is an expression used as a statement ("f();").
type ExprStmt struct {
	Base
	Expr Node
}

// Error is inserted in place of a construct the parser could not parse,
// after single-token resynchronization.
type Error struct{ Base }

// NewBase constructs a Base-equipped node's embedded fields; exported so
// internal/parser can build nodes without reaching into the Base type.
func NewBase(first, last token.Token) Base { return mkBase(first, last) }
