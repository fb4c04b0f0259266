// Package parser implements a single-token-lookahead recursive-descent
// parser over the token stream produced by internal/lexer, building the
// internal/ast tree that internal/resolve and internal/ir consume.
package parser

import (
	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/token"
)

// Parser holds one token stream and position. It never backs up except
// through snapshot/restore, used exactly once: to disambiguate an
// assignment-expression from a plain conditional-expression without a
// dedicated grammar transformation.
type Parser struct {
	toks []token.Token
	pos  int
	bag  *diag.Bag

	// typedefNames records every name declared with storage class
	// typedef seen so far. C's grammar is not context-free without this:
	// an identifier that begins a declaration specifier list can only be
	// told apart from one that begins an expression by knowing whether it
	// names a type, per specification §4.1/§6.
	typedefNames map[string]bool
}

// New creates a Parser over toks (which must be EOF-terminated, as
// internal/lexer always produces).
func New(toks []token.Token, bag *diag.Bag) *Parser {
	return &Parser{toks: toks, bag: bag, typedefNames: make(map[string]bool)}
}

// Parse consumes the whole token stream and returns the translation
// unit's root: a sequence of external definitions (function definitions,
// declarations, static-asserts).
func (p *Parser) Parse() *ast.Root {
	first := p.cur()
	var decls []ast.Node
	for p.cur().Kind != token.EOF {
		decls = append(decls, p.externalDefinition())
	}
	return &ast.Root{Base: ast.NewBase(first, p.cur()), Decls: decls}
}

// ---- token-stream primitives ----

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peek() token.Token { return p.peekN(1) }

func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

type snapshot struct{ pos int }

func (p *Parser) snapshot() snapshot   { return snapshot{pos: p.pos} }
func (p *Parser) restore(s snapshot)   { p.pos = s.pos }

// expect consumes and returns the current token if it has kind k,
// otherwise records a syntactic diagnostic and returns the token
// unconsumed (callers proceed with best-effort recovery rather than
// aborting the whole parse).
func (p *Parser) expect(k token.Kind) token.Token {
	t := p.cur()
	if t.Kind != k {
		p.bag.Addf(diag.Syntactic, t.Pos, "expected %s, found %s %q", k, t.Kind, t.Text)
		return t
	}
	return p.advance()
}

// resync consumes exactly one token and returns an *ast.Error node,
// implementing the single-token resynchronization the specification's
// error-recovery contract calls for: enough to make progress on a
// malformed construct without cascading.
func (p *Parser) resync(format string, args ...any) ast.Node {
	t := p.cur()
	p.bag.Addf(diag.Syntactic, t.Pos, format, args...)
	p.advance()
	return &ast.Error{}
}

// ---- external definitions ----

// externalDefinition decides, by scanning ahead, whether the next external
// definition is a function definition or a declaration: a '{' directly
// after a ')' opens a function body, while '=' or ';' outside any braces
// ends a declaration. Any other '{' opens a struct/union/enum body, which
// the scan skips as a unit.
func (p *Parser) externalDefinition() ast.Node {
	if p.cur().Kind == token.STATIC_ASSERT {
		return p.staticAssertDecl()
	}
	isFunc := false
	braces := 0
	for i := 0; ; i++ {
		t := p.peekN(i)
		if t.Kind == token.EOF {
			break
		}
		if t.Kind == token.LBRACE {
			if braces == 0 && i > 0 && p.peekN(i-1).Kind == token.RPAREN {
				isFunc = true
				break
			}
			braces++
			continue
		}
		if t.Kind == token.RBRACE && braces > 0 {
			braces--
			continue
		}
		if braces == 0 && (t.Kind == token.ASSIGN || t.Kind == token.SEMI) {
			isFunc = false
			break
		}
	}
	if isFunc {
		return p.funcDef()
	}
	return p.declaration()
}

func (p *Parser) funcDef() ast.Node {
	first := p.cur()
	specs := p.declSpecList()
	decl := p.declarator()
	body := p.compoundStmt()
	return &ast.FuncDef{Base: ast.NewBase(first, body.Last()), Specs: specs, Declarator: decl, Body: body.(*ast.Block)}
}

// declaration parses a full declaration: shared specifiers, zero or more
// comma-separated init-declarators, terminated by ';'.
func (p *Parser) declaration() ast.Node {
	first := p.cur()
	specs := p.declSpecList()
	var decls []*ast.InitDeclarator
	for p.cur().Kind != token.SEMI && p.cur().Kind != token.EOF {
		decls = append(decls, p.initDeclarator())
		if p.cur().Kind != token.SEMI {
			p.expect(token.COMMA)
		}
	}
	last := p.cur()
	p.expect(token.SEMI)
	if specs.Tokens != nil {
		p.rememberTypedefs(specs, decls)
	}
	return &ast.Declaration{Base: ast.NewBase(first, last), Specs: specs, Declarators: decls}
}

// rememberTypedefs records every declared name as a known type name when
// the declaration's storage class is typedef, so later declarator
// parsing can recognize "Point p;" as a declaration rather than an
// expression statement.
func (p *Parser) rememberTypedefs(specs *ast.DeclSpec, decls []*ast.InitDeclarator) {
	isTypedef := false
	for _, t := range specs.Tokens {
		if t.Kind == token.TYPEDEF {
			isTypedef = true
			break
		}
	}
	if !isTypedef {
		return
	}
	for _, d := range decls {
		if name := declaredName(d.Declarator); name != "" {
			p.typedefNames[name] = true
		}
	}
}

func declaredName(n ast.Node) string {
	switch n := n.(type) {
	case *ast.PlainDeclarator:
		if n.Name != nil {
			return n.Name.Text
		}
		return declaredName(n.Inner)
	case *ast.ArrayDeclarator:
		return declaredName(n.Inner)
	case *ast.FuncDeclarator:
		return declaredName(n.Inner)
	}
	return ""
}

func (p *Parser) initDeclarator() *ast.InitDeclarator {
	first := p.cur()
	decl := p.declarator()
	var init ast.Node
	if p.cur().Kind == token.ASSIGN {
		p.advance()
		init = p.assignmentExpr()
	}
	last := decl.Last()
	if init != nil {
		last = init.Last()
	}
	return &ast.InitDeclarator{Base: ast.NewBase(first, last), Declarator: decl, Init: init}
}

func (p *Parser) staticAssertDecl() ast.Node {
	first := p.expect(token.STATIC_ASSERT)
	p.expect(token.LPAREN)
	cond := p.assignmentExpr()
	var msg *token.Token
	if p.cur().Kind == token.COMMA {
		p.advance()
		m := p.expect(token.STRING_LIT)
		msg = &m
	}
	p.expect(token.RPAREN)
	last := p.cur()
	p.expect(token.SEMI)
	return &ast.StaticAssert{Base: ast.NewBase(first, last), Cond: cond, Msg: msg}
}

// ---- declaration specifiers ----

func isTypeQualifier(k token.Kind) bool {
	switch k {
	case token.CONST, token.VOLATILE, token.RESTRICT, token.ATOMIC:
		return true
	}
	return false
}

func isStorageClass(k token.Kind) bool {
	switch k {
	case token.AUTO, token.CONSTEXPR, token.EXTERN, token.REGISTER, token.STATIC, token.THREAD_LOCAL, token.TYPEDEF:
		return true
	}
	return false
}

func isBareTypeSpecifier(k token.Kind) bool {
	switch k {
	case token.VOID, token.CHAR, token.SHORT, token.INT, token.LONG, token.FLOAT,
		token.DOUBLE, token.SIGNED, token.UNSIGNED, token.BOOL, token.COMPLEX:
		return true
	}
	return false
}

func isFunctionSpecifier(k token.Kind) bool {
	return k == token.INLINE || k == token.NORETURN
}

// beginsTypeName reports whether t can open a declaration-specifier list:
// every case parse_statement needs in order to tell a declaration from an
// expression statement.
func (p *Parser) beginsTypeName(t token.Token) bool {
	if isTypeQualifier(t.Kind) || isStorageClass(t.Kind) || isBareTypeSpecifier(t.Kind) || isFunctionSpecifier(t.Kind) {
		return true
	}
	if t.Kind == token.STRUCT || t.Kind == token.UNION || t.Kind == token.ENUM {
		return true
	}
	return t.Kind == token.IDENT && p.typedefNames[t.Text]
}

// declSpecList collects a declaration-specifier run: qualifier, storage
// class, function-specifier, and base-type-specifier tokens, plus at
// most one inline struct/union/enum definition or one typedef-name
// reference, per specification §4.1. It does not interpret the tokens;
// internal/resolve's classifySpecifier does that.
func (p *Parser) declSpecList() *ast.DeclSpec {
	first := p.cur()
	var toks []token.Token
	var tag ast.Node
	var typedefName *token.Token

	for {
		t := p.cur()
		switch {
		case isTypeQualifier(t.Kind), isStorageClass(t.Kind), isFunctionSpecifier(t.Kind):
			toks = append(toks, t)
			p.advance()
		case isBareTypeSpecifier(t.Kind):
			toks = append(toks, t)
			p.advance()
		case t.Kind == token.STRUCT || t.Kind == token.UNION:
			tag = p.structOrUnion()
		case t.Kind == token.ENUM:
			tag = p.enumDef()
		case t.Kind == token.IDENT && typedefName == nil && len(toks) == 0 && tag == nil && p.typedefNames[t.Text]:
			nt := t
			typedefName = &nt
			p.advance()
		default:
			goto done
		}
	}
done:
	last := first
	if p.pos > 0 {
		last = p.toks[p.pos-1]
	}
	return &ast.DeclSpec{Base: ast.NewBase(first, last), Tokens: toks, Tag: tag, TypedefName: typedefName}
}

func (p *Parser) structOrUnion() ast.Node {
	first := p.cur()
	isUnion := p.cur().Kind == token.UNION
	p.advance()

	var tagTok *token.Token
	if p.cur().Kind == token.IDENT {
		t := p.advance()
		tagTok = &t
	}

	hasBody := p.cur().Kind == token.LBRACE
	var fields []*ast.Field
	last := p.cur()
	if hasBody {
		p.advance()
		for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
			fields = append(fields, p.fieldDecl())
		}
		last = p.cur()
		p.expect(token.RBRACE)
	}

	if isUnion {
		return &ast.UnionDef{Base: ast.NewBase(first, last), Tag: tagTok, Fields: fields, HasBody: hasBody}
	}
	return &ast.StructDef{Base: ast.NewBase(first, last), Tag: tagTok, Fields: fields, HasBody: hasBody}
}

func (p *Parser) fieldDecl() *ast.Field {
	first := p.cur()
	specs := p.declSpecList()
	decl := p.declarator()
	last := p.cur()
	p.expect(token.SEMI)
	return &ast.Field{Base: ast.NewBase(first, last), Specs: specs, Declarator: decl}
}

func (p *Parser) enumDef() ast.Node {
	first := p.cur()
	p.advance()

	var tagTok *token.Token
	if p.cur().Kind == token.IDENT {
		t := p.advance()
		tagTok = &t
	}

	hasBody := p.cur().Kind == token.LBRACE
	var enumerators []*ast.Enumerator
	last := p.cur()
	if hasBody {
		p.advance()
		for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
			enumerators = append(enumerators, p.enumerator())
			if p.cur().Kind == token.COMMA {
				p.advance()
			}
		}
		last = p.cur()
		p.expect(token.RBRACE)
	}

	return &ast.EnumDef{Base: ast.NewBase(first, last), Tag: tagTok, Enumerators: enumerators, HasBody: hasBody}
}

func (p *Parser) enumerator() *ast.Enumerator {
	name := p.expect(token.IDENT)
	last := name
	var val ast.Node
	if p.cur().Kind == token.ASSIGN {
		p.advance()
		val = p.assignmentExpr()
		last = val.Last()
	}
	return &ast.Enumerator{Base: ast.NewBase(name, last), Name: name, Value: val}
}

// ---- declarators ----

// declarator parses a possibly-pointer-qualified declarator: "*const *x".
// Each leading '*' (with its trailing qualifiers) wraps the result of
// parsing everything to its right, per specification §4.2's outside-in
// model: the outermost syntax is the outermost AST node, and
// internal/resolve turns it into the innermost layer of the type chain.
func (p *Parser) declarator() ast.Node {
	if p.cur().Kind == token.STAR {
		first := p.advance()
		var quals []token.Kind
		for isTypeQualifier(p.cur().Kind) {
			quals = append(quals, p.cur().Kind)
			p.advance()
		}
		inner := p.declarator()
		return &ast.PlainDeclarator{Base: ast.NewBase(first, inner.Last()), Inner: inner, Pointer: true, PtrQuals: quals}
	}
	return p.directDeclarator()
}

func (p *Parser) directDeclarator() ast.Node {
	var node ast.Node
	switch p.cur().Kind {
	case token.IDENT:
		t := p.advance()
		node = &ast.PlainDeclarator{Base: ast.NewBase(t, t), Name: &t}
	case token.LPAREN:
		p.advance()
		node = p.declarator()
		p.expect(token.RPAREN)
	default:
		// An abstract (nameless) declarator: valid in parameter lists and
		// type names ("sizeof(int)", "int f(int)").
		t := p.cur()
		node = &ast.PlainDeclarator{Base: ast.NewBase(t, t)}
	}

	for {
		switch p.cur().Kind {
		case token.LBRACK:
			p.advance()
			var size ast.Node
			if p.cur().Kind != token.RBRACK {
				size = p.assignmentExpr()
			}
			last := p.cur()
			p.expect(token.RBRACK)
			node = &ast.ArrayDeclarator{Base: ast.NewBase(node.First(), last), Inner: node, Size: size}
		case token.LPAREN:
			p.advance()
			params, variadic, isVoid := p.paramList()
			last := p.cur()
			p.expect(token.RPAREN)
			node = &ast.FuncDeclarator{Base: ast.NewBase(node.First(), last), Inner: node, Params: params, Variadic: variadic, IsVoid: isVoid}
		default:
			return node
		}
	}
}

func (p *Parser) paramList() ([]*ast.Param, bool, bool) {
	if p.cur().Kind == token.VOID && p.peek().Kind == token.RPAREN {
		p.advance()
		return nil, false, true
	}
	var params []*ast.Param
	for p.cur().Kind != token.RPAREN && p.cur().Kind != token.EOF {
		if p.cur().Kind == token.ELLIPSIS {
			p.advance()
			return params, true, false
		}
		params = append(params, p.param())
		if p.cur().Kind != token.RPAREN {
			p.expect(token.COMMA)
		}
	}
	return params, false, false
}

func (p *Parser) param() *ast.Param {
	first := p.cur()
	specs := p.declSpecList()
	var decl ast.Node
	last := specs.Last()
	switch p.cur().Kind {
	case token.STAR, token.IDENT, token.LPAREN, token.LBRACK:
		decl = p.directDeclaratorOrPointer()
		last = decl.Last()
	}
	return &ast.Param{Base: ast.NewBase(first, last), Specs: specs, Declarator: decl}
}

func (p *Parser) directDeclaratorOrPointer() ast.Node {
	return p.declarator()
}

// ---- statements ----

func (p *Parser) stmt() ast.Node {
	t := p.cur()
	switch t.Kind {
	case token.LBRACE:
		return p.compoundStmt()
	case token.SEMI:
		p.advance()
		return &ast.Null{Base: ast.NewBase(t, t)}
	case token.STATIC_ASSERT:
		return p.staticAssertDecl()
	case token.IDENT:
		if p.peek().Kind == token.COLON {
			return p.labelStmt()
		}
		if p.beginsTypeName(t) {
			return p.declaration()
		}
		return p.exprStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.DO:
		return p.doWhileStmt()
	case token.FOR:
		return p.forStmt()
	case token.SWITCH:
		return p.switchStmt()
	case token.CASE:
		return p.caseStmt()
	case token.DEFAULT:
		return p.defaultStmt()
	case token.GOTO:
		return p.gotoStmt()
	case token.BREAK:
		p.advance()
		last := p.cur()
		p.expect(token.SEMI)
		return &ast.Break{Base: ast.NewBase(t, last)}
	case token.CONTINUE:
		p.advance()
		last := p.cur()
		p.expect(token.SEMI)
		return &ast.Continue{Base: ast.NewBase(t, last)}
	}
	if p.beginsTypeName(t) {
		return p.declaration()
	}
	return p.exprStmt()
}

func (p *Parser) compoundStmt() ast.Node {
	first := p.expect(token.LBRACE)
	var stmts []ast.Node
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		stmts = append(stmts, p.stmt())
	}
	last := p.cur()
	p.expect(token.RBRACE)
	return &ast.Block{Base: ast.NewBase(first, last), Stmts: stmts}
}

func (p *Parser) labelStmt() ast.Node {
	name := p.expect(token.IDENT)
	p.expect(token.COLON)
	stmt := p.stmt()
	return &ast.Label{Base: ast.NewBase(name, stmt.Last()), Name: name, Stmt: stmt}
}

func (p *Parser) returnStmt() ast.Node {
	first := p.expect(token.RETURN)
	var val ast.Node
	if p.cur().Kind != token.SEMI {
		val = p.expression()
	}
	last := p.cur()
	p.expect(token.SEMI)
	return &ast.Return{Base: ast.NewBase(first, last), Value: val}
}

func (p *Parser) ifStmt() ast.Node {
	first := p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.expression()
	p.expect(token.RPAREN)
	then := p.stmt()
	last := then.Last()
	var els ast.Node
	if p.cur().Kind == token.ELSE {
		p.advance()
		els = p.stmt()
		last = els.Last()
	}
	return &ast.If{Base: ast.NewBase(first, last), Cond: cond, Then: then, Else: els}
}

func (p *Parser) whileStmt() ast.Node {
	first := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.expression()
	p.expect(token.RPAREN)
	body := p.stmt()
	return &ast.While{Base: ast.NewBase(first, body.Last()), Cond: cond, Body: body}
}

func (p *Parser) doWhileStmt() ast.Node {
	first := p.expect(token.DO)
	body := p.stmt()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.expression()
	p.expect(token.RPAREN)
	last := p.cur()
	p.expect(token.SEMI)
	return &ast.DoWhile{Base: ast.NewBase(first, last), Body: body, Cond: cond}
}

func (p *Parser) forStmt() ast.Node {
	first := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Node
	if p.cur().Kind != token.SEMI {
		if p.beginsTypeName(p.cur()) {
			init = p.declaration()
		} else {
			init = p.expression()
			p.expect(token.SEMI)
		}
	} else {
		p.advance()
	}

	var cond ast.Node
	if p.cur().Kind != token.SEMI {
		cond = p.expression()
	}
	p.expect(token.SEMI)

	var post ast.Node
	if p.cur().Kind != token.RPAREN {
		post = p.expression()
	}
	p.expect(token.RPAREN)

	body := p.stmt()
	return &ast.For{Base: ast.NewBase(first, body.Last()), Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) switchStmt() ast.Node {
	first := p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	tag := p.expression()
	p.expect(token.RPAREN)
	body := p.stmt()
	return &ast.Switch{Base: ast.NewBase(first, body.Last()), Tag: tag, Body: body}
}

func (p *Parser) caseStmt() ast.Node {
	first := p.expect(token.CASE)
	val := p.assignmentExpr()
	p.expect(token.COLON)
	return &ast.Case{Base: ast.NewBase(first, val.Last()), Value: val}
}

func (p *Parser) defaultStmt() ast.Node {
	first := p.expect(token.DEFAULT)
	last := p.cur()
	p.expect(token.COLON)
	return &ast.Default{Base: ast.NewBase(first, last)}
}

func (p *Parser) gotoStmt() ast.Node {
	first := p.expect(token.GOTO)
	label := p.expect(token.IDENT)
	last := p.cur()
	p.expect(token.SEMI)
	return &ast.Goto{Base: ast.NewBase(first, last), Label: label}
}

func (p *Parser) exprStmt() ast.Node {
	first := p.cur()
	expr := p.expression()
	last := p.cur()
	p.expect(token.SEMI)
	return &ast.ExprStmt{Base: ast.NewBase(first, last), Expr: expr}
}

// ---- expressions ----

// expression is, in the full C grammar, the comma operator over
// assignment-expressions; this subset never needs a top-level comma
// expression (every call site that does want one — for-loop clauses,
// argument lists — already separates on ',' itself), so expression is
// assignmentExpr's synonym at statement level.
func (p *Parser) expression() ast.Node {
	return p.assignmentExpr()
}

var assignOps = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true,
	token.STAR_ASSIGN: true, token.SLASH_ASSIGN: true, token.PERCENT_ASSIGN: true,
	token.AND_ASSIGN: true, token.OR_ASSIGN: true, token.XOR_ASSIGN: true,
	token.SHL_ASSIGN: true, token.SHR_ASSIGN: true,
}

// assignmentExpr disambiguates an assignment from a plain
// conditional-expression by parsing a prefix-expression speculatively:
// if it's immediately followed by an assignment operator, commit to
// that; otherwise the snapshot is restored and the whole thing is
// reparsed as a conditional-expression. This mirrors the teacher's own
// save/restore-a-full-parser-state approach rather than adding a
// dedicated grammar production.
func (p *Parser) assignmentExpr() ast.Node {
	saved := p.snapshot()
	lhs := p.unaryExpr()
	if assignOps[p.cur().Kind] {
		op := p.advance()
		rhs := p.assignmentExpr()
		return &ast.Assign{Base: ast.NewBase(lhs.First(), rhs.Last()), Op: op.Kind, LHS: lhs, RHS: rhs}
	}
	p.restore(saved)
	return p.ternaryExpr()
}

func (p *Parser) ternaryExpr() ast.Node {
	cond := p.logicalOrExpr()
	if p.cur().Kind != token.QUESTION {
		return cond
	}
	p.advance()
	trueBr := p.expression()
	p.expect(token.COLON)
	falseBr := p.ternaryExpr()
	return &ast.Ternary{Base: ast.NewBase(cond.First(), falseBr.Last()), Cond: cond, True: trueBr, False: falseBr}
}

func (p *Parser) binaryLevel(next func() ast.Node, ops ...token.Kind) ast.Node {
	lhs := next()
	for {
		matched := false
		for _, op := range ops {
			if p.cur().Kind == op {
				matched = true
				break
			}
		}
		if !matched {
			return lhs
		}
		opTok := p.advance()
		rhs := next()
		lhs = &ast.Binary{Base: ast.NewBase(lhs.First(), rhs.Last()), Op: opTok.Kind, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) logicalOrExpr() ast.Node { return p.binaryLevel(p.logicalAndExpr, token.LOR) }
func (p *Parser) logicalAndExpr() ast.Node { return p.binaryLevel(p.bitOrExpr, token.LAND) }
func (p *Parser) bitOrExpr() ast.Node      { return p.binaryLevel(p.bitXorExpr, token.PIPE) }
func (p *Parser) bitXorExpr() ast.Node     { return p.binaryLevel(p.bitAndExpr, token.CARET) }
func (p *Parser) bitAndExpr() ast.Node     { return p.binaryLevel(p.equalityExpr, token.AMP) }
func (p *Parser) equalityExpr() ast.Node   { return p.binaryLevel(p.relationalExpr, token.EQ, token.NE) }
func (p *Parser) relationalExpr() ast.Node {
	return p.binaryLevel(p.shiftExpr, token.LT, token.GT, token.LE, token.GE)
}
func (p *Parser) shiftExpr() ast.Node { return p.binaryLevel(p.additiveExpr, token.SHL, token.SHR) }
func (p *Parser) additiveExpr() ast.Node {
	return p.binaryLevel(p.multiplicativeExpr, token.PLUS, token.MINUS)
}
func (p *Parser) multiplicativeExpr() ast.Node {
	return p.binaryLevel(p.castExpr, token.STAR, token.SLASH, token.PERCENT)
}

// castExpr recognizes "(type-name) expr" by speculatively parsing a
// parenthesized declaration-specifier list; anything else falls through
// to a prefix-expression (which itself may be a parenthesized ordinary
// expression).
func (p *Parser) castExpr() ast.Node {
	if p.cur().Kind == token.LPAREN && p.beginsTypeName(p.peek()) {
		first := p.advance()
		specs := p.declSpecList()
		var decl ast.Node
		if p.cur().Kind != token.RPAREN {
			decl = p.directDeclaratorOrPointerAbstract()
		}
		p.expect(token.RPAREN)
		operand := p.castExpr()
		return &ast.Cast{Base: ast.NewBase(first, operand.Last()), Specs: specs, Declarator: decl, Operand: operand}
	}
	return p.unaryExpr()
}

func (p *Parser) directDeclaratorOrPointerAbstract() ast.Node {
	return p.declarator()
}

func (p *Parser) unaryExpr() ast.Node {
	t := p.cur()
	switch t.Kind {
	case token.INC, token.DEC, token.PLUS, token.MINUS, token.AMP, token.STAR, token.TILDE, token.BANG:
		p.advance()
		operand := p.unaryExpr()
		return &ast.Unary{Base: ast.NewBase(t, operand.Last()), Op: t.Kind, Operand: operand}
	case token.SIZEOF:
		return p.sizeofExpr()
	}
	return p.postfixExpr()
}

func (p *Parser) sizeofExpr() ast.Node {
	first := p.expect(token.SIZEOF)
	if p.cur().Kind == token.LPAREN && p.beginsTypeName(p.peek()) {
		p.advance()
		specs := p.declSpecList()
		var decl ast.Node
		if p.cur().Kind != token.RPAREN {
			decl = p.directDeclaratorOrPointerAbstract()
		}
		last := p.cur()
		p.expect(token.RPAREN)
		return &ast.Sizeof{Base: ast.NewBase(first, last), Specs: specs, Declarator: decl}
	}
	operand := p.unaryExpr()
	return &ast.Sizeof{Base: ast.NewBase(first, operand.Last()), Operand: operand}
}

func (p *Parser) postfixExpr() ast.Node {
	node := p.primaryExpr()
	for {
		t := p.cur()
		switch t.Kind {
		case token.INC, token.DEC:
			p.advance()
			node = &ast.Unary{Base: ast.NewBase(node.First(), t), Op: t.Kind, Operand: node, Postfix: true}
		case token.DOT, token.ARROW:
			p.advance()
			field := p.expect(token.IDENT)
			node = &ast.Member{Base: ast.NewBase(node.First(), field), Object: node, Field: field, Arrow: t.Kind == token.ARROW}
		case token.LPAREN:
			p.advance()
			var args []ast.Node
			for p.cur().Kind != token.RPAREN && p.cur().Kind != token.EOF {
				args = append(args, p.assignmentExpr())
				if p.cur().Kind != token.RPAREN {
					p.expect(token.COMMA)
				}
			}
			last := p.cur()
			p.expect(token.RPAREN)
			node = &ast.Call{Base: ast.NewBase(node.First(), last), Fun: node, Args: args}
		case token.LBRACK:
			p.advance()
			idx := p.expression()
			last := p.cur()
			p.expect(token.RBRACK)
			node = &ast.Subscript{Base: ast.NewBase(node.First(), last), Array: node, Index: idx}
		default:
			return node
		}
	}
}

func (p *Parser) primaryExpr() ast.Node {
	t := p.cur()
	switch t.Kind {
	case token.INT_LIT, token.FLOAT_LIT, token.CHAR_LIT, token.STRING_LIT:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(t, t), Tok: t}
	case token.IDENT:
		p.advance()
		return &ast.Ident{Base: ast.NewBase(t, t), Tok: t}
	case token.LPAREN:
		p.advance()
		expr := p.expression()
		p.expect(token.RPAREN)
		return expr
	}
	return p.resync("expected an expression, found %s %q", t.Kind, t.Text)
}
