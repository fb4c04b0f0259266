// Package token defines the lexical tokens of the accepted C subset.
package token

import "fmt"

// Kind classifies a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	IDENT
	INT_LIT
	FLOAT_LIT
	CHAR_LIT
	STRING_LIT

	// Punctuation.
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }
	LBRACK // [
	RBRACK // ]
	COMMA
	SEMI
	COLON
	QUESTION
	ELLIPSIS

	// Operators.
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	AND_ASSIGN
	OR_ASSIGN
	XOR_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	INC
	DEC

	AMP
	PIPE
	CARET
	TILDE
	SHL
	SHR

	LAND
	LOR
	BANG

	EQ
	NE
	LT
	GT
	LE
	GE

	DOT
	ARROW

	// Keywords.
	keywordBeg
	AUTO
	BREAK
	CASE
	CHAR
	CONST
	CONTINUE
	DEFAULT
	DO
	DOUBLE
	ELSE
	ENUM
	EXTERN
	FLOAT
	FOR
	GOTO
	IF
	INLINE
	INT
	LONG
	REGISTER
	RESTRICT
	RETURN
	SHORT
	SIGNED
	SIZEOF
	STATIC
	STRUCT
	SWITCH
	TYPEDEF
	UNION
	UNSIGNED
	VOID
	VOLATILE
	WHILE
	ALIGNAS
	ALIGNOF
	ATOMIC
	BOOL
	COMPLEX
	GENERIC
	NORETURN
	STATIC_ASSERT
	THREAD_LOCAL
	TRUE
	FALSE
	NULLPTR
	CONSTEXPR
	TYPEOF
	keywordEnd
)

var names = map[Kind]string{
	ILLEGAL: "illegal", EOF: "eof",
	IDENT: "ident", INT_LIT: "int_lit", FLOAT_LIT: "float_lit",
	CHAR_LIT: "char_lit", STRING_LIT: "string_lit",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACK: "[", RBRACK: "]", COMMA: ",", SEMI: ";", COLON: ":",
	QUESTION: "?", ELLIPSIS: "...",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=", AND_ASSIGN: "&=", OR_ASSIGN: "|=",
	XOR_ASSIGN: "^=", SHL_ASSIGN: "<<=", SHR_ASSIGN: ">>=",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	INC: "++", DEC: "--",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", SHL: "<<", SHR: ">>",
	LAND: "&&", LOR: "||", BANG: "!",
	EQ: "==", NE: "!=", LT: "<", GT: ">", LE: "<=", GE: ">=",
	DOT: ".", ARROW: "->",
	AUTO: "auto", BREAK: "break", CASE: "case", CHAR: "char", CONST: "const",
	CONTINUE: "continue", DEFAULT: "default", DO: "do", DOUBLE: "double",
	ELSE: "else", ENUM: "enum", EXTERN: "extern", FLOAT: "float", FOR: "for",
	GOTO: "goto", IF: "if", INLINE: "inline", INT: "int", LONG: "long",
	REGISTER: "register", RESTRICT: "restrict", RETURN: "return",
	SHORT: "short", SIGNED: "signed", SIZEOF: "sizeof", STATIC: "static",
	STRUCT: "struct", SWITCH: "switch", TYPEDEF: "typedef", UNION: "union",
	UNSIGNED: "unsigned", VOID: "void", VOLATILE: "volatile", WHILE: "while",
	ALIGNAS: "_Alignas", ALIGNOF: "_Alignof", ATOMIC: "_Atomic", BOOL: "bool",
	COMPLEX: "_Complex", GENERIC: "_Generic", NORETURN: "_Noreturn",
	STATIC_ASSERT: "static_assert", THREAD_LOCAL: "thread_local",
	TRUE: "true", FALSE: "false", NULLPTR: "nullptr", CONSTEXPR: "constexpr",
	TYPEOF: "typeof",
}

// keywords maps exact keyword spelling to its Kind. Lookup must be an
// exact-length comparison (not a longest-prefix strncmp) so that an
// identifier like "ifx" is never mistaken for "if".
var keywords map[string]Kind

func init() {
	keywords = make(map[string]Kind, int(keywordEnd-keywordBeg))
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		keywords[names[k]] = k
	}
}

// Lookup returns the keyword Kind for ident, or IDENT if ident is not a
// keyword. Comparison is by exact string equality: Go string equality
// compares length first, so there is no possibility of the over-read that
// a C strncmp(s, kw, max(len(s), len(kw))) comparison can suffer from.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word rather than punctuation,
// a literal, or a structural token.
func (k Kind) IsKeyword() bool { return k > keywordBeg && k < keywordEnd }

// Pos is a 1-based line/column source position.
type Pos struct {
	Offset int // byte offset from the start of the source buffer
	Line   int
	Col    int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token is a single lexical token together with its source extent and,
// for numeric literals, its decoded value.
type Token struct {
	Kind   Kind
	Text   string // exact source spelling (lexeme)
	Pos    Pos
	Len    int // byte length of the lexeme in the source buffer

	IntVal   uint64  // decoded value for INT_LIT and CHAR_LIT
	FloatVal float64 // decoded value for FLOAT_LIT
}

func (t Token) String() string {
	return fmt.Sprintf("token(%s)@(%d:%d) '%s'", t.Kind, t.Pos.Line, t.Pos.Col, t.Text)
}
