package token

import (
	"fmt"
	"io"
)

// Dump writes one line per token in toks, in the same "kind@pos text"
// shape Token.String uses, terminated by the trailing EOF token the lexer
// always appends.
func Dump(w io.Writer, toks []Token) {
	for _, t := range toks {
		fmt.Fprintln(w, t.String())
	}
}
