// Package diag renders diagnostics and implements the compiler's error
// propagation policy: accumulate-and-continue by default, with an optional
// abort mode that terminates the process on the first error.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/width"
	"golang.org/x/xerrors"

	"github.com/cc23/cc23/internal/token"
)

// Category classifies a diagnostic by the phase that raised it, matching
// the taxonomy in the specification.
type Category int

const (
	Lexical Category = iota
	Syntactic
	SemanticSpecifier
	SemanticScope
	SemanticType
	IRError
	Internal
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Syntactic:
		return "syntax"
	case SemanticSpecifier:
		return "specifier"
	case SemanticScope:
		return "scope"
	case SemanticType:
		return "type"
	case IRError:
		return "ir"
	case Internal:
		return "internal"
	default:
		return "error"
	}
}

// Note is a secondary annotation attached to an Error, e.g. "previous
// definition here" for a redefinition diagnostic.
type Note struct {
	Pos token.Pos
	Msg string
}

// Error is one diagnostic: a category, a source position, a message, and
// zero or more notes. It wraps golang.org/x/xerrors so diagnostics created
// deep in a resolver or builder call chain retain a creation frame and
// compose with errors.Is/errors.As through %w.
type Error struct {
	Category Category
	Pos      token.Pos
	Msg      string
	Notes    []Note
	frame    xerrors.Frame
	wrapped  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Category, e.Msg)
}

func (e *Error) Unwrap() error { return e.wrapped }

func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	e.frame.Format(p)
	return e.wrapped
}

// Wrap produces a new Error whose Unwrap chain reaches cause, preserving
// cause's own message as an xerrors %w suffix.
func Wrap(cat Category, pos token.Pos, cause error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Category: cat,
		Pos:      pos,
		Msg:      msg,
		wrapped:  xerrors.Errorf("%s: %w", msg, cause),
		frame:    xerrors.Caller(1),
	}
}

// Bag accumulates diagnostics for one translation unit. It implements the
// two propagation modes the specification requires: accumulate-and-gate
// (the default) and abort-immediately (when Abort is set, typically by a
// CLI flag).
type Bag struct {
	Abort  bool
	Src    []byte // source buffer, for rendering highlighted lines
	Name   string // source file name, for the error header
	out    io.Writer
	errors []*Error
}

// NewBag creates an empty Bag that renders to stderr.
func NewBag(name string, src []byte) *Bag {
	return &Bag{Name: name, Src: src, out: os.Stderr}
}

// SetOutput redirects rendered diagnostics, primarily for tests.
func (b *Bag) SetOutput(w io.Writer) { b.out = w }

// Addf records a new diagnostic. If Abort is set, it renders immediately
// and terminates the process with exit status 1, per the specification's
// "terminate the process immediately" abort behavior.
func (b *Bag) Addf(cat Category, pos token.Pos, format string, args ...any) *Error {
	e := &Error{Category: cat, Pos: pos, Msg: fmt.Sprintf(format, args...), frame: xerrors.Caller(1)}
	return b.add(e)
}

// AddWrapped records a diagnostic already constructed via Wrap.
func (b *Bag) AddWrapped(e *Error) *Error { return b.add(e) }

func (b *Bag) add(e *Error) *Error {
	b.errors = append(b.errors, e)
	if b.Abort {
		b.render(e)
		os.Exit(1)
	}
	return e
}

// Note attaches an informational note to the most recently added error,
// such as a pointer back at an earlier declaration. internal/resolve does
// not call it: its "redefinition of name" diagnostics carry no note.
func (b *Bag) Note(pos token.Pos, format string, args ...any) {
	if len(b.errors) == 0 {
		return
	}
	last := b.errors[len(b.errors)-1]
	last.Notes = append(last.Notes, Note{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Len reports how many diagnostics have been recorded.
func (b *Bag) Len() int { return len(b.errors) }

// Errors returns the accumulated diagnostics in recording order.
func (b *Bag) Errors() []*Error { return b.errors }

// Gate renders every accumulated diagnostic and returns a non-nil error
// when any were recorded. Called once at the end of each pipeline phase
// (lex, parse, resolve, build); the driver turns a non-nil Gate result
// into a process exit code of 1.
func (b *Bag) Gate() error {
	if len(b.errors) == 0 {
		return nil
	}
	for _, e := range b.errors {
		b.render(e)
	}
	n := len(b.errors)
	if n == 1 {
		return xerrors.New("1 error")
	}
	return xerrors.Errorf("%d errors", n)
}

// render prints one diagnostic: a red "error:" header, the tab-expanded
// source line, and a single caret under the diagnostic's start column.
// The rest of the offending token is not underlined.
func (b *Bag) render(e *Error) {
	fmt.Fprintf(b.out, "%s:%s: \x1b[31merror:\x1b[0m %s\n", b.Name, e.Pos, e.Msg)
	b.renderLine(e.Pos)
	for _, n := range e.Notes {
		fmt.Fprintf(b.out, "%s:%s: note: %s\n", b.Name, n.Pos, n.Msg)
		b.renderLine(n.Pos)
	}
}

func (b *Bag) renderLine(pos token.Pos) {
	line := sourceLine(b.Src, pos.Line)
	if line == "" {
		return
	}
	expanded, caretCol := expandTabs(line, pos.Col)
	fmt.Fprintf(b.out, "  %5d | %s\n", pos.Line, expanded)
	fmt.Fprintf(b.out, "        | %s^\n", strings.Repeat(" ", caretCol))
}

func sourceLine(src []byte, line int) string {
	cur := 1
	start := 0
	for i, b := range src {
		if cur == line && start == 0 && (i == 0 || src[i-1] == '\n') {
			start = i
		}
		if b == '\n' {
			if cur == line {
				return string(src[start:i])
			}
			cur++
		}
	}
	if cur == line {
		return string(src[start:])
	}
	return ""
}

// expandTabs rewrites line with tabs replaced by spaces to the next
// multiple-of-8 stop, and returns the display column (accounting for
// East-Asian-wide runes via golang.org/x/text/width) corresponding to the
// 1-based byte/rune column col in the original line.
func expandTabs(line string, col int) (string, int) {
	var b strings.Builder
	displayCol := 0
	runeIdx := 0
	for _, r := range line {
		runeIdx++
		if runeIdx == col {
			displayCol = b.Len()
		}
		if r == '\t' {
			spaces := 8 - b.Len()%8
			b.WriteString(strings.Repeat(" ", spaces))
			continue
		}
		b.WriteRune(r)
		if width.LookupRune(r).Kind() == width.EastAsianWide {
			b.WriteRune(' ')
		}
	}
	if runeIdx < col {
		displayCol = b.Len()
	}
	return b.String(), displayCol
}
