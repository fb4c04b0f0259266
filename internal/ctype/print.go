package ctype

import (
	"fmt"
	"io"
	"strings"
)

// Fdump writes idx's canonical layer chain in prefix-qualifier form, read
// outside-in: "const pointer to array [] of int". Qualifiers on a layer
// are printed before that layer's keyword; the chain is then recursed into
// Inner, per the specification's type dump contract.
func Fdump(w io.Writer, t *Table, idx Index) {
	fmt.Fprintln(w, Sprint(t, idx))
}

// Sprint renders idx's layer chain as a single string, in the same
// prefix-qualifier form Fdump writes.
func Sprint(t *Table, idx Index) string {
	var b strings.Builder
	writeChain(&b, t, idx)
	return b.String()
}

func writeChain(b *strings.Builder, t *Table, idx Index) {
	if idx == None {
		b.WriteString("<none>")
		return
	}
	ty := t.At(idx)
	if q := ty.Flags.String(); q != "" {
		b.WriteString(q)
	}
	switch ty.Tag {
	case Pointer:
		b.WriteString("pointer to ")
		writeChain(b, t, ty.Inner)
	case Array:
		if ty.Len < 0 {
			b.WriteString("array [] of ")
		} else {
			fmt.Fprintf(b, "array [%d] of ", ty.Len)
		}
		writeChain(b, t, ty.Inner)
	case Function:
		b.WriteString("function (")
		for i, p := range ty.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			writeChain(b, t, p.Type)
		}
		if ty.Variadic {
			if len(ty.Params) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("...")
		}
		b.WriteString(") returning ")
		writeChain(b, t, ty.Inner)
	case Struct, Union:
		b.WriteString(ty.Tag.String())
		if ty.TagName != "" {
			b.WriteString(" ")
			b.WriteString(ty.TagName)
		}
	case Enum:
		b.WriteString("enum")
		if ty.TagName != "" {
			b.WriteString(" ")
			b.WriteString(ty.TagName)
		}
	default:
		b.WriteString(ty.Tag.String())
	}
}
