// Package ctype implements the canonical C type table: an append-only
// arena of layer-chain entries addressed by integer index, per the
// specification's "Type (canonical)" data model.
//
// Each Type is one layer in a chain; Inner points at the next layer,
// terminating at None (index 0, the reserved sentinel). Two requests for
// the same (inner, tag, flags) triple return the same index — this is the
// canonicalization invariant the rest of the compiler depends on: type
// equality is index equality.
package ctype

import "fmt"

// Index addresses one entry in a Table. Index zero is the reserved NONE
// sentinel, never a real type.
type Index int

// None is the sentinel index: "no type" / the end of a layer chain.
const None Index = 0

// Tag identifies what kind of layer a Type entry is.
type Tag int

const (
	TagNone Tag = iota
	Void
	Bool
	Char
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
	ComplexFloat
	ComplexDouble
	ComplexLongDouble
	AutoSentinel
	Pointer
	Array
	Function
	Enum
	Struct
	Union
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case UChar:
		return "unsigned char"
	case Short:
		return "short"
	case UShort:
		return "unsigned short"
	case Int:
		return "int"
	case UInt:
		return "unsigned int"
	case Long:
		return "long"
	case ULong:
		return "unsigned long"
	case LongLong:
		return "long long"
	case ULongLong:
		return "unsigned long long"
	case Float:
		return "float"
	case Double:
		return "double"
	case LongDouble:
		return "long double"
	case ComplexFloat:
		return "complex float"
	case ComplexDouble:
		return "complex double"
	case ComplexLongDouble:
		return "complex long double"
	case AutoSentinel:
		return "auto"
	case Pointer:
		return "pointer"
	case Array:
		return "array"
	case Function:
		return "function"
	case Enum:
		return "enum"
	case Struct:
		return "struct"
	case Union:
		return "union"
	default:
		return fmt.Sprintf("tag(%d)", int(t))
	}
}

// IsInteger reports whether t is one of the integer base tags (including
// bool and char, per C's integer-promotion rules).
func (t Tag) IsInteger() bool {
	switch t {
	case Bool, Char, UChar, Short, UShort, Int, UInt, Long, ULong, LongLong, ULongLong, Enum:
		return true
	}
	return false
}

// IsFloating reports whether t is one of the real or complex
// floating-point base tags.
func (t Tag) IsFloating() bool {
	switch t {
	case Float, Double, LongDouble, ComplexFloat, ComplexDouble, ComplexLongDouble:
		return true
	}
	return false
}

func (t Tag) IsSigned() bool {
	switch t {
	case Char, Short, Int, Long, LongLong:
		return true
	}
	return false
}

// Flags is a bitset of type qualifiers, function specifiers, and a packed
// alignas exponent, per the specification's Type data model.
type Flags uint16

const (
	Const Flags = 1 << iota
	Volatile
	Restrict
	AtomicQ
	Inline
	Noreturn

	alignShift = 8
	alignBits  = 4
	alignMask  = Flags((1<<alignBits)-1) << alignShift
)

// WithAlignas returns flags with its packed alignas exponent set to
// log2Align (0 means "no explicit alignas"). log2Align must fit in 4 bits.
func (f Flags) WithAlignas(log2Align int) Flags {
	return (f &^ alignMask) | (Flags(log2Align) << alignShift & alignMask)
}

// Alignas returns the explicit alignas exponent packed into f, or 0 if
// none was set.
func (f Flags) Alignas() int { return int((f & alignMask) >> alignShift) }

func (f Flags) String() string {
	var s string
	if f&Const != 0 {
		s += "const "
	}
	if f&Volatile != 0 {
		s += "volatile "
	}
	if f&Restrict != 0 {
		s += "restrict "
	}
	if f&AtomicQ != 0 {
		s += "_Atomic "
	}
	if f&Inline != 0 {
		s += "inline "
	}
	if f&Noreturn != 0 {
		s += "_Noreturn "
	}
	return s
}

// Field is one member of a struct or union layer.
type Field struct {
	Name   string
	Type   Index
	Offset int // byte offset within the struct/union, computed at creation
}

// Param is one parameter of a function layer.
type Param struct {
	Name string // may be empty for an abstract parameter
	Type Index
}

// Type is a single layer in a canonical type's chain.
type Type struct {
	Inner Index
	Tag   Tag
	Flags Flags

	// Struct/Union layers only.
	Fields []Field
	Size   int
	Align  int

	// Function layers only.
	Params   []Param
	Variadic bool

	// Array layers only. Len < 0 means an incomplete array ("T[]").
	Len int

	// Enum layers only: the integer base type the enum is represented as.
	EnumBase Index

	// Struct/Union/Enum tag name, for diagnostics and printing; empty for
	// anonymous definitions.
	TagName string
}

type key struct {
	inner Index
	tag   Tag
	flags Flags
	len   int // participates in the key only for Array layers
}

// Table is the append-only type arena owned by one translation unit.
type Table struct {
	types []Type
	index map[key]Index

	// sizes/pointerSize hold internal/config's target-data-model overrides,
	// if any; both are nil/zero (meaning "use the built-in defaults") until
	// SetBaseSize/SetPointerSize is called.
	sizes       map[Tag]int
	pointerSize int
}

// NewTable creates a Table with index 0 reserved as the NONE sentinel.
func NewTable() *Table {
	t := &Table{index: make(map[key]Index)}
	t.types = append(t.types, Type{Tag: TagNone}) // index 0 = None
	return t
}

// At returns the Type stored at idx. idx must be a previously returned,
// non-None index.
func (t *Table) At(idx Index) Type { return t.types[idx] }

// Len reports how many entries (including the sentinel) the table holds.
func (t *Table) Len() int { return len(t.types) }

// FindOrCreate returns the index of the unique Type with the given
// (inner, tag, flags[, len]) key, creating it if this is the first
// request for that triple. This is the canonicalization operation the
// specification's invariant is stated in terms of: calling it twice with
// equal arguments always returns the same index.
func (t *Table) FindOrCreate(inner Index, tag Tag, flags Flags) Index {
	return t.findOrCreateArray(inner, tag, flags, 0)
}

// FindOrCreateArray is FindOrCreate specialized for Array layers, whose
// identity also depends on the element count.
func (t *Table) FindOrCreateArray(inner Index, flags Flags, length int) Index {
	return t.findOrCreateArray(inner, Array, flags, length)
}

func (t *Table) findOrCreateArray(inner Index, tag Tag, flags Flags, length int) Index {
	k := key{inner: inner, tag: tag, flags: flags}
	if tag == Array {
		k.len = length
	}
	if idx, ok := t.index[k]; ok {
		return idx
	}
	ty := Type{Inner: inner, Tag: tag, Flags: flags}
	if tag == Array {
		ty.Len = length
	}
	idx := Index(len(t.types))
	t.types = append(t.types, ty)
	t.index[k] = idx
	return idx
}

// NewFunction always appends a new Function layer: function identity also
// depends on its parameter list, which FindOrCreate's triple key cannot
// express, so functions are never deduplicated by content the way
// primitive/pointer/array layers are (two declarations of "int f(int)"
// still share storage for "int" and for "int" the parameter type, but not
// for the function layer itself). internal/resolve calls NewFunction once
// per function declarator, so two identical prototypes get two distinct
// function-layer indices.
func (t *Table) NewFunction(ret Index, params []Param, variadic bool, flags Flags) Index {
	idx := Index(len(t.types))
	t.types = append(t.types, Type{Inner: ret, Tag: Function, Flags: flags, Params: params, Variadic: variadic})
	return idx
}

// NewStruct appends a new Struct layer with fields laid out by NaturalLayout.
func (t *Table) NewStruct(tagName string, fields []Field) Index {
	return t.newAggregate(Struct, tagName, fields)
}

// NewUnion appends a new Union layer; all fields share offset 0.
func (t *Table) NewUnion(tagName string, fields []Field) Index {
	idx := Index(len(t.types))
	size, align := 0, 1
	for i, f := range fields {
		fs, fa := t.SizeAlign(f.Type)
		fields[i].Offset = 0
		if fs > size {
			size = fs
		}
		if fa > align {
			align = fa
		}
	}
	size = roundUp(size, align)
	t.types = append(t.types, Type{Tag: Union, TagName: tagName, Fields: fields, Size: size, Align: align})
	return idx
}

// NewEnum appends a new Enum layer over base (normally Int).
func (t *Table) NewEnum(tagName string, base Index) Index {
	idx := Index(len(t.types))
	t.types = append(t.types, Type{Tag: Enum, TagName: tagName, EnumBase: base})
	return idx
}

// NewIncompleteTag reserves an index for a struct/union/enum tag that has
// been declared but not yet defined (e.g. "struct Node *next;" inside
// Node's own body). Fields/layout are filled in later via CompleteStruct
// or SetUnionLayout.
func (t *Table) NewIncompleteTag(tag Tag, tagName string) Index {
	idx := Index(len(t.types))
	t.types = append(t.types, Type{Tag: tag, TagName: tagName})
	return idx
}

// CompleteStruct fills in a previously reserved incomplete struct/union
// tag's field list and layout.
func (t *Table) CompleteStruct(idx Index, fields []Field) {
	size, align := NaturalLayout(t, fields)
	ty := &t.types[idx]
	ty.Fields = fields
	ty.Size = size
	ty.Align = align
}

// SetUnionLayout fills in a previously reserved incomplete union tag's
// field list with a caller-computed layout (every field at offset 0,
// sized to the widest member).
func (t *Table) SetUnionLayout(idx Index, fields []Field, size, align int) {
	ty := &t.types[idx]
	ty.Fields = fields
	ty.Size = size
	ty.Align = align
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	if r := n % align; r != 0 {
		n += align - r
	}
	return n
}

func (t *Table) newAggregate(tag Tag, tagName string, fields []Field) Index {
	idx := Index(len(t.types))
	size, align := NaturalLayout(t, fields)
	t.types = append(t.types, Type{Tag: tag, TagName: tagName, Fields: fields, Size: size, Align: align})
	return idx
}
