package ctype

import "fmt"

// baseSizes is the fixed ILP64-like size table from specification §4.5:
// long/long-long/pointer are 8 bytes, int is 4, short is 2, char/bool are
// 1, float is 4, double and long double are 8, complex types are twice
// their real counterpart.
var baseSizes = map[Tag]int{
	Void: 0,
	Bool: 1, Char: 1, UChar: 1,
	Short: 2, UShort: 2,
	Int: 4, UInt: 4,
	Long: 8, ULong: 8,
	LongLong: 8, ULongLong: 8,
	Float: 4, Double: 8, LongDouble: 8,
	ComplexFloat: 8, ComplexDouble: 16, ComplexLongDouble: 16,
}

const defaultPointerSize = 8

// ErrIncompleteType is returned by TrySizeAlign when a type's size cannot be
// determined: an incomplete array, or a struct/union tag that was
// declared but never defined.
type ErrIncompleteType struct{ Type Index }

func (e ErrIncompleteType) Error() string {
	return fmt.Sprintf("type %d is incomplete: not a constant expression", int(e.Type))
}

// SetBaseSize overrides the built-in size (in bytes) for a base-type tag,
// per internal/config's target-data-model widths. It is a no-op for tags
// outside baseSizes (Pointer/Array/Function/Struct/Union/Enum derive their
// size some other way and are not overridable here).
func (t *Table) SetBaseSize(tag Tag, size int) {
	if t.sizes == nil {
		t.sizes = make(map[Tag]int, len(baseSizes))
		for k, v := range baseSizes {
			t.sizes[k] = v
		}
	}
	if _, ok := baseSizes[tag]; ok {
		t.sizes[tag] = size
	}
}

// SetPointerSize overrides the width used for every Pointer-tag layer.
func (t *Table) SetPointerSize(size int) { t.pointerSize = size }

func (t *Table) baseSize(tag Tag) (int, bool) {
	if t.sizes != nil {
		if s, ok := t.sizes[tag]; ok {
			return s, true
		}
	}
	s, ok := baseSizes[tag]
	return s, ok
}

func (t *Table) ptrSize() int {
	if t.pointerSize != 0 {
		return t.pointerSize
	}
	return defaultPointerSize
}

// SizeAlign computes the size and alignment, in bytes, of idx. Struct and
// union sizes come from the layout recorded at creation time (see
// NaturalLayout); array sizes are element-size * extent when the extent
// is known. For a type whose size cannot be determined it returns zeros
// and no error; callers needing the ErrIncompleteType error use
// TrySizeAlign.
func (t *Table) SizeAlign(idx Index) (size, align int) {
	size, align, _ = t.TrySizeAlign(idx)
	return size, align
}

// TrySizeAlign is SizeAlign's fallible form: it reports an error instead
// of silently returning 0 for an incomplete type, per SPEC_FULL.md's
// resolution of the struct/union/array sizeof open question.
func (t *Table) TrySizeAlign(idx Index) (size, align int, err error) {
	ty := t.At(idx)
	switch ty.Tag {
	case Pointer, Function:
		// A function type itself has no size in C; the resolver does not
		// reject "sizeof" on a function designator, so this returns an
		// error for it. Pointers are always pointerSize.
		if ty.Tag == Pointer {
			p := t.ptrSize()
			return p, p, nil
		}
		return 0, 1, fmt.Errorf("sizeof applied to function type")
	case Array:
		if ty.Len < 0 {
			return 0, 0, ErrIncompleteType{Type: idx}
		}
		elemSize, elemAlign, err := t.TrySizeAlign(ty.Inner)
		if err != nil {
			return 0, 0, err
		}
		return elemSize * ty.Len, elemAlign, nil
	case Struct, Union, Enum:
		if ty.Tag == Enum {
			return t.TrySizeAlign(ty.EnumBase)
		}
		if ty.Fields == nil && ty.Size == 0 {
			return 0, 0, ErrIncompleteType{Type: idx}
		}
		return ty.Size, ty.Align, nil
	default:
		if s, ok := t.baseSize(ty.Tag); ok {
			align := s
			if align == 0 {
				align = 1
			}
			return s, align, nil
		}
		return 0, 1, fmt.Errorf("sizeof applied to incomplete or unsupported type tag %s", ty.Tag)
	}
}

// NaturalLayout computes a struct/union's size and alignment under C's
// ordinary (non-bit-field) layout rule: fields in declaration order, each
// placed at the next offset satisfying its own alignment, padded at the
// end to the struct's own alignment (the max field alignment). Offsets
// are written back into fields in place.
func NaturalLayout(t *Table, fields []Field) (size, align int) {
	align = 1
	offset := 0
	for i := range fields {
		fs, fa, err := t.TrySizeAlign(fields[i].Type)
		if err != nil {
			fs, fa = 0, 1
		}
		offset = roundUp(offset, fa)
		fields[i].Offset = offset
		offset += fs
		if fa > align {
			align = fa
		}
	}
	size = roundUp(offset, align)
	return size, align
}

// Alignas resolves the effective alignment of idx, honoring any explicit
// alignas exponent packed into Flags (specification §3's 4-bit log2 field),
// which overrides the natural alignment when larger.
func (t *Table) Alignas(idx Index) int {
	ty := t.At(idx)
	_, natural := t.SizeAlign(idx)
	if exp := ty.Flags.Alignas(); exp != 0 {
		explicit := 1 << exp
		if explicit > natural {
			return explicit
		}
	}
	return natural
}
