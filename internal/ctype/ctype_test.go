package ctype

import "testing"

func TestFindOrCreateCanonicalizes(t *testing.T) {
	tbl := NewTable()
	intIdx := tbl.FindOrCreate(None, Int, 0)
	a := tbl.FindOrCreate(intIdx, Pointer, 0)
	b := tbl.FindOrCreate(intIdx, Pointer, 0)
	if a != b {
		t.Fatalf("two requests for int* returned different indices: %d != %d", a, b)
	}
	constA := tbl.FindOrCreate(intIdx, Pointer, Const)
	if constA == a {
		t.Fatalf("const int* must not canonicalize to the same index as int*")
	}
}

func TestFindOrCreateArrayKeyIncludesLength(t *testing.T) {
	tbl := NewTable()
	intIdx := tbl.FindOrCreate(None, Int, 0)
	arr3 := tbl.FindOrCreateArray(intIdx, 0, 3)
	arr4 := tbl.FindOrCreateArray(intIdx, 0, 4)
	if arr3 == arr4 {
		t.Fatalf("int[3] and int[4] must not canonicalize to the same index")
	}
	arr3again := tbl.FindOrCreateArray(intIdx, 0, 3)
	if arr3 != arr3again {
		t.Fatalf("int[3] requested twice returned different indices")
	}
}

func TestStructNaturalLayout(t *testing.T) {
	tbl := NewTable()
	char := tbl.FindOrCreate(None, Char, 0)
	intIdx := tbl.FindOrCreate(None, Int, 0)
	// struct { char c; int i; } -- c at 0, padding to 4, i at 4, size 8
	idx := tbl.NewStruct("S", []Field{{Name: "c", Type: char}, {Name: "i", Type: intIdx}})
	ty := tbl.At(idx)
	if ty.Fields[0].Offset != 0 {
		t.Errorf("c offset = %d, want 0", ty.Fields[0].Offset)
	}
	if ty.Fields[1].Offset != 4 {
		t.Errorf("i offset = %d, want 4", ty.Fields[1].Offset)
	}
	if ty.Size != 8 {
		t.Errorf("size = %d, want 8", ty.Size)
	}
}

func TestUnionLayoutSharesOffsetZero(t *testing.T) {
	tbl := NewTable()
	char := tbl.FindOrCreate(None, Char, 0)
	intIdx := tbl.FindOrCreate(None, Int, 0)
	idx := tbl.NewUnion("U", []Field{{Name: "c", Type: char}, {Name: "i", Type: intIdx}})
	ty := tbl.At(idx)
	for _, f := range ty.Fields {
		if f.Offset != 0 {
			t.Errorf("union field %q offset = %d, want 0", f.Name, f.Offset)
		}
	}
	if ty.Size != 4 {
		t.Errorf("union size = %d, want 4 (widest member)", ty.Size)
	}
}

func TestSizeAlignPointerAndIncompleteArray(t *testing.T) {
	tbl := NewTable()
	intIdx := tbl.FindOrCreate(None, Int, 0)
	ptr := tbl.FindOrCreate(intIdx, Pointer, 0)
	size, align := tbl.SizeAlign(ptr)
	if size != 8 || align != 8 {
		t.Errorf("pointer size/align = %d/%d, want 8/8", size, align)
	}

	incomplete := tbl.FindOrCreateArray(intIdx, 0, -1)
	if _, _, err := tbl.TrySizeAlign(incomplete); err == nil {
		t.Errorf("TrySizeAlign on an incomplete array should fail")
	}
}

func TestSetBaseSizeOverridesWidth(t *testing.T) {
	tbl := NewTable()
	intIdx := tbl.FindOrCreate(None, Int, 0)
	tbl.SetBaseSize(Int, 2)
	size, _ := tbl.SizeAlign(intIdx)
	if size != 2 {
		t.Errorf("overridden int size = %d, want 2", size)
	}
}

func TestSetPointerSizeOverridesWidth(t *testing.T) {
	tbl := NewTable()
	intIdx := tbl.FindOrCreate(None, Int, 0)
	ptr := tbl.FindOrCreate(intIdx, Pointer, 0)
	tbl.SetPointerSize(4)
	size, align := tbl.SizeAlign(ptr)
	if size != 4 || align != 4 {
		t.Errorf("overridden pointer size/align = %d/%d, want 4/4", size, align)
	}
}

func TestSprintPointerToArray(t *testing.T) {
	tbl := NewTable()
	intIdx := tbl.FindOrCreate(None, Int, 0)
	arr := tbl.FindOrCreateArray(intIdx, 0, 3)
	ptr := tbl.FindOrCreate(arr, Pointer, 0)
	got := Sprint(tbl, ptr)
	want := "pointer to array [3] of int"
	if got != want {
		t.Errorf("Sprint = %q, want %q", got, want)
	}
}

func TestSelfReferentialStructViaIncompleteTag(t *testing.T) {
	tbl := NewTable()
	nodeIdx := tbl.NewIncompleteTag(Struct, "Node")
	ptrToNode := tbl.FindOrCreate(nodeIdx, Pointer, 0)
	intIdx := tbl.FindOrCreate(None, Int, 0)
	tbl.CompleteStruct(nodeIdx, []Field{{Name: "val", Type: intIdx}, {Name: "next", Type: ptrToNode}})
	ty := tbl.At(nodeIdx)
	if ty.Fields[1].Type != ptrToNode {
		t.Fatalf("self-referential field did not retain its pointer-to-incomplete-tag type")
	}
	size, _ := tbl.SizeAlign(ptrToNode)
	if size != 8 {
		t.Errorf("pointer-to-incomplete-tag size = %d, want 8", size)
	}
}
