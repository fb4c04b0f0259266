package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cc23/cc23/internal/ctype"
)

func TestDefaultAppliesNoOverrides(t *testing.T) {
	tbl := ctype.NewTable()
	intIdx := tbl.FindOrCreate(ctype.None, ctype.Int, 0)
	Default().Apply(tbl)
	size, _ := tbl.SizeAlign(intIdx)
	if size != 4 {
		t.Fatalf("int size after applying an empty config = %d, want the built-in default 4", size)
	}
}

func TestLoadAndApplyOverridesWidths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cc23.yaml")
	yamlSrc := "widths:\n  int: 2\n  pointer: 4\n"
	if err := os.WriteFile(path, []byte(yamlSrc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tbl := ctype.NewTable()
	intIdx := tbl.FindOrCreate(ctype.None, ctype.Int, 0)
	ptrIdx := tbl.FindOrCreate(intIdx, ctype.Pointer, 0)
	cfg.Apply(tbl)

	if size, _ := tbl.SizeAlign(intIdx); size != 2 {
		t.Errorf("int size = %d, want 2", size)
	}
	if size, _ := tbl.SizeAlign(ptrIdx); size != 4 {
		t.Errorf("pointer size = %d, want 4", size)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Load on a missing file should return an error")
	}
}
