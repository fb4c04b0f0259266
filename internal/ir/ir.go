// Package ir implements the SSA intermediate representation and its
// construction, per the specification's §3 (Function/BasicBlock/Value)
// and §4.4 (the Braun et al. on-the-fly SSA construction algorithm: per-
// block variable definitions, on-demand φ insertion through sealed/filled
// blocks, and trivial-φ elimination).
package ir

import (
	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/scope"
)

// Op identifies an instruction's operation.
type Op int

const (
	OpLabel Op = iota // pseudo: block-entry marker, for dump purposes only
	OpData            // pseudo: anonymous data slot (string/aggregate literal)
	OpParam           // pseudo: binds a function parameter to its entry-block value; not in the specification's instruction list, added because the builder needs some defining instruction for parameters
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShr
	OpShl
	OpNeg
	OpNot  // logical not (!)
	OpInv  // bitwise complement (~)
	OpMove
	OpImm
	OpSt // store indirect: St(addr, value)
	OpLd // load indirect: Ld(addr)
	OpAddr
	OpCall
	OpRet
	OpTest // comparison; Cmp holds the comparison kind
	OpJz
	OpJmp
	OpPhi
)

var opNames = map[Op]string{
	OpLabel: "label", OpData: "data", OpParam: "param", OpAdd: "add", OpSub: "sub", OpMul: "mul",
	OpDiv: "div", OpMod: "mod", OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpShr: "shr", OpShl: "shl", OpNeg: "neg", OpNot: "not", OpInv: "inv",
	OpMove: "move", OpImm: "imm", OpSt: "st", OpLd: "ld", OpAddr: "addr",
	OpCall: "call", OpRet: "ret", OpTest: "test", OpJz: "jz", OpJmp: "jmp",
	OpPhi: "phi",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "op?"
}

// Cmp identifies the comparison kind carried by an OpTest instruction.
type Cmp int

const (
	CmpEQ Cmp = iota
	CmpNE
	CmpLT
	CmpGT
	CmpLE
	CmpGE
	CmpNonZero // truth test of a single operand (used for "if", "while" conditions that aren't already comparisons)
)

var cmpNames = map[Cmp]string{
	CmpEQ: "eq", CmpNE: "ne", CmpLT: "lt", CmpGT: "gt", CmpLE: "le", CmpGE: "ge", CmpNonZero: "nz",
}

func (c Cmp) String() string { return cmpNames[c] }

// Value is one SSA definition. Every operand of every instruction
// references a previously produced Value (the specification's SSA
// invariant); a Value never changes after its defining instruction has
// been emitted, except that a trivial φ may be marked Replaced, at which
// point every future read should follow Replaced instead of the φ itself.
type Value struct {
	Block *BasicBlock
	Index int // dense, function-unique "r<index>" register number
	Type  ctype.Index

	Op   Op
	Args []*Value // operand list (phi: one per Block.Preds entry, in order)
	Cmp  Cmp       // valid when Op == OpTest
	Imm  int64     // valid when Op == OpImm
	ParamIndex int // valid when Op == OpParam

	// Scope links this Value to the source variable it represents, for
	// named registers ("rX.name") in the dump and for write/read. None
	// for anonymous temporaries.
	Scope scope.Index

	Phi      bool
	Deps     []*Value // other φs whose Args reference this Value (trivial-φ elimination back-references, per spec §9)
	Replaced *Value   // set once this φ has been trivially eliminated

	Label string // optional block-jump target label text, for Jmp/Jz
}

// resolved follows Replaced links to the value a (possibly
// trivial-φ-eliminated) Value now stands for.
func resolved(v *Value) *Value {
	for v.Replaced != nil {
		v = v.Replaced
	}
	return v
}

// BasicBlock is a maximal straight-line instruction sequence with a single
// entry and (after Filled) a single well-defined set of successors.
type BasicBlock struct {
	Index int
	Name  string
	Func  *Function

	Instrs []*Value
	Preds  []*BasicBlock
	Succs  []*BasicBlock

	ownedVars      map[scope.Index]*Value
	incompletePhis []*Value

	Sealed bool
	Filled bool
}

// addEdge records a Preds/Succs edge between pred and succ together, so
// the specification's edge invariant (A -> B iff A in B.Preds iff B in
// A.Succs) can never be violated by a one-sided update.
func addEdge(pred, succ *BasicBlock) {
	pred.Succs = append(pred.Succs, succ)
	succ.Preds = append(succ.Preds, pred)
}

// Function owns an ordered list of basic blocks plus the counters the
// builder uses while constructing them.
type Function struct {
	Name   string
	Params []scope.Index
	Blocks []*BasicBlock

	nextTemp      int
	nextCondLabel int
}

func (f *Function) newBlock(name string) *BasicBlock {
	b := &BasicBlock{
		Index:     len(f.Blocks),
		Name:      name,
		Func:      f,
		ownedVars: make(map[scope.Index]*Value),
	}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Function) nextTempIndex() int {
	v := f.nextTemp
	f.nextTemp++
	return v
}

func (f *Function) condLabel(base string) string {
	n := f.nextCondLabel
	f.nextCondLabel++
	return labelName(base, n)
}

func labelName(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// emit appends v to b.Instrs, stamping it with a dense register index.
func (b *BasicBlock) emit(v *Value) *Value {
	v.Block = b
	v.Index = b.Func.nextTempIndex()
	b.Instrs = append(b.Instrs, v)
	return v
}
