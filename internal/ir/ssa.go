package ir

import "github.com/cc23/cc23/internal/scope"

// write records that variable's current SSA value in block is v,
// replacing any prior owned-var entry for variable in block. Per the
// specification's §4.4 "write" operation.
func write(block *BasicBlock, variable scope.Index, v *Value) {
	block.ownedVars[variable] = v
}

// read returns the current SSA value of variable for block, implementing
// the on-the-fly construction algorithm of Braun et al. (specification
// §4.4):
//
//  1. If block owns a current value for variable, return it.
//  2. If block is not yet sealed, emit an incomplete φ, record it, and
//     return it (its operands are filled in later, when the block seals).
//  3. Else if block has exactly one predecessor, recurse into it.
//  4. Else, insert a new φ, self-reference it to break cycles, then read
//     each predecessor and append as an operand; finally try to eliminate
//     the φ as trivial.
func read(block *BasicBlock, variable scope.Index) *Value {
	if v, ok := block.ownedVars[variable]; ok {
		return resolved(v)
	}
	return readRecursive(block, variable)
}

func readRecursive(block *BasicBlock, variable scope.Index) *Value {
	var v *Value
	switch {
	case !block.Sealed:
		v = newPhi(block)
		block.incompletePhis = append(block.incompletePhis, v)
	case len(block.Preds) == 1:
		v = read(block.Preds[0], variable)
	default:
		v = newPhi(block)
		write(block, variable, v) // break potential read cycles before recursing into predecessors
		v = addPhiOperands(v, block, variable)
	}
	write(block, variable, v)
	return v
}

func newPhi(block *BasicBlock) *Value {
	v := &Value{Phi: true, Op: OpPhi}
	block.emit(v)
	return v
}

func addPhiOperands(phi *Value, block *BasicBlock, variable scope.Index) *Value {
	for _, pred := range block.Preds {
		operand := read(pred, variable)
		phi.Args = append(phi.Args, operand)
		if operand.Phi {
			operand.Deps = append(operand.Deps, phi)
		}
	}
	return tryRemoveTrivialPhi(phi)
}

// seal marks block sealed: every predecessor is now known. Any incomplete
// φ recorded while block was unsealed has its operands populated from
// block.Preds; the incomplete list is then cleared.
func seal(block *BasicBlock) {
	for _, phi := range block.incompletePhis {
		// populate in place: the phi was created with no operands yet.
		addPhiOperandsInPlace(phi, block)
	}
	block.incompletePhis = nil
	block.Sealed = true
}

func addPhiOperandsInPlace(phi *Value, block *BasicBlock) {
	variable := phiVariable(phi, block)
	for _, pred := range block.Preds {
		operand := read(pred, variable)
		phi.Args = append(phi.Args, operand)
		if operand.Phi {
			operand.Deps = append(operand.Deps, phi)
		}
	}
	replaced := tryRemoveTrivialPhi(phi)
	if replaced != phi {
		// Redirect block's owned-var entry (and anything already reading
		// phi) to the trivial replacement.
		for k, v := range block.ownedVars {
			if v == phi {
				block.ownedVars[k] = replaced
			}
		}
	}
}

// phiVariable recovers which source variable an incomplete φ stands for
// by finding it in block.ownedVars (read always calls write(block,
// variable, v) immediately after creating v, so this lookup is exact).
func phiVariable(phi *Value, block *BasicBlock) scope.Index {
	for k, v := range block.ownedVars {
		if v == phi {
			return k
		}
	}
	return scope.None
}

// tryRemoveTrivialPhi implements trivial-φ elimination (specification
// §4.4): a φ with an empty operand list is replaced by a fresh undefined
// definition; a φ with exactly one distinct non-self operand is replaced
// by that operand, and every dependent φ that referenced it is recursively
// retried, since removing one trivial φ can make another trivial.
func tryRemoveTrivialPhi(phi *Value) *Value {
	var same *Value
	for _, op := range phi.Args {
		op = resolved(op)
		if op == same || op == phi {
			continue // unique value or self-reference
		}
		if same != nil {
			return phi // more than one distinct operand: not trivial
		}
		same = op
	}
	if same == nil {
		// No operands at all (an unreachable block's phantom read):
		// replace with a fresh anonymous undefined value in the same
		// block rather than leaving a dangling phi.
		same = &Value{Block: phi.Block}
		phi.Block.emit(same)
	}

	deps := phi.Deps
	phi.Replaced = same
	phi.Args = nil

	for _, dep := range deps {
		// dep referenced phi; now that phi resolves to same, retry dep.
		for i, a := range dep.Args {
			if a == phi {
				dep.Args[i] = same
			}
		}
		tryRemoveTrivialPhi(dep)
	}
	return same
}
