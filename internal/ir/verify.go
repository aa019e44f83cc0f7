package ir

import "fmt"

// Verify checks the structural invariants §8 attaches to the IR Emitter's
// output: I4 (every block closed by exactly one terminator, nothing after
// it), and a per-function balance check standing in for I5/I6's full
// path-sensitive versions (LifetimeStart/End and the Global*Lock/Unlock
// pairs net to zero occurrence counts) — a sound, cheap necessary
// condition rather than a full dataflow proof that every individual
// execution path balances.
func Verify(script *Script) error {
	if err := verifyFunction(script.TopLevel); err != nil {
		return fmt.Errorf("top-level: %w", err)
	}
	for _, fn := range script.UserFunctions {
		if err := verifyFunction(fn); err != nil {
			return fmt.Errorf("function %q: %w", fn.Name, err)
		}
	}
	return nil
}

func verifyFunction(fn *Function) error {
	if err := verifyBlocks(fn); err != nil {
		return err
	}
	if err := verifyLifetimeBalance(fn); err != nil {
		return err
	}
	if err := verifyGlobalLockBalance(fn); err != nil {
		return err
	}
	return nil
}

// verifyBlocks is I4: a block's instruction stream must end in exactly one
// terminator, and no non-terminator may follow it.
func verifyBlocks(fn *Function) error {
	for _, blk := range fn.Blocks {
		if len(blk.Instrs) == 0 {
			return fmt.Errorf("block %d: empty, has no terminator", blk.ID)
		}
		for i, instr := range blk.Instrs {
			isLast := i == len(blk.Instrs)-1
			if IsTerminator(instr) {
				if !isLast {
					return fmt.Errorf("block %d: instruction after terminator at index %d", blk.ID, i)
				}
			} else if isLast {
				return fmt.Errorf("block %d: last instruction is not a terminator", blk.ID)
			}
		}
		if !blk.Closed {
			return fmt.Errorf("block %d: not marked closed", blk.ID)
		}
	}
	return nil
}

// verifyLifetimeBalance is a structural approximation of I5: across the
// whole function, every local index that appears in a LifetimeStart must
// appear in at least as many LifetimeEnd occurrences (every lowering path
// in this emitter pairs them one-for-one per scope, so a function-wide
// count mismatch already indicates a lowering bug, without needing a full
// per-path walk of the control-flow graph).
func verifyLifetimeBalance(fn *Function) error {
	starts := map[int]int{}
	ends := map[int]int{}
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instrs {
			switch n := instr.(type) {
			case LifetimeStart:
				starts[n.Local]++
			case LifetimeEnd:
				ends[n.Local]++
			}
		}
	}
	for local, n := range starts {
		if ends[local] < n {
			return fmt.Errorf("local %d: %d LifetimeStart but only %d LifetimeEnd", local, n, ends[local])
		}
	}
	return nil
}

// verifyGlobalLockBalance is a structural approximation of I6: every
// GlobalReadLock/GlobalWriteLock on a given global must be matched by the
// same count of the corresponding Unlock within the function.
func verifyGlobalLockBalance(fn *Function) error {
	readLock := map[int]int{}
	readUnlock := map[int]int{}
	writeLock := map[int]int{}
	writeUnlock := map[int]int{}
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instrs {
			switch n := instr.(type) {
			case GlobalReadLock:
				readLock[n.Global]++
			case GlobalReadUnlock:
				readUnlock[n.Global]++
			case GlobalWriteLock:
				writeLock[n.Global]++
			case GlobalWriteUnlock:
				writeUnlock[n.Global]++
			}
		}
	}
	for g, n := range readLock {
		if readUnlock[g] != n {
			return fmt.Errorf("global %d: %d GlobalReadLock but %d GlobalReadUnlock", g, n, readUnlock[g])
		}
	}
	for g, n := range writeLock {
		if writeUnlock[g] != n {
			return fmt.Errorf("global %d: %d GlobalWriteLock but %d GlobalWriteUnlock", g, n, writeUnlock[g])
		}
	}
	return nil
}
