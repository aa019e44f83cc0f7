package ir

// builder assembles one Function's basic blocks. It is the only place that
// appends to a BasicBlock, so it is the single enforcement point for I4:
// "non-terminator instructions may not be appended to a closed block."
type builder struct {
	fn      *Function
	cur     *BasicBlock
	nextID  int
}

func newBuilder(name string, paramCount int) *builder {
	b := &builder{fn: &Function{Name: name, ParamCount: paramCount}}
	entry := b.newBlock()
	b.fn.Entry = entry.ID
	b.cur = entry
	return b
}

// newBlock allocates a fresh block and appends it to the function, without
// switching the builder's current block to it.
func (b *builder) newBlock() *BasicBlock {
	blk := &BasicBlock{ID: BlockID(b.nextID)}
	b.nextID++
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

// switchTo makes blk the block subsequent emit/terminate calls append to.
func (b *builder) switchTo(blk *BasicBlock) {
	b.cur = blk
}

// emit appends a non-terminator instruction to the current block.
// Appending to an already-closed block is an internal wiring bug (a hard
// internal failure per §7.3), not a user error, since the emitter itself
// controls block lifetimes.
func (b *builder) emit(instr Instruction) {
	if b.cur.Closed {
		panic("ir: emit into a closed block")
	}
	if IsTerminator(instr) {
		panic("ir: use terminate for a terminator instruction")
	}
	b.cur.Instrs = append(b.cur.Instrs, instr)
}

// terminate closes the current block with instr.
func (b *builder) terminate(instr Terminator) {
	if b.cur.Closed {
		panic("ir: terminate an already-closed block")
	}
	b.cur.Instrs = append(b.cur.Instrs, instr)
	b.cur.Closed = true
}

// isOpen reports whether the current block still accepts instructions —
// the emitter consults this after lowering a statement that might already
// have terminated its own block (e.g. an If whose every branch returns).
func (b *builder) isOpen() bool {
	return !b.cur.Closed
}

func (b *builder) finish(localCount int) *Function {
	b.fn.LocalCount = localCount
	return b.fn
}
