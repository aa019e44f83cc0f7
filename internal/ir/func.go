package ir

// BasicBlock is a straight-line run of instructions. A block is open while
// it is being filled and closed the instant a Terminator is appended; no
// further instruction may be appended after that (I4).
type BasicBlock struct {
	ID     BlockID
	Instrs []Instruction
	Closed bool
}

// StringEntry is one row of the Script's string table: an id plus its
// decoded bytes. IDs are dense, assigned in interning order.
type StringEntry struct {
	ID    int
	Bytes string
}

// GlobalEntry is one row of the Script's global table: an id, the
// declaration's simple name (namespace-qualification is resolved already;
// the IR only needs a label for disassembly), and its semantic type name.
type GlobalEntry struct {
	ID       int
	Name     string
	TypeName string
}

// Function is one emitted routine body: its basic blocks in emission
// order (block 0 is always the entry), its declared parameter count, and
// the total number of local slots its activation frame needs.
type Function struct {
	Name       string
	ParamCount int
	LocalCount int
	Blocks     []*BasicBlock
	Entry      BlockID
}

// Block looks up one of the function's blocks by id.
func (f *Function) Block(id BlockID) *BasicBlock {
	for _, b := range f.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Script is the complete emitted artifact (§6 "IR output — Script"):
// the string pool, the global table, every user function/method body, and
// the synthesized top-level entry function.
type Script struct {
	Strings       []StringEntry
	Globals       []GlobalEntry
	UserFunctions []*Function
	TopLevel      *Function
}
