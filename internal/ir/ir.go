package ir

// Block-structured IR consumed by the rewrite passes. A Function owns an
// ordered list of basic blocks; each block is a straight-line list of
// instructions optionally ending with a terminator.

import (
	"fmt"
)

// Loc is a source location carried by instructions and values for diagnostics
type Loc struct {
	Filename string
	Line     int
	Column   int
}

func (l Loc) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
}

// Function is a named sequence of basic blocks; the first block is the entry
type Function struct {
	Name   string
	Params []string
	Blocks []*Block
	Loc    Loc
}

// Entry returns the entry block, or nil for an empty function
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Block looks up a block by label
func (f *Function) Block(label string) *Block {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// ReplaceBlock swaps old for replacement, keeping its position.
// Returns false when old is not part of the function.
func (f *Function) ReplaceBlock(old, replacement *Block) bool {
	for i, b := range f.Blocks {
		if b == old {
			f.Blocks[i] = replacement
			return true
		}
	}
	return false
}

// Block is a basic block. Body holds instructions in execution order.
type Block struct {
	Label      string
	Successors []string
	Body       []Instruction
	Loc        Loc
}

// NewBlock creates an empty block
func NewBlock(label string, loc Loc) *Block {
	return &Block{Label: label, Loc: loc}
}

// Append adds an instruction at the end of the block
func (b *Block) Append(inst Instruction) {
	b.Body = append(b.Body, inst)
}

// EmptyCopy returns a block with the same metadata (label, successors,
// location) and no instructions.
func (b *Block) EmptyCopy() *Block {
	succ := make([]string, len(b.Successors))
	copy(succ, b.Successors)
	return &Block{
		Label:      b.Label,
		Successors: succ,
		Loc:        b.Loc,
	}
}

// Copy returns a shallow copy: a new instruction slice holding the same
// instruction pointers.
func (b *Block) Copy() *Block {
	nb := b.EmptyCopy()
	nb.Body = make([]Instruction, len(b.Body))
	copy(nb.Body, b.Body)
	return nb
}

// Terminator returns the trailing terminator, if any
func (b *Block) Terminator() Terminator {
	if len(b.Body) == 0 {
		return nil
	}
	t, _ := b.Body[len(b.Body)-1].(Terminator)
	return t
}

// FindInsts returns the instructions of kind T in block order
func FindInsts[T Instruction](b *Block) []T {
	var found []T
	for _, inst := range b.Body {
		if t, ok := inst.(T); ok {
			found = append(found, t)
		}
	}
	return found
}
