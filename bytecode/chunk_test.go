package bytecode

import (
	"testing"
)

func TestChunkConstantDeduplication(t *testing.T) {
	chunk := NewChunk("test")

	first := chunk.AddConstant(NumberValue(10))
	second := chunk.AddConstant(StringValue("x"))
	third := chunk.AddConstant(NumberValue(10))
	fourth := chunk.AddConstant(StringValue("x"))

	if first != third {
		t.Errorf("equal number constants got different slots: %d and %d", first, third)
	}
	if second != fourth {
		t.Errorf("equal string constants got different slots: %d and %d", second, fourth)
	}
	if len(chunk.Constants) != 2 {
		t.Errorf("constant pool has %d entries, want 2", len(chunk.Constants))
	}
}

func TestChunkFunctionConstantsDoNotCollide(t *testing.T) {
	chunk := NewChunk("test")

	fnA := &Function{Name: "a", Chunk: NewChunk("a")}
	fnB := &Function{Name: "b", Chunk: NewChunk("b")}

	slotA := chunk.AddConstant(FunctionValue(fnA))
	slotB := chunk.AddConstant(FunctionValue(fnB))
	if slotA == slotB {
		t.Errorf("distinct functions share constant slot %d", slotA)
	}
	if reused := chunk.AddConstant(FunctionValue(fnA)); reused != slotA {
		t.Errorf("re-adding the same function got slot %d, want %d", reused, slotA)
	}
}

func TestChunkLineTable(t *testing.T) {
	chunk := NewChunk("test")
	chunk.Write(byte(OP_LOAD_ONE), 3)
	chunk.Write(byte(OP_PRINT), 4)

	if len(chunk.Lines) != len(chunk.Code) {
		t.Fatalf("line table has %d entries for %d code bytes", len(chunk.Lines), len(chunk.Code))
	}
	if chunk.Line(0) != 3 || chunk.Line(1) != 4 {
		t.Errorf("line table mismatch: got %d and %d", chunk.Line(0), chunk.Line(1))
	}
	if chunk.Line(99) != 0 {
		t.Errorf("out of range offset should report line 0")
	}
}
