package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// DisassembleChunk disassembles a chunk to a human readable format,
// one instruction per line, and recursively appends the chunks of any
// compiled functions found in the constant pool.
//
// Returns the disassembled text.
func DisassembleChunk(chunk *Chunk) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("== %s ==\n", chunk.Name))

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&builder, chunk, offset)
	}

	for _, constant := range chunk.Constants {
		if constant.Kind == KIND_FUNCTION {
			builder.WriteString("\n")
			builder.WriteString(DisassembleChunk(constant.AsFunction().Chunk))
		}
	}
	return builder.String()
}

// disassembleInstruction writes one decoded instruction and returns the
// offset of the next one. OP_CLOSURE is special-cased because its constant
// operand is followed by a variable number of upvalue descriptor pairs.
func disassembleInstruction(builder *strings.Builder, chunk *Chunk, offset int) int {
	builder.WriteString(fmt.Sprintf("%04d ", offset))
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		builder.WriteString("   | ")
	} else {
		builder.WriteString(fmt.Sprintf("%4d ", chunk.Lines[offset]))
	}

	op := Opcode(chunk.Code[offset])
	def, err := Get(op)
	if err != nil {
		builder.WriteString(fmt.Sprintf("unknown opcode %d\n", op))
		return offset + 1
	}

	switch {
	case op == OP_CLOSURE:
		slot := int(chunk.Code[offset+1])
		fn := chunk.Constants[slot].AsFunction()
		builder.WriteString(fmt.Sprintf("%-16s %4d %s\n", def.Name, slot, Stringify(chunk.Constants[slot])))
		offset += 2
		for i := 0; i < fn.UpvalueCount; i++ {
			isLocal := chunk.Code[offset]
			index := chunk.Code[offset+1]
			kind := "upvalue"
			if isLocal == 1 {
				kind = "local"
			}
			builder.WriteString(fmt.Sprintf("%04d    |   capture %s %d\n", offset, kind, index))
			offset += 2
		}
		return offset

	case len(def.OperandWidths) == 0:
		builder.WriteString(def.Name + "\n")
		return offset + 1

	case def.OperandWidths[0] == 1:
		operand := int(chunk.Code[offset+1])
		switch op {
		case OP_CONSTANT, OP_DEFINE_GLOBAL, OP_GET_GLOBAL, OP_SET_GLOBAL, OP_CLASS, OP_METHOD, OP_GET_PROPERTY, OP_SET_PROPERTY:
			builder.WriteString(fmt.Sprintf("%-16s %4d '%s'\n", def.Name, operand, Stringify(chunk.Constants[operand])))
		default:
			builder.WriteString(fmt.Sprintf("%-16s %4d\n", def.Name, operand))
		}
		return offset + 2

	default:
		delta := binary.BigEndian.Uint16(chunk.Code[offset+1 : offset+3])
		target := offset + 3 + int(delta)
		if op == OP_LOOP {
			target = offset + 3 - int(delta)
		}
		builder.WriteString(fmt.Sprintf("%-16s %4d -> %d\n", def.Name, delta, target))
		return offset + 3
	}
}
