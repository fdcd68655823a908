// Package cpu implements the register file and the minimal opcode stepper.
package cpu

import "log"

// CPU constants
const (
	// Status register bit masks
	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	// DefaultStatus is the flag pattern after reset (I and unused set)
	DefaultStatus = iFlagMask | unusedMask
	// DefaultSP is the stack pointer after reset
	DefaultSP = 0xFF

	// Reset vector location
	resetVector = 0xFFFC
	// Fallback start address when the reset vector is unset, and the
	// wrap target when PC runs off the top of memory
	programStart = 0x8000
)

// Interpreted opcodes. Every other value is a one-byte no-op.
const (
	OpNOP    = 0xEA
	OpJMPAbs = 0x4C
	OpLDAImm = 0xA9
)

// Instruction describes an interpreted opcode for trace output
type Instruction struct {
	Name   string
	Opcode uint8
	Bytes  uint8
}

var instructions = map[uint8]Instruction{
	OpNOP:    {Name: "NOP", Opcode: OpNOP, Bytes: 1},
	OpJMPAbs: {Name: "JMP", Opcode: OpJMPAbs, Bytes: 3},
	OpLDAImm: {Name: "LDA", Opcode: OpLDAImm, Bytes: 2},
}

// CPU is the register file plus the step logic that mutates it
type CPU struct {
	// Registers
	A      uint8  // Accumulator
	X      uint8  // X register
	Y      uint8  // Y register
	SP     uint8  // Stack pointer
	PC     uint16 // Program counter
	Status uint8  // Processor status flags

	memory MemoryInterface

	// Step counter
	cycles uint64

	enableDebugLogging bool
}

// MemoryInterface defines the memory the CPU fetches from
type MemoryInterface interface {
	Read(address uint16) uint8
}

// New creates a new CPU instance. Registers are zero until Reset.
func New(memory MemoryInterface) *CPU {
	return &CPU{
		memory: memory,
	}
}

// Reset loads PC from the reset vector and puts every other register in
// its power-up state
func (cpu *CPU) Reset() {
	low := uint16(cpu.memory.Read(resetVector))
	high := uint16(cpu.memory.Read(resetVector + 1))
	cpu.PC = (high << 8) | low
	if cpu.PC == 0 {
		// Uninitialized vector
		cpu.PC = programStart
	}

	cpu.SP = DefaultSP
	cpu.A = 0x00
	cpu.X = 0x00
	cpu.Y = 0x00
	cpu.Status = DefaultStatus
	cpu.cycles = 0

	if cpu.enableDebugLogging {
		log.Printf("[CPU_DEBUG] Reset - PC: $%04X", cpu.PC)
	}
}

// Step executes the opcode at PC
func (cpu *CPU) Step() {
	pc := cpu.PC
	opcode := cpu.memory.Read(pc)

	if cpu.enableDebugLogging {
		cpu.logInstruction(pc, opcode)
	}

	// Computed wide so running past $FFFF is detectable
	next := uint32(pc)

	switch opcode {
	case OpNOP:
		next++
	case OpJMPAbs:
		next = uint32(cpu.operand(1)) | uint32(cpu.operand(2))<<8
	case OpLDAImm:
		cpu.A = cpu.operand(1)
		next += 2
	default:
		next++
	}

	if next > 0xFFFF {
		next = programStart
	}
	cpu.PC = uint16(next)
	cpu.cycles++
}

// operand reads the byte offset bytes after PC. Bytes past the top of the
// address space read as zero.
func (cpu *CPU) operand(offset uint32) uint8 {
	address := uint32(cpu.PC) + offset
	if address > 0xFFFF {
		return 0
	}
	return cpu.memory.Read(uint16(address))
}

// GetCycles returns the number of steps executed since reset
func (cpu *CPU) GetCycles() uint64 {
	return cpu.cycles
}

// Flag reports whether the given status bit is set
func (cpu *CPU) Flag(mask uint8) bool {
	return cpu.Status&mask != 0
}

// EnableDebugLogging enables/disables per-step trace output
func (cpu *CPU) EnableDebugLogging(enable bool) {
	cpu.enableDebugLogging = enable
}

// logInstruction logs CPU instruction execution
func (cpu *CPU) logInstruction(pc uint16, opcode uint8) {
	name := "UNK"
	if instruction, ok := instructions[opcode]; ok {
		name = instruction.Name
	}

	log.Printf("[CPU_DEBUG] PC=$%04X: %s (0x%02X) | A=$%02X X=$%02X Y=$%02X SP=$%02X | %s",
		pc, name, opcode, cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.getFlagsString())
}

// getFlagsString renders the status register as NV-BDIZC letters
func (cpu *CPU) getFlagsString() string {
	flags := []byte("nv-bdizc")
	masks := []uint8{nFlagMask, vFlagMask, unusedMask, bFlagMask, dFlagMask, iFlagMask, zFlagMask, cFlagMask}
	for i, mask := range masks {
		if cpu.Status&mask != 0 && flags[i] != '-' {
			flags[i] -= 'a' - 'A'
		}
	}
	return string(flags)
}
