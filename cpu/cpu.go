// Package cpu implements the Intel 8080 microprocessor, as wired into the
// Space Invaders arcade cabinet.

package cpu

import (
	"fmt"
	"os"

	"gosi/mask"
	"gosi/mem"
)

// http://www.emulator101.com/reference/8080-by-opcode.html
// https://pastraiser.com/cpu/i8080/i8080_opcodes.html
// https://www.computerarcheology.com/Arcade/SpaceInvaders/Code.html

// PortIO is the machine-specific peripheral reached by the IN and OUT
// instructions. On this board it is the shift register and the input
// latches; the Cpu only sees port numbers and bytes.
type PortIO interface {
	In(port byte) byte
	Out(port byte, b byte)
}

// The Cpu has no memory of its own beyond its register file (seven data
// bytes plus SP and PC). It interfaces with a Bus that provides memory, and
// with a PortIO device for the I/O space.
type Cpu struct {
	Bus *mem.Bus
	IO  PortIO

	// https://en.wikipedia.org/wiki/Intel_8080#Registers
	//
	// B, D and H are the high halves of the pairs BC, DE and HL. HL
	// doubles as the memory operand pointer ("M" in the mnemonics).
	A byte
	B byte
	C byte
	D byte
	E byte
	H byte
	L byte

	SP uint16
	PC uint16

	// Condition flags. The packed PSW byte puts Z in bit 0, S in bit 1,
	// P in bit 2, CY in bit 3 and AC in bit 4; the remaining bits are
	// reserved.
	Flags struct {
		Z  bool // result was zero
		S  bool // bit 7 of result
		P  bool // even parity of result
		CY bool // carry out of add / borrow out of subtract
		AC bool // carry out of bit 3; only DAA consumes it
	}

	// InterruptEnabled is the IE latch: set by EI, cleared by DI and by
	// interrupt delivery.
	InterruptEnabled bool

	// Halted is set by HLT; Step burns cycles without fetching until an
	// interrupt arrives.
	Halted bool
}

// Read reads one byte from the given addr via the bus (mirror folding
// applies).
func (c *Cpu) Read(addr uint16) byte {
	return c.Bus.Read(addr)
}

// Write passes data to the Bus, which actually performs the write (and
// discards it if addr lies in ROM).
func (c *Cpu) Write(addr uint16, data byte) {
	c.Bus.Write(addr, data)
}

// Register pairs. Note the high half comes first in the register name.

func (c *Cpu) BC() uint16 { return mask.Word(c.B, c.C) }
func (c *Cpu) DE() uint16 { return mask.Word(c.D, c.E) }
func (c *Cpu) HL() uint16 { return mask.Word(c.H, c.L) }

func (c *Cpu) SetBC(w uint16) { c.B, c.C = mask.Hi(w), mask.Lo(w) }
func (c *Cpu) SetDE(w uint16) { c.D, c.E = mask.Hi(w), mask.Lo(w) }
func (c *Cpu) SetHL(w uint16) { c.H, c.L = mask.Hi(w), mask.Lo(w) }

// M reads the memory operand, the byte HL points at.
func (c *Cpu) M() byte { return c.Read(c.HL()) }

// fetchByte consumes the next operand byte at PC.
func (c *Cpu) fetchByte() byte {
	b := c.Read(c.PC)
	c.PC++
	return b
}

// fetchWord consumes a 16-bit immediate, low byte first.
func (c *Cpu) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return mask.Word(hi, lo)
}

// push stores a word on the stack, high byte at SP-1, low byte at SP-2.
// Stack accesses go through the normal write path, so RAM mirroring applies.
func (c *Cpu) push(w uint16) {
	c.Write(c.SP-1, mask.Hi(w))
	c.Write(c.SP-2, mask.Lo(w))
	c.SP -= 2
}

// pop removes and returns the word at the stack top.
func (c *Cpu) pop() uint16 {
	lo := c.Read(c.SP)
	hi := c.Read(c.SP + 1)
	c.SP += 2
	return mask.Word(hi, lo)
}

// psw packs the condition flags into the byte PUSH PSW stores.
func (c *Cpu) psw() byte {
	var b byte
	for i, f := range []bool{
		c.Flags.Z,
		c.Flags.S,
		c.Flags.P,
		c.Flags.CY,
		c.Flags.AC,
	} {
		if f {
			b |= 1 << i
		}
	}
	return b
}

// setPSW decodes the flag byte popped by POP PSW.
func (c *Cpu) setPSW(b byte) {
	c.Flags.Z = mask.Bit(b, 0)
	c.Flags.S = mask.Bit(b, 1)
	c.Flags.P = mask.Bit(b, 2)
	c.Flags.CY = mask.Bit(b, 3)
	c.Flags.AC = mask.Bit(b, 4)
}

// carry returns CY as 0 or 1, for the with-carry arithmetic.
func (c *Cpu) carry() byte {
	if c.Flags.CY {
		return 1
	}
	return 0
}

// Step fetches the opcode at PC, advances PC, executes, and returns the
// opcode's cycle cost from the fixed table. Branches not taken are charged
// the unconditional entry; that is below the resolution the ROM cares
// about.
func (c *Cpu) Step() int {
	if c.Halted {
		// halt-until-interrupt: pretend the HLT keeps executing
		return cycles[0x76]
	}
	op := c.Read(c.PC)
	c.PC++
	c.execute(op)
	return cycles[op]
}

// Interrupt injects RST-n semantics between two instructions: push PC, clear
// IE, jump to the low-memory vector 8*n. When IE is clear the interrupt is
// lost -- the hardware has no queue and neither do we.
func (c *Cpu) Interrupt(n byte) {
	if !c.InterruptEnabled {
		return
	}
	c.push(c.PC)
	c.InterruptEnabled = false
	c.Halted = false
	c.PC = 8 * uint16(n)
}

// Reg returns the data register named by a single lowercase letter. The
// debugger's cnd command selects registers dynamically; everything else
// addresses them as struct fields.
func (c *Cpu) Reg(name byte) (byte, bool) {
	switch name {
	case 'a':
		return c.A, true
	case 'b':
		return c.B, true
	case 'c':
		return c.C, true
	case 'd':
		return c.D, true
	case 'e':
		return c.E, true
	case 'h':
		return c.H, true
	case 'l':
		return c.L, true
	}
	return 0, false
}

// Dump renders the full register/flag state plus the next opcode and its
// disassembly, a few fields per line, for the debugger and the fatal-opcode
// path.
func (c *Cpu) Dump() string {
	op := c.Read(c.PC)
	next := [2]byte{c.Read(c.PC + 1), c.Read(c.PC + 2)}
	_, mnemonic := Disassemble(op, next)
	return fmt.Sprintf(`=== 8080 ===
A: 0x%02X   B: 0x%02X   C: 0x%02X
D: 0x%02X   E: 0x%02X   H: 0x%02X   L: 0x%02X
SP: 0x%04X   PC: 0x%04X
Z: %t  S: %t  P: %t  CY: %t  AC: %t
IE: %t
Opcode: 0x%02X  %s
============`,
		c.A, c.B, c.C,
		c.D, c.E, c.H, c.L,
		c.SP, c.PC,
		c.Flags.Z, c.Flags.S, c.Flags.P, c.Flags.CY, c.Flags.AC,
		c.InterruptEnabled,
		op, mnemonic)
}

// unimplemented is fatal by design: the target ROM never reaches the
// undocumented opcodes, so landing here means the loader or the decoder went
// wrong, and continuing would only smear the evidence.
func (c *Cpu) unimplemented(op byte) {
	fmt.Fprintf(os.Stderr, "unimplemented opcode: 0x%02X\n%s\n", op, c.Dump())
	os.Exit(1)
}
