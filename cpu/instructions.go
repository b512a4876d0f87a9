package cpu

import (
	"gosi/mask"
)

// The dispatcher. The 8080 map is regular in its middle half -- MOV fills
// 0x40..0x7f and the accumulator ALU block fills 0x80..0xbf, both indexed by
// the same 3-bit register codes -- so those two blocks decode by bit
// pattern and everything else goes through the dense switch.
//
// opcode layout: 01DDDSSS = MOV DDD,SSS   10FFFSSS = <alu op FFF> SSS
// register codes: 0=B 1=C 2=D 3=E 4=H 5=L 6=M 7=A

// reg8 reads the register selected by a 3-bit code; code 6 is the memory
// operand at HL.
func (c *Cpu) reg8(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.M()
	}
	return c.A
}

// setReg8 writes the register selected by a 3-bit code.
func (c *Cpu) setReg8(code byte, v byte) {
	switch code {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.Write(c.HL(), v)
	default:
		c.A = v
	}
}

func (c *Cpu) execute(op byte) {
	if op >= 0x40 && op <= 0x7f {
		// MOV block. 0x76 would be MOV M,M, which the silicon reuses
		// as HLT.
		if op == 0x76 {
			c.Halted = true
			return
		}
		c.setReg8((op>>3)&7, c.reg8(op&7))
		return
	}
	if op >= 0x80 && op <= 0xbf {
		c.alu((op>>3)&7, c.reg8(op&7))
		return
	}

	switch op {
	case 0x00: // NOP

	// LXI rp,d16
	case 0x01:
		c.SetBC(c.fetchWord())
	case 0x11:
		c.SetDE(c.fetchWord())
	case 0x21:
		c.SetHL(c.fetchWord())
	case 0x31:
		c.SP = c.fetchWord()

	// STAX / LDAX
	case 0x02:
		c.Write(c.BC(), c.A)
	case 0x12:
		c.Write(c.DE(), c.A)
	case 0x0a:
		c.A = c.Read(c.BC())
	case 0x1a:
		c.A = c.Read(c.DE())

	// INX / DCX: 16-bit, no flags
	case 0x03:
		c.SetBC(c.BC() + 1)
	case 0x13:
		c.SetDE(c.DE() + 1)
	case 0x23:
		c.SetHL(c.HL() + 1)
	case 0x33:
		c.SP++
	case 0x0b:
		c.SetBC(c.BC() - 1)
	case 0x1b:
		c.SetDE(c.DE() - 1)
	case 0x2b:
		c.SetHL(c.HL() - 1)
	case 0x3b:
		c.SP--

	// INR / DCR: Z, S, P (and AC), but never CY
	case 0x04:
		c.B = c.inr(c.B)
	case 0x0c:
		c.C = c.inr(c.C)
	case 0x14:
		c.D = c.inr(c.D)
	case 0x1c:
		c.E = c.inr(c.E)
	case 0x24:
		c.H = c.inr(c.H)
	case 0x2c:
		c.L = c.inr(c.L)
	case 0x34:
		c.Write(c.HL(), c.inr(c.M()))
	case 0x3c:
		c.A = c.inr(c.A)
	case 0x05:
		c.B = c.dcr(c.B)
	case 0x0d:
		c.C = c.dcr(c.C)
	case 0x15:
		c.D = c.dcr(c.D)
	case 0x1d:
		c.E = c.dcr(c.E)
	case 0x25:
		c.H = c.dcr(c.H)
	case 0x2d:
		c.L = c.dcr(c.L)
	case 0x35:
		c.Write(c.HL(), c.dcr(c.M()))
	case 0x3d:
		c.A = c.dcr(c.A)

	// MVI r,d8
	case 0x06:
		c.B = c.fetchByte()
	case 0x0e:
		c.C = c.fetchByte()
	case 0x16:
		c.D = c.fetchByte()
	case 0x1e:
		c.E = c.fetchByte()
	case 0x26:
		c.H = c.fetchByte()
	case 0x2e:
		c.L = c.fetchByte()
	case 0x36:
		c.Write(c.HL(), c.fetchByte())
	case 0x3e:
		c.A = c.fetchByte()

	// rotates. RLC/RRC source CY from the ejected bit; RAL/RAR rotate
	// through CY as a 9-bit cycle.
	case 0x07: // RLC
		bit7 := c.A >> 7
		c.A = c.A<<1 | bit7
		c.Flags.CY = bit7 != 0
	case 0x0f: // RRC
		bit0 := c.A & 1
		c.A = c.A>>1 | bit0<<7
		c.Flags.CY = bit0 != 0
	case 0x17: // RAL
		bit7 := c.A >> 7
		c.A = c.A<<1 | c.carry()
		c.Flags.CY = bit7 != 0
	case 0x1f: // RAR
		bit0 := c.A & 1
		c.A = c.A>>1 | c.carry()<<7
		c.Flags.CY = bit0 != 0

	// DAD rp: HL += rp, CY only
	case 0x09:
		c.dad(c.BC())
	case 0x19:
		c.dad(c.DE())
	case 0x29:
		c.dad(c.HL())
	case 0x39:
		c.dad(c.SP)

	// direct addressing
	case 0x22: // SHLD a16
		addr := c.fetchWord()
		c.Write(addr, c.L)
		c.Write(addr+1, c.H)
	case 0x2a: // LHLD a16
		addr := c.fetchWord()
		c.L = c.Read(addr)
		c.H = c.Read(addr + 1)
	case 0x32: // STA a16
		c.Write(c.fetchWord(), c.A)
	case 0x3a: // LDA a16
		c.A = c.Read(c.fetchWord())

	case 0x27:
		c.daa()
	case 0x2f: // CMA
		c.A = ^c.A
	case 0x37: // STC
		c.Flags.CY = true
	case 0x3f: // CMC
		c.Flags.CY = !c.Flags.CY

	// conditional branching matrix: each condition appears as a jump, a
	// call and a return. The not-taken path still consumes the operand.
	case 0xc3:
		c.jump(true)
	case 0xc2:
		c.jump(!c.Flags.Z)
	case 0xca:
		c.jump(c.Flags.Z)
	case 0xd2:
		c.jump(!c.Flags.CY)
	case 0xda:
		c.jump(c.Flags.CY)
	case 0xe2:
		c.jump(!c.Flags.P) // PO: odd parity
	case 0xea:
		c.jump(c.Flags.P) // PE: even parity
	case 0xf2:
		c.jump(!c.Flags.S) // P: plus
	case 0xfa:
		c.jump(c.Flags.S) // M: minus

	case 0xcd:
		c.call(true)
	case 0xc4:
		c.call(!c.Flags.Z)
	case 0xcc:
		c.call(c.Flags.Z)
	case 0xd4:
		c.call(!c.Flags.CY)
	case 0xdc:
		c.call(c.Flags.CY)
	case 0xe4:
		c.call(!c.Flags.P)
	case 0xec:
		c.call(c.Flags.P)
	case 0xf4:
		c.call(!c.Flags.S)
	case 0xfc:
		c.call(c.Flags.S)

	case 0xc9:
		c.ret(true)
	case 0xc0:
		c.ret(!c.Flags.Z)
	case 0xc8:
		c.ret(c.Flags.Z)
	case 0xd0:
		c.ret(!c.Flags.CY)
	case 0xd8:
		c.ret(c.Flags.CY)
	case 0xe0:
		c.ret(!c.Flags.P)
	case 0xe8:
		c.ret(c.Flags.P)
	case 0xf0:
		c.ret(!c.Flags.S)
	case 0xf8:
		c.ret(c.Flags.S)

	case 0xe9: // PCHL
		c.PC = c.HL()

	// RST n: one-byte call to the fixed vector 8n
	case 0xc7, 0xcf, 0xd7, 0xdf, 0xe7, 0xef, 0xf7, 0xff:
		c.push(c.PC)
		c.PC = uint16(op & 0x38)

	// stack ops
	case 0xc5:
		c.push(c.BC())
	case 0xd5:
		c.push(c.DE())
	case 0xe5:
		c.push(c.HL())
	case 0xf5: // PUSH PSW: A at SP-1, flag byte at SP-2
		c.Write(c.SP-1, c.A)
		c.Write(c.SP-2, c.psw())
		c.SP -= 2
	case 0xc1:
		c.SetBC(c.pop())
	case 0xd1:
		c.SetDE(c.pop())
	case 0xe1:
		c.SetHL(c.pop())
	case 0xf1: // POP PSW
		c.setPSW(c.Read(c.SP))
		c.A = c.Read(c.SP + 1)
		c.SP += 2
	case 0xe3: // XTHL: swap HL with the stack top
		l, h := c.Read(c.SP), c.Read(c.SP+1)
		c.Write(c.SP, c.L)
		c.Write(c.SP+1, c.H)
		c.L, c.H = l, h
	case 0xf9: // SPHL
		c.SP = c.HL()

	case 0xeb: // XCHG
		c.D, c.H = c.H, c.D
		c.E, c.L = c.L, c.E

	// immediate ALU forms reuse the register-block helpers
	case 0xc6: // ADI
		c.add(c.fetchByte(), 0)
	case 0xce: // ACI
		c.add(c.fetchByte(), c.carry())
	case 0xd6: // SUI
		c.sub(c.fetchByte(), 0)
	case 0xde: // SBI
		c.sub(c.fetchByte(), c.carry())
	case 0xe6: // ANI
		c.ana(c.fetchByte())
	case 0xee: // XRI
		c.xra(c.fetchByte())
	case 0xf6: // ORI
		c.ora(c.fetchByte())
	case 0xfe: // CPI
		c.cmp(c.fetchByte())

	case 0xdb: // IN d8
		c.A = c.IO.In(c.fetchByte())
	case 0xd3: // OUT d8
		c.IO.Out(c.fetchByte(), c.A)

	case 0xfb: // EI
		c.InterruptEnabled = true
	case 0xf3: // DI
		c.InterruptEnabled = false

	default:
		// the undocumented gaps (0x08, 0x10, ..., 0xcb, 0xd9, 0xdd,
		// 0xed, 0xfd); the target ROM never executes them
		c.unimplemented(op)
	}
}

// alu applies the accumulator operation selected by a 3-bit code, shared by
// the register block and (via the helpers) the immediate forms.
func (c *Cpu) alu(code byte, v byte) {
	switch code {
	case 0:
		c.add(v, 0)
	case 1:
		c.add(v, c.carry())
	case 2:
		c.sub(v, 0)
	case 3:
		c.sub(v, c.carry())
	case 4:
		c.ana(v)
	case 5:
		c.xra(v)
	case 6:
		c.ora(v)
	default:
		c.cmp(v)
	}
}

// setZSP updates the three result flags every flagged operation shares.
func (c *Cpu) setZSP(v byte) {
	c.Flags.Z = v == 0
	c.Flags.S = mask.Bit(v, 7)
	c.Flags.P = mask.Parity(v)
}

// add is ADD/ADC/ADI/ACI: A += v + cy, all flags. Arithmetic wraps modulo
// 256 with CY capturing the overflow bit.
func (c *Cpu) add(v byte, cy byte) {
	r := uint16(c.A) + uint16(v) + uint16(cy)
	c.Flags.CY = r > 0xff
	c.Flags.AC = (c.A&0x0f)+(v&0x0f)+cy > 0x0f
	c.A = byte(r)
	c.setZSP(c.A)
}

// sub is SUB/SBB/SUI/SBI: A -= v + borrow. CY=1 indicates a borrow
// (A < v + borrow).
func (c *Cpu) sub(v byte, borrow byte) {
	r := uint16(c.A) - uint16(v) - uint16(borrow)
	c.Flags.CY = r > 0xff
	c.Flags.AC = int(c.A&0x0f)-int(v&0x0f)-int(borrow) < 0
	c.A = byte(r)
	c.setZSP(c.A)
}

// cmp sets the same flags sub would, without writing A.
func (c *Cpu) cmp(v byte) {
	a := c.A
	c.sub(v, 0)
	c.A = a
}

// The logical ops clear CY (and AC: nothing carries).

func (c *Cpu) ana(v byte) {
	c.A &= v
	c.Flags.CY = false
	c.Flags.AC = false
	c.setZSP(c.A)
}

func (c *Cpu) xra(v byte) {
	c.A ^= v
	c.Flags.CY = false
	c.Flags.AC = false
	c.setZSP(c.A)
}

func (c *Cpu) ora(v byte) {
	c.A |= v
	c.Flags.CY = false
	c.Flags.AC = false
	c.setZSP(c.A)
}

// inr and dcr touch Z, S, P and AC but leave CY alone, which is what lets
// loop counters coexist with multi-byte arithmetic.
func (c *Cpu) inr(v byte) byte {
	r := v + 1
	c.Flags.AC = v&0x0f == 0x0f
	c.setZSP(r)
	return r
}

func (c *Cpu) dcr(v byte) byte {
	r := v - 1
	c.Flags.AC = v&0x0f == 0
	c.setZSP(r)
	return r
}

// dad is the 16-bit add into HL: CY only, Z/S/P/AC untouched.
func (c *Cpu) dad(v uint16) {
	r := uint32(c.HL()) + uint32(v)
	c.Flags.CY = r > 0xffff
	c.SetHL(uint16(r))
}

// daa decimal-adjusts A after BCD addition, per the 8080 manual: fix the
// low nibble first (AC or >9), then the high nibble (CY or >0x99), and keep
// CY sticky once set.
func (c *Cpu) daa() {
	var adjust byte
	carry := c.Flags.CY
	if c.A&0x0f > 9 || c.Flags.AC {
		adjust |= 0x06
	}
	if c.A > 0x99 || c.Flags.CY {
		adjust |= 0x60
		carry = true
	}
	c.Flags.AC = (c.A&0x0f)+(adjust&0x0f) > 0x0f
	c.A += adjust
	c.Flags.CY = carry
	c.setZSP(c.A)
}

// jump consumes the address operand and branches only when cond holds.
func (c *Cpu) jump(cond bool) {
	addr := c.fetchWord()
	if cond {
		c.PC = addr
	}
}

// call pushes the return address (the byte after the operand) low-then-high
// below SP, then branches.
func (c *Cpu) call(cond bool) {
	addr := c.fetchWord()
	if cond {
		c.push(c.PC)
		c.PC = addr
	}
}

// ret pops PC when cond holds.
func (c *Cpu) ret(cond bool) {
	if cond {
		c.PC = c.pop()
	}
}
