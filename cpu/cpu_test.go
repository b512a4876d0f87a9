package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gosi/mem"
	"gosi/ports"
)

// testCpu wires a Cpu to a fresh bus and the real port hardware, with code
// loaded at 0x0000 via the ROM bypass.
func testCpu(code ...byte) *Cpu {
	c := &Cpu{Bus: &mem.Bus{}, IO: ports.New()}
	for i, b := range code {
		c.Bus.LoadROM(uint16(i), b)
	}
	return c
}

func TestJmpTrap(t *testing.T) {
	// seed scenario: byte 0 is JMP $1800
	c := testCpu(0xc3, 0x00, 0x18)
	c.SP = 0x2400

	cyc := c.Step()
	assert.Equal(t, c.PC, uint16(0x1800))
	assert.Equal(t, cyc, 10)
	assert.Equal(t, c.SP, uint16(0x2400))
	assert.Equal(t, c.A, byte(0))
	assert.Equal(t, c.B, byte(0))
}

func TestCallRet(t *testing.T) {
	c := testCpu(0xcd, 0x34, 0x12) // CALL $1234
	c.Bus.LoadROM(0x1234, 0xc9)    // RET
	c.SP = 0x2400

	cyc := c.Step()
	assert.Equal(t, cyc, 17)
	assert.Equal(t, c.PC, uint16(0x1234))
	assert.Equal(t, c.SP, uint16(0x23fe))
	// return address 0x0003, little-endian on the stack
	assert.Equal(t, c.Read(0x23fe), byte(0x03))
	assert.Equal(t, c.Read(0x23ff), byte(0x00))

	c.Step()
	assert.Equal(t, c.PC, uint16(0x0003))
	assert.Equal(t, c.SP, uint16(0x2400))
}

func TestInterrupt(t *testing.T) {
	c := testCpu()
	c.PC = 0x1000
	c.SP = 0x2400
	c.InterruptEnabled = true

	c.Interrupt(2)
	assert.Equal(t, c.PC, uint16(0x0010))
	assert.False(t, c.InterruptEnabled)
	assert.Equal(t, c.SP, uint16(0x23fe))
	assert.Equal(t, c.Read(0x23fe), byte(0x00))
	assert.Equal(t, c.Read(0x23ff), byte(0x10))

	// with IE clear the interrupt is lost, not queued
	c.Interrupt(1)
	assert.Equal(t, c.PC, uint16(0x0010))
	assert.Equal(t, c.SP, uint16(0x23fe))
}

func TestShiftRegisterProgram(t *testing.T) {
	c := testCpu(
		0x3e, 0xaa, // MVI A,#$AA
		0xd3, 0x04, // OUT 4
		0x3e, 0xbb, // MVI A,#$BB
		0xd3, 0x04, // OUT 4
		0x3e, 0x03, // MVI A,#$03
		0xd3, 0x02, // OUT 2
		0xdb, 0x03, // IN 3
	)
	for range 7 {
		c.Step()
	}
	// top 8 bits of 0xBBAA << 3
	assert.Equal(t, c.A, byte(0xdd))
}

func TestMemoryMirrorProgram(t *testing.T) {
	c := testCpu(
		0x3e, 0x5a, // MVI A,#$5A
		0x32, 0x00, 0x22, // STA $2200
		0x3a, 0x00, 0x42, // LDA $4200 (mirror of $2200)
		0x3e, 0x00, // MVI A,#$00
		0x32, 0x00, 0x01, // STA $0100 (ROM; discarded)
	)
	c.Bus.LoadROM(0x0100, 0xc3)

	c.Step()
	c.Step()
	c.Step()
	assert.Equal(t, c.A, byte(0x5a))

	c.Step()
	c.Step()
	assert.Equal(t, c.Read(0x0100), byte(0xc3))
}

func TestPushPopPSW(t *testing.T) {
	c := testCpu(
		0xf5,       // PUSH PSW
		0x3e, 0x00, // MVI A,#$00
		0xf1, // POP PSW
	)
	c.SP = 0x2400
	c.A = 0x12
	c.Flags.Z = true
	c.Flags.P = true

	c.Step()
	// A at SP-1, flag byte (Z|P = 0b101) at SP-2
	assert.Equal(t, c.Read(0x23ff), byte(0x12))
	assert.Equal(t, c.Read(0x23fe), byte(0x05))

	c.Step()
	c.Flags.Z = false
	c.Flags.P = false
	c.Flags.CY = true

	c.Step()
	assert.Equal(t, c.A, byte(0x12))
	assert.True(t, c.Flags.Z)
	assert.False(t, c.Flags.S)
	assert.True(t, c.Flags.P)
	assert.False(t, c.Flags.CY)
	assert.False(t, c.Flags.AC)
	assert.Equal(t, c.SP, uint16(0x2400))
}

func TestPushPopPair(t *testing.T) {
	c := testCpu(0xd5, 0xd1) // PUSH D / POP D
	c.SP = 0x2400
	c.SetDE(0xbeef)

	c.Step()
	c.SetDE(0)
	c.Step()
	assert.Equal(t, c.DE(), uint16(0xbeef))
	assert.Equal(t, c.SP, uint16(0x2400))
}

func TestInrDcrBoundaries(t *testing.T) {
	c := testCpu(0x04, 0x05) // INR B / DCR B
	c.B = 0xff
	c.Flags.CY = true

	c.Step()
	assert.Equal(t, c.B, byte(0x00))
	assert.True(t, c.Flags.Z)
	assert.False(t, c.Flags.S)
	assert.True(t, c.Flags.P) // parity of zero is even
	assert.True(t, c.Flags.CY, "INR must not touch CY")

	c.Step()
	assert.Equal(t, c.B, byte(0xff))
	assert.False(t, c.Flags.Z)
	assert.True(t, c.Flags.S)
	assert.True(t, c.Flags.CY, "DCR must not touch CY")
}

func TestAddOverflow(t *testing.T) {
	c := testCpu(0x80) // ADD B
	c.A = 0x80
	c.B = 0x80

	c.Step()
	assert.Equal(t, c.A, byte(0x00))
	assert.True(t, c.Flags.Z)
	assert.True(t, c.Flags.CY)
}

func TestDadOverflow(t *testing.T) {
	c := testCpu(0x09) // DAD B
	c.SetHL(0xffff)
	c.SetBC(0x0001)
	c.Flags.Z = true
	c.Flags.S = true
	c.Flags.P = true

	c.Step()
	assert.Equal(t, c.HL(), uint16(0x0000))
	assert.True(t, c.Flags.CY)
	// Z, S, P unaffected
	assert.True(t, c.Flags.Z)
	assert.True(t, c.Flags.S)
	assert.True(t, c.Flags.P)
}

func TestRotates(t *testing.T) {
	c := testCpu(0x0f) // RRC
	c.A = 0x01
	c.Step()
	assert.Equal(t, c.A, byte(0x80))
	assert.True(t, c.Flags.CY)

	c = testCpu(0x07) // RLC
	c.A = 0x80
	c.Step()
	assert.Equal(t, c.A, byte(0x01))
	assert.True(t, c.Flags.CY)

	c = testCpu(0x17) // RAL: 9-bit rotate through CY
	c.A = 0x80
	c.Flags.CY = false
	c.Step()
	assert.Equal(t, c.A, byte(0x00))
	assert.True(t, c.Flags.CY)

	c = testCpu(0x1f) // RAR
	c.A = 0x01
	c.Flags.CY = true
	c.Step()
	assert.Equal(t, c.A, byte(0x80))
	assert.True(t, c.Flags.CY)
}

func TestSbbBorrow(t *testing.T) {
	c := testCpu(0x98) // SBB B
	c.A = 0x00
	c.B = 0x00
	c.Flags.CY = true

	c.Step()
	assert.Equal(t, c.A, byte(0xff))
	assert.True(t, c.Flags.CY)
}

func TestCmpMatchesSub(t *testing.T) {
	// CMP x sets the same flags SUB x would, leaving A alone
	for _, pair := range [][2]byte{{0x10, 0x20}, {0x20, 0x10}, {0x42, 0x42}, {0x00, 0xff}} {
		cmp := testCpu(0xb8) // CMP B
		cmp.A, cmp.B = pair[0], pair[1]
		cmp.Step()

		sub := testCpu(0x90) // SUB B
		sub.A, sub.B = pair[0], pair[1]
		sub.Step()

		assert.Equal(t, cmp.A, pair[0], "CMP must not write A")
		assert.Equal(t, cmp.Flags, sub.Flags, "A=%02x B=%02x", pair[0], pair[1])
	}
}

func TestXchgTwiceIdentity(t *testing.T) {
	c := testCpu(0xeb, 0xeb)
	c.SetDE(0x1234)
	c.SetHL(0x5678)

	c.Step()
	assert.Equal(t, c.DE(), uint16(0x5678))
	assert.Equal(t, c.HL(), uint16(0x1234))

	c.Step()
	assert.Equal(t, c.DE(), uint16(0x1234))
	assert.Equal(t, c.HL(), uint16(0x5678))
}

func TestCmaTwiceIdentity(t *testing.T) {
	c := testCpu(0x2f, 0x2f)
	c.A = 0xa5
	c.Step()
	assert.Equal(t, c.A, byte(0x5a))
	c.Step()
	assert.Equal(t, c.A, byte(0xa5))
}

func TestConditionalNotTaken(t *testing.T) {
	// the not-taken path still advances PC past the operand
	c := testCpu(0xc2, 0x00, 0x18) // JNZ $1800
	c.Flags.Z = true
	c.Step()
	assert.Equal(t, c.PC, uint16(0x0003))

	c = testCpu(0xc4, 0x00, 0x18) // CNZ $1800
	c.Flags.Z = true
	c.SP = 0x2400
	c.Step()
	assert.Equal(t, c.PC, uint16(0x0003))
	assert.Equal(t, c.SP, uint16(0x2400), "not-taken call must not push")

	c = testCpu(0xc8) // RZ
	c.Flags.Z = false
	c.SP = 0x2400
	c.Step()
	assert.Equal(t, c.PC, uint16(0x0001))
	assert.Equal(t, c.SP, uint16(0x2400))
}

func TestParityConditions(t *testing.T) {
	// P denotes even parity: JPE taken when P=1
	c := testCpu(0xea, 0x00, 0x18) // JPE $1800
	c.Flags.P = true
	c.Step()
	assert.Equal(t, c.PC, uint16(0x1800))

	c = testCpu(0xe2, 0x00, 0x18) // JPO $1800
	c.Flags.P = true
	c.Step()
	assert.Equal(t, c.PC, uint16(0x0003))
}

func TestRst(t *testing.T) {
	c := testCpu(0xef) // RST 5
	c.SP = 0x2400
	c.Step()
	assert.Equal(t, c.PC, uint16(0x0028))
	assert.Equal(t, c.SP, uint16(0x23fe))
	assert.Equal(t, c.Read(0x23fe), byte(0x01)) // pushed PC, low byte
	assert.Equal(t, c.Read(0x23ff), byte(0x00))
}

func TestXthl(t *testing.T) {
	c := testCpu(0xe3)
	c.SP = 0x2400
	c.Write(0x2400, 0x34) // low at SP
	c.Write(0x2401, 0x12) // high at SP+1
	c.SetHL(0xbeef)

	c.Step()
	assert.Equal(t, c.HL(), uint16(0x1234))
	assert.Equal(t, c.Read(0x2400), byte(0xef))
	assert.Equal(t, c.Read(0x2401), byte(0xbe))
	assert.Equal(t, c.SP, uint16(0x2400))
}

func TestLhldShld(t *testing.T) {
	c := testCpu(
		0x21, 0xcd, 0xab, // LXI H,#$ABCD
		0x22, 0x00, 0x23, // SHLD $2300
		0x21, 0x00, 0x00, // LXI H,#$0000
		0x2a, 0x00, 0x23, // LHLD $2300
	)
	for range 4 {
		c.Step()
	}
	assert.Equal(t, c.HL(), uint16(0xabcd))
	assert.Equal(t, c.Read(0x2300), byte(0xcd))
	assert.Equal(t, c.Read(0x2301), byte(0xab))
}

func TestMovViaMemory(t *testing.T) {
	c := testCpu(
		0x36, 0x42, // MVI M,#$42
		0x46, // MOV B,M
		0x34, // INR M
		0x7e, // MOV A,M
	)
	c.SetHL(0x2100)
	for range 4 {
		c.Step()
	}
	assert.Equal(t, c.B, byte(0x42))
	assert.Equal(t, c.A, byte(0x43))
}

func TestDcxPair(t *testing.T) {
	// DCX B decrements the whole pair, not a single register
	c := testCpu(0x0b)
	c.SetBC(0x0100)
	c.Step()
	assert.Equal(t, c.BC(), uint16(0x00ff))
	assert.Equal(t, c.B, byte(0x00))
	assert.Equal(t, c.C, byte(0xff))
}

func TestInxWrap(t *testing.T) {
	c := testCpu(0x13) // INX D
	c.SetDE(0xffff)
	c.Flags.Z = true
	c.Step()
	assert.Equal(t, c.DE(), uint16(0x0000))
	assert.True(t, c.Flags.Z, "INX must not touch flags")
}

func TestDaa(t *testing.T) {
	// 0x9B: both nibbles adjust, carry out
	c := testCpu(0x27)
	c.A = 0x9b
	c.Step()
	assert.Equal(t, c.A, byte(0x01))
	assert.True(t, c.Flags.CY)
	assert.True(t, c.Flags.AC)

	// BCD add: 19 + 28 = 47
	c = testCpu(0xc6, 0x28, 0x27) // ADI #$28 / DAA
	c.A = 0x19
	c.Step()
	c.Step()
	assert.Equal(t, c.A, byte(0x47))
	assert.False(t, c.Flags.CY)
}

func TestLogicalClearsCarry(t *testing.T) {
	c := testCpu(0xe6, 0x0f) // ANI #$0F
	c.A = 0xff
	c.Flags.CY = true
	c.Step()
	assert.Equal(t, c.A, byte(0x0f))
	assert.False(t, c.Flags.CY)
	assert.False(t, c.Flags.Z)
	assert.True(t, c.Flags.P) // 4 bits set
}

func TestHltUntilInterrupt(t *testing.T) {
	c := testCpu(0x76) // HLT
	c.SP = 0x2400
	c.Step()
	assert.True(t, c.Halted)
	pc := c.PC

	// further steps burn cycles without fetching
	assert.Equal(t, c.Step(), 7)
	assert.Equal(t, c.PC, pc)

	c.InterruptEnabled = true
	c.Interrupt(1)
	assert.False(t, c.Halted)
	assert.Equal(t, c.PC, uint16(0x0008))
}

func TestSphlPchl(t *testing.T) {
	c := testCpu(0xf9, 0xe9) // SPHL / PCHL
	c.SetHL(0x2345)
	c.Step()
	assert.Equal(t, c.SP, uint16(0x2345))
	c.Step()
	assert.Equal(t, c.PC, uint16(0x2345))
}

func TestStcCmc(t *testing.T) {
	c := testCpu(0x37, 0x3f) // STC / CMC
	c.Step()
	assert.True(t, c.Flags.CY)
	c.Step()
	assert.False(t, c.Flags.CY)
}

func TestEiDi(t *testing.T) {
	c := testCpu(0xfb, 0xf3)
	c.Step()
	assert.True(t, c.InterruptEnabled)
	c.Step()
	assert.False(t, c.InterruptEnabled)
}

func TestStaxLdax(t *testing.T) {
	c := testCpu(0x02, 0x1a) // STAX B / LDAX D
	c.A = 0x77
	c.SetBC(0x2180)
	c.SetDE(0x2180)
	c.Step()
	assert.Equal(t, c.Read(0x2180), byte(0x77))
	c.A = 0
	c.Step()
	assert.Equal(t, c.A, byte(0x77))
}

func TestCycleTable(t *testing.T) {
	spot := []struct {
		code []byte
		want int
	}{
		{[]byte{0x00}, 4},             // NOP
		{[]byte{0x41}, 5},             // MOV B,C
		{[]byte{0x46}, 7},             // MOV B,M
		{[]byte{0xc3, 0, 0}, 10},      // JMP
		{[]byte{0xcd, 0, 0x10}, 17},   // CALL
		{[]byte{0xe3}, 18},            // XTHL
		{[]byte{0x01, 0, 0}, 10},      // LXI B
		{[]byte{0x34}, 10},            // INR M
	}
	for _, s := range spot {
		c := testCpu(s.code...)
		c.SP = 0x2400
		c.SetHL(0x2100)
		assert.Equal(t, c.Step(), s.want, "opcode %02x", s.code[0])
	}
}

func TestRegAccessor(t *testing.T) {
	c := testCpu()
	c.A, c.B, c.C, c.D, c.E, c.H, c.L = 1, 2, 3, 4, 5, 6, 7
	for i, name := range []byte{'a', 'b', 'c', 'd', 'e', 'h', 'l'} {
		got, ok := c.Reg(name)
		assert.True(t, ok)
		assert.Equal(t, got, byte(i+1))
	}
	_, ok := c.Reg('x')
	assert.False(t, ok)
}

func TestDisassemble(t *testing.T) {
	size, s := Disassemble(0xc3, [2]byte{0x00, 0x18})
	assert.Equal(t, size, 3)
	assert.Equal(t, s, "JMP $1800")

	size, s = Disassemble(0x06, [2]byte{0x3f, 0x00})
	assert.Equal(t, size, 2)
	assert.Equal(t, s, "MVI B,#$3F")

	size, s = Disassemble(0x00, [2]byte{})
	assert.Equal(t, size, 1)
	assert.Equal(t, s, "NOP")

	// every entry is populated with a sane size
	for op := range 256 {
		oc := Opcodes[op]
		assert.NotEmpty(t, oc.Name, "opcode %02x", op)
		assert.Contains(t, []int{1, 2, 3}, oc.Size, "opcode %02x", op)
	}
}
