// Package machine assembles the Space Invaders board: the 8080, the
// mirrored bus, the shift-register ports, the half-screen interrupt timer
// and the instruction trace. The frame loop in video drives one Machine;
// nothing here touches the wall clock.

package machine

import (
	"fmt"
	"io"
	"os"

	"gosi/cpu"
	"gosi/mem"
	"gosi/ports"
)

const (
	// 2 MHz core, 60 Hz screen. The CRT fires the half-screen interrupt
	// (vector 1) mid-frame and the vblank interrupt (vector 2) at the
	// bottom, so interrupt boundaries come at half the frame budget.
	Clock          = 2_000_000
	CyclesPerFrame = Clock / 60
	CyclesPerHalf  = 16_667

	RomSize = 0x2000

	traceDepth = 1000
)

type Machine struct {
	Bus   *mem.Bus
	Cpu   *cpu.Cpu
	Ports *ports.Ports

	// interrupt schedule: cycles since the last delivery, and which
	// vector fires next (1 and 2 strictly alternate)
	interruptAcc int
	nextVector   byte

	// ring of the last traceDepth executed instructions
	trace []string
	head  int
}

func New() *Machine {
	bus := &mem.Bus{}
	p := ports.New()
	return &Machine{
		Bus:        bus,
		Cpu:        &cpu.Cpu{Bus: bus, IO: p},
		Ports:      p,
		nextVector: 1,
		trace:      make([]string, 0, traceDepth),
	}
}

// LoadROM reads the firmware image at path into address 0x0000 upward via
// the loader bypass. Images smaller than 8 kB leave the remainder of ROM
// zero; larger ones don't fit the decoded ROM space at all.
func (m *Machine) LoadROM(path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(image) > RomSize {
		return fmt.Errorf("rom image %s is %d bytes, want at most %d", path, len(image), RomSize)
	}
	for addr, b := range image {
		m.Bus.LoadROM(uint16(addr), b)
	}
	return nil
}

// RunFrame executes one frame's cycle budget, delivering the alternating
// half-screen interrupts at their boundaries. Interrupts land strictly
// between two Step calls, never inside one, and the cycle accumulator is
// carried forward rather than rewound.
func (m *Machine) RunFrame() {
	executed := 0
	for executed < CyclesPerFrame {
		m.record(executed)

		n := m.Cpu.Step()
		executed += n
		m.interruptAcc += n

		if m.Cpu.InterruptEnabled && m.interruptAcc > CyclesPerHalf {
			// subtract the threshold instead of resetting so the
			// two interrupts stay evenly spaced across frames
			m.interruptAcc -= CyclesPerHalf
			m.Cpu.Interrupt(m.nextVector)
			m.nextVector ^= 3 // 1 <-> 2
		}
	}
}

// record appends the instruction about to execute to the trace ring.
func (m *Machine) record(frameCycles int) {
	pc := m.Cpu.PC
	op := m.Bus.Read(pc)
	next := [2]byte{m.Bus.Read(pc + 1), m.Bus.Read(pc + 2)}
	_, mnemonic := cpu.Disassemble(op, next)
	line := fmt.Sprintf("%04X: %s, Frame cycles thus far: %d", pc, mnemonic, frameCycles)

	if len(m.trace) < traceDepth {
		m.trace = append(m.trace, line)
		return
	}
	m.trace[m.head] = line
	m.head = (m.head + 1) % traceDepth
}

// DumpTrace writes the trace ring to w, oldest first, one instruction per
// line. Called on clean shutdown.
func (m *Machine) DumpTrace(w io.Writer) error {
	for i := range m.trace {
		line := m.trace[(m.head+i)%len(m.trace)]
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
