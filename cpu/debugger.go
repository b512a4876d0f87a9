package cpu

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// The interactive debugger: a command prompt over the paused Cpu, with a
// memory view around PC and a register/flag panel. Commands:
//
//	run N              execute N instructions
//	cnd <reg><op><val> execute until the register satisfies the condition
//	status             dump registers, flags, SP, PC, IE and the next opcode
//	help               list commands
//	quit               exit
type model struct {
	cpu *Cpu

	input  string
	log    []string // most recent command output
	prevPC uint16
}

const logDepth = 12

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(strings.ToLower(m.input))
			m.input = ""
			out, quit := m.exec(line)
			m.log = append(m.log, out...)
			if len(m.log) > logDepth {
				m.log = m.log[len(m.log)-logDepth:]
			}
			if quit {
				return m, tea.Quit
			}
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		case tea.KeySpace:
			m.input += " "
		}
	}
	return m, nil
}

// exec runs one command line against the Cpu. Parse errors produce a single
// diagnostic and leave the Cpu untouched.
func (m *model) exec(line string) (out []string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		// bare enter: single step, like the space key in a memory
		// monitor
		m.step(1)
		return nil, false
	}

	switch fields[0] {
	case "quit":
		return nil, true

	case "run":
		if len(fields) < 2 {
			return []string{"missing argument for 'run'"}, false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			return []string{fmt.Sprintf("bad instruction count: %q", fields[1])}, false
		}
		m.step(n)
		return []string{fmt.Sprintf("ran %d instructions", n)}, false

	case "cnd":
		if len(fields) < 2 {
			return []string{"missing argument for 'cnd'"}, false
		}
		return m.cnd(fields[1]), false

	case "status":
		return strings.Split(m.cpu.Dump(), "\n"), false

	case "help":
		return []string{
			"run <n>            - execute n instructions",
			"cnd <reg><op><val> - run until condition, e.g. cnd a=16; op is =, < or >",
			"status             - dump registers, flags and the next opcode",
			"quit               - exit",
		}, false
	}

	return []string{fmt.Sprintf("unknown command: %q", fields[0])}, false
}

// cnd parses "<reg><op><value>" and steps the Cpu until the condition
// holds. reg is one of a b c d e h l; op is =, < or >.
func (m *model) cnd(arg string) []string {
	i := strings.IndexAny(arg, "=<>")
	if i != 1 {
		return []string{fmt.Sprintf("bad condition: %q (want e.g. a=16)", arg)}
	}
	reg := arg[0]
	if _, ok := m.cpu.Reg(reg); !ok {
		return []string{fmt.Sprintf("no such register: %q", reg)}
	}
	v, err := strconv.ParseUint(arg[2:], 0, 8)
	if err != nil {
		return []string{fmt.Sprintf("bad condition value: %q", arg[2:])}
	}
	want := byte(v)

	met := func() bool {
		got, _ := m.cpu.Reg(reg)
		switch arg[1] {
		case '<':
			return got < want
		case '>':
			return got > want
		}
		return got == want
	}
	steps := 0
	for !met() {
		m.step(1)
		steps++
	}
	return []string{fmt.Sprintf("condition %s met after %d instructions", arg, steps)}
}

func (m *model) step(n int) {
	for range n {
		m.prevPC = m.cpu.PC
		m.cpu.Step()
	}
}

// renderPage renders one 16-byte row of memory. The byte at PC is
// highlighted.
func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := range uint16(16) {
		b := m.cpu.Read(start + i)
		if start+i == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

// pageTable shows the rows around PC and the stack top.
func (m model) pageTable() string {
	header := "addr | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}
	rows := []string{header}

	pc := m.cpu.PC &^ 0xf
	for _, base := range []uint16{pc - 16, pc, pc + 16, pc + 32} {
		rows = append(rows, m.renderPage(base))
	}
	rows = append(rows, "")
	rows = append(rows, m.renderPage(m.cpu.SP&^0xf))
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	var flags string
	for _, flag := range []bool{
		m.cpu.Flags.Z,
		m.cpu.Flags.S,
		m.cpu.Flags.P,
		m.cpu.Flags.CY,
		m.cpu.Flags.AC,
		m.cpu.InterruptEnabled,
	} {
		if flag {
			flags += "/  "
		} else {
			flags += "   "
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
SP: %04x
 A: %02x
BC: %02x%02x
DE: %02x%02x
HL: %02x%02x
Z  S  P  CY AC IE
`,
		m.cpu.PC, m.prevPC,
		m.cpu.SP,
		m.cpu.A,
		m.cpu.B, m.cpu.C,
		m.cpu.D, m.cpu.E,
		m.cpu.H, m.cpu.L,
	) + flags
}

func (m model) View() string {
	op := m.cpu.Read(m.cpu.PC)
	next := [2]byte{m.cpu.Read(m.cpu.PC + 1), m.cpu.Read(m.cpu.PC + 2)}
	_, mnemonic := Disassemble(op, next)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		"next: "+mnemonic,
		spew.Sdump(Opcodes[op]),
		strings.Join(m.log, "\n"),
		">>> "+m.input,
	)
}

// Debug starts the interactive debugger over c. It returns when the user
// quits; c keeps whatever state the session left it in.
func (c *Cpu) Debug() error {
	_, err := tea.NewProgram(model{cpu: c}).Run()
	return err
}
