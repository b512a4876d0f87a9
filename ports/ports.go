// Package ports implements the Space Invaders cabinet's off-CPU hardware:
// the 16-bit shift register reached via OUT 2/4 and IN 3, and the input
// port latches the ROM polls for the control panel.
//
// https://www.computerarcheology.com/Arcade/SpaceInvaders/Hardware.html#dedicated-shift-hardware

package ports

import (
	"gosi/mask"
)

// Port 1 control bits, active high: a pressed key sets its bit.
const (
	Coin    byte = 1 << 0
	Start1P byte = 1 << 2
	Shoot1P byte = 1 << 4
	Left1P  byte = 1 << 5
	Right1P byte = 1 << 6
)

// Ports holds the shift register halves, the 3-bit shift amount, and the
// last byte latched on each input port.
type Ports struct {
	shift0 byte // older half; shifted out of shift1 by OUT 4
	shift1 byte
	amount byte // OUT 2, low three bits only

	latches map[byte]byte
}

func New() *Ports {
	return &Ports{latches: map[byte]byte{}}
}

// In returns the byte the CPU reads from port.
func (p *Ports) In(port byte) byte {
	switch port {
	case 1:
		// control switches; unset ports read zero
		return p.latches[1]
	case 3:
		// the game writes x-offsets to port 2, streams sprite bytes to
		// port 4, and reads back the shifted result here
		v := mask.Word(p.shift1, p.shift0)
		return byte(v >> (8 - p.amount))
	}
	return 0
}

// Out accepts the byte the CPU writes to port. Ports 3 and 5 trigger sounds
// and port 6 feeds the watchdog; none of them has an observable effect here.
func (p *Ports) Out(port byte, b byte) {
	switch port {
	case 2:
		p.amount = b & 0x07
	case 4:
		p.shift0 = p.shift1
		p.shift1 = b
	}
}

// Press sets the given bits on an input port latch. Called by the keyboard
// driver on key-down edges.
func (p *Ports) Press(port byte, bits byte) {
	p.latches[port] |= bits
}

// Release clears the given bits on an input port latch.
func (p *Ports) Release(port byte, bits byte) {
	p.latches[port] &^= bits
}
