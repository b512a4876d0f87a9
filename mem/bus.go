package mem

// A Bus is the central object that connects the 'hardware' components
// together. The Space Invaders board only populates 16 kB:
//
// CPU     ROM     RAM     VRAM
//  |       |       |       |
//  |       |0000   |2000   |2400
//  |       |1fff   |23ff   |3fff
//  |------------------------------------ BUS
//
// Everything from 0x4000 up is an aliasing reflection of 0x2000-0x3fff: the
// address lines above bit 13 simply aren't decoded, so reads and writes fold
// down by 0x2000 steps until they land in the populated region.
//
// https://www.computerarcheology.com/Arcade/SpaceInvaders/Hardware.html

const (
	RomEnd    = 0x1fff // inclusive; the CPU write path never lands here
	RamStart  = 0x2000
	VramStart = 0x2400
	VramEnd   = 0x3fff

	size = 0x4000 // 16 kB of physical backing
)

type Bus struct {
	ram [size]byte
}

// fold maps a 16-bit address onto the physical 16 kB. Every 8 kB window
// above 0x4000 reflects 0x2000-0x3fff, so keep subtracting until the address
// lands inside the backing array; a read is never out of range.
func fold(addr uint16) uint16 {
	for addr >= 0x4000 {
		addr -= 0x2000
	}
	return addr
}

// Read returns the byte at the folded addr.
func (b *Bus) Read(addr uint16) byte {
	return b.ram[fold(addr)]
}

// ReadSlice returns the contiguous bytes in [lo, hi] inclusive. Used by the
// rasterizer (VRAM); callers guarantee both endpoints lie inside the
// unmirrored range.
func (b *Bus) ReadSlice(lo, hi uint16) []byte {
	return b.ram[lo : uint32(hi)+1]
}

// Write folds addr and stores data, unless the unfolded addr lies in ROM, in
// which case the write is silently discarded. The running program cannot
// corrupt its own code.
func (b *Bus) Write(addr uint16, data byte) {
	if addr <= RomEnd {
		return
	}
	b.ram[fold(addr)] = data
}

// LoadROM stores data unconditionally. Only the ROM loader calls this, once,
// at startup.
func (b *Bus) LoadROM(addr uint16, data byte) {
	b.ram[addr] = data
}
