// Package video projects the board's 1-bit framebuffer onto a window. The
// cabinet mounts its CRT rotated 90 degrees, so the 256x224 bitplane the ROM
// draws becomes a 224x256 portrait image on screen.

package video

import (
	"gosi/mask"
)

const (
	// native orientation, as the ROM sees it: 256 wide, 224 tall, one
	// bit per pixel, bit 0 the leftmost of its byte's eight pixels (so
	// the lowest of them after rotation)
	NativeWidth  = 256
	NativeHeight = 224

	// display orientation, after the 90-degree counterclockwise rotation
	Width  = 224
	Height = 256

	// FrameBytes is the size of the RGBA display buffer.
	FrameBytes = Width * Height * 4
)

// Rasterize expands the 7,168-byte VRAM bitplane into dst as RGBA pixels,
// rotated for display: white for set bits, opaque black for clear. dst must
// be FrameBytes long and is fully overwritten; callers reuse one buffer
// across frames.
func Rasterize(vram []byte, dst []byte) {
	for i, b := range vram {
		// VRAM is linear in native orientation, x fastest
		x := i * 8 % NativeWidth
		y := i * 8 / NativeWidth
		for bit := range 8 {
			// rotating counterclockwise sends native (x, y) to
			// display row NativeWidth-1-x, column y
			off := ((NativeWidth-1-(x+bit))*Width + y) * 4
			if mask.Bit(b, bit) {
				dst[off+0] = 0xff
				dst[off+1] = 0xff
				dst[off+2] = 0xff
			} else {
				dst[off+0] = 0x00
				dst[off+1] = 0x00
				dst[off+2] = 0x00
			}
			dst[off+3] = 0xff
		}
	}
}
