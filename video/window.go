package video

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"gosi/machine"
	"gosi/mem"
	"gosi/ports"
)

// keymap binds the control panel to port 1 bits. A key-down edge sets the
// bit, key-up clears it.
var keymap = []struct {
	key ebiten.Key
	bit byte
}{
	{ebiten.KeyC, ports.Coin},
	{ebiten.KeyEnter, ports.Start1P},
	{ebiten.KeySpace, ports.Shoot1P},
	{ebiten.KeyA, ports.Left1P},
	{ebiten.KeyD, ports.Right1P},
}

// game adapts a Machine to ebiten's loop: Update runs one frame of
// emulation at 60 ticks per second, Draw blits the rasterized VRAM. ebiten
// owns the frame pacing; the emulator never sleeps on its own.
type game struct {
	m     *machine.Machine
	frame []byte
}

func (g *game) Update() error {
	for _, k := range keymap {
		if inpututil.IsKeyJustPressed(k.key) {
			g.m.Ports.Press(1, k.bit)
		}
		if inpututil.IsKeyJustReleased(k.key) {
			g.m.Ports.Release(1, k.bit)
		}
	}
	g.m.RunFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	Rasterize(g.m.Bus.ReadSlice(mem.VramStart, mem.VramEnd), g.frame)
	screen.WritePixels(g.frame)
}

func (g *game) Layout(_, _ int) (int, int) {
	return Width, Height
}

// Run opens the window and drives m until the window is closed. It returns
// only on shutdown or window-creation failure.
func Run(m *machine.Machine, scale int) error {
	if scale < 1 {
		scale = 1
	}
	ebiten.SetWindowSize(Width*scale, Height*scale)
	ebiten.SetWindowTitle("gosi")
	ebiten.SetTPS(60)

	return ebiten.RunGame(&game{
		m:     m,
		frame: make([]byte, FrameBytes),
	})
}
