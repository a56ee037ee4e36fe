// Package display is chippy's reference host presentation: it renders the
// VM's read-only framebuffer view upscaled to a real window and samples the
// host keyboard into the 16-boolean keypad snapshot the core consumes each
// frame. Everything here is a collaborator of internal/chip8, never a part
// of it - the core never imports this package.
package display

import (
	"fmt"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/nib8-core/chippy8/internal/chip8"
)

// View is the read-only slice of VM behaviour the host presentation layer
// needs: a pixel accessor plus the dirty-flag protocol.
type View interface {
	DisplayVal(x, y int) bool
	ShouldRefresh() bool
	Refreshed()
}

// keyMap maps the CHIP-8 hex keypad onto a QWERTY layout, laid out the same
// way the physical COSMAC VIP keypad read:
//
//	KEYPAD     KEYBOARD
//	1 2 3 C -> 1 2 3 4
//	4 5 6 D -> q w e r
//	7 8 9 E -> a s d f
//	A 0 B F -> z x c v
var keyMap = map[byte]pixelgl.Button{
	0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
	0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
	0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
	0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
}

// Window wraps a pixelgl window sized to Config.UpscaleFactor times the
// CHIP-8 display dimensions.
type Window struct {
	*pixelgl.Window
	upscale float64
}

// NewWindow opens a window titled after the running ROM, sized for the
// given upscale factor.
func NewWindow(title string, upscaleFactor int) (*Window, error) {
	if upscaleFactor < 1 {
		upscaleFactor = 1
	}
	width := float64(chip8.DisplayWidth * upscaleFactor)
	height := float64(chip8.DisplayHeight * upscaleFactor)

	cfg := pixelgl.WindowConfig{
		Title:  fmt.Sprintf("chippy8: %s", title),
		Bounds: pixel.R(0, 0, width, height),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening window: %w", err)
	}
	return &Window{Window: w, upscale: float64(upscaleFactor)}, nil
}

// Draw renders every lit pixel of view as an upscale x upscale square.
// (0,0) is top-left in CHIP-8 coordinates but pixel's y axis grows upward,
// so rows are flipped when placed in the window.
func (w *Window) Draw(view View) {
	w.Clear(colornames.Black)

	draw := imdraw.New(nil)
	draw.Color = pixel.RGB(1, 1, 1)

	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if !view.DisplayVal(x, y) {
				continue
			}
			flippedY := chip8.DisplayHeight - 1 - y
			draw.Push(pixel.V(w.upscale*float64(x), w.upscale*float64(flippedY)))
			draw.Push(pixel.V(w.upscale*float64(x)+w.upscale, w.upscale*float64(flippedY)+w.upscale))
			draw.Rectangle(0)
		}
	}

	draw.Draw(w)
	w.Update()
}

// ReadKeys samples the current state of every mapped key into a fresh
// keypad snapshot, the 16-boolean array the scheduler feeds to the VM once
// per frame.
func (w *Window) ReadKeys() [16]bool {
	var keys [16]bool
	for digit, button := range keyMap {
		keys[digit] = w.Pressed(button)
	}
	return keys
}
