package chip8

// DisplayWidth and DisplayHeight are the fixed dimensions of the CHIP-8
// monochrome framebuffer.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// framebuffer is a 64x32 monochrome pixel store, held as a single
// contiguous buffer indexed (y*DisplayWidth + x) to avoid the double
// indirection of a nested [][]bool.
type framebuffer struct {
	cells [DisplayWidth * DisplayHeight]bool
	dirty bool
}

func index(x, y int) int {
	return y*DisplayWidth + x
}

// get reads a pixel. Coordinates are expected to already be in range;
// Display wraps the sprite's starting corner before calling set/get.
func (f *framebuffer) get(x, y int) bool {
	return f.cells[index(x, y)]
}

// set writes a pixel.
func (f *framebuffer) set(x, y int, v bool) {
	f.cells[index(x, y)] = v
}

// clear blanks every pixel and raises the dirty flag.
func (f *framebuffer) clear() {
	f.cells = [DisplayWidth * DisplayHeight]bool{}
	f.dirty = true
}

// DisplayVal reports whether the pixel at (x, y) is lit. It is the
// read-only view the host presentation layer polls each frame.
func (vm *VM) DisplayVal(x, y int) bool {
	return vm.fb.get(x, y)
}

// ShouldRefresh reports whether the framebuffer changed since the host last
// called Refreshed.
func (vm *VM) ShouldRefresh() bool {
	return vm.fb.dirty
}

// Refreshed clears the dirty flag; the host calls this right after
// presenting a frame.
func (vm *VM) Refreshed() {
	vm.fb.dirty = false
}
