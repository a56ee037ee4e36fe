package chip8

// fontBase is the memory address where the 16 built-in glyphs are preloaded.
// The fonts sit at the very start of memory (0x000-0x050), inside the
// reserved region below programStart, since nothing else claims it.
const fontBase = 0x000

// fontGlyphSize is the number of bytes making up a single hex digit glyph.
const fontGlyphSize = 5

// fontSet holds the 16 built-in 5-byte glyphs, one per hex digit, found at
// http://www.multigesture.net/articles/how-to-write-an-emulator-chip-8-interpreter
var fontSet = [16 * fontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xF0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

func (vm *VM) loadFontSet() {
	copy(vm.memory[fontBase:], fontSet[:])
}
