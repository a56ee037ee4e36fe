// Package chip8 implements the CHIP-8 fetch-decode-execute core: a pure
// instruction decoder, the virtual machine execution engine, and a fixed-rate
// tick scheduler. Host presentation, input sampling, and program loading
// from disk live outside this package and talk to it through VM's exported
// methods only.
package chip8

import "fmt"

// memorySize is the total addressable CHIP-8 memory.
const memorySize = 4096

// programStart is the address ROMs are loaded at and the VM's reset pc.
const programStart = 0x200

// maxProgramSize is the largest ROM that fits between programStart and the
// end of memory.
const maxProgramSize = memorySize - programStart

// RNG is the randomness source Rand draws from. *math/rand.Rand satisfies
// it; tests pass a seeded one for reproducibility, never a process-global.
type RNG interface {
	Intn(n int) int
}

// Config holds the VM's tunable behaviour, built once at startup and
// threaded explicitly into New. This replaces keeping cycle counts and
// compatibility flags in package-level mutable state.
type Config struct {
	// CyclesPerSecond paces the scheduler: cycles-per-second/60 instructions
	// execute per 60Hz frame.
	CyclesPerSecond int
	// UpscaleFactor is presentation-only; the core never reads it.
	UpscaleFactor int
	// ModernCompatibility selects whether StoreMem/LoadMem mutate I.
	// true (default): I is left unchanged. false: I becomes I+x+1.
	ModernCompatibility bool
}

// DefaultConfig returns the conventional chippy defaults: 700 cycles per
// second, 20x upscale, modern (I-preserving) store/load semantics.
func DefaultConfig() Config {
	return Config{
		CyclesPerSecond:     700,
		UpscaleFactor:       20,
		ModernCompatibility: true,
	}
}

// VM is the CHIP-8 virtual machine: memory, registers, timers, call stack,
// and framebuffer. It is the single owner of all of its state; nothing
// outside this package mutates memory, v, i, pc, stack, or fb directly.
type VM struct {
	memory [memorySize]byte

	v  [16]byte
	i  uint16
	pc uint16

	delay byte
	sound byte

	stack stack
	fb    framebuffer
	keys  [16]bool

	cfg Config
	rng RNG
}

// New returns a VM in its reset form: zeroed memory and registers, the font
// set preloaded, and pc at programStart. rng supplies randomness for Rand;
// it is never sampled from a process-global source.
func New(cfg Config, rng RNG) *VM {
	vm := &VM{
		pc:  programStart,
		cfg: cfg,
		rng: rng,
	}
	vm.loadFontSet()
	return vm
}

// LoadProgram copies rom into memory starting at programStart. It is a
// one-shot operation meant to run once at startup; calling it again
// overwrites the previous program without resetting registers or timers.
func (vm *VM) LoadProgram(rom []byte) error {
	if len(rom) > maxProgramSize {
		return &VmError{Kind: ProgramTooBig, Value: len(rom)}
	}
	copy(vm.memory[programStart:], rom)
	return nil
}

// SetKeys installs the host's keypad snapshot for the frame about to run.
// Every cycle within that frame observes the same 16-boolean array, per the
// spec's "host supplies keypad snapshot each tick" contract - "tick" here
// being the 60Hz frame, not the individual CPU cycle.
func (vm *VM) SetKeys(keys [16]bool) {
	vm.keys = keys
}

// Fetch reads the big-endian word at pc and advances pc by 2 before
// returning it. It fails with InvalidAddress if pc+1 would read outside
// memory.
func (vm *VM) Fetch() (uint16, error) {
	if int(vm.pc)+1 >= memorySize {
		return 0, &VmError{Kind: InvalidAddress, Value: int(vm.pc)}
	}
	word := uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1])
	vm.pc += 2
	return word, nil
}

// TickTimers decrements delay and sound once, per the 60Hz frame rate. It
// never errors: timers simply floor at zero.
func (vm *VM) TickTimers() {
	if vm.delay > 0 {
		vm.delay--
	}
	if vm.sound > 0 {
		vm.sound--
	}
}

// SoundActive reports whether the sound timer is still counting down, the
// signal the host's audio collaborator uses to decide whether to beep.
func (vm *VM) SoundActive() bool {
	return vm.sound > 0
}

// Execute dispatches a decoded Instruction against the current VM state.
func (vm *VM) Execute(instr Instruction) error {
	switch instr.Kind {
	case Cls:
		vm.fb.clear()
	case Return:
		addr, err := vm.stack.pop()
		if err != nil {
			return err
		}
		vm.pc = addr
	case SetPC:
		vm.pc = instr.Nnn
	case Call:
		if err := vm.stack.push(vm.pc); err != nil {
			return err
		}
		vm.pc = instr.Nnn
	case Jump:
		vm.pc = (uint16(vm.v[0]) + instr.Nnn) % memorySize
	case SeInmm:
		if vm.v[instr.X] == instr.Nn {
			vm.pc += 2
		}
	case SneInmm:
		if vm.v[instr.X] != instr.Nn {
			vm.pc += 2
		}
	case SeReg:
		if vm.v[instr.X] == vm.v[instr.Y] {
			vm.pc += 2
		}
	case SneReg:
		if vm.v[instr.X] != vm.v[instr.Y] {
			vm.pc += 2
		}
	case LoadInmm:
		vm.v[instr.X] = instr.Nn
	case AddInmm:
		vm.v[instr.X] = vm.v[instr.X] + instr.Nn
	case LoadReg:
		vm.v[instr.X] = vm.v[instr.Y]
	case Or:
		vm.v[instr.X] |= vm.v[instr.Y]
	case And:
		vm.v[instr.X] &= vm.v[instr.Y]
	case Xor:
		vm.v[instr.X] ^= vm.v[instr.Y]
	case Add:
		vm.execAdd(instr.X, instr.Y)
	case Sub:
		vm.execSub(instr.X, instr.Y)
	case SubRev:
		vm.execSubRev(instr.X, instr.Y)
	case ShiftRight:
		vm.execShiftRight(instr.X, instr.Y)
	case ShiftLeft:
		vm.execShiftLeft(instr.X, instr.Y)
	case LoadI:
		vm.i = instr.Nnn
	case AddI:
		vm.execAddI(instr.X)
	case Rand:
		vm.v[instr.X] = byte(vm.rng.Intn(256)) & instr.Nn
	case Display:
		vm.execDisplay(instr.X, instr.Y, instr.N)
	case SkipIfKey:
		pressed, err := vm.keyPressed(instr.X)
		if err != nil {
			return err
		}
		if pressed {
			vm.pc += 2
		}
	case SkipIfNotKey:
		pressed, err := vm.keyPressed(instr.X)
		if err != nil {
			return err
		}
		if !pressed {
			vm.pc += 2
		}
	case WaitKey:
		// Fx0A stalls until the key indexed by Vx is down: while it is up, pc
		// is rewound so this instruction runs again. Vx is never written.
		pressed, err := vm.keyPressed(instr.X)
		if err != nil {
			return err
		}
		if !pressed {
			vm.pc -= 2
		}
	case GetDelay:
		vm.v[instr.X] = vm.delay
	case LoadDelay:
		vm.delay = vm.v[instr.X]
	case LoadSound:
		vm.sound = vm.v[instr.X]
	case LoadFont:
		if vm.v[instr.X] > 0x0F {
			return &VmError{Kind: UnknownFont, Value: int(vm.v[instr.X])}
		}
		vm.i = fontBase + uint16(vm.v[instr.X])*fontGlyphSize
	case Bcd:
		return vm.execBcd(instr.X)
	case StoreMem:
		return vm.execStoreMem(instr.X)
	case LoadMem:
		return vm.execLoadMem(instr.X)
	default:
		return fmt.Errorf("unhandled instruction kind %d", instr.Kind)
	}
	return nil
}

// execAdd writes the wrapped sum first, then VF, so that `Add(0xF, y)`
// discards the sum and reports only the carry - VF must be written last.
func (vm *VM) execAdd(x, y int) {
	sum := uint16(vm.v[x]) + uint16(vm.v[y])
	vm.v[x] = byte(sum)
	if sum >= 256 {
		vm.v[0xF] = 1
	} else {
		vm.v[0xF] = 0
	}
}

// execSub sets VF to the not-borrow flag before writing the wrapped
// difference, matching the spec's explicit ordering for this instruction.
func (vm *VM) execSub(x, y int) {
	if vm.v[x] > vm.v[y] {
		vm.v[0xF] = 1
	} else {
		vm.v[0xF] = 0
	}
	vm.v[x] = vm.v[x] - vm.v[y]
}

func (vm *VM) execSubRev(x, y int) {
	if vm.v[y] > vm.v[x] {
		vm.v[0xF] = 1
	} else {
		vm.v[0xF] = 0
	}
	vm.v[x] = vm.v[y] - vm.v[x]
}

func (vm *VM) execShiftRight(x, y int) {
	lost := vm.v[y] & 0x01
	vm.v[x] = vm.v[y] >> 1
	vm.v[0xF] = lost
}

func (vm *VM) execShiftLeft(x, y int) {
	lost := (vm.v[y] >> 7) & 0x01
	vm.v[x] = vm.v[y] << 1
	vm.v[0xF] = lost
}

// execAddI adds Vx into I and, per the implementation's non-standard but
// documented option, flags overflow past 0x0FFF in VF without truncating I.
func (vm *VM) execAddI(x int) {
	sum := vm.i + uint16(vm.v[x])
	vm.i = sum
	if sum > 0x0FFF {
		vm.v[0xF] = 1
	} else {
		vm.v[0xF] = 0
	}
}

// execDisplay XOR-blits an n-byte sprite at (Vx mod 64, Vy mod 32). Only the
// starting corner wraps; columns/rows past the right/bottom edge are
// clipped rather than wrapping around within the draw.
func (vm *VM) execDisplay(x, y int, n byte) {
	sx := int(vm.v[x]) % DisplayWidth
	sy := int(vm.v[y]) % DisplayHeight
	vm.v[0xF] = 0

	for row := 0; row < int(n); row++ {
		py := sy + row
		if py >= DisplayHeight {
			continue
		}
		spriteByte := vm.memory[vm.i+uint16(row)]
		for col := 0; col < 8; col++ {
			px := sx + col
			if px >= DisplayWidth {
				continue
			}
			bit := (spriteByte >> (7 - col)) & 1
			if bit == 0 {
				continue
			}
			if vm.fb.get(px, py) {
				vm.fb.set(px, py, false)
				vm.v[0xF] = 1
			} else {
				vm.fb.set(px, py, true)
			}
		}
	}
	vm.fb.dirty = true
}

// keyPressed reads keys[Vx], reporting UnknownKey if Vx names a key beyond
// the 16-key hex keypad.
func (vm *VM) keyPressed(x int) (bool, error) {
	idx := vm.v[x]
	if idx >= 16 {
		return false, &VmError{Kind: UnknownKey, Value: int(idx)}
	}
	return vm.keys[idx], nil
}

// execBcd writes the hundreds, tens, and units digits of Vx to I, I+1, I+2.
func (vm *VM) execBcd(x int) error {
	val := vm.v[x]
	digits := [3]byte{val / 100, (val / 10) % 10, val % 10}
	for offset, d := range digits {
		addr := vm.i + uint16(offset)
		if int(addr) >= memorySize {
			return &VmError{Kind: InvalidAddress, Value: int(addr)}
		}
		vm.memory[addr] = d
	}
	return nil
}

// execStoreMem writes V0..=Vx to memory starting at I, advancing I by x+1 in
// legacy (non-modern) compatibility mode.
func (vm *VM) execStoreMem(x int) error {
	for r := 0; r <= x; r++ {
		addr := vm.i + uint16(r)
		if int(addr) >= memorySize {
			return &VmError{Kind: InvalidAddress, Value: int(addr)}
		}
		vm.memory[addr] = vm.v[r]
	}
	vm.applyMemOpIAdvance(x)
	return nil
}

// execLoadMem mirrors execStoreMem, reading memory into V0..=Vx.
func (vm *VM) execLoadMem(x int) error {
	for r := 0; r <= x; r++ {
		addr := vm.i + uint16(r)
		if int(addr) >= memorySize {
			return &VmError{Kind: InvalidAddress, Value: int(addr)}
		}
		vm.v[r] = vm.memory[addr]
	}
	vm.applyMemOpIAdvance(x)
	return nil
}

func (vm *VM) applyMemOpIAdvance(x int) {
	if !vm.cfg.ModernCompatibility {
		vm.i += uint16(x) + 1
	}
}
