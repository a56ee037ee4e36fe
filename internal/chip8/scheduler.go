package chip8

// targetFrameRate is the fixed 60Hz rate timers and display pacing run at.
const targetFrameRate = 60

// Scheduler paces CPU cycles against the 60Hz timer/display refresh rate:
// cyclesPerFrame = max(1, cyclesPerSecond/60) instructions execute per
// frame, with the delay and sound timers ticking once per frame.
type Scheduler struct {
	vm             *VM
	cyclesPerFrame int
}

// NewScheduler computes cyclesPerFrame from cfg.CyclesPerSecond and binds
// the scheduler to vm.
func NewScheduler(vm *VM, cfg Config) *Scheduler {
	cyclesPerFrame := cfg.CyclesPerSecond / targetFrameRate
	if cyclesPerFrame < 1 {
		cyclesPerFrame = 1
	}
	return &Scheduler{vm: vm, cyclesPerFrame: cyclesPerFrame}
}

// CyclesPerFrame reports how many fetch/decode/execute steps Frame runs.
func (s *Scheduler) CyclesPerFrame() int {
	return s.cyclesPerFrame
}

// Frame ticks the timers once, installs keys as the frame's keypad
// snapshot, then runs cyclesPerFrame fetch/decode/execute steps. It stops
// and returns the first error raised by any cycle in the batch.
func (s *Scheduler) Frame(keys [16]bool) error {
	s.vm.TickTimers()
	s.vm.SetKeys(keys)

	for i := 0; i < s.cyclesPerFrame; i++ {
		word, err := s.vm.Fetch()
		if err != nil {
			return err
		}
		instr, err := Decode(word)
		if err != nil {
			return err
		}
		if err := s.vm.Execute(instr); err != nil {
			return err
		}
	}
	return nil
}
