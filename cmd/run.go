package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nib8-core/chippy8/internal/audio"
	"github.com/nib8-core/chippy8/internal/chip8"
	"github.com/nib8-core/chippy8/internal/display"
)

var (
	cyclesFlag       int
	scaleFlag        int
	legacyCompatFlag bool
)

// runCmd runs the chippy8 virtual machine against a ROM until the window
// is closed.
var runCmd = &cobra.Command{
	Use:   "run path/to/rom",
	Short: "run a ROM in the chippy8 emulator",
	Args:  cobra.ExactArgs(1),
	Run:   runChippy,
}

func init() {
	defaults := chip8.DefaultConfig()
	runCmd.Flags().IntVar(&cyclesFlag, "cycles", defaults.CyclesPerSecond, "CPU cycles executed per second")
	runCmd.Flags().IntVar(&scaleFlag, "scale", defaults.UpscaleFactor, "pixel upscale factor for the display window")
	runCmd.Flags().BoolVar(&legacyCompatFlag, "legacy-compat", false, "make FX55/FX65 advance I like the original interpreters")
}

func runChippy(cmd *cobra.Command, args []string) {
	pathToROM := args[0]

	rom, err := os.ReadFile(pathToROM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading ROM: %v\n", err)
		os.Exit(1)
	}

	cfg := chip8.Config{
		CyclesPerSecond:     cyclesFlag,
		UpscaleFactor:       scaleFlag,
		ModernCompatibility: !legacyCompatFlag,
	}

	vm := chip8.New(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err := vm.LoadProgram(rom); err != nil {
		fmt.Fprintf(os.Stderr, "error loading ROM: %v\n", err)
		os.Exit(1)
	}

	sched := chip8.NewScheduler(vm, cfg)

	win, err := display.NewWindow(filepath.Base(pathToROM), cfg.UpscaleFactor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating display window: %v\n", err)
		os.Exit(1)
	}

	player, err := audio.NewPlayer("assets/beep.mp3")
	stopAudio := make(chan struct{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: audio disabled: %v\n", err)
	} else {
		defer player.Close()
		go player.Run(stopAudio)
	}
	defer close(stopAudio)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for range ticker.C {
		if win.Closed() {
			break
		}

		keys := win.ReadKeys()
		if err := sched.Frame(keys); err != nil {
			fmt.Fprintf(os.Stderr, "error running frame: %v\n", err)
			os.Exit(1)
		}

		if player != nil && vm.SoundActive() {
			player.NotifySoundActive()
		}

		if vm.ShouldRefresh() {
			win.Draw(vm)
			vm.Refreshed()
		}

		win.UpdateInput()
	}
}
