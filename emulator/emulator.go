// Package emulator hosts a chip8.Machine behind an SDL2 window: it paces
// instruction execution and timer decay against the 60Hz video frame, blits
// the display, feeds keyboard state to the machine and sounds a tone while
// the sound timer runs. It also provides a step mode and a frame-granular
// rewind for debugging.
package emulator

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/c8vm/chip8/chip8"
)

const (
	// the machine runs at 8 instructions per video frame
	vblankFrequency = 60
	ticksPerSecond  = 60 * 8

	defaultScale      = 10
	defaultHistoryCap = 600 // ten seconds of frame snapshots
)

// Options configures a new Emulator. Zero values select the defaults.
type Options struct {
	Scale      int32 // display pixels per CHIP-8 pixel
	StepMode   bool  // start paused, stepping one instruction per keypress
	HistoryCap int   // rewind depth in frames
}

// display and sounder are what the run loop needs from the SDL screen and
// beeper.
type display interface {
	blit(buf *[chip8.DisplayW * chip8.DisplayH]bool)
	close()
}

type sounder interface {
	update(active bool)
	close()
}

type Emulator struct {
	rom     []byte
	machine *chip8.Machine
	history *chip8.History

	screen display
	beeper sounder
	styles styles

	keys     [chip8.NumKeys]bool
	running  bool
	focus    bool
	stepMode bool
	err      error
}

// New initializes SDL and builds an emulator around the given program image.
func New(rom []byte, opts Options) (*Emulator, error) {
	if opts.Scale <= 0 {
		opts.Scale = defaultScale
	}
	if opts.HistoryCap <= 0 {
		opts.HistoryCap = defaultHistoryCap
	}

	machine := chip8.New()
	if err := machine.Load(rom); err != nil {
		return nil, err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	scr, err := newScreen(opts.Scale)
	if err != nil {
		return nil, err
	}

	bpr, err := newBeeper()
	if err != nil {
		return nil, err
	}

	return &Emulator{
		rom:      rom,
		machine:  machine,
		history:  chip8.NewHistory(opts.HistoryCap),
		screen:   scr,
		beeper:   bpr,
		styles:   newStyles(),
		running:  true,
		focus:    true,
		stepMode: opts.StepMode,
	}, nil
}

// Run drives the machine until the window is closed or the machine faults.
// The returned error is the machine fault, if any.
func (e *Emulator) Run() error {
	perVblankCycle := ticksPerSecond / vblankFrequency
	cycle := 0

	for e.running {
		cycle++
		if e.focus && !e.stepMode {
			if err := e.machine.Tick(); err != nil {
				e.fail(err)
				break
			}
		}

		if cycle > perVblankCycle {
			cycle = 0
			e.vblank()
		}

		e.pollEvents()
	}

	e.screen.close()
	e.beeper.close()
	sdl.Quit()
	return e.err
}

// vblank does the per-frame work: present the display, feed the beeper, step
// the timers and take a rewind snapshot. The display is presented every frame
// whether or not anything drew; the vsync block inside the present is what
// paces the whole loop to 60Hz, so skipping it would let the loop and the
// timers free-run.
func (e *Emulator) vblank() {
	e.screen.blit(e.machine.Display())

	if e.focus {
		e.beeper.update(e.machine.SoundActive())
		e.machine.DecrementTimers()
		e.history.Save(e.machine)
	}
}

func (e *Emulator) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			e.running = false

		case *sdl.KeyboardEvent:
			switch ev.Type {
			case sdl.KEYDOWN:
				if k, ok := scanCode2Key[ev.Keysym.Scancode]; ok {
					e.keys[k] = true
					e.machine.SetKeys(e.keys)
					break
				}
				e.command(ev.Keysym.Scancode)
			case sdl.KEYUP:
				if k, ok := scanCode2Key[ev.Keysym.Scancode]; ok {
					e.keys[k] = false
					e.machine.SetKeys(e.keys)
				}
			}

		case *sdl.WindowEvent:
			switch ev.Event {
			case sdl.WINDOWEVENT_FOCUS_LOST:
				e.focus = false
			case sdl.WINDOWEVENT_FOCUS_GAINED:
				e.focus = true
			}
		}
	}
}

// command handles the emulator control keys, as opposed to the CHIP-8 pad.
func (e *Emulator) command(sc sdl.Scancode) {
	switch sc {
	case sdl.SCANCODE_ESCAPE:
		e.running = false

	case sdl.SCANCODE_SPACE:
		if e.stepMode {
			e.step()
		} else {
			e.stepMode = true
			fmt.Println(e.styles.debugger.Render(" paused "))
			e.printStatus()
		}

	case sdl.SCANCODE_RETURN:
		e.stepMode = false

	case sdl.SCANCODE_F1:
		e.reset()

	case sdl.SCANCODE_BACKSPACE:
		e.rewind()
	}
}

// step executes one instruction and dumps the machine state to the terminal.
func (e *Emulator) step() {
	if err := e.machine.Tick(); err != nil {
		e.fail(err)
		return
	}

	if trace := e.machine.Trace(); len(trace) > 0 {
		fmt.Println(e.styles.instruction.Render(trace[len(trace)-1]))
	}
	e.printStatus()
}

func (e *Emulator) reset() {
	machine := chip8.New()
	if err := machine.Load(e.rom); err != nil {
		// the image loaded once already; a failure here is a program bug
		e.fail(err)
		return
	}
	e.machine = machine
	e.keys = [chip8.NumKeys]bool{}
}

// rewind steps the machine back one video frame per call.
func (e *Emulator) rewind() {
	if err := e.history.Rewind(e.machine); err != nil {
		fmt.Println(e.styles.debugger.Render(" nothing to rewind "))
		return
	}
	e.stepMode = true
	e.printStatus()
}

func (e *Emulator) printStatus() {
	fmt.Print(e.styles.machine.Render(e.machine.Status()))
	fmt.Println()
}

func (e *Emulator) fail(err error) {
	e.err = err
	e.running = false
	fmt.Println(e.styles.err.Render(err.Error()))
	e.printStatus()
}
