// Package chip8 implements the CHIP-8 interpreter: a 4KB machine with 16
// registers, a 64x32 XOR-composited display, two countdown timers and a
// 16-key pad. The package is headless; a host drives Tick, DecrementTimers
// and SetKeys and consumes the display buffer and sound signal.
package chip8

import "fmt"

const (
	DisplayW = 64
	DisplayH = 32

	MemorySize   = 4096
	StackSize    = 16
	NumRegisters = 16
	NumKeys      = 16

	FontOffset     = 0x050
	FontGlyphBytes = 5
	ProgramOffset  = 0x200

	opcodeSize   = 2
	opHistoryNum = 16
)

// Machine is the whole architectural state of one interpreter. It is a plain
// value: every field is an array or scalar, so assignment produces an
// independent deep copy (which is what History relies on).
//
// A Machine is meant to be driven by a single loop; nothing in it is safe for
// concurrent use.
type Machine struct {
	mem   [MemorySize]uint8
	v     [NumRegisters]uint8
	i     uint16
	pc    uint16
	stack [StackSize]uint16
	sp    uint8
	dt    uint8
	st    uint8
	keys  [NumKeys]bool
	disp  [DisplayW * DisplayH]bool

	frameDirty bool
	waitingKey bool
	waitingReg uint8

	lastOp         uint16
	cycles         uint64
	ophistory      [opHistoryNum]string
	ophistoryIndex int
}

var fontSprites = []uint8{
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
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// New returns a reset machine with the font glyphs in place and the program
// counter at the program load address.
func New() *Machine {
	m := &Machine{}
	m.pc = ProgramOffset
	copy(m.mem[FontOffset:], fontSprites)
	return m
}

// Load copies a raw program image into memory starting at ProgramOffset. A
// program that does not fit is rejected with ErrRomTooLarge and the machine
// is left exactly as it was.
func (m *Machine) Load(rom []byte) error {
	if len(rom) > MemorySize-ProgramOffset {
		return fmt.Errorf("%w: %d bytes, %d available", ErrRomTooLarge, len(rom), MemorySize-ProgramOffset)
	}
	copy(m.mem[ProgramOffset:], rom)
	return nil
}

// Tick fetches, decodes and executes one instruction. While the machine is
// waiting on a WAIT_KEY instruction, Tick does nothing at all; execution
// resumes from SetKeys.
//
// A non-nil error is fatal (see errors.go) and no instruction effect has been
// applied when one is returned.
func (m *Machine) Tick() error {
	if m.waitingKey {
		return nil
	}

	if int(m.pc)+1 >= MemorySize {
		return fmt.Errorf("%w: fetch at %03X", ErrOutOfBounds, m.pc)
	}

	pc := m.pc
	dirty := m.frameDirty
	op := uint16(m.mem[m.pc])<<8 | uint16(m.mem[m.pc+1])
	m.pc += opcodeSize

	m.frameDirty = false

	mnemonic, err := m.exec(op, decode(op))
	if err != nil {
		// rewind the fetch and the dirty flag so a failed tick has no
		// effect and the reported pc names the failing instruction
		m.pc = pc
		m.frameDirty = dirty
		return err
	}

	m.lastOp = op
	m.cycles++
	m.ophistory[m.ophistoryIndex] = fmt.Sprintf("%03X-%04X %s", pc, op, mnemonic)
	m.ophistoryIndex = (m.ophistoryIndex + 1) % opHistoryNum
	return nil
}

// DecrementTimers steps both countdown timers, each floored at zero. The host
// calls this at its own fixed cadence (nominally 60Hz); Tick never does.
func (m *Machine) DecrementTimers() {
	if m.dt > 0 {
		m.dt--
	}
	if m.st > 0 {
		m.st--
	}
}

// SetKeys replaces the 16-key pressed state. If the machine is suspended on
// WAIT_KEY and any key is down, the lowest-numbered pressed key is stored in
// the waiting register and execution resumes.
func (m *Machine) SetKeys(keys [NumKeys]bool) {
	m.keys = keys
	if !m.waitingKey {
		return
	}
	for i, down := range keys {
		if down {
			m.v[m.waitingReg] = uint8(i)
			m.waitingKey = false
			return
		}
	}
}

// Display exposes the 64x32 pixel grid, row-major. Callers must treat it as
// read-only.
func (m *Machine) Display() *[DisplayW * DisplayH]bool {
	return &m.disp
}

// FrameDirty reports whether the most recently executed instruction mutated
// the display.
func (m *Machine) FrameDirty() bool {
	return m.frameDirty
}

// SoundActive reports whether the tone generator should currently be sounding.
func (m *Machine) SoundActive() bool {
	return m.st > 0
}

// Waiting reports whether execution is suspended on a WAIT_KEY instruction.
func (m *Machine) Waiting() bool {
	return m.waitingKey
}

// CycleCount returns the number of instructions executed so far. Hosts that
// cannot schedule a separate timer clock can derive one from it (the
// conventional ratio is one timer step per eight instructions).
func (m *Machine) CycleCount() uint64 {
	return m.cycles
}

func (m *Machine) updateCarryFlag(b bool) {
	if b {
		m.v[0xF] = 1
	} else {
		m.v[0xF] = 0
	}
}

func (m *Machine) pushStack(v uint16) error {
	if m.sp >= StackSize {
		return fmt.Errorf("%w: call depth %d", ErrStackOverflow, StackSize)
	}
	m.stack[m.sp] = v
	m.sp++
	return nil
}

func (m *Machine) popStack() (uint16, error) {
	if m.sp == 0 {
		return 0, fmt.Errorf("%w: return with empty stack", ErrStackUnderflow)
	}
	m.sp--
	return m.stack[m.sp], nil
}

// draw XORs an n-row sprite read from memory at the index register onto the
// display at (x, y). Coordinates wrap at the display edges. Returns whether
// any lit pixel was unlit by the draw.
func (m *Machine) draw(x, y, n uint8) (bool, error) {
	if int(m.i)+int(n) > MemorySize {
		return false, fmt.Errorf("%w: sprite read %03X+%d", ErrOutOfBounds, m.i, n)
	}

	collided := false
	sprite := m.mem[m.i : int(m.i)+int(n)]
	for row := 0; row < int(n); row++ {
		for col := 0; col < 8; col++ {
			if (sprite[row]>>(7-col))&0x01 == 0 {
				continue
			}
			tx := (int(x) + col) % DisplayW
			ty := (int(y) + row) % DisplayH
			if m.disp[ty*DisplayW+tx] {
				collided = true
			}
			m.disp[ty*DisplayW+tx] = !m.disp[ty*DisplayW+tx]
		}
	}
	return collided, nil
}
