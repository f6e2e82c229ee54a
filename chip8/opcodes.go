package chip8

import (
	"fmt"
	"math/rand"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

// exec runs one decoded instruction. Dispatch keys on the whole symbol tuple,
// not the family nibble alone: families 0, 5, 8, 9, E and F are disambiguated
// by their low fields, and the specific 00E0/00EE patterns must win before
// the 0NNN fallback.
//
// Effects are all-or-nothing: every bounds and stack check happens before the
// first write, so a returned error means nothing was applied.
func (m *Machine) exec(op uint16, s symbols) (string, error) {
	pc := m.pc - opcodeSize

	switch s.a {
	case 0x0:
		switch {
		case op == 0x00E0: // clear display
			for i := range m.disp {
				m.disp[i] = false
			}
			m.frameDirty = true
			return "CLS", nil

		case op == 0x00EE: // return from subroutine
			r, err := m.popStack()
			if err != nil {
				return "", fmt.Errorf("%04X at %03X: %w", op, pc, err)
			}
			m.pc = r
			return "RET", nil

		case s.nnn != 0: // 0NNN machine-code routine, long gone
			return "", fmt.Errorf("%w: SYS %03X at %03X", ErrUnimplementedOpcode, s.nnn, pc)
		}

	case 0x1: // 1NNN goto
		m.pc = s.nnn
		return fmt.Sprintf("GOTO %03X", s.nnn), nil

	case 0x2: // 2NNN call subroutine
		if err := m.pushStack(m.pc); err != nil {
			return "", fmt.Errorf("%04X at %03X: %w", op, pc, err)
		}
		m.pc = s.nnn
		return fmt.Sprintf("CALL %03X", s.nnn), nil

	case 0x3: // 3XNN skip if Vx == NN
		if m.v[s.x] == s.nn {
			m.pc += opcodeSize
		}
		return fmt.Sprintf("SE   V%X,#%02X", s.x, s.nn), nil

	case 0x4: // 4XNN skip if Vx != NN
		if m.v[s.x] != s.nn {
			m.pc += opcodeSize
		}
		return fmt.Sprintf("SNE  V%X,#%02X", s.x, s.nn), nil

	case 0x5: // 5XY0 skip if Vx == Vy
		if s.n != 0 {
			break
		}
		if m.v[s.x] == m.v[s.y] {
			m.pc += opcodeSize
		}
		return fmt.Sprintf("SE   V%X,V%X", s.x, s.y), nil

	case 0x6: // 6XNN Vx = NN
		m.v[s.x] = s.nn
		return fmt.Sprintf("LD   V%X,#%02X", s.x, s.nn), nil

	case 0x7: // 7XNN Vx += NN, carry flag untouched
		m.v[s.x] += s.nn
		return fmt.Sprintf("ADD  V%X,#%02X", s.x, s.nn), nil

	case 0x8:
		return m.execALU(op, s, pc)

	case 0x9: // 9XY0 skip if Vx != Vy
		if s.n != 0 {
			break
		}
		if m.v[s.x] != m.v[s.y] {
			m.pc += opcodeSize
		}
		return fmt.Sprintf("SNE  V%X,V%X", s.x, s.y), nil

	case 0xA: // ANNN I = NNN
		m.i = s.nnn
		return fmt.Sprintf("LD   I,#%03X", s.nnn), nil

	case 0xB: // BNNN PC = V0 + NNN
		m.pc = uint16(m.v[0]) + s.nnn
		return fmt.Sprintf("JP   V0,#%03X", s.nnn), nil

	case 0xC: // CXNN Vx = rand() & NN
		m.v[s.x] = uint8(rand.Uint32()) & s.nn
		return fmt.Sprintf("RND  V%X,#%02X", s.x, s.nn), nil

	case 0xD: // DXYN draw sprite
		collided, err := m.draw(m.v[s.x], m.v[s.y], s.n)
		if err != nil {
			return "", fmt.Errorf("%04X at %03X: %w", op, pc, err)
		}
		m.updateCarryFlag(collided)
		m.frameDirty = true
		return fmt.Sprintf("DRW  V%X,V%X,%d", s.x, s.y, s.n), nil

	case 0xE:
		switch s.nn {
		case 0x9E: // EX9E skip if key Vx pressed
			down, err := m.keyDown(s.x, op, pc)
			if err != nil {
				return "", err
			}
			if down {
				m.pc += opcodeSize
			}
			return fmt.Sprintf("SKP  V%X", s.x), nil

		case 0xA1: // EXA1 skip if key Vx not pressed
			down, err := m.keyDown(s.x, op, pc)
			if err != nil {
				return "", err
			}
			if !down {
				m.pc += opcodeSize
			}
			return fmt.Sprintf("SKNP V%X", s.x), nil
		}

	case 0xF:
		return m.execMisc(op, s, pc)
	}

	return "", fmt.Errorf("%w: %04X at %03X", ErrUnknownOpcode, op, pc)
}

// execALU handles the 8XYN register-to-register family. The shift
// instructions deliberately ignore Vy: this interpreter follows the modern
// Vx-only convention and the tests pin it.
func (m *Machine) execALU(op uint16, s symbols, pc uint16) (string, error) {
	vx, vy := m.v[s.x], m.v[s.y]

	switch s.n {
	case 0x0: // 8XY0 Vx = Vy
		m.v[s.x] = vy
		return fmt.Sprintf("LD   V%X,V%X", s.x, s.y), nil

	case 0x1: // 8XY1 Vx |= Vy
		m.v[s.x] = vx | vy
		return fmt.Sprintf("OR   V%X,V%X", s.x, s.y), nil

	case 0x2: // 8XY2 Vx &= Vy
		m.v[s.x] = vx & vy
		return fmt.Sprintf("AND  V%X,V%X", s.x, s.y), nil

	case 0x3: // 8XY3 Vx ^= Vy
		m.v[s.x] = vx ^ vy
		return fmt.Sprintf("XOR  V%X,V%X", s.x, s.y), nil

	case 0x4: // 8XY4 Vx += Vy, VF = carry
		m.updateCarryFlag(uint16(vx)+uint16(vy) > 0xFF)
		m.v[s.x] = vx + vy
		return fmt.Sprintf("ADD  V%X,V%X", s.x, s.y), nil

	case 0x5: // 8XY5 Vx -= Vy, VF = 1 iff Vx > Vy
		m.updateCarryFlag(vx > vy)
		m.v[s.x] = vx - vy
		return fmt.Sprintf("SUB  V%X,V%X", s.x, s.y), nil

	case 0x6: // 8XY6 Vx >>= 1, VF = bit shifted out
		m.updateCarryFlag(vx&0x01 == 1)
		m.v[s.x] = vx >> 1
		return fmt.Sprintf("SHR  V%X", s.x), nil

	case 0x7: // 8XY7 Vx = Vy - Vx, VF = 1 iff Vy > Vx
		m.updateCarryFlag(vy > vx)
		m.v[s.x] = vy - vx
		return fmt.Sprintf("SUBN V%X,V%X", s.x, s.y), nil

	case 0xE: // 8XYE Vx <<= 1, VF = bit shifted out
		m.updateCarryFlag(vx>>7 == 1)
		m.v[s.x] = vx << 1
		return fmt.Sprintf("SHL  V%X", s.x), nil
	}

	return "", fmt.Errorf("%w: %04X at %03X", ErrUnknownOpcode, op, pc)
}

// execMisc handles the FXNN family.
func (m *Machine) execMisc(op uint16, s symbols, pc uint16) (string, error) {
	switch s.nn {
	case 0x07: // FX07 Vx = delay timer
		m.v[s.x] = m.dt
		return fmt.Sprintf("LD   V%X,DT", s.x), nil

	case 0x0A: // FX0A suspend until a key is pressed
		m.waitingKey = true
		m.waitingReg = s.x
		return fmt.Sprintf("LD   V%X,K", s.x), nil

	case 0x15: // FX15 delay timer = Vx
		m.dt = m.v[s.x]
		return fmt.Sprintf("LD   DT,V%X", s.x), nil

	case 0x18: // FX18 sound timer = Vx
		m.st = m.v[s.x]
		return fmt.Sprintf("LD   ST,V%X", s.x), nil

	case 0x1E: // FX1E I += Vx, VF = carry past 0xFFF
		sum := uint32(m.i) + uint32(m.v[s.x])
		m.updateCarryFlag(sum > 0xFFF)
		m.i = uint16(sum) & 0x0FFF
		return fmt.Sprintf("ADD  I,V%X", s.x), nil

	case 0x29: // FX29 I = font glyph address for digit Vx
		m.i = FontOffset + uint16(m.v[s.x])*FontGlyphBytes
		return fmt.Sprintf("LD   F,V%X", s.x), nil

	case 0x33: // FX33 decimal digits of Vx to mem[I..I+2]
		if int(m.i)+3 > MemorySize {
			return "", fmt.Errorf("%w: BCD write %03X at %03X", ErrOutOfBounds, m.i, pc)
		}
		m.mem[m.i+0] = m.v[s.x] / 100
		m.mem[m.i+1] = (m.v[s.x] % 100) / 10
		m.mem[m.i+2] = m.v[s.x] % 10
		return fmt.Sprintf("LD   B,V%X", s.x), nil

	case 0x55: // FX55 dump V0..Vx to mem[I..]
		if int(m.i)+int(s.x)+1 > MemorySize {
			return "", fmt.Errorf("%w: register dump %03X+%d at %03X", ErrOutOfBounds, m.i, s.x, pc)
		}
		copy(m.mem[m.i:], m.v[:s.x+1])
		return fmt.Sprintf("LD   [I],V%X", s.x), nil

	case 0x65: // FX65 load V0..Vx from mem[I..]
		if int(m.i)+int(s.x)+1 > MemorySize {
			return "", fmt.Errorf("%w: register load %03X+%d at %03X", ErrOutOfBounds, m.i, s.x, pc)
		}
		copy(m.v[:s.x+1], m.mem[m.i:])
		return fmt.Sprintf("LD   V%X,[I]", s.x), nil
	}

	return "", fmt.Errorf("%w: %04X at %03X", ErrUnknownOpcode, op, pc)
}

func (m *Machine) keyDown(x uint8, op, pc uint16) (bool, error) {
	key := m.v[x]
	if key >= NumKeys {
		return false, fmt.Errorf("%w: key %02X in %04X at %03X", ErrOutOfBounds, key, op, pc)
	}
	return m.keys[key], nil
}
