package chip8

import (
	"fmt"
	"strings"
)

// Status returns a formatted dump of the machine for debugging: program
// counter, stack, index register, timers, register file, key states, cycle
// count and the most recent instructions. Purely observational.
func (m *Machine) Status() string {
	var b strings.Builder

	fmt.Fprintf(&b, "PC=%03X  I=%03X  SP=%02X  DT=%02X  ST=%02X  cycles=%d", m.pc, m.i, m.sp, m.dt, m.st, m.cycles)
	if m.waitingKey {
		fmt.Fprintf(&b, "  [waiting key -> V%X]", m.waitingReg)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "last=%04X\n", m.lastOp)

	for i := 0; i < NumRegisters; i++ {
		fmt.Fprintf(&b, "V%X=%02X ", i, m.v[i])
		if i == 7 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("stack:")
	for i := uint8(0); i < m.sp; i++ {
		fmt.Fprintf(&b, " %03X", m.stack[i])
	}
	b.WriteString("\n")

	b.WriteString("keys:")
	for i, down := range m.keys {
		if down {
			fmt.Fprintf(&b, " %X", i)
		}
	}
	b.WriteString("\n")

	return b.String()
}

// Trace returns the most recent executed instructions, oldest first, each as
// "PC-opcode mnemonic".
func (m *Machine) Trace() []string {
	var out []string
	for i := 0; i < opHistoryNum; i++ {
		s := m.ophistory[(m.ophistoryIndex+i)%opHistoryNum]
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
