package chip8

// symbols holds the fixed-width fields unpacked from one opcode word. Which
// fields are meaningful depends on the matched instruction; extraction itself
// is unconditional.
//
// For the word 0xABCD: a=0xA, x=0xB, y=0xC, n=0xD, nn=0xCD, nnn=0xBCD.
type symbols struct {
	a   uint8  // top nibble, instruction family
	x   uint8  // register operand
	y   uint8  // register operand
	n   uint8  // 4-bit immediate
	nn  uint8  // 8-bit immediate
	nnn uint16 // 12-bit address immediate
}

func decode(op uint16) symbols {
	return symbols{
		a:   uint8(op >> 12),
		x:   uint8(op>>8) & 0x0F,
		y:   uint8(op>>4) & 0x0F,
		n:   uint8(op) & 0x0F,
		nn:  uint8(op),
		nnn: op & 0x0FFF,
	}
}
