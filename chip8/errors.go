package chip8

import "errors"

// Errors returned by Tick and Load. All of them except ErrRomTooLarge are
// fatal: the machine that returned one is in an undefined position and should
// be discarded or restored from a snapshot. ErrRomTooLarge leaves the machine
// untouched.
var (
	ErrOutOfBounds         = errors.New("out of bounds access")
	ErrStackOverflow       = errors.New("stack overflow")
	ErrStackUnderflow      = errors.New("stack underflow")
	ErrUnknownOpcode       = errors.New("unknown opcode")
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
	ErrRomTooLarge         = errors.New("rom too large")
)
