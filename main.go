package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/c8vm/chip8/emulator"
)

var (
	filename   = flag.String("f", "", "chip8 image file path")
	stepMode   = flag.Bool("s", false, "start paused in step mode")
	scale      = flag.Int("scale", 10, "display pixels per chip8 pixel")
	historyCap = flag.Int("history", 600, "rewind depth in frames")
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	if *filename == "" {
		flag.Usage()
		os.Exit(2)
	}

	rom, err := os.ReadFile(*filename)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	emu, err := emulator.New(rom, emulator.Options{
		Scale:      int32(*scale),
		StepMode:   *stepMode,
		HistoryCap: *historyCap,
	})
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	if err := emu.Run(); err != nil {
		log.Fatalf("machine fault: %v", err)
	}
}
