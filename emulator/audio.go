package emulator

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/veandco/go-sdl2/sdl"
)

const audioSamples = 64

// beeper queues a sine tone to an SDL audio device while the machine's sound
// timer is running. The device consumes exactly one buffer of samples per
// video frame.
type beeper struct {
	device sdl.AudioDeviceID
}

func newBeeper() (*beeper, error) {
	want := &sdl.AudioSpec{
		Freq:     audioSamples * vblankFrequency,
		Format:   sdl.AUDIO_F32LSB,
		Channels: 1,
		Samples:  audioSamples,
	}
	have := &sdl.AudioSpec{}
	device, err := sdl.OpenAudioDevice("", false, want, have, sdl.AUDIO_ALLOW_ANY_CHANGE)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	sdl.PauseAudioDevice(device, false)
	return &beeper{device: device}, nil
}

func (b *beeper) update(active bool) {
	if !active {
		return
	}

	samples := make([]byte, 4*audioSamples)
	for i := 0; i < len(samples); i += 4 {
		f := math.Sin(2.0 * math.Pi / 180.0 * float64(360*i/audioSamples))
		binary.LittleEndian.PutUint32(samples[i:], math.Float32bits(float32(f)))
	}

	// a queue error only drops one frame of tone
	_ = sdl.QueueAudio(b.device, samples)
}

func (b *beeper) close() {
	sdl.CloseAudioDevice(b.device)
}
