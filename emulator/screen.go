package emulator

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/c8vm/chip8/chip8"
)

type screen struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	scale    int32
}

func newScreen(scale int32) (*screen, error) {
	window, err := sdl.CreateWindow("CHIP-8",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		chip8.DisplayW*scale, chip8.DisplayH*scale, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return &screen{window: window, renderer: renderer, scale: scale}, nil
}

// blit blanks the window and draws every lit cell of the grid as a filled,
// scaled rectangle.
func (s *screen) blit(buf *[chip8.DisplayW * chip8.DisplayH]bool) {
	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.Clear()

	s.renderer.SetDrawColor(0, 255, 0, 255)
	for y := int32(0); y < chip8.DisplayH; y++ {
		for x := int32(0); x < chip8.DisplayW; x++ {
			if buf[y*chip8.DisplayW+x] {
				s.renderer.FillRect(&sdl.Rect{
					X: x * s.scale, Y: y * s.scale,
					W: s.scale, H: s.scale,
				})
			}
		}
	}

	s.renderer.Present()
}

func (s *screen) close() {
	s.renderer.Destroy()
	s.window.Destroy()
}
