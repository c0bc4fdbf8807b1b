//go:build !headless
// +build !headless

package graphics

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL2Backend renders through an SDL2 window and texture, as an
// alternative to the Ebitengine backend for platforms where SDL2 is the
// available display layer.
type SDL2Backend struct {
	initialized bool
}

func NewSDL2Backend() *SDL2Backend { return &SDL2Backend{} }

func (b *SDL2Backend) Initialize(config Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}
	b.initialized = true
	return nil
}

func (b *SDL2Backend) CreateWindow(title string, width, height int) (Window, error) {
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("sdl2: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("sdl2: create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, 256, 240)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("sdl2: create texture: %w", err)
	}

	return &sdl2Window{window: window, renderer: renderer, texture: texture}, nil
}

func (b *SDL2Backend) Cleanup() error {
	if b.initialized {
		sdl.Quit()
	}
	return nil
}

func (b *SDL2Backend) IsHeadless() bool { return false }
func (b *SDL2Backend) GetName() string  { return "SDL2" }

type sdl2Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   [256 * 240 * 3]byte
	closing  bool
}

func (w *sdl2Window) SetTitle(title string) { w.window.SetTitle(title) }

func (w *sdl2Window) GetSize() (int, int) {
	wi, hi := w.window.GetSize()
	return int(wi), int(hi)
}

func (w *sdl2Window) ShouldClose() bool { return w.closing }

func (w *sdl2Window) SwapBuffers() { w.renderer.Present() }

// PollEvents drains SDL2's event queue and maps keyboard events to the
// backend-neutral InputEvent set, following the escape/pad/system-key
// layout an SDL2 frontend for this core would use.
func (w *sdl2Window) PollEvents() []InputEvent {
	var events []InputEvent
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.closing = true
			events = append(events, InputEvent{Type: InputEventTypeQuit})

		case *sdl.KeyboardEvent:
			pressed := e.Type == sdl.KEYDOWN
			if key, ok := sdlKeyToKey(e.Keysym.Sym); ok {
				events = append(events, InputEvent{Type: InputEventTypeKey, Key: key, Pressed: pressed})
			}
			if button, ok := sdlKeyToButton(e.Keysym.Sym); ok {
				events = append(events, InputEvent{Type: InputEventTypeButton, Button: button, Pressed: pressed})
			}
		}
	}
	return events
}

func sdlKeyToKey(sym sdl.Keycode) (Key, bool) {
	switch sym {
	case sdl.K_ESCAPE:
		return KeyEscape, true
	case sdl.K_RETURN:
		return KeyEnter, true
	case sdl.K_SPACE:
		return KeySpace, true
	case sdl.K_F1:
		return KeyF1, true
	case sdl.K_F2:
		return KeyF2, true
	case sdl.K_F3:
		return KeyF3, true
	case sdl.K_F4:
		return KeyF4, true
	case sdl.K_F5:
		return KeyF5, true
	default:
		return KeyUnknown, false
	}
}

func sdlKeyToButton(sym sdl.Keycode) (Button, bool) {
	switch sym {
	case sdl.K_x:
		return ButtonA, true
	case sdl.K_z:
		return ButtonB, true
	case sdl.K_RSHIFT:
		return ButtonSelect, true
	case sdl.K_RETURN:
		return ButtonStart, true
	case sdl.K_UP:
		return ButtonUp, true
	case sdl.K_DOWN:
		return ButtonDown, true
	case sdl.K_LEFT:
		return ButtonLeft, true
	case sdl.K_RIGHT:
		return ButtonRight, true
	default:
		return ButtonUnknown, false
	}
}

// RenderFrame packs the RGB frame buffer into RGB24 and blits it through
// the streaming texture.
func (w *sdl2Window) RenderFrame(frameBuffer [256 * 240]uint32) error {
	for i, pixel := range frameBuffer {
		w.pixels[i*3+0] = byte(pixel >> 16)
		w.pixels[i*3+1] = byte(pixel >> 8)
		w.pixels[i*3+2] = byte(pixel)
	}
	if err := w.texture.Update(nil, w.pixels[:], 256*3); err != nil {
		return fmt.Errorf("sdl2: update texture: %w", err)
	}
	w.renderer.Clear()
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("sdl2: copy texture: %w", err)
	}
	return nil
}

func (w *sdl2Window) Cleanup() error {
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
	return nil
}
