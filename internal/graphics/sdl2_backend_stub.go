//go:build headless
// +build headless

package graphics

import "fmt"

// SDL2Backend stub for headless builds, so CGo and the native SDL2
// library are never required to build a headless binary.
type SDL2Backend struct{}

type sdl2Window struct{}

func NewSDL2Backend() *SDL2Backend { return &SDL2Backend{} }

func (b *SDL2Backend) Initialize(config Config) error {
	return fmt.Errorf("SDL2 backend not available in headless build")
}

func (b *SDL2Backend) CreateWindow(title string, width, height int) (Window, error) {
	return nil, fmt.Errorf("SDL2 backend not available in headless build")
}

func (b *SDL2Backend) Cleanup() error { return nil }
func (b *SDL2Backend) IsHeadless() bool { return true }
func (b *SDL2Backend) GetName() string  { return "SDL2-Stub" }

func (w *sdl2Window) SetTitle(title string)              {}
func (w *sdl2Window) GetSize() (width, height int)       { return 0, 0 }
func (w *sdl2Window) ShouldClose() bool                  { return true }
func (w *sdl2Window) SwapBuffers()                       {}
func (w *sdl2Window) PollEvents() []InputEvent           { return nil }
func (w *sdl2Window) RenderFrame(frameBuffer [256 * 240]uint32) error {
	return fmt.Errorf("SDL2 backend not available in headless build")
}
func (w *sdl2Window) Cleanup() error { return nil }
