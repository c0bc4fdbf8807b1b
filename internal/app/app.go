// Package app implements the main NES emulator application with GUI support.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"

	"gones/internal/cartridge"
	"gones/internal/graphics"
	"gones/internal/machine"
	"gones/internal/region"
)

// Application wires a machine.Machine to a graphics backend, input
// polling and save-state persistence.
type Application struct {
	machine  *machine.Machine
	emulator *Emulator
	cart     *cartridge.Cartridge

	graphicsBackend graphics.Backend
	window          graphics.Window
	videoProcessor  *graphics.VideoProcessor

	config *Config
	states *StateManager

	running     bool
	paused      bool
	initialized bool
	headless    bool

	frameCount uint64
	startTime  time.Time
	lastFPSLog time.Time
	fpsFrames  uint64
	currentFPS float64

	romPath string

	controller1, controller2 uint8
	lastESCTime              time.Time
}

// ApplicationError wraps a component-scoped failure.
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// NewApplication creates a new NES emulator application
func NewApplication(configPath string) (*Application, error) {
	return NewApplicationWithMode(configPath, false)
}

// NewApplicationWithMode creates a new NES emulator application with optional headless mode
func NewApplicationWithMode(configPath string, headless bool) (*Application, error) {
	app := &Application{
		config:    NewConfig(),
		headless:  headless,
		startTime: time.Now(),
	}

	if configPath != "" {
		if err := app.config.LoadFromFile(configPath); err != nil {
			glog.Warningf("app: could not load config %s, using defaults: %v", configPath, err)
		}
	}

	if err := app.initializeComponents(headless); err != nil {
		return nil, &ApplicationError{Component: "application", Operation: "initialize", Err: err}
	}

	app.initialized = true
	return app, nil
}

func (app *Application) initializeComponents(headless bool) error {
	app.states = NewStateManager(app.config.Paths.SaveStates)

	if err := app.initializeGraphicsBackend(headless); err != nil {
		return fmt.Errorf("graphics backend: %w", err)
	}
	return nil
}

func (app *Application) initializeGraphicsBackend(headless bool) error {
	var backendType graphics.BackendType
	if headless {
		backendType = graphics.BackendHeadless
	} else {
		switch app.config.Video.Backend {
		case "headless":
			backendType = graphics.BackendHeadless
		case "terminal":
			backendType = graphics.BackendTerminal
		case "sdl2":
			backendType = graphics.BackendSDL2
		default:
			backendType = graphics.BackendEbitengine
		}
	}

	var err error
	app.graphicsBackend, err = graphics.CreateBackend(backendType)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	graphicsConfig := graphics.Config{
		WindowTitle:  "gones - Go NES Emulator",
		WindowWidth:  app.config.Window.Width,
		WindowHeight: app.config.Window.Height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		AspectRatio:  app.config.Video.AspectRatio,
		Headless:     headless,
		Debug:        app.config.Debug.EnableLogging,
	}

	if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
		if backendType != graphics.BackendHeadless {
			glog.Warningf("app: %s backend failed (%v), falling back to headless", backendType, err)
			app.graphicsBackend, err = graphics.CreateBackend(graphics.BackendHeadless)
			if err != nil {
				return fmt.Errorf("create fallback headless backend: %w", err)
			}
			graphicsConfig.Headless = true
			if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
				return fmt.Errorf("initialize fallback headless backend: %w", err)
			}
		} else {
			return fmt.Errorf("initialize backend: %w", err)
		}
	}

	if !headless && !app.graphicsBackend.IsHeadless() {
		app.window, err = app.graphicsBackend.CreateWindow(
			graphicsConfig.WindowTitle, graphicsConfig.WindowWidth, graphicsConfig.WindowHeight)
		if err != nil {
			return fmt.Errorf("create window: %w", err)
		}
	}

	app.videoProcessor = graphics.NewVideoProcessor(
		app.config.Video.Brightness, app.config.Video.Contrast, app.config.Video.Saturation)
	return nil
}

func regionFromString(name string) region.Standard {
	if name == "PAL" {
		return region.PAL
	}
	return region.NTSC
}

// LoadROM loads a ROM file and brings up a fresh machine for it.
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "read ROM", Err: err}
	}
	cart, err := cartridge.Load(data)
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}

	app.cart = cart
	app.romPath = romPath
	app.machine = machine.New(region.New(regionFromString(app.config.Emulation.Region)), cart)
	app.machine.Power()
	app.emulator = NewEmulator(app.machine)
	app.controller1, app.controller2 = 0, 0

	if app.window != nil {
		app.window.SetTitle(fmt.Sprintf("gones - %s", filepath.Base(romPath)))
	}

	glog.Infof("app: loaded ROM %s", romPath)
	return nil
}

// Run starts the main application loop.
func (app *Application) Run() error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	app.running = true
	app.startTime = time.Now()
	app.lastFPSLog = time.Now()

	if app.window != nil {
		if ebitengineWindow, ok := graphics.AsEbitengineWindow(app.window); ok {
			ebitengineWindow.SetEmulatorUpdateFunc(func() error {
				app.processInput()
				if err := app.updateEmulator(); err != nil {
					return err
				}
				if err := app.render(); err != nil {
					return err
				}
				app.trackFPS()
				if app.window.ShouldClose() {
					app.Stop()
				}
				return nil
			})
			return ebitengineWindow.Run()
		}
	}

	for app.running {
		app.processInput()
		if err := app.updateEmulator(); err != nil {
			glog.Warningf("app: emulator update error: %v", err)
		}
		if err := app.render(); err != nil {
			glog.Warningf("app: render error: %v", err)
		}
		app.trackFPS()

		if app.window != nil && app.window.ShouldClose() {
			app.Stop()
		}
		time.Sleep(16 * time.Millisecond)
	}
	return nil
}

// updateEmulator advances the machine by exactly one frame.
func (app *Application) updateEmulator() error {
	if app.paused || app.emulator == nil {
		return nil
	}
	if err := app.emulator.Update(); err != nil {
		return err
	}
	app.emulator.Samples() // drained and discarded; no audio device is wired up
	app.frameCount++
	return nil
}

func (app *Application) trackFPS() {
	app.fpsFrames++
	if elapsed := time.Since(app.lastFPSLog); elapsed >= time.Second {
		app.currentFPS = float64(app.fpsFrames) / elapsed.Seconds()
		app.fpsFrames = 0
		app.lastFPSLog = time.Now()
	}
}

// processInput polls the window and routes button state into the machine.
func (app *Application) processInput() {
	if app.window == nil {
		return
	}

	events := app.window.PollEvents()
	if len(events) == 0 {
		return
	}

	c1, c2 := app.controller1, app.controller2
	for _, event := range events {
		switch event.Type {
		case graphics.InputEventTypeQuit:
			app.Stop()
			return
		case graphics.InputEventTypeKey:
			app.handleSpecialInput(event)
		case graphics.InputEventTypeButton:
			if bit, is2P, ok := buttonBit(event.Button); ok {
				if is2P {
					setBit(&c2, bit, event.Pressed)
				} else {
					setBit(&c1, bit, event.Pressed)
				}
			}
		}
	}

	if c1 != app.controller1 || c2 != app.controller2 {
		app.controller1, app.controller2 = c1, c2
		if app.machine != nil {
			app.machine.HandleInput(machine.UserInput{
				HasPlayerOne: true, PlayerOneButtons: c1,
				HasPlayerTwo: true, PlayerTwoButtons: c2,
			})
		}
	}
}

func setBit(mask *uint8, bit uint8, set bool) {
	if set {
		*mask |= bit
	} else {
		*mask &^= bit
	}
}

// buttonBit maps a graphics.Button to its NES controller report bit and
// whether it belongs to the second pad.
func buttonBit(b graphics.Button) (bit uint8, is2P bool, ok bool) {
	switch b {
	case graphics.ButtonA:
		return 0x01, false, true
	case graphics.ButtonB:
		return 0x02, false, true
	case graphics.ButtonSelect:
		return 0x04, false, true
	case graphics.ButtonStart:
		return 0x08, false, true
	case graphics.ButtonUp:
		return 0x10, false, true
	case graphics.ButtonDown:
		return 0x20, false, true
	case graphics.ButtonLeft:
		return 0x40, false, true
	case graphics.ButtonRight:
		return 0x80, false, true
	case graphics.Button2A:
		return 0x01, true, true
	case graphics.Button2B:
		return 0x02, true, true
	case graphics.Button2Select:
		return 0x04, true, true
	case graphics.Button2Start:
		return 0x08, true, true
	case graphics.Button2Up:
		return 0x10, true, true
	case graphics.Button2Down:
		return 0x20, true, true
	case graphics.Button2Left:
		return 0x40, true, true
	case graphics.Button2Right:
		return 0x80, true, true
	default:
		return 0, false, false
	}
}

// handleSpecialInput handles non-gameplay key combinations: quit confirm
// and save-state slots. Reports whether it consumed the event.
func (app *Application) handleSpecialInput(event graphics.InputEvent) bool {
	if !event.Pressed {
		return false
	}

	if event.Key == graphics.KeyEscape {
		now := time.Now()
		if !app.lastESCTime.IsZero() && now.Sub(app.lastESCTime) < 3*time.Second {
			app.Stop()
			return true
		}
		app.lastESCTime = now
		return true
	}
	app.lastESCTime = time.Time{}

	switch event.Key {
	case graphics.KeyF1, graphics.KeyF2, graphics.KeyF3, graphics.KeyF4, graphics.KeyF5,
		graphics.KeyF6, graphics.KeyF7, graphics.KeyF8, graphics.KeyF9, graphics.KeyF10:
		slot := int(event.Key - graphics.KeyF1)
		var err error
		if event.Modifiers&graphics.ModifierShift != 0 {
			err = app.LoadState(slot)
		} else {
			err = app.SaveState(slot)
		}
		if err != nil {
			glog.Warningf("app: state slot %d failed: %v", slot, err)
		}
		return true
	}
	return false
}

// render resolves the machine's 9-bit frame buffer through the active
// region's palette and hands the RGB buffer to the window.
func (app *Application) render() error {
	if app.window == nil || app.emulator == nil {
		return nil
	}

	indices := app.emulator.Screen()
	palette := &app.machine.Region().Palette

	var frame [256 * 240]uint32
	for i, raw := range indices {
		idx := raw & 0x1FF
		off := int(idx%64) * 3
		r, g, b := palette[off], palette[off+1], palette[off+2]
		frame[i] = uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}

	rendered := app.videoProcessor.ProcessFrame(frame[:])
	copy(frame[:], rendered)

	if err := app.window.RenderFrame(frame); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	app.window.SwapBuffers()
	return nil
}

func (app *Application) Stop()          { app.running = false }
func (app *Application) Pause()         { app.paused = true }
func (app *Application) Resume()        { app.paused = false }
func (app *Application) TogglePause()   { app.paused = !app.paused }
func (app *Application) IsRunning() bool { return app.running }
func (app *Application) IsPaused() bool  { return app.paused }

// SaveState saves the current machine state.
func (app *Application) SaveState(slot int) error {
	if app.machine == nil {
		return errors.New("no ROM loaded")
	}
	return app.states.SaveState(app.machine, slot, app.romPath)
}

// LoadState loads a saved machine state.
func (app *Application) LoadState(slot int) error {
	if app.machine == nil {
		return errors.New("no ROM loaded")
	}
	return app.states.LoadState(app.machine, slot, app.romPath)
}

// Reset performs a soft reset of the running machine.
func (app *Application) Reset() {
	if app.machine != nil {
		app.machine.Reset()
	}
}

func (app *Application) GetFPS() float64 {
	if app.emulator != nil {
		if stats := app.emulator.GetPerformanceStats(); stats.FPS > 0 {
			return stats.FPS
		}
	}
	return app.currentFPS
}
func (app *Application) GetFrameCount() uint64  { return app.frameCount }
func (app *Application) GetUptime() time.Duration { return time.Since(app.startTime) }
func (app *Application) GetROMPath() string     { return app.romPath }
func (app *Application) GetConfig() *Config     { return app.config }
func (app *Application) GetMachine() *machine.Machine { return app.machine }

// ApplyDebugSettings arms the machine's debug facility from config and
// environment overrides. It is a no-op until a ROM (and therefore a
// machine) has been loaded.
func (app *Application) ApplyDebugSettings() {
	if app.machine == nil || app.config == nil {
		return
	}
	if !app.config.Debug.EnableLogging {
		return
	}

	app.machine.Debug.AddWatch("cpu.pc", func() any { return app.machine.CPUSnapshot().PC })
	glog.Infof("app: debug facility armed (cpu_tracing=%v ppu_debugging=%v)",
		app.config.Debug.CPUTracing, app.config.Debug.PPUDebugging)
}

// Cleanup releases all resources and shuts down the application
func (app *Application) Cleanup() error {
	if app.window != nil {
		if err := app.window.Cleanup(); err != nil {
			glog.Warningf("app: window cleanup: %v", err)
		}
	}
	if app.graphicsBackend != nil {
		if err := app.graphicsBackend.Cleanup(); err != nil {
			glog.Warningf("app: backend cleanup: %v", err)
		}
	}
	if app.states != nil {
		return app.states.Cleanup()
	}
	return nil
}
