// Package app provides emulator integration for the main application.
package app

import (
	"time"

	"gones/internal/machine"
)

// Emulator drives a machine.Machine one frame at a time and tracks the
// timing stats a front-end displays. Machine.RunUntil already does fixed
// per-frame stepping, so there is no cycle-accumulator or frame-buffer
// pool to manage here the way a fixed-cycles-per-Update loop would need.
type Emulator struct {
	machine *machine.Machine

	frameCount      uint64
	lastFrameTime   time.Duration
	avgFrameTime    time.Duration
	lastUpdateStart time.Time
}

// NewEmulator wraps m for frame-at-a-time stepping.
func NewEmulator(m *machine.Machine) *Emulator {
	return &Emulator{machine: m}
}

// Update advances the machine by exactly one frame.
func (e *Emulator) Update() error {
	start := time.Now()
	e.machine.RunUntil(machine.Budget{Frames: 1}, nil)
	e.lastFrameTime = time.Since(start)
	if e.avgFrameTime == 0 {
		e.avgFrameTime = e.lastFrameTime
	} else {
		e.avgFrameTime = (e.avgFrameTime*15 + e.lastFrameTime) / 16
	}
	e.frameCount++
	e.lastUpdateStart = start
	return nil
}

// StepInstruction advances the machine by exactly one retired instruction.
func (e *Emulator) StepInstruction() error {
	e.machine.RunUntil(machine.Budget{Instructions: 1}, nil)
	return nil
}

// Screen returns the just-rendered 9-bit-per-pixel frame buffer.
func (e *Emulator) Screen() *[256 * 240]uint16 { return e.machine.GetScreen() }

// Samples drains the APU's pending audio samples.
func (e *Emulator) Samples() []int16 { return e.machine.TakeSamples() }

// FrameCount returns the number of frames this Emulator has stepped.
func (e *Emulator) FrameCount() uint64 { return e.frameCount }

// EmulatorPerformanceStats summarizes recent frame timing.
type EmulatorPerformanceStats struct {
	FrameCount   uint64
	LastFrame    time.Duration
	AverageFrame time.Duration
	FPS          float64
}

// GetPerformanceStats reports the emulator's recent frame timing.
func (e *Emulator) GetPerformanceStats() EmulatorPerformanceStats {
	fps := 0.0
	if e.avgFrameTime > 0 {
		fps = float64(time.Second) / float64(e.avgFrameTime)
	}
	return EmulatorPerformanceStats{
		FrameCount:   e.frameCount,
		LastFrame:    e.lastFrameTime,
		AverageFrame: e.avgFrameTime,
		FPS:          fps,
	}
}
