package apu

// Snapshot captures all five channels and the frame sequencer for Machine's
// save-state support. The sample ring buffer is not included: it is
// transient output already drained by TakeSamples, not architectural state.
type Snapshot struct {
	Pulse1, Pulse2 pulse
	Triangle       triangle
	Noise          noise
	DMC            dmc

	FrameMode       bool
	FrameIRQInhibit bool
	FrameIRQFlag    bool
	FrameCounter    int
	FrameResetDelay int
	Cycle           uint64
}

func (a *APU) Snapshot() Snapshot {
	return Snapshot{
		Pulse1: a.pulse1, Pulse2: a.pulse2, Triangle: a.triangle, Noise: a.noise, DMC: a.dmc,
		FrameMode: a.frameMode, FrameIRQInhibit: a.frameIRQInhibit, FrameIRQFlag: a.frameIRQFlag,
		FrameCounter: a.frameCounter, FrameResetDelay: a.frameResetDelay, Cycle: a.cycle,
	}
}

func (a *APU) Restore(s Snapshot) {
	a.pulse1, a.pulse2, a.triangle, a.noise, a.dmc = s.Pulse1, s.Pulse2, s.Triangle, s.Noise, s.DMC
	a.frameMode, a.frameIRQInhibit, a.frameIRQFlag = s.FrameMode, s.FrameIRQInhibit, s.FrameIRQFlag
	a.frameCounter, a.frameResetDelay, a.cycle = s.FrameCounter, s.FrameResetDelay, s.Cycle
	a.Samples = nil
}
