package apu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/region"
)

type stubDMA struct{}

func (stubDMA) ReadDMCSample(addr uint16) uint8 { return 0 }

func newTestAPU(t *testing.T) *APU {
	t.Helper()
	return New(region.New(region.NTSC), stubDMA{})
}

// Loading a length-counter index through $4003 should look the value up in
// the standard 32-entry table, not store the raw index.
func TestLengthCounterTableValues(t *testing.T) {
	cases := []struct {
		index uint8
		want  uint8
	}{
		{0x00, 10},
		{0x01, 254},
		{0x0F, 14},
		{0x1F, 2},
	}
	for _, c := range cases {
		a := newTestAPU(t)
		a.WriteRegister(0x4015, 0x01) // enable pulse1 so the write isn't ignored
		a.WriteRegister(0x4003, c.index<<3)
		require.Equal(t, c.want, a.pulse1.lengthCounter, "index %#02x", c.index)
	}
}

// Disabling a channel through $4015 must clear its length counter
// immediately, not merely gate future decrements.
func TestChannelDisableClearsLengthCounter(t *testing.T) {
	a := newTestAPU(t)
	a.WriteRegister(0x4015, 0x0F)
	a.WriteRegister(0x4003, 5<<3) // pulse1 length index 5 -> 4
	require.NotZero(t, a.pulse1.lengthCounter)

	a.WriteRegister(0x4015, 0x0E) // clear pulse1's enable bit
	require.Zero(t, a.pulse1.lengthCounter)
}

// A sweep unit whose target period overflows past $7FF silences the pulse
// channel outright, even though the timer period itself is left unchanged
// until the divider actually clocks a write.
func TestSweepOverflowSilencesChannel(t *testing.T) {
	a := newTestAPU(t)
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4000, 0x3F) // duty 0, constant volume 15
	a.WriteRegister(0x4002, 0xFF) // timer low
	a.WriteRegister(0x4003, 0x07) // timer high bits + length load

	p := &a.pulse1
	p.timerPeriod = 0x700
	p.sweepEnable = true
	p.sweepShift = 1
	p.sweepNegate = false // addition pushes 0x700+0x380 past 0x7FF
	p.sequencePos = 1     // land on a duty-table "on" step so muting is the only silencer

	require.Zero(t, p.output(), "target period beyond 0x7FF must silence the channel")
}

// A timer period below 8 silences a pulse channel regardless of the sweep
// unit's enable bit, since the sweep target check alone would not catch it.
func TestSweepMutesLowTimerPeriod(t *testing.T) {
	a := newTestAPU(t)
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4000, 0x3F)

	p := &a.pulse1
	p.timerPeriod = 4
	p.lengthCounter = 1
	p.sequencePos = 1

	require.Zero(t, p.output())
}

// In 4-step mode, the frame sequencer must assert the frame IRQ line at the
// sequence's last two steps unless inhibited, and a read of $4015 clears it.
func TestFrameSequencerAssertsIRQInFourStepMode(t *testing.T) {
	a := newTestAPU(t) // fresh APU already boots in 4-step mode, IRQ enabled

	lastBoundary := a.region.FourStepSequence[len(a.region.FourStepSequence)-1]
	for i := 0; i < lastBoundary; i++ {
		a.Tick()
	}
	require.True(t, a.IRQ(), "frame IRQ should be asserted at the end of the 4-step sequence")

	a.ReadRegister(0x4015)
	require.False(t, a.frameIRQFlag, "reading $4015 clears the frame IRQ flag")
}

// Setting the frame-IRQ-inhibit bit must both prevent future assertions and
// clear any flag already raised.
func TestFrameSequencerIRQInhibit(t *testing.T) {
	a := newTestAPU(t) // fresh APU already boots in 4-step mode, IRQ enabled

	lastBoundary := a.region.FourStepSequence[len(a.region.FourStepSequence)-1]
	for i := 0; i < lastBoundary; i++ {
		a.Tick()
	}
	require.True(t, a.IRQ())

	a.WriteRegister(0x4017, 0x40) // inhibit bit set, still 4-step mode
	require.False(t, a.IRQ(), "setting the inhibit bit clears an already-raised frame IRQ")

	for i := 0; i < lastBoundary*2; i++ {
		a.Tick()
	}
	require.False(t, a.IRQ(), "inhibited mode must never reassert the frame IRQ")
}

// 5-step mode never asserts the frame IRQ and clocks quarter/half-frame
// units immediately on the mode-switching write.
func TestFrameSequencerFiveStepModeClocksImmediately(t *testing.T) {
	a := newTestAPU(t)
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4000, 0x0F) // length-halt clear, so length decrements
	a.WriteRegister(0x4003, 0x08) // length load index 1 -> 254

	before := a.pulse1.lengthCounter
	a.WriteRegister(0x4017, 0x80) // switch to 5-step mode
	require.Less(t, a.pulse1.lengthCounter, before, "5-step mode write clocks a half frame immediately")

	lastBoundary := a.region.FiveStepSequence[len(a.region.FiveStepSequence)-1]
	for i := 0; i < lastBoundary*2; i++ {
		a.Tick()
	}
	require.False(t, a.IRQ(), "5-step mode never raises the frame IRQ")
}

// TakeSamples drains the buffer and leaves it empty for the next frame.
func TestTakeSamplesDrainsBuffer(t *testing.T) {
	a := newTestAPU(t)
	for i := 0; i < 100; i++ {
		a.Tick()
	}
	require.NotEmpty(t, a.Samples)

	drained := a.TakeSamples()
	require.NotEmpty(t, drained)
	require.Empty(t, a.Samples)
	require.Empty(t, a.TakeSamples())
}

// $4015 status bits reflect each channel's length counter and the DMC's
// remaining-bytes state, not the channel's enable bit directly.
func TestStatusRegisterReportsLengthCounters(t *testing.T) {
	a := newTestAPU(t)
	a.WriteRegister(0x4015, 0x0F)
	a.WriteRegister(0x4003, 1<<3) // pulse1 length index 1 -> 254

	status := a.ReadRegister(0x4015)
	require.NotZero(t, status&0x01, "pulse1 length counter should report set")
	require.Zero(t, status&0x02, "pulse2 has no length counter loaded yet")
}
