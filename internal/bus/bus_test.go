package bus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/bus"
)

// ramDevice is indexed by the address the matching mapping passes in: the
// masked address for RangeAndMask, the full address for Address.
type ramDevice struct{ mem [0x10000]uint8 }

func (r *ramDevice) Read(addr uint16) uint8     { return r.mem[addr] }
func (r *ramDevice) Write(addr uint16, v uint8) { r.mem[addr] = v }

func TestRangeAndMaskMirrorsInternalRAM(t *testing.T) {
	b := bus.New()
	ram := &ramDevice{}
	b.RangeAndMask(0x0000, 0x2000, 0x07FF, ram)

	b.Write(0x0000, 0x42)
	require.Equal(t, uint8(0x42), b.Read(0x0800)) // mirrored
	require.Equal(t, uint8(0x42), b.Read(0x1800))
}

func TestFirstMatchWinsInInsertionOrder(t *testing.T) {
	b := bus.New()
	first := &ramDevice{}
	second := &ramDevice{}
	first.mem[0x4020] = 1
	second.mem[0x4020] = 2
	b.Address(0x4020, first)
	b.Address(0x4020, second)

	require.Equal(t, uint8(1), b.Read(0x4020))
}

func TestOpenBusPersistsAcrossUnmappedReads(t *testing.T) {
	b := bus.New()
	ram := &ramDevice{}
	b.Address(0x2000, ram)

	b.Write(0x2000, 0x99)
	require.Equal(t, uint8(0x99), b.Read(0x2000))
	require.Equal(t, uint8(0x99), b.Read(0x1234)) // unmapped: returns latch
}

func TestWriteToUnmappedAddressStillLatchesOpenBus(t *testing.T) {
	b := bus.New()
	b.Write(0x5000, 0x55) // nothing mapped, but latches
	require.Equal(t, uint8(0x55), b.Read(0x5001))
}

func TestExemptAddressDoesNotUpdateOpenBus(t *testing.T) {
	b := bus.New()
	ram := &ramDevice{}
	ram.mem[0x4015] = 0x7F
	b.Address(0x4015, ram)
	b.ExemptFromLatch(0x4015)

	b.Write(0x2000, 0xAB) // latch = 0xAB
	_ = b.Read(0x4015)    // exempt: must not change the latch
	require.Equal(t, uint8(0xAB), b.Read(0x9999))
}
