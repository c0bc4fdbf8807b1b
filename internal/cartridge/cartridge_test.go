package cartridge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/cartridge"
)

// buildINES assembles a minimal iNES 1.0 image with the given mapper, 16 KiB
// PRG bank count, 8 KiB CHR bank count and flags 6 byte. Every byte of PRG
// holds the index of its 8 KiB bank and every byte of CHR the index of its
// 1 KiB bank, so a read shows which bank a window maps.
func buildINES(mapperID uint8, prgBanks, chrBanks uint8, flags6 uint8) []byte {
	header := make([]byte, 16)
	copy(header[:4], "NES\x1A")
	header[4] = prgBanks
	header[5] = chrBanks
	header[6] = flags6 | (mapperID&0x0F)<<4
	header[7] = (mapperID & 0xF0)

	prg := make([]byte, int(prgBanks)*16384)
	for i := range prg {
		prg[i] = byte(i / 0x2000)
	}
	chr := make([]byte, int(chrBanks)*8192)
	for i := range chr {
		chr[i] = byte(i / 0x400)
	}

	out := append(header, prg...)
	out = append(out, chr...)
	return out
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := cartridge.Load([]byte("garbage data"))
	require.Error(t, err)
	var cerr *cartridge.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, cartridge.InvalidFileType, cerr.Kind)
}

func TestLoadReportsNotSupportedForFDS(t *testing.T) {
	_, err := cartridge.Load(append([]byte("FDS\x1A"), make([]byte, 100)...))
	var cerr *cartridge.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, cartridge.NotSupported, cerr.Kind)
}

func TestLoadNROM16KiBMirrorsToUpperBank(t *testing.T) {
	data := buildINES(0, 1, 1, 0x00)
	cart, err := cartridge.Load(data)
	require.NoError(t, err)
	require.Equal(t, cartridge.MirrorHorizontal, cart.Mirror)

	require.Equal(t, cart.Mapper.CPURead(0x8000), cart.Mapper.CPURead(0xC000))
}

func TestLoadNROM32KiBDoesNotMirror(t *testing.T) {
	data := buildINES(0, 2, 1, 0x01) // vertical mirroring bit
	cart, err := cartridge.Load(data)
	require.NoError(t, err)
	require.Equal(t, cartridge.MirrorVertical, cart.Mirror)
	require.NotEqual(t, cart.Mapper.CPURead(0x8000), cart.Mapper.CPURead(0xC000))
}

func TestLoadRejectsUnimplementedMapper(t *testing.T) {
	data := buildINES(255, 1, 1, 0x00)
	_, err := cartridge.Load(data)
	var cerr *cartridge.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, cartridge.NotSupported, cerr.Kind)
}

func TestUxROMSwitchesLowBankKeepsLastFixed(t *testing.T) {
	data := buildINES(2, 4, 0, 0x00) // 4x16KiB PRG, CHR-RAM
	cart, err := cartridge.Load(data)
	require.NoError(t, err)

	lastBankByte0 := cart.Mapper.CPURead(0xC000)
	cart.Mapper.CPUWrite(0x8000, 2)
	require.Equal(t, cart.PRGROM[2*16384], cart.Mapper.CPURead(0x8000))
	require.Equal(t, lastBankByte0, cart.Mapper.CPURead(0xC000)) // unaffected
}

func TestMMC1IgnoresConsecutiveCycleWrite(t *testing.T) {
	data := buildINES(1, 16, 0, 0x00)
	cart, err := cartridge.Load(data)
	require.NoError(t, err)

	// Five single-bit writes to the PRG bank register (0xE000-0xFFFF), one
	// Tick apart: the 2nd and 4th land on the cycle right after an accepted
	// write and are ignored, so only three bits are shifted in, nothing
	// commits, and the PRG bank keeps its power-on value 0 (had all five
	// been taken, bank 1 would be selected).
	writeMMC1 := func(bit uint8) {
		cart.Mapper.CPUWrite(0xE000, bit)
		cart.Mapper.Tick()
	}
	writeMMC1(1)
	writeMMC1(0)
	writeMMC1(0)
	writeMMC1(0)
	writeMMC1(0)

	// Fixed-last-bank PRG mode (power-on default) means 0xC000 always reads
	// the top bank regardless of the register; 0x8000 reflects prgBank.
	require.NotPanics(t, func() { cart.Mapper.CPURead(0x8000) })
	require.Equal(t, cart.PRGROM[0], cart.Mapper.CPURead(0x8000))
}

func TestMMC2CHRLatchTogglesOnTileFetch(t *testing.T) {
	data := buildINES(9, 2, 4, 0x00)
	cart, err := cartridge.Load(data)
	require.NoError(t, err)

	cart.Mapper.CPUWrite(0xB000, 1) // low-half bank for latch==0xFD
	cart.Mapper.CPUWrite(0xC000, 2) // low-half bank for latch==0xFE

	before := cart.Mapper.PPURead(0x0000)
	cart.Mapper.PPURead(0x0FD8) // latches low half to 0xFD
	afterFD := cart.Mapper.PPURead(0x0000)
	require.Equal(t, before, afterFD)

	cart.Mapper.PPURead(0x0FE8) // latches low half to 0xFE, switching the bank
	afterFE := cart.Mapper.PPURead(0x0000)
	require.NotEqual(t, afterFD, afterFE)
}

func TestFME7PRGBankRegisters(t *testing.T) {
	data := buildINES(69, 5, 1, 0x00)
	cart, err := cartridge.Load(data)
	require.NoError(t, err)

	cart.Mapper.CPUWrite(0x8000, 0x09) // select PRG bank-1 sub-register
	cart.Mapper.CPUWrite(0xA000, 3)
	require.Equal(t, cart.PRGROM[3*0x2000], cart.Mapper.CPURead(0xA000))
}

func TestFME7IRQFiresOnCounterWrap(t *testing.T) {
	data := buildINES(69, 5, 1, 0x00)
	cart, err := cartridge.Load(data)
	require.NoError(t, err)

	cart.Mapper.CPUWrite(0x8000, 0x0E) // IRQ counter low byte
	cart.Mapper.CPUWrite(0xA000, 0x00)
	cart.Mapper.CPUWrite(0x8000, 0x0F) // IRQ counter high byte
	cart.Mapper.CPUWrite(0xA000, 0x00)
	cart.Mapper.CPUWrite(0x8000, 0x0D) // enable counter + IRQ
	cart.Mapper.CPUWrite(0xA000, 0x81)

	require.False(t, cart.Mapper.IRQ())
	cart.Mapper.Tick() // counter wraps 0x0000 -> 0xFFFF, raising the IRQ
	require.True(t, cart.Mapper.IRQ())
}

func TestNamco163PRGBanksAndFixedLastBank(t *testing.T) {
	data := buildINES(19, 2, 1, 0x00) // 2x16KiB PRG -> four 8KiB banks, last=3
	cart, err := cartridge.Load(data)
	require.NoError(t, err)

	cart.Mapper.CPUWrite(0xE000, 2)
	require.Equal(t, cart.PRGROM[2*0x2000], cart.Mapper.CPURead(0x8000))
	require.Equal(t, cart.PRGROM[3*0x2000], cart.Mapper.CPURead(0xE000))
}

func TestVRC6SwapABDiffersFromVariantA(t *testing.T) {
	dataA := buildINES(24, 4, 2, 0x00)
	cartA, err := cartridge.Load(dataA)
	require.NoError(t, err)
	dataB := buildINES(26, 4, 2, 0x00)
	cartB, err := cartridge.Load(dataB)
	require.NoError(t, err)

	// Variant B's address-bit swap means a write through a variant-A
	// register offset with differing low bits (0xD001, CHR register 1)
	// lands on a different sub-register (CHR register 2) on variant B.
	cartA.Mapper.CPUWrite(0x9000, 0x3F)
	cartB.Mapper.CPUWrite(0x9000, 0x3F)
	require.NotPanics(t, func() {
		cartA.Mapper.Tick()
		cartB.Mapper.Tick()
	})
	cartA.Mapper.CPUWrite(0xD001, 3)
	cartB.Mapper.CPUWrite(0xD001, 3)
	require.NotEqual(t, cartA.Mapper.PPURead(0x0400), cartB.Mapper.PPURead(0x0400))
}

func TestAction53SyncsPRGWindowFromOuterBank(t *testing.T) {
	data := buildINES(218, 8, 0, 0x00) // CHR-RAM
	cart, err := cartridge.Load(data)
	require.NoError(t, err)

	cart.Mapper.CPUWrite(0x5000, 0x81) // select the outer-bank register (reg 3)
	cart.Mapper.CPUWrite(0x8000, 0x01) // outer=1 -> low window resolves to bank 2
	require.Equal(t, cart.PRGROM[2*0x4000], cart.Mapper.CPURead(0x8000))
}
