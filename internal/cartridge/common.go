package cartridge

import (
	"bytes"
	"encoding/gob"

	"gones/internal/ppu"
)

// StatefulMapper is implemented by mappers with extra mutable state beyond
// PRG-RAM (bank registers, shift registers, IRQ counters). Machine's
// save-state support uses it when present; mappers with no such state (pure
// fixed-bank NROM) don't need to implement it.
type StatefulMapper interface {
	Snapshot() []byte
	Restore(data []byte)
}

func gobEncode(v any) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		panic(err) // encoding a plain value struct cannot fail
	}
	return buf.Bytes()
}

func gobDecode(data []byte, v any) {
	if len(data) == 0 {
		return
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		panic(err)
	}
}

// wram is the 8 KiB PRG-RAM window at 0x6000-0x7FFF shared by every mapper
// that has one; battery state is just "does the cartridge carry one".
type wram struct {
	battery bool
	ram     [0x2000]uint8
}

func (w *wram) read(addr uint16) uint8      { return w.ram[addr&0x1FFF] }
func (w *wram) write(addr uint16, v uint8)  { w.ram[addr&0x1FFF] = v }
func (w *wram) save() []byte {
	if !w.battery {
		return nil
	}
	out := make([]byte, len(w.ram))
	copy(out, w.ram[:])
	return out
}
func (w *wram) load(data []byte) { copy(w.ram[:], data) }

// snapshot/restoreSnapshot capture the live RAM contents for Machine's
// save-state support, independent of whether the cartridge has a battery.
func (w *wram) snapshot() []byte          { return gobEncode(w.ram) }
func (w *wram) restoreSnapshot(data []byte) { gobDecode(data, &w.ram) }

// mirrorFetch answers PPUFetch for the common fixed mirroring modes; mappers
// with dynamic mirroring (MMC1, AxROM) override PPUFetch directly instead of
// calling this.
func mirrorFetch(m Mirror, addr uint16) ppu.NametablePage {
	table := (addr - 0x2000) / 0x400 // 0..3
	switch m {
	case MirrorHorizontal:
		if table == 0 || table == 1 {
			return ppu.PageInternalA
		}
		return ppu.PageInternalB
	case MirrorVertical:
		if table == 0 || table == 2 {
			return ppu.PageInternalA
		}
		return ppu.PageInternalB
	case MirrorSingleScreenA:
		return ppu.PageInternalA
	case MirrorSingleScreenB:
		return ppu.PageInternalB
	default: // four-screen: no mirroring, but this core has no extra VRAM
		// chip, so fall back to horizontal rather than fail.
		if table == 0 || table == 1 {
			return ppu.PageInternalA
		}
		return ppu.PageInternalB
	}
}

// noIRQ/noSample/noTick are embedded by mappers with no expansion hardware
// so they don't each have to redeclare the same no-op methods.
type noIRQ struct{}

func (noIRQ) IRQ() bool { return false }

type noSample struct{}

func (noSample) Sample() (int16, bool) { return 0, false }

type noTick struct{}

func (noTick) Tick() {}
