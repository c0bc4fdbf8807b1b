package machine

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/ppu"
)

// machineSnapshot is the tuple of every subsystem snapshot plus Machine's
// own tick counters, per the design notes' serde-style save-state pattern.
// MapperState is nil when the cartridge's mapper does not implement
// cartridge.StatefulMapper.
type machineSnapshot struct {
	CPU cpu.Snapshot
	PPU ppu.Snapshot
	APU apu.Snapshot

	MapperState []byte

	WRAM [0x0800]uint8

	MasterCycle   uint64
	FramesElapsed uint64
	InstrElapsed  uint64
	LastDataIn    uint8
	LastMapperIRQ bool
}

// SaveState captures every subsystem's state into an opaque blob. Exact
// mid-instruction CPU state is not preserved: the in-flight micro-op queue
// is a sequence of closures captured at decode time and cannot be
// serialized, so a restored machine always resumes at the next instruction
// boundary. This is accepted per the design notes, which mark save-state
// optional and do not require cross-version format stability.
func (m *Machine) SaveState() ([]byte, error) {
	snap := machineSnapshot{
		CPU:           m.cpu.Snapshot(),
		PPU:           m.ppu.Snapshot(),
		APU:           m.apu.Snapshot(),
		WRAM:          m.wram.ram,
		MasterCycle:   m.masterCycle,
		FramesElapsed: m.framesElapsed,
		InstrElapsed:  m.instrElapsed,
		LastDataIn:    m.lastDataIn,
		LastMapperIRQ: m.lastMapperIRQ,
	}
	if sm, ok := m.cart.Mapper.(cartridge.StatefulMapper); ok {
		snap.MapperState = sm.Snapshot()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("machine: encode save state: %w", err)
	}
	return buf.Bytes(), nil
}

// RestoreState replaces the machine's state with one previously produced by
// SaveState for the same cartridge and mapper. Restoring a blob saved
// against a different ROM is not validated and will leave the machine in
// an undefined state.
func (m *Machine) RestoreState(data []byte) error {
	var snap machineSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("machine: decode save state: %w", err)
	}

	m.cpu.Restore(snap.CPU)
	m.ppu.Restore(snap.PPU)
	m.apu.Restore(snap.APU)
	m.wram.ram = snap.WRAM
	m.masterCycle = snap.MasterCycle
	m.framesElapsed = snap.FramesElapsed
	m.instrElapsed = snap.InstrElapsed
	m.lastDataIn = snap.LastDataIn
	m.lastMapperIRQ = snap.LastMapperIRQ

	if sm, ok := m.cart.Mapper.(cartridge.StatefulMapper); ok && snap.MapperState != nil {
		sm.Restore(snap.MapperState)
	}
	return nil
}
