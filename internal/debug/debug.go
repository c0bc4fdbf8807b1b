// Package debug implements the optional debug facility described in the
// design notes: an instruction-history ring, an event ring, a breakpoint
// list and named watch items, all held as a single object owned by Machine
// rather than as process-global state. Every method is safe to call on a
// nil *Debug so a caller can wire it in unconditionally and the capability
// stays compile-in-but-optional.
package debug

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

const (
	instrCapacity = 256
	eventCapacity = 128
)

// InstructionEntry is one retired instruction, as reported by cpu.CPU's
// OnInstruction hook.
type InstructionEntry struct {
	PC       uint16
	Opcode   uint8
	Mnemonic string
}

// Event is a free-form timestamped note, used for interrupt edges, resets
// and frame boundaries.
type Event struct {
	Cycle   uint64
	Message string
}

// Debug holds everything a debugger front-end (cmd/gonesdbg, or a test
// failure message) needs to inspect without re-deriving it from Machine's
// private state.
type Debug struct {
	instrs     [instrCapacity]InstructionEntry
	instrHead  int
	instrCount int

	events     [eventCapacity]Event
	eventHead  int
	eventCount int

	cycle uint64

	breakpoints map[uint16]bool
	watches     map[string]func() any

	lastFrame    [256 * 240]uint16
	frameCount   uint64
}

// New returns an empty Debug ready to attach to a Machine.
func New() *Debug {
	return &Debug{
		breakpoints: make(map[uint16]bool),
		watches:     make(map[string]func() any),
	}
}

// SetCycle records the master cycle counter so subsequent RecordEvent calls
// timestamp themselves; Machine calls this once per step if it wants event
// timestamps, otherwise events are stamped 0.
func (d *Debug) SetCycle(cycle uint64) {
	if d == nil {
		return
	}
	d.cycle = cycle
}

// RecordInstruction appends a retired instruction to the ring, evicting the
// oldest entry once full.
func (d *Debug) RecordInstruction(pc uint16, opcode uint8, mnemonic string) {
	if d == nil {
		return
	}
	d.instrs[d.instrHead] = InstructionEntry{PC: pc, Opcode: opcode, Mnemonic: mnemonic}
	d.instrHead = (d.instrHead + 1) % instrCapacity
	if d.instrCount < instrCapacity {
		d.instrCount++
	}
}

// InstructionHistory returns up to the last instrCapacity retired
// instructions, oldest first.
func (d *Debug) InstructionHistory() []InstructionEntry {
	if d == nil || d.instrCount == 0 {
		return nil
	}
	out := make([]InstructionEntry, d.instrCount)
	start := (d.instrHead - d.instrCount + instrCapacity) % instrCapacity
	for i := 0; i < d.instrCount; i++ {
		out[i] = d.instrs[(start+i)%instrCapacity]
	}
	return out
}

// RecordEvent appends a formatted note to the event ring.
func (d *Debug) RecordEvent(format string, args ...any) {
	if d == nil {
		return
	}
	d.events[d.eventHead] = Event{Cycle: d.cycle, Message: fmt.Sprintf(format, args...)}
	d.eventHead = (d.eventHead + 1) % eventCapacity
	if d.eventCount < eventCapacity {
		d.eventCount++
	}
}

// Events returns up to the last eventCapacity recorded events, oldest first.
func (d *Debug) Events() []Event {
	if d == nil || d.eventCount == 0 {
		return nil
	}
	out := make([]Event, d.eventCount)
	start := (d.eventHead - d.eventCount + eventCapacity) % eventCapacity
	for i := 0; i < d.eventCount; i++ {
		out[i] = d.events[(start+i)%eventCapacity]
	}
	return out
}

// RecordFrame stores the just-completed frame buffer for later inspection
// (DumpPNG) and increments the frame counter that LastFrame reports.
func (d *Debug) RecordFrame(frameBuffer []uint16) {
	if d == nil {
		return
	}
	copy(d.lastFrame[:], frameBuffer)
	d.frameCount++
}

// LastFrame returns the most recently recorded frame buffer and its index.
func (d *Debug) LastFrame() ([256 * 240]uint16, uint64) {
	if d == nil {
		return [256 * 240]uint16{}, 0
	}
	return d.lastFrame, d.frameCount
}

// AddBreakpoint arms a PC-address breakpoint.
func (d *Debug) AddBreakpoint(pc uint16) {
	if d == nil {
		return
	}
	d.breakpoints[pc] = true
}

// RemoveBreakpoint disarms a PC-address breakpoint.
func (d *Debug) RemoveBreakpoint(pc uint16) {
	if d == nil {
		return
	}
	delete(d.breakpoints, pc)
}

// HasBreakpoint reports whether pc is armed; a BreakpointFunc typically
// checks this against the CPU's current PC.
func (d *Debug) HasBreakpoint(pc uint16) bool {
	if d == nil {
		return false
	}
	return d.breakpoints[pc]
}

// Breakpoints returns every currently armed address, unordered.
func (d *Debug) Breakpoints() []uint16 {
	if d == nil {
		return nil
	}
	out := make([]uint16, 0, len(d.breakpoints))
	for pc := range d.breakpoints {
		out = append(out, pc)
	}
	return out
}

// AddWatch registers a named value producer, polled on demand by
// WatchSnapshot rather than on every cycle.
func (d *Debug) AddWatch(name string, value func() any) {
	if d == nil {
		return
	}
	d.watches[name] = value
}

// RemoveWatch unregisters a named watch item.
func (d *Debug) RemoveWatch(name string) {
	if d == nil {
		return
	}
	delete(d.watches, name)
}

// WatchSnapshot evaluates every registered watch item and renders each
// value with go-spew, so a struct-valued watch gets a readable multi-line
// dump instead of a %v blob.
func (d *Debug) WatchSnapshot() map[string]string {
	if d == nil {
		return nil
	}
	out := make(map[string]string, len(d.watches))
	for name, fn := range d.watches {
		out[name] = strings.TrimSpace(spew.Sdump(fn()))
	}
	return out
}

// String renders a compact human-readable summary of the recorded
// instruction trail and events.
func (d *Debug) String() string {
	if d == nil {
		return "<nil debug>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "instructions: %d recorded (cap %d)\n", d.instrCount, instrCapacity)
	for _, e := range d.InstructionHistory() {
		fmt.Fprintf(&b, "  %04X  %02X  %s\n", e.PC, e.Opcode, e.Mnemonic)
	}
	fmt.Fprintf(&b, "events: %d recorded (cap %d)\n", d.eventCount, eventCapacity)
	for _, e := range d.Events() {
		fmt.Fprintf(&b, "  [%d] %s\n", e.Cycle, e.Message)
	}
	return b.String()
}
