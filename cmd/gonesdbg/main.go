// Command gonesdbg is an interactive terminal debugger for the gones
// core: it steps a machine.Machine one instruction or frame at a time and
// renders CPU state, recent instruction history and armed breakpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gones/internal/cartridge"
	"gones/internal/machine"
	"gones/internal/region"
)

func main() {
	romFile := flag.String("rom", "", "Path to NES ROM file")
	pal := flag.Bool("pal", false, "Boot in PAL mode instead of NTSC")
	flag.Parse()

	if *romFile == "" {
		log.Fatal("gonesdbg: -rom is required")
	}

	data, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("gonesdbg: read ROM: %v", err)
	}
	cart, err := cartridge.Load(data)
	if err != nil {
		log.Fatalf("gonesdbg: load cartridge: %v", err)
	}

	std := region.NTSC
	if *pal {
		std = region.PAL
	}
	m := machine.New(region.New(std), cart)
	m.Power()

	if _, err := tea.NewProgram(model{machine: m}).Run(); err != nil {
		log.Fatalf("gonesdbg: %v", err)
	}
}

type model struct {
	machine *machine.Machine
	status  string
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ", "j":
		m.machine.RunUntil(machine.Budget{Instructions: 1}, nil)
		m.status = "stepped 1 instruction"

	case "f":
		m.machine.RunUntil(machine.Budget{Frames: 1}, nil)
		m.status = "stepped 1 frame"

	case "b":
		pc := m.machine.CPUSnapshot().PC
		if m.machine.Debug.HasBreakpoint(pc) {
			m.machine.Debug.RemoveBreakpoint(pc)
			m.status = fmt.Sprintf("breakpoint cleared at %04X", pc)
		} else {
			m.machine.Debug.AddBreakpoint(pc)
			m.status = fmt.Sprintf("breakpoint armed at %04X", pc)
		}

	case "c":
		result := m.machine.RunUntil(machine.Budget{Instructions: 1 << 20}, func(mm *machine.Machine) bool {
			return mm.Debug.HasBreakpoint(mm.CPUSnapshot().PC)
		})
		m.status = fmt.Sprintf("continue -> %v at %04X", result, m.machine.CPUSnapshot().PC)
	}

	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (m model) registers() string {
	s := m.machine.CPUSnapshot()
	flags := ""
	for _, f := range []struct {
		name string
		set  bool
	}{{"N", s.N}, {"V", s.V}, {"D", s.D}, {"I", s.I}, {"Z", s.Z}, {"C", s.C}} {
		if f.set {
			flags += f.name
		} else {
			flags += "-"
		}
	}
	return fmt.Sprintf("PC:%04X A:%02X X:%02X Y:%02X SP:%02X  %s  cycles:%d  frame:%d",
		s.PC, s.A, s.X, s.Y, s.SP, flags, s.Cycles, m.machine.FramesElapsed())
}

func (m model) history() string {
	entries := m.machine.Debug.InstructionHistory()
	if len(entries) == 0 {
		return dimStyle.Render("(no instructions retired yet)")
	}
	if len(entries) > 16 {
		entries = entries[len(entries)-16:]
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%04X  %02X  %s\n", e.PC, e.Opcode, e.Mnemonic)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) breakpoints() string {
	bps := m.machine.Debug.Breakpoints()
	if len(bps) == 0 {
		return dimStyle.Render("(none)")
	}
	var parts []string
	for _, pc := range bps {
		parts = append(parts, fmt.Sprintf("%04X", pc))
	}
	return strings.Join(parts, " ")
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render("gonesdbg"),
		m.registers(),
		"",
		headerStyle.Render("instruction history"),
		m.history(),
		"",
		headerStyle.Render("breakpoints"),
		m.breakpoints(),
		"",
		dimStyle.Render(m.status),
		"",
		dimStyle.Render("space/j step instruction  f step frame  b toggle breakpoint at PC  c continue  q quit"),
	)
}
