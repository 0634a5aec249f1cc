// Package tui implements an interactive terminal inspector for a
// running CPU: a memory page table, register/status readout and
// single-step control, driven by bubbletea.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattbrant/sixtyfive/cpu"
	"github.com/mattbrant/sixtyfive/inspect"
)

const bytesPerLine = 16

type model struct {
	cpu    *cpu.CPU
	in     *inspect.Inspector
	prevPC uint16
	err    error
	halted bool
}

// Init satisfies tea.Model. The CPU has already run its reset
// bootstrap and had a program loaded by the caller before Run starts.
func (m model) Init() tea.Cmd {
	return nil
}

// Update handles a single key press: space or 'j' steps one
// instruction, 'q' quits.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "j":
		if m.halted {
			return m, nil
		}
		m.prevPC = m.in.Registers().PC
		_, ok, err := m.cpu.FetchAndExecute()
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		if !ok {
			m.halted = true
		}
	}
	return m, nil
}

// renderPage renders one 16-byte memory row, highlighting PC.
func (m model) renderPage(start uint16) string {
	var s strings.Builder
	fmt.Fprintf(&s, "%.4X | ", start)
	window := m.in.MemoryWindow(start, bytesPerLine)
	pc := m.in.Registers().PC
	for i, b := range window {
		if start+uint16(i) == pc {
			fmt.Fprintf(&s, "[%.2X] ", b)
		} else {
			fmt.Fprintf(&s, " %.2X  ", b)
		}
	}
	return s.String()
}

func (m model) pageTable() string {
	pc := m.in.Registers().PC
	base := pc - (pc % bytesPerLine)
	lines := []string{"addr | " + strings.Repeat(" _  ", bytesPerLine)}
	for row := -2; row <= 2; row++ {
		addr := uint16(int32(base) + int32(row*bytesPerLine))
		lines = append(lines, m.renderPage(addr))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	r := m.in.Registers()
	var flags strings.Builder
	for _, set := range []bool{r.P.N, r.P.V, true, r.P.B, r.P.D, r.P.I, r.P.Z, r.P.C} {
		if set {
			flags.WriteString("1 ")
		} else {
			flags.WriteString("0 ")
		}
	}
	state := "running"
	switch m.in.State() {
	case cpu.Halted:
		state = "halted"
	case cpu.InInterrupt:
		state = "in interrupt"
	}
	return fmt.Sprintf(
		"state: %s\nPC: $%.4X (was $%.4X)\nA:  $%.2X\nX:  $%.2X\nY:  $%.2X\nSP: $%.2X\nN V 1 B D I Z C\n%s",
		state, r.PC, m.prevPC, r.A, r.X, r.Y, r.SP, flags.String(),
	)
}

// View renders the page table beside the register/status readout.
func (m model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), "   ", m.status())
	if m.err != nil {
		return body + "\n\nerror: " + m.err.Error()
	}
	return body + "\n\n[space/j] step  [q] quit"
}

// Run starts the interactive inspector over c until the user quits.
func Run(c *cpu.CPU, debugExt bool) error {
	_, err := tea.NewProgram(model{cpu: c, in: inspect.New(c, debugExt)}).Run()
	return err
}
