package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

type model struct {
	proc *Processor

	prevPC int32
	cycles int
	last   *Effect
	halted bool
	err    error
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m model) Init() tea.Cmd { return nil }

// Update is called when a message is received. Space or j steps one
// instruction; q quits.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "j":
			if m.halted {
				return m, nil
			}
			m.prevPC = m.proc.PC
			e, executed, err := m.proc.Step()
			m.last = e
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			if !executed || e.Halt {
				m.halted = true
				return m, nil
			}
			m.cycles++
		}
	}
	return m, nil
}

// renderRam renders the dirty RAM cells as lines, highlighting the cell the
// PC points at.
func (m model) renderRam() string {
	var sb strings.Builder
	sb.WriteString("addr | word\n")
	for i := 0; i < m.proc.Ram.Size(); i++ {
		c := m.proc.Ram.ReadIndex(i)
		if !c.Dirty {
			continue
		}
		marker := "  "
		if c.Addr == m.proc.PC {
			marker = "> "
		}
		fmt.Fprintf(&sb, "%s%4d | %08x  %s\n", marker, c.Addr, uint32(c.Value), Disassemble(uint32(c.Value)))
	}
	return sb.String()
}

func (m model) status() string {
	s := fmt.Sprintf("PC: %d (%d)\ncycles: %d\n\n", m.proc.PC, m.prevPC, m.cycles)
	s += m.proc.Regs.DumpDirty()
	if m.halted {
		s += "\nhalted"
	}
	return s
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	bottom := ""
	if m.last != nil {
		bottom = spew.Sdump(m.last)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderRam(),
			"   ",
			m.status(),
		),
		"",
		bottom,
		"space/j: step    q: quit",
	)
}

// Debug starts an interactive TUI stepping the processor one instruction at
// a time. The program must already be loaded into RAM.
func (p *Processor) Debug() error {
	out, err := tea.NewProgram(model{proc: p}).Run()
	if err != nil {
		return err
	}
	if m := out.(model); m.err != nil {
		return m.err
	}
	return nil
}
