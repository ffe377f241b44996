package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/netlist"
	"github.com/physicslab/phyengine-go/sim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	elemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectState int

const (
	stateListElements inspectState = iota
	stateShowElement
	stateEditRequest
)

type inspectModel struct {
	err      error
	path     string
	opts     []sim.Option
	circuit  *sim.Circuit
	sample   *sim.Sample
	request  phyengine.Request
	input    textinput.Model
	selected int
	state    inspectState
}

func newInspectModel(path string, opts []sim.Option) *inspectModel {
	return &inspectModel{
		path:    path,
		opts:    opts,
		request: phyengine.Request{Kind: phyengine.KindOP},
	}
}

type circuitMsg struct {
	err     error
	circuit *sim.Circuit
	sample  *sim.Sample
	request phyengine.Request
}

type sampleMsg struct {
	err    error
	sample *sim.Sample
}

func (m *inspectModel) Init() tea.Cmd {
	return m.load
}

func (m *inspectModel) load() tea.Msg {
	deck, err := netlist.ParseFile(m.path)
	if err != nil {
		return circuitMsg{err: err}
	}
	req := phyengine.Request{Kind: phyengine.KindOP}
	if deck.Request != nil {
		req = *deck.Request
	}
	c, err := sim.New(deck.Graph, m.opts...)
	if err != nil {
		return circuitMsg{err: err}
	}
	s, err := c.Analyze(req)
	if err != nil {
		c.Close()
		return circuitMsg{err: err}
	}
	return circuitMsg{circuit: c, sample: s, request: req}
}

func (m *inspectModel) analyze() tea.Msg {
	s, err := m.circuit.Analyze(m.request)
	return sampleMsg{sample: s, err: err}
}

func (m *inspectModel) clock() tea.Msg {
	req := m.request
	req.DigitalClock = true
	s, err := m.circuit.Analyze(req)
	return sampleMsg{sample: s, err: err}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateEditRequest {
			return m.updateEditRequest(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			if m.circuit != nil {
				m.circuit.Close()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateListElements && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateListElements && m.sample != nil &&
				m.selected < len(m.sample.Elements)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateListElements && m.sample != nil {
				m.state = stateShowElement
			}

		case "esc":
			if m.state == stateShowElement {
				m.state = stateListElements
			}

		case "a":
			if m.sample != nil {
				m.prepareInput()
				m.state = stateEditRequest
			}

		case "c":
			if m.circuit != nil && m.sample != nil {
				return m, m.clock
			}
		}

	case circuitMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.circuit = msg.circuit
		m.sample = msg.sample
		m.request = msg.request

	case sampleMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.sample = msg.sample
	}

	return m, nil
}

func (m *inspectModel) updateEditRequest(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.circuit != nil {
			m.circuit.Close()
		}
		return m, tea.Quit

	case "enter":
		deck, err := netlist.ParseString(".analyze " + m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.request = *deck.Request
		m.state = stateListElements
		return m, m.analyze

	case "esc":
		m.err = nil
		m.state = stateListElements
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inspectModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "OP | TR step=1u stop=1m | OP clk"
	ti.Prompt = ".analyze "
	ti.SetValue(formatRequest(m.request))
	ti.Width = 48
	ti.Focus()
	m.input = ti
}

func formatRequest(req phyengine.Request) string {
	parts := []string{req.Kind.String()}
	if req.TRStep != 0 {
		parts = append(parts, fmt.Sprintf("step=%g", req.TRStep))
	}
	if req.TRStop != 0 {
		parts = append(parts, fmt.Sprintf("stop=%g", req.TRStop))
	}
	if req.ACOmega != 0 {
		parts = append(parts, fmt.Sprintf("omega=%g", req.ACOmega))
	}
	if req.DigitalClock {
		parts = append(parts, "clk")
	}
	return strings.Join(parts, " ")
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Phy-Engine Inspector"))
	b.WriteString(" ")
	b.WriteString(m.path)
	b.WriteString("  ")
	b.WriteString(valueStyle.Render(formatRequest(m.request)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		if m.circuit == nil {
			b.WriteString(helpStyle.Render("q quit"))
			return b.String()
		}
	}
	if m.sample == nil {
		if m.err == nil {
			b.WriteString("Building circuit...")
		}
		return b.String()
	}

	switch m.state {
	case stateListElements:
		for i, e := range m.sample.Elements {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + e.ID()))
				b.WriteString("  " + string(e.Model()))
			} else {
				b.WriteString("  " + elemStyle.Render(e.ID()))
				b.WriteString("  " + string(e.Model()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter readings • a analysis • c clock • q quit"))

	case stateShowElement:
		e := m.sample.Elements[m.selected]
		id := e.ID()
		b.WriteString(elemStyle.Render(id))
		b.WriteString("  " + string(e.Model()))
		b.WriteString("\n\n")
		volts := m.sample.PinVoltage[id]
		logic := m.sample.PinDigital[id]
		for p := 0; p < e.PinCount(); p++ {
			b.WriteString(fmt.Sprintf("  %-10s %s  %s\n",
				e.PinName(p),
				valueStyle.Render(fmt.Sprintf("%12.6g V", volts[p])),
				formatLogic(logic[p])))
		}
		for i, amps := range m.sample.BranchCurrent[id] {
			b.WriteString(fmt.Sprintf("  branch %-3d %s\n",
				i, valueStyle.Render(fmt.Sprintf("%12.6g A", amps))))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • a analysis • c clock • q quit"))

	case stateEditRequest:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc cancel"))
	}

	return b.String()
}
