// Package tui renders a live observable stream in the terminal, one graph
// per series. It is the chart page's poor cousin for sessions without a
// browser.
package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mdwatch/internal/sample"
)

const historyCapacity = 300

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// SeriesMsg carries the name-to-label mapping from the hello message.
type SeriesMsg map[string]string

// SampleMsg carries one decoded sample.
type SampleMsg sample.Sample

// ClosedMsg reports that the stream ended.
type ClosedMsg struct {
	Err error
}

type Model struct {
	msgs <-chan tea.Msg

	order  []string
	labels map[string]string
	series map[string][]float64

	lastStep int
	lastTime float64
	count    int

	closed bool
	err    error

	width  int
	height int
}

func NewModel(msgs <-chan tea.Msg) Model {
	return Model{
		msgs:   msgs,
		labels: make(map[string]string),
		series: make(map[string][]float64),
		width:  80,
	}
}

func waitMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func (m Model) Init() tea.Cmd {
	return waitMsg(m.msgs)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case SeriesMsg:
		for name, label := range msg {
			m.ensureSeries(name)
			m.labels[name] = label
		}
		return m, waitMsg(m.msgs)

	case SampleMsg:
		m.lastStep = msg.Step
		m.lastTime = msg.Time
		m.count++
		for name, v := range msg.Values {
			m.ensureSeries(name)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			points := append(m.series[name], v)
			if len(points) > historyCapacity {
				points = points[1:]
			}
			m.series[name] = points
		}
		return m, waitMsg(m.msgs)

	case ClosedMsg:
		m.closed = true
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m *Model) ensureSeries(name string) {
	if _, ok := m.series[name]; ok {
		return
	}
	m.series[name] = nil
	m.order = append(m.order, name)
	sort.Strings(m.order)
	if m.labels[name] == "" {
		m.labels[name] = name
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("mdwatch live observables"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("step %d  t=%.3f ps  samples %d", m.lastStep, m.lastTime, m.count)))
	b.WriteString("\n\n")

	graphWidth := m.width - 12
	if graphWidth < 30 {
		graphWidth = 30
	}
	if graphWidth > 100 {
		graphWidth = 100
	}

	for _, name := range m.order {
		b.WriteString(labelStyle.Render(m.labels[name]))
		b.WriteString("\n")

		points := m.series[name]
		if len(points) < 2 {
			b.WriteString(graphStyle.Render("waiting for samples..."))
		} else {
			graph := asciigraph.Plot(points,
				asciigraph.Height(6),
				asciigraph.Width(graphWidth),
			)
			b.WriteString(graphStyle.Render(graph))
		}
		b.WriteString("\n\n")
	}

	if m.closed {
		if m.err != nil {
			b.WriteString(statusStyle.Render(fmt.Sprintf("stream closed: %v", m.err)))
		} else {
			b.WriteString(statusStyle.Render("stream closed"))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q to quit"))
	return b.String()
}
