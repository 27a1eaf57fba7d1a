// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Sketchbridge Authors

package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sketchbridge/sketchbridge/pkg/mcu"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch and send raw protocol traffic interactively",
	Long: `Open the connection and show every response line the firmware sends,
classified as acknowledgement, numeric, or data. Typed input is sent as a
raw command line, so attached devices can be driven by hand: type the
command code, press enter, then send any follow-up data the same way.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type monitorTickMsg time.Time

type monitorLineMsg struct {
	line string
}

type monitorLostMsg struct {
	err error
}

//////////////////////////////////////////////////////////////
// Model
//////////////////////////////////////////////////////////////

// logEntry is one displayed traffic line.
type logEntry struct {
	timestamp time.Time
	text      string
	class     mcu.LineClass
	outbound  bool
}

type monitorModel struct {
	conn     Connection
	connInfo string

	stats         *mcu.Statistics
	log           []logEntry
	maxLogEntries int

	viewport viewport.Model
	input    textinput.Model
	ready    bool
	width    int
	height   int
	lostErr  error
	quitting bool
}

func initialMonitorModel(conn Connection, connInfo string) monitorModel {
	ti := textinput.New()
	ti.Placeholder = "command"
	ti.CharLimit = 64
	ti.Width = 30
	ti.Focus()

	return monitorModel{
		conn:          conn,
		connInfo:      connInfo,
		stats:         mcu.NewStatistics(),
		log:           make([]logEntry, 0),
		maxLogEntries: 500,
		input:         ti,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		monitorTickCmd(),
		tea.EnterAltScreen,
	)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line != "" {
				m.send(line)
				m.input.Reset()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewport()

	case monitorTickMsg:
		m.stats.UpdateRates()
		return m, monitorTickCmd()

	case monitorLineMsg:
		m.stats.Observe(msg.line)
		m.addEntry(logEntry{
			timestamp: time.Now(),
			text:      msg.line,
			class:     mcu.ClassifyLine(msg.line),
		})

	case monitorLostMsg:
		m.lostErr = msg.err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *monitorModel) send(line string) {
	if _, err := m.conn.Write([]byte(line + "\n")); err != nil {
		m.addEntry(logEntry{
			timestamp: time.Now(),
			text:      fmt.Sprintf("write failed: %v", err),
			class:     mcu.LineData,
		})
		return
	}
	m.addEntry(logEntry{
		timestamp: time.Now(),
		text:      line,
		outbound:  true,
	})
}

func (m *monitorModel) addEntry(e logEntry) {
	m.log = append(m.log, e)
	if len(m.log) > m.maxLogEntries {
		m.log = m.log[len(m.log)-m.maxLogEntries:]
	}
	m.refreshViewport()
}

func (m *monitorModel) layoutViewport() {
	// Title, stats bar, input line, and help line take four rows plus
	// the viewport border.
	height := m.height - 6
	if height < 3 {
		height = 3
	}
	if !m.ready {
		m.viewport = viewport.New(m.width-2, height)
		m.ready = true
	} else {
		m.viewport.Width = m.width - 2
		m.viewport.Height = height
	}
	m.refreshViewport()
}

func (m *monitorModel) refreshViewport() {
	if !m.ready {
		return
	}

	outStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	ackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	numStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	for _, e := range m.log {
		b.WriteString(timeStyle.Render(e.timestamp.Format("15:04:05.000")))
		if e.outbound {
			b.WriteString(outStyle.Render(" > " + e.text))
		} else {
			switch e.class {
			case mcu.LineAck:
				b.WriteString(ackStyle.Render(" < " + e.text))
			case mcu.LineNumeric:
				b.WriteString(numStyle.Render(" < " + e.text))
			default:
				b.WriteString(" < " + e.text)
			}
		}
		b.WriteString("\n")
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(b.String())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Connecting..."
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	statsStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	var s strings.Builder
	s.WriteString(titleStyle.Render("Sketchbridge Monitor - " + m.connInfo))
	s.WriteString("\n")
	s.WriteString(statsStyle.Render(m.stats.Summary()))
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.viewport.View()))
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(statsStyle.Render("enter: send | esc / ctrl+c: quit"))
	return s.String()
}

//////////////////////////////////////////////////////////////
// Command
//////////////////////////////////////////////////////////////

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := openConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	m := initialMonitorModel(conn, connInfo)
	p := tea.NewProgram(m)

	// Reader goroutine: one message per response line.
	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if line == "" {
				continue
			}
			p.Send(monitorLineMsg{line: line})
		}
		p.Send(monitorLostMsg{err: scanner.Err()})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	if fm, ok := final.(monitorModel); ok && fm.lostErr != nil {
		return fmt.Errorf("connection lost: %v", fm.lostErr)
	}
	return nil
}
