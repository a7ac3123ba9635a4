// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-22
// Last Modified: 2026-08-23

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Brand color
var (
	primaryColor = lipgloss.Color("#ff7300")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF0000")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	failureStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// StatusMsg carries one commit-status update into the watch view.
type StatusMsg struct {
	Context     string
	State       string // "pending", "success", "failure", "error"
	Description string
}

// ResultMsg ends the watch.
type ResultMsg struct {
	Success bool
	Output  string
}

// Model renders the statuses of one revision against the expected
// test contexts.
type Model struct {
	spinner    spinner.Model
	revision   string
	contexts   []string
	states     map[string]string
	details    map[string]string
	logs       []string
	quitting   bool
	err        error
	statusChan <-chan StatusMsg
}

// NewModel creates a watch model over the expected contexts.
func NewModel(revision string, contexts []string, statusChan <-chan StatusMsg) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		spinner:    s,
		revision:   revision,
		contexts:   contexts,
		states:     make(map[string]string),
		details:    make(map[string]string),
		statusChan: statusChan,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForActivity(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StatusMsg:
		m.states[msg.Context] = msg.State
		m.details[msg.Context] = msg.Description
		if msg.Description != "" {
			m.logs = append(m.logs, fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), msg.Context, msg.Description))
		}

		if msg.State == "error" {
			m.err = fmt.Errorf("context %s reported an error: %s", msg.Context, msg.Description)
		}

		return m, m.waitForActivity()

	case ResultMsg:
		// Print the final output before quitting so the user can see the result
		if msg.Output != "" {
			fmt.Println("\n" + msg.Output)
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-m.statusChan:
			if !ok {
				return ResultMsg{Success: true}
			}
			return msg
		case <-time.After(30 * time.Second):
			// Timeout waiting for status updates
			return ResultMsg{
				Success: false,
				Output:  "timed out waiting for status updates",
			}
		}
	}
}

// View renders the watch.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Testplan-Bot Statuses — " + m.revision))
	s.WriteString("\n\n")

	for _, name := range m.contexts {
		state := m.states[name]

		prefix := "  "
		style := contextStyle

		switch state {
		case "pending":
			prefix = m.spinner.View() + " "
			style = pendingStyle
		case "success":
			prefix = "✓ "
			style = successStyle
		case "failure", "error":
			prefix = "✗ "
			style = failureStyle
		case "":
			prefix = "○ "
			style = contextStyle.Faint(true)
		}

		line := style.Render(fmt.Sprintf("%s%s", prefix, name))
		if detail := m.details[name]; detail != "" {
			line += lipgloss.NewStyle().Foreground(subtleColor).Render("  " + detail)
		}
		s.WriteString(line + "\n")
	}

	s.WriteString("\nUpdates:\n")
	// Show last 5 updates
	start := 0
	if len(m.logs) > 5 {
		start = len(m.logs) - 5
	}
	for _, log := range m.logs[start:] {
		s.WriteString(lipgloss.NewStyle().Foreground(subtleColor).Render(log) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + failureStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	s.WriteString(lipgloss.NewStyle().Foreground(subtleColor).Render("\nPress q to quit\n"))

	return s.String()
}
