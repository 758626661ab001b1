package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case RequestsLoadedMsg:
		return m.handleRequestsLoaded(msg)
	case RenderDoneMsg:
		return m.handleRenderDone(msg)
	case TickMsg:
		if m.State == StateRendering {
			return m, tickCmd()
		}
		return m, nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.State == StateIdle && m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.State == StateIdle && m.Cursor < len(m.Requests)-1 {
			m.Cursor++
		}
	case "r", "R":
		if m.State != StateRendering {
			m.State = StateIdle
			m.Result = nil
			m.Err = nil
			return m, loadRequests(m.InputDir)
		}
	case "enter":
		if m.State == StateIdle && len(m.Requests) > 0 {
			selected := m.Requests[m.Cursor]
			m.State = StateRendering
			m.startedAt = time.Now()
			m = m.AddLog(fmt.Sprintf("Rendering %s...", filepath.Base(selected.Path)))
			return m, tea.Batch(runRender(m.Processor, selected.Request), tickCmd())
		}
	}
	return m, nil
}

// handleRequestsLoaded refreshes the request list.
func (m Model) handleRequestsLoaded(msg RequestsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = fmt.Errorf("failed to load requests: %w", msg.Err)
		return m, nil
	}
	m.Requests = msg.Requests
	if m.Cursor >= len(m.Requests) {
		m.Cursor = 0
	}
	m = m.AddLog(fmt.Sprintf("Loaded %d request(s)", len(m.Requests)))
	return m, nil
}

// handleRenderDone records the pipeline outcome.
func (m Model) handleRenderDone(msg RenderDoneMsg) (tea.Model, tea.Cmd) {
	m.Result = &msg.Result
	if msg.Result.Status != "done" {
		m.State = StateError
		m.Err = fmt.Errorf("%s", msg.Result.Error)
		return m, nil
	}
	m.State = StateComplete
	m = m.AddLog(fmt.Sprintf("Run %s finished in %.0fs", msg.Result.RunID, time.Since(m.startedAt).Seconds()))
	return m, nil
}
