// Package tui is the interactive studio: browse queued render requests and
// fire them through the pipeline without leaving the terminal.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GOMDJ/shorts-art/processor"
	"github.com/GOMDJ/shorts-art/types"
)

// State represents the studio state machine
type State string

const (
	StateIdle      State = "idle"
	StateRendering State = "rendering"
	StateComplete  State = "complete"
	StateError     State = "error"
)

// RequestFile pairs a queued request with the file it came from.
type RequestFile struct {
	Path    string
	Request types.RenderRequest
}

// Model holds the studio state.
type Model struct {
	Processor *processor.Processor
	InputDir  string

	State    State
	Requests []RequestFile
	Cursor   int
	Result   *types.RenderResult
	Logs     []string
	Err      error

	startedAt time.Time
}

// NewModel creates the studio model.
func NewModel(proc *processor.Processor, inputDir string) Model {
	return Model{
		Processor: proc,
		InputDir:  inputDir,
		State:     StateIdle,
		Logs:      make([]string, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return loadRequests(m.InputDir)
}

// AddLog appends a line to the activity log, keeping the last few entries.
func (m Model) AddLog(message string) Model {
	m.Logs = append(m.Logs, message)
	if len(m.Logs) > 8 {
		m.Logs = m.Logs[len(m.Logs)-8:]
	}
	return m
}

// getStateText returns the status line for the current state.
func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		if len(m.Requests) == 0 {
			return InfoStyle.Render("No request files found. Drop JSON requests into " + m.InputDir + " and press 'r'.")
		}
		return HighlightStyle.Render("🎨 Pick a painting to render") + "\n\n" +
			InfoStyle.Render("↑/↓ select | enter render | r reload | q quit")
	case StateRendering:
		req := m.Requests[m.Cursor].Request
		return StatusStyle.Render(fmt.Sprintf("⏳ Rendering %q (%.0fs elapsed)...", req.Title, time.Since(m.startedAt).Seconds()))
	case StateComplete:
		return HighlightStyle.Render("✅ COMPLETE")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render(fmt.Sprintf("❌ Error: %s", errMsg))
	default:
		return ""
	}
}
