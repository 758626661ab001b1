package tui

import (
	"time"

	"github.com/GOMDJ/shorts-art/types"
)

// RequestsLoadedMsg carries the request files found in the input directory.
type RequestsLoadedMsg struct {
	Requests []RequestFile
	Err      error
}

// RenderDoneMsg is sent when a pipeline run finishes.
type RenderDoneMsg struct {
	Result types.RenderResult
}

// TickMsg redraws the elapsed-time display while rendering.
type TickMsg struct {
	Time time.Time
}
