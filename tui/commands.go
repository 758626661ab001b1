package tui

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GOMDJ/shorts-art/processor"
	"github.com/GOMDJ/shorts-art/types"
)

// loadRequests scans the input directory for render request JSON files.
func loadRequests(dir string) tea.Cmd {
	return func() tea.Msg {
		files, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return RequestsLoadedMsg{Err: err}
		}
		sort.Strings(files)

		var requests []RequestFile
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				continue
			}
			var req types.RenderRequest
			if err := json.Unmarshal(data, &req); err != nil {
				continue
			}
			if req.Validate() != nil {
				continue
			}
			requests = append(requests, RequestFile{Path: file, Request: req})
		}
		return RequestsLoadedMsg{Requests: requests}
	}
}

// runRender executes the pipeline for one request.
func runRender(proc *processor.Processor, req types.RenderRequest) tea.Cmd {
	return func() tea.Msg {
		result := proc.ProcessRequest(context.Background(), req)
		return RenderDoneMsg{Result: result}
	}
}

// tickCmd refreshes the elapsed-time display every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
