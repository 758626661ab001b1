package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🖼  Shorts Art Studio"))
	b.WriteString("\n\n")

	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Request list
	if m.State == StateIdle && len(m.Requests) > 0 {
		for i, rf := range m.Requests {
			line := fmt.Sprintf("  %s", describeRequest(rf))
			if i == m.Cursor {
				line = SelectedStyle.Render(fmt.Sprintf("▸ %s", describeRequest(rf)))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Result box
	if m.Result != nil && m.State == StateComplete {
		b.WriteString(BoxStyle.Render(m.formatResult()))
		b.WriteString("\n\n")
	}

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, logMsg := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + logMsg))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func describeRequest(rf RequestFile) string {
	req := rf.Request
	desc := req.Title
	if req.Artist != "" {
		desc += " by " + req.Artist
	}
	if req.AudioPath != "" {
		desc += " ♪"
	}
	return desc
}

// formatResult summarizes a finished run.
func (m Model) formatResult() string {
	var b strings.Builder
	result := m.Result

	b.WriteString(HighlightStyle.Render("Render Result"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Run:    %s\n", result.RunID))
	b.WriteString(fmt.Sprintf("Video:  %s\n", result.VideoPath))
	if result.VideoID != "" {
		b.WriteString(fmt.Sprintf("Short:  https://youtube.com/shorts/%s\n", result.VideoID))
	}
	b.WriteString(fmt.Sprintf("Scenes: %d (%.1fs)\n", len(result.Timeline), result.Timeline.Duration()))
	return b.String()
}
