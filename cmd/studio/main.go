package main

import (
	"context"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/processor"
	"github.com/GOMDJ/shorts-art/tui"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	proc := processor.Wire(context.Background(), cfg)

	model := tui.NewModel(proc, config.InputDir)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Printf("❌ Studio error: %v", err)
		os.Exit(1)
	}
}
