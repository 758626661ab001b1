package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/GOMDJ/shorts-art/api"
	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/processor"
	"github.com/GOMDJ/shorts-art/store"
)

func main() {
	_ = godotenv.Load()

	batchMode := flag.Bool("batch", false, "Render every request JSON in the input directory, then exit")
	port := flag.String("port", ":8080", "API server address (e.g. :8080)")
	flag.Parse()

	log.Println("🖼  Shorts Art - Starting...")

	cfg := config.Load()
	ctx := context.Background()
	proc := processor.Wire(ctx, cfg)

	if *batchMode {
		log.Println("📁 Running in BATCH mode")
		if err := proc.ProcessFromDirectory(ctx, config.InputDir); err != nil {
			log.Fatalf("❌ Batch processing failed: %v", err)
		}
		os.Exit(0)
	}

	var runs *store.Store
	if s, ok := proc.Runs.(*store.Store); ok {
		runs = s
	}

	router := api.NewRouter(proc, runs)
	log.Printf("🚀 API server listening on %s", *port)
	log.Println("📌 Endpoints:")
	log.Println("   POST /api/render    - Submit a painting render request")
	log.Println("   GET  /api/runs      - List recent runs")
	log.Println("   GET  /api/runs/:id  - Inspect one run")
	log.Println("   GET  /api/health    - Health check")

	if err := router.Run(*port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
