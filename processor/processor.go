// Package processor orchestrates one render run end to end: painting in,
// synced short-form video out.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GOMDJ/shorts-art/audio"
	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/painting"
	"github.com/GOMDJ/shorts-art/types"
	"github.com/GOMDJ/shorts-art/upload"
	"github.com/GOMDJ/shorts-art/video"
)

// SubjectAnalyzer finds per-scene subject points in a painting.
type SubjectAnalyzer interface {
	AnalyzeSubjects(ctx context.Context, imagePath string, captions []string) ([][]types.SubjectPoint, error)
}

// CaptionGenerator fills in captions when a request arrives without them.
type CaptionGenerator interface {
	Generate(ctx context.Context, title, artist string, sceneCount int) ([]string, error)
}

// RunStore records run lifecycle state.
type RunStore interface {
	CreateRun(ctx context.Context, req types.RenderRequest) error
	SetStatus(ctx context.Context, runID, status string) error
	Complete(ctx context.Context, result types.RenderResult) error
}

// ArtifactStore persists the timeline record and the rendered video.
type ArtifactStore interface {
	PutJSON(ctx context.Context, bucket, key string, v interface{}) error
	PutFile(ctx context.Context, bucket, key, path, contentType string) error
}

// ResultPublisher announces finished runs.
type ResultPublisher interface {
	PublishResult(result types.RenderResult) error
}

// VideoUploader publishes the rendered short.
type VideoUploader interface {
	UploadVideo(videoPath string, metadata upload.Metadata) (string, error)
}

// Processor runs the render pipeline. Collaborators are optional; a nil
// field skips that stage (no store, no uploads) so the pipeline degrades to
// local rendering.
type Processor struct {
	Cfg       config.Config
	Vision    SubjectAnalyzer
	Captions  CaptionGenerator
	Runs      RunStore
	Artifacts ArtifactStore
	Publisher ResultPublisher
	Uploader  VideoUploader

	// Overridable for tests; default to the real implementations.
	download func(url, dir, runID string) (*painting.Image, error)
	compose  func(in video.Input, t types.Timeline, outputPath string) error
}

// New builds a processor with the real download and compose stages.
func New(cfg config.Config) *Processor {
	return &Processor{
		Cfg:      cfg,
		download: painting.Download,
		compose:  video.Compose,
	}
}

// ProcessRequest runs one painting through the full pipeline. The returned
// result mirrors what is stored and published, including failures.
func (p *Processor) ProcessRequest(ctx context.Context, req types.RenderRequest) types.RenderResult {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	result := types.RenderResult{RunID: req.RunID, Status: "failed"}

	if err := req.Validate(); err != nil {
		result.Error = err.Error()
		p.finish(ctx, result)
		return result
	}

	log.Printf("🎬 Render run %s: %q", req.RunID, req.Title)
	if p.Runs != nil {
		if err := p.Runs.CreateRun(ctx, req); err != nil {
			log.Printf("⚠️  Failed to record run %s: %v", req.RunID, err)
		}
		_ = p.Runs.SetStatus(ctx, req.RunID, "rendering")
	}

	timeline, img, err := p.buildTimeline(ctx, &req)
	if err != nil {
		result.Error = err.Error()
		p.finish(ctx, result)
		return result
	}
	result.Timeline = timeline

	outputPath := filepath.Join(config.OutputDir, fmt.Sprintf("%s.mp4", req.RunID))
	composeIn := video.Input{
		ImagePath:   img.Path,
		ImageWidth:  img.Width,
		ImageHeight: img.Height,
		AudioPath:   req.AudioPath,
		Title:       req.Title,
		Artist:      req.Artist,
	}
	if err := p.compose(composeIn, timeline, outputPath); err != nil {
		result.Error = fmt.Sprintf("video composition failed: %v", err)
		p.finish(ctx, result)
		return result
	}
	result.VideoPath = outputPath
	result.Status = "done"

	p.storeArtifacts(ctx, req, result)

	if req.Upload && p.Uploader != nil {
		videoID, err := p.Uploader.UploadVideo(outputPath, upload.GenerateMetadata(req.Title, req.Artist))
		if err != nil {
			log.Printf("⚠️  YouTube upload failed for run %s: %v", req.RunID, err)
		} else {
			result.VideoID = videoID
		}
	}

	p.finish(ctx, result)
	log.Printf("✅ Run %s complete: %s", req.RunID, outputPath)
	return result
}

// buildTimeline resolves captions, audio features, subjects, and crops into
// a validated timeline.
func (p *Processor) buildTimeline(ctx context.Context, req *types.RenderRequest) (types.Timeline, *painting.Image, error) {
	img, err := p.download(req.ImageURL, config.InputDir, req.RunID)
	if err != nil {
		return nil, nil, err
	}

	captions := req.Captions
	if len(captions) == 0 {
		if p.Captions == nil {
			return nil, nil, fmt.Errorf("request has no captions and no caption generator is configured")
		}
		captions, err = p.Captions.Generate(ctx, req.Title, req.Artist, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("caption generation failed: %w", err)
		}
	}

	features := p.analyzeAudio(req.AudioPath)

	var subjects [][]types.SubjectPoint
	if p.Vision != nil {
		subjects, err = p.Vision.AnalyzeSubjects(ctx, img.Path, captions)
		if err != nil {
			log.Printf("⚠️  Subject analysis failed, using centered crops: %v", err)
			subjects = nil
		}
	}

	syncCfg := types.SyncConfig{
		Strategy:         types.ParseStrategy(firstNonEmpty(req.Strategy, p.Cfg.Strategy)),
		MinSceneInterval: p.Cfg.MinSceneInterval,
	}
	if syncCfg.MinSceneInterval <= 0 {
		syncCfg.MinSceneInterval = config.DefaultMinSceneInterval
	}

	timeline, err := BuildTimeline(BuildInput{
		Captions:     captions,
		Features:     features,
		Subjects:     subjects,
		SourceAspect: img.Aspect(),
		Sync:         syncCfg,
		JitterRange:  p.Cfg.JitterRange,
		Seed:         seedFor(req.RunID),
	})
	if err != nil {
		return nil, nil, err
	}
	return timeline, img, nil
}

// analyzeAudio extracts rhythm features, degrading to nil (text-duration
// fallback) on any audio problem.
func (p *Processor) analyzeAudio(audioPath string) *types.AudioFeatures {
	if audioPath == "" {
		return nil
	}

	samples, rate, err := audio.Decode(audioPath)
	if err != nil {
		log.Printf("⚠️  Audio unavailable, falling back to text durations: %v", err)
		return nil
	}
	samples = audio.Truncate(samples, rate, config.MaxVideoDuration)

	features, err := audio.Analyze(samples, rate)
	if err != nil {
		log.Printf("⚠️  Audio analysis failed, falling back to text durations: %v", err)
		return nil
	}
	log.Printf("✅ Audio analyzed: %.0f BPM, %d beats, %d onsets over %.1fs",
		features.TempoBPM, len(features.BeatTimes), len(features.OnsetTimes), features.Duration)
	return features
}

func (p *Processor) storeArtifacts(ctx context.Context, req types.RenderRequest, result types.RenderResult) {
	if p.Artifacts == nil || p.Cfg.S3Bucket == "" {
		return
	}
	prefix := fmt.Sprintf("%s/%s", p.Cfg.S3Prefix, req.RunID)

	if err := p.Artifacts.PutJSON(ctx, p.Cfg.S3Bucket, prefix+"/timeline.json", result.Timeline); err != nil {
		log.Printf("⚠️  Failed to upload timeline record: %v", err)
	}
	if err := p.Artifacts.PutFile(ctx, p.Cfg.S3Bucket, prefix+"/video.mp4", result.VideoPath, "video/mp4"); err != nil {
		log.Printf("⚠️  Failed to upload video artifact: %v", err)
	}
}

func (p *Processor) finish(ctx context.Context, result types.RenderResult) {
	if result.Status != "done" {
		log.Printf("❌ Run %s failed: %s", result.RunID, result.Error)
	}
	if p.Runs != nil {
		if err := p.Runs.Complete(ctx, result); err != nil {
			log.Printf("⚠️  Failed to store run result %s: %v", result.RunID, err)
		}
	}
	if p.Publisher != nil {
		if err := p.Publisher.PublishResult(result); err != nil {
			log.Printf("⚠️  Failed to publish result %s: %v", result.RunID, err)
		}
	}
}

// ProcessFromDirectory renders every request JSON in dir, a few at a time.
func (p *Processor) ProcessFromDirectory(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to read request files: %w", err)
	}
	if len(files) == 0 {
		log.Printf("No request files found in %s", dir)
		return nil
	}
	log.Printf("Found %d render requests", len(files))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentRuns)

	for i, file := range files {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			req, err := readRequest(path)
			if err != nil {
				log.Printf("❌ Skipping %s: %v", filepath.Base(path), err)
				return
			}
			log.Printf("[%d/%d] Processing: %s", idx+1, len(files), filepath.Base(path))
			p.ProcessRequest(ctx, *req)

			if idx < len(files)-1 {
				time.Sleep(config.RunBatchDelay)
			}
		}(i, file)
	}

	wg.Wait()
	log.Println("All render requests processed!")
	return nil
}

func readRequest(path string) (*types.RenderRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	var req types.RenderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// seedFor derives a stable per-run seed so reruns of the same run ID yield
// byte-identical timelines.
func seedFor(runID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(runID))
	return int64(h.Sum64())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
