package types

import (
	"fmt"
	"strings"
)

// AudioFeatures holds the rhythm structure extracted from a music track.
// All time sequences are sorted ascending and fall within [0, Duration].
// OnsetStrengths is index-aligned with OnsetTimes.
type AudioFeatures struct {
	TempoBPM       float64   `json:"tempo_bpm"`
	BeatTimes      []float64 `json:"beat_times"`
	OnsetTimes     []float64 `json:"onset_times"`
	OnsetStrengths []float64 `json:"onset_strengths"`
	Duration       float64   `json:"duration"`
}

// Strategy selects which audio-derived events are eligible as scene
// boundary candidates.
type Strategy int

const (
	StrategyAuto Strategy = iota
	StrategyBeats
	StrategyOnsets
	StrategyEvenly
)

// ParseStrategy maps a config string to a Strategy. Unknown values fall
// back to auto, matching the original behavior of treating anything
// unrecognized as the default.
func ParseStrategy(s string) Strategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beats":
		return StrategyBeats
	case "onsets":
		return StrategyOnsets
	case "evenly":
		return StrategyEvenly
	default:
		return StrategyAuto
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyBeats:
		return "beats"
	case StrategyOnsets:
		return "onsets"
	case StrategyEvenly:
		return "evenly"
	default:
		return "auto"
	}
}

// SyncConfig is the per-run synchronization policy. Immutable once a run
// starts.
type SyncConfig struct {
	Strategy         Strategy `json:"strategy"`
	MinSceneInterval float64  `json:"min_scene_interval"`
}

// SubjectPoint is one visually salient point (e.g. a face center) in
// normalized source-image coordinates.
type SubjectPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Valid reports whether the point lies inside the unit square.
func (p SubjectPoint) Valid() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// CropRect is the normalized sub-region of the painting shown during a
// scene. X/Y is the top-left corner; Width/Height keep the target aspect
// ratio relative to the source image.
type CropRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Zoom   float64 `json:"zoom"`
}

// Scene is one caption-bearing unit of the output video.
type Scene struct {
	Index    int            `json:"index"`
	Text     string         `json:"text"`
	Subjects []SubjectPoint `json:"subjects,omitempty"`
	Start    float64        `json:"start"`
	End      float64        `json:"end"`
	Crop     CropRect       `json:"crop"`
}

// Timeline is the ordered scene sequence handed to the video compositor.
// Length is fixed at assembly and scenes are never reordered afterwards.
type Timeline []Scene

// Duration returns the end time of the last scene, 0 for an empty timeline.
func (t Timeline) Duration() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}

// RenderRequest is the unit of work consumed by the render worker and the
// HTTP API: one painting, its scene captions, and an optional music track.
type RenderRequest struct {
	RunID      string   `json:"run_id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist,omitempty"`
	ImageURL   string   `json:"image_url"`
	Captions   []string `json:"captions,omitempty"`
	AudioPath  string   `json:"audio_path,omitempty"`
	Strategy   string   `json:"strategy,omitempty"`
	Upload     bool     `json:"upload,omitempty"`
}

// Validate checks the fields a render run cannot start without.
func (r RenderRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("render request missing title")
	}
	if r.ImageURL == "" {
		return fmt.Errorf("render request missing image_url")
	}
	return nil
}

// RenderResult is the worker's reply message after a run finishes.
type RenderResult struct {
	RunID     string   `json:"run_id"`
	Status    string   `json:"status"`
	VideoPath string   `json:"video_path,omitempty"`
	VideoID   string   `json:"video_id,omitempty"`
	Timeline  Timeline `json:"timeline,omitempty"`
	Error     string   `json:"error,omitempty"`
}
