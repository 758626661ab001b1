package config

import "time"

// Video output constants
const (
	// VideoWidth is the output video width (9:16 aspect ratio)
	VideoWidth = 1080

	// VideoHeight is the output video height (9:16 aspect ratio)
	VideoHeight = 1920

	// VideoFPS is the output frame rate
	VideoFPS = 30

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"

	// MaxVideoDuration is the maximum allowed video length in seconds
	MaxVideoDuration = 180.0
)

// Audio analysis constants
const (
	// FrameSize is the STFT window length in samples
	FrameSize = 2048

	// HopSize is the number of samples between successive STFT frames
	HopSize = 512

	// MinTempoBPM and MaxTempoBPM bound the autocorrelation tempo search
	MinTempoBPM = 30.0
	MaxTempoBPM = 240.0

	// OnsetThresholdK scales the adaptive onset threshold (mean + k*std)
	OnsetThresholdK = 1.5
)

// Timeline synchronization constants
const (
	// DefaultMinSceneInterval is the floor between scene cuts in seconds
	DefaultMinSceneInterval = 0.5

	// WordDurationMin and WordDurationMax bound the per-word duration draw
	// used when no music track is supplied
	WordDurationMin = 1.0
	WordDurationMax = 1.2

	// FinalSceneDuration is the length of the closing artwork-info scene
	// when timing falls back to the text heuristic
	FinalSceneDuration = 5.0
)

// Crop geometry constants
const (
	// MinZoom and MaxZoom bound the crop zoom factor
	MinZoom = 1.0
	MaxZoom = 3.0

	// DefaultZoom is used when a scene has no subject points
	DefaultZoom = 1.2

	// SingleSubjectZoom is the close-up applied when a scene has exactly
	// one subject point
	SingleSubjectZoom = 2.0

	// DefaultJitterRange is the zoom perturbation applied to each crop,
	// as a fraction of the normalized dimension
	DefaultJitterRange = 0.02

	// SubjectMargin pads the containment window around subject points so
	// a face center never sits exactly on a crop edge
	SubjectMargin = 0.05
)

// Processing constants
const (
	// MaxConcurrentRuns limits paintings processed simultaneously
	MaxConcurrentRuns = 2

	// HTTPTimeout bounds painting downloads and vision calls
	HTTPTimeout = 30 * time.Second

	// RunBatchDelay is the wait time between processing batches
	RunBatchDelay = 2 * time.Second
)

// Directory constants
const (
	// InputDir holds painting images fetched for a run
	InputDir = "input"

	// SoundsDir holds music tracks referenced by file name
	SoundsDir = "input/sounds"

	// OutputDir holds rendered videos and timeline records
	OutputDir = "output"
)

// YouTube constants
const (
	// YouTubeCategoryID for Entertainment
	YouTubeCategoryID = "24"

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "public"
)
