// Package video renders a timeline into a 9:16 short with ffmpeg: one clip
// per scene panning across the painting, a closing museum card, captions,
// and the music bed.
package video

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/types"
)

// Input bundles everything the compositor needs beyond the timeline itself.
type Input struct {
	ImagePath   string
	ImageWidth  int
	ImageHeight int
	AudioPath   string
	Title       string
	Artist      string
}

// Compose renders the timeline to outputPath. Scene clips are built
// individually, concatenated, overlaid with ASS captions, and muxed with the
// music track when one is given.
func Compose(in Input, timeline types.Timeline, outputPath string) error {
	if len(timeline) == 0 {
		return fmt.Errorf("cannot compose an empty timeline")
	}

	tmpDir, err := os.MkdirTemp("", "shorts-art-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var clips []string
	for _, scene := range timeline {
		clipPath := filepath.Join(tmpDir, fmt.Sprintf("scene_%03d.mp4", scene.Index))
		if err := renderScene(in, scene, clipPath); err != nil {
			return fmt.Errorf("failed to render scene %d: %w", scene.Index, err)
		}
		clips = append(clips, clipPath)
	}

	cardPath := filepath.Join(tmpDir, "card.mp4")
	if err := renderMuseumCard(in, cardPath); err != nil {
		return fmt.Errorf("failed to render museum card: %w", err)
	}
	clips = append(clips, cardPath)

	listPath := filepath.Join(tmpDir, "concat.txt")
	if err := writeConcatList(listPath, clips); err != nil {
		return err
	}

	assPath := filepath.Join(tmpDir, "captions.ass")
	if err := GenerateASS(timeline, assPath); err != nil {
		return fmt.Errorf("failed to generate captions: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	concat := ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"})
	withCaptions := concat.Filter("ass", ffmpeg.Args{escapeFilterPath(assPath)})

	outArgs := ffmpeg.KwArgs{
		"c:v":    config.VideoCodec,
		"preset": config.VideoPreset,
		"r":      config.VideoFPS,
	}

	streams := []*ffmpeg.Stream{withCaptions}
	if in.AudioPath != "" {
		streams = append(streams, ffmpeg.Input(in.AudioPath))
		outArgs["c:a"] = config.AudioCodec
		outArgs["b:a"] = config.AudioBitrate
		outArgs["shortest"] = ""
	}

	if err := ffmpeg.Output(streams, outputPath, outArgs).OverWriteOutput().Silent(true).Run(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w", err)
	}

	log.Printf("✅ Composed video: %s (%d scenes, %.1fs)", outputPath, len(timeline), timeline.Duration())
	return nil
}

// renderScene turns one crop window into a clip of the scene's duration.
func renderScene(in Input, scene types.Scene, clipPath string) error {
	duration := scene.End - scene.Start
	x, y, w, h := pixelCrop(scene.Crop, in.ImageWidth, in.ImageHeight)

	clip := ffmpeg.Input(in.ImagePath, ffmpeg.KwArgs{
		"loop":      "1",
		"t":         fmt.Sprintf("%.3f", duration),
		"framerate": config.VideoFPS,
	}).
		Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d:%d:%d", w, h, x, y)}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", config.VideoWidth, config.VideoHeight)}).
		Filter("setsar", ffmpeg.Args{"1"})

	return clip.Output(clipPath, ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"preset":  config.VideoPreset,
		"pix_fmt": "yuv420p",
	}).OverWriteOutput().Silent(true).Run()
}

// renderMuseumCard closes the video with the whole painting letterboxed on a
// dark background, labeled with title and artist.
func renderMuseumCard(in Input, clipPath string) error {
	label := in.Title
	if in.Artist != "" {
		label = fmt.Sprintf("%s\n%s", in.Title, in.Artist)
	}

	card := ffmpeg.Input(in.ImagePath, ffmpeg.KwArgs{
		"loop":      "1",
		"t":         fmt.Sprintf("%.3f", config.FinalSceneDuration),
		"framerate": config.VideoFPS,
	}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:-2", config.VideoWidth-120)}).
		Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2:0x1A1A1A", config.VideoWidth, config.VideoHeight)}).
		Filter("drawtext", ffmpeg.Args{fmt.Sprintf(
			"text='%s':fontcolor=white:fontsize=52:x=(w-text_w)/2:y=h-320:line_spacing=16",
			escapeDrawtext(label))}).
		Filter("setsar", ffmpeg.Args{"1"})

	return card.Output(clipPath, ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"preset":  config.VideoPreset,
		"pix_fmt": "yuv420p",
	}).OverWriteOutput().Silent(true).Run()
}

// pixelCrop converts a normalized crop window into even pixel coordinates
// (yuv420p requires even dimensions) clamped to the source image.
func pixelCrop(crop types.CropRect, imgW, imgH int) (x, y, w, h int) {
	w = even(int(math.Round(crop.Width * float64(imgW))))
	h = even(int(math.Round(crop.Height * float64(imgH))))
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}
	if w > imgW {
		w = even(imgW)
	}
	if h > imgH {
		h = even(imgH)
	}

	x = int(math.Round(crop.X * float64(imgW)))
	y = int(math.Round(crop.Y * float64(imgH)))
	if x+w > imgW {
		x = imgW - w
	}
	if y+h > imgH {
		y = imgH - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y, w, h
}

func even(n int) int {
	return n &^ 1
}

func writeConcatList(listPath string, clips []string) error {
	var b strings.Builder
	for _, clip := range clips {
		fmt.Fprintf(&b, "file '%s'\n", filepath.ToSlash(clip))
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	return nil
}

// escapeFilterPath prepares a path for use inside a filter argument.
func escapeFilterPath(path string) string {
	path = filepath.ToSlash(path)
	return strings.ReplaceAll(path, ":", "\\:")
}

func escapeDrawtext(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "'", "\\'")
	text = strings.ReplaceAll(text, ":", "\\:")
	return text
}
