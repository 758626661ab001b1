package video

import (
	"fmt"
	"os"
	"strings"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/types"
)

// captionFontSize in ASS script units at 1080x1920 playback resolution.
const captionFontSize = 64

// GenerateASS writes one caption event per scene, bottom-centered with an
// outline so text stays readable over any painting.
func GenerateASS(timeline types.Timeline, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintln(file, "[Script Info]")
	fmt.Fprintln(file, "Title: Shorts Art Captions")
	fmt.Fprintln(file, "ScriptType: v4.00+")
	fmt.Fprintf(file, "PlayResX: %d\n", config.VideoWidth)
	fmt.Fprintf(file, "PlayResY: %d\n", config.VideoHeight)
	fmt.Fprintln(file, "")
	fmt.Fprintln(file, "[V4+ Styles]")
	fmt.Fprintln(file, "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding")

	// MarginV=288 floats captions at 15% above the bottom edge.
	fmt.Fprintf(file, "Style: Default,Georgia,%d,&H00FFFFFF,&H00FFFFFF,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,4,1,2,60,60,288,1\n", captionFontSize)

	fmt.Fprintln(file, "")
	fmt.Fprintln(file, "[Events]")
	fmt.Fprintln(file, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text")

	for _, scene := range timeline {
		if scene.Text == "" {
			continue
		}
		fmt.Fprintf(file, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTimestamp(scene.Start),
			formatASSTimestamp(scene.End),
			escapeASSText(scene.Text))
	}
	return nil
}

// escapeASSText keeps caller text inside a single Dialogue line: newlines
// become ASS soft breaks and override braces are stripped so captions cannot
// inject style tags.
func escapeASSText(text string) string {
	text = strings.NewReplacer("\r\n", "\\N", "\n", "\\N", "\r", "\\N").Replace(text)
	text = strings.NewReplacer("{", "", "}", "").Replace(text)
	return text
}

// formatASSTimestamp converts seconds to the ASS h:mm:ss.cc format.
func formatASSTimestamp(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := int(seconds) % 60
	centisecs := int((seconds - float64(int(seconds))) * 100)

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centisecs)
}
