package video

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GOMDJ/shorts-art/types"
)

func TestPixelCropConvertsAndClamps(t *testing.T) {
	cases := []struct {
		name         string
		crop         types.CropRect
		imgW, imgH   int
		wantX, wantY int
		wantW, wantH int
	}{
		{
			name: "centered half window",
			crop: types.CropRect{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5},
			imgW: 1000, imgH: 800,
			wantX: 250, wantY: 200, wantW: 500, wantH: 400,
		},
		{
			name: "full frame",
			crop: types.CropRect{X: 0, Y: 0, Width: 1, Height: 1},
			imgW: 640, imgH: 481,
			wantX: 0, wantY: 0, wantW: 640, wantH: 480,
		},
		{
			name: "window spilling right edge shifts back",
			crop: types.CropRect{X: 0.8, Y: 0, Width: 0.3, Height: 0.3},
			imgW: 1000, imgH: 1000,
			wantX: 700, wantY: 0, wantW: 300, wantH: 300,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y, w, h := pixelCrop(tc.crop, tc.imgW, tc.imgH)
			if x != tc.wantX || y != tc.wantY || w != tc.wantW || h != tc.wantH {
				t.Fatalf("got (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					x, y, w, h, tc.wantX, tc.wantY, tc.wantW, tc.wantH)
			}
			if w%2 != 0 || h%2 != 0 {
				t.Fatalf("dimensions %dx%d not even", w, h)
			}
			if x < 0 || y < 0 || x+w > tc.imgW || y+h > tc.imgH {
				t.Fatalf("crop (%d,%d,%d,%d) outside %dx%d image", x, y, w, h, tc.imgW, tc.imgH)
			}
		})
	}
}

func TestGenerateASSOneEventPerScene(t *testing.T) {
	timeline := types.Timeline{
		{Index: 0, Text: "A storm gathers", Start: 0, End: 2.5},
		{Index: 1, Text: "", Start: 2.5, End: 4.0},
		{Index: 2, Text: "Dawn breaks", Start: 4.0, End: 7.25},
	}

	path := filepath.Join(t.TempDir(), "captions.ass")
	if err := GenerateASS(timeline, path); err != nil {
		t.Fatalf("GenerateASS failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(raw)

	if !strings.Contains(content, "PlayResX: 1080") || !strings.Contains(content, "PlayResY: 1920") {
		t.Error("missing playback resolution")
	}
	if got := strings.Count(content, "Dialogue:"); got != 2 {
		t.Errorf("got %d dialogue events, want 2 (blank caption skipped)", got)
	}
	if !strings.Contains(content, "Dialogue: 0,0:00:00.00,0:00:02.50,Default,,0,0,0,,A storm gathers") {
		t.Errorf("first event malformed:\n%s", content)
	}
	if !strings.Contains(content, "0:00:04.00,0:00:07.25") {
		t.Errorf("second event timing malformed:\n%s", content)
	}
}

func TestGenerateASSEscapesCaptionText(t *testing.T) {
	timeline := types.Timeline{
		{Index: 0, Text: "A storm gathers\nover the harbor", Start: 0, End: 2},
		{Index: 1, Text: "{\\b1}Dawn{\\b0} breaks", Start: 2, End: 4},
	}

	path := filepath.Join(t.TempDir(), "captions.ass")
	if err := GenerateASS(timeline, path); err != nil {
		t.Fatalf("GenerateASS failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(raw)

	// A raw newline in a caption would split its Dialogue line in two.
	if got := strings.Count(content, "Dialogue:"); got != 2 {
		t.Fatalf("got %d dialogue events, want 2:\n%s", got, content)
	}
	if !strings.Contains(content, `A storm gathers\Nover the harbor`) {
		t.Errorf("newline not converted to soft break:\n%s", content)
	}
	if strings.Contains(content, "{") || strings.Contains(content, "}") {
		t.Errorf("override braces leaked into events:\n%s", content)
	}
}

func TestFormatASSTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:       "0:00:00.00",
		61.5:    "0:01:01.50",
		3723.04: "1:02:03.04",
	}
	for in, want := range cases {
		if got := formatASSTimestamp(in); got != want {
			t.Errorf("formatASSTimestamp(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteConcatList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concat.txt")
	if err := writeConcatList(path, []string{"/tmp/a.mp4", "/tmp/b.mp4"}); err != nil {
		t.Fatalf("writeConcatList failed: %v", err)
	}
	raw, _ := os.ReadFile(path)
	want := "file '/tmp/a.mp4'\nfile '/tmp/b.mp4'\n"
	if string(raw) != want {
		t.Fatalf("got %q, want %q", raw, want)
	}
}
