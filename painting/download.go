// Package painting fetches artwork images and probes their geometry.
package painting

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/GOMDJ/shorts-art/config"
)

// browserUA avoids the bot blocks some museum image servers apply to the
// default Go user agent.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Image is a downloaded painting on local disk with its pixel geometry.
type Image struct {
	Path   string
	Width  int
	Height int
}

// Aspect returns width/height.
func (i Image) Aspect() float64 {
	if i.Height == 0 {
		return 1
	}
	return float64(i.Width) / float64(i.Height)
}

// Download fetches the painting at url into dir and probes its dimensions.
// Non-image responses and undecodable payloads are rejected.
func Download(url, dir, runID string) (*Image, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid painting URL: %w", err)
	}
	req.Header.Set("User-Agent", browserUA)

	client := &http.Client{Timeout: config.HTTPTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download painting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download painting: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("painting URL returned %q, not an image", ct)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s%s", runID, extensionFor(resp.Header.Get("Content-Type"), url)))
	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create image file: %w", err)
	}
	_, err = io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save painting: %w", err)
	}

	img, err := Probe(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	log.Printf("✅ Downloaded painting: %s (%dx%d)", filepath.Base(path), img.Width, img.Height)
	return img, nil
}

// Probe reads just enough of the file to confirm it decodes and to learn its
// dimensions.
func Probe(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("image %s has degenerate dimensions %dx%d", filepath.Base(path), cfg.Width, cfg.Height)
	}
	return &Image{Path: path, Width: cfg.Width, Height: cfg.Height}, nil
}

func extensionFor(contentType, url string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/jpeg":
		return ".jpg"
	}
	if ext := strings.ToLower(filepath.Ext(url)); ext == ".png" || ext == ".gif" || ext == ".jpeg" || ext == ".jpg" {
		return ext
	}
	return ".jpg"
}
