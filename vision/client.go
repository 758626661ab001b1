// Package vision asks a vision-capable LLM for the salient subject points of
// a painting, one list per scene.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/types"
)

// maxImageBytes is the API's base64 payload cap; larger paintings are
// re-encoded until they fit.
const maxImageBytes = 5 * 1024 * 1024

// Client talks to an Anthropic-style messages endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds a vision client. Model defaults to a vision-capable
// claude model when empty.
func NewClient(endpoint, apiKey, model string) *Client {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type   string     `json:"type"`
	Text   string     `json:"text,omitempty"`
	Source *apiSource `json:"source,omitempty"`
}

type apiSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// sceneSubjects is the JSON shape the model is prompted to return.
type sceneSubjects struct {
	Scenes []struct {
		Subjects []types.SubjectPoint `json:"subjects"`
	} `json:"scenes"`
}

// AnalyzeSubjects returns one subject-point list per scene. Points outside
// the unit square are dropped; a scene whose points are all invalid gets an
// empty list, which downstream resolves to a centered crop.
func (c *Client) AnalyzeSubjects(ctx context.Context, imagePath string, captions []string) ([][]types.SubjectPoint, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("vision API key not configured")
	}

	data, mediaType, err := encodeUnderCap(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	payload := apiRequest{
		Model:     c.model,
		MaxTokens: 2048,
		Messages: []apiMessage{{
			Role: "user",
			Content: []apiContent{
				{Type: "image", Source: &apiSource{
					Type:      "base64",
					MediaType: mediaType,
					Data:      base64.StdEncoding.EncodeToString(data),
				}},
				{Type: "text", Text: buildPrompt(captions)},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, fmt.Errorf("vision API error: status %d: %v", resp.StatusCode, errBody)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}
	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("vision response carried no text block")
	}

	return ParseSubjects(text, len(captions))
}

// buildPrompt asks for one coordinate list per caption so crops can follow
// the narration.
func buildPrompt(captions []string) string {
	var b strings.Builder
	b.WriteString("You are looking at a painting that will be shown as a short vertical video with ")
	fmt.Fprintf(&b, "%d scenes. For each scene below, identify the most visually important points ", len(captions))
	b.WriteString("(faces, figures, focal objects) the camera should frame, as normalized coordinates ")
	b.WriteString("where x and y are in [0,1] with (0,0) at the top-left.\n\n")
	for i, caption := range captions {
		fmt.Fprintf(&b, "Scene %d: %s\n", i+1, caption)
	}
	b.WriteString("\nRespond with only JSON of the form ")
	b.WriteString(`{"scenes":[{"subjects":[{"x":0.5,"y":0.3}]}]}`)
	b.WriteString(" with exactly one entry per scene.")
	return b.String()
}

// ParseSubjects extracts per-scene points from the model's reply, tolerating
// a ```json fence around the payload. Invalid points are dropped rather than
// failing the run.
func ParseSubjects(text string, sceneCount int) ([][]types.SubjectPoint, error) {
	raw := stripFence(text)

	var parsed sceneSubjects
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse subject coordinates: %w", err)
	}

	out := make([][]types.SubjectPoint, sceneCount)
	for i := range out {
		if i >= len(parsed.Scenes) {
			break
		}
		for _, p := range parsed.Scenes[i].Subjects {
			if !p.Valid() {
				log.Printf("⚠️  Dropping out-of-range subject point (%.3f, %.3f) for scene %d", p.X, p.Y, i)
				continue
			}
			out[i] = append(out[i], p)
		}
	}
	return out, nil
}

// stripFence unwraps ```json ... ``` blocks, which models emit even when
// told not to.
func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if start := strings.Index(trimmed, "```"); start >= 0 {
		rest := trimmed[start+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return trimmed
}

// encodeUnderCap returns JPEG bytes under maxImageBytes, stepping the
// quality down and halving the resolution as needed.
func encodeUnderCap(path string) ([]byte, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	if len(raw) <= maxImageBytes {
		if mt := sniffMediaType(raw); mt != "" {
			return raw, mt, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	for {
		for quality := 90; quality >= 50; quality -= 10 {
			buf := bytes.NewBuffer(nil)
			if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
				return nil, "", err
			}
			if buf.Len() <= maxImageBytes {
				return buf.Bytes(), "image/jpeg", nil
			}
		}
		bounds := img.Bounds()
		if bounds.Dx() < 256 || bounds.Dy() < 256 {
			return nil, "", fmt.Errorf("image cannot be compressed under %d bytes", maxImageBytes)
		}
		img = halve(img)
	}
}

// halve subsamples every second pixel. Crude but sufficient for a vision
// prompt, which does not need archival quality.
func halve(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()/2, bounds.Dy()/2))
	for y := 0; y < bounds.Dy()/2; y++ {
		for x := 0; x < bounds.Dx()/2; x++ {
			dst.Set(x, y, src.At(bounds.Min.X+x*2, bounds.Min.Y+y*2))
		}
	}
	return dst
}

func sniffMediaType(raw []byte) string {
	switch {
	case len(raw) > 2 && raw[0] == 0xFF && raw[1] == 0xD8:
		return "image/jpeg"
	case len(raw) > 8 && string(raw[1:4]) == "PNG":
		return "image/png"
	case len(raw) > 3 && string(raw[:3]) == "GIF":
		return "image/gif"
	}
	return ""
}
