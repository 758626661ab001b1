// Package captions generates scene narration when a render request arrives
// without a captions list.
package captions

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// DefaultSceneCount is used when the caller does not care how many scenes
// the short has.
const DefaultSceneCount = 6

// Generator produces per-scene captions about a painting via the Cohere
// chat API.
type Generator struct {
	client *cohereclient.Client
	model  string
}

// NewGenerator builds a caption generator. Model defaults to command-r when
// empty.
func NewGenerator(apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("COHERE_API_KEY not configured")
	}
	if model == "" {
		model = "command-r-08-2024"
	}
	client := cohereclient.NewClient(cohereclient.WithToken(apiKey))
	return &Generator{client: client, model: model}, nil
}

// Generate asks for sceneCount short caption lines about the artwork. The
// reply is parsed line by line; numbering and bullets are stripped.
func (g *Generator) Generate(ctx context.Context, title, artist string, sceneCount int) ([]string, error) {
	if sceneCount < 1 {
		sceneCount = DefaultSceneCount
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	prompt := buildPrompt(title, artist, sceneCount)
	resp, err := g.client.Chat(ctx, &cohere.ChatRequest{
		Message: prompt,
		Model:   &g.model,
	})
	if err != nil {
		return nil, fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || resp.Text == "" {
		return nil, fmt.Errorf("cohere chat returned empty response")
	}

	captions := ParseLines(resp.Text, sceneCount)
	if len(captions) < sceneCount {
		return nil, fmt.Errorf("expected %d captions, parsed %d", sceneCount, len(captions))
	}
	log.Printf("✅ Generated %d captions for %q", len(captions), title)
	return captions, nil
}

func buildPrompt(title, artist string, sceneCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d short caption lines for a vertical short-form video about the painting %q", sceneCount, title)
	if artist != "" {
		fmt.Fprintf(&b, " by %s", artist)
	}
	b.WriteString(". Each line is one scene: vivid, under 12 words, no hashtags, no emoji. ")
	b.WriteString("Return exactly one caption per line with no numbering and no extra text.")
	return b.String()
}

// ParseLines splits the model reply into at most max caption lines, dropping
// blank lines and leading list markers.
func ParseLines(text string, max int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		line = stripNumbering(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}

// stripNumbering removes "1." / "2)" style prefixes.
func stripNumbering(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}
