// Package upload publishes finished shorts to YouTube.
package upload

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/GOMDJ/shorts-art/config"
)

// Metadata describes the published video.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
}

// Uploader wraps the YouTube Data API client.
type Uploader struct {
	service *youtube.Service
}

// NewUploader authenticates with a service account JSON file.
func NewUploader(serviceAccountFile string) (*Uploader, error) {
	ctx := context.Background()

	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &Uploader{service: service}, nil
}

// UploadVideo uploads the rendered short and returns the video ID.
func (u *Uploader) UploadVideo(videoPath string, metadata Metadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}
	log.Printf("📤 Uploading: %s (%.2f MB)", videoPath, float64(info.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  metadata.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           config.YouTubePrivacyStatus,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, video).Media(file)
	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	log.Printf("✅ Uploaded! https://youtube.com/shorts/%s", response.Id)
	return response.Id, nil
}

// GenerateMetadata builds the listing for an artwork short.
func GenerateMetadata(title, artist string) Metadata {
	videoTitle := title
	if artist != "" {
		videoTitle = fmt.Sprintf("%s by %s", title, artist)
	}
	if len(videoTitle) > 100 {
		videoTitle = videoTitle[:97] + "..."
	}

	description := fmt.Sprintf("%s\n\n🎨 Follow for a new painting every day!\n#art #painting #arthistory #shorts", videoTitle)

	return Metadata{
		Title:       videoTitle,
		Description: description,
		Tags:        []string{"art", "painting", "art history", "museum", "art shorts"},
		CategoryID:  config.YouTubeCategoryID,
	}
}
