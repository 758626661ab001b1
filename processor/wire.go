package processor

import (
	"context"
	"log"
	"strings"

	"github.com/GOMDJ/shorts-art/captions"
	"github.com/GOMDJ/shorts-art/common"
	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/kafka"
	"github.com/GOMDJ/shorts-art/store"
	"github.com/GOMDJ/shorts-art/upload"
	"github.com/GOMDJ/shorts-art/vision"
)

// Wire builds a processor with every collaborator the environment provides.
// Missing credentials degrade the pipeline rather than failing startup: no
// Redis means no run history, no service account means no YouTube uploads.
func Wire(ctx context.Context, cfg config.Config) *Processor {
	p := New(cfg)

	if cfg.VisionAPIKey != "" {
		p.Vision = vision.NewClient(cfg.VisionAPIURL, cfg.VisionAPIKey, "")
		log.Println("✅ Vision client initialized")
	} else {
		log.Println("⚠️  VISION_API_KEY not set; crops will center on the painting")
	}

	if gen, err := captions.NewGenerator(cfg.CohereAPIKey, ""); err == nil {
		p.Captions = gen
		log.Println("✅ Caption generator initialized")
	} else {
		log.Printf("⚠️  Caption generation disabled: %v", err)
	}

	if runs, err := store.New(cfg.RedisAddr, cfg.RedisPassword); err == nil {
		p.Runs = runs
		log.Println("✅ Run store connected")
	} else {
		log.Printf("⚠️  Run store disabled: %v", err)
	}

	if cfg.S3Bucket != "" {
		if s3Client, err := common.NewS3(ctx, common.S3Config{Region: cfg.S3Region}); err == nil {
			p.Artifacts = s3Client
			log.Println("✅ S3 artifact store initialized")
		} else {
			log.Printf("⚠️  S3 artifacts disabled: %v", err)
		}
	}

	if cfg.ServiceAccount != "" {
		if uploader, err := upload.NewUploader(cfg.ServiceAccount); err == nil {
			p.Uploader = uploader
			log.Println("✅ YouTube client initialized")
		} else {
			log.Printf("⚠️  YouTube upload disabled: %v", err)
		}
	}

	return p
}

// WireResultProducer attaches a Kafka result publisher when brokers are
// configured. Separate from Wire because only the worker publishes results.
func WireResultProducer(p *Processor, cfg config.Config) *kafka.Producer {
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	producer, err := kafka.NewProducer(brokers, cfg.KafkaTopic+"-results")
	if err != nil {
		log.Printf("⚠️  Result publishing disabled: %v", err)
		return nil
	}
	p.Publisher = producer
	return producer
}
