package config

import (
	"os"
	"strconv"
)

// Config carries the env-driven settings shared by the API server, the
// render worker, and the studio. Zero values fall back to the constants in
// this package.
type Config struct {
	// Sync
	Strategy         string
	MinSceneInterval float64
	JitterRange      float64

	// Collaborators
	VisionAPIURL   string
	VisionAPIKey   string
	CohereAPIKey   string
	RedisAddr      string
	RedisPassword  string
	S3Bucket       string
	S3Prefix       string
	S3Region       string
	KafkaBrokers   string
	KafkaTopic     string
	KafkaGroupID   string
	ServiceAccount string
}

// Load reads the configuration from the environment. Callers are expected
// to have run godotenv.Load first.
func Load() Config {
	return Config{
		Strategy:         GetEnvOrDefault("SYNC_STRATEGY", "auto"),
		MinSceneInterval: getEnvFloat("MIN_SCENE_INTERVAL", DefaultMinSceneInterval),
		JitterRange:      getEnvFloat("CROP_JITTER_RANGE", DefaultJitterRange),
		VisionAPIURL:     GetEnvOrDefault("VISION_API_URL", "https://api.anthropic.com/v1/messages"),
		VisionAPIKey:     os.Getenv("VISION_API_KEY"),
		CohereAPIKey:     os.Getenv("COHERE_API_KEY"),
		RedisAddr:        GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASS"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Prefix:         GetEnvOrDefault("S3_PREFIX", "shorts-art"),
		S3Region:         os.Getenv("S3_REGION"),
		KafkaBrokers:     GetEnvOrDefault("KAFKA_BOOTSTRAP_SERVERS", "localhost:9093"),
		KafkaTopic:       GetEnvOrDefault("KAFKA_TOPIC_RENDER_REQUESTS", "painting-render-requests"),
		KafkaGroupID:     GetEnvOrDefault("KAFKA_CONSUMER_GROUP_ID", "render-worker-group"),
		ServiceAccount:   os.Getenv("YOUTUBE_SERVICE_ACCOUNT_FILE"),
	}
}

// GetEnvOrDefault returns the environment value or a fallback.
func GetEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
