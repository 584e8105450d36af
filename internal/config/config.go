package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	PostgresDSN   string
	MongoURI      string
	RedisAddr     string
	RabbitURL     string
	JWTSecret     string
	StorageAddr   string
	StorageKey    string
	StorageSecret string
	StorageSSL    bool
	PublicBaseURL string
	GeocodeURL    string
	UploadTimeout time.Duration
	OTLPEndpoint  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	uploadTimeout, _ := time.ParseDuration(os.Getenv("UPLOAD_TIMEOUT"))
	if uploadTimeout == 0 {
		uploadTimeout = 15 * time.Second
	}

	return &Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		MongoURI:      os.Getenv("MONGO_URI"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RabbitURL:     os.Getenv("RABBIT_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		StorageAddr:   os.Getenv("STORAGE_ADDR"),
		StorageKey:    os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecret: os.Getenv("STORAGE_SECRET_KEY"),
		StorageSSL:    os.Getenv("STORAGE_SSL") == "true",
		PublicBaseURL: os.Getenv("STORAGE_PUBLIC_URL"),
		GeocodeURL:    getenv("GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		UploadTimeout: uploadTimeout,
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
