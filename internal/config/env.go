package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	SslCertPath string

	AwsAccessKey   string
	AwsSecretKey   string
	AwsRegion      string
	AwsEndpoint    string // S3-compatible endpoint (e.g. Cloudflare R2); empty for AWS
	S3UsePathStyle bool

	AIAPIKey      string
	EmbedProvider string
	EmbedModel    string
	EmbedDim      int
	LLMProvider   string
	GenModel      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIEmbed   string
	MaxTokens     int

	ChunkSize        int
	ChunkOverlap     int
	FetchTimeout     time.Duration
	ClassifyTimeout  time.Duration
	EmbedTimeout     time.Duration
	PersistTimeout   time.Duration
	MaxDocumentBytes int64
	ReplaceExisting  bool
	IngestWorkers    int

	Port        string
	JWTSecret   string
	CorsOrigins []string

	LogLevel  string
	LogFormat string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() (*Config, error) {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SslCertPath: getEnv("SSL_CERT_PATH", ""),

		AwsAccessKey:   getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:   getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:      getEnv("AWS_REGION", "auto"),
		AwsEndpoint:    getEnv("AWS_ENDPOINT_URL", ""),
		S3UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", false),

		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		EmbedProvider: strings.ToLower(getEnv("EMBED_PROVIDER", "gemini")),
		EmbedModel:    getEnv("EMBED_MODEL", "gemini-embedding-001"),
		EmbedDim:      getEnvInt("EMBED_DIM", 0),
		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		GenModel:      getEnv("GEN_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIEmbed:   getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		MaxTokens:     getEnvInt("LLM_MAX_TOKENS", 4096),

		ChunkSize:        getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 200),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 60*time.Second),
		ClassifyTimeout:  getEnvDuration("CLASSIFY_TIMEOUT", 90*time.Second),
		EmbedTimeout:     getEnvDuration("EMBED_TIMEOUT", 60*time.Second),
		PersistTimeout:   getEnvDuration("PERSIST_TIMEOUT", 30*time.Second),
		MaxDocumentBytes: int64(getEnvInt("MAX_DOCUMENT_BYTES", 50<<20)),
		ReplaceExisting:  getEnvBool("INGEST_REPLACE_EXISTING", false),
		IngestWorkers:    getEnvInt("INGEST_WORKERS", 2),

		Port:        getEnv("PORT", "8000"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CorsOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg, nil
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a bool, using default %t", key, v, def)
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
