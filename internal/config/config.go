package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mapgen/internal/mapname"
)

// Config carries everything the generation service needs at construction
// time: filesystem roots, execution limits, and the artifact store the
// generator executables are fetched from.
type Config struct {
	// CacheDir is the directory generator executables are cached in.
	CacheDir string
	// OutputDir is the directory generated maps land in. Empty disables
	// the start-up sweep of leftover generated maps.
	OutputDir string
	// GenerationTimeout bounds a single generation job.
	GenerationTimeout time.Duration
	// MaxWorkers bounds concurrently running submitted tasks.
	MaxWorkers int
	// JavaBin launches the generator executable.
	JavaBin string

	Store StoreConfig
}

// StoreConfig describes the object store holding generator executables.
type StoreConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads configuration from the environment, loading a .env file first
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cacheDir := strings.TrimSpace(os.Getenv("MAPGEN_CACHE_DIR"))
	if cacheDir == "" {
		cacheDir = filepath.Join("data", mapname.CacheSubDir)
	}

	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("MAPGEN_GENERATION_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, &ValueError{Key: "MAPGEN_GENERATION_TIMEOUT", Value: raw}
		}
		timeout = d
	}

	workers := 4
	if raw := strings.TrimSpace(os.Getenv("MAPGEN_MAX_WORKERS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, &ValueError{Key: "MAPGEN_MAX_WORKERS", Value: raw}
		}
		workers = n
	}

	return &Config{
		CacheDir:          cacheDir,
		OutputDir:         strings.TrimSpace(os.Getenv("MAPGEN_OUTPUT_DIR")),
		GenerationTimeout: timeout,
		MaxWorkers:        workers,
		JavaBin:           firstNonEmpty(strings.TrimSpace(os.Getenv("MAPGEN_JAVA")), "java"),
		Store:             loadStoreConfig(),
	}, nil
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Endpoint:  strings.TrimSpace(os.Getenv("MAPGEN_S3_ENDPOINT")),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("MAPGEN_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("MAPGEN_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("MAPGEN_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("MAPGEN_S3_BUCKET")), "mapgen-artifacts"),
		UseSSL:    resolveUseSSL(),
	}
}

func resolveUseSSL() bool {
	raw := strings.TrimSpace(os.Getenv("MAPGEN_S3_USE_SSL"))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

// ValueError reports an environment variable that could not be parsed.
type ValueError struct {
	Key   string
	Value string
}

func (e *ValueError) Error() string {
	return "config: invalid " + e.Key + ": " + strconv.Quote(e.Value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
