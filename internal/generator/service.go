// Package generator orchestrates map generation: it caches generator
// executables by version, downloads a missing executable exactly once, runs
// the generation job on a shared task runner, and names the output after the
// (version, seed) pair that produced it.
package generator

import (
	"context"
	"time"

	"mapgen/internal/download"
	"mapgen/internal/logging"
	"mapgen/internal/mapname"
)

// ServiceConfig carries the construction-time settings of the service.
type ServiceConfig struct {
	// CacheDir holds generator executables.
	CacheDir string
	// OutputDir receives generated maps. Empty disables the start-up
	// sweep of leftovers from prior runs.
	OutputDir string
	// DefaultVersion is used by Generate. Empty falls back to the
	// built-in default.
	DefaultVersion string
	// GenerationTimeout bounds one generation job. <= 0 uses the default.
	GenerationTimeout time.Duration
	// JavaBin launches the generator executable. Empty uses "java".
	JavaBin string
}

// Service is the public entry point for map generation.
type Service struct {
	cache          *Cache
	coordinator    *Coordinator
	executor       *Executor
	seeds          SeedSource
	defaultVersion string
}

// NewService wires the service from its collaborators. It creates the cache
// root and sweeps leftover generated maps from the output directory before
// returning, so no stale output from a crashed run is visible to later
// requests. A partial sweep is logged and does not fail construction.
func NewService(cfg ServiceConfig, downloader download.Downloader, runner Submitter, seeds SeedSource, log *logging.Logger) *Service {
	cache := NewCache(cfg.CacheDir, log)
	if err := SweepStaleOutputs(cfg.OutputDir, log); err != nil {
		log.Warn("start-up sweep: %v", err)
	}

	defaultVersion := cfg.DefaultVersion
	if defaultVersion == "" {
		defaultVersion = mapname.DefaultVersion
	}
	if seeds == nil {
		seeds = NewSeedSource()
	}

	return &Service{
		cache:          cache,
		coordinator:    NewCoordinator(cache, downloader, log),
		executor:       NewExecutor(runner, cfg.OutputDir, cfg.JavaBin, cfg.GenerationTimeout, log),
		seeds:          seeds,
		defaultVersion: defaultVersion,
	}
}

// Generate produces a map with the default generator version and a freshly
// drawn seed, returning the generated map's name.
func (s *Service) Generate(ctx context.Context) (string, error) {
	return s.GenerateVersion(ctx, s.defaultVersion, s.seeds.Next())
}

// GenerateFromName re-generates the map a canonical name describes. A name
// outside the grammar fails before any work is scheduled.
func (s *Service) GenerateFromName(ctx context.Context, name string) (string, error) {
	req, err := mapname.Decode(name)
	if err != nil {
		return "", err
	}
	return s.GenerateVersion(ctx, req.Version, req.Seed)
}

// GenerateVersion produces a map for an explicit version and seed. The
// version is validated first; then the executable is made available
// (downloaded at most once across the service lifetime) and the generation
// job runs. The first failing stage short-circuits the rest, and every
// failure arrives through this single error return.
func (s *Service) GenerateVersion(ctx context.Context, version string, seed int64) (string, error) {
	if err := s.coordinator.EnsureAvailable(ctx, version); err != nil {
		return "", err
	}
	return s.executor.Run(ctx, version, seed, s.cache.ExecutablePath(version))
}

// IsGeneratedName reports whether name denotes a map produced by this
// generation pipeline.
func (s *Service) IsGeneratedName(name string) bool {
	return mapname.IsGeneratedName(name)
}
