package generator

import (
	"context"
	"fmt"
	"sync"

	"mapgen/internal/download"
	"mapgen/internal/logging"
	"mapgen/internal/mapname"
)

// Coordinator ensures the generator executable for a version is present
// locally, issuing at most one download per version for its lifetime.
//
// Per version the coordinator moves through: unchecked, then either
// cached-present (executable already on disk, no fetch) or a single fetch
// whose outcome — success or failure — is shared by every caller, concurrent
// or later. Fetch state is transient; it is not persisted across restarts.
type Coordinator struct {
	cache      *Cache
	downloader download.Downloader
	log        *logging.Logger

	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	done chan struct{}
	err  error
}

// NewCoordinator creates a coordinator over the given cache and downloader.
func NewCoordinator(cache *Cache, downloader download.Downloader, log *logging.Logger) *Coordinator {
	return &Coordinator{
		cache:      cache,
		downloader: downloader,
		log:        log,
		flights:    make(map[string]*flight),
	}
}

// EnsureAvailable returns once the executable for version is verified
// present, fetching it first if needed. An invalid version is rejected
// before any disk or network access. Concurrent callers for the same
// version share one fetch; callers for distinct versions proceed
// independently. If the shared fetch failed, every caller for that version
// gets the same failure; the fetch is not reissued.
//
// A caller whose ctx ends stops waiting, but an in-flight fetch runs to
// completion regardless.
func (c *Coordinator) EnsureAvailable(ctx context.Context, version string) error {
	if !mapname.ValidVersion(version) {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}

	// The lookup, existence check, and flight creation form one critical
	// section: exactly one caller can observe a miss with no flight and
	// become the fetcher.
	c.mu.Lock()
	if f, ok := c.flights[version]; ok {
		c.mu.Unlock()
		return await(ctx, f)
	}
	if c.cache.Exists(version) {
		c.mu.Unlock()
		c.log.Debug("found MapGenerator version %s", version)
		return nil
	}
	f := &flight{done: make(chan struct{})}
	c.flights[version] = f
	c.mu.Unlock()

	c.log.Info("downloading MapGenerator version %s", version)
	go func() {
		if err := c.downloader.Fetch(context.WithoutCancel(ctx), version); err != nil {
			f.err = fmt.Errorf("%w: version %s: %w", ErrFetchFailed, version, err)
			c.log.Error("download MapGenerator version %s: %v", version, err)
		}
		close(f.done)
	}()
	return await(ctx, f)
}

func await(ctx context.Context, f *flight) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
