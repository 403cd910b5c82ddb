package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mapgen/internal/mapname"
)

// fakeDownloader lands the executable on disk (or fails) and counts fetches
// per version.
type fakeDownloader struct {
	mu      sync.Mutex
	destDir string
	calls   map[string]int

	failWith error
	hold     chan struct{} // when set, Fetch blocks until closed
}

func newFakeDownloader(destDir string) *fakeDownloader {
	return &fakeDownloader{destDir: destDir, calls: map[string]int{}}
}

func (d *fakeDownloader) Fetch(_ context.Context, version string) error {
	d.mu.Lock()
	d.calls[version]++
	hold := d.hold
	d.mu.Unlock()

	if hold != nil {
		<-hold
	}
	if d.failWith != nil {
		return d.failWith
	}
	return os.WriteFile(filepath.Join(d.destDir, mapname.ExecutableName(version)), []byte("jar"), 0o644)
}

func (d *fakeDownloader) fetches(version string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[version]
}

func (d *fakeDownloader) totalFetches() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		n += c
	}
	return n
}

func TestEnsureAvailableRejectsInvalidVersionBeforeFetch(t *testing.T) {
	cache := NewCache(t.TempDir(), testLogger())
	dl := newFakeDownloader(cache.Root())
	coord := NewCoordinator(cache, dl, testLogger())

	for _, v := range []string{"", "1.2", "1234.1.1", "a.b.c", "neroxis_map_generator_0.1.1_42"} {
		err := coord.EnsureAvailable(context.Background(), v)
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Fatalf("version %q: err = %v, want ErrUnsupportedVersion", v, err)
		}
	}
	if n := dl.totalFetches(); n != 0 {
		t.Fatalf("fetches = %d, want 0", n)
	}
}

func TestEnsureAvailableCacheHitSkipsFetch(t *testing.T) {
	cache := NewCache(t.TempDir(), testLogger())
	if err := os.WriteFile(cache.ExecutablePath("0.1.1"), []byte("jar"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	dl := newFakeDownloader(cache.Root())
	coord := NewCoordinator(cache, dl, testLogger())

	if err := coord.EnsureAvailable(context.Background(), "0.1.1"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if n := dl.fetches("0.1.1"); n != 0 {
		t.Fatalf("fetches = %d, want 0", n)
	}
}

func TestEnsureAvailableFetchesOnceAcrossConcurrentCallers(t *testing.T) {
	cache := NewCache(t.TempDir(), testLogger())
	dl := newFakeDownloader(cache.Root())
	dl.hold = make(chan struct{})
	coord := NewCoordinator(cache, dl, testLogger())

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- coord.EnsureAvailable(context.Background(), "9.9.9")
		}()
	}

	// Give every caller time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(dl.hold)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("caller err = %v, want nil", err)
		}
	}
	if n := dl.fetches("9.9.9"); n != 1 {
		t.Fatalf("fetches = %d, want exactly 1", n)
	}
	if !cache.Exists("9.9.9") {
		t.Fatal("executable not present after fetch")
	}
}

func TestEnsureAvailableDistinctVersionsFetchIndependently(t *testing.T) {
	cache := NewCache(t.TempDir(), testLogger())
	dl := newFakeDownloader(cache.Root())
	coord := NewCoordinator(cache, dl, testLogger())

	var wg sync.WaitGroup
	for _, v := range []string{"1.0.0", "2.0.0", "3.0.0"} {
		wg.Add(1)
		go func(version string) {
			defer wg.Done()
			if err := coord.EnsureAvailable(context.Background(), version); err != nil {
				t.Errorf("ensure %s: %v", version, err)
			}
		}(v)
	}
	wg.Wait()

	for _, v := range []string{"1.0.0", "2.0.0", "3.0.0"} {
		if n := dl.fetches(v); n != 1 {
			t.Fatalf("fetches(%s) = %d, want 1", v, n)
		}
	}
}

func TestEnsureAvailableSharesFetchFailure(t *testing.T) {
	cache := NewCache(t.TempDir(), testLogger())
	dl := newFakeDownloader(cache.Root())
	dl.failWith = fmt.Errorf("connection reset")
	dl.hold = make(chan struct{})
	coord := NewCoordinator(cache, dl, testLogger())

	const callers = 4
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- coord.EnsureAvailable(context.Background(), "9.9.9")
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(dl.hold)
	wg.Wait()
	close(errs)

	for err := range errs {
		if !errors.Is(err, ErrFetchFailed) {
			t.Fatalf("caller err = %v, want ErrFetchFailed", err)
		}
	}

	// A later, non-concurrent caller sees the same terminal failure and no
	// new fetch is issued.
	if err := coord.EnsureAvailable(context.Background(), "9.9.9"); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("late caller err = %v, want ErrFetchFailed", err)
	}
	if n := dl.fetches("9.9.9"); n != 1 {
		t.Fatalf("fetches = %d, want exactly 1", n)
	}
}

func TestEnsureAvailableCallerStopsWaitingOnContextEnd(t *testing.T) {
	cache := NewCache(t.TempDir(), testLogger())
	dl := newFakeDownloader(cache.Root())
	dl.hold = make(chan struct{})
	coord := NewCoordinator(cache, dl, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := coord.EnsureAvailable(ctx, "9.9.9"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	// The abandoned fetch completes and serves later callers.
	close(dl.hold)
	if err := coord.EnsureAvailable(context.Background(), "9.9.9"); err != nil {
		t.Fatalf("later caller err = %v", err)
	}
	if n := dl.fetches("9.9.9"); n != 1 {
		t.Fatalf("fetches = %d, want exactly 1", n)
	}
}
