package generator

import "errors"

var (
	// ErrUnsupportedVersion reports a version string outside the supported
	// numeric-triplet grammar. Rejected before any disk or network access.
	ErrUnsupportedVersion = errors.New("unsupported generator version")

	// ErrFetchFailed reports that downloading the generator executable
	// failed. The download is not retried here.
	ErrFetchFailed = errors.New("generator download failed")

	// ErrGenerationTimeout reports a generation job that exceeded its time
	// bound.
	ErrGenerationTimeout = errors.New("map generation timed out")

	// ErrGenerationFailed reports a generation job that exited abnormally.
	ErrGenerationFailed = errors.New("map generation failed")

	// ErrCleanupPartial reports that one or more leftover generated maps
	// could not be deleted during the start-up sweep. It never propagates
	// to generation requests.
	ErrCleanupPartial = errors.New("stale map cleanup incomplete")
)
