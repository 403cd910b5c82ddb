// Package mapname parses and formats the canonical names of generated maps.
//
// A generated map is identified by the generator version that produced it and
// the seed it was produced from. Both directions of the mapping are exposed:
// Encode builds the on-disk name for a (version, seed) pair and Decode
// recovers the pair from a name. The server expects lower case names.
package mapname

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	// Prefix is the leading token of every generated map name.
	Prefix = "neroxis_map_generator"

	// DefaultVersion is used when the caller does not request a version.
	DefaultVersion = "0.1.1"

	// executableFormat is the file name of the generator executable for a
	// given version, resolved under the cache root.
	executableFormat = "MapGenerator_%s.jar"

	// CacheSubDir is the cache-root subdirectory holding generator
	// executables.
	CacheSubDir = "map_generator"
)

var (
	versionPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	namePattern    = regexp.MustCompile(`^` + Prefix + `_(\d{1,3}\.\d{1,3}\.\d{1,3})_(-?\d+)$`)
)

// ErrNotGeneratedName reports that a string is not a generated map name.
// Callers probing arbitrary folder names hit this routinely; it is a
// recoverable outcome, not a defect.
var ErrNotGeneratedName = fmt.Errorf("not a generated map name")

// Request is a decoded generation request.
type Request struct {
	Version string
	Seed    int64
}

// ValidVersion reports whether s matches the numeric-triplet version grammar
// (each component 1-3 digits, dot separated).
func ValidVersion(s string) bool {
	return versionPattern.MatchString(s)
}

// Encode formats the canonical name for a version and seed. The version is
// passed through untouched; callers validate it first.
func Encode(version string, seed int64) string {
	return fmt.Sprintf("%s_%s_%d", Prefix, version, seed)
}

// Decode parses a canonical name back into its version and seed. It returns
// an error wrapping ErrNotGeneratedName when name does not match the grammar.
func Decode(name string) (Request, error) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return Request{}, fmt.Errorf("%q: %w", name, ErrNotGeneratedName)
	}
	seed, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		// Seed digits overflow int64; same outcome as a grammar miss.
		return Request{}, fmt.Errorf("%q: %w", name, ErrNotGeneratedName)
	}
	return Request{Version: m[1], Seed: seed}, nil
}

// IsGeneratedName reports whether name is a canonical generated map name.
func IsGeneratedName(name string) bool {
	_, err := Decode(name)
	return err == nil
}

// ExecutableName returns the generator executable file name for a version.
func ExecutableName(version string) string {
	return fmt.Sprintf(executableFormat, version)
}
