// Package download fetches generator executables into the local cache.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"mapgen/internal/mapname"
)

// Downloader fetches the generator executable for a version into the cache
// directory. Transport failures are opaque to callers and not retried here.
type Downloader interface {
	Fetch(ctx context.Context, version string) error
}

// S3Config configures the object store holding generator executables.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Downloader fetches generator executables from an S3-compatible bucket.
type S3Downloader struct {
	client  *minio.Client
	bucket  string
	destDir string

	versionsCache *expirable.LRU[string, []string]
}

const versionsTTL = time.Minute

// NewS3Downloader creates a downloader that lands executables in destDir.
func NewS3Downloader(cfg S3Config, destDir string) (*S3Downloader, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(destDir) == "" {
		return nil, fmt.Errorf("destination directory is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Downloader{
		client:        client,
		bucket:        bucket,
		destDir:       destDir,
		versionsCache: expirable.NewLRU[string, []string](8, nil, versionsTTL),
	}, nil
}

// Fetch downloads MapGenerator_<version>.jar into the destination directory.
// The object streams to a temporary file first and is renamed into place only
// on full success, so a concurrent existence check never sees a partial
// executable.
func (d *S3Downloader) Fetch(ctx context.Context, version string) error {
	name := mapname.ExecutableName(version)

	obj, err := d.client.GetObject(ctx, d.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get %s: %w", name, err)
	}
	defer obj.Close()

	tmp, err := os.CreateTemp(d.destDir, ".partial-"+name+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, obj); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("download %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(d.destDir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("move %s into place: %w", name, err)
	}
	return nil
}

// Versions lists the generator versions available in the bucket, sorted
// lexically. Listings are cached briefly to keep repeated UI queries off the
// network.
func (d *S3Downloader) Versions(ctx context.Context) ([]string, error) {
	if cached, ok := d.versionsCache.Get(d.bucket); ok {
		return append([]string(nil), cached...), nil
	}

	versions := make([]string, 0, 8)
	for obj := range d.client.ListObjects(ctx, d.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", d.bucket, obj.Err)
		}
		if v, ok := versionFromObjectKey(obj.Key); ok {
			versions = append(versions, v)
		}
	}
	sort.Strings(versions)
	d.versionsCache.Add(d.bucket, append([]string(nil), versions...))
	return versions, nil
}

func versionFromObjectKey(key string) (string, bool) {
	base := strings.TrimSuffix(key, ".jar")
	rest, ok := strings.CutPrefix(base, "MapGenerator_")
	if !ok || len(base) == len(key) {
		return "", false
	}
	if !mapname.ValidVersion(rest) {
		return "", false
	}
	return rest, true
}
