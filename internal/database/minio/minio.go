package minio

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"prediction-api/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArtifactStore resolves stored image/raster references to fetchable URLs.
// Rasters produced by the prediction pipeline live in object storage and are
// referenced by object key; already-absolute URLs pass through untouched.
type ArtifactStore struct {
	client *minio.Client
	config config.MinioConfig
}

// Storage defines bucket names used by the prediction pipeline.
var Storage = struct {
	Rasters string
	Scenes  string
}{
	Rasters: "prediction-rasters",
	Scenes:  "scene-archives",
}

var BucketNames = []string{
	Storage.Rasters,
	Storage.Scenes,
}

const presignExpiry = 1 * time.Hour

// NewArtifactStore initializes the MinIO client and ensures the pipeline
// buckets exist. Returns (nil, nil) when no endpoint is configured; a nil
// store passes URLs through unchanged.
func NewArtifactStore(cfg config.MinioConfig) (*ArtifactStore, error) {
	if cfg.MinioURL == "" {
		return nil, nil
	}

	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		log.Printf("Invalid value for MinIO secure flag: %v. Defaulting to false.", err)
		isSecure = false
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}
	log.Printf("Connected to MinIO at %s", cfg.MinioURL)

	store := &ArtifactStore{client: client, config: cfg}
	if err := store.ensureBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure buckets: %w", err)
	}
	return store, nil
}

func (s *ArtifactStore) ensureBuckets(ctx context.Context) error {
	for _, bucket := range BucketNames {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if !exists {
			err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.config.MinioLocation})
			if err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
			log.Printf("Created bucket %s", bucket)
		}
	}
	return nil
}

// ResolveURL turns a stored artifact reference into a fetchable URL. Object
// keys ("bucket/object/path") become presigned GET URLs; absolute URLs are
// returned unchanged. Resolution failures fall back to the raw reference.
func (s *ArtifactStore) ResolveURL(ctx context.Context, ref string) string {
	if s == nil || IsAbsoluteURL(ref) {
		return ref
	}

	bucket, object, ok := splitObjectKey(ref)
	if !ok {
		return ref
	}

	presigned, err := s.client.PresignedGetObject(ctx, bucket, object, presignExpiry, url.Values{})
	if err != nil {
		log.Printf("failed to presign %s: %v", ref, err)
		return ref
	}
	return presigned.String()
}

func IsAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func splitObjectKey(ref string) (bucket, object string, ok bool) {
	parts := strings.SplitN(strings.TrimPrefix(ref, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
