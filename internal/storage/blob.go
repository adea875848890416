// Package storage archives uploaded source documents in a blob store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizdoc/internal/config"
)

// BlobStore is a flat key/value store for uploaded files.
type BlobStore interface {
	// Put writes r under key and returns the canonical key.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// URL returns a link to the object: file:// for the filesystem store,
	// a presigned GET for S3.
	URL(ctx context.Context, key string) (string, error)
}

// New builds the store selected by cfg.Backend. It returns (nil, nil)
// when archiving is disabled.
func New(ctx context.Context, cfg config.ArchiveConfig) (BlobStore, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "fs":
		return NewFSStore(cfg.Dir)
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			UsePathStyle:    cfg.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

// ArchiveKey builds "<prefix>/<yyyy>/<mm>/<dd>/<uuid>-<name>" for an upload.
// The file name is reduced to its base and stripped of separators.
func ArchiveKey(prefix, name string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	key := fmt.Sprintf("%s/%s-%s", now.UTC().Format("2006/01/02"), uuid.NewString(), base)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}
