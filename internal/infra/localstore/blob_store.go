// Package localstore implements device-local key/value storage on a gocloud.dev blob bucket.
package localstore

import (
	"context"
	"log/slog"

	"bistro/config"
	"bistro/internal/domain/lifecycle"
	"bistro/internal/domain/repository"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"
)

const contentTypeJSON = "application/json"

// Params defines the parameters required for the local store
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// blobStore implements repository.LocalStore. Each key is one object in the bucket.
type blobStore struct {
	bucket *blob.Bucket
}

// New opens the bucket named by localStorage.url and closes it on stop.
func New(params Params) (repository.LocalStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, params.Config.LocalStorage.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open local storage bucket %q", params.Config.LocalStorage.URL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if err := bucket.Close(); err != nil {
				params.Logger.Warn("Failed to close local storage bucket", slog.Any("error", err))

				return errors.Wrap(err, "failed to close local storage bucket")
			}

			return nil
		},
	})

	return NewBlobStore(bucket), nil
}

// NewBlobStore wraps an already opened bucket.
func NewBlobStore(bucket *blob.Bucket) repository.LocalStore {
	return &blobStore{bucket: bucket}
}

// Get returns the value stored under key or repository.ErrKeyNotFound.
func (s *blobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, repository.ErrKeyNotFound
		}

		return nil, errors.Wrapf(err, "failed to read local key %q", key)
	}

	return data, nil
}

// Set stores value under key, replacing any previous value.
func (s *blobStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.bucket.WriteAll(ctx, key, value, &blob.WriterOptions{ContentType: contentTypeJSON}); err != nil {
		return errors.Wrapf(err, "failed to write local key %q", key)
	}

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "failed to delete local key %q", key)
	}

	return nil
}
