package avatars

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Store removes stored avatar image objects for an account.
type Store interface {
	DeleteAll(ctx context.Context, userID string) error
}

// NewStore builds a GCS-backed store, or a noop store when the bucket is not
// configured or the client cannot be constructed.
func NewStore(ctx context.Context, bucket, credentialsFile string) Store {
	if bucket == "" {
		log.Printf("avatar cleanup disabled, using noop: no bucket configured")
		return noopStore{reason: "no bucket configured"}
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		log.Printf("avatar cleanup disabled, using noop: %v", err)
		return noopStore{reason: err.Error()}
	}

	log.Printf("avatar store ready bucket=%s", bucket)
	return &gcsStore{bucket: client.Bucket(bucket)}
}

type gcsStore struct {
	bucket *storage.BucketHandle
}

// DeleteAll removes every object under the account's avatar namespace.
func (s *gcsStore) DeleteAll(ctx context.Context, userID string) error {
	prefix := "avatars/" + userID + "/"
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list avatar objects: %w", err)
		}
		if err := s.bucket.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("delete avatar object %s: %w", attrs.Name, err)
		}
	}
}

type noopStore struct {
	reason string
}

func (noopStore) DeleteAll(ctx context.Context, userID string) error {
	log.Printf("avatar noop cleanup user_id=%s", userID)
	return nil
}
