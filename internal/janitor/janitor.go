// Package janitor removes orphaned attachment blobs. A report delete that
// fails partway can leave objects in the bucket with no metadata row; the
// sweeper finds and removes them so retries stay cheap and storage stays
// honest.
package janitor

import (
	"context"
	"log"

	storages3 "github.com/fgc-incentivos/reports-backend/internal/storage/s3"
)

type BlobStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

type RecordStore interface {
	AttachmentIDs(ctx context.Context) (map[string]bool, error)
}

type Sweeper struct {
	store RecordStore
	blobs BlobStore
}

func NewSweeper(store RecordStore, blobs BlobStore) *Sweeper {
	return &Sweeper{store: store, blobs: blobs}
}

// Sweep deletes every object under attachments/ that has no metadata row.
// Returns the number of orphans removed. A delete failure on one key does not
// stop the sweep; the next run picks it up.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	known, err := s.store.AttachmentIDs(ctx)
	if err != nil {
		return 0, err
	}
	keys, err := s.blobs.List(ctx, "attachments/")
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		_, attachmentID, ok := storages3.SplitKey(key)
		if !ok {
			log.Printf("janitor: skipping unexpected key %q", key)
			continue
		}
		if known[attachmentID] {
			continue
		}
		if err := s.blobs.Delete(ctx, key); err != nil {
			log.Printf("janitor: delete %s failed: %v", key, err)
			continue
		}
		removed++
	}
	return removed, nil
}
