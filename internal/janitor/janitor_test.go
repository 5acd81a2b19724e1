package janitor

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecords struct {
	ids map[string]bool
	err error
}

func (f *fakeRecords) AttachmentIDs(context.Context) (map[string]bool, error) {
	return f.ids, f.err
}

type fakeBlobs struct {
	keys     []string
	failKeys map[string]bool
	deleted  []string
}

func (f *fakeBlobs) List(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for _, k := range f.keys {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	if f.failKeys[key] {
		return errors.New("boom")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only orphans", func(t *testing.T) {
		blobs := &fakeBlobs{keys: []string{
			"attachments/rep-1/att-1",
			"attachments/rep-1/att-2",
			"attachments/rep-2/att-3",
		}}
		records := &fakeRecords{ids: map[string]bool{"att-1": true, "att-3": true}}

		removed, err := NewSweeper(records, blobs).Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.Equal(t, []string{"attachments/rep-1/att-2"}, blobs.deleted)
	})

	t.Run("malformed keys are skipped", func(t *testing.T) {
		blobs := &fakeBlobs{keys: []string{"attachments/stray"}}
		records := &fakeRecords{ids: map[string]bool{}}

		removed, err := NewSweeper(records, blobs).Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.Empty(t, blobs.deleted)
	})

	t.Run("one failed delete does not stop the sweep", func(t *testing.T) {
		blobs := &fakeBlobs{
			keys: []string{
				"attachments/rep-1/att-1",
				"attachments/rep-1/att-2",
			},
			failKeys: map[string]bool{"attachments/rep-1/att-1": true},
		}
		records := &fakeRecords{ids: map[string]bool{}}

		removed, err := NewSweeper(records, blobs).Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		sort.Strings(blobs.deleted)
		assert.Equal(t, []string{"attachments/rep-1/att-2"}, blobs.deleted)
	})

	t.Run("record store failure aborts before any delete", func(t *testing.T) {
		blobs := &fakeBlobs{keys: []string{"attachments/rep-1/att-1"}}
		records := &fakeRecords{err: errors.New("db down")}

		_, err := NewSweeper(records, blobs).Sweep(ctx)
		require.Error(t, err)
		assert.Empty(t, blobs.deleted)
	})
}
