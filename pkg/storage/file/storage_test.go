package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tna-cash/treatsend/pkg/receipt"
	"github.com/tna-cash/treatsend/pkg/storage/repository"
	"github.com/tna-cash/treatsend/pkg/task"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fs.Connect(context.Background()))
	t.Cleanup(func() { fs.Close() })
	return fs
}

func sampleBatch(id string, startedAt time.Time) *repository.BatchRecord {
	tk := task.Task{Address: "npub1aaa", Token: "SATS", Amount: 100}
	return &repository.BatchRecord{
		ID:          id,
		RelayURL:    "wss://relay.test",
		SenderNpub:  "npub1sender",
		StartedAt:   startedAt,
		CompletedAt: startedAt.Add(2 * time.Second),
		Receipts: []receipt.Receipt{
			receipt.Published(tk, "ev1"),
			receipt.Failed(tk, receipt.CauseUnsupportedToken),
		},
	}
}

func TestBatchSaveGetRoundTrip(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	want := sampleBatch("batch-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, fs.Batches().Save(ctx, want))

	got, err := fs.Batches().Get(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.RelayURL, got.RelayURL)
	assert.Equal(t, want.SenderNpub, got.SenderNpub)
	require.Len(t, got.Receipts, 2)
	assert.Equal(t, "ev1", got.Receipts[0].EventID)
	assert.Equal(t, "unsupported token", got.Receipts[1].Error)
}

func TestBatchGetMissing(t *testing.T) {
	fs := newTestStorage(t)

	_, err := fs.Batches().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBatchSaveRejectsPathologicalIDs(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	bad := sampleBatch("../escape", time.Now())
	assert.Error(t, fs.Batches().Save(ctx, bad))

	bad.ID = ""
	assert.Error(t, fs.Batches().Save(ctx, bad))
}

func TestBatchListMostRecentFirst(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, fs.Batches().Save(ctx, sampleBatch("old", base.Add(-time.Hour))))
	require.NoError(t, fs.Batches().Save(ctx, sampleBatch("new", base)))

	infos, err := fs.Batches().List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "new", infos[0].ID)
	assert.Equal(t, "old", infos[1].ID)

	assert.Equal(t, 2, infos[0].Total)
	assert.Equal(t, 1, infos[0].Published)
	assert.Equal(t, 1, infos[0].Rejected)
	assert.Equal(t, 0, infos[0].Failed)
}

func TestBatchDelete(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, fs.Batches().Save(ctx, sampleBatch("batch-1", time.Now())))
	require.NoError(t, fs.Batches().Delete(ctx, "batch-1"))

	_, err := fs.Batches().Get(ctx, "batch-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, fs.Batches().Delete(ctx, "batch-1"), repository.ErrNotFound)
}
