package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tna-cash/treatsend/pkg/receipt"
)

// ErrNotFound is returned when a batch record does not exist.
var ErrNotFound = errors.New("batch not found")

// BatchRecord is the persisted history entry for one completed
// transfer batch: the ordered receipts plus session context.
type BatchRecord struct {
	ID          string            `json:"id"`
	RelayURL    string            `json:"relay_url"`
	SenderNpub  string            `json:"sender_npub"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
	Receipts    []receipt.Receipt `json:"receipts"`
}

// Summary aggregates the record's receipt outcomes.
func (b *BatchRecord) Summary() receipt.Summary {
	return receipt.Summarize(b.Receipts)
}

// BatchInfo is the listing view of a batch record.
type BatchInfo struct {
	ID          string    `json:"id"`
	RelayURL    string    `json:"relay_url"`
	SenderNpub  string    `json:"sender_npub"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Total       int       `json:"total"`
	Published   int       `json:"published"`
	Rejected    int       `json:"rejected"`
	Failed      int       `json:"failed"`
}

// Info derives the listing view of a record.
func (b *BatchRecord) Info() BatchInfo {
	s := b.Summary()
	return BatchInfo{
		ID:          b.ID,
		RelayURL:    b.RelayURL,
		SenderNpub:  b.SenderNpub,
		StartedAt:   b.StartedAt,
		CompletedAt: b.CompletedAt,
		Total:       s.Total,
		Published:   s.Published,
		Rejected:    s.Rejected,
		Failed:      s.Failed,
	}
}

// BatchRepository defines the interface for batch history persistence.
type BatchRepository interface {
	// Save persists a complete batch record (replaces existing).
	Save(ctx context.Context, batch *BatchRecord) error

	// Get retrieves a batch by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*BatchRecord, error)

	// List returns summary information for all batches, most recent
	// first.
	List(ctx context.Context) ([]BatchInfo, error)

	// Delete removes a batch permanently. Returns ErrNotFound when
	// absent.
	Delete(ctx context.Context, id string) error
}
