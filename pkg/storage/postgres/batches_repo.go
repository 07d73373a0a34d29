package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tna-cash/treatsend/pkg/receipt"
	"github.com/tna-cash/treatsend/pkg/storage/repository"
)

type batchRepository struct {
	db dbExecutor
}

// dbExecutor is an interface that works with both *sql.DB and *sql.Tx
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// NewBatchRepository creates a new PostgreSQL batch repository.
func NewBatchRepository(db dbExecutor) repository.BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Save(ctx context.Context, batch *repository.BatchRecord) error {
	if batch == nil || batch.ID == "" {
		return fmt.Errorf("batch record requires an ID")
	}

	receiptsJSON, err := json.Marshal(batch.Receipts)
	if err != nil {
		return fmt.Errorf("failed to marshal receipts: %w", err)
	}

	query := `INSERT INTO batches (id, relay_url, sender_npub, started_at, completed_at, receipts)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (id) DO UPDATE SET
	              relay_url = EXCLUDED.relay_url,
	              sender_npub = EXCLUDED.sender_npub,
	              started_at = EXCLUDED.started_at,
	              completed_at = EXCLUDED.completed_at,
	              receipts = EXCLUDED.receipts`

	_, err = r.db.ExecContext(ctx, query,
		batch.ID, batch.RelayURL, batch.SenderNpub,
		batch.StartedAt, batch.CompletedAt, receiptsJSON,
	)
	return err
}

func (r *batchRepository) Get(ctx context.Context, id string) (*repository.BatchRecord, error) {
	query := `SELECT id, relay_url, sender_npub, started_at, completed_at, receipts
	          FROM batches WHERE id = $1`

	var batch repository.BatchRecord
	var receiptsJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&batch.ID,
		&batch.RelayURL,
		&batch.SenderNpub,
		&batch.StartedAt,
		&batch.CompletedAt,
		&receiptsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(receiptsJSON, &batch.Receipts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal receipts: %w", err)
	}
	if batch.Receipts == nil {
		batch.Receipts = []receipt.Receipt{}
	}

	return &batch, nil
}

func (r *batchRepository) List(ctx context.Context) ([]repository.BatchInfo, error) {
	query := `SELECT id, relay_url, sender_npub, started_at, completed_at, receipts
	          FROM batches ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []repository.BatchInfo
	for rows.Next() {
		var batch repository.BatchRecord
		var receiptsJSON []byte
		if err := rows.Scan(
			&batch.ID,
			&batch.RelayURL,
			&batch.SenderNpub,
			&batch.StartedAt,
			&batch.CompletedAt,
			&receiptsJSON,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(receiptsJSON, &batch.Receipts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal receipts for %s: %w", batch.ID, err)
		}
		infos = append(infos, batch.Info())
	}

	return infos, rows.Err()
}

func (r *batchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
