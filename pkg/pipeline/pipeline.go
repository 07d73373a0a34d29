package pipeline

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip04"

	"github.com/tna-cash/treatsend/pkg/bus"
	"github.com/tna-cash/treatsend/pkg/logger"
	"github.com/tna-cash/treatsend/pkg/receipt"
	"github.com/tna-cash/treatsend/pkg/relay"
	"github.com/tna-cash/treatsend/pkg/task"
	"github.com/tna-cash/treatsend/pkg/wallet"
)

// Pipeline turns an ordered task sequence into an ordered receipt
// sequence: validate the token kind, encrypt and sign a transfer
// instruction for the fixed recipient, publish it over the session,
// and record the outcome. Tasks are processed strictly sequentially so
// receipts mirror the exact on-wire publish order.
type Pipeline struct {
	wallet     *wallet.Wallet
	session    relay.Publisher
	recipient  string // hex public key
	routingTag string
	events     *bus.EventBus
}

// New builds a pipeline for one sender wallet and one fixed recipient.
// recipientNpub is decoded once up front; a malformed recipient is a
// configuration error, not a per-task one.
func New(w *wallet.Wallet, session relay.Publisher, recipientNpub, routingTag string, events *bus.EventBus) (*Pipeline, error) {
	if w == nil {
		return nil, fmt.Errorf("no wallet loaded")
	}
	recipient, err := wallet.DecodeNpub(recipientNpub)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	return &Pipeline{
		wallet:     w,
		session:    session,
		recipient:  recipient,
		routingTag: routingTag,
		events:     events,
	}, nil
}

// Run executes the batch. If the session is not connected it attempts
// a single connect first; a connect failure aborts before any task and
// yields zero receipts. Otherwise every task produces exactly one
// receipt, in input order: Rejected for unsupported tokens (no relay
// interaction), Published with the event ID on success, or Failed with
// the cause when a publish errors. A failed publish does not abort
// the remaining batch.
func (p *Pipeline) Run(ctx context.Context, batchID string, tasks []task.Task) ([]receipt.Receipt, error) {
	if !p.session.IsConnected() {
		if err := p.session.Connect(ctx); err != nil {
			return nil, err
		}
	}

	shared, err := nip04.ComputeSharedSecret(p.recipient, p.wallet.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to compute shared secret: %w", err)
	}

	p.events.Publish(bus.Event{
		Type:      bus.EventBatchStarted,
		BatchID:   batchID,
		TaskCount: len(tasks),
	})

	receipts := make([]receipt.Receipt, 0, len(tasks))
	for i, t := range tasks {
		rec, eventType := p.process(ctx, shared, t)
		receipts = append(receipts, rec)
		p.events.Publish(bus.Event{
			Type:      eventType,
			BatchID:   batchID,
			TaskIndex: i,
			TaskCount: len(tasks),
			Receipt:   &rec,
		})
	}

	p.events.Publish(bus.Event{
		Type:      bus.EventBatchCompleted,
		BatchID:   batchID,
		TaskCount: len(tasks),
	})

	summary := receipt.Summarize(receipts)
	logger.InfoCF("pipeline", "Batch completed", map[string]interface{}{
		"batch_id":  batchID,
		"total":     summary.Total,
		"published": summary.Published,
		"rejected":  summary.Rejected,
		"failed":    summary.Failed,
	})

	return receipts, nil
}

// process completes one task: Pending → Rejected, Published, or
// PublishFailed. It never touches the relay for unsupported tokens.
func (p *Pipeline) process(ctx context.Context, shared []byte, t task.Task) (receipt.Receipt, bus.EventType) {
	if !task.IsSupported(t.Token) {
		logger.WarnCF("pipeline", "Task rejected", map[string]interface{}{
			"address": t.Address,
			"token":   t.Token,
		})
		return receipt.Failed(t, receipt.CauseUnsupportedToken), bus.EventTaskRejected
	}

	plaintext := fmt.Sprintf("transfer %d %s to %s", t.Amount, t.Token, t.Address)

	content, err := nip04.Encrypt(plaintext, shared)
	if err != nil {
		return receipt.Failed(t, fmt.Sprintf("encrypt failed: %v", err)), bus.EventTaskFailed
	}

	event := &nostr.Event{
		CreatedAt: nostr.Now(),
		Kind:      nostr.KindEncryptedDirectMessage,
		Tags: nostr.Tags{
			{"p", p.recipient},
			{"t", p.routingTag},
		},
		Content: content,
	}

	// Sign fills in PubKey and the content-derived event ID.
	if err := event.Sign(p.wallet.PrivateKey); err != nil {
		return receipt.Failed(t, fmt.Sprintf("sign failed: %v", err)), bus.EventTaskFailed
	}

	if err := p.session.Publish(ctx, event); err != nil {
		logger.ErrorCF("pipeline", "Publish failed", map[string]interface{}{
			"address": t.Address,
			"error":   err.Error(),
		})
		return receipt.Failed(t, err.Error()), bus.EventTaskFailed
	}

	return receipt.Published(t, event.ID), bus.EventTaskPublished
}
