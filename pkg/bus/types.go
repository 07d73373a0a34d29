package bus

import (
	"time"

	"github.com/tna-cash/treatsend/pkg/receipt"
)

// EventType discriminates pipeline and session events streamed to
// dashboard observers.
type EventType string

const (
	EventWalletLoaded   EventType = "wallet_loaded"
	EventRelayStatus    EventType = "relay_status"
	EventBatchStarted   EventType = "batch_started"
	EventTaskPublished  EventType = "task_published"
	EventTaskRejected   EventType = "task_rejected"
	EventTaskFailed     EventType = "task_failed"
	EventBatchCompleted EventType = "batch_completed"
)

// RelayStatus is the observed connection state of the relay session.
type RelayStatus struct {
	URL       string `json:"url"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// Event is one observed step of a running session, fanned out to all
// subscribers for live streaming.
type Event struct {
	Type      EventType        `json:"type"`
	BatchID   string           `json:"batch_id,omitempty"`
	TaskIndex int              `json:"task_index,omitempty"`
	TaskCount int              `json:"task_count,omitempty"`
	Receipt   *receipt.Receipt `json:"receipt,omitempty"`
	Relay     *RelayStatus     `json:"relay,omitempty"`
	Npub      string           `json:"npub,omitempty"`
	Time      time.Time        `json:"time"`
}
