package receipt

import (
	"encoding/json"
	"os"

	"github.com/tna-cash/treatsend/pkg/task"
)

// FileName is the download artifact name for an exported batch.
const FileName = "receipts.json"

// CauseUnsupportedToken is recorded for a task whose token kind is
// outside the supported set. Such a task is rejected before any relay
// interaction, so the summary counts it apart from publish failures.
const CauseUnsupportedToken = "unsupported token"

// Receipt is the per-task outcome record. Exactly one of EventID and
// Error is set once the task has completed; a receipt is immutable
// after creation.
type Receipt struct {
	Address string `json:"address"`
	Token   string `json:"token"`
	Amount  int64  `json:"amount"`
	EventID string `json:"eventId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Published records a successful publish with the event's
// content-derived identifier.
func Published(t task.Task, eventID string) Receipt {
	return Receipt{Address: t.Address, Token: t.Token, Amount: t.Amount, EventID: eventID}
}

// Failed records a task that did not reach the relay (rejected before
// publish) or whose publish failed.
func Failed(t task.Task, cause string) Receipt {
	return Receipt{Address: t.Address, Token: t.Token, Amount: t.Amount, Error: cause}
}

// Summary aggregates batch outcomes for logs and the UI.
type Summary struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`
}

// Summarize counts outcomes over an ordered receipt sequence.
// Rejections (unsupported token kind, no publish attempted) are
// counted apart from publish failures.
func Summarize(receipts []Receipt) Summary {
	s := Summary{Total: len(receipts)}
	for _, r := range receipts {
		switch r.Error {
		case "":
			s.Published++
		case CauseUnsupportedToken:
			s.Rejected++
		default:
			s.Failed++
		}
	}
	return s
}

// Export serializes the ordered receipt sequence as an indented JSON
// array, the shape of the receipts.json download artifact.
func Export(receipts []Receipt) ([]byte, error) {
	if receipts == nil {
		receipts = []Receipt{}
	}
	return json.MarshalIndent(receipts, "", "  ")
}

// WriteFile exports the receipts to the given path.
func WriteFile(path string, receipts []Receipt) error {
	data, err := Export(receipts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
