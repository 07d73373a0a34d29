package task

import (
	"fmt"
	"strconv"
	"strings"
)

// Task is one transfer instruction parsed from a single input line.
// Immutable once parsed.
type Task struct {
	Address string `json:"address"`
	Token   string `json:"token"` // upper-cased token kind
	Amount  int64  `json:"amount"`
}

// Supported token kinds. Membership is checked by the pipeline, not
// the parser: an unknown kind must still parse so it can surface as a
// per-task rejection receipt.
var supportedTokens = map[string]bool{
	"SATS":  true,
	"TREAT": true,
	"TRICK": true,
	"NOSTR": true,
	"TNA":   true,
}

// IsSupported reports whether the (already upper-cased) token kind is
// in the supported set.
func IsSupported(token string) bool {
	return supportedTokens[token]
}

// SupportedTokens returns the supported token kinds, for display.
func SupportedTokens() []string {
	return []string{"SATS", "TREAT", "TRICK", "NOSTR", "TNA"}
}

// ParseError describes a malformed input line. Any ParseError aborts
// the whole batch: parsing is all-or-nothing.
type ParseError struct {
	Line   int // 1-based line number in the input
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Parse converts raw task text into an ordered task list. One task per
// line, `address-tokenKind-amount`, hyphen-delimited, exactly three
// fields, token kind case-insensitive, amount a base-10 integer. Blank
// lines are skipped. A malformed line fails the entire parse: zero
// tasks and a single error are returned, never a partial result.
func Parse(text string) ([]Task, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var tasks []Task
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, "-")
		if len(fields) != 3 {
			return nil, &ParseError{
				Line:   i + 1,
				Text:   line,
				Reason: fmt.Sprintf("expected address-token-amount, got %d field(s)", len(fields)),
			}
		}

		address := strings.TrimSpace(fields[0])
		token := strings.ToUpper(strings.TrimSpace(fields[1]))
		amountText := strings.TrimSpace(fields[2])

		if address == "" {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "empty address"}
		}
		if token == "" {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "empty token kind"}
		}

		amount, err := strconv.ParseInt(amountText, 10, 64)
		if err != nil {
			return nil, &ParseError{
				Line:   i + 1,
				Text:   line,
				Reason: fmt.Sprintf("amount %q is not an integer", amountText),
			}
		}

		tasks = append(tasks, Task{
			Address: address,
			Token:   token,
			Amount:  amount,
		})
	}

	return tasks, nil
}
