package receipt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tna-cash/treatsend/pkg/task"
)

func TestPublishedAndFailedShape(t *testing.T) {
	tk := task.Task{Address: "npub1aaa", Token: "SATS", Amount: 100}

	ok := Published(tk, "eventid123")
	assert.Equal(t, "eventid123", ok.EventID)
	assert.Empty(t, ok.Error)

	bad := Failed(tk, "unsupported token")
	assert.Empty(t, bad.EventID)
	assert.Equal(t, "unsupported token", bad.Error)
}

func TestExportOmitsUnsetOutcomeField(t *testing.T) {
	tk := task.Task{Address: "npub1aaa", Token: "SATS", Amount: 100}
	data, err := Export([]Receipt{Published(tk, "ev1"), Failed(tk, "boom")})
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)

	assert.Contains(t, raw[0], "eventId")
	assert.NotContains(t, raw[0], "error")
	assert.Contains(t, raw[1], "error")
	assert.NotContains(t, raw[1], "eventId")

	assert.Equal(t, "npub1aaa", raw[0]["address"])
	assert.Equal(t, "SATS", raw[0]["token"])
	assert.Equal(t, float64(100), raw[0]["amount"])
}

func TestExportNilIsEmptyArray(t *testing.T) {
	data, err := Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	tk := task.Task{Address: "npub1aaa", Token: "TNA", Amount: 7}

	require.NoError(t, WriteFile(path, []Receipt{Published(tk, "ev1")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out []Receipt
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "ev1", out[0].EventID)
}

func TestSummarize(t *testing.T) {
	tk := task.Task{Address: "a", Token: "SATS", Amount: 1}
	s := Summarize([]Receipt{
		Published(tk, "ev1"),
		Failed(tk, CauseUnsupportedToken),
		Published(tk, "ev2"),
		Failed(tk, "publish failed: relay said no"),
	})
	assert.Equal(t, Summary{Total: 4, Published: 2, Rejected: 1, Failed: 1}, s)

	assert.Equal(t, Summary{}, Summarize(nil))
}
