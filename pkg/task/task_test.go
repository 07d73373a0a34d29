package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderedBatch(t *testing.T) {
	text := "npub1aaa-sats-100\nnpub1bbb-TREAT-250\nnpub1ccc-Trick-1\n"

	tasks, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, Task{Address: "npub1aaa", Token: "SATS", Amount: 100}, tasks[0])
	assert.Equal(t, Task{Address: "npub1bbb", Token: "TREAT", Amount: 250}, tasks[1])
	assert.Equal(t, Task{Address: "npub1ccc", Token: "TRICK", Amount: 1}, tasks[2])
}

func TestParseSkipsBlankLines(t *testing.T) {
	text := "\nnpub1aaa-sats-100\n\n   \nnpub1bbb-tna-50\n\n"

	tasks, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "npub1aaa", tasks[0].Address)
	assert.Equal(t, "npub1bbb", tasks[1].Address)
}

func TestParseCRLF(t *testing.T) {
	tasks, err := Parse("npub1aaa-sats-100\r\nnpub1bbb-tna-50")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}

func TestParseMalformedLineFailsWholeBatch(t *testing.T) {
	// One bad line in the middle must yield zero tasks, not a partial
	// batch.
	text := "npub1aaa-sats-100\nonlyonefield\nnpub1bbb-tna-50"

	tasks, err := Parse(text)
	assert.Nil(t, tasks)
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, "onlyonefield", perr.Text)
}

func TestParseNonIntegerAmount(t *testing.T) {
	tasks, err := Parse("npub1aaa-sats-many")
	assert.Nil(t, tasks)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
	assert.Contains(t, perr.Reason, "many")
}

func TestParseTooManyFields(t *testing.T) {
	tasks, err := Parse("npub1aaa-sats-100-extra")
	assert.Nil(t, tasks)
	require.Error(t, err)
}

func TestParseEmptyFields(t *testing.T) {
	for _, text := range []string{"-sats-100", "npub1aaa--100"} {
		tasks, err := Parse(text)
		assert.Nil(t, tasks, "input %q", text)
		require.Error(t, err, "input %q", text)
	}
}

func TestParseEmptyInput(t *testing.T) {
	tasks, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestParseKeepsUnsupportedToken(t *testing.T) {
	// Unknown kinds parse fine; support is the pipeline's concern.
	tasks, err := Parse("npub1aaa-doge-100")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "DOGE", tasks[0].Token)
	assert.False(t, IsSupported(tasks[0].Token))
}

func TestIsSupported(t *testing.T) {
	for _, kind := range SupportedTokens() {
		assert.True(t, IsSupported(kind), kind)
	}
	assert.False(t, IsSupported("sats"), "membership check expects upper case")
	assert.False(t, IsSupported(""))
}
