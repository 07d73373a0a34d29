package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tna-cash/treatsend/pkg/bus"
	"github.com/tna-cash/treatsend/pkg/config"
	"github.com/tna-cash/treatsend/pkg/task"
)

const testMnemonic = "leader monkey parrot ring guide accident before fence cannon height naive bean"

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.FilePath = t.TempDir()
	cfg.Transfer.RecipientNpub = "npub1zutzeysacnf9rru6zqwmxd54mud0k44tst6l70ja5mhv8jjumytsd2x7nu"

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(a.Close)
	return a
}

func TestRunBatchRequiresWallet(t *testing.T) {
	a := newTestApp(t)

	_, err := a.RunBatch(context.Background(), "npub1aaa-sats-100")
	assert.ErrorIs(t, err, ErrNoWallet)
}

func TestLoadWalletEmitsEvent(t *testing.T) {
	a := newTestApp(t)
	ch := a.Events().Subscribe()
	defer a.Events().Unsubscribe(ch)

	w, err := a.LoadWallet(testMnemonic)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, w, a.Wallet())

	ev := <-ch
	assert.Equal(t, bus.EventWalletLoaded, ev.Type)
	assert.Equal(t, w.Npub, ev.Npub)
}

func TestLoadWalletRejectsBadMnemonic(t *testing.T) {
	a := newTestApp(t)

	_, err := a.LoadWallet("twelve bogus words that are not in any known wordlist at all")
	require.Error(t, err)
	assert.Nil(t, a.Wallet())
}

func TestRunBatchParseFailureProducesNoReceipts(t *testing.T) {
	a := newTestApp(t)
	_, err := a.LoadWallet(testMnemonic)
	require.NoError(t, err)

	_, err = a.RunBatch(context.Background(), "npub1aaa-sats-100\nbroken line")
	require.Error(t, err)

	var perr *task.ParseError
	assert.ErrorAs(t, err, &perr)

	// Nothing was persisted.
	infos, err := a.Batches().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestRunBatchRejectsEmptyInput(t *testing.T) {
	a := newTestApp(t)
	_, err := a.LoadWallet(testMnemonic)
	require.NoError(t, err)

	_, err = a.RunBatch(context.Background(), "\n\n")
	require.Error(t, err)
}

func TestRelayStatusStartsDisconnected(t *testing.T) {
	a := newTestApp(t)

	status := a.RelayStatus()
	assert.Equal(t, a.Session().URL(), status.URL)
	assert.False(t, status.Connected)
}
