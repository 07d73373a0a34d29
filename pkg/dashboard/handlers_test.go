package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tna-cash/treatsend/pkg/app"
	"github.com/tna-cash/treatsend/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.FilePath = t.TempDir()

	application, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(application.Close)

	return NewServer(cfg.DashboardSettings(), cfg, application)
}

func TestWriteErrorEncodesArbitraryMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadGateway, `publish failed: relay said "no"`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `publish failed: relay said "no"`, body["error"])
}

func TestHandleWalletLoadRejectsBadMnemonicWithValidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/load",
		strings.NewReader(`{"mnemonic":"definitely not a mnemonic"}`))
	rec := httptest.NewRecorder()
	s.handleWalletLoad(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestHandleTransferWithoutWallet(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer",
		strings.NewReader(`{"tasks":"npub1aaa-sats-100"}`))
	rec := httptest.NewRecorder()
	s.handleTransfer(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}
