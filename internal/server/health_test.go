package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factuurcheck/factuurcheck/internal/common"
)

func healthRequest(t *testing.T, cfg common.Config) (*httptest.ResponseRecorder, healthResponse) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(cfg, logger, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	var body healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestHealthHealthy(t *testing.T) {
	cfg := common.Config{}
	cfg.OCR.ProjectID = "proj"
	cfg.OCR.Location = "eu"
	cfg.OCR.ProcessorID = "proc"
	cfg.OCR.CredentialsJSON = `{"type":"service_account"}`
	cfg.LLM.APIKey = "sk-ant-test"
	cfg.RateLimit.UpstashURL = "https://example.upstash.io"
	cfg.RateLimit.UpstashToken = "token"

	rec, body := healthRequest(t, cfg)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body.Status)
	assert.Empty(t, body.Issues)
	assert.True(t, body.Checks["GOOGLE_CREDENTIALS_JSON_IS_VALID_JSON"])
	assert.True(t, body.Checks["ANTHROPIC_API_KEY_FORMAT"])
}

func TestHealthUnhealthy(t *testing.T) {
	cfg := common.Config{}
	cfg.OCR.CredentialsJSON = "{not json"
	cfg.LLM.APIKey = "wrong-prefix"

	rec, body := healthRequest(t, cfg)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Contains(t, body.Issues, "GOOGLE_CLOUD_PROJECT_ID is missing")
	assert.Contains(t, body.Issues, "GOOGLE_CREDENTIALS_JSON is not valid JSON")
	assert.Contains(t, body.Issues, "ANTHROPIC_API_KEY doesn't start with 'sk-ant-'")
	assert.False(t, body.Checks["ANTHROPIC_API_KEY_FORMAT"])
}

func TestHealthDoesNotLeakSecrets(t *testing.T) {
	cfg := common.Config{}
	cfg.LLM.APIKey = "sk-ant-supersecret"

	rec, _ := healthRequest(t, cfg)
	assert.NotContains(t, rec.Body.String(), "supersecret")
}
