package ocr

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/factuurcheck/factuurcheck/internal/common"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"RESOURCE_EXHAUSTED", msgQuotaExceeded},
		{"PERMISSION_DENIED", msgNoAccess},
		{"UNAUTHENTICATED", msgNoAccess},
		{"DEADLINE_EXCEEDED", msgExtractTimeout},
		{"NOT_FOUND", msgProcessorGone},
		{"SOMETHING_ELSE", msgExtractFailed},
		{"", msgExtractFailed},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			err := mapProviderStatus(tt.status, assertableCause)
			assert.Equal(t, tt.want, common.UserMessage(err))
			assert.ErrorIs(t, err, assertableCause)
		})
	}
}

var assertableCause = io.ErrUnexpectedEOF

func newTestDocumentAI(t *testing.T, endpoint string) *DocumentAI {
	t.Helper()
	return &DocumentAI{
		cfg:      DocumentAIConfig{ProjectID: "proj", Location: "eu", ProcessorID: "proc"},
		tokens:   oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
		http:     http.DefaultClient,
		logger:   testLogger,
		endpoint: endpoint,
	}
}

func TestDocumentAIExtractText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/proj/locations/eu/processors/proc:process", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			RawDocument struct {
				Content  string `json:"content"`
				MimeType string `json:"mimeType"`
			} `json:"rawDocument"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "application/pdf", req.RawDocument.MimeType)
		assert.NotEmpty(t, req.RawDocument.Content)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"document": map[string]any{"text": "FACTUUR 2025-001"},
		})
	}))
	t.Cleanup(srv.Close)

	text, err := newTestDocumentAI(t, srv.URL).ExtractText(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, "FACTUUR 2025-001", text)
}

func TestDocumentAIQuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	t.Cleanup(srv.Close)

	_, err := newTestDocumentAI(t, srv.URL).ExtractText(context.Background(), []byte("%PDF-1.4"))

	require.Error(t, err)
	assert.Equal(t, msgQuotaExceeded, common.UserMessage(err))
}

func TestDocumentAIEmptyDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"document": map[string]any{}})
	}))
	t.Cleanup(srv.Close)

	text, err := newTestDocumentAI(t, srv.URL).ExtractText(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Empty(t, text)
}

type stubRunner struct {
	stdout []byte
	err    error
}

func (s stubRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return s.stdout, nil, s.err
}

func TestLocalExtractText(t *testing.T) {
	l := NewLocal(LocalConfig{}, testLogger)
	l.runner = stubRunner{stdout: []byte("FACTUUR tekst")}

	text, err := l.ExtractText(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, "FACTUUR tekst", text)
}

func TestLocalExtractTextCommandFailure(t *testing.T) {
	l := NewLocal(LocalConfig{}, testLogger)
	l.runner = stubRunner{err: io.ErrUnexpectedEOF}

	_, err := l.ExtractText(context.Background(), []byte("%PDF-1.4"))
	assert.Error(t, err)
}
