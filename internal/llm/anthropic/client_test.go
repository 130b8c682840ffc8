package anthropic

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

	"github.com/factuurcheck/factuurcheck/internal/common"
	"github.com/factuurcheck/factuurcheck/internal/invoice"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func validFieldsJSON(t *testing.T) string {
	t.Helper()
	doc := make(map[string]any, len(invoice.Registry))
	for _, spec := range invoice.Registry {
		switch spec.Kind {
		case invoice.KindAddress:
			doc[spec.Name] = map[string]any{
				"found": true, "street": "Teststraat", "houseNumber": "1",
				"postalCode": "1234AB", "city": "Amsterdam", "complete": true,
			}
		default:
			doc[spec.Name] = map[string]any{"found": true, "value": "INV-001"}
		}
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(raw)
}

// messagesServer fakes the Anthropic Messages API, replying with the queued
// text bodies in order and counting the calls it receives.
func messagesServer(t *testing.T, replies ...string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("x-api-key"))
		require.NotEmpty(t, r.Header.Get("anthropic-version"))

		reply := replies[len(replies)-1]
		if calls < len(replies) {
			reply = replies[calls]
		}
		calls++

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"content": []map[string]any{{"type": "text", "text": reply}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		APIKey:  "sk-ant-test",
		BaseURL: baseURL,
	}, testLogger)
}

func TestExtractFieldsValidReplyFirstAttempt(t *testing.T) {
	srv, calls := messagesServer(t, validFieldsJSON(t))

	fields, err := newTestClient(srv.URL).ExtractFields(context.Background(), "factuur tekst")

	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.True(t, fields.Simple["factuurnummer"].Found)
	assert.Equal(t, "INV-001", fields.Simple["factuurnummer"].Value)
	assert.True(t, fields.Addresses["klantAdres"].Complete)
}

func TestExtractFieldsAcceptsFencedReply(t *testing.T) {
	srv, calls := messagesServer(t, "```json\n"+validFieldsJSON(t)+"\n```")

	fields, err := newTestClient(srv.URL).ExtractFields(context.Background(), "factuur tekst")

	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Len(t, fields.Simple, 12)
}

func TestExtractFieldsRetriesOnceOnGarbage(t *testing.T) {
	srv, calls := messagesServer(t, "dit is geen JSON", validFieldsJSON(t))

	fields, err := newTestClient(srv.URL).ExtractFields(context.Background(), "factuur tekst")

	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
	assert.True(t, fields.Simple["totaalbedrag"].Found)
}

func TestExtractFieldsRetriesOnSchemaMismatch(t *testing.T) {
	srv, calls := messagesServer(t, `{"factuurnummer": {"found": "ja"}}`, validFieldsJSON(t))

	_, err := newTestClient(srv.URL).ExtractFields(context.Background(), "factuur tekst")

	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestExtractFieldsFailsAfterTwoBadReplies(t *testing.T) {
	srv, calls := messagesServer(t, "geen JSON", "nog steeds geen JSON")

	_, err := newTestClient(srv.URL).ExtractFields(context.Background(), "factuur tekst")

	require.Error(t, err)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, MsgCannotAnalyze, common.UserMessage(err))
}

func TestExtractFieldsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"type": "overloaded_error"}}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(srv.URL).ExtractFields(context.Background(), "factuur tekst")

	require.Error(t, err)
	assert.Equal(t, MsgCannotAnalyze, common.UserMessage(err))
}
