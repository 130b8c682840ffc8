package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/factuurcheck/factuurcheck/internal/common"
	"github.com/factuurcheck/factuurcheck/internal/invoice"
	"github.com/factuurcheck/factuurcheck/internal/llm"
	"github.com/factuurcheck/factuurcheck/internal/retry"
)

// MsgCannotAnalyze is the terminal user-facing failure after every attempt
// is exhausted. Internal parser detail stays in the logs.
const MsgCannotAnalyze = "Kan factuur niet analyseren. Probeer het opnieuw."

// MsgAnalysisTimeout is reported when a single attempt misses its deadline.
const MsgAnalysisTimeout = "Analyse duurt te lang. Probeer het opnieuw."

// ExtractFields implements llm.FieldExtractor against the Anthropic Messages
// API. Each attempt runs under its own deadline; a reply that cannot be
// parsed or does not match the schema counts as a failed attempt and is
// retried up to MaxAttempts in total.
func (c *Client) ExtractFields(ctx context.Context, text string) (invoice.ExtractedFields, error) {
	rid := uuid.New().String()
	start := time.Now()

	system := llm.BuildSystemPrompt()
	user := llm.BuildUserPrompt(text)
	schema := llm.BuildInvoiceJSONSchema()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(text),
		"max_attempts", c.cfg.MaxAttempts,
	)

	cfg := retry.Config{
		MaxAttempts:    c.cfg.MaxAttempts,
		AttemptTimeout: c.cfg.Timeout,
		TimeoutMessage: MsgAnalysisTimeout,
	}
	fields, err := retry.Do(ctx, cfg, func(ctx context.Context) (invoice.ExtractedFields, error) {
		return c.attempt(ctx, rid, system, user, schema)
	}, nil)
	if err != nil {
		c.logger.Error("llm.extract.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return invoice.ExtractedFields{}, common.NewAppError(http.StatusInternalServerError, MsgCannotAnalyze, err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, nil
}

func (c *Client) attempt(ctx context.Context, rid, system, user string, schema map[string]any) (invoice.ExtractedFields, error) {
	var zero invoice.ExtractedFields

	reply, err := c.createMessage(ctx, system, user)
	if err != nil {
		c.logger.Warn("llm.extract.call_failed", "req_id", rid, "error", err)
		return zero, err
	}

	doc, ok := llm.ExtractJSON(reply)
	if !ok {
		c.logger.Warn("llm.extract.no_json", "req_id", rid, "reply_len", len(reply))
		return zero, fmt.Errorf("no JSON object in model reply")
	}
	if err := llm.ValidateAgainstSchema(schema, []byte(doc)); err != nil {
		c.logger.Warn("llm.extract.schema_validation_failed", "req_id", rid, "error", err)
		return zero, fmt.Errorf("schema validation: %w", err)
	}

	fields, err := invoice.ParseExtractedFields([]byte(doc))
	if err != nil {
		c.logger.Warn("llm.extract.decode_failed", "req_id", rid, "error", err)
		return zero, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}

// createMessage performs one Messages API call and returns the text of the
// first text content block.
func (c *Client) createMessage(ctx context.Context, system, user string) (string, error) {
	body := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": c.cfg.MaxTokens,
		"system":     system,
		"messages": []map[string]any{
			{"role": "user", "content": user},
		},
	}
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": c.cfg.Version,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return "", fmt.Errorf("anthropic status %d: %w", status, err)
	}

	var msg struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in anthropic response")
}
