package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// DocumentAIConfig configures the Document AI processor to call.
// CredentialsJSON takes precedence over CredentialsFile; with neither set
// the application default credentials are used.
type DocumentAIConfig struct {
	ProjectID       string
	Location        string // regional endpoint prefix, e.g. "eu"
	ProcessorID     string
	CredentialsFile string
	CredentialsJSON string
}

// DocumentAI extracts text through the Google Document AI REST API.
type DocumentAI struct {
	cfg    DocumentAIConfig
	tokens oauth2.TokenSource
	http   *http.Client
	logger *slog.Logger

	// endpoint is overridable in tests.
	endpoint string
}

func NewDocumentAI(ctx context.Context, cfg DocumentAIConfig, logger *slog.Logger) (*DocumentAI, error) {
	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("document ai: project and processor IDs are required")
	}
	if cfg.Location == "" {
		cfg.Location = "eu"
	}
	if logger == nil {
		logger = slog.Default()
	}

	tokens, err := tokenSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("document ai credentials: %w", err)
	}

	return &DocumentAI{
		cfg:      cfg,
		tokens:   tokens,
		http:     &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
		endpoint: fmt.Sprintf("https://%s-documentai.googleapis.com", cfg.Location),
	}, nil
}

func tokenSource(ctx context.Context, cfg DocumentAIConfig) (oauth2.TokenSource, error) {
	var raw []byte
	switch {
	case cfg.CredentialsJSON != "":
		raw = []byte(cfg.CredentialsJSON)
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		raw = b
	default:
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return nil, err
		}
		return creds.TokenSource, nil
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, cloudPlatformScope)
	if err != nil {
		return nil, err
	}
	return creds.TokenSource, nil
}

// ExtractText sends the PDF to the processor and returns the document text.
// An empty text with a nil error means the processor found nothing; the
// caller decides what that means for the request.
func (d *DocumentAI) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	start := time.Now()
	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		d.cfg.ProjectID, d.cfg.Location, d.cfg.ProcessorID)

	payload := map[string]any{
		"rawDocument": map[string]any{
			"content":  base64.StdEncoding.EncodeToString(pdf),
			"mimeType": "application/pdf",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/%s:process", d.endpoint, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := d.tokens.Token()
	if err != nil {
		return "", mapProviderStatus("UNAUTHENTICATED", err)
	}
	token.SetAuthHeader(req)

	d.logger.Debug("ocr.docai.request", "processor", d.cfg.ProcessorID, "pdf_bytes", len(pdf))

	resp, err := d.http.Do(req)
	if err != nil {
		d.logger.Error("ocr.docai.send_error", "error", err)
		return "", mapProviderStatus("", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			d.logger.Warn("ocr.docai.body_close_error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		var apiErr struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
				Status  string `json:"status"`
			} `json:"error"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		d.logger.Error("ocr.docai.api_error",
			"http_status", resp.StatusCode,
			"status", apiErr.Error.Status,
			"message", apiErr.Error.Message,
		)
		return "", mapProviderStatus(apiErr.Error.Status,
			fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error.Message))
	}

	var out struct {
		Document struct {
			Text string `json:"text"`
		} `json:"document"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	d.logger.Info("ocr.docai.ok",
		"text_len", len(out.Document.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.Document.Text, nil
}
