package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type healthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Checks    map[string]bool `json:"checks"`
	Issues    []string        `json:"issues"`
}

// handleHealth reports presence and shape of required configuration
// without exposing any secret values.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	credsJSON := s.cfg.OCR.CredentialsJSON
	apiKey := s.cfg.LLM.APIKey

	checks := map[string]bool{
		"GOOGLE_CLOUD_PROJECT_ID":               s.cfg.OCR.ProjectID != "",
		"GOOGLE_CLOUD_LOCATION":                 s.cfg.OCR.Location != "",
		"GOOGLE_DOCUMENT_AI_PROCESSOR_ID":       s.cfg.OCR.ProcessorID != "",
		"GOOGLE_CREDENTIALS_JSON":               credsJSON != "",
		"GOOGLE_CREDENTIALS_JSON_IS_VALID_JSON": credsJSON != "" && json.Valid([]byte(credsJSON)),
		"ANTHROPIC_API_KEY":                     apiKey != "",
		"ANTHROPIC_API_KEY_FORMAT":              strings.HasPrefix(apiKey, "sk-ant-"),
		"UPSTASH_REDIS_REST_URL":                s.cfg.RateLimit.UpstashURL != "",
		"UPSTASH_REDIS_REST_TOKEN":              s.cfg.RateLimit.UpstashToken != "",
	}

	issues := []string{}
	if !checks["GOOGLE_CLOUD_PROJECT_ID"] {
		issues = append(issues, "GOOGLE_CLOUD_PROJECT_ID is missing")
	}
	if !checks["GOOGLE_DOCUMENT_AI_PROCESSOR_ID"] {
		issues = append(issues, "GOOGLE_DOCUMENT_AI_PROCESSOR_ID is missing")
	}
	if !checks["GOOGLE_CREDENTIALS_JSON"] {
		issues = append(issues, "GOOGLE_CREDENTIALS_JSON is missing (required for production)")
	}
	if !checks["GOOGLE_CREDENTIALS_JSON_IS_VALID_JSON"] {
		issues = append(issues, "GOOGLE_CREDENTIALS_JSON is not valid JSON")
	}
	if !checks["ANTHROPIC_API_KEY"] {
		issues = append(issues, "ANTHROPIC_API_KEY is missing")
	}
	if !checks["ANTHROPIC_API_KEY_FORMAT"] {
		issues = append(issues, "ANTHROPIC_API_KEY doesn't start with 'sk-ant-'")
	}

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}
	status := http.StatusOK
	if len(issues) > 0 {
		resp.Status = "unhealthy"
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}
