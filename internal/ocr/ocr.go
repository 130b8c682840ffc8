package ocr

import (
	"context"
	"fmt"
	"net/http"

	"github.com/factuurcheck/factuurcheck/internal/common"
)

// TextExtractor turns an uploaded PDF into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// User-facing Dutch messages for provider failures, keyed off the provider's
// error classification. Unrecognized classifications get the generic one.
const (
	msgQuotaExceeded   = "De OCR-dienst heeft zijn limiet bereikt. Probeer het later opnieuw."
	msgNoAccess        = "Geen toegang tot de OCR-dienst. Controleer de configuratie."
	msgExtractTimeout  = "Tekstextractie duurde te lang. Probeer het opnieuw."
	msgProcessorGone   = "De OCR-processor is niet gevonden. Controleer de configuratie."
	msgExtractFailed   = "Kon de PDF niet verwerken. Probeer het opnieuw."
)

// mapProviderStatus converts a google.rpc status string into a user-facing
// error, keeping the raw provider failure as cause for the logs.
func mapProviderStatus(status string, cause error) error {
	msg := msgExtractFailed
	switch status {
	case "RESOURCE_EXHAUSTED":
		msg = msgQuotaExceeded
	case "PERMISSION_DENIED", "UNAUTHENTICATED":
		msg = msgNoAccess
	case "DEADLINE_EXCEEDED":
		msg = msgExtractTimeout
	case "NOT_FOUND":
		msg = msgProcessorGone
	}
	return common.NewAppError(http.StatusInternalServerError, msg, fmt.Errorf("document ai %s: %w", status, cause))
}
