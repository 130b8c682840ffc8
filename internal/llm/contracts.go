package llm

import (
	"context"

	"github.com/factuurcheck/factuurcheck/internal/invoice"
)

// FieldExtractor is the interface the request handler depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (invoice.ExtractedFields, error)
}
