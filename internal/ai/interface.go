package ai

import (
	"context"
	"errors"

	"rideinsight/internal/modules/analytics"
)

// ErrNoProvider is returned by callers when no model is configured.
var ErrNoProvider = errors.New("ai provider not configured")

// LLMProvider maps a free-form question onto the fixed query menu.
type LLMProvider interface {
	// ChooseQuery picks the menu entry that best answers question. An empty
	// QueryIntent.Query means no entry fits.
	ChooseQuery(ctx context.Context, question string, menu []analytics.Query) (*QueryIntent, error)
}
