package input

import (
	"context"

	"golang-line-connect/internal/domain"
)

// LineWebhookService interface - Input port (use case)
// Defines what the application does with verified, decoded webhook deliveries
type LineWebhookService interface {
	// HandleEvents processes the events of one delivery
	HandleEvents(ctx context.Context, request domain.CallbackRequest) error
}
