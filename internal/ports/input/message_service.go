package input

import (
	"context"

	"golang-line-connect/internal/domain"
)

// MessageService interface - Input port (use case)
// Defines the outbound messaging operations exposed by the HTTP API.
// Requests are checked against platform limits before any call is made.
type MessageService interface {
	Push(ctx context.Context, request domain.PushMessage) (*domain.MessageAPIResponse, error)
	Multicast(ctx context.Context, request domain.Multicast) (*domain.MessageAPIResponse, error)
	Broadcast(ctx context.Context, request domain.Broadcast) (*domain.MessageAPIResponse, error)
	Validate(ctx context.Context, request domain.ValidateMessage) (*domain.ValidationReport, error)
	BotInfo(ctx context.Context) (*domain.BotInfoResponse, error)
	Followers(ctx context.Context, date string) (*domain.FollowersResponse, error)
	SentMessages(ctx context.Context, kind domain.DeliveryKind, date string) (*domain.NumberOfMessagesResponse, error)
}
