package output

import (
	"context"

	"golang-line-connect/internal/domain"
	"golang-line-connect/pkg/future"
)

// LineClient interface - Output port
// Defines what the application needs from the LINE messaging platform.
// Every call returns immediately with a pending future; failures resolve it
// with a *domain.APIError. The client never retries on its own.
type LineClient interface {
	// ReplyMessage answers an event through its reply token
	ReplyMessage(ctx context.Context, request domain.ReplyMessage, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse]

	// PushMessage sends messages to one user, group or room
	PushMessage(ctx context.Context, request domain.PushMessage, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse]

	// Multicast sends messages to several users
	Multicast(ctx context.Context, request domain.Multicast, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse]

	// Broadcast sends messages to every follower
	Broadcast(ctx context.Context, request domain.Broadcast, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse]

	// Narrowcast sends messages to an audience-filtered set of followers
	Narrowcast(ctx context.Context, request domain.Narrowcast, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse]

	// ValidateReply checks reply messages without sending them
	ValidateReply(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}]

	// ValidatePush checks push messages without sending them
	ValidatePush(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}]

	// ValidateMulticast checks multicast messages without sending them
	ValidateMulticast(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}]

	// ValidateNarrowcast checks narrowcast messages without sending them
	ValidateNarrowcast(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}]

	// ValidateBroadcast checks broadcast messages without sending them
	ValidateBroadcast(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}]

	// GetNumberOfSentMessages counts messages sent on a YYYYMMDD date by one send kind
	GetNumberOfSentMessages(ctx context.Context, kind domain.DeliveryKind, date string, opts ...domain.CallOption) *future.Future[*domain.NumberOfMessagesResponse]

	// GetMessageDeliveries counts messages delivered on a YYYYMMDD date by channel feature
	GetMessageDeliveries(ctx context.Context, date string, opts ...domain.CallOption) *future.Future[*domain.MessageDeliveriesResponse]

	// GetNumberOfFollowers returns follower statistics for a YYYYMMDD date
	GetNumberOfFollowers(ctx context.Context, date string, opts ...domain.CallOption) *future.Future[*domain.FollowersResponse]

	// GetBotInfo returns basic information about the bot
	GetBotInfo(ctx context.Context, opts ...domain.CallOption) *future.Future[*domain.BotInfoResponse]
}

// RedeliveryStore interface - Output port
// Remembers which webhook events were already handled so a redelivered
// event is processed once. Implementations must be safe for concurrent use.
type RedeliveryStore interface {
	// MarkProcessed records webhookEventID and reports whether this is its first sighting
	MarkProcessed(webhookEventID string) (first bool, err error)

	// Forget drops webhookEventID so a later redelivery is handled again
	Forget(webhookEventID string)
}
