package http

import (
	"encoding/json"

	"golang-line-connect/internal/domain"
)

type (
	// PushRequest struct - HTTP request DTO for a push
	PushRequest struct {
		To                   string            `json:"to"`
		Messages             []json.RawMessage `json:"messages"`
		NotificationDisabled bool              `json:"notificationDisabled"`
	}

	// MulticastRequest struct - HTTP request DTO for a multicast
	MulticastRequest struct {
		To                   []string          `json:"to"`
		Messages             []json.RawMessage `json:"messages"`
		NotificationDisabled bool              `json:"notificationDisabled"`
	}

	// BroadcastRequest struct - HTTP request DTO for a broadcast
	BroadcastRequest struct {
		Messages             []json.RawMessage `json:"messages"`
		NotificationDisabled bool              `json:"notificationDisabled"`
	}

	// ValidateRequest struct - HTTP request DTO for a dry-run validation
	ValidateRequest struct {
		Messages []json.RawMessage `json:"messages"`
	}

	// DateQuery struct - HTTP query DTO for statistics endpoints
	DateQuery struct {
		Date string `json:"date" query:"date" validate:"required,len=8,numeric"`
	}
)

// toDomain converts the HTTP request to a domain request
func (r PushRequest) toDomain() (domain.PushMessage, error) {
	messages, err := domain.UnmarshalMessages(r.Messages)
	if err != nil {
		return domain.PushMessage{}, err
	}
	return domain.PushMessage{To: r.To, Messages: messages, NotificationDisabled: r.NotificationDisabled}, nil
}

// toDomain converts the HTTP request to a domain request
func (r MulticastRequest) toDomain() (domain.Multicast, error) {
	messages, err := domain.UnmarshalMessages(r.Messages)
	if err != nil {
		return domain.Multicast{}, err
	}
	return domain.Multicast{To: r.To, Messages: messages, NotificationDisabled: r.NotificationDisabled}, nil
}

// toDomain converts the HTTP request to a domain request
func (r BroadcastRequest) toDomain() (domain.Broadcast, error) {
	messages, err := domain.UnmarshalMessages(r.Messages)
	if err != nil {
		return domain.Broadcast{}, err
	}
	return domain.Broadcast{Messages: messages, NotificationDisabled: r.NotificationDisabled}, nil
}

// toDomain converts the HTTP request to a domain request
func (r ValidateRequest) toDomain() (domain.ValidateMessage, error) {
	messages, err := domain.UnmarshalMessages(r.Messages)
	if err != nil {
		return domain.ValidateMessage{}, err
	}
	return domain.ValidateMessage{Messages: messages}, nil
}
