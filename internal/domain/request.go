package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MaxMessagesPerRequest is the platform limit of messages in one send operation.
// Callers enforce it through the validate tags below; the API client sends whatever it is given.
const MaxMessagesPerRequest = 5

// MaxMulticastRecipients is the platform limit of recipients in one multicast
const MaxMulticastRecipients = 500

// Request envelopes. NotificationDisabled is never omitted on the wire:
// the platform treats a missing field differently from false.
type (
	// ReplyMessage - answers an event through its reply token
	ReplyMessage struct {
		ReplyToken           string    `json:"replyToken" validate:"required"`
		Messages             []Message `json:"messages" validate:"required,min=1,max=5"`
		NotificationDisabled bool      `json:"notificationDisabled"`
	}

	// PushMessage - sends messages to one user, group or room
	PushMessage struct {
		To                   string    `json:"to" validate:"required"`
		Messages             []Message `json:"messages" validate:"required,min=1,max=5"`
		NotificationDisabled bool      `json:"notificationDisabled"`
	}

	// Multicast - sends messages to an explicit set of users
	Multicast struct {
		To                   []string  `json:"to" validate:"required,min=1,max=500,dive,required"`
		Messages             []Message `json:"messages" validate:"required,min=1,max=5"`
		NotificationDisabled bool      `json:"notificationDisabled"`
	}

	// Broadcast - sends messages to every follower
	Broadcast struct {
		Messages             []Message `json:"messages" validate:"required,min=1,max=5"`
		NotificationDisabled bool      `json:"notificationDisabled"`
	}

	// Narrowcast - sends messages to an audience-filtered set of followers.
	// Recipient and Filter objects are passed through as JSON.
	Narrowcast struct {
		Messages             []Message        `json:"messages" validate:"required,min=1,max=5"`
		Recipient            json.RawMessage  `json:"recipient,omitempty"`
		Filter               json.RawMessage  `json:"filter,omitempty"`
		Limit                *NarrowcastLimit `json:"limit,omitempty"`
		NotificationDisabled bool             `json:"notificationDisabled"`
	}

	// NarrowcastLimit - caps the number of narrowcast recipients
	NarrowcastLimit struct {
		Max                int  `json:"max,omitempty"`
		UpToRemainingQuota bool `json:"upToRemainingQuota"`
	}

	// ValidateMessage - body of the dry-run validation endpoints
	ValidateMessage struct {
		Messages []Message `json:"messages" validate:"required,min=1,max=5"`
	}
)

// NewReplyMessage builds a reply with notifications enabled
func NewReplyMessage(replyToken string, messages ...Message) ReplyMessage {
	return ReplyMessage{ReplyToken: replyToken, Messages: messages}
}

// NewPushMessage builds a push with notifications enabled
func NewPushMessage(to string, messages ...Message) PushMessage {
	return PushMessage{To: to, Messages: messages}
}

// NewMulticast builds a multicast with notifications enabled
func NewMulticast(to []string, messages ...Message) Multicast {
	return Multicast{To: to, Messages: messages}
}

// NewBroadcast builds a broadcast with notifications enabled
func NewBroadcast(messages ...Message) Broadcast {
	return Broadcast{Messages: messages}
}

// NewValidateMessage builds a validation request
func NewValidateMessage(messages ...Message) ValidateMessage {
	return ValidateMessage{Messages: messages}
}

// UnmarshalJSON decodes the polymorphic messages list
func (r *ReplyMessage) UnmarshalJSON(data []byte) error {
	type alias ReplyMessage
	aux := struct {
		Messages []json.RawMessage `json:"messages"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	messages, err := UnmarshalMessages(aux.Messages)
	if err != nil {
		return err
	}
	r.Messages = messages
	return nil
}

// UnmarshalJSON decodes the polymorphic messages list
func (r *PushMessage) UnmarshalJSON(data []byte) error {
	type alias PushMessage
	aux := struct {
		Messages []json.RawMessage `json:"messages"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	messages, err := UnmarshalMessages(aux.Messages)
	if err != nil {
		return err
	}
	r.Messages = messages
	return nil
}

// UnmarshalJSON decodes the polymorphic messages list
func (r *Multicast) UnmarshalJSON(data []byte) error {
	type alias Multicast
	aux := struct {
		Messages []json.RawMessage `json:"messages"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	messages, err := UnmarshalMessages(aux.Messages)
	if err != nil {
		return err
	}
	r.Messages = messages
	return nil
}

// UnmarshalJSON decodes the polymorphic messages list
func (r *Broadcast) UnmarshalJSON(data []byte) error {
	type alias Broadcast
	aux := struct {
		Messages []json.RawMessage `json:"messages"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	messages, err := UnmarshalMessages(aux.Messages)
	if err != nil {
		return err
	}
	r.Messages = messages
	return nil
}

// UnmarshalJSON decodes the polymorphic messages list
func (r *Narrowcast) UnmarshalJSON(data []byte) error {
	type alias Narrowcast
	aux := struct {
		Messages []json.RawMessage `json:"messages"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	messages, err := UnmarshalMessages(aux.Messages)
	if err != nil {
		return err
	}
	r.Messages = messages
	return nil
}

// UnmarshalJSON decodes the polymorphic messages list
func (r *ValidateMessage) UnmarshalJSON(data []byte) error {
	type alias ValidateMessage
	aux := struct {
		Messages []json.RawMessage `json:"messages"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	messages, err := UnmarshalMessages(aux.Messages)
	if err != nil {
		return err
	}
	r.Messages = messages
	return nil
}

// CallOptions tune a single API call
type CallOptions struct {
	// Timeout bounds the whole exchange; zero means no deadline
	Timeout time.Duration
	// RetryKey is sent as X-Line-Retry-Key on endpoints that accept it
	RetryKey string
}

// CallOption mutates CallOptions
type CallOption func(*CallOptions)

// WithTimeout sets a per-call deadline. Its expiry fails the call as a transport error.
func WithTimeout(d time.Duration) CallOption {
	return func(o *CallOptions) {
		o.Timeout = d
	}
}

// WithRetryKey sets an explicit retry key so a resent request is not delivered twice
func WithRetryKey(key string) CallOption {
	return func(o *CallOptions) {
		o.RetryKey = key
	}
}

// WithNewRetryKey generates a random retry key for the call
func WithNewRetryKey() CallOption {
	return WithRetryKey(uuid.NewString())
}

// NewCallOptions applies opts over the zero options
func NewCallOptions(opts ...CallOption) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// DeliveryKind selects which send operation a sent-message count covers.
// Values are the path segments of the delivery statistics endpoints.
type DeliveryKind string

const (
	// DeliveryKindReply - messages sent with the reply endpoint
	DeliveryKindReply DeliveryKind = "reply"
	// DeliveryKindPush - messages sent with the push endpoint
	DeliveryKindPush DeliveryKind = "push"
	// DeliveryKindMulticast - messages sent with the multicast endpoint
	DeliveryKindMulticast DeliveryKind = "multicast"
	// DeliveryKindBroadcast - messages sent with the broadcast endpoint
	DeliveryKindBroadcast DeliveryKind = "bcast"
)

// Valid reports whether k is one of the known delivery kinds
func (k DeliveryKind) Valid() bool {
	switch k {
	case DeliveryKindReply, DeliveryKindPush, DeliveryKindMulticast, DeliveryKindBroadcast:
		return true
	}
	return false
}
