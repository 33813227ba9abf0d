package domain

import (
	"encoding/json"
	"time"
)

// EventType is the wire discriminator of a webhook event
type EventType string

const (
	// EventTypeMessage - Message event
	EventTypeMessage EventType = "message"
	// EventTypeFollow - Follow event
	EventTypeFollow EventType = "follow"
	// EventTypeUnfollow - Unfollow event
	EventTypeUnfollow EventType = "unfollow"
	// EventTypeJoin - Join event
	EventTypeJoin EventType = "join"
	// EventTypeLeave - Leave event
	EventTypeLeave EventType = "leave"
	// EventTypePostback - Postback event
	EventTypePostback EventType = "postback"
	// EventTypeBeacon - Beacon event
	EventTypeBeacon EventType = "beacon"
	// EventTypeAccountLink - Account link event
	EventTypeAccountLink EventType = "accountLink"
	// EventTypeMemberJoined - Member joined event
	EventTypeMemberJoined EventType = "memberJoined"
	// EventTypeMemberLeft - Member left event
	EventTypeMemberLeft EventType = "memberLeft"
	// EventTypeThings - LINE Things event
	EventTypeThings EventType = "things"
	// EventTypeVideoPlayComplete - Video viewing complete event
	EventTypeVideoPlayComplete EventType = "videoPlayComplete"
	// EventTypeUnsend - Unsend event
	EventTypeUnsend EventType = "unsend"
)

// EventMode is the channel state at the time the event was sent
type EventMode string

const (
	// EventModeActive - the bot may reply or push
	EventModeActive EventMode = "active"
	// EventModeStandby - the bot should not send messages
	EventModeStandby EventMode = "standby"
)

// Event is a decoded webhook event. The set of implementations is closed;
// kinds this package does not know decode into UnknownEvent.
type Event interface {
	Type() EventType
	Meta() EventMeta
}

// ReplyEvent is implemented by events that carry a reply token
type ReplyEvent interface {
	Event
	Token() string
}

// EventMeta holds the fields shared by every event kind
type EventMeta struct {
	Source          Source
	Timestamp       time.Time
	Mode            EventMode
	WebhookEventID  string
	DeliveryContext DeliveryContext
}

// Meta returns the shared event fields
func (m EventMeta) Meta() EventMeta { return m }

// DeliveryContext describes how the event was delivered.
// Redelivered events keep the WebhookEventID and Timestamp of the original.
type DeliveryContext struct {
	IsRedelivery bool
}

// Replyable carries the token used to answer an event through the reply endpoint
type Replyable struct {
	ReplyToken string
}

// Token returns the reply token
func (r Replyable) Token() string { return r.ReplyToken }

// ReplyTokenOf returns the reply token of e, or "" when e cannot be replied to
func ReplyTokenOf(e Event) string {
	if re, ok := e.(ReplyEvent); ok {
		return re.Token()
	}
	return ""
}

type (
	// MessageEvent - a user sent a message
	MessageEvent struct {
		EventMeta
		Replyable
		Message MessageContent
	}

	// FollowEvent - the bot was added as a friend or unblocked
	FollowEvent struct {
		EventMeta
		Replyable
		Follow FollowDetail
	}

	// FollowDetail - follow event details
	FollowDetail struct {
		IsUnblocked bool
	}

	// UnfollowEvent - the bot was blocked
	UnfollowEvent struct {
		EventMeta
	}

	// JoinEvent - the bot joined a group or room
	JoinEvent struct {
		EventMeta
		Replyable
	}

	// LeaveEvent - the bot was removed from a group or room
	LeaveEvent struct {
		EventMeta
	}

	// PostbackEvent - a user performed a postback action
	PostbackEvent struct {
		EventMeta
		Replyable
		Postback PostbackContent
	}

	// PostbackContent - postback data and datetime picker params
	PostbackContent struct {
		Data   string
		Params map[string]string
	}

	// BeaconEvent - a user entered the range of a LINE Beacon
	BeaconEvent struct {
		EventMeta
		Replyable
		Beacon BeaconContent
	}

	// BeaconContent - beacon event details
	BeaconContent struct {
		Hwid          string
		Type          string
		DeviceMessage string
	}

	// AccountLinkEvent - a user linked their account
	AccountLinkEvent struct {
		EventMeta
		Replyable
		Link LinkContent
	}

	// LinkContent - account link result
	LinkContent struct {
		Result string
		Nonce  string
	}

	// MemberJoinedEvent - users joined a group or room the bot is in
	MemberJoinedEvent struct {
		EventMeta
		Replyable
		Joined []Source
	}

	// MemberLeftEvent - users left a group or room the bot is in
	MemberLeftEvent struct {
		EventMeta
		Left []Source
	}

	// ThingsEvent - a LINE Things device event
	ThingsEvent struct {
		EventMeta
		Replyable
		Things ThingsContent
	}

	// ThingsContent - LINE Things device event details; Result is kept raw
	ThingsContent struct {
		DeviceID string
		Type     string
		Result   json.RawMessage
	}

	// VideoPlayCompleteEvent - a user finished watching a video message with a trackingId
	VideoPlayCompleteEvent struct {
		EventMeta
		Replyable
		VideoPlayComplete VideoPlayComplete
	}

	// VideoPlayComplete - identifies the watched video
	VideoPlayComplete struct {
		TrackingID string
	}

	// UnsendEvent - a user unsent a message
	UnsendEvent struct {
		EventMeta
		Unsend UnsendDetail
	}

	// UnsendDetail - identifies the unsent message
	UnsendDetail struct {
		MessageID string
	}

	// UnknownEvent - an event kind this version does not know.
	// Raw holds every top-level field of the event object, including "type".
	UnknownEvent struct {
		EventMeta
		RawType string
		Raw     map[string]json.RawMessage
	}
)

// Type implements Event
func (MessageEvent) Type() EventType { return EventTypeMessage }

// Type implements Event
func (FollowEvent) Type() EventType { return EventTypeFollow }

// Type implements Event
func (UnfollowEvent) Type() EventType { return EventTypeUnfollow }

// Type implements Event
func (JoinEvent) Type() EventType { return EventTypeJoin }

// Type implements Event
func (LeaveEvent) Type() EventType { return EventTypeLeave }

// Type implements Event
func (PostbackEvent) Type() EventType { return EventTypePostback }

// Type implements Event
func (BeaconEvent) Type() EventType { return EventTypeBeacon }

// Type implements Event
func (AccountLinkEvent) Type() EventType { return EventTypeAccountLink }

// Type implements Event
func (MemberJoinedEvent) Type() EventType { return EventTypeMemberJoined }

// Type implements Event
func (MemberLeftEvent) Type() EventType { return EventTypeMemberLeft }

// Type implements Event
func (ThingsEvent) Type() EventType { return EventTypeThings }

// Type implements Event
func (VideoPlayCompleteEvent) Type() EventType { return EventTypeVideoPlayComplete }

// Type implements Event
func (UnsendEvent) Type() EventType { return EventTypeUnsend }

// Type implements Event
func (e UnknownEvent) Type() EventType { return EventType(e.RawType) }

// CallbackRequest is a decoded webhook delivery.
// Events keeps the delivery order of the events that decoded; DecodeErrors
// reports the ones that did not, by their index in the original array.
type CallbackRequest struct {
	Destination  string
	Events       []Event
	DecodeErrors []*DecodeError
}
