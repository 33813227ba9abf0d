package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"golang-line-connect/internal/domain"
)

// Wire shapes of a webhook delivery. They stay private to the adapter;
// callers only see the domain variants.
type (
	wireCallback struct {
		Destination string            `json:"destination"`
		Events      []json.RawMessage `json:"events"`
	}

	wireEvent struct {
		Type            string               `json:"type"`
		ReplyToken      string               `json:"replyToken"`
		Source          *wireSource          `json:"source"`
		Timestamp       json.RawMessage      `json:"timestamp"`
		Mode            string               `json:"mode"`
		WebhookEventID  string               `json:"webhookEventId"`
		DeliveryContext *wireDeliveryContext `json:"deliveryContext"`

		Message           json.RawMessage        `json:"message"`
		Follow            *wireFollow            `json:"follow"`
		Postback          *wirePostback          `json:"postback"`
		Beacon            *wireBeacon            `json:"beacon"`
		Link              *wireLink              `json:"link"`
		Joined            *wireMembers           `json:"joined"`
		Left              *wireMembers           `json:"left"`
		Things            *wireThings            `json:"things"`
		VideoPlayComplete *wireVideoPlayComplete `json:"videoPlayComplete"`
		Unsend            *wireUnsend            `json:"unsend"`
	}

	wireSource struct {
		Type    string `json:"type"`
		UserID  string `json:"userId"`
		GroupID string `json:"groupId"`
		RoomID  string `json:"roomId"`
	}

	wireDeliveryContext struct {
		IsRedelivery bool `json:"isRedelivery"`
	}

	wireFollow struct {
		IsUnblocked bool `json:"isUnblocked"`
	}

	wirePostback struct {
		Data   string            `json:"data"`
		Params map[string]string `json:"params"`
	}

	wireBeacon struct {
		Hwid string `json:"hwid"`
		Type string `json:"type"`
		DM   string `json:"dm"`
	}

	wireLink struct {
		Result string `json:"result"`
		Nonce  string `json:"nonce"`
	}

	wireMembers struct {
		Members []wireSource `json:"members"`
	}

	wireThings struct {
		DeviceID string          `json:"deviceId"`
		Type     string          `json:"type"`
		Result   json.RawMessage `json:"result"`
	}

	wireVideoPlayComplete struct {
		TrackingID string `json:"trackingId"`
	}

	wireUnsend struct {
		MessageID string `json:"messageId"`
	}

	wireMessage struct {
		ID                  string          `json:"id"`
		Type                string          `json:"type"`
		Text                string          `json:"text"`
		QuoteToken          string          `json:"quoteToken"`
		Emojis              []wireEmoji     `json:"emojis"`
		Mention             json.RawMessage `json:"mention"`
		ContentProvider     *wireProvider   `json:"contentProvider"`
		Duration            int64           `json:"duration"`
		FileName            string          `json:"fileName"`
		FileSize            int64           `json:"fileSize"`
		Title               string          `json:"title"`
		Address             string          `json:"address"`
		Latitude            float64         `json:"latitude"`
		Longitude           float64         `json:"longitude"`
		PackageID           string          `json:"packageId"`
		StickerID           string          `json:"stickerId"`
		StickerResourceType string          `json:"stickerResourceType"`
		Keywords            []string        `json:"keywords"`
	}

	wireEmoji struct {
		Index     int    `json:"index"`
		Length    int    `json:"length"`
		ProductID string `json:"productId"`
		EmojiID   string `json:"emojiId"`
	}

	wireProvider struct {
		Type               string `json:"type"`
		OriginalContentURL string `json:"originalContentUrl"`
		PreviewImageURL    string `json:"previewImageUrl"`
	}
)

// Decode turns a verified webhook body into events.
//
// A body that is not a JSON object, or whose "events" is not an array, fails
// as a whole with domain.ErrInvalidPayload. Past that point every element is
// decoded on its own: a malformed element is reported in DecodeErrors under
// its index while its siblings still decode, and an unrecognized "type"
// decodes into domain.UnknownEvent.
//
// Decode holds no state and is safe for concurrent use.
func Decode(body []byte) (*domain.CallbackRequest, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: webhook body must be a JSON object", domain.ErrInvalidPayload)
	}

	var cb wireCallback
	if err := json.Unmarshal(trimmed, &cb); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	result := &domain.CallbackRequest{
		Destination: cb.Destination,
		Events:      make([]domain.Event, 0, len(cb.Events)),
	}
	for i, raw := range cb.Events {
		event, eventType, err := decodeEvent(raw)
		if err != nil {
			result.DecodeErrors = append(result.DecodeErrors, &domain.DecodeError{
				Index: i,
				Type:  eventType,
				Err:   err,
			})
			continue
		}
		result.Events = append(result.Events, event)
	}
	return result, nil
}

func decodeEvent(raw json.RawMessage) (domain.Event, string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, "", errors.New("event must be a JSON object")
	}

	typeField, ok := fields["type"]
	if !ok {
		return nil, "", errors.New("event has no type")
	}
	var eventType string
	if err := json.Unmarshal(typeField, &eventType); err != nil {
		return nil, "", errors.New("event type must be a string")
	}

	if !isKnownEvent(domain.EventType(eventType)) {
		return decodeUnknown(eventType, raw, fields), eventType, nil
	}

	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, eventType, err
	}
	meta, err := decodeMeta(&w)
	if err != nil {
		return nil, eventType, err
	}
	event, err := decodeKnown(domain.EventType(eventType), meta, &w)
	if err != nil {
		return nil, eventType, err
	}
	return event, eventType, nil
}

func isKnownEvent(t domain.EventType) bool {
	switch t {
	case domain.EventTypeMessage, domain.EventTypeFollow, domain.EventTypeUnfollow,
		domain.EventTypeJoin, domain.EventTypeLeave, domain.EventTypePostback,
		domain.EventTypeBeacon, domain.EventTypeAccountLink, domain.EventTypeMemberJoined,
		domain.EventTypeMemberLeft, domain.EventTypeThings, domain.EventTypeVideoPlayComplete,
		domain.EventTypeUnsend:
		return true
	}
	return false
}

func decodeMeta(w *wireEvent) (domain.EventMeta, error) {
	if len(w.Timestamp) == 0 || string(w.Timestamp) == "null" {
		return domain.EventMeta{}, errors.New("timestamp is required")
	}
	ms, err := strconv.ParseInt(string(w.Timestamp), 10, 64)
	if err != nil {
		return domain.EventMeta{}, fmt.Errorf("timestamp %s is not an integer", w.Timestamp)
	}
	ts, err := domain.TimeFromEpochMillis(ms)
	if err != nil {
		return domain.EventMeta{}, err
	}

	meta := domain.EventMeta{
		Timestamp:      ts,
		Mode:           domain.EventMode(w.Mode),
		WebhookEventID: w.WebhookEventID,
	}
	if w.Source != nil {
		meta.Source = toSource(*w.Source)
	}
	if w.DeliveryContext != nil {
		meta.DeliveryContext.IsRedelivery = w.DeliveryContext.IsRedelivery
	}
	return meta, nil
}

func decodeKnown(t domain.EventType, meta domain.EventMeta, w *wireEvent) (domain.Event, error) {
	reply := domain.Replyable{ReplyToken: w.ReplyToken}

	switch t {
	case domain.EventTypeMessage:
		if len(w.Message) == 0 || string(w.Message) == "null" {
			return nil, errors.New("message event has no message")
		}
		content, err := decodeMessageContent(w.Message)
		if err != nil {
			return nil, fmt.Errorf("message: %w", err)
		}
		return domain.MessageEvent{EventMeta: meta, Replyable: reply, Message: content}, nil

	case domain.EventTypeFollow:
		e := domain.FollowEvent{EventMeta: meta, Replyable: reply}
		if w.Follow != nil {
			e.Follow.IsUnblocked = w.Follow.IsUnblocked
		}
		return e, nil

	case domain.EventTypeUnfollow:
		return domain.UnfollowEvent{EventMeta: meta}, nil

	case domain.EventTypeJoin:
		return domain.JoinEvent{EventMeta: meta, Replyable: reply}, nil

	case domain.EventTypeLeave:
		return domain.LeaveEvent{EventMeta: meta}, nil

	case domain.EventTypePostback:
		if w.Postback == nil {
			return nil, errors.New("postback event has no postback")
		}
		return domain.PostbackEvent{
			EventMeta: meta,
			Replyable: reply,
			Postback:  domain.PostbackContent{Data: w.Postback.Data, Params: w.Postback.Params},
		}, nil

	case domain.EventTypeBeacon:
		if w.Beacon == nil {
			return nil, errors.New("beacon event has no beacon")
		}
		return domain.BeaconEvent{
			EventMeta: meta,
			Replyable: reply,
			Beacon: domain.BeaconContent{
				Hwid:          w.Beacon.Hwid,
				Type:          w.Beacon.Type,
				DeviceMessage: w.Beacon.DM,
			},
		}, nil

	case domain.EventTypeAccountLink:
		if w.Link == nil {
			return nil, errors.New("accountLink event has no link")
		}
		return domain.AccountLinkEvent{
			EventMeta: meta,
			Replyable: reply,
			Link:      domain.LinkContent{Result: w.Link.Result, Nonce: w.Link.Nonce},
		}, nil

	case domain.EventTypeMemberJoined:
		if w.Joined == nil {
			return nil, errors.New("memberJoined event has no joined members")
		}
		return domain.MemberJoinedEvent{EventMeta: meta, Replyable: reply, Joined: toSources(w.Joined.Members)}, nil

	case domain.EventTypeMemberLeft:
		if w.Left == nil {
			return nil, errors.New("memberLeft event has no left members")
		}
		return domain.MemberLeftEvent{EventMeta: meta, Left: toSources(w.Left.Members)}, nil

	case domain.EventTypeThings:
		if w.Things == nil {
			return nil, errors.New("things event has no things")
		}
		return domain.ThingsEvent{
			EventMeta: meta,
			Replyable: reply,
			Things: domain.ThingsContent{
				DeviceID: w.Things.DeviceID,
				Type:     w.Things.Type,
				Result:   w.Things.Result,
			},
		}, nil

	case domain.EventTypeVideoPlayComplete:
		if w.VideoPlayComplete == nil {
			return nil, errors.New("videoPlayComplete event has no videoPlayComplete")
		}
		return domain.VideoPlayCompleteEvent{
			EventMeta:         meta,
			Replyable:         reply,
			VideoPlayComplete: domain.VideoPlayComplete{TrackingID: w.VideoPlayComplete.TrackingID},
		}, nil

	case domain.EventTypeUnsend:
		if w.Unsend == nil {
			return nil, errors.New("unsend event has no unsend")
		}
		return domain.UnsendEvent{EventMeta: meta, Unsend: domain.UnsendDetail{MessageID: w.Unsend.MessageID}}, nil
	}
	return nil, fmt.Errorf("event type %q has no decoder", t)
}

// decodeUnknown keeps every field of an event it cannot interpret.
// The shared metadata is filled in when it happens to be well formed.
func decodeUnknown(eventType string, raw json.RawMessage, fields map[string]json.RawMessage) domain.UnknownEvent {
	e := domain.UnknownEvent{RawType: eventType, Raw: fields}
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return e
	}
	if meta, err := decodeMeta(&w); err == nil {
		e.EventMeta = meta
	}
	return e
}

func decodeMessageContent(raw json.RawMessage) (domain.MessageContent, error) {
	var m wireMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	switch domain.MessageType(m.Type) {
	case domain.MessageTypeText:
		content := domain.TextMessageContent{
			ID:         m.ID,
			Text:       m.Text,
			QuoteToken: m.QuoteToken,
			Mention:    m.Mention,
		}
		for _, e := range m.Emojis {
			content.Emojis = append(content.Emojis, domain.Emoji{
				Index:     e.Index,
				Length:    e.Length,
				ProductID: e.ProductID,
				EmojiID:   e.EmojiID,
			})
		}
		return content, nil
	case domain.MessageTypeImage:
		return domain.ImageMessageContent{ID: m.ID, ContentProvider: toProvider(m.ContentProvider)}, nil
	case domain.MessageTypeVideo:
		return domain.VideoMessageContent{ID: m.ID, Duration: m.Duration, ContentProvider: toProvider(m.ContentProvider)}, nil
	case domain.MessageTypeAudio:
		return domain.AudioMessageContent{ID: m.ID, Duration: m.Duration, ContentProvider: toProvider(m.ContentProvider)}, nil
	case domain.MessageTypeFile:
		return domain.FileMessageContent{ID: m.ID, FileName: m.FileName, FileSize: m.FileSize}, nil
	case domain.MessageTypeLocation:
		return domain.LocationMessageContent{
			ID:        m.ID,
			Title:     m.Title,
			Address:   m.Address,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		}, nil
	case domain.MessageTypeSticker:
		return domain.StickerMessageContent{
			ID:                  m.ID,
			PackageID:           m.PackageID,
			StickerID:           m.StickerID,
			StickerResourceType: m.StickerResourceType,
			Keywords:            m.Keywords,
		}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return domain.UnknownMessageContent{ID: m.ID, RawType: m.Type, Raw: fields}, nil
}

func toSource(s wireSource) domain.Source {
	return domain.Source{
		Type:    domain.SourceType(s.Type),
		UserID:  s.UserID,
		GroupID: s.GroupID,
		RoomID:  s.RoomID,
	}
}

func toSources(members []wireSource) []domain.Source {
	sources := make([]domain.Source, 0, len(members))
	for _, m := range members {
		sources = append(sources, toSource(m))
	}
	return sources
}

func toProvider(p *wireProvider) domain.ContentProvider {
	if p == nil {
		return domain.ContentProvider{}
	}
	return domain.ContentProvider{
		Type:               p.Type,
		OriginalContentURL: p.OriginalContentURL,
		PreviewImageURL:    p.PreviewImageURL,
	}
}
