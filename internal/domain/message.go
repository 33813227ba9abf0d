package domain

import (
	"encoding/json"
	"fmt"
)

// Message is an outbound message. Every implementation serializes itself
// with its "type" discriminator first.
type Message interface {
	MessageType() MessageType
}

// Sender overrides the display name and icon of a sent message
type Sender struct {
	Name    string `json:"name,omitempty"`
	IconURL string `json:"iconUrl,omitempty"`
}

// QuickReply suggests follow-up actions under a message
type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

// QuickReplyItem is a single quick reply button
type QuickReplyItem struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Action   Action `json:"action"`
}

// MarshalJSON emits the fixed "action" item type
func (i QuickReplyItem) MarshalJSON() ([]byte, error) {
	type alias QuickReplyItem
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"action", alias(i)})
}

// ActionType is the kind of an action
type ActionType string

const (
	// ActionTypeMessage - sends a text message as the user
	ActionTypeMessage ActionType = "message"
	// ActionTypePostback - returns a postback event
	ActionTypePostback ActionType = "postback"
	// ActionTypeURI - opens a URI
	ActionTypeURI ActionType = "uri"
	// ActionTypeDatetimePicker - opens a date/time picker
	ActionTypeDatetimePicker ActionType = "datetimepicker"
	// ActionTypeCamera - opens the camera
	ActionTypeCamera ActionType = "camera"
	// ActionTypeCameraRoll - opens the camera roll
	ActionTypeCameraRoll ActionType = "cameraRoll"
	// ActionTypeLocation - opens the location screen
	ActionTypeLocation ActionType = "location"
)

// Action is a flat record of every action field; unused fields stay empty
type Action struct {
	Type        ActionType `json:"type"`
	Label       string     `json:"label,omitempty"`
	Data        string     `json:"data,omitempty"`
	DisplayText string     `json:"displayText,omitempty"`
	Text        string     `json:"text,omitempty"`
	URI         string     `json:"uri,omitempty"`
	Mode        string     `json:"mode,omitempty"`
	Initial     string     `json:"initial,omitempty"`
	Max         string     `json:"max,omitempty"`
	Min         string     `json:"min,omitempty"`
}

// TextEmoji places a LINE emoji at a "$" placeholder of a text message
type TextEmoji struct {
	Index     int    `json:"index"`
	ProductID string `json:"productId"`
	EmojiID   string `json:"emojiId"`
}

// ImagemapBaseSize is the reference size of an imagemap
type ImagemapBaseSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type (
	// TextMessage - outbound text
	TextMessage struct {
		Text       string      `json:"text"`
		Emojis     []TextEmoji `json:"emojis,omitempty"`
		QuoteToken string      `json:"quoteToken,omitempty"`
		QuickReply *QuickReply `json:"quickReply,omitempty"`
		Sender     *Sender     `json:"sender,omitempty"`
	}

	// ImageMessage - outbound image
	ImageMessage struct {
		OriginalContentURL string      `json:"originalContentUrl"`
		PreviewImageURL    string      `json:"previewImageUrl"`
		QuickReply         *QuickReply `json:"quickReply,omitempty"`
		Sender             *Sender     `json:"sender,omitempty"`
	}

	// VideoMessage - outbound video; TrackingID enables videoPlayComplete events
	VideoMessage struct {
		OriginalContentURL string      `json:"originalContentUrl"`
		PreviewImageURL    string      `json:"previewImageUrl"`
		TrackingID         string      `json:"trackingId,omitempty"`
		QuickReply         *QuickReply `json:"quickReply,omitempty"`
		Sender             *Sender     `json:"sender,omitempty"`
	}

	// AudioMessage - outbound audio, Duration in milliseconds
	AudioMessage struct {
		OriginalContentURL string      `json:"originalContentUrl"`
		Duration           int64       `json:"duration"`
		QuickReply         *QuickReply `json:"quickReply,omitempty"`
		Sender             *Sender     `json:"sender,omitempty"`
	}

	// LocationMessage - outbound location
	LocationMessage struct {
		Title      string      `json:"title"`
		Address    string      `json:"address"`
		Latitude   float64     `json:"latitude"`
		Longitude  float64     `json:"longitude"`
		QuickReply *QuickReply `json:"quickReply,omitempty"`
		Sender     *Sender     `json:"sender,omitempty"`
	}

	// StickerMessage - outbound sticker
	StickerMessage struct {
		PackageID  string      `json:"packageId"`
		StickerID  string      `json:"stickerId"`
		QuoteToken string      `json:"quoteToken,omitempty"`
		QuickReply *QuickReply `json:"quickReply,omitempty"`
		Sender     *Sender     `json:"sender,omitempty"`
	}

	// TemplateMessage - outbound template; the template body is passed through as JSON
	TemplateMessage struct {
		AltText    string          `json:"altText"`
		Template   json.RawMessage `json:"template"`
		QuickReply *QuickReply     `json:"quickReply,omitempty"`
		Sender     *Sender         `json:"sender,omitempty"`
	}

	// FlexMessage - outbound flex; the container is passed through as JSON
	FlexMessage struct {
		AltText    string          `json:"altText"`
		Contents   json.RawMessage `json:"contents"`
		QuickReply *QuickReply     `json:"quickReply,omitempty"`
		Sender     *Sender         `json:"sender,omitempty"`
	}

	// ImagemapMessage - outbound imagemap; actions and video are passed through as JSON
	ImagemapMessage struct {
		BaseURL    string           `json:"baseUrl"`
		AltText    string           `json:"altText"`
		BaseSize   ImagemapBaseSize `json:"baseSize"`
		Actions    json.RawMessage  `json:"actions"`
		Video      json.RawMessage  `json:"video,omitempty"`
		QuickReply *QuickReply      `json:"quickReply,omitempty"`
		Sender     *Sender          `json:"sender,omitempty"`
	}
)

// NewTextMessage returns a plain text message
func NewTextMessage(text string) TextMessage {
	return TextMessage{Text: text}
}

// MessageType implements Message
func (TextMessage) MessageType() MessageType { return MessageTypeText }

// MessageType implements Message
func (ImageMessage) MessageType() MessageType { return MessageTypeImage }

// MessageType implements Message
func (VideoMessage) MessageType() MessageType { return MessageTypeVideo }

// MessageType implements Message
func (AudioMessage) MessageType() MessageType { return MessageTypeAudio }

// MessageType implements Message
func (LocationMessage) MessageType() MessageType { return MessageTypeLocation }

// MessageType implements Message
func (StickerMessage) MessageType() MessageType { return MessageTypeSticker }

// MessageType implements Message
func (TemplateMessage) MessageType() MessageType { return MessageTypeTemplate }

// MessageType implements Message
func (FlexMessage) MessageType() MessageType { return MessageTypeFlex }

// MessageType implements Message
func (ImagemapMessage) MessageType() MessageType { return MessageTypeImagemap }

// MarshalJSON implements json.Marshaler
func (m TextMessage) MarshalJSON() ([]byte, error) {
	type alias TextMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeText, alias(m)})
}

// MarshalJSON implements json.Marshaler
func (m ImageMessage) MarshalJSON() ([]byte, error) {
	type alias ImageMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeImage, alias(m)})
}

// MarshalJSON implements json.Marshaler
func (m VideoMessage) MarshalJSON() ([]byte, error) {
	type alias VideoMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeVideo, alias(m)})
}

// MarshalJSON implements json.Marshaler
func (m AudioMessage) MarshalJSON() ([]byte, error) {
	type alias AudioMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeAudio, alias(m)})
}

// MarshalJSON implements json.Marshaler
func (m LocationMessage) MarshalJSON() ([]byte, error) {
	type alias LocationMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeLocation, alias(m)})
}

// MarshalJSON implements json.Marshaler
func (m StickerMessage) MarshalJSON() ([]byte, error) {
	type alias StickerMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeSticker, alias(m)})
}

// MarshalJSON implements json.Marshaler
func (m TemplateMessage) MarshalJSON() ([]byte, error) {
	type alias TemplateMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeTemplate, alias(m)})
}

// MarshalJSON implements json.Marshaler
func (m FlexMessage) MarshalJSON() ([]byte, error) {
	type alias FlexMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeFlex, alias(m)})
}

// MarshalJSON implements json.Marshaler
func (m ImagemapMessage) MarshalJSON() ([]byte, error) {
	type alias ImagemapMessage
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MessageTypeImagemap, alias(m)})
}

// UnmarshalMessage decodes one outbound message by its "type" discriminator
func UnmarshalMessage(data []byte) (Message, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var (
		msg Message
		err error
	)
	switch head.Type {
	case MessageTypeText:
		var m TextMessage
		err = json.Unmarshal(data, &m)
		msg = m
	case MessageTypeImage:
		var m ImageMessage
		err = json.Unmarshal(data, &m)
		msg = m
	case MessageTypeVideo:
		var m VideoMessage
		err = json.Unmarshal(data, &m)
		msg = m
	case MessageTypeAudio:
		var m AudioMessage
		err = json.Unmarshal(data, &m)
		msg = m
	case MessageTypeLocation:
		var m LocationMessage
		err = json.Unmarshal(data, &m)
		msg = m
	case MessageTypeSticker:
		var m StickerMessage
		err = json.Unmarshal(data, &m)
		msg = m
	case MessageTypeTemplate:
		var m TemplateMessage
		err = json.Unmarshal(data, &m)
		msg = m
	case MessageTypeFlex:
		var m FlexMessage
		err = json.Unmarshal(data, &m)
		msg = m
	case MessageTypeImagemap:
		var m ImagemapMessage
		err = json.Unmarshal(data, &m)
		msg = m
	default:
		return nil, fmt.Errorf("%w: unsupported message type %q", ErrInvalidPayload, head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s message: %v", ErrInvalidPayload, head.Type, err)
	}
	return msg, nil
}

// UnmarshalMessages decodes a list of outbound messages, keeping their order
func UnmarshalMessages(raws []json.RawMessage) ([]Message, error) {
	if raws == nil {
		return nil, nil
	}
	messages := make([]Message, 0, len(raws))
	for i, raw := range raws {
		msg, err := UnmarshalMessage(raw)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
