package domain

import "encoding/json"

// MessageType is the wire discriminator of inbound and outbound messages
type MessageType string

const (
	// MessageTypeText - Text message
	MessageTypeText MessageType = "text"
	// MessageTypeImage - Image message
	MessageTypeImage MessageType = "image"
	// MessageTypeVideo - Video message
	MessageTypeVideo MessageType = "video"
	// MessageTypeAudio - Audio message
	MessageTypeAudio MessageType = "audio"
	// MessageTypeFile - File message
	MessageTypeFile MessageType = "file"
	// MessageTypeLocation - Location message
	MessageTypeLocation MessageType = "location"
	// MessageTypeSticker - Sticker message
	MessageTypeSticker MessageType = "sticker"
	// MessageTypeTemplate - Template message (outbound only)
	MessageTypeTemplate MessageType = "template"
	// MessageTypeFlex - Flex message (outbound only)
	MessageTypeFlex MessageType = "flex"
	// MessageTypeImagemap - Imagemap message (outbound only)
	MessageTypeImagemap MessageType = "imagemap"
)

// MessageContent is the message carried by a MessageEvent
type MessageContent interface {
	ContentType() MessageType
	ContentID() string
}

// ContentProvider tells where the binary content of a media message lives
type ContentProvider struct {
	Type               string
	OriginalContentURL string
	PreviewImageURL    string
}

type (
	// TextMessageContent - inbound text
	TextMessageContent struct {
		ID         string
		Text       string
		QuoteToken string
		Emojis     []Emoji
		Mention    json.RawMessage
	}

	// Emoji - a LINE emoji inside a text message
	Emoji struct {
		Index     int
		Length    int
		ProductID string
		EmojiID   string
	}

	// ImageMessageContent - inbound image
	ImageMessageContent struct {
		ID              string
		ContentProvider ContentProvider
	}

	// VideoMessageContent - inbound video
	VideoMessageContent struct {
		ID              string
		Duration        int64
		ContentProvider ContentProvider
	}

	// AudioMessageContent - inbound audio
	AudioMessageContent struct {
		ID              string
		Duration        int64
		ContentProvider ContentProvider
	}

	// FileMessageContent - inbound file
	FileMessageContent struct {
		ID       string
		FileName string
		FileSize int64
	}

	// LocationMessageContent - inbound location
	LocationMessageContent struct {
		ID        string
		Title     string
		Address   string
		Latitude  float64
		Longitude float64
	}

	// StickerMessageContent - inbound sticker
	StickerMessageContent struct {
		ID                  string
		PackageID           string
		StickerID           string
		StickerResourceType string
		Keywords            []string
	}

	// UnknownMessageContent - a message kind this version does not know
	UnknownMessageContent struct {
		ID      string
		RawType string
		Raw     map[string]json.RawMessage
	}
)

// ContentType implements MessageContent
func (TextMessageContent) ContentType() MessageType { return MessageTypeText }

// ContentType implements MessageContent
func (ImageMessageContent) ContentType() MessageType { return MessageTypeImage }

// ContentType implements MessageContent
func (VideoMessageContent) ContentType() MessageType { return MessageTypeVideo }

// ContentType implements MessageContent
func (AudioMessageContent) ContentType() MessageType { return MessageTypeAudio }

// ContentType implements MessageContent
func (FileMessageContent) ContentType() MessageType { return MessageTypeFile }

// ContentType implements MessageContent
func (LocationMessageContent) ContentType() MessageType { return MessageTypeLocation }

// ContentType implements MessageContent
func (StickerMessageContent) ContentType() MessageType { return MessageTypeSticker }

// ContentType implements MessageContent
func (m UnknownMessageContent) ContentType() MessageType { return MessageType(m.RawType) }

// ContentID implements MessageContent
func (m TextMessageContent) ContentID() string { return m.ID }

// ContentID implements MessageContent
func (m ImageMessageContent) ContentID() string { return m.ID }

// ContentID implements MessageContent
func (m VideoMessageContent) ContentID() string { return m.ID }

// ContentID implements MessageContent
func (m AudioMessageContent) ContentID() string { return m.ID }

// ContentID implements MessageContent
func (m FileMessageContent) ContentID() string { return m.ID }

// ContentID implements MessageContent
func (m LocationMessageContent) ContentID() string { return m.ID }

// ContentID implements MessageContent
func (m StickerMessageContent) ContentID() string { return m.ID }

// ContentID implements MessageContent
func (m UnknownMessageContent) ContentID() string { return m.ID }
