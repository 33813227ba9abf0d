package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestMessage_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "text",
			msg:  NewTextMessage("Hello, world"),
			want: `{"type":"text","text":"Hello, world"}`,
		},
		{
			name: "text with quick reply and sender",
			msg: TextMessage{
				Text: "pick one",
				QuickReply: &QuickReply{Items: []QuickReplyItem{
					{Action: Action{Type: ActionTypeMessage, Label: "Yes", Text: "yes"}},
				}},
				Sender: &Sender{Name: "bot"},
			},
			want: `{"type":"text","text":"pick one","quickReply":{"items":[{"type":"action","action":{"type":"message","label":"Yes","text":"yes"}}]},"sender":{"name":"bot"}}`,
		},
		{
			name: "sticker",
			msg:  StickerMessage{PackageID: "446", StickerID: "1988"},
			want: `{"type":"sticker","packageId":"446","stickerId":"1988"}`,
		},
		{
			name: "audio",
			msg:  AudioMessage{OriginalContentURL: "https://example.com/a.m4a", Duration: 60000},
			want: `{"type":"audio","originalContentUrl":"https://example.com/a.m4a","duration":60000}`,
		},
		{
			name: "flex keeps contents verbatim",
			msg:  FlexMessage{AltText: "alt", Contents: json.RawMessage(`{"type":"bubble"}`)},
			want: `{"type":"flex","altText":"alt","contents":{"type":"bubble"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.msg)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %s, got: %s", tt.want, got)
			}
		})
	}
}

func TestUnmarshalMessage(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		messages := []Message{
			NewTextMessage("hi"),
			ImageMessage{OriginalContentURL: "https://example.com/o.jpg", PreviewImageURL: "https://example.com/p.jpg"},
			VideoMessage{OriginalContentURL: "https://example.com/v.mp4", PreviewImageURL: "https://example.com/p.jpg", TrackingID: "track"},
			LocationMessage{Title: "office", Address: "Tokyo", Latitude: 35.65910807942215, Longitude: 139.70372892916203},
			TemplateMessage{AltText: "t", Template: json.RawMessage(`{"type":"confirm"}`)},
			ImagemapMessage{BaseURL: "https://example.com/map", AltText: "m", BaseSize: ImagemapBaseSize{Width: 1040, Height: 1040}, Actions: json.RawMessage(`[]`)},
		}
		for _, msg := range messages {
			data, err := json.Marshal(msg)
			if err != nil {
				t.Fatalf("marshal %s: %v", msg.MessageType(), err)
			}
			got, err := UnmarshalMessage(data)
			if err != nil {
				t.Fatalf("unmarshal %s: %v", msg.MessageType(), err)
			}
			if !reflect.DeepEqual(got, msg) {
				t.Errorf("expected %+v, got: %+v", msg, got)
			}
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := UnmarshalMessage([]byte(`{"type":"hologram"}`))
		if !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("expected ErrInvalidPayload, got: %v", err)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := UnmarshalMessage([]byte(`"text"`))
		if !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("expected ErrInvalidPayload, got: %v", err)
		}
	})
}
