package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestReplyMessage_Wire(t *testing.T) {
	req := NewReplyMessage("nHuyWiB7yP5Zw52FIkcQobQuGDXCTA", NewTextMessage("Hello, world"))

	got, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	want := `{"replyToken":"nHuyWiB7yP5Zw52FIkcQobQuGDXCTA","messages":[{"type":"text","text":"Hello, world"}],"notificationDisabled":false}`
	if string(got) != want {
		t.Errorf("expected %s, got: %s", want, got)
	}
}

func TestRequest_NotificationDisabledAlwaysPresent(t *testing.T) {
	requests := []any{
		NewPushMessage("U1", NewTextMessage("a")),
		NewMulticast([]string{"U1", "U2"}, NewTextMessage("a")),
		NewBroadcast(NewTextMessage("a")),
		Narrowcast{Messages: []Message{NewTextMessage("a")}},
	}
	for _, req := range requests {
		data, err := json.Marshal(req)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if !strings.Contains(string(data), `"notificationDisabled":false`) {
			t.Errorf("expected notificationDisabled in %s", data)
		}
	}
}

func TestRequest_RoundTrip(t *testing.T) {
	t.Run("reply", func(t *testing.T) {
		want := ReplyMessage{
			ReplyToken:           "token",
			Messages:             []Message{NewTextMessage("a"), StickerMessage{PackageID: "1", StickerID: "2"}},
			NotificationDisabled: true,
		}
		var got ReplyMessage
		roundTrip(t, want, &got)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %+v, got: %+v", want, got)
		}
	})

	t.Run("push", func(t *testing.T) {
		want := NewPushMessage("U1", NewTextMessage("a"))
		var got PushMessage
		roundTrip(t, want, &got)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %+v, got: %+v", want, got)
		}
	})

	t.Run("multicast", func(t *testing.T) {
		want := NewMulticast([]string{"U1", "U2"}, NewTextMessage("a"))
		want.NotificationDisabled = true
		var got Multicast
		roundTrip(t, want, &got)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %+v, got: %+v", want, got)
		}
	})

	t.Run("broadcast", func(t *testing.T) {
		want := NewBroadcast(NewTextMessage("a"), NewTextMessage("b"))
		var got Broadcast
		roundTrip(t, want, &got)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %+v, got: %+v", want, got)
		}
	})

	t.Run("narrowcast", func(t *testing.T) {
		want := Narrowcast{
			Messages:  []Message{NewTextMessage("a")},
			Recipient: json.RawMessage(`{"type":"audience","audienceGroupId":5614991017776}`),
			Limit:     &NarrowcastLimit{Max: 100},
		}
		var got Narrowcast
		roundTrip(t, want, &got)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %+v, got: %+v", want, got)
		}
	})

	t.Run("validate", func(t *testing.T) {
		want := NewValidateMessage(NewTextMessage("a"))
		var got ValidateMessage
		roundTrip(t, want, &got)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %+v, got: %+v", want, got)
		}
	})
}

func TestRequest_MissingNotificationDisabledDefaultsToFalse(t *testing.T) {
	var got PushMessage
	if err := json.Unmarshal([]byte(`{"to":"U1","messages":[{"type":"text","text":"a"}]}`), &got); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got.NotificationDisabled {
		t.Error("expected notificationDisabled to default to false")
	}
}

func TestNewCallOptions(t *testing.T) {
	opts := NewCallOptions(WithTimeout(2*time.Second), nil, WithRetryKey("key"))
	if opts.Timeout != 2*time.Second {
		t.Errorf("expected timeout 2s, got: %v", opts.Timeout)
	}
	if opts.RetryKey != "key" {
		t.Errorf("expected retry key 'key', got: '%s'", opts.RetryKey)
	}

	a := NewCallOptions(WithNewRetryKey())
	b := NewCallOptions(WithNewRetryKey())
	if a.RetryKey == "" || a.RetryKey == b.RetryKey {
		t.Errorf("expected distinct generated retry keys, got: '%s' and '%s'", a.RetryKey, b.RetryKey)
	}
}

func roundTrip(t *testing.T, in any, out any) {
	t.Helper()
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
}
