package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang-line-connect/internal/domain"
	"golang-line-connect/internal/ports/input"

	"github.com/gofiber/fiber/v2"
)

const (
	testSecret       = "SECRET"
	fixtureSignature = "ECezgIpQNUEp4OSHYd7xGSuFG7e66MLPkCkK1Y28XTU="
)

var (
	_ input.LineWebhookService = (*MockWebhookService)(nil)
	_ input.MessageService     = (*MockMessageService)(nil)
)

// MockWebhookService implements input.LineWebhookService for testing
type MockWebhookService struct {
	HandleEventsFunc func(ctx context.Context, request domain.CallbackRequest) error

	// Captured values for assertions
	Calls []domain.CallbackRequest
}

func (m *MockWebhookService) HandleEvents(ctx context.Context, request domain.CallbackRequest) error {
	m.Calls = append(m.Calls, request)
	if m.HandleEventsFunc != nil {
		return m.HandleEventsFunc(ctx, request)
	}
	return nil
}

// MockMessageService implements input.MessageService for testing
type MockMessageService struct {
	PushFunc         func(request domain.PushMessage) (*domain.MessageAPIResponse, error)
	MulticastFunc    func(request domain.Multicast) (*domain.MessageAPIResponse, error)
	BroadcastFunc    func(request domain.Broadcast) (*domain.MessageAPIResponse, error)
	ValidateFunc     func(request domain.ValidateMessage) (*domain.ValidationReport, error)
	BotInfoFunc      func() (*domain.BotInfoResponse, error)
	FollowersFunc    func(date string) (*domain.FollowersResponse, error)
	SentMessagesFunc func(kind domain.DeliveryKind, date string) (*domain.NumberOfMessagesResponse, error)
}

func (m *MockMessageService) Push(_ context.Context, request domain.PushMessage) (*domain.MessageAPIResponse, error) {
	if m.PushFunc != nil {
		return m.PushFunc(request)
	}
	return &domain.MessageAPIResponse{}, nil
}

func (m *MockMessageService) Multicast(_ context.Context, request domain.Multicast) (*domain.MessageAPIResponse, error) {
	if m.MulticastFunc != nil {
		return m.MulticastFunc(request)
	}
	return &domain.MessageAPIResponse{}, nil
}

func (m *MockMessageService) Broadcast(_ context.Context, request domain.Broadcast) (*domain.MessageAPIResponse, error) {
	if m.BroadcastFunc != nil {
		return m.BroadcastFunc(request)
	}
	return &domain.MessageAPIResponse{}, nil
}

func (m *MockMessageService) Validate(_ context.Context, request domain.ValidateMessage) (*domain.ValidationReport, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(request)
	}
	return &domain.ValidationReport{Valid: true}, nil
}

func (m *MockMessageService) BotInfo(_ context.Context) (*domain.BotInfoResponse, error) {
	if m.BotInfoFunc != nil {
		return m.BotInfoFunc()
	}
	return &domain.BotInfoResponse{}, nil
}

func (m *MockMessageService) Followers(_ context.Context, date string) (*domain.FollowersResponse, error) {
	if m.FollowersFunc != nil {
		return m.FollowersFunc(date)
	}
	return &domain.FollowersResponse{}, nil
}

func (m *MockMessageService) SentMessages(_ context.Context, kind domain.DeliveryKind, date string) (*domain.NumberOfMessagesResponse, error) {
	if m.SentMessagesFunc != nil {
		return m.SentMessagesFunc(kind, date)
	}
	return &domain.NumberOfMessagesResponse{}, nil
}

func newTestApp(webhookSrv input.LineWebhookService, messageSrv input.MessageService) *fiber.App {
	app := fiber.New()
	hdl := New("test")
	app.Get("/health", hdl.HealthCheck)

	webhookHdl := NewLineWebhookHandler(webhookSrv, testSecret)
	app.Post("/webhook/line", webhookHdl.HandleWebhook)

	messageHdl := NewMessageHandler(messageSrv)
	api := app.Group("/v1/api")
	api.Post("/push", messageHdl.Push)
	api.Post("/multicast", messageHdl.Multicast)
	api.Post("/broadcast", messageHdl.Broadcast)
	api.Post("/validate", messageHdl.Validate)
	api.Get("/bot", messageHdl.BotInfo)
	api.Get("/followers", messageHdl.Followers)
	api.Get("/delivery/:kind", messageHdl.SentMessages)
	return app
}

func loadFixture(t *testing.T) []byte {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", "callback-request.json"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return body
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, ResponseBody) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	var body ResponseBody
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("expected JSON body, got: %s", raw)
	}
	return resp.StatusCode, body
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// TestHealthCheck tests the health endpoint
func TestHealthCheck(t *testing.T) {
	app := newTestApp(&MockWebhookService{}, &MockMessageService{})

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	if status != http.StatusOK {
		t.Errorf("expected status 200, got: %d", status)
	}
	if body.Status.Code != http.StatusOK {
		t.Errorf("expected status code 200 in body, got: %d", body.Status.Code)
	}
}

// TestWebhook_MissingSignature tests that an unsigned delivery is rejected before decoding
func TestWebhook_MissingSignature(t *testing.T) {
	service := &MockWebhookService{}
	app := newTestApp(service, &MockMessageService{})

	status, body := doRequest(t, app, postJSON("/webhook/line", "{}"))
	if status != http.StatusBadRequest {
		t.Errorf("expected status 400, got: %d", status)
	}
	if len(body.Status.Message) == 0 || !strings.Contains(body.Status.Message[0], "signature") {
		t.Errorf("expected message about the signature, got: %v", body.Status.Message)
	}
	if body.Status.TextCode != TextCodeSignatureMissing {
		t.Errorf("expected text code %s, got: %s", TextCodeSignatureMissing, body.Status.TextCode)
	}
	if len(service.Calls) != 0 {
		t.Errorf("expected service not to be called, got: %d", len(service.Calls))
	}
}

// TestWebhook_InvalidSignature tests that a wrongly signed delivery is rejected
func TestWebhook_InvalidSignature(t *testing.T) {
	service := &MockWebhookService{}
	app := newTestApp(service, &MockMessageService{})

	req := postJSON("/webhook/line", string(loadFixture(t)))
	req.Header.Set(SignatureHeader, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")

	status, body := doRequest(t, app, req)
	if status != http.StatusBadRequest {
		t.Errorf("expected status 400, got: %d", status)
	}
	if body.Status.TextCode != TextCodeSignatureInvalid {
		t.Errorf("expected text code %s, got: %s", TextCodeSignatureInvalid, body.Status.TextCode)
	}
	if len(service.Calls) != 0 {
		t.Errorf("expected service not to be called, got: %d", len(service.Calls))
	}
}

// TestWebhook_ValidDelivery tests the signed fixture end to end
func TestWebhook_ValidDelivery(t *testing.T) {
	service := &MockWebhookService{}
	app := newTestApp(service, &MockMessageService{})

	req := postJSON("/webhook/line", string(loadFixture(t)))
	req.Header.Set(SignatureHeader, fixtureSignature)

	status, _ := doRequest(t, app, req)
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got: %d", status)
	}
	if len(service.Calls) != 1 {
		t.Fatalf("expected one service call, got: %d", len(service.Calls))
	}

	var message *domain.MessageEvent
	for _, e := range service.Calls[0].Events {
		if me, ok := e.(domain.MessageEvent); ok {
			message = &me
		}
	}
	if message == nil {
		t.Fatal("expected a message event")
	}
	if message.Token() != "nHuyWiB7yP5Zw52FIkcQobQuGDXCTA" {
		t.Errorf("unexpected reply token: %s", message.Token())
	}
	if text := message.Message.(domain.TextMessageContent).Text; text != "Hello, world" {
		t.Errorf("expected 'Hello, world', got: %q", text)
	}
}

// TestWebhook_ServiceFailure tests that a failing service surfaces as 500
func TestWebhook_ServiceFailure(t *testing.T) {
	service := &MockWebhookService{
		HandleEventsFunc: func(context.Context, domain.CallbackRequest) error {
			return errors.New("reply failed")
		},
	}
	app := newTestApp(service, &MockMessageService{})

	req := postJSON("/webhook/line", string(loadFixture(t)))
	req.Header.Set(SignatureHeader, fixtureSignature)

	status, _ := doRequest(t, app, req)
	if status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got: %d", status)
	}
}

// TestPush tests the push endpoint conversions
func TestPush(t *testing.T) {
	var got domain.PushMessage
	messages := &MockMessageService{
		PushFunc: func(request domain.PushMessage) (*domain.MessageAPIResponse, error) {
			got = request
			return &domain.MessageAPIResponse{RequestID: "req-1"}, nil
		},
	}
	app := newTestApp(&MockWebhookService{}, messages)

	status, body := doRequest(t, app, postJSON("/v1/api/push",
		`{"to":"U1","messages":[{"type":"text","text":"hi"},{"type":"sticker","packageId":"446","stickerId":"1988"}]}`))
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got: %d (%v)", status, body.Status.Message)
	}
	if got.To != "U1" || len(got.Messages) != 2 {
		t.Fatalf("unexpected push request: %+v", got)
	}
	if _, ok := got.Messages[1].(domain.StickerMessage); !ok {
		t.Errorf("expected sticker message, got: %T", got.Messages[1])
	}
}

// TestMessageEndpoints_ErrorMapping tests how failures become HTTP statuses
func TestMessageEndpoints_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		textCode string
	}{
		{"invalid request", &domain.InvalidRequestError{Problems: []string{"messages must contain at most 5 item(s)"}}, http.StatusBadRequest, TextCodeInvalidRequest},
		{"upstream bad request", &domain.APIError{Kind: domain.ErrorKindBadRequest, StatusCode: 400}, http.StatusBadRequest, TextCodeUpstreamRejected},
		{"upstream not found", &domain.APIError{Kind: domain.ErrorKindNotFound, StatusCode: 404}, http.StatusNotFound, TextCodeUpstreamRejected},
		{"rate limited", &domain.APIError{Kind: domain.ErrorKindTooManyRequests, StatusCode: 429}, http.StatusTooManyRequests, TextCodeRateLimited},
		{"unauthorized token", &domain.APIError{Kind: domain.ErrorKindUnauthorized, StatusCode: 401}, http.StatusBadGateway, TextCodeUpstreamFailed},
		{"server error", &domain.APIError{Kind: domain.ErrorKindServerError, StatusCode: 500}, http.StatusBadGateway, TextCodeUpstreamFailed},
		{"transport", &domain.APIError{Kind: domain.ErrorKindTransport, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, TextCodeUpstreamFailed},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, TextCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := &MockMessageService{
				BroadcastFunc: func(domain.Broadcast) (*domain.MessageAPIResponse, error) {
					return nil, tt.err
				},
			}
			app := newTestApp(&MockWebhookService{}, messages)

			status, body := doRequest(t, app, postJSON("/v1/api/broadcast", `{"messages":[{"type":"text","text":"hi"}]}`))
			if status != tt.status {
				t.Errorf("expected status %d, got: %d", tt.status, status)
			}
			if body.Status.TextCode != tt.textCode {
				t.Errorf("expected text code %s, got: %s", tt.textCode, body.Status.TextCode)
			}
		})
	}
}

// TestValidate_ListsProblems tests that request problems are returned line by line
func TestValidate_ListsProblems(t *testing.T) {
	messages := &MockMessageService{
		ValidateFunc: func(domain.ValidateMessage) (*domain.ValidationReport, error) {
			return nil, &domain.InvalidRequestError{Problems: []string{"messages must contain at most 5 item(s)"}}
		},
	}
	app := newTestApp(&MockWebhookService{}, messages)

	status, body := doRequest(t, app, postJSON("/v1/api/validate", `{"messages":[{"type":"text","text":"hi"}]}`))
	if status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got: %d", status)
	}
	if len(body.Status.Message) != 2 || body.Status.Message[1] != "messages must contain at most 5 item(s)" {
		t.Errorf("unexpected messages: %v", body.Status.Message)
	}
}

// TestUnknownMessageType tests that an unsupported message type is a bad request
func TestUnknownMessageType(t *testing.T) {
	app := newTestApp(&MockWebhookService{}, &MockMessageService{})

	status, body := doRequest(t, app, postJSON("/v1/api/push", `{"to":"U1","messages":[{"type":"hologram"}]}`))
	if status != http.StatusBadRequest {
		t.Errorf("expected status 400, got: %d", status)
	}
	if body.Status.TextCode != TextCodeInvalidPayload {
		t.Errorf("expected text code %s, got: %s", TextCodeInvalidPayload, body.Status.TextCode)
	}
}

// TestInsightEndpoints tests the read-only endpoints and their query checks
func TestInsightEndpoints(t *testing.T) {
	var gotKind domain.DeliveryKind
	var gotDate string
	messages := &MockMessageService{
		SentMessagesFunc: func(kind domain.DeliveryKind, date string) (*domain.NumberOfMessagesResponse, error) {
			gotKind, gotDate = kind, date
			return &domain.NumberOfMessagesResponse{Status: "ready"}, nil
		},
	}
	app := newTestApp(&MockWebhookService{}, messages)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"bot info", "/v1/api/bot", http.StatusOK},
		{"followers", "/v1/api/followers?date=20191231", http.StatusOK},
		{"followers without date", "/v1/api/followers", http.StatusBadRequest},
		{"followers short date", "/v1/api/followers?date=2019123", http.StatusBadRequest},
		{"followers non numeric date", "/v1/api/followers?date=2019-1-1", http.StatusBadRequest},
		{"delivery", "/v1/api/delivery/bcast?date=20191231", http.StatusOK},
		{"delivery unknown kind", "/v1/api/delivery/narrowcast?date=20191231", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if status != tt.status {
				t.Errorf("expected status %d, got: %d", tt.status, status)
			}
		})
	}

	if gotKind != domain.DeliveryKindBroadcast || gotDate != "20191231" {
		t.Errorf("unexpected delivery arguments: %s %s", gotKind, gotDate)
	}
}

// TestErrorBody tests the envelope rendering without a server
func TestErrorBody(t *testing.T) {
	code, body := errorBody(domain.ErrMissingSignature)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got: %d", code)
	}
	if !strings.Contains(body.Status.Message[0], "X-Line-Signature") {
		t.Errorf("expected header name in message, got: %v", body.Status.Message)
	}
}
