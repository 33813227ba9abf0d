package application

import (
	"context"
	"sync"

	"golang-line-connect/internal/domain"
	"golang-line-connect/internal/ports/output"
	"golang-line-connect/pkg/future"
)

var (
	_ output.LineClient      = (*MockLineClient)(nil)
	_ output.RedeliveryStore = (*MockRedeliveryStore)(nil)
)

// Mock implementations for testing

// MockLineClient implements output.LineClient for testing.
// Unset Func fields resolve with an empty success.
type MockLineClient struct {
	ReplyMessageFunc func(request domain.ReplyMessage) (*domain.MessageAPIResponse, error)
	PushMessageFunc  func(request domain.PushMessage, opts domain.CallOptions) (*domain.MessageAPIResponse, error)
	MulticastFunc    func(request domain.Multicast) (*domain.MessageAPIResponse, error)
	BroadcastFunc    func(request domain.Broadcast) (*domain.MessageAPIResponse, error)
	NarrowcastFunc   func(request domain.Narrowcast) (*domain.MessageAPIResponse, error)
	ValidateFunc     func(endpoint string, request domain.ValidateMessage) error
	SentMessagesFunc func(kind domain.DeliveryKind, date string) (*domain.NumberOfMessagesResponse, error)
	DeliveriesFunc   func(date string) (*domain.MessageDeliveriesResponse, error)
	FollowersFunc    func(date string) (*domain.FollowersResponse, error)
	BotInfoFunc      func() (*domain.BotInfoResponse, error)

	mu sync.Mutex

	// Captured values for assertions
	ReplyRequests []domain.ReplyMessage
	PushRequests  []domain.PushMessage
	PushOptions   []domain.CallOptions
	Validated     []string
}

func (m *MockLineClient) ReplyMessage(_ context.Context, request domain.ReplyMessage, _ ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	m.mu.Lock()
	m.ReplyRequests = append(m.ReplyRequests, request)
	m.mu.Unlock()
	if m.ReplyMessageFunc != nil {
		return future.Completed[*domain.MessageAPIResponse](m.ReplyMessageFunc(request))
	}
	return future.Completed(&domain.MessageAPIResponse{}, nil)
}

func (m *MockLineClient) PushMessage(_ context.Context, request domain.PushMessage, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	options := domain.NewCallOptions(opts...)
	m.mu.Lock()
	m.PushRequests = append(m.PushRequests, request)
	m.PushOptions = append(m.PushOptions, options)
	m.mu.Unlock()
	if m.PushMessageFunc != nil {
		return future.Completed[*domain.MessageAPIResponse](m.PushMessageFunc(request, options))
	}
	return future.Completed(&domain.MessageAPIResponse{}, nil)
}

func (m *MockLineClient) Multicast(_ context.Context, request domain.Multicast, _ ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	if m.MulticastFunc != nil {
		return future.Completed[*domain.MessageAPIResponse](m.MulticastFunc(request))
	}
	return future.Completed(&domain.MessageAPIResponse{}, nil)
}

func (m *MockLineClient) Broadcast(_ context.Context, request domain.Broadcast, _ ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	if m.BroadcastFunc != nil {
		return future.Completed[*domain.MessageAPIResponse](m.BroadcastFunc(request))
	}
	return future.Completed(&domain.MessageAPIResponse{}, nil)
}

func (m *MockLineClient) Narrowcast(_ context.Context, request domain.Narrowcast, _ ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	if m.NarrowcastFunc != nil {
		return future.Completed[*domain.MessageAPIResponse](m.NarrowcastFunc(request))
	}
	return future.Completed(&domain.MessageAPIResponse{}, nil)
}

func (m *MockLineClient) validate(endpoint string, request domain.ValidateMessage) *future.Future[struct{}] {
	m.mu.Lock()
	m.Validated = append(m.Validated, endpoint)
	m.mu.Unlock()
	if m.ValidateFunc != nil {
		return future.Completed(struct{}{}, m.ValidateFunc(endpoint, request))
	}
	return future.Completed(struct{}{}, nil)
}

func (m *MockLineClient) ValidateReply(_ context.Context, request domain.ValidateMessage, _ ...domain.CallOption) *future.Future[struct{}] {
	return m.validate("reply", request)
}

func (m *MockLineClient) ValidatePush(_ context.Context, request domain.ValidateMessage, _ ...domain.CallOption) *future.Future[struct{}] {
	return m.validate("push", request)
}

func (m *MockLineClient) ValidateMulticast(_ context.Context, request domain.ValidateMessage, _ ...domain.CallOption) *future.Future[struct{}] {
	return m.validate("multicast", request)
}

func (m *MockLineClient) ValidateNarrowcast(_ context.Context, request domain.ValidateMessage, _ ...domain.CallOption) *future.Future[struct{}] {
	return m.validate("narrowcast", request)
}

func (m *MockLineClient) ValidateBroadcast(_ context.Context, request domain.ValidateMessage, _ ...domain.CallOption) *future.Future[struct{}] {
	return m.validate("broadcast", request)
}

func (m *MockLineClient) GetNumberOfSentMessages(_ context.Context, kind domain.DeliveryKind, date string, _ ...domain.CallOption) *future.Future[*domain.NumberOfMessagesResponse] {
	if m.SentMessagesFunc != nil {
		return future.Completed[*domain.NumberOfMessagesResponse](m.SentMessagesFunc(kind, date))
	}
	return future.Completed(&domain.NumberOfMessagesResponse{Status: "ready"}, nil)
}

func (m *MockLineClient) GetMessageDeliveries(_ context.Context, date string, _ ...domain.CallOption) *future.Future[*domain.MessageDeliveriesResponse] {
	if m.DeliveriesFunc != nil {
		return future.Completed[*domain.MessageDeliveriesResponse](m.DeliveriesFunc(date))
	}
	return future.Completed(&domain.MessageDeliveriesResponse{Status: "ready"}, nil)
}

func (m *MockLineClient) GetNumberOfFollowers(_ context.Context, date string, _ ...domain.CallOption) *future.Future[*domain.FollowersResponse] {
	if m.FollowersFunc != nil {
		return future.Completed[*domain.FollowersResponse](m.FollowersFunc(date))
	}
	return future.Completed(&domain.FollowersResponse{Status: "ready"}, nil)
}

func (m *MockLineClient) GetBotInfo(_ context.Context, _ ...domain.CallOption) *future.Future[*domain.BotInfoResponse] {
	if m.BotInfoFunc != nil {
		return future.Completed[*domain.BotInfoResponse](m.BotInfoFunc())
	}
	return future.Completed(&domain.BotInfoResponse{}, nil)
}

// MockRedeliveryStore implements output.RedeliveryStore for testing
type MockRedeliveryStore struct {
	MarkProcessedFunc func(webhookEventID string) (bool, error)

	// Captured values for assertions
	Marked    []string
	Forgotten []string
}

func (m *MockRedeliveryStore) MarkProcessed(webhookEventID string) (bool, error) {
	m.Marked = append(m.Marked, webhookEventID)
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(webhookEventID)
	}
	return true, nil
}

func (m *MockRedeliveryStore) Forget(webhookEventID string) {
	m.Forgotten = append(m.Forgotten, webhookEventID)
}
