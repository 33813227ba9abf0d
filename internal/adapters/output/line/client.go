package line

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-line-connect/configs"
	"golang-line-connect/internal/domain"
	"golang-line-connect/pkg/future"
	"golang-line-connect/pkg/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const (
	requestIDHeader = "X-Line-Request-Id"
	retryKeyHeader  = "X-Line-Retry-Key"
	userAgent       = "golang-line-connect/1.0"

	defaultEndpoint       = "https://api.line.me"
	defaultMaxConcurrency = 16
	defaultMaxIdleConns   = 100
)

// LineClientAdapter struct - Output adapter for the LINE messaging API.
// Calls run on their own goroutines and share one pooled http.Client;
// a weighted semaphore caps how many are in flight at once.
type LineClientAdapter struct {
	httpClient   *http.Client
	baseURL      string
	channelToken string
	timeout      time.Duration
	inflight     *semaphore.Weighted
	recorder     metrics.Recorder
}

// NewLineClientAdapter func - Creates new LINE client adapter
func NewLineClientAdapter(line configs.Line, client configs.Client, recorder metrics.Recorder) (*LineClientAdapter, error) {
	if line.ChannelToken == "" {
		return nil, errors.New("line channel token is required")
	}

	baseURL := strings.TrimSuffix(line.APIEndpoint, "/")
	if baseURL == "" {
		baseURL = defaultEndpoint
	}

	maxConcurrency := client.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	maxIdleConns := client.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = defaultMaxIdleConns
	}

	if recorder == nil {
		recorder = metrics.Nop{}
	}

	// No client-wide Timeout: deadlines are per call and come from the call context
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConns,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	adapter := &LineClientAdapter{
		httpClient:   httpClient,
		baseURL:      baseURL,
		channelToken: line.ChannelToken,
		timeout:      client.Timeout(),
		inflight:     semaphore.NewWeighted(int64(maxConcurrency)),
		recorder:     recorder,
	}

	logrus.Infof("LINE client adapter initialized with endpoint: %s, max concurrency: %d, timeout: %v", baseURL, maxConcurrency, adapter.timeout)

	return adapter, nil
}

// ReplyMessage - Sends reply messages through a reply token
func (a *LineClientAdapter) ReplyMessage(ctx context.Context, request domain.ReplyMessage, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	return execute(ctx, a, apiCall{
		name:   "message/reply",
		method: http.MethodPost,
		path:   "/v2/bot/message/reply",
		body:   request,
	}, opts, decodeMessageAPIResponse)
}

// PushMessage - Sends messages to one user, group or room
func (a *LineClientAdapter) PushMessage(ctx context.Context, request domain.PushMessage, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	return execute(ctx, a, apiCall{
		name:     "message/push",
		method:   http.MethodPost,
		path:     "/v2/bot/message/push",
		body:     request,
		retryKey: true,
	}, opts, decodeMessageAPIResponse)
}

// Multicast - Sends messages to several users
func (a *LineClientAdapter) Multicast(ctx context.Context, request domain.Multicast, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	return execute(ctx, a, apiCall{
		name:     "message/multicast",
		method:   http.MethodPost,
		path:     "/v2/bot/message/multicast",
		body:     request,
		retryKey: true,
	}, opts, decodeMessageAPIResponse)
}

// Broadcast - Sends messages to every follower
func (a *LineClientAdapter) Broadcast(ctx context.Context, request domain.Broadcast, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	return execute(ctx, a, apiCall{
		name:     "message/broadcast",
		method:   http.MethodPost,
		path:     "/v2/bot/message/broadcast",
		body:     request,
		retryKey: true,
	}, opts, decodeMessageAPIResponse)
}

// Narrowcast - Sends messages to an audience-filtered set of followers
func (a *LineClientAdapter) Narrowcast(ctx context.Context, request domain.Narrowcast, opts ...domain.CallOption) *future.Future[*domain.MessageAPIResponse] {
	return execute(ctx, a, apiCall{
		name:     "message/narrowcast",
		method:   http.MethodPost,
		path:     "/v2/bot/message/narrowcast",
		body:     request,
		retryKey: true,
	}, opts, decodeMessageAPIResponse)
}

// ValidateReply - Checks reply messages without sending them
func (a *LineClientAdapter) ValidateReply(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}] {
	return a.validate(ctx, "reply", request, opts)
}

// ValidatePush - Checks push messages without sending them
func (a *LineClientAdapter) ValidatePush(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}] {
	return a.validate(ctx, "push", request, opts)
}

// ValidateMulticast - Checks multicast messages without sending them
func (a *LineClientAdapter) ValidateMulticast(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}] {
	return a.validate(ctx, "multicast", request, opts)
}

// ValidateNarrowcast - Checks narrowcast messages without sending them
func (a *LineClientAdapter) ValidateNarrowcast(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}] {
	return a.validate(ctx, "narrowcast", request, opts)
}

// ValidateBroadcast - Checks broadcast messages without sending them
func (a *LineClientAdapter) ValidateBroadcast(ctx context.Context, request domain.ValidateMessage, opts ...domain.CallOption) *future.Future[struct{}] {
	return a.validate(ctx, "broadcast", request, opts)
}

func (a *LineClientAdapter) validate(ctx context.Context, kind string, request domain.ValidateMessage, opts []domain.CallOption) *future.Future[struct{}] {
	return execute(ctx, a, apiCall{
		name:   "validate/" + kind,
		method: http.MethodPost,
		path:   "/v2/bot/message/validate/" + kind,
		body:   request,
	}, opts, decodeNothing)
}

// GetNumberOfSentMessages - Counts messages sent on a date by one send kind
func (a *LineClientAdapter) GetNumberOfSentMessages(ctx context.Context, kind domain.DeliveryKind, date string, opts ...domain.CallOption) *future.Future[*domain.NumberOfMessagesResponse] {
	if !kind.Valid() {
		return future.Failed[*domain.NumberOfMessagesResponse](requestError(fmt.Errorf("unknown delivery kind %q", kind)))
	}
	if err := domain.ValidateDate(date); err != nil {
		return future.Failed[*domain.NumberOfMessagesResponse](requestError(err))
	}
	return execute(ctx, a, apiCall{
		name:   "delivery/" + string(kind),
		method: http.MethodGet,
		path:   "/v2/bot/message/delivery/" + string(kind),
		query:  url.Values{"date": {date}},
	}, opts, decodeJSON[domain.NumberOfMessagesResponse])
}

// GetMessageDeliveries - Counts messages delivered on a date by channel feature
func (a *LineClientAdapter) GetMessageDeliveries(ctx context.Context, date string, opts ...domain.CallOption) *future.Future[*domain.MessageDeliveriesResponse] {
	if err := domain.ValidateDate(date); err != nil {
		return future.Failed[*domain.MessageDeliveriesResponse](requestError(err))
	}
	return execute(ctx, a, apiCall{
		name:   "insight/message/delivery",
		method: http.MethodGet,
		path:   "/v2/bot/insight/message/delivery",
		query:  url.Values{"date": {date}},
	}, opts, decodeJSON[domain.MessageDeliveriesResponse])
}

// GetNumberOfFollowers - Returns follower statistics for a date
func (a *LineClientAdapter) GetNumberOfFollowers(ctx context.Context, date string, opts ...domain.CallOption) *future.Future[*domain.FollowersResponse] {
	if err := domain.ValidateDate(date); err != nil {
		return future.Failed[*domain.FollowersResponse](requestError(err))
	}
	return execute(ctx, a, apiCall{
		name:   "insight/followers",
		method: http.MethodGet,
		path:   "/v2/bot/insight/followers",
		query:  url.Values{"date": {date}},
	}, opts, decodeJSON[domain.FollowersResponse])
}

// GetBotInfo - Returns basic information about the bot
func (a *LineClientAdapter) GetBotInfo(ctx context.Context, opts ...domain.CallOption) *future.Future[*domain.BotInfoResponse] {
	return execute(ctx, a, apiCall{
		name:   "info",
		method: http.MethodGet,
		path:   "/v2/bot/info",
	}, opts, decodeJSON[domain.BotInfoResponse])
}

// apiCall describes one HTTP exchange with the platform
type apiCall struct {
	name     string
	method   string
	path     string
	query    url.Values
	body     any
	retryKey bool
}

// execute runs c on its own goroutine and returns its pending future.
// decode turns a 2xx body into the typed result; every failure resolves
// the future with a *domain.APIError.
func execute[T any](ctx context.Context, a *LineClientAdapter, c apiCall, opts []domain.CallOption, decode func([]byte, http.Header) (T, error)) *future.Future[T] {
	options := domain.NewCallOptions(opts...)
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = a.timeout
	}

	return future.Go(ctx, func(ctx context.Context) (value T, err error) {
		var zero T
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		var (
			status    int
			requestID string
		)
		defer func() {
			if r := recover(); r != nil {
				value = zero
				err = &domain.APIError{
					Kind:       domain.ErrorKindServerError,
					StatusCode: status,
					Message:    "unexpected failure handling response",
					RequestID:  requestID,
					Err:        fmt.Errorf("panic: %v", r),
				}
			}
			a.observe(ctx, c.name, status, requestID, time.Since(start), err)
		}()

		value, status, requestID, err = roundTrip(ctx, a, c, options, decode)
		if err != nil {
			return zero, err
		}
		return value, nil
	})
}

func roundTrip[T any](ctx context.Context, a *LineClientAdapter, c apiCall, options domain.CallOptions, decode func([]byte, http.Header) (T, error)) (value T, status int, requestID string, err error) {
	req, err := a.newRequest(ctx, c, options)
	if err != nil {
		return value, 0, "", requestError(err)
	}

	if err := a.inflight.Acquire(ctx, 1); err != nil {
		return value, 0, "", transportError(err)
	}
	defer a.inflight.Release(1)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return value, 0, "", transportError(err)
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	requestID = resp.Header.Get(requestIDHeader)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := transportError(fmt.Errorf("reading response body: %w", err))
		apiErr.StatusCode = status
		apiErr.RequestID = requestID
		return value, status, requestID, apiErr
	}

	if status < 200 || status > 299 {
		apiErr := Classify(status, body)
		apiErr.RequestID = requestID
		return value, status, requestID, apiErr
	}

	value, err = decode(body, resp.Header)
	if err != nil {
		return value, status, requestID, &domain.APIError{
			Kind:       domain.ErrorKindServerError,
			StatusCode: status,
			Message:    "malformed response body",
			RequestID:  requestID,
			Err:        err,
		}
	}
	return value, status, requestID, nil
}

func (a *LineClientAdapter) newRequest(ctx context.Context, c apiCall, options domain.CallOptions) (*http.Request, error) {
	target := a.baseURL + c.path
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", c.name, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", c.name, err)
	}
	req.Header.Set("Authorization", "Bearer "+a.channelToken)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.retryKey && options.RetryKey != "" {
		req.Header.Set(retryKeyHeader, options.RetryKey)
	}
	return req, nil
}

func (a *LineClientAdapter) observe(ctx context.Context, name string, status int, requestID string, elapsed time.Duration, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	a.recorder.RecordCall(context.WithoutCancel(ctx), name, outcome, elapsed)

	entry := logrus.WithFields(logrus.Fields{
		"endpoint":   name,
		"status":     status,
		"request_id": requestID,
		"elapsed":    elapsed,
	})
	if err != nil {
		entry.WithField("kind", outcome).Warnf("LINE API call failed: %v", err)
		return
	}
	entry.Debug("LINE API call completed")
}

func decodeJSON[T any](body []byte, _ http.Header) (*T, error) {
	var v T
	if len(bytes.TrimSpace(body)) == 0 {
		return &v, nil
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeMessageAPIResponse(body []byte, header http.Header) (*domain.MessageAPIResponse, error) {
	resp, err := decodeJSON[domain.MessageAPIResponse](body, header)
	if err != nil {
		return nil, err
	}
	resp.RequestID = header.Get(requestIDHeader)
	return resp, nil
}

func decodeNothing([]byte, http.Header) (struct{}, error) {
	return struct{}{}, nil
}
