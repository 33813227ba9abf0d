package application

import (
	"context"
	"errors"
	"fmt"

	"golang-line-connect/internal/domain"
	"golang-line-connect/internal/ports/output"
	"golang-line-connect/pkg/future"
	"golang-line-connect/pkg/validator"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Validation endpoint names, used as keys of domain.ValidationReport.Results
const (
	validateReply      = "reply"
	validatePush       = "push"
	validateMulticast  = "multicast"
	validateNarrowcast = "narrowcast"
	validateBroadcast  = "broadcast"
)

// MessageService struct - Application service implementing outbound messaging use cases
type MessageService struct {
	lineClient output.LineClient
	validator  validator.Validator
}

// NewMessageService func - Creates new message service
func NewMessageService(lineClient output.LineClient) *MessageService {
	return &MessageService{
		lineClient: lineClient,
		validator:  validator.New(),
	}
}

// Push func - Use case: Send messages to one recipient
func (s *MessageService) Push(ctx context.Context, request domain.PushMessage) (*domain.MessageAPIResponse, error) {
	if err := s.check(request); err != nil {
		return nil, err
	}
	return s.lineClient.PushMessage(ctx, request, domain.WithNewRetryKey()).Await()
}

// Multicast func - Use case: Send messages to several recipients
func (s *MessageService) Multicast(ctx context.Context, request domain.Multicast) (*domain.MessageAPIResponse, error) {
	if err := s.check(request); err != nil {
		return nil, err
	}
	return s.lineClient.Multicast(ctx, request, domain.WithNewRetryKey()).Await()
}

// Broadcast func - Use case: Send messages to every follower
func (s *MessageService) Broadcast(ctx context.Context, request domain.Broadcast) (*domain.MessageAPIResponse, error) {
	if err := s.check(request); err != nil {
		return nil, err
	}
	return s.lineClient.Broadcast(ctx, request, domain.WithNewRetryKey()).Await()
}

// Validate func - Use case: Dry-run one message set against every send endpoint.
// The endpoints are called concurrently. A rejection by one endpoint is
// recorded in the report; an authentication failure aborts the whole run.
func (s *MessageService) Validate(ctx context.Context, request domain.ValidateMessage) (*domain.ValidationReport, error) {
	if err := s.check(request); err != nil {
		return nil, err
	}

	calls := []struct {
		name string
		call func(context.Context, domain.ValidateMessage, ...domain.CallOption) *future.Future[struct{}]
	}{
		{validateReply, s.lineClient.ValidateReply},
		{validatePush, s.lineClient.ValidatePush},
		{validateMulticast, s.lineClient.ValidateMulticast},
		{validateNarrowcast, s.lineClient.ValidateNarrowcast},
		{validateBroadcast, s.lineClient.ValidateBroadcast},
	}

	results := make([]domain.ValidationResult, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range calls {
		g.Go(func() error {
			_, err := c.call(gctx, request).Await()
			if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
				return fmt.Errorf("validate %s: %w", c.name, err)
			}
			results[i] = domain.NewValidationResult(err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.ValidationReport{
		Valid:   true,
		Results: make(map[string]domain.ValidationResult, len(calls)),
	}
	for i, c := range calls {
		report.Results[c.name] = results[i]
		if !results[i].Valid {
			report.Valid = false
		}
	}
	if !report.Valid {
		logrus.Infof("Message validation rejected by at least one endpoint")
	}
	return report, nil
}

// BotInfo func - Use case: Read the bot's own profile
func (s *MessageService) BotInfo(ctx context.Context) (*domain.BotInfoResponse, error) {
	return s.lineClient.GetBotInfo(ctx).Await()
}

// Followers func - Use case: Read follower statistics for a YYYYMMDD date
func (s *MessageService) Followers(ctx context.Context, date string) (*domain.FollowersResponse, error) {
	return s.lineClient.GetNumberOfFollowers(ctx, date).Await()
}

// SentMessages func - Use case: Count messages sent by one send kind on a YYYYMMDD date
func (s *MessageService) SentMessages(ctx context.Context, kind domain.DeliveryKind, date string) (*domain.NumberOfMessagesResponse, error) {
	return s.lineClient.GetNumberOfSentMessages(ctx, kind, date).Await()
}

// check enforces the platform limits before anything is sent
func (s *MessageService) check(request interface{}) error {
	if err := s.validator.ValidateStruct(request); err != nil {
		return &domain.InvalidRequestError{Problems: validator.Messages(err)}
	}
	return nil
}
