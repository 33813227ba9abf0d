package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-line-connect/internal/domain"
	"golang-line-connect/internal/ports/output"
	"golang-line-connect/pkg/future"

	"github.com/sirupsen/logrus"
)

const welcomeText = "Welcome! Thank you for adding me as a friend!\n\nType /help to see available commands."

// LineWebhookService struct - Application service implementing LINE webhook use cases
type LineWebhookService struct {
	lineClient output.LineClient
	seen       output.RedeliveryStore
}

// NewLineWebhookService func - Creates new LINE webhook service.
// seen may be nil, in which case redelivered events are handled again.
func NewLineWebhookService(lineClient output.LineClient, seen output.RedeliveryStore) *LineWebhookService {
	return &LineWebhookService{
		lineClient: lineClient,
		seen:       seen,
	}
}

// HandleEvents func - Use case: Handle the events of one webhook delivery.
// Replies are sent concurrently; every failure is reported in the joined error.
func (s *LineWebhookService) HandleEvents(ctx context.Context, request domain.CallbackRequest) error {
	for _, decodeErr := range request.DecodeErrors {
		logrus.Warnf("Skipping undecodable LINE event: %v", decodeErr)
	}

	type pendingReply struct {
		webhookEventID string
		reply          *future.Future[*domain.MessageAPIResponse]
	}

	var pending []pendingReply
	for _, event := range request.Events {
		meta := event.Meta()
		logrus.Infof("Received LINE event: type=%s, source=%s, id=%s",
			event.Type(), meta.Source.Type, meta.Source.ID())

		if s.alreadyHandled(meta) {
			logrus.Infof("Skipping redelivered LINE event: webhookEventId=%s", meta.WebhookEventID)
			continue
		}

		if f := s.handleEvent(ctx, event); f != nil {
			pending = append(pending, pendingReply{webhookEventID: meta.WebhookEventID, reply: f})
		}
	}

	var errs []error
	for _, p := range pending {
		if _, err := p.reply.Await(); err != nil {
			errs = append(errs, err)
			// the delivery fails, so its redelivery must not be skipped
			s.forget(p.webhookEventID)
		}
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		logrus.Errorf("Failed to send %d LINE replies: %v", len(errs), err)
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// alreadyHandled - redelivered events keep their webhookEventId, so a repeat is skipped
func (s *LineWebhookService) alreadyHandled(meta domain.EventMeta) bool {
	if s.seen == nil || meta.WebhookEventID == "" {
		return false
	}
	first, err := s.seen.MarkProcessed(meta.WebhookEventID)
	if err != nil {
		logrus.Warnf("Failed to record webhookEventId %s: %v", meta.WebhookEventID, err)
		return false
	}
	return !first
}

func (s *LineWebhookService) forget(webhookEventID string) {
	if s.seen == nil || webhookEventID == "" {
		return
	}
	s.seen.Forget(webhookEventID)
}

// handleEvent - Business logic per event kind; returns the pending reply, if any
func (s *LineWebhookService) handleEvent(ctx context.Context, event domain.Event) *future.Future[*domain.MessageAPIResponse] {
	switch e := event.(type) {
	case domain.MessageEvent:
		return s.handleMessageEvent(ctx, e)

	case domain.FollowEvent:
		logrus.Infof("User followed: userID=%s, unblocked=%t", e.Source.UserID, e.Follow.IsUnblocked)
		return s.reply(ctx, e.Token(), domain.NewTextMessage(welcomeText))

	case domain.UnfollowEvent:
		logrus.Infof("User unfollowed: userID=%s", e.Source.UserID)

	case domain.PostbackEvent:
		return s.reply(ctx, e.Token(), domain.NewTextMessage("Got postback: "+e.Postback.Data))

	case domain.UnknownEvent:
		logrus.Warnf("Unknown LINE event type: %s", e.RawType)

	default:
		logrus.Infof("Unhandled event type: %s", event.Type())
	}
	return nil
}

// handleMessageEvent - Business logic for message events
func (s *LineWebhookService) handleMessageEvent(ctx context.Context, event domain.MessageEvent) *future.Future[*domain.MessageAPIResponse] {
	switch content := event.Message.(type) {
	case domain.TextMessageContent:
		text := strings.TrimSpace(content.Text)
		if strings.HasPrefix(text, "/") {
			return s.reply(ctx, event.Token(), s.handleCommand(ctx, text)...)
		}
		// Echo the text back unchanged
		return s.reply(ctx, event.Token(), domain.NewTextMessage(content.Text))

	case domain.StickerMessageContent:
		return s.reply(ctx, event.Token(), domain.StickerMessage{
			PackageID: content.PackageID,
			StickerID: content.StickerID,
		})

	default:
		logrus.Infof("Ignoring message: type=%s", event.Message.ContentType())
		return nil
	}
}

// handleCommand - Business logic for command processing
func (s *LineWebhookService) handleCommand(ctx context.Context, text string) []domain.Message {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "/help":
		return []domain.Message{
			domain.NewTextMessage("Available commands:\n/help - Show this message\n/about - About this bot\n/echo <text> - Echo your message\n/botinfo - Show bot details"),
		}

	case "/about":
		return []domain.Message{
			domain.NewTextMessage("LINE Bot powered by Go + Fiber\nBuilt with Hexagonal Architecture"),
		}

	case "/echo":
		if len(parts) > 1 {
			return []domain.Message{domain.NewTextMessage(strings.Join(parts[1:], " "))}
		}
		return []domain.Message{domain.NewTextMessage("Usage: /echo <text>")}

	case "/botinfo":
		info, err := s.lineClient.GetBotInfo(ctx).Await()
		if err != nil {
			logrus.Errorf("Failed to get bot info: %v", err)
			return []domain.Message{domain.NewTextMessage("Sorry, bot info is not available right now")}
		}
		return []domain.Message{
			domain.NewTextMessage(fmt.Sprintf("%s (%s)\nchat mode: %s", info.DisplayName, info.BasicID, info.ChatMode)),
		}

	default:
		return []domain.Message{
			domain.NewTextMessage(fmt.Sprintf("Unknown command: %s\nType /help for available commands", command)),
		}
	}
}

func (s *LineWebhookService) reply(ctx context.Context, replyToken string, messages ...domain.Message) *future.Future[*domain.MessageAPIResponse] {
	if replyToken == "" || len(messages) == 0 {
		return nil
	}
	return s.lineClient.ReplyMessage(ctx, domain.NewReplyMessage(replyToken, messages...))
}
