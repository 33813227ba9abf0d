package http

import (
	"golang-line-connect/internal/adapters/input/webhook"
	"golang-line-connect/internal/ports/input"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the raw request body
const SignatureHeader = "X-Line-Signature"

// LineWebhookHandler struct - Primary/Driving adapter for LINE webhook
type LineWebhookHandler struct {
	service input.LineWebhookService
	parser  *webhook.Parser
}

// NewLineWebhookHandler func - Creates new LINE webhook handler
func NewLineWebhookHandler(service input.LineWebhookService, channelSecret string) *LineWebhookHandler {
	return &LineWebhookHandler{
		service: service,
		parser:  webhook.NewParser(channelSecret),
	}
}

// HandleWebhook func - Handles incoming LINE webhook requests
// @Summary LINE Webhook
// @Description Verifies X-Line-Signature, decodes the events and hands them to the bot
// @Tags LINE
// @Accept application/json
// @Produce json
// @Param X-Line-Signature header string true "base64 HMAC-SHA256 of the body"
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Router /webhook/line [post]
func (h *LineWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	// The signature covers the exact bytes received, so the raw body is used as-is
	cb, err := h.parser.Parse(c.Body(), c.Get(SignatureHeader))
	if err != nil {
		return respondError(c, err)
	}

	logrus.Debugf("LINE webhook: destination=%s, events=%d, undecodable=%d",
		cb.Destination, len(cb.Events), len(cb.DecodeErrors))

	if err := h.service.HandleEvents(c.UserContext(), *cb); err != nil {
		logrus.Errorf("Failed to handle webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	return respondOK(c, nil)
}
