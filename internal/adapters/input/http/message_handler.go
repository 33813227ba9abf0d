package http

import (
	"golang-line-connect/internal/domain"
	"golang-line-connect/internal/ports/input"
	"golang-line-connect/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// MessageHandler struct - Primary/Driving adapter for the outbound messaging API
type MessageHandler struct {
	srv       input.MessageService
	validator validator.Validator
}

// NewMessageHandler func - Creates new message handler
func NewMessageHandler(srv input.MessageService) *MessageHandler {
	return &MessageHandler{
		srv:       srv,
		validator: validator.New(),
	}
}

// Push godoc
// @Summary Push messages
// @Description Sends up to 5 messages to one user, group or room
// @Tags MESSAGE
// @Accept application/json
// @Produce json
// @Param PushRequest body PushRequest true "PushRequest"
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Router /v1/api/push [post]
func (hdl *MessageHandler) Push(c *fiber.Ctx) error {
	var request PushRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	push, err := request.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	response, err := hdl.srv.Push(c.UserContext(), push)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, response)
}

// Multicast godoc
// @Summary Multicast messages
// @Description Sends up to 5 messages to at most 500 users
// @Tags MESSAGE
// @Accept application/json
// @Produce json
// @Param MulticastRequest body MulticastRequest true "MulticastRequest"
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Router /v1/api/multicast [post]
func (hdl *MessageHandler) Multicast(c *fiber.Ctx) error {
	var request MulticastRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	multicast, err := request.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	response, err := hdl.srv.Multicast(c.UserContext(), multicast)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, response)
}

// Broadcast godoc
// @Summary Broadcast messages
// @Description Sends up to 5 messages to every follower
// @Tags MESSAGE
// @Accept application/json
// @Produce json
// @Param BroadcastRequest body BroadcastRequest true "BroadcastRequest"
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Router /v1/api/broadcast [post]
func (hdl *MessageHandler) Broadcast(c *fiber.Ctx) error {
	var request BroadcastRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	broadcast, err := request.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	response, err := hdl.srv.Broadcast(c.UserContext(), broadcast)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, response)
}

// Validate godoc
// @Summary Validate messages
// @Description Dry-runs the messages against every send endpoint
// @Tags MESSAGE
// @Accept application/json
// @Produce json
// @Param ValidateRequest body ValidateRequest true "ValidateRequest"
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Router /v1/api/validate [post]
func (hdl *MessageHandler) Validate(c *fiber.Ctx) error {
	var request ValidateRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	validate, err := request.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	report, err := hdl.srv.Validate(c.UserContext(), validate)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, report)
}

// BotInfo godoc
// @Summary Bot info
// @Description Returns the bot's profile
// @Tags INSIGHT
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /v1/api/bot [get]
func (hdl *MessageHandler) BotInfo(c *fiber.Ctx) error {
	info, err := hdl.srv.BotInfo(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, info)
}

// Followers godoc
// @Summary Follower statistics
// @Description Returns follower statistics for a date
// @Tags INSIGHT
// @Produce json
// @Param date query string true "YYYYMMDD"
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Router /v1/api/followers [get]
func (hdl *MessageHandler) Followers(c *fiber.Ctx) error {
	query, err := hdl.dateQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	result, err := hdl.srv.Followers(c.UserContext(), query.Date)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, result)
}

// SentMessages godoc
// @Summary Sent message count
// @Description Counts messages sent on a date by one send kind
// @Tags INSIGHT
// @Produce json
// @Param kind path string true "reply, push, multicast or bcast"
// @Param date query string true "YYYYMMDD"
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Router /v1/api/delivery/{kind} [get]
func (hdl *MessageHandler) SentMessages(c *fiber.Ctx) error {
	kind := domain.DeliveryKind(c.Params("kind"))
	if !kind.Valid() {
		return respondError(c, &domain.InvalidRequestError{Problems: []string{"kind must be one of [reply push multicast bcast]"}})
	}
	query, err := hdl.dateQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	result, err := hdl.srv.SentMessages(c.UserContext(), kind, query.Date)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, result)
}

func (hdl *MessageHandler) dateQuery(c *fiber.Ctx) (DateQuery, error) {
	var query DateQuery
	if err := c.QueryParser(&query); err != nil {
		return query, &domain.InvalidRequestError{Problems: []string{err.Error()}}
	}
	if err := hdl.validator.ValidateStruct(query); err != nil {
		return query, &domain.InvalidRequestError{Problems: validator.Messages(err)}
	}
	return query, nil
}
