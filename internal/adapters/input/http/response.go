package http

import (
	"errors"
	"net/http"

	"golang-line-connect/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var (
	// Success response
	Success = Status{Code: http.StatusOK, Message: []string{"Success"}}
	// BadRequest response
	BadRequest = Status{Code: http.StatusBadRequest, Message: []string{"Sorry, Not responding because of incorrect syntax"}}
	// InternalServerError response
	InternalServerError = Status{Code: http.StatusInternalServerError, Message: []string{"Internal Server Error"}}
)

// ResponseBody struct - Generic HTTP response wrapper
type ResponseBody struct {
	Status Status      `json:"status,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Status struct
type Status struct {
	Code     int      `json:"code,omitempty"`
	TextCode string   `json:"text_code,omitempty"`
	Message  []string `json:"message,omitempty"`
}

// errorBody renders err through its envelope. Request problems are listed one per message line.
func errorBody(err error) (int, ResponseBody) {
	rich := toHTTPError(err)
	status := Status{
		Code:     rich.Code,
		TextCode: rich.TextCode,
		Message:  []string{rich.Message},
	}
	var invalid *domain.InvalidRequestError
	if errors.As(err, &invalid) {
		status.Message = append(status.Message, invalid.Problems...)
	}
	return rich.Code, ResponseBody{Status: status}
}

func respondError(c *fiber.Ctx, err error) error {
	code, body := errorBody(err)
	if code >= http.StatusInternalServerError {
		logrus.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
	} else {
		logrus.Warnf("%s %s rejected: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(body)
}

func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: data})
}
