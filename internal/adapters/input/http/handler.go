package http

import (
	"github.com/gofiber/fiber/v2"
)

// HTTPHandler struct - Primary/Driving adapter for process-level endpoints
type HTTPHandler struct {
	version string
}

// New func - Creates new HTTP handler
func New(version string) *HTTPHandler {
	return &HTTPHandler{version: version}
}

// HealthCheck func
// HealthCheck godoc
// @Summary Health check
// @Description Reports that the process is serving requests
// @Tags HEALTH
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /health [get]
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	return respondOK(c, fiber.Map{"version": hdl.version})
}
