package web

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/shatolabs/shato/internal/log"
	"github.com/shatolabs/shato/pkg/orchestrator"
)

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	UserInput string `json:"user_input"`
}

// handleHealth is the Docker health check endpoint.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// handleProcess runs one utterance through the pipeline.
func (s *Server) handleProcess(c *fiber.Ctx) error {
	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "request body must be JSON with a user_input field",
		})
	}

	result, err := s.orch.Process(c.UserContext(), req.UserInput)
	if err != nil {
		return s.mapError(c, err)
	}

	if result.Exhausted {
		// Internal diagnostic marker; the body stays a polite reply.
		c.Set("X-Shato-Diagnostic", "extraction_exhausted")
	}
	return c.JSON(result)
}

// mapError translates the error taxonomy to HTTP statuses: client
// input problems are 400, upstream collaborator failures 502, and an
// abandoned request gets closed without a fabricated reply.
func (s *Server) mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, orchestrator.ErrEmptyInput) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_input is required",
		})
	}

	var upstream *orchestrator.UpstreamError
	if errors.As(err, &upstream) {
		log.Error("upstream service failure", "service", upstream.Service, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "a backing service is unavailable",
			"service": upstream.Service,
		})
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	log.Error("unexpected processing error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
	})
}

// commandInfo describes one command kind for the dashboard.
type commandInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []paramInfo `json:"params"`
}

type paramInfo struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Enum     []string `json:"enum,omitempty"`
}

// handleListCommands returns the command vocabulary.
func (s *Server) handleListCommands(c *fiber.Ctx) error {
	specs := s.schema.Specs()
	out := make([]commandInfo, 0, len(specs))
	for _, spec := range specs {
		info := commandInfo{Name: spec.Name, Description: spec.Description}
		for _, p := range spec.Params {
			info.Params = append(info.Params, paramInfo{
				Name:     p.Name,
				Type:     p.Type.String(),
				Required: p.Required,
				Enum:     p.Enum,
			})
		}
		out = append(out, info)
	}
	return c.JSON(out)
}
