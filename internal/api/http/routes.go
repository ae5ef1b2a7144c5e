// Package httpapi exposes the ops HTTP surface: a transport-agnostic
// command endpoint, the admin stats view, and Prometheus metrics.
package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pgulin/placebot/internal/command"
	"github.com/pgulin/placebot/internal/core"
	"github.com/pgulin/placebot/internal/stats"
)

var validate = validator.New()

// adminTokenHeader carries the ops-API admin credential. The verified
// result becomes the caller-role flag handed to the core.
const adminTokenHeader = "X-Admin-Token"

// commandRequest is the JSON body for POST /api/v1/command.
type commandRequest struct {
	Command  string `json:"command" validate:"required,oneof=find list random weather route plan feedback stats help ping"`
	Argument string `json:"argument"`
	CallerID string `json:"callerId" validate:"required"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, engine *core.Engine, reporter *stats.Reporter, adminToken string) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	v1.Post("/command", func(c *fiber.Ctx) error {
		var req commandRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		name, ok := command.Parse(req.Command)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown command")
		}

		reply := engine.Handle(c.Context(), command.Request{
			Command:       name,
			Argument:      req.Argument,
			CallerID:      req.CallerID,
			CallerIsAdmin: isAdmin(c, adminToken),
		})

		return c.JSON(reply)
	})

	v1.Get("/stats", func(c *fiber.Ctx) error {
		if !isAdmin(c, adminToken) {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		summary, err := reporter.Summary(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read statistics")
		}

		return c.JSON(summary)
	})
}

func isAdmin(c *fiber.Ctx, adminToken string) bool {
	return adminToken != "" && c.Get(adminTokenHeader) == adminToken
}
