package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bookshop/internal/log"
	"bookshop/internal/services"
)

type ReportHandler struct {
	Runner *services.Runner
}

// GET /
func (h *ReportHandler) Index(c *fiber.Ctx) error {
	return render(c, "index", fiber.Map{
		"Operations": services.Operations,
		"Defaults":   h.Runner.Defaults,
	})
}

// GET /reports/:op?arg=...
func (h *ReportHandler) Report(c *fiber.Ctx) error {
	op, err := services.Lookup(c.Params("op"))
	if err != nil {
		return fail(c, "report.lookup", err)
	}
	if op.Mutates {
		applog.Security(c, "report.mutation.get", map[string]any{"op": op.Name})
		return c.Status(fiber.StatusMethodNotAllowed).SendString("use POST /admin/reports/" + op.Name)
	}

	var args []string
	if arg := strings.TrimSpace(c.Query("arg")); arg != "" {
		args = append(args, arg)
	}
	out, err := h.Runner.Run(op, args)
	if err != nil {
		return fail(c, "report."+op.Name, err)
	}
	applog.Info(c, "report.run", map[string]any{"op": op.Name})
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(out)
}

// fail maps service errors onto a status and a message safe to show.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrUnknownOperation):
		return c.Status(fiber.StatusNotFound).SendString("Unknown report")
	case errors.Is(err, services.ErrMalformedInput),
		errors.Is(err, services.ErrMissingArgument),
		errors.Is(err, services.ErrNegativePrice):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "err": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}
	applog.Error(c, action+".fail", err, nil)
	return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
}
