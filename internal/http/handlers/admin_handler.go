package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bookshop/internal/log"
	"bookshop/internal/services"
)

type AdminHandler struct {
	Runner *services.Runner
}

// POST /admin/reports/:op
// Optional parameters come from form fields named after them; the first
// blank field ends the list and the rest fall back to configured defaults.
func (h *AdminHandler) Mutate(c *fiber.Ctx) error {
	op, err := services.Lookup(c.Params("op"))
	if err != nil {
		return fail(c, "admin.lookup", err)
	}
	if !op.Mutates {
		return c.Status(fiber.StatusBadRequest).SendString("not a catalog change; use GET /reports/" + op.Name)
	}

	var args []string
	for _, name := range op.Optional {
		v := strings.TrimSpace(c.FormValue(name))
		if v == "" {
			break
		}
		args = append(args, v)
	}
	out, err := h.Runner.Run(op, args)
	if err != nil {
		return fail(c, "admin."+op.Name, err)
	}
	applog.Audit(c, "admin."+op.Name, map[string]any{"args": args, "affected": out})
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(out)
}
