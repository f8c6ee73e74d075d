package server

import (
	"github.com/gofiber/fiber/v2"

	"ytxtract/internal/app"
	"ytxtract/internal/formats"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func viewPrompt(p *app.Prompt) *promptView {
	v := &promptView{Question: p.Question}
	switch p.Kind {
	case app.PromptFormat:
		v.Kind = "format"
		v.Variants = p.Variants
		for _, fv := range p.Variants {
			v.Options = append(v.Options, formats.Label(fv))
		}
	default:
		v.Kind = "confirm"
	}
	return v
}
