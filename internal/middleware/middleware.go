package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/notekeep/notekeep/pkg/store"
)

func LoadNoteFromRoute(localName string, param string, st store.Store) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, err := url.PathUnescape(c.Params(param))
		if err != nil || id == "" {
			c.Status(fiber.StatusBadRequest)
			return c.SendString("invalid note id")
		}
		found, err := st.Get(c.Context(), id)
		if err != nil && errors.Is(err, store.ErrNotFound) {
			c.Status(fiber.StatusNotFound)
			return c.SendString(fmt.Sprintf("no note with id: %s", id))
		} else if err != nil {
			slog.Error("failed to load note",
				"id", id,
				"err", err)
			c.Status(fiber.StatusInternalServerError)
			return c.SendString("failed to load note")
		}
		c.Locals(localName, found)
		return c.Next()
	}
}
