package main

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/notekeep/notekeep/internal/middleware"
	"github.com/notekeep/notekeep/pkg/notes"
	"github.com/notekeep/notekeep/pkg/store"
)

// newServerApp wires the wire-protocol routes over the given store.
func newServerApp(st store.Store) *fiber.App {
	app := fiber.New()
	app.Use(requestid.New(), logger.New(), recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:4444",
		AllowCredentials: true,
	}))
	app.Route("/notes", func(router fiber.Router) {
		router.Get("/", listNotes(st))
		router.Post("/", createNote(st))
		router.Route("/:noteID", func(note fiber.Router) {
			note.Use(middleware.LoadNoteFromRoute(NoteLocalName, "noteID", st))
			note.Get("/", getNote)
			note.Put("/", updateNote(st))
			note.Delete("/", deleteNote(st))
		})
	})
	return app
}

func getNoteFromContext(c *fiber.Ctx) *notes.Note {
	return c.Locals(NoteLocalName).(*notes.Note)
}

func listNotes(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := st.List(c.Context())
		if err != nil {
			slog.Error("failed to list notes",
				"err", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(all)
	}
}

func createNote(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patch := notes.Patch{}
		if err := json.Unmarshal(c.Body(), &patch); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		n, err := st.Create(c.Context(), patch)
		if err != nil {
			slog.Error("failed to create note",
				"err", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		c.Status(fiber.StatusCreated)
		return c.JSON(n)
	}
}

func getNote(c *fiber.Ctx) error {
	return c.JSON(getNoteFromContext(c))
}

func updateNote(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		existing := getNoteFromContext(c)

		patch := notes.Patch{}
		if err := json.Unmarshal(c.Body(), &patch); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		updated, err := st.Update(c.Context(), existing.ID, patch)
		if err != nil {
			slog.Error("failed to update note",
				"id", existing.ID,
				"err", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(updated)
	}
}

func deleteNote(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		note := getNoteFromContext(c)
		if err := st.Delete(c.Context(), note.ID); err != nil {
			slog.Error("failed to remove note",
				"err", err,
				"noteID", note.ID)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
