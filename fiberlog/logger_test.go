package fiberlog

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTestApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Post("/import", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/notes", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})
	return app
}

func TestLogger(t *testing.T) {
	t.Run(`request body is dropped for skipped requests`, func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		app := newTestApp(Config{
			Logger: logger,
			Tags:   []string{TagBody, TagPath},
			SkipBody: func(c *fiber.Ctx) bool {
				return strings.HasSuffix(c.Path(), "/import")
			},
		})

		_, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/import", strings.NewReader(`{"big":true}`)), -1)
		require.Nil(t, err)
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		require.NotContains(t, entry.Data, TagBody)
		require.Equal(t, "/import", entry.Data[TagPath])

		_, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/notes", strings.NewReader(`hello`)), -1)
		require.Nil(t, err)
		require.Equal(t, "hello", hook.LastEntry().Data[TagBody])
	})

	t.Run(`client errors are warnings`, func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		app := newTestApp(Config{Logger: logger, Tags: ConfigDefault.Tags})

		_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil), -1)
		require.Nil(t, err)
		require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		require.Equal(t, fiber.StatusNotFound, hook.LastEntry().Data[TagStatus])

		_, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/notes", nil), -1)
		require.Nil(t, err)
		require.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	})
}
