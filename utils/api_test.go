package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/events/:id", func(c *fiber.Ctx) error {
		id, err := ParamID(c, "id")
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := map[string]int{
		"/events/12":  fiber.StatusOK,
		"/events/0":   fiber.StatusBadRequest,
		"/events/-3":  fiber.StatusBadRequest,
		"/events/abc": fiber.StatusBadRequest,
	}
	for path, status := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2030-01-15 ")
	require.NoError(t, err)
	assert.Equal(t, 2030, d.Year())
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15/01/2030")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	clock, err := ParseClock("09:30")
	require.NoError(t, err)
	require.NotNil(t, clock)
	assert.Equal(t, "09:30:00", clock.String())

	clock, err = ParseClock("18:45:10")
	require.NoError(t, err)
	assert.Equal(t, "18:45:10", clock.String())

	clock, err = ParseClock("")
	require.NoError(t, err)
	assert.Nil(t, clock)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}
