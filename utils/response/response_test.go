package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teapotError struct{}

func (teapotError) Error() string         { return "internal detail" }
func (teapotError) HTTPStatus() int       { return fiber.StatusTeapot }
func (teapotError) ErrorCode() string     { return "TEAPOT" }
func (teapotError) PublicMessage() string { return "short and stout" }

func failWith(t *testing.T, err error) (int, Response) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Fail(c, err) })

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var out Response
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestFailUsesStatusError(t *testing.T) {
	status, out := failWith(t, teapotError{})
	assert.Equal(t, fiber.StatusTeapot, status)
	assert.False(t, out.Success)
	require.NotNil(t, out.Error)
	assert.Equal(t, "TEAPOT", out.Error.Code)
	assert.Equal(t, "short and stout", out.Error.Message)
}

func TestFailHidesUnknownErrors(t *testing.T) {
	status, out := failWith(t, errors.New("pq: relation does not exist"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	require.NotNil(t, out.Error)
	assert.NotContains(t, out.Error.Message, "relation")
}
