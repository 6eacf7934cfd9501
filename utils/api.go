package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const (
	DateLayout = "2006-01-02"
)

// ParamID parses a positive numeric route parameter
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// ParseDate parses a calendar date in YYYY-MM-DD form
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return t, nil
}

// ParseClock parses HH:MM or HH:MM:SS into a time-of-day column value.
// An empty string yields nil.
func ParseClock(value string) (*datatypes.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			clock := datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
			return &clock, nil
		}
	}
	return nil, fmt.Errorf("time must be HH:MM or HH:MM:SS")
}
