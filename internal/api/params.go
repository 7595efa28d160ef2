// ABOUTME: Query-string and body value parsing shared by handlers.

package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/gin-gonic/gin"
)

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid("%s must be an integer", key)
	}
	return n, nil
}

// parseDay validates a YYYY-MM-DD value.
func parseDay(key, s string) (time.Time, error) {
	t, err := stats.ParseDay(s)
	if err != nil {
		return time.Time{}, invalid("%s must be YYYY-MM-DD", key)
	}
	return t, nil
}

// parseTime accepts RFC3339 timestamps or YYYY-MM-DD days.
func parseTime(key, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return parseDay(key, s)
}

// timeOr parses an optional timestamp, defaulting to def.
func timeOr(key string, s *string, def time.Time) (time.Time, error) {
	if s == nil || *s == "" {
		return def, nil
	}
	return parseTime(key, *s)
}

// listOptions reads ?date=, ?from=&to=, ?days= and ?limit=.
// date selects one day; from/to are inclusive days; days counts back from today.
func listOptions(c *gin.Context, now time.Time) (storage.ListOptions, error) {
	var opts storage.ListOptions

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return opts, err
	}
	if limit < 0 {
		return opts, invalid("limit must not be negative")
	}
	opts.Limit = limit

	if d := c.Query("date"); d != "" {
		day, err := parseDay("date", d)
		if err != nil {
			return opts, err
		}
		opts.From, opts.To = day, day.AddDate(0, 0, 1)
		return opts, nil
	}

	if f := c.Query("from"); f != "" {
		if opts.From, err = parseDay("from", f); err != nil {
			return opts, err
		}
	}
	if t := c.Query("to"); t != "" {
		day, err := parseDay("to", t)
		if err != nil {
			return opts, err
		}
		opts.To = day.AddDate(0, 0, 1)
	}

	days, err := queryInt(c, "days", 0)
	if err != nil {
		return opts, err
	}
	if days > 0 && opts.From.IsZero() {
		opts.From = stats.StartOfDay(now).AddDate(0, 0, -(days - 1))
	}
	return opts, nil
}
