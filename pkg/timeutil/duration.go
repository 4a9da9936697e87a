// Package timeutil parses and formats the compact durations used for
// work-log windows, such as "1w" or "2d6h".
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is the work-log window used when none is provided.
const DefaultWindow = "1w"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

type unit struct {
	label   string
	value   time.Duration
	aliases []string
}

// units are ordered largest first for formatting.
var units = []unit{
	{"w", week, []string{"wk", "wks", "week", "weeks"}},
	{"d", day, []string{"day", "days"}},
	{"h", time.Hour, []string{"hr", "hrs", "hour", "hours"}},
	{"m", time.Minute, []string{"min", "mins", "minute", "minutes"}},
	{"s", time.Second, []string{"sec", "secs", "second", "seconds"}},
}

var (
	segmentPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitByName     = func() map[string]time.Duration {
		m := make(map[string]time.Duration)
		for _, u := range units {
			m[u.label] = u.value
			for _, a := range u.aliases {
				m[a] = u.value
			}
		}
		return m
	}()
)

// ParseWindow parses a human-friendly duration ("1w", "3d", "1w2d6h") and
// returns it with its canonical label. Empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}

	var total time.Duration
	for remaining != "" {
		m := segmentPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, "", fmt.Errorf("invalid duration segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid duration value %q: %w", m[1], err)
		}
		base, ok := unitByName[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported duration unit %q", m[2])
		}
		total += time.Duration(n) * base
		remaining = strings.TrimSpace(remaining[len(m[0]):])
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("duration must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// Since resolves a window ending at now to its start time.
func Since(input string, now time.Time) (time.Time, string, error) {
	d, label, err := ParseWindow(input)
	if err != nil {
		return time.Time{}, "", err
	}
	return now.Add(-d), label, nil
}

// FormatWindow renders d with week, day, hour, minute and second tokens.
func FormatWindow(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	var b strings.Builder
	for _, u := range units {
		if d < u.value {
			continue
		}
		n := d / u.value
		d -= n * u.value
		fmt.Fprintf(&b, "%d%s", n, u.label)
	}
	return b.String()
}
