package teams

import (
	"math"
	"strings"
	"time"

	"github.com/solvaholic/teamsmine/internal/record"
)

const (
	// millisThreshold separates millisecond values from second values.
	millisThreshold = 1e12
	// maxUnixSeconds is 9999-12-31T23:59:59Z.
	maxUnixSeconds = 253402300799
)

// now is replaced in tests.
var now = time.Now

// ParseTimestamp converts a raw arrival or last-message value (nil, number or
// numeric string) into a UTC time. Values above 1e12 are milliseconds since
// the epoch, smaller positive values are seconds. Anything else, including
// values that land outside years 1..9999, falls back to the current time.
func ParseTimestamp(raw any) time.Time {
	f, ok := record.ToFloat(raw)
	if !ok || f <= 0 {
		return now().UTC()
	}
	if f > millisThreshold {
		f /= 1000
	}
	if f > maxUnixSeconds {
		return now().UTC()
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
}

// ParseHorizon parses a consumption horizon: a semicolon separated list of
// numeric timestamps. Unparseable segments are ignored and the largest value
// wins. Returns 0 when nothing parses.
func ParseHorizon(raw any) float64 {
	if raw == nil {
		return 0
	}
	if f, ok := record.ToFloat(raw); ok {
		return math.Max(f, 0)
	}
	s, ok := raw.(string)
	if !ok {
		return 0
	}
	best := 0.0
	for _, part := range strings.Split(s, ";") {
		if f, ok := record.ToFloat(part); ok && f > best {
			best = f
		}
	}
	return best
}
