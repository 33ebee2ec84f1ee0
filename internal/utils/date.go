package utils

import (
	"fmt"
	"time"
)

// ParseSinceDate parses a date string that can be in three formats:
// - Relative hours: "24h" (hours ago)
// - Relative days: "7d" (days ago)
// - Absolute: "2025-12-15" (YYYY-MM-DD)
//
// Returns the parsed time or an error if the format is invalid.
func ParseSinceDate(since string) (time.Time, error) {
	return parseSince(since, time.Now())
}

func parseSince(since string, now time.Time) (time.Time, error) {
	if since == "" {
		return time.Time{}, fmt.Errorf("since date cannot be empty")
	}

	switch since[len(since)-1] {
	case 'h':
		hours := 0
		if _, err := fmt.Sscanf(since, "%dh", &hours); err != nil {
			return time.Time{}, fmt.Errorf("invalid relative date format '%s': expected format like '24h'", since)
		}
		if hours < 0 {
			return time.Time{}, fmt.Errorf("hours cannot be negative: %d", hours)
		}
		return now.Add(-time.Duration(hours) * time.Hour), nil
	case 'd':
		days := 0
		if _, err := fmt.Sscanf(since, "%dd", &days); err != nil {
			return time.Time{}, fmt.Errorf("invalid relative date format '%s': expected format like '7d'", since)
		}
		if days < 0 {
			return time.Time{}, fmt.Errorf("days cannot be negative: %d", days)
		}
		return now.AddDate(0, 0, -days), nil
	}

	// Try absolute format (YYYY-MM-DD)
	parsed, err := time.Parse("2006-01-02", since)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format '%s': expected 'YYYY-MM-DD' or relative format like '7d' or '24h'", since)
	}

	return parsed, nil
}
