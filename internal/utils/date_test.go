package utils

import (
	"strings"
	"testing"
	"time"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       string
		want        time.Time
		errContains string
	}{
		{name: "hours", input: "24h", want: now.Add(-24 * time.Hour)},
		{name: "zero hours", input: "0h", want: now},
		{name: "days", input: "7d", want: now.AddDate(0, 0, -7)},
		{name: "thirty days", input: "30d", want: now.AddDate(0, 0, -30)},
		{name: "absolute date", input: "2025-12-15", want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{name: "empty string", input: "", errContains: "cannot be empty"},
		{name: "days without number", input: "d", errContains: "invalid relative date format"},
		{name: "hours without number", input: "h", errContains: "expected format like '24h'"},
		{name: "negative days", input: "-7d", errContains: "days cannot be negative"},
		{name: "negative hours", input: "-3h", errContains: "hours cannot be negative"},
		{name: "wrong separator", input: "2025/12/15", errContains: "invalid date format"},
		{name: "incomplete date", input: "2025-12", errContains: "invalid date format"},
		{name: "not a date", input: "yesterday", errContains: "invalid date format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSince(tt.input, now)

			if tt.errContains != "" {
				if err == nil {
					t.Fatalf("Expected error containing '%s', got nil", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Expected error containing '%s', got '%v'", tt.errContains, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseSinceDateUsesClock(t *testing.T) {
	got, err := ParseSinceDate("1d")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := time.Now().AddDate(0, 0, -1)
	if diff := expected.Sub(got); diff > time.Second || diff < -time.Second {
		t.Errorf("Expected time around %v, got %v", expected, got)
	}
}
