package teams

import (
	"testing"
	"time"
)

func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
}

func TestParseTimestampMillisAndSeconds(t *testing.T) {
	ms := ParseTimestamp(int64(1700000000000))
	sec := ParseTimestamp(1700000000)

	if !ms.Equal(sec) {
		t.Errorf("Expected ms and s inputs to match, got %v and %v", ms, sec)
	}
	if ms.Location() != time.UTC {
		t.Errorf("Expected UTC, got %v", ms.Location())
	}
	if got := ParseTimestamp("1700000000000"); !got.Equal(ms) {
		t.Errorf("Expected numeric string to parse to %v, got %v", ms, got)
	}
}

func TestParseTimestampFallsBackToNow(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	freezeNow(t, fixed)

	tests := []struct {
		name string
		raw  any
	}{
		{"zero", 0},
		{"nil", nil},
		{"garbage", "abc"},
		{"negative", -5},
		{"far future", 1e17},
		{"bool", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.raw)
			if !got.Equal(fixed) {
				t.Errorf("Expected fallback %v, got %v", fixed, got)
			}
		})
	}
}

func TestParseTimestampKeepsFraction(t *testing.T) {
	got := ParseTimestamp(1700000000123.0)
	want := time.Unix(1700000000, 123000000).UTC()
	if got.Sub(want).Abs() > time.Microsecond {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"nil", nil, 0},
		{"number", 1700000000000.0, 1700000000000},
		{"single string", "42", 42},
		{"list picks max", "100;50", 100},
		{"spaces and junk", " 7 ; abc ; 12 ;", 12},
		{"nothing parses", "abc;def", 0},
		{"negative number", -3, 0},
		{"unsupported type", []any{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHorizon(tt.raw); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassifyThread(t *testing.T) {
	tests := []struct {
		tag  string
		id   string
		want ThreadType
	}{
		{"Chat", "19:abc@thread.tacv2", ThreadChat},
		{"topic", "19:abc@unq.gbl.spaces", ThreadTopic},
		{"MEETING", "", ThreadMeeting},
		{"", "19:abc@thread.tacv2", ThreadTopic},
		{"", "19:abc@thread.v2", ThreadTopic},
		{"", "19:Meeting_NjA2@thread.skype", ThreadMeeting},
		{"unknown", "19:abc@unq.gbl.spaces", ThreadChat},
		{"", "8:orgid:someone", ThreadChat},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"|"+tt.id, func(t *testing.T) {
			if got := ClassifyThread(tt.tag, tt.id); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseThreadType(t *testing.T) {
	if got := ParseThreadType("channel"); got != ThreadTopic {
		t.Errorf("Expected Topic, got %s", got)
	}
	if got := ParseThreadType(" Chat "); got != ThreadChat {
		t.Errorf("Expected Chat, got %s", got)
	}
	if got := ParseThreadType("space"); got != ThreadUnknown {
		t.Errorf("Expected Unknown, got %s", got)
	}
}
