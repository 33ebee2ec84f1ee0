package teams

import (
	"testing"
	"time"

	"github.com/solvaholic/teamsmine/internal/record"
)

func msgAt(id string, sec int64, unread bool) Message {
	return Message{ID: id, Timestamp: time.Unix(sec, 0).UTC(), Unread: unread}
}

func TestReconcileUnreadCountsLocalFlags(t *testing.T) {
	res := ReconcileUnread(UnreadInput{
		Messages:       []Message{msgAt("a", 1, false), msgAt("b", 2, true), msgAt("c", 3, true)},
		ReadMetadata:   false,
		Horizon:        1000,
		LastMessageRaw: 5000,
	})

	if res.Count != 2 {
		t.Errorf("Expected 2 unread, got %d", res.Count)
	}
	if res.ForcedByHorizon || res.ForcedByMetadata {
		t.Error("Expected no forcing when messages are already unread")
	}
}

func TestReconcileUnreadMetadataWithNoMessages(t *testing.T) {
	res := ReconcileUnread(UnreadInput{ReadMetadata: false})

	if res.Count != 1 {
		t.Errorf("Expected unread count 1, got %d", res.Count)
	}
	if !res.ForcedByMetadata {
		t.Error("Expected metadata forcing")
	}
	if len(res.Messages) != 0 {
		t.Errorf("Expected no messages, got %d", len(res.Messages))
	}
}

func TestReconcileUnreadMetadataFlipsNewestMessage(t *testing.T) {
	in := []Message{msgAt("a", 1, false), msgAt("b", 2, false)}
	res := ReconcileUnread(UnreadInput{Messages: in, ReadMetadata: false})

	if res.Count != 1 {
		t.Errorf("Expected unread count 1, got %d", res.Count)
	}
	if !res.Messages[1].Unread {
		t.Error("Expected newest message to be flagged unread")
	}
	if res.Messages[0].Unread {
		t.Error("Expected older message to stay read")
	}
	if in[1].Unread {
		t.Error("Expected input messages to be left untouched")
	}
}

func TestReconcileUnreadHorizonForcing(t *testing.T) {
	res := ReconcileUnread(UnreadInput{
		Messages:       []Message{msgAt("a", 1, false)},
		ReadMetadata:   true,
		Horizon:        1700000000000,
		LastMessageRaw: int64(1700000005000),
	})

	if res.Count != 1 {
		t.Errorf("Expected unread count 1, got %d", res.Count)
	}
	if !res.ForcedByHorizon {
		t.Error("Expected horizon forcing")
	}
	if res.Messages[0].Unread {
		t.Error("Expected horizon forcing to leave message flags alone")
	}
}

func TestReconcileUnreadBothRulesFire(t *testing.T) {
	res := ReconcileUnread(UnreadInput{
		Messages:       []Message{msgAt("a", 1, false)},
		ReadMetadata:   false,
		Horizon:        10,
		LastMessageRaw: 20.0,
	})

	if res.Count != 1 {
		t.Errorf("Expected unread count 1, got %d", res.Count)
	}
	if !res.ForcedByHorizon || !res.ForcedByMetadata {
		t.Errorf("Expected both rules to fire, got horizon=%v metadata=%v", res.ForcedByHorizon, res.ForcedByMetadata)
	}
	if !res.Messages[0].Unread {
		t.Error("Expected newest message to be flagged unread")
	}
}

func TestReconcileUnreadNoForcing(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"missing last message", nil},
		{"non-numeric last message", "yesterday"},
		{"numeric string last message", "200"},
		{"last message at horizon", 100},
		{"last message before horizon", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ReconcileUnread(UnreadInput{
				Messages:       []Message{msgAt("a", 1, false)},
				ReadMetadata:   true,
				Horizon:        100,
				LastMessageRaw: tt.raw,
			})
			if res.Count != 0 {
				t.Errorf("Expected 0 unread, got %d", res.Count)
			}
		})
	}
}

func TestMergeSnapshotHorizon(t *testing.T) {
	v := record.Value{"properties": map[string]any{"consumptionhorizon": "10;200;abc"}}
	if got := MergeSnapshotHorizon(100, v); got != 200 {
		t.Errorf("Expected 200, got %v", got)
	}
	if got := MergeSnapshotHorizon(300, v); got != 300 {
		t.Errorf("Expected 300, got %v", got)
	}
	if got := MergeSnapshotHorizon(5, record.Value{}); got != 5 {
		t.Errorf("Expected 5, got %v", got)
	}
}
