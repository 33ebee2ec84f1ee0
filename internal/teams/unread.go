package teams

import "github.com/solvaholic/teamsmine/internal/record"

// UnreadInput carries the signals reconciled into one unread count.
type UnreadInput struct {
	// Messages must already be sorted by timestamp.
	Messages []Message
	// ReadMetadata is the server's read flag for the conversation.
	ReadMetadata bool
	// Horizon is the consumption horizon after merging the snapshot's own
	// properties.consumptionhorizon.
	Horizon float64
	// LastMessageRaw is the raw lastMessageTimeUtc value. Only numbers
	// count; strings never force an unread count.
	LastMessageRaw any
}

// UnreadResult is the reconciled unread state.
type UnreadResult struct {
	Messages         []Message
	Count            int
	ForcedByHorizon  bool
	ForcedByMetadata bool
}

// ReconcileUnread counts locally unread messages and then lets two external
// signals raise a zero count to one: a last message newer than the horizon,
// and a server read flag of false. Both are checked against the local count.
// The metadata rule also marks the newest message unread so that the count
// matches at least one flagged message.
func ReconcileUnread(in UnreadInput) UnreadResult {
	res := UnreadResult{Messages: in.Messages}

	local := 0
	for _, m := range in.Messages {
		if m.Unread {
			local++
		}
	}
	res.Count = local

	if last, ok := numericValue(in.LastMessageRaw); ok && last > in.Horizon && local == 0 {
		res.Count = 1
		res.ForcedByHorizon = true
	}

	if !in.ReadMetadata && local == 0 {
		res.Count = 1
		res.ForcedByMetadata = true
		if n := len(in.Messages); n > 0 {
			msgs := make([]Message, n)
			copy(msgs, in.Messages)
			msgs[n-1] = msgs[n-1].WithUnread(true)
			res.Messages = msgs
		}
	}
	return res
}

// numericValue accepts numbers only. Numeric strings are not a last message
// time.
func numericValue(raw any) (float64, bool) {
	if _, ok := raw.(string); ok {
		return 0, false
	}
	return record.ToFloat(raw)
}

// MergeSnapshotHorizon raises horizon with the conversation snapshot's
// properties.consumptionhorizon, if that is larger.
func MergeSnapshotHorizon(horizon float64, v record.Value) float64 {
	own := ParseHorizon(v.GetNested("properties").Get("consumptionhorizon"))
	if own > horizon {
		return own
	}
	return horizon
}
