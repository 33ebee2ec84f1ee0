package teams

import "github.com/solvaholic/teamsmine/internal/record"

// Horizons holds, per conversation id, the latest timestamp confirmed read.
// Values only ever go up; 0 means no read marker is known.
type Horizons map[string]float64

// Raise records value for convID if it is positive and larger than what is
// already known.
func (h Horizons) Raise(convID string, value float64) bool {
	if convID == "" || value <= 0 || value <= h[convID] {
		return false
	}
	h[convID] = value
	return true
}

// Get returns the horizon for convID, or 0.
func (h Horizons) Get(convID string) float64 {
	return h[convID]
}

// AddRecord merges the consumptionHorizon carried by a metadata or reply
// chain record.
func (h Horizons) AddRecord(v record.Value) bool {
	if v == nil {
		return false
	}
	convID := v.GetString("conversationId", "")
	raw := v.Get("consumptionHorizon")
	if convID == "" || raw == nil {
		return false
	}
	return h.Raise(convID, ParseHorizon(raw))
}
