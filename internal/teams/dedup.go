package teams

import "github.com/solvaholic/teamsmine/internal/record"

// rawConversation is the winning snapshot for one conversation id.
type rawConversation struct {
	id      string
	version float64
	value   record.Value
}

// deduplicator keeps one snapshot per conversation id: the highest version,
// and at equal versions the one whose read flag says unread.
type deduplicator struct {
	byID  map[string]*rawConversation
	order []string
}

func newDeduplicator() *deduplicator {
	return &deduplicator{byID: make(map[string]*rawConversation)}
}

// add offers a snapshot and reports whether it replaced an existing one.
func (d *deduplicator) add(v record.Value) bool {
	if v == nil {
		return false
	}
	id := v.GetString("id", "")
	if id == "" {
		return false
	}

	snap := &rawConversation{id: id, version: snapshotVersion(v), value: v}
	existing, ok := d.byID[id]
	if !ok {
		d.byID[id] = snap
		d.order = append(d.order, id)
		return false
	}

	switch {
	case snap.version > existing.version:
	case snap.version == existing.version && snapshotRead(existing.value) && !snapshotRead(v):
	default:
		return false
	}
	d.byID[id] = snap
	return true
}

// snapshots returns the winners in first-seen order.
func (d *deduplicator) snapshots() []*rawConversation {
	out := make([]*rawConversation, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

func snapshotVersion(v record.Value) float64 {
	if version := v.GetFloat("version", 0); version != 0 {
		return version
	}
	return v.GetFloat("detailsVersion", 0)
}

func snapshotRead(v record.Value) bool {
	return v.GetNested("threadProperties").GetBool("isRead", true)
}
