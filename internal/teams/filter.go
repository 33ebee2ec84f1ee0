package teams

import "time"

// Filter selects conversations for listing. Zero values disable each check.
type Filter struct {
	UnreadOnly    bool
	Since         time.Time
	Type          ThreadType
	ExcludeHidden bool
}

// Match reports whether c passes every enabled check.
func (f Filter) Match(c *Conversation) bool {
	if f.UnreadOnly && !c.HasUnread() {
		return false
	}
	if !f.Since.IsZero() && c.LastMessageTime.Before(f.Since) {
		return false
	}
	if f.Type != "" && f.Type != ThreadUnknown && c.ThreadType != f.Type {
		return false
	}
	if f.ExcludeHidden && c.Hidden {
		return false
	}
	return true
}

// Apply returns the conversations that match, keeping their order.
func (f Filter) Apply(conversations []Conversation) []Conversation {
	out := make([]Conversation, 0, len(conversations))
	for i := range conversations {
		if f.Match(&conversations[i]) {
			out = append(out, conversations[i])
		}
	}
	return out
}

// Find returns the conversation with the given id.
func Find(conversations []Conversation, id string) (*Conversation, bool) {
	for i := range conversations {
		if conversations[i].ID == id {
			return &conversations[i], true
		}
	}
	return nil, false
}
