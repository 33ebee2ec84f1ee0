package teams

import (
	"fmt"
	"time"
)

// ThreadType is the kind of a conversation.
type ThreadType string

const (
	ThreadChat    ThreadType = "Chat"
	ThreadTopic   ThreadType = "Topic"
	ThreadMeeting ThreadType = "Meeting"
	ThreadUnknown ThreadType = "Unknown"
)

// UserProfile identifies a message sender.
type UserProfile struct {
	ID          string  `json:"id"` // MRI, e.g. 8:orgid:...
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
}

// Message is a single message of a conversation. It is a value type: code
// that needs a different flag builds a new Message (see WithUnread).
type Message struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
	Unread         bool      `json:"is_unread"`
}

// WithUnread returns a copy of m with its unread flag set to unread.
func (m Message) WithUnread(unread bool) Message {
	m.Unread = unread
	return m
}

// Conversation is a fully reconstructed chat, channel or meeting thread.
// Messages are ordered oldest first.
type Conversation struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	LastMessageTime time.Time  `json:"last_message_time"`
	Messages        []Message  `json:"messages"`
	UnreadCount     int        `json:"unread_count"`
	ReadMetadata    bool       `json:"is_read_metadata"` // threadProperties.isRead
	Hidden          bool       `json:"hidden"`           // threadProperties.hidden
	ThreadType      ThreadType `json:"thread_type"`
}

// HasUnread reports whether the conversation counts any unread messages.
func (c *Conversation) HasUnread() bool { return c.UnreadCount > 0 }

// IsChat reports whether this is a 1:1 or group chat.
func (c *Conversation) IsChat() bool { return c.ThreadType == ThreadChat }

// IsChannel reports whether this is a channel (topic) conversation.
func (c *Conversation) IsChannel() bool { return c.ThreadType == ThreadTopic }

// IsMeeting reports whether this is a meeting chat.
func (c *Conversation) IsMeeting() bool { return c.ThreadType == ThreadMeeting }

// UnreadMessages returns the messages flagged unread, oldest first.
func (c *Conversation) UnreadMessages() []Message {
	var unread []Message
	for _, m := range c.Messages {
		if m.Unread {
			unread = append(unread, m)
		}
	}
	return unread
}

// Validate checks the structural invariants every assembled conversation
// must satisfy.
func (c *Conversation) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("conversation id is empty")
	}
	if c.Title == "" {
		return fmt.Errorf("conversation %s has an empty title", c.ID)
	}
	if c.UnreadCount < 0 {
		return fmt.Errorf("conversation %s has negative unread count %d", c.ID, c.UnreadCount)
	}
	if c.ThreadType == ThreadUnknown || c.ThreadType == "" {
		return fmt.Errorf("conversation %s has no resolved thread type", c.ID)
	}
	for i := 1; i < len(c.Messages); i++ {
		if c.Messages[i].Timestamp.Before(c.Messages[i-1].Timestamp) {
			return fmt.Errorf("conversation %s messages out of order at index %d", c.ID, i)
		}
	}
	return nil
}
