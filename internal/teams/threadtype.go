package teams

import "strings"

var (
	channelPatterns = []string{"@thread.tacv2", "@thread.v2"}
	meetingPattern  = "meeting_"
)

// ClassifyThread resolves the thread type of a conversation. An explicit tag
// that names a known kind wins; otherwise the id is matched against the
// channel and meeting patterns, defaulting to a chat.
func ClassifyThread(tag, conversationID string) ThreadType {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "chat":
		return ThreadChat
	case "topic":
		return ThreadTopic
	case "meeting":
		return ThreadMeeting
	}

	for _, p := range channelPatterns {
		if strings.Contains(conversationID, p) {
			return ThreadTopic
		}
	}
	if strings.Contains(strings.ToLower(conversationID), meetingPattern) {
		return ThreadMeeting
	}
	return ThreadChat
}

// ParseThreadType maps a user supplied name ("chat", "Topic", "channel", ...)
// to a ThreadType. Unrecognized names yield ThreadUnknown.
func ParseThreadType(name string) ThreadType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chat":
		return ThreadChat
	case "topic", "channel":
		return ThreadTopic
	case "meeting":
		return ThreadMeeting
	default:
		return ThreadUnknown
	}
}
