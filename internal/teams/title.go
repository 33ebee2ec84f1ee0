package teams

import "github.com/solvaholic/teamsmine/internal/record"

// ResolveTitle derives the display title of a conversation snapshot. The
// result is never empty: the conversation id is the last resort.
//
// Channels combine the team name and the channel topic as "Team > Channel".
func ResolveTitle(v record.Value, tt ThreadType) string {
	title := firstNonEmpty(
		v.GetString("displayName", ""),
		v.GetString("topic", ""),
		v.GetNested("chatTitle").GetString("shortTitle", ""),
		v.GetNested("chatTitle").GetString("longTitle", ""),
		v.GetString("id", ""),
	)

	if tt != ThreadTopic {
		return title
	}

	props := v.GetNested("threadProperties")
	group := firstNonEmpty(
		v.GetString("displayName", ""),
		props.GetString("description", ""),
		props.GetString("spaceThreadTopic", ""),
	)
	channel := v.GetString("topic", "")

	switch {
	case group != "" && channel != "" && group != channel:
		return group + " > " + channel
	case channel != "":
		return channel
	case group != "":
		return group
	}
	return title
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
