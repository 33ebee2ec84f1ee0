package teams

import (
	"slices"
	"sort"

	"github.com/solvaholic/teamsmine/internal/record"
)

// unknownSenderID is used when a message carries no "from" field.
const unknownSenderID = "unknown"

// messageAssembler expands reply chain records into messages, grouped by
// conversation id. Messages for one conversation accumulate across chains.
type messageAssembler struct {
	profiles ProfileIndex
	horizons Horizons
	byConv   map[string][]Message
}

func newMessageAssembler(profiles ProfileIndex, horizons Horizons) *messageAssembler {
	return &messageAssembler{
		profiles: profiles,
		horizons: horizons,
		byConv:   make(map[string][]Message),
	}
}

// add expands one reply chain record. It returns the number of messages
// appended.
func (a *messageAssembler) add(v record.Value) int {
	if v == nil {
		return 0
	}
	convID := v.GetString("conversationId", "")
	if convID == "" {
		return 0
	}
	msgMap, ok := record.AsValue(v.Get("messageMap"))
	if !ok {
		return 0
	}

	ids := make([]string, 0, len(msgMap))
	for id := range msgMap {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	horizon := a.horizons.Get(convID)
	added := 0
	for _, id := range ids {
		fields, ok := record.AsValue(msgMap[id])
		if !ok {
			continue
		}
		a.byConv[convID] = append(a.byConv[convID], a.message(convID, id, fields, horizon))
		added++
	}
	return added
}

func (a *messageAssembler) message(convID, id string, fields record.Value, horizon float64) Message {
	content := fields.GetString("content", "")
	if content == "" {
		content = fields.GetNested("messageBody").GetString("content", "")
	}

	senderID := fields.GetString("from", "")
	senderName := UnknownSender
	if profile, ok := a.profiles.Lookup(senderID); ok && senderID != "" {
		senderName = profile.DisplayName
	} else if name := fields.GetString("imDisplayName", ""); name != "" {
		senderName = name
	}
	if senderID == "" {
		senderID = unknownSenderID
	}

	rawTS := fields.Get("originalArrivalTimestamp")
	unread := false
	if ts, ok := record.ToFloat(rawTS); ok && ts > horizon {
		unread = true
	}

	return Message{
		ID:             id,
		SenderID:       senderID,
		SenderName:     senderName,
		Content:        content,
		Timestamp:      ParseTimestamp(rawTS),
		ConversationID: convID,
		Unread:         unread,
	}
}

// messages returns a sorted copy of the messages collected for convID.
func (a *messageAssembler) messages(convID string) []Message {
	msgs := slices.Clone(a.byConv[convID])
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs
}
