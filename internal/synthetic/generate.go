package synthetic

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/solvaholic/teamsmine/internal/record"
)

// Options controls synthetic generation.
type Options struct {
	Users         int
	Conversations int
	MinMessages   int
	MaxMessages   int
	// Seed makes the output reproducible. Zero picks a random seed.
	Seed int64
	// Now anchors message timestamps. Zero means time.Now().
	Now time.Time
}

// DefaultOptions returns the generator defaults.
func DefaultOptions() Options {
	return Options{
		Users:         5,
		Conversations: 10,
		MinMessages:   5,
		MaxMessages:   20,
	}
}

// Validate checks that the option ranges make sense.
func (o Options) Validate() error {
	switch {
	case o.Users < 1:
		return errors.New("at least one user is required")
	case o.Conversations < 0:
		return errors.New("conversation count must not be negative")
	case o.MinMessages < 0:
		return errors.New("minimum message count must not be negative")
	case o.MaxMessages < o.MinMessages:
		return fmt.Errorf("maximum message count %d is below minimum %d", o.MaxMessages, o.MinMessages)
	}
	return nil
}

var (
	firstNames = []string{"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller"}
	phrases    = []string{
		"Can we move the sync to tomorrow?",
		"Pushed the fix, please take a look.",
		"Thanks!",
		"I'll follow up after lunch.",
		"Does anyone have the link to the doc?",
		"Build is green again.",
		"Let's discuss in the next standup.",
		"Sounds good to me.",
	}
)

type user struct {
	mri, name, email string
}

type generator struct {
	opts Options
	rng  *rand.Rand
	seed *rand.ChaCha8
	now  time.Time
}

// Generate builds a dataset with the four logical stores populated according
// to opts. The same non-zero seed and Now always yield the same dataset.
func Generate(opts Options) (*Dataset, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator options: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int64()
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	chacha := rand.NewChaCha8(key)

	g := &generator{opts: opts, rng: rand.New(chacha), seed: chacha, now: opts.Now}
	if g.now.IsZero() {
		g.now = time.Now()
	}
	return g.run()
}

func (g *generator) run() (*Dataset, error) {
	d := NewDataset()

	users := g.users()
	for _, u := range users {
		d.Add(ProfilesStoreName, u.mri, record.Value{
			"mri":         u.mri,
			"displayName": u.name,
			"mail":        u.email,
		})
	}

	for i := 0; i < g.opts.Conversations; i++ {
		convID := fmt.Sprintf("19:synth-conv-%d@thread.tacv2", i)
		count := g.opts.MinMessages + g.rng.IntN(g.opts.MaxMessages-g.opts.MinMessages+1)

		msgMap := make(map[string]any, count)
		for j := 0; j < count; j++ {
			msgID := fmt.Sprintf("synth-msg-%d-%d", i, j)
			sender := users[g.rng.IntN(len(users))]
			clientID, err := uuid.NewRandomFromReader(g.seed)
			if err != nil {
				return nil, fmt.Errorf("failed to generate client message id: %w", err)
			}
			msgMap[msgID] = map[string]any{
				"id":                       msgID,
				"clientmessageid":          clientID.String(),
				"from":                     sender.mri,
				"imDisplayName":            sender.name,
				"content":                  phrases[g.rng.IntN(len(phrases))],
				"originalArrivalTimestamp": g.millisAgo(time.Duration(j) * time.Hour),
			}
		}

		conv := record.Value{
			"id":      convID,
			"version": 1.0,
			"threadProperties": map[string]any{
				"isRead": g.rng.IntN(2) == 0,
			},
		}
		if g.rng.IntN(2) == 0 {
			conv["threadType"] = "Chat"
			conv["displayName"] = "Chat with " + users[g.rng.IntN(len(users))].name
		} else {
			conv["threadType"] = "Topic"
			conv["displayName"] = fmt.Sprintf("General Team %d", i)
			conv["topic"] = "General"
		}
		if count > 0 {
			conv["lastMessageTimeUtc"] = g.millisAgo(0)
		}

		d.Add(ConversationStoreName, convID, conv)
		d.Add(ReplyChainStoreName, convID, record.Value{
			"conversationId": convID,
			"messageMap":     msgMap,
		})
		d.Add(MetadataStoreName, convID, record.Value{
			"conversationId":     convID,
			"consumptionHorizon": strconv.FormatInt(g.millisAgo(time.Duration(count/2)*time.Hour), 10),
		})
	}
	return d, nil
}

func (g *generator) users() []user {
	users := make([]user, 0, g.opts.Users)
	for i := 0; i < g.opts.Users; i++ {
		first := firstNames[g.rng.IntN(len(firstNames))]
		last := lastNames[g.rng.IntN(len(lastNames))]
		users = append(users, user{
			mri:   fmt.Sprintf("8:orgid:synth-user-%04d", i),
			name:  first + " " + last,
			email: strings.ToLower(first) + "." + strings.ToLower(last) + "@example.com",
		})
	}
	return users
}

func (g *generator) millisAgo(d time.Duration) int64 {
	return g.now.Add(-d).UnixMilli()
}
