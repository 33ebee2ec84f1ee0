package teams

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/solvaholic/teamsmine/internal/record"
)

// Conventional logical store names. Real store names embed these as
// substrings.
const (
	ProfilesStore     = "profiles"
	ConversationStore = "conversation-manager"
	ReplyChainStore   = "replychain-manager"
	MetadataStore     = "replychain-metadata-manager"
)

// Extractor reconstructs conversations from a record source. Open indexes
// profiles and read horizons up front; Conversations does the rest.
type Extractor struct {
	src      record.Source
	stores   []string
	profiles ProfileIndex
	horizons Horizons
	logger   *log.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress and anomaly reporting.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// Open lists the stores of src and loads the profile index and consumption
// horizons. It fails with ErrNotFound when none of the known stores exist.
func Open(ctx context.Context, src record.Source, opts ...Option) (*Extractor, error) {
	e := &Extractor{
		src:      src,
		profiles: make(ProfileIndex),
		horizons: make(Horizons),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	stores, err := src.Stores(ctx)
	if err != nil {
		return nil, NotFound("failed to list record stores", err)
	}
	e.stores = stores

	known := 0
	for _, name := range []string{ProfilesStore, ConversationStore, ReplyChainStore, MetadataStore} {
		if _, ok := record.FindStore(stores, name); ok {
			known++
		}
	}
	if known == 0 {
		return nil, NotFound(fmt.Sprintf("no known stores among %d found", len(stores)), nil)
	}

	if err := e.loadProfiles(ctx); err != nil {
		return nil, err
	}
	if err := e.loadHorizons(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Stores returns the store names reported by the source.
func (e *Extractor) Stores() []string { return e.stores }

// Profiles returns the profile index.
func (e *Extractor) Profiles() ProfileIndex { return e.profiles }

// Horizons returns the resolved consumption horizons.
func (e *Extractor) Horizons() Horizons { return e.horizons }

func (e *Extractor) loadProfiles(ctx context.Context) error {
	name, ok := record.FindStore(e.stores, ProfilesStore)
	if !ok {
		e.logger.Warn("profiles store not found, sender names fall back to embedded values")
		return nil
	}
	for rec, err := range e.src.Records(ctx, name) {
		if err != nil {
			return extractionFailed(name, "failed to read profiles", err)
		}
		e.profiles.Add(rec)
	}
	e.logger.Debug("loaded profiles", "store", name, "count", len(e.profiles))
	return nil
}

// loadHorizons reads the metadata store first and the reply chain store
// second. Both feed the same max-merge, so the order does not change the
// result.
func (e *Extractor) loadHorizons(ctx context.Context) error {
	for _, snippet := range []string{MetadataStore, ReplyChainStore} {
		name, ok := record.FindStore(e.stores, snippet)
		if !ok {
			continue
		}
		for rec, err := range e.src.Records(ctx, name) {
			if err != nil {
				return extractionFailed(name, "failed to read consumption horizons", err)
			}
			e.horizons.AddRecord(rec.Value)
		}
	}
	e.logger.Debug("resolved consumption horizons", "count", len(e.horizons))
	return nil
}

// Conversations reconstructs every conversation, newest first.
func (e *Extractor) Conversations(ctx context.Context) ([]Conversation, error) {
	convStore, ok := record.FindStore(e.stores, ConversationStore)
	if !ok {
		return nil, invalidStructure(ConversationStore, "conversation store not found")
	}
	replyStore, ok := record.FindStore(e.stores, ReplyChainStore)
	if !ok {
		return nil, invalidStructure(ReplyChainStore, "reply chain store not found")
	}

	dedup := newDeduplicator()
	replaced := 0
	for rec, err := range e.src.Records(ctx, convStore) {
		if err != nil {
			return nil, extractionFailed(convStore, "failed to read conversations", err)
		}
		if dedup.add(rec.Value) {
			replaced++
		}
	}

	assembler := newMessageAssembler(e.profiles, e.horizons)
	total := 0
	for rec, err := range e.src.Records(ctx, replyStore) {
		if err != nil {
			return nil, extractionFailed(replyStore, "failed to read reply chains", err)
		}
		total += assembler.add(rec.Value)
	}

	snaps := dedup.snapshots()
	conversations := make([]Conversation, 0, len(snaps))
	for _, snap := range snaps {
		conv := e.assemble(snap, assembler)
		if err := conv.Validate(); err != nil {
			return nil, extractionFailed(convStore, "assembled an invalid conversation", err)
		}
		conversations = append(conversations, conv)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTime.After(conversations[j].LastMessageTime)
	})

	e.logger.Debug("reconstructed conversations",
		"conversations", len(conversations),
		"superseded_snapshots", replaced,
		"messages", total)
	return conversations, nil
}

func (e *Extractor) assemble(snap *rawConversation, assembler *messageAssembler) Conversation {
	v := snap.value
	tt := ClassifyThread(v.GetString("threadType", ""), snap.id)
	props := v.GetNested("threadProperties")
	readMeta := props.GetBool("isRead", true)
	lastRaw := v.Get("lastMessageTimeUtc")

	res := ReconcileUnread(UnreadInput{
		Messages:       assembler.messages(snap.id),
		ReadMetadata:   readMeta,
		Horizon:        MergeSnapshotHorizon(e.horizons.Get(snap.id), v),
		LastMessageRaw: lastRaw,
	})
	if res.ForcedByHorizon || res.ForcedByMetadata {
		e.logger.Debug("forced unread",
			"conversation", snap.id,
			"horizon", res.ForcedByHorizon,
			"metadata", res.ForcedByMetadata)
	}

	return Conversation{
		ID:              snap.id,
		Title:           ResolveTitle(v, tt),
		LastMessageTime: ParseTimestamp(lastRaw),
		Messages:        res.Messages,
		UnreadCount:     res.Count,
		ReadMetadata:    readMeta,
		Hidden:          props.GetBool("hidden", false),
		ThreadType:      tt,
	}
}

// Extract is a convenience wrapper around Open and Conversations.
func Extract(ctx context.Context, src record.Source, opts ...Option) ([]Conversation, error) {
	e, err := Open(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	return e.Conversations(ctx)
}
