package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvaholic/teamsmine/internal/record"
	"github.com/solvaholic/teamsmine/internal/teams"
)

func sampleConversations() []teams.Conversation {
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	return []teams.Conversation{
		{
			ID:              "19:a@thread.tacv2",
			Title:           "Team A > General",
			LastMessageTime: ts,
			Messages: []teams.Message{{
				ID: "m1", SenderID: "8:orgid:u1", SenderName: "Alice", Content: "hi",
				Timestamp: ts, ConversationID: "19:a@thread.tacv2", Unread: true,
			}},
			UnreadCount:  1,
			ReadMetadata: true,
			ThreadType:   teams.ThreadTopic,
		},
		{ID: "c2", Title: "c2", LastMessageTime: ts.Add(-time.Hour), ThreadType: teams.ThreadChat, Hidden: true},
	}
}

func TestWriteConversationsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "conversations.json")
	require.NoError(t, WriteConversations(path, sampleConversations(), FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)

	first := raw[0]
	for _, field := range []string{"id", "title", "last_message_time", "messages", "unread_count", "thread_type", "hidden", "is_read_metadata"} {
		assert.Contains(t, first, field)
	}
	assert.Equal(t, "2026-02-03T04:05:06Z", first["last_message_time"])
	msg := first["messages"].([]any)[0].(map[string]any)
	for _, field := range []string{"id", "sender_id", "sender_name", "content", "timestamp", "conversation_id", "is_unread"} {
		assert.Contains(t, msg, field)
	}
	assert.Equal(t, "Topic", first["thread_type"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	back, err := LoadConversations(path)
	require.NoError(t, err)
	assert.Equal(t, sampleConversations(), back)
}

func TestWriteConversationsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.jsonl")
	require.NoError(t, WriteConversations(path, sampleConversations(), FormatJSONL))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)

	back, err := LoadConversations(path)
	require.NoError(t, err)
	assert.Equal(t, sampleConversations(), back)
}

func TestWriteConversationsEmptyAndBadFormat(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "empty.json")
	require.NoError(t, WriteConversations(path, nil, FormatJSON))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	assert.Error(t, WriteConversations(filepath.Join(dir, "x.csv"), nil, "csv"))
}

func TestDumpStoresAndLoad(t *testing.T) {
	src := record.NewMemorySource().AddStore("Teams:profiles")
	for i := 0; i < 5; i++ {
		src.Add("Teams:conversation-manager", "c", record.Value{"id": "c", "version": float64(i)})
	}

	dump, err := DumpStores(context.Background(), src, "synthetic", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, dump.Metadata.NumStores)
	assert.Equal(t, "synthetic", dump.Metadata.Source)

	conv := dump.Stores["Teams:conversation-manager"]
	assert.Equal(t, 5, conv.NumRecords)
	assert.Len(t, conv.Records, 3)
	assert.Equal(t, 0, dump.Stores["Teams:profiles"].NumRecords)

	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, WriteDump(path, dump))

	loaded, err := LoadDump(path)
	require.NoError(t, err)
	stores, err := loaded.Stores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Teams:conversation-manager", "Teams:profiles"}, stores)
	assert.Equal(t, 3, loaded.Len("Teams:conversation-manager"))

	var versions []float64
	for rec, err := range loaded.Records(context.Background(), "Teams:conversation-manager") {
		require.NoError(t, err)
		versions = append(versions, rec.Value.GetFloat("version", -1))
	}
	assert.Equal(t, []float64{0, 1, 2}, versions)
}

func TestDumpStoresNoLimit(t *testing.T) {
	src := record.NewMemorySource()
	for i := 0; i < 150; i++ {
		src.Add("s", "k", record.Value{})
	}

	dump, err := DumpStores(context.Background(), src, "", 0)
	require.NoError(t, err)
	assert.Len(t, dump.Stores["s"].Records, 150)

	capped, err := DumpStores(context.Background(), src, "", DefaultDumpLimit)
	require.NoError(t, err)
	assert.Len(t, capped.Stores["s"].Records, 100)
	assert.Equal(t, 150, capped.Stores["s"].NumRecords)
}

func TestLoadDumpMissingFile(t *testing.T) {
	_, err := LoadDump(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
