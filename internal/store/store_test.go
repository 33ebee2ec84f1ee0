package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvaholic/teamsmine/internal/record"
	"github.com/solvaholic/teamsmine/internal/teams"
)

func entry(t *testing.T, key string, v record.Value) record.Entry {
	t.Helper()
	e, err := record.Encode(record.Record{Key: key, Value: v})
	require.NoError(t, err)
	return e
}

func writeStore(t *testing.T, dir string) {
	t.Helper()
	ctx := context.Background()

	w, err := Create(dir)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.WriteBatch(ctx, "Teams:conversation-manager", []record.Entry{
		entry(t, "c1", record.Value{"id": "c1", "version": 1.0}),
		entry(t, "c1", record.Value{"id": "c1", "version": 2.0}),
	}))
	require.NoError(t, w.WriteBatch(ctx, "Teams:replychain-manager", []record.Entry{
		entry(t, "c1", record.Value{"conversationId": "c1", "messageMap": map[string]any{}}),
	}))
	require.NoError(t, w.WriteBatch(ctx, "Teams:conversation-manager", []record.Entry{
		entry(t, "c2", record.Value{"id": "c2"}),
	}))
	require.NoError(t, w.WriteBatch(ctx, "Teams:profiles", nil))
	require.NoError(t, w.Close())
}

func TestWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	writeStore(t, dir)

	marker, err := os.ReadFile(filepath.Join(dir, MarkerFile))
	require.NoError(t, err)
	assert.Equal(t, "MANIFEST-000001\n", string(marker))

	ctx := context.Background()
	r, err := Open(ctx, dir)
	require.NoError(t, err)
	defer r.Close()

	stores, err := r.Stores(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Teams:conversation-manager", "Teams:replychain-manager", "Teams:profiles"}, stores)

	var keys []string
	var versions []float64
	for rec, err := range r.Records(ctx, "Teams:conversation-manager") {
		require.NoError(t, err)
		keys = append(keys, rec.Key)
		versions = append(versions, rec.Value.GetFloat("version", 0))
	}
	assert.Equal(t, []string{"c1", "c1", "c2"}, keys, "duplicate keys are kept in insertion order")
	assert.Equal(t, []float64{1, 2, 0}, versions)

	count := 0
	for _, err := range r.Records(ctx, "missing") {
		require.NoError(t, err)
		count++
	}
	assert.Zero(t, count)
}

func TestReaderStatsAndCleanup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	writeStore(t, dir)

	ctx := context.Background()
	r, err := Open(ctx, dir)
	require.NoError(t, err)

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Ready)
	assert.Equal(t, int64(4), stats.TotalRecords)
	assert.Greater(t, stats.DatabaseSize, int64(0))
	require.Len(t, stats.Stores, 3)
	assert.Equal(t, StoreStats{Name: "Teams:profiles", Records: 0}, stats.Stores[2])

	tmp := r.copy
	require.NoError(t, r.Close())
	_, err = os.Stat(tmp)
	assert.True(t, errors.Is(err, os.ErrNotExist), "temporary copy must be removed")
}

func TestOpenSkipsLockFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	writeStore(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "LOCK"), nil, 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "writer.lock"), nil, 0600))

	r, err := Open(context.Background(), dir)
	require.NoError(t, err)
	defer r.Close()

	_, err = os.Stat(filepath.Join(r.copy, "LOCK"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(filepath.Join(r.copy, "writer.lock"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(filepath.Join(r.copy, MarkerFile))
	assert.NoError(t, err)
}

func TestReaderIsReadOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	writeStore(t, dir)

	r, err := Open(context.Background(), dir)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.db.conn.Exec("INSERT INTO stores (name) VALUES ('extra')")
	assert.Error(t, err)
}

func TestOpenRejectsDatabaseWithoutSchema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DatabaseFile), nil, 0600))

	_, err := Open(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a record store")
}

func TestOpenNotFound(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, teams.ErrNotFound)

	empty := t.TempDir()
	_, err = Open(ctx, empty)
	assert.ErrorIs(t, err, teams.ErrNotFound)
}

func TestCreateRefusesExistingStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	writeStore(t, dir)

	_, err := Create(dir)
	assert.Error(t, err)
}

func TestAbortLeavesNoMarker(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	w, err := Create(dir)
	require.NoError(t, err)

	require.NoError(t, w.WriteBatch(context.Background(), "s", []record.Entry{{Key: []byte("k"), Value: []byte(`{"a":1}`)}}))
	require.NoError(t, w.Abort())
	require.NoError(t, w.Close(), "close after abort is a no-op")

	_, err = os.Stat(filepath.Join(dir, MarkerFile))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.Error(t, w.WriteBatch(context.Background(), "s", nil))

	r, err := Open(context.Background(), dir)
	require.NoError(t, err)
	defer r.Close()
	assert.False(t, r.Ready())
}

func TestValidate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	writeStore(t, dir)

	ctx := context.Background()
	r, err := Open(ctx, dir)
	require.NoError(t, err)
	defer r.Close()

	checks, err := Validate(ctx, r)
	require.NoError(t, err)
	require.Len(t, checks, 4)

	byDesc := make(map[string]StoreCheck)
	for _, c := range checks {
		byDesc[c.Description] = c
	}
	assert.True(t, byDesc["User profiles"].Found)
	assert.Equal(t, 0, byDesc["User profiles"].Records)
	assert.Equal(t, 3, byDesc["Conversations"].Records)
	assert.Equal(t, "Teams:replychain-manager", byDesc["Messages"].Name)
	assert.False(t, byDesc["Metadata"].Found)
}

func TestExtractFromStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	writeStore(t, dir)

	ctx := context.Background()
	r, err := Open(ctx, dir)
	require.NoError(t, err)
	defer r.Close()

	convs, err := teams.Extract(ctx, r)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	for _, c := range convs {
		assert.NoError(t, c.Validate())
	}
}

func TestRecordsCancelled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	writeStore(t, dir)

	r, err := Open(context.Background(), dir)
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got error
	for _, err := range r.Records(ctx, "Teams:conversation-manager") {
		if err != nil {
			got = err
			break
		}
	}
	assert.ErrorIs(t, got, context.Canceled)
}
