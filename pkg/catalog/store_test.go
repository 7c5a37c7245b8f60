package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestOpenMissingCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "batches.json")

	store, err := Open[BatchEntry](path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "document is only written on first mutation")
}

func TestOpenCorruptResetsToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "garbage", content: "{not json"},
		{name: "wrong shape", content: `["a","b"]`},
		{name: "null", content: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "artworks.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0640))

			store, err := Open[ArtworkEntry](path, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, 0, store.Len())

			require.NoError(t, store.Put("card_x", ArtworkEntry{Hash: "AB"}))
			entry, ok := store.Get("card_x")
			assert.True(t, ok)
			assert.Equal(t, "AB", entry.Hash)
		})
	}
}

func TestPutRewritesWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.json")

	store, err := Open[BatchEntry](path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Put("0004", BatchEntry{ArtworkID: strPtr("card_ru006")}))
	require.NoError(t, store.Put("001A", BatchEntry{
		ArtworkID:                 strPtr("card_ru014"),
		DataSubstitution:          strPtr(`{"token_symbol":"USDX"}`),
		DataSubstitutionSignature: strPtr("AABB"),
	}))

	reopened, err := Open[BatchEntry](path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"0004", "001A"}, reopened.Keys())

	entry, ok := reopened.Get("001A")
	require.True(t, ok)
	assert.Equal(t, "card_ru014", *entry.ArtworkID)
	assert.Equal(t, `{"token_symbol":"USDX"}`, *entry.DataSubstitution)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDocumentLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artworks.json")
	store, err := Open[ArtworkEntry](path, zap.NewNop())
	require.NoError(t, err)

	date := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutMany(map[string]ArtworkEntry{
		"card_default": {IsResource: true, Hash: "00FF"},
		"card_ru039":   {IsResource: false, Hash: "ABCD", UpdateDate: &date},
	}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"card_default": {"isResource": true, "hash": "00FF", "updateDate": null},
		"card_ru039": {"isResource": false, "hash": "ABCD", "updateDate": "2020-05-01T12:00:00Z"}
	}`, string(b))
}

func TestPutManyEmptyIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artworks.json")
	store, err := Open[ArtworkEntry](path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.PutMany(nil))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFailedSaveRestoresPreviousValues(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")
	path := filepath.Join(dir, "batches.json")

	store, err := Open[BatchEntry](path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Put("0004", BatchEntry{ArtworkID: strPtr("card_ru006")}))

	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, store.Put("0004", BatchEntry{ArtworkID: strPtr("card_ru007")}))
	assert.Error(t, store.PutMany(map[string]BatchEntry{"001A": {ArtworkID: strPtr("card_ru014")}}))

	entry, ok := store.Get("0004")
	require.True(t, ok)
	assert.Equal(t, "card_ru006", *entry.ArtworkID)

	_, ok = store.Get("001A")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
}
