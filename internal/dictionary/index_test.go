package dictionary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIndex(t *testing.T) *Index {
	t.Helper()
	db, im := setupImporter(t)
	archive := writeArchive(t,
		archiveFile{"term_bank_1.json", dogBank},
		archiveFile{"term_bank_2.json", catBank},
	)
	_, err := im.Import(context.Background(), archive)
	require.NoError(t, err)
	return NewIndex(db.DB)
}

func TestIndex_LookupByWord(t *testing.T) {
	ix := setupIndex(t)

	match, found, err := ix.Lookup(context.Background(), "犬")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Match{Word: "犬", Reading: "いぬ", PartOfSpeech: "noun", Definition: "dog"}, match)
}

func TestIndex_LookupByReading(t *testing.T) {
	ix := setupIndex(t)

	match, found, err := ix.Lookup(context.Background(), " ねこ ")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "猫", match.Word)
	assert.Equal(t, "cat", match.Definition)
}

func TestIndex_LookupReturnsFirstSense(t *testing.T) {
	ix := setupIndex(t)

	match, found, err := ix.Lookup(context.Background(), "日")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "sun", match.Definition)

	all, err := ix.LookupAll(context.Background(), "日")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "day", all[1].Definition)
}

func TestIndex_NotFound(t *testing.T) {
	ix := setupIndex(t)

	for _, token := range []string{"鳥", "", "   ", "dog"} {
		match, found, err := ix.Lookup(context.Background(), token)
		assert.NoError(t, err, token)
		assert.False(t, found, token)
		assert.Equal(t, Match{}, match)
	}
}

func TestIndex_NormalizesToken(t *testing.T) {
	ix := setupIndex(t)

	// "か" followed by a combining dakuten composes to "が".
	assert.Equal(t, "\u304c", Normalize("\u304b\u3099"))

	_, found, err := ix.Lookup(context.Background(), "ねこ")
	require.NoError(t, err)
	assert.True(t, found)
}
