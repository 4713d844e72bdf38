package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogDefaults(t *testing.T) {
	cat := mustCatalog(t, DefaultDocument())

	assert.Equal(t, KnownMoods, cat.Moods())
	assert.Equal(t, 4, cat.Len())

	ch, ok := cat.Lookup("excited_1")
	require.True(t, ok)
	assert.Equal(t, "Mini calculator", ch.Title)
	assert.Equal(t, 20, ch.Points)

	all := cat.All()
	require.Len(t, all, 4)
	assert.Equal(t, "happy_1", all[0].ID)
	assert.Equal(t, "sad_1", all[3].ID)
}

func TestNewCatalogRejectsDuplicateIDsAcrossCategories(t *testing.T) {
	_, err := NewCatalog(Document{
		MoodHappy: {sample("dup", 1)},
		MoodSad:   {sample("dup", 2)},
	})
	require.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), `duplicate id "dup"`)
}

func TestNewCatalogRejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		problem string
	}{
		{
			name:    "missing id",
			doc:     Document{MoodHappy: {{Title: "t", Description: "d", Points: 1}}},
			problem: "happy[0]: id is required",
		},
		{
			name:    "negative points",
			doc:     Document{MoodTired: {{ID: "x", Title: "t", Description: "d", Points: -3}}},
			problem: "tired[0]: points must be non-negative",
		},
		{
			name:    "unknown category",
			doc:     Document{Mood("bored"): {sample("b1", 1)}},
			problem: `unknown mood category "bored"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.doc)
			require.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	cat := mustCatalog(t, DefaultDocument())

	list := cat.Challenges(MoodHappy)
	list[0] = nil
	assert.NotNil(t, cat.Challenges(MoodHappy)[0])

	moods := cat.Moods()
	moods[0] = "changed"
	assert.Equal(t, MoodHappy, cat.Moods()[0])

	assert.Nil(t, cat.Challenges(Mood("missing")))
}
