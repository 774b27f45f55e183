package candidatenotes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"talentflow-backend/db"
	"talentflow-backend/lib/candidate"
	"talentflow-backend/lib/transport"
	"talentflow-backend/models"
	candidateapimodels "talentflow-backend/models/api/candidate"
)

func TestNotes(t *testing.T) {
	ctx := context.Background()
	DB, err := db.OpenMemory()
	require.Nil(t, err)
	tr := transport.New(transport.Config{})
	candidates := candidate.NewInstance(DB, tr)
	provider := NewInstance(DB, tr)

	alice, err := candidates.Create(ctx, candidateapimodels.CandidateData{Name: "Alice Brown", Email: "alice@example.com"})
	require.Nil(t, err)
	bob, err := candidates.Create(ctx, candidateapimodels.CandidateData{Name: "Bob Green", Email: "bob@example.com"})
	require.Nil(t, err)

	t.Run(`add and list in order`, func(t *testing.T) {
		_, err := provider.AddNote(ctx, alice.ID, "first <i>call</i>")
		require.Nil(t, err)
		added, err := provider.AddNote(ctx, alice.ID, "ask @bob about it")
		require.Nil(t, err)
		require.Equal(t, 3, len(added.Segments))
		require.Equal(t, bob.ID, added.Segments[1].Candidate.ID)

		notes, err := provider.GetNotes(ctx, alice.ID)
		require.Nil(t, err)
		require.Equal(t, 2, len(notes))
		require.Equal(t, "first call", notes[0].Content)
		require.Equal(t, "ask @bob about it", notes[1].Content)
		require.Equal(t, 3, len(notes[1].Segments))
		require.Equal(t, bob.ID, notes[1].Segments[1].Candidate.ID)
	})

	t.Run(`missing candidate is not found`, func(t *testing.T) {
		_, err := provider.AddNote(ctx, 999, "hello")
		require.True(t, models.IsNotFound(err))
		_, err = provider.GetNotes(ctx, 999)
		require.True(t, models.IsNotFound(err))
	})

	t.Run(`added note without mentions has one plain segment`, func(t *testing.T) {
		note, err := provider.AddNote(ctx, alice.ID, "plain text")
		require.Nil(t, err)
		require.Equal(t, []candidateapimodels.MentionSegment{{Text: "plain text"}}, note.Segments)
	})

	t.Run(`empty note is rejected`, func(t *testing.T) {
		_, err := provider.AddNote(ctx, alice.ID, "   ")
		require.NotNil(t, err)
	})

	t.Run(`delete note`, func(t *testing.T) {
		note, err := provider.AddNote(ctx, bob.ID, "to remove")
		require.Nil(t, err)
		require.True(t, models.IsNotFound(provider.DeleteNote(ctx, alice.ID, note.ID)))
		require.Nil(t, provider.DeleteNote(ctx, bob.ID, note.ID))
		notes, err := provider.GetNotes(ctx, bob.ID)
		require.Nil(t, err)
		require.Equal(t, 0, len(notes))
	})
}
