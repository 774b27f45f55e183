package candidate

import (
	"testing"

	"github.com/stretchr/testify/require"
	candidateapimodels "talentflow-backend/models/api/candidate"
)

func TestResolveMentions(t *testing.T) {
	candidates := []candidateapimodels.CandidateView{
		{ID: 1, Name: "Alice Johnson", Email: "alice.johnson@example.com"},
		{ID: 2, Name: "Bob Smith", Email: "bob.smith@example.com"},
	}

	t.Run(`resolves by name and email`, func(t *testing.T) {
		segments := ResolveMentions("ping @alice and @SMITH please", candidates)
		require.Equal(t, 5, len(segments))
		require.Equal(t, "ping ", segments[0].Text)
		require.True(t, segments[1].Mention)
		require.Equal(t, "@alice", segments[1].Text)
		require.Equal(t, uint(1), segments[1].Candidate.ID)
		require.Equal(t, " and ", segments[2].Text)
		require.Equal(t, uint(2), segments[3].Candidate.ID)
		require.Equal(t, " please", segments[4].Text)
	})

	t.Run(`unknown mention stays text`, func(t *testing.T) {
		segments := ResolveMentions("hi @nobody!", candidates)
		require.Equal(t, []candidateapimodels.MentionSegment{{Text: "hi @nobody!"}}, segments)
	})

	t.Run(`mention at edges`, func(t *testing.T) {
		segments := ResolveMentions("@bob", candidates)
		require.Equal(t, 1, len(segments))
		require.True(t, segments[0].Mention)
	})

	t.Run(`empty text`, func(t *testing.T) {
		require.Equal(t, 0, len(ResolveMentions("", candidates)))
	})

	t.Run(`renamed candidate changes resolution`, func(t *testing.T) {
		renamed := []candidateapimodels.CandidateView{{ID: 1, Name: "Alicia Keys", Email: "ak@example.com"}}
		segments := ResolveMentions("@alice", renamed)
		require.False(t, segments[0].Mention)
	})
}
