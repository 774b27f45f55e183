package candidate

import (
	"regexp"
	"strings"

	candidateapimodels "talentflow-backend/models/api/candidate"
)

var mentionRegexp = regexp.MustCompile(`@(\w+)`)

// ResolveMentions splits text into plain and @mention segments. A token resolves to the
// first candidate whose name or email contains it, ignoring case. Unresolved tokens stay plain text.
func ResolveMentions(text string, candidates []candidateapimodels.CandidateView) []candidateapimodels.MentionSegment {
	result := []candidateapimodels.MentionSegment{}
	plain := strings.Builder{}
	flush := func() {
		if plain.Len() > 0 {
			result = append(result, candidateapimodels.MentionSegment{Text: plain.String()})
			plain.Reset()
		}
	}
	last := 0
	for _, loc := range mentionRegexp.FindAllStringSubmatchIndex(text, -1) {
		plain.WriteString(text[last:loc[0]])
		last = loc[1]
		match := findMentioned(text[loc[2]:loc[3]], candidates)
		if match == nil {
			plain.WriteString(text[loc[0]:loc[1]])
			continue
		}
		flush()
		result = append(result, candidateapimodels.MentionSegment{
			Text:      text[loc[0]:loc[1]],
			Mention:   true,
			Candidate: match,
		})
	}
	plain.WriteString(text[last:])
	flush()
	return result
}

func findMentioned(token string, candidates []candidateapimodels.CandidateView) *candidateapimodels.CandidateView {
	token = strings.ToLower(token)
	for idx := range candidates {
		if strings.Contains(strings.ToLower(candidates[idx].Name), token) ||
			strings.Contains(strings.ToLower(candidates[idx].Email), token) {
			found := candidates[idx]
			return &found
		}
	}
	return nil
}
