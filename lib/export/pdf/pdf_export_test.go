package pdfexport

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"talentflow-backend/models"
	assessmentapimodels "talentflow-backend/models/api/assessment"
	candidateapimodels "talentflow-backend/models/api/candidate"
	dbmodels "talentflow-backend/models/db"
)

func TestGenerateResponseReport(t *testing.T) {
	t.Run(`renders pdf`, func(t *testing.T) {
		assessment := assessmentapimodels.AssessmentView{
			JobID: 1,
			Title: "Backend screening",
			Sections: []dbmodels.AssessmentSection{
				{ID: "s1", Title: "Basics", Questions: []dbmodels.AssessmentQuestion{
					{ID: "q1", Text: "Years of Go", Type: models.QuestionNumeric, Required: true},
					{ID: "q2", Text: "Tools", Type: models.QuestionMultiChoice, Options: []string{"A", "B"}},
				}},
			},
		}
		response := assessmentapimodels.ResponseView{
			ID:          1,
			JobID:       1,
			CandidateID: 2,
			Answers:     map[string]interface{}{"q1": float64(4), "q2": []interface{}{"A", "B"}, "old": "café"},
			SubmittedAt: time.Now(),
		}
		candidate := candidateapimodels.CandidateView{ID: 2, Name: "Zoë", Email: "zoe@example.com"}
		body, err := GenerateResponseReport(assessment, response, candidate)
		require.Nil(t, err)
		require.True(t, bytes.HasPrefix(body, []byte("%PDF")))
	})

	t.Run(`answer formatting`, func(t *testing.T) {
		require.Equal(t, "-", formatAnswer(nil))
		require.Equal(t, "-", formatAnswer(" "))
		require.Equal(t, "A, B", formatAnswer([]interface{}{"A", "B"}))
		require.Equal(t, "7.5", formatAnswer(7.5))
	})
}
