package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"talentflow-backend/db"
	"talentflow-backend/lib/candidate"
	"talentflow-backend/lib/transport"
	"talentflow-backend/models"
	assessmentapimodels "talentflow-backend/models/api/assessment"
	candidateapimodels "talentflow-backend/models/api/candidate"
	dbmodels "talentflow-backend/models/db"
)

func newTestInstance(t *testing.T) (*gorm.DB, Provider, uint) {
	DB, err := db.OpenMemory()
	require.Nil(t, err)
	tr := transport.New(transport.Config{})
	item, err := candidate.NewInstance(DB, tr).Create(context.Background(), candidateapimodels.CandidateData{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	require.Nil(t, err)
	return DB, NewInstance(DB, tr), item.ID
}

func shortTextAssessment() assessmentapimodels.AssessmentData {
	return assessmentapimodels.AssessmentData{
		Title: "Screening",
		Sections: []dbmodels.AssessmentSection{
			{
				ID:    "s1",
				Title: "About you",
				Questions: []dbmodels.AssessmentQuestion{
					{
						ID:         "q1",
						Text:       "Nickname",
						Type:       models.QuestionShortText,
						Required:   true,
						Validation: &dbmodels.QuestionValidation{MaxLength: intPtr(10)},
					},
				},
			},
		},
	}
}

func TestAssessmentHandler(t *testing.T) {
	ctx := context.Background()

	t.Run(`missing assessment is not found`, func(t *testing.T) {
		_, provider, _ := newTestInstance(t)
		_, err := provider.Get(ctx, 5)
		require.True(t, models.IsNotFound(err))
		require.Equal(t, "Assessment not found for jobId 5", err.Error())
	})

	t.Run(`save is an upsert keyed by job`, func(t *testing.T) {
		_, provider, _ := newTestInstance(t)
		handler := provider.(impl)
		first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		handler.now = func() time.Time { return first }
		saved, err := handler.Save(ctx, 3, shortTextAssessment())
		require.Nil(t, err)
		require.Equal(t, uint(3), saved.JobID)

		second := first.Add(time.Hour)
		handler.now = func() time.Time { return second }
		data := shortTextAssessment()
		data.Title = "Updated"
		saved, err = handler.Save(ctx, 3, data)
		require.Nil(t, err)
		require.Equal(t, "Updated", saved.Title)
		require.True(t, saved.CreatedAt.Equal(first))
		require.True(t, saved.UpdatedAt.Equal(second))

		list, err := handler.List(ctx)
		require.Nil(t, err)
		require.Equal(t, 1, len(list))
	})

	t.Run(`too long answer blocks submission`, func(t *testing.T) {
		DB, provider, candidateID := newTestInstance(t)
		_, err := provider.Save(ctx, 1, shortTextAssessment())
		require.Nil(t, err)

		_, err = provider.SubmitResponse(ctx, 1, candidateID, map[string]interface{}{"q1": "abcdefghijk"})
		validationErr, ok := IsValidationError(err)
		require.True(t, ok)
		require.Equal(t, map[string]string{"q1": "Max length is 10 chars."}, validationErr.Errors)

		var count int64
		require.Nil(t, DB.Model(&dbmodels.Response{}).Count(&count).Error)
		require.Equal(t, int64(0), count)
	})

	t.Run(`valid answer is stored locally`, func(t *testing.T) {
		_, provider, candidateID := newTestInstance(t)
		_, err := provider.Save(ctx, 1, shortTextAssessment())
		require.Nil(t, err)

		result, err := provider.SubmitResponse(ctx, 1, candidateID, map[string]interface{}{"q1": "ally"})
		require.Nil(t, err)
		require.True(t, result.Success)

		response, err := provider.GetResponse(ctx, 1, result.ResponseID)
		require.Nil(t, err)
		require.Equal(t, "ally", response.Answers["q1"])
		require.Equal(t, models.SyncStatusLocal, response.SyncStatus)

		pending, err := provider.PendingResponses(ctx)
		require.Nil(t, err)
		require.Equal(t, 1, len(pending))
		require.Nil(t, provider.MarkResponseSynced(ctx, result.ResponseID))
		pending, err = provider.PendingResponses(ctx)
		require.Nil(t, err)
		require.Equal(t, 0, len(pending))

		byCandidate, err := provider.ListCandidateResponses(ctx, candidateID)
		require.Nil(t, err)
		require.Equal(t, 1, len(byCandidate))
		byJob, err := provider.ListResponses(ctx, 1)
		require.Nil(t, err)
		require.Equal(t, 1, len(byJob))

		_, err = provider.GetResponse(ctx, 2, result.ResponseID)
		require.True(t, models.IsNotFound(err))

		report, err := provider.ResponseReportPdf(ctx, 1, result.ResponseID)
		require.Nil(t, err)
		require.True(t, len(report) > 0)
	})

	t.Run(`submit needs assessment and candidate`, func(t *testing.T) {
		_, provider, candidateID := newTestInstance(t)
		_, err := provider.SubmitResponse(ctx, 1, candidateID, map[string]interface{}{})
		require.True(t, models.IsNotFound(err))
		_, err = provider.Save(ctx, 1, shortTextAssessment())
		require.Nil(t, err)
		_, err = provider.SubmitResponse(ctx, 1, 999, map[string]interface{}{"q1": "x"})
		require.True(t, models.IsNotFound(err))
	})

	t.Run(`export and import round trip`, func(t *testing.T) {
		_, provider, _ := newTestInstance(t)
		_, err := provider.Save(ctx, 1, shortTextAssessment())
		require.Nil(t, err)
		_, err = provider.Save(ctx, 2, shortTextAssessment())
		require.Nil(t, err)
		body, err := provider.Export(ctx)
		require.Nil(t, err)

		require.Nil(t, provider.Clear(ctx))
		list, err := provider.List(ctx)
		require.Nil(t, err)
		require.Equal(t, 0, len(list))

		count, err := provider.Import(ctx, body)
		require.Nil(t, err)
		require.Equal(t, 2, count)
		item, err := provider.Get(ctx, 2)
		require.Nil(t, err)
		require.Equal(t, "q1", item.Sections[0].Questions[0].ID)
		require.Equal(t, 10, *item.Sections[0].Questions[0].Validation.MaxLength)

		_, err = provider.Import(ctx, []byte(`[{"title":"no job"}]`))
		require.ErrorIs(t, err, ErrInvalidImport)
	})

	t.Run(`delete assessment`, func(t *testing.T) {
		_, provider, _ := newTestInstance(t)
		_, err := provider.Save(ctx, 1, shortTextAssessment())
		require.Nil(t, err)
		require.Nil(t, provider.Delete(ctx, 1))
		require.True(t, models.IsNotFound(provider.Delete(ctx, 1)))
	})

	t.Run(`invalid definition is rejected`, func(t *testing.T) {
		_, provider, _ := newTestInstance(t)
		data := shortTextAssessment()
		data.Sections[0].Questions = append(data.Sections[0].Questions, dbmodels.AssessmentQuestion{
			ID:   "q2",
			Type: models.QuestionSingleChoice,
		})
		_, err := provider.Save(ctx, 1, data)
		require.NotNil(t, err)
	})
}
