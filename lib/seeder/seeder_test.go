package seeder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"talentflow-backend/db"
	"talentflow-backend/lib/transport"
	"talentflow-backend/models"
	dbmodels "talentflow-backend/models/db"
)

func newTestSeeder(t *testing.T, candidates int) (*gorm.DB, Provider) {
	DB, err := db.OpenMemory()
	require.Nil(t, err)
	tr := transport.New(transport.Config{
		MinDelay:       time.Hour,
		MaxDelay:       time.Hour,
		ErrorRate:      1,
		BatchErrorRate: 1,
	})
	return DB, NewInstance(DB, tr, Config{
		Candidates:       candidates,
		BatchSize:        10,
		RetryMaxInterval: time.Millisecond,
		RandSeed:         42,
	})
}

func TestSeedAll(t *testing.T) {
	ctx := context.Background()

	t.Run(`seeds empty database`, func(t *testing.T) {
		DB, provider := newTestSeeder(t, 25)
		result, err := provider.SeedAll(ctx)
		require.Nil(t, err)
		require.Equal(t, len(jobTitles), result.Jobs)
		require.Equal(t, 25, result.Candidates)
		require.Equal(t, seededAssessments, result.Assessments)

		jobs := []dbmodels.Job{}
		require.Nil(t, DB.Order("sort_order").Find(&jobs).Error)
		require.True(t, len(jobs) >= 1)
		seen := map[int]bool{}
		for idx, job := range jobs {
			require.True(t, job.Status.IsValid())
			require.Equal(t, idx, job.Order)
			require.False(t, seen[job.Order])
			seen[job.Order] = true
		}
		require.Equal(t, "frontend-developer-0", jobs[0].Slug)

		byStage := map[models.CandidateStage]int{}
		candidates := []dbmodels.Candidate{}
		require.Nil(t, DB.Find(&candidates).Error)
		for _, item := range candidates {
			byStage[item.Stage]++
			require.NotEqual(t, "", item.JobTitle)
		}
		require.Equal(t, 5, byStage[models.StageApplied])
		require.Equal(t, 4, byStage[models.StageRejected])

		var events int64
		require.Nil(t, DB.Model(&dbmodels.TimelineEvent{}).Count(&events).Error)
		require.Equal(t, int64(25), events)

		assessments := []dbmodels.Assessment{}
		require.Nil(t, DB.Find(&assessments).Error)
		require.Equal(t, seededAssessments, len(assessments))
		for _, item := range assessments {
			questions := item.Questions()
			require.Equal(t, questionsPerSeeded, len(questions))
			for _, question := range questions {
				require.NotEqual(t, models.QuestionFile, question.Type)
				if question.Type.IsChoice() {
					require.Equal(t, 3, len(question.Options))
				}
			}
		}
	})

	t.Run(`second run skips filled collections`, func(t *testing.T) {
		_, provider := newTestSeeder(t, 12)
		_, err := provider.SeedAll(ctx)
		require.Nil(t, err)
		result, err := provider.SeedAll(ctx)
		require.Nil(t, err)
		require.Equal(t, Result{}, result)
	})

	t.Run(`reseed with reset starts over`, func(t *testing.T) {
		DB, provider := newTestSeeder(t, 12)
		_, err := provider.SeedAll(ctx)
		require.Nil(t, err)
		result, err := provider.Reseed(ctx, true)
		require.Nil(t, err)
		require.Equal(t, len(jobTitles), result.Jobs)
		require.Equal(t, 12, result.Candidates)
		var count int64
		require.Nil(t, DB.Model(&dbmodels.Job{}).Count(&count).Error)
		require.Equal(t, int64(len(jobTitles)), count)
	})
}
