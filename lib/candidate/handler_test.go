package candidate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"talentflow-backend/db"
	notestore "talentflow-backend/lib/candidate-notes/store"
	jobhandler "talentflow-backend/lib/job"
	"talentflow-backend/lib/transport"
	"talentflow-backend/lib/utils/optimistic"
	"talentflow-backend/models"
	apimodels "talentflow-backend/models/api"
	candidateapimodels "talentflow-backend/models/api/candidate"
	jobapimodels "talentflow-backend/models/api/job"
	dbmodels "talentflow-backend/models/db"
)

func newTestInstance(t *testing.T, cfg transport.Config) (*gorm.DB, impl) {
	DB, err := db.OpenMemory()
	require.Nil(t, err)
	return DB, NewInstance(DB, transport.New(cfg)).(impl)
}

func createCandidate(t *testing.T, provider Provider, name string, stage models.CandidateStage) candidateapimodels.CandidateView {
	item, err := provider.Create(context.Background(), candidateapimodels.CandidateData{
		Name:  name,
		Email: fmt.Sprintf("%v@example.com", name),
		Stage: stage,
	})
	require.Nil(t, err)
	return item
}

func timelineStages(list []candidateapimodels.TimelineView) []models.CandidateStage {
	result := []models.CandidateStage{}
	for _, item := range list {
		result = append(result, item.Stage)
	}
	return result
}

func TestCandidateHandler(t *testing.T) {
	ctx := context.Background()

	t.Run(`create defaults to applied with timeline`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		item := createCandidate(t, provider, "alice", "")
		require.Equal(t, models.StageApplied, item.Stage)
		timeline, err := provider.GetTimeline(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, []models.CandidateStage{models.StageApplied}, timelineStages(timeline))
	})

	t.Run(`create keeps job title snapshot`, func(t *testing.T) {
		DB, provider := newTestInstance(t, transport.Config{})
		jobs := jobhandler.NewInstance(DB, transport.New(transport.Config{}))
		job, err := jobs.Create(ctx, jobapimodels.JobData{Title: "Go Developer"})
		require.Nil(t, err)
		item, err := provider.Create(ctx, candidateapimodels.CandidateData{Name: "Bob", Email: "bob@example.com", JobID: job.ID})
		require.Nil(t, err)
		require.Equal(t, "Go Developer", item.JobTitle)

		title := "Senior Go Developer"
		_, err = jobs.Update(ctx, job.ID, jobapimodels.JobUpdate{Title: &title})
		require.Nil(t, err)
		item, err = provider.GetByID(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, "Go Developer", item.JobTitle)

		_, err = provider.Create(ctx, candidateapimodels.CandidateData{Name: "Eve", Email: "eve@example.com", JobID: 999})
		require.True(t, models.IsNotFound(err))
	})

	t.Run(`change stage appends timeline`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		item := createCandidate(t, provider, "carol", models.StageApplied)
		changed, err := provider.ChangeStage(ctx, item.ID, models.StageTechnical)
		require.Nil(t, err)
		require.True(t, changed)

		timeline, err := provider.GetTimeline(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, []models.CandidateStage{models.StageApplied, models.StageTechnical}, timelineStages(timeline))
		require.False(t, timeline[1].Timestamp.Before(timeline[0].Timestamp))

		item, err = provider.GetByID(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, models.StageTechnical, item.Stage)
	})

	t.Run(`same stage is a no-op`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		item := createCandidate(t, provider, "dave", models.StageScreening)
		changed, err := provider.ChangeStage(ctx, item.ID, "SCREENING")
		require.Nil(t, err)
		require.False(t, changed)
		timeline, err := provider.GetTimeline(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, 1, len(timeline))
	})

	t.Run(`any stage reachable from any stage`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		item := createCandidate(t, provider, "erin", models.StageHired)
		for _, stage := range []models.CandidateStage{models.StageApplied, models.StageRejected, models.StageOffer} {
			changed, err := provider.ChangeStage(ctx, item.ID, stage)
			require.Nil(t, err)
			require.True(t, changed)
		}
		timeline, err := provider.GetTimeline(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, 4, len(timeline))
		current, err := provider.GetByID(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, timeline[len(timeline)-1].Stage, current.Stage)
	})

	t.Run(`timestamps stay monotonic when clock goes back`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		provider.now = func() time.Time { return base }
		item := createCandidate(t, provider, "frank", "")
		provider.now = func() time.Time { return base.Add(-time.Hour) }
		_, err := provider.ChangeStage(ctx, item.ID, models.StageOffer)
		require.Nil(t, err)
		timeline, err := provider.GetTimeline(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, 2, len(timeline))
		require.True(t, timeline[1].Timestamp.Equal(base))
		require.Equal(t, models.StageOffer, timeline[1].Stage)
	})

	t.Run(`unknown candidate and stage`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		_, err := provider.ChangeStage(ctx, 77, models.StageOffer)
		require.True(t, models.IsNotFound(err))
		item := createCandidate(t, provider, "gina", "")
		_, err = provider.ChangeStage(ctx, item.ID, "interview")
		require.ErrorIs(t, err, models.ErrUnknownStage)
		_, err = provider.GetByID(ctx, 77)
		require.True(t, models.IsNotFound(err))
	})

	t.Run(`failed transport leaves stage and timeline untouched`, func(t *testing.T) {
		DB, _ := newTestInstance(t, transport.Config{})
		provider := NewInstance(DB, transport.New(transport.Config{}))
		item := createCandidate(t, provider, "hank", "")
		failing := NewInstance(DB, transport.New(transport.Config{ErrorRate: 1}))
		_, err := failing.ChangeStage(ctx, item.ID, models.StageHired)
		require.True(t, transport.IsSimulated(err))
		timeline, err := provider.GetTimeline(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, 1, len(timeline))
		current, err := provider.GetByID(ctx, item.ID)
		require.Nil(t, err)
		require.Equal(t, models.StageApplied, current.Stage)
	})

	t.Run(`list filters by search and stage`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		createCandidate(t, provider, "anna_lee", models.StageApplied)
		createCandidate(t, provider, "annabel", models.StageOffer)
		createCandidate(t, provider, "zed", models.StageOffer)

		result, err := provider.List(ctx, candidateapimodels.CandidateFilter{Search: "ANNA"})
		require.Nil(t, err)
		require.Equal(t, int64(2), result.Total)

		result, err = provider.List(ctx, candidateapimodels.CandidateFilter{Search: "anna", Stage: "Offer"})
		require.Nil(t, err)
		require.Equal(t, int64(1), result.Total)
		require.Equal(t, "annabel", result.Data[0].Name)

		result, err = provider.List(ctx, candidateapimodels.CandidateFilter{Search: "a_l"})
		require.Nil(t, err)
		require.Equal(t, int64(1), result.Total)

		result, err = provider.List(ctx, candidateapimodels.CandidateFilter{Search: "%"})
		require.Nil(t, err)
		require.Equal(t, int64(0), result.Total)
	})

	t.Run(`pages have no gaps or overlap`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		for idx := 0; idx < 120; idx++ {
			createCandidate(t, provider, fmt.Sprintf("c%03d", idx), "")
		}
		page1, err := provider.List(ctx, candidateapimodels.CandidateFilter{Pagination: apimodels.Pagination{Page: 1, Limit: 50}})
		require.Nil(t, err)
		page2, err := provider.List(ctx, candidateapimodels.CandidateFilter{Pagination: apimodels.Pagination{Page: 2, Limit: 50}})
		require.Nil(t, err)
		all, err := provider.List(ctx, candidateapimodels.CandidateFilter{Pagination: apimodels.Pagination{Page: 1, Limit: 100}})
		require.Nil(t, err)
		require.Equal(t, int64(120), page1.Total)
		require.Equal(t, 50, len(page1.Data))
		require.Equal(t, 50, len(page2.Data))
		require.Equal(t, all.Data, append(page1.Data, page2.Data...))

		result, err := provider.List(ctx, candidateapimodels.CandidateFilter{})
		require.Nil(t, err)
		require.Equal(t, 1, result.Page)
		require.Equal(t, 50, result.Limit)
	})

	t.Run(`delete cascades timeline and notes`, func(t *testing.T) {
		DB, provider := newTestInstance(t, transport.Config{})
		item := createCandidate(t, provider, "ivan", "")
		notes := notestore.NewInstance(DB)
		_, err := notes.Create(dbmodels.Note{CandidateID: item.ID, Content: "call back", Timestamp: time.Now()})
		require.Nil(t, err)

		require.Nil(t, provider.Delete(ctx, item.ID))
		_, err = provider.GetTimeline(ctx, item.ID)
		require.True(t, models.IsNotFound(err))
		var count int64
		require.Nil(t, DB.Model(&dbmodels.TimelineEvent{}).Where("candidate_id = ?", item.ID).Count(&count).Error)
		require.Equal(t, int64(0), count)
		list, err := notes.List(item.ID)
		require.Nil(t, err)
		require.Equal(t, 0, len(list))
		require.True(t, models.IsNotFound(provider.Delete(ctx, item.ID)))
	})
}

func TestKanban(t *testing.T) {
	ctx := context.Background()

	t.Run(`drag moves card between columns`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		item := createCandidate(t, provider, "judy", "")
		board := NewKanban(provider)
		require.Nil(t, board.Load(ctx, candidateapimodels.CandidateFilter{}))
		require.Equal(t, 1, len(board.Column(models.StageApplied)))
		require.Nil(t, board.Move(ctx, item.ID, models.StageOffer))
		require.Equal(t, 0, len(board.Column(models.StageApplied)))
		require.Equal(t, 1, len(board.Columns()[models.StageOffer]))
	})

	t.Run(`failed drag returns card`, func(t *testing.T) {
		DB, provider := newTestInstance(t, transport.Config{})
		item := createCandidate(t, provider, "kate", "")
		board := NewKanban(NewInstance(DB, transport.New(transport.Config{ErrorRate: 1})))
		require.Nil(t, board.Load(ctx, candidateapimodels.CandidateFilter{}))
		err := board.Move(ctx, item.ID, models.StageHired)
		var persistErr *optimistic.PersistError[candidateapimodels.CandidateView]
		require.True(t, errors.As(err, &persistErr))
		require.Equal(t, models.StageApplied, persistErr.Snapshot[0].Stage)
		require.Equal(t, 1, len(board.Column(models.StageApplied)))
		require.Equal(t, 0, len(board.Column(models.StageHired)))
	})

	t.Run(`failed drag keeps later drags`, func(t *testing.T) {
		_, provider := newTestInstance(t, transport.Config{})
		first := createCandidate(t, provider, "lena", "")
		second := createCandidate(t, provider, "mark", "")
		gated := &gatedStageProvider{
			Provider: provider,
			id:       first.ID,
			started:  make(chan struct{}),
			release:  make(chan struct{}),
		}
		board := NewKanban(gated)
		require.Nil(t, board.Load(ctx, candidateapimodels.CandidateFilter{}))

		firstErr := make(chan error, 1)
		go func() {
			firstErr <- board.Move(ctx, first.ID, models.StageHired)
		}()
		<-gated.started
		require.Nil(t, board.Move(ctx, second.ID, models.StageOffer))
		close(gated.release)
		require.ErrorIs(t, <-firstErr, transport.ErrSimulated)

		for _, id := range []uint{first.ID, second.ID} {
			stored, err := provider.GetByID(ctx, id)
			require.Nil(t, err)
			require.Equal(t, stored.Stage, displayedStage(board, id))
		}
		require.Equal(t, models.StageApplied, displayedStage(board, first.ID))
		require.Equal(t, models.StageOffer, displayedStage(board, second.ID))
	})
}

// gatedStageProvider holds the stage change of one candidate until released and then fails it.
type gatedStageProvider struct {
	Provider
	id      uint
	started chan struct{}
	release chan struct{}
}

func (p *gatedStageProvider) ChangeStage(ctx context.Context, id uint, stage models.CandidateStage) (bool, error) {
	if id != p.id {
		return p.Provider.ChangeStage(ctx, id, stage)
	}
	close(p.started)
	<-p.release
	return false, errors.Wrap(transport.ErrSimulated, "candidate.change_stage")
}

func displayedStage(board *Kanban, id uint) models.CandidateStage {
	for stage, column := range board.Columns() {
		for _, item := range column {
			if item.ID == id {
				return stage
			}
		}
	}
	return ""
}
