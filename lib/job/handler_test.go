package jobhandler

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"talentflow-backend/db"
	"talentflow-backend/lib/transport"
	"talentflow-backend/models"
	jobapimodels "talentflow-backend/models/api/job"
)

func newTestProvider(t *testing.T, cfg transport.Config) Provider {
	DB, err := db.OpenMemory()
	require.Nil(t, err)
	return NewInstance(DB, transport.New(cfg))
}

func createJobs(t *testing.T, provider Provider, titles ...string) []jobapimodels.JobView {
	result := []jobapimodels.JobView{}
	for _, title := range titles {
		item, err := provider.Create(context.Background(), jobapimodels.JobData{Title: title})
		require.Nil(t, err)
		result = append(result, item)
	}
	return result
}

func orderTitles(list []jobapimodels.JobView) []string {
	result := []string{}
	for _, item := range list {
		result = append(result, item.Title)
	}
	return result
}

func TestJobHandler(t *testing.T) {
	ctx := context.Background()

	t.Run(`create fills defaults`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		jobs := createJobs(t, provider, "Senior Go Developer", "QA Engineer")
		first := jobs[0]
		require.Equal(t, models.JobStatusOpen, first.Status)
		require.Equal(t, models.DefaultJobType, first.JobType)
		require.Equal(t, []string{}, first.Tags)
		require.Equal(t, 0, first.Order)
		require.Equal(t, 1, jobs[1].Order)
		require.Regexp(t, `^senior-go-developer-[0-9a-f]{4}$`, first.Slug)

		bySlug, err := provider.GetBySlug(ctx, first.Slug)
		require.Nil(t, err)
		require.Equal(t, first.ID, bySlug.ID)
	})

	t.Run(`create rejects empty title`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		_, err := provider.Create(ctx, jobapimodels.JobData{Title: "  "})
		require.NotNil(t, err)
	})

	t.Run(`update is partial`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		job := createJobs(t, provider, "Designer")[0]
		location := "Remote"
		tags := []string{"ui", " ", "<b>ux</b>"}
		item, err := provider.Update(ctx, job.ID, jobapimodels.JobUpdate{Location: &location, Tags: &tags})
		require.Nil(t, err)
		require.Equal(t, "Designer", item.Title)
		require.Equal(t, "Remote", item.Location)
		require.Equal(t, []string{"ui", "ux"}, item.Tags)
	})

	t.Run(`missing job is not found`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		_, err := provider.GetByID(ctx, 42)
		require.True(t, models.IsNotFound(err))
		title := "x"
		_, err = provider.Update(ctx, 42, jobapimodels.JobUpdate{Title: &title})
		require.True(t, models.IsNotFound(err))
		require.True(t, models.IsNotFound(provider.Delete(ctx, 42)))
	})

	t.Run(`list filters and sorts by order`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		jobs := createJobs(t, provider, "Backend Engineer", "Frontend Engineer", "Recruiter")
		require.Nil(t, provider.SetOrder(ctx, jobs[0].ID, 10))
		require.Nil(t, provider.SetStatus(ctx, jobs[1].ID, models.JobStatusClosed))

		list, err := provider.List(ctx, jobapimodels.JobFilter{})
		require.Nil(t, err)
		require.Equal(t, []string{"Frontend Engineer", "Recruiter", "Backend Engineer"}, orderTitles(list))

		list, err = provider.List(ctx, jobapimodels.JobFilter{Search: "ENGINEER"})
		require.Nil(t, err)
		require.Equal(t, 2, len(list))

		list, err = provider.List(ctx, jobapimodels.JobFilter{Status: models.JobStatusOpen})
		require.Nil(t, err)
		require.Equal(t, []string{"Recruiter", "Backend Engineer"}, orderTitles(list))
	})

	t.Run(`toggle status flips value`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		job := createJobs(t, provider, "Analyst")[0]
		item, err := provider.ToggleStatus(ctx, job.ID)
		require.Nil(t, err)
		require.Equal(t, models.JobStatusClosed, item.Status)
		item, err = provider.ToggleStatus(ctx, job.ID)
		require.Nil(t, err)
		require.Equal(t, models.JobStatusOpen, item.Status)
	})

	t.Run(`reorder persists positions`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		createJobs(t, provider, "A", "B", "C", "D")
		list, err := provider.Reorder(ctx, 0, 2)
		require.Nil(t, err)
		require.Equal(t, []string{"B", "C", "A", "D"}, orderTitles(list))

		stored, err := provider.List(ctx, jobapimodels.JobFilter{})
		require.Nil(t, err)
		require.Equal(t, []string{"B", "C", "A", "D"}, orderTitles(stored))
		for idx, item := range stored {
			require.Equal(t, idx, item.Order)
		}
	})

	t.Run(`reorder round trip restores order`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		createJobs(t, provider, "A", "B", "C", "D", "E")
		for _, pair := range [][2]int{{0, 4}, {3, 1}, {2, 2}, {4, 0}} {
			_, err := provider.Reorder(ctx, pair[0], pair[1])
			require.Nil(t, err)
			list, err := provider.Reorder(ctx, pair[1], pair[0])
			require.Nil(t, err)
			require.Equal(t, []string{"A", "B", "C", "D", "E"}, orderTitles(list))
		}
	})

	t.Run(`failed reorder returns snapshot`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{BatchErrorRate: 1})
		createJobs(t, provider, "A", "B", "C")
		_, err := provider.Reorder(ctx, 0, 2)
		require.True(t, transport.IsSimulated(err))
		var reorderErr *ReorderPersistError
		require.True(t, errors.As(err, &reorderErr))
		require.Equal(t, []string{"A", "B", "C"}, orderTitles(reorderErr.Snapshot))

		stored, err := provider.List(ctx, jobapimodels.JobFilter{})
		require.Nil(t, err)
		require.Equal(t, []string{"A", "B", "C"}, orderTitles(stored))
	})

	t.Run(`reorder with a deleted job keeps the other writes`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		jobs := createJobs(t, provider, "A", "B", "C")
		previous, err := provider.List(ctx, jobapimodels.JobFilter{})
		require.Nil(t, err)
		require.Nil(t, provider.Delete(ctx, jobs[1].ID))

		newOrder, err := moveJob(previous, 0, 2)
		require.Nil(t, err)
		require.Equal(t, []string{"B", "C", "A"}, orderTitles(newOrder))

		err = provider.PersistReorder(ctx, newOrder, previous)
		require.True(t, models.IsNotFound(err))
		var reorderErr *ReorderPersistError
		require.True(t, errors.As(err, &reorderErr))
		require.Equal(t, previous, reorderErr.Snapshot)

		stored, err := provider.List(ctx, jobapimodels.JobFilter{})
		require.Nil(t, err)
		require.Equal(t, []string{"C", "A"}, orderTitles(stored))
		require.Equal(t, 1, stored[0].Order)
		require.Equal(t, 2, stored[1].Order)
	})

	t.Run(`clear removes everything`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		createJobs(t, provider, "A", "B")
		require.Nil(t, provider.Clear(ctx))
		list, err := provider.List(ctx, jobapimodels.JobFilter{})
		require.Nil(t, err)
		require.Equal(t, 0, len(list))
	})
}

func TestBoard(t *testing.T) {
	ctx := context.Background()

	t.Run(`move is applied and kept`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		createJobs(t, provider, "A", "B", "C")
		board := NewBoard(provider)
		require.Nil(t, board.Load(ctx, jobapimodels.JobFilter{}))
		require.Nil(t, board.Move(ctx, 2, 0))
		require.Equal(t, []string{"C", "A", "B"}, orderTitles(board.Items()))
		require.Equal(t, 0, board.Items()[0].Order)
	})

	t.Run(`failed move rolls back`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{BatchErrorRate: 1})
		createJobs(t, provider, "A", "B", "C")
		board := NewBoard(provider)
		require.Nil(t, board.Load(ctx, jobapimodels.JobFilter{}))
		err := board.Move(ctx, 2, 0)
		var reorderErr *ReorderPersistError
		require.True(t, errors.As(err, &reorderErr))
		require.Equal(t, []string{"A", "B", "C"}, orderTitles(board.Items()))
	})

	t.Run(`toggle status updates displayed item`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		jobs := createJobs(t, provider, "A")
		board := NewBoard(provider)
		require.Nil(t, board.Load(ctx, jobapimodels.JobFilter{}))
		require.Nil(t, board.ToggleStatus(ctx, jobs[0].ID))
		require.Equal(t, models.JobStatusClosed, board.Items()[0].Status)
	})

	t.Run(`toggle status of a job not on the board writes nothing`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		board := NewBoard(provider)
		require.Nil(t, board.Load(ctx, jobapimodels.JobFilter{}))
		job := createJobs(t, provider, "A")[0]
		require.NotNil(t, board.ToggleStatus(ctx, job.ID))

		stored, err := provider.GetByID(ctx, job.ID)
		require.Nil(t, err)
		require.Equal(t, models.JobStatusOpen, stored.Status)
		require.Equal(t, 0, len(board.Items()))
	})

	t.Run(`failed move keeps later moves`, func(t *testing.T) {
		provider := newTestProvider(t, transport.Config{})
		createJobs(t, provider, "A", "B", "C")
		gated := &gatedReorderProvider{
			Provider: provider,
			started:  make(chan struct{}),
			release:  make(chan struct{}),
		}
		board := NewBoard(gated)
		require.Nil(t, board.Load(ctx, jobapimodels.JobFilter{}))

		firstErr := make(chan error, 1)
		go func() {
			firstErr <- board.Move(ctx, 0, 2)
		}()
		<-gated.started
		require.Equal(t, []string{"B", "C", "A"}, orderTitles(board.Items()))

		require.Nil(t, board.Move(ctx, 0, 1))
		require.Equal(t, []string{"C", "B", "A"}, orderTitles(board.Items()))

		close(gated.release)
		err := <-firstErr
		var reorderErr *ReorderPersistError
		require.True(t, errors.As(err, &reorderErr))
		require.True(t, transport.IsSimulated(err))

		stored, err := provider.List(ctx, jobapimodels.JobFilter{})
		require.Nil(t, err)
		require.Equal(t, orderTitles(stored), orderTitles(board.Items()))
		require.Equal(t, []string{"C", "B", "A"}, orderTitles(board.Items()))
		for idx, item := range board.Items() {
			require.Equal(t, idx, item.Order)
		}
	})
}

// gatedReorderProvider holds the first reorder until release is closed and then fails it.
type gatedReorderProvider struct {
	Provider
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (p *gatedReorderProvider) PersistReorder(ctx context.Context, newOrder, previous []jobapimodels.JobView) error {
	if p.calls.Add(1) > 1 {
		return p.Provider.PersistReorder(ctx, newOrder, previous)
	}
	close(p.started)
	<-p.release
	return errors.Wrap(transport.ErrSimulated, "job.reorder")
}
