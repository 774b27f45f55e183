package jobhandler

import (
	"context"

	"github.com/pkg/errors"
	"talentflow-backend/lib/utils/optimistic"
	jobapimodels "talentflow-backend/models/api/job"
)

// Board is the displayed job list. Moves are shown at once and rolled back
// when the order writes fail.
type Board struct {
	provider Provider
	view     *optimistic.View[jobapimodels.JobView]
}

func NewBoard(provider Provider) *Board {
	return &Board{
		provider: provider,
		view:     optimistic.NewView[jobapimodels.JobView](nil),
	}
}

func (b *Board) Load(ctx context.Context, filter jobapimodels.JobFilter) error {
	list, err := b.provider.List(ctx, filter)
	if err != nil {
		return err
	}
	b.view.Replace(list)
	return nil
}

func (b *Board) Items() []jobapimodels.JobView {
	return b.view.Items()
}

// Move returns *ReorderPersistError when persisting fails, the board then drops
// this move and keeps the moves made after it.
func (b *Board) Move(ctx context.Context, fromIndex, toIndex int) error {
	// the index move is resolved once, replays keep the resulting id order
	var ids []uint
	return b.view.Apply(ctx,
		func(current []jobapimodels.JobView) ([]jobapimodels.JobView, error) {
			if ids != nil {
				return arrangeJobs(current, ids), nil
			}
			result, err := moveJob(current, fromIndex, toIndex)
			if err != nil {
				return nil, err
			}
			ids = make([]uint, len(result))
			for idx, item := range result {
				ids[idx] = item.ID
			}
			return result, nil
		},
		func(ctx context.Context, tentative, previous []jobapimodels.JobView) error {
			return b.provider.PersistReorder(ctx, tentative, previous)
		})
}

// ToggleStatus flips the job status. There is no rollback, the displayed
// item is only changed after the write succeeded.
func (b *Board) ToggleStatus(ctx context.Context, id uint) error {
	if !b.contains(id) {
		return errors.Errorf("job %v is not on the board", id)
	}
	item, err := b.provider.ToggleStatus(ctx, id)
	if err != nil {
		return err
	}
	return b.view.Confirm(func(current []jobapimodels.JobView) ([]jobapimodels.JobView, error) {
		for idx := range current {
			if current[idx].ID == id {
				current[idx].Status = item.Status
			}
		}
		return current, nil
	})
}

func (b *Board) contains(id uint) bool {
	for _, item := range b.view.Items() {
		if item.ID == id {
			return true
		}
	}
	return false
}

// arrangeJobs puts the jobs in ids order and renumbers them, jobs missing
// from ids keep their relative order at the end.
func arrangeJobs(list []jobapimodels.JobView, ids []uint) []jobapimodels.JobView {
	byID := make(map[uint]jobapimodels.JobView, len(list))
	for _, item := range list {
		byID[item.ID] = item
	}
	result := make([]jobapimodels.JobView, 0, len(list))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			result = append(result, item)
			delete(byID, id)
		}
	}
	for _, item := range list {
		if _, ok := byID[item.ID]; ok {
			result = append(result, item)
		}
	}
	for idx := range result {
		result[idx].Order = idx
	}
	return result
}
