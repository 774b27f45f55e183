package candidate

import (
	"context"

	"talentflow-backend/lib/utils/optimistic"
	"talentflow-backend/models"
	candidateapimodels "talentflow-backend/models/api/candidate"
)

// Kanban is the displayed stage board. A dragged card shows its new column
// immediately and returns to the old one when the stage change fails.
type Kanban struct {
	provider Provider
	view     *optimistic.View[candidateapimodels.CandidateView]
}

func NewKanban(provider Provider) *Kanban {
	return &Kanban{
		provider: provider,
		view:     optimistic.NewView[candidateapimodels.CandidateView](nil),
	}
}

func (k *Kanban) Load(ctx context.Context, filter candidateapimodels.CandidateFilter) error {
	list, err := k.provider.ListAll(ctx, filter)
	if err != nil {
		return err
	}
	k.view.Replace(list)
	return nil
}

func (k *Kanban) Column(stage models.CandidateStage) []candidateapimodels.CandidateView {
	result := []candidateapimodels.CandidateView{}
	for _, item := range k.view.Items() {
		if item.Stage == stage {
			result = append(result, item)
		}
	}
	return result
}

func (k *Kanban) Columns() map[models.CandidateStage][]candidateapimodels.CandidateView {
	result := make(map[models.CandidateStage][]candidateapimodels.CandidateView, len(models.CandidateStages))
	for _, stage := range models.CandidateStages {
		result[stage] = []candidateapimodels.CandidateView{}
	}
	for _, item := range k.view.Items() {
		result[item.Stage] = append(result[item.Stage], item)
	}
	return result
}

func (k *Kanban) Move(ctx context.Context, id uint, stage models.CandidateStage) error {
	stage, err := models.ParseStage(string(stage))
	if err != nil {
		return err
	}
	return k.view.Apply(ctx,
		func(current []candidateapimodels.CandidateView) ([]candidateapimodels.CandidateView, error) {
			for idx := range current {
				if current[idx].ID == id {
					current[idx].Stage = stage
					return current, nil
				}
			}
			return nil, models.NewNotFound("candidate %v is not on the board", id)
		},
		func(ctx context.Context, tentative, previous []candidateapimodels.CandidateView) error {
			_, err := k.provider.ChangeStage(ctx, id, stage)
			return err
		})
}
