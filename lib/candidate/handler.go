package candidate

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"talentflow-backend/db"
	notestore "talentflow-backend/lib/candidate-notes/store"
	timelinestore "talentflow-backend/lib/candidate-timeline/store"
	candidatestore "talentflow-backend/lib/candidate/store"
	jobstore "talentflow-backend/lib/job/store"
	"talentflow-backend/lib/transport"
	"talentflow-backend/lib/utils/helpers"
	"talentflow-backend/models"
	apimodels "talentflow-backend/models/api"
	candidateapimodels "talentflow-backend/models/api/candidate"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	Create(ctx context.Context, data candidateapimodels.CandidateData) (item candidateapimodels.CandidateView, err error)
	GetByID(ctx context.Context, id uint) (item candidateapimodels.CandidateView, err error)
	List(ctx context.Context, filter candidateapimodels.CandidateFilter) (result apimodels.PageResponse[candidateapimodels.CandidateView], err error)
	ListAll(ctx context.Context, filter candidateapimodels.CandidateFilter) (list []candidateapimodels.CandidateView, err error)
	// ChangeStage writes the stage and appends the timeline event in one transaction.
	// Returns false when the candidate already is in stage.
	ChangeStage(ctx context.Context, id uint, stage models.CandidateStage) (changed bool, err error)
	GetTimeline(ctx context.Context, id uint) (list []candidateapimodels.TimelineView, err error)
	Delete(ctx context.Context, id uint) error
	Reset(ctx context.Context) error
}

var Instance Provider

func NewHandler(tr transport.Provider) {
	Instance = NewInstance(db.DB, tr)
}

func NewInstance(DB *gorm.DB, tr transport.Provider) Provider {
	return impl{
		db:            DB,
		store:         candidatestore.NewInstance(DB),
		timelineStore: timelinestore.NewInstance(DB),
		jobStore:      jobstore.NewInstance(DB),
		transport:     tr,
		now:           time.Now,
	}
}

type impl struct {
	db            *gorm.DB
	store         candidatestore.Provider
	timelineStore timelinestore.Provider
	jobStore      jobstore.Provider
	transport     transport.Provider
	now           func() time.Time
}

func (i impl) getLogger(id uint) *log.Entry {
	logger := log.WithField("operation", "candidate")
	if id != 0 {
		logger = logger.WithField("candidate_id", id)
	}
	return logger
}

func (i impl) Create(ctx context.Context, data candidateapimodels.CandidateData) (item candidateapimodels.CandidateView, err error) {
	if err = data.Validate(); err != nil {
		return item, err
	}
	stage := models.StageApplied
	if data.Stage != "" {
		stage, _ = models.ParseStage(string(data.Stage))
	}
	err = i.transport.Do(ctx, transport.Mutation("candidate.create"), func(ctx context.Context) error {
		rec := dbmodels.Candidate{
			Name:  helpers.PlainText(data.Name),
			Email: strings.ToLower(strings.TrimSpace(data.Email)),
			JobID: data.JobID,
			Stage: stage,
		}
		if data.JobID != 0 {
			job, err := i.jobStore.GetByID(data.JobID)
			if err != nil {
				return errors.Wrap(err, "failed to get candidate job")
			}
			if job == nil {
				return models.NewNotFound("job %v not found", data.JobID)
			}
			rec.JobTitle = job.Title
		}
		return i.db.Transaction(func(tx *gorm.DB) error {
			id, err := candidatestore.NewInstance(tx).Create(rec)
			if err != nil {
				return errors.Wrap(err, "failed to create candidate")
			}
			_, err = timelinestore.NewInstance(tx).Create(dbmodels.TimelineEvent{
				CandidateID: id,
				Stage:       stage,
				Timestamp:   i.now().UTC(),
			})
			if err != nil {
				return errors.Wrap(err, "failed to create candidate timeline event")
			}
			saved, err := candidatestore.NewInstance(tx).GetByID(id)
			if err != nil {
				return errors.Wrap(err, "failed to get candidate")
			}
			item = candidateapimodels.CandidateConvert(*saved)
			return nil
		})
	})
	if err != nil {
		return item, err
	}
	i.getLogger(item.ID).WithField("stage", item.Stage).Info("candidate created")
	return item, nil
}

func (i impl) GetByID(ctx context.Context, id uint) (item candidateapimodels.CandidateView, err error) {
	err = i.transport.Do(ctx, transport.Read("candidate.get"), func(ctx context.Context) error {
		rec, err := i.store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "failed to get candidate")
		}
		if rec == nil {
			return models.NewNotFound("candidate %v not found", id)
		}
		item = candidateapimodels.CandidateConvert(*rec)
		return nil
	})
	return item, err
}

func (i impl) List(ctx context.Context, filter candidateapimodels.CandidateFilter) (result apimodels.PageResponse[candidateapimodels.CandidateView], err error) {
	err = i.transport.Do(ctx, transport.Read("candidate.list"), func(ctx context.Context) error {
		total, err := i.store.ListCount(filter)
		if err != nil {
			return errors.Wrap(err, "failed to count candidates")
		}
		recList, err := i.store.List(filter)
		if err != nil {
			return errors.Wrap(err, "failed to list candidates")
		}
		result.Page, result.Limit = filter.GetPage()
		result.Total = total
		result.Data = make([]candidateapimodels.CandidateView, 0, len(recList))
		for _, rec := range recList {
			result.Data = append(result.Data, candidateapimodels.CandidateConvert(rec))
		}
		return nil
	})
	return result, err
}

func (i impl) ListAll(ctx context.Context, filter candidateapimodels.CandidateFilter) (list []candidateapimodels.CandidateView, err error) {
	err = i.transport.Do(ctx, transport.Read("candidate.list_all"), func(ctx context.Context) error {
		recList, err := i.store.ListAll(filter)
		if err != nil {
			return errors.Wrap(err, "failed to list candidates")
		}
		list = make([]candidateapimodels.CandidateView, 0, len(recList))
		for _, rec := range recList {
			list = append(list, candidateapimodels.CandidateConvert(rec))
		}
		return nil
	})
	return list, err
}

func (i impl) ChangeStage(ctx context.Context, id uint, stage models.CandidateStage) (changed bool, err error) {
	stage, err = models.ParseStage(string(stage))
	if err != nil {
		return false, err
	}
	logger := i.getLogger(id).WithField("stage", stage)
	err = i.transport.Do(ctx, transport.Mutation("candidate.change_stage"), func(ctx context.Context) error {
		return i.db.Transaction(func(tx *gorm.DB) error {
			changed = false
			candidateStore := candidatestore.NewInstance(tx)
			timelineStore := timelinestore.NewInstance(tx)
			rec, err := candidateStore.GetByID(id)
			if err != nil {
				return errors.Wrap(err, "failed to get candidate")
			}
			if rec == nil {
				return models.NewNotFound("candidate %v not found", id)
			}
			if rec.Stage == stage {
				return nil
			}
			timestamp := i.now().UTC()
			last, err := timelineStore.Last(id)
			if err != nil {
				return errors.Wrap(err, "failed to get last timeline event")
			}
			if last != nil && last.Timestamp.After(timestamp) {
				timestamp = last.Timestamp
			}
			err = candidateStore.Update(id, map[string]interface{}{"stage": stage})
			if err != nil {
				return errors.Wrap(err, "failed to update candidate stage")
			}
			_, err = timelineStore.Create(dbmodels.TimelineEvent{
				CandidateID: id,
				Stage:       stage,
				Timestamp:   timestamp,
			})
			if err != nil {
				return errors.Wrap(err, "failed to append timeline event")
			}
			changed = true
			return nil
		})
	})
	if err != nil {
		logger.WithError(err).Warn("candidate stage change failed")
		return false, err
	}
	if changed {
		logger.Info("candidate stage changed")
	}
	return changed, nil
}

func (i impl) GetTimeline(ctx context.Context, id uint) (list []candidateapimodels.TimelineView, err error) {
	err = i.transport.Do(ctx, transport.Read("candidate.timeline"), func(ctx context.Context) error {
		rec, err := i.store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "failed to get candidate")
		}
		if rec == nil {
			return models.NewNotFound("candidate %v not found", id)
		}
		events, err := i.timelineStore.List(id)
		if err != nil {
			return errors.Wrap(err, "failed to get candidate timeline")
		}
		list = make([]candidateapimodels.TimelineView, 0, len(events))
		for _, event := range events {
			list = append(list, candidateapimodels.TimelineView{
				ID:          event.ID,
				CandidateID: event.CandidateID,
				Stage:       event.Stage,
				Timestamp:   event.Timestamp,
				Ago:         humanize.Time(event.Timestamp),
			})
		}
		return nil
	})
	return list, err
}

// Delete removes the candidate together with its timeline and notes.
func (i impl) Delete(ctx context.Context, id uint) error {
	err := i.transport.Do(ctx, transport.Mutation("candidate.delete"), func(ctx context.Context) error {
		return i.db.Transaction(func(tx *gorm.DB) error {
			if err := timelinestore.NewInstance(tx).DeleteByCandidate(id); err != nil {
				return errors.Wrap(err, "failed to delete candidate timeline")
			}
			if err := notestore.NewInstance(tx).DeleteByCandidate(id); err != nil {
				return errors.Wrap(err, "failed to delete candidate notes")
			}
			if err := candidatestore.NewInstance(tx).Delete(id); err != nil {
				return errors.Wrap(err, "failed to delete candidate")
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	i.getLogger(id).Info("candidate deleted")
	return nil
}

func (i impl) Reset(ctx context.Context) error {
	return i.transport.Do(ctx, transport.Mutation("candidate.reset").WithoutErrors(), func(ctx context.Context) error {
		return i.db.Transaction(func(tx *gorm.DB) error {
			if err := timelinestore.NewInstance(tx).Clear(); err != nil {
				return errors.Wrap(err, "failed to clear timeline")
			}
			if err := notestore.NewInstance(tx).Clear(); err != nil {
				return errors.Wrap(err, "failed to clear notes")
			}
			if err := candidatestore.NewInstance(tx).Clear(); err != nil {
				return errors.Wrap(err, "failed to clear candidates")
			}
			i.getLogger(0).Info("candidates cleared")
			return nil
		})
	})
}
