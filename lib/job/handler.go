package jobhandler

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"talentflow-backend/db"
	jobstore "talentflow-backend/lib/job/store"
	"talentflow-backend/lib/transport"
	"talentflow-backend/lib/utils/helpers"
	"talentflow-backend/lib/utils/optimistic"
	"talentflow-backend/models"
	jobapimodels "talentflow-backend/models/api/job"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	List(ctx context.Context, filter jobapimodels.JobFilter) (list []jobapimodels.JobView, err error)
	GetByID(ctx context.Context, id uint) (item jobapimodels.JobView, err error)
	GetBySlug(ctx context.Context, slug string) (item jobapimodels.JobView, err error)
	Create(ctx context.Context, data jobapimodels.JobData) (item jobapimodels.JobView, err error)
	Update(ctx context.Context, id uint, data jobapimodels.JobUpdate) (item jobapimodels.JobView, err error)
	SetOrder(ctx context.Context, id uint, order int) error
	SetStatus(ctx context.Context, id uint, status models.JobStatus) error
	ToggleStatus(ctx context.Context, id uint) (item jobapimodels.JobView, err error)
	Reorder(ctx context.Context, fromIndex, toIndex int) (list []jobapimodels.JobView, err error)
	PersistReorder(ctx context.Context, newOrder, previous []jobapimodels.JobView) error
	Delete(ctx context.Context, id uint) error
	Clear(ctx context.Context) error
}

// ReorderPersistError is returned when at least one order write failed,
// Snapshot holds the list to restore.
type ReorderPersistError = optimistic.PersistError[jobapimodels.JobView]

var Instance Provider

func NewHandler(tr transport.Provider) {
	Instance = NewInstance(db.DB, tr)
}

func NewInstance(DB *gorm.DB, tr transport.Provider) Provider {
	return impl{
		store:     jobstore.NewInstance(DB),
		transport: tr,
	}
}

type impl struct {
	store     jobstore.Provider
	transport transport.Provider
}

func (i impl) getLogger(id uint) *log.Entry {
	logger := log.WithField("operation", "job")
	if id != 0 {
		logger = logger.WithField("job_id", id)
	}
	return logger
}

func (i impl) List(ctx context.Context, filter jobapimodels.JobFilter) (list []jobapimodels.JobView, err error) {
	err = i.transport.Do(ctx, transport.Read("job.list"), func(ctx context.Context) error {
		recList, err := i.store.List(filter)
		if err != nil {
			return errors.Wrap(err, "failed to list jobs")
		}
		list = make([]jobapimodels.JobView, 0, len(recList))
		for _, rec := range recList {
			list = append(list, convert(rec))
		}
		return nil
	})
	return list, err
}

func (i impl) GetByID(ctx context.Context, id uint) (item jobapimodels.JobView, err error) {
	err = i.transport.Do(ctx, transport.Read("job.get"), func(ctx context.Context) error {
		item, err = i.get(id)
		return err
	})
	return item, err
}

func (i impl) GetBySlug(ctx context.Context, slug string) (item jobapimodels.JobView, err error) {
	err = i.transport.Do(ctx, transport.Read("job.get_by_slug"), func(ctx context.Context) error {
		rec, err := i.store.GetBySlug(slug)
		if err != nil {
			return errors.Wrap(err, "failed to get job")
		}
		if rec == nil {
			return models.NewNotFound("job %q not found", slug)
		}
		item = convert(*rec)
		return nil
	})
	return item, err
}

func (i impl) Create(ctx context.Context, data jobapimodels.JobData) (item jobapimodels.JobView, err error) {
	if err = data.Validate(); err != nil {
		return item, err
	}
	err = i.transport.Do(ctx, transport.Mutation("job.create"), func(ctx context.Context) error {
		rec := dbmodels.Job{
			Title:        helpers.PlainText(data.Title),
			Description:  strings.TrimSpace(data.Description),
			Location:     helpers.PlainText(data.Location),
			JobType:      helpers.PlainText(data.JobType),
			Requirements: strings.TrimSpace(data.Requirements),
			Tags:         normalizeTags(data.Tags),
			Slug:         data.Slug,
			Status:       data.Status,
		}
		if rec.JobType == "" {
			rec.JobType = models.DefaultJobType
		}
		if rec.Status == "" {
			rec.Status = models.JobStatusOpen
		}
		if rec.Slug == "" {
			rec.Slug = newSlug(rec.Title)
		}
		if data.Order != nil {
			rec.Order = *data.Order
		} else {
			maxOrder, exist, err := i.store.MaxOrder()
			if err != nil {
				return errors.Wrap(err, "failed to get last job order")
			}
			if exist {
				rec.Order = maxOrder + 1
			}
		}
		id, err := i.store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "failed to create job")
		}
		item, err = i.get(id)
		return err
	})
	if err != nil {
		return item, err
	}
	i.getLogger(item.ID).WithField("slug", item.Slug).Info("job created")
	return item, nil
}

func (i impl) Update(ctx context.Context, id uint, data jobapimodels.JobUpdate) (item jobapimodels.JobView, err error) {
	if err = data.Validate(); err != nil {
		return item, err
	}
	err = i.transport.Do(ctx, transport.Mutation("job.update"), func(ctx context.Context) error {
		updMap := map[string]interface{}{}
		if data.Title != nil {
			updMap["title"] = helpers.PlainText(*data.Title)
		}
		if data.Description != nil {
			updMap["description"] = strings.TrimSpace(*data.Description)
		}
		if data.Location != nil {
			updMap["location"] = helpers.PlainText(*data.Location)
		}
		if data.JobType != nil {
			updMap["job_type"] = helpers.PlainText(*data.JobType)
		}
		if data.Requirements != nil {
			updMap["requirements"] = strings.TrimSpace(*data.Requirements)
		}
		if data.Tags != nil {
			updMap["tags"] = normalizeTags(*data.Tags)
		}
		if data.Status != nil {
			updMap["status"] = *data.Status
		}
		if data.Order != nil {
			updMap["sort_order"] = *data.Order
		}
		if err := i.store.Update(id, updMap); err != nil {
			return errors.Wrap(err, "failed to update job")
		}
		item, err = i.get(id)
		return err
	})
	if err != nil {
		return item, err
	}
	i.getLogger(id).Info("job updated")
	return item, nil
}

func (i impl) SetOrder(ctx context.Context, id uint, order int) error {
	return i.transport.Do(ctx, transport.Mutation("job.set_order"), func(ctx context.Context) error {
		return i.setOrder(id, order)
	})
}

func (i impl) SetStatus(ctx context.Context, id uint, status models.JobStatus) error {
	if !status.IsValid() {
		return errors.Wrapf(models.ErrUnknownJobStatus, "%q", status)
	}
	err := i.transport.Do(ctx, transport.Mutation("job.set_status"), func(ctx context.Context) error {
		err := i.store.Update(id, map[string]interface{}{"status": status})
		if err != nil {
			return errors.Wrap(err, "failed to set job status")
		}
		return nil
	})
	if err != nil {
		return err
	}
	i.getLogger(id).WithField("status", status).Info("job status changed")
	return nil
}

func (i impl) ToggleStatus(ctx context.Context, id uint) (item jobapimodels.JobView, err error) {
	item, err = i.GetByID(ctx, id)
	if err != nil {
		return item, err
	}
	status := item.Status.Toggle()
	if err = i.SetStatus(ctx, id, status); err != nil {
		return item, err
	}
	item.Status = status
	return item, nil
}

// Reorder moves the job at fromIndex of the order-sorted list to toIndex and persists all positions.
func (i impl) Reorder(ctx context.Context, fromIndex, toIndex int) (list []jobapimodels.JobView, err error) {
	previous, err := i.List(ctx, jobapimodels.JobFilter{})
	if err != nil {
		return nil, err
	}
	list, err = moveJob(previous, fromIndex, toIndex)
	if err != nil {
		return nil, err
	}
	if err = i.PersistReorder(ctx, list, previous); err != nil {
		return nil, err
	}
	return list, nil
}

// PersistReorder writes position as order for every job. The writes are independent,
// a failure may leave some of them applied.
func (i impl) PersistReorder(ctx context.Context, newOrder, previous []jobapimodels.JobView) error {
	err := i.transport.Do(ctx, transport.Batch("job.reorder"), func(ctx context.Context) error {
		var g errgroup.Group
		for idx, job := range newOrder {
			idx, id := idx, job.ID
			g.Go(func() error {
				return i.setOrder(id, idx)
			})
		}
		return g.Wait()
	})
	if err != nil {
		i.getLogger(0).WithError(err).Warn("job reorder failed, previous order must be restored")
		return optimistic.Commit(previous, err)
	}
	i.getLogger(0).WithField("count", len(newOrder)).Info("jobs reordered")
	return nil
}

func (i impl) Delete(ctx context.Context, id uint) error {
	err := i.transport.Do(ctx, transport.Mutation("job.delete"), func(ctx context.Context) error {
		if err := i.store.Delete(id); err != nil {
			return errors.Wrap(err, "failed to delete job")
		}
		return nil
	})
	if err != nil {
		return err
	}
	i.getLogger(id).Info("job deleted")
	return nil
}

func (i impl) Clear(ctx context.Context) error {
	return i.transport.Do(ctx, transport.Mutation("job.clear").WithoutErrors(), func(ctx context.Context) error {
		if err := i.store.Clear(); err != nil {
			return errors.Wrap(err, "failed to clear jobs")
		}
		i.getLogger(0).Info("jobs cleared")
		return nil
	})
}

func (i impl) get(id uint) (item jobapimodels.JobView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return item, errors.Wrap(err, "failed to get job")
	}
	if rec == nil {
		return item, models.NewNotFound("job %v not found", id)
	}
	return convert(*rec), nil
}

func (i impl) setOrder(id uint, order int) error {
	err := i.store.Update(id, map[string]interface{}{"sort_order": order})
	if err != nil {
		return errors.Wrapf(err, "failed to set order of job %v", id)
	}
	return nil
}

// moveJob splices the list and renumbers order by position.
func moveJob(list []jobapimodels.JobView, fromIndex, toIndex int) ([]jobapimodels.JobView, error) {
	result, err := optimistic.Move(list, fromIndex, toIndex)
	if err != nil {
		return nil, err
	}
	for idx := range result {
		result[idx].Order = idx
	}
	return result, nil
}

func convert(rec dbmodels.Job) jobapimodels.JobView {
	view := jobapimodels.JobConvert(rec)
	view.DescriptionHTML = helpers.MarkdownToHTML(rec.Description)
	return view
}

func newSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "job"
	}
	return base + "-" + uuid.NewString()[:4]
}

func normalizeTags(tags []string) dbmodels.JobTags {
	result := dbmodels.JobTags{}
	for _, tag := range tags {
		tag = helpers.PlainText(tag)
		if tag != "" {
			result = append(result, tag)
		}
	}
	return result
}
