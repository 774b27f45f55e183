package jobstore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"talentflow-backend/lib/utils/helpers"
	"talentflow-backend/models"
	jobapimodels "talentflow-backend/models/api/job"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Job) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Job, err error)
	GetBySlug(slug string) (rec *dbmodels.Job, err error)
	Update(id uint, updMap map[string]interface{}) error
	Delete(id uint) error
	List(filter jobapimodels.JobFilter) (list []dbmodels.Job, err error)
	Count(status models.JobStatus) (count int64, err error)
	MaxOrder() (order int, exist bool, err error)
	Clear() error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Job) (id uint, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Job, error) {
	rec := dbmodels.Job{}
	err := i.db.
		Model(&dbmodels.Job{}).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetBySlug(slug string) (*dbmodels.Job, error) {
	rec := dbmodels.Job{}
	err := i.db.
		Model(&dbmodels.Job{}).
		Where("slug = ?", slug).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NewNotFound("job %v not found", id)
	}
	return nil
}

func (i impl) Delete(id uint) error {
	tx := i.db.Delete(&dbmodels.Job{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NewNotFound("job %v not found", id)
	}
	return nil
}

func (i impl) List(filter jobapimodels.JobFilter) (list []dbmodels.Job, err error) {
	list = []dbmodels.Job{}
	tx := i.db.Model(&dbmodels.Job{})
	if strings.TrimSpace(filter.Search) != "" {
		pattern := helpers.LikePattern(filter.Search)
		tx = tx.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(slug) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	err = tx.
		Order("sort_order asc").
		Order("id asc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Count returns all jobs when status is empty.
func (i impl) Count(status models.JobStatus) (count int64, err error) {
	tx := i.db.Model(&dbmodels.Job{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err = tx.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) MaxOrder() (order int, exist bool, err error) {
	var result struct {
		MaxOrder *int
	}
	err = i.db.
		Model(&dbmodels.Job{}).
		Select("MAX(sort_order) as max_order").
		Scan(&result).
		Error
	if err != nil {
		return 0, false, err
	}
	if result.MaxOrder == nil {
		return 0, false, nil
	}
	return *result.MaxOrder, true, nil
}

func (i impl) Clear() error {
	return i.db.
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&dbmodels.Job{}).
		Error
}
