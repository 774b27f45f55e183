package responsestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"talentflow-backend/models"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Response) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Response, err error)
	ListByJob(jobID uint) (list []dbmodels.Response, err error)
	ListByCandidate(candidateID uint) (list []dbmodels.Response, err error)
	ListBySyncStatus(status models.SyncStatus) (list []dbmodels.Response, err error)
	SetSyncStatus(id uint, status models.SyncStatus) error
	Count() (count int64, err error)
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

func (i impl) Create(rec dbmodels.Response) (id uint, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Response, error) {
	rec := dbmodels.Response{}
	err := i.db.
		Model(&dbmodels.Response{}).
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

func (i impl) ListByJob(jobID uint) (list []dbmodels.Response, err error) {
	return i.list(i.db.Where("job_id = ?", jobID))
}

func (i impl) ListByCandidate(candidateID uint) (list []dbmodels.Response, err error) {
	return i.list(i.db.Where("candidate_id = ?", candidateID))
}

func (i impl) ListBySyncStatus(status models.SyncStatus) (list []dbmodels.Response, err error) {
	return i.list(i.db.Where("sync_status = ?", status))
}

func (i impl) SetSyncStatus(id uint, status models.SyncStatus) error {
	tx := i.db.
		Model(&dbmodels.Response{}).
		Where("id = ?", id).
		Update("sync_status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NewNotFound("response %v not found", id)
	}
	return nil
}

func (i impl) Count() (count int64, err error) {
	err = i.db.Model(&dbmodels.Response{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) Clear() error {
	return i.db.
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&dbmodels.Response{}).
		Error
}

func (i impl) list(tx *gorm.DB) (list []dbmodels.Response, err error) {
	list = []dbmodels.Response{}
	err = tx.
		Model(&dbmodels.Response{}).
		Order("submitted_at asc").
		Order("id asc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
