package assessmentstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"talentflow-backend/models"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	// Save inserts or replaces the assessment of rec.JobID.
	Save(rec dbmodels.Assessment) error
	GetByJobID(jobID uint) (rec *dbmodels.Assessment, err error)
	List() (list []dbmodels.Assessment, err error)
	Count() (count int64, err error)
	Delete(jobID uint) error
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

func (i impl) Save(rec dbmodels.Assessment) error {
	return i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "sections", "updated_at"}),
		}).
		Create(&rec).
		Error
}

func (i impl) GetByJobID(jobID uint) (*dbmodels.Assessment, error) {
	rec := dbmodels.Assessment{}
	err := i.db.
		Model(&dbmodels.Assessment{}).
		Where("job_id = ?", jobID).
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

func (i impl) List() (list []dbmodels.Assessment, err error) {
	list = []dbmodels.Assessment{}
	err = i.db.
		Model(&dbmodels.Assessment{}).
		Order("job_id asc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Count() (count int64, err error) {
	err = i.db.Model(&dbmodels.Assessment{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) Delete(jobID uint) error {
	tx := i.db.
		Where("job_id = ?", jobID).
		Delete(&dbmodels.Assessment{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NewNotFound("Assessment not found for jobId %v", jobID)
	}
	return nil
}

func (i impl) Clear() error {
	return i.db.
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&dbmodels.Assessment{}).
		Error
}
