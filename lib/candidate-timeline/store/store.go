package timelinestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TimelineEvent) (id uint, err error)
	List(candidateID uint) (list []dbmodels.TimelineEvent, err error)
	Last(candidateID uint) (rec *dbmodels.TimelineEvent, err error)
	DeleteByCandidate(candidateID uint) error
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

func (i impl) Create(rec dbmodels.TimelineEvent) (id uint, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// List is ascending by timestamp.
func (i impl) List(candidateID uint) (list []dbmodels.TimelineEvent, err error) {
	list = []dbmodels.TimelineEvent{}
	err = i.db.
		Model(&dbmodels.TimelineEvent{}).
		Where("candidate_id = ?", candidateID).
		Order("timestamp asc").
		Order("id asc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Last(candidateID uint) (*dbmodels.TimelineEvent, error) {
	rec := dbmodels.TimelineEvent{}
	err := i.db.
		Model(&dbmodels.TimelineEvent{}).
		Where("candidate_id = ?", candidateID).
		Order("timestamp desc").
		Order("id desc").
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

func (i impl) DeleteByCandidate(candidateID uint) error {
	return i.db.
		Where("candidate_id = ?", candidateID).
		Delete(&dbmodels.TimelineEvent{}).
		Error
}

func (i impl) Clear() error {
	return i.db.
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&dbmodels.TimelineEvent{}).
		Error
}
