package notestore

import (
	"gorm.io/gorm"
	"talentflow-backend/models"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Note) (id uint, err error)
	List(candidateID uint) (list []dbmodels.Note, err error)
	Delete(candidateID, id uint) error
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

func (i impl) Create(rec dbmodels.Note) (id uint, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) List(candidateID uint) (list []dbmodels.Note, err error) {
	list = []dbmodels.Note{}
	err = i.db.
		Model(&dbmodels.Note{}).
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

func (i impl) Delete(candidateID, id uint) error {
	tx := i.db.
		Where("candidate_id = ?", candidateID).
		Where("id = ?", id).
		Delete(&dbmodels.Note{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NewNotFound("note %v not found", id)
	}
	return nil
}

func (i impl) DeleteByCandidate(candidateID uint) error {
	return i.db.
		Where("candidate_id = ?", candidateID).
		Delete(&dbmodels.Note{}).
		Error
}

func (i impl) Clear() error {
	return i.db.
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&dbmodels.Note{}).
		Error
}
