package candidatestore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"talentflow-backend/lib/utils/helpers"
	"talentflow-backend/models"
	candidateapimodels "talentflow-backend/models/api/candidate"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Candidate) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Candidate, err error)
	Update(id uint, updMap map[string]interface{}) error
	Delete(id uint) error
	ListCount(filter candidateapimodels.CandidateFilter) (count int64, err error)
	List(filter candidateapimodels.CandidateFilter) (list []dbmodels.Candidate, err error)
	ListAll(filter candidateapimodels.CandidateFilter) (list []dbmodels.Candidate, err error)
	CountByStage() (result map[models.CandidateStage]int64, err error)
	CountByJob() (result map[uint]int64, err error)
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

func (i impl) Create(rec dbmodels.Candidate) (id uint, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
	err := i.db.
		Model(&dbmodels.Candidate{}).
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

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NewNotFound("candidate %v not found", id)
	}
	return nil
}

func (i impl) Delete(id uint) error {
	tx := i.db.Delete(&dbmodels.Candidate{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NewNotFound("candidate %v not found", id)
	}
	return nil
}

func (i impl) ListCount(filter candidateapimodels.CandidateFilter) (count int64, err error) {
	tx := i.db.Model(&dbmodels.Candidate{})
	tx = i.addFilter(tx, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) List(filter candidateapimodels.CandidateFilter) (list []dbmodels.Candidate, err error) {
	list = []dbmodels.Candidate{}
	tx := i.db.Model(&dbmodels.Candidate{})
	tx = i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	tx = i.setPage(tx, page, limit)
	err = tx.Order("id asc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListAll(filter candidateapimodels.CandidateFilter) (list []dbmodels.Candidate, err error) {
	list = []dbmodels.Candidate{}
	tx := i.db.Model(&dbmodels.Candidate{})
	tx = i.addFilter(tx, filter)
	err = tx.Order("id asc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByStage() (result map[models.CandidateStage]int64, err error) {
	var rows []struct {
		Stage models.CandidateStage
		Count int64
	}
	err = i.db.
		Model(&dbmodels.Candidate{}).
		Select("stage, COUNT(*) as count").
		Group("stage").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result = map[models.CandidateStage]int64{}
	for _, row := range rows {
		result[row.Stage] = row.Count
	}
	return result, nil
}

func (i impl) CountByJob() (result map[uint]int64, err error) {
	var rows []struct {
		JobID uint
		Count int64
	}
	err = i.db.
		Model(&dbmodels.Candidate{}).
		Select("job_id, COUNT(*) as count").
		Group("job_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result = map[uint]int64{}
	for _, row := range rows {
		result[row.JobID] = row.Count
	}
	return result, nil
}

func (i impl) Clear() error {
	return i.db.
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&dbmodels.Candidate{}).
		Error
}

func (i impl) addFilter(tx *gorm.DB, filter candidateapimodels.CandidateFilter) *gorm.DB {
	if strings.TrimSpace(filter.Search) != "" {
		pattern := helpers.LikePattern(filter.Search)
		tx = tx.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if stage := strings.ToLower(strings.TrimSpace(filter.Stage)); stage != "" {
		tx = tx.Where("LOWER(stage) = ?", stage)
	}
	return tx
}

func (i impl) setPage(tx *gorm.DB, page, limit int) *gorm.DB {
	offset := (page - 1) * limit
	return tx.Limit(limit).Offset(offset)
}
