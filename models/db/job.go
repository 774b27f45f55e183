package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"talentflow-backend/models"
)

type Job struct {
	BaseModel
	Title        string `gorm:"type:varchar(255)"`
	Description  string
	Location     string `gorm:"type:varchar(255)"`
	JobType      string `gorm:"type:varchar(100)"`
	Requirements string
	Tags         JobTags          `gorm:"type:text"`
	Slug         string           `gorm:"type:varchar(255);uniqueIndex"`
	Status       models.JobStatus `gorm:"type:varchar(50);index"`
	Order        int              `gorm:"column:sort_order;index"` // display rank, not unique
}

type JobTags []string

func (j JobTags) Value() (driver.Value, error) {
	if j == nil {
		j = JobTags{}
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *JobTags) Scan(value interface{}) error {
	return scanJSON(value, j)
}
