package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"talentflow-backend/models"
	"time"
)

type Response struct {
	BaseModel
	JobID       uint            `gorm:"index:idx_response_job_candidate"`
	CandidateID uint            `gorm:"index:idx_response_job_candidate;index"`
	Answers     ResponseAnswers `gorm:"type:text"`
	SubmittedAt time.Time
	SyncStatus  models.SyncStatus `gorm:"type:varchar(20);index"`
}

// ResponseAnswers maps question id to the raw answer (string, number or list).
type ResponseAnswers map[string]interface{}

func (j ResponseAnswers) Value() (driver.Value, error) {
	if j == nil {
		j = ResponseAnswers{}
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *ResponseAnswers) Scan(value interface{}) error {
	return scanJSON(value, j)
}
