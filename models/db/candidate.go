package dbmodels

import "talentflow-backend/models"

type Candidate struct {
	BaseModel
	Name     string                `gorm:"type:varchar(255)"`
	Email    string                `gorm:"type:varchar(255)"`
	JobID    uint                  `gorm:"index"` // weak reference, no cascade
	JobTitle string                `gorm:"type:varchar(255)"` // snapshot of Job.Title taken at assignment, never resynced
	Stage    models.CandidateStage `gorm:"type:varchar(50);index"`
}
