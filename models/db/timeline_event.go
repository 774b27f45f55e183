package dbmodels

import (
	"talentflow-backend/models"
	"time"
)

// TimelineEvent is append-only, one record per stage change.
type TimelineEvent struct {
	ID          uint                  `gorm:"primaryKey"`
	CandidateID uint                  `gorm:"index:idx_timeline_candidate"`
	Stage       models.CandidateStage `gorm:"type:varchar(50)"`
	Timestamp   time.Time             `gorm:"index:idx_timeline_candidate"`
}
