package dbmodels

import "time"

type Note struct {
	ID          uint   `gorm:"primaryKey"`
	CandidateID uint   `gorm:"index"`
	Content     string // may contain @mentions, resolved on read
	Timestamp   time.Time
}
