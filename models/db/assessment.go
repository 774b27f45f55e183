package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"talentflow-backend/models"
	"time"
)

// Assessment is keyed by job, one per job.
type Assessment struct {
	JobID     uint               `gorm:"primaryKey;autoIncrement:false"`
	Title     string             `gorm:"type:varchar(255)"`
	Sections  AssessmentSections `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (j AssessmentSections) Value() (driver.Value, error) {
	if j == nil {
		j = AssessmentSections{}
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *AssessmentSections) Scan(value interface{}) error {
	return scanJSON(value, j)
}

type AssessmentSections []AssessmentSection

type AssessmentSection struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Questions []AssessmentQuestion `json:"questions"`
}

type AssessmentQuestion struct {
	ID         string              `json:"id"`
	Text       string              `json:"text"`
	Type       models.QuestionType `json:"type"`
	Options    QuestionOptions     `json:"options"` // only for choice types
	Required   bool                `json:"required"`
	Validation *QuestionValidation `json:"validation,omitempty"`
	Condition  json.RawMessage     `json:"condition"` // reserved for conditional visibility, always null
}

type QuestionValidation struct {
	MaxLength *int     `json:"maxLength,omitempty"` // text types
	Min       *float64 `json:"min,omitempty"`       // numeric
	Max       *float64 `json:"max,omitempty"`       // numeric
}

// Questions flattens all sections keeping their order.
func (a Assessment) Questions() []AssessmentQuestion {
	result := []AssessmentQuestion{}
	for _, section := range a.Sections {
		result = append(result, section.Questions...)
	}
	return result
}

type QuestionOptions []string

// UnmarshalJSON accepts both ["A","B"] and [{"id":"a","label":"A"}].
func (o *QuestionOptions) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make(QuestionOptions, 0, len(raw))
	for _, item := range raw {
		var label string
		if err := json.Unmarshal(item, &label); err == nil {
			result = append(result, label)
			continue
		}
		var labeled struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		}
		if err := json.Unmarshal(item, &labeled); err != nil {
			return err
		}
		if labeled.Label == "" {
			labeled.Label = labeled.ID
		}
		result = append(result, labeled.Label)
	}
	*o = result
	return nil
}
