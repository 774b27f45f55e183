package assessmentapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"talentflow-backend/models"
	dbmodels "talentflow-backend/models/db"
)

type AssessmentData struct {
	Title    string                       `json:"title"`
	Sections []dbmodels.AssessmentSection `json:"sections"`
}

func (a AssessmentData) Validate() error {
	seen := map[string]bool{}
	for _, section := range a.Sections {
		for _, question := range section.Questions {
			if strings.TrimSpace(question.ID) == "" {
				return errors.Errorf("question without id in section %q", section.ID)
			}
			if seen[question.ID] {
				return errors.Errorf("duplicate question id %q", question.ID)
			}
			seen[question.ID] = true
			if !question.Type.IsValid() {
				return errors.Errorf("question %q has unknown type %q", question.ID, question.Type)
			}
			if question.Type.IsChoice() && len(question.Options) == 0 {
				return errors.Errorf("choice question %q has no options", question.ID)
			}
		}
	}
	return nil
}

type AssessmentView struct {
	JobID     uint                         `json:"jobId"`
	Title     string                       `json:"title"`
	Sections  []dbmodels.AssessmentSection `json:"sections"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
}

func AssessmentConvert(rec dbmodels.Assessment) AssessmentView {
	sections := []dbmodels.AssessmentSection(rec.Sections)
	if sections == nil {
		sections = []dbmodels.AssessmentSection{}
	}
	return AssessmentView{
		JobID:     rec.JobID,
		Title:     rec.Title,
		Sections:  sections,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

type SubmitRequest struct {
	CandidateID uint                   `json:"candidateId"`
	Answers     map[string]interface{} `json:"answers"`
}

func (s SubmitRequest) Validate() error {
	if s.CandidateID == 0 {
		return errors.New("candidateId is required")
	}
	return nil
}

type SubmitResult struct {
	Success    bool `json:"success"`
	JobID      uint `json:"jobId"`
	ResponseID uint `json:"responseId"`
}

type ImportResult struct {
	Imported int `json:"imported"`
}

type ResponseView struct {
	ID          uint                   `json:"id"`
	JobID       uint                   `json:"jobId"`
	CandidateID uint                   `json:"candidateId"`
	Answers     map[string]interface{} `json:"answers"`
	SubmittedAt time.Time              `json:"submittedAt"`
	SyncStatus  models.SyncStatus      `json:"syncStatus"`
}

func ResponseConvert(rec dbmodels.Response) ResponseView {
	answers := map[string]interface{}(rec.Answers)
	if answers == nil {
		answers = map[string]interface{}{}
	}
	return ResponseView{
		ID:          rec.ID,
		JobID:       rec.JobID,
		CandidateID: rec.CandidateID,
		Answers:     answers,
		SubmittedAt: rec.SubmittedAt,
		SyncStatus:  rec.SyncStatus,
	}
}
