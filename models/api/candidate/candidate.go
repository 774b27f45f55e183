package candidateapimodels

import (
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"talentflow-backend/models"
	apimodels "talentflow-backend/models/api"
	dbmodels "talentflow-backend/models/db"
)

type CandidateData struct {
	Name  string                `json:"name"`
	Email string                `json:"email"`
	JobID uint                  `json:"jobId"`
	Stage models.CandidateStage `json:"stage"` // applied when empty
}

func (c CandidateData) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return errors.Errorf("invalid email %q", c.Email)
	}
	if c.Stage != "" {
		if _, err := models.ParseStage(string(c.Stage)); err != nil {
			return err
		}
	}
	return nil
}

type CandidateFilter struct {
	apimodels.Pagination
	Search string `json:"search" query:"search"` // substring of name or email, any case
	Stage  string `json:"stage" query:"stage"`   // exact stage, any case
}

type StageRequest struct {
	Stage string `json:"stage"`
}

type StageResponse struct {
	ID    string                `json:"id"`
	Stage models.CandidateStage `json:"stage"`
}

type NoteRequest struct {
	Content string `json:"content"`
}

func (n NoteRequest) Validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return errors.New("note content is required")
	}
	return nil
}

type CandidateView struct {
	ID        uint                  `json:"id"`
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	JobID     uint                  `json:"jobId"`
	JobTitle  string                `json:"jobTitle"`
	Stage     models.CandidateStage `json:"stage"`
	CreatedAt time.Time             `json:"createdAt"`
}

func CandidateConvert(rec dbmodels.Candidate) CandidateView {
	return CandidateView{
		ID:        rec.ID,
		Name:      rec.Name,
		Email:     rec.Email,
		JobID:     rec.JobID,
		JobTitle:  rec.JobTitle,
		Stage:     rec.Stage,
		CreatedAt: rec.CreatedAt,
	}
}

type TimelineView struct {
	ID          uint                  `json:"id"`
	CandidateID uint                  `json:"candidateId"`
	Stage       models.CandidateStage `json:"stage"`
	Timestamp   time.Time             `json:"timestamp"`
	Ago         string                `json:"ago"`
}

// MentionSegment is a piece of note text, Candidate is set for resolved @tokens.
type MentionSegment struct {
	Text      string         `json:"text"`
	Mention   bool           `json:"mention"`
	Candidate *CandidateView `json:"candidate,omitempty"`
}

type NoteView struct {
	ID          uint             `json:"id"`
	CandidateID uint             `json:"candidateId"`
	Content     string           `json:"content"`
	Timestamp   time.Time        `json:"timestamp"`
	Ago         string           `json:"ago"`
	Segments    []MentionSegment `json:"segments"`
}
