package jobapimodels

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"talentflow-backend/models"
	dbmodels "talentflow-backend/models/db"
)

type JobData struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Location     string           `json:"location"`
	JobType      string           `json:"jobType"`
	Requirements string           `json:"requirements"`
	Tags         []string         `json:"tags"`
	Slug         string           `json:"slug,omitempty"` // generated from title when empty
	Status       models.JobStatus `json:"status"`
	Order        *int             `json:"order,omitempty"` // appended to the end when empty
}

func (j JobData) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return errors.New("title is required")
	}
	if j.Status != "" && !j.Status.IsValid() {
		return errors.Wrapf(models.ErrUnknownJobStatus, "%q", j.Status)
	}
	if j.Order != nil && *j.Order < 0 {
		return errors.New("order must not be negative")
	}
	if j.Slug != "" && !slug.IsSlug(j.Slug) {
		return errors.Errorf("invalid slug %q", j.Slug)
	}
	return nil
}

// JobUpdate is a partial update, nil fields are left untouched.
type JobUpdate struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Location     *string           `json:"location"`
	JobType      *string           `json:"jobType"`
	Requirements *string           `json:"requirements"`
	Tags         *[]string         `json:"tags"`
	Status       *models.JobStatus `json:"status"`
	Order        *int              `json:"order"`
}

func (j JobUpdate) Validate() error {
	if j.Title != nil && strings.TrimSpace(*j.Title) == "" {
		return errors.New("title must not be empty")
	}
	if j.Status != nil && !j.Status.IsValid() {
		return errors.Wrapf(models.ErrUnknownJobStatus, "%q", *j.Status)
	}
	if j.Order != nil && *j.Order < 0 {
		return errors.New("order must not be negative")
	}
	return nil
}

type JobFilter struct {
	Search string           `json:"search" query:"search"` // substring of title or slug
	Status models.JobStatus `json:"status" query:"status"`
}

type ReorderRequest struct {
	FromIndex int `json:"fromIndex"`
	ToIndex   int `json:"toIndex"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type JobView struct {
	ID              uint             `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	DescriptionHTML string           `json:"descriptionHtml"`
	Location        string           `json:"location"`
	JobType         string           `json:"jobType"`
	Requirements    string           `json:"requirements"`
	Tags            []string         `json:"tags"`
	Slug            string           `json:"slug"`
	Status          models.JobStatus `json:"status"`
	Order           int              `json:"order"`
	CreatedAt       time.Time        `json:"createdAt"`
}

func JobConvert(rec dbmodels.Job) JobView {
	tags := []string(rec.Tags)
	if tags == nil {
		tags = []string{}
	}
	return JobView{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		Location:     rec.Location,
		JobType:      rec.JobType,
		Requirements: rec.Requirements,
		Tags:         tags,
		Slug:         rec.Slug,
		Status:       rec.Status,
		Order:        rec.Order,
		CreatedAt:    rec.CreatedAt,
	}
}
