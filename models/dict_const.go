package models

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownStage     = errors.New("unknown candidate stage")
	ErrUnknownJobStatus = errors.New("unknown job status")
)

type CandidateStage string

const (
	StageApplied   CandidateStage = "applied"
	StageScreening CandidateStage = "screening"
	StageTechnical CandidateStage = "technical"
	StageOffer     CandidateStage = "offer"
	StageHired     CandidateStage = "hired"
	StageRejected  CandidateStage = "rejected"
)

// CandidateStages is the pipeline in board order.
var CandidateStages = []CandidateStage{
	StageApplied,
	StageScreening,
	StageTechnical,
	StageOffer,
	StageHired,
	StageRejected,
}

var stageLabels = map[CandidateStage]string{
	StageApplied:   "Applied",
	StageScreening: "Screening",
	StageTechnical: "Technical",
	StageOffer:     "Offer",
	StageHired:     "Hired",
	StageRejected:  "Rejected",
}

func (s CandidateStage) IsValid() bool {
	_, ok := stageLabels[s]
	return ok
}

func (s CandidateStage) Label() string {
	return stageLabels[s]
}

// ParseStage accepts any letter case and surrounding spaces.
func ParseStage(value string) (CandidateStage, error) {
	stage := CandidateStage(strings.ToLower(strings.TrimSpace(value)))
	if !stage.IsValid() {
		return "", errors.Wrapf(ErrUnknownStage, "%q", value)
	}
	return stage, nil
}

type JobStatus string

const (
	JobStatusOpen   JobStatus = "Open"
	JobStatusClosed JobStatus = "Closed"
)

func (s JobStatus) IsValid() bool {
	return s == JobStatusOpen || s == JobStatusClosed
}

func (s JobStatus) Toggle() JobStatus {
	if s == JobStatusOpen {
		return JobStatusClosed
	}
	return JobStatusOpen
}

func ParseJobStatus(value string) (JobStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "open":
		return JobStatusOpen, nil
	case "closed":
		return JobStatusClosed, nil
	}
	return "", errors.Wrapf(ErrUnknownJobStatus, "%q", value)
}

const DefaultJobType = "Full-time"

type QuestionType string

const (
	QuestionShortText    QuestionType = "short-text"
	QuestionLongText     QuestionType = "long-text"
	QuestionSingleChoice QuestionType = "single-choice"
	QuestionMultiChoice  QuestionType = "multi-choice"
	QuestionNumeric      QuestionType = "numeric"
	QuestionFile         QuestionType = "file"
)

func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionSingleChoice, QuestionMultiChoice, QuestionNumeric, QuestionFile:
		return true
	}
	return false
}

func (t QuestionType) IsText() bool {
	return t == QuestionShortText || t == QuestionLongText
}

func (t QuestionType) IsChoice() bool {
	return t == QuestionSingleChoice || t == QuestionMultiChoice
}

// SyncStatus is a local stub, responses are never sent anywhere.
type SyncStatus string

const (
	SyncStatusLocal   SyncStatus = "local"
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSynced  SyncStatus = "synced"
)
