package assessment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"talentflow-backend/db"
	assessmentstore "talentflow-backend/lib/assessment/assessment-store"
	responsestore "talentflow-backend/lib/assessment/response-store"
	candidatestore "talentflow-backend/lib/candidate/store"
	pdfexport "talentflow-backend/lib/export/pdf"
	"talentflow-backend/lib/transport"
	"talentflow-backend/models"
	assessmentapimodels "talentflow-backend/models/api/assessment"
	candidateapimodels "talentflow-backend/models/api/candidate"
	dbmodels "talentflow-backend/models/db"
)

var ErrInvalidImport = errors.New("invalid assessments import")

// ValidationError holds question id -> message for a rejected submission.
type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	return "assessment response is invalid"
}

func IsValidationError(err error) (ValidationError, bool) {
	var target ValidationError
	ok := errors.As(err, &target)
	return target, ok
}

type Provider interface {
	Get(ctx context.Context, jobID uint) (item assessmentapimodels.AssessmentView, err error)
	List(ctx context.Context) (list []assessmentapimodels.AssessmentView, err error)
	// Save replaces the assessment of the job, created date is kept.
	Save(ctx context.Context, jobID uint, data assessmentapimodels.AssessmentData) (item assessmentapimodels.AssessmentView, err error)
	Delete(ctx context.Context, jobID uint) error
	Export(ctx context.Context) (body []byte, err error)
	Import(ctx context.Context, body []byte) (count int, err error)
	SubmitResponse(ctx context.Context, jobID, candidateID uint, answers map[string]interface{}) (result assessmentapimodels.SubmitResult, err error)
	GetResponse(ctx context.Context, jobID, id uint) (item assessmentapimodels.ResponseView, err error)
	ListResponses(ctx context.Context, jobID uint) (list []assessmentapimodels.ResponseView, err error)
	ListCandidateResponses(ctx context.Context, candidateID uint) (list []assessmentapimodels.ResponseView, err error)
	PendingResponses(ctx context.Context) (list []assessmentapimodels.ResponseView, err error)
	MarkResponseSynced(ctx context.Context, id uint) error
	ResponseReportPdf(ctx context.Context, jobID, id uint) (body []byte, err error)
	Clear(ctx context.Context) error
}

var Instance Provider

func NewHandler(tr transport.Provider) {
	Instance = NewInstance(db.DB, tr)
}

func NewInstance(DB *gorm.DB, tr transport.Provider) Provider {
	return impl{
		db:             DB,
		store:          assessmentstore.NewInstance(DB),
		responseStore:  responsestore.NewInstance(DB),
		candidateStore: candidatestore.NewInstance(DB),
		transport:      tr,
		now:            time.Now,
	}
}

type impl struct {
	db             *gorm.DB
	store          assessmentstore.Provider
	responseStore  responsestore.Provider
	candidateStore candidatestore.Provider
	transport      transport.Provider
	now            func() time.Time
}

func (i impl) Get(ctx context.Context, jobID uint) (item assessmentapimodels.AssessmentView, err error) {
	err = i.transport.Do(ctx, transport.Read("assessment.get"), func(ctx context.Context) error {
		rec, err := i.get(jobID)
		if err != nil {
			return err
		}
		item = assessmentapimodels.AssessmentConvert(*rec)
		return nil
	})
	return item, err
}

func (i impl) List(ctx context.Context) (list []assessmentapimodels.AssessmentView, err error) {
	err = i.transport.Do(ctx, transport.Read("assessment.list"), func(ctx context.Context) error {
		list, err = i.list()
		return err
	})
	return list, err
}

func (i impl) Save(ctx context.Context, jobID uint, data assessmentapimodels.AssessmentData) (item assessmentapimodels.AssessmentView, err error) {
	if err = data.Validate(); err != nil {
		return item, err
	}
	err = i.transport.Do(ctx, transport.Mutation("assessment.save"), func(ctx context.Context) error {
		if err := i.save(i.store, jobID, data); err != nil {
			return err
		}
		rec, err := i.get(jobID)
		if err != nil {
			return err
		}
		item = assessmentapimodels.AssessmentConvert(*rec)
		return nil
	})
	if err != nil {
		return item, err
	}
	log.WithField("job_id", jobID).Info("assessment saved")
	return item, nil
}

func (i impl) Delete(ctx context.Context, jobID uint) error {
	err := i.transport.Do(ctx, transport.Mutation("assessment.delete"), func(ctx context.Context) error {
		return i.store.Delete(jobID)
	})
	if err != nil {
		return err
	}
	log.WithField("job_id", jobID).Info("assessment deleted")
	return nil
}

func (i impl) Export(ctx context.Context) (body []byte, err error) {
	err = i.transport.Do(ctx, transport.Read("assessment.export"), func(ctx context.Context) error {
		list, err := i.list()
		if err != nil {
			return err
		}
		body, err = json.MarshalIndent(list, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode assessments")
		}
		return nil
	})
	return body, err
}

// Import accepts the Export format and upserts every assessment in one transaction.
func (i impl) Import(ctx context.Context, body []byte) (count int, err error) {
	list := []assessmentapimodels.AssessmentView{}
	if err = json.Unmarshal(body, &list); err != nil {
		return 0, errors.Wrapf(ErrInvalidImport, "%v", err)
	}
	for _, item := range list {
		if item.JobID == 0 {
			return 0, errors.Wrap(ErrInvalidImport, "assessment without jobId")
		}
		data := assessmentapimodels.AssessmentData{Title: item.Title, Sections: item.Sections}
		if err = data.Validate(); err != nil {
			return 0, errors.Wrapf(ErrInvalidImport, "assessment of job %v: %v", item.JobID, err)
		}
	}
	err = i.transport.Do(ctx, transport.Mutation("assessment.import"), func(ctx context.Context) error {
		return i.db.Transaction(func(tx *gorm.DB) error {
			store := assessmentstore.NewInstance(tx)
			for _, item := range list {
				data := assessmentapimodels.AssessmentData{Title: item.Title, Sections: item.Sections}
				if err := i.save(store, item.JobID, data); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	log.WithField("count", len(list)).Info("assessments imported")
	return len(list), nil
}

func (i impl) SubmitResponse(ctx context.Context, jobID, candidateID uint, answers map[string]interface{}) (result assessmentapimodels.SubmitResult, err error) {
	logger := log.WithField("job_id", jobID).WithField("candidate_id", candidateID)
	err = i.transport.Do(ctx, transport.Mutation("assessment.submit"), func(ctx context.Context) error {
		rec, err := i.get(jobID)
		if err != nil {
			return err
		}
		candidateRec, err := i.candidateStore.GetByID(candidateID)
		if err != nil {
			return errors.Wrap(err, "failed to get candidate")
		}
		if candidateRec == nil {
			return models.NewNotFound("candidate %v not found", candidateID)
		}
		if errs := Validate(*rec, answers); len(errs) > 0 {
			return ValidationError{Errors: errs}
		}
		stored := dbmodels.ResponseAnswers{}
		for key, value := range answers {
			stored[key] = value
		}
		id, err := i.responseStore.Create(dbmodels.Response{
			JobID:       jobID,
			CandidateID: candidateID,
			Answers:     stored,
			SubmittedAt: i.now().UTC(),
			SyncStatus:  models.SyncStatusLocal,
		})
		if err != nil {
			return errors.Wrap(err, "failed to save response")
		}
		result = assessmentapimodels.SubmitResult{Success: true, JobID: jobID, ResponseID: id}
		return nil
	})
	if err != nil {
		if validationErr, ok := IsValidationError(err); ok {
			logger.WithField("errors", validationErr.Errors).Info("assessment response rejected")
		}
		return result, err
	}
	logger.WithField("response_id", result.ResponseID).Info("assessment response submitted")
	return result, nil
}

func (i impl) GetResponse(ctx context.Context, jobID, id uint) (item assessmentapimodels.ResponseView, err error) {
	err = i.transport.Do(ctx, transport.Read("response.get"), func(ctx context.Context) error {
		rec, err := i.responseStore.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "failed to get response")
		}
		if rec == nil || rec.JobID != jobID {
			return models.NewNotFound("response %v not found for jobId %v", id, jobID)
		}
		item = assessmentapimodels.ResponseConvert(*rec)
		return nil
	})
	return item, err
}

func (i impl) ListResponses(ctx context.Context, jobID uint) (list []assessmentapimodels.ResponseView, err error) {
	err = i.transport.Do(ctx, transport.Read("response.list"), func(ctx context.Context) error {
		list, err = convertResponses(i.responseStore.ListByJob(jobID))
		return err
	})
	return list, err
}

func (i impl) ListCandidateResponses(ctx context.Context, candidateID uint) (list []assessmentapimodels.ResponseView, err error) {
	err = i.transport.Do(ctx, transport.Read("response.list_by_candidate"), func(ctx context.Context) error {
		list, err = convertResponses(i.responseStore.ListByCandidate(candidateID))
		return err
	})
	return list, err
}

// PendingResponses lists responses never marked as synced.
func (i impl) PendingResponses(ctx context.Context) (list []assessmentapimodels.ResponseView, err error) {
	err = i.transport.Do(ctx, transport.Read("response.pending"), func(ctx context.Context) error {
		list, err = convertResponses(i.responseStore.ListBySyncStatus(models.SyncStatusLocal))
		return err
	})
	return list, err
}

// MarkResponseSynced only flips the local flag, nothing is sent anywhere.
func (i impl) MarkResponseSynced(ctx context.Context, id uint) error {
	return i.transport.Do(ctx, transport.Mutation("response.mark_synced"), func(ctx context.Context) error {
		return i.responseStore.SetSyncStatus(id, models.SyncStatusSynced)
	})
}

func (i impl) ResponseReportPdf(ctx context.Context, jobID, id uint) (body []byte, err error) {
	err = i.transport.Do(ctx, transport.Read("response.report"), func(ctx context.Context) error {
		rec, err := i.get(jobID)
		if err != nil {
			return err
		}
		responseRec, err := i.responseStore.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "failed to get response")
		}
		if responseRec == nil || responseRec.JobID != jobID {
			return models.NewNotFound("response %v not found for jobId %v", id, jobID)
		}
		candidate := candidateapimodels.CandidateView{ID: responseRec.CandidateID}
		candidateRec, err := i.candidateStore.GetByID(responseRec.CandidateID)
		if err != nil {
			return errors.Wrap(err, "failed to get candidate")
		}
		if candidateRec != nil {
			candidate = candidateapimodels.CandidateConvert(*candidateRec)
		}
		body, err = pdfexport.GenerateResponseReport(
			assessmentapimodels.AssessmentConvert(*rec),
			assessmentapimodels.ResponseConvert(*responseRec),
			candidate)
		if err != nil {
			return errors.Wrap(err, "failed to render response report")
		}
		return nil
	})
	return body, err
}

func (i impl) Clear(ctx context.Context) error {
	return i.transport.Do(ctx, transport.Mutation("assessment.clear").WithoutErrors(), func(ctx context.Context) error {
		return i.db.Transaction(func(tx *gorm.DB) error {
			if err := responsestore.NewInstance(tx).Clear(); err != nil {
				return errors.Wrap(err, "failed to clear responses")
			}
			if err := assessmentstore.NewInstance(tx).Clear(); err != nil {
				return errors.Wrap(err, "failed to clear assessments")
			}
			return nil
		})
	})
}

func (i impl) get(jobID uint) (*dbmodels.Assessment, error) {
	rec, err := i.store.GetByJobID(jobID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get assessment")
	}
	if rec == nil {
		return nil, models.NewNotFound("Assessment not found for jobId %v", jobID)
	}
	return rec, nil
}

func (i impl) list() ([]assessmentapimodels.AssessmentView, error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assessments")
	}
	result := make([]assessmentapimodels.AssessmentView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, assessmentapimodels.AssessmentConvert(rec))
	}
	return result, nil
}

func (i impl) save(store assessmentstore.Provider, jobID uint, data assessmentapimodels.AssessmentData) error {
	title := strings.TrimSpace(data.Title)
	if title == "" {
		title = "Assessment"
	}
	now := i.now().UTC()
	err := store.Save(dbmodels.Assessment{
		JobID:     jobID,
		Title:     title,
		Sections:  data.Sections,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return errors.Wrap(err, "failed to save assessment")
	}
	return nil
}

func convertResponses(recList []dbmodels.Response, err error) ([]assessmentapimodels.ResponseView, error) {
	if err != nil {
		return nil, errors.Wrap(err, "failed to list responses")
	}
	result := make([]assessmentapimodels.ResponseView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, assessmentapimodels.ResponseConvert(rec))
	}
	return result, nil
}
