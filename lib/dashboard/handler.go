package dashboard

import (
	"bytes"
	"context"

	"github.com/aclements/go-moremath/stats"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"talentflow-backend/db"
	assessmentstore "talentflow-backend/lib/assessment/assessment-store"
	responsestore "talentflow-backend/lib/assessment/response-store"
	"talentflow-backend/lib/candidate"
	candidatestore "talentflow-backend/lib/candidate/store"
	xlsexport "talentflow-backend/lib/export/xls"
	jobstore "talentflow-backend/lib/job/store"
	"talentflow-backend/lib/transport"
	initchecker "talentflow-backend/lib/utils/init-checker"
	"talentflow-backend/models"
	candidateapimodels "talentflow-backend/models/api/candidate"
	dashboardapimodels "talentflow-backend/models/api/dashboard"
	jobapimodels "talentflow-backend/models/api/job"
)

type Provider interface {
	Stats(ctx context.Context) (dashboardapimodels.Stats, error)
	CandidatesExportToXls(ctx context.Context, filter candidateapimodels.CandidateFilter) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler(tr transport.Provider) {
	initchecker.CheckInit(
		"candidateProvider", candidate.Instance,
		"xlsExport", xlsexport.Instance,
	)
	Instance = NewInstance(db.DB, tr, candidate.Instance, xlsexport.Instance)
}

func NewInstance(DB *gorm.DB, tr transport.Provider, candidateProvider candidate.Provider, xls xlsexport.Provider) Provider {
	return impl{
		jobStore:          jobstore.NewInstance(DB),
		candidateStore:    candidatestore.NewInstance(DB),
		assessmentStore:   assessmentstore.NewInstance(DB),
		responseStore:     responsestore.NewInstance(DB),
		candidateProvider: candidateProvider,
		xls:               xls,
		transport:         tr,
	}
}

type impl struct {
	jobStore          jobstore.Provider
	candidateStore    candidatestore.Provider
	assessmentStore   assessmentstore.Provider
	responseStore     responsestore.Provider
	candidateProvider candidate.Provider
	xls               xlsexport.Provider
	transport         transport.Provider
}

func (i impl) Stats(ctx context.Context) (result dashboardapimodels.Stats, err error) {
	err = i.transport.Do(ctx, transport.Read("dashboard.stats"), func(ctx context.Context) error {
		var err error
		if result.TotalJobs, err = i.jobStore.Count(""); err != nil {
			return errors.Wrap(err, "failed to count jobs")
		}
		if result.OpenJobs, err = i.jobStore.Count(models.JobStatusOpen); err != nil {
			return errors.Wrap(err, "failed to count open jobs")
		}
		result.ClosedJobs = result.TotalJobs - result.OpenJobs

		byStage, err := i.candidateStore.CountByStage()
		if err != nil {
			return errors.Wrap(err, "failed to count candidates by stage")
		}
		result.CandidatesByStage = make(map[models.CandidateStage]int64, len(models.CandidateStages))
		for _, stage := range models.CandidateStages {
			result.CandidatesByStage[stage] = byStage[stage]
			result.TotalCandidates += byStage[stage]
		}

		if result.TotalAssessments, err = i.assessmentStore.Count(); err != nil {
			return errors.Wrap(err, "failed to count assessments")
		}
		if result.CompletedAssessments, err = i.responseStore.Count(); err != nil {
			return errors.Wrap(err, "failed to count responses")
		}

		result.CandidatesPerJob, err = i.candidatesPerJob()
		return err
	})
	return result, err
}

func (i impl) CandidatesExportToXls(ctx context.Context, filter candidateapimodels.CandidateFilter) (*bytes.Buffer, error) {
	list, err := i.candidateProvider.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return i.xls.ExportCandidateList(list)
}

// candidatesPerJob also counts jobs without candidates.
func (i impl) candidatesPerJob() (dashboardapimodels.Distribution, error) {
	jobs, err := i.jobStore.List(jobapimodels.JobFilter{})
	if err != nil {
		return dashboardapimodels.Distribution{}, errors.Wrap(err, "failed to list jobs")
	}
	if len(jobs) == 0 {
		return dashboardapimodels.Distribution{}, nil
	}
	byJob, err := i.candidateStore.CountByJob()
	if err != nil {
		return dashboardapimodels.Distribution{}, errors.Wrap(err, "failed to count candidates by job")
	}
	sample := stats.Sample{Xs: make([]float64, 0, len(jobs))}
	for _, job := range jobs {
		sample.Xs = append(sample.Xs, float64(byJob[job.ID]))
	}
	sample.Sort()
	_, upper := sample.Bounds()
	return dashboardapimodels.Distribution{
		Mean: sample.Mean(),
		P50:  sample.Quantile(0.5),
		P90:  sample.Quantile(0.9),
		Max:  upper,
	}, nil
}
