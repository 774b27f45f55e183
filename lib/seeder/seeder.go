package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"talentflow-backend/lib/assessment"
	"talentflow-backend/lib/candidate"
	jobhandler "talentflow-backend/lib/job"
	"talentflow-backend/lib/transport"
	"talentflow-backend/lib/utils/lock"
	"talentflow-backend/models"
	apimodels "talentflow-backend/models/api"
	assessmentapimodels "talentflow-backend/models/api/assessment"
	candidateapimodels "talentflow-backend/models/api/candidate"
	jobapimodels "talentflow-backend/models/api/job"
	dbmodels "talentflow-backend/models/db"
)

var ErrSeedingInProgress = errors.New("seeding is already in progress")

const lockKey = "seeder"

type Config struct {
	Candidates       int
	BatchSize        int
	RetryMaxInterval time.Duration
	LockWait         time.Duration
	RandSeed         int64 // 0 - seeded from clock
}

type Result struct {
	Jobs        int `json:"jobs"`
	Candidates  int `json:"candidates"`
	Assessments int `json:"assessments"`
}

type Provider interface {
	// SeedAll fills every empty collection, non-empty ones are left alone.
	SeedAll(ctx context.Context) (Result, error)
	// Reseed optionally wipes all data before seeding.
	Reseed(ctx context.Context, reset bool) (Result, error)
}

var Instance Provider

func NewHandler(DB *gorm.DB, tr transport.Provider, cfg Config) {
	Instance = NewInstance(DB, tr, cfg)
}

// NewInstance builds handlers over the seeding variant of tr: no delay and no injected failures.
func NewInstance(DB *gorm.DB, tr transport.Provider, cfg Config) Provider {
	seeding := tr.WithSeeding()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = time.Second
	}
	seed := cfg.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &impl{
		cfg:         cfg,
		jobs:        jobhandler.NewInstance(DB, seeding),
		candidates:  candidate.NewInstance(DB, seeding),
		assessments: assessment.NewInstance(DB, seeding),
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

type impl struct {
	cfg         Config
	jobs        jobhandler.Provider
	candidates  candidate.Provider
	assessments assessment.Provider
	mu          sync.Mutex
	rnd         *rand.Rand
}

func (i *impl) SeedAll(ctx context.Context) (result Result, err error) {
	ok, err := lock.WithDelay(ctx, lockKey, i.cfg.LockWait, func() error {
		result, err = i.seedAll(ctx)
		return err
	})
	if err != nil {
		return result, err
	}
	if !ok {
		return result, ErrSeedingInProgress
	}
	return result, nil
}

func (i *impl) Reseed(ctx context.Context, reset bool) (result Result, err error) {
	ok, err := lock.WithDelay(ctx, lockKey, i.cfg.LockWait, func() error {
		if reset {
			if err := i.reset(ctx); err != nil {
				return err
			}
		}
		result, err = i.seedAll(ctx)
		return err
	})
	if err != nil {
		return result, err
	}
	if !ok {
		return result, ErrSeedingInProgress
	}
	return result, nil
}

func (i *impl) seedAll(ctx context.Context) (result Result, err error) {
	logger := log.WithField("operation", "seed")
	jobs, err := i.jobs.List(ctx, jobapimodels.JobFilter{})
	if err != nil {
		return result, errors.Wrap(err, "failed to list jobs")
	}
	if len(jobs) == 0 {
		if jobs, err = i.seedJobs(ctx); err != nil {
			return result, err
		}
		result.Jobs = len(jobs)
		logger.WithField("count", result.Jobs).Info("jobs seeded")
	} else {
		logger.WithField("count", len(jobs)).Info("jobs already exist, skipping")
	}

	existing, err := i.candidates.List(ctx, candidateapimodels.CandidateFilter{Pagination: apimodels.Pagination{Limit: 1}})
	if err != nil {
		return result, errors.Wrap(err, "failed to count candidates")
	}
	if existing.Total == 0 {
		if result.Candidates, err = i.seedCandidates(ctx, jobs); err != nil {
			return result, err
		}
		logger.WithField("count", result.Candidates).Info("candidates seeded")
	} else {
		logger.WithField("count", existing.Total).Info("candidates already exist, skipping")
	}

	assessments, err := i.assessments.List(ctx)
	if err != nil {
		return result, errors.Wrap(err, "failed to list assessments")
	}
	if len(assessments) == 0 {
		if result.Assessments, err = i.seedAssessments(ctx, jobs); err != nil {
			return result, err
		}
		logger.WithField("count", result.Assessments).Info("assessments seeded")
	} else {
		logger.WithField("count", len(assessments)).Info("assessments already exist, skipping")
	}
	return result, nil
}

func (i *impl) reset(ctx context.Context) error {
	if err := i.assessments.Clear(ctx); err != nil {
		return err
	}
	if err := i.candidates.Reset(ctx); err != nil {
		return err
	}
	if err := i.jobs.Clear(ctx); err != nil {
		return err
	}
	log.WithField("operation", "seed").Info("all data cleared")
	return nil
}

// seedJobs creates jobs one by one so order follows the title list.
func (i *impl) seedJobs(ctx context.Context) ([]jobapimodels.JobView, error) {
	result := make([]jobapimodels.JobView, 0, len(jobTitles))
	for idx, title := range jobTitles {
		order := idx
		status := models.JobStatusClosed
		if i.chance() < openJobShare {
			status = models.JobStatusOpen
		}
		data := jobapimodels.JobData{
			Title:        title,
			Description:  fmt.Sprintf("We are looking for a passionate **%v** to join our dynamic team.", title),
			Location:     i.pick(jobLocations),
			JobType:      i.pick(jobTypes),
			Requirements: "Proficiency in modern tools, good communication, teamwork.",
			Tags:         i.pickSome(jobTags, 1+i.intn(3)),
			Slug:         fmt.Sprintf("%v-%d", slug.Make(title), idx),
			Status:       status,
			Order:        &order,
		}
		var item jobapimodels.JobView
		err := transport.RetryOnTransportError(ctx, i.cfg.RetryMaxInterval, func() (err error) {
			item, err = i.jobs.Create(ctx, data)
			return err
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to seed job %q", title)
		}
		result = append(result, item)
	}
	return result, nil
}

// seedCandidates spreads candidates evenly over the stages, shuffles them and
// inserts them in concurrent batches.
func (i *impl) seedCandidates(ctx context.Context, jobs []jobapimodels.JobView) (int, error) {
	if len(jobs) == 0 {
		log.Warn("no jobs found, candidates are not seeded")
		return 0, nil
	}
	total := i.cfg.Candidates
	if total <= 0 {
		return 0, nil
	}
	list := make([]candidateapimodels.CandidateData, 0, total)
	perStage := total / len(models.CandidateStages)
	remaining := total - perStage*len(models.CandidateStages)
	id := 1
	for _, stage := range models.CandidateStages {
		count := perStage
		if remaining > 0 {
			count++
			remaining--
		}
		for n := 0; n < count; n, id = n+1, id+1 {
			name := fmt.Sprintf("%v %v", firstNames[id%len(firstNames)], lastNames[id%len(lastNames)])
			list = append(list, candidateapimodels.CandidateData{
				Name:  name,
				Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
				JobID: jobs[i.intn(len(jobs))].ID,
				Stage: stage,
			})
		}
	}
	i.shuffle(len(list), func(a, b int) { list[a], list[b] = list[b], list[a] })

	var inserted int64
	for start := 0; start < len(list); start += i.cfg.BatchSize {
		end := start + i.cfg.BatchSize
		if end > len(list) {
			end = len(list)
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, data := range list[start:end] {
			data := data
			g.Go(func() error {
				err := transport.RetryOnTransportError(gctx, i.cfg.RetryMaxInterval, func() error {
					_, err := i.candidates.Create(gctx, data)
					return err
				})
				if err != nil {
					return errors.Wrapf(err, "failed to seed candidate %q", data.Name)
				}
				atomic.AddInt64(&inserted, 1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(inserted), err
		}
		log.WithField("from", start+1).WithField("to", end).Debug("candidate batch seeded")
	}
	return int(inserted), nil
}

// seedAssessments builds one assessment for each of the first jobs.
func (i *impl) seedAssessments(ctx context.Context, jobs []jobapimodels.JobView) (int, error) {
	count := 0
	for num, job := range jobs {
		if num >= seededAssessments {
			break
		}
		data := assessmentapimodels.AssessmentData{
			Title: fmt.Sprintf("Assessment for %v", job.Title),
			Sections: []dbmodels.AssessmentSection{
				{
					ID:        fmt.Sprintf("section-%d", num+1),
					Title:     "General Skills",
					Questions: i.questions(num + 1),
				},
			},
		}
		err := transport.RetryOnTransportError(ctx, i.cfg.RetryMaxInterval, func() error {
			_, err := i.assessments.Save(ctx, job.ID, data)
			return err
		})
		if err != nil {
			return count, errors.Wrapf(err, "failed to seed assessment of job %v", job.ID)
		}
		count++
	}
	return count, nil
}

func (i *impl) questions(num int) []dbmodels.AssessmentQuestion {
	result := make([]dbmodels.AssessmentQuestion, 0, questionsPerSeeded)
	for idx := 0; idx < questionsPerSeeded; idx++ {
		questionType := seedQuestionTypes[i.intn(len(seedQuestionTypes))]
		question := dbmodels.AssessmentQuestion{
			ID:       fmt.Sprintf("q%d", idx+1),
			Text:     fmt.Sprintf("Question %d for Assessment %d", idx+1, num),
			Type:     questionType,
			Options:  dbmodels.QuestionOptions{},
			Required: i.chance() < requiredShare,
		}
		switch {
		case questionType.IsChoice():
			question.Options = dbmodels.QuestionOptions{"Option A", "Option B", "Option C"}
		case questionType == models.QuestionNumeric:
			lower, upper := 0.0, 100.0
			question.Validation = &dbmodels.QuestionValidation{Min: &lower, Max: &upper}
		case questionType == models.QuestionShortText:
			maxLength := 100
			question.Validation = &dbmodels.QuestionValidation{MaxLength: &maxLength}
		case questionType == models.QuestionLongText:
			maxLength := 1000
			question.Validation = &dbmodels.QuestionValidation{MaxLength: &maxLength}
		}
		result = append(result, question)
	}
	return result
}

func (i *impl) intn(n int) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.rnd.Intn(n)
}

func (i *impl) chance() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.rnd.Float64()
}

func (i *impl) shuffle(n int, swap func(a, b int)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.rnd.Shuffle(n, swap)
}

func (i *impl) pick(values []string) string {
	return values[i.intn(len(values))]
}

func (i *impl) pickSome(values []string, count int) []string {
	shuffled := append([]string{}, values...)
	i.shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
	return shuffled[:count]
}
