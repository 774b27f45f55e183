package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"
	"talentflow-backend/config"
	"talentflow-backend/db"
	"talentflow-backend/fiberlog"
	"talentflow-backend/lib/assessment"
	"talentflow-backend/lib/candidate"
	candidatenotes "talentflow-backend/lib/candidate-notes"
	"talentflow-backend/lib/dashboard"
	xlsexport "talentflow-backend/lib/export/xls"
	jobhandler "talentflow-backend/lib/job"
	"talentflow-backend/lib/seeder"
	"talentflow-backend/lib/transport"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	transport.NewHandler(transport.Config{
		MinDelay:       config.Conf.MinDelay(),
		MaxDelay:       config.Conf.MaxDelay(),
		ErrorRate:      config.Conf.Transport.ErrorRate,
		BatchErrorRate: config.Conf.Transport.ReorderErrorRate,
		RandSeed:       config.Conf.Transport.RandSeed,
	})
	xlsexport.NewHandler()
	jobhandler.NewHandler(transport.Instance)
	candidate.NewHandler(transport.Instance)
	candidatenotes.NewHandler(transport.Instance)
	assessment.NewHandler(transport.Instance)
	dashboard.NewHandler(transport.Instance)
	seeder.NewHandler(db.DB, transport.Instance, seeder.Config{
		Candidates:       config.Conf.Seed.Candidates,
		BatchSize:        config.Conf.Seed.BatchSize,
		RetryMaxInterval: config.Conf.RetryMaxInterval(),
		RandSeed:         config.Conf.Seed.RandSeed,
	})
	if *config.Conf.App.SeedOnStart {
		go initSeed(ctx)
	}
}

// initSeed fills an empty database, existing data is kept.
func initSeed(ctx context.Context) {
	result, err := seeder.Instance.SeedAll(ctx)
	if err != nil {
		log.WithError(err).Error("initial seeding failed")
		return
	}
	log.
		WithField("jobs", result.Jobs).
		WithField("candidates", result.Candidates).
		WithField("assessments", result.Assessments).
		Info("initial seeding finished")
}
