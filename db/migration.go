package db

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	dbmodels "talentflow-backend/models/db"
)

type migration struct {
	version int
	name    string
	models  []interface{}
}

// migrations are additive only, never edit an applied step - append a new one.
var migrations = []migration{
	{version: 1, name: "jobs", models: []interface{}{&dbmodels.Job{}}},
	{version: 2, name: "candidates", models: []interface{}{&dbmodels.Candidate{}, &dbmodels.TimelineEvent{}}},
	{version: 3, name: "notes", models: []interface{}{&dbmodels.Note{}}},
	{version: 4, name: "assessments", models: []interface{}{&dbmodels.Assessment{}, &dbmodels.Response{}}},
}

func AutoMigrateDB() error {
	return Migrate(DB)
}

func Migrate(db *gorm.DB) error {
	log.Info("running migrations")
	if err := db.AutoMigrate(&dbmodels.SchemaVersion{}); err != nil {
		return errors.Wrap(err, "failed to create schema_versions")
	}
	var current int
	err := db.Model(&dbmodels.SchemaVersion{}).
		Select("COALESCE(MAX(version), 0)").
		Scan(&current).
		Error
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(m.models...); err != nil {
				return err
			}
			return tx.Create(&dbmodels.SchemaVersion{
				Version:   m.version,
				Name:      m.name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return errors.Wrapf(err, "migration %d (%s) failed", m.version, m.name)
		}
		log.WithField("version", m.version).WithField("name", m.name).Info("migration applied")
	}
	log.Info("migrations finished")
	return nil
}
