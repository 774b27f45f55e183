package config

import (
	"time"

	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		SeedOnStart *bool  `default:"true" env:"APP_SEED_ON_START"`
	}
	Database struct {
		Driver         string `default:"sqlite" env:"DB_DRIVER"` // sqlite | postgres | memory
		Path           string `default:"talentflow.db" env:"DB_PATH"`
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"talentflow" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Transport struct {
		MinDelayMs       int     `default:"200" env:"TRANSPORT_MIN_DELAY_MS"`
		MaxDelayMs       int     `default:"1200" env:"TRANSPORT_MAX_DELAY_MS"`
		ErrorRate        float64 `default:"0.08" env:"TRANSPORT_ERROR_RATE"`
		ReorderErrorRate float64 `default:"0.1" env:"TRANSPORT_REORDER_ERROR_RATE"`
		RandSeed         int64   `default:"0" env:"TRANSPORT_RAND_SEED"` // 0 - seeded from clock
	}
	Seed struct {
		Candidates         int   `default:"1000" env:"SEED_CANDIDATES"`
		BatchSize          int   `default:"100" env:"SEED_BATCH_SIZE"`
		RetryMaxIntervalMs int   `default:"1000" env:"SEED_RETRY_MAX_INTERVAL_MS"`
		RandSeed           int64 `default:"0" env:"SEED_RAND_SEED"`
	}
}

func (c *Configuration) MinDelay() time.Duration {
	return time.Duration(c.Transport.MinDelayMs) * time.Millisecond
}

func (c *Configuration) MaxDelay() time.Duration {
	return time.Duration(c.Transport.MaxDelayMs) * time.Millisecond
}

func (c *Configuration) RetryMaxInterval() time.Duration {
	return time.Duration(c.Seed.RetryMaxIntervalMs) * time.Millisecond
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
