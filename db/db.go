package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Options struct {
	Driver    string
	Path      string // sqlite file
	Host      string
	Port      string
	Name      string
	User      string
	Password  string
	DebugMode bool
	Migrate   bool
}

func Connect(opts Options) (err error) {
	if DB == nil {
		db, err := Open(opts)
		if err != nil {
			return err
		}
		DB = db
		if opts.Migrate {
			err = AutoMigrateDB()
		}
		log.WithField("driver", opts.Driver).Info("local database connected")
		return err
	}
	return nil
}

func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres:
		dbConnString := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", opts.Host, opts.Port, opts.User, opts.Name, opts.Password)
		dialector = postgres.Open(dbConnString)
	case DriverMemory:
		dialector = sqlite.Open(":memory:")
	case DriverSqlite, "":
		dialector = sqlite.Open(fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", opts.Path))
	default:
		return nil, errors.Errorf("unsupported database driver %q", opts.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "database connection failed")
	}
	if opts.DebugMode {
		db.Logger = logger.Default.LogMode(logger.Info)
		db = db.Debug()
	}
	if opts.Driver != DriverPostgres {
		// single writer: sqlite locks the whole file, an in-memory db lives in one connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// OpenMemory opens a migrated in-memory database.
func OpenMemory() (*gorm.DB, error) {
	db, err := Open(Options{Driver: DriverMemory})
	if err != nil {
		return nil, err
	}
	db.Logger = db.Logger.LogMode(logger.Silent)
	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func PingDB() error {
	db, err := DB.DB()
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	return nil
}
