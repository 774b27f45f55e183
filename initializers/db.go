package initializers

import (
	"talentflow-backend/config"
	"talentflow-backend/db"
)

func InitDBConnection() {
	err := db.Connect(db.Options{
		Driver:    config.Conf.Database.Driver,
		Path:      config.Conf.Database.Path,
		Host:      config.Conf.Database.Host,
		Port:      config.Conf.Database.Port,
		Name:      config.Conf.Database.Name,
		User:      config.Conf.Database.User,
		Password:  config.Conf.Database.Password,
		DebugMode: *config.Conf.Database.DebugMode,
		Migrate:   *config.Conf.Database.MigrateOnStart,
	})
	if err != nil {
		panic(err.Error())
	}
}
