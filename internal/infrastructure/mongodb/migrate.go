package mongodb

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	mongomigrate "github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// RunMigrations applies the JSON command migrations in migrationsDir to database.
func RunMigrations(client *mongo.Client, database, migrationsDir string, logger *logrus.Logger) error {
	driver, err := mongomigrate.WithInstance(client, &mongomigrate.Config{DatabaseName: database})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "mongodb", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
