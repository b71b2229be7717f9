package main

import (
	"errors"
	"flag"

	"jobtracker/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	log "github.com/sirupsen/logrus"
)

func main() {
	dir := flag.String("path", "migrations", "directory holding the migration files")
	steps := flag.Int("steps", 0, "run n steps instead of all (negative rolls back)")
	flag.Parse()

	direction := "up"
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}

	cfg := config.Load()
	m, err := migrate.New("file://"+*dir, cfg.MigrateURL())
	if err != nil {
		log.WithError(err).Fatal("failed to open migrations")
	}
	defer m.Close()

	switch {
	case *steps != 0:
		err = m.Steps(*steps)
	case direction == "up":
		err = m.Up()
	case direction == "down":
		err = m.Down()
	default:
		log.Fatalf("unknown direction %q, want up or down", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.WithError(err).Fatal("migration failed")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.WithError(err).Fatal("failed to read schema version")
	}
	log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("migrations completed")
}
