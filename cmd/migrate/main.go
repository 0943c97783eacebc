package migrate

import (
	"errors"
	"flag"
	"log"

	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/db"
	"uno-qr-menu/pkg/logger"

	gomigrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func Main() {
	dir := flag.String("dir", "migrations", "Directory containing migration files")
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	down := flag.Bool("down", false, "Roll back all migrations instead of applying them")
	flag.Parse()

	_ = godotenv.Load()

	logger := logger.NewLogger("migrate")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("startup", "config_load_failed", "Failed to load configuration", err)
		log.Fatal(err)
	}

	m, err := gomigrate.New("file://"+*dir, db.ConnString(&cfg.Database))
	if err != nil {
		logger.Error("migrate", "migrate_init_failed", "Failed to create migrate instance", err)
		log.Fatal(err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, gomigrate.ErrNoChange) {
		logger.Error("migrate", "migrate_failed", "Failed to run migrations", err)
		log.Fatal(err)
	}

	if errors.Is(err, gomigrate.ErrNoChange) {
		logger.Info("migrate", "no_change", "Database schema already up to date")
		return
	}
	logger.Info("migrate", "migrations_applied", "Database migrations applied")
}
