// Package main provides a CLI for the Postgres schema and demo data
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/alchemorsel/personalization/internal/infrastructure/config"
	gormModels "github.com/alchemorsel/personalization/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/personalization/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/personalization/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/personalization/pkg/logger"
	"go.uber.org/zap"
)

const usage = `Usage: migrate [-config path] <command>

Commands:
  up       apply all pending migrations
  down     roll back one migration
  reset    roll back every migration and re-apply them
  version  print the current schema version
  seed     insert the demo user, pantry and catalog
`

func main() {
	configFile := flag.String("config", os.Getenv("ALCHEMORSEL_CONFIG_FILE"), "path to the YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configFile, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, command string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("database.driver is %q; sqlite schemas are managed at startup", cfg.Database.Driver)
	}

	log, err := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: "console", Service: "migrate"})
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := postgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	if command == "seed" {
		if err := gormModels.SeedDemoData(conn.DB, cfg.Recommendation.SystemPantrySlug); err != nil {
			return err
		}
		log.Info("Demo data seeded")
		return nil
	}

	m, err := migrations.New(conn.SQLDB, cfg.Database.Database, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "reset":
		return m.Reset()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
