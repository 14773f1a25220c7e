package main

import (
	"database/sql"
	"enddit/backend/internal/config"
	"enddit/backend/internal/database"
	"enddit/backend/internal/logging"
	"flag"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var flags = flag.NewFlagSet("migrate", flag.ExitOnError)

func main() {
	flags.Parse(os.Args[1:])
	args := flags.Args()

	if len(args) < 1 {
		log.Fatal("Usage: migrate COMMAND\n\nCommands:\n  up\n  down\n  status")
	}

	cfg, err := config.LoadMigrationConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewSugar(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, args[0], logger); err != nil {
		logger.Fatalw("Migration failed", "command", args[0], "error", err)
	}
}
