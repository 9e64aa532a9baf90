package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/okravets/case-records/internal/auth"
	"github.com/okravets/case-records/internal/cache"
	"github.com/okravets/case-records/internal/config"
	"github.com/okravets/case-records/internal/database"
	"github.com/okravets/case-records/internal/server"
	"github.com/okravets/case-records/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	seeded, err := auth.SeedAdmin(db, cfg.AdminLogin, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatal("Failed to seed admin account", "error", err)
	}
	if seeded {
		log.Info("Bootstrap admin account created", "login", cfg.AdminLogin)
	}

	sessions := cache.NewSessionCache(cfg.SessionCacheTTL)

	srv := server.New(cfg, db, sessions, log)

	log.Info("Starting Case Records Service",
		"host", cfg.Host,
		"port", cfg.Port,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
