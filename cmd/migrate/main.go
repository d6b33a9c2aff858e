package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/config"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/database"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/logging"
)

func main() {
	var status = flag.Bool("status", false, "Show migration status only")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel)

	db, err := database.NewDB(database.Config{
		Type:       cfg.DBType,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		Name:       cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Conn(), cfg.DBType)

	if *status {
		if err := migrator.Initialize(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize migrator")
		}

		applied, err := migrator.GetAppliedMigrations()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get applied migrations")
		}

		migrations, err := migrator.LoadMigrations()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load migrations")
		}

		fmt.Println("Migration Status:")
		fmt.Println("=================")
		for _, m := range migrations {
			state := "pending"
			if applied[m.Version] {
				state = "applied"
			}
			fmt.Printf("%s - %s [%s]\n", m.Version, m.Name, state)
		}
		return
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	fmt.Println("Migrations completed successfully!")
}
