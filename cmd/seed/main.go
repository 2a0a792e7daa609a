package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bloomday/gala/internal/database"
	"github.com/bloomday/gala/internal/logger"
	"github.com/bloomday/gala/internal/seed"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	var (
		env    = flag.String("env", "dev", "Seed profile: dev or test")
		count  = flag.Int("guests", 40, "Number of fake guests for the dev profile")
		clean  = flag.Bool("clean", false, "Remove all seeded data first")
		invite = flag.String("invite", "", "Invite a single guest by email instead of seeding")
		name   = flag.String("name", "", "Display name for -invite")
		host   = flag.Bool("host", false, "Make the -invite guest a host")
	)
	flag.Parse()

	_ = godotenv.Load()

	if err := logger.Initialize("info", "seed.log"); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	seeder := seed.NewSeeder(database.DB)

	if *clean {
		logger.Log.Info("Cleaning seeded data...")
		if err := seeder.Clean(); err != nil {
			logger.Log.Fatal("Clean failed", zap.Error(err))
		}
	}

	switch {
	case *invite != "":
		displayName := *name
		if displayName == "" {
			displayName = *invite
		}
		if err := seeder.Invite(*invite, displayName, *host); err != nil {
			logger.Log.Fatal("Invite failed", zap.Error(err))
		}
		logger.Log.Info("Guest invited",
			zap.String("email", *invite),
			zap.Bool("is_host", *host))
	case *env == "test":
		if err := seeder.SeedTest(); err != nil {
			logger.Log.Fatal("Test seed failed", zap.Error(err))
		}
	default:
		if err := seeder.SeedDev(*count); err != nil {
			logger.Log.Fatal("Dev seed failed", zap.Error(err))
		}
	}

	logger.Log.Info("Seeding complete")
}
