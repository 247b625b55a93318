// Command seed creates demo collaborators in the configured store.
// Credentials come from the environment, never from source:
//
//	SEED_SLUGS="ana,bruno" SEED_PASSWORD_ANA=... SEED_PASSWORD_BRUNO=... go run ./cmd/seed
//
// Each slug gets a collaborator named after it with a placeholder
// project; tune the records through the management API afterwards.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/config"
	"github.com/elijahbrown/collabhub/internal/db"
	"github.com/elijahbrown/collabhub/internal/mail"
	"github.com/elijahbrown/collabhub/internal/observ"
	"github.com/elijahbrown/collabhub/internal/repository/postgres"
	"github.com/elijahbrown/collabhub/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required (seeding an in-memory store is pointless)")
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	slugs := strings.Split(config.GetEnv("SEED_SLUGS", ""), ",")

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	repo := postgres.NewCollaboratorStore(database.Pool())
	svc := service.NewCollaboratorService(repo, mail.NewNopMailer(logger), cfg.BaseURL, logger)

	for _, slug := range slugs {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}

		password := config.GetEnv("SEED_PASSWORD_"+strings.ToUpper(strings.ReplaceAll(slug, "-", "_")), "")
		if password == "" {
			return fmt.Errorf("no password configured for seed slug %q", slug)
		}

		c, _, err := svc.CreateCollaborator(ctx, service.CreateInput{
			Name:        slug,
			Slug:        slug,
			Password:    password,
			ProjectName: slug + " project",
		})
		if err != nil {
			return fmt.Errorf("seed %q: %w", slug, err)
		}
		logger.Info("seeded collaborator",
			zap.String("slug", c.Slug),
			zap.String("id", c.ID.String()),
		)
	}
	return nil
}
