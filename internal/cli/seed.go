package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quizdesk/internal/app"
	"quizdesk/internal/config"
	"quizdesk/internal/domain"
	pgstore "quizdesk/internal/infra/postgres"
)

// NewSeedCmd provisions a user and a sample quiz in Postgres so a fresh
// deployment has something to submit against.
func NewSeedCmd(configPath *string) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a user and a sample quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			store := pgstore.NewStore(pool)
			return seedSampleData(cmd.Context(), store, store, username, password)
		},
	}
	cmd.Flags().StringVar(&username, "username", "demo", "username to create")
	cmd.Flags().StringVar(&password, "password", "demo", "password for the created user")
	return cmd
}

// seedSampleData creates a user and the sample capitals quiz. Safe to call
// against a store that already has the user.
func seedSampleData(ctx context.Context, catalog app.CatalogStore, users app.UserStore, username, password string) error {
	hash, err := app.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := users.GetUserByName(ctx, username); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		if _, err := users.CreateUser(ctx, domain.User{Username: username, PasswordHash: hash}); err != nil {
			return err
		}
	}

	quiz, err := catalog.CreateQuiz(ctx, domain.Quiz{
		Title:       "Capitals Quiz",
		Description: "European capital cities",
	})
	if err != nil {
		return err
	}
	question, err := catalog.CreateQuestion(ctx, domain.Question{
		QuizID: quiz.ID,
		Text:   "What is the capital of France?",
	})
	if err != nil {
		return err
	}
	for _, answer := range []domain.Answer{
		{QuestionID: question.ID, Text: "Paris", IsCorrect: true, Type: domain.AnswerTypeSingle},
		{QuestionID: question.ID, Text: "Lyon", Type: domain.AnswerTypeSingle},
	} {
		if _, err := catalog.CreateAnswer(ctx, answer); err != nil {
			return err
		}
	}
	return nil
}
