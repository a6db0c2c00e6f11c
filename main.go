package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/certtutor/internal/content"
	"github.com/example/certtutor/internal/database"
	"github.com/example/certtutor/internal/reminder"
	"github.com/example/certtutor/internal/retention"
)

// logNotifier writes reminders to the log. Deployments replace it with a
// real delivery transport behind the same interface.
type logNotifier struct {
	logger *zap.Logger
}

func (n *logNotifier) SendReviewReminder(userID string, dueCount int) error {
	n.logger.Info("reviews due",
		zap.String("user_id", userID),
		zap.Int("due_count", dueCount),
	)
	return nil
}

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if err := database.Connect(); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := seedCatalog(); err != nil {
		logger.Fatal("failed to seed concept catalog", zap.Error(err))
	}

	scheduler := retention.New(database.NewRetentionStore())
	users := database.NewUserRepository()

	service := reminder.New(scheduler, users, &logNotifier{logger: logger}, logger)
	service.Start()
	logger.Info("reminder service started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	service.Stop()
}

// seedCatalog writes the built-in syllabus into the concept store so quizzes
// and analytics can resolve concept names
func seedCatalog() error {
	repo := database.NewConceptRepository()
	for _, part := range content.Catalog() {
		for i := range part.Concepts {
			concept := part.Concepts[i]
			if err := repo.Upsert(&concept); err != nil {
				return err
			}
		}
	}
	return nil
}
