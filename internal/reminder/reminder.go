package reminder

import (
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/certtutor/internal/retention"
	"github.com/example/certtutor/pkg/models"
)

// Default window for sending review reminders
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier delivers due-review reminders. The concrete transport (mail, chat,
// push) lives outside this module.
type Notifier interface {
	SendReviewReminder(userID string, dueCount int) error
}

// UserSource lists users who opted into reminders
type UserSource interface {
	GetRemindable() ([]models.User, error)
}

// Service runs the hourly sweep for users with due reviews
type Service struct {
	scheduler *gocron.Scheduler
	retention *retention.Scheduler
	users     UserSource
	notifier  Notifier
	logger    *zap.Logger
}

// New creates a reminder service
func New(ret *retention.Scheduler, users UserSource, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scheduler: gocron.NewScheduler(time.UTC),
		retention: ret,
		users:     users,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start begins the hourly reminder sweep in the background
func (s *Service) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates the background sweep
func (s *Service) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies every opted-in user with due concepts,
// respecting the configured notification window
func (s *Service) checkAndSendReminders() {
	now := time.Now()
	startHour, endHour := notificationWindow()

	if now.Hour() < startHour || now.Hour() > endHour {
		s.logger.Debug("outside notification window, skipping reminders",
			zap.Int("hour", now.Hour()),
			zap.Int("start", startHour),
			zap.Int("end", endHour),
		)
		return
	}

	users, err := s.users.GetRemindable()
	if err != nil {
		s.logger.Error("failed to get remindable users", zap.Error(err))
		return
	}

	for _, user := range users {
		if err := s.remind(user, now); err != nil {
			s.logger.Error("failed to send reminder",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}
}

// remind sends one user a reminder when they have due concepts
func (s *Service) remind(user models.User, now time.Time) error {
	limit := user.DailyReviewGoal
	if limit <= 0 {
		limit = 10
	}
	due, err := s.retention.NextDue(user.ID, now, limit)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}
	return s.notifier.SendReviewReminder(user.ID, len(due))
}

// RunManualCheck forces a reminder check for a specific user, ignoring the
// notification window
func (s *Service) RunManualCheck(user models.User) error {
	return s.remind(user, time.Now())
}

// notificationWindow reads the reminder window from the environment, falling
// back to the defaults
func notificationWindow() (int, int) {
	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}
	return startHour, endHour
}
