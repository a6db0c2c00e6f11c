package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/certtutor/internal/retention"
	"github.com/example/certtutor/pkg/models"
)

type usersStub struct{ users []models.User }

func (s *usersStub) GetRemindable() ([]models.User, error) { return s.users, nil }

type notifierStub struct {
	calls map[string]int
}

func (n *notifierStub) SendReviewReminder(userID string, dueCount int) error {
	if n.calls == nil {
		n.calls = make(map[string]int)
	}
	n.calls[userID] = dueCount
	return nil
}

func TestRunManualCheck(t *testing.T) {
	store := retention.NewMemoryStore()
	ret := retention.New(store)

	// alice has two due concepts, bob has none.
	_, err := ret.InitializeConcept("alice", "c1")
	require.NoError(t, err)
	_, err = ret.InitializeConcept("alice", "c2")
	require.NoError(t, err)

	notifier := &notifierStub{}
	service := New(ret, &usersStub{}, notifier, nil)

	alice := models.User{ID: "alice", DailyReviewGoal: 10}
	require.NoError(t, service.RunManualCheck(alice))
	assert.Equal(t, 2, notifier.calls["alice"])

	bob := models.User{ID: "bob", DailyReviewGoal: 10}
	require.NoError(t, service.RunManualCheck(bob))
	_, notified := notifier.calls["bob"]
	assert.False(t, notified, "users with nothing due get no reminder")
}

func TestRunManualCheck_RespectsDailyGoal(t *testing.T) {
	store := retention.NewMemoryStore()
	ret := retention.New(store)

	for _, conceptID := range []string{"c1", "c2", "c3", "c4", "c5"} {
		_, err := ret.InitializeConcept("alice", conceptID)
		require.NoError(t, err)
	}

	notifier := &notifierStub{}
	service := New(ret, &usersStub{}, notifier, nil)

	alice := models.User{ID: "alice", DailyReviewGoal: 3}
	require.NoError(t, service.RunManualCheck(alice))
	assert.Equal(t, 3, notifier.calls["alice"], "reminder is capped at the daily goal")
}

func TestNotificationWindow(t *testing.T) {
	start, end := notificationWindow()
	assert.Equal(t, DefaultNotificationStartHour, start)
	assert.Equal(t, DefaultNotificationEndHour, end)

	t.Setenv("NOTIFICATION_START_HOUR", "6")
	t.Setenv("NOTIFICATION_END_HOUR", "20")
	start, end = notificationWindow()
	assert.Equal(t, 6, start)
	assert.Equal(t, 20, end)

	// Out-of-range values fall back to the defaults.
	t.Setenv("NOTIFICATION_START_HOUR", "42")
	t.Setenv("NOTIFICATION_END_HOUR", "banana")
	start, end = notificationWindow()
	assert.Equal(t, DefaultNotificationStartHour, start)
	assert.Equal(t, DefaultNotificationEndHour, end)
}
