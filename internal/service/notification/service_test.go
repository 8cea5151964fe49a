package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	stored  []*notification.Notification
	batches int
	direct  int
	read    []string
}

func (r *fakeRepo) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direct++
	r.stored = append(r.stored, n)
	return nil
}

func (r *fakeRepo) CreateBatch(_ context.Context, ns []*notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
	r.stored = append(r.stored, ns...)
	return nil
}

func (r *fakeRepo) GetByRecipient(_ context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.stored {
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) GetUnreadCount(_ context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.stored {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) MarkAsRead(_ context.Context, ids []string, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.read = append(r.read, ids...)
	return nil
}

func (r *fakeRepo) MarkAllAsRead(_ context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.stored {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored)
}

func invite(recipient string) notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		CompanyID:   "company-1",
		RecipientID: recipient,
		Type:        notification.TypeMeetingInvited,
		Title:       "Meeting Invitation",
		Message:     "You are invited to Sprint Review",
	}
}

func TestStopFlushesQueuedNotifications(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), Config{BatchSize: 50, FlushInterval: time.Hour, WorkerCount: 1})

	ctx := context.Background()
	require.NoError(t, svc.QueueBulkNotification(ctx, []notification.CreateNotificationRequest{
		invite("emp-1"), invite("emp-2"), invite("emp-3"),
	}))

	svc.Stop()
	svc.Stop()

	assert.Equal(t, 3, repo.count())
	assert.Equal(t, 0, repo.direct)
	for _, n := range repo.stored {
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.IsRead)
		assert.Equal(t, notification.TypeMeetingInvited, n.Type)
	}
}

func TestQueueFullFallsBackToDirectInsert(t *testing.T) {
	repo := &fakeRepo{}
	hub := sse.NewHub()
	// no workers: the queue never drains
	s := &service{
		repo:   repo,
		hub:    hub,
		config: Config{BatchSize: 10, FlushInterval: time.Hour, QueueSize: 1},
		queue:  make(chan notification.CreateNotificationRequest, 1),
		stopCh: make(chan struct{}),
	}

	events, cleanup := hub.Subscribe("emp-2")
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.QueueNotification(ctx, invite("emp-1")))
	require.NoError(t, s.QueueNotification(ctx, invite("emp-2")))

	assert.Equal(t, 1, repo.direct)
	assert.Len(t, s.queue, 1)

	require.Len(t, events, 1)
	event := <-events
	assert.Equal(t, "notification", event.Event)
	resp, ok := event.Data.(notification.NotificationResponse)
	require.True(t, ok)
	assert.Equal(t, "Meeting Invitation", resp.Title)
}

func TestSubscribeReceivesFlushedNotification(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	require.NoError(t, svc.QueueNotification(ctx, invite("emp-1")))

	select {
	case event := <-events:
		assert.Equal(t, "notification", event.Event)
		assert.Equal(t, notification.TypeMeetingInvited, event.Data.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not pushed to the subscriber")
	}
}

func TestSubscribeClosesOnContextCancel(t *testing.T) {
	svc := NewNotificationService(&fakeRepo{}, sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription channel was not closed")
	}
}

func TestGetNotifications(t *testing.T) {
	repo := &fakeRepo{stored: []*notification.Notification{
		{ID: "n1", RecipientID: "emp-1", Type: notification.TypeMeetingInvited},
		{ID: "n2", RecipientID: "emp-1", Type: notification.TypeOvertimeApproved, IsRead: true},
		{ID: "n3", RecipientID: "emp-2", Type: notification.TypeMeetingInvited},
	}}
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	resp, err := svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{
		RecipientID: "emp-1",
		PageSize:    500,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.UnreadCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)

	unread, err := svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{
		RecipientID: "emp-1",
		UnreadOnly:  true,
	})
	require.NoError(t, err)
	require.Len(t, unread.Notifications, 1)
	assert.Equal(t, "n1", unread.Notifications[0].ID)

	require.NoError(t, svc.MarkAllAsRead(context.Background(), "emp-1"))
	count, err := svc.GetUnreadCount(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkAsReadValidates(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	err := svc.MarkAsRead(context.Background(), "emp-1", notification.MarkAsReadRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "notification_ids")

	require.NoError(t, svc.MarkAsRead(context.Background(), "emp-1", notification.MarkAsReadRequest{NotificationIDs: []string{"n1"}}))
	assert.Equal(t, []string{"n1"}, repo.read)
}
