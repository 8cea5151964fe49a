package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/room"
	"github.com/cmlabs-hris/officehub-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func createRoom(t *testing.T, ctx context.Context, repo room.RoomRepository, companyID, name string) room.MeetingRoom {
	t.Helper()
	r, err := repo.Create(ctx, room.MeetingRoom{
		ID:         newID(t),
		CompanyID:  companyID,
		Name:       name,
		Capacity:   6,
		Facilities: []string{"TV", "Whiteboard"},
		IsActive:   true,
	})
	require.NoError(t, err)
	return r
}

func TestRoomRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewRoomRepository(setup.DB)
	companyID := newID(t)

	created := createRoom(t, ctx, repo, companyID, "Borobudur")
	assert.Equal(t, []string{"TV", "Whiteboard"}, created.Facilities)
	assert.False(t, created.CreatedAt.IsZero())

	_, err := repo.Create(ctx, room.MeetingRoom{ID: newID(t), CompanyID: companyID, Name: "borobudur", Capacity: 2, IsActive: true})
	assert.ErrorIs(t, err, room.ErrRoomNameExists)

	// same name in another company is fine
	createRoom(t, ctx, repo, newID(t), "Borobudur")

	createRoom(t, ctx, repo, companyID, "Prambanan")
	rooms, total, err := repo.List(ctx, companyID, room.RoomFilter{Page: 1, Limit: 1, SortBy: "name", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Prambanan", rooms[0].Name)

	name := "Borobudur Hall"
	inactive := false
	updated, err := repo.Update(ctx, companyID, room.UpdateRoomRequest{ID: created.ID, Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Borobudur Hall", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 6, updated.Capacity)

	require.NoError(t, repo.SoftDelete(ctx, created.ID, companyID))
	_, err = repo.GetByID(ctx, created.ID, companyID)
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, created.ID, companyID), room.ErrRoomNotFound)
}

func TestMeetingRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	rooms := postgresql.NewRoomRepository(setup.DB)
	repo := postgresql.NewMeetingRepository(setup.DB)

	companyID := newID(t)
	organizer := newID(t)
	guest := newID(t)
	r := createRoom(t, ctx, rooms, companyID, "Kawi")

	base := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)
	create := func(start, end time.Time, status meeting.Status) meeting.Meeting {
		id := newID(t)
		m, err := repo.Create(ctx, meeting.Meeting{
			ID: id, CompanyID: companyID, RoomID: r.ID, OrganizerID: organizer,
			Title: "Planning", StartAt: start, EndAt: end, Status: status,
			Attendees: []meeting.Attendee{
				{MeetingID: id, EmployeeID: guest, RSVP: meeting.RSVPPending},
				{MeetingID: id, EmployeeID: organizer, RSVP: meeting.RSVPAccepted},
			},
		})
		require.NoError(t, err)
		return m
	}

	first := create(base, base.Add(time.Hour), meeting.StatusScheduled)
	second := create(base.Add(time.Hour), base.Add(2*time.Hour), meeting.StatusScheduled)
	create(base.Add(30*time.Minute), base.Add(90*time.Minute), meeting.StatusCancelled)

	got, err := repo.GetByID(ctx, first.ID, companyID)
	require.NoError(t, err)
	require.NotNil(t, got.RoomName)
	assert.Equal(t, "Kawi", *got.RoomName)
	require.Len(t, got.Attendees, 2)
	assert.Equal(t, organizer, got.Attendees[0].EmployeeID)

	_, err = repo.GetByID(ctx, first.ID, newID(t))
	assert.ErrorIs(t, err, meeting.ErrMeetingNotFound)

	// touching meetings are outside a half-open window
	inRange, err := repo.ListInRange(ctx, companyID, meeting.RangeQuery{
		RoomID:   &r.ID,
		Statuses: []meeting.Status{meeting.StatusScheduled},
		From:     base.Add(30 * time.Minute),
		To:       base.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, first.ID, inRange[0].ID)

	inRange, err = repo.ListInRange(ctx, companyID, meeting.RangeQuery{
		ExcludeID: &first.ID,
		From:      base,
		To:        base.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	require.NoError(t, repo.UpdateRSVP(ctx, second.ID, guest, meeting.RSVPDeclined, base))
	assert.ErrorIs(t, repo.UpdateRSVP(ctx, second.ID, newID(t), meeting.RSVPAccepted, base), meeting.ErrNotAttendee)
	require.NoError(t, repo.ResetRSVP(ctx, second.ID, organizer))
	got, err = repo.GetByID(ctx, second.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, meeting.RSVPAccepted, got.Attendees[0].RSVP)
	assert.Equal(t, meeting.RSVPPending, got.Attendees[1].RSVP)

	mine, total, err := repo.List(ctx, companyID, meeting.MeetingFilter{ParticipantID: &guest, Page: 1, Limit: 10, SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, first.ID, mine[0].ID)

	due, err := repo.ListDueReminders(ctx, base.Add(-10*time.Minute), 15*time.Minute)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.NoError(t, repo.MarkReminded(ctx, []string{due[0].ID}, base))
	due, err = repo.ListDueReminders(ctx, base.Add(-10*time.Minute), 15*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, due)

	n, err := repo.CompletePast(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOvertimeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewOvertimeRepository(setup.DB)

	companyID := newID(t)
	employeeID := newID(t)
	start := time.Date(2030, 1, 7, 18, 0, 0, 0, time.UTC)

	o, err := repo.Create(ctx, overtime.OvertimeRequest{
		ID: newID(t), CompanyID: companyID, EmployeeID: employeeID,
		StartAt: start, EndAt: start.Add(2 * time.Hour), Reason: "Release",
		Status: overtime.StatusWaitingApproval,
	})
	require.NoError(t, err)

	active, err := repo.ListActiveByEmployee(ctx, companyID, employeeID, start.Add(time.Hour), start.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, active, 1)

	approved, err := repo.ListApprovedInRange(ctx, companyID, nil, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, approved)

	approver := newID(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	o.Status = overtime.StatusApproved
	o.ApprovedBy = &approver
	o.ApprovedAt = &now
	require.NoError(t, repo.UpdateStatus(ctx, o))

	approved, err = repo.ListApprovedInRange(ctx, companyID, &employeeID, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, approver, *approved[0].ApprovedBy)

	_, err = repo.GetByID(ctx, newID(t), companyID)
	assert.ErrorIs(t, err, overtime.ErrOvertimeNotFound)
}

func TestNotificationRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewNotificationRepository(setup.DB)

	companyID := newID(t)
	recipient := newID(t)

	var batch []*notification.Notification
	for i := 0; i < 3; i++ {
		batch = append(batch, &notification.Notification{
			CompanyID:   companyID,
			RecipientID: recipient,
			Type:        notification.TypeMeetingInvited,
			Title:       "Meeting Invitation",
			Message:     "Planning",
			Data:        map[string]interface{}{"meeting_id": "m-1"},
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Second),
		})
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	list, total, err := repo.GetByRecipient(ctx, recipient, 1, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, batch[2].ID, list[0].ID)
	assert.Equal(t, "m-1", list[0].Data["meeting_id"])

	require.NoError(t, repo.MarkAsRead(ctx, []string{batch[0].ID}, recipient))
	count, err := repo.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.MarkAllAsRead(ctx, recipient))
	count, err = repo.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
