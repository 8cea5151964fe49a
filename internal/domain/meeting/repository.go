package meeting

import (
	"context"
	"time"
)

// RangeQuery selects meetings whose span overlaps [From, To).
type RangeQuery struct {
	RoomID    *string
	Statuses  []Status
	ExcludeID *string
	From      time.Time
	To        time.Time
}

type MeetingRepository interface {
	// Create inserts the meeting together with its attendees.
	Create(ctx context.Context, m Meeting) (Meeting, error)
	GetByID(ctx context.Context, id, companyID string) (Meeting, error)
	List(ctx context.Context, companyID string, filter MeetingFilter) ([]Meeting, int64, error)
	ListInRange(ctx context.Context, companyID string, q RangeQuery) ([]Meeting, error)
	UpdateSchedule(ctx context.Context, m Meeting) error
	UpdateStatus(ctx context.Context, id, companyID string, status Status, reason *string) error
	// ResetRSVP sets every attendee except the organizer back to pending.
	ResetRSVP(ctx context.Context, meetingID, organizerID string) error
	UpdateRSVP(ctx context.Context, meetingID, employeeID string, rsvp RSVPStatus, respondedAt time.Time) error

	// Background jobs, across companies.
	ListDueReminders(ctx context.Context, now time.Time, lead time.Duration) ([]Meeting, error)
	MarkReminded(ctx context.Context, ids []string, at time.Time) error
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}
