package meeting

import (
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/interval"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPAccepted  RSVPStatus = "accepted"
	RSVPDeclined  RSVPStatus = "declined"
	RSVPTentative RSVPStatus = "tentative"
)

// Meeting entity
type Meeting struct {
	ID           string
	CompanyID    string
	RoomID       string
	OrganizerID  string
	Title        string
	Description  *string
	StartAt      time.Time
	EndAt        time.Time
	Status       Status
	CancelReason *string
	RemindedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships (for responses)
	RoomName  *string
	Attendees []Attendee
}

type Attendee struct {
	MeetingID   string
	EmployeeID  string
	RSVP        RSVPStatus
	RespondedAt *time.Time
}

// Interval returns the meeting's booked span tagged with its ID.
func (m Meeting) Interval() (interval.Interval, error) {
	return interval.New(m.StartAt, m.EndAt, m.ID)
}

func (m Meeting) Attendee(employeeID string) (Attendee, bool) {
	for _, a := range m.Attendees {
		if a.EmployeeID == employeeID {
			return a, true
		}
	}
	return Attendee{}, false
}

// Intervals converts meetings into intervals tagged by meeting ID. Meetings
// with an inverted span are skipped.
func Intervals(meetings []Meeting) []interval.Interval {
	ivs := make([]interval.Interval, 0, len(meetings))
	for _, m := range meetings {
		iv, err := m.Interval()
		if err != nil {
			continue
		}
		ivs = append(ivs, iv)
	}
	return ivs
}
