package meeting

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMeetingNotFound         = errors.New("meeting not found")
	ErrRoomConflict            = errors.New("meeting room is already booked for this time")
	ErrMeetingAlreadyCancelled = errors.New("meeting already cancelled")
	ErrMeetingNotScheduled     = errors.New("meeting is no longer scheduled")
	ErrNotAttendee             = errors.New("employee is not invited to this meeting")
	ErrNotOrganizer            = errors.New("only the organizer or a manager can change this meeting")
	ErrRangeTooLarge           = errors.New("date range is too large")
	ErrRoomCapacityExceeded    = errors.New("attendees exceed the room capacity")
	ErrStartInPast             = errors.New("meeting cannot start in the past")
)

// ConflictError reports the booking that blocks a requested slot.
type ConflictError struct {
	MeetingID string
	Title     string
	StartAt   time.Time
	EndAt     time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %q from %s to %s", ErrRoomConflict, e.Title,
		e.StartAt.Format(time.RFC3339), e.EndAt.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error {
	return ErrRoomConflict
}
