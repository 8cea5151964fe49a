package response

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/room"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/interval"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Room bookings carry the meeting they collide with
	var conflict *meeting.ConflictError
	if errors.As(err, &conflict) {
		ConflictWithDetails(w, "Room is already booked for this time", map[string]string{
			"meeting_id": conflict.MeetingID,
			"title":      conflict.Title,
			"start_at":   conflict.StartAt.Format(time.RFC3339),
			"end_at":     conflict.EndAt.Format(time.RFC3339),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, "Employee profile required")
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "Company membership required")

	// Interval errors
	case errors.Is(err, interval.ErrInvalidInterval):
		BadRequest(w, "End must not be before start", nil)
	case errors.Is(err, interval.ErrInvalidDate):
		BadRequest(w, "Invalid date or timestamp", nil)

	// Room domain errors
	case errors.Is(err, room.ErrRoomNotFound):
		NotFound(w, "Meeting room not found")
	case errors.Is(err, room.ErrRoomNameExists):
		Conflict(w, "Meeting room name already exists")
	case errors.Is(err, room.ErrRoomInactive):
		BadRequest(w, "Meeting room is inactive", nil)

	// Meeting domain errors
	case errors.Is(err, meeting.ErrMeetingNotFound):
		NotFound(w, "Meeting not found")
	case errors.Is(err, meeting.ErrRoomConflict):
		Conflict(w, "Room is already booked for this time")
	case errors.Is(err, meeting.ErrMeetingAlreadyCancelled):
		Conflict(w, "Meeting already cancelled")
	case errors.Is(err, meeting.ErrMeetingNotScheduled):
		Conflict(w, "Meeting is no longer scheduled")
	case errors.Is(err, meeting.ErrNotOrganizer):
		Forbidden(w, "Only the organizer can change this meeting")
	case errors.Is(err, meeting.ErrNotAttendee):
		Forbidden(w, "You are not invited to this meeting")
	case errors.Is(err, meeting.ErrRangeTooLarge):
		BadRequest(w, "Date range is too large", nil)
	case errors.Is(err, meeting.ErrRoomCapacityExceeded):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, meeting.ErrStartInPast):
		BadRequest(w, "Meeting cannot start in the past", nil)

	// Overtime domain errors
	case errors.Is(err, overtime.ErrOvertimeNotFound):
		NotFound(w, "Overtime request not found")
	case errors.Is(err, overtime.ErrOverlappingOvertime):
		Conflict(w, "Overtime overlaps an existing request")
	case errors.Is(err, overtime.ErrOvertimeAlreadyProcessed):
		Conflict(w, "Overtime request already processed")
	case errors.Is(err, overtime.ErrNotRequestOwner):
		Forbidden(w, "Overtime request belongs to another employee")
	case errors.Is(err, overtime.ErrReportRangeTooLarge):
		BadRequest(w, "Date range is too large", nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
