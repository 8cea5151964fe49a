package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeMeetingInvited     NotificationType = "meeting_invited"
	TypeMeetingRescheduled NotificationType = "meeting_rescheduled"
	TypeMeetingCancelled   NotificationType = "meeting_cancelled"
	TypeMeetingReminder    NotificationType = "meeting_reminder"
	TypeMeetingRSVP        NotificationType = "meeting_rsvp"
	TypeOvertimeApproved   NotificationType = "overtime_approved"
	TypeOvertimeRejected   NotificationType = "overtime_rejected"
)

// Notification represents a notification entity. RecipientID and SenderID
// are employee IDs.
type Notification struct {
	ID          string
	CompanyID   string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
