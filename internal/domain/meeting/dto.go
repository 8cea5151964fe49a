package meeting

import (
	"errors"
	"strings"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/interval"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/validator"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
	maxAttendees         = 100
	// MaxReportDays bounds utilisation and conflict reports.
	MaxReportDays = 93
)

type CreateMeetingRequest struct {
	RoomID      string   `json:"room_id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	StartAt     string   `json:"start_at"`
	EndAt       string   `json:"end_at"`
	AttendeeIDs []string `json:"attendee_ids"`
}

func (r *CreateMeetingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RoomID) {
		errs.Add("room_id", "room_id is required")
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if !validator.MaxLength(r.Title, maxTitleLength) {
		errs.Add("title", "title must not exceed 200 characters")
	}
	if r.Description != nil && !validator.MaxLength(*r.Description, maxDescriptionLength) {
		errs.Add("description", "description must not exceed 2000 characters")
	}
	validateSlot(&errs, r.StartAt, r.EndAt)

	if len(r.AttendeeIDs) > maxAttendees {
		errs.Add("attendee_ids", "a meeting can have at most 100 attendees")
	}
	for _, id := range r.AttendeeIDs {
		if validator.IsEmpty(id) {
			errs.Add("attendee_ids", "attendee_ids must not contain empty values")
			break
		}
	}

	return errs.Err()
}

// Slot parses the requested span. Call after Validate.
func (r *CreateMeetingRequest) Slot() (interval.Interval, error) {
	return interval.Parse(r.StartAt, r.EndAt, "")
}

type RescheduleMeetingRequest struct {
	ID      string  `json:"-"`
	RoomID  *string `json:"room_id,omitempty"`
	StartAt string  `json:"start_at"`
	EndAt   string  `json:"end_at"`
}

func (r *RescheduleMeetingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.RoomID != nil && validator.IsEmpty(*r.RoomID) {
		errs.Add("room_id", "room_id must not be empty")
	}
	validateSlot(&errs, r.StartAt, r.EndAt)

	return errs.Err()
}

func (r *RescheduleMeetingRequest) Slot() (interval.Interval, error) {
	return interval.Parse(r.StartAt, r.EndAt, r.ID)
}

type CancelMeetingRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

func (r *CancelMeetingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Reason != nil && !validator.MaxLength(*r.Reason, 500) {
		errs.Add("reason", "reason must not exceed 500 characters")
	}

	return errs.Err()
}

type RSVPRequest struct {
	MeetingID string     `json:"-"`
	Response  RSVPStatus `json:"response"`
}

func (r *RSVPRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.MeetingID) {
		errs.Add("id", "id is required")
	}
	switch r.Response {
	case RSVPAccepted, RSVPDeclined, RSVPTentative:
	case "":
		errs.Add("response", "response is required")
	default:
		errs.Add("response", "response must be one of: accepted, declined, tentative")
	}

	return errs.Err()
}

type AvailabilityRequest struct {
	RoomID  string `json:"room_id"`
	StartAt string `json:"start"`
	EndAt   string `json:"end"`
}

func (r *AvailabilityRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RoomID) {
		errs.Add("room_id", "room_id is required")
	}
	validateSlotFields(&errs, "start", "end", r.StartAt, r.EndAt)

	return errs.Err()
}

func (r *AvailabilityRequest) Slot() (interval.Interval, error) {
	return interval.Parse(r.StartAt, r.EndAt, "")
}

type MeetingFilter struct {
	RoomID *string `json:"room_id,omitempty"`
	Status *string `json:"status,omitempty"`
	From   *string `json:"from,omitempty"` // YYYY-MM-DD, inclusive
	To     *string `json:"to,omitempty"`   // YYYY-MM-DD, inclusive
	Mine   bool    `json:"mine,omitempty"`

	// Resolved by the service
	ParticipantID *string    `json:"-"`
	RangeFrom     *time.Time `json:"-"`
	RangeTo       *time.Time `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // by start_at
}

func (f *MeetingFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{
		string(StatusScheduled), string(StatusCancelled), string(StatusCompleted),
	}) {
		errs.Add("status", "status must be one of: scheduled, cancelled, completed")
	}
	if f.From != nil {
		if _, err := interval.ParseDate(*f.From); err != nil {
			errs.Add("from", "from must be a date in YYYY-MM-DD format")
		}
	}
	if f.To != nil {
		if _, err := interval.ParseDate(*f.To); err != nil {
			errs.Add("to", "to must be a date in YYYY-MM-DD format")
		}
	}

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "asc"
	}

	return errs.Err()
}

// DateRangeRequest is an inclusive range of calendar days.
type DateRangeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Dates parses and checks the range, returning validator errors keyed by field.
func (r DateRangeRequest) Dates() (from, to interval.Date, err error) {
	var errs validator.ValidationErrors

	from, fromErr := interval.ParseDate(r.From)
	if fromErr != nil {
		errs.Add("from", "from must be a date in YYYY-MM-DD format")
	}
	to, toErr := interval.ParseDate(r.To)
	if toErr != nil {
		errs.Add("to", "to must be a date in YYYY-MM-DD format")
	}
	if fromErr == nil && toErr == nil {
		if to.Before(from) {
			errs.Add("to", "to must not be before from")
		} else if from.DaysUntil(to)+1 > MaxReportDays {
			return from, to, ErrRangeTooLarge
		}
	}

	return from, to, errs.Err()
}

type UtilizationRequest struct {
	RoomID string `json:"room_id"`
	DateRangeRequest
}

type ConflictReportRequest struct {
	DateRangeRequest
}

func validateSlot(errs *validator.ValidationErrors, start, end string) {
	validateSlotFields(errs, "start_at", "end_at", start, end)
}

func validateSlotFields(errs *validator.ValidationErrors, startField, endField, start, end string) {
	if validator.IsEmpty(start) {
		errs.Add(startField, startField+" is required")
	}
	if validator.IsEmpty(end) {
		errs.Add(endField, endField+" is required")
	}
	if validator.IsEmpty(start) || validator.IsEmpty(end) {
		return
	}

	iv, err := interval.Parse(start, end, "")
	switch {
	case errors.Is(err, interval.ErrInvalidDate):
		if _, ok := validator.IsValidDateTime(start); !ok {
			errs.Add(startField, startField+" must be an RFC 3339 timestamp")
		}
		if _, ok := validator.IsValidDateTime(end); !ok {
			errs.Add(endField, endField+" must be an RFC 3339 timestamp")
		}
	case errors.Is(err, interval.ErrInvalidInterval), err == nil && iv.IsEmpty():
		errs.Add(endField, endField+" must be after "+startField)
	}
}

// ============= Response DTOs =============

type AttendeeResponse struct {
	EmployeeID  string     `json:"employee_id"`
	RSVP        RSVPStatus `json:"rsvp"`
	RespondedAt *string    `json:"responded_at,omitempty"`
}

type MeetingResponse struct {
	ID              string             `json:"id"`
	RoomID          string             `json:"room_id"`
	RoomName        *string            `json:"room_name,omitempty"`
	OrganizerID     string             `json:"organizer_id"`
	Title           string             `json:"title"`
	Description     *string            `json:"description,omitempty"`
	StartAt         string             `json:"start_at"`
	EndAt           string             `json:"end_at"`
	DurationMinutes int64              `json:"duration_minutes"`
	Status          Status             `json:"status"`
	CancelReason    *string            `json:"cancel_reason,omitempty"`
	Attendees       []AttendeeResponse `json:"attendees"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

type ListMeetingResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Showing    string            `json:"showing"`
	Meetings   []MeetingResponse `json:"meetings"`
}

// MeetingSummary is the short form used in conflict listings.
type MeetingSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

type AvailabilityResponse struct {
	RoomID    string           `json:"room_id"`
	StartAt   string           `json:"start"`
	EndAt     string           `json:"end"`
	Available bool             `json:"available"`
	Conflicts []MeetingSummary `json:"conflicts"`
}

type DailyUsage struct {
	Date           string  `json:"date"`
	BookedMinutes  int64   `json:"booked_minutes"`
	UtilizationPct float64 `json:"utilization_pct"`
}

type UtilizationResponse struct {
	RoomID              string       `json:"room_id"`
	RoomName            string       `json:"room_name"`
	From                string       `json:"from"`
	To                  string       `json:"to"`
	Timezone            string       `json:"timezone"`
	OfficeMinutesPerDay int64        `json:"office_minutes_per_day"`
	Days                []DailyUsage `json:"days"`
	TotalMinutes        int64        `json:"total_minutes"`
	UtilizationPct      float64      `json:"utilization_pct"`
}

type ConflictPairResponse struct {
	First  MeetingSummary `json:"first"`
	Second MeetingSummary `json:"second"`
}

type RoomConflicts struct {
	RoomID    string                 `json:"room_id"`
	RoomName  *string                `json:"room_name,omitempty"`
	Conflicts []ConflictPairResponse `json:"conflicts"`
}

type ConflictReportResponse struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	TotalPairs int             `json:"total_pairs"`
	Rooms      []RoomConflicts `json:"rooms"`
}
