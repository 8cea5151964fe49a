package overtime

import (
	"errors"
	"strings"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/interval"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/validator"
)

const (
	// MaxDuration is the longest single overtime request.
	MaxDuration = 12 * time.Hour
	// MaxReportDays bounds the daily report range.
	MaxReportDays = 93

	maxReasonLength = 1000
)

type SubmitOvertimeRequest struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
	Reason  string `json:"reason"`
}

func (r *SubmitOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartAt) {
		errs.Add("start_at", "start_at is required")
	}
	if validator.IsEmpty(r.EndAt) {
		errs.Add("end_at", "end_at is required")
	}
	if !validator.IsEmpty(r.StartAt) && !validator.IsEmpty(r.EndAt) {
		iv, err := interval.Parse(r.StartAt, r.EndAt, "")
		switch {
		case errors.Is(err, interval.ErrInvalidDate):
			if _, ok := validator.IsValidDateTime(r.StartAt); !ok {
				errs.Add("start_at", "start_at must be an RFC 3339 timestamp")
			}
			if _, ok := validator.IsValidDateTime(r.EndAt); !ok {
				errs.Add("end_at", "end_at must be an RFC 3339 timestamp")
			}
		case errors.Is(err, interval.ErrInvalidInterval), err == nil && iv.IsEmpty():
			errs.Add("end_at", "end_at must be after start_at")
		case iv.Duration() > MaxDuration:
			errs.Add("end_at", "overtime must not exceed 12 hours")
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if !validator.MaxLength(r.Reason, maxReasonLength) {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

func (r *SubmitOvertimeRequest) Span() (interval.Interval, error) {
	return interval.Parse(r.StartAt, r.EndAt, "")
}

type RejectOvertimeRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if !validator.MaxLength(r.Reason, maxReasonLength) {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

type OvertimeFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	From       *string `json:"from,omitempty"`
	To         *string `json:"to,omitempty"`

	// Resolved by the service
	RangeFrom *time.Time `json:"-"`
	RangeTo   *time.Time `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

var validStatuses = []string{
	string(StatusWaitingApproval),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusCancelled),
}

func (f *OvertimeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
	}
	if f.From != nil {
		if _, ok := validator.IsValidDate(*f.From); !ok {
			errs.Add("from", "from must be a date in YYYY-MM-DD format")
		}
	}
	if f.To != nil {
		if _, ok := validator.IsValidDate(*f.To); !ok {
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

	return errs.Err()
}

type DailyReportRequest struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

// Dates validates the request and returns the inclusive day range.
func (r *DailyReportRequest) Dates() (from, to interval.Date, err error) {
	var errs validator.ValidationErrors

	from, fromErr := interval.ParseDate(r.From)
	if fromErr != nil {
		errs.Add("from", "from must be a date in YYYY-MM-DD format")
	}
	to, toErr := interval.ParseDate(r.To)
	if toErr != nil {
		errs.Add("to", "to must be a date in YYYY-MM-DD format")
	}
	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs.Add("employee_id", "employee_id must not be empty")
	}
	if fromErr == nil && toErr == nil {
		if to.Before(from) {
			errs.Add("to", "to must not be before from")
		} else if from.DaysUntil(to)+1 > MaxReportDays {
			return from, to, ErrReportRangeTooLarge
		}
	}

	return from, to, errs.Err()
}

// ============= Response DTOs =============

type OvertimeResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	StartAt         string  `json:"start_at"`
	EndAt           string  `json:"end_at"`
	DurationMinutes int64   `json:"duration_minutes"`
	Reason          string  `json:"reason"`
	Status          Status  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ListOvertimeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Requests   []OvertimeResponse `json:"requests"`
}

type EmployeeMinutes struct {
	EmployeeID string `json:"employee_id"`
	Minutes    int64  `json:"minutes"`
}

type DailyTotal struct {
	Date      string            `json:"date"`
	Minutes   int64             `json:"minutes"`
	Employees []EmployeeMinutes `json:"employees"`
}

type DailyReportResponse struct {
	From         string       `json:"from"`
	To           string       `json:"to"`
	Timezone     string       `json:"timezone"`
	Days         []DailyTotal `json:"days"`
	TotalMinutes int64        `json:"total_minutes"`
}
