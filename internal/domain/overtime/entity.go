package overtime

import (
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/interval"
)

type Status string

const (
	StatusWaitingApproval Status = "waiting_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusCancelled       Status = "cancelled"
)

// OvertimeRequest entity
type OvertimeRequest struct {
	ID         string
	CompanyID  string
	EmployeeID string

	StartAt time.Time
	EndAt   time.Time
	Reason  string

	Status          Status // 'waiting_approval', 'approved', 'rejected', 'cancelled'
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the worked span tagged with the employee ID.
func (o OvertimeRequest) Interval() (interval.Interval, error) {
	return interval.New(o.StartAt, o.EndAt, o.EmployeeID)
}

func (o OvertimeRequest) IsPending() bool {
	return o.Status == StatusWaitingApproval
}
