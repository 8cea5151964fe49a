package overtime

import (
	"context"
	"time"
)

type OvertimeRepository interface {
	Create(ctx context.Context, req OvertimeRequest) (OvertimeRequest, error)
	GetByID(ctx context.Context, id, companyID string) (OvertimeRequest, error)
	// GetForUpdate locks the request row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id, companyID string) (OvertimeRequest, error)
	List(ctx context.Context, companyID string, filter OvertimeFilter) ([]OvertimeRequest, int64, error)
	// ListActiveByEmployee returns waiting and approved requests overlapping [from, to).
	ListActiveByEmployee(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]OvertimeRequest, error)
	// ListApprovedInRange returns approved requests overlapping [from, to),
	// optionally for a single employee.
	ListApprovedInRange(ctx context.Context, companyID string, employeeID *string, from, to time.Time) ([]OvertimeRequest, error)
	UpdateStatus(ctx context.Context, req OvertimeRequest) error
}
