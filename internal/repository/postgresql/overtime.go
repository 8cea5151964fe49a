package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const overtimeColumns = `
	id, company_id, employee_id, start_at, end_at, reason, status,
	approved_by, approved_at, rejection_reason, created_at, updated_at`

type overtimeRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepositoryImpl{db: db}
}

// Create implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) Create(ctx context.Context, o overtime.OvertimeRequest) (overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_requests (
			id, company_id, employee_id, start_at, end_at, reason, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if err := q.QueryRow(ctx, query,
		o.ID, o.CompanyID, o.EmployeeID, o.StartAt, o.EndAt, o.Reason, string(o.Status),
	).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return overtime.OvertimeRequest{}, fmt.Errorf("failed to insert overtime request: %w", err)
	}
	return o, nil
}

// GetByID implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (overtime.OvertimeRequest, error) {
	return r.get(ctx, id, companyID, "")
}

// GetForUpdate implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) GetForUpdate(ctx context.Context, id, companyID string) (overtime.OvertimeRequest, error) {
	return r.get(ctx, id, companyID, "FOR UPDATE")
}

func (r *overtimeRepositoryImpl) get(ctx context.Context, id, companyID, lock string) (overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM overtime_requests
		WHERE id = $1 AND company_id = $2
		%s
	`, overtimeColumns, lock)

	o, err := scanOvertime(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.OvertimeRequest{}, overtime.ErrOvertimeNotFound
		}
		return overtime.OvertimeRequest{}, fmt.Errorf("failed to get overtime request: %w", err)
	}
	return o, nil
}

// List implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) List(ctx context.Context, companyID string, filter overtime.OvertimeFilter) ([]overtime.OvertimeRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.RangeFrom != nil {
		conditions = append(conditions, fmt.Sprintf("end_at > $%d", argIdx))
		args = append(args, *filter.RangeFrom)
		argIdx++
	}
	if filter.RangeTo != nil {
		conditions = append(conditions, fmt.Sprintf("start_at < $%d", argIdx))
		args = append(args, *filter.RangeTo)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM overtime_requests WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM overtime_requests
		WHERE %s
		ORDER BY start_at DESC, id
		LIMIT $%d OFFSET $%d
	`, overtimeColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	requests, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListActiveByEmployee implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) ListActiveByEmployee(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]overtime.OvertimeRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM overtime_requests
		WHERE company_id = $1 AND employee_id = $2
		  AND status = ANY($3)
		  AND start_at < $4 AND end_at > $5
		ORDER BY start_at
	`, overtimeColumns)

	statuses := []string{string(overtime.StatusWaitingApproval), string(overtime.StatusApproved)}
	return r.query(ctx, query, companyID, employeeID, statuses, to, from)
}

// ListApprovedInRange implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) ListApprovedInRange(ctx context.Context, companyID string, employeeID *string, from, to time.Time) ([]overtime.OvertimeRequest, error) {
	conditions := []string{"company_id = $1", "status = $2", "start_at < $3", "end_at > $4"}
	args := []interface{}{companyID, string(overtime.StatusApproved), to, from}

	if employeeID != nil {
		conditions = append(conditions, "employee_id = $5")
		args = append(args, *employeeID)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM overtime_requests
		WHERE %s
		ORDER BY start_at, employee_id
	`, overtimeColumns, strings.Join(conditions, " AND "))

	return r.query(ctx, query, args...)
}

// UpdateStatus implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) UpdateStatus(ctx context.Context, o overtime.OvertimeRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_requests
		SET status = $1, approved_by = $2, approved_at = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $5 AND company_id = $6
	`
	tag, err := q.Exec(ctx, query, string(o.Status), o.ApprovedBy, o.ApprovedAt, o.RejectionReason, o.ID, o.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update overtime request with id %s: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

func (r *overtimeRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime requests: %w", err)
	}
	defer rows.Close()

	var requests []overtime.OvertimeRequest
	for rows.Next() {
		o, err := scanOvertime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, o)
	}
	return requests, rows.Err()
}

func scanOvertime(row pgx.Row) (overtime.OvertimeRequest, error) {
	var o overtime.OvertimeRequest
	var status string
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.EmployeeID, &o.StartAt, &o.EndAt, &o.Reason, &status,
		&o.ApprovedBy, &o.ApprovedAt, &o.RejectionReason, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = overtime.Status(status)
	return o, err
}
