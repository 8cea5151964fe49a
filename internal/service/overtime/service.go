package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/interval"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
)

type overtimeServiceImpl struct {
	tx                  database.Transactor
	overtimeRepo        overtime.OvertimeRepository
	notificationService notification.Service
	location            *time.Location
	now                 func() time.Time
}

func NewOvertimeService(
	tx database.Transactor,
	overtimeRepo overtime.OvertimeRepository,
	notificationService notification.Service,
	location *time.Location,
) overtime.OvertimeService {
	if location == nil {
		location = time.UTC
	}
	return &overtimeServiceImpl{
		tx:                  tx,
		overtimeRepo:        overtimeRepo,
		notificationService: notificationService,
		location:            location,
		now:                 time.Now,
	}
}

// Submit implements overtime.OvertimeService.
func (s *overtimeServiceImpl) Submit(ctx context.Context, req overtime.SubmitOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if identity.EmployeeID == "" {
		return overtime.OvertimeResponse{}, user.ErrEmployeeIDRequired
	}
	if !identity.Can(user.PermissionOvertimeCreate) {
		return overtime.OvertimeResponse{}, user.ErrInsufficientPermissions
	}

	span, err := req.Span()
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to generate overtime id: %w", err)
	}

	var created overtime.OvertimeRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		active, err := s.overtimeRepo.ListActiveByEmployee(ctx, identity.CompanyID, identity.EmployeeID, span.Start(), span.End())
		if err != nil {
			return fmt.Errorf("failed to load existing overtime: %w", err)
		}
		if _, ok := interval.FirstConflict(span, intervals(active)); ok {
			return overtime.ErrOverlappingOvertime
		}

		created, err = s.overtimeRepo.Create(ctx, overtime.OvertimeRequest{
			ID:         id.String(),
			CompanyID:  identity.CompanyID,
			EmployeeID: identity.EmployeeID,
			StartAt:    span.Start(),
			EndAt:      span.End(),
			Reason:     req.Reason,
			Status:     overtime.StatusWaitingApproval,
		})
		if err != nil {
			return fmt.Errorf("failed to create overtime request: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return mapOvertimeToResponse(created), nil
}

// Get implements overtime.OvertimeService.
func (s *overtimeServiceImpl) Get(ctx context.Context, id string) (overtime.OvertimeResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	o, err := s.overtimeRepo.GetByID(ctx, id, identity.CompanyID)
	if err != nil {
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to get overtime request: %w", err)
	}
	if o.EmployeeID != identity.EmployeeID && !identity.Can(user.PermissionOvertimeViewAll) {
		return overtime.OvertimeResponse{}, overtime.ErrNotRequestOwner
	}

	return mapOvertimeToResponse(o), nil
}

// List implements overtime.OvertimeService.
func (s *overtimeServiceImpl) List(ctx context.Context, filter overtime.OvertimeFilter) (overtime.ListOvertimeResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.ListOvertimeResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return overtime.ListOvertimeResponse{}, err
	}

	// Employees only ever see their own requests
	if !identity.Can(user.PermissionOvertimeViewAll) {
		if identity.EmployeeID == "" {
			return overtime.ListOvertimeResponse{}, user.ErrEmployeeIDRequired
		}
		filter.EmployeeID = &identity.EmployeeID
	}
	if filter.From != nil {
		day, _ := interval.ParseDate(*filter.From)
		from := day.Start(s.location)
		filter.RangeFrom = &from
	}
	if filter.To != nil {
		day, _ := interval.ParseDate(*filter.To)
		to := day.AddDays(1).Start(s.location)
		filter.RangeTo = &to
	}

	requests, total, err := s.overtimeRepo.List(ctx, identity.CompanyID, filter)
	if err != nil {
		return overtime.ListOvertimeResponse{}, fmt.Errorf("failed to list overtime requests: %w", err)
	}

	responses := make([]overtime.OvertimeResponse, 0, len(requests))
	for _, o := range requests {
		responses = append(responses, mapOvertimeToResponse(o))
	}

	return overtime.ListOvertimeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Showing:    calculateShowingText(filter.Page, filter.Limit, total),
		Requests:   responses,
	}, nil
}

// Approve implements overtime.OvertimeService.
func (s *overtimeServiceImpl) Approve(ctx context.Context, id string) (overtime.OvertimeResponse, error) {
	identity, err := approverIdentity(ctx)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	updated, err := s.decide(ctx, id, identity, func(o *overtime.OvertimeRequest, now time.Time) {
		o.Status = overtime.StatusApproved
		o.ApprovedBy = &identity.EmployeeID
		o.ApprovedAt = &now
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	s.notify(ctx, identity, updated, notification.TypeOvertimeApproved,
		"Overtime Approved",
		fmt.Sprintf("Your overtime on %s was approved", s.formatLocal(updated.StartAt)))

	return mapOvertimeToResponse(updated), nil
}

// Reject implements overtime.OvertimeService.
func (s *overtimeServiceImpl) Reject(ctx context.Context, req overtime.RejectOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	identity, err := approverIdentity(ctx)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	updated, err := s.decide(ctx, req.ID, identity, func(o *overtime.OvertimeRequest, now time.Time) {
		o.Status = overtime.StatusRejected
		o.ApprovedBy = &identity.EmployeeID
		o.ApprovedAt = &now
		o.RejectionReason = &req.Reason
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	s.notify(ctx, identity, updated, notification.TypeOvertimeRejected,
		"Overtime Rejected",
		fmt.Sprintf("Your overtime on %s was rejected: %s", s.formatLocal(updated.StartAt), req.Reason))

	return mapOvertimeToResponse(updated), nil
}

// Cancel implements overtime.OvertimeService.
func (s *overtimeServiceImpl) Cancel(ctx context.Context, id string) (overtime.OvertimeResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	var updated overtime.OvertimeRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := s.overtimeRepo.GetForUpdate(ctx, id, identity.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to get overtime request: %w", err)
		}
		if o.EmployeeID != identity.EmployeeID {
			return overtime.ErrNotRequestOwner
		}
		if !o.IsPending() {
			return overtime.ErrOvertimeAlreadyProcessed
		}

		o.Status = overtime.StatusCancelled
		if err := s.overtimeRepo.UpdateStatus(ctx, o); err != nil {
			return fmt.Errorf("failed to cancel overtime request: %w", err)
		}
		updated = o
		return nil
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return mapOvertimeToResponse(updated), nil
}

// DailyReport implements overtime.OvertimeService.
func (s *overtimeServiceImpl) DailyReport(ctx context.Context, req overtime.DailyReportRequest) (overtime.DailyReportResponse, error) {
	from, to, err := req.Dates()
	if err != nil {
		return overtime.DailyReportResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return overtime.DailyReportResponse{}, err
	}
	if !identity.Can(user.PermissionReportsView) {
		return overtime.DailyReportResponse{}, user.ErrManagerAccessRequired
	}

	windowStart := from.Start(s.location)
	windowEnd := to.AddDays(1).Start(s.location)

	approved, err := s.overtimeRepo.ListApprovedInRange(ctx, identity.CompanyID, req.EmployeeID, windowStart, windowEnd)
	if err != nil {
		return overtime.DailyReportResponse{}, fmt.Errorf("failed to load approved overtime: %w", err)
	}

	window := interval.MustNew(windowStart, windowEnd, "")
	ivs := make([]interval.Interval, 0, len(approved))
	for _, iv := range intervals(approved) {
		if clipped, ok := clip(iv, window); ok {
			ivs = append(ivs, clipped)
		}
	}

	totals := interval.ZeroRange(from, to)
	interval.AggregateInto(totals, ivs, s.location)

	groups := interval.GroupByTag(ivs)
	employeeIDs := make([]string, 0, len(groups))
	for id := range groups {
		employeeIDs = append(employeeIDs, id)
	}
	slices.Sort(employeeIDs)

	breakdown := make(map[interval.Date][]overtime.EmployeeMinutes)
	for _, employeeID := range employeeIDs {
		for day, d := range interval.Aggregate(groups[employeeID], s.location) {
			breakdown[day] = append(breakdown[day], overtime.EmployeeMinutes{
				EmployeeID: employeeID,
				Minutes:    int64(d / time.Minute),
			})
		}
	}

	days := make([]overtime.DailyTotal, 0, len(totals))
	for _, b := range interval.Buckets(totals) {
		employees := breakdown[b.Day]
		if employees == nil {
			employees = []overtime.EmployeeMinutes{}
		}
		days = append(days, overtime.DailyTotal{
			Date:      b.Day.String(),
			Minutes:   int64(b.Duration / time.Minute),
			Employees: employees,
		})
	}

	return overtime.DailyReportResponse{
		From:         from.String(),
		To:           to.String(),
		Timezone:     s.location.String(),
		Days:         days,
		TotalMinutes: int64(interval.Total(totals) / time.Minute),
	}, nil
}

// decide applies a manager decision to a waiting request inside a transaction.
func (s *overtimeServiceImpl) decide(ctx context.Context, id string, identity user.Identity, apply func(o *overtime.OvertimeRequest, now time.Time)) (overtime.OvertimeRequest, error) {
	var updated overtime.OvertimeRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := s.overtimeRepo.GetForUpdate(ctx, id, identity.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to get overtime request: %w", err)
		}
		if !o.IsPending() {
			return overtime.ErrOvertimeAlreadyProcessed
		}

		apply(&o, s.now())
		if err := s.overtimeRepo.UpdateStatus(ctx, o); err != nil {
			return fmt.Errorf("failed to update overtime request: %w", err)
		}
		updated = o
		return nil
	})
	return updated, err
}

func approverIdentity(ctx context.Context) (user.Identity, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.Identity{}, err
	}
	if !identity.Can(user.PermissionOvertimeApprove) {
		return user.Identity{}, user.ErrManagerAccessRequired
	}
	return identity, nil
}

func (s *overtimeServiceImpl) notify(ctx context.Context, actor user.Identity, o overtime.OvertimeRequest, typ notification.NotificationType, title, message string) {
	if s.notificationService == nil || o.EmployeeID == actor.EmployeeID {
		return
	}

	var sender *string
	if actor.EmployeeID != "" {
		sender = &actor.EmployeeID
	}
	err := s.notificationService.QueueNotification(context.WithoutCancel(ctx), notification.CreateNotificationRequest{
		CompanyID:   o.CompanyID,
		RecipientID: o.EmployeeID,
		SenderID:    sender,
		Type:        typ,
		Title:       title,
		Message:     message,
		Data: map[string]interface{}{
			"overtime_id": o.ID,
			"status":      string(o.Status),
		},
	})
	if err != nil {
		slog.Warn("Failed to queue overtime notification",
			"overtime_id", o.ID,
			"recipient_id", o.EmployeeID,
			"type", typ,
			"error", err)
	}
}

func (s *overtimeServiceImpl) formatLocal(t time.Time) string {
	return t.In(s.location).Format("Mon, 02 Jan 2006 15:04 MST")
}

func intervals(requests []overtime.OvertimeRequest) []interval.Interval {
	out := make([]interval.Interval, 0, len(requests))
	for _, o := range requests {
		iv, err := o.Interval()
		if err != nil {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// clip returns the part of iv inside window. ok is false when nothing remains.
func clip(iv, window interval.Interval) (interval.Interval, bool) {
	if !interval.Overlaps(iv, window) {
		return interval.Interval{}, false
	}
	start, end := iv.Start(), iv.End()
	if start.Before(window.Start()) {
		start = window.Start()
	}
	if end.After(window.End()) {
		end = window.End()
	}
	return interval.MustNew(start, end, iv.Tag()), true
}

func mapOvertimeToResponse(o overtime.OvertimeRequest) overtime.OvertimeResponse {
	resp := overtime.OvertimeResponse{
		ID:              o.ID,
		EmployeeID:      o.EmployeeID,
		StartAt:         o.StartAt.Format(time.RFC3339),
		EndAt:           o.EndAt.Format(time.RFC3339),
		DurationMinutes: int64(o.EndAt.Sub(o.StartAt) / time.Minute),
		Reason:          o.Reason,
		Status:          o.Status,
		ApprovedBy:      o.ApprovedBy,
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       o.UpdatedAt.Format(time.RFC3339),
	}
	if o.ApprovedAt != nil {
		approvedAt := o.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	return resp
}

// calculateShowingText generates the "showing X-Y of Z results" text
func calculateShowingText(page, limit int, total int64) string {
	if total == 0 {
		return "0-0 of 0 results"
	}

	start := (page-1)*limit + 1
	end := start + limit - 1

	if end > int(total) {
		end = int(total)
	}

	return fmt.Sprintf("%d-%d of %d results", start, end, total)
}
