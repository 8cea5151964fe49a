package overtime

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "company-1"

type noopTx struct{}

func (noopTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOvertimeRepo struct {
	requests map[string]overtime.OvertimeRequest
}

func newFakeOvertimeRepo() *fakeOvertimeRepo {
	return &fakeOvertimeRepo{requests: make(map[string]overtime.OvertimeRequest)}
}

func (f *fakeOvertimeRepo) Create(_ context.Context, o overtime.OvertimeRequest) (overtime.OvertimeRequest, error) {
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.requests[o.ID] = o
	return o, nil
}

func (f *fakeOvertimeRepo) GetByID(_ context.Context, id, companyID string) (overtime.OvertimeRequest, error) {
	o, ok := f.requests[id]
	if !ok || o.CompanyID != companyID {
		return overtime.OvertimeRequest{}, overtime.ErrOvertimeNotFound
	}
	return o, nil
}

func (f *fakeOvertimeRepo) GetForUpdate(ctx context.Context, id, companyID string) (overtime.OvertimeRequest, error) {
	return f.GetByID(ctx, id, companyID)
}

func (f *fakeOvertimeRepo) List(_ context.Context, companyID string, filter overtime.OvertimeFilter) ([]overtime.OvertimeRequest, int64, error) {
	var out []overtime.OvertimeRequest
	for _, o := range f.requests {
		switch {
		case o.CompanyID != companyID:
		case filter.EmployeeID != nil && o.EmployeeID != *filter.EmployeeID:
		case filter.Status != nil && string(o.Status) != *filter.Status:
		default:
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOvertimeRepo) inRange(companyID string, employeeID *string, from, to time.Time, statuses ...overtime.Status) []overtime.OvertimeRequest {
	var out []overtime.OvertimeRequest
	for _, o := range f.requests {
		switch {
		case o.CompanyID != companyID:
		case employeeID != nil && o.EmployeeID != *employeeID:
		case !slices.Contains(statuses, o.Status):
		case !o.StartAt.Before(to) || !o.EndAt.After(from):
		default:
			out = append(out, o)
		}
	}
	return out
}

func (f *fakeOvertimeRepo) ListActiveByEmployee(_ context.Context, companyID, employeeID string, from, to time.Time) ([]overtime.OvertimeRequest, error) {
	return f.inRange(companyID, &employeeID, from, to, overtime.StatusWaitingApproval, overtime.StatusApproved), nil
}

func (f *fakeOvertimeRepo) ListApprovedInRange(_ context.Context, companyID string, employeeID *string, from, to time.Time) ([]overtime.OvertimeRequest, error) {
	return f.inRange(companyID, employeeID, from, to, overtime.StatusApproved), nil
}

func (f *fakeOvertimeRepo) UpdateStatus(_ context.Context, o overtime.OvertimeRequest) error {
	f.requests[o.ID] = o
	return nil
}

type captureNotifier struct {
	notification.Service

	mu   sync.Mutex
	sent []notification.CreateNotificationRequest
}

func (c *captureNotifier) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, req)
	return nil
}

func contextAs(t *testing.T, employeeID string, role user.Role) context.Context {
	t.Helper()
	j := jwt.NewJWTService("overtime-test-secret", "1h")
	tokenString, _, err := j.GenerateAccessToken(user.Identity{
		UserID:     "user-" + employeeID,
		EmployeeID: employeeID,
		CompanyID:  company,
		Role:       role,
	})
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(j.JWTAuth(), tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2030, 1, day, hour, minute, 0, 0, time.UTC)
}

func rfc(t time.Time) string { return t.Format(time.RFC3339) }

func newTestService(repo *fakeOvertimeRepo, notifier notification.Service, loc *time.Location) *overtimeServiceImpl {
	svc := NewOvertimeService(noopTx{}, repo, notifier, loc).(*overtimeServiceImpl)
	svc.now = func() time.Time { return at(10, 9, 0) }
	return svc
}

func seed(repo *fakeOvertimeRepo, id, employeeID string, start, end time.Time, status overtime.Status) {
	repo.requests[id] = overtime.OvertimeRequest{
		ID: id, CompanyID: company, EmployeeID: employeeID,
		StartAt: start, EndAt: end, Reason: "release", Status: status,
	}
}

func TestSubmit(t *testing.T) {
	repo := newFakeOvertimeRepo()
	svc := newTestService(repo, nil, nil)
	ctx := contextAs(t, "emp-1", user.RoleEmployee)

	resp, err := svc.Submit(ctx, overtime.SubmitOvertimeRequest{
		StartAt: rfc(at(7, 18, 0)),
		EndAt:   rfc(at(7, 21, 30)),
		Reason:  "Production deploy",
	})
	require.NoError(t, err)
	assert.True(t, validator.IsValidUUID(resp.ID))
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, overtime.StatusWaitingApproval, resp.Status)
	assert.Equal(t, int64(210), resp.DurationMinutes)
}

func TestSubmit_Overlap(t *testing.T) {
	repo := newFakeOvertimeRepo()
	svc := newTestService(repo, nil, nil)
	seed(repo, "waiting", "emp-1", at(7, 18, 0), at(7, 20, 0), overtime.StatusWaitingApproval)
	seed(repo, "rejected", "emp-1", at(8, 18, 0), at(8, 20, 0), overtime.StatusRejected)
	seed(repo, "other", "emp-2", at(9, 18, 0), at(9, 20, 0), overtime.StatusApproved)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"overlaps waiting request", at(7, 19, 0), at(7, 21, 0), overtime.ErrOverlappingOvertime},
		{"touches waiting request", at(7, 20, 0), at(7, 22, 0), nil},
		{"overlaps rejected request", at(8, 19, 0), at(8, 21, 0), nil},
		{"overlaps another employee", at(9, 19, 0), at(9, 21, 0), nil},
	}

	ctx := contextAs(t, "emp-1", user.RoleEmployee)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, overtime.SubmitOvertimeRequest{
				StartAt: rfc(tt.start),
				EndAt:   rfc(tt.end),
				Reason:  "Incident",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc := newTestService(newFakeOvertimeRepo(), nil, nil)
	ctx := contextAs(t, "emp-1", user.RoleEmployee)

	tests := []struct {
		name  string
		req   overtime.SubmitOvertimeRequest
		field string
	}{
		{"missing reason", overtime.SubmitOvertimeRequest{StartAt: rfc(at(7, 18, 0)), EndAt: rfc(at(7, 19, 0))}, "reason"},
		{"end before start", overtime.SubmitOvertimeRequest{StartAt: rfc(at(7, 19, 0)), EndAt: rfc(at(7, 18, 0)), Reason: "x"}, "end_at"},
		{"zero length", overtime.SubmitOvertimeRequest{StartAt: rfc(at(7, 19, 0)), EndAt: rfc(at(7, 19, 0)), Reason: "x"}, "end_at"},
		{"longer than 12 hours", overtime.SubmitOvertimeRequest{StartAt: rfc(at(7, 8, 0)), EndAt: rfc(at(7, 20, 1)), Reason: "x"}, "end_at"},
		{"not a timestamp", overtime.SubmitOvertimeRequest{StartAt: "yesterday", EndAt: rfc(at(7, 19, 0)), Reason: "x"}, "start_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestApproveAndReject(t *testing.T) {
	repo := newFakeOvertimeRepo()
	notifier := &captureNotifier{}
	svc := newTestService(repo, notifier, nil)
	seed(repo, "ot-1", "emp-1", at(7, 18, 0), at(7, 20, 0), overtime.StatusWaitingApproval)
	seed(repo, "ot-2", "emp-2", at(7, 18, 0), at(7, 20, 0), overtime.StatusWaitingApproval)

	manager := contextAs(t, "mgr-1", user.RoleManager)

	_, err := svc.Approve(contextAs(t, "emp-3", user.RoleEmployee), "ot-1")
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	resp, err := svc.Approve(manager, "ot-1")
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusApproved, resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, "mgr-1", *resp.ApprovedBy)
	assert.Equal(t, "2030-01-10T09:00:00Z", *resp.ApprovedAt)

	_, err = svc.Approve(manager, "ot-1")
	assert.ErrorIs(t, err, overtime.ErrOvertimeAlreadyProcessed)

	_, err = svc.Reject(manager, overtime.RejectOvertimeRequest{ID: "ot-2"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	resp, err = svc.Reject(manager, overtime.RejectOvertimeRequest{ID: "ot-2", Reason: "Not pre-agreed"})
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusRejected, resp.Status)
	assert.Equal(t, "Not pre-agreed", *resp.RejectionReason)

	_, err = svc.Approve(manager, "ot-404")
	assert.ErrorIs(t, err, overtime.ErrOvertimeNotFound)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "emp-1", notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeOvertimeApproved, notifier.sent[0].Type)
	assert.Equal(t, "emp-2", notifier.sent[1].RecipientID)
	assert.Equal(t, notification.TypeOvertimeRejected, notifier.sent[1].Type)
	assert.Equal(t, "mgr-1", *notifier.sent[1].SenderID)
}

func TestCancel(t *testing.T) {
	repo := newFakeOvertimeRepo()
	svc := newTestService(repo, nil, nil)
	seed(repo, "ot-1", "emp-1", at(7, 18, 0), at(7, 20, 0), overtime.StatusWaitingApproval)
	seed(repo, "ot-2", "emp-1", at(8, 18, 0), at(8, 20, 0), overtime.StatusApproved)

	_, err := svc.Cancel(contextAs(t, "emp-2", user.RoleManager), "ot-1")
	assert.ErrorIs(t, err, overtime.ErrNotRequestOwner)

	owner := contextAs(t, "emp-1", user.RoleEmployee)
	resp, err := svc.Cancel(owner, "ot-1")
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusCancelled, resp.Status)

	_, err = svc.Cancel(owner, "ot-2")
	assert.ErrorIs(t, err, overtime.ErrOvertimeAlreadyProcessed)

	// cancelled requests free the slot
	_, err = svc.Submit(owner, overtime.SubmitOvertimeRequest{StartAt: rfc(at(7, 18, 0)), EndAt: rfc(at(7, 19, 0)), Reason: "retry"})
	assert.NoError(t, err)
}

func TestGetAndList_Visibility(t *testing.T) {
	repo := newFakeOvertimeRepo()
	svc := newTestService(repo, nil, nil)
	seed(repo, "ot-1", "emp-1", at(7, 18, 0), at(7, 20, 0), overtime.StatusWaitingApproval)
	seed(repo, "ot-2", "emp-2", at(7, 18, 0), at(7, 20, 0), overtime.StatusApproved)

	employee := contextAs(t, "emp-1", user.RoleEmployee)

	_, err := svc.Get(employee, "ot-2")
	assert.ErrorIs(t, err, overtime.ErrNotRequestOwner)

	resp, err := svc.Get(employee, "ot-1")
	require.NoError(t, err)
	assert.Equal(t, "ot-1", resp.ID)

	other := "emp-2"
	list, err := svc.List(employee, overtime.OvertimeFilter{EmployeeID: &other})
	require.NoError(t, err)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, "emp-1", list.Requests[0].EmployeeID)

	list, err = svc.List(contextAs(t, "mgr-1", user.RoleManager), overtime.OvertimeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)
	assert.Equal(t, "1-2 of 2 results", list.Showing)
	assert.Equal(t, 1, list.TotalPages)
}

func TestDailyReport(t *testing.T) {
	repo := newFakeOvertimeRepo()
	svc := newTestService(repo, nil, nil)

	seed(repo, "a", "emp-1", at(7, 18, 0), at(7, 20, 0), overtime.StatusApproved)
	seed(repo, "b", "emp-2", at(7, 22, 0), at(8, 1, 30), overtime.StatusApproved) // crosses midnight
	seed(repo, "c", "emp-1", at(8, 19, 0), at(8, 20, 0), overtime.StatusApproved)
	seed(repo, "d", "emp-1", at(9, 18, 0), at(9, 23, 0), overtime.StatusWaitingApproval)
	seed(repo, "e", "emp-3", at(6, 23, 0), at(7, 0, 30), overtime.StatusApproved) // starts before range

	resp, err := svc.DailyReport(contextAs(t, "mgr-1", user.RoleManager), overtime.DailyReportRequest{
		From: "2030-01-07",
		To:   "2030-01-09",
	})
	require.NoError(t, err)

	assert.Equal(t, "UTC", resp.Timezone)
	require.Len(t, resp.Days, 3)

	assert.Equal(t, "2030-01-07", resp.Days[0].Date)
	assert.Equal(t, int64(30+120+120), resp.Days[0].Minutes)
	assert.Equal(t, []overtime.EmployeeMinutes{
		{EmployeeID: "emp-1", Minutes: 120},
		{EmployeeID: "emp-2", Minutes: 120},
		{EmployeeID: "emp-3", Minutes: 30},
	}, resp.Days[0].Employees)

	assert.Equal(t, "2030-01-08", resp.Days[1].Date)
	assert.Equal(t, int64(90+60), resp.Days[1].Minutes)
	assert.Equal(t, []overtime.EmployeeMinutes{
		{EmployeeID: "emp-1", Minutes: 60},
		{EmployeeID: "emp-2", Minutes: 90},
	}, resp.Days[1].Employees)

	assert.Equal(t, "2030-01-09", resp.Days[2].Date)
	assert.Equal(t, int64(0), resp.Days[2].Minutes)
	assert.Empty(t, resp.Days[2].Employees)

	assert.Equal(t, int64(420), resp.TotalMinutes)
}

func TestDailyReport_SingleEmployeeAndTimezone(t *testing.T) {
	repo := newFakeOvertimeRepo()
	svc := newTestService(repo, nil, time.FixedZone("WIB", 7*60*60))

	// 16:00-18:00 UTC is 23:00-01:00 in UTC+7
	seed(repo, "a", "emp-1", at(7, 16, 0), at(7, 18, 0), overtime.StatusApproved)
	seed(repo, "b", "emp-2", at(7, 3, 0), at(7, 4, 0), overtime.StatusApproved)

	employeeID := "emp-1"
	resp, err := svc.DailyReport(contextAs(t, "mgr-1", user.RoleOwner), overtime.DailyReportRequest{
		From:       "2030-01-07",
		To:         "2030-01-08",
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)
	assert.Equal(t, "WIB", resp.Timezone)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, int64(60), resp.Days[0].Minutes)
	assert.Equal(t, int64(60), resp.Days[1].Minutes)
	assert.Equal(t, int64(120), resp.TotalMinutes)
}

func TestDailyReport_Rejections(t *testing.T) {
	svc := newTestService(newFakeOvertimeRepo(), nil, nil)

	_, err := svc.DailyReport(contextAs(t, "emp-1", user.RoleEmployee), overtime.DailyReportRequest{From: "2030-01-07", To: "2030-01-08"})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	manager := contextAs(t, "mgr-1", user.RoleManager)

	_, err = svc.DailyReport(manager, overtime.DailyReportRequest{From: "2030-01-01", To: "2030-12-31"})
	assert.ErrorIs(t, err, overtime.ErrReportRangeTooLarge)

	_, err = svc.DailyReport(manager, overtime.DailyReportRequest{From: "2030-01-08", To: "2030-01-07"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "to")

	_, err = svc.DailyReport(manager, overtime.DailyReportRequest{From: "07/01/2030", To: "2030-01-07"})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "from")
}

type failingNotifier struct {
	notification.Service
}

func (failingNotifier) QueueNotification(context.Context, notification.CreateNotificationRequest) error {
	return errors.New("notification queue unavailable")
}

func TestApprove_NotificationFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	repo := newFakeOvertimeRepo()
	svc := newTestService(repo, failingNotifier{}, nil)
	seed(repo, "ot-1", "emp-1", at(7, 18, 0), at(7, 20, 0), overtime.StatusWaitingApproval)

	resp, err := svc.Approve(contextAs(t, "mgr-1", user.RoleManager), "ot-1")
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusApproved, resp.Status)
	assert.Contains(t, logs.String(), "Failed to queue overtime notification")
	assert.Contains(t, logs.String(), "overtime_id=ot-1")
}
