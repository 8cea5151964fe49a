package overtime

import "context"

type OvertimeService interface {
	Submit(ctx context.Context, req SubmitOvertimeRequest) (OvertimeResponse, error)
	Get(ctx context.Context, id string) (OvertimeResponse, error)
	List(ctx context.Context, filter OvertimeFilter) (ListOvertimeResponse, error)
	Approve(ctx context.Context, id string) (OvertimeResponse, error)
	Reject(ctx context.Context, req RejectOvertimeRequest) (OvertimeResponse, error)
	Cancel(ctx context.Context, id string) (OvertimeResponse, error)
	DailyReport(ctx context.Context, req DailyReportRequest) (DailyReportResponse, error)
}
