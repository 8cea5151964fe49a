package meeting

import "context"

type MeetingService interface {
	CreateMeeting(ctx context.Context, req CreateMeetingRequest) (MeetingResponse, error)
	GetMeeting(ctx context.Context, id string) (MeetingResponse, error)
	ListMeetings(ctx context.Context, filter MeetingFilter) (ListMeetingResponse, error)
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (AvailabilityResponse, error)
	RescheduleMeeting(ctx context.Context, req RescheduleMeetingRequest) (MeetingResponse, error)
	CancelMeeting(ctx context.Context, req CancelMeetingRequest) (MeetingResponse, error)
	RespondRSVP(ctx context.Context, req RSVPRequest) (MeetingResponse, error)
	RoomUtilization(ctx context.Context, req UtilizationRequest) (UtilizationResponse, error)
	DetectConflicts(ctx context.Context, req ConflictReportRequest) (ConflictReportResponse, error)

	// Background jobs
	SendReminders(ctx context.Context) (int, error)
	CompletePastMeetings(ctx context.Context) (int64, error)
}
