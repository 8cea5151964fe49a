package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/room"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/interval"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
)

// Config controls report day boundaries and reminder timing.
type Config struct {
	Location          *time.Location
	OfficeHoursPerDay time.Duration
	ReminderLead      time.Duration
}

type meetingServiceImpl struct {
	tx                  database.Transactor
	meetingRepo         meeting.MeetingRepository
	roomRepo            room.RoomRepository
	notificationService notification.Service
	config              Config
	now                 func() time.Time
}

func NewMeetingService(
	tx database.Transactor,
	meetingRepo meeting.MeetingRepository,
	roomRepo room.RoomRepository,
	notificationService notification.Service,
	cfg Config,
) meeting.MeetingService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.OfficeHoursPerDay <= 0 {
		cfg.OfficeHoursPerDay = 8 * time.Hour
	}
	if cfg.ReminderLead <= 0 {
		cfg.ReminderLead = 15 * time.Minute
	}
	return &meetingServiceImpl{
		tx:                  tx,
		meetingRepo:         meetingRepo,
		roomRepo:            roomRepo,
		notificationService: notificationService,
		config:              cfg,
		now:                 time.Now,
	}
}

// CreateMeeting implements meeting.MeetingService.
func (s *meetingServiceImpl) CreateMeeting(ctx context.Context, req meeting.CreateMeetingRequest) (meeting.MeetingResponse, error) {
	if err := req.Validate(); err != nil {
		return meeting.MeetingResponse{}, err
	}

	identity, err := employeeIdentity(ctx, user.PermissionMeetingCreate)
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	slot, err := req.Slot()
	if err != nil {
		return meeting.MeetingResponse{}, err
	}
	if slot.Start().Before(s.now()) {
		return meeting.MeetingResponse{}, meeting.ErrStartInPast
	}

	id, err := uuid.NewV7()
	if err != nil {
		return meeting.MeetingResponse{}, fmt.Errorf("failed to generate meeting id: %w", err)
	}

	m := meeting.Meeting{
		ID:          id.String(),
		CompanyID:   identity.CompanyID,
		RoomID:      req.RoomID,
		OrganizerID: identity.EmployeeID,
		Title:       req.Title,
		Description: req.Description,
		StartAt:     slot.Start(),
		EndAt:       slot.End(),
		Status:      meeting.StatusScheduled,
	}

	now := s.now()
	m.Attendees = []meeting.Attendee{{
		MeetingID:   m.ID,
		EmployeeID:  identity.EmployeeID,
		RSVP:        meeting.RSVPAccepted,
		RespondedAt: &now,
	}}
	for _, employeeID := range dedupe(req.AttendeeIDs) {
		if employeeID == identity.EmployeeID {
			continue
		}
		m.Attendees = append(m.Attendees, meeting.Attendee{
			MeetingID:  m.ID,
			EmployeeID: employeeID,
			RSVP:       meeting.RSVPPending,
		})
	}

	var created meeting.Meeting
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.lockBookableRoom(ctx, m.RoomID, identity.CompanyID, len(m.Attendees))
		if err != nil {
			return err
		}
		if err := s.ensureSlotFree(ctx, identity.CompanyID, m.RoomID, slot, nil); err != nil {
			return err
		}

		created, err = s.meetingRepo.Create(ctx, m)
		if err != nil {
			return fmt.Errorf("failed to create meeting: %w", err)
		}
		created.RoomName = &r.Name
		return nil
	})
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	s.notifyAttendees(ctx, created, identity.EmployeeID, notification.TypeMeetingInvited,
		"Meeting Invitation",
		fmt.Sprintf("You are invited to %q on %s", created.Title, s.formatLocal(created.StartAt)))

	return s.mapMeetingToResponse(created), nil
}

// GetMeeting implements meeting.MeetingService.
func (s *meetingServiceImpl) GetMeeting(ctx context.Context, id string) (meeting.MeetingResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	m, err := s.meetingRepo.GetByID(ctx, id, identity.CompanyID)
	if err != nil {
		return meeting.MeetingResponse{}, fmt.Errorf("failed to get meeting: %w", err)
	}
	return s.mapMeetingToResponse(m), nil
}

// ListMeetings implements meeting.MeetingService.
func (s *meetingServiceImpl) ListMeetings(ctx context.Context, filter meeting.MeetingFilter) (meeting.ListMeetingResponse, error) {
	if err := filter.Validate(); err != nil {
		return meeting.ListMeetingResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return meeting.ListMeetingResponse{}, err
	}

	if filter.Mine {
		if identity.EmployeeID == "" {
			return meeting.ListMeetingResponse{}, user.ErrEmployeeIDRequired
		}
		filter.ParticipantID = &identity.EmployeeID
	}
	if filter.From != nil {
		day, _ := interval.ParseDate(*filter.From)
		from := day.Start(s.config.Location)
		filter.RangeFrom = &from
	}
	if filter.To != nil {
		day, _ := interval.ParseDate(*filter.To)
		to := day.AddDays(1).Start(s.config.Location)
		filter.RangeTo = &to
	}

	meetings, total, err := s.meetingRepo.List(ctx, identity.CompanyID, filter)
	if err != nil {
		return meeting.ListMeetingResponse{}, fmt.Errorf("failed to list meetings: %w", err)
	}

	responses := make([]meeting.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		responses = append(responses, s.mapMeetingToResponse(m))
	}

	return meeting.ListMeetingResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Showing:    calculateShowingText(filter.Page, filter.Limit, total),
		Meetings:   responses,
	}, nil
}

// CheckAvailability implements meeting.MeetingService.
func (s *meetingServiceImpl) CheckAvailability(ctx context.Context, req meeting.AvailabilityRequest) (meeting.AvailabilityResponse, error) {
	if err := req.Validate(); err != nil {
		return meeting.AvailabilityResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return meeting.AvailabilityResponse{}, err
	}

	slot, err := req.Slot()
	if err != nil {
		return meeting.AvailabilityResponse{}, err
	}

	if _, err := s.roomRepo.GetByID(ctx, req.RoomID, identity.CompanyID); err != nil {
		return meeting.AvailabilityResponse{}, fmt.Errorf("failed to get meeting room: %w", err)
	}

	existing, err := s.meetingRepo.ListInRange(ctx, identity.CompanyID, meeting.RangeQuery{
		RoomID:   &req.RoomID,
		Statuses: []meeting.Status{meeting.StatusScheduled},
		From:     slot.Start(),
		To:       slot.End(),
	})
	if err != nil {
		return meeting.AvailabilityResponse{}, fmt.Errorf("failed to load bookings: %w", err)
	}

	conflicts := make([]meeting.MeetingSummary, 0)
	for _, m := range existing {
		iv, err := m.Interval()
		if err != nil || !interval.Overlaps(slot, iv) {
			continue
		}
		conflicts = append(conflicts, summarize(m))
	}

	return meeting.AvailabilityResponse{
		RoomID:    req.RoomID,
		StartAt:   slot.Start().Format(time.RFC3339),
		EndAt:     slot.End().Format(time.RFC3339),
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// RescheduleMeeting implements meeting.MeetingService.
func (s *meetingServiceImpl) RescheduleMeeting(ctx context.Context, req meeting.RescheduleMeetingRequest) (meeting.MeetingResponse, error) {
	if err := req.Validate(); err != nil {
		return meeting.MeetingResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	slot, err := req.Slot()
	if err != nil {
		return meeting.MeetingResponse{}, err
	}
	if slot.Start().Before(s.now()) {
		return meeting.MeetingResponse{}, meeting.ErrStartInPast
	}

	var updated meeting.Meeting
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		m, err := s.meetingRepo.GetByID(ctx, req.ID, identity.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to get meeting: %w", err)
		}
		if err := ensureScheduled(m); err != nil {
			return err
		}
		if err := ensureCanManage(identity, m); err != nil {
			return err
		}

		roomID := m.RoomID
		if req.RoomID != nil {
			roomID = *req.RoomID
		}
		r, err := s.lockBookableRoom(ctx, roomID, identity.CompanyID, len(m.Attendees))
		if err != nil {
			return err
		}
		if err := s.ensureSlotFree(ctx, identity.CompanyID, roomID, slot, &m.ID); err != nil {
			return err
		}

		m.RoomID = roomID
		m.RoomName = &r.Name
		m.StartAt = slot.Start()
		m.EndAt = slot.End()
		m.RemindedAt = nil
		if err := s.meetingRepo.UpdateSchedule(ctx, m); err != nil {
			return fmt.Errorf("failed to reschedule meeting: %w", err)
		}
		if err := s.meetingRepo.ResetRSVP(ctx, m.ID, m.OrganizerID); err != nil {
			return fmt.Errorf("failed to reset attendee responses: %w", err)
		}
		for i := range m.Attendees {
			if m.Attendees[i].EmployeeID != m.OrganizerID {
				m.Attendees[i].RSVP = meeting.RSVPPending
				m.Attendees[i].RespondedAt = nil
			}
		}

		updated = m
		return nil
	})
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	s.notifyAttendees(ctx, updated, identity.EmployeeID, notification.TypeMeetingRescheduled,
		"Meeting Rescheduled",
		fmt.Sprintf("%q moved to %s", updated.Title, s.formatLocal(updated.StartAt)))

	return s.mapMeetingToResponse(updated), nil
}

// CancelMeeting implements meeting.MeetingService.
func (s *meetingServiceImpl) CancelMeeting(ctx context.Context, req meeting.CancelMeetingRequest) (meeting.MeetingResponse, error) {
	if err := req.Validate(); err != nil {
		return meeting.MeetingResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	m, err := s.meetingRepo.GetByID(ctx, req.ID, identity.CompanyID)
	if err != nil {
		return meeting.MeetingResponse{}, fmt.Errorf("failed to get meeting: %w", err)
	}
	if err := ensureScheduled(m); err != nil {
		return meeting.MeetingResponse{}, err
	}
	if err := ensureCanManage(identity, m); err != nil {
		return meeting.MeetingResponse{}, err
	}

	if err := s.meetingRepo.UpdateStatus(ctx, m.ID, identity.CompanyID, meeting.StatusCancelled, req.Reason); err != nil {
		return meeting.MeetingResponse{}, fmt.Errorf("failed to cancel meeting: %w", err)
	}
	m.Status = meeting.StatusCancelled
	m.CancelReason = req.Reason

	message := fmt.Sprintf("%q on %s was cancelled", m.Title, s.formatLocal(m.StartAt))
	if req.Reason != nil && *req.Reason != "" {
		message += ": " + *req.Reason
	}
	s.notifyAttendees(ctx, m, identity.EmployeeID, notification.TypeMeetingCancelled, "Meeting Cancelled", message)

	return s.mapMeetingToResponse(m), nil
}

// RespondRSVP implements meeting.MeetingService.
func (s *meetingServiceImpl) RespondRSVP(ctx context.Context, req meeting.RSVPRequest) (meeting.MeetingResponse, error) {
	if err := req.Validate(); err != nil {
		return meeting.MeetingResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return meeting.MeetingResponse{}, err
	}
	if identity.EmployeeID == "" {
		return meeting.MeetingResponse{}, user.ErrEmployeeIDRequired
	}

	m, err := s.meetingRepo.GetByID(ctx, req.MeetingID, identity.CompanyID)
	if err != nil {
		return meeting.MeetingResponse{}, fmt.Errorf("failed to get meeting: %w", err)
	}
	if err := ensureScheduled(m); err != nil {
		return meeting.MeetingResponse{}, err
	}
	if _, ok := m.Attendee(identity.EmployeeID); !ok {
		return meeting.MeetingResponse{}, meeting.ErrNotAttendee
	}

	now := s.now()
	if err := s.meetingRepo.UpdateRSVP(ctx, m.ID, identity.EmployeeID, req.Response, now); err != nil {
		return meeting.MeetingResponse{}, fmt.Errorf("failed to update rsvp: %w", err)
	}
	for i := range m.Attendees {
		if m.Attendees[i].EmployeeID == identity.EmployeeID {
			m.Attendees[i].RSVP = req.Response
			m.Attendees[i].RespondedAt = &now
		}
	}

	if identity.EmployeeID != m.OrganizerID {
		s.notify(ctx, []notification.CreateNotificationRequest{{
			CompanyID:   m.CompanyID,
			RecipientID: m.OrganizerID,
			SenderID:    &identity.EmployeeID,
			Type:        notification.TypeMeetingRSVP,
			Title:       "Meeting Response",
			Message:     fmt.Sprintf("An attendee responded %s to %q", req.Response, m.Title),
			Data: map[string]interface{}{
				"meeting_id":  m.ID,
				"employee_id": identity.EmployeeID,
				"response":    string(req.Response),
			},
		}})
	}

	return s.mapMeetingToResponse(m), nil
}

// RoomUtilization implements meeting.MeetingService.
func (s *meetingServiceImpl) RoomUtilization(ctx context.Context, req meeting.UtilizationRequest) (meeting.UtilizationResponse, error) {
	from, to, err := req.Dates()
	if err != nil {
		return meeting.UtilizationResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return meeting.UtilizationResponse{}, err
	}

	r, err := s.roomRepo.GetByID(ctx, req.RoomID, identity.CompanyID)
	if err != nil {
		return meeting.UtilizationResponse{}, fmt.Errorf("failed to get meeting room: %w", err)
	}

	loc := s.config.Location
	booked, err := s.meetingRepo.ListInRange(ctx, identity.CompanyID, meeting.RangeQuery{
		RoomID:   &r.ID,
		Statuses: []meeting.Status{meeting.StatusScheduled, meeting.StatusCompleted},
		From:     from.Start(loc),
		To:       to.AddDays(1).Start(loc),
	})
	if err != nil {
		return meeting.UtilizationResponse{}, fmt.Errorf("failed to load bookings: %w", err)
	}

	usage := interval.AggregateRange(meeting.Intervals(booked), from, to, loc)
	office := s.config.OfficeHoursPerDay

	days := make([]meeting.DailyUsage, 0, len(usage))
	for _, b := range interval.Buckets(usage) {
		days = append(days, meeting.DailyUsage{
			Date:           b.Day.String(),
			BookedMinutes:  int64(b.Duration / time.Minute),
			UtilizationPct: percent(b.Duration, office),
		})
	}

	total := interval.Total(usage)
	return meeting.UtilizationResponse{
		RoomID:              r.ID,
		RoomName:            r.Name,
		From:                from.String(),
		To:                  to.String(),
		Timezone:            loc.String(),
		OfficeMinutesPerDay: int64(office / time.Minute),
		Days:                days,
		TotalMinutes:        int64(total / time.Minute),
		UtilizationPct:      percent(total, office*time.Duration(len(days))),
	}, nil
}

// DetectConflicts implements meeting.MeetingService.
func (s *meetingServiceImpl) DetectConflicts(ctx context.Context, req meeting.ConflictReportRequest) (meeting.ConflictReportResponse, error) {
	from, to, err := req.Dates()
	if err != nil {
		return meeting.ConflictReportResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return meeting.ConflictReportResponse{}, err
	}
	if !identity.Can(user.PermissionMeetingAudit) {
		return meeting.ConflictReportResponse{}, user.ErrInsufficientPermissions
	}

	loc := s.config.Location
	meetings, err := s.meetingRepo.ListInRange(ctx, identity.CompanyID, meeting.RangeQuery{
		Statuses: []meeting.Status{meeting.StatusScheduled},
		From:     from.Start(loc),
		To:       to.AddDays(1).Start(loc),
	})
	if err != nil {
		return meeting.ConflictReportResponse{}, fmt.Errorf("failed to load meetings: %w", err)
	}

	byID := make(map[string]meeting.Meeting, len(meetings))
	byRoom := make(map[string][]meeting.Meeting)
	for _, m := range meetings {
		byID[m.ID] = m
		byRoom[m.RoomID] = append(byRoom[m.RoomID], m)
	}

	roomIDs := make([]string, 0, len(byRoom))
	for id := range byRoom {
		roomIDs = append(roomIDs, id)
	}
	slices.Sort(roomIDs)

	resp := meeting.ConflictReportResponse{
		From:  from.String(),
		To:    to.String(),
		Rooms: make([]meeting.RoomConflicts, 0),
	}
	for _, roomID := range roomIDs {
		pairs := interval.Conflicts(meeting.Intervals(byRoom[roomID]))
		if len(pairs) == 0 {
			continue
		}

		rc := meeting.RoomConflicts{
			RoomID:    roomID,
			RoomName:  byRoom[roomID][0].RoomName,
			Conflicts: make([]meeting.ConflictPairResponse, 0, len(pairs)),
		}
		for _, p := range pairs {
			rc.Conflicts = append(rc.Conflicts, meeting.ConflictPairResponse{
				First:  summarize(byID[p.First.Tag()]),
				Second: summarize(byID[p.Second.Tag()]),
			})
		}
		resp.TotalPairs += len(pairs)
		resp.Rooms = append(resp.Rooms, rc)
	}

	return resp, nil
}

// SendReminders notifies attendees of meetings starting within the reminder
// lead time. Each meeting is reminded once.
func (s *meetingServiceImpl) SendReminders(ctx context.Context) (int, error) {
	due, err := s.meetingRepo.ListDueReminders(ctx, s.now(), s.config.ReminderLead)
	if err != nil {
		return 0, fmt.Errorf("failed to load due reminders: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(due))
	for _, m := range due {
		var reqs []notification.CreateNotificationRequest
		for _, a := range m.Attendees {
			if a.RSVP == meeting.RSVPDeclined {
				continue
			}
			reqs = append(reqs, notification.CreateNotificationRequest{
				CompanyID:   m.CompanyID,
				RecipientID: a.EmployeeID,
				Type:        notification.TypeMeetingReminder,
				Title:       "Meeting Reminder",
				Message:     fmt.Sprintf("%q starts at %s", m.Title, s.formatLocal(m.StartAt)),
				Data:        meetingData(m),
			})
		}
		s.notify(ctx, reqs)
		ids = append(ids, m.ID)
	}

	if err := s.meetingRepo.MarkReminded(ctx, ids, s.now()); err != nil {
		return 0, fmt.Errorf("failed to mark meetings reminded: %w", err)
	}
	return len(ids), nil
}

// CompletePastMeetings marks scheduled meetings that have ended as completed.
func (s *meetingServiceImpl) CompletePastMeetings(ctx context.Context) (int64, error) {
	n, err := s.meetingRepo.CompletePast(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to complete past meetings: %w", err)
	}
	return n, nil
}

// lockBookableRoom locks the room row so concurrent bookings for the same
// room serialise on it.
func (s *meetingServiceImpl) lockBookableRoom(ctx context.Context, roomID, companyID string, headcount int) (room.MeetingRoom, error) {
	r, err := s.roomRepo.GetForUpdate(ctx, roomID, companyID)
	if err != nil {
		return room.MeetingRoom{}, fmt.Errorf("failed to get meeting room: %w", err)
	}
	if !r.IsActive {
		return room.MeetingRoom{}, room.ErrRoomInactive
	}
	if headcount > r.Capacity {
		return room.MeetingRoom{}, fmt.Errorf("%w: %d attendees, capacity %d", meeting.ErrRoomCapacityExceeded, headcount, r.Capacity)
	}
	return r, nil
}

func (s *meetingServiceImpl) ensureSlotFree(ctx context.Context, companyID, roomID string, slot interval.Interval, excludeID *string) error {
	existing, err := s.meetingRepo.ListInRange(ctx, companyID, meeting.RangeQuery{
		RoomID:    &roomID,
		Statuses:  []meeting.Status{meeting.StatusScheduled},
		ExcludeID: excludeID,
		From:      slot.Start(),
		To:        slot.End(),
	})
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}

	hit, ok := interval.FirstConflict(slot, meeting.Intervals(existing))
	if !ok {
		return nil
	}
	for _, m := range existing {
		if m.ID == hit.Tag() {
			return &meeting.ConflictError{MeetingID: m.ID, Title: m.Title, StartAt: m.StartAt, EndAt: m.EndAt}
		}
	}
	return meeting.ErrRoomConflict
}

func employeeIdentity(ctx context.Context, permission user.Permission) (user.Identity, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.Identity{}, err
	}
	if identity.EmployeeID == "" {
		return user.Identity{}, user.ErrEmployeeIDRequired
	}
	if !identity.Can(permission) {
		return user.Identity{}, user.ErrInsufficientPermissions
	}
	return identity, nil
}

func ensureScheduled(m meeting.Meeting) error {
	switch m.Status {
	case meeting.StatusScheduled:
		return nil
	case meeting.StatusCancelled:
		return meeting.ErrMeetingAlreadyCancelled
	default:
		return meeting.ErrMeetingNotScheduled
	}
}

func ensureCanManage(identity user.Identity, m meeting.Meeting) error {
	if identity.EmployeeID != "" && identity.EmployeeID == m.OrganizerID {
		return nil
	}
	if identity.Can(user.PermissionMeetingManageAll) {
		return nil
	}
	return meeting.ErrNotOrganizer
}

// notifyAttendees queues one notification per attendee other than actorID.
func (s *meetingServiceImpl) notifyAttendees(ctx context.Context, m meeting.Meeting, actorID string, typ notification.NotificationType, title, message string) {
	var sender *string
	if actorID != "" {
		sender = &actorID
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(m.Attendees))
	for _, a := range m.Attendees {
		if a.EmployeeID == actorID {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			CompanyID:   m.CompanyID,
			RecipientID: a.EmployeeID,
			SenderID:    sender,
			Type:        typ,
			Title:       title,
			Message:     message,
			Data:        meetingData(m),
		})
	}
	s.notify(ctx, reqs)
}

func (s *meetingServiceImpl) notify(ctx context.Context, reqs []notification.CreateNotificationRequest) {
	if s.notificationService == nil || len(reqs) == 0 {
		return
	}
	if err := s.notificationService.QueueBulkNotification(context.WithoutCancel(ctx), reqs); err != nil {
		slog.Warn("Failed to queue meeting notifications",
			"type", reqs[0].Type,
			"recipients", len(reqs),
			"error", err)
	}
}

func meetingData(m meeting.Meeting) map[string]interface{} {
	return map[string]interface{}{
		"meeting_id": m.ID,
		"room_id":    m.RoomID,
		"start_at":   m.StartAt.Format(time.RFC3339),
		"end_at":     m.EndAt.Format(time.RFC3339),
	}
}

func (s *meetingServiceImpl) formatLocal(t time.Time) string {
	return t.In(s.config.Location).Format("Mon, 02 Jan 2006 15:04 MST")
}

func (s *meetingServiceImpl) mapMeetingToResponse(m meeting.Meeting) meeting.MeetingResponse {
	attendees := make([]meeting.AttendeeResponse, 0, len(m.Attendees))
	for _, a := range m.Attendees {
		ar := meeting.AttendeeResponse{EmployeeID: a.EmployeeID, RSVP: a.RSVP}
		if a.RespondedAt != nil {
			respondedAt := a.RespondedAt.Format(time.RFC3339)
			ar.RespondedAt = &respondedAt
		}
		attendees = append(attendees, ar)
	}

	return meeting.MeetingResponse{
		ID:              m.ID,
		RoomID:          m.RoomID,
		RoomName:        m.RoomName,
		OrganizerID:     m.OrganizerID,
		Title:           m.Title,
		Description:     m.Description,
		StartAt:         m.StartAt.Format(time.RFC3339),
		EndAt:           m.EndAt.Format(time.RFC3339),
		DurationMinutes: int64(m.EndAt.Sub(m.StartAt) / time.Minute),
		Status:          m.Status,
		CancelReason:    m.CancelReason,
		Attendees:       attendees,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       m.UpdatedAt.Format(time.RFC3339),
	}
}

func summarize(m meeting.Meeting) meeting.MeetingSummary {
	return meeting.MeetingSummary{
		ID:      m.ID,
		Title:   m.Title,
		StartAt: m.StartAt.Format(time.RFC3339),
		EndAt:   m.EndAt.Format(time.RFC3339),
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// percent returns part/whole as a percentage rounded to two decimals.
func percent(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
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
