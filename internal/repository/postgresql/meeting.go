package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const meetingColumns = `
	m.id, m.company_id, m.room_id, m.organizer_id, m.title, m.description,
	m.start_at, m.end_at, m.status, m.cancel_reason, m.reminded_at,
	m.created_at, m.updated_at, r.name`

const meetingFrom = `
	FROM meetings m
	LEFT JOIN meeting_rooms r ON r.id = m.room_id`

type meetingRepositoryImpl struct {
	db *database.DB
	tx database.Transactor
}

func NewMeetingRepository(db *database.DB) meeting.MeetingRepository {
	return &meetingRepositoryImpl{db: db, tx: NewTransactor(db)}
}

// Create implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) Create(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			INSERT INTO meetings (
				id, company_id, room_id, organizer_id, title, description,
				start_at, end_at, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING created_at, updated_at
		`
		if err := q.QueryRow(ctx, query,
			m.ID, m.CompanyID, m.RoomID, m.OrganizerID, m.Title, m.Description,
			m.StartAt, m.EndAt, string(m.Status),
		).Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert meeting: %w", err)
		}

		if len(m.Attendees) == 0 {
			return nil
		}

		valueStrings := make([]string, 0, len(m.Attendees))
		args := make([]interface{}, 0, len(m.Attendees)*4)
		for i, a := range m.Attendees {
			base := i * 4
			valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
			args = append(args, m.ID, a.EmployeeID, string(a.RSVP), a.RespondedAt)
		}

		attendeeQuery := `
			INSERT INTO meeting_attendees (meeting_id, employee_id, rsvp, responded_at)
			VALUES ` + strings.Join(valueStrings, ", ")
		if _, err := q.Exec(ctx, attendeeQuery, args...); err != nil {
			return fmt.Errorf("failed to insert meeting attendees: %w", err)
		}
		return nil
	})
	if err != nil {
		return meeting.Meeting{}, err
	}
	return m, nil
}

// GetByID implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (meeting.Meeting, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + meetingColumns + meetingFrom + `
		WHERE m.id = $1 AND m.company_id = $2
	`
	m, err := scanMeeting(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meeting.Meeting{}, meeting.ErrMeetingNotFound
		}
		return meeting.Meeting{}, fmt.Errorf("failed to get meeting: %w", err)
	}

	meetings := []meeting.Meeting{m}
	if err := r.loadAttendees(ctx, meetings); err != nil {
		return meeting.Meeting{}, err
	}
	return meetings[0], nil
}

// List implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) List(ctx context.Context, companyID string, filter meeting.MeetingFilter) ([]meeting.Meeting, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"m.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.RoomID != nil && *filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("m.room_id = $%d", argIdx))
		args = append(args, *filter.RoomID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("m.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.ParticipantID != nil {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM meeting_attendees a WHERE a.meeting_id = m.id AND a.employee_id = $%d)", argIdx))
		args = append(args, *filter.ParticipantID)
		argIdx++
	}
	if filter.RangeFrom != nil {
		conditions = append(conditions, fmt.Sprintf("m.end_at > $%d", argIdx))
		args = append(args, *filter.RangeFrom)
		argIdx++
	}
	if filter.RangeTo != nil {
		conditions = append(conditions, fmt.Sprintf("m.start_at < $%d", argIdx))
		args = append(args, *filter.RangeTo)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM meetings m WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	sortOrder := "ASC"
	if strings.ToUpper(filter.SortOrder) == "DESC" {
		sortOrder = "DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY m.start_at %s, m.id
		LIMIT $%d OFFSET $%d
	`, meetingColumns, meetingFrom, whereClause, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	meetings, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}

// ListInRange implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) ListInRange(ctx context.Context, companyID string, rq meeting.RangeQuery) ([]meeting.Meeting, error) {
	conditions := []string{"m.company_id = $1", "m.start_at < $2", "m.end_at > $3"}
	args := []interface{}{companyID, rq.To, rq.From}
	argIdx := 4

	if rq.RoomID != nil {
		conditions = append(conditions, fmt.Sprintf("m.room_id = $%d", argIdx))
		args = append(args, *rq.RoomID)
		argIdx++
	}
	if rq.ExcludeID != nil {
		conditions = append(conditions, fmt.Sprintf("m.id <> $%d", argIdx))
		args = append(args, *rq.ExcludeID)
		argIdx++
	}
	if len(rq.Statuses) > 0 {
		statuses := make([]string, 0, len(rq.Statuses))
		for _, s := range rq.Statuses {
			statuses = append(statuses, string(s))
		}
		conditions = append(conditions, fmt.Sprintf("m.status = ANY($%d)", argIdx))
		args = append(args, statuses)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY m.start_at, m.end_at, m.id
	`, meetingColumns, meetingFrom, strings.Join(conditions, " AND "))

	return r.query(ctx, query, args...)
}

// UpdateSchedule implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) UpdateSchedule(ctx context.Context, m meeting.Meeting) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE meetings
		SET room_id = $1, start_at = $2, end_at = $3, reminded_at = $4, updated_at = NOW()
		WHERE id = $5 AND company_id = $6
	`
	tag, err := q.Exec(ctx, query, m.RoomID, m.StartAt, m.EndAt, m.RemindedAt, m.ID, m.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update meeting schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meeting.ErrMeetingNotFound
	}
	return nil
}

// UpdateStatus implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) UpdateStatus(ctx context.Context, id, companyID string, status meeting.Status, reason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE meetings
		SET status = $1, cancel_reason = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4
	`
	tag, err := q.Exec(ctx, query, string(status), reason, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update meeting status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meeting.ErrMeetingNotFound
	}
	return nil
}

// ResetRSVP implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) ResetRSVP(ctx context.Context, meetingID, organizerID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE meeting_attendees
		SET rsvp = $1, responded_at = NULL
		WHERE meeting_id = $2 AND employee_id <> $3
	`
	if _, err := q.Exec(ctx, query, string(meeting.RSVPPending), meetingID, organizerID); err != nil {
		return fmt.Errorf("failed to reset attendee responses: %w", err)
	}
	return nil
}

// UpdateRSVP implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) UpdateRSVP(ctx context.Context, meetingID, employeeID string, rsvp meeting.RSVPStatus, respondedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE meeting_attendees
		SET rsvp = $1, responded_at = $2
		WHERE meeting_id = $3 AND employee_id = $4
	`
	tag, err := q.Exec(ctx, query, string(rsvp), respondedAt, meetingID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to update rsvp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meeting.ErrNotAttendee
	}
	return nil
}

// ListDueReminders implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) ListDueReminders(ctx context.Context, now time.Time, lead time.Duration) ([]meeting.Meeting, error) {
	query := `SELECT ` + meetingColumns + meetingFrom + `
		WHERE m.status = $1
		  AND m.reminded_at IS NULL
		  AND m.start_at > $2
		  AND m.start_at <= $3
		ORDER BY m.start_at, m.id
	`
	return r.query(ctx, query, string(meeting.StatusScheduled), now, now.Add(lead))
}

// MarkReminded implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) MarkReminded(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `UPDATE meetings SET reminded_at = $1 WHERE id = ANY($2)`, at, ids); err != nil {
		return fmt.Errorf("failed to mark meetings reminded: %w", err)
	}
	return nil
}

// CompletePast implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE meetings
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND end_at <= $3
	`
	tag, err := q.Exec(ctx, query, string(meeting.StatusCompleted), string(meeting.StatusScheduled), now)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past meetings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *meetingRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]meeting.Meeting, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []meeting.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAttendees(ctx, meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// loadAttendees fills Attendees for every meeting with one query. The
// organizer is listed first.
func (r *meetingRepositoryImpl) loadAttendees(ctx context.Context, meetings []meeting.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	index := make(map[string]int, len(meetings))
	ids := make([]string, 0, len(meetings))
	for i, m := range meetings {
		index[m.ID] = i
		ids = append(ids, m.ID)
	}

	query := `
		SELECT a.meeting_id, a.employee_id, a.rsvp, a.responded_at
		FROM meeting_attendees a
		JOIN meetings m ON m.id = a.meeting_id
		WHERE a.meeting_id = ANY($1)
		ORDER BY a.meeting_id, (a.employee_id = m.organizer_id) DESC, a.employee_id
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query meeting attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a meeting.Attendee
		var rsvp string
		if err := rows.Scan(&a.MeetingID, &a.EmployeeID, &rsvp, &a.RespondedAt); err != nil {
			return fmt.Errorf("failed to scan meeting attendee: %w", err)
		}
		a.RSVP = meeting.RSVPStatus(rsvp)

		i := index[a.MeetingID]
		meetings[i].Attendees = append(meetings[i].Attendees, a)
	}
	return rows.Err()
}

func scanMeeting(row pgx.Row) (meeting.Meeting, error) {
	var m meeting.Meeting
	var status string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.RoomID, &m.OrganizerID, &m.Title, &m.Description,
		&m.StartAt, &m.EndAt, &status, &m.CancelReason, &m.RemindedAt,
		&m.CreatedAt, &m.UpdatedAt, &m.RoomName,
	)
	m.Status = meeting.Status(status)
	return m, err
}
