package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/room"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const roomColumns = `id, company_id, name, location, capacity, facilities, is_active, created_at, updated_at, deleted_at`

type roomRepositoryImpl struct {
	db *database.DB
}

func NewRoomRepository(db *database.DB) room.RoomRepository {
	return &roomRepositoryImpl{db: db}
}

// Create implements room.RoomRepository.
func (r *roomRepositoryImpl) Create(ctx context.Context, mr room.MeetingRoom) (room.MeetingRoom, error) {
	q := GetQuerier(ctx, r.db)

	facilities := mr.Facilities
	if facilities == nil {
		facilities = []string{}
	}

	query := `
		INSERT INTO meeting_rooms (id, company_id, name, location, capacity, facilities, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + roomColumns

	created, err := scanRoom(q.QueryRow(ctx, query,
		mr.ID, mr.CompanyID, mr.Name, mr.Location, mr.Capacity, facilities, mr.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return room.MeetingRoom{}, room.ErrRoomNameExists
		}
		return room.MeetingRoom{}, err
	}
	return created, nil
}

// GetByID implements room.RoomRepository.
func (r *roomRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (room.MeetingRoom, error) {
	return r.get(ctx, id, companyID, "")
}

// GetForUpdate implements room.RoomRepository.
func (r *roomRepositoryImpl) GetForUpdate(ctx context.Context, id, companyID string) (room.MeetingRoom, error) {
	return r.get(ctx, id, companyID, "FOR UPDATE")
}

func (r *roomRepositoryImpl) get(ctx context.Context, id, companyID, lock string) (room.MeetingRoom, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM meeting_rooms
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
		%s
	`, roomColumns, lock)

	mr, err := scanRoom(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room.MeetingRoom{}, room.ErrRoomNotFound
		}
		return room.MeetingRoom{}, err
	}
	return mr, nil
}

// List implements room.RoomRepository.
func (r *roomRepositoryImpl) List(ctx context.Context, companyID string, filter room.RoomFilter) ([]room.MeetingRoom, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"company_id = $1", "deleted_at IS NULL"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Name != nil && *filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM meeting_rooms WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meeting rooms: %w", err)
	}

	validSortColumns := map[string]string{
		"name":       "name",
		"capacity":   "capacity",
		"created_at": "created_at",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "name"
	}
	sortOrder := "ASC"
	if strings.ToUpper(filter.SortOrder) == "DESC" {
		sortOrder = "DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM meeting_rooms
		WHERE %s
		ORDER BY %s %s, id
		LIMIT $%d OFFSET $%d
	`, roomColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meeting rooms: %w", err)
	}
	defer rows.Close()

	var rooms []room.MeetingRoom
	for rows.Next() {
		mr, err := scanRoom(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan meeting room: %w", err)
		}
		rooms = append(rooms, mr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// Update implements room.RoomRepository.
func (r *roomRepositoryImpl) Update(ctx context.Context, companyID string, req room.UpdateRoomRequest) (room.MeetingRoom, error) {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Location != nil {
		updates = append(updates, fmt.Sprintf("location = $%d", argIdx))
		args = append(args, *req.Location)
		argIdx++
	}
	if req.Capacity != nil {
		updates = append(updates, fmt.Sprintf("capacity = $%d", argIdx))
		args = append(args, *req.Capacity)
		argIdx++
	}
	if req.Facilities != nil {
		updates = append(updates, fmt.Sprintf("facilities = $%d", argIdx))
		args = append(args, *req.Facilities)
		argIdx++
	}
	if req.IsActive != nil {
		updates = append(updates, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	// Nothing to change still returns the current row
	updates = append(updates, "updated_at = NOW()")

	args = append(args, req.ID, companyID)
	query := fmt.Sprintf(`
		UPDATE meeting_rooms SET %s
		WHERE id = $%d AND company_id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(updates, ", "), argIdx, argIdx+1, roomColumns)

	updated, err := scanRoom(q.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return room.MeetingRoom{}, room.ErrRoomNotFound
		case isUniqueViolation(err):
			return room.MeetingRoom{}, room.ErrRoomNameExists
		}
		return room.MeetingRoom{}, fmt.Errorf("failed to update meeting room with id %s: %w", req.ID, err)
	}
	return updated, nil
}

// SoftDelete implements room.RoomRepository.
func (r *roomRepositoryImpl) SoftDelete(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE meeting_rooms
		SET deleted_at = NOW(), updated_at = NOW(), is_active = false
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
		RETURNING id
	`

	var deletedID string
	if err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room.ErrRoomNotFound
		}
		return fmt.Errorf("failed to soft delete meeting room: %w", err)
	}
	return nil
}

func scanRoom(row pgx.Row) (room.MeetingRoom, error) {
	var mr room.MeetingRoom
	err := row.Scan(
		&mr.ID, &mr.CompanyID, &mr.Name, &mr.Location, &mr.Capacity, &mr.Facilities,
		&mr.IsActive, &mr.CreatedAt, &mr.UpdatedAt, &mr.DeletedAt,
	)
	return mr, err
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
