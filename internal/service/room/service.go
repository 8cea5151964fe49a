package room

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/room"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
)

type roomServiceImpl struct {
	roomRepo room.RoomRepository
}

func NewRoomService(roomRepo room.RoomRepository) room.RoomService {
	return &roomServiceImpl{roomRepo: roomRepo}
}

// CreateRoom implements room.RoomService.
func (s *roomServiceImpl) CreateRoom(ctx context.Context, req room.CreateRoomRequest) (room.RoomResponse, error) {
	if err := req.Validate(); err != nil {
		return room.RoomResponse{}, err
	}

	identity, err := requireManage(ctx)
	if err != nil {
		return room.RoomResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return room.RoomResponse{}, fmt.Errorf("failed to generate room id: %w", err)
	}

	created, err := s.roomRepo.Create(ctx, room.MeetingRoom{
		ID:         id.String(),
		CompanyID:  identity.CompanyID,
		Name:       strings.TrimSpace(req.Name),
		Location:   req.Location,
		Capacity:   *req.Capacity,
		Facilities: normalizeFacilities(req.Facilities),
		IsActive:   true,
	})
	if err != nil {
		return room.RoomResponse{}, fmt.Errorf("failed to create meeting room: %w", err)
	}

	return mapRoomToResponse(created), nil
}

// GetRoom implements room.RoomService.
func (s *roomServiceImpl) GetRoom(ctx context.Context, id string) (room.RoomResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return room.RoomResponse{}, err
	}

	r, err := s.roomRepo.GetByID(ctx, id, identity.CompanyID)
	if err != nil {
		return room.RoomResponse{}, fmt.Errorf("failed to get meeting room: %w", err)
	}

	return mapRoomToResponse(r), nil
}

// ListRooms implements room.RoomService.
func (s *roomServiceImpl) ListRooms(ctx context.Context, filter room.RoomFilter) (room.ListRoomResponse, error) {
	if err := filter.Validate(); err != nil {
		return room.ListRoomResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return room.ListRoomResponse{}, err
	}

	rooms, total, err := s.roomRepo.List(ctx, identity.CompanyID, filter)
	if err != nil {
		return room.ListRoomResponse{}, fmt.Errorf("failed to list meeting rooms: %w", err)
	}

	responses := make([]room.RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		responses = append(responses, mapRoomToResponse(r))
	}

	return room.ListRoomResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Showing:    calculateShowingText(filter.Page, filter.Limit, total),
		Rooms:      responses,
	}, nil
}

// UpdateRoom implements room.RoomService.
func (s *roomServiceImpl) UpdateRoom(ctx context.Context, req room.UpdateRoomRequest) (room.RoomResponse, error) {
	if err := req.Validate(); err != nil {
		return room.RoomResponse{}, err
	}

	identity, err := requireManage(ctx)
	if err != nil {
		return room.RoomResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Facilities != nil {
		facilities := normalizeFacilities(*req.Facilities)
		req.Facilities = &facilities
	}

	updated, err := s.roomRepo.Update(ctx, identity.CompanyID, req)
	if err != nil {
		return room.RoomResponse{}, fmt.Errorf("failed to update meeting room: %w", err)
	}

	return mapRoomToResponse(updated), nil
}

// DeleteRoom implements room.RoomService.
func (s *roomServiceImpl) DeleteRoom(ctx context.Context, id string) error {
	identity, err := requireManage(ctx)
	if err != nil {
		return err
	}

	if err := s.roomRepo.SoftDelete(ctx, id, identity.CompanyID); err != nil {
		return fmt.Errorf("failed to delete meeting room: %w", err)
	}
	return nil
}

func requireManage(ctx context.Context) (user.Identity, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.Identity{}, err
	}
	if !identity.Can(user.PermissionRoomManage) {
		return user.Identity{}, user.ErrManagerAccessRequired
	}
	return identity, nil
}

// normalizeFacilities trims entries and drops case-insensitive duplicates.
func normalizeFacilities(facilities []string) []string {
	seen := make(map[string]struct{}, len(facilities))
	out := make([]string, 0, len(facilities))
	for _, f := range facilities {
		f = strings.TrimSpace(f)
		key := strings.ToLower(f)
		if _, ok := seen[key]; ok || f == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

func mapRoomToResponse(r room.MeetingRoom) room.RoomResponse {
	facilities := r.Facilities
	if facilities == nil {
		facilities = []string{}
	}
	return room.RoomResponse{
		ID:         r.ID,
		CompanyID:  r.CompanyID,
		Name:       r.Name,
		Location:   r.Location,
		Capacity:   r.Capacity,
		Facilities: facilities,
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
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
