package room

import "context"

type RoomRepository interface {
	Create(ctx context.Context, room MeetingRoom) (MeetingRoom, error)
	GetByID(ctx context.Context, id, companyID string) (MeetingRoom, error)
	// GetForUpdate locks the room row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id, companyID string) (MeetingRoom, error)
	List(ctx context.Context, companyID string, filter RoomFilter) ([]MeetingRoom, int64, error)
	Update(ctx context.Context, companyID string, req UpdateRoomRequest) (MeetingRoom, error)
	SoftDelete(ctx context.Context, id, companyID string) error
}
