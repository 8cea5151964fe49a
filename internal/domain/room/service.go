package room

import "context"

type RoomService interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (RoomResponse, error)
	GetRoom(ctx context.Context, id string) (RoomResponse, error)
	ListRooms(ctx context.Context, filter RoomFilter) (ListRoomResponse, error)
	UpdateRoom(ctx context.Context, req UpdateRoomRequest) (RoomResponse, error)
	DeleteRoom(ctx context.Context, id string) error
}
