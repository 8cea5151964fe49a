package room

import "errors"

var (
	ErrRoomNotFound   = errors.New("meeting room not found")
	ErrRoomNameExists = errors.New("meeting room with this name already exists")
	ErrRoomInactive   = errors.New("meeting room is not active")
)
