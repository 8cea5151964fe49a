package room

import "time"

type MeetingRoom struct {
	ID         string
	CompanyID  string
	Name       string
	Location   *string
	Capacity   int
	Facilities []string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}
