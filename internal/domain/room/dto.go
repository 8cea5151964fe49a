package room

import (
	"strings"

	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/validator"
)

const (
	maxNameLength     = 100
	maxLocationLength = 255
	maxCapacity       = 1000
)

type CreateRoomRequest struct {
	Name       string   `json:"name"`
	Location   *string  `json:"location,omitempty"`
	Capacity   *int     `json:"capacity"`
	Facilities []string `json:"facilities,omitempty"`
}

func (r *CreateRoomRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.MaxLength(r.Name, maxNameLength) {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if r.Location != nil && !validator.MaxLength(*r.Location, maxLocationLength) {
		errs.Add("location", "location must not exceed 255 characters")
	}
	if r.Capacity == nil {
		errs.Add("capacity", "capacity is required")
	} else if *r.Capacity < 1 || *r.Capacity > maxCapacity {
		errs.Add("capacity", "capacity must be between 1 and 1000")
	}
	validateFacilities(&errs, r.Facilities)

	return errs.Err()
}

type UpdateRoomRequest struct {
	ID         string    `json:"-"`
	Name       *string   `json:"name,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Capacity   *int      `json:"capacity,omitempty"`
	Facilities *[]string `json:"facilities,omitempty"`
	IsActive   *bool     `json:"is_active,omitempty"`
}

func (r *UpdateRoomRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if !validator.MaxLength(*r.Name, maxNameLength) {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}
	if r.Location != nil && !validator.MaxLength(*r.Location, maxLocationLength) {
		errs.Add("location", "location must not exceed 255 characters")
	}
	if r.Capacity != nil && (*r.Capacity < 1 || *r.Capacity > maxCapacity) {
		errs.Add("capacity", "capacity must be between 1 and 1000")
	}
	if r.Facilities != nil {
		validateFacilities(&errs, *r.Facilities)
	}

	return errs.Err()
}

func validateFacilities(errs *validator.ValidationErrors, facilities []string) {
	for _, f := range facilities {
		if validator.IsEmpty(f) {
			errs.Add("facilities", "facilities must not contain empty values")
			return
		}
	}
}

type RoomFilter struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // name, capacity, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

var validSortFields = []string{"name", "capacity", "created_at"}

func (f *RoomFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs.Add("sort_by", "sort_by must be one of: "+strings.Join(validSortFields, ", "))
		}
	} else {
		f.SortBy = "name"
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "asc"
	}

	return errs.Err()
}

type RoomResponse struct {
	ID         string   `json:"id"`
	CompanyID  string   `json:"company_id"`
	Name       string   `json:"name"`
	Location   *string  `json:"location,omitempty"`
	Capacity   int      `json:"capacity"`
	Facilities []string `json:"facilities"`
	IsActive   bool     `json:"is_active"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

type ListRoomResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Rooms      []RoomResponse `json:"rooms"`
}
