package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/room"
	"github.com/cmlabs-hris/officehub-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RoomHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	Availability(w http.ResponseWriter, r *http.Request)
	Utilization(w http.ResponseWriter, r *http.Request)
}

type roomHandlerImpl struct {
	roomService    room.RoomService
	meetingService meeting.MeetingService
}

func NewRoomHandler(roomService room.RoomService, meetingService meeting.MeetingService) RoomHandler {
	return &roomHandlerImpl{
		roomService:    roomService,
		meetingService: meetingService,
	}
}

// Create implements RoomHandler.
func (h *roomHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req room.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRoom decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.roomService.CreateRoom(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Meeting room created successfully", created)
}

// Get implements RoomHandler.
func (h *roomHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		response.BadRequest(w, "Room ID is required", nil)
		return
	}

	result, err := h.roomService.GetRoom(r.Context(), roomID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements RoomHandler.
func (h *roomHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := room.RoomFilter{
		Page:      getIntQueryParam(r, "page", 1),
		Limit:     getIntQueryParam(r, "limit", 20),
		SortBy:    query.Get("sort_by"),
		SortOrder: query.Get("sort_order"),
	}

	if name := query.Get("name"); name != "" {
		filter.Name = &name
	}
	if isActive := query.Get("is_active"); isActive != "" {
		active, err := strconv.ParseBool(isActive)
		if err != nil {
			response.BadRequest(w, "is_active must be a boolean", nil)
			return
		}
		filter.IsActive = &active
	}

	result, err := h.roomService.ListRooms(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Update implements RoomHandler.
func (h *roomHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req room.UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRoom decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.roomService.UpdateRoom(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Meeting room updated successfully", updated)
}

// Delete implements RoomHandler.
func (h *roomHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		response.BadRequest(w, "Room ID is required", nil)
		return
	}

	if err := h.roomService.DeleteRoom(r.Context(), roomID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Meeting room deleted successfully", nil)
}

// Availability implements RoomHandler.
func (h *roomHandlerImpl) Availability(w http.ResponseWriter, r *http.Request) {
	req := meeting.AvailabilityRequest{
		RoomID:  chi.URLParam(r, "id"),
		StartAt: r.URL.Query().Get("start"),
		EndAt:   r.URL.Query().Get("end"),
	}

	result, err := h.meetingService.CheckAvailability(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Utilization implements RoomHandler.
func (h *roomHandlerImpl) Utilization(w http.ResponseWriter, r *http.Request) {
	req := meeting.UtilizationRequest{
		RoomID:           chi.URLParam(r, "id"),
		DateRangeRequest: dateRangeFromQuery(r),
	}

	result, err := h.meetingService.RoomUtilization(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func dateRangeFromQuery(r *http.Request) meeting.DateRangeRequest {
	return meeting.DateRangeRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
}
