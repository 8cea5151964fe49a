package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/officehub-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MeetingHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Reschedule(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	RSVP(w http.ResponseWriter, r *http.Request)
	Conflicts(w http.ResponseWriter, r *http.Request)
}

type meetingHandlerImpl struct {
	meetingService meeting.MeetingService
}

func NewMeetingHandler(meetingService meeting.MeetingService) MeetingHandler {
	return &meetingHandlerImpl{meetingService: meetingService}
}

// Create implements MeetingHandler.
func (h *meetingHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req meeting.CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateMeeting decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.meetingService.CreateMeeting(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Meeting booked successfully", created)
}

// Get implements MeetingHandler.
func (h *meetingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "id")
	if meetingID == "" {
		response.BadRequest(w, "Meeting ID is required", nil)
		return
	}

	result, err := h.meetingService.GetMeeting(r.Context(), meetingID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements MeetingHandler.
func (h *meetingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := meeting.MeetingFilter{
		Page:      getIntQueryParam(r, "page", 1),
		Limit:     getIntQueryParam(r, "limit", 20),
		SortOrder: query.Get("sort_order"),
		Mine:      getBoolQueryParam(r, "mine", false),
	}

	if roomID := query.Get("room_id"); roomID != "" {
		filter.RoomID = &roomID
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if from := query.Get("from"); from != "" {
		filter.From = &from
	}
	if to := query.Get("to"); to != "" {
		filter.To = &to
	}

	result, err := h.meetingService.ListMeetings(r.Context(), filter)
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

// Reschedule implements MeetingHandler.
func (h *meetingHandlerImpl) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req meeting.RescheduleMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RescheduleMeeting decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.meetingService.RescheduleMeeting(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Meeting rescheduled successfully", result)
}

// Cancel implements MeetingHandler. The body is optional.
func (h *meetingHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	var req meeting.CancelMeetingRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.meetingService.CancelMeeting(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Meeting cancelled successfully", result)
}

// RSVP implements MeetingHandler.
func (h *meetingHandlerImpl) RSVP(w http.ResponseWriter, r *http.Request) {
	var req meeting.RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.MeetingID = chi.URLParam(r, "id")

	result, err := h.meetingService.RespondRSVP(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "RSVP recorded", result)
}

// Conflicts implements MeetingHandler.
func (h *meetingHandlerImpl) Conflicts(w http.ResponseWriter, r *http.Request) {
	req := meeting.ConflictReportRequest{DateRangeRequest: dateRangeFromQuery(r)}

	result, err := h.meetingService.DetectConflicts(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
