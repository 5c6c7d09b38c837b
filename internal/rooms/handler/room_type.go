package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"innkeep/internal/availability"
	"innkeep/internal/rooms/service"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

type RoomTypeHandler struct {
	service service.RoomTypeService
	log     *logger.Logger
}

func NewRoomTypeHandler(service service.RoomTypeService, log *logger.Logger) *RoomTypeHandler {
	return &RoomTypeHandler{
		service: service,
		log:     log,
	}
}

type QuoteRequest struct {
	RoomTypeID string `json:"room_type_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	GuestCount int    `json:"guest_count"`
}

// QuoteResponse reports pricing for an available stay, or the reason the
// stay cannot be booked. A declined quote is still a 200: the request was
// answered, the answer is "no".
type QuoteResponse struct {
	Available    bool    `json:"available"`
	UnitNumber   int     `json:"unit_number,omitempty"`
	NightlyPrice float64 `json:"nightly_price,omitempty"`
	TotalPrice   float64 `json:"total_price,omitempty"`
	Nights       int     `json:"nights,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

func (h *RoomTypeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var roomType model.RoomType
	if err := json.NewDecoder(r.Body).Decode(&roomType); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &roomType); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, roomType); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *RoomTypeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	roomType, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, roomType); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomTypeHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if hotelID := r.URL.Query().Get("hotel_id"); hotelID != "" {
		roomTypes, total, err := h.service.GetByHotel(r.Context(), hotelID, limit, offset)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		if err := httputil.WritePaginated(w, roomTypes, total, limit, offset); err != nil {
			h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
		}
		return
	}

	roomTypes, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, roomTypes, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *RoomTypeHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.RoomTypeUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RoomTypeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RoomTypeHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Quote", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	checkIn, err := httputil.ParseDate("check_in", req.CheckIn)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Quote", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	checkOut, err := httputil.ParseDate("check_out", req.CheckOut)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Quote", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	quote, err := h.service.Quote(r.Context(), req.RoomTypeID, checkIn, checkOut, req.GuestCount)
	if err != nil {
		if reason, declined := declineReason(err); declined {
			if writeErr := httputil.WriteSuccess(w, QuoteResponse{Available: false, Reason: reason}); writeErr != nil {
				h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", writeErr)
			}
			return
		}
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Quote", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resp := QuoteResponse{
		Available:    true,
		UnitNumber:   quote.UnitNumber,
		NightlyPrice: quote.NightlyPrice,
		TotalPrice:   quote.TotalPrice,
		Nights:       quote.Nights,
	}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func declineReason(err error) (string, bool) {
	switch {
	case errors.Is(err, availability.ErrInvalidRange):
		return "invalid-range", true
	case errors.Is(err, availability.ErrUnbookable):
		return "unbookable", true
	case errors.Is(err, availability.ErrNoAvailability):
		return "no-availability", true
	}
	return "", false
}

func (h *RoomTypeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/room-types", h.Create)
	router.GET("/api/v1/room-types", h.GetAll)
	router.GET("/api/v1/room-types/id/:id", h.GetByID)
	router.PATCH("/api/v1/room-types/id/:id", h.Update)
	router.DELETE("/api/v1/room-types/id/:id", h.Delete)
	router.POST("/api/v1/availability/quote", h.Quote)
}
