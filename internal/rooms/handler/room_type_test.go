package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"innkeep/internal/availability"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

type stubRoomTypeService struct {
	quote    *availability.Quote
	quoteErr error
}

func (s *stubRoomTypeService) Create(context.Context, *model.RoomType) error { return nil }
func (s *stubRoomTypeService) GetByID(context.Context, string) (*model.RoomType, error) {
	return nil, apperrors.NotFound("Room type")
}
func (s *stubRoomTypeService) GetAll(context.Context, int, int64) ([]*model.RoomType, int64, error) {
	return nil, 0, nil
}
func (s *stubRoomTypeService) GetByHotel(context.Context, string, int, int64) ([]*model.RoomType, int64, error) {
	return nil, 0, nil
}
func (s *stubRoomTypeService) Update(context.Context, string, *model.RoomTypeUpdate) error {
	return nil
}
func (s *stubRoomTypeService) Delete(context.Context, string) error { return nil }
func (s *stubRoomTypeService) Quote(context.Context, string, time.Time, time.Time, int) (*availability.Quote, error) {
	return s.quote, s.quoteErr
}

func quoteRequest(t *testing.T, h *RoomTypeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Quote(rec, req, httprouter.Params{})
	return rec
}

func newQuoteHandler(svc *stubRoomTypeService) *RoomTypeHandler {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
	return NewRoomTypeHandler(svc, log)
}

func TestQuoteReturnsPricing(t *testing.T) {
	h := newQuoteHandler(&stubRoomTypeService{
		quote: &availability.Quote{UnitNumber: 101, NightlyPrice: 100, Nights: 3, TotalPrice: 300},
	})

	rec := quoteRequest(t, h, `{"room_type_id":"507f1f77bcf86cd799439020","check_in":"2024-03-01","check_out":"2024-03-04","guest_count":2}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var wrapper struct {
		Data QuoteResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &wrapper); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	resp := wrapper.Data
	if !resp.Available {
		t.Error("expected available quote")
	}
	if resp.UnitNumber != 101 || resp.Nights != 3 || resp.TotalPrice != 300 {
		t.Errorf("unexpected quote payload: %+v", resp)
	}
}

func TestQuoteDeclineReasons(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{"invalid range", availability.ErrInvalidRange, "invalid-range"},
		{"unbookable party", availability.ErrUnbookable, "unbookable"},
		{"no free unit", availability.ErrNoAvailability, "no-availability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newQuoteHandler(&stubRoomTypeService{quoteErr: tt.err})

			rec := quoteRequest(t, h, `{"room_type_id":"507f1f77bcf86cd799439020","check_in":"2024-03-01","check_out":"2024-03-04","guest_count":2}`)

			if rec.Code != http.StatusOK {
				t.Fatalf("declined quote must still be 200, got %d", rec.Code)
			}

			var wrapper struct {
				Data QuoteResponse `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &wrapper); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			resp := wrapper.Data
			if resp.Available {
				t.Error("declined quote must not be available")
			}
			if resp.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, resp.Reason)
			}
		})
	}
}

func TestQuoteUnknownRoomTypeIs404(t *testing.T) {
	h := newQuoteHandler(&stubRoomTypeService{
		quoteErr: apperrors.NotFoundWithID("Room type", "507f1f77bcf86cd799439999"),
	})

	rec := quoteRequest(t, h, `{"room_type_id":"507f1f77bcf86cd799439999","check_in":"2024-03-01","check_out":"2024-03-04","guest_count":2}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestQuoteRejectsMalformedDates(t *testing.T) {
	h := newQuoteHandler(&stubRoomTypeService{})

	rec := quoteRequest(t, h, `{"room_type_id":"507f1f77bcf86cd799439020","check_in":"yesterday","check_out":"2024-03-04","guest_count":2}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed date, got %d", rec.Code)
	}
}
