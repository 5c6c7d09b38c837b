package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"innkeep/internal/availability"
	roomserrors "innkeep/internal/rooms/errors"
	"innkeep/internal/rooms/repository"
	"innkeep/internal/rooms/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

type RoomTypeService interface {
	Create(ctx context.Context, roomType *model.RoomType) error
	GetByID(ctx context.Context, id string) (*model.RoomType, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.RoomType, int64, error)
	GetByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomTypeUpdate) error
	Delete(ctx context.Context, id string) error
	Quote(ctx context.Context, roomTypeID string, checkIn, checkOut time.Time, guestCount int) (*availability.Quote, error)
}

type roomTypeService struct {
	repo      repository.RoomTypeRepository
	validator *validator.RoomTypeValidator
	cfg       *config.Config
}

func NewRoomTypeService(
	repo repository.RoomTypeRepository,
	validator *validator.RoomTypeValidator,
	cfg *config.Config,
) RoomTypeService {
	return &roomTypeService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomTypeService) Create(ctx context.Context, roomType *model.RoomType) error {
	s.sanitize(roomType)
	if err := s.validate(roomType); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, roomType); err != nil {
		s.cfg.Log.Error("Failed to create room type", "error", err)
		return apperrors.Internal("Failed to create room type", err)
	}

	s.cfg.Log.Info("Room type created successfully",
		"id", roomType.ID,
		"hotel_id", roomType.HotelID,
		"title", roomType.Title,
		"units", len(roomType.Units),
	)
	return nil
}

func (s *roomTypeService) GetByID(ctx context.Context, id string) (*model.RoomType, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room type ID cannot be empty")
	}

	roomType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room type", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room type ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room type", err)
	}

	return roomType, nil
}

func (s *roomTypeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.RoomType, int64, error) {
	var count int64
	var roomTypes []*model.RoomType
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count room types", "error", errCount)
			errCount = apperrors.Internal("Failed to count room types", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		roomTypes, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list room types", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve room types", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return roomTypes, count, nil
}

func (s *roomTypeService) GetByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, int64, error) {
	if hotelID == "" {
		return nil, 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	roomTypes, err := s.repo.FindByHotel(ctx, hotelID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list room types by hotel", "hotel_id", hotelID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve room types", err)
	}

	return roomTypes, int64(len(roomTypes)), nil
}

func (s *roomTypeService) Update(ctx context.Context, id string, updates *model.RoomTypeUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Room type ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room type update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeRoomTypeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Room type", id)
			}
			return apperrors.Internal("Failed to update room type", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update room type", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Room type updated successfully", "id", id)
	return nil
}

func (s *roomTypeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room type ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Room type", id)
			}
			if errors.Is(err, roomserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid room type ID format")
			}
			return apperrors.Internal("Failed to delete room type", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Room type deleted successfully", "id", id)
	return nil
}

// Quote prices a stay without mutating inventory. Availability outcomes
// (invalid range, unbookable party, no free unit) surface as the engine's
// sentinel errors so callers can distinguish them from lookup failures.
func (s *roomTypeService) Quote(ctx context.Context, roomTypeID string, checkIn, checkOut time.Time, guestCount int) (*availability.Quote, error) {
	roomType, err := s.GetByID(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}

	if nights := availability.Nights(checkIn, checkOut); nights > s.cfg.MaxStayNights {
		return nil, apperrors.Validation("Stay exceeds maximum length", map[string]any{
			"nights":     nights,
			"max_nights": s.cfg.MaxStayNights,
		})
	}

	quote, err := availability.QuoteStay(roomType, checkIn, checkOut, guestCount)
	if err != nil {
		s.cfg.Log.Debug("Quote declined",
			"room_type_id", roomTypeID,
			"check_in", checkIn,
			"check_out", checkOut,
			"guest_count", guestCount,
			"reason", err,
		)
		return nil, err
	}

	s.cfg.Log.Debug("Quote issued",
		"room_type_id", roomTypeID,
		"unit_number", quote.UnitNumber,
		"nights", quote.Nights,
		"total_price", quote.TotalPrice,
	)
	return quote, nil
}

// --- Helpers ---

func (s *roomTypeService) sanitize(rt *model.RoomType) {
	rt.Title = sanitizer.SanitizeTitle(rt.Title)
	rt.Description = sanitizer.SanitizeDescription(rt.Description)
}

func (s *roomTypeService) mergeRoomTypeUpdates(existing *model.RoomType, updates *model.RoomTypeUpdate) *model.RoomType {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.BasePrice != nil {
		merged.BasePrice = *updates.BasePrice
	}
	if updates.MaxOccupancy != nil {
		merged.MaxOccupancy = *updates.MaxOccupancy
	}
	if updates.Units != nil {
		merged.Units = *updates.Units
	}

	return &merged
}

func (s *roomTypeService) validate(roomType *model.RoomType) error {
	if err := s.validator.Validate(roomType); err != nil {
		s.cfg.Log.Warn("Room type validation failed",
			"title", roomType.Title,
			"error", err,
		)
		return apperrors.Validation("Invalid room type input", map[string]any{"error": err.Error()})
	}
	return nil
}
