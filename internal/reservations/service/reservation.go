package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"innkeep/internal/availability"
	reservationserrors "innkeep/internal/reservations/errors"
	"innkeep/internal/reservations/events"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/validator"
	roomserrors "innkeep/internal/rooms/errors"
	roomsrepository "innkeep/internal/rooms/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	SearchByRoomType(ctx context.Context, roomTypeID string, statuses []string, from, to *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error)
	Confirm(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
}

type reservationService struct {
	repo      repository.ReservationRepository
	lockRepo  repository.ReservationLockRepository
	roomsRepo roomsrepository.RoomTypeRepository
	validator *validator.ReservationValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.ReservationLockRepository,
	roomsRepo roomsrepository.RoomTypeRepository,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		roomsRepo: roomsRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create quotes and confirms a stay as one atomic step. The advisory lock
// serializes concurrent attempts on the same room type so the availability
// read and the inventory write cannot interleave.
func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	s.applyDefaults(reservation)
	s.sanitize(reservation)
	if err := s.validate(reservation); err != nil {
		return err
	}

	lockID, err := s.acquireRoomTypeLock(ctx, reservation.RoomTypeID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseRoomTypeLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		roomType, err := s.roomsRepo.FindByID(sessCtx, reservation.RoomTypeID)
		if err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Room type", reservation.RoomTypeID)
			}
			return apperrors.Internal("Failed to load room type", err)
		}

		// A requested unit number pins the stay to that unit; otherwise
		// the scan picks the first free one.
		var quote *availability.Quote
		if reservation.UnitNumber > 0 {
			quote, err = availability.QuoteStayForUnit(roomType, reservation.UnitNumber, reservation.CheckIn, reservation.CheckOut, reservation.GuestCount)
		} else {
			quote, err = availability.QuoteStay(roomType, reservation.CheckIn, reservation.CheckOut, reservation.GuestCount)
		}
		if err != nil {
			return mapAvailabilityError(err)
		}

		if err := availability.ConfirmBooking(roomType, quote.UnitNumber, reservation.CheckIn, reservation.CheckOut); err != nil {
			return apperrors.Internal("Failed to block unit dates", err)
		}

		if err := s.roomsRepo.ReplaceUnits(sessCtx, roomType.ID, roomType.Units); err != nil {
			return apperrors.Internal("Failed to persist unit inventory", err)
		}

		reservation.UnitNumber = quote.UnitNumber
		reservation.NightlyPrice = quote.NightlyPrice
		reservation.TotalPrice = quote.TotalPrice

		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation",
			"room_type_id", reservation.RoomTypeID,
			"error", err,
		)
		return err
	}

	s.publishEvent(ctx, events.TypeReservationCreated, reservation)

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"room_type_id", reservation.RoomTypeID,
		"unit_number", reservation.UnitNumber,
		"check_in", reservation.CheckIn,
		"check_out", reservation.CheckOut,
		"total_price", reservation.TotalPrice,
	)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) SearchByRoomType(ctx context.Context, roomTypeID string, statuses []string, from, to *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if roomTypeID == "" {
		return nil, 0, apperrors.InvalidInput("Room type ID is required")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByRoomType(ctx, roomTypeID, statuses, from, to)
		if err != nil {
			s.cfg.Log.Error("Failed to count reservations by room type",
				"room_type_id", roomTypeID,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count reservations", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		reservations, err = s.repo.FindByRoomType(ctx, roomTypeID, statuses, from, to, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search reservations",
				"room_type_id", roomTypeID,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search reservations", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// Confirm moves an active reservation to confirmed. Any other starting
// status is a conflict.
func (s *reservationService) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.ReservationConfirmed, func(r *model.Reservation) error {
		if r.Status != model.ReservationActive {
			return apperrors.Conflict(fmt.Sprintf("Cannot confirm a %s reservation", r.Status))
		}
		return nil
	})
}

// Complete marks a stay as finished; only live reservations qualify.
func (s *reservationService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.ReservationCompleted, func(r *model.Reservation) error {
		if r.Terminal() {
			return apperrors.Conflict(fmt.Sprintf("Cannot complete a %s reservation", r.Status))
		}
		return nil
	})
}

// Cancel releases the reservation's dates back to its unit. Cancelling a
// terminal reservation is rejected rather than treated as a no-op so a
// double cancel cannot silently free dates claimed by a later booking.
func (s *reservationService) Cancel(ctx context.Context, id string) error {
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reservation.Terminal() {
		return apperrors.Conflict(fmt.Sprintf("Cannot cancel a %s reservation", reservation.Status))
	}

	lockID, err := s.acquireRoomTypeLock(ctx, reservation.RoomTypeID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseRoomTypeLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		roomType, err := s.roomsRepo.FindByID(sessCtx, reservation.RoomTypeID)
		if err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Room type", reservation.RoomTypeID)
			}
			return apperrors.Internal("Failed to load room type", err)
		}

		unit := roomType.UnitByNumber(reservation.UnitNumber)
		if unit == nil {
			return apperrors.Internal("Reservation references a unit missing from its room type",
				fmt.Errorf("unit %d not in room type %s", reservation.UnitNumber, roomType.ID))
		}

		if err := availability.CancelBooking(unit, reservation.CheckIn, reservation.CheckOut); err != nil {
			return apperrors.Internal("Failed to free unit dates", err)
		}

		if err := s.roomsRepo.ReplaceUnits(sessCtx, roomType.ID, roomType.Units); err != nil {
			return apperrors.Internal("Failed to persist unit inventory", err)
		}

		if err := s.repo.UpdateStatus(sessCtx, id, model.ReservationCancelled); err != nil {
			return apperrors.Internal("Failed to update reservation status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel reservation", "id", id, "error", err)
		return err
	}

	reservation.Status = model.ReservationCancelled
	s.publishEvent(ctx, events.TypeReservationCancelled, reservation)

	s.cfg.Log.Info("Reservation cancelled successfully",
		"id", id,
		"room_type_id", reservation.RoomTypeID,
		"unit_number", reservation.UnitNumber,
	)
	return nil
}

// --- Helpers ---

func (s *reservationService) transition(ctx context.Context, id string, target string, check func(*model.Reservation) error) error {
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := check(reservation); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		return apperrors.Internal("Failed to update reservation status", err)
	}

	s.cfg.Log.Info("Reservation status updated", "id", id, "status", target)
	return nil
}

func (s *reservationService) applyDefaults(r *model.Reservation) {
	if r.Status == "" {
		r.Status = model.ReservationActive
	}
	r.CheckIn = availability.Day(r.CheckIn)
	r.CheckOut = availability.Day(r.CheckOut)
}

func (s *reservationService) sanitize(r *model.Reservation) {
	r.GuestName = sanitizer.SanitizeName(r.GuestName)
}

func (s *reservationService) validate(r *model.Reservation) error {
	if err := s.validator.Validate(r); err != nil {
		s.cfg.Log.Warn("Reservation validation failed",
			"room_type_id", r.RoomTypeID,
			"error", err,
		)
		return apperrors.Validation("Invalid reservation input", map[string]any{"error": err.Error()})
	}
	return nil
}

// acquireRoomTypeLock takes the advisory lock covering all units of one room
// type. A duplicate key on insert means another request holds it.
func (s *reservationService) acquireRoomTypeLock(ctx context.Context, roomTypeID string) (string, error) {
	lockID := fmt.Sprintf("roomtype_lock_%s", roomTypeID)

	lock := &model.ReservationLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.ReservationLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room type is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire reservation lock", err)
	}

	return lockID, nil
}

func (s *reservationService) releaseRoomTypeLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *reservationService) publishEvent(ctx context.Context, eventType string, reservation *model.Reservation) {
	if s.publisher == nil {
		return
	}

	var err error
	switch eventType {
	case events.TypeReservationCreated:
		err = s.publisher.ReservationCreated(ctx, reservation)
	case events.TypeReservationCancelled:
		err = s.publisher.ReservationCancelled(ctx, reservation)
	}
	if err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}

func mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, availability.ErrInvalidRange):
		return apperrors.InvalidInput("Check-out must be at least one day after check-in")
	case errors.Is(err, availability.ErrUnbookable):
		return apperrors.Unbookable("Party size cannot be accommodated by this room type")
	case errors.Is(err, availability.ErrNoAvailability):
		return apperrors.Conflict("No unit of this room type is free for the requested dates")
	case errors.Is(err, availability.ErrUnitNotFound):
		return apperrors.NotFound("Unit")
	case errors.Is(err, availability.ErrRoomTypeNotFound):
		return apperrors.NotFound("Room type")
	}
	return apperrors.Internal("Availability check failed", err)
}
