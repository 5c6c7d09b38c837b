package validator

import (
	"errors"
	"testing"
	"time"

	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
}

func validReservation() *model.Reservation {
	return &model.Reservation{
		RoomTypeID: "507f1f77bcf86cd799439020",
		GuestName:  "Ada Lovelace",
		GuestCount: 2,
		CheckIn:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateAcceptsWellFormedReservation(t *testing.T) {
	v := NewReservationValidator(testLogger())

	if err := v.Validate(validReservation()); err != nil {
		t.Fatalf("expected valid reservation, got: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	v := NewReservationValidator(testLogger())

	tests := []struct {
		name   string
		mutate func(r *model.Reservation)
		field  string
	}{
		{
			name:   "missing room type ID",
			mutate: func(r *model.Reservation) { r.RoomTypeID = "" },
			field:  "RoomTypeID",
		},
		{
			name:   "malformed room type ID",
			mutate: func(r *model.Reservation) { r.RoomTypeID = "nope" },
			field:  "RoomTypeID",
		},
		{
			name:   "short guest name",
			mutate: func(r *model.Reservation) { r.GuestName = "A" },
			field:  "GuestName",
		},
		{
			name:   "zero guests",
			mutate: func(r *model.Reservation) { r.GuestCount = 0 },
			field:  "GuestCount",
		},
		{
			name:   "check-out before check-in",
			mutate: func(r *model.Reservation) { r.CheckIn, r.CheckOut = r.CheckOut, r.CheckIn },
			field:  "CheckOut",
		},
		{
			name:   "unknown status",
			mutate: func(r *model.Reservation) { r.Status = "tentative" },
			field:  "Status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReservation()
			tt.mutate(r)

			err := v.Validate(r)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
			}

			found := false
			for _, ve := range verrs {
				if ve.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got: %v", tt.field, verrs)
			}
		})
	}
}

func TestValidateSameDayStayRejected(t *testing.T) {
	v := NewReservationValidator(testLogger())

	r := validReservation()
	r.CheckOut = r.CheckIn

	if err := v.Validate(r); err == nil {
		t.Fatal("expected same-day stay to be rejected")
	}
}
