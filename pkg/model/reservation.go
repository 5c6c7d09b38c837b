package model

import (
	"time"
)

const (
	ReservationActive    = "active"
	ReservationConfirmed = "confirmed"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

// Reservation ties a date range to one physical unit of a room type. It is
// the only record holding that association; the unit itself carries no
// back-reference, so cancellation must be told which dates to free.
type Reservation struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomTypeID   string    `json:"room_type_id" bson:"room_type_id" validate:"required,mongodb"`
	UnitNumber   int       `json:"unit_number" bson:"unit_number" validate:"omitempty,min=1"`
	GuestName    string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	GuestCount   int       `json:"guest_count" bson:"guest_count" validate:"required,min=1,max=40"`
	CheckIn      time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut     time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	NightlyPrice float64   `json:"nightly_price" bson:"nightly_price" validate:"omitempty,gt=0"`
	TotalPrice   float64   `json:"total_price" bson:"total_price" validate:"omitempty,gt=0"`
	Status       string    `json:"status" bson:"status" validate:"omitempty,oneof=active confirmed completed cancelled"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Terminal reports whether the reservation status admits no further
// transitions.
func (r *Reservation) Terminal() bool {
	return r.Status == ReservationCompleted || r.Status == ReservationCancelled
}
