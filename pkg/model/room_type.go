package model

import (
	"time"
)

// RoomType is a bookable category of accommodation (e.g. "Deluxe King").
// It owns its physical units exclusively; a RoomType with zero units can
// never satisfy a booking.
type RoomType struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID      string    `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	Title        string    `json:"title" bson:"title" validate:"required,min=2,max=100"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	BasePrice    float64   `json:"base_price" bson:"base_price" validate:"required,gt=0"`
	MaxOccupancy int       `json:"max_occupancy" bson:"max_occupancy" validate:"required,min=1,max=20"`
	Units        []Unit    `json:"units" bson:"units" validate:"required,room_units"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Unit is one concrete, numbered room belonging to a RoomType. The number is
// unique within the RoomType only. BlockedDates hold calendar dates on which
// the unit is taken; mutations keep the set free of duplicates.
type Unit struct {
	Number       int         `json:"number" bson:"number" validate:"required,min=1"`
	BlockedDates []time.Time `json:"blocked_dates" bson:"blocked_dates"`
}

type RoomTypeUpdate struct {
	Title        string   `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	BasePrice    *float64 `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	MaxOccupancy *int     `json:"max_occupancy,omitempty" validate:"omitempty,min=1,max=20"`
	Units        *[]Unit  `json:"units,omitempty" validate:"omitempty,room_units"`
}

// UnitByNumber returns the unit with the given number, or nil when the number
// does not belong to this room type.
func (rt *RoomType) UnitByNumber(number int) *Unit {
	for i := range rt.Units {
		if rt.Units[i].Number == number {
			return &rt.Units[i]
		}
	}
	return nil
}
