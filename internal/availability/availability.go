// Package availability answers "can N guests stay in this room type from A to
// B, in which unit, and at what price", and computes the inventory mutation a
// confirmed or cancelled stay implies. It is pure: all state lives in the
// RoomType passed in, and the caller owns the quote-then-confirm critical
// section for a given room type.
package availability

import (
	"errors"
	"time"

	"innkeep/pkg/model"
)

var (
	ErrInvalidRange     = errors.New("check-out must be after check-in")
	ErrUnbookable       = errors.New("guest count exceeds twice the maximum occupancy")
	ErrNoAvailability   = errors.New("no unit is free for the requested dates")
	ErrUnitNotFound     = errors.New("unit does not belong to room type")
	ErrRoomTypeNotFound = errors.New("room type not found")
)

// Quote is a successful availability answer for a stay.
type Quote struct {
	UnitNumber   int     `json:"unit_number"`
	NightlyPrice float64 `json:"nightly_price"`
	Nights       int     `json:"nights"`
	TotalPrice   float64 `json:"total_price"`
}

// Day truncates a timestamp to its calendar date in UTC. All blocking and
// comparison in this package happens at this granularity; two timestamps on
// the same day always collide.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// ExpandRange produces the inclusive sequence of calendar dates from start to
// end. Length is days(end-start)+1; a single day expands to itself. Returns
// ErrInvalidRange when end precedes start.
func ExpandRange(start, end time.Time) ([]time.Time, error) {
	first := Day(start)
	last := Day(end)
	if last.Before(first) {
		return nil, ErrInvalidRange
	}

	dates := make([]time.Time, 0, Nights(first, last)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

// Nights counts whole nights between check-in and check-out, i.e. the number
// of calendar-day steps. A same-day pair yields zero.
func Nights(checkIn, checkOut time.Time) int {
	return int(Day(checkOut).Sub(Day(checkIn)).Hours() / 24)
}

// IsUnitFree reports whether none of the unit's blocked dates falls on any of
// the given calendar dates.
func IsUnitFree(unit *model.Unit, dates []time.Time) bool {
	if len(unit.BlockedDates) == 0 {
		return true
	}

	blocked := make(map[time.Time]struct{}, len(unit.BlockedDates))
	for _, b := range unit.BlockedDates {
		blocked[Day(b)] = struct{}{}
	}
	for _, d := range dates {
		if _, taken := blocked[Day(d)]; taken {
			return false
		}
	}
	return true
}

// FindAvailableUnit scans the room type's units in stored order and returns
// the first one free for every requested date. The scan order is the
// tie-break: repeated calls against unchanged data return the same unit.
func FindAvailableUnit(roomType *model.RoomType, dates []time.Time) (*model.Unit, bool) {
	for i := range roomType.Units {
		if IsUnitFree(&roomType.Units[i], dates) {
			return &roomType.Units[i], true
		}
	}
	return nil, false
}

// QuotePrice answers the nightly price for a guest count: base price up to
// the maximum occupancy, double beyond it up to twice the occupancy (flat
// surcharge, not per guest), ErrUnbookable past that. Guest counts below one
// are ErrUnbookable as well: a stay prices per party, and an empty party has
// no price. Eligibility is a pure pricing decision, independent of dates, and
// is checked before any unit scan.
func QuotePrice(roomType *model.RoomType, guestCount int) (float64, error) {
	switch {
	case guestCount < 1:
		return 0, ErrUnbookable
	case guestCount <= roomType.MaxOccupancy:
		return roomType.BasePrice, nil
	case guestCount <= roomType.MaxOccupancy*2:
		return roomType.BasePrice * 2, nil
	default:
		return 0, ErrUnbookable
	}
}

// QuoteStay composes eligibility, range expansion and the unit scan.
// Check-in and check-out follow hotel semantics: the stay occupies every
// calendar date from check-in through check-out inclusive, and the number of
// nights is days(checkOut-checkIn), so a same-day pair is ErrInvalidRange.
func QuoteStay(roomType *model.RoomType, checkIn, checkOut time.Time, guestCount int) (*Quote, error) {
	nightly, err := QuotePrice(roomType, guestCount)
	if err != nil {
		return nil, err
	}

	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return nil, ErrInvalidRange
	}

	dates, err := ExpandRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	unit, ok := FindAvailableUnit(roomType, dates)
	if !ok {
		return nil, ErrNoAvailability
	}

	return &Quote{
		UnitNumber:   unit.Number,
		NightlyPrice: nightly,
		Nights:       nights,
		TotalPrice:   nightly * float64(nights),
	}, nil
}

// QuoteStayForUnit prices a stay on one specific unit instead of letting the
// scan pick. ErrUnitNotFound when the number does not belong to the room
// type; ErrNoAvailability when the unit is taken on any requested date.
func QuoteStayForUnit(roomType *model.RoomType, unitNumber int, checkIn, checkOut time.Time, guestCount int) (*Quote, error) {
	nightly, err := QuotePrice(roomType, guestCount)
	if err != nil {
		return nil, err
	}

	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return nil, ErrInvalidRange
	}

	dates, err := ExpandRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	unit := roomType.UnitByNumber(unitNumber)
	if unit == nil {
		return nil, ErrUnitNotFound
	}
	if !IsUnitFree(unit, dates) {
		return nil, ErrNoAvailability
	}

	return &Quote{
		UnitNumber:   unit.Number,
		NightlyPrice: nightly,
		Nights:       nights,
		TotalPrice:   nightly * float64(nights),
	}, nil
}

// ConfirmBooking blocks every date of the stay on the given unit,
// de-duplicating against dates already present so a lost race cannot corrupt
// the blocked set. Not concurrency-safe on its own: the caller must serialize
// quote+confirm per room type.
func ConfirmBooking(roomType *model.RoomType, unitNumber int, checkIn, checkOut time.Time) error {
	unit := roomType.UnitByNumber(unitNumber)
	if unit == nil {
		return ErrUnitNotFound
	}

	dates, err := ExpandRange(checkIn, checkOut)
	if err != nil {
		return err
	}

	present := make(map[time.Time]struct{}, len(unit.BlockedDates))
	for _, b := range unit.BlockedDates {
		present[Day(b)] = struct{}{}
	}
	for _, d := range dates {
		if _, ok := present[d]; ok {
			continue
		}
		unit.BlockedDates = append(unit.BlockedDates, d)
		present[d] = struct{}{}
	}
	return nil
}

// CancelBooking frees every date of the stay on the unit. Dates outside the
// range are untouched; removing an absent date is a no-op, so cancellation is
// idempotent.
func CancelBooking(unit *model.Unit, checkIn, checkOut time.Time) error {
	dates, err := ExpandRange(checkIn, checkOut)
	if err != nil {
		return err
	}

	release := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		release[d] = struct{}{}
	}

	kept := unit.BlockedDates[:0]
	for _, b := range unit.BlockedDates {
		if _, gone := release[Day(b)]; !gone {
			kept = append(kept, b)
		}
	}
	unit.BlockedDates = kept
	return nil
}
