package model

import "time"

// ReservationLock is an advisory lock document keyed by room type. Creating
// one serializes the quote-then-confirm critical section: a duplicate _id
// insert means another request is currently booking the same room type.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
