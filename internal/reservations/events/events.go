// Package events publishes reservation lifecycle facts to Kafka. Publishing
// is best-effort: the booking itself is already durable in Mongo when the
// event goes out, so a broker outage degrades notifications, not bookings.
package events

import (
	"context"
	"time"

	"innkeep/pkg/kafka"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"
)

const (
	Topic    = "reservations.events"
	DLQTopic = "reservations.events.dlq"

	TypeReservationCreated   = "reservation.created"
	TypeReservationCancelled = "reservation.cancelled"

	source = "reservations-service"
)

// ReservationEvent is the wire payload for both lifecycle events.
type ReservationEvent struct {
	ReservationID string    `json:"reservation_id"`
	RoomTypeID    string    `json:"room_type_id"`
	UnitNumber    int       `json:"unit_number"`
	GuestName     string    `json:"guest_name"`
	GuestCount    int       `json:"guest_count"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
}

type Publisher interface {
	ReservationCreated(ctx context.Context, reservation *model.Reservation) error
	ReservationCancelled(ctx context.Context, reservation *model.Reservation) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) ReservationCreated(ctx context.Context, reservation *model.Reservation) error {
	return p.publish(ctx, TypeReservationCreated, reservation)
}

func (p *kafkaPublisher) ReservationCancelled(ctx context.Context, reservation *model.Reservation) error {
	return p.publish(ctx, TypeReservationCancelled, reservation)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, reservation *model.Reservation) error {
	msg, err := kafka.NewMessage().
		WithKey(reservation.RoomTypeID).
		WithValue(ReservationEvent{
			ReservationID: reservation.ID,
			RoomTypeID:    reservation.RoomTypeID,
			UnitNumber:    reservation.UnitNumber,
			GuestName:     reservation.GuestName,
			GuestCount:    reservation.GuestCount,
			CheckIn:       reservation.CheckIn,
			CheckOut:      reservation.CheckOut,
			TotalPrice:    reservation.TotalPrice,
			Status:        reservation.Status,
		}).
		WithEventType(eventType).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithSource(source).
		Build()
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, msg)
}
