package service

import (
	"context"
	"encoding/json"
	"fmt"

	"innkeep/internal/reservations/events"
	"innkeep/pkg/kafka"
	"innkeep/pkg/logger"
)

// Notification is a guest-facing message derived from a reservation event.
type Notification struct {
	ReservationID string
	GuestName     string
	Subject       string
	Body          string
}

// Sender delivers notifications. The default implementation only logs; a
// real deployment would plug in mail or SMS delivery here.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

type logSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(_ context.Context, n Notification) error {
	s.log.Info("Notification delivered",
		"reservation_id", n.ReservationID,
		"guest_name", n.GuestName,
		"subject", n.Subject,
	)
	return nil
}

type NotificationService struct {
	sender Sender
	log    *logger.Logger
}

func NewNotificationService(sender Sender, log *logger.Logger) *NotificationService {
	return &NotificationService{
		sender: sender,
		log:    log,
	}
}

// HandleMessage is the Kafka consumer entry point. Unknown event types are
// skipped without error so new producers cannot wedge the consumer group.
func (s *NotificationService) HandleMessage(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()

	switch eventType {
	case events.TypeReservationCreated, events.TypeReservationCancelled:
	default:
		s.log.Warn("Skipping unknown event type",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	var event events.ReservationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to decode reservation event: %w", err)
	}
	if event.ReservationID == "" {
		return fmt.Errorf("reservation event %s has no reservation ID", msg.GetEventID())
	}

	return s.sender.Send(ctx, s.compose(eventType, event))
}

func (s *NotificationService) compose(eventType string, event events.ReservationEvent) Notification {
	nights := int(event.CheckOut.Sub(event.CheckIn).Hours() / 24)

	switch eventType {
	case events.TypeReservationCancelled:
		return Notification{
			ReservationID: event.ReservationID,
			GuestName:     event.GuestName,
			Subject:       "Your reservation has been cancelled",
			Body: fmt.Sprintf("Hi %s, your reservation from %s to %s was cancelled.",
				event.GuestName,
				event.CheckIn.Format("2006-01-02"),
				event.CheckOut.Format("2006-01-02"),
			),
		}
	default:
		return Notification{
			ReservationID: event.ReservationID,
			GuestName:     event.GuestName,
			Subject:       "Your reservation is booked",
			Body: fmt.Sprintf("Hi %s, unit %d is yours from %s to %s (%d nights, %.2f total).",
				event.GuestName,
				event.UnitNumber,
				event.CheckIn.Format("2006-01-02"),
				event.CheckOut.Format("2006-01-02"),
				nights,
				event.TotalPrice,
			),
		}
	}
}
