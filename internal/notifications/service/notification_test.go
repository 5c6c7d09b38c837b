package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"innkeep/internal/reservations/events"
	"innkeep/pkg/kafka"
	"innkeep/pkg/logger"
)

type captureSender struct {
	sent []Notification
}

func (c *captureSender) Send(_ context.Context, n Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func testService() (*NotificationService, *captureSender) {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
	sender := &captureSender{}
	return NewNotificationService(sender, log), sender
}

func eventMessage(t *testing.T, eventType string, event events.ReservationEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.Message{
		Key:   event.RoomTypeID,
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventID:   "evt-1",
			kafka.HeaderEventType: eventType,
		},
	}
}

func sampleEvent() events.ReservationEvent {
	return events.ReservationEvent{
		ReservationID: "507f1f77bcf86cd799439030",
		RoomTypeID:    "507f1f77bcf86cd799439020",
		UnitNumber:    101,
		GuestName:     "Ada Lovelace",
		GuestCount:    2,
		CheckIn:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		TotalPrice:    300,
		Status:        "active",
	}
}

func TestHandleMessageCreatedEvent(t *testing.T) {
	svc, sender := testService()

	msg := eventMessage(t, events.TypeReservationCreated, sampleEvent())
	if err := svc.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sender.sent))
	}
	n := sender.sent[0]
	if n.Subject != "Your reservation is booked" {
		t.Errorf("unexpected subject: %q", n.Subject)
	}
	if !strings.Contains(n.Body, "unit 101") || !strings.Contains(n.Body, "3 nights") {
		t.Errorf("body missing stay details: %q", n.Body)
	}
}

func TestHandleMessageCancelledEvent(t *testing.T) {
	svc, sender := testService()

	msg := eventMessage(t, events.TypeReservationCancelled, sampleEvent())
	if err := svc.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sender.sent))
	}
	if got := sender.sent[0].Subject; got != "Your reservation has been cancelled" {
		t.Errorf("unexpected subject: %q", got)
	}
}

func TestHandleMessageSkipsUnknownEventType(t *testing.T) {
	svc, sender := testService()

	msg := eventMessage(t, "room_type.updated", sampleEvent())
	if err := svc.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unknown event types must be skipped, got: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("expected no notification, got %d", len(sender.sent))
	}
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	svc, _ := testService()

	msg := kafka.Message{
		Key:   "k",
		Value: []byte("{not json"),
		Headers: map[string]string{
			kafka.HeaderEventType: events.TypeReservationCreated,
		},
	}
	if err := svc.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestHandleMessageRejectsMissingReservationID(t *testing.T) {
	svc, _ := testService()

	event := sampleEvent()
	event.ReservationID = ""
	msg := eventMessage(t, events.TypeReservationCreated, event)

	if err := svc.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for event without reservation ID")
	}
}
