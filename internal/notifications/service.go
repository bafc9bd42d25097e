package notifications

import (
	"context"
	"fmt"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"
)

// NewProducer returns a Kafka producer when Kafka is enabled, a log-only producer otherwise
func NewProducer(cfg config.KafkaConfig, log *logger.Logger) (NotificationProducer, error) {
	if !cfg.Enabled {
		return NewLogProducer(log), nil
	}

	kafkaConfig := DefaultKafkaProducerConfig()
	kafkaConfig.Brokers = cfg.Brokers
	kafkaConfig.NotificationTopic = cfg.NotificationTopic
	kafkaConfig.RetryMax = cfg.RetryMax
	kafkaConfig.Timeout = cfg.Timeout

	return NewKafkaNotificationProducer(kafkaConfig)
}

// NotificationPublisher turns booking events into notifications
type NotificationPublisher struct {
	producer NotificationProducer
}

// NewNotificationPublisher creates a new notification publisher
func NewNotificationPublisher(producer NotificationProducer) *NotificationPublisher {
	return &NotificationPublisher{producer: producer}
}

// BookingCreated publishes a confirmation for a newly stored booking
func (np *NotificationPublisher) BookingCreated(ctx context.Context, b *bookings.Booking) error {
	return np.publishBooking(ctx, NotificationTypeBookingConfirmed, b)
}

// BookingUpdated publishes a notice for an edited booking
func (np *NotificationPublisher) BookingUpdated(ctx context.Context, b *bookings.Booking) error {
	return np.publishBooking(ctx, NotificationTypeBookingUpdated, b)
}

func (np *NotificationPublisher) publishBooking(ctx context.Context, notificationType NotificationType, b *bookings.Booking) error {
	data := map[string]interface{}{
		"booking_ref":     b.BookingRef,
		"theater_name":    b.TheaterName,
		"date":            b.Date,
		"time_slot":       b.TimeSlot,
		"guests":          b.Headcount,
		"occasion":        b.Occasion,
		"total_amount":    b.FinalTotal,
		"advance_payment": b.AdvancePayment,
		"venue_payment":   b.VenuePayment,
		"amount_received": b.AmountReceived,
		"payment_method":  b.PaymentMethod,
	}

	notification := NewNotificationBuilder().
		WithType(notificationType).
		WithRecipient(b.CustomerName, b.Email, b.Phone).
		WithBookingContext(b.ID, b.BookingRef).
		WithSubject(np.generateSubject(notificationType, data)).
		WithTemplateData(data).
		Build()

	return np.producer.PublishNotification(ctx, notification)
}

// PublishIncompleteBooking reports a wizard closed with unsaved changes
func (np *NotificationPublisher) PublishIncompleteBooking(ctx context.Context, ib IncompleteBooking) error {
	data := map[string]interface{}{
		"mode":         ib.Mode,
		"theater_name": ib.TheaterName,
		"date":         ib.Date,
		"time_slot":    ib.TimeSlot,
		"guests":       ib.Headcount,
		"occasion":     ib.Occasion,
		"total_amount": ib.TotalAmount,
	}
	if ib.BookingID != "" {
		data["booking_id"] = ib.BookingID
	}

	notification := NewNotificationBuilder().
		WithType(NotificationTypeIncompleteBooking).
		WithRecipient(ib.Name, ib.Email, ib.Phone).
		WithSessionContext(ib.SessionID).
		WithSubject(np.generateSubject(NotificationTypeIncompleteBooking, data)).
		WithTemplateData(data).
		Build()

	return np.producer.PublishNotification(ctx, notification)
}

// generateSubject generates appropriate subjects for different notification types
func (np *NotificationPublisher) generateSubject(notificationType NotificationType, data map[string]interface{}) string {
	switch notificationType {
	case NotificationTypeBookingConfirmed:
		if ref, ok := data["booking_ref"]; ok {
			return fmt.Sprintf("Booking Confirmed - %s", ref)
		}
		return "Your booking is confirmed!"

	case NotificationTypeBookingUpdated:
		if ref, ok := data["booking_ref"]; ok {
			return fmt.Sprintf("Booking Updated - %s", ref)
		}
		return "Your booking has been updated"

	case NotificationTypeIncompleteBooking:
		if theater, ok := data["theater_name"]; ok && theater != "" {
			return fmt.Sprintf("Complete your booking at %s", theater)
		}
		return "Complete your booking"

	default:
		return "Notification from FeelMe Town"
	}
}
