package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	// NotificationTypeIncompleteBooking is sent when a wizard is closed with unsaved changes
	NotificationTypeIncompleteBooking NotificationType = "INCOMPLETE_BOOKING"
	NotificationTypeBookingConfirmed  NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeBookingUpdated    NotificationType = "BOOKING_UPDATED"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// BookingNotification is the message put on the notification topic. Delivery
// (email, WhatsApp) is done by whoever consumes the topic.
type BookingNotification struct {
	ID       uuid.UUID            `json:"id"`
	Type     NotificationType     `json:"type"`
	Priority NotificationPriority `json:"priority"`

	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	RecipientPhone string `json:"recipient_phone"`

	Subject      string                 `json:"subject"`
	TemplateData map[string]interface{} `json:"template_data"`

	BookingID  *uuid.UUID `json:"booking_id,omitempty"`
	BookingRef string     `json:"booking_ref,omitempty"`
	SessionID  string     `json:"session_id,omitempty"`

	Status    NotificationStatus `json:"status"`
	LastError *string            `json:"last_error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type NotificationBuilder struct {
	notification *BookingNotification
}

func NewNotificationBuilder() *NotificationBuilder {
	return &NotificationBuilder{
		notification: &BookingNotification{
			ID:           uuid.New(),
			Status:       NotificationStatusPending,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
			TemplateData: make(map[string]interface{}),
		},
	}
}

func (nb *NotificationBuilder) WithType(notType NotificationType) *NotificationBuilder {
	nb.notification.Type = notType
	nb.notification.Priority = GetDefaultPriority(notType)
	return nb
}

func (nb *NotificationBuilder) WithRecipient(name, email, phone string) *NotificationBuilder {
	nb.notification.RecipientName = name
	nb.notification.RecipientEmail = email
	nb.notification.RecipientPhone = phone
	return nb
}

func (nb *NotificationBuilder) WithSubject(subject string) *NotificationBuilder {
	nb.notification.Subject = subject
	return nb
}

func (nb *NotificationBuilder) WithTemplateData(data map[string]interface{}) *NotificationBuilder {
	nb.notification.TemplateData = data
	return nb
}

func (nb *NotificationBuilder) WithBookingContext(bookingID uuid.UUID, bookingRef string) *NotificationBuilder {
	nb.notification.BookingID = &bookingID
	nb.notification.BookingRef = bookingRef
	return nb
}

func (nb *NotificationBuilder) WithSessionContext(sessionID string) *NotificationBuilder {
	nb.notification.SessionID = sessionID
	return nb
}

func (nb *NotificationBuilder) Build() *BookingNotification {
	return nb.notification
}

func GetDefaultPriority(notType NotificationType) NotificationPriority {
	switch notType {
	case NotificationTypeIncompleteBooking:
		return NotificationPriorityHigh
	case NotificationTypeBookingConfirmed:
		return NotificationPriorityMedium
	default:
		return NotificationPriorityLow
	}
}

// GetPartitionKey keeps all messages of one customer on one partition
func (n *BookingNotification) GetPartitionKey() string {
	if n.RecipientPhone != "" {
		return n.RecipientPhone
	}
	if n.RecipientEmail != "" {
		return n.RecipientEmail
	}
	return n.ID.String()
}

func (n *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *BookingNotification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	n.UpdatedAt = time.Now()
	errorStr := err.Error()
	n.LastError = &errorStr
}

// IncompleteBooking describes a wizard session that was closed without submitting
type IncompleteBooking struct {
	SessionID   string
	BookingID   string // set when an existing booking was being edited
	Mode        string
	Name        string
	Email       string
	Phone       string
	TheaterName string
	Date        string
	TimeSlot    string
	Headcount   int
	Occasion    string
	TotalAmount float64
}
