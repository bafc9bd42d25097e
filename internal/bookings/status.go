package bookings

// Status is the lifecycle state of a booking
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Editable reports whether the wizard may still change a booking in this status.
// A cancelled booking has released its slot.
func (s Status) Editable() bool {
	return s != StatusCancelled
}
