package bookings

// SubmitResult is returned for every stored or updated booking
type SubmitResult struct {
	Success    bool     `json:"success"`
	BookingID  string   `json:"bookingId"`
	BookingRef string   `json:"bookingRef"`
	Booking    *Booking `json:"booking,omitempty"`
}

type SlotsResponse struct {
	Date            string   `json:"date"`
	TheaterName     string   `json:"theaterName"`
	BookedTimeSlots []string `json:"bookedTimeSlots"`
}
