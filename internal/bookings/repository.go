package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Create stores a booking with its payments, failing with ErrSlotUnavailable
	// when the theater slot is already taken
	Create(ctx context.Context, booking *Booking) error
	// Update rewrites a booking and appends any new payments
	Update(ctx context.Context, booking *Booking, newPayments []Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// BookedTimeSlots lists the taken slots of a theater on date, ignoring exclude
	BookedTimeSlots(ctx context.Context, date, theaterName string, exclude *uuid.UUID) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkSlotFree(tx, booking, nil); err != nil {
			return err
		}

		if err := tx.Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

func (r *repository) Update(ctx context.Context, booking *Booking, newPayments []Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkSlotFree(tx, booking, &booking.ID); err != nil {
			return err
		}

		err := tx.Model(booking).Select("*").Omit("id", "booking_ref", "created_at", "Payments").Updates(booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("failed to update booking: %w", err)
		}

		for i := range newPayments {
			newPayments[i].BookingID = booking.ID
			if err := tx.Create(&newPayments[i]).Error; err != nil {
				return fmt.Errorf("failed to record payment: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) BookedTimeSlots(ctx context.Context, date, theaterName string, exclude *uuid.UUID) ([]string, error) {
	query := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("date = ? AND theater_name = ? AND status <> ?", date, theaterName, StatusCancelled)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}

	var slots []string
	err := query.Distinct().Order("time_slot").Pluck("time_slot", &slots).Error
	return slots, err
}

// checkSlotFree locks any live booking on the same slot. The partial unique
// index still catches two inserts racing past this check.
func checkSlotFree(tx *gorm.DB, booking *Booking, exclude *uuid.UUID) error {
	query := tx.Model(&Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("theater_name = ? AND date = ? AND time_slot = ? AND status <> ?",
			booking.TheaterName, booking.Date, booking.TimeSlot, StatusCancelled)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}

	var taken []uuid.UUID
	if err := query.Pluck("id", &taken).Error; err != nil {
		return fmt.Errorf("failed to check slot availability: %w", err)
	}
	if len(taken) > 0 {
		return ErrSlotUnavailable
	}
	return nil
}
