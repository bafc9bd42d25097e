package database

import (
	"gorm.io/gorm"
)

// MigrateExtensions enables the extensions model defaults depend on
func MigrateExtensions(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
}

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One live booking per theater, date and slot; cancelling a booking frees its slot
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_live_booking_per_slot
		ON bookings (theater_name, date, time_slot)
		WHERE status <> 'CANCELLED';
	`).Error
	if err != nil {
		return err
	}

	return nil
}
