package database

import (
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/coupons"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := MigrateExtensions(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&catalog.Theater{},
		&catalog.ServiceEntry{},
		&catalog.Occasion{},
		&catalog.Movie{},
		&catalog.PricingConfig{},
		&coupons.Coupon{},
		&bookings.Booking{},
		&bookings.Payment{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
