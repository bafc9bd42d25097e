package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/coupons"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/constants"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/database"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/cache"

	"github.com/joho/godotenv"
)

type Seeder struct {
	db      *database.DB
	catalog catalog.Repository
	coupons coupons.Service
}

var timeSlots = []string{"10:00 AM - 1:00 PM", "1:30 PM - 4:30 PM", "5:00 PM - 8:00 PM", "8:30 PM - 11:30 PM"}

func main() {
	fmt.Println("🌱 Starting FeelmeTown Database Seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{
		db:      db,
		catalog: catalog.NewRepository(db.GetPostgreSQL()),
		coupons: coupons.NewService(coupons.NewRepository(db.GetPostgreSQL())),
	}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! The booking wizard is ready for testing.")
}

// CleanDatabase truncates all tables, bookings first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"bookings",
		"coupons",
		"pricing_config",
		"movies",
		"occasions",
		"catalog_services",
		"theaters",
	}

	tx := s.db.BeginTx(context.Background())
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedTheaters(ctx); err != nil {
		return fmt.Errorf("failed to seed theaters: %w", err)
	}
	if err := s.SeedServices(ctx); err != nil {
		return fmt.Errorf("failed to seed services: %w", err)
	}
	if err := s.SeedOccasions(ctx); err != nil {
		return fmt.Errorf("failed to seed occasions: %w", err)
	}
	if err := s.SeedMovies(ctx); err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}
	if err := s.SeedPricing(ctx); err != nil {
		return fmt.Errorf("failed to seed pricing: %w", err)
	}
	if err := s.SeedCoupons(ctx); err != nil {
		return fmt.Errorf("failed to seed coupons: %w", err)
	}

	// Clear cached catalog and slots so the next load sees the new rows
	if s.db.Redis != nil {
		if err := cache.NewService(s.db.Redis).DeletePattern(ctx, constants.CACHE_PREFIX+":*"); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedTheaters creates the screening rooms
func (s *Seeder) SeedTheaters(ctx context.Context) error {
	fmt.Println("  🎬 Seeding theaters...")

	coupleFee := 500.0
	theaters := []catalog.Theater{
		{Name: "EROS (FMT-Hall-1)", Price: 1399, Capacity: catalog.Capacity{Min: 2, Max: 6}, SortOrder: 1},
		{Name: "PHILIA (FMT-Hall-2)", Price: 1999, Capacity: catalog.Capacity{Min: 4, Max: 12}, SortOrder: 2},
		{Name: "PRAGMA (FMT-Hall-3)", Price: 2499, Capacity: catalog.Capacity{Min: 6, Max: 20}, SortOrder: 3},
		{Name: "Couples Lounge", Price: 999, Capacity: catalog.Capacity{Min: 2, Max: 2}, SlotBookingFee: &coupleFee, SortOrder: 4},
	}

	for i := range theaters {
		theaters[i].TimeSlots = timeSlots
		theaters[i].IsActive = true
		if err := s.catalog.SaveTheater(ctx, &theaters[i]); err != nil {
			return fmt.Errorf("failed to create theater %s: %w", theaters[i].Name, err)
		}
		fmt.Printf("    ✅ Created theater: %s (%d-%d guests)\n", theaters[i].Name, theaters[i].Capacity.Min, theaters[i].Capacity.Max)
	}
	return nil
}

// SeedServices creates the add-on categories shown as wizard steps
func (s *Seeder) SeedServices(ctx context.Context) error {
	fmt.Println("  🎁 Seeding services...")

	services := []catalog.ServiceEntry{
		{
			Name:                "Decoration Extras",
			IncludeInDecoration: true,
			ShowInBookingPopup:  true,
			Items: []catalog.Item{
				{ID: "deco-balloon-arch", Name: "Balloon Arch", Price: 300},
				{ID: "deco-led-name", Name: "LED Name Board", Price: 450},
				{ID: "deco-fog", Name: "Fog Entry", Price: 600},
			},
		},
		{
			Name:               "Gifts",
			ShowInBookingPopup: true,
			Items: []catalog.Item{
				{ID: "gift-rose-bouquet", Name: "Rose Bouquet", Price: 499},
				{ID: "gift-teddy", Name: "Teddy Bear", Price: 299},
				{ID: "gift-photo-frame", Name: "Photo Frame", Price: 349},
			},
		},
		{
			Name:               "Cakes",
			ShowInBookingPopup: true,
			Items: []catalog.Item{
				{ID: "cake-chocolate-truffle", Name: "Chocolate Truffle", Price: 650},
				{ID: "cake-red-velvet", Name: "Red Velvet", Price: 700},
				{ID: "cake-pineapple", Name: "Pineapple", Price: 550},
			},
		},
		{
			Name:               "Movies",
			ShowInBookingPopup: false,
		},
	}

	for i := range services {
		services[i].SortOrder = i + 1
		services[i].IsActive = true
		if err := s.catalog.SaveService(ctx, &services[i]); err != nil {
			return fmt.Errorf("failed to create service %s: %w", services[i].Name, err)
		}
		fmt.Printf("    ✅ Created service: %s (%d items)\n", services[i].Name, len(services[i].Items))
	}
	return nil
}

// SeedOccasions creates the celebration types and their detail fields
func (s *Seeder) SeedOccasions(ctx context.Context) error {
	fmt.Println("  🎉 Seeding occasions...")

	occasions := []catalog.Occasion{
		{
			Name: "Birthday Party", Icon: "🎂", Popular: true, IncludeInDecoration: true,
			RequiredFields: []string{"birthdayName"},
			FieldLabels:    map[string]string{"birthdayName": "Birthday Person Name"},
		},
		{
			Name: "Anniversary", Icon: "💍", Popular: true, IncludeInDecoration: true,
			RequiredFields: []string{"partner1Name", "partner2Name"},
			FieldLabels:    map[string]string{"partner1Name": "Partner 1 Name", "partner2Name": "Partner 2 Name"},
		},
		{
			Name: "Marriage Proposal", Icon: "💐", IncludeInDecoration: true,
			RequiredFields: []string{"proposerName", "proposalPartnerName"},
			FieldLabels:    map[string]string{"proposerName": "Your Name", "proposalPartnerName": "Partner Name"},
		},
		{
			Name: "Date Night", Icon: "🌙", IncludeInDecoration: false,
			RequiredFields: []string{"dateNightName"},
			FieldLabels:    map[string]string{"dateNightName": "Your Nickname"},
		},
	}

	for i := range occasions {
		occasions[i].SortOrder = i + 1
		occasions[i].IsActive = true
		if err := s.catalog.SaveOccasion(ctx, &occasions[i]); err != nil {
			return fmt.Errorf("failed to create occasion %s: %w", occasions[i].Name, err)
		}
		fmt.Printf("    ✅ Created occasion: %s\n", occasions[i].Name)
	}
	return nil
}

// SeedMovies creates the movies guests can pick for the show
func (s *Seeder) SeedMovies(ctx context.Context) error {
	fmt.Println("  🍿 Seeding movies...")

	for _, title := range []string{"Inception", "Interstellar", "La La Land", "3 Idiots", "Yeh Jawaani Hai Deewani"} {
		movie := catalog.Movie{Title: title, IsActive: true}
		if err := s.catalog.SaveMovie(ctx, &movie); err != nil {
			return fmt.Errorf("failed to create movie %s: %w", title, err)
		}
		fmt.Printf("    ✅ Created movie: %s\n", title)
	}
	return nil
}

// SeedPricing stores the fee configuration
func (s *Seeder) SeedPricing(ctx context.Context) error {
	fmt.Println("  💰 Seeding pricing...")

	d := catalog.DefaultDefaults()
	pricing := catalog.PricingConfig{
		SlotBookingFee: d.SlotBookingFee,
		ExtraGuestFee:  d.ExtraGuestFee,
		ConvenienceFee: d.ConvenienceFee,
		DecorationFees: d.DecorationFees,
	}
	if err := s.catalog.SavePricing(ctx, &pricing); err != nil {
		return err
	}
	fmt.Printf("    ✅ Slot booking fee ₹%.0f, extra guest ₹%.0f, decoration ₹%.0f\n",
		pricing.SlotBookingFee, pricing.ExtraGuestFee, pricing.DecorationFees)
	return nil
}

// SeedCoupons creates a few coupons covering both discount types
func (s *Seeder) SeedCoupons(ctx context.Context) error {
	fmt.Println("  🏷️ Seeding coupons...")

	expired := time.Now().AddDate(0, 0, -1)
	requests := []coupons.CreateCouponRequest{
		{Code: "LOVE10", Description: "10% off celebrations", DiscountType: coupons.DiscountPercentage, DiscountValue: 10, MaxDiscount: 500},
		{Code: "FLAT200", Description: "₹200 off orders above ₹1500", DiscountType: coupons.DiscountFixed, DiscountValue: 200, MinAmount: 1500},
		{Code: "FIRST50", Description: "50% off, first 20 bookings", DiscountType: coupons.DiscountPercentage, DiscountValue: 50, MaxDiscount: 1000, UsageLimit: 20},
		{Code: "OLD50", Description: "Expired launch offer", DiscountType: coupons.DiscountPercentage, DiscountValue: 50, ValidUntil: &expired},
	}

	for _, req := range requests {
		coupon, err := s.coupons.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create coupon %s: %w", req.Code, err)
		}
		fmt.Printf("    ✅ Created coupon: %s (%s %.0f)\n", coupon.Code, coupon.DiscountType, coupon.DiscountValue)
	}
	return nil
}
