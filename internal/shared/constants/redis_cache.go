package constants

import (
	"strings"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: feelmetown:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_SEMI_STATIC   = 10 * time.Minute
	TTL_DYNAMIC_QUICK = 5 * time.Second
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "feelmetown"
)

// ================== CATALOG MODULE ==================

const (
	// Full catalog snapshot (theaters, services, occasions, movies, pricing)
	CACHE_KEY_CATALOG_SNAPSHOT = CACHE_PREFIX + ":catalog:snapshot"
	// Last successfully fetched snapshot, kept long so fetch failures can fall back to it
	CACHE_KEY_CATALOG_LAST_KNOWN = CACHE_PREFIX + ":catalog:last_known"
)

const (
	TTL_CATALOG_SNAPSHOT   = TTL_SEMI_STATIC
	TTL_CATALOG_LAST_KNOWN = TTL_STATIC_LONG
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_BOOKED_SLOTS = CACHE_PREFIX + ":bookings:slots:" // + date:theater
)

const (
	TTL_BOOKED_SLOTS = TTL_DYNAMIC_QUICK
)

// ================== WIZARD MODULE ==================

const (
	CACHE_KEY_WIZARD_HANDOFF = CACHE_PREFIX + ":wizard:handoff:" // + token
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_CATALOG = CACHE_PREFIX + ":catalog:*"
	PATTERN_INVALIDATE_SLOTS   = CACHE_PREFIX + ":bookings:slots:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildBookedSlotsKey -> "feelmetown:bookings:slots:2024-05-01:gold-lounge"
func BuildBookedSlotsKey(date, theater string) string {
	return CACHE_KEY_BOOKED_SLOTS + date + ":" + slug(theater)
}

func BuildHandoffKey(token string) string {
	return CACHE_KEY_WIZARD_HANDOFF + token
}

func slug(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}
