package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Capacity is the guest range of a theater. Min == Max means a fixed headcount.
type Capacity struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Fixed reports whether the headcount cannot be changed
func (c Capacity) Fixed() bool {
	return c.Min == c.Max
}

// Clamp bounds n to the capacity range
func (c Capacity) Clamp(n int) int {
	if n < c.Min {
		return c.Min
	}
	if c.Max > 0 && n > c.Max {
		return c.Max
	}
	return n
}

// Theater is a private screening room that can be booked per time slot
type Theater struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;not null" json:"name"`
	Price          float64   `gorm:"not null" json:"price"`
	Capacity       Capacity  `gorm:"embedded;embeddedPrefix:capacity_" json:"capacity"`
	SlotBookingFee *float64  `json:"slotBookingFee,omitempty"`
	TimeSlots      []string  `gorm:"serializer:json;type:jsonb" json:"timeSlots"`
	SortOrder      int       `gorm:"default:0" json:"-"`
	IsActive       bool      `gorm:"default:true" json:"isActive"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// Item is one selectable entry of a service (a cake, a bouquet, a movie)
type Item struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Image  string   `json:"image,omitempty"`
	Rating float64  `json:"rating,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// UnmarshalJSON accepts the older item shapes: title/name, cost/price, itemId/id,
// with prices sent either as numbers or numeric strings.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     json.RawMessage `json:"id"`
		ItemID json.RawMessage `json:"itemId"`
		Name   string          `json:"name"`
		Title  string          `json:"title"`
		Price  json.RawMessage `json:"price"`
		Cost   json.RawMessage `json:"cost"`
		Image  string          `json:"image"`
		Rating float64         `json:"rating"`
		Tags   []string        `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	i.ID = firstNonEmpty(rawString(raw.ID), rawString(raw.ItemID))
	i.Name = firstNonEmpty(raw.Name, raw.Title)
	i.Price = rawNumber(raw.Price)
	if i.Price == 0 {
		i.Price = rawNumber(raw.Cost)
	}
	i.Image = raw.Image
	i.Rating = raw.Rating
	i.Tags = raw.Tags
	if i.ID == "" {
		i.ID = i.Name
	}
	return nil
}

// ServiceEntry is a catalog add-on category (Gifts, Cakes, Decoration Extras, Movies)
type ServiceEntry struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name                string    `gorm:"uniqueIndex;not null" json:"name"`
	Items               []Item    `gorm:"serializer:json;type:jsonb" json:"items"`
	Compulsory          bool      `gorm:"default:false" json:"compulsory"`
	IncludeInDecoration bool      `gorm:"default:false" json:"includeInDecoration"`
	ShowInBookingPopup  bool      `gorm:"not null" json:"showInBookingPopup"`
	SortOrder           int       `gorm:"default:0" json:"-"`
	IsActive            bool      `gorm:"default:true" json:"isActive"`
	CreatedAt           time.Time `json:"-"`
	UpdatedAt           time.Time `json:"-"`
}

// IsGift reports whether the service belongs to the gifts category
func (s ServiceEntry) IsGift() bool {
	return IsGiftName(s.Name)
}

// IsMovies reports whether the service is the movie picker category
func (s ServiceEntry) IsMovies() bool {
	return strings.Contains(strings.ToLower(s.Name), "movie")
}

// Skipped services never get their own wizard step
func (s ServiceEntry) Skipped() bool {
	return !s.ShowInBookingPopup || s.IsMovies()
}

// FindItem looks an item up by id first, then by case-insensitive name
func (s ServiceEntry) FindItem(idOrName string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == idOrName {
			return it, true
		}
	}
	for _, it := range s.Items {
		if strings.EqualFold(it.Name, idOrName) {
			return it, true
		}
	}
	return Item{}, false
}

// IsGiftName reports whether a service name belongs to the gifts category
func IsGiftName(name string) bool {
	return strings.Contains(strings.ToLower(name), "gift")
}

// Occasion is a celebration type with its own required detail fields
type Occasion struct {
	ID                  uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name                string            `gorm:"uniqueIndex;not null" json:"name"`
	Icon                string            `json:"icon"`
	Popular             bool              `gorm:"default:false" json:"popular"`
	IncludeInDecoration bool              `gorm:"not null" json:"includeInDecoration"`
	RequiredFields      []string          `gorm:"serializer:json;type:jsonb" json:"requiredFields"`
	FieldLabels         map[string]string `gorm:"serializer:json;type:jsonb" json:"fieldLabels"`
	SortOrder           int               `gorm:"default:0" json:"-"`
	IsActive            bool              `gorm:"default:true" json:"isActive"`
	CreatedAt           time.Time         `json:"-"`
	UpdatedAt           time.Time         `json:"-"`
}

// Label returns the display label of a field key, falling back to the key itself
func (o Occasion) Label(key string) string {
	if l, ok := o.FieldLabels[key]; ok && l != "" {
		return l
	}
	return key
}

// Movie can be played during the show at no extra cost
type Movie struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Poster    string    `json:"poster,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// PricingConfig holds the fees applied on top of theater prices
type PricingConfig struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	SlotBookingFee float64   `gorm:"not null;check:slot_booking_fee >= 0" json:"slotBookingFee"`
	ExtraGuestFee  float64   `gorm:"not null;check:extra_guest_fee >= 0" json:"extraGuestFee"`
	ConvenienceFee float64   `gorm:"not null;check:convenience_fee >= 0" json:"convenienceFee"`
	DecorationFees float64   `gorm:"not null;check:decoration_fees >= 0" json:"decorationFees"`
	UpdatedAt      time.Time `json:"-"`
}

// TableName sets the table name for Theater
func (Theater) TableName() string {
	return "theaters"
}

// TableName sets the table name for ServiceEntry
func (ServiceEntry) TableName() string {
	return "catalog_services"
}

// TableName sets the table name for Occasion
func (Occasion) TableName() string {
	return "occasions"
}

// TableName sets the table name for Movie
func (Movie) TableName() string {
	return "movies"
}

// TableName sets the table name for PricingConfig
func (PricingConfig) TableName() string {
	return "pricing_config"
}

// Snapshot is the immutable catalog a wizard session works against
type Snapshot struct {
	Theaters  []Theater      `json:"theaters"`
	Services  []ServiceEntry `json:"services"`
	Occasions []Occasion     `json:"occasions"`
	Movies    []Movie        `json:"movies"`
	Pricing   PricingConfig  `json:"pricing"`
	FetchedAt time.Time      `json:"fetchedAt"`
	Fallback  bool           `json:"fallback"`
}

func (s *Snapshot) Theater(name string) (*Theater, bool) {
	for i := range s.Theaters {
		if strings.EqualFold(s.Theaters[i].Name, name) {
			return &s.Theaters[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Service(name string) (*ServiceEntry, bool) {
	for i := range s.Services {
		if strings.EqualFold(s.Services[i].Name, name) {
			return &s.Services[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Occasion(name string) (*Occasion, bool) {
	for i := range s.Occasions {
		if strings.EqualFold(s.Occasions[i].Name, name) {
			return &s.Occasions[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Movie(idOrTitle string) (*Movie, bool) {
	for i := range s.Movies {
		if s.Movies[i].ID.String() == idOrTitle || strings.EqualFold(s.Movies[i].Title, idOrTitle) {
			return &s.Movies[i], true
		}
	}
	return nil, false
}

// PopupServices are the services that get a Yes/No choice and a wizard step, in catalog order
func (s *Snapshot) PopupServices() []ServiceEntry {
	out := make([]ServiceEntry, 0, len(s.Services))
	for _, svc := range s.Services {
		if !svc.Skipped() {
			out = append(out, svc)
		}
	}
	return out
}

// DecorationOnlyOccasions reports whether every occasion requires decoration
func (s *Snapshot) DecorationOnlyOccasions() bool {
	for _, o := range s.Occasions {
		if !o.IncludeInDecoration {
			return false
		}
	}
	return true
}

// SlotBookingFee returns the theater override when present, else the global fee
func (s *Snapshot) SlotBookingFee(t *Theater) float64 {
	if t != nil && t.SlotBookingFee != nil {
		return *t.SlotBookingFee
	}
	return s.Pricing.SlotBookingFee
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

func rawNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "₹"))
		if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
			return v
		}
	}
	return 0
}
