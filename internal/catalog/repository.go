package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	ListTheaters(ctx context.Context) ([]Theater, error)
	ListServices(ctx context.Context) ([]ServiceEntry, error)
	ListOccasions(ctx context.Context) ([]Occasion, error)
	ListMovies(ctx context.Context) ([]Movie, error)
	// GetPricing returns nil without error when no pricing row exists yet
	GetPricing(ctx context.Context) (*PricingConfig, error)

	SaveTheater(ctx context.Context, t *Theater) error
	SaveService(ctx context.Context, s *ServiceEntry) error
	SaveOccasion(ctx context.Context, o *Occasion) error
	SaveMovie(ctx context.Context, m *Movie) error
	SavePricing(ctx context.Context, p *PricingConfig) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListTheaters(ctx context.Context) ([]Theater, error) {
	var theaters []Theater
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&theaters).Error
	return theaters, err
}

func (r *repository) ListServices(ctx context.Context) ([]ServiceEntry, error) {
	var services []ServiceEntry
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&services).Error
	return services, err
}

func (r *repository) ListOccasions(ctx context.Context) ([]Occasion, error) {
	var occasions []Occasion
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("popular DESC, sort_order ASC, name ASC").
		Find(&occasions).Error
	return occasions, err
}

func (r *repository) ListMovies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("title ASC").
		Find(&movies).Error
	return movies, err
}

func (r *repository) GetPricing(ctx context.Context) (*PricingConfig, error) {
	var pricing PricingConfig
	err := r.db.WithContext(ctx).Order("id DESC").First(&pricing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pricing, nil
}

func (r *repository) SaveTheater(ctx context.Context, t *Theater) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) SaveService(ctx context.Context, s *ServiceEntry) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) SaveOccasion(ctx context.Context, o *Occasion) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *repository) SaveMovie(ctx context.Context, m *Movie) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *repository) SavePricing(ctx context.Context, p *PricingConfig) error {
	return r.db.WithContext(ctx).Save(p).Error
}
