package coupons

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	Create(ctx context.Context, coupon *Coupon) error
	List(ctx context.Context) ([]Coupon, error)
	// IncrementUsage bumps the usage counter unless the limit has been reached
	IncrementUsage(ctx context.Context, code string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	var coupon Coupon
	err := r.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) Create(ctx context.Context, coupon *Coupon) error {
	err := r.db.WithContext(ctx).Create(coupon).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCouponExists
	}
	return err
}

func (r *repository) List(ctx context.Context) ([]Coupon, error) {
	var coupons []Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

func (r *repository) IncrementUsage(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&Coupon{}).
		Where("code = ? AND (usage_limit = 0 OR usage_count < usage_limit)", NormalizeCode(code)).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}
