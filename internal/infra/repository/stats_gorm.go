package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type StatsGormRepository struct {
	db *gorm.DB
}

func NewStatsGormRepository(db *gorm.DB) *StatsGormRepository {
	return &StatsGormRepository{db: db}
}

func (r *StatsGormRepository) CountUsers(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&c).Error
	return c, err
}

func (r *StatsGormRepository) CountProducts(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&c).Error
	return c, err
}

func (r *StatsGormRepository) CountOrders(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&c).Error
	return c, err
}

// paid + pending の売上合計
func (r *StatsGormRepository) RevenueTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_status IN ?", []model.PaymentStatus{model.PaymentStatusPaid, model.PaymentStatusPending}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

// 直近days日の日別売上（新しい日付順）
func (r *StatsGormRepository) RevenueDaily(ctx context.Context, days int) ([]repo.DailyRevenue, error) {
	if days <= 0 {
		days = 7
	}

	var rows []repo.DailyRevenue
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("DATE(created_at) AS date, SUM(total_amount) AS revenue").
		Where("payment_status IN ?", []model.PaymentStatus{model.PaymentStatusPaid, model.PaymentStatusPending}).
		Group("DATE(created_at)").
		Order("date desc").
		Limit(days).
		Scan(&rows).Error
	if err != nil {
		return []repo.DailyRevenue{}, err
	}
	return rows, nil
}
