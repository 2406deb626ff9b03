package usecase

import (
	"context"
	"net/http"

	repo "storefront/internal/repository"
)

// 管理ダッシュボードの集計（表示専用）
type DashboardUsecase struct {
	statsRepo repo.StatsRepository
}

func NewDashboardUsecase(statsRepo repo.StatsRepository) *DashboardUsecase {
	return &DashboardUsecase{statsRepo: statsRepo}
}

type DashboardStats struct {
	Users        int64               `json:"users"`
	Products     int64               `json:"products"`
	Orders       int64               `json:"orders"`
	Revenue      int64               `json:"revenue"`
	RevenueDaily []repo.DailyRevenue `json:"revenue_daily"`
}

func (u *DashboardUsecase) GetStats(ctx context.Context) (DashboardStats, error) {
	users, err := u.statsRepo.CountUsers(ctx)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	products, err := u.statsRepo.CountProducts(ctx)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	orders, err := u.statsRepo.CountOrders(ctx)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	revenue, err := u.statsRepo.RevenueTotal(ctx)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	daily, err := u.statsRepo.RevenueDaily(ctx, 7)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return DashboardStats{
		Users:        users,
		Products:     products,
		Orders:       orders,
		Revenue:      revenue,
		RevenueDaily: daily,
	}, nil
}
