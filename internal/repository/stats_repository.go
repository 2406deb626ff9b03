package repository

import (
	"context"
	"time"
)

type DailyRevenue struct {
	Date    time.Time `json:"date"`
	Revenue int64     `json:"revenue"`
}

// 管理ダッシュボード用の集計（read only）
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)

	// paid + pending の売上合計
	RevenueTotal(ctx context.Context) (int64, error)

	// 直近days日の日別売上
	RevenueDaily(ctx context.Context, days int) ([]DailyRevenue, error)
}
