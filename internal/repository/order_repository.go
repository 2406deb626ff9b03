package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
)

// 一意制約違反（同じidempotency_keyの並走など）
var ErrDuplicateKey = errors.New("duplicate key")

type AdminOrderListFilter struct {
	Page              int
	Limit             int
	PaymentStatus     string
	FulfillmentStatus string
	UserID            *int64
	From              *time.Time
	To                *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error
	UpdateFulfillmentStatus(ctx context.Context, orderID int64, status model.FulfillmentStatus) error

	// 同じキーなら同じ注文を返す（二重送信防止）
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)

	// 管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
