package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// カート明細と商品の現在値をJOINした1行。
// UnitPriceは明細側のスナップショット、Stock/Name/ImageURLは商品の現在値。
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Stock     int64  `json:"stock"`
}

type CartItemRepository interface {
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	// 数量・価格スナップショットを絶対値で書く（無ければ作成）
	Upsert(ctx context.Context, userID int64, productID int64, qty int64, unitPrice int64) error

	// 無い明細の削除もエラーにしない
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error
	DeleteAllByUserID(ctx context.Context, userID int64) error

	// 商品JOIN済みのカートスナップショット（明細の挿入順）。
	// forUpdate=true はロック読み（checkout用、トランザクション内で使う）。
	Snapshot(ctx context.Context, userID int64, forUpdate bool) ([]CartLine, error)
}
