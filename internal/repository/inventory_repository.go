package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（条件付きUPDATE、影響行数1で成功）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（注文キャンセルなど）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 在庫の現在値を設定（管理者）
	SetStock(ctx context.Context, productID int64, newStock int64) error
}
