package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 送料は今のところ常に0
const shippingFee int64 = 0

type CheckoutUsecase struct {
	tx repo.TransactionManager
}

func NewCheckoutUsecase(tx repo.TransactionManager) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx}
}

// 配送先・支払いの入力（検証済みで渡される）
type ShippingInfo struct {
	Address       string
	City          string
	PostalCode    string
	Country       string
	Phone         string
	PaymentMethod string
}

type PlaceOrderInput struct {
	Shipping       ShippingInfo
	IdempotencyKey string
}

type PlaceOrderOutput struct {
	OrderID     int64  `json:"order_id"`
	TotalAmount int64  `json:"total_amount"`
	Subtotal    int64  `json:"subtotal"`
	Shipping    int64  `json:"shipping"`
	ItemCount   int    `json:"item_count"`
}

// PlaceOrder はカートを不変の注文に変換する。
// 全ステップを1トランザクションで行い、途中で失敗したら何も残さない。
//
//	カートをロック読み → 空チェック → 合計計算と事前在庫チェック
//	→ 注文＋明細作成 → 明細ごとに条件付き在庫減算 → カート全削除 → commit
//
// 事前チェックはあくまで早期の失敗用。売り越しを防ぐのは
// DecreaseStockIfEnough（書き込み時点の在庫で条件判定）だけ。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	var out PlaceOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら既存の注文を返す
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = PlaceOrderOutput{
				OrderID:     existing.ID,
				TotalAmount: existing.TotalAmount,
				Subtotal:    existing.TotalAmount - shippingFee,
				Shipping:    shippingFee,
				ItemCount:   len(items),
			}
			return nil
		}

		// カートをロック付きで読む（商品JOIN済み、明細の挿入順）
		lines, err := r.CartItems().Snapshot(ctx, userID, true)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return &CheckoutAborted{Reason: AbortEmptyCart}
		}

		// 小計・合計を計算しつつ、現在在庫で事前チェック
		orderItems := make([]model.OrderItem, 0, len(lines))
		var subtotal int64 = 0

		for _, ln := range lines {
			if ln.Quantity > ln.Stock {
				return &CheckoutAborted{Reason: AbortInsufficientStock, ProductName: ln.Name}
			}

			lineSubtotal := ln.Quantity * ln.UnitPrice
			subtotal += lineSubtotal

			orderItems = append(orderItems, model.OrderItem{
				ProductID: ln.ProductID,
				Quantity:  ln.Quantity,
				UnitPrice: ln.UnitPrice,
				Subtotal:  lineSubtotal,
			})
		}

		total := subtotal + shippingFee

		// 注文作成（pending / pending）
		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:            userID,
			TotalAmount:       total,
			PaymentStatus:     model.PaymentStatusPending,
			FulfillmentStatus: model.FulfillmentStatusPending,
			PaymentMethod:     in.Shipping.PaymentMethod,
			Address:           in.Shipping.Address,
			City:              in.Shipping.City,
			PostalCode:        in.Shipping.PostalCode,
			Country:           in.Shipping.Country,
			Phone:             in.Shipping.Phone,
			IdempotencyKey:    key,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			// 同時に同じキーが入った場合。このトランザクションは
			// もう使えないので、外で読み直して同じ結果を返す。
			if errors.Is(err, repo.ErrDuplicateKey) {
				return err
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 在庫を確定時に再チェックして減らす。1件でも失敗したら
		// ここまでの注文・明細ごとロールバック。
		for _, ln := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ln.ProductID, ln.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return &CheckoutAborted{Reason: AbortStockChanged, ProductName: ln.Name}
			}
		}

		// カートを空にする（成功時のみ）
		if err := r.CartItems().DeleteAllByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = PlaceOrderOutput{
			OrderID:     orderID,
			TotalAmount: total,
			Subtotal:    subtotal,
			Shipping:    shippingFee,
			ItemCount:   len(orderItems),
		}
		return nil
	})

	if err != nil {
		// 同じキーの並走に負けた。勝った方の注文を読み直して返す。
		if errors.Is(err, repo.ErrDuplicateKey) {
			return u.replayExistingOrder(ctx, userID, key)
		}
		return PlaceOrderOutput{}, err
	}
	return out, nil
}

func (u *CheckoutUsecase) replayExistingOrder(ctx context.Context, userID int64, key string) (PlaceOrderOutput, error) {
	var out PlaceOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !found {
			// キー重複なのに自分の注文が無い＝別ユーザーとキーが衝突した
			return NewHTTPError(http.StatusConflict, "idempotency conflict")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = PlaceOrderOutput{
			OrderID:     existing.ID,
			TotalAmount: existing.TotalAmount,
			Subtotal:    existing.TotalAmount - shippingFee,
			Shipping:    shippingFee,
			ItemCount:   len(items),
		}
		return nil
	})

	if err != nil {
		return PlaceOrderOutput{}, err
	}
	return out, nil
}
