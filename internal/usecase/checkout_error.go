package usecase

import (
	"errors"
	"fmt"
)

// checkout中断の理由
type AbortReason string

const (
	// カートが空
	AbortEmptyCart AbortReason = "EMPTY_CART"

	// 事前チェックで数量 > 現在在庫
	AbortInsufficientStock AbortReason = "INSUFFICIENT_STOCK"

	// 条件付き減算が失敗（読み取り後に在庫が変わった）
	AbortStockChanged AbortReason = "STOCK_CHANGED"
)

// CheckoutAborted はcheckoutの業務的な中断。
// トランザクション内から返すと全ロールバックになる。
type CheckoutAborted struct {
	Reason      AbortReason
	ProductName string
}

func (e *CheckoutAborted) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("checkout aborted: %s (%s)", e.Reason, e.ProductName)
	}
	return fmt.Sprintf("checkout aborted: %s", e.Reason)
}

func AsCheckoutAborted(err error) (*CheckoutAborted, bool) {
	var ca *CheckoutAborted
	ok := errors.As(err, &ca)
	return ca, ok
}
