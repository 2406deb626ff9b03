package usecase

import (
	"context"
	"errors"
	"net/http"

	repo "storefront/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// 数量は [1, 現在在庫] に丸める（拒否しない）。確定的な在庫保証は
// checkout側にしかない。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
	Stock     int64  `json:"stock"`
}

type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Subtotal int64              `json:"subtotal"`
	Shipping int64              `json:"shipping"`
	Total    int64              `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート表示用スナップショット（価格はスナップショット、在庫と名前は現在値）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return u.buildCartResponse(ctx, userID)
}

// AddToCart はカートに追加（同一商品は数量加算、在庫で丸める）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック（存在＋公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product unavailable")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product unavailable")
	}

	var currentQty int64 = 0
	existing, err := u.cartItemRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	if err == nil {
		currentQty = existing.Quantity
	} else if !errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// [1, 在庫] に丸める。超過は拒否ではなく上限で止める。
	newQty := clampQuantity(currentQty+in.Quantity, p.Stock)

	// 価格スナップショットは現在価格で取り直す
	if err := u.cartItemRepo.Upsert(ctx, userID, in.ProductID, newQty, p.Price); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// UpdateQuantity は数量の上書き。0は削除扱い。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID int64, in UpdateCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if in.Quantity == 0 {
		if err := u.cartItemRepo.DeleteByUserAndProduct(ctx, userID, in.ProductID); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.buildCartResponse(ctx, userID)
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		// 商品が消えていたら何もしないでカートを返す
		return u.buildCartResponse(ctx, userID)
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	qty := clampQuantity(in.Quantity, p.Stock)

	if err := u.cartItemRepo.Upsert(ctx, userID, in.ProductID, qty, p.Price); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// RemoveFromCart は明細削除。無くてもエラーにしない。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	if err := u.cartItemRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	lines, err := u.cartItemRepo.Snapshot(ctx, userID, false)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]CartItemResponse, 0, len(lines))
	var subtotal int64 = 0

	for _, ln := range lines {
		items = append(items, CartItemResponse{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			ImageURL:  ln.ImageURL,
			Price:     ln.UnitPrice,
			Quantity:  ln.Quantity,
			Subtotal:  ln.Subtotal,
			Stock:     ln.Stock,
		})
		subtotal += ln.Subtotal
	}

	return CartResponse{
		Items:    items,
		Subtotal: subtotal,
		Shipping: shippingFee,
		Total:    subtotal + shippingFee,
	}, nil
}

// [1, stock] への丸め。stockが0以下でも下限1を守る（checkoutで弾かれる）。
func clampQuantity(qty int64, stock int64) int64 {
	if qty > stock {
		qty = stock
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}
