package usecase_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartUsecase_AddToCart_InactiveProduct(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)

	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID:       100,
		IsActive: false,
	}, nil)

	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	_, err := uc.AddToCart(context.Background(), 7, usecase.AddCartInput{ProductID: 100, Quantity: 1})
	assertErrContains(t, err, "product unavailable")

	cartRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 在庫超過の追加は拒否せず上限（在庫数）で止める
func TestCartUsecase_AddToCart_ClampsToStock(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)

	userID := int64(7)

	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID:       100,
		Price:    1500,
		Stock:    5,
		IsActive: true,
	}, nil)

	// 既に4個入っている
	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, int64(100)).Return(model.CartItem{
		UserID:    userID,
		ProductID: 100,
		Quantity:  4,
		UnitPrice: 1200,
	}, nil)

	// 4+3=7 → 在庫5に丸め、価格は現在値で取り直し
	cartRepo.On("Upsert", mock.Anything, userID, int64(100), int64(5), int64(1500)).Return(nil)
	cartRepo.On("Snapshot", mock.Anything, userID, false).Return([]repo.CartLine{
		{ProductID: 100, Quantity: 5, UnitPrice: 1500, Subtotal: 7500, Name: "Mug", Stock: 5},
	}, nil)

	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	out, err := uc.AddToCart(ctx, userID, usecase.AddCartInput{ProductID: 100, Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(5), out.Items[0].Quantity)
	assert.Equal(t, int64(7500), out.Total)

	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_NewItem(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)

	userID := int64(7)

	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID:       100,
		Price:    1500,
		Stock:    5,
		IsActive: true,
	}, nil)

	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, int64(100)).Return(model.CartItem{}, repo.ErrNotFound)
	cartRepo.On("Upsert", mock.Anything, userID, int64(100), int64(2), int64(1500)).Return(nil)
	cartRepo.On("Snapshot", mock.Anything, userID, false).Return([]repo.CartLine{
		{ProductID: 100, Quantity: 2, UnitPrice: 1500, Subtotal: 3000, Stock: 5},
	}, nil)

	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	out, err := uc.AddToCart(ctx, userID, usecase.AddCartInput{ProductID: 100, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(3000), out.Subtotal)

	cartRepo.AssertExpectations(t)
}

// 数量0は削除扱い
func TestCartUsecase_UpdateQuantity_ZeroDeletes(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)

	userID := int64(7)

	cartRepo.On("DeleteByUserAndProduct", mock.Anything, userID, int64(100)).Return(nil)
	cartRepo.On("Snapshot", mock.Anything, userID, false).Return([]repo.CartLine{}, nil)

	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	out, err := uc.UpdateQuantity(ctx, userID, usecase.UpdateCartInput{ProductID: 100, Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))

	productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	cartRepo.AssertExpectations(t)
}

// 商品が消えていたら何もしないでカートを返す
func TestCartUsecase_UpdateQuantity_ProductGone_NoOp(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)

	userID := int64(7)

	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{}, repo.ErrNotFound)
	cartRepo.On("Snapshot", mock.Anything, userID, false).Return([]repo.CartLine{}, nil)

	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	_, err := uc.UpdateQuantity(ctx, userID, usecase.UpdateCartInput{ProductID: 100, Quantity: 3})
	assert.NoError(t, err)

	cartRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 無い明細の削除もエラーにしない
func TestCartUsecase_RemoveFromCart_Idempotent(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)

	userID := int64(7)

	cartRepo.On("DeleteByUserAndProduct", mock.Anything, userID, int64(100)).Return(nil)
	cartRepo.On("Snapshot", mock.Anything, userID, false).Return([]repo.CartLine{}, nil)

	uc := usecase.NewCartUsecase(cartRepo, productRepo)

	out, err := uc.RemoveFromCart(ctx, userID, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.Total)
}
