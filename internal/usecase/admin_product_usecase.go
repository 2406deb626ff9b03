package usecase

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 管理者の商品CRUD。書き込み後は読み取りキャッシュを無効化する。
type AdminProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	cache         ProductCache
}

func NewAdminProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	cache ProductCache,
) *AdminProductUsecase {
	return &AdminProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		cache:         cache,
	}
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int64
	ImageURL    string
	Category    string
}

type UpdateProductInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int64
	ImageURL    string
	Category    string
	IsActive    bool
}

type AdminProductOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	IsActive    bool   `json:"is_active"`
}

func (u *AdminProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (AdminProductOutput, error) {
	if err := validateProductInput(in.Name, in.Price, in.Stock); err != nil {
		return AdminProductOutput{}, err
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		IsActive:    true,
	})
	if err != nil {
		return AdminProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidateCache(ctx)
	return toAdminProductOutput(created), nil
}

func (u *AdminProductUsecase) UpdateProduct(ctx context.Context, productID int64, in UpdateProductInput) (AdminProductOutput, error) {
	if productID <= 0 {
		return AdminProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateProductInput(in.Name, in.Price, in.Stock); err != nil {
		return AdminProductOutput{}, err
	}

	p := model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		IsActive:    in.IsActive,
	}

	err := u.productRepo.Update(ctx, p)
	if errors.Is(err, repo.ErrNotFound) {
		return AdminProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return AdminProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidateCache(ctx)
	return toAdminProductOutput(p), nil
}

// DeactivateProduct は論理削除。過去の注文は変更しない。
func (u *AdminProductUsecase) DeactivateProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.productRepo.Deactivate(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidateCache(ctx)
	return nil
}

// SetStock は在庫の現在値を直接設定する。
func (u *AdminProductUsecase) SetStock(ctx context.Context, productID int64, newStock int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	err := u.inventoryRepo.SetStock(ctx, productID, newStock)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidateCache(ctx)
	return nil
}

func (u *AdminProductUsecase) ListProducts(ctx context.Context, limit int) ([]AdminProductOutput, error) {
	products, err := u.productRepo.ListAll(ctx, limit)
	if err != nil {
		return []AdminProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]AdminProductOutput, 0, len(products))
	for _, p := range products {
		outs = append(outs, toAdminProductOutput(p))
	}
	return outs, nil
}

// キャッシュ無効化はベストエフォート。失敗してもTTLで消える。
func (u *AdminProductUsecase) invalidateCache(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateAll(ctx); err != nil {
		log.Printf("[admin/product] cache invalidate error: %v", err)
	}
}

func validateProductInput(name string, price int64, stock int64) error {
	if len(strings.TrimSpace(name)) < 2 {
		return NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if price < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}
	return nil
}

func toAdminProductOutput(p model.Product) AdminProductOutput {
	return AdminProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		IsActive:    p.IsActive,
	}
}
