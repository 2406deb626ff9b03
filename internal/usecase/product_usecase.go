package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"golang.org/x/sync/singleflight"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 商品読み取りキャッシュの約束。実装はinfra/cache（Redis）。
// nilなら素通しでDBに行く。
type ProductCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	InvalidateAll(ctx context.Context) error
}

// 公開側の商品閲覧。cache-aside＋singleflightでDBを守る。
type ProductUsecase struct {
	productRepo repo.ProductRepository
	cache       ProductCache
	sfGroup     singleflight.Group
}

func NewProductUsecase(productRepo repo.ProductRepository, cache ProductCache) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		cache:       cache,
	}
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	MinPrice *int64
	MaxPrice *int64
}

type ProductOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
}

type ListProductsOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ListProductsOutput, error) {
	if in.Page < 1 {
		return ListProductsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ListProductsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	key := listCacheKey(in)

	if u.cache != nil {
		var cached ListProductsOutput
		hit, err := u.cache.Get(ctx, key, &cached)
		if err != nil {
			// キャッシュ障害はDBへフォールバック
			log.Printf("[product] cache error: %v", err)
		}
		if hit {
			return cached, nil
		}
	}

	q := repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        in.Q,
		Category: in.Category,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
	}

	products, total, err := u.productRepo.ListPublic(ctx, q)
	if err != nil {
		return ListProductsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := ListProductsOutput{
		Items: make([]ProductOutput, 0, len(products)),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}
	for _, p := range products {
		out.Items = append(out.Items, toProductOutput(p))
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, out); err != nil {
			log.Printf("[product] cache set error: %v", err)
		}
	}

	return out, nil
}

// GetProductDetail は公開商品の詳細。非公開・未存在は404扱い。
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	key := "detail:" + strconv.FormatInt(productID, 10)

	if u.cache != nil {
		var cached ProductOutput
		hit, err := u.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[product] cache error: %v", err)
		}
		if hit {
			return cached, nil
		}
	}

	// miss時はsingleflightで同一商品のDB問い合わせを1本にまとめる
	v, err, _ := u.sfGroup.Do(key, func() (interface{}, error) {
		return u.productRepo.FindByID(ctx, productID)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, _ := v.(model.Product)
	if !p.IsActive {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	out := toProductOutput(p)

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, out); err != nil {
			log.Printf("[product] cache set error: %v", err)
		}
	}

	return out, nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
	}
}

func listCacheKey(in ListProductsInput) string {
	min := ""
	if in.MinPrice != nil {
		min = strconv.FormatInt(*in.MinPrice, 10)
	}
	max := ""
	if in.MaxPrice != nil {
		max = strconv.FormatInt(*in.MaxPrice, 10)
	}
	return fmt.Sprintf("list:%d:%d:%s:%s:%s:%s", in.Page, in.Limit, in.Q, in.Category, min, max)
}
