package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// /checkoutのHTTP。リトライ用にX-Idempotency-Keyを受ける。
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
}

// 検証NG時のレスポンス（フィールド別メッセージ）
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// checkout中断時のレスポンス
type CheckoutAbortedResponse struct {
	Error       string `json:"error"`
	Reason      string `json:"reason"`
	ProductName string `json:"product_name,omitempty"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.placeOrder)
}

func (h *CheckoutHandler) placeOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// 先にフォーム検証。NGなら一切状態を変えない。
	fieldErrs := validator.ValidateCheckout(validator.CheckoutForm{
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		Phone:         req.Phone,
		PaymentMethod: req.PaymentMethod,
	})
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: fieldErrs,
		})
	}

	// ヘッダが無ければこちらでキーを振る（リトライなしの1回注文）
	key := c.Request().Header.Get("X-Idempotency-Key")
	if key == "" {
		key = uuid.NewString()
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		Shipping: usecase.ShippingInfo{
			Address:       req.Address,
			City:          req.City,
			PostalCode:    req.PostalCode,
			Country:       req.Country,
			Phone:         req.Phone,
			PaymentMethod: req.PaymentMethod,
		},
		IdempotencyKey: key,
	})
	if err != nil {
		// 業務的な中断は409で理由を返す
		if ca, ok := usecase.AsCheckoutAborted(err); ok {
			return c.JSON(http.StatusConflict, CheckoutAbortedResponse{
				Error:       "checkout aborted",
				Reason:      string(ca.Reason),
				ProductName: ca.ProductName,
			})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}
