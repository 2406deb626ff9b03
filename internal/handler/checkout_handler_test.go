package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

// WithinTxが呼ばれたかだけ見るスタブ。中身のrepoは使わない。
type txSpy struct {
	called  bool
	lastErr error
}

func (s *txSpy) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.called = true
	return s.lastErr
}

func userToken(t *testing.T) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  "7",
		"role": "USER",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

// 実ルート（AuthJWT込み）を通してPOST /checkoutする
func postCheckout(t *testing.T, tx repo.TransactionManager, body string, idemKey string) *httptest.ResponseRecorder {
	t.Helper()

	cfg := config.Config{JWTSecret: testSecret}

	e := echo.New()
	h := handler.NewCheckoutHandler(usecase.NewCheckoutUsecase(tx))
	h.RegisterRoutes(e, cfg)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+userToken(t))
	if idemKey != "" {
		req.Header.Set("X-Idempotency-Key", idemKey)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutHandler_ValidationFailure_DoesNotTouchTx(t *testing.T) {
	tx := &txSpy{}

	body := `{"address":"ab","city":"","postal_code":"1","country":"","phone":"1","payment_method":"card"}`
	rec := postCheckout(t, tx, body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, tx.called)

	var resp handler.ValidationErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "address")
	assert.Contains(t, resp.Fields, "payment_method")
}

// ヘッダが無くてもハンドラ側でキーを振ってusecaseまで届く
func TestCheckoutHandler_ValidForm_ReachesUsecase(t *testing.T) {
	tx := &txSpy{}

	body := `{"address":"1-2-3 Chiyoda","city":"Tokyo","postal_code":"100-0001","country":"JP","phone":"0312345678","payment_method":"cod"}`
	rec := postCheckout(t, tx, body, "")

	// txSpyは何も作らないので201で空出力が返る
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, tx.called)
}

func TestCheckoutHandler_AbortIsConflictWithReason(t *testing.T) {
	tx := &txSpy{lastErr: &usecase.CheckoutAborted{
		Reason:      usecase.AbortInsufficientStock,
		ProductName: "Mug",
	}}

	body := `{"address":"1-2-3 Chiyoda","city":"Tokyo","postal_code":"100-0001","country":"JP","phone":"0312345678","payment_method":"cod"}`
	rec := postCheckout(t, tx, body, "key-1")

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp handler.CheckoutAbortedResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Reason)
	assert.Equal(t, "Mug", resp.ProductName)
}

func TestCheckoutHandler_NoToken_Unauthorized(t *testing.T) {
	tx := &txSpy{}

	cfg := config.Config{JWTSecret: testSecret}
	e := echo.New()
	h := handler.NewCheckoutHandler(usecase.NewCheckoutUsecase(tx))
	h.RegisterRoutes(e, cfg)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, tx.called)
}
