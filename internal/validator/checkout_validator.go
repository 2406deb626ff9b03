package validator

import "strings"

// checkoutフォームの入力
type CheckoutForm struct {
	Address       string
	City          string
	PostalCode    string
	Country       string
	Phone         string
	PaymentMethod string
}

// 対応している支払い方法は代引きのみ
const PaymentMethodCOD = "cod"

// ValidateCheckout はフィールドごとのエラーを返す。空mapなら合格。
// 不合格の間は一切の状態変更をしない（検証はorchestrator側の仕事）。
func ValidateCheckout(f CheckoutForm) map[string]string {
	errs := map[string]string{}

	if len(strings.TrimSpace(f.Address)) < 5 {
		errs["address"] = "address too short"
	}
	if len(strings.TrimSpace(f.City)) < 2 {
		errs["city"] = "city too short"
	}
	if len(strings.TrimSpace(f.PostalCode)) < 3 {
		errs["postal_code"] = "postal code too short"
	}
	if len(strings.TrimSpace(f.Country)) < 2 {
		errs["country"] = "country too short"
	}
	if len(strings.TrimSpace(f.Phone)) < 6 {
		errs["phone"] = "phone too short"
	}
	if f.PaymentMethod != PaymentMethodCOD {
		errs["payment_method"] = "unsupported payment method"
	}

	return errs
}
