package validator_test

import (
	"testing"

	"storefront/internal/validator"

	"github.com/stretchr/testify/assert"
)

func validForm() validator.CheckoutForm {
	return validator.CheckoutForm{
		Address:       "1-2-3 Chiyoda",
		City:          "Tokyo",
		PostalCode:    "100-0001",
		Country:       "JP",
		Phone:         "0312345678",
		PaymentMethod: "cod",
	}
}

func TestValidateCheckout_Valid(t *testing.T) {
	errs := validator.ValidateCheckout(validForm())
	assert.Equal(t, 0, len(errs))
}

func TestValidateCheckout_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *validator.CheckoutForm)
		wantField string
	}{
		{"short address", func(f *validator.CheckoutForm) { f.Address = "abc" }, "address"},
		{"blank address", func(f *validator.CheckoutForm) { f.Address = "     " }, "address"},
		{"short city", func(f *validator.CheckoutForm) { f.City = "T" }, "city"},
		{"short postal code", func(f *validator.CheckoutForm) { f.PostalCode = "12" }, "postal_code"},
		{"short country", func(f *validator.CheckoutForm) { f.Country = "J" }, "country"},
		{"short phone", func(f *validator.CheckoutForm) { f.Phone = "03123" }, "phone"},
		{"unknown payment method", func(f *validator.CheckoutForm) { f.PaymentMethod = "card" }, "payment_method"},
		{"empty payment method", func(f *validator.CheckoutForm) { f.PaymentMethod = "" }, "payment_method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			errs := validator.ValidateCheckout(f)
			assert.Equal(t, 1, len(errs))
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

// 複数フィールドが同時にNGなら全部返す
func TestValidateCheckout_CollectsAllErrors(t *testing.T) {
	errs := validator.ValidateCheckout(validator.CheckoutForm{})
	assert.Equal(t, 6, len(errs))
}
