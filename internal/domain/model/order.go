package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type FulfillmentStatus string

const (
	FulfillmentStatusPending   FulfillmentStatus = "pending"
	FulfillmentStatusShipped   FulfillmentStatus = "shipped"
	FulfillmentStatusDelivered FulfillmentStatus = "delivered"
	FulfillmentStatusCanceled  FulfillmentStatus = "canceled"
)

const PaymentMethodCOD = "cod"

// 注文。作成後、合計と明細は不変。
type Order struct {
	ID                int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            int64             `gorm:"not null;index" json:"user_id"`
	TotalAmount       int64             `gorm:"not null" json:"total_amount"`
	PaymentStatus     PaymentStatus     `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	FulfillmentStatus FulfillmentStatus `gorm:"type:varchar(20);not null;index" json:"fulfillment_status"`
	PaymentMethod     string            `gorm:"type:varchar(20);not null" json:"payment_method"`
	Address           string            `gorm:"type:varchar(255);not null" json:"address"`
	City              string            `gorm:"type:varchar(100);not null" json:"city"`
	PostalCode        string            `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country           string            `gorm:"type:varchar(100);not null" json:"country"`
	Phone             string            `gorm:"type:varchar(30);not null" json:"phone"`
	IdempotencyKey    string            `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	CreatedAt         time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
