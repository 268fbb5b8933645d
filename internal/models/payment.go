package models

import (
	"time"
)

// PaymentMethod 支付方式（封闭枚举，字符串序列化值写入数据库）
type PaymentMethod string

// 支付方式取值
const (
	PaymentMethodStripe        PaymentMethod = "stripe"          // Stripe
	PaymentMethodCashOnArrival PaymentMethod = "cash_on_arrival" // 到店支付
)

// Valid 判断支付方式是否合法
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodStripe || m == PaymentMethodCashOnArrival
}

// PaymentStatus 支付状态（封闭枚举，字符串序列化值写入数据库）
type PaymentStatus string

// 支付状态取值
const (
	PaymentStatusPending   PaymentStatus = "pending"   // 待支付
	PaymentStatusSucceeded PaymentStatus = "succeeded" // 支付成功
	PaymentStatusFailed    PaymentStatus = "failed"    // 支付失败
)

// Payment 支付记录，与预订 1:1（booking_id 唯一索引强制）
type Payment struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentNo     string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"payment_no"`
	BookingID     int64         `gorm:"uniqueIndex;not null" json:"booking_id"`
	Amount        float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method        PaymentMethod `gorm:"type:varchar(20);not null;default:'stripe'" json:"method"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TransactionID *string       `gorm:"type:varchar(128)" json:"transaction_id,omitempty"`
	PaymentDate   time.Time     `gorm:"not null" json:"payment_date"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

// TableName 表名
func (Payment) TableName() string {
	return "payments"
}
