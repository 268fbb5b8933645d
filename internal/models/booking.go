package models

import (
	"time"
)

// BookingStatus 预订状态（封闭枚举，字符串序列化值写入数据库）
type BookingStatus string

// 预订状态取值
const (
	BookingStatusPending   BookingStatus = "pending"   // 待支付
	BookingStatusConfirmed BookingStatus = "confirmed" // 已确认
	BookingStatusCancelled BookingStatus = "cancelled" // 已取消
)

// Valid 判断状态是否合法
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// ActiveBookingStatuses 计入冲突检测的状态集合（已取消不占用房间）
func ActiveBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusPending, BookingStatusConfirmed}
}

// Booking 预订模型
// 日期区间为左闭右开 [CheckInDate, CheckOutDate)，退房日当天房间即可再次入住
type Booking struct {
	ID           int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingNo    string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"booking_no"`
	UserID       int64         `gorm:"index;not null" json:"user_id"`
	RoomID       int64         `gorm:"index;not null" json:"room_id"`
	CheckInDate  time.Time     `gorm:"type:date;not null;index" json:"check_in_date"`
	CheckOutDate time.Time     `gorm:"type:date;not null" json:"check_out_date"`
	TotalAmount  float64       `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status       BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	BookingDate  time.Time     `gorm:"autoCreateTime" json:"booking_date"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Room    *Room    `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Payment *Payment `gorm:"foreignKey:BookingID" json:"payment,omitempty"`
	Review  *Review  `gorm:"foreignKey:BookingID" json:"review,omitempty"`
}

// TableName 表名
func (Booking) TableName() string {
	return "bookings"
}

// Nights 入住晚数
func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}
