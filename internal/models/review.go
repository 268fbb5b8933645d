package models

import (
	"time"
)

// Review 评价模型，与预订 1:1（booking_id 唯一索引强制）
// 仅已确认的预订可评价，删除预订时级联删除评价（严格从属记录）
type Review struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID  int64     `gorm:"uniqueIndex;not null" json:"booking_id"`
	UserID     int64     `gorm:"index;not null" json:"user_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    *string   `gorm:"type:varchar(1500)" json:"comment,omitempty"`
	ReviewDate time.Time `gorm:"autoCreateTime" json:"review_date"`

	// 关联
	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"booking,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 表名
func (Review) TableName() string {
	return "reviews"
}

// 评价约束
const (
	ReviewMinRating        = 1
	ReviewMaxRating        = 5
	ReviewMaxCommentLength = 1500
)
