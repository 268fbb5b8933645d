package models

import (
	"time"
)

// RoomStatus 房间状态（封闭枚举，字符串序列化值写入数据库）
type RoomStatus string

// 房间状态取值
const (
	RoomStatusAvailable   RoomStatus = "available"   // 可用
	RoomStatusOccupied    RoomStatus = "occupied"    // 入住中
	RoomStatusMaintenance RoomStatus = "maintenance" // 维护中
)

// Valid 判断状态是否合法
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	}
	return false
}

// RoomType 房型模型
type RoomType struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Description   *string   `gorm:"type:text" json:"description,omitempty"`
	Capacity      int       `gorm:"not null;default:2" json:"capacity"`
	PricePerNight float64   `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Rooms []Room `gorm:"foreignKey:RoomTypeID" json:"rooms,omitempty"`
}

// TableName 表名
func (RoomType) TableName() string {
	return "room_types"
}

// 房型约束
const (
	RoomTypeMinCapacity = 1
	RoomTypeMaxCapacity = 5
	RoomTypeMinPrice    = 10.00
	RoomTypeMaxPrice    = 10000.00
)

// Room 房间模型
type Room struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomNumber string     `gorm:"type:varchar(20);not null;uniqueIndex" json:"room_number"`
	Floor      int        `gorm:"not null;default:1" json:"floor"`
	Status     RoomStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	RoomTypeID int64      `gorm:"index;not null" json:"room_type_id"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	RoomType *RoomType   `gorm:"foreignKey:RoomTypeID;constraint:OnDelete:RESTRICT" json:"room_type,omitempty"`
	Images   []RoomImage `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomImage 房间图片
type RoomImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    int64     `gorm:"index;not null" json:"room_id"`
	URL       string    `gorm:"type:varchar(500);not null" json:"url"`
	PublicID  string    `gorm:"type:varchar(255);not null" json:"public_id"`
	IsMain    bool      `gorm:"not null;default:false" json:"is_main"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 表名
func (RoomImage) TableName() string {
	return "room_images"
}
