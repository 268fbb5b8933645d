// Package models 定义数据模型
package models

import (
	"time"
)

// Role 用户角色（封闭枚举，字符串序列化值写入数据库，不可随意更名）
type Role string

// 角色取值
const (
	RoleAdmin    Role = "admin"    // 管理员
	RoleCustomer Role = "customer" // 顾客
)

// Valid 判断角色是否合法
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// User 用户模型
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(50);not null" json:"last_name"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
	Status       int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
	Reviews  []Review  `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// DisplayName 展示名称
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin 判断是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserStatus 用户状态
const (
	UserStatusDisabled = 0 // 禁用
	UserStatusActive   = 1 // 正常
)
