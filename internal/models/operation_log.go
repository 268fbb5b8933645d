package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSON jsonb 字段类型
type JSON map[string]interface{}

// Value 实现 driver.Valuer
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(data, j)
}

// OperationLog 管理操作审计日志
type OperationLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID    int64     `gorm:"index;not null" json:"actor_id"`
	Module     string    `gorm:"type:varchar(50);not null" json:"module"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	TargetType *string   `gorm:"type:varchar(50)" json:"target_type,omitempty"`
	TargetID   *int64    `json:"target_id,omitempty"`
	Detail     JSON      `gorm:"type:jsonb" json:"detail,omitempty"`
	IP         string    `gorm:"type:varchar(45);not null;default:''" json:"ip"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// 关联
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName 表名
func (OperationLog) TableName() string {
	return "operation_logs"
}

// 审计模块
const (
	LogModuleUser    = "user"
	LogModuleCatalog = "catalog"
	LogModuleBooking = "booking"
	LogModuleReview  = "review"
)

// 审计动作
const (
	LogActionPromote = "promote"
	LogActionDemote  = "demote"
	LogActionCreate  = "create"
	LogActionUpdate  = "update"
	LogActionDelete  = "delete"
)
