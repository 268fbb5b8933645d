// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/models"
)

// RoomRepository 房间仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房间
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取房间
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDWithDetail 根据 ID 获取房间（含房型与图片）
func (r *RoomRepository) GetByIDWithDetail(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("RoomType").
		Preload("Images").
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByRoomNumber 根据房间号获取房间
func (r *RoomRepository) GetByRoomNumber(ctx context.Context, roomNumber string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("room_number = ?", roomNumber).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByRoomNumber 判断房间号是否已存在
func (r *RoomRepository) ExistsByRoomNumber(ctx context.Context, roomNumber string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Room{}).Where("room_number = ?", roomNumber)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Update 更新房间
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// UpdateStatus 更新房间状态
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status models.RoomStatus) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除房间
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}

// List 获取房间列表
func (r *RoomRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Room{})

	if status, ok := filters["status"].(models.RoomStatus); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if roomTypeID, ok := filters["room_type_id"].(int64); ok && roomTypeID > 0 {
		query = query.Where("room_type_id = ?", roomTypeID)
	}
	if floor, ok := filters["floor"].(int); ok && floor > 0 {
		query = query.Where("floor = ?", floor)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("RoomType").Preload("Images").
		Order("room_number ASC").Offset(offset).Limit(limit).
		Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// ListAvailable 获取指定日期区间内无冲突预订的可用房间
// 区间为左闭右开 [checkIn, checkOut)
func (r *RoomRepository) ListAvailable(ctx context.Context, checkIn, checkOut time.Time, roomTypeID int64, offset, limit int) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	sub := r.db.Model(&models.Booking{}).
		Select("room_id").
		Where("status IN ?", models.ActiveBookingStatuses()).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)

	query := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("status = ?", models.RoomStatusAvailable).
		Where("id NOT IN (?)", sub)

	if roomTypeID > 0 {
		query = query.Where("room_type_id = ?", roomTypeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("RoomType").Preload("Images").
		Order("room_number ASC").Offset(offset).Limit(limit).
		Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// CountActiveBookings 统计房间未结束的预订数
func (r *RoomRepository) CountActiveBookings(ctx context.Context, roomID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveBookingStatuses()).
		Count(&count).Error
	return count, err
}
