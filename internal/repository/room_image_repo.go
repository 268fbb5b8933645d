// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/models"
)

// RoomImageRepository 房间图片仓储
type RoomImageRepository struct {
	db *gorm.DB
}

// NewRoomImageRepository 创建房间图片仓储
func NewRoomImageRepository(db *gorm.DB) *RoomImageRepository {
	return &RoomImageRepository{db: db}
}

// Create 创建图片记录
func (r *RoomImageRepository) Create(ctx context.Context, image *models.RoomImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// GetByID 根据 ID 获取图片
func (r *RoomImageRepository) GetByID(ctx context.Context, id int64) (*models.RoomImage, error) {
	var image models.RoomImage
	err := r.db.WithContext(ctx).First(&image, id).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// ListByRoom 获取房间的全部图片
func (r *RoomImageRepository) ListByRoom(ctx context.Context, roomID int64) ([]*models.RoomImage, error) {
	var images []*models.RoomImage
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("is_main DESC, id ASC").
		Find(&images).Error
	return images, err
}

// Delete 删除图片记录
func (r *RoomImageRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.RoomImage{}, id).Error
}

// ClearMain 清除房间的主图标记
func (r *RoomImageRepository) ClearMain(ctx context.Context, roomID int64) error {
	return r.db.WithContext(ctx).Model(&models.RoomImage{}).
		Where("room_id = ?", roomID).
		Update("is_main", false).Error
}

// SetMain 将指定图片设为主图
func (r *RoomImageRepository) SetMain(ctx context.Context, roomID, imageID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RoomImage{}).
			Where("room_id = ?", roomID).
			Update("is_main", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.RoomImage{}).
			Where("id = ? AND room_id = ?", imageID, roomID).
			Update("is_main", true).Error
	})
}
