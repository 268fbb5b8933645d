// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/models"
)

// ReviewRepository 评价仓储
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create 创建评价
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// GetByID 根据 ID 获取评价
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByBookingID 根据预订 ID 获取评价
func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsByBookingID 判断预订是否已评价
func (r *ReviewRepository) ExistsByBookingID(ctx context.Context, bookingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("booking_id = ?", bookingID).Count(&count).Error
	return count > 0, err
}

// Delete 删除评价
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, id).Error
}

// ListByRoom 获取房间的评价列表（按评价时间倒序）
func (r *ReviewRepository) ListByRoom(ctx context.Context, roomID int64, offset, limit int) ([]*models.Review, int64, error) {
	var reviews []*models.Review
	var total int64

	sub := r.db.Model(&models.Booking{}).Select("id").Where("room_id = ?", roomID)
	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("booking_id IN (?)", sub)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("User").
		Order("review_date DESC, id DESC").Offset(offset).Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ListByUser 获取用户的评价列表
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.Review, int64, error) {
	var reviews []*models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Booking").Preload("Booking.Room").
		Order("id DESC").Offset(offset).Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// AverageRatingByRoom 计算房间的平均评分
func (r *ReviewRepository) AverageRatingByRoom(ctx context.Context, roomID int64) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	sub := r.db.Model(&models.Booking{}).Select("id").Where("room_id = ?", roomID)
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("booking_id IN (?)", sub).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Count, nil
}
