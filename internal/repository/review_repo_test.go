// Package repository 评价仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/models"
)

// setupReviewTestDB 创建评价测试数据库并返回一条已确认预订
func setupReviewTestDB(t *testing.T) (*gorm.DB, *models.Booking) {
	db := setupBookingTestDB(t)

	booking := newTestBooking(1, 1, date(2026, 9, 1), date(2026, 9, 3), models.BookingStatusConfirmed)
	require.NoError(t, db.Create(booking).Error)

	return db, booking
}

func TestReviewRepository_Create(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	comment := "房间干净，位置很好"
	review := &models.Review{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Rating:    5,
		Comment:   &comment,
	}

	err := repo.Create(ctx, review)
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.False(t, review.ReviewDate.IsZero())
}

func TestReviewRepository_Create_DuplicateBooking(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Review{BookingID: booking.ID, UserID: booking.UserID, Rating: 5}))

	// booking_id 唯一索引保证一单一评
	err := repo.Create(ctx, &models.Review{BookingID: booking.ID, UserID: booking.UserID, Rating: 3})
	assert.Error(t, err)
}

func TestReviewRepository_ExistsByBookingID(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	exists, err := repo.ExistsByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, db.Create(&models.Review{BookingID: booking.ID, UserID: booking.UserID, Rating: 4}).Error)

	exists, err = repo.ExistsByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReviewRepository_ListByRoom(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	booking2 := newTestBooking(1, 1, date(2026, 9, 10), date(2026, 9, 12), models.BookingStatusConfirmed)
	require.NoError(t, db.Create(booking2).Error)

	r1 := &models.Review{BookingID: booking.ID, UserID: 1, Rating: 5, ReviewDate: time.Now().Add(-time.Hour)}
	r2 := &models.Review{BookingID: booking2.ID, UserID: 1, Rating: 3, ReviewDate: time.Now()}
	require.NoError(t, db.Create(r1).Error)
	require.NoError(t, db.Create(r2).Error)

	reviews, total, err := repo.ListByRoom(ctx, 1, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, reviews, 2)
	// 最新的评价排在前面
	assert.Equal(t, r2.ID, reviews[0].ID)
}

func TestReviewRepository_AverageRatingByRoom(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	booking2 := newTestBooking(1, 1, date(2026, 9, 10), date(2026, 9, 12), models.BookingStatusConfirmed)
	require.NoError(t, db.Create(booking2).Error)

	require.NoError(t, db.Create(&models.Review{BookingID: booking.ID, UserID: 1, Rating: 5}).Error)
	require.NoError(t, db.Create(&models.Review{BookingID: booking2.ID, UserID: 1, Rating: 3}).Error)

	avg, count, err := repo.AverageRatingByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 4.0, avg, 0.001)
}

func TestReviewRepository_Delete(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	review := &models.Review{BookingID: booking.ID, UserID: 1, Rating: 2}
	require.NoError(t, db.Create(review).Error)

	err := repo.Delete(ctx, review.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, review.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
