// Package review 评价服务单元测试
package review

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/utils"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// setupReviewTestDB 创建测试数据库，附带一条已确认预订
func setupReviewTestDB(t *testing.T) (*gorm.DB, *models.Booking) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.Review{},
	)
	require.NoError(t, err)

	user := &models.User{
		Email:        "guest@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:    "测试",
		LastName:     "顾客",
		Role:         models.RoleCustomer,
		Status:       models.UserStatusActive,
	}
	db.Create(user)

	roomType := &models.RoomType{Name: "标准大床房", Capacity: 2, PricePerNight: 80.00}
	db.Create(roomType)
	room := &models.Room{RoomNumber: "101", Floor: 1, Status: models.RoomStatusAvailable, RoomTypeID: roomType.ID}
	db.Create(room)

	booking := &models.Booking{
		BookingNo:    utils.GenerateOrderNo("BK"),
		UserID:       user.ID,
		RoomID:       room.ID,
		CheckInDate:  time.Now().AddDate(0, 0, -5),
		CheckOutDate: time.Now().AddDate(0, 0, -3),
		TotalAmount:  160.00,
		Status:       models.BookingStatusConfirmed,
	}
	require.NoError(t, db.Create(booking).Error)

	return db, booking
}

// newReviewService 构造评价服务
func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewBookingRepository(db),
	)
}

func TestReviewService_CreateReview(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	t.Run("创建成功", func(t *testing.T) {
		comment := "位置很好，房间干净"
		review, err := svc.CreateReview(ctx, booking.UserID, &CreateReviewRequest{
			BookingID: booking.ID,
			Rating:    5,
			Comment:   &comment,
		})
		require.NoError(t, err)
		assert.NotZero(t, review.ID)
		assert.Equal(t, 5, review.Rating)
	})

	t.Run("重复评价被拒绝", func(t *testing.T) {
		_, err := svc.CreateReview(ctx, booking.UserID, &CreateReviewRequest{
			BookingID: booking.ID,
			Rating:    3,
		})
		assert.ErrorIs(t, err, errors.ErrAlreadyReviewed)
	})
}

func TestReviewService_CreateReview_Validation(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	t.Run("评分越界", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := svc.CreateReview(ctx, booking.UserID, &CreateReviewRequest{
				BookingID: booking.ID,
				Rating:    rating,
			})
			assert.ErrorIs(t, err, errors.ErrRatingInvalid)
		}
	})

	t.Run("评价内容过长", func(t *testing.T) {
		long := strings.Repeat("好", models.ReviewMaxCommentLength+1)
		_, err := svc.CreateReview(ctx, booking.UserID, &CreateReviewRequest{
			BookingID: booking.ID,
			Rating:    5,
			Comment:   &long,
		})
		assert.ErrorIs(t, err, errors.ErrCommentTooLong)
	})

	t.Run("待支付的预订不可评价", func(t *testing.T) {
		pending := &models.Booking{
			BookingNo:    utils.GenerateOrderNo("BK"),
			UserID:       booking.UserID,
			RoomID:       booking.RoomID,
			CheckInDate:  time.Now().AddDate(0, 0, 10),
			CheckOutDate: time.Now().AddDate(0, 0, 12),
			TotalAmount:  160.00,
			Status:       models.BookingStatusPending,
		}
		require.NoError(t, db.Create(pending).Error)

		_, err := svc.CreateReview(ctx, booking.UserID, &CreateReviewRequest{
			BookingID: pending.ID,
			Rating:    5,
		})
		assert.ErrorIs(t, err, errors.ErrReviewNotAllowed)
	})

	t.Run("他人的预订不可评价", func(t *testing.T) {
		_, err := svc.CreateReview(ctx, 99999, &CreateReviewRequest{
			BookingID: booking.ID,
			Rating:    5,
		})
		assert.ErrorIs(t, err, errors.ErrBookingNotFound)
	})
}

func TestReviewService_GetRoomReviews(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, booking.UserID, &CreateReviewRequest{
		BookingID: booking.ID,
		Rating:    4,
	})
	require.NoError(t, err)

	reviews, total, err := svc.GetRoomReviews(ctx, booking.RoomID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
}

func TestReviewService_DeleteReview(t *testing.T) {
	db, booking := setupReviewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, booking.UserID, &CreateReviewRequest{
		BookingID: booking.ID,
		Rating:    2,
	})
	require.NoError(t, err)

	t.Run("他人不可删除", func(t *testing.T) {
		err := svc.DeleteReview(ctx, 99999, false, review.ID)
		assert.ErrorIs(t, err, errors.ErrPermissionDenied)
	})

	t.Run("管理员可删除", func(t *testing.T) {
		err := svc.DeleteReview(ctx, 99999, true, review.ID)
		require.NoError(t, err)
	})

	t.Run("删除不存在的评价", func(t *testing.T) {
		err := svc.DeleteReview(ctx, booking.UserID, false, review.ID)
		assert.ErrorIs(t, err, errors.ErrReviewNotFound)
	})
}
