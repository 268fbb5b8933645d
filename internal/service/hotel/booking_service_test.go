// Package hotel 预订服务单元测试
package hotel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// setupHotelTestDB 创建测试数据库与基础数据
func setupHotelTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.RoomImage{},
		&models.Booking{},
		&models.Payment{},
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

	// 每晚 80 元的标准房型
	roomType := &models.RoomType{Name: "标准大床房", Capacity: 2, PricePerNight: 80.00}
	db.Create(roomType)

	room := &models.Room{RoomNumber: "101", Floor: 1, Status: models.RoomStatusAvailable, RoomTypeID: roomType.ID}
	db.Create(room)

	return db
}

// newBookingService 构造预订服务
func newBookingService(db *gorm.DB) *BookingService {
	return NewBookingService(
		db,
		repository.NewBookingRepository(db),
		repository.NewRoomRepository(db),
	)
}

// futureDate 距今 days 天后的日期
func futureDate(days int) time.Time {
	return time.Now().AddDate(0, 0, days)
}

func TestBookingService_CreateBooking(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	t.Run("创建成功并由服务端计算总价", func(t *testing.T) {
		// 每晚 80 元住 2 晚，总价应为 160.00
		booking, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       1,
			CheckInDate:  futureDate(10),
			CheckOutDate: futureDate(12),
		})
		require.NoError(t, err)
		assert.NotZero(t, booking.ID)
		assert.NotEmpty(t, booking.BookingNo)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.InDelta(t, 160.00, booking.TotalAmount, 0.001)

		var found models.Booking
		require.NoError(t, db.First(&found, booking.ID).Error)
		assert.InDelta(t, 160.00, found.TotalAmount, 0.001)
	})

	t.Run("重叠日期被拒绝", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       1,
			CheckInDate:  futureDate(11),
			CheckOutDate: futureDate(13),
		})
		assert.ErrorIs(t, err, errors.ErrBookingConflict)
	})

	t.Run("退房日即入住日不冲突", func(t *testing.T) {
		booking, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       1,
			CheckInDate:  futureDate(12),
			CheckOutDate: futureDate(14),
		})
		require.NoError(t, err)
		assert.NotZero(t, booking.ID)
	})
}

func TestBookingService_CreateBooking_Validation(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	t.Run("退房日期不晚于入住日期", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       1,
			CheckInDate:  futureDate(10),
			CheckOutDate: futureDate(10),
		})
		assert.ErrorIs(t, err, errors.ErrDateRangeInvalid)
	})

	t.Run("入住日期不能是过去", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       1,
			CheckInDate:  futureDate(-2),
			CheckOutDate: futureDate(2),
		})
		assert.ErrorIs(t, err, errors.ErrInvalidParams)
	})

	t.Run("房间不存在", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       99999,
			CheckInDate:  futureDate(10),
			CheckOutDate: futureDate(12),
		})
		assert.ErrorIs(t, err, errors.ErrRoomNotFound)
	})

	t.Run("维护中的房间不可预订", func(t *testing.T) {
		room := &models.Room{RoomNumber: "901", Floor: 9, Status: models.RoomStatusMaintenance, RoomTypeID: 1}
		require.NoError(t, db.Create(room).Error)

		_, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       room.ID,
			CheckInDate:  futureDate(10),
			CheckOutDate: futureDate(12),
		})
		assert.ErrorIs(t, err, errors.ErrRoomNotAvailable)
	})
}

func TestBookingService_CreateBooking_CancelledReleasesDates(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(10),
		CheckOutDate: futureDate(12),
	})
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, 1, booking.ID)
	require.NoError(t, err)

	// 取消后同一日期可再次预订
	again, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(10),
		CheckOutDate: futureDate(12),
	})
	require.NoError(t, err)
	assert.NotEqual(t, booking.ID, again.ID)
}

func TestBookingService_GetBooking(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	other := &models.User{
		Email:        "other@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:    "其他",
		LastName:     "顾客",
		Role:         models.RoleCustomer,
		Status:       models.UserStatusActive,
	}
	db.Create(other)

	booking, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(10),
		CheckOutDate: futureDate(12),
	})
	require.NoError(t, err)

	t.Run("本人可查看", func(t *testing.T) {
		found, err := svc.GetBooking(ctx, 1, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, found.ID)
		require.NotNil(t, found.Room)
	})

	t.Run("他人的预订与不存在的预订返回同一错误", func(t *testing.T) {
		_, errOther := svc.GetBooking(ctx, other.ID, booking.ID)
		_, errMissing := svc.GetBooking(ctx, other.ID, 99999)
		assert.ErrorIs(t, errOther, errors.ErrBookingNotFound)
		assert.ErrorIs(t, errMissing, errors.ErrBookingNotFound)
	})
}

func TestBookingService_CancelBooking(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(10),
		CheckOutDate: futureDate(12),
	})
	require.NoError(t, err)

	t.Run("取消成功", func(t *testing.T) {
		cancelled, err := svc.CancelBooking(ctx, 1, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	})

	t.Run("重复取消被拒绝", func(t *testing.T) {
		_, err := svc.CancelBooking(ctx, 1, booking.ID)
		assert.ErrorIs(t, err, errors.ErrBookingCancelled)
	})

	t.Run("他人无法取消", func(t *testing.T) {
		b2, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       1,
			CheckInDate:  futureDate(20),
			CheckOutDate: futureDate(22),
		})
		require.NoError(t, err)

		_, err = svc.CancelBooking(ctx, 99999, b2.ID)
		assert.ErrorIs(t, err, errors.ErrBookingNotFound)
	})
}

func TestBookingService_GetUserBookings(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateBooking(ctx, 1, &CreateBookingRequest{
			RoomID:       1,
			CheckInDate:  futureDate(10 + i*5),
			CheckOutDate: futureDate(12 + i*5),
		})
		require.NoError(t, err)
	}

	bookings, total, err := svc.GetUserBookings(ctx, 1, 0, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, bookings, 3)
	require.NotNil(t, bookings[0].Room)

	t.Run("无效状态被拒绝", func(t *testing.T) {
		_, _, err := svc.GetUserBookings(ctx, 1, 0, 10, models.BookingStatus("unknown"))
		assert.ErrorIs(t, err, errors.ErrInvalidParams)
	})
}
