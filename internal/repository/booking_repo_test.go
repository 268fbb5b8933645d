// Package repository 预订仓储单元测试
package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liangyue/hotel-booking-backend/internal/models"
)

// setupBookingTestDB 创建预订测试数据库
func setupBookingTestDB(t *testing.T) *gorm.DB {
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

	// 基础数据：一个用户、一个房型、一个房间
	user := newTestUser("guest@example.com", models.RoleCustomer)
	db.Create(user)

	roomType := &models.RoomType{Name: "标准大床房", Capacity: 2, PricePerNight: 80.00}
	db.Create(roomType)

	room := &models.Room{RoomNumber: "101", Floor: 1, Status: models.RoomStatusAvailable, RoomTypeID: roomType.ID}
	db.Create(room)

	return db
}

// date 构造测试日期
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestBooking 构造测试预订
func newTestBooking(userID, roomID int64, checkIn, checkOut time.Time, status models.BookingStatus) *models.Booking {
	return &models.Booking{
		BookingNo:    fmt.Sprintf("BK%d%d%d", userID, roomID, checkIn.UnixNano()),
		UserID:       userID,
		RoomID:       roomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalAmount:  160.00,
		Status:       status,
	}
}

func TestBookingRepository_Create(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	booking := newTestBooking(1, 1, date(2026, 10, 1), date(2026, 10, 3), models.BookingStatusPending)
	err := repo.Create(ctx, booking)
	require.NoError(t, err)
	assert.NotZero(t, booking.ID)
	assert.False(t, booking.BookingDate.IsZero())
}

func TestBookingRepository_HasConflict(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	// 已确认预订 [10-10, 10-15)
	existing := newTestBooking(1, 1, date(2026, 10, 10), date(2026, 10, 15), models.BookingStatusConfirmed)
	require.NoError(t, db.Create(existing).Error)

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{"完全重叠", date(2026, 10, 10), date(2026, 10, 15), true},
		{"前段重叠", date(2026, 10, 8), date(2026, 10, 12), true},
		{"后段重叠", date(2026, 10, 13), date(2026, 10, 18), true},
		{"完全包含", date(2026, 10, 11), date(2026, 10, 13), true},
		{"完全覆盖", date(2026, 10, 8), date(2026, 10, 18), true},
		{"退房日即入住日不冲突", date(2026, 10, 15), date(2026, 10, 20), false},
		{"入住日即退房日不冲突", date(2026, 10, 5), date(2026, 10, 10), false},
		{"完全在前", date(2026, 10, 1), date(2026, 10, 5), false},
		{"完全在后", date(2026, 10, 20), date(2026, 10, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict, err := repo.HasConflict(ctx, 1, tt.checkIn, tt.checkOut, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, conflict)
		})
	}
}

func TestBookingRepository_HasConflict_CancelledExcluded(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	// 已取消的预订不占用房间
	cancelled := newTestBooking(1, 1, date(2026, 11, 1), date(2026, 11, 5), models.BookingStatusCancelled)
	require.NoError(t, db.Create(cancelled).Error)

	conflict, err := repo.HasConflict(ctx, 1, date(2026, 11, 2), date(2026, 11, 4), 0)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestBookingRepository_HasConflict_PendingCounts(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	// 待支付的预订同样占用房间
	pending := newTestBooking(1, 1, date(2026, 11, 1), date(2026, 11, 5), models.BookingStatusPending)
	require.NoError(t, db.Create(pending).Error)

	conflict, err := repo.HasConflict(ctx, 1, date(2026, 11, 2), date(2026, 11, 4), 0)
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestBookingRepository_HasConflict_OtherRoom(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room2 := &models.Room{RoomNumber: "102", Floor: 1, Status: models.RoomStatusAvailable, RoomTypeID: 1}
	db.Create(room2)

	existing := newTestBooking(1, 1, date(2026, 11, 1), date(2026, 11, 5), models.BookingStatusConfirmed)
	require.NoError(t, db.Create(existing).Error)

	// 另一个房间不受影响
	conflict, err := repo.HasConflict(ctx, room2.ID, date(2026, 11, 2), date(2026, 11, 4), 0)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestBookingRepository_GetByIDForUser(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	other := newTestUser("other@example.com", models.RoleCustomer)
	db.Create(other)

	booking := newTestBooking(1, 1, date(2026, 10, 1), date(2026, 10, 3), models.BookingStatusPending)
	require.NoError(t, db.Create(booking).Error)

	t.Run("本人可见", func(t *testing.T) {
		found, err := repo.GetByIDForUser(ctx, booking.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, found.ID)
	})

	t.Run("他人不可见", func(t *testing.T) {
		_, err := repo.GetByIDForUser(ctx, booking.ID, other.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("不存在的预订", func(t *testing.T) {
		_, err := repo.GetByIDForUser(ctx, 99999, 1)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	booking := newTestBooking(1, 1, date(2026, 10, 1), date(2026, 10, 3), models.BookingStatusPending)
	require.NoError(t, db.Create(booking).Error)

	err := repo.UpdateStatus(ctx, booking.ID, models.BookingStatusConfirmed)
	require.NoError(t, err)

	var found models.Booking
	db.First(&found, booking.ID)
	assert.Equal(t, models.BookingStatusConfirmed, found.Status)
}

func TestBookingRepository_ListByUser(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b := newTestBooking(1, 1, date(2026, 10, 1+i*5), date(2026, 10, 3+i*5), models.BookingStatusPending)
		require.NoError(t, db.Create(b).Error)
	}
	cancelled := newTestBooking(1, 1, date(2026, 12, 1), date(2026, 12, 3), models.BookingStatusCancelled)
	require.NoError(t, db.Create(cancelled).Error)

	t.Run("全部预订", func(t *testing.T) {
		bookings, total, err := repo.ListByUser(ctx, 1, 0, 10, "")
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, bookings, 4)
		// 按 ID 倒序
		assert.Equal(t, cancelled.ID, bookings[0].ID)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		bookings, total, err := repo.ListByUser(ctx, 1, 0, 10, models.BookingStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, bookings, 1)
	})

	t.Run("其他用户为空", func(t *testing.T) {
		_, total, err := repo.ListByUser(ctx, 99999, 0, 10, "")
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestBookingRepository_List_Filters(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b1 := newTestBooking(1, 1, date(2026, 10, 1), date(2026, 10, 3), models.BookingStatusPending)
	require.NoError(t, db.Create(b1).Error)
	b2 := newTestBooking(1, 1, date(2026, 11, 1), date(2026, 11, 3), models.BookingStatusConfirmed)
	require.NoError(t, db.Create(b2).Error)

	t.Run("按状态过滤", func(t *testing.T) {
		bookings, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"status": models.BookingStatusConfirmed,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, b2.ID, bookings[0].ID)
	})

	t.Run("按入住日期范围过滤", func(t *testing.T) {
		_, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"start_date": date(2026, 10, 15),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})
}
