// Package hotel 房型与房间服务单元测试
package hotel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/utils"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// newRoomService 构造房间服务（测试不接 Redis）
func newRoomService(db *gorm.DB) *RoomService {
	return NewRoomService(
		repository.NewRoomRepository(db),
		repository.NewRoomTypeRepository(db),
		repository.NewReviewRepository(db),
		nil,
	)
}

// newRoomTypeService 构造房型服务（测试不接 Redis）
func newRoomTypeService(db *gorm.DB) *RoomTypeService {
	return NewRoomTypeService(repository.NewRoomTypeRepository(db), nil)
}

func TestRoomTypeService_CreateRoomType(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newRoomTypeService(db)
	ctx := context.Background()

	t.Run("创建成功", func(t *testing.T) {
		roomType, err := svc.CreateRoomType(ctx, &CreateRoomTypeRequest{
			Name:          "豪华套房",
			Description:   utils.StringPtr("带海景阳台"),
			Capacity:      4,
			PricePerNight: 520.00,
		})
		require.NoError(t, err)
		assert.NotZero(t, roomType.ID)
	})

	t.Run("容纳人数超出范围", func(t *testing.T) {
		_, err := svc.CreateRoomType(ctx, &CreateRoomTypeRequest{
			Name:          "异常房型",
			Capacity:      6,
			PricePerNight: 100.00,
		})
		assert.ErrorIs(t, err, errors.ErrCapacityInvalid)
	})

	t.Run("价格超出范围", func(t *testing.T) {
		_, err := svc.CreateRoomType(ctx, &CreateRoomTypeRequest{
			Name:          "异常房型",
			Capacity:      2,
			PricePerNight: 9.99,
		})
		assert.ErrorIs(t, err, errors.ErrPriceInvalid)

		_, err = svc.CreateRoomType(ctx, &CreateRoomTypeRequest{
			Name:          "异常房型",
			Capacity:      2,
			PricePerNight: 10000.01,
		})
		assert.ErrorIs(t, err, errors.ErrPriceInvalid)
	})
}

func TestRoomTypeService_UpdateRoomType(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newRoomTypeService(db)
	ctx := context.Background()

	t.Run("部分字段更新", func(t *testing.T) {
		updated, err := svc.UpdateRoomType(ctx, 1, &UpdateRoomTypeRequest{
			PricePerNight: utils.Float64Ptr(96.00),
		})
		require.NoError(t, err)
		assert.InDelta(t, 96.00, updated.PricePerNight, 0.001)
		// 未提交的字段保持不变
		assert.Equal(t, "标准大床房", updated.Name)
	})

	t.Run("不存在的房型", func(t *testing.T) {
		_, err := svc.UpdateRoomType(ctx, 99999, &UpdateRoomTypeRequest{})
		assert.ErrorIs(t, err, errors.ErrRoomTypeNotFound)
	})
}

func TestRoomTypeService_DeleteRoomType(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newRoomTypeService(db)
	ctx := context.Background()

	t.Run("仍有房间引用时拒绝删除", func(t *testing.T) {
		err := svc.DeleteRoomType(ctx, 1)
		assert.ErrorIs(t, err, errors.ErrRoomTypeInUse)
	})

	t.Run("无引用时删除成功", func(t *testing.T) {
		roomType, err := svc.CreateRoomType(ctx, &CreateRoomTypeRequest{
			Name:          "临时房型",
			Capacity:      2,
			PricePerNight: 100.00,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteRoomType(ctx, roomType.ID))

		_, err = svc.GetRoomType(ctx, roomType.ID)
		assert.ErrorIs(t, err, errors.ErrRoomTypeNotFound)
	})
}

func TestRoomService_CreateRoom(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newRoomService(db)
	ctx := context.Background()

	t.Run("创建成功", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, &CreateRoomRequest{
			RoomNumber: "201",
			Floor:      2,
			RoomTypeID: 1,
		})
		require.NoError(t, err)
		assert.NotZero(t, room.ID)
		// 未指定状态时默认可用
		assert.Equal(t, models.RoomStatusAvailable, room.Status)
	})

	t.Run("房间号重复", func(t *testing.T) {
		_, err := svc.CreateRoom(ctx, &CreateRoomRequest{
			RoomNumber: "101",
			Floor:      1,
			RoomTypeID: 1,
		})
		assert.ErrorIs(t, err, errors.ErrRoomNumberExists)
	})

	t.Run("房型不存在", func(t *testing.T) {
		_, err := svc.CreateRoom(ctx, &CreateRoomRequest{
			RoomNumber: "301",
			Floor:      3,
			RoomTypeID: 99999,
		})
		assert.ErrorIs(t, err, errors.ErrRoomTypeNotFound)
	})
}

func TestRoomService_GetRoom(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newRoomService(db)
	ctx := context.Background()

	t.Run("获取详情含评分聚合", func(t *testing.T) {
		booking := &models.Booking{
			BookingNo:    "BKTEST001",
			UserID:       1,
			RoomID:       1,
			CheckInDate:  futureDate(-10),
			CheckOutDate: futureDate(-8),
			TotalAmount:  160.00,
			Status:       models.BookingStatusConfirmed,
		}
		require.NoError(t, db.Create(booking).Error)
		require.NoError(t, db.Create(&models.Review{BookingID: booking.ID, UserID: 1, Rating: 4}).Error)

		detail, err := svc.GetRoom(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "101", detail.RoomNumber)
		require.NotNil(t, detail.RoomType)
		assert.InDelta(t, 4.0, detail.AverageRating, 0.001)
		assert.Equal(t, int64(1), detail.ReviewCount)
	})

	t.Run("不存在的房间", func(t *testing.T) {
		_, err := svc.GetRoom(ctx, 99999)
		assert.ErrorIs(t, err, errors.ErrRoomNotFound)
	})
}

func TestRoomService_UpdateRoom(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newRoomService(db)
	ctx := context.Background()

	room2, err := svc.CreateRoom(ctx, &CreateRoomRequest{RoomNumber: "102", Floor: 1, RoomTypeID: 1})
	require.NoError(t, err)

	t.Run("改为已占用的房间号被拒绝", func(t *testing.T) {
		_, err := svc.UpdateRoom(ctx, room2.ID, &UpdateRoomRequest{
			RoomNumber: utils.StringPtr("101"),
		})
		assert.ErrorIs(t, err, errors.ErrRoomNumberExists)
	})

	t.Run("更新状态", func(t *testing.T) {
		status := models.RoomStatusMaintenance
		updated, err := svc.UpdateRoom(ctx, room2.ID, &UpdateRoomRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, models.RoomStatusMaintenance, updated.Status)
	})
}

func TestRoomService_DeleteRoom(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newRoomService(db)
	ctx := context.Background()

	t.Run("存在未完结预订时拒绝删除", func(t *testing.T) {
		booking := &models.Booking{
			BookingNo:    "BKTEST002",
			UserID:       1,
			RoomID:       1,
			CheckInDate:  futureDate(5),
			CheckOutDate: futureDate(7),
			TotalAmount:  160.00,
			Status:       models.BookingStatusConfirmed,
		}
		require.NoError(t, db.Create(booking).Error)

		err := svc.DeleteRoom(ctx, 1)
		assert.ErrorIs(t, err, errors.ErrRoomHasBookings)
	})

	t.Run("无预订时删除成功", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, &CreateRoomRequest{RoomNumber: "401", Floor: 4, RoomTypeID: 1})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteRoom(ctx, room.ID))
	})
}

func TestRoomService_SearchAvailable(t *testing.T) {
	db := setupHotelTestDB(t)
	svc := newRoomService(db)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, &CreateRoomRequest{RoomNumber: "102", Floor: 1, RoomTypeID: 1})
	require.NoError(t, err)

	booking := &models.Booking{
		BookingNo:    "BKTEST003",
		UserID:       1,
		RoomID:       1,
		CheckInDate:  utils.TruncateToDate(futureDate(10)),
		CheckOutDate: utils.TruncateToDate(futureDate(12)),
		TotalAmount:  160.00,
		Status:       models.BookingStatusConfirmed,
	}
	require.NoError(t, db.Create(booking).Error)

	t.Run("冲突日期只返回空闲房间", func(t *testing.T) {
		rooms, total, err := svc.SearchAvailable(ctx, &SearchAvailableRequest{
			CheckInDate:  futureDate(10),
			CheckOutDate: futureDate(12),
			Limit:        10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "102", rooms[0].RoomNumber)
	})

	t.Run("无效日期区间", func(t *testing.T) {
		_, _, err := svc.SearchAvailable(ctx, &SearchAvailableRequest{
			CheckInDate:  futureDate(12),
			CheckOutDate: futureDate(10),
			Limit:        10,
		})
		assert.ErrorIs(t, err, errors.ErrDateRangeInvalid)
	})
}
