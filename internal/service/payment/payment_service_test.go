// Package payment 支付服务单元测试
package payment

import (
	"context"
	"encoding/json"
	"strconv"
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

// setupPaymentTestDB 创建测试数据库，附带一条待支付预订
func setupPaymentTestDB(t *testing.T) (*gorm.DB, *models.Booking) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.Payment{},
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
		CheckInDate:  time.Now().AddDate(0, 0, 10),
		CheckOutDate: time.Now().AddDate(0, 0, 12),
		TotalAmount:  160.00,
		Status:       models.BookingStatusPending,
	}
	require.NoError(t, db.Create(booking).Error)

	return db, booking
}

// newPaymentService 构造支付服务
func newPaymentService(db *gorm.DB) *PaymentService {
	return NewPaymentService(
		db,
		repository.NewBookingRepository(db),
		repository.NewPaymentRepository(db),
	)
}

func TestPaymentService_ConfirmPayment_Success(t *testing.T) {
	db, booking := setupPaymentTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	txID := "pi_3abc123"
	result, err := svc.ConfirmPayment(ctx, booking.UserID, &ConfirmPaymentRequest{
		BookingID:     booking.ID,
		Method:        models.PaymentMethodStripe,
		Succeeded:     utils.BoolPtr(true),
		TransactionID: &txID,
	})
	require.NoError(t, err)

	// 支付成功：支付记录 succeeded，预订推进为 confirmed
	assert.Equal(t, models.PaymentStatusSucceeded, result.Payment.Status)
	assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)
	// 金额取自预订，不信任请求
	assert.InDelta(t, 160.00, result.Payment.Amount, 0.001)

	var found models.Booking
	require.NoError(t, db.First(&found, booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, found.Status)
}

func TestPaymentService_ConfirmPayment_OmittedFlagMeansSuccess(t *testing.T) {
	db, booking := setupPaymentTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	// 请求体不带 succeeded 字段时按支付成功处理
	body := []byte(`{"booking_id": ` + strconv.FormatInt(booking.ID, 10) +
		`, "method": "stripe", "transaction_id": "pi_3omit456"}`)
	var req ConfirmPaymentRequest
	require.NoError(t, json.Unmarshal(body, &req))
	require.Nil(t, req.Succeeded)

	result, err := svc.ConfirmPayment(ctx, booking.UserID, &req)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, result.Payment.Status)
	assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)
}

func TestPaymentService_ConfirmPayment_FailureKeepsPending(t *testing.T) {
	db, booking := setupPaymentTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	result, err := svc.ConfirmPayment(ctx, booking.UserID, &ConfirmPaymentRequest{
		BookingID: booking.ID,
		Method:    models.PaymentMethodStripe,
		Succeeded: utils.BoolPtr(false),
	})
	require.NoError(t, err)

	// 支付失败：记录 failed，预订保持 pending 可重试
	assert.Equal(t, models.PaymentStatusFailed, result.Payment.Status)
	assert.Equal(t, models.BookingStatusPending, result.Booking.Status)

	// 失败后重试成功
	retry, err := svc.ConfirmPayment(ctx, booking.UserID, &ConfirmPaymentRequest{
		BookingID: booking.ID,
		Method:    models.PaymentMethodStripe,
		Succeeded: utils.BoolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, retry.Booking.Status)

	// 最终只保留一条支付记录
	var count int64
	db.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPaymentService_ConfirmPayment_AlreadyProcessed(t *testing.T) {
	db, booking := setupPaymentTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	_, err := svc.ConfirmPayment(ctx, booking.UserID, &ConfirmPaymentRequest{
		BookingID: booking.ID,
		Method:    models.PaymentMethodCashOnArrival,
		Succeeded: utils.BoolPtr(true),
	})
	require.NoError(t, err)

	t.Run("已确认的预订无法重复支付", func(t *testing.T) {
		_, err := svc.ConfirmPayment(ctx, booking.UserID, &ConfirmPaymentRequest{
			BookingID: booking.ID,
			Method:    models.PaymentMethodStripe,
			Succeeded: utils.BoolPtr(true),
		})
		assert.ErrorIs(t, err, errors.ErrBookingAlreadyProcessed)
	})

	t.Run("已取消的预订无法支付", func(t *testing.T) {
		cancelled := &models.Booking{
			BookingNo:    utils.GenerateOrderNo("BK"),
			UserID:       booking.UserID,
			RoomID:       booking.RoomID,
			CheckInDate:  time.Now().AddDate(0, 0, 20),
			CheckOutDate: time.Now().AddDate(0, 0, 22),
			TotalAmount:  160.00,
			Status:       models.BookingStatusCancelled,
		}
		require.NoError(t, db.Create(cancelled).Error)

		_, err := svc.ConfirmPayment(ctx, booking.UserID, &ConfirmPaymentRequest{
			BookingID: cancelled.ID,
			Method:    models.PaymentMethodStripe,
			Succeeded: utils.BoolPtr(true),
		})
		assert.ErrorIs(t, err, errors.ErrBookingAlreadyProcessed)
	})
}

func TestPaymentService_ConfirmPayment_Authorization(t *testing.T) {
	db, booking := setupPaymentTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	t.Run("他人的预订不可支付", func(t *testing.T) {
		_, err := svc.ConfirmPayment(ctx, 99999, &ConfirmPaymentRequest{
			BookingID: booking.ID,
			Method:    models.PaymentMethodStripe,
			Succeeded: utils.BoolPtr(true),
		})
		assert.ErrorIs(t, err, errors.ErrBookingNotFound)
	})

	t.Run("无效支付方式", func(t *testing.T) {
		_, err := svc.ConfirmPayment(ctx, booking.UserID, &ConfirmPaymentRequest{
			BookingID: booking.ID,
			Method:    models.PaymentMethod("bitcoin"),
			Succeeded: utils.BoolPtr(true),
		})
		assert.ErrorIs(t, err, errors.ErrPaymentMethodError)
	})
}

func TestPaymentService_GetRevenue(t *testing.T) {
	db, booking := setupPaymentTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	_, err := svc.ConfirmPayment(ctx, booking.UserID, &ConfirmPaymentRequest{
		BookingID: booking.ID,
		Method:    models.PaymentMethodStripe,
		Succeeded: utils.BoolPtr(true),
	})
	require.NoError(t, err)

	total, err := svc.GetRevenue(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 160.00, total, 0.001)
}
