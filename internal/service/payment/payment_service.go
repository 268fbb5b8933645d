// Package payment 提供支付确认服务
package payment

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/common/metrics"
	"github.com/liangyue/hotel-booking-backend/internal/common/utils"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// PaymentService 支付服务
type PaymentService struct {
	db          *gorm.DB
	bookingRepo *repository.BookingRepository
	paymentRepo *repository.PaymentRepository
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	db *gorm.DB,
	bookingRepo *repository.BookingRepository,
	paymentRepo *repository.PaymentRepository,
) *PaymentService {
	return &PaymentService{
		db:          db,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
	}
}

// ConfirmPaymentRequest 支付确认请求
// 支付结果由前端支付流程回传，服务端记录结果并推进预订状态；
// succeeded 省略时视为支付成功
type ConfirmPaymentRequest struct {
	BookingID     int64                `json:"booking_id" binding:"required"`
	Method        models.PaymentMethod `json:"method" binding:"required"`
	Succeeded     *bool                `json:"succeeded"`
	TransactionID *string              `json:"transaction_id"`
}

// ConfirmPaymentResult 支付确认结果
type ConfirmPaymentResult struct {
	Booking *models.Booking `json:"booking"`
	Payment *models.Payment `json:"payment"`
}

// ConfirmPayment 确认支付
// 预订行加锁后校验状态并写入支付记录，支付记录与预订状态变更同事务提交：
//   - 成功：支付 succeeded，预订 pending -> confirmed
//   - 失败：支付 failed，预订保持 pending，可重新发起
//
// 仅待支付的预订可确认；已确认或已取消返回 ErrBookingAlreadyProcessed
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID int64, req *ConfirmPaymentRequest) (*ConfirmPaymentResult, error) {
	if !req.Method.Valid() {
		return nil, errors.ErrPaymentMethodError
	}
	succeeded := req.Succeeded == nil || *req.Succeeded

	var booking *models.Booking
	var payment *models.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		// 行锁防止同一预订并发确认
		booking, err = s.bookingRepo.GetForUpdate(ctx, tx, req.BookingID, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookingNotFound
			}
			return err
		}

		if booking.Status != models.BookingStatusPending {
			return errors.ErrBookingAlreadyProcessed
		}

		status := models.PaymentStatusFailed
		if succeeded {
			status = models.PaymentStatusSucceeded
		}

		payment = &models.Payment{
			PaymentNo:     utils.GenerateOrderNo("PAY"),
			BookingID:     booking.ID,
			Amount:        booking.TotalAmount,
			Method:        req.Method,
			Status:        status,
			TransactionID: req.TransactionID,
			PaymentDate:   time.Now(),
		}

		// booking_id 唯一索引只保留一条支付记录，覆盖此前失败的尝试
		if err := tx.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentStatusFailed).
			Delete(&models.Payment{}).Error; err != nil {
			return err
		}

		if succeeded {
			// 成功支付与预订确认同事务落库
			if err := tx.Create(payment).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Booking{}).
				Where("id = ?", booking.ID).
				Update("status", models.BookingStatusConfirmed).Error; err != nil {
				return err
			}
			booking.Status = models.BookingStatusConfirmed
			return nil
		}

		// 失败：仅记录结果，预订保持待支付
		return tx.Create(payment).Error
	})

	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.RecordPaymentGlobal(string(payment.Method), string(payment.Status))
	logger.Info("支付确认完成",
		logger.UserID(userID),
		logger.BookingID(booking.ID),
		logger.String("payment_no", payment.PaymentNo),
		logger.String("payment_status", string(payment.Status)),
	)

	return &ConfirmPaymentResult{
		Booking: booking,
		Payment: payment,
	}, nil
}

// GetPaymentByBooking 获取预订的支付记录
func (s *PaymentService) GetPaymentByBooking(ctx context.Context, userID, bookingID int64) (*models.Payment, error) {
	if _, err := s.bookingRepo.GetByIDForUser(ctx, bookingID, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return payment, nil
}

// ListPayments 获取支付列表（管理端）
func (s *PaymentService) ListPayments(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Payment, int64, error) {
	payments, total, err := s.paymentRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return payments, total, nil
}

// GetRevenue 统计时间段内的成功支付总额（管理端）
func (s *PaymentService) GetRevenue(ctx context.Context, startDate, endDate time.Time) (float64, error) {
	total, err := s.paymentRepo.SumSucceededAmount(ctx, startDate, endDate)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	return total, nil
}
