// Package admin 提供管理端服务
package admin

import (
	"context"

	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// BookingAdminService 预订管理服务
type BookingAdminService struct {
	bookingRepo *repository.BookingRepository
}

// NewBookingAdminService 创建预订管理服务
func NewBookingAdminService(bookingRepo *repository.BookingRepository) *BookingAdminService {
	return &BookingAdminService{bookingRepo: bookingRepo}
}

// ListBookings 获取全部预订列表
func (s *BookingAdminService) ListBookings(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Booking, int64, error) {
	bookings, total, err := s.bookingRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, total, nil
}

// GetBooking 获取任意预订详情
func (s *BookingAdminService) GetBooking(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByIDWithDetail(ctx, bookingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return booking, nil
}

// CancelBooking 管理员取消任意用户的预订
func (s *BookingAdminService) CancelBooking(ctx context.Context, actorID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, errors.ErrBookingCancelled
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	booking.Status = models.BookingStatusCancelled

	logger.Info("管理员取消预订",
		logger.ActorID(actorID),
		logger.BookingID(bookingID),
		logger.BookingNo(booking.BookingNo),
	)
	return booking, nil
}
