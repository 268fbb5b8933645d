// Package hotel 提供房型、房间与预订服务
package hotel

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/common/metrics"
	"github.com/liangyue/hotel-booking-backend/internal/common/tracing"
	"github.com/liangyue/hotel-booking-backend/internal/common/utils"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// 串行化冲突的最大重试次数
const maxSerializationRetries = 3

// BookingService 预订服务
type BookingService struct {
	db          *gorm.DB
	bookingRepo *repository.BookingRepository
	roomRepo    *repository.RoomRepository
}

// NewBookingService 创建预订服务
func NewBookingService(
	db *gorm.DB,
	bookingRepo *repository.BookingRepository,
	roomRepo *repository.RoomRepository,
) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
	}
}

// CreateBookingRequest 创建预订请求
// 日期使用 YYYY-MM-DD 格式，由 handler 解析后传入
type CreateBookingRequest struct {
	RoomID       int64
	CheckInDate  time.Time
	CheckOutDate time.Time
}

// CreateBooking 创建预订
// 冲突检查与写入在同一 SERIALIZABLE 事务内完成，
// 并发抢订同一房间同一日期时，后提交的事务以 40001 回滚并重试，
// 重试时冲突检查会看到先提交的预订而返回冲突错误
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, req *CreateBookingRequest) (*models.Booking, error) {
	checkIn := utils.TruncateToDate(req.CheckInDate)
	checkOut := utils.TruncateToDate(req.CheckOutDate)

	if !checkOut.After(checkIn) {
		return nil, errors.ErrDateRangeInvalid
	}
	today := utils.TruncateToDate(time.Now())
	if checkIn.Before(today) {
		return nil, errors.ErrInvalidParams.WithMessage("入住日期不能是过去")
	}

	room, err := s.roomRepo.GetByIDWithDetail(ctx, req.RoomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if room.Status != models.RoomStatusAvailable {
		return nil, errors.ErrRoomNotAvailable
	}
	if room.RoomType == nil {
		return nil, errors.ErrRoomTypeNotFound
	}

	// 总价由服务端按房型单价计算，不信任客户端金额
	nights := utils.NightsBetween(checkIn, checkOut)
	totalAmount := room.RoomType.PricePerNight * float64(nights)

	var booking *models.Booking
	for attempt := 0; ; attempt++ {
		booking, err = s.createBookingTx(ctx, userID, room.ID, checkIn, checkOut, totalAmount)
		if err == nil || !isSerializationFailure(err) || attempt >= maxSerializationRetries {
			break
		}
		logger.Warn("预订事务串行化冲突，重试",
			logger.UserID(userID),
			logger.RoomID(room.ID),
			logger.Int("attempt", attempt+1),
		)
	}

	if err != nil {
		if stderrors.Is(err, errors.ErrBookingConflict) {
			if m := metrics.GetMetrics(); m != nil {
				m.RecordBookingConflict()
			}
			return nil, errors.ErrBookingConflict
		}
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.RecordBookingGlobal(string(booking.Status))
	logger.Info("预订创建成功",
		logger.UserID(userID),
		logger.RoomID(room.ID),
		logger.BookingNo(booking.BookingNo),
		logger.Float64("total_amount", booking.TotalAmount),
	)

	booking.Room = room
	return booking, nil
}

// createBookingTx 单次预订事务：冲突检查 + 写入
func (s *BookingService) createBookingTx(ctx context.Context, userID, roomID int64, checkIn, checkOut time.Time, totalAmount float64) (*models.Booking, error) {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "booking.create",
		tracing.WithUserID(userID),
		tracing.WithRoomID(roomID),
	)
	defer span.End()

	var booking *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ?", roomID).
			Where("status IN ?", models.ActiveBookingStatuses()).
			Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.ErrBookingConflict
		}

		booking = &models.Booking{
			BookingNo:    utils.GenerateOrderNo("BK"),
			UserID:       userID,
			RoomID:       roomID,
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			TotalAmount:  totalAmount,
			Status:       models.BookingStatusPending,
		}
		return tx.Create(booking).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		tracing.SetError(ctx, err)
		return nil, err
	}
	return booking, nil
}

// isSerializationFailure 判断是否为 PostgreSQL 串行化失败 (SQLSTATE 40001)
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == "40001"
	}
	return false
}

// GetBooking 获取用户自己的预订详情
// 不存在与无权访问统一返回 ErrBookingNotFound
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	detail, err := s.bookingRepo.GetByIDWithDetail(ctx, booking.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return detail, nil
}

// GetUserBookings 获取用户预订列表
func (s *BookingService) GetUserBookings(ctx context.Context, userID int64, offset, limit int, status models.BookingStatus) ([]*models.Booking, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, errors.ErrInvalidParams.WithMessage("无效的预订状态")
	}
	bookings, total, err := s.bookingRepo.ListByUser(ctx, userID, offset, limit, status)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, total, nil
}

// CancelBooking 取消用户自己的预订
// 仅待支付或已确认的预订可取消，取消后房间日期立即释放
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, errors.ErrBookingCancelled
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, models.BookingStatusCancelled); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	booking.Status = models.BookingStatusCancelled

	metrics.RecordBookingGlobal(string(models.BookingStatusCancelled))
	logger.Info("预订已取消",
		logger.UserID(userID),
		logger.BookingID(booking.ID),
		logger.BookingNo(booking.BookingNo),
	)

	return booking, nil
}
