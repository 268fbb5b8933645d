// Package hotel 提供房型、房间与预订服务
package hotel

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/cache"
	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/common/metrics"
	"github.com/liangyue/hotel-booking-backend/internal/common/utils"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// RoomService 房间服务
type RoomService struct {
	roomRepo     *repository.RoomRepository
	roomTypeRepo *repository.RoomTypeRepository
	reviewRepo   *repository.ReviewRepository
	redisClient  *redis.Client
}

// NewRoomService 创建房间服务
func NewRoomService(
	roomRepo *repository.RoomRepository,
	roomTypeRepo *repository.RoomTypeRepository,
	reviewRepo *repository.ReviewRepository,
	redisClient *redis.Client,
) *RoomService {
	return &RoomService{
		roomRepo:     roomRepo,
		roomTypeRepo: roomTypeRepo,
		reviewRepo:   reviewRepo,
		redisClient:  redisClient,
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	RoomNumber string            `json:"room_number" binding:"required,max=20"`
	Floor      int               `json:"floor" binding:"required,min=1"`
	Status     models.RoomStatus `json:"status"`
	RoomTypeID int64             `json:"room_type_id" binding:"required"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	RoomNumber *string            `json:"room_number"`
	Floor      *int               `json:"floor"`
	Status     *models.RoomStatus `json:"status"`
	RoomTypeID *int64             `json:"room_type_id"`
}

// RoomDetail 房间详情（含评分聚合）
type RoomDetail struct {
	*models.Room
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// SearchAvailableRequest 可用房间查询请求
type SearchAvailableRequest struct {
	CheckInDate  time.Time
	CheckOutDate time.Time
	RoomTypeID   int64
	Offset       int
	Limit        int
}

// CreateRoom 创建房间
func (s *RoomService) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*models.Room, error) {
	if req.Status == "" {
		req.Status = models.RoomStatusAvailable
	}
	if !req.Status.Valid() {
		return nil, errors.ErrInvalidParams.WithMessage("无效的房间状态")
	}

	if _, err := s.roomTypeRepo.GetByID(ctx, req.RoomTypeID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	exists, err := s.roomRepo.ExistsByRoomNumber(ctx, req.RoomNumber, 0)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrRoomNumberExists
	}

	room := &models.Room{
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		Status:     req.Status,
		RoomTypeID: req.RoomTypeID,
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx, room.ID)
	return room, nil
}

// GetRoom 获取房间详情（含房型、图片与评分聚合，带缓存）
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*RoomDetail, error) {
	if s.redisClient != nil {
		var detail RoomDetail
		if err := cache.Get(ctx, cache.RoomDetailKey(id), &detail); err == nil {
			if m := metrics.GetMetrics(); m != nil {
				m.RecordCacheHit("room_detail")
			}
			return &detail, nil
		}
		if m := metrics.GetMetrics(); m != nil {
			m.RecordCacheMiss("room_detail")
		}
	}

	room, err := s.roomRepo.GetByIDWithDetail(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	avg, count, err := s.reviewRepo.AverageRatingByRoom(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	detail := &RoomDetail{
		Room:          room,
		AverageRating: avg,
		ReviewCount:   count,
	}

	if s.redisClient != nil {
		if err := cache.Set(ctx, cache.RoomDetailKey(id), detail, catalogCacheTTL); err != nil {
			logger.Warn("写入房间缓存失败", logger.RoomID(id), logger.Err(err))
		}
	}

	return detail, nil
}

// UpdateRoom 更新房间，仅更新提交的字段
func (s *RoomService) UpdateRoom(ctx context.Context, id int64, req *UpdateRoomRequest) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.RoomNumber != nil && *req.RoomNumber != room.RoomNumber {
		exists, err := s.roomRepo.ExistsByRoomNumber(ctx, *req.RoomNumber, id)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, errors.ErrRoomNumberExists
		}
		room.RoomNumber = *req.RoomNumber
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, errors.ErrInvalidParams.WithMessage("无效的房间状态")
		}
		room.Status = *req.Status
	}
	if req.RoomTypeID != nil {
		if _, err := s.roomTypeRepo.GetByID(ctx, *req.RoomTypeID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrRoomTypeNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		room.RoomTypeID = *req.RoomTypeID
	}

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx, id)
	return room, nil
}

// DeleteRoom 删除房间，存在未完结预订时拒绝
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	count, err := s.roomRepo.CountActiveBookings(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return errors.ErrRoomHasBookings
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx, id)
	return nil
}

// ListRooms 获取房间列表（管理端）
func (s *RoomService) ListRooms(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	rooms, total, err := s.roomRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, total, nil
}

// SearchAvailable 查询日期区间内可用的房间（公开目录）
func (s *RoomService) SearchAvailable(ctx context.Context, req *SearchAvailableRequest) ([]*models.Room, int64, error) {
	checkIn := utils.TruncateToDate(req.CheckInDate)
	checkOut := utils.TruncateToDate(req.CheckOutDate)

	if !checkOut.After(checkIn) {
		return nil, 0, errors.ErrDateRangeInvalid
	}

	rooms, total, err := s.roomRepo.ListAvailable(ctx, checkIn, checkOut, req.RoomTypeID, req.Offset, req.Limit)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, total, nil
}

// invalidateCache 房间变更后清除缓存
func (s *RoomService) invalidateCache(ctx context.Context, roomID int64) {
	if s.redisClient == nil {
		return
	}
	if err := cache.Delete(ctx, cache.KeyRoomList, cache.RoomDetailKey(roomID)); err != nil {
		logger.Warn("清除房间缓存失败", logger.RoomID(roomID), logger.Err(err))
	}
}
