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
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// 列表缓存过期时间
const catalogCacheTTL = 5 * time.Minute

// RoomTypeService 房型服务
type RoomTypeService struct {
	roomTypeRepo *repository.RoomTypeRepository
	redisClient  *redis.Client
}

// NewRoomTypeService 创建房型服务
func NewRoomTypeService(roomTypeRepo *repository.RoomTypeRepository, redisClient *redis.Client) *RoomTypeService {
	return &RoomTypeService{
		roomTypeRepo: roomTypeRepo,
		redisClient:  redisClient,
	}
}

// CreateRoomTypeRequest 创建房型请求
type CreateRoomTypeRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	Description   *string `json:"description"`
	Capacity      int     `json:"capacity" binding:"required"`
	PricePerNight float64 `json:"price_per_night" binding:"required"`
}

// UpdateRoomTypeRequest 更新房型请求
type UpdateRoomTypeRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Capacity      *int     `json:"capacity"`
	PricePerNight *float64 `json:"price_per_night"`
}

// validateCapacity 校验容纳人数
func validateCapacity(capacity int) error {
	if capacity < models.RoomTypeMinCapacity || capacity > models.RoomTypeMaxCapacity {
		return errors.ErrCapacityInvalid
	}
	return nil
}

// validatePrice 校验每晚价格
func validatePrice(price float64) error {
	if price < models.RoomTypeMinPrice || price > models.RoomTypeMaxPrice {
		return errors.ErrPriceInvalid
	}
	return nil
}

// CreateRoomType 创建房型
func (s *RoomTypeService) CreateRoomType(ctx context.Context, req *CreateRoomTypeRequest) (*models.RoomType, error) {
	if err := validateCapacity(req.Capacity); err != nil {
		return nil, err
	}
	if err := validatePrice(req.PricePerNight); err != nil {
		return nil, err
	}

	roomType := &models.RoomType{
		Name:          req.Name,
		Description:   req.Description,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
	}

	if err := s.roomTypeRepo.Create(ctx, roomType); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return roomType, nil
}

// GetRoomType 获取房型
func (s *RoomTypeService) GetRoomType(ctx context.Context, id int64) (*models.RoomType, error) {
	roomType, err := s.roomTypeRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomType, nil
}

// UpdateRoomType 更新房型，仅更新提交的字段
func (s *RoomTypeService) UpdateRoomType(ctx context.Context, id int64, req *UpdateRoomTypeRequest) (*models.RoomType, error) {
	roomType, err := s.GetRoomType(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		roomType.Name = *req.Name
	}
	if req.Description != nil {
		roomType.Description = req.Description
	}
	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity); err != nil {
			return nil, err
		}
		roomType.Capacity = *req.Capacity
	}
	if req.PricePerNight != nil {
		if err := validatePrice(*req.PricePerNight); err != nil {
			return nil, err
		}
		roomType.PricePerNight = *req.PricePerNight
	}

	if err := s.roomTypeRepo.Update(ctx, roomType); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return roomType, nil
}

// DeleteRoomType 删除房型，仍被房间引用时拒绝
func (s *RoomTypeService) DeleteRoomType(ctx context.Context, id int64) error {
	if _, err := s.GetRoomType(ctx, id); err != nil {
		return err
	}

	count, err := s.roomTypeRepo.CountRooms(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return errors.ErrRoomTypeInUse
	}

	if err := s.roomTypeRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return nil
}

// ListRoomTypes 获取房型列表
func (s *RoomTypeService) ListRoomTypes(ctx context.Context, offset, limit int) ([]*models.RoomType, int64, error) {
	roomTypes, total, err := s.roomTypeRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return roomTypes, total, nil
}

// ListAllRoomTypes 获取全部房型（公开目录，带缓存）
func (s *RoomTypeService) ListAllRoomTypes(ctx context.Context) ([]*models.RoomType, error) {
	var roomTypes []*models.RoomType

	if s.redisClient != nil {
		if err := cache.Get(ctx, cache.KeyRoomTypeList, &roomTypes); err == nil {
			return roomTypes, nil
		}
	}

	roomTypes, err := s.roomTypeRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if s.redisClient != nil {
		if err := cache.Set(ctx, cache.KeyRoomTypeList, roomTypes, catalogCacheTTL); err != nil {
			logger.Warn("写入房型缓存失败", logger.Err(err))
		}
	}

	return roomTypes, nil
}

// invalidateCache 房型变更后清除目录缓存
func (s *RoomTypeService) invalidateCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if err := cache.Delete(ctx, cache.KeyRoomTypeList, cache.KeyRoomList); err != nil {
		logger.Warn("清除目录缓存失败", logger.Err(err))
	}
}
