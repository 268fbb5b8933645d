// Package upload 提供房间图片上传服务
package upload

import (
	"bytes"
	"context"
	"io"

	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
	"github.com/liangyue/hotel-booking-backend/pkg/oss"
)

// 图片大小上限 5MB
const maxImageSize = 5 << 20

// UploadService 上传服务
type UploadService struct {
	uploader  oss.Uploader
	roomRepo  *repository.RoomRepository
	imageRepo *repository.RoomImageRepository
}

// NewUploadService 创建上传服务
func NewUploadService(
	uploader oss.Uploader,
	roomRepo *repository.RoomRepository,
	imageRepo *repository.RoomImageRepository,
) *UploadService {
	return &UploadService{
		uploader:  uploader,
		roomRepo:  roomRepo,
		imageRepo: imageRepo,
	}
}

// UploadRoomImage 上传房间图片并写入图片记录
func (s *UploadService) UploadRoomImage(ctx context.Context, roomID int64, filename string, size int64, reader io.Reader, isMain bool) (*models.RoomImage, error) {
	if size > maxImageSize {
		return nil, errors.ErrInvalidParams.WithMessage("图片大小超过 5MB 限制")
	}

	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// 校验会消费 reader 的文件头，先读入内存再上传
	data, err := io.ReadAll(io.LimitReader(reader, maxImageSize+1))
	if err != nil {
		return nil, errors.ErrInvalidParams.WithMessage("读取上传文件失败")
	}
	if int64(len(data)) > maxImageSize {
		return nil, errors.ErrInvalidParams.WithMessage("图片大小超过 5MB 限制")
	}

	if err := oss.ValidateImageFile(filename, bytes.NewReader(data)); err != nil {
		return nil, errors.ErrInvalidParams.WithMessage(err.Error())
	}

	objectKey := oss.GenerateObjectKey("rooms", filename)
	url, err := s.uploader.Upload(ctx, objectKey, bytes.NewReader(data))
	if err != nil {
		return nil, errors.ErrExternalService.WithError(err)
	}

	if isMain {
		if err := s.imageRepo.ClearMain(ctx, roomID); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	image := &models.RoomImage{
		RoomID:   roomID,
		URL:      url,
		PublicID: objectKey,
		IsMain:   isMain,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		// 数据库写入失败时回收已上传的对象
		if delErr := s.uploader.Delete(ctx, objectKey); delErr != nil {
			logger.Warn("回收 OSS 对象失败", logger.String("object_key", objectKey), logger.Err(delErr))
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("房间图片上传成功",
		logger.RoomID(roomID),
		logger.String("object_key", objectKey),
		logger.Bool("is_main", isMain),
	)
	return image, nil
}

// DeleteRoomImage 删除房间图片及对应的 OSS 对象
func (s *UploadService) DeleteRoomImage(ctx context.Context, roomID, imageID int64) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomImageNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if image.RoomID != roomID {
		return errors.ErrRoomImageNotFound
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	// OSS 删除失败只记录，图片记录已删除
	if err := s.uploader.Delete(ctx, image.PublicID); err != nil {
		logger.Warn("删除 OSS 对象失败", logger.String("object_key", image.PublicID), logger.Err(err))
	}

	return nil
}

// SetMainImage 设置房间主图
func (s *UploadService) SetMainImage(ctx context.Context, roomID, imageID int64) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomImageNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if image.RoomID != roomID {
		return errors.ErrRoomImageNotFound
	}

	if err := s.imageRepo.SetMain(ctx, roomID, imageID); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListRoomImages 获取房间图片列表
func (s *UploadService) ListRoomImages(ctx context.Context, roomID int64) ([]*models.RoomImage, error) {
	images, err := s.imageRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return images, nil
}
