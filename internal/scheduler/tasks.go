package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	hotelService "github.com/liangyue/hotel-booking-backend/internal/service/hotel"
)

// operationLogRetention 操作日志保留时长
const operationLogRetention = 180 * 24 * time.Hour

// TaskHandler 后台维护任务
type TaskHandler struct {
	db              *gorm.DB
	roomTypeService *hotelService.RoomTypeService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(db *gorm.DB, roomTypeSvc *hotelService.RoomTypeService) *TaskHandler {
	return &TaskHandler{
		db:              db,
		roomTypeService: roomTypeSvc,
	}
}

// WarmCatalogCache 预热房型列表缓存
// 列表查询本身会回填缓存，定期调用保证失效后的冷启动窗口尽量短
func (h *TaskHandler) WarmCatalogCache(ctx context.Context) error {
	_, err := h.roomTypeService.ListAllRoomTypes(ctx)
	return err
}

// PruneOperationLogs 清理超过保留期的操作审计日志
func (h *TaskHandler) PruneOperationLogs(ctx context.Context) error {
	cutoff := time.Now().Add(-operationLogRetention)

	result := h.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.OperationLog{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		logger.Info("清理过期操作日志",
			zap.Int64("deleted", result.RowsAffected),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}

// SetupTasks 注册所有后台任务
func SetupTasks(s *Scheduler, handler *TaskHandler) {
	s.AddTask("WarmCatalogCache", 10*time.Minute, handler.WarmCatalogCache)
	s.AddTask("PruneOperationLogs", 24*time.Hour, handler.PruneOperationLogs)
}
