// Package admin 提供管理端服务
package admin

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/common/utils"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// UserAdminService 用户管理服务
type UserAdminService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	logRepo  *repository.OperationLogRepository
}

// NewUserAdminService 创建用户管理服务
func NewUserAdminService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	logRepo *repository.OperationLogRepository,
) *UserAdminService {
	return &UserAdminService{
		db:       db,
		userRepo: userRepo,
		logRepo:  logRepo,
	}
}

// ListUsers 获取用户列表
func (s *UserAdminService) ListUsers(ctx context.Context, offset, limit int, role models.Role, keyword string) ([]*models.User, int64, error) {
	if role != "" && !role.Valid() {
		return nil, 0, errors.ErrInvalidParams.WithMessage("无效的角色")
	}
	users, total, err := s.userRepo.List(ctx, offset, limit, role, keyword)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return users, total, nil
}

// PromoteUser 将顾客提升为管理员
func (s *UserAdminService) PromoteUser(ctx context.Context, actorID, targetID int64, ip string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if user.Role == models.RoleAdmin {
		return nil, errors.ErrAlreadyAdmin
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, models.RoleAdmin); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	user.Role = models.RoleAdmin

	s.writeLog(ctx, actorID, models.LogActionPromote, targetID, ip, models.JSON{
		"from": string(models.RoleCustomer),
		"to":   string(models.RoleAdmin),
	})

	logger.Info("用户已提升为管理员",
		logger.ActorID(actorID),
		logger.UserID(targetID),
	)
	return user, nil
}

// DemoteUser 撤销管理员权限
// 不允许撤销自己，也不允许撤销最后一名管理员
func (s *UserAdminService) DemoteUser(ctx context.Context, actorID, targetID int64, ip string) (*models.User, error) {
	if actorID == targetID {
		return nil, errors.ErrSelfDemotion
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if user.Role != models.RoleAdmin {
		return nil, errors.ErrNotAdmin
	}

	// 数量检查与降级在同一事务内，并锁定全部管理员行，
	// 并发降级不同管理员时后到的事务会等锁后重新看到已减少的数量
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admins []models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("role = ?", models.RoleAdmin).
			Find(&admins).Error; err != nil {
			return err
		}
		if len(admins) <= 1 {
			return errors.ErrLastAdmin
		}

		// 锁内重新校验目标仍是管理员
		stillAdmin := false
		for _, a := range admins {
			if a.ID == targetID {
				stillAdmin = true
				break
			}
		}
		if !stillAdmin {
			return errors.ErrNotAdmin
		}

		return tx.Model(&models.User{}).
			Where("id = ?", targetID).
			Update("role", models.RoleCustomer).Error
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	user.Role = models.RoleCustomer

	s.writeLog(ctx, actorID, models.LogActionDemote, targetID, ip, models.JSON{
		"from": string(models.RoleAdmin),
		"to":   string(models.RoleCustomer),
	})

	logger.Info("管理员权限已撤销",
		logger.ActorID(actorID),
		logger.UserID(targetID),
	)
	return user, nil
}

// ListOperationLogs 获取操作审计日志
func (s *UserAdminService) ListOperationLogs(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.OperationLog, int64, error) {
	logs, total, err := s.logRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return logs, total, nil
}

// writeLog 写入操作审计日志，失败只记录不阻断业务
func (s *UserAdminService) writeLog(ctx context.Context, actorID int64, action string, targetID int64, ip string, detail models.JSON) {
	log := &models.OperationLog{
		ActorID:    actorID,
		Module:     models.LogModuleUser,
		Action:     action,
		TargetType: utils.StringPtr("user"),
		TargetID:   utils.Int64Ptr(targetID),
		Detail:     detail,
		IP:         ip,
	}
	if err := s.logRepo.Create(ctx, log); err != nil {
		logger.Error("写入操作日志失败", logger.ActorID(actorID), logger.Err(err))
	}
}
