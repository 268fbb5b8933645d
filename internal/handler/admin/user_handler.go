// Package admin 提供管理端的 HTTP Handler
package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/liangyue/hotel-booking-backend/internal/common/handler"
	"github.com/liangyue/hotel-booking-backend/internal/common/response"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	adminService "github.com/liangyue/hotel-booking-backend/internal/service/admin"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	userAdminService *adminService.UserAdminService
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(userAdminSvc *adminService.UserAdminService) *UserHandler {
	return &UserHandler{
		userAdminService: userAdminSvc,
	}
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Tags 管理端-用户
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param role query string false "角色" Enums(customer, admin)
// @Param keyword query string false "邮箱或姓名关键词"
// @Success 200 {object} response.Response{data=[]models.User}
// @Router /api/v1/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := handler.BindPagination(c)
	role := models.Role(c.Query("role"))
	keyword := c.Query("keyword")

	users, total, err := h.userAdminService.ListUsers(c.Request.Context(), p.GetOffset(), p.GetLimit(), role, keyword)
	handler.MustSucceedPage(c, err, users, total, p.Page, p.PageSize)
}

// PromoteUser 提升用户为管理员
// @Summary 提升用户为管理员
// @Tags 管理端-用户
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/admin/users/{id}/promote [post]
func (h *UserHandler) PromoteUser(c *gin.Context) {
	actorID, targetID, ok := handler.RequireUserAndParseID(c, "用户")
	if !ok {
		return
	}

	user, err := h.userAdminService.PromoteUser(c.Request.Context(), actorID, targetID, c.ClientIP())
	handler.MustSucceed(c, err, user)
}

// DemoteUser 撤销用户的管理员权限
// @Summary 撤销用户的管理员权限
// @Description 不能撤销自己，也不能撤销最后一名管理员
// @Tags 管理端-用户
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/admin/users/{id}/demote [post]
func (h *UserHandler) DemoteUser(c *gin.Context) {
	actorID, targetID, ok := handler.RequireUserAndParseID(c, "用户")
	if !ok {
		return
	}

	user, err := h.userAdminService.DemoteUser(c.Request.Context(), actorID, targetID, c.ClientIP())
	handler.MustSucceed(c, err, user)
}

// ListOperationLogs 获取操作审计日志
// @Summary 获取操作审计日志
// @Tags 管理端-系统
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param actor_id query int false "操作人ID"
// @Param module query string false "模块"
// @Param action query string false "动作"
// @Success 200 {object} response.Response{data=[]models.OperationLog}
// @Router /api/v1/admin/operation-logs [get]
func (h *UserHandler) ListOperationLogs(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if v := c.Query("actor_id"); v != "" {
		actorID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "操作人ID格式错误")
			return
		}
		filters["actor_id"] = actorID
	}
	if v := c.Query("module"); v != "" {
		filters["module"] = v
	}
	if v := c.Query("action"); v != "" {
		filters["action"] = v
	}

	logs, total, err := h.userAdminService.ListOperationLogs(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, logs, total, p.Page, p.PageSize)
}

// RegisterRoutes 注册管理端路由
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("/:id/promote", h.PromoteUser)
		users.POST("/:id/demote", h.DemoteUser)
	}
	r.GET("/operation-logs", h.ListOperationLogs)
}
