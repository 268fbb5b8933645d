// Package review 提供评价相关的 HTTP Handler
package review

import (
	"github.com/gin-gonic/gin"

	"github.com/liangyue/hotel-booking-backend/internal/common/handler"
	"github.com/liangyue/hotel-booking-backend/internal/common/response"
	"github.com/liangyue/hotel-booking-backend/internal/middleware"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	reviewService "github.com/liangyue/hotel-booking-backend/internal/service/review"
)

// Handler 评价处理器
type Handler struct {
	reviewService *reviewService.ReviewService
}

// NewHandler 创建评价处理器
func NewHandler(reviewSvc *reviewService.ReviewService) *Handler {
	return &Handler{
		reviewService: reviewSvc,
	}
}

// CreateReview 创建评价
// @Summary 创建评价
// @Description 仅本人的已确认预订可评价，一个预订只能评价一次
// @Tags 评价
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body reviewService.CreateReviewRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Review}
// @Router /api/v1/reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req reviewService.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, review)
}

// GetRoomReviews 获取房间评价列表
// @Summary 获取房间评价列表
// @Tags 评价
// @Produce json
// @Param id path int true "房间ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]models.Review}
// @Router /api/v1/rooms/{id}/reviews [get]
func (h *Handler) GetRoomReviews(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	reviews, total, err := h.reviewService.GetRoomReviews(c.Request.Context(), roomID, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, reviews, total, p.Page, p.PageSize)
}

// GetMyReviews 获取我的评价列表
// @Summary 获取我的评价列表
// @Tags 评价
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]models.Review}
// @Router /api/v1/reviews/my-reviews [get]
func (h *Handler) GetMyReviews(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	reviews, total, err := h.reviewService.GetUserReviews(c.Request.Context(), userID, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, reviews, total, p.Page, p.PageSize)
}

// DeleteReview 删除评价
// @Summary 删除评价
// @Description 本人或管理员可删除
// @Tags 评价
// @Produce json
// @Security Bearer
// @Param id path int true "评价ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	userID, reviewID, ok := handler.RequireUserAndParseID(c, "评价")
	if !ok {
		return
	}

	isAdmin := middleware.GetRole(c) == string(models.RoleAdmin)
	handler.MustSucceed(c, h.reviewService.DeleteReview(c.Request.Context(), userID, isAdmin, reviewID), nil)
}

// RegisterRoutes 注册公开路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/rooms/:id/reviews", h.GetRoomReviews)
}

// RegisterProtectedRoutes 注册需要认证的路由
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/reviews")
	{
		reviews.POST("", h.CreateReview)
		reviews.GET("/my-reviews", h.GetMyReviews)
		reviews.DELETE("/:id", h.DeleteReview)
	}
}
