// Package payment 提供支付相关的 HTTP Handler
package payment

import (
	"github.com/gin-gonic/gin"

	"github.com/liangyue/hotel-booking-backend/internal/common/handler"
	"github.com/liangyue/hotel-booking-backend/internal/common/response"
	paymentService "github.com/liangyue/hotel-booking-backend/internal/service/payment"
)

// Handler 支付处理器
type Handler struct {
	paymentService *paymentService.PaymentService
}

// NewHandler 创建支付处理器
func NewHandler(paymentSvc *paymentService.PaymentService) *Handler {
	return &Handler{
		paymentService: paymentSvc,
	}
}

// ConfirmPayment 确认支付结果
// @Summary 确认支付结果
// @Description 前端支付流程完成后回传结果，成功则预订变为已确认，失败可重新发起
// @Tags 支付
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body paymentService.ConfirmPaymentRequest true "请求参数"
// @Success 200 {object} response.Response{data=paymentService.ConfirmPaymentResult}
// @Router /api/v1/bookings/confirm-payment [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req paymentService.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.paymentService.ConfirmPayment(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, result)
}

// GetPaymentByBooking 获取预订的支付记录
// @Summary 获取预订的支付记录
// @Tags 支付
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/v1/bookings/{id}/payment [get]
func (h *Handler) GetPaymentByBooking(c *gin.Context) {
	userID, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPaymentByBooking(c.Request.Context(), userID, bookingID)
	handler.MustSucceed(c, err, payment)
}

// RegisterRoutes 注册需要认证的路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/bookings/confirm-payment", h.ConfirmPayment)
	r.GET("/bookings/:id/payment", h.GetPaymentByBooking)
}
