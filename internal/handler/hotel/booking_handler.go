package hotel

import (
	"github.com/gin-gonic/gin"

	"github.com/liangyue/hotel-booking-backend/internal/common/handler"
	"github.com/liangyue/hotel-booking-backend/internal/common/response"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	hotelService "github.com/liangyue/hotel-booking-backend/internal/service/hotel"
)

// BookingHandler 预订处理器
type BookingHandler struct {
	bookingService *hotelService.BookingService
}

// NewBookingHandler 创建预订处理器
func NewBookingHandler(bookingSvc *hotelService.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingSvc,
	}
}

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	RoomID       int64  `json:"room_id" binding:"required"`
	CheckInDate  string `json:"check_in_date" binding:"required"`
	CheckOutDate string `json:"check_out_date" binding:"required"`
}

// CreateBooking 创建预订
// @Summary 创建预订
// @Description 日期为 YYYY-MM-DD，总价由服务端按房型单价与夜数计算
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateBookingRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	checkIn, ok := handler.ParseDateField(c, req.CheckInDate, "入住日期")
	if !ok {
		return
	}
	checkOut, ok := handler.ParseDateField(c, req.CheckOutDate, "退房日期")
	if !ok {
		return
	}

	serviceReq := &hotelService.CreateBookingRequest{
		RoomID:       req.RoomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), userID, serviceReq)
	handler.MustSucceed(c, err, booking)
}

// GetBookingDetail 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBookingDetail(c *gin.Context) {
	userID, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), userID, bookingID)
	handler.MustSucceed(c, err, booking)
}

// GetMyBookings 获取我的预订列表
// @Summary 获取我的预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "预订状态"
// @Success 200 {object} response.Response{data=[]models.Booking}
// @Router /api/v1/bookings/my-bookings [get]
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	status := models.BookingStatus(c.Query("status"))

	bookings, total, err := h.bookingService.GetUserBookings(c.Request.Context(), userID, p.GetOffset(), p.GetLimit(), status)
	handler.MustSucceedPage(c, err, bookings, total, p.Page, p.PageSize)
}

// CancelBooking 取消预订
// @Summary 取消预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), userID, bookingID)
	handler.MustSucceed(c, err, booking)
}

// RegisterRoutes 注册需要认证的路由
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/my-bookings", h.GetMyBookings)
		bookings.GET("/:id", h.GetBookingDetail)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}
