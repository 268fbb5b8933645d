package admin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liangyue/hotel-booking-backend/internal/common/handler"
	"github.com/liangyue/hotel-booking-backend/internal/common/response"
	adminService "github.com/liangyue/hotel-booking-backend/internal/service/admin"
	hotelService "github.com/liangyue/hotel-booking-backend/internal/service/hotel"
	paymentService "github.com/liangyue/hotel-booking-backend/internal/service/payment"
)

// HotelHandler 酒店管理处理器
type HotelHandler struct {
	roomTypeService     *hotelService.RoomTypeService
	roomService         *hotelService.RoomService
	bookingAdminService *adminService.BookingAdminService
	paymentService      *paymentService.PaymentService
}

// NewHotelHandler 创建酒店管理处理器
func NewHotelHandler(
	roomTypeSvc *hotelService.RoomTypeService,
	roomSvc *hotelService.RoomService,
	bookingAdminSvc *adminService.BookingAdminService,
	paymentSvc *paymentService.PaymentService,
) *HotelHandler {
	return &HotelHandler{
		roomTypeService:     roomTypeSvc,
		roomService:         roomSvc,
		bookingAdminService: bookingAdminSvc,
		paymentService:      paymentSvc,
	}
}

// CreateRoomType 创建房型
// @Summary 创建房型
// @Tags 管理端-房型
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateRoomTypeRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.RoomType}
// @Router /api/v1/admin/room-types [post]
func (h *HotelHandler) CreateRoomType(c *gin.Context) {
	var req hotelService.CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	roomType, err := h.roomTypeService.CreateRoomType(c.Request.Context(), &req)
	handler.MustSucceed(c, err, roomType)
}

// UpdateRoomType 更新房型
// @Summary 更新房型
// @Tags 管理端-房型
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Param request body hotelService.UpdateRoomTypeRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.RoomType}
// @Router /api/v1/admin/room-types/{id} [put]
func (h *HotelHandler) UpdateRoomType(c *gin.Context) {
	roomTypeID, ok := handler.ParseID(c, "房型")
	if !ok {
		return
	}

	var req hotelService.UpdateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	roomType, err := h.roomTypeService.UpdateRoomType(c.Request.Context(), roomTypeID, &req)
	handler.MustSucceed(c, err, roomType)
}

// DeleteRoomType 删除房型
// @Summary 删除房型
// @Description 仍有房间引用的房型不能删除
// @Tags 管理端-房型
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/room-types/{id} [delete]
func (h *HotelHandler) DeleteRoomType(c *gin.Context) {
	roomTypeID, ok := handler.ParseID(c, "房型")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.roomTypeService.DeleteRoomType(c.Request.Context(), roomTypeID), nil)
}

// ListRoomTypes 获取房型列表（分页）
// @Summary 获取房型列表
// @Tags 管理端-房型
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]models.RoomType}
// @Router /api/v1/admin/room-types [get]
func (h *HotelHandler) ListRoomTypes(c *gin.Context) {
	p := handler.BindPagination(c)
	roomTypes, total, err := h.roomTypeService.ListRoomTypes(c.Request.Context(), p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, roomTypes, total, p.Page, p.PageSize)
}

// CreateRoom 创建房间
// @Summary 创建房间
// @Tags 管理端-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/admin/rooms [post]
func (h *HotelHandler) CreateRoom(c *gin.Context) {
	var req hotelService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), &req)
	handler.MustSucceed(c, err, room)
}

// UpdateRoom 更新房间
// @Summary 更新房间
// @Tags 管理端-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body hotelService.UpdateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/admin/rooms/{id} [put]
func (h *HotelHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req hotelService.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), roomID, &req)
	handler.MustSucceed(c, err, room)
}

// DeleteRoom 删除房间
// @Summary 删除房间
// @Description 有未完成预订的房间不能删除
// @Tags 管理端-房间
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/rooms/{id} [delete]
func (h *HotelHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.roomService.DeleteRoom(c.Request.Context(), roomID), nil)
}

// ListBookings 获取预订列表
// @Summary 获取全部预订列表
// @Tags 管理端-预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "预订状态"
// @Param user_id query int false "用户ID"
// @Param room_id query int false "房间ID"
// @Success 200 {object} response.Response{data=[]models.Booking}
// @Router /api/v1/admin/bookings [get]
func (h *HotelHandler) ListBookings(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if v := c.Query("user_id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "用户ID格式错误")
			return
		}
		filters["user_id"] = userID
	}
	if v := c.Query("room_id"); v != "" {
		roomID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "房间ID格式错误")
			return
		}
		filters["room_id"] = roomID
	}

	bookings, total, err := h.bookingAdminService.ListBookings(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, bookings, total, p.Page, p.PageSize)
}

// GetBooking 获取预订详情
// @Summary 获取预订详情
// @Tags 管理端-预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/admin/bookings/{id} [get]
func (h *HotelHandler) GetBooking(c *gin.Context) {
	bookingID, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingAdminService.GetBooking(c.Request.Context(), bookingID)
	handler.MustSucceed(c, err, booking)
}

// CancelBooking 取消任意用户的预订
// @Summary 取消预订
// @Tags 管理端-预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/admin/bookings/{id}/cancel [post]
func (h *HotelHandler) CancelBooking(c *gin.Context) {
	actorID, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingAdminService.CancelBooking(c.Request.Context(), actorID, bookingID)
	handler.MustSucceed(c, err, booking)
}

// GetRevenue 获取营收统计
// @Summary 获取日期区间内的营收统计
// @Tags 管理端-支付
// @Produce json
// @Security Bearer
// @Param start_date query string true "开始日期"
// @Param end_date query string true "结束日期"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/revenue [get]
func (h *HotelHandler) GetRevenue(c *gin.Context) {
	startDate, ok := handler.ParseDateField(c, c.Query("start_date"), "开始日期")
	if !ok {
		return
	}
	endDate, ok := handler.ParseDateField(c, c.Query("end_date"), "结束日期")
	if !ok {
		return
	}
	if endDate.Before(startDate) {
		response.BadRequest(c, "结束日期不能早于开始日期")
		return
	}

	revenue, err := h.paymentService.GetRevenue(c.Request.Context(), startDate, endDate)
	if handler.HandleError(c, err) {
		return
	}

	response.Success(c, gin.H{
		"start_date": startDate.Format(time.DateOnly),
		"end_date":   endDate.Format(time.DateOnly),
		"revenue":    revenue,
	})
}

// ListPayments 获取支付记录列表
// @Summary 获取支付记录列表
// @Tags 管理端-支付
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "支付状态"
// @Success 200 {object} response.Response{data=[]models.Payment}
// @Router /api/v1/admin/payments [get]
func (h *HotelHandler) ListPayments(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, payments, total, p.Page, p.PageSize)
}

// RegisterRoutes 注册管理端路由
func (h *HotelHandler) RegisterRoutes(r *gin.RouterGroup) {
	roomTypes := r.Group("/room-types")
	{
		roomTypes.GET("", h.ListRoomTypes)
		roomTypes.POST("", h.CreateRoomType)
		roomTypes.PUT("/:id", h.UpdateRoomType)
		roomTypes.DELETE("/:id", h.DeleteRoomType)
	}

	rooms := r.Group("/rooms")
	{
		rooms.POST("", h.CreateRoom)
		rooms.PUT("/:id", h.UpdateRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
	}

	bookings := r.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}

	r.GET("/payments", h.ListPayments)
	r.GET("/revenue", h.GetRevenue)
}
