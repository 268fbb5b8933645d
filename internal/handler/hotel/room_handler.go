// Package hotel 提供房型、房间与预订相关的 HTTP Handler
package hotel

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/liangyue/hotel-booking-backend/internal/common/handler"
	"github.com/liangyue/hotel-booking-backend/internal/common/response"
	hotelService "github.com/liangyue/hotel-booking-backend/internal/service/hotel"
)

// RoomHandler 房型与房间处理器
type RoomHandler struct {
	roomService     *hotelService.RoomService
	roomTypeService *hotelService.RoomTypeService
}

// NewRoomHandler 创建房型与房间处理器
func NewRoomHandler(
	roomSvc *hotelService.RoomService,
	roomTypeSvc *hotelService.RoomTypeService,
) *RoomHandler {
	return &RoomHandler{
		roomService:     roomSvc,
		roomTypeService: roomTypeSvc,
	}
}

// ListRoomTypes 获取房型列表
// @Summary 获取房型列表
// @Tags 房型
// @Produce json
// @Success 200 {object} response.Response{data=[]models.RoomType}
// @Router /api/v1/room-types [get]
func (h *RoomHandler) ListRoomTypes(c *gin.Context) {
	roomTypes, err := h.roomTypeService.ListAllRoomTypes(c.Request.Context())
	handler.MustSucceed(c, err, roomTypes)
}

// GetRoomType 获取房型详情
// @Summary 获取房型详情
// @Tags 房型
// @Produce json
// @Param id path int true "房型ID"
// @Success 200 {object} response.Response{data=models.RoomType}
// @Router /api/v1/room-types/{id} [get]
func (h *RoomHandler) GetRoomType(c *gin.Context) {
	roomTypeID, ok := handler.ParseID(c, "房型")
	if !ok {
		return
	}

	roomType, err := h.roomTypeService.GetRoomType(c.Request.Context(), roomTypeID)
	handler.MustSucceed(c, err, roomType)
}

// ListRooms 获取房间列表
// @Summary 获取房间列表
// @Tags 房间
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "房间状态"
// @Param room_type_id query int false "房型ID"
// @Param floor query int false "楼层"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if roomTypeID := c.Query("room_type_id"); roomTypeID != "" {
		id, err := strconv.ParseInt(roomTypeID, 10, 64)
		if err != nil {
			response.BadRequest(c, "房型ID格式错误")
			return
		}
		filters["room_type_id"] = id
	}
	if floor := c.Query("floor"); floor != "" {
		f, err := strconv.Atoi(floor)
		if err != nil {
			response.BadRequest(c, "楼层格式错误")
			return
		}
		filters["floor"] = f
	}

	rooms, total, err := h.roomService.ListRooms(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, rooms, total, p.Page, p.PageSize)
}

// GetRoomDetail 获取房间详情
// @Summary 获取房间详情
// @Description 返回房间、所属房型、图片与评分聚合
// @Tags 房间
// @Produce json
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response{data=hotelService.RoomDetail}
// @Router /api/v1/rooms/{id} [get]
func (h *RoomHandler) GetRoomDetail(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), roomID)
	handler.MustSucceed(c, err, room)
}

// SearchAvailableRooms 查询可预订房间
// @Summary 查询日期区间内可预订的房间
// @Description 入住日期与退房日期为 YYYY-MM-DD，区间左闭右开
// @Tags 房间
// @Produce json
// @Param check_in_date query string true "入住日期"
// @Param check_out_date query string true "退房日期"
// @Param room_type_id query int false "房型ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/rooms/available [get]
func (h *RoomHandler) SearchAvailableRooms(c *gin.Context) {
	checkIn, ok := handler.ParseDateField(c, c.Query("check_in_date"), "入住日期")
	if !ok {
		return
	}
	checkOut, ok := handler.ParseDateField(c, c.Query("check_out_date"), "退房日期")
	if !ok {
		return
	}

	var roomTypeID int64
	if v := c.Query("room_type_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "房型ID格式错误")
			return
		}
		roomTypeID = id
	}

	p := handler.BindPagination(c)
	req := &hotelService.SearchAvailableRequest{
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		RoomTypeID:   roomTypeID,
		Offset:       p.GetOffset(),
		Limit:        p.GetLimit(),
	}

	rooms, total, err := h.roomService.SearchAvailable(c.Request.Context(), req)
	handler.MustSucceedPage(c, err, rooms, total, p.Page, p.PageSize)
}

// RegisterRoutes 注册公开路由
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup) {
	roomTypes := r.Group("/room-types")
	{
		roomTypes.GET("", h.ListRoomTypes)
		roomTypes.GET("/:id", h.GetRoomType)
	}

	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/available", h.SearchAvailableRooms)
		rooms.GET("/:id", h.GetRoomDetail)
	}
}
