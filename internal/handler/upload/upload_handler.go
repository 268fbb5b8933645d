// Package upload 提供房间图片上传相关的 HTTP Handler
package upload

import (
	"github.com/gin-gonic/gin"

	"github.com/liangyue/hotel-booking-backend/internal/common/handler"
	"github.com/liangyue/hotel-booking-backend/internal/common/response"
	uploadService "github.com/liangyue/hotel-booking-backend/internal/service/upload"
)

// Handler 上传处理器
type Handler struct {
	uploadService *uploadService.UploadService
}

// NewHandler 创建上传处理器
func NewHandler(uploadSvc *uploadService.UploadService) *Handler {
	return &Handler{
		uploadService: uploadSvc,
	}
}

// UploadRoomImage 上传房间图片
// @Summary 上传房间图片
// @Description 支持 jpg/jpeg/png/gif/webp 格式，最大 5MB
// @Tags 管理端-图片
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param file formData file true "图片文件"
// @Param is_main formData bool false "是否设为主图"
// @Success 200 {object} response.Response{data=models.RoomImage}
// @Router /api/v1/admin/rooms/{id}/images [post]
func (h *Handler) UploadRoomImage(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请选择要上传的文件")
		return
	}
	isMain := c.PostForm("is_main") == "true"

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "读取文件失败")
		return
	}
	defer src.Close()

	image, err := h.uploadService.UploadRoomImage(c.Request.Context(), roomID, file.Filename, file.Size, src, isMain)
	handler.MustSucceed(c, err, image)
}

// ListRoomImages 获取房间图片列表
// @Summary 获取房间图片列表
// @Tags 管理端-图片
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response{data=[]models.RoomImage}
// @Router /api/v1/admin/rooms/{id}/images [get]
func (h *Handler) ListRoomImages(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	images, err := h.uploadService.ListRoomImages(c.Request.Context(), roomID)
	handler.MustSucceed(c, err, images)
}

// DeleteRoomImage 删除房间图片
// @Summary 删除房间图片
// @Tags 管理端-图片
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param image_id path int true "图片ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/rooms/{id}/images/{image_id} [delete]
func (h *Handler) DeleteRoomImage(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}
	imageID, ok := handler.ParseParamID(c, "image_id", "图片")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.uploadService.DeleteRoomImage(c.Request.Context(), roomID, imageID), nil)
}

// SetMainImage 设置房间主图
// @Summary 设置房间主图
// @Tags 管理端-图片
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param image_id path int true "图片ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/rooms/{id}/images/{image_id}/main [post]
func (h *Handler) SetMainImage(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}
	imageID, ok := handler.ParseParamID(c, "image_id", "图片")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.uploadService.SetMainImage(c.Request.Context(), roomID, imageID), nil)
}

// RegisterRoutes 注册管理端路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	images := r.Group("/rooms/:id/images")
	{
		images.GET("", h.ListRoomImages)
		images.POST("", h.UploadRoomImage)
		images.DELETE("/:image_id", h.DeleteRoomImage)
		images.POST("/:image_id/main", h.SetMainImage)
	}
}
