// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 支持 errors.Is 按错误码匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrExternalService = New(1007, "外部服务错误")
	ErrRateLimitExceed = New(1008, "请求过于频繁")
	ErrOperationFailed = New(1009, "操作失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrTokenRefreshFail = New(2003, "刷新令牌失败")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrAccountDisabled  = New(2005, "账号已禁用")
	ErrPasswordError    = New(2006, "邮箱或密码错误")
)

// 用户错误码 (3000-3999)
var (
	ErrUserNotFound = New(3000, "用户不存在")
	ErrEmailExists  = New(3001, "邮箱已被注册")
	ErrAlreadyAdmin = New(3002, "该用户已是管理员")
	ErrNotAdmin     = New(3003, "该用户不是管理员")
	ErrLastAdmin    = New(3004, "系统至少需要保留一名管理员")
	ErrSelfDemotion = New(3005, "不能撤销自己的管理员权限")
	ErrWeakPassword = New(3006, "密码强度不足")
	ErrEmailInvalid = New(3007, "无效的邮箱")
)

// 房型/房间错误码 (4000-4999)
var (
	ErrRoomTypeNotFound  = New(4000, "房型不存在")
	ErrRoomTypeInUse     = New(4001, "房型下仍有房间，无法删除")
	ErrRoomNotFound      = New(4002, "房间不存在")
	ErrRoomNumberExists  = New(4003, "房间号已存在")
	ErrRoomNotAvailable  = New(4004, "房间不可用")
	ErrRoomHasBookings   = New(4005, "房间存在未完结预订，无法删除")
	ErrRoomImageNotFound = New(4006, "房间图片不存在")
	ErrCapacityInvalid   = New(4007, "容纳人数超出允许范围")
	ErrPriceInvalid      = New(4008, "价格超出允许范围")
)

// 预订错误码 (5000-5999)
var (
	ErrBookingNotFound    = New(5000, "预订不存在或无权访问")
	ErrBookingConflict    = New(5001, "所选日期房间已被预订")
	ErrBookingStatusError = New(5002, "预订状态异常")
	ErrDateRangeInvalid   = New(5003, "退房日期必须晚于入住日期")
	ErrBookingCancelled   = New(5004, "预订已取消")
)

// 支付错误码 (6000-6999)
var (
	ErrPaymentNotFound         = New(6000, "支付记录不存在")
	ErrBookingAlreadyProcessed = New(6001, "预订已处理，无法重复支付")
	ErrPaymentMethodError      = New(6002, "支付方式错误")
	ErrPaymentFailed           = New(6003, "支付失败")
)

// 评价错误码 (7000-7999)
var (
	ErrReviewNotFound   = New(7000, "评价不存在")
	ErrAlreadyReviewed  = New(7001, "该预订已评价")
	ErrReviewNotAllowed = New(7002, "仅已确认的预订可以评价")
	ErrRatingInvalid    = New(7003, "评分必须在 1-5 之间")
	ErrCommentTooLong   = New(7004, "评价内容超出长度限制")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
