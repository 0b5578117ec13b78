package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authHandler "campuslink/internal/handler/auth"
	httputil "campuslink/internal/pkg/http"
	"campuslink/internal/pkg/rolestate"
	"campuslink/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// UserInfo 用户信息 DTO（复用auth handler的定义）
type UserInfo = authHandler.UserInfo

// toUserInfo 复用auth handler的转换
var toUserInfo = authHandler.ToUserInfo

// writeServiceError 将用户管理类Service错误映射为HTTP响应
func writeServiceError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	errorCode := 50001

	switch err {
	case service.ErrUserNotFound:
		code = http.StatusNotFound
		errorCode = 40401
	case service.ErrInvalidRole, service.ErrInvalidAccountStatus:
		code = http.StatusBadRequest
		errorCode = 40001
	case rolestate.ErrForbiddenTransition:
		code = http.StatusForbidden
		errorCode = 40304
	case rolestate.ErrInvalidTransition:
		code = http.StatusBadRequest
		errorCode = 40009
	case service.ErrCollegeSlotTaken:
		code = http.StatusConflict
		errorCode = 40902
	}

	c.JSON(code, ErrorResponse{
		Code:    errorCode,
		Message: err.Error(),
	})
}
