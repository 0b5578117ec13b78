package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/service"
)

// LoginRequest 用户登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // 邮箱（必填）
	Password string `json:"password" binding:"required"`    // 密码（必填）
}

// LoginResponseData 登录响应数据
type LoginResponseData struct {
	AccessToken  string   `json:"access_token"`  // Access Token
	RefreshToken string   `json:"refresh_token"` // Refresh Token
	ExpiresIn    int      `json:"expires_in"`    // 过期时间（秒）
	TokenType    string   `json:"token_type"`    // Token类型：Bearer
	User         UserInfo `json:"user"`          // 用户信息
}

// Login 用户登录
// @Summary      用户登录
// @Description  用户登录，返回Access Token和Refresh Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		// 根据错误类型设置错误码
		switch err {
		case service.ErrUserNotFound, service.ErrInvalidPassword:
			code = http.StatusUnauthorized
			errorCode = 40101
		case service.ErrEmailNotVerified:
			code = http.StatusForbidden
			errorCode = 40302
		case service.ErrUserSuspended:
			code = http.StatusForbidden
			errorCode = 40301
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	userInfo := ToUserInfo(resp.User)

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "登录成功",
		"data": LoginResponseData{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresIn:    resp.ExpiresIn,
			TokenType:    resp.TokenType,
			User:         userInfo,
		},
	})
}
