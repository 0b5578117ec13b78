package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/service"
)

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`       // 邮箱（必填）
	Code  string `json:"code" binding:"required,len=6"`        // 6位数字验证码（必填）
}

// VerifyEmail 验证邮箱OTP
// @Summary      验证邮箱
// @Description  用注册时发送的6位验证码完成邮箱验证，验证后账号可登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyEmailRequest  true  "验证请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/verify-email [post]
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.authService.VerifyEmail(ctx, req.Email, req.Code); err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch err {
		case service.ErrInvalidOTP:
			code = http.StatusBadRequest
			errorCode = 40004
		case service.ErrUserNotFound:
			code = http.StatusNotFound
			errorCode = 40401
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "邮箱验证成功",
	})
}

// ResendOTPRequest 重发验证码请求
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"` // 邮箱（必填）
}

// ResendOTP 重新发送邮箱验证码
// @Summary      重发验证码
// @Description  向未验证的邮箱重新发送6位验证码
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      ResendOTPRequest  true  "重发请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/resend-otp [post]
func (h *Handler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.authService.ResendOTP(ctx, req.Email); err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch {
		case err == service.ErrUserNotFound:
			code = http.StatusNotFound
			errorCode = 40401
		case err.Error() == "邮箱已验证，无需重复验证":
			code = http.StatusBadRequest
			errorCode = 40005
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "验证码已发送",
	})
}
