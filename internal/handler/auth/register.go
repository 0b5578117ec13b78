package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/service"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	FullName    string `json:"full_name" binding:"required,min=2,max=100"`  // 姓名（必填，2-100字符）
	Email       string `json:"email" binding:"required,email"`              // 邮箱（必填，需符合邮箱格式）
	Phone       string `json:"phone" binding:"required,min=8,max=20"`       // 手机号（必填）
	StudentID   string `json:"student_id,omitempty"`                        // 学号（可选）
	Password    string `json:"password" binding:"required,min=6"`           // 密码（必填，至少6位）
	CollegeName string `json:"college_name" binding:"required,max=200"`     // 学院名称（必填）
	Branch      string `json:"branch,omitempty"`                            // 专业（可选）
	YearOfStudy int    `json:"year_of_study,omitempty" binding:"omitempty,min=1,max=10"` // 年级（可选）
}

// RegisterResponseData 注册响应数据
type RegisterResponseData struct {
	UserID        string `json:"user_id"`        // 用户ID
	Email         string `json:"email"`          // 邮箱
	AccountStatus string `json:"account_status"` // 状态：pending_email_verification
}

// Register 用户注册
// @Summary      用户注册
// @Description  注册新用户，注册后需验证邮箱OTP才能登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	resp, err := h.authService.Register(ctx, &service.RegisterParams{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		StudentID:   req.StudentID,
		Password:    req.Password,
		CollegeName: req.CollegeName,
		Branch:      req.Branch,
		YearOfStudy: req.YearOfStudy,
	})
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		// 根据错误类型设置错误码
		switch err {
		case service.ErrEmailAlreadyExists:
			code = http.StatusBadRequest
			errorCode = 40002
		case service.ErrPhoneAlreadyExists:
			code = http.StatusBadRequest
			errorCode = 40003
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "注册成功，请查收邮箱验证码",
		"data": RegisterResponseData{
			UserID:        resp.UserID,
			Email:         resp.Email,
			AccountStatus: resp.AccountStatus,
		},
	})
}
