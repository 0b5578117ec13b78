package auth

import (
	"time"

	"campuslink/internal/model/auth"
	httputil "campuslink/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// UserInfo 用户信息（用于响应，所有API共用）
type UserInfo struct {
	ID            string `json:"id"`                       // 用户ID
	FullName      string `json:"full_name"`                // 姓名
	Email         string `json:"email"`                    // 邮箱
	Phone         string `json:"phone,omitempty"`          // 手机号
	StudentID     string `json:"student_id,omitempty"`     // 学号
	Role          string `json:"role"`                     // 角色：student/contributor/admin
	AccountStatus string `json:"account_status"`           // 账号状态
	CollegeName   string `json:"college_name"`             // 学院
	Branch        string `json:"branch,omitempty"`         // 专业
	YearOfStudy   int    `json:"year_of_study,omitempty"`  // 年级
	EmailVerified bool   `json:"email_verified"`           // 邮箱是否已验证
	LastLoginAt   string `json:"last_login_at,omitempty"`  // 最后登录时间
	CreatedAt     string `json:"created_at,omitempty"`     // 创建时间
}

// ToUserInfo 将User实体转换为UserInfo（admin handler也复用）
func ToUserInfo(user *auth.User) UserInfo {
	info := UserInfo{
		ID:            user.ID,
		FullName:      user.FullName,
		Email:         user.Email,
		Phone:         user.Phone,
		Role:          string(user.Role),
		AccountStatus: string(user.AccountStatus),
		CollegeName:   user.CollegeName,
		Branch:        user.Branch,
		YearOfStudy:   user.YearOfStudy,
		EmailVerified: user.EmailVerified,
	}

	if user.StudentID != nil {
		info.StudentID = *user.StudentID
	}
	if user.LastLoginAt != nil {
		info.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	info.CreatedAt = user.CreatedAt.Format(time.RFC3339)

	return info
}
