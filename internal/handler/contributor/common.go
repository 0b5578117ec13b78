package contributor

import (
	"time"

	"campuslink/internal/model/contributor"
	httputil "campuslink/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// ApplicationInfo 申请信息 DTO
type ApplicationInfo struct {
	ID                 string `json:"id"`                            // 申请ID
	UserID             string `json:"user_id"`                       // 申请人ID
	FullName           string `json:"full_name"`                     // 申请人姓名（提交时快照）
	Email              string `json:"email"`                         // 申请人邮箱
	CollegeName        string `json:"college_name"`                  // 学院
	StudentID          string `json:"student_id,omitempty"`          // 学号
	Branch             string `json:"branch,omitempty"`              // 专业
	YearOfStudy        int    `json:"year_of_study,omitempty"`       // 年级
	IDCardURL          string `json:"id_card_url"`                   // 学生证明URL
	EnrollmentProofURL string `json:"enrollment_proof_url"`          // 在读证明URL
	ReasonForApplying  string `json:"reason_for_applying"`           // 申请理由
	Experience         string `json:"experience,omitempty"`          // 相关经历
	Status             string `json:"status"`                        // 状态：pending/approved/rejected
	ReviewedBy         string `json:"reviewed_by,omitempty"`         // 审核管理员ID
	ReviewedAt         string `json:"reviewed_at,omitempty"`         // 审核时间
	AdminComments      string `json:"admin_comments,omitempty"`      // 管理员备注
	RejectionReason    string `json:"rejection_reason,omitempty"`    // 拒绝原因
	CreatedAt          string `json:"created_at"`                    // 提交时间
	UpdatedAt          string `json:"updated_at"`                    // 更新时间
}

// toApplicationInfo 将申请实体转换为 ApplicationInfo DTO
func toApplicationInfo(app *contributor.ContributorApplication) ApplicationInfo {
	info := ApplicationInfo{
		ID:                 app.ID,
		UserID:             app.UserID,
		FullName:           app.FullName,
		Email:              app.Email,
		CollegeName:        app.CollegeName,
		Branch:             app.Branch,
		YearOfStudy:        app.YearOfStudy,
		IDCardURL:          app.IDCardURL,
		EnrollmentProofURL: app.EnrollmentProofURL,
		ReasonForApplying:  app.ReasonForApplying,
		Experience:         app.Experience,
		Status:             string(app.Status),
		ReviewedBy:         app.ReviewedBy,
		AdminComments:      app.AdminComments,
		RejectionReason:    app.RejectionReason,
		CreatedAt:          app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          app.UpdatedAt.Format(time.RFC3339),
	}

	if app.StudentID != nil {
		info.StudentID = *app.StudentID
	}
	if app.ReviewedAt != nil {
		info.ReviewedAt = app.ReviewedAt.Format(time.RFC3339)
	}

	return info
}
