package post

import (
	"time"

	"campuslink/internal/model/post"
	httputil "campuslink/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// PostInfo 帖子信息 DTO
type PostInfo struct {
	ID          string `json:"id"`                  // 帖子ID
	AuthorID    string `json:"author_id"`           // 作者ID
	AuthorName  string `json:"author_name"`         // 作者姓名
	CollegeName string `json:"college_name"`        // 学院
	Content     string `json:"content"`             // 正文
	ImageURL    string `json:"image_url,omitempty"` // 配图URL
	IsGlobal    bool   `json:"is_global"`           // 是否全局展示
	CreatedAt   string `json:"created_at"`          // 发布时间
}

// toPostInfo 将帖子实体转换为 PostInfo DTO
func toPostInfo(p *post.Post) PostInfo {
	return PostInfo{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		AuthorName:  p.AuthorName,
		CollegeName: p.CollegeName,
		Content:     p.Content,
		ImageURL:    p.ImageURL,
		IsGlobal:    p.IsGlobal,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
