package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// CreatePostRequest 发布帖子请求
type CreatePostRequest struct {
	Content  string `json:"content" binding:"required,max=5000"` // 正文（必填，≤5000字符）
	ImageURL string `json:"image_url,omitempty"`                 // 配图URL（可选）
	IsGlobal bool   `json:"is_global,omitempty"`                 // 是否展示在全局信息流
}

// CreatePost 发布帖子
// @Summary      发布帖子
// @Description  Contributor或管理员发布学院动态
// @Tags         动态
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreatePostRequest  true  "帖子内容"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	p, err := h.postService.CreatePost(ctx, user, &service.CreatePostParams{
		Content:  req.Content,
		ImageURL: req.ImageURL,
		IsGlobal: req.IsGlobal,
	})
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch err {
		case service.ErrNotPublisher:
			code = http.StatusForbidden
			errorCode = 40305
		case service.ErrContentRequired:
			code = http.StatusBadRequest
			errorCode = 40010
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "发布成功",
		"data":    toPostInfo(p),
	})
}
