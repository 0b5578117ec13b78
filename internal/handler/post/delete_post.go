package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// DeletePost 删除帖子
// @Summary      删除帖子
// @Description  作者本人或管理员删除帖子
// @Tags         动态
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.postService.DeletePost(ctx, c.Param("id"), user); err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch err {
		case service.ErrPostNotFound:
			code = http.StatusNotFound
			errorCode = 40403
		case service.ErrNotPostOwner:
			code = http.StatusForbidden
			errorCode = 40306
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "帖子已删除",
	})
}
