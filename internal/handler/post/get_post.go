package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/service"
)

// GetPost 查询帖子详情
// @Summary      查询帖子详情
// @Tags         动态
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.postService.GetPost(ctx, c.Param("id"))
	if err != nil {
		if err == service.ErrPostNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40403,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "查询帖子失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toPostInfo(p),
	})
}
