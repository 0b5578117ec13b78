package event

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// DeleteEvent 删除活动
// @Summary      删除活动
// @Description  组织者本人或管理员删除活动
// @Tags         活动
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "活动ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/events/{id} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.eventService.DeleteEvent(ctx, c.Param("id"), user); err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch err {
		case service.ErrEventNotFound:
			code = http.StatusNotFound
			errorCode = 40404
		case service.ErrNotEventOwner:
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
		"message": "活动已删除",
	})
}
