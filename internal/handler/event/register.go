package event

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// Register 报名活动
// @Summary      报名活动
// @Description  报名参加活动，容量和重复报名在一次原子操作中校验
// @Tags         活动
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "活动ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/events/{id}/register [post]
func (h *Handler) Register(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.eventService.RegisterForEvent(ctx, c.Param("id"), user); err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch err {
		case service.ErrEventNotFound:
			code = http.StatusNotFound
			errorCode = 40404
		case service.ErrEventStarted:
			code = http.StatusBadRequest
			errorCode = 40012
		case service.ErrAlreadyRegistered:
			code = http.StatusConflict
			errorCode = 40904
		case service.ErrEventFull:
			code = http.StatusConflict
			errorCode = 40905
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "报名成功",
	})
}

// CancelRegistration 取消报名
// @Summary      取消报名
// @Tags         活动
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "活动ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/events/{id}/register [delete]
func (h *Handler) CancelRegistration(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.eventService.CancelRegistration(ctx, c.Param("id"), user); err != nil {
		if err == service.ErrEventNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40404,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已取消报名",
	})
}
