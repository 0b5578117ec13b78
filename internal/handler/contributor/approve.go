package contributor

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// ApproveRequest 审批通过请求
type ApproveRequest struct {
	AdminComments string `json:"admin_comments,omitempty"` // 管理员备注（可选）
}

// Approve 审批通过申请
// @Summary      审批通过申请
// @Description  管理员审批通过Contributor申请，申请人被提升为该学院的Contributor
// @Tags         Contributor申请
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string          true   "申请ID"
// @Param        request  body  ApproveRequest  false  "审批备注"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/contributor/applications/{id}/approve [put]
func (h *Handler) Approve(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	var req ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    40001,
				Message: "Invalid request body",
				Detail:  err.Error(),
			})
			return
		}
	}

	ctx := c.Request.Context()
	app, err := h.contributorService.ApproveApplication(ctx, c.Param("id"), admin, req.AdminComments)
	if err != nil {
		var reviewed *service.AlreadyReviewedError
		if errors.As(err, &reviewed) {
			// 返回申请的当前权威状态
			resp := ErrorResponse{
				Code:    40903,
				Message: err.Error(),
			}
			if app != nil {
				resp.Data = toApplicationInfo(app)
			}
			c.JSON(http.StatusConflict, resp)
			return
		}

		code := http.StatusInternalServerError
		errorCode := 50001

		switch err {
		case service.ErrApplicationNotFound:
			code = http.StatusNotFound
			errorCode = 40402
		case service.ErrUserNotFound:
			code = http.StatusNotFound
			errorCode = 40401
		case service.ErrCollegeSlotTaken:
			code = http.StatusConflict
			errorCode = 40902
		case service.ErrConcurrentReview:
			code = http.StatusConflict
			errorCode = 40906
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "申请已通过",
		"data":    toApplicationInfo(app),
	})
}
