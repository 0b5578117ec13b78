package contributor

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// RejectRequest 拒绝申请请求
type RejectRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"` // 拒绝原因（必填）
	AdminComments   string `json:"admin_comments,omitempty"`            // 管理员备注（可选）
}

// Reject 拒绝申请
// @Summary      拒绝申请
// @Description  管理员拒绝Contributor申请，必须填写拒绝原因
// @Tags         Contributor申请
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string         true  "申请ID"
// @Param        request  body  RejectRequest  true  "拒绝原因"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/contributor/applications/{id}/reject [put]
func (h *Handler) Reject(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	app, err := h.contributorService.RejectApplication(ctx, c.Param("id"), admin, req.RejectionReason, req.AdminComments)
	if err != nil {
		var reviewed *service.AlreadyReviewedError
		if errors.As(err, &reviewed) {
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
		case service.ErrRejectReasonRequired:
			code = http.StatusBadRequest
			errorCode = 40008
		case service.ErrApplicationNotFound:
			code = http.StatusNotFound
			errorCode = 40402
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "申请已拒绝",
		"data":    toApplicationInfo(app),
	})
}
