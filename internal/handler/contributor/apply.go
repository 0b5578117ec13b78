package contributor

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// MaxDocumentSize 单份申请材料的最大体积（5MB）
const MaxDocumentSize = 5 << 20

// allowedDocumentTypes 申请材料允许的MIME类型
var allowedDocumentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// Apply 提交Contributor申请
// @Summary      提交Contributor申请
// @Description  学生提交成为学院Contributor的申请，需上传学生证明和在读证明两份材料
// @Tags         Contributor申请
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        reason_for_applying  formData  string  true   "申请理由（≤1000字符）"
// @Param        experience           formData  string  false  "相关经历（≤1000字符）"
// @Param        id_card              formData  file    true   "学生证明（jpeg/png/pdf，≤5MB）"
// @Param        enrollment_proof     formData  file    true   "在读证明（jpeg/png/pdf，≤5MB）"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/contributor/apply [post]
func (h *Handler) Apply(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	idCard, err := h.formDocument(c, "id_card")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40006,
			Message: err.Error(),
		})
		return
	}
	defer idCard.close()

	proof, err := h.formDocument(c, "enrollment_proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40006,
			Message: err.Error(),
		})
		return
	}
	defer proof.close()

	ctx := c.Request.Context()
	app, err := h.contributorService.SubmitApplication(ctx, user, &service.SubmitApplicationParams{
		ReasonForApplying: c.PostForm("reason_for_applying"),
		Experience:        c.PostForm("experience"),
		IDCard:            idCard.doc,
		EnrollmentProof:   proof.doc,
	})
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch err {
		case service.ErrNotEligible:
			code = http.StatusForbidden
			errorCode = 40303
		case service.ErrReasonRequired, service.ErrReasonTooLong, service.ErrMissingDocuments:
			code = http.StatusBadRequest
			errorCode = 40007
		case service.ErrDuplicateApplication:
			// 返回已有申请的当前状态
			resp := ErrorResponse{
				Code:    40901,
				Message: err.Error(),
			}
			if app != nil {
				resp.Data = toApplicationInfo(app)
			}
			c.JSON(http.StatusConflict, resp)
			return
		case service.ErrCollegeSlotTaken:
			code = http.StatusConflict
			errorCode = 40902
		case service.ErrUploadFailed:
			code = http.StatusInternalServerError
			errorCode = 50002
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "申请已提交，等待审核",
		"data":    toApplicationInfo(app),
	})
}

// formFile 打开的表单文件，close负责释放句柄
type formFile struct {
	doc  *service.ApplicationDocument
	file multipart.File
}

func (f *formFile) close() {
	if f.file != nil {
		f.file.Close()
	}
}

// formDocument 从 multipart 表单中取出并校验一份申请材料
func (h *Handler) formDocument(c *gin.Context, field string) (*formFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, errors.New("缺少申请材料：" + field)
	}
	if header.Size > MaxDocumentSize {
		return nil, errors.New("申请材料超过5MB限制：" + field)
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedDocumentTypes[contentType] {
		return nil, errors.New("申请材料仅支持 jpeg/png/pdf 格式：" + field)
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.New("申请材料读取失败：" + field)
	}

	return &formFile{
		doc: &service.ApplicationDocument{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        file,
		},
		file: file,
	}, nil
}
