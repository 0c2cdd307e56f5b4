package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"certhub/backend/internal/dto"
	"certhub/backend/internal/service"
	"certhub/backend/pkg/response"
	"certhub/backend/pkg/validate"
)

// CertificateHandler 证书模块 HTTP 处理器
type CertificateHandler struct {
	certSvc service.CertificateService
	fileSvc service.FileService
}

// NewCertificateHandler 创建 CertificateHandler
func NewCertificateHandler(certSvc service.CertificateService, fileSvc service.FileService) *CertificateHandler {
	return &CertificateHandler{certSvc: certSvc, fileSvc: fileSvc}
}

// Upload 上传证书文件
// POST /api/v1/certificates/upload
func (h *CertificateHandler) Upload(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "请选择要上传的文件")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 10001, "文件读取失败")
		return
	}
	defer src.Close()

	result, err := h.fileSvc.Upload(c.Request.Context(), userID, fileHeader.Filename, src, fileHeader.Size)
	if err != nil {
		switch {
		case errors.Is(err, validate.ErrUnsupportedFormat),
			errors.Is(err, validate.ErrFileTooLarge),
			errors.Is(err, service.ErrFileEmpty):
			response.BadRequest(c, 30001, err.Error())
		case errors.Is(err, service.ErrIncompleteWrite):
			response.BadRequest(c, 30002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Extract 识别证书图片并抽取字段
// POST /api/v1/certificates/extract
func (h *CertificateHandler) Extract(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.certSvc.Extract(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecognitionUnavailable):
			response.Error(c, http.StatusServiceUnavailable, 30003, err.Error())
		case errors.Is(err, service.ErrCertNotFoundOrForbidden):
			response.NotFound(c, 30004, "证书文件不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// SaveDraft 保存证书草稿
// POST /api/v1/certificates/draft
func (h *CertificateHandler) SaveDraft(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.certSvc.SaveDraft(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Submit 正式提交证书（新建或由草稿转换）
// POST /api/v1/certificates/submit
func (h *CertificateHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.certSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentIDRequired),
			errors.Is(err, service.ErrStudentNameRequired),
			errors.Is(err, service.ErrAdvisorRequired),
			errors.Is(err, service.ErrStudentIDNot13),
			errors.Is(err, service.ErrFilePathRequired):
			response.BadRequest(c, 30005, err.Error())
		case errors.Is(err, service.ErrDeadlinePassed):
			response.Forbidden(c, 30006, err.Error())
		case errors.Is(err, service.ErrCertNotFoundOrForbidden):
			response.NotFound(c, 30004, err.Error())
		case errors.Is(err, service.ErrCertImmutable):
			response.Conflict(c, 30007, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ListMine 当前用户的证书列表
// GET /api/v1/certificates
func (h *CertificateHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CertificateListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.certSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 修改草稿证书字段
// PUT /api/v1/certificates/:id
func (h *CertificateHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.certSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCertNotFoundOrForbidden):
			response.NotFound(c, 30004, err.Error())
		case errors.Is(err, service.ErrCertImmutable):
			response.Conflict(c, 30007, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Delete 删除草稿证书
// DELETE /api/v1/certificates/:id
func (h *CertificateHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.certSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrCertNotFoundOrForbidden):
			response.NotFound(c, 30004, err.Error())
		case errors.Is(err, service.ErrCertDeleteImmutable):
			response.Conflict(c, 30007, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
