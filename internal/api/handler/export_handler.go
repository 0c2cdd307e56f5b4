package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"certhub/backend/internal/service"
	"certhub/backend/pkg/response"
)

// ExportHandler 数据导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Export 导出全部已提交证书（管理员）
// GET /api/v1/export?format=xlsx|csv
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")

	var (
		buf         *bytes.Buffer
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "xlsx":
		buf, filename, err = h.exportSvc.ExportXLSX(c.Request.Context())
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "csv":
		buf, filename, err = h.exportSvc.ExportCSV(c.Request.Context())
		contentType = "text/csv; charset=utf-8"
	default:
		response.BadRequest(c, 10001, "format 仅支持 xlsx 或 csv")
		return
	}
	if err != nil {
		if errors.Is(err, service.ErrExportNoData) {
			response.NotFound(c, 40003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	// 文件名含中文，按 RFC 5987 编码
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.QueryEscape(filename)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
