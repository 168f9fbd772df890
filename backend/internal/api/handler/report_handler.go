package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hospital-asset/backend/internal/service"
	"hospital-asset/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 运行报表 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// GetAssetReport 获取资产运行报表
// GET /api/v1/reports/assets
func (h *ReportHandler) GetAssetReport(c *gin.Context) {
	report, err := h.reportSvc.BuildAssetReport(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, report)
}

// ExportAssetReport 导出资产报表为 Excel
// GET /api/v1/reports/assets/export
func (h *ReportHandler) ExportAssetReport(c *gin.Context) {
	buf, filename, err := h.reportSvc.ExportAssetReport(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 17001, "生成报表文件失败")
		return
	}

	response.Attachment(c, filename, xlsxContentType, buf.Bytes())
}
