package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"classboard/backend/internal/service"
	"classboard/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSchedule 导出某班已发布课表为 Excel
// GET /api/v1/export/schedule?class_name=xxx
func (h *ExportHandler) ExportSchedule(c *gin.Context) {
	className := c.Query("class_name")
	if className == "" {
		response.BadRequest(c, 10001, "class_name 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportSchedule(c.Request.Context(), className)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ICSFeed 某班已发布课表的 iCalendar 订阅
// GET /api/v1/export/schedule.ics?class_name=xxx
func (h *ExportHandler) ICSFeed(c *gin.Context) {
	className := c.Query("class_name")
	if className == "" {
		response.BadRequest(c, 10001, "class_name 不能为空")
		return
	}

	feed, err := h.exportSvc.ICSFeed(c.Request.Context(), className)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=schedule.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSchedule):
		response.NotFound(c, 16001, "该班级暂无已发布课表")
	case errors.Is(err, service.ErrExportEmpty):
		response.BadRequest(c, 16002, "课表内容为空，无可导出数据")
	default:
		response.InternalError(c)
	}
}
