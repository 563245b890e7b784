package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"classboard/backend/internal/dto"
	"classboard/backend/internal/service"
	"classboard/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// BatchMark 批量记录考勤（同键重复提交覆盖旧状态）
// POST /api/v1/attendance
func (h *AttendanceHandler) BatchMark(c *gin.Context) {
	var req dto.BatchMarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.BatchMark(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// ListAttendance 查询某班某天考勤记录
// GET /api/v1/attendance?class_name=xxx&log_date=2026-08-31
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	logs, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": logs})
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoPublishedSchedule):
		response.BadRequest(c, 14001, "班级没有已发布的课表，无法记录考勤")
	case errors.Is(err, service.ErrSessionNotInSchedule):
		response.BadRequest(c, 14002, "该节课不在班级的已发布课表里")
	case errors.Is(err, service.ErrStudentNotFound):
		response.BadRequest(c, 14003, "学生不存在")
	default:
		response.InternalError(c)
	}
}
