package handler

import (
	"github.com/gin-gonic/gin"

	"classboard/backend/internal/service"
	"classboard/backend/pkg/response"
)

// DashboardHandler 总览与只读投影 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Overview 控制台首页统计
// GET /api/v1/dashboard
func (h *DashboardHandler) Overview(c *gin.Context) {
	result, err := h.dashboardSvc.Overview(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ClassByDay 某班已发布课表的按天分组（周一至周六，空天返回空数组）
// GET /api/v1/dashboard/by-day?class_name=xxx
func (h *DashboardHandler) ClassByDay(c *gin.Context) {
	className := c.Query("class_name")
	if className == "" {
		response.BadRequest(c, 10001, "class_name 不能为空")
		return
	}

	result, err := h.dashboardSvc.ClassByDay(c.Request.Context(), className)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"class_name": className, "days": result})
}

// TeacherTasks 某教师在所有已发布课表里的课节
// GET /api/v1/dashboard/teacher-tasks?instructor=xxx
// 不带 instructor 时返回全量按教师分组
func (h *DashboardHandler) TeacherTasks(c *gin.Context) {
	instructor := c.Query("instructor")

	if instructor == "" {
		result, err := h.dashboardSvc.AllTeacherTasks(c.Request.Context())
		if err != nil {
			response.InternalError(c)
			return
		}
		response.OK(c, gin.H{"list": result})
		return
	}

	result, err := h.dashboardSvc.TeacherTasks(c.Request.Context(), instructor)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// LiveNow 当前时刻正在进行的课节
// GET /api/v1/dashboard/live
func (h *DashboardHandler) LiveNow(c *gin.Context) {
	result, err := h.dashboardSvc.LiveNow(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
