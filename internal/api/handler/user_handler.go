package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"classboard/backend/internal/dto"
	"classboard/backend/internal/service"
	"classboard/backend/pkg/response"
)

// UserHandler 用户管理模块 HTTP 处理器（管理员操作）
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers 获取控制台用户列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": users})
}

// CreateUser 创建控制台用户（首次登录需改密）
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, user)
}

// UpdateUser 更新用户
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// DeleteUser 删除用户
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignClass 给 staff 分配可编辑班级
// POST /api/v1/users/assignments
func (h *UserHandler) AssignClass(c *gin.Context) {
	var req dto.AssignClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.userSvc.AssignClass(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, assignment)
}

// UnassignClass 撤销班级分配
// DELETE /api/v1/users/:id/assignments?class_name=xxx
func (h *UserHandler) UnassignClass(c *gin.Context) {
	id := c.Param("id")
	className := c.Query("class_name")
	if id == "" || className == "" {
		response.BadRequest(c, 10001, "用户ID与 class_name 不能为空")
		return
	}

	if err := h.userSvc.UnassignClass(c.Request.Context(), id, className); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListAssignments 查询某班的分配列表
// GET /api/v1/users/assignments?class_name=xxx
func (h *UserHandler) ListAssignments(c *gin.Context) {
	className := c.Query("class_name")
	if className == "" {
		response.BadRequest(c, 10001, "class_name 不能为空")
		return
	}

	assignments, err := h.userSvc.ListAssignments(c.Request.Context(), className)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": assignments})
}

// handleUserError 统一处理用户模块业务错误
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 15001, "用户不存在")
	case errors.Is(err, service.ErrEmailExists):
		response.BadRequest(c, 15002, "邮箱已被注册")
	case errors.Is(err, service.ErrClassNotFound):
		response.BadRequest(c, 15003, "班级不存在")
	case errors.Is(err, service.ErrAssignmentExists):
		response.BadRequest(c, 15004, "该用户已分配到此班级")
	case errors.Is(err, service.ErrAssignmentMissing):
		response.NotFound(c, 15005, "分配记录不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/user_handler.go
