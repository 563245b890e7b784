package dto

// ── 用户管理 DTO ──

// CreateUserRequest 创建控制台用户请求（管理员操作）
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=admin staff viewer"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
	Role *string `json:"role" binding:"omitempty,oneof=admin staff viewer"`
}

// UserDetailResponse 用户详细信息（GET /auth/me）
type UserDetailResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Role               string   `json:"role"`
	MustChangePassword bool     `json:"must_change_password"`
	AssignedClasses    []string `json:"assigned_classes"`
	CreatedAt          string   `json:"created_at"`
}

// ── 班级分配 DTO ──

// AssignClassRequest 分配班级请求
type AssignClassRequest struct {
	UserID    string `json:"user_id"    binding:"required,uuid"`
	ClassName string `json:"class_name" binding:"required,min=1,max=100"`
	Role      string `json:"role"       binding:"omitempty,oneof=owner editor viewer"`
}

// AssignmentResponse 分配响应
type AssignmentResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	ClassName string `json:"class_name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}
