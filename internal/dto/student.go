package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	Name          string `json:"name"           binding:"required,min=1,max=100"`
	ClassName     string `json:"class_name"     binding:"required,min=1,max=100"`
	GuardianPhone string `json:"guardian_phone" binding:"omitempty,max=50"`
}

// UpdateStudentRequest 更新学生请求
type UpdateStudentRequest struct {
	Name          *string `json:"name"           binding:"omitempty,min=1,max=100"`
	ClassName     *string `json:"class_name"     binding:"omitempty,min=1,max=100"`
	GuardianPhone *string `json:"guardian_phone" binding:"omitempty,max=50"`
}

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	ClassName string `form:"class_name" binding:"omitempty,max=100"`
	PaginationRequest
}

// StudentResponse 学生响应
type StudentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ClassName     string `json:"class_name"`
	GuardianPhone string `json:"guardian_phone,omitempty"`
	CreatedAt     string `json:"created_at"`
}
