package dto

// ── 教师模块 DTO ──

// CreateTeacherRequest 创建教师请求
type CreateTeacherRequest struct {
	Name     string   `json:"name"     binding:"required,min=1,max=100"`
	Email    string   `json:"email"    binding:"omitempty,email"`
	Phone    string   `json:"phone"    binding:"omitempty,max=50"`
	Subjects []string `json:"subjects" binding:"omitempty,dive,min=1,max=100"`
}

// UpdateTeacherRequest 更新教师请求
type UpdateTeacherRequest struct {
	Email    *string  `json:"email"    binding:"omitempty,email"`
	Phone    *string  `json:"phone"    binding:"omitempty,max=50"`
	Subjects []string `json:"subjects" binding:"omitempty,dive,min=1,max=100"`
	Status   *string  `json:"status"   binding:"omitempty,oneof=active inactive"`
}

// TeacherListRequest 教师列表查询参数
type TeacherListRequest struct {
	Subject string `form:"subject" binding:"omitempty,max=100"` // 按可授科目过滤
	Status  string `form:"status"  binding:"omitempty,oneof=active inactive"`
	PaginationRequest
}

// TeacherResponse 教师响应
type TeacherResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Subjects        []string `json:"subjects"`
	ProfilePhotoURL string   `json:"profile_photo_url,omitempty"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// UploadPhotoResponse 头像上传响应
type UploadPhotoResponse struct {
	ProfilePhotoURL string `json:"profile_photo_url"`
	SizeBytes       int    `json:"size_bytes"`
}
