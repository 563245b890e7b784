package dto

// ── 班级模块 DTO ──

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	Name    string `json:"name"    binding:"required,min=1,max=100"`
	Section string `json:"section" binding:"omitempty,max=50"`
	RoomNo  string `json:"room_no" binding:"omitempty,max=50"`
	Level   string `json:"level"   binding:"omitempty,oneof=junior senior"`
}

// UpdateClassRequest 更新班级请求
type UpdateClassRequest struct {
	Section *string `json:"section" binding:"omitempty,max=50"`
	RoomNo  *string `json:"room_no" binding:"omitempty,max=50"`
	Level   *string `json:"level"   binding:"omitempty,oneof=junior senior"`
}

// ClassListRequest 班级列表查询参数
type ClassListRequest struct {
	Level string `form:"level" binding:"omitempty,oneof=junior senior"`
	PaginationRequest
}

// ClassResponse 班级响应
type ClassResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Section   string `json:"section,omitempty"`
	RoomNo    string `json:"room_no,omitempty"`
	Level     string `json:"level"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
