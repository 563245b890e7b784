package dto

// ── 考勤模块 DTO ──

// MarkAttendanceRequest 单个学生考勤项
type MarkAttendanceRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	Status    string `json:"status"     binding:"required,oneof=present absent late"`
}

// BatchMarkAttendanceRequest 批量记录考勤请求（某班某节课某天）
type BatchMarkAttendanceRequest struct {
	ClassName string                  `json:"class_name" binding:"required,min=1,max=100"`
	SessionID string                  `json:"session_id" binding:"required,max=50"`
	LogDate   string                  `json:"log_date"   binding:"required,datetime=2006-01-02"`
	Entries   []MarkAttendanceRequest `json:"entries"    binding:"required,min=1,dive"`
}

// AttendanceListRequest 考勤查询参数
type AttendanceListRequest struct {
	ClassName string `form:"class_name" binding:"required,max=100"`
	LogDate   string `form:"log_date"   binding:"required,datetime=2006-01-02"`
	SessionID string `form:"session_id" binding:"omitempty,max=50"`
}

// AttendanceLogResponse 考勤记录响应
type AttendanceLogResponse struct {
	ID          string `json:"id"`
	ClassName   string `json:"class_name"`
	SessionID   string `json:"session_id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	LogDate     string `json:"log_date"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// BatchMarkAttendanceResponse 批量记录结果
type BatchMarkAttendanceResponse struct {
	Recorded int `json:"recorded"`
	Updated  int `json:"updated"`
}
