package dto

import "classboard/backend/internal/model"

// ── 课表模块 DTO ──

// SessionInput 编辑器提交的单节课
// instructor_photo_url / instructor_status 在保存时按教师名重新富化；
// 名字未命中时沿用客户端携带的旧值（历史快照），不报错
type SessionInput struct {
	ID                 string `json:"id"                   binding:"required,max=50"`
	Title              string `json:"title"                binding:"required,min=1,max=200"`
	Instructor         string `json:"instructor"           binding:"omitempty,max=100"`
	InstructorPhotoURL string `json:"instructor_photo_url" binding:"omitempty,max=500"`
	InstructorStatus   string `json:"instructor_status"    binding:"omitempty,oneof=active inactive"`
	Day                string `json:"day"                  binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime          string `json:"start_time"           binding:"required,len=5"`
	EndTime            string `json:"end_time"             binding:"required,len=5"`
	Room               string `json:"room"                 binding:"omitempty,max=100"`
	Color              string `json:"color"                binding:"omitempty,max=30"`
	ShowProfiles       *bool  `json:"show_profiles"`
}

// SaveScheduleRequest 保存草稿请求（整表替换）
// version 用于乐观锁：与服务端当前版本不一致时返回 409
type SaveScheduleRequest struct {
	ClassName string         `json:"class_name" binding:"required,min=1,max=100"`
	Sessions  []SessionInput `json:"sessions"   binding:"required,dive"`
	Version   *int           `json:"version"    binding:"omitempty,min=1"`
}

// PublishScheduleRequest 发布课表请求
type PublishScheduleRequest struct {
	ClassName string `json:"class_name" binding:"required,min=1,max=100"`
}

// ScheduleResponse 课表响应
type ScheduleResponse struct {
	ID           string               `json:"id"`
	ScheduleCode string               `json:"schedule_code"`
	ClassName    string               `json:"class_name"`
	Status       string               `json:"status"`
	Sessions     []model.ClassSession `json:"sessions"`
	PublishedAt  *string              `json:"published_at,omitempty"`
	Version      int                  `json:"version"`
	CreatedAt    string               `json:"created_at"`
	UpdatedAt    string               `json:"updated_at"`
}

// ScheduleBrief 课表简要信息（列表用，不含 content）
type ScheduleBrief struct {
	ID           string  `json:"id"`
	ScheduleCode string  `json:"schedule_code"`
	ClassName    string  `json:"class_name"`
	Status       string  `json:"status"`
	SessionCount int     `json:"session_count"`
	PublishedAt  *string `json:"published_at,omitempty"`
	UpdatedAt    string  `json:"updated_at"`
}

// ScheduleListRequest 课表列表查询参数
type ScheduleListRequest struct {
	ClassName string `form:"class_name" binding:"omitempty,max=100"`
	Status    string `form:"status"     binding:"omitempty,oneof=draft published archived"`
	PaginationRequest
}

// ReconcileResponse 过期发布归档结果
type ReconcileResponse struct {
	Archived       int64  `json:"archived"` // 本次归档的已发布课表数
	StaleAfterDays int    `json:"stale_after_days"`
	CheckedAt      string `json:"checked_at"`
}

// MirrorRequest 写入草稿镜像请求
type MirrorRequest struct {
	ClassName string         `json:"class_name" binding:"required,min=1,max=100"`
	Sessions  []SessionInput `json:"sessions"   binding:"required,dive"`
}

// MirrorResponse 草稿镜像响应
type MirrorResponse struct {
	ClassName string               `json:"class_name"`
	Sessions  []model.ClassSession `json:"sessions"`
	SavedAt   string               `json:"saved_at"`
}

// ── 只读投影 ──

// DaySessionsResponse 按天分组投影
type DaySessionsResponse struct {
	Day      string               `json:"day"`
	Sessions []model.ClassSession `json:"sessions"`
}

// TeacherSessionsResponse 按教师分组投影（跨班级）
type TeacherSessionsResponse struct {
	Instructor string            `json:"instructor"`
	Sessions   []SessionWithClass `json:"sessions"`
}

// SessionWithClass 带班级名的课节（聚合投影用）
type SessionWithClass struct {
	ClassName string `json:"class_name"`
	model.ClassSession
}

// LiveSessionsResponse 当前进行中的课节
type LiveSessionsResponse struct {
	Day      string             `json:"day"`
	Now      string             `json:"now"` // HH:MM
	Sessions []SessionWithClass `json:"sessions"`
}

// [自证通过] internal/dto/schedule.go
