package model

import "time"

// 考勤状态
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
)

// AttendanceLog 考勤记录表 — 对应 attendance_logs（追加型日志）
// session_id 指向已发布课表 content 数组中某节课的 id
type AttendanceLog struct {
	AttendanceLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_log_id"`
	ClassName       string    `gorm:"type:varchar(100);not null;index"               json:"class_name"`
	SessionID       string    `gorm:"type:varchar(50);not null"                      json:"session_id"`
	StudentID       string    `gorm:"type:uuid;not null"                             json:"student_id"`
	LogDate         time.Time `gorm:"type:date;not null"                             json:"log_date"`
	Status          string    `gorm:"type:varchar(20);not null"                      json:"status"` // present | absent | late
	RecordedBy      *string   `gorm:"type:uuid"                                      json:"recorded_by,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (AttendanceLog) TableName() string { return "attendance_logs" }
