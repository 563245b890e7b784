package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classboard/backend/internal/model"
)

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	// Upsert 按 (session_id, student_id, log_date) 幂等写入，重复提交覆盖状态
	Upsert(ctx context.Context, log *model.AttendanceLog) error
	// Exists 判断该节课该学生当天是否已有记录
	Exists(ctx context.Context, sessionID, studentID string, date time.Time) (bool, error)
	ListByClassAndDate(ctx context.Context, className string, date time.Time, sessionID string) ([]model.AttendanceLog, error)
}

// attendanceRepo AttendanceRepository 的 GORM 实现
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Upsert(ctx context.Context, log *model.AttendanceLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "session_id"}, {Name: "student_id"}, {Name: "log_date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"status", "recorded_by"}),
		}).
		Create(log).Error
}

func (r *attendanceRepo) Exists(ctx context.Context, sessionID, studentID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceLog{}).
		Where("session_id = ? AND student_id = ? AND log_date = ?",
			sessionID, studentID, date.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *attendanceRepo) ListByClassAndDate(ctx context.Context, className string, date time.Time, sessionID string) ([]model.AttendanceLog, error) {
	query := r.db.WithContext(ctx).
		Preload("Student").
		Where("class_name = ? AND log_date = ?", className, date.Format("2006-01-02"))
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	var logs []model.AttendanceLog
	err := query.Order("created_at ASC").Find(&logs).Error
	return logs, err
}
