package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"classboard/backend/internal/dto"
	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrSessionNotInSchedule = errors.New("该节课不在班级的已发布课表里")
	ErrNoPublishedSchedule  = errors.New("班级没有已发布的课表，无法记录考勤")
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// BatchMark 批量记录某班某节课某天的考勤；同键重复提交覆盖旧状态（幂等）
	BatchMark(ctx context.Context, req *dto.BatchMarkAttendanceRequest, callerID string) (*dto.BatchMarkAttendanceResponse, error)
	List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceLogResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger}
}

func (s *attendanceService) BatchMark(ctx context.Context, req *dto.BatchMarkAttendanceRequest, callerID string) (*dto.BatchMarkAttendanceResponse, error) {
	// session_id 必须出现在该班已发布课表的 content 里
	published, err := s.repo.Schedule.GetByClassAndStatus(ctx, req.ClassName, model.ScheduleStatusPublished)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPublishedSchedule
		}
		return nil, err
	}
	found := false
	for _, session := range published.Content {
		if session.ID == req.SessionID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrSessionNotInSchedule
	}

	logDate, err := time.Parse("2006-01-02", req.LogDate)
	if err != nil {
		return nil, err
	}

	recorded, updated := 0, 0
	for _, entry := range req.Entries {
		exists, err := s.repo.Attendance.Exists(ctx, req.SessionID, entry.StudentID, logDate)
		if err != nil {
			return nil, err
		}

		log := &model.AttendanceLog{
			ClassName:  req.ClassName,
			SessionID:  req.SessionID,
			StudentID:  entry.StudentID,
			LogDate:    logDate,
			Status:     entry.Status,
			RecordedBy: &callerID,
		}
		if err := s.repo.Attendance.Upsert(ctx, log); err != nil {
			s.logger.Error("记录考勤失败",
				zap.String("class", req.ClassName),
				zap.String("student", entry.StudentID),
				zap.Error(err))
			return nil, err
		}
		if exists {
			updated++
		} else {
			recorded++
		}
	}

	return &dto.BatchMarkAttendanceResponse{Recorded: recorded, Updated: updated}, nil
}

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceLogResponse, error) {
	logDate, err := time.Parse("2006-01-02", req.LogDate)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.Attendance.ListByClassAndDate(ctx, req.ClassName, logDate, req.SessionID)
	if err != nil {
		s.logger.Error("查询考勤失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceLogResponse, 0, len(logs))
	for i := range logs {
		item := dto.AttendanceLogResponse{
			ID:        logs[i].AttendanceLogID,
			ClassName: logs[i].ClassName,
			SessionID: logs[i].SessionID,
			StudentID: logs[i].StudentID,
			LogDate:   logs[i].LogDate.Format("2006-01-02"),
			Status:    logs[i].Status,
			CreatedAt: logs[i].CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if logs[i].Student != nil {
			item.StudentName = logs[i].Student.Name
		}
		result = append(result, item)
	}
	return result, nil
}
