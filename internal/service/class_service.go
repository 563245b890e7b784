package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"classboard/backend/internal/dto"
	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
	pkgerrors "classboard/backend/pkg/errors"
)

// ── 班级模块业务错误 ──

var (
	ErrClassNotFound    = errors.New("班级不存在")
	ErrClassNameExists  = errors.New("班级名称已存在")
	ErrClassHasSchedule = errors.New("班级存在课表，无法删除")
)

// ClassService 班级业务接口
type ClassService interface {
	Create(ctx context.Context, req *dto.CreateClassRequest, callerID string) (*dto.ClassResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassResponse, error)
	GetByName(ctx context.Context, name string) (*dto.ClassResponse, error)
	List(ctx context.Context, req *dto.ClassListRequest) ([]dto.ClassResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassRequest, callerID string) (*dto.ClassResponse, error)
	Delete(ctx context.Context, id, callerID string) error
}

type classService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassService 创建 ClassService 实例
func NewClassService(repo *repository.Repository, logger *zap.Logger) ClassService {
	return &classService{repo: repo, logger: logger}
}

func (s *classService) Create(ctx context.Context, req *dto.CreateClassRequest, callerID string) (*dto.ClassResponse, error) {
	existing, err := s.repo.Class.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrClassNameExists
	}

	level := req.Level
	if level == "" {
		level = model.ClassLevelJunior
	}

	class := &model.Class{
		Name:    req.Name,
		Section: req.Section,
		RoomNo:  req.RoomNo,
		Level:   level,
	}
	class.CreatedBy = &callerID
	class.UpdatedBy = &callerID

	if err := s.repo.Class.Create(ctx, class); err != nil {
		s.logger.Error("创建班级失败", zap.Error(err))
		return nil, err
	}
	return toClassResponse(class), nil
}

func (s *classService) GetByID(ctx context.Context, id string) (*dto.ClassResponse, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return toClassResponse(class), nil
}

func (s *classService) GetByName(ctx context.Context, name string) (*dto.ClassResponse, error) {
	class, err := s.repo.Class.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return toClassResponse(class), nil
}

func (s *classService) List(ctx context.Context, req *dto.ClassListRequest) ([]dto.ClassResponse, int64, error) {
	classes, total, err := s.repo.Class.List(ctx, req.Level, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		result = append(result, *toClassResponse(&classes[i]))
	}
	return result, total, nil
}

// Update 更新班级。注意：班级名是其他实体的关联键，不支持重命名，
// 避免历史课表与学生记录静默脱钩。
func (s *classService) Update(ctx context.Context, id string, req *dto.UpdateClassRequest, callerID string) (*dto.ClassResponse, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	if req.Section != nil {
		class.Section = *req.Section
	}
	if req.RoomNo != nil {
		class.RoomNo = *req.RoomNo
	}
	if req.Level != nil {
		class.Level = *req.Level
	}
	class.UpdatedBy = &callerID

	if err := s.repo.Class.Update(ctx, class); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toClassResponse(class), nil
}

func (s *classService) Delete(ctx context.Context, id, callerID string) error {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}

	// 仍有课表的班级不允许删除
	_, total, err := s.repo.Schedule.List(ctx, class.Name, "", 0, 1)
	if err != nil {
		return err
	}
	if total > 0 {
		return ErrClassHasSchedule
	}

	return s.repo.Class.Delete(ctx, id, callerID)
}

func toClassResponse(class *model.Class) *dto.ClassResponse {
	return &dto.ClassResponse{
		ID:        class.ClassID,
		Name:      class.Name,
		Section:   class.Section,
		RoomNo:    class.RoomNo,
		Level:     class.Level,
		CreatedAt: class.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: class.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
