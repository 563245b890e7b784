package repository

import (
	"context"

	"gorm.io/gorm"

	"classboard/backend/internal/model"
	pkgerrors "classboard/backend/pkg/errors"
)

// TeacherRepository 教师数据访问接口
type TeacherRepository interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id string) (*model.Teacher, error)
	// GetByName 按名字查找（课节富化用的弱关联键）；重名时取最早创建的一条
	GetByName(ctx context.Context, name string) (*model.Teacher, error)
	// GetByNames 批量按名字查找，返回 name -> Teacher 映射
	GetByNames(ctx context.Context, names []string) (map[string]*model.Teacher, error)
	List(ctx context.Context, subject, status string, offset, limit int) ([]model.Teacher, int64, error)
	Update(ctx context.Context, teacher *model.Teacher) error
	UpdatePhotoURL(ctx context.Context, id, photoURL string) error
	Delete(ctx context.Context, id string, deletedBy string) error
	Count(ctx context.Context) (int64, error)
}

// teacherRepo TeacherRepository 的 GORM 实现
type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) Create(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepo) GetByID(ctx context.Context, id string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", id).
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepo) GetByName(ctx context.Context, name string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC").
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepo) GetByNames(ctx context.Context, names []string) (map[string]*model.Teacher, error) {
	if len(names) == 0 {
		return map[string]*model.Teacher{}, nil
	}
	var teachers []model.Teacher
	err := r.db.WithContext(ctx).
		Where("name IN ?", names).
		Order("created_at ASC").
		Find(&teachers).Error
	if err != nil {
		return nil, err
	}
	// 重名时保留最早创建的一条
	byName := make(map[string]*model.Teacher, len(teachers))
	for i := range teachers {
		if _, ok := byName[teachers[i].Name]; !ok {
			byName[teachers[i].Name] = &teachers[i]
		}
	}
	return byName, nil
}

func (r *teacherRepo) List(ctx context.Context, subject, status string, offset, limit int) ([]model.Teacher, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Teacher{})
	if subject != "" {
		query = query.Where("? = ANY(subjects)", subject)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teachers []model.Teacher
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&teachers).Error
	return teachers, total, err
}

func (r *teacherRepo) Update(ctx context.Context, teacher *model.Teacher) error {
	oldVersion := teacher.Version
	result := r.db.WithContext(ctx).
		Model(teacher).
		Where("teacher_id = ? AND version = ?", teacher.TeacherID, oldVersion).
		Updates(map[string]interface{}{
			"email":      teacher.Email,
			"phone":      teacher.Phone,
			"subjects":   teacher.Subjects,
			"status":     teacher.Status,
			"updated_by": teacher.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	teacher.Version = oldVersion + 1
	return nil
}

func (r *teacherRepo) UpdatePhotoURL(ctx context.Context, id, photoURL string) error {
	return r.db.WithContext(ctx).
		Model(&model.Teacher{}).
		Where("teacher_id = ?", id).
		Updates(map[string]interface{}{
			"profile_photo_url": photoURL,
			"version":           gorm.Expr("version + 1"),
		}).Error
}

func (r *teacherRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Teacher{}).
		Where("teacher_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *teacherRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Teacher{}).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/teacher_repo.go
