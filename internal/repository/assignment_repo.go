package repository

import (
	"context"

	"gorm.io/gorm"

	"classboard/backend/internal/model"
)

// AssignmentRepository 用户-班级分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.UserClassAssignment) error
	ListByUser(ctx context.Context, userID string) ([]model.UserClassAssignment, error)
	ListByClass(ctx context.Context, className string) ([]model.UserClassAssignment, error)
	HasAssignment(ctx context.Context, userID, className string) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserAndClass(ctx context.Context, userID, className string) error
}

// assignmentRepo AssignmentRepository 的 GORM 实现
type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.UserClassAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) ListByUser(ctx context.Context, userID string) ([]model.UserClassAssignment, error) {
	var assignments []model.UserClassAssignment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("class_name ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByClass(ctx context.Context, className string) ([]model.UserClassAssignment, error) {
	var assignments []model.UserClassAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("class_name = ?", className).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) HasAssignment(ctx context.Context, userID, className string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserClassAssignment{}).
		Where("user_id = ? AND class_name = ?", userID, className).
		Count(&count).Error
	return count > 0, err
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		Delete(&model.UserClassAssignment{}).Error
}

func (r *assignmentRepo) DeleteByUserAndClass(ctx context.Context, userID, className string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND class_name = ?", userID, className).
		Delete(&model.UserClassAssignment{}).Error
}
