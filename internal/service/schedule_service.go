package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"classboard/backend/config"
	"classboard/backend/internal/dto"
	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
	pkgerrors "classboard/backend/pkg/errors"
	"classboard/backend/pkg/redis"
)

// ── 课表模块业务错误 ──

var (
	ErrScheduleNotFound   = errors.New("课表不存在")
	ErrScheduleConflict   = errors.New("课表已被其他人修改，请刷新后重试")
	ErrDuplicateSessionID = errors.New("会话 ID 在同一课表内重复")
	ErrNothingToPublish   = errors.New("该班级没有可发布的草稿")
	ErrNothingToPause     = errors.New("该班级没有已发布的课表")
)

// 会话教室兜底值：既无显式教室也无班级默认教室时使用
const roomFallback = "N/A"

// ScheduleService 周课表业务接口
type ScheduleService interface {
	// LoadDraft 读取某班最近更新的草稿内容；无草稿或后端出错时返回空数组（fail-soft）
	LoadDraft(ctx context.Context, className string) ([]model.ClassSession, error)
	// Save 富化并整表替换某班的课表内容（详见 enrichSessions）
	Save(ctx context.Context, req *dto.SaveScheduleRequest, callerID string) (*dto.ScheduleResponse, error)
	Publish(ctx context.Context, className, callerID string) (*dto.ScheduleResponse, error)
	Pause(ctx context.Context, className, callerID string) (*dto.ScheduleResponse, error)
	Stop(ctx context.Context, className, callerID string) (*dto.ScheduleResponse, error)
	Get(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	List(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleBrief, int64, error)
	Delete(ctx context.Context, id, callerID string) error
	// Reconcile 将超过保鲜期未更新的已发布课表批量归档；幂等，可由列表读取或外部调度触发
	Reconcile(ctx context.Context) (*dto.ReconcileResponse, error)
	// PutMirror / GetMirror / ClearMirror 维护崩溃恢复用的草稿镜像；仅建议性，加载流程不会自动回读
	PutMirror(ctx context.Context, req *dto.MirrorRequest) error
	GetMirror(ctx context.Context, className string) (*dto.MirrorResponse, error)
	ClearMirror(ctx context.Context, className string) error
}

type scheduleService struct {
	cfg    *config.ScheduleConfig
	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil：镜像功能退化为 no-op
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.ScheduleConfig, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		cfg:    cfg,
		repo:   repo,
		rdb:    rdb,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── LoadDraft ──────────────────────

func (s *scheduleService) LoadDraft(ctx context.Context, className string) ([]model.ClassSession, error) {
	schedule, err := s.repo.Schedule.GetByClassAndStatus(ctx, className, model.ScheduleStatusDraft)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// 读路径 fail-soft：编辑器拿到空表而不是报错页
			s.logger.Warn("读取草稿失败，返回空内容",
				zap.String("class", className), zap.Error(err))
		}
		return []model.ClassSession{}, nil
	}
	if schedule.Content == nil {
		return []model.ClassSession{}, nil
	}
	return schedule.Content, nil
}

// ────────────────────── Save ──────────────────────

func (s *scheduleService) Save(ctx context.Context, req *dto.SaveScheduleRequest, callerID string) (*dto.ScheduleResponse, error) {
	content, err := s.enrichSessions(ctx, req.ClassName, req.Sessions)
	if err != nil {
		return nil, err
	}

	// 定位更新目标：优先已发布行（线上直接改），否则最近的非归档行
	target, err := s.findSaveTarget(ctx, req.ClassName)
	if err != nil {
		return nil, err
	}

	if target == nil {
		schedule := &model.WeeklySchedule{
			ScheduleCode: newScheduleCode(s.now()),
			ClassName:    req.ClassName,
			Status:       model.ScheduleStatusDraft,
			Content:      content,
		}
		schedule.CreatedBy = &callerID
		schedule.UpdatedBy = &callerID
		if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
			s.logger.Error("创建课表失败", zap.String("class", req.ClassName), zap.Error(err))
			return nil, err
		}
		s.clearMirrorQuietly(ctx, req.ClassName)
		return toScheduleResponse(schedule), nil
	}

	// 客户端带版本号时做显式冲突检查，未带则沿用行当前版本（last-write-wins 的兼容路径）
	if req.Version != nil && *req.Version != target.Version {
		return nil, ErrScheduleConflict
	}

	target.Content = content
	target.UpdatedBy = &callerID
	if err := s.repo.Schedule.Update(ctx, target); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrScheduleConflict
		}
		s.logger.Error("保存课表失败", zap.String("class", req.ClassName), zap.Error(err))
		return nil, err
	}

	s.clearMirrorQuietly(ctx, req.ClassName)
	return toScheduleResponse(target), nil
}

// enrichSessions 保存前的富化管线：
//
//	a) 校验会话 ID 在数组内唯一
//	b) 按教师名批量解析 photo/status 快照（未命中沿用提交值，状态缺省 active）
//	c) 教室兜底：显式教室 > 班级默认教室 > "N/A"
//	d) show_profiles 缺省归一化为显式 true
func (s *scheduleService) enrichSessions(ctx context.Context, className string, inputs []dto.SessionInput) (model.SessionList, error) {
	seen := make(map[string]struct{}, len(inputs))
	names := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if _, dup := seen[input.ID]; dup {
			return nil, ErrDuplicateSessionID
		}
		seen[input.ID] = struct{}{}
		if input.Instructor != "" {
			names = append(names, input.Instructor)
		}
	}

	teachers, err := s.repo.Teacher.GetByNames(ctx, names)
	if err != nil {
		s.logger.Error("批量查询教师失败", zap.Error(err))
		return nil, err
	}

	defaultRoom := ""
	if class, err := s.repo.Class.GetByName(ctx, className); err == nil {
		defaultRoom = class.RoomNo
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班级失败", zap.String("class", className), zap.Error(err))
		return nil, err
	}

	content := make(model.SessionList, 0, len(inputs))
	for _, input := range inputs {
		session := model.ClassSession{
			ID:                 input.ID,
			Title:              input.Title,
			Instructor:         input.Instructor,
			InstructorPhotoURL: input.InstructorPhotoURL,
			InstructorStatus:   input.InstructorStatus,
			Day:                input.Day,
			StartTime:          input.StartTime,
			EndTime:            input.EndTime,
			Color:              input.Color,
		}

		if teacher, ok := teachers[input.Instructor]; ok {
			session.InstructorPhotoURL = teacher.ProfilePhotoURL
			session.InstructorStatus = teacher.Status
		} else if session.InstructorStatus == "" {
			session.InstructorStatus = model.TeacherStatusActive
		}

		switch {
		case strings.TrimSpace(input.Room) != "":
			session.Room = input.Room
		case defaultRoom != "":
			session.Room = defaultRoom
		default:
			session.Room = roomFallback
		}

		show := true
		if input.ShowProfiles != nil {
			show = *input.ShowProfiles
		}
		session.ShowProfiles = &show

		content = append(content, session)
	}
	return content, nil
}

// findSaveTarget 返回保存要覆盖的行：已发布 > 最近草稿 > nil（需新建）
func (s *scheduleService) findSaveTarget(ctx context.Context, className string) (*model.WeeklySchedule, error) {
	published, err := s.repo.Schedule.GetByClassAndStatus(ctx, className, model.ScheduleStatusPublished)
	if err == nil {
		return published, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	draft, err := s.repo.Schedule.GetByClassAndStatus(ctx, className, model.ScheduleStatusDraft)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}

// ────────────────────── 状态流转 ──────────────────────

func (s *scheduleService) Publish(ctx context.Context, className, callerID string) (*dto.ScheduleResponse, error) {
	draft, err := s.repo.Schedule.GetByClassAndStatus(ctx, className, model.ScheduleStatusDraft)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNothingToPublish
		}
		s.logger.Error("查询草稿失败", zap.String("class", className), zap.Error(err))
		return nil, err
	}

	now := s.now()
	draft.Status = model.ScheduleStatusPublished
	draft.PublishedAt = &now
	draft.UpdatedBy = &callerID
	if err := s.repo.Schedule.Update(ctx, draft); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrScheduleConflict
		}
		return nil, err
	}

	// 发布唯一性：同班其余已发布行全部归档
	archived, err := s.repo.Schedule.ArchiveOthers(ctx, className, draft.ScheduleID, &callerID)
	if err != nil {
		s.logger.Error("归档旧发布失败", zap.String("class", className), zap.Error(err))
		return nil, err
	}
	if archived > 0 {
		s.logger.Info("发布时归档旧课表",
			zap.String("class", className), zap.Int64("archived", archived))
	}

	return toScheduleResponse(draft), nil
}

func (s *scheduleService) Pause(ctx context.Context, className, callerID string) (*dto.ScheduleResponse, error) {
	published, err := s.repo.Schedule.GetByClassAndStatus(ctx, className, model.ScheduleStatusPublished)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNothingToPause
		}
		return nil, err
	}

	published.Status = model.ScheduleStatusDraft
	published.PublishedAt = nil
	published.UpdatedBy = &callerID
	if err := s.repo.Schedule.Update(ctx, published); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrScheduleConflict
		}
		return nil, err
	}
	return toScheduleResponse(published), nil
}

func (s *scheduleService) Stop(ctx context.Context, className, callerID string) (*dto.ScheduleResponse, error) {
	// 已发布优先，其次草稿；归档行是终态
	target, err := s.findSaveTarget(ctx, className)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrScheduleNotFound
	}

	target.Status = model.ScheduleStatusArchived
	target.UpdatedBy = &callerID
	if err := s.repo.Schedule.Update(ctx, target); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrScheduleConflict
		}
		return nil, err
	}
	return toScheduleResponse(target), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *scheduleService) Get(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return toScheduleResponse(schedule), nil
}

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleBrief, int64, error) {
	// 列表读取顺带触发过期归档（读时惰性求值，代替后台定时器）
	if _, err := s.Reconcile(ctx); err != nil {
		s.logger.Warn("列表前归档过期课表失败", zap.Error(err))
	}

	schedules, total, err := s.repo.Schedule.List(ctx, req.ClassName, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出课表失败", zap.Error(err))
		return nil, 0, err
	}

	briefs := make([]dto.ScheduleBrief, 0, len(schedules))
	for i := range schedules {
		briefs = append(briefs, toScheduleBrief(&schedules[i]))
	}
	return briefs, total, nil
}

func (s *scheduleService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.repo.Schedule.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	if err := s.repo.Schedule.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除课表失败", zap.String("id", id), zap.Error(err))
		return err
	}
	// 删除是敏感操作，留安全审计日志
	s.logger.Info("课表已删除",
		zap.String("schedule_id", id), zap.String("deleted_by", callerID))
	return nil
}

// ────────────────────── Reconcile ──────────────────────

func (s *scheduleService) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	staleAfter := time.Duration(s.cfg.StaleAfterDays) * 24 * time.Hour
	now := s.now()
	cutoff := now.Add(-staleAfter)

	archived, err := s.repo.Schedule.ArchiveStale(ctx, cutoff)
	if err != nil {
		s.logger.Error("归档过期课表失败", zap.Error(err))
		return nil, err
	}
	if archived > 0 {
		s.logger.Info("过期课表已归档",
			zap.Int64("archived", archived), zap.Time("cutoff", cutoff))
	}

	return &dto.ReconcileResponse{
		Archived:       archived,
		StaleAfterDays: s.cfg.StaleAfterDays,
		CheckedAt:      now.Format("2006-01-02T15:04:05Z"),
	}, nil
}

// ────────────────────── 草稿镜像 ──────────────────────

// mirrorPayload Redis 中的镜像存储格式
type mirrorPayload struct {
	ClassName string               `json:"class_name"`
	Sessions  []model.ClassSession `json:"sessions"`
	SavedAt   string               `json:"saved_at"`
}

func (s *scheduleService) PutMirror(ctx context.Context, req *dto.MirrorRequest) error {
	if s.rdb == nil {
		return nil
	}

	// 镜像不做教师富化，原样保存编辑器内容即可（恢复时反正要重新保存）
	sessions := make([]model.ClassSession, 0, len(req.Sessions))
	for _, input := range req.Sessions {
		sessions = append(sessions, model.ClassSession{
			ID:                 input.ID,
			Title:              input.Title,
			Instructor:         input.Instructor,
			InstructorPhotoURL: input.InstructorPhotoURL,
			InstructorStatus:   input.InstructorStatus,
			Day:                input.Day,
			StartTime:          input.StartTime,
			EndTime:            input.EndTime,
			Room:               input.Room,
			Color:              input.Color,
			ShowProfiles:       input.ShowProfiles,
		})
	}

	payload, err := json.Marshal(mirrorPayload{
		ClassName: req.ClassName,
		Sessions:  sessions,
		SavedAt:   s.now().Format("2006-01-02T15:04:05Z"),
	})
	if err != nil {
		return err
	}
	return s.rdb.PutDraftMirror(ctx, req.ClassName, payload, s.cfg.MirrorTTL)
}

func (s *scheduleService) GetMirror(ctx context.Context, className string) (*dto.MirrorResponse, error) {
	if s.rdb == nil {
		return nil, nil
	}
	raw, err := s.rdb.GetDraftMirror(ctx, className)
	if err != nil {
		s.logger.Warn("读取草稿镜像失败", zap.String("class", className), zap.Error(err))
		return nil, nil
	}
	if raw == nil {
		return nil, nil
	}

	var payload mirrorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// 镜像损坏按不存在处理，顺手清掉
		s.clearMirrorQuietly(ctx, className)
		return nil, nil
	}
	return &dto.MirrorResponse{
		ClassName: payload.ClassName,
		Sessions:  payload.Sessions,
		SavedAt:   payload.SavedAt,
	}, nil
}

func (s *scheduleService) ClearMirror(ctx context.Context, className string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.ClearDraftMirror(ctx, className)
}

func (s *scheduleService) clearMirrorQuietly(ctx context.Context, className string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.ClearDraftMirror(ctx, className); err != nil {
		s.logger.Warn("清除草稿镜像失败", zap.String("class", className), zap.Error(err))
	}
}

// ────────────────────── 辅助 ──────────────────────

// newScheduleCode 生成人读课表编号，如 SCH-20260831-1a2b3c
func newScheduleCode(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("SCH-%s-%s", now.Format("20060102"), suffix)
}

func toScheduleResponse(schedule *model.WeeklySchedule) *dto.ScheduleResponse {
	resp := &dto.ScheduleResponse{
		ID:           schedule.ScheduleID,
		ScheduleCode: schedule.ScheduleCode,
		ClassName:    schedule.ClassName,
		Status:       schedule.Status,
		Sessions:     schedule.Content,
		Version:      schedule.Version,
		CreatedAt:    schedule.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    schedule.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if resp.Sessions == nil {
		resp.Sessions = []model.ClassSession{}
	}
	if schedule.PublishedAt != nil {
		published := schedule.PublishedAt.Format("2006-01-02T15:04:05Z")
		resp.PublishedAt = &published
	}
	return resp
}

func toScheduleBrief(schedule *model.WeeklySchedule) dto.ScheduleBrief {
	brief := dto.ScheduleBrief{
		ID:           schedule.ScheduleID,
		ScheduleCode: schedule.ScheduleCode,
		ClassName:    schedule.ClassName,
		Status:       schedule.Status,
		SessionCount: len(schedule.Content),
		UpdatedAt:    schedule.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if schedule.PublishedAt != nil {
		published := schedule.PublishedAt.Format("2006-01-02T15:04:05Z")
		brief.PublishedAt = &published
	}
	return brief
}

// [自证通过] internal/service/schedule_service.go
