package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"classboard/backend/internal/repository"
)

func setupTestExportService() (*exportService, *mockScheduleRepo) {
	scheduleRepo := newMockScheduleRepo()
	repo := &repository.Repository{
		User:       newMockUserRepo(),
		Assignment: newMockAssignmentRepo(),
		Class:      newMockClassRepo(),
		Teacher:    newMockTeacherRepo(),
		Subject:    newMockSubjectRepo(),
		Schedule:   scheduleRepo,
		Student:    newMockStudentRepo(),
		Attendance: newMockAttendanceRepo(),
	}
	svc := NewExportService(repo, zap.NewNop()).(*exportService)
	return svc, scheduleRepo
}

func TestExportService_ExportSchedule(t *testing.T) {
	svc, scheduleRepo := setupTestExportService()
	ctx := context.Background()

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A",
		session("s1", "Math", "A. Roy", "Monday", "08:00", "08:45"),
		session("s2", "Art", "B. Chen", "Tuesday", "08:00", "08:45")))

	buf, filename, err := svc.ExportSchedule(ctx, "Grade 7A")
	if err != nil {
		t.Fatalf("ExportSchedule: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Excel 内容不应为空")
	}
	if !strings.Contains(filename, "Grade 7A") {
		t.Errorf("文件名应含班级名，实际=%s", filename)
	}
	// xlsx 是 zip 容器，魔数 PK
	head := buf.Bytes()[:2]
	if head[0] != 'P' || head[1] != 'K' {
		t.Errorf("产物不是合法 xlsx，前两字节=%v", head)
	}
}

func TestExportService_ExportSchedule_NoPublished(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportSchedule(context.Background(), "Grade 7A")
	if !errors.Is(err, ErrExportNoSchedule) {
		t.Errorf("期望 ErrExportNoSchedule，实际: %v", err)
	}
}

func TestExportService_ICSFeed(t *testing.T) {
	svc, scheduleRepo := setupTestExportService()
	ctx := context.Background()

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A",
		session("s1", "Math", "A. Roy", "Monday", "08:00", "08:45")))

	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)
	}

	feed, err := svc.ICSFeed(ctx, "Grade 7A")
	if err != nil {
		t.Fatalf("ICSFeed: %v", err)
	}
	if !strings.Contains(feed, "BEGIN:VCALENDAR") || !strings.Contains(feed, "BEGIN:VEVENT") {
		t.Error("应是合法 iCalendar 结构")
	}
	if !strings.Contains(feed, "SUMMARY:Math") {
		t.Error("事件标题应是课程名")
	}
	if !strings.Contains(feed, "FREQ=WEEKLY;BYDAY=MO") {
		t.Error("周一的课应带按周重复规则")
	}
	if !strings.Contains(feed, "A. Roy") {
		t.Error("描述应含授课教师")
	}
}

func TestExportService_ICSFeed_Empty(t *testing.T) {
	svc, scheduleRepo := setupTestExportService()
	ctx := context.Background()

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A"))

	_, err := svc.ICSFeed(ctx, "Grade 7A")
	if !errors.Is(err, ErrExportEmpty) {
		t.Errorf("期望 ErrExportEmpty，实际: %v", err)
	}
}

// nextOccurrence 是 ICS DTSTART 计算的核心，边界单独钉住
func TestNextOccurrence(t *testing.T) {
	// 2026-08-31 是周一
	monday := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	sameDay, err := nextOccurrence(monday, "Monday", "08:00")
	if err != nil {
		t.Fatalf("nextOccurrence: %v", err)
	}
	if sameDay.Day() != 31 || sameDay.Hour() != 8 {
		t.Errorf("当天匹配应落在当天: %v", sameDay)
	}

	friday, err := nextOccurrence(monday, "Friday", "14:30")
	if err != nil {
		t.Fatalf("nextOccurrence: %v", err)
	}
	if friday.Weekday() != time.Friday || friday.Day() != 4 {
		t.Errorf("应是本周五 9/4: %v", friday)
	}

	if _, err := nextOccurrence(monday, "Funday", "08:00"); err == nil {
		t.Error("未知星期名应报错")
	}
	if _, err := nextOccurrence(monday, "Monday", "8am"); err == nil {
		t.Error("非法时间格式应报错")
	}
}
