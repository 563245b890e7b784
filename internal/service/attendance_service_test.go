package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"classboard/backend/internal/dto"
	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
)

func setupTestAttendanceService() (AttendanceService, *mockScheduleRepo, *mockStudentRepo) {
	scheduleRepo := newMockScheduleRepo()
	studentRepo := newMockStudentRepo()
	repo := &repository.Repository{
		User:       newMockUserRepo(),
		Assignment: newMockAssignmentRepo(),
		Class:      newMockClassRepo(),
		Teacher:    newMockTeacherRepo(),
		Subject:    newMockSubjectRepo(),
		Schedule:   scheduleRepo,
		Student:    studentRepo,
		Attendance: newMockAttendanceRepo(),
	}
	svc := NewAttendanceService(repo, zap.NewNop())
	return svc, scheduleRepo, studentRepo
}

func TestAttendanceService_BatchMark(t *testing.T) {
	svc, scheduleRepo, studentRepo := setupTestAttendanceService()
	ctx := context.Background()

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A",
		session("s1", "Math", "A. Roy", "Monday", "08:00", "08:45")))
	student := &model.Student{Name: "Jia Li", ClassName: "Grade 7A"}
	studentRepo.Create(ctx, student)

	resp, err := svc.BatchMark(ctx, &dto.BatchMarkAttendanceRequest{
		ClassName: "Grade 7A",
		SessionID: "s1",
		LogDate:   "2026-08-31",
		Entries: []dto.MarkAttendanceRequest{
			{StudentID: student.StudentID, Status: model.AttendanceStatusPresent},
		},
	}, "staff-001")
	if err != nil {
		t.Fatalf("BatchMark: %v", err)
	}
	if resp.Recorded != 1 || resp.Updated != 0 {
		t.Errorf("recorded=%d updated=%d", resp.Recorded, resp.Updated)
	}

	// 同键重复提交 → 覆盖为 updated
	resp2, err := svc.BatchMark(ctx, &dto.BatchMarkAttendanceRequest{
		ClassName: "Grade 7A",
		SessionID: "s1",
		LogDate:   "2026-08-31",
		Entries: []dto.MarkAttendanceRequest{
			{StudentID: student.StudentID, Status: model.AttendanceStatusLate},
		},
	}, "staff-001")
	if err != nil {
		t.Fatalf("第二次 BatchMark: %v", err)
	}
	if resp2.Recorded != 0 || resp2.Updated != 1 {
		t.Errorf("recorded=%d updated=%d", resp2.Recorded, resp2.Updated)
	}

	logs, err := svc.List(ctx, &dto.AttendanceListRequest{
		ClassName: "Grade 7A",
		LogDate:   "2026-08-31",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != model.AttendanceStatusLate {
		t.Errorf("期望1条 late 记录，实际=%+v", logs)
	}
}

func TestAttendanceService_BatchMark_SessionNotInSchedule(t *testing.T) {
	svc, scheduleRepo, _ := setupTestAttendanceService()
	ctx := context.Background()

	scheduleRepo.Create(ctx, publishedSchedule("Grade 7A",
		session("s1", "Math", "A. Roy", "Monday", "08:00", "08:45")))

	_, err := svc.BatchMark(ctx, &dto.BatchMarkAttendanceRequest{
		ClassName: "Grade 7A",
		SessionID: "no-such-session",
		LogDate:   "2026-08-31",
		Entries:   []dto.MarkAttendanceRequest{{StudentID: "student-001", Status: "present"}},
	}, "staff-001")
	if !errors.Is(err, ErrSessionNotInSchedule) {
		t.Errorf("期望 ErrSessionNotInSchedule，实际: %v", err)
	}
}

func TestAttendanceService_BatchMark_NoPublished(t *testing.T) {
	svc, _, _ := setupTestAttendanceService()

	_, err := svc.BatchMark(context.Background(), &dto.BatchMarkAttendanceRequest{
		ClassName: "Grade 7A",
		SessionID: "s1",
		LogDate:   "2026-08-31",
		Entries:   []dto.MarkAttendanceRequest{{StudentID: "student-001", Status: "present"}},
	}, "staff-001")
	if !errors.Is(err, ErrNoPublishedSchedule) {
		t.Errorf("期望 ErrNoPublishedSchedule，实际: %v", err)
	}
}
