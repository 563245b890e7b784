package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"classboard/backend/internal/model"
	pkgerrors "classboard/backend/pkg/errors"
)

// ── Mock WeeklyScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.WeeklySchedule
	seq       int
	// 置为非 nil 可模拟后端故障
	failWith error
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.WeeklySchedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.WeeklySchedule) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.seq++
	if schedule.ScheduleID == "" {
		schedule.ScheduleID = fmt.Sprintf("sched-%03d", m.seq)
	}
	if schedule.Version == 0 {
		schedule.Version = 1
	}
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	copied := *schedule
	m.schedules[schedule.ScheduleID] = &copied
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.WeeklySchedule, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if s, ok := m.schedules[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetByCode(_ context.Context, code string) (*model.WeeklySchedule, error) {
	for _, s := range m.schedules {
		if s.ScheduleCode == code {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetByClassAndStatus(_ context.Context, className, status string) (*model.WeeklySchedule, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var latest *model.WeeklySchedule
	for _, s := range m.schedules {
		if s.ClassName != className || s.Status != status {
			continue
		}
		if latest == nil || s.UpdatedAt.After(latest.UpdatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *mockScheduleRepo) List(_ context.Context, className, status string, offset, limit int) ([]model.WeeklySchedule, int64, error) {
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	var result []model.WeeklySchedule
	for _, s := range m.schedules {
		if className != "" && s.ClassName != className {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		result = append(result, *s)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockScheduleRepo) ListByStatus(_ context.Context, status string) ([]model.WeeklySchedule, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var result []model.WeeklySchedule
	for _, s := range m.schedules {
		if s.Status == status {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, schedule *model.WeeklySchedule) error {
	if m.failWith != nil {
		return m.failWith
	}
	stored, ok := m.schedules[schedule.ScheduleID]
	if !ok || stored.Version != schedule.Version {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version++
	schedule.UpdatedAt = time.Now()
	copied := *schedule
	m.schedules[schedule.ScheduleID] = &copied
	return nil
}

func (m *mockScheduleRepo) ArchiveOthers(_ context.Context, className, exceptID string, _ *string) (int64, error) {
	var archived int64
	for _, s := range m.schedules {
		if s.ClassName == className && s.Status == model.ScheduleStatusPublished && s.ScheduleID != exceptID {
			s.Status = model.ScheduleStatusArchived
			s.Version++
			archived++
		}
	}
	return archived, nil
}

func (m *mockScheduleRepo) ArchiveStale(_ context.Context, cutoff time.Time) (int64, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	var archived int64
	for _, s := range m.schedules {
		if s.Status == model.ScheduleStatusPublished && s.UpdatedAt.Before(cutoff) {
			s.Status = model.ScheduleStatusArchived
			s.Version++
			archived++
		}
	}
	return archived, nil
}

func (m *mockScheduleRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, s := range m.schedules {
		counts[s.Status]++
	}
	return counts, nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes map[string]*model.Class
	seq     int
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class)}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	m.seq++
	if class.ClassID == "" {
		class.ClassID = fmt.Sprintf("class-%03d", m.seq)
	}
	class.CreatedAt = time.Now()
	class.UpdatedAt = time.Now()
	if class.Version == 0 {
		class.Version = 1
	}
	m.classes[class.ClassID] = class
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) GetByName(_ context.Context, name string) (*model.Class, error) {
	for _, c := range m.classes {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) List(_ context.Context, level string, offset, limit int) ([]model.Class, int64, error) {
	var result []model.Class
	for _, c := range m.classes {
		if level != "" && c.Level != level {
			continue
		}
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (m *mockClassRepo) ListAll(_ context.Context) ([]model.Class, error) {
	var result []model.Class
	for _, c := range m.classes {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockClassRepo) Update(_ context.Context, class *model.Class) error {
	m.classes[class.ClassID] = class
	return nil
}

func (m *mockClassRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.classes, id)
	return nil
}

func (m *mockClassRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.classes)), nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
	seq      int
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	m.seq++
	if teacher.TeacherID == "" {
		teacher.TeacherID = fmt.Sprintf("teacher-%03d", m.seq)
	}
	teacher.CreatedAt = time.Now()
	teacher.UpdatedAt = time.Now()
	if teacher.Version == 0 {
		teacher.Version = 1
	}
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByName(_ context.Context, name string) (*model.Teacher, error) {
	for _, t := range m.teachers {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByNames(_ context.Context, names []string) (map[string]*model.Teacher, error) {
	byName := make(map[string]*model.Teacher)
	for _, name := range names {
		for _, t := range m.teachers {
			if t.Name == name {
				byName[name] = t
				break
			}
		}
	}
	return byName, nil
}

func (m *mockTeacherRepo) List(_ context.Context, subject, status string, offset, limit int) ([]model.Teacher, int64, error) {
	var result []model.Teacher
	for _, t := range m.teachers {
		if subject != "" && !t.Subjects.Contains(subject) {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		result = append(result, *t)
	}
	return result, int64(len(result)), nil
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) UpdatePhotoURL(_ context.Context, id, photoURL string) error {
	if t, ok := m.teachers[id]; ok {
		t.ProfilePhotoURL = photoURL
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.teachers, id)
	return nil
}

func (m *mockTeacherRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.teachers)), nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
	seq      int
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	m.seq++
	if subject.SubjectID == "" {
		subject.SubjectID = fmt.Sprintf("subject-%03d", m.seq)
	}
	subject.CreatedAt = time.Now()
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) GetByName(_ context.Context, name string) (*model.Subject, error) {
	for _, s := range m.subjects {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) ListAll(_ context.Context) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.subjects, id)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	seq      int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	m.seq++
	if student.StudentID == "" {
		student.StudentID = fmt.Sprintf("student-%03d", m.seq)
	}
	student.CreatedAt = time.Now()
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, className string, offset, limit int) ([]model.Student, int64, error) {
	var result []model.Student
	for _, s := range m.students {
		if className != "" && s.ClassName != className {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockStudentRepo) ListByClass(_ context.Context, className string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.ClassName == className {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.students)), nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	logs map[string]*model.AttendanceLog // key: session|student|date
	seq  int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{logs: make(map[string]*model.AttendanceLog)}
}

func attendanceKey(sessionID, studentID string, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s", sessionID, studentID, date.Format("2006-01-02"))
}

func (m *mockAttendanceRepo) Upsert(_ context.Context, log *model.AttendanceLog) error {
	key := attendanceKey(log.SessionID, log.StudentID, log.LogDate)
	if existing, ok := m.logs[key]; ok {
		existing.Status = log.Status
		existing.RecordedBy = log.RecordedBy
		return nil
	}
	m.seq++
	log.AttendanceLogID = fmt.Sprintf("att-%03d", m.seq)
	log.CreatedAt = time.Now()
	m.logs[key] = log
	return nil
}

func (m *mockAttendanceRepo) Exists(_ context.Context, sessionID, studentID string, date time.Time) (bool, error) {
	_, ok := m.logs[attendanceKey(sessionID, studentID, date)]
	return ok, nil
}

func (m *mockAttendanceRepo) ListByClassAndDate(_ context.Context, className string, date time.Time, sessionID string) ([]model.AttendanceLog, error) {
	var result []model.AttendanceLog
	for _, log := range m.logs {
		if log.ClassName != className || !log.LogDate.Equal(date) {
			continue
		}
		if sessionID != "" && log.SessionID != sessionID {
			continue
		}
		result = append(result, *log)
	}
	return result, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.seq++
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string, mustChange bool) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		u.MustChangePassword = mustChange
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.UserClassAssignment
	seq         int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.UserClassAssignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.UserClassAssignment) error {
	m.seq++
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = fmt.Sprintf("assign-%03d", m.seq)
	}
	assignment.CreatedAt = time.Now()
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) ListByUser(_ context.Context, userID string) ([]model.UserClassAssignment, error) {
	var result []model.UserClassAssignment
	for _, a := range m.assignments {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByClass(_ context.Context, className string) ([]model.UserClassAssignment, error) {
	var result []model.UserClassAssignment
	for _, a := range m.assignments {
		if a.ClassName == className {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) HasAssignment(_ context.Context, userID, className string) (bool, error) {
	for _, a := range m.assignments {
		if a.UserID == userID && a.ClassName == className {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) DeleteByUserAndClass(_ context.Context, userID, className string) error {
	for id, a := range m.assignments {
		if a.UserID == userID && a.ClassName == className {
			delete(m.assignments, id)
		}
	}
	return nil
}
