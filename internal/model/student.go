package model

// Student 学生表 — 对应 students
// 按 class_name 归属班级（与课表一致的名称弱关联）
type Student struct {
	StudentID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	ClassName     string `gorm:"type:varchar(100);not null;index"               json:"class_name"`
	GuardianPhone string `gorm:"type:varchar(50)"                               json:"guardian_phone,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
