package model

// 班级学段
const (
	ClassLevelJunior = "junior"
	ClassLevelSenior = "senior"
)

// Class 班级表 — 对应 classes
//
// name 作为对外主键被其他实体按名称关联（weekly_schedules.class_name、
// students.class_name）；重命名班级不会级联更新历史课表。
type Class struct {
	ClassID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Section string `gorm:"type:varchar(50)"                               json:"section,omitempty"`
	RoomNo  string `gorm:"type:varchar(50)"                               json:"room_no,omitempty"` // 默认教室，会话未指定教室时回退使用
	Level   string `gorm:"type:varchar(20);not null;default:'junior'"     json:"level"`             // junior | senior
	VersionedModel
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }
