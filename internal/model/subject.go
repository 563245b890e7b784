package model

// Subject 科目表 — 对应 subjects
// 纯参考字典：编辑器的科目下拉与教师可授科目均引用其名称
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	VersionedModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
