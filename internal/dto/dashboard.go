package dto

// ── 总览面板 DTO ──

// DashboardResponse 控制台首页统计
type DashboardResponse struct {
	ClassCount       int64              `json:"class_count"`
	TeacherCount     int64              `json:"teacher_count"`
	StudentCount     int64              `json:"student_count"`
	PublishedCount   int64              `json:"published_count"`
	DraftCount       int64              `json:"draft_count"`
	ArchivedCount    int64              `json:"archived_count"`
	LiveSessions     []SessionWithClass `json:"live_sessions"`
	StaleDraftLimit  int                `json:"stale_draft_limit_days"`
	GeneratedAt      string             `json:"generated_at"`
}
