package service

import (
	"sort"
	"time"

	"classboard/backend/internal/dto"
	"classboard/backend/internal/model"
)

// ── 只读投影 ──
//
// 本文件的函数是对会话数组的纯推导，不访问存储。
// 时间比较全部基于零填充的 "HH:MM" 字符串字典序。

// GroupSessionsByDay 按周一到周六的固定桶划分会话，桶内按开始时间升序。
// 六天全部返回，没有会话的天是空桶。
func GroupSessionsByDay(sessions []model.ClassSession) []dto.DaySessionsResponse {
	buckets := make(map[string][]model.ClassSession, len(model.ScheduleDays))
	for _, session := range sessions {
		if !model.IsScheduleDay(session.Day) {
			continue
		}
		buckets[session.Day] = append(buckets[session.Day], session)
	}

	result := make([]dto.DaySessionsResponse, 0, len(model.ScheduleDays))
	for _, day := range model.ScheduleDays {
		daySessions := buckets[day]
		sort.SliceStable(daySessions, func(i, j int) bool {
			return daySessions[i].StartTime < daySessions[j].StartTime
		})
		if daySessions == nil {
			daySessions = []model.ClassSession{}
		}
		result = append(result, dto.DaySessionsResponse{Day: day, Sessions: daySessions})
	}
	return result
}

// GroupSessionsByTeacher 按教师名分组（跨班级聚合用）。
// 没有任何会话的教师不出现在结果里；结果按教师名升序。
func GroupSessionsByTeacher(sessions []dto.SessionWithClass) []dto.TeacherSessionsResponse {
	groups := make(map[string][]dto.SessionWithClass)
	for _, session := range sessions {
		if session.Instructor == "" {
			continue
		}
		groups[session.Instructor] = append(groups[session.Instructor], session)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]dto.TeacherSessionsResponse, 0, len(names))
	for _, name := range names {
		group := groups[name]
		sortSessionsByWeekOrder(group)
		result = append(result, dto.TeacherSessionsResponse{
			Instructor: name,
			Sessions:   group,
		})
	}
	return result
}

// IsSessionLive 判断某节课在 day/now 下是否正在进行。
// 区间两端均为闭区间：now == startTime 和 now == endTime 都算在上课。
func IsSessionLive(session model.ClassSession, day, now string) bool {
	return session.Day == day &&
		session.StartTime <= now &&
		now <= session.EndTime
}

// FilterLiveSessions 过滤出当前进行中的会话，按开始时间升序
func FilterLiveSessions(sessions []dto.SessionWithClass, day, now string) []dto.SessionWithClass {
	live := make([]dto.SessionWithClass, 0)
	for _, session := range sessions {
		if IsSessionLive(session.ClassSession, day, now) {
			live = append(live, session)
		}
	}
	sort.SliceStable(live, func(i, j int) bool {
		return live[i].StartTime < live[j].StartTime
	})
	return live
}

// DayName 返回英文星期名。周日返回 "Sunday"，不在排课周内，
// 调用方对周日的任何投影都会得到空结果。
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// ClockHHMM 返回零填充的 "HH:MM" 当前时刻
func ClockHHMM(t time.Time) string {
	return t.Format("15:04")
}

// sortSessionsByWeekOrder 按（周内天序, 开始时间）排序
func sortSessionsByWeekOrder(sessions []dto.SessionWithClass) {
	dayIndex := make(map[string]int, len(model.ScheduleDays))
	for i, day := range model.ScheduleDays {
		dayIndex[day] = i
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		di, dj := dayIndex[sessions[i].Day], dayIndex[sessions[j].Day]
		if di != dj {
			return di < dj
		}
		return sessions[i].StartTime < sessions[j].StartTime
	})
}

// [自证通过] internal/service/projection.go
