package attendance

import (
	"encoding/json"
	"strconv"
	"strings"

	"oza-attendance/backend/internal/entity"
)

// defaultWorkType is stamped on imported rows whose work type the scraper
// left blank. 授業 is the source system's label for a taught lesson.
const defaultWorkType = "授業"

type RecordRequest struct {
	TeacherID string `json:"teacher_id" form:"teacher_id"`
	Action    string `json:"action" form:"action"`
	CampusID  string `json:"campus_id" form:"campus_id"`
}

type RecordResponse struct {
	Date   string        `json:"date"`
	Time   string        `json:"time"`
	Action string        `json:"action"`
	Campus entity.Campus `json:"campus"`
}

type ImportRequest struct {
	APIKey string       `json:"apiKey"`
	Rows   []ImportItem `json:"rows"`
}

// ImportItem is one scraped row. The scraper has emitted both snake_case
// and camelCase field names over its lifetime, so decoding accepts either
// and normalizes here, before any business logic sees the item.
type ImportItem struct {
	Date         string
	TeacherID    string
	StartTime    string
	EndTime      string
	SchoolID     string
	SchoolName   string
	TeacherName  string
	StudentCount int
	WorkType     string
}

func (it *ImportItem) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	it.Date = pickString(raw, "date")
	it.TeacherID = pickString(raw, "teacher_id", "teacherId")
	it.StartTime = pickString(raw, "start_time", "startTime")
	it.EndTime = pickString(raw, "end_time", "endTime")
	it.SchoolID = pickString(raw, "school_id", "schoolId")
	it.SchoolName = pickString(raw, "school_name", "schoolName")
	it.TeacherName = pickString(raw, "teacher_name", "teacherName")
	it.WorkType = pickString(raw, "work_type", "workType")
	it.StudentCount = pickCount(raw, "attendance_count", "student_count", "studentCount")

	return nil
}

func pickString(raw map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}

		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}

		// The scraper sometimes sends numeric school ids.
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}

	return ""
}

// pickCount coerces the student count to a non-negative integer, defaulting
// to 0 when the value is absent or does not parse.
func pickCount(raw map[string]json.RawMessage, keys ...string) int {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}

		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			if n < 0 {
				return 0
			}
			return int(n)
		}

		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if parsed, perr := strconv.Atoi(strings.TrimSpace(s)); perr == nil && parsed >= 0 {
				return parsed
			}
		}

		return 0
	}

	return 0
}
