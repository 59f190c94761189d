package entity

import "github.com/uptrace/bun"

// Source tells which path produced a row.
type Source string

const (
	SourceManual  Source = "manual"
	SourceScraper Source = "oza_scraper"
)

// TimeField selects which of the two write-once clock columns an interactive
// call targets.
type TimeField string

const (
	FieldStart TimeField = "start"
	FieldEnd   TimeField = "end"
)

// CategoryManual is stamped on every row the interactive path touches.
const CategoryManual = "manual entry"

// AttendanceRow is one line of the attendance log: one (date, teacher) pair
// on the interactive path, one (date, teacher, start) slot on the bulk path.
// Date carries the display form YYYY/MM/DD; Day the canonical YYYY-MM-DD
// used for comparisons.
type AttendanceRow struct {
	bun.BaseModel `bun:"table:attendance_log"`

	ID           int    `json:"id" bun:"id,pk,autoincrement"`
	Date         string `json:"date" bun:"log_date"`
	Day          string `json:"-" bun:"log_day"`
	TeacherID    string `json:"teacher_id" bun:"teacher_id"`
	StartTime    string `json:"start_time" bun:"start_time"`
	EndTime      string `json:"end_time" bun:"end_time"`
	CampusID     string `json:"campus_id" bun:"campus_id"`
	CampusName   string `json:"campus_name" bun:"campus_name"`
	Category     string `json:"category" bun:"category"`
	TeacherName  string `json:"teacher_name" bun:"teacher_name"`
	StudentCount int    `json:"student_count" bun:"student_count"`
	Source       Source `json:"source" bun:"source"`
}
