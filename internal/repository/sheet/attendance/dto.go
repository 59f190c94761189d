package attendance

import (
	"fmt"
	"time"

	"oza-attendance/backend/internal/entity"
)

// header is the expected column sequence of the log sheet. EnsureHeader
// overwrites the first row whenever it differs from this.
var header = []string{
	"date",
	"teacher_id",
	"start_time",
	"end_time",
	"campus_id",
	"campus_name",
	"category",
	"teacher_name",
	"student_count",
	"source",
}

// fieldColumns maps the two write-once fields to their zero-based columns.
var fieldColumns = map[entity.TimeField]int{
	entity.FieldStart: 2,
	entity.FieldEnd:   3,
}

// fieldLabels are the user-facing labels used in write-once conflict
// messages shown on the check-in screen.
var fieldLabels = map[entity.TimeField]string{
	entity.FieldStart: "出勤",
	entity.FieldEnd:   "退勤",
}

const (
	lockAttempts   = 20
	lockRetryDelay = 100 * time.Millisecond
	lockTTL        = 5 * time.Second
)

// cell returns the A1-style name for a zero-based column and a 1-based row.
func cell(colIdx, rowNum int) string {
	return fmt.Sprintf("%c%d", 'A'+colIdx, rowNum)
}

// col reads a cell from a GetRows row, tolerating short rows: excelize trims
// trailing empty cells.
func col(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// headerMatches reports whether got is exactly the expected header.
func headerMatches(got []string) bool {
	if len(got) != len(header) {
		return false
	}
	for i, name := range header {
		if got[i] != name {
			return false
		}
	}
	return true
}
