package attendance

import (
	"context"

	"oza-attendance/backend/internal/entity"
)

// Attendance is the store contract both the sheet and postgres repositories
// satisfy.
type Attendance interface {
	EnsureHeader(ctx context.Context) error
	FindRow(ctx context.Context, displayDate, teacherID string) (int, bool, error)
	CreateRow(ctx context.Context, displayDate, teacherID string, campus entity.Campus) (int, error)
	WriteTimeField(ctx context.Context, row int, field entity.TimeField, value string, campus entity.Campus) error
	HasSlot(ctx context.Context, day, teacherID, start string) (bool, error)
	AppendBulkRows(ctx context.Context, rows []entity.AttendanceRow) error
	MonthRows(ctx context.Context, month string) ([]entity.AttendanceRow, error)
	Lock(ctx context.Context, displayDate, teacherID string) (func(), error)
}

// Campuses resolves campus ids against the reference table.
type Campuses interface {
	GetByID(ctx context.Context, campusID string) (entity.Campus, error)
}
