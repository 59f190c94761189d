package attendance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/entity"
	"oza-attendance/backend/internal/pkg/repository/sheetdb"
	"oza-attendance/backend/internal/pkg/timeutil"
)

// Repository accesses the attendance log sheet. Every operation is one
// synchronous round trip against the workbook; lookups are linear scans,
// which is fine at attendance-log volumes.
type Repository struct {
	*sheetdb.Database

	locker *redis.Client
}

// NewRepository builds the accessor. locker may be nil; the redis lock is
// opt-in hardening for deployments with more than one writer process.
func NewRepository(database *sheetdb.Database, locker *redis.Client) *Repository {
	return &Repository{Database: database, locker: locker}
}

// EnsureHeader rewrites the header row unless it already matches the
// expected column sequence exactly. Runs before every read/write session and
// is idempotent.
func (r Repository) EnsureHeader(ctx context.Context) error {
	return r.Update(func(f *excelize.File) error {
		rows, err := f.GetRows(r.AttendanceSheet)
		if err != nil {
			return errors.Wrap(err, "reading attendance sheet")
		}

		if len(rows) > 0 && headerMatches(rows[0]) {
			return nil
		}

		for i, name := range header {
			if err := f.SetCellValue(r.AttendanceSheet, cell(i, 1), name); err != nil {
				return errors.Wrap(err, "writing header")
			}
		}

		return nil
	})
}

// FindRow scans for the first row matching the display-formatted date and
// the trimmed teacher id. The returned index is the 1-based sheet row.
func (r Repository) FindRow(ctx context.Context, displayDate, teacherID string) (int, bool, error) {
	teacherID = strings.TrimSpace(teacherID)

	var rowNum int
	var found bool

	err := r.View(func(f *excelize.File) error {
		rows, err := f.GetRows(r.AttendanceSheet)
		if err != nil {
			return errors.Wrap(err, "reading attendance sheet")
		}

		for i := 1; i < len(rows); i++ {
			if col(rows[i], 0) == displayDate && strings.TrimSpace(col(rows[i], 1)) == teacherID {
				rowNum = i + 1
				found = true
				return nil
			}
		}

		return nil
	})

	return rowNum, found, err
}

// CreateRow appends a fresh row for (date, teacher) with empty time fields
// and manual-entry metadata, returning its 1-based sheet row.
func (r Repository) CreateRow(ctx context.Context, displayDate, teacherID string, campus entity.Campus) (int, error) {
	var rowNum int

	err := r.Update(func(f *excelize.File) error {
		rows, err := f.GetRows(r.AttendanceSheet)
		if err != nil {
			return errors.Wrap(err, "reading attendance sheet")
		}

		rowNum = len(rows) + 1
		values := []interface{}{
			displayDate,
			strings.TrimSpace(teacherID),
			"", "",
			campus.ID,
			campus.Name,
			entity.CategoryManual,
			"", "",
			string(entity.SourceManual),
		}

		for i, v := range values {
			if err := f.SetCellValue(r.AttendanceSheet, cell(i, rowNum), v); err != nil {
				return errors.Wrap(err, "writing attendance row")
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return rowNum, nil
}

// WriteTimeField sets a start or end time on an existing row. The field is
// write-once: a populated cell fails the call with a user-facing message
// naming the field and date. Campus, category and source metadata are
// re-stamped unconditionally, so the most recent interactive write wins
// there even though the time cell itself is fail-fast.
func (r Repository) WriteTimeField(ctx context.Context, rowNum int, field entity.TimeField, value string, campus entity.Campus) error {
	column, ok := fieldColumns[field]
	if !ok {
		return web.NewRequestError(errors.Errorf("unknown time field %q", field), http.StatusBadRequest)
	}

	return r.Update(func(f *excelize.File) error {
		current, err := f.GetCellValue(r.AttendanceSheet, cell(column, rowNum))
		if err != nil {
			return errors.Wrap(err, "reading time cell")
		}

		if strings.TrimSpace(current) != "" {
			rowDate, _ := f.GetCellValue(r.AttendanceSheet, cell(0, rowNum))
			msg := fmt.Sprintf("%s の%sはすでに記録されています", rowDate, fieldLabels[field])
			return web.NewRequestError(errors.New(msg), http.StatusConflict)
		}

		stamps := map[int]interface{}{
			column: value,
			4:      campus.ID,
			5:      campus.Name,
			6:      entity.CategoryManual,
			9:      string(entity.SourceManual),
		}

		for colIdx, v := range stamps {
			if err := f.SetCellValue(r.AttendanceSheet, cell(colIdx, rowNum), v); err != nil {
				return errors.Wrap(err, "writing time field")
			}
		}

		return nil
	})
}

// HasSlot reports whether a row already exists for the bulk dedup key:
// canonical date, trimmed teacher id, normalized start time.
func (r Repository) HasSlot(ctx context.Context, day, teacherID, start string) (bool, error) {
	teacherID = strings.TrimSpace(teacherID)
	start = timeutil.Normalize(start)

	var found bool

	err := r.View(func(f *excelize.File) error {
		rows, err := f.GetRows(r.AttendanceSheet)
		if err != nil {
			return errors.Wrap(err, "reading attendance sheet")
		}

		for i := 1; i < len(rows); i++ {
			if timeutil.CanonicalDate(col(rows[i], 0)) == day &&
				strings.TrimSpace(col(rows[i], 1)) == teacherID &&
				timeutil.Normalize(col(rows[i], 2)) == start {
				found = true
				return nil
			}
		}

		return nil
	})

	return found, err
}

// AppendBulkRows appends fully-formed rows after the last existing row in
// one batch. Deduplication already happened; no per-row existence re-check.
func (r Repository) AppendBulkRows(ctx context.Context, list []entity.AttendanceRow) error {
	if len(list) == 0 {
		return nil
	}

	return r.Update(func(f *excelize.File) error {
		rows, err := f.GetRows(r.AttendanceSheet)
		if err != nil {
			return errors.Wrap(err, "reading attendance sheet")
		}

		next := len(rows) + 1
		for _, row := range list {
			values := []interface{}{
				row.Date,
				row.TeacherID,
				row.StartTime,
				row.EndTime,
				row.CampusID,
				row.CampusName,
				row.Category,
				row.TeacherName,
				row.StudentCount,
				string(row.Source),
			}

			for i, v := range values {
				if err := f.SetCellValue(r.AttendanceSheet, cell(i, next), v); err != nil {
					return errors.Wrap(err, "appending attendance row")
				}
			}
			next++
		}

		return nil
	})
}

// MonthRows returns every log row whose canonical date starts with the given
// YYYY-MM month, for export.
func (r Repository) MonthRows(ctx context.Context, month string) ([]entity.AttendanceRow, error) {
	var list []entity.AttendanceRow

	err := r.View(func(f *excelize.File) error {
		rows, err := f.GetRows(r.AttendanceSheet)
		if err != nil {
			return errors.Wrap(err, "reading attendance sheet")
		}

		for i := 1; i < len(rows); i++ {
			day := timeutil.CanonicalDate(col(rows[i], 0))
			if !strings.HasPrefix(day, month) {
				continue
			}

			count, _ := strconv.Atoi(strings.TrimSpace(col(rows[i], 8)))
			list = append(list, entity.AttendanceRow{
				Date:         col(rows[i], 0),
				Day:          day,
				TeacherID:    strings.TrimSpace(col(rows[i], 1)),
				StartTime:    col(rows[i], 2),
				EndTime:      col(rows[i], 3),
				CampusID:     col(rows[i], 4),
				CampusName:   col(rows[i], 5),
				Category:     col(rows[i], 6),
				TeacherName:  col(rows[i], 7),
				StudentCount: count,
				Source:       entity.Source(col(rows[i], 9)),
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return list, nil
}

// Lock takes a per-(date, teacher) mutual exclusion around find-or-create
// when a redis locker is configured; without one it is a no-op and the
// process-level workbook mutex is the only serialization.
func (r Repository) Lock(ctx context.Context, displayDate, teacherID string) (func(), error) {
	if r.locker == nil {
		return func() {}, nil
	}

	key := "attendance:lock:" + timeutil.CanonicalDate(displayDate) + ":" + strings.TrimSpace(teacherID)

	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := r.locker.SetNX(ctx, key, 1, lockTTL).Result()
		if err != nil {
			return nil, errors.Wrap(err, "acquiring attendance lock")
		}
		if ok {
			return func() {
				r.locker.Del(context.Background(), key)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "acquiring attendance lock")
		case <-time.After(lockRetryDelay):
		}
	}

	return nil, web.NewRequestError(errors.New("attendance row is busy, try again"), http.StatusConflict)
}
