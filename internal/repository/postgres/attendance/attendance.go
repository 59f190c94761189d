package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/entity"
	"oza-attendance/backend/internal/pkg/repository/postgresql"
	"oza-attendance/backend/internal/pkg/timeutil"
)

// Repository is the relational rendition of the attendance log. The sheet
// accessor's row index becomes the serial primary key here; the store
// contract is otherwise identical.
type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// EnsureHeader is satisfied by the schema migration; nothing to verify per
// session on this backend.
func (r Repository) EnsureHeader(ctx context.Context) error {
	return nil
}

func (r Repository) FindRow(ctx context.Context, displayDate, teacherID string) (int, bool, error) {
	var row entity.AttendanceRow

	err := r.NewSelect().
		Model(&row).
		Where("log_date = ? AND teacher_id = ?", displayDate, strings.TrimSpace(teacherID)).
		Order("id").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, web.NewRequestError(errors.Wrap(err, "selecting attendance row"), http.StatusInternalServerError)
	}

	return row.ID, true, nil
}

func (r Repository) CreateRow(ctx context.Context, displayDate, teacherID string, campus entity.Campus) (int, error) {
	row := entity.AttendanceRow{
		Date:       displayDate,
		Day:        timeutil.CanonicalDate(displayDate),
		TeacherID:  strings.TrimSpace(teacherID),
		CampusID:   campus.ID,
		CampusName: campus.Name,
		Category:   entity.CategoryManual,
		Source:     entity.SourceManual,
	}

	_, err := r.NewInsert().Model(&row).Returning("id").Exec(ctx, &row.ID)
	if err != nil {
		return 0, web.NewRequestError(errors.Wrap(err, "creating attendance row"), http.StatusInternalServerError)
	}

	return row.ID, nil
}

func (r Repository) WriteTimeField(ctx context.Context, rowID int, field entity.TimeField, value string, campus entity.Campus) error {
	column, ok := fieldColumns[field]
	if !ok {
		return web.NewRequestError(errors.Errorf("unknown time field %q", field), http.StatusBadRequest)
	}

	var row entity.AttendanceRow
	if err := r.NewSelect().Model(&row).Where("id = ?", rowID).Scan(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "selecting attendance row"), http.StatusInternalServerError)
	}

	current := row.StartTime
	if field == entity.FieldEnd {
		current = row.EndTime
	}
	if strings.TrimSpace(current) != "" {
		msg := fmt.Sprintf("%s の%sはすでに記録されています", row.Date, fieldLabels[field])
		return web.NewRequestError(errors.New(msg), http.StatusConflict)
	}

	q := r.NewUpdate().Table("attendance_log").Where("id = ?", rowID)
	q.Set(column+" = ?", value)
	q.Set("campus_id = ?", campus.ID)
	q.Set("campus_name = ?", campus.Name)
	q.Set("category = ?", entity.CategoryManual)
	q.Set("source = ?", string(entity.SourceManual))

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating attendance row"), http.StatusInternalServerError)
	}

	return nil
}

func (r Repository) HasSlot(ctx context.Context, day, teacherID, start string) (bool, error) {
	exists, err := r.NewSelect().
		Model((*entity.AttendanceRow)(nil)).
		Where("log_day = ? AND teacher_id = ? AND start_time = ?",
			day, strings.TrimSpace(teacherID), timeutil.Normalize(start)).
		Exists(ctx)
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "checking attendance slot"), http.StatusInternalServerError)
	}

	return exists, nil
}

func (r Repository) AppendBulkRows(ctx context.Context, list []entity.AttendanceRow) error {
	if len(list) == 0 {
		return nil
	}

	if _, err := r.NewInsert().Model(&list).Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "appending attendance rows"), http.StatusInternalServerError)
	}

	return nil
}

func (r Repository) MonthRows(ctx context.Context, month string) ([]entity.AttendanceRow, error) {
	var list []entity.AttendanceRow

	err := r.NewSelect().
		Model(&list).
		Where("log_day LIKE ?", month+"-%").
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting month rows"), http.StatusInternalServerError)
	}

	return list, nil
}

// Lock is a no-op on this backend: the database serializes concurrent
// writers itself.
func (r Repository) Lock(ctx context.Context, displayDate, teacherID string) (func(), error) {
	return func() {}, nil
}
