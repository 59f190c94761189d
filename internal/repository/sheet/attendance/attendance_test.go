package attendance

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/entity"
	"oza-attendance/backend/internal/pkg/config"
	"oza-attendance/backend/internal/pkg/repository/sheetdb"
)

func newTestRepository(t *testing.T) (*Repository, *sheetdb.Database) {
	t.Helper()

	cfg := &config.Config{
		WorkbookPath:    filepath.Join(t.TempDir(), "attendance.xlsx"),
		AttendanceSheet: "T_Attendance",
		CampusSheet:     "M_Campus",
	}

	db := sheetdb.New(cfg)
	return NewRepository(db, nil), db
}

func TestEnsureHeaderWritesAndRepairs(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}

	// Corrupt the header, then ensure again.
	err := db.Update(func(f *excelize.File) error {
		return f.SetCellValue(db.AttendanceSheet, "C1", "wrong")
	})
	if err != nil {
		t.Fatalf("corrupting header: %v", err)
	}

	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader after corruption: %v", err)
	}

	err = db.View(func(f *excelize.File) error {
		rows, err := f.GetRows(db.AttendanceSheet)
		if err != nil {
			return err
		}
		if len(rows) == 0 || !headerMatches(rows[0]) {
			return errors.Errorf("header not repaired: %v", rows)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestFindRowAndCreateRow(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	campus := entity.Campus{ID: "17", Name: "Seiko"}

	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}

	if _, found, err := repo.FindRow(ctx, "2024/05/01", "T1"); err != nil || found {
		t.Fatalf("FindRow on empty log = found %v, err %v", found, err)
	}

	row, err := repo.CreateRow(ctx, "2024/05/01", " T1 ", campus)
	if err != nil {
		t.Fatalf("CreateRow: %v", err)
	}
	if row != 2 {
		t.Errorf("first data row = %d, want 2", row)
	}

	got, found, err := repo.FindRow(ctx, "2024/05/01", "T1")
	if err != nil {
		t.Fatalf("FindRow: %v", err)
	}
	if !found || got != row {
		t.Errorf("FindRow = (%d, %v), want (%d, true)", got, found, row)
	}

	// A different date is a different row.
	if _, found, _ := repo.FindRow(ctx, "2024/05/02", "T1"); found {
		t.Error("FindRow matched the wrong date")
	}
}

func TestWriteTimeFieldIsWriteOnce(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	campus := entity.Campus{ID: "17", Name: "Seiko"}

	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}
	row, err := repo.CreateRow(ctx, "2024/05/01", "T1", campus)
	if err != nil {
		t.Fatalf("CreateRow: %v", err)
	}

	if err := repo.WriteTimeField(ctx, row, entity.FieldStart, "10:00:00", campus); err != nil {
		t.Fatalf("first write: %v", err)
	}

	err = repo.WriteTimeField(ctx, row, entity.FieldStart, "11:00:00", campus)
	if err == nil {
		t.Fatal("second write succeeded, want write-once conflict")
	}

	var re *web.RequestError
	if !errors.As(err, &re) || re.StatusCode != http.StatusConflict {
		t.Fatalf("conflict error = %v, want status 409", err)
	}

	// The stored start time must be unchanged, and the end field still open.
	rows, err := repo.MonthRows(ctx, "2024-05")
	if err != nil {
		t.Fatalf("MonthRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(rows))
	}
	if rows[0].StartTime != "10:00:00" {
		t.Errorf("start time = %q, want 10:00:00 unchanged", rows[0].StartTime)
	}

	if err := repo.WriteTimeField(ctx, row, entity.FieldEnd, "18:00:00", campus); err != nil {
		t.Errorf("end write after start conflict: %v", err)
	}
}

func TestWriteTimeFieldRestampsMetadata(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}
	row, err := repo.CreateRow(ctx, "2024/05/01", "T1", entity.Campus{ID: "1", Name: "Ann"})
	if err != nil {
		t.Fatalf("CreateRow: %v", err)
	}

	// End write from a different campus re-stamps campus metadata.
	if err := repo.WriteTimeField(ctx, row, entity.FieldEnd, "18:00:00", entity.Campus{ID: "2", Name: "Other"}); err != nil {
		t.Fatalf("WriteTimeField: %v", err)
	}

	rows, err := repo.MonthRows(ctx, "2024-05")
	if err != nil {
		t.Fatalf("MonthRows: %v", err)
	}
	if rows[0].CampusID != "2" || rows[0].CampusName != "Other" {
		t.Errorf("campus not re-stamped: %+v", rows[0])
	}
	if rows[0].Category != entity.CategoryManual || rows[0].Source != entity.SourceManual {
		t.Errorf("category/source not re-stamped: %+v", rows[0])
	}
}

func TestHasSlotNormalizesDateAndTime(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}

	err := repo.AppendBulkRows(ctx, []entity.AttendanceRow{{
		Date:       "2024/05/01",
		TeacherID:  "T1",
		StartTime:  "10:00",
		EndTime:    "10:50",
		CampusName: "Ann",
		Source:     entity.SourceScraper,
	}})
	if err != nil {
		t.Fatalf("AppendBulkRows: %v", err)
	}

	cases := []struct {
		day, teacher, start string
		want                bool
	}{
		{"2024-05-01", "T1", "10:00", true},
		{"2024-05-01", " T1 ", "10:0", true},
		{"2024-05-01", "T1", "11:00", false},
		{"2024-05-02", "T1", "10:00", false},
		{"2024-05-01", "T2", "10:00", false},
	}

	for _, c := range cases {
		got, err := repo.HasSlot(ctx, c.day, c.teacher, c.start)
		if err != nil {
			t.Fatalf("HasSlot(%q,%q,%q): %v", c.day, c.teacher, c.start, err)
		}
		if got != c.want {
			t.Errorf("HasSlot(%q,%q,%q) = %v, want %v", c.day, c.teacher, c.start, got, c.want)
		}
	}
}

func TestAppendBulkRowsAndMonthRows(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}

	batch := []entity.AttendanceRow{
		{Date: "2024/05/01", TeacherID: "T1", StartTime: "10:00", EndTime: "10:50", StudentCount: 5, Source: entity.SourceScraper},
		{Date: "2024/05/02", TeacherID: "T2", StartTime: "16:05", EndTime: "16:55", StudentCount: 0, Source: entity.SourceScraper},
		{Date: "2024/06/01", TeacherID: "T1", StartTime: "10:00", EndTime: "10:50", Source: entity.SourceScraper},
	}

	if err := repo.AppendBulkRows(ctx, batch); err != nil {
		t.Fatalf("AppendBulkRows: %v", err)
	}

	may, err := repo.MonthRows(ctx, "2024-05")
	if err != nil {
		t.Fatalf("MonthRows: %v", err)
	}
	if len(may) != 2 {
		t.Fatalf("May rows = %d, want 2", len(may))
	}
	if may[0].TeacherID != "T1" || may[0].StudentCount != 5 {
		t.Errorf("unexpected first row: %+v", may[0])
	}
	if may[1].Date != "2024/05/02" || may[1].Source != entity.SourceScraper {
		t.Errorf("unexpected second row: %+v", may[1])
	}
}
