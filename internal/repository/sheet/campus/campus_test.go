package campus

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/pkg/config"
	"oza-attendance/backend/internal/pkg/repository/sheetdb"
)

// seedWorkbook writes a workbook whose campus sheet holds the given
// (id, name) rows starting at row 2, with a header at row 1.
func seedWorkbook(t *testing.T, path string, withCampusSheet bool, rows [][2]string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "T_Attendance"); err != nil {
		t.Fatalf("naming attendance sheet: %v", err)
	}

	if withCampusSheet {
		if _, err := f.NewSheet("M_Campus"); err != nil {
			t.Fatalf("creating campus sheet: %v", err)
		}
		f.SetCellValue("M_Campus", "A1", "campus_id")
		f.SetCellValue("M_Campus", "B1", "campus_name")

		for i, row := range rows {
			f.SetCellValue("M_Campus", cellName("A", i+2), row[0])
			f.SetCellValue("M_Campus", cellName("B", i+2), row[1])
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving fixture workbook: %v", err)
	}
}

func cellName(col string, row int) string {
	name, _ := excelize.JoinCellName(col, row)
	return name
}

func newTestRepository(t *testing.T, withCampusSheet bool, rows [][2]string) *Repository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "attendance.xlsx")
	seedWorkbook(t, path, withCampusSheet, rows)

	cfg := &config.Config{
		WorkbookPath:    path,
		AttendanceSheet: "T_Attendance",
		CampusSheet:     "M_Campus",
	}

	return NewRepository(sheetdb.New(cfg))
}

func TestListSkipsIncompleteRows(t *testing.T) {
	repo := newTestRepository(t, true, [][2]string{
		{"A", "Ann Soroban Club"},
		{"", "missing id"},
		{"no-name", ""},
		{"B", "Seiko Gakuin"},
	})

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("List returned %d campuses, want 2: %+v", len(list), list)
	}
	if list[0].ID != "A" || list[1].ID != "B" {
		t.Errorf("unexpected campuses: %+v", list)
	}
}

func TestGetByID(t *testing.T) {
	repo := newTestRepository(t, true, [][2]string{
		{"A", "Ann Soroban Club"},
		{"B", "Seiko Gakuin"},
	})
	ctx := context.Background()

	campus, err := repo.GetByID(ctx, "B")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if campus.Name != "Seiko Gakuin" {
		t.Errorf("campus name = %q", campus.Name)
	}

	if _, err := repo.GetByID(ctx, ""); statusOf(err) != http.StatusBadRequest {
		t.Errorf("empty id error = %v, want 400", err)
	}

	if _, err := repo.GetByID(ctx, "unknown"); statusOf(err) != http.StatusNotFound {
		t.Errorf("unknown id error = %v, want 404", err)
	}
}

func TestMissingCampusSheetIsConfigurationError(t *testing.T) {
	repo := newTestRepository(t, false, nil)

	if _, err := repo.List(context.Background()); statusOf(err) != http.StatusInternalServerError {
		t.Errorf("missing sheet error = %v, want 500", err)
	}
}

func statusOf(err error) int {
	var re *web.RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
