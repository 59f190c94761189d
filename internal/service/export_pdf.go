package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"

	"oza-attendance/backend/internal/entity"
)

// MonthlyPDF renders one month of log rows as a simple tabular PDF report.
func MonthlyPDF(month string, rows []entity.AttendanceRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 9)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Attendance "+month, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{24, 26, 18, 18, 22, 48, 28, 40, 20, 26}

	pdf.SetFont("Arial", "B", 9)
	for i, header := range exportHeaders {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, entry := range rows {
		values := []string{
			entry.Date,
			entry.TeacherID,
			entry.StartTime,
			entry.EndTime,
			entry.CampusID,
			entry.CampusName,
			entry.Category,
			entry.TeacherName,
			fmt.Sprintf("%d", entry.StudentCount),
			string(entry.Source),
		}

		for i, v := range values {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "serializing export pdf")
	}

	return buf.Bytes(), nil
}
