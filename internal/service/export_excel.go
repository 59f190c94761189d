package service

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"oza-attendance/backend/internal/entity"
)

var exportHeaders = []string{
	"Date", "Teacher ID", "Start", "End", "Campus ID", "Campus Name",
	"Category", "Teacher Name", "Students", "Source",
}

// MonthlyWorkbook renders one month of log rows into a standalone xlsx
// workbook and returns its bytes.
func MonthlyWorkbook(month string, rows []entity.AttendanceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance " + month
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "naming export sheet")
	}

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, errors.Wrap(err, "writing export header")
		}
	}

	rowNum := 2
	for _, entry := range rows {
		values := []interface{}{
			entry.Date,
			entry.TeacherID,
			entry.StartTime,
			entry.EndTime,
			entry.CampusID,
			entry.CampusName,
			entry.Category,
			entry.TeacherName,
			entry.StudentCount,
			string(entry.Source),
		}

		for i, v := range values {
			cell := fmt.Sprintf("%c%d", 'A'+i, rowNum)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, errors.Wrap(err, "writing export row")
			}
		}
		rowNum++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serializing export workbook")
	}

	return buf.Bytes(), nil
}
