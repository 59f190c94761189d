// Package sheetdb owns the attendance workbook on disk. Repositories get a
// short-lived *excelize.File per call; the workbook is re-read on every
// access and saved after every mutation, which is what keeps reads fresh
// without any cross-request caching.
package sheetdb

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"oza-attendance/backend/internal/pkg/config"
)

// Database serializes access to one workbook file. The mutex covers the
// whole read-modify-write of a single store operation; coordination across
// processes is the lock layer's job, not ours.
type Database struct {
	mu   sync.Mutex
	path string

	AttendanceSheet string
	CampusSheet     string
}

func New(cfg *config.Config) *Database {
	return &Database{
		path:            cfg.WorkbookPath,
		AttendanceSheet: cfg.AttendanceSheet,
		CampusSheet:     cfg.CampusSheet,
	}
}

// View opens the workbook and runs fn against it without saving.
func (d *Database) View(fn func(f *excelize.File) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.open()
	if err != nil {
		return err
	}
	defer f.Close()

	return fn(f)
}

// Update opens the workbook, runs fn, and saves the result back to disk.
func (d *Database) Update(fn func(f *excelize.File) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}

	if err := f.SaveAs(d.path); err != nil {
		return errors.Wrap(err, "saving workbook")
	}

	return nil
}

// open loads the workbook from disk, creating a fresh one with the
// attendance sheet when the file does not exist yet. The campus reference
// sheet is never created here: a missing reference table is a configuration
// error the campus repository reports.
func (d *Database) open() (*excelize.File, error) {
	if _, err := os.Stat(d.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", d.AttendanceSheet); err != nil {
			return nil, errors.Wrap(err, "naming attendance sheet")
		}
		return f, nil
	}

	f, err := excelize.OpenFile(d.path)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}

	if idx, err := f.GetSheetIndex(d.AttendanceSheet); err == nil && idx == -1 {
		if _, err := f.NewSheet(d.AttendanceSheet); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "creating attendance sheet")
		}
	}

	return f, nil
}
