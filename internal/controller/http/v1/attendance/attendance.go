package attendance

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/entity"
	"oza-attendance/backend/internal/pkg/config"
	"oza-attendance/backend/internal/pkg/timeutil"
	"oza-attendance/backend/internal/service"
)

type Controller struct {
	attendance Attendance
	campuses   Campuses

	apiKey         string
	location       *time.Location
	checkInBaseURL string
}

func NewController(attendance Attendance, campuses Campuses, cfg *config.Config) *Controller {
	return &Controller{
		attendance:     attendance,
		campuses:       campuses,
		apiKey:         cfg.APIKey,
		location:       cfg.Location(),
		checkInBaseURL: cfg.CheckInBaseURL,
	}
}

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Record is the interactive check-in/check-out path: one start or end
// timestamp for (today, teacher), write-once.
func (uc Controller) Record(c *web.Context) error {
	var request RecordRequest
	if err := c.Bind(&request); err != nil {
		return c.RespondError(err)
	}

	teacherID := strings.TrimSpace(request.TeacherID)
	if teacherID == "" {
		return c.RespondError(web.NewRequestError(errors.New("teacher id required"), http.StatusBadRequest))
	}

	field := entity.TimeField(request.Action)
	if field != entity.FieldStart && field != entity.FieldEnd {
		return c.RespondError(web.NewRequestError(errors.New("invalid action"), http.StatusBadRequest))
	}

	campus, err := uc.campuses.GetByID(c.Ctx, request.CampusID)
	if err != nil {
		return c.RespondError(err)
	}

	now := time.Now().In(uc.location)
	dateStr := now.Format("2006/01/02")
	timeStr := now.Format("15:04:05")

	unlock, err := uc.attendance.Lock(c.Ctx, dateStr, teacherID)
	if err != nil {
		return c.RespondError(err)
	}
	defer unlock()

	if err := uc.attendance.EnsureHeader(c.Ctx); err != nil {
		return c.RespondError(err)
	}

	row, found, err := uc.attendance.FindRow(c.Ctx, dateStr, teacherID)
	if err != nil {
		return c.RespondError(err)
	}
	if !found {
		row, err = uc.attendance.CreateRow(c.Ctx, dateStr, teacherID, campus)
		if err != nil {
			return c.RespondError(err)
		}
	}

	if err := uc.attendance.WriteTimeField(c.Ctx, row, field, timeStr, campus); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": RecordResponse{
			Date:   dateStr,
			Time:   timeStr,
			Action: request.Action,
			Campus: campus,
		},
		"status": true,
	}, http.StatusOK)
}

// Import is the scraper's bulk webhook. Responses stay plain text because
// that is the contract the scraper checks; authentication and parse failures
// short-circuit the batch, per-item problems just drop the item.
func (uc Controller) Import(c *web.Context) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return c.RespondText(http.StatusBadRequest, "Invalid JSON")
	}

	var request ImportRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return c.RespondText(http.StatusBadRequest, "Invalid JSON")
	}

	key := request.APIKey
	if key == "" {
		key = c.Request.Header.Get("X-GAS-KEY")
	}
	if uc.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(uc.apiKey)) != 1 {
		return c.RespondText(http.StatusForbidden, "Forbidden")
	}

	if len(request.Rows) == 0 {
		return c.RespondText(http.StatusOK, "No rows")
	}

	if err := uc.attendance.EnsureHeader(c.Ctx); err != nil {
		return c.RespondError(err)
	}

	accepted, err := uc.filterRows(c, request.Rows)
	if err != nil {
		return c.RespondError(err)
	}

	if len(accepted) == 0 {
		return c.RespondText(http.StatusOK, "No appendable rows")
	}

	if err := uc.attendance.AppendBulkRows(c.Ctx, accepted); err != nil {
		return c.RespondError(err)
	}

	return c.RespondText(http.StatusOK, fmt.Sprintf("ok:%d", len(accepted)))
}

// filterRows drops items missing a required field and items whose
// (date, teacher, start) slot already exists in the batch or in the store.
func (uc Controller) filterRows(c *web.Context, items []ImportItem) ([]entity.AttendanceRow, error) {
	var accepted []entity.AttendanceRow
	seen := map[string]struct{}{}

	for _, item := range items {
		date := strings.TrimSpace(item.Date)
		teacherID := strings.TrimSpace(item.TeacherID)
		start := timeutil.Normalize(item.StartTime)
		if date == "" || teacherID == "" || start == "" {
			continue
		}

		day := timeutil.CanonicalDate(date)
		dedupKey := day + "|" + teacherID + "|" + start
		if _, dup := seen[dedupKey]; dup {
			continue
		}

		exists, err := uc.attendance.HasSlot(c.Ctx, day, teacherID, start)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		seen[dedupKey] = struct{}{}

		end := timeutil.Normalize(item.EndTime)
		if end == "" {
			end = timeutil.DeriveEnd(start)
		}

		workType := strings.TrimSpace(item.WorkType)
		if workType == "" {
			workType = defaultWorkType
		}

		accepted = append(accepted, entity.AttendanceRow{
			Date:         timeutil.DisplayDate(date),
			Day:          day,
			TeacherID:    teacherID,
			StartTime:    start,
			EndTime:      end,
			CampusID:     strings.TrimSpace(item.SchoolID),
			CampusName:   strings.TrimSpace(item.SchoolName),
			Category:     workType,
			TeacherName:  strings.TrimSpace(item.TeacherName),
			StudentCount: item.StudentCount,
			Source:       entity.SourceScraper,
		})
	}

	return accepted, nil
}

// Export streams the month's log as an xlsx workbook or a PDF.
func (uc Controller) Export(c *web.Context) error {
	month := strings.ReplaceAll(strings.TrimSpace(c.Query("month")), "/", "-")
	if !monthRe.MatchString(month) {
		return c.RespondError(web.NewRequestError(errors.New("month parameter is required as YYYY-MM"), http.StatusBadRequest))
	}

	rows, err := uc.attendance.MonthRows(c.Ctx, month)
	if err != nil {
		return c.RespondError(err)
	}

	format := c.DefaultQuery("format", "xlsx")
	switch format {
	case "xlsx":
		data, err := service.MonthlyWorkbook(month, rows)
		if err != nil {
			return c.RespondError(err)
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%s.xlsx", month))
		return c.RespondData(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	case "pdf":
		data, err := service.MonthlyPDF(month, rows)
		if err != nil {
			return c.RespondError(err)
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%s.pdf", month))
		return c.RespondData(http.StatusOK, "application/pdf", data)

	default:
		return c.RespondError(web.NewRequestError(errors.Errorf("unknown export format %q", format), http.StatusBadRequest))
	}
}

// QRCode renders the kiosk check-in link for one teacher as a PNG.
func (uc Controller) QRCode(c *web.Context) error {
	teacherID := strings.TrimSpace(c.Query("teacher_id"))
	if teacherID == "" {
		return c.RespondError(web.NewRequestError(errors.New("teacher id required"), http.StatusBadRequest))
	}

	link := uc.checkInBaseURL + "?teacher_id=" + url.QueryEscape(teacherID)

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return c.RespondError(errors.Wrap(err, "encoding qr code"))
	}

	return c.RespondData(http.StatusOK, "image/png", png)
}
