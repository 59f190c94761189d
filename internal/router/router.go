package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/middleware"
	"oza-attendance/backend/internal/pkg/config"
	"oza-attendance/backend/internal/pkg/repository/postgresql"
	"oza-attendance/backend/internal/pkg/repository/sheetdb"

	pg_attendance "oza-attendance/backend/internal/repository/postgres/attendance"
	pg_campus "oza-attendance/backend/internal/repository/postgres/campus"
	sheet_attendance "oza-attendance/backend/internal/repository/sheet/attendance"
	sheet_campus "oza-attendance/backend/internal/repository/sheet/campus"

	attendance_controller "oza-attendance/backend/internal/controller/http/v1/attendance"
	campus_controller "oza-attendance/backend/internal/controller/http/v1/campus"
)

type Router struct {
	*web.App
	cfg        *config.Config
	sheetDB    *sheetdb.Database
	postgresDB *postgresql.Database
	redisDB    *redis.Client
}

func NewRouter(
	app *web.App,
	cfg *config.Config,
	sheetDB *sheetdb.Database,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
) *Router {
	return &Router{
		app,
		cfg,
		sheetDB,
		postgresDB,
		redisDB,
	}
}

func (r Router) Init() error {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CorsMiddleware(r.cfg))

	// Storage backend selection: the sheet workbook is the default; the
	// relational store serves the same contract.
	var attendanceStore attendance_controller.Attendance
	var campusDirectory attendance_controller.Campuses
	var campusList campus_controller.Campuses

	if r.cfg.Storage == "postgres" {
		attendancePostgres := pg_attendance.NewRepository(r.postgresDB)
		campusPostgres := pg_campus.NewRepository(r.postgresDB)

		attendanceStore = attendancePostgres
		campusDirectory = campusPostgres
		campusList = campusPostgres
	} else {
		attendanceSheet := sheet_attendance.NewRepository(r.sheetDB, r.redisDB)
		campusSheet := sheet_campus.NewRepository(r.sheetDB)

		attendanceStore = attendanceSheet
		campusDirectory = campusSheet
		campusList = campusSheet
	}

	// controller
	attendanceController := attendance_controller.NewController(attendanceStore, campusDirectory, r.cfg)
	campusController := campus_controller.NewController(campusList)

	r.GET("/api/v1/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// #attendance
	r.Post("/api/v1/attendance/record", attendanceController.Record)
	r.Post("/api/v1/attendance/import", attendanceController.Import)
	r.Get("/api/v1/attendance/export", attendanceController.Export)
	r.Get("/api/v1/attendance/qrcode", attendanceController.QRCode)

	// #campus
	r.Get("/api/v1/campus/list", campusController.GetList)

	return r.Run(r.cfg.Listen)
}
