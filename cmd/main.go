package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/commands"
	"oza-attendance/backend/internal/pkg/config"
	"oza-attendance/backend/internal/pkg/repository/postgresql"
	"oza-attendance/backend/internal/pkg/repository/sheetdb"
	"oza-attendance/backend/internal/router"
)

func main() {
	cfg, err := config.NewConfig(os.Args[1:])
	if errors.Is(err, config.ErrHelpWanted) {
		return
	}
	if err != nil {
		log.Fatalln("loading config:", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalln("building logger:", err)
	}
	defer logger.Sync()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.APIKey == "" {
		logger.Warn("api key is not configured; bulk import will reject every request")
	}

	var postgresDB *postgresql.Database
	if cfg.Storage == "postgres" {
		postgresDB = postgresql.New(cfg)
		if err := commands.Migrate(postgresDB); err != nil {
			logger.Fatal("migrating schema", zap.Error(err))
		}
	}

	var redisDB *redis.Client
	if cfg.RedisAddr != "" {
		redisDB = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	sheetDB := sheetdb.New(cfg)

	app := web.NewApp(logger)

	logger.Info("starting attendance backend",
		zap.String("listen", cfg.Listen),
		zap.String("storage", cfg.Storage),
	)

	if err := router.NewRouter(app, cfg, sheetDB, postgresDB, redisDB).Init(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
