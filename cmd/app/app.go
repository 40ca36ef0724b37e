package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minhvt2810/canteen-api/internal/api"
	"github.com/minhvt2810/canteen-api/internal/config"
	"github.com/minhvt2810/canteen-api/internal/db"
	"github.com/minhvt2810/canteen-api/internal/logger"
	"github.com/minhvt2810/canteen-api/internal/repository"
	"github.com/minhvt2810/canteen-api/internal/repository/dao"
	"github.com/minhvt2810/canteen-api/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = seedStaff(postgresDB, conf.Staff); err != nil {
		return fmt.Errorf("failed to seed staff account -> %w", err)
	}

	s := api.NewServer(conf, postgresDB)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func seedStaff(postgresDB *gorm.DB, conf *config.StaffConfig) error {
	if conf == nil || conf.Email == "" {
		return nil
	}

	svc := service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(postgresDB)))

	return svc.EnsureStaff(context.Background(), conf.Email, conf.Password)
}
