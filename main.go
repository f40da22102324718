package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retrack-app/config"
	"retrack-app/controllers/idgen"
	"retrack-app/database"
	"retrack-app/logger"
	"retrack-app/migration"
	"retrack-app/routes"
	"retrack-app/services"
	"retrack-app/wms/realtime"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	log, err := logger.Init(config.LogLevel, config.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Pastikan database ada
	if err := database.EnsureDatabaseExists(config.DBName); err != nil {
		log.Fatal("ensure database", zap.Error(err))
	}

	db, err := database.Open()
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatal("failed to auto migrate", zap.Error(err))
	}

	if err := idgen.Init(config.SnowflakeNode); err != nil {
		log.Fatal("init snowflake", zap.Error(err))
	}

	if err := database.RunSeeders(db); err != nil {
		log.Fatal("seed database", zap.Error(err))
	}

	ctx := context.Background()
	catalog, err := services.LoadProductCatalog(ctx, db)
	if err != nil {
		log.Fatal("load product catalog", zap.Error(err))
	}

	var rdb *redis.Client
	if config.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: config.RedisAddr, Password: config.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, risk scores are not cached", zap.Error(err))
			rdb.Close()
			rdb = nil
		}
	}

	var mailer services.Mailer = services.LogMailer{}
	if config.SMTPHost != "" {
		mailer = services.NewSMTPMailer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword, config.SMTPSender)
	}

	hub := realtime.NewHub(32)
	notifications := services.NewNotificationService(db, hub, config.NotificationLimit)

	app := routes.NewApp(&routes.Services{
		DB:             db,
		Returns:        services.NewReturnService(db),
		Bags:           services.NewBagService(db, notifications),
		Reconciliation: services.NewReconciliationService(db),
		Forwarding:     services.NewForwardingService(db, notifications),
		QC:             services.NewQCService(db, catalog, notifications),
		Notifications:  notifications,
		Audit:          services.NewAuditService(db),
		Intake:         services.NewIntakeService(db, catalog),
		Export:         services.NewExportService(db),
		Issues:         services.NewIssueService(db),
		Overview:       services.NewOverviewService(db),
		Risk:           services.NewRiskService(services.NewOutlierScorer(db), rdb, config.RiskCacheTTL),
		Users:          services.NewUserService(db, mailer),
	})

	go func() {
		if err := app.Listen(":" + config.APP_PORT); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", config.APP_PORT))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
