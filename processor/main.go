package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"retrack-app/config"
	"retrack-app/database"
	"retrack-app/logger"
	"retrack-app/migration"
	"retrack-app/models"
	"retrack-app/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// processor imports customer return requests dropped as CSV files into
// INTAKE_DIR. Each file is imported once; processed files are moved to
// INTAKE_DIR/processed.
func main() {
	config.LoadConfig()
	log, err := logger.Init(config.LogLevel, config.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := database.EnsureDatabaseExists(config.DBName); err != nil {
		log.Fatal("ensure database", zap.Error(err))
	}
	db, err := database.Open()
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	ctx := context.Background()
	catalog, err := services.LoadProductCatalog(ctx, db)
	if err != nil {
		log.Fatal("load product catalog", zap.Error(err))
	}

	var mailer services.Mailer = services.LogMailer{}
	if config.SMTPHost != "" {
		mailer = services.NewSMTPMailer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword, config.SMTPSender)
	}

	p := &processor{
		db:      db,
		intake:  services.NewIntakeService(db, catalog),
		mailer:  mailer,
		dir:     config.IntakeDir,
		notify:  config.IntakeNotify,
		timeout: 2 * time.Minute,
	}

	log.Info("intake processor started", zap.String("dir", p.dir))
	if err := p.run(ctx); err != nil {
		log.Fatal("intake failed", zap.Error(err))
	}
	log.Info("intake processor finished")
}

type processor struct {
	db      *gorm.DB
	intake  *services.IntakeService
	mailer  services.Mailer
	dir     string
	notify  []string
	timeout time.Duration
}

func (p *processor) run(ctx context.Context) error {
	files, err := filepath.Glob(filepath.Join(p.dir, "*.csv"))
	if err != nil {
		return fmt.Errorf("list intake dir: %w", err)
	}
	for _, file := range files {
		if err := p.processFile(ctx, file); err != nil {
			// file lain tetap diproses
			logger.L().Error("intake file failed", zap.String("file", file), zap.Error(err))
		}
	}
	return nil
}

func (p *processor) processFile(ctx context.Context, path string) error {
	name := filepath.Base(path)

	var existing models.FileLog
	err := p.db.WithContext(ctx).Where("filename = ?", name).First(&existing).Error
	if err == nil {
		logger.L().Info("file already processed, skip", zap.String("file", name))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	rows, err := services.ParseIntakeCSV(f)
	f.Close()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	result, err := p.intake.Import(ctx, rows)
	if err != nil {
		return err
	}

	entry := models.FileLog{
		Filename:     name,
		DateModified: info.ModTime(),
		Imported:     result.SuccessCount,
		Skipped:      result.SkippedCount,
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}
	logger.L().Info("intake file imported",
		zap.String("file", name),
		zap.Int("imported", result.SuccessCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("errors", result.ErrorCount))

	if err := moveProcessed(path, filepath.Join(p.dir, "processed")); err != nil {
		logger.L().Warn("could not move processed file", zap.String("file", name), zap.Error(err))
	}

	if len(p.notify) > 0 {
		if err := p.mailer.Send(p.notify, "Returns imported: "+name, summaryBody(name, result)); err != nil {
			logger.L().Warn("intake summary mail failed", zap.Error(err))
		}
	}
	return nil
}

func summaryBody(name string, r *services.IntakeResult) string {
	var errs strings.Builder
	for _, msg := range r.ErrorMessages {
		errs.WriteString("<li>" + msg + "</li>")
	}
	return fmt.Sprintf(`
		<html>
			<body>
				<h3>Return requests imported</h3>
				<p>File: <strong>%s</strong></p>
				<p>Imported: %d, skipped: %d, errors: %d</p>
				<ul>%s</ul>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, name, r.SuccessCount, r.SkippedCount, r.ErrorCount, errs.String())
}

// moveProcessed renames src into dir, falling back to copy and delete when
// rename fails across devices.
func moveProcessed(src, dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	dst := filepath.Join(dir, filepath.Base(src))
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	in.Close()
	return os.Remove(src)
}
