package utils

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// gormLogger keeps GORM quiet: only slow queries and real errors are
// logged, "record not found" is part of normal control flow.
type gormLogger struct {
	SlowThreshold time.Duration
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if msg != "record not found" {
		logrus.Errorf("gorm: "+msg, data...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && err.Error() != "record not found" {
		logrus.WithFields(logrus.Fields{"elapsed": elapsed, "rows": rows, "sql": sql}).Error(err)
	} else if elapsed >= l.SlowThreshold {
		logrus.WithFields(logrus.Fields{"elapsed": elapsed, "rows": rows, "sql": sql}).Warn("slow sql")
	}
}

// InitDB opens the postgres connection pool. The connection target comes
// from configuration and is read once at process start.
func InitDB(databaseURL string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         &gormLogger{SlowThreshold: 100 * time.Millisecond},
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)

	logrus.Info("database connected")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

func CloseDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
