package db

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inditech/rfa/internal/log"
	"github.com/inditech/rfa/internal/models"
)

const dsnParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema. The caller owns the returned handle; release it with Close.
func Open(path string) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(path+dsnParams), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(conn); err != nil {
		sqlDB.Close()
		return nil, err
	}
	log.Debugf("database ready (sqlite %s)", path)
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Clinic{},
		&models.User{},
		&models.Language{},
		&models.Form{},
		&models.Question{},
		&models.QuestionLocalised{},
		&models.RedFlag{},
		&models.RedFlagLocalised{},
		&models.Reference{},
		&models.Video{},
		&models.RedFlagVideo{},
		&models.Option{},
		&models.OptionLocalised{},
		&models.PatientSession{},
		&models.FormSubmission{},
		&models.Answer{},
		&models.SubmissionRedFlag{},
		&models.UsageCounter{},
	)
}

func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
