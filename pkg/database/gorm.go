package database

import (
	"log"
	"os"
	"strings"
	"time"

	"askq-be/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLiteDSN is used when no connection string is configured.
const DefaultSQLiteDSN = "file:local.db"

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true, // never print verification hashes or tokens
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// IsSQLiteDSN reports whether dsn points at a SQLite database rather than Postgres.
func IsSQLiteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "file:") ||
		strings.HasSuffix(dsn, ".db") ||
		strings.HasSuffix(dsn, ".sqlite") ||
		dsn == ":memory:"
}

func dialectorFor(dsn string) gorm.Dialector {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	if IsSQLiteDSN(dsn) {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	return NewGormDBWithLogLevel(dsn, logger.Warn)
}

func NewGormDBWithLogLevel(dsn string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger: getLogger(level),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table of the schema. It is idempotent.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}
