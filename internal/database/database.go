package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/pathakanu/taskDigest/internal/model"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLitePath is the file used when no DATABASE_URL is configured.
const SQLitePath = "reminders.db"

// New creates a GORM database connection.
// When databaseURL is provided PostgreSQL is used, otherwise SQLite is used.
func New(databaseURL string, log *zap.SugaredLogger) (*gorm.DB, error) {
	if databaseURL != "" {
		return Open(postgres.Open(databaseURL), log)
	}
	return Open(sqlite.Open(SQLitePath), log)
}

// Open connects through the given dialector and migrates the reminder and lease tables.
func Open(dialector gorm.Dialector, log *zap.SugaredLogger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.New(gormWriter{log}, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.Reminder{}, &model.Lease{}); err != nil {
		return nil, err
	}

	logBackend(db, log)
	return db, nil
}

// OpenMemory opens a private in-memory SQLite database named after name.
func OpenMemory(name string, log *zap.SugaredLogger) (*gorm.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, time.Now().UnixNano())
	return Open(sqlite.Open(dsn), log)
}

func logBackend(db *gorm.DB, log *zap.SugaredLogger) {
	dialector := db.Dialector.Name()
	switch strings.ToLower(dialector) {
	case "postgres":
		log.Info("database: connected to PostgreSQL")
	case "sqlite":
		log.Info("database: using SQLite")
	default:
		log.Infow("database: connected", "dialector", dialector)
	}
}

// gormWriter routes gorm's printf-style log lines into zap.
type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}
