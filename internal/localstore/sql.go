package localstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"careerhub/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one row of the local_entries table.
type Entry struct {
	Namespace string     `gorm:"primaryKey;size:64"`
	Key       string     `gorm:"primaryKey;size:191"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM.
func (Entry) TableName() string {
	return "local_entries"
}

// slogGormLogger routes GORM warnings and errors to the application logger.
type slogGormLogger struct {
	logger *slog.Logger
	level  logger.LogLevel
	slow   time.Duration
}

func (l *slogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	n := *l
	n.level = level
	return &n
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.logger.ErrorContext(ctx, "GORM query error",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
	case l.slow != 0 && elapsed > l.slow && l.level >= logger.Warn:
		sql, rows := fc()
		l.logger.WarnContext(ctx, "GORM slow query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

// SQLStore keeps values in a relational table through GORM.
type SQLStore struct {
	db     *gorm.DB
	driver string
	now    func() time.Time
}

// OpenSQLStore opens a sqlite file or postgres DSN and migrates the entries table.
func OpenSQLStore(driver, dsn string) (*SQLStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: &slogGormLogger{
			logger: observability.GlobalLogger.Logger,
			level:  logger.Warn,
			slow:   200 * time.Millisecond,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s local store: %w", driver, err)
	}
	return NewSQLStore(db, driver, true)
}

// NewSQLStore wraps an open connection, optionally running AutoMigrate.
func NewSQLStore(db *gorm.DB, driver string, migrate bool) (*SQLStore, error) {
	if migrate {
		if err := db.AutoMigrate(&Entry{}); err != nil {
			return nil, fmt.Errorf("failed to migrate local store: %w", err)
		}
	}
	return &SQLStore{db: db, driver: driver, now: time.Now}, nil
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string) (value string, err error) {
	ctx, span := observability.TraceStoreOperation(ctx, s.driver, "get")
	defer func() { observability.EndSpan(span, err) }()

	var e Entry
	err = s.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		observability.LocalStoreErrors.WithLabelValues(s.driver, "get").Inc()
		return "", err
	}
	if e.ExpiresAt != nil && !s.now().Before(*e.ExpiresAt) {
		_ = s.Delete(ctx, namespace, key)
		return "", ErrNotFound
	}
	return e.Value, nil
}

func (s *SQLStore) Set(ctx context.Context, namespace, key, value string, ttl time.Duration) (err error) {
	ctx, span := observability.TraceStoreOperation(ctx, s.driver, "set")
	defer func() { observability.EndSpan(span, err) }()

	e := Entry{Namespace: namespace, Key: key, Value: value, UpdatedAt: s.now()}
	if ttl > 0 {
		exp := s.now().Add(ttl)
		e.ExpiresAt = &exp
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		observability.LocalStoreErrors.WithLabelValues(s.driver, "set").Inc()
	}
	return err
}

func (s *SQLStore) Delete(ctx context.Context, namespace, key string) (err error) {
	ctx, span := observability.TraceStoreOperation(ctx, s.driver, "delete")
	defer func() { observability.EndSpan(span, err) }()

	err = s.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		Delete(&Entry{}).Error
	if err != nil {
		observability.LocalStoreErrors.WithLabelValues(s.driver, "delete").Inc()
	}
	return err
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&Entry{})
	return res.RowsAffected, res.Error
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
