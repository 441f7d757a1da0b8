package messagelog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const logPrefix = "messagelog:repository"

// Store records completed calls.
type Store interface {
	Save(ctx context.Context, e *Entry) error
}

// Repository is a GORM-backed Store.
type Repository struct {
	db *gorm.DB
}

// Open connects to Postgres through GORM.
func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to open database: %w", logPrefix, err)
	}
	return conn, nil
}

// NewRepository constructs a repository over conn.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// Migrate creates or updates the message_log table.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&MessageModel{}); err != nil {
		return fmt.Errorf("%s - failed to migrate message_log: %w", logPrefix, err)
	}
	return nil
}

// Save inserts e and fills in its id and creation time.
func (r *Repository) Save(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m := toModel(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("%s - failed to save %s: %w", logPrefix, e.Operation, err)
	}
	e.ID = m.ID
	slog.Debug(fmt.Sprintf("%s - saved %s id=%s", logPrefix, e.Operation, e.ID))
	return nil
}

// Recent returns up to limit entries, newest first. An empty operation
// matches all.
func (r *Repository) Recent(ctx context.Context, operation string, limit int) ([]*Entry, error) {
	var models []MessageModel

	query := r.db.WithContext(ctx).Model(&MessageModel{})
	if operation != "" {
		query = query.Where("operation = ?", operation)
	}
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("%s - failed to list entries: %w", logPrefix, err)
	}
	return toEntries(models), nil
}

// FindByClientMsgID returns the sends tagged with id.
func (r *Repository) FindByClientMsgID(ctx context.Context, id string) ([]*Entry, error) {
	var models []MessageModel

	err := r.db.WithContext(ctx).
		Where("client_msg_id = ?", id).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("%s - failed to find %s: %w", logPrefix, id, err)
	}
	return toEntries(models), nil
}

// compile-time interface check
var _ Store = (*Repository)(nil)
