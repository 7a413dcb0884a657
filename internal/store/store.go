// Package store persists reminder records keyed by id.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/pathakanu/taskDigest/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStoreOperationFailed wraps every error returned by the underlying database.
var ErrStoreOperationFailed = errors.New("store operation failed")

// Filter narrows a Scan. Nil fields match every record.
type Filter struct {
	Recipient *string
	DueDate   *string
}

// ByRecipient matches records addressed to recipient.
func ByRecipient(recipient string) Filter {
	return Filter{Recipient: &recipient}
}

// DueOn matches records whose due date equals date.
func DueOn(date string) Filter {
	return Filter{DueDate: &date}
}

// RecordStore is durable keyed storage for reminders.
type RecordStore interface {
	// Put inserts the record or replaces every field of the record with the same id.
	Put(ctx context.Context, r *model.Reminder) error
	// Delete removes the record with id. Missing ids are not an error.
	Delete(ctx context.Context, id string) error
	// Scan returns all records matching f in insertion order.
	Scan(ctx context.Context, f Filter) ([]model.Reminder, error)
}

// GormStore is a RecordStore backed by a GORM connection.
type GormStore struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New returns a store using db.
func New(db *gorm.DB, logger *zap.SugaredLogger) *GormStore {
	return &GormStore{db: db, logger: logger}
}

func (s *GormStore) Put(ctx context.Context, r *model.Reminder) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoUpdates: clause.AssignmentColumns([]string{"email_id", "date_to_publish", "message"}),
		}).
		Create(r).Error
	if err != nil {
		s.logger.Errorw("put failed", "operation", "put", "id", r.ID, "recipient", r.Recipient, "error", err)
		return wrap("put", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Where("uuid = ?", id).Delete(&model.Reminder{}).Error
	if err != nil {
		s.logger.Errorw("delete failed", "operation", "delete", "id", id, "error", err)
		return wrap("delete", err)
	}
	return nil
}

func (s *GormStore) Scan(ctx context.Context, f Filter) ([]model.Reminder, error) {
	query := s.db.WithContext(ctx).Model(&model.Reminder{})
	if f.Recipient != nil {
		query = query.Where("email_id = ?", *f.Recipient)
	}
	if f.DueDate != nil {
		query = query.Where("date_to_publish = ?", *f.DueDate)
	}

	records := []model.Reminder{}
	if err := query.Order("created_at ASC, uuid ASC").Find(&records).Error; err != nil {
		s.logger.Errorw("scan failed", "operation", "scan", "error", err)
		return nil, wrap("scan", err)
	}
	return records, nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreOperationFailed, op, err)
}
