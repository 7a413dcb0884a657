package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/pathakanu/taskDigest/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBLocker stores leases as rows in the leases table.
type DBLocker struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDBLocker returns a locker using db.
func NewDBLocker(db *gorm.DB) *DBLocker {
	return &DBLocker{db: db, now: time.Now}
}

func (l *DBLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (string, error) {
	now := l.now().UTC()
	token := newToken()

	var acquired bool
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ? AND expires_at <= ?", name, now).Delete(&model.Lease{}).Error; err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Lease{
			Name:      name,
			Holder:    token,
			ExpiresAt: now.Add(ttl),
		})
		if res.Error != nil {
			return res.Error
		}
		acquired = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("lease: acquire %s: %w", name, err)
	}
	if !acquired {
		return "", ErrLeaseHeld
	}
	return token, nil
}

func (l *DBLocker) Release(ctx context.Context, name, token string) error {
	err := l.db.WithContext(ctx).Where("name = ? AND holder = ?", name, token).Delete(&model.Lease{}).Error
	if err != nil {
		return fmt.Errorf("lease: release %s: %w", name, err)
	}
	return nil
}
