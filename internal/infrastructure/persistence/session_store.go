package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKVStore implements session.Storage on the session_entries table
type GormKVStore struct {
	db *gorm.DB
}

// NewGormKVStore creates a new GormKVStore
func NewGormKVStore(db *gorm.DB) *GormKVStore {
	return &GormKVStore{db: db}
}

// Get implements session.Storage
func (s *GormKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.SessionEntryModel
	if err := s.db.WithContext(ctx).Where("session_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set implements session.Storage as an upsert. Every other key of the same
// session is stamped with the same updated_at, so retention treats a session as
// one unit and PurgeBefore never leaves part of it behind.
func (s *GormKVStore) Set(ctx context.Context, key, value string) error {
	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.SessionEntryModel{Key: key, Value: value, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entry).Error; err != nil {
			return err
		}

		prefix, ok := sessionPrefix(key)
		if !ok {
			return nil
		}
		return tx.Model(&models.SessionEntryModel{}).
			Where("session_key LIKE ? ESCAPE '!' AND session_key <> ?", escapeLike(prefix)+"%", key).
			Update("updated_at", now).Error
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete implements session.Storage
func (s *GormKVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("session_key IN ?", keys).Delete(&models.SessionEntryModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// PurgeBefore removes entries not written since cutoff
func (s *GormKVStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&models.SessionEntryModel{})
	return result.RowsAffected, result.Error
}

// sessionPrefix returns the "session:<id>:" part of a namespaced key
func sessionPrefix(key string) (string, bool) {
	i := strings.LastIndex(key, ":")
	if i <= 0 {
		return "", false
	}
	return key[:i+1], true
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ session.Storage = (*GormKVStore)(nil)
