package implementation

import (
	"context"
	"errors"
	"fmt"

	"kelly-ai-client/internal/model"
	"kelly-ai-client/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormSecureStore struct {
	db *gorm.DB
}

var _ contract.SecureStore = &GormSecureStore{}

func NewGormSecureStore(db *gorm.DB) *GormSecureStore {
	return &GormSecureStore{db: db}
}

func (s *GormSecureStore) Get(ctx context.Context, key string) (string, bool, error) {
	var item model.SecureItem
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("gorm get %s: %w", key, err)
	}
	return item.Value, true, nil
}

func (s *GormSecureStore) Set(ctx context.Context, key, value string) error {
	item := model.SecureItem{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("gorm set %s: %w", key, err)
	}
	return nil
}

func (s *GormSecureStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&model.SecureItem{}).Error; err != nil {
		return fmt.Errorf("gorm delete %s: %w", key, err)
	}
	return nil
}
