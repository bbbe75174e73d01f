package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/ejjsharpe/cook-club-sub004/internal/model"
)

// HistoryService persists parse records to the relational store.
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService creates a HistoryService on the given database.
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Record inserts one parse record.
func (s *HistoryService) Record(ctx context.Context, rec *model.ParseRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// Recent returns the most recent parse records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]model.ParseRecord, error) {
	var records []model.ParseRecord
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
