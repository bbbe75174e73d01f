package model

import (
	"time"

	"github.com/google/uuid"
)

// ParseRecord is one row of the parse audit trail: a completed parse
// attempt, successful or not. Recipes themselves are not persisted here;
// the cache owns those.
type ParseRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	Source     string    `gorm:"size:16;not null;index" json:"source"`
	SourceKey  string    `gorm:"size:2048" json:"source_key"`
	Success    bool      `gorm:"not null" json:"success"`
	ErrorCode  string    `gorm:"size:32" json:"error_code"`
	CacheHit   bool      `gorm:"not null" json:"cache_hit"`
	DurationMs int64     `gorm:"not null" json:"duration_ms"`
	RecipeName string    `gorm:"size:255" json:"recipe_name"`
}

// TableName overrides the gorm table name.
func (ParseRecord) TableName() string {
	return "parse_records"
}
