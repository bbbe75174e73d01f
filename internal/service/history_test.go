package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ejjsharpe/cook-club-sub004/internal/mocks"
	"github.com/ejjsharpe/cook-club-sub004/internal/model"
	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

func setupHistoryDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ParseRecord{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM parse_records")
	})
	return db
}

func TestHistoryServiceRecord(t *testing.T) {
	db := setupHistoryDB(t)
	history := NewHistoryService(db)

	rec := &model.ParseRecord{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		Source:     types.InputTypeURL,
		SourceKey:  "https://example.com/cookies",
		Success:    true,
		CacheHit:   false,
		DurationMs: 1200,
		RecipeName: "Classic Chocolate Chip Cookies",
	}
	require.NoError(t, history.Record(context.Background(), rec))

	recent, err := history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, rec.ID, recent[0].ID)
	assert.Equal(t, "Classic Chocolate Chip Cookies", recent[0].RecipeName)
}

func TestParserRecordsHistory(t *testing.T) {
	db := setupHistoryDB(t)
	history := NewHistoryService(db)

	interp := &mocks.Interpreter{Recipe: cookieRecipe()}
	parser := NewParserService(&mocks.Fetcher{HTML: cookieHTML}, NewContentNormalizer(), interp, nil, NewMemoryParseCache(), history)

	ok := parser.Parse(context.Background(), types.ParseInput{Type: types.InputTypeURL, Data: "https://example.com/cookies"})
	require.True(t, ok.Success)

	bad := parser.Parse(context.Background(), types.ParseInput{Type: types.InputTypeText, Data: "short"})
	require.False(t, bad.Success)

	recent, err := history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	bySource := map[string]model.ParseRecord{}
	for _, r := range recent {
		bySource[r.Source] = r
	}

	urlRec := bySource[types.InputTypeURL]
	assert.True(t, urlRec.Success)
	assert.Equal(t, "https://example.com/cookies", urlRec.SourceKey)
	assert.Equal(t, "Classic Chocolate Chip Cookies", urlRec.RecipeName)
	assert.Empty(t, urlRec.ErrorCode)

	textRec := bySource[types.InputTypeText]
	assert.False(t, textRec.Success)
	assert.Equal(t, string(types.ErrInvalidInput), textRec.ErrorCode)
	assert.NotEmpty(t, textRec.SourceKey) // payload hash, not raw content
	assert.NotEqual(t, "short", textRec.SourceKey)
}
