package cache

import (
	"context"
	"testing"

	"recipeclip/domain"
	"recipeclip/entities"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ClippedRecipe{}, &entities.UserRecipe{}))
	return db
}

func testRecipe(title string) domain.Recipe {
	return domain.Recipe{
		Title:        title,
		Ingredients:  []domain.Ingredient{{Name: "flour", Amount: "2", Unit: "cups"}},
		Instructions: []string{"mix", "bake"},
	}
}

func TestStoreAndLookup(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	hash := HashContent([]byte("page"))
	stored, err := repo.Store(ctx, "https://example.com/cake", testRecipe("Cake"), &hash, domain.ParsedWithScraper)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "example.com", stored.SourceDomain)

	found, err := repo.Lookup(ctx, "https://example.com/cake", "")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Cake", found.Recipe.Title)
	assert.Equal(t, stored.ID, found.ID)
	require.NotNil(t, found.ContentHash)
	assert.Equal(t, hash, *found.ContentHash)
}

func TestLookupMissReturnsNil(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))

	found, err := repo.Lookup(context.Background(), "https://example.com/nope", "")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestLookupMethodFilter(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Store(ctx, "https://example.com/cake", testRecipe("Cake"), nil, domain.ParsedWithScraper)
	require.NoError(t, err)

	found, err := repo.Lookup(ctx, "https://example.com/cake", domain.ParsedWithLLM)
	require.NoError(t, err)
	assert.Nil(t, found, "scraper row must not satisfy an llm-only lookup")

	found, err = repo.Lookup(ctx, "https://example.com/cake", domain.ParsedWithScraper)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestStoreConflict(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Store(ctx, "https://example.com/cake", testRecipe("Cake"), nil, domain.ParsedWithScraper)
	require.NoError(t, err)

	_, err = repo.Store(ctx, "https://example.com/cake", testRecipe("Cake v2"), nil, domain.ParsedWithScraper)
	require.ErrorIs(t, err, domain.ErrCacheConflict)
}

func TestUpdateMiss(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))

	_, err := repo.Update(context.Background(), "https://example.com/nope", testRecipe("X"), nil, domain.ParsedWithScraper)
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	stored, err := repo.Store(ctx, "https://example.com/cake", testRecipe("Cake"), nil, domain.ParsedWithScraper)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "https://example.com/cake", testRecipe("Better Cake"), nil, domain.ParsedWithLLM)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, updated.ID, "update must keep the row id")
	assert.Equal(t, "Better Cake", updated.Recipe.Title)
	assert.Equal(t, domain.ParsedWithLLM, updated.ParsingMethod)
}

func TestUpsertInsertsThenUpdates(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Upsert(ctx, "https://example.com/cake", testRecipe("Cake"), nil, domain.ParsedWithScraper)
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, "https://example.com/cake", testRecipe("Cake v2"), nil, domain.ParsedWithScraper)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Cake v2", second.Recipe.Title)
}

func TestSyntheticKeyDomain(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	key := SyntheticKey("upload", []byte("file-bytes"))
	stored, err := repo.Store(ctx, key, testRecipe("Scan"), nil, domain.ParsedWithLLMImage)
	require.NoError(t, err)
	assert.Equal(t, "upload", stored.SourceDomain)
}

func TestSyntheticKeyDeterministic(t *testing.T) {
	a := SyntheticKey("manual", []byte("same"))
	b := SyntheticKey("manual", []byte("same"))
	c := SyntheticKey("manual", []byte("other"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^manual://[0-9a-f]{16}$`, a)
}
