package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"recipeclip/domain"
	"recipeclip/entities"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CachedRecipe is a decoded row from the clipped_recipes table.
type CachedRecipe struct {
	ID            string
	SourceURL     string
	SourceDomain  string
	Recipe        domain.Recipe
	ContentHash   *string
	ParsingMethod domain.ParsingMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type (
	CacheRepository interface {
		// Lookup returns the cached recipe for sourceKey, or (nil, nil) on a
		// miss. A non-empty method restricts the match to rows parsed with
		// that method.
		Lookup(ctx context.Context, sourceKey string, method domain.ParsingMethod) (*CachedRecipe, error)
		// Store inserts a new row. Returns domain.ErrCacheConflict when the
		// source key already exists.
		Store(ctx context.Context, sourceKey string, recipe domain.Recipe, contentHash *string, method domain.ParsingMethod) (*CachedRecipe, error)
		// Update rewrites an existing row in place. Returns
		// domain.ErrCacheMiss when the source key is absent.
		Update(ctx context.Context, sourceKey string, recipe domain.Recipe, contentHash *string, method domain.ParsingMethod) (*CachedRecipe, error)
		// Upsert stores, and on a racing insert conflict retries as an
		// update. First writer wins the insert, second becomes the update.
		Upsert(ctx context.Context, sourceKey string, recipe domain.Recipe, contentHash *string, method domain.ParsingMethod) (*CachedRecipe, error)
	}

	cacheRepository struct {
		db *gorm.DB
	}
)

func NewCacheRepository(db *gorm.DB) CacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) Lookup(ctx context.Context, sourceKey string, method domain.ParsingMethod) (*CachedRecipe, error) {
	query := r.db.WithContext(ctx).Where("source_url = ?", sourceKey)
	if method != "" {
		query = query.Where("parsing_method = ?", string(method))
	}

	var row entities.ClippedRecipe
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return entityToCached(&row)
}

func (r *cacheRepository) Store(ctx context.Context, sourceKey string, recipe domain.Recipe, contentHash *string, method domain.ParsingMethod) (*CachedRecipe, error) {
	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	row := entities.ClippedRecipe{
		ID:            uuid.New().String(),
		SourceURL:     sourceKey,
		SourceDomain:  extractDomain(sourceKey),
		ParsingMethod: string(method),
		RecipeData:    string(recipeJSON),
		ContentHash:   contentHash,
		Timestamp:     entities.Timestamp{CreatedAt: now, UpdatedAt: now},
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, domain.ErrCacheConflict
		}
		return nil, err
	}

	return entityToCached(&row)
}

func (r *cacheRepository) Update(ctx context.Context, sourceKey string, recipe domain.Recipe, contentHash *string, method domain.ParsingMethod) (*CachedRecipe, error) {
	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		return nil, err
	}

	var row entities.ClippedRecipe
	if err := r.db.WithContext(ctx).Where("source_url = ?", sourceKey).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	row.RecipeData = string(recipeJSON)
	row.ContentHash = contentHash
	row.ParsingMethod = string(method)
	row.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, err
	}

	return entityToCached(&row)
}

func (r *cacheRepository) Upsert(ctx context.Context, sourceKey string, recipe domain.Recipe, contentHash *string, method domain.ParsingMethod) (*CachedRecipe, error) {
	existing, err := r.Lookup(ctx, sourceKey, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return r.Update(ctx, sourceKey, recipe, contentHash, method)
	}

	stored, err := r.Store(ctx, sourceKey, recipe, contentHash, method)
	if errors.Is(err, domain.ErrCacheConflict) {
		// Lost a racing insert for the same source, rewrite the winner's row.
		return r.Update(ctx, sourceKey, recipe, contentHash, method)
	}
	return stored, err
}

func entityToCached(row *entities.ClippedRecipe) (*CachedRecipe, error) {
	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(row.RecipeData), &recipe); err != nil {
		return nil, err
	}

	return &CachedRecipe{
		ID:            row.ID,
		SourceURL:     row.SourceURL,
		SourceDomain:  row.SourceDomain,
		Recipe:        recipe,
		ContentHash:   row.ContentHash,
		ParsingMethod: domain.ParsingMethod(row.ParsingMethod),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func extractDomain(sourceKey string) string {
	parsed, err := url.Parse(sourceKey)
	if err != nil {
		return ""
	}
	switch parsed.Scheme {
	case "http", "https":
		return parsed.Host
	}
	// Synthetic keys like "upload://<hash>" keep the scheme as the domain.
	return parsed.Scheme
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
