package userrecipe

import (
	"context"
	"errors"
	"time"

	"recipeclip/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRecipeRepository interface {
		// Save creates the (user, recipe) row, restores it if it was
		// soft-deleted, or returns the live row unchanged. The bool reports
		// whether a new row was created; restores count as existing rows.
		Save(ctx context.Context, row *entities.UserRecipe) (*entities.UserRecipe, bool, error)
		// List returns one cursor page ordered by created_at desc. The
		// cursor is the id of the last row of the previous page. The bool
		// reports whether more rows follow the page.
		List(ctx context.Context, userID, cursor string, limit int, modifiedOnly bool) ([]entities.UserRecipe, bool, error)
		GetByID(ctx context.Context, userID, id string) (*entities.UserRecipe, error)
		Update(ctx context.Context, row *entities.UserRecipe) error
		SoftDelete(ctx context.Context, userID, id string) error
	}

	userRecipeRepository struct {
		db *gorm.DB
	}
)

func NewUserRecipeRepository(db *gorm.DB) UserRecipeRepository {
	return &userRecipeRepository{db: db}
}

func (r *userRecipeRepository) Save(ctx context.Context, row *entities.UserRecipe) (*entities.UserRecipe, bool, error) {
	var existing entities.UserRecipe
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", row.UserID, row.RecipeID).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err == nil {
		if existing.DeletedAt == nil {
			// Already saved, idempotent.
			return &existing, false, nil
		}
		// Restore keeps the original row id and the user's copy of the
		// recipe. Tags and notes only change when the new save carries them.
		existing.DeletedAt = nil
		if row.Notes != nil {
			existing.Notes = row.Notes
		}
		if row.Tags != nil {
			existing.Tags = row.Tags
		}
		existing.UpdatedAt = time.Now()
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	row.ID = uuid.New().String()
	now := time.Now()
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func (r *userRecipeRepository) List(ctx context.Context, userID, cursor string, limit int, modifiedOnly bool) ([]entities.UserRecipe, bool, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NULL", userID)
	if modifiedOnly {
		query = query.Where("is_modified = ?", true)
	}

	if cursor != "" {
		var anchor entities.UserRecipe
		err := r.db.WithContext(ctx).
			Select("id", "created_at").
			Where("id = ? AND user_id = ?", cursor, userID).
			First(&anchor).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			anchor.CreatedAt, anchor.CreatedAt, anchor.ID,
		)
	}

	var rows []entities.UserRecipe
	if err := query.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&rows).Error; err != nil {
		return nil, false, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	return rows, hasMore, nil
}

func (r *userRecipeRepository) GetByID(ctx context.Context, userID, id string) (*entities.UserRecipe, error) {
	var row entities.UserRecipe
	err := r.db.WithContext(ctx).
		Preload("SourceRecipe").
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", id, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userRecipeRepository) Update(ctx context.Context, row *entities.UserRecipe) error {
	row.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *userRecipeRepository) SoftDelete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.UserRecipe{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", id, userID).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
