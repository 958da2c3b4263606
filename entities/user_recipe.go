package entities

import (
	"time"
)

// UserRecipe is a user's private copy of a clipped recipe. RecipeData may
// diverge from the source; IsModified flips exactly when the payload is
// overwritten by the owner. Deletion is soft: DeletedAt set, row kept.
type UserRecipe struct {
	ID         string     `gorm:"type:varchar(36);primary_key" json:"id"`
	UserID     string     `gorm:"index:idx_user_recipes_user;uniqueIndex:uq_user_recipe;type:text;not null" json:"user_id"`
	RecipeID   string     `gorm:"index;uniqueIndex:uq_user_recipe;type:varchar(36);not null" json:"recipe_id"`
	RecipeData string     `gorm:"type:text;not null" json:"recipe_data"`
	IsModified bool       `gorm:"not null;default:false" json:"is_modified"`
	Notes      *string    `gorm:"type:text" json:"notes,omitempty"`
	Tags       *string    `gorm:"type:text" json:"tags,omitempty"`
	DeletedAt  *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	SourceRecipe *ClippedRecipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}
