package domain

import (
	"errors"
)

var (
	MessageSuccessSaveRecipe   = "recipe saved successfully"
	MessageSuccessGetRecipes   = "recipes retrieved successfully"
	MessageSuccessGetRecipe    = "recipe retrieved successfully"
	MessageSuccessUpdateRecipe = "recipe updated successfully"
	MessageSuccessDeleteRecipe = "recipe deleted successfully"

	MessageFailedSaveRecipe   = "failed to save recipe"
	MessageFailedGetRecipes   = "failed to retrieve recipes"
	MessageFailedGetRecipe    = "failed to retrieve recipe"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedDeleteRecipe = "failed to delete recipe"

	ErrUserRecipeNotFound = errors.New("recipe not found")
	ErrMissingSavePayload = errors.New("recipe payload required for this source type")
)

// SourceType tells the save endpoint where a recipe came from.
type SourceType string

const (
	SourceWeb    SourceType = "web"
	SourceUpload SourceType = "upload"
	SourceManual SourceType = "manual"
)

type (
	SaveRecipeRequest struct {
		URL            string     `json:"url" validate:"omitempty,url"`
		SourceType     SourceType `json:"source_type" validate:"omitempty,oneof=web upload manual"`
		Recipe         *Recipe    `json:"recipe"`
		Timeout        int        `json:"timeout" validate:"omitempty,min=1,max=60"`
		UseLLMFallback bool       `json:"use_llm_fallback"`
		Tags           []string   `json:"tags" validate:"omitempty,max=20"`
		Notes          string     `json:"notes" validate:"omitempty,max=2000"`
	}

	SaveRecipeResponse struct {
		UserRecipeID  string        `json:"user_recipe_id"`
		RecipeID      string        `json:"recipe_id"`
		SourceURL     string        `json:"source_url"`
		ParsingMethod ParsingMethod `json:"parsing_method"`
		CreatedAt     string        `json:"created_at"`
		IsNew         bool          `json:"is_new"`
	}

	UserRecipeSummary struct {
		ID         string   `json:"id"`
		SourceURL  string   `json:"source_url"`
		Title      string   `json:"title"`
		ImageURL   string   `json:"image_url,omitempty"`
		IsModified bool     `json:"is_modified"`
		Tags       []string `json:"tags,omitempty"`
		CreatedAt  string   `json:"created_at"`
		UpdatedAt  string   `json:"updated_at"`
	}

	ListUserRecipesResponse struct {
		Recipes    []UserRecipeSummary `json:"recipes"`
		NextCursor string              `json:"next_cursor,omitempty"`
		HasMore    bool                `json:"has_more"`
	}

	RecipeLineage struct {
		RecipeID string `json:"recipe_id"`
		ParsedAt string `json:"parsed_at"`
	}

	GetUserRecipeResponse struct {
		ID            string        `json:"id"`
		SourceURL     string        `json:"source_url"`
		ParsingMethod ParsingMethod `json:"parsing_method"`
		IsModified    bool          `json:"is_modified"`
		Notes         string        `json:"notes,omitempty"`
		Tags          []string      `json:"tags,omitempty"`
		Recipe        Recipe        `json:"recipe"`
		Lineage       RecipeLineage `json:"lineage"`
		CreatedAt     string        `json:"created_at"`
		UpdatedAt     string        `json:"updated_at"`
	}

	UpdateUserRecipeRequest struct {
		Recipe *Recipe   `json:"recipe"`
		Tags   *[]string `json:"tags" validate:"omitempty,max=20"`
		Notes  *string   `json:"notes" validate:"omitempty,max=2000"`
	}

	UpdateUserRecipeResponse struct {
		ID         string `json:"id"`
		IsModified bool   `json:"is_modified"`
		UpdatedAt  string `json:"updated_at"`
	}
)
