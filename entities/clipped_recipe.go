package entities

// ClippedRecipe is one cached extraction result. SourceURL is the cache key:
// a literal URL for web clips, or a synthetic "upload://<hash>" /
// "manual://<hash>" key for uploads and manual entries.
type ClippedRecipe struct {
	ID            string  `gorm:"type:varchar(36);primary_key" json:"id"`
	SourceURL     string  `gorm:"uniqueIndex;type:text;not null" json:"source_url"`
	SourceDomain  string  `gorm:"index;type:text;not null" json:"source_domain"`
	ParsingMethod string  `gorm:"index;type:text;not null" json:"parsing_method"`
	RecipeData    string  `gorm:"type:text;not null" json:"recipe_data"`
	ContentHash   *string `gorm:"type:text" json:"content_hash,omitempty"`

	UserRecipes []UserRecipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}
