package domain

// Ingredient is a single ingredient in a recipe. DisplayText preserves the
// original wording from the source page when available.
type Ingredient struct {
	Name        string `json:"name" validate:"required"`
	Amount      string `json:"amount,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Preparation string `json:"preparation,omitempty"`
	DisplayText string `json:"display_text,omitempty"`
}

// RecipeMetadata carries the optional metadata a source page may provide.
// Times are in minutes.
type RecipeMetadata struct {
	Author     string   `json:"author,omitempty"`
	Servings   string   `json:"servings,omitempty"`
	PrepTime   int      `json:"prep_time,omitempty"`
	CookTime   int      `json:"cook_time,omitempty"`
	TotalTime  int      `json:"total_time,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Recipe is the extracted recipe payload stored in the cache and in user
// copies. It is treated as an opaque value by the stores.
type Recipe struct {
	Title        string          `json:"title" validate:"required"`
	Ingredients  []Ingredient    `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	SourceURL    string          `json:"source_url,omitempty"`
	Image        string          `json:"image,omitempty"`
	Metadata     *RecipeMetadata `json:"metadata,omitempty"`
}
