package parser

import (
	"fmt"
	"testing"

	"recipeclip/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageWithJSONLD(jsonLD string) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html><head>
<script type="application/ld+json">%s</script>
</head><body><h1>A recipe blog</h1></body></html>`, jsonLD))
}

func TestParseSimpleRecipe(t *testing.T) {
	page := pageWithJSONLD(`{
		"@context": "https://schema.org",
		"@type": "Recipe",
		"name": "Banana Bread",
		"author": {"@type": "Person", "name": "Jane Baker"},
		"image": "https://example.com/banana.jpg",
		"recipeYield": "8",
		"prepTime": "PT15M",
		"cookTime": "PT1H",
		"totalTime": "PT1H15M",
		"recipeCategory": ["Dessert", "Baking"],
		"recipeIngredient": ["3 ripe bananas", "2 cups flour"],
		"recipeInstructions": [
			{"@type": "HowToStep", "text": "Mash the bananas."},
			{"@type": "HowToStep", "text": "Mix in the flour."}
		]
	}`)

	recipe, err := NewScraper().Parse(page, "https://example.com/banana-bread")
	require.NoError(t, err)

	assert.Equal(t, "Banana Bread", recipe.Title)
	assert.Equal(t, "https://example.com/banana-bread", recipe.SourceURL)
	assert.Equal(t, "https://example.com/banana.jpg", recipe.Image)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "3 ripe bananas", recipe.Ingredients[0].DisplayText)
	assert.Equal(t, []string{"Mash the bananas.", "Mix in the flour."}, recipe.Instructions)

	require.NotNil(t, recipe.Metadata)
	assert.Equal(t, "Jane Baker", recipe.Metadata.Author)
	assert.Equal(t, "8", recipe.Metadata.Servings)
	assert.Equal(t, 15, recipe.Metadata.PrepTime)
	assert.Equal(t, 60, recipe.Metadata.CookTime)
	assert.Equal(t, 75, recipe.Metadata.TotalTime)
	assert.Equal(t, []string{"Dessert", "Baking"}, recipe.Metadata.Categories)
}

func TestParseGraphWrappedRecipe(t *testing.T) {
	page := pageWithJSONLD(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "Food Blog"},
			{
				"@type": ["Recipe", "NewsArticle"],
				"name": "Quick Salad",
				"recipeIngredient": ["lettuce"],
				"recipeInstructions": "Wash the lettuce.\nToss with dressing."
			}
		]
	}`)

	recipe, err := NewScraper().Parse(page, "https://example.com/salad")
	require.NoError(t, err)
	assert.Equal(t, "Quick Salad", recipe.Title)
	assert.Equal(t, []string{"Wash the lettuce.", "Toss with dressing."}, recipe.Instructions)
}

func TestParseHowToSections(t *testing.T) {
	page := pageWithJSONLD(`{
		"@type": "Recipe",
		"name": "Layer Cake",
		"recipeIngredient": ["cake"],
		"recipeInstructions": [
			{
				"@type": "HowToSection",
				"name": "Batter",
				"itemListElement": [
					{"@type": "HowToStep", "text": "Cream the butter."},
					{"@type": "HowToStep", "text": "Fold in the flour."}
				]
			},
			{"@type": "HowToStep", "text": "Bake for 30 minutes."}
		]
	}`)

	recipe, err := NewScraper().Parse(page, "https://example.com/cake")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Cream the butter.",
		"Fold in the flour.",
		"Bake for 30 minutes.",
	}, recipe.Instructions)
}

func TestParseSkipsBrokenScriptBlocks(t *testing.T) {
	page := []byte(`<html><head>
<script type="application/ld+json">{not valid json</script>
<script type="application/ld+json">{"@type": "Recipe", "name": "Toast", "recipeInstructions": "Toast the bread."}</script>
</head><body></body></html>`)

	recipe, err := NewScraper().Parse(page, "https://example.com/toast")
	require.NoError(t, err)
	assert.Equal(t, "Toast", recipe.Title)
}

func TestParseNoMarkup(t *testing.T) {
	page := []byte(`<html><body><h1>Just a blog post about dinner</h1></body></html>`)

	_, err := NewScraper().Parse(page, "https://example.com/post")
	require.ErrorIs(t, err, domain.ErrRecipeParsing)
}

func TestParseRecipeWithoutTitle(t *testing.T) {
	page := pageWithJSONLD(`{"@type": "Recipe", "recipeIngredient": ["salt"]}`)

	_, err := NewScraper().Parse(page, "https://example.com/untitled")
	require.ErrorIs(t, err, domain.ErrRecipeParsing)
}

func TestParseEmptyBody(t *testing.T) {
	_, err := NewScraper().Parse([]byte("   "), "https://example.com/empty")
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestParseNonHTML(t *testing.T) {
	_, err := NewScraper().Parse([]byte(`{"just": "json"}`), "https://example.com/api")
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"PT15M", 15},
		{"PT1H", 60},
		{"PT1H30M", 90},
		{"P1DT2H", 1560},
		{"PT90S", 1},
		{"", 0},
		{"tomorrow", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, durationMinutes(tt.input), "input %q", tt.input)
	}
}
