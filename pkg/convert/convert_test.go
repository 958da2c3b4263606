package convert

import (
	"strings"
	"testing"

	"recipeclip/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipe() domain.Recipe {
	return domain.Recipe{
		Title: "Tomato Soup",
		Ingredients: []domain.Ingredient{
			{Name: "tomatoes", Amount: "6", Unit: "large", Preparation: "chopped"},
			{Name: "basil", DisplayText: "a handful of basil"},
		},
		Instructions: []string{"Simmer the tomatoes.", "Blend until smooth."},
		SourceURL:    "https://example.com/tomato-soup",
		Metadata: &domain.RecipeMetadata{
			Author:    "Jane Baker",
			Servings:  "4",
			PrepTime:  10,
			CookTime:  25,
			TotalTime: 35,
		},
	}
}

func TestIngredientLine(t *testing.T) {
	assert.Equal(t, "a handful of basil", IngredientLine(domain.Ingredient{
		Name:        "basil",
		DisplayText: "a handful of basil",
	}))
	assert.Equal(t, "6 large tomatoes, chopped", IngredientLine(domain.Ingredient{
		Name: "tomatoes", Amount: "6", Unit: "large", Preparation: "chopped",
	}))
	assert.Equal(t, "salt", IngredientLine(domain.Ingredient{Name: "salt"}))
}

func TestConvertText(t *testing.T) {
	out, err := Convert(sampleRecipe(), domain.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", out.ContentType)
	assert.Equal(t, ".txt", out.Extension)

	text := string(out.Data)
	assert.Contains(t, text, "Tomato Soup")
	assert.Contains(t, text, "* a handful of basil")
	assert.Contains(t, text, "1. Simmer the tomatoes.")
	assert.Contains(t, text, "Prep time: 10 min")
	assert.Contains(t, text, "Source: https://example.com/tomato-soup")
}

func TestConvertMarkdown(t *testing.T) {
	out, err := Convert(sampleRecipe(), domain.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, ".md", out.Extension)

	md := string(out.Data)
	assert.True(t, strings.HasPrefix(md, "# Tomato Soup"))
	assert.Contains(t, md, "## Ingredients")
	assert.Contains(t, md, "- a handful of basil")
	assert.Contains(t, md, "2. Blend until smooth.")
	assert.Contains(t, md, "[Source](https://example.com/tomato-soup)")
}

func TestConvertSVG(t *testing.T) {
	recipe := sampleRecipe()
	recipe.Title = `Mac & "Cheese" <Deluxe>`

	out, err := Convert(recipe, domain.FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", out.ContentType)

	svg := string(out.Data)
	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.Contains(t, svg, "Mac &amp; &quot;Cheese&quot; &lt;Deluxe&gt;")
	assert.NotContains(t, svg, `<Deluxe>`, "title must be escaped")
}

func TestConvertPDF(t *testing.T) {
	out, err := Convert(sampleRecipe(), domain.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, strings.HasPrefix(string(out.Data), "%PDF"), "output must carry the PDF signature")
}

func TestConvertRasterFormats(t *testing.T) {
	png, err := Convert(sampleRecipe(), domain.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", png.ContentType)
	assert.True(t, strings.HasPrefix(string(png.Data), "\x89PNG"))

	jpg, err := Convert(sampleRecipe(), domain.FormatJPEG)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", jpg.ContentType)
	assert.True(t, strings.HasPrefix(string(jpg.Data), "\xff\xd8\xff"))

	webp, err := Convert(sampleRecipe(), domain.FormatWEBP)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", webp.ContentType)
	assert.True(t, strings.HasPrefix(string(webp.Data), "RIFF"))
	assert.Contains(t, string(webp.Data[:12]), "WEBP")
}

func TestConvertJSONRejected(t *testing.T) {
	_, err := Convert(sampleRecipe(), domain.FormatJSON)
	require.ErrorIs(t, err, domain.ErrJSONFormatRejected)
}

func TestConvertUnknownFormat(t *testing.T) {
	_, err := Convert(sampleRecipe(), domain.OutputFormat("docx"))
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
