package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipeclip/domain"

	"github.com/PuerkitoBio/goquery"
)

// Scraper extracts recipes from schema.org Recipe markup (JSON-LD). It is
// the fast, free extraction path attempted before any LLM call.
type Scraper struct{}

func NewScraper() *Scraper {
	return &Scraper{}
}

// Parse extracts a recipe from fetched page HTML. It returns
// domain.ErrRecipeNotFound for empty or non-HTML bodies and
// domain.ErrRecipeParsing when the page carries no usable recipe markup.
func (s *Scraper) Parse(html []byte, sourceURL string) (domain.Recipe, error) {
	if len(bytes.TrimSpace(html)) == 0 {
		return domain.Recipe{}, fmt.Errorf("%w: empty page body", domain.ErrRecipeNotFound)
	}
	if !bytes.Contains(html, []byte("<")) {
		return domain.Recipe{}, fmt.Errorf("%w: response is not HTML", domain.ErrRecipeNotFound)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("%w: %v", domain.ErrRecipeParsing, err)
	}

	var node map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return true
		}
		if found := findRecipeNode(data); found != nil {
			node = found
			return false
		}
		return true
	})

	if node == nil {
		return domain.Recipe{}, fmt.Errorf("%w: no schema.org recipe markup found in %s", domain.ErrRecipeParsing, sourceURL)
	}

	recipe := mapRecipeNode(node, sourceURL)
	if recipe.Title == "" {
		return domain.Recipe{}, fmt.Errorf("%w: recipe markup has no title", domain.ErrRecipeParsing)
	}
	return recipe, nil
}

// findRecipeNode walks a decoded JSON-LD document looking for a node whose
// @type is (or includes) Recipe. Handles top-level arrays and @graph.
func findRecipeNode(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if hasType(v, "Recipe") {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findRecipeNode(graph)
		}
	case []any:
		for _, item := range v {
			if found := findRecipeNode(item); found != nil {
				return found
			}
		}
	}
	return nil
}

func hasType(node map[string]any, want string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func mapRecipeNode(node map[string]any, sourceURL string) domain.Recipe {
	var ingredients []domain.Ingredient
	for _, text := range asStringList(node["recipeIngredient"]) {
		ingredients = append(ingredients, domain.Ingredient{Name: text, DisplayText: text})
	}

	recipe := domain.Recipe{
		Title:        asString(node["name"]),
		Ingredients:  ingredients,
		Instructions: flattenInstructions(node["recipeInstructions"]),
		SourceURL:    sourceURL,
		Image:        imageURL(node["image"]),
	}

	metadata := domain.RecipeMetadata{
		Author:     authorName(node["author"]),
		Servings:   asString(node["recipeYield"]),
		PrepTime:   durationMinutes(asString(node["prepTime"])),
		CookTime:   durationMinutes(asString(node["cookTime"])),
		TotalTime:  durationMinutes(asString(node["totalTime"])),
		Categories: asStringList(node["recipeCategory"]),
	}
	if metadata.Author != "" || metadata.Servings != "" || metadata.PrepTime > 0 ||
		metadata.CookTime > 0 || metadata.TotalTime > 0 || len(metadata.Categories) > 0 {
		recipe.Metadata = &metadata
	}

	return recipe
}

// flattenInstructions handles plain strings, lists of strings, HowToStep
// objects and nested HowToSection groups.
func flattenInstructions(value any) []string {
	var steps []string
	switch v := value.(type) {
	case string:
		for _, line := range strings.Split(v, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				steps = append(steps, line)
			}
		}
	case []any:
		for _, item := range v {
			steps = append(steps, flattenInstructions(item)...)
		}
	case map[string]any:
		if hasType(v, "HowToSection") {
			steps = append(steps, flattenInstructions(v["itemListElement"])...)
		} else if text := asString(v["text"]); text != "" {
			steps = append(steps, strings.TrimSpace(text))
		}
	}
	return steps
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		if len(v) > 0 {
			return asString(v[0])
		}
	case map[string]any:
		return asString(v["@value"])
	}
	return ""
}

func asStringList(value any) []string {
	switch v := value.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range v {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func authorName(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return asString(v["name"])
	case []any:
		if len(v) > 0 {
			return authorName(v[0])
		}
	}
	return ""
}

func imageURL(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return asString(v["url"])
	case []any:
		if len(v) > 0 {
			return imageURL(v[0])
		}
	}
	return ""
}

var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// durationMinutes converts an ISO-8601 duration like "PT1H30M" to minutes.
// Returns 0 for anything it cannot parse.
func durationMinutes(value string) int {
	match := durationPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0
	}
	days, _ := strconv.Atoi(match[1])
	hours, _ := strconv.Atoi(match[2])
	minutes, _ := strconv.Atoi(match[3])
	seconds, _ := strconv.ParseFloat(match[4], 64)
	return days*24*60 + hours*60 + minutes + int(seconds/60)
}
