package convert

import (
	"fmt"
	"strings"

	"recipeclip/domain"
)

// IngredientLine renders an ingredient as a single human-readable line,
// preferring the original source wording when it was preserved.
func IngredientLine(ing domain.Ingredient) string {
	if ing.DisplayText != "" {
		return ing.DisplayText
	}
	parts := make([]string, 0, 4)
	if ing.Amount != "" {
		parts = append(parts, ing.Amount)
	}
	if ing.Unit != "" {
		parts = append(parts, ing.Unit)
	}
	parts = append(parts, ing.Name)
	line := strings.Join(parts, " ")
	if ing.Preparation != "" {
		line += ", " + ing.Preparation
	}
	return line
}

func metadataLines(meta *domain.RecipeMetadata) []string {
	if meta == nil {
		return nil
	}
	var lines []string
	if meta.Author != "" {
		lines = append(lines, "Author: "+meta.Author)
	}
	if meta.Servings != "" {
		lines = append(lines, "Servings: "+meta.Servings)
	}
	if meta.PrepTime > 0 {
		lines = append(lines, fmt.Sprintf("Prep time: %d min", meta.PrepTime))
	}
	if meta.CookTime > 0 {
		lines = append(lines, fmt.Sprintf("Cook time: %d min", meta.CookTime))
	}
	if meta.TotalTime > 0 {
		lines = append(lines, fmt.Sprintf("Total time: %d min", meta.TotalTime))
	}
	if len(meta.Categories) > 0 {
		lines = append(lines, "Categories: "+strings.Join(meta.Categories, ", "))
	}
	return lines
}

func FormatText(recipe domain.Recipe) string {
	var b strings.Builder

	banner := strings.Repeat("=", len(recipe.Title)+4)
	b.WriteString(banner + "\n")
	b.WriteString("  " + recipe.Title + "\n")
	b.WriteString(banner + "\n\n")

	if lines := metadataLines(recipe.Metadata); len(lines) > 0 {
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Ingredients\n-----------\n")
	for _, ing := range recipe.Ingredients {
		b.WriteString("* " + IngredientLine(ing) + "\n")
	}
	b.WriteString("\nInstructions\n------------\n")
	for i, step := range recipe.Instructions {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}

	if recipe.SourceURL != "" {
		b.WriteString("\nSource: " + recipe.SourceURL + "\n")
	}
	return b.String()
}

func FormatMarkdown(recipe domain.Recipe) string {
	var b strings.Builder

	b.WriteString("# " + recipe.Title + "\n\n")

	if recipe.Image != "" {
		b.WriteString(fmt.Sprintf("![%s](%s)\n\n", recipe.Title, recipe.Image))
	}

	if lines := metadataLines(recipe.Metadata); len(lines) > 0 {
		for _, line := range lines {
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Ingredients\n\n")
	for _, ing := range recipe.Ingredients {
		b.WriteString("- " + IngredientLine(ing) + "\n")
	}
	b.WriteString("\n## Instructions\n\n")
	for i, step := range recipe.Instructions {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}

	if recipe.SourceURL != "" {
		b.WriteString(fmt.Sprintf("\n[Source](%s)\n", recipe.SourceURL))
	}
	return b.String()
}
