package convert

import (
	"fmt"
	"strings"

	"recipeclip/domain"
)

const (
	svgWidth      = 800
	svgLineHeight = 26
	svgMargin     = 40
)

func svgEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}

// FormatSVG renders the recipe as a simple self-contained card.
func FormatSVG(recipe domain.Recipe) string {
	type line struct {
		text   string
		size   int
		weight string
	}

	lines := []line{{recipe.Title, 28, "bold"}}
	for _, meta := range metadataLines(recipe.Metadata) {
		lines = append(lines, line{meta, 14, "normal"})
	}
	lines = append(lines, line{"", 16, "normal"}, line{"Ingredients", 20, "bold"})
	for _, ing := range recipe.Ingredients {
		lines = append(lines, line{"• " + IngredientLine(ing), 16, "normal"})
	}
	lines = append(lines, line{"", 16, "normal"}, line{"Instructions", 20, "bold"})
	for i, step := range recipe.Instructions {
		lines = append(lines, line{fmt.Sprintf("%d. %s", i+1, step), 16, "normal"})
	}
	if recipe.SourceURL != "" {
		lines = append(lines, line{"", 16, "normal"}, line{"Source: " + recipe.SourceURL, 12, "normal"})
	}

	height := svgMargin*2 + len(lines)*svgLineHeight
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		svgWidth, height, svgWidth, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#fffdf7"/>`+"\n", svgWidth, height)

	y := svgMargin
	for _, l := range lines {
		y += svgLineHeight
		if l.text == "" {
			continue
		}
		fmt.Fprintf(&b,
			`<text x="%d" y="%d" font-family="Georgia, serif" font-size="%d" font-weight="%s" fill="#2b2b2b">%s</text>`+"\n",
			svgMargin, y, l.size, l.weight, svgEscape(l.text))
	}

	b.WriteString("</svg>\n")
	return b.String()
}
