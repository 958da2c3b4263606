package convert

import (
	"bytes"
	"fmt"

	"recipeclip/domain"

	"github.com/go-pdf/fpdf"
)

// FormatPDF renders the recipe as a single-column A4 document.
func FormatPDF(recipe domain.Recipe) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 10, recipe.Title, "", "L", false)
	pdf.Ln(2)

	if lines := metadataLines(recipe.Metadata); len(lines) > 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(90, 90, 90)
		for _, line := range lines {
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Ingredients", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, ing := range recipe.Ingredients {
		pdf.MultiCell(0, 6, "- "+IngredientLine(ing), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Instructions", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for i, step := range recipe.Instructions {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, step), "", "L", false)
		pdf.Ln(1)
	}

	if recipe.SourceURL != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, "Source: "+recipe.SourceURL, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	return buf.Bytes(), nil
}
