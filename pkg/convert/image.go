package convert

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"recipeclip/domain"

	"github.com/HugoSmits86/nativewebp"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	cardWidth   = 1000
	cardPadding = 50.0
	jpegQuality = 90
)

func loadFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

type cardBlock struct {
	text string
	face font.Face
	gap  float64
}

// formatRaster draws the recipe as a card image and encodes it in the
// requested raster format.
func formatRaster(recipe domain.Recipe, format domain.OutputFormat) (Output, error) {
	titleFace, err := loadFace(gobold.TTF, 42)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	headingFace, err := loadFace(gobold.TTF, 28)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	bodyFace, err := loadFace(goregular.TTF, 22)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}

	blocks := []cardBlock{{recipe.Title, titleFace, 20}}
	for _, line := range metadataLines(recipe.Metadata) {
		blocks = append(blocks, cardBlock{line, bodyFace, 4})
	}
	blocks = append(blocks, cardBlock{"Ingredients", headingFace, 14})
	for _, ing := range recipe.Ingredients {
		blocks = append(blocks, cardBlock{"• " + IngredientLine(ing), bodyFace, 6})
	}
	blocks = append(blocks, cardBlock{"Instructions", headingFace, 14})
	for i, step := range recipe.Instructions {
		blocks = append(blocks, cardBlock{fmt.Sprintf("%d. %s", i+1, step), bodyFace, 8})
	}
	if recipe.SourceURL != "" {
		blocks = append(blocks, cardBlock{"Source: " + recipe.SourceURL, bodyFace, 4})
	}

	textWidth := float64(cardWidth) - 2*cardPadding

	// Measuring pass to size the canvas.
	measure := gg.NewContext(cardWidth, 1)
	height := 2 * cardPadding
	for _, block := range blocks {
		measure.SetFontFace(block.face)
		lines := measure.WordWrap(block.text, textWidth)
		_, lineHeight := measure.MeasureString("Mg")
		height += float64(len(lines))*lineHeight*1.4 + block.gap
	}

	dc := gg.NewContext(cardWidth, int(height)+1)
	dc.SetHexColor("#fffdf7")
	dc.Clear()
	dc.SetHexColor("#2b2b2b")

	y := cardPadding
	for _, block := range blocks {
		dc.SetFontFace(block.face)
		lines := dc.WordWrap(block.text, textWidth)
		_, lineHeight := dc.MeasureString("Mg")
		for _, line := range lines {
			y += lineHeight * 1.4
			dc.DrawString(line, cardPadding, y)
		}
		y += block.gap
	}

	var buf bytes.Buffer
	img := dc.Image()
	switch format {
	case domain.FormatPNG:
		err = png.Encode(&buf, img)
	case domain.FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case domain.FormatWEBP:
		err = nativewebp.Encode(&buf, img, nil)
	default:
		return Output{}, domain.ErrUnsupportedFormat
	}
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}

	switch format {
	case domain.FormatPNG:
		return Output{Data: buf.Bytes(), ContentType: "image/png", Extension: ".png"}, nil
	case domain.FormatJPEG:
		return Output{Data: buf.Bytes(), ContentType: "image/jpeg", Extension: ".jpg"}, nil
	default:
		return Output{Data: buf.Bytes(), ContentType: "image/webp", Extension: ".webp"}, nil
	}
}
