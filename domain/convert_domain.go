package domain

import (
	"errors"
)

// OutputFormat is a downloadable representation of a recipe.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
	FormatPDF      OutputFormat = "pdf"
	FormatJPEG     OutputFormat = "jpeg"
	FormatPNG      OutputFormat = "png"
	FormatWEBP     OutputFormat = "webp"
	FormatSVG      OutputFormat = "svg"
)

var (
	MessageFailedConvert = "failed to convert recipe"

	ErrJSONFormatRejected  = errors.New("JSON format not supported, use the recipe data directly")
	ErrUnsupportedFormat   = errors.New("unsupported output format")
	ErrConversionFailed    = errors.New("recipe conversion failed")
)

type ConvertRequest struct {
	Recipe Recipe       `json:"recipe" validate:"required"`
	Format OutputFormat `json:"format" validate:"required"`
}
