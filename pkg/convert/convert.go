package convert

import (
	"recipeclip/domain"
)

// Output is a rendered recipe ready to be sent as a download.
type Output struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Convert renders a recipe into the requested format. The json format is
// rejected: clients already hold the recipe as JSON.
func Convert(recipe domain.Recipe, format domain.OutputFormat) (Output, error) {
	switch format {
	case domain.FormatText:
		return Output{
			Data:        []byte(FormatText(recipe)),
			ContentType: "text/plain; charset=utf-8",
			Extension:   ".txt",
		}, nil
	case domain.FormatMarkdown:
		return Output{
			Data:        []byte(FormatMarkdown(recipe)),
			ContentType: "text/markdown; charset=utf-8",
			Extension:   ".md",
		}, nil
	case domain.FormatSVG:
		return Output{
			Data:        []byte(FormatSVG(recipe)),
			ContentType: "image/svg+xml",
			Extension:   ".svg",
		}, nil
	case domain.FormatPDF:
		data, err := FormatPDF(recipe)
		if err != nil {
			return Output{}, err
		}
		return Output{Data: data, ContentType: "application/pdf", Extension: ".pdf"}, nil
	case domain.FormatPNG, domain.FormatJPEG, domain.FormatWEBP:
		return formatRaster(recipe, format)
	case domain.FormatJSON:
		return Output{}, domain.ErrJSONFormatRejected
	default:
		return Output{}, domain.ErrUnsupportedFormat
	}
}
