package upload

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"recipeclip/domain"
)

// ExtractDocxText pulls the plain text out of a DOCX archive
// (word/document.xml). Paragraph boundaries become newlines; all other
// markup is dropped.
func ExtractDocxText(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFileValidation, err)
	}

	var documentXML []byte
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrFileValidation, err)
		}
		documentXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrFileValidation, err)
		}
		break
	}
	if documentXML == nil {
		return "", fmt.Errorf("%w: DOCX archive has no word/document.xml", domain.ErrFileValidation)
	}

	var builder strings.Builder
	decoder := xml.NewDecoder(bytes.NewReader(documentXML))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrFileValidation, err)
		}
		switch t := token.(type) {
		case xml.CharData:
			builder.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				builder.WriteString("\n")
			}
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", fmt.Errorf("%w: DOCX document contains no text", domain.ErrFileValidation)
	}
	return text, nil
}
