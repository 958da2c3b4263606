package upload

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"recipeclip/domain"
)

// FileInfo describes a validated upload.
type FileInfo struct {
	MimeType  string
	Extension string
	// FileType is "image" or "document"; it selects the size limit and the
	// LLM parsing path.
	FileType string
}

const (
	FileTypeImage    = "image"
	FileTypeDocument = "document"

	MaxImageSize    = 10 * 1024 * 1024
	MaxDocumentSize = 20 * 1024 * 1024
)

type magicSignature struct {
	prefix    []byte
	mimeType  string
	extension string
	fileType  string
}

var magicSignatures = []magicSignature{
	{[]byte{0xff, 0xd8, 0xff}, "image/jpeg", ".jpg", FileTypeImage},
	{[]byte("\x89PNG\r\n\x1a\n"), "image/png", ".png", FileTypeImage},
	{[]byte("GIF87a"), "image/gif", ".gif", FileTypeImage},
	{[]byte("GIF89a"), "image/gif", ".gif", FileTypeImage},
	{[]byte("%PDF"), "application/pdf", ".pdf", FileTypeDocument},
	// DOCX is a ZIP archive; extra checks below.
	{[]byte("PK\x03\x04"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx", FileTypeDocument},
}

var (
	textExtensions     = map[string]bool{".txt": true, ".md": true}
	imageExtensions    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
	documentExtensions = map[string]bool{".pdf": true, ".docx": true, ".txt": true, ".md": true}
)

func supportedExtensions() string {
	exts := make([]string, 0, len(imageExtensions)+len(documentExtensions))
	for ext := range imageExtensions {
		exts = append(exts, ext)
	}
	for ext := range documentExtensions {
		exts = append(exts, ext)
	}
	return strings.Join(exts, ", ")
}

// Validate checks an upload's content against its extension. Files are
// validated by content signature, not just the filename, so a renamed
// executable never reaches the parsers.
func Validate(content []byte, filename string) (FileInfo, error) {
	if filename == "" {
		return FileInfo{}, fmt.Errorf("%w: filename is required", domain.ErrFileValidation)
	}
	if len(content) == 0 {
		return FileInfo{}, fmt.Errorf("%w: file is empty", domain.ErrFileValidation)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] && !documentExtensions[ext] {
		return FileInfo{}, fmt.Errorf("%w: unsupported file extension %q, supported: %s", domain.ErrFileValidation, ext, supportedExtensions())
	}

	info, err := detectFileType(content, ext, filename)
	if err != nil {
		return FileInfo{}, err
	}

	if err := validateSize(len(content), info.FileType); err != nil {
		return FileInfo{}, err
	}
	return info, nil
}

func detectFileType(content []byte, ext, filename string) (FileInfo, error) {
	// Text files carry no magic bytes; require UTF-8.
	if textExtensions[ext] {
		if !utf8.Valid(content) {
			return FileInfo{}, fmt.Errorf("%w: file %s is not valid UTF-8 text", domain.ErrFileValidation, filename)
		}
		mime := "text/plain"
		if ext == ".md" {
			mime = "text/markdown"
		}
		return FileInfo{MimeType: mime, Extension: ext, FileType: FileTypeDocument}, nil
	}

	// WEBP: RIFF....WEBP
	if ext == ".webp" {
		if bytes.HasPrefix(content, []byte("RIFF")) && len(content) >= 12 && bytes.Contains(content[:12], []byte("WEBP")) {
			return FileInfo{MimeType: "image/webp", Extension: ".webp", FileType: FileTypeImage}, nil
		}
		return FileInfo{}, fmt.Errorf("%w: content does not match the .webp format", domain.ErrFileValidation)
	}

	for _, sig := range magicSignatures {
		if !bytes.HasPrefix(content, sig.prefix) {
			continue
		}

		if sig.extension == ".docx" {
			if ext != ".docx" {
				return FileInfo{}, fmt.Errorf("%w: ZIP content detected but extension is %s, not .docx", domain.ErrFileValidation, ext)
			}
			probe := content
			if len(probe) > 10000 {
				probe = probe[:10000]
			}
			if !bytes.Contains(probe, []byte("word/")) {
				return FileInfo{}, fmt.Errorf("%w: ZIP archive is not a valid DOCX", domain.ErrFileValidation)
			}
			return FileInfo{MimeType: sig.mimeType, Extension: ext, FileType: sig.fileType}, nil
		}

		validExts := map[string]bool{sig.extension: true}
		if sig.extension == ".jpg" {
			validExts[".jpeg"] = true
		}
		if !validExts[ext] {
			return FileInfo{}, fmt.Errorf("%w: extension %s does not match detected content type %s", domain.ErrFileValidation, ext, sig.mimeType)
		}
		return FileInfo{MimeType: sig.mimeType, Extension: ext, FileType: sig.fileType}, nil
	}

	return FileInfo{}, fmt.Errorf("%w: could not verify content of %s, file may be corrupted or unsupported", domain.ErrFileValidation, filename)
}

func validateSize(size int, fileType string) error {
	maxSize := MaxDocumentSize
	if fileType == FileTypeImage {
		maxSize = MaxImageSize
	}
	if size > maxSize {
		return fmt.Errorf("%w: file size %.1fMB exceeds %dMB limit for %ss",
			domain.ErrFileValidation,
			float64(size)/(1024*1024),
			maxSize/(1024*1024),
			fileType,
		)
	}
	return nil
}
