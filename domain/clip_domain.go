package domain

import (
	"errors"
	"mime/multipart"
)

// ParsingMethod records which extraction path produced a recipe.
type ParsingMethod string

const (
	ParsedWithScraper     ParsingMethod = "scraper"
	ParsedWithLLM         ParsingMethod = "llm"
	ParsedWithLLMImage    ParsingMethod = "llm_image"
	ParsedWithLLMDocument ParsingMethod = "llm_document"
	ParsedManually        ParsingMethod = "manual"
)

var (
	MessageSuccessClip       = "recipe extracted successfully"
	MessageFailedClip        = "failed to extract recipe"
	MessageFailedFetchURL    = "failed to fetch URL"
	MessageFailedParseRecipe = "failed to parse recipe"
	MessageSuccessUploadClip = "recipe extracted from file successfully"
	MessageFailedUploadClip  = "failed to extract recipe from file"

	ErrRecipeNotFound     = errors.New("no recipe found at the given source")
	ErrRecipeParsing      = errors.New("recipe parsing failed")
	ErrNetworkFailure     = errors.New("failed to fetch URL")
	ErrLLMFailure         = errors.New("LLM extraction failed")
	ErrLLMNotConfigured   = errors.New("LLM extraction requires ANTHROPIC_API_KEY")
	ErrFileValidation     = errors.New("file validation failed")
	ErrCacheConflict      = errors.New("source already cached")
	ErrCacheMiss          = errors.New("source not cached")
)

type (
	ClipRequest struct {
		URL            string `json:"url" validate:"required,url"`
		Timeout        int    `json:"timeout" validate:"omitempty,min=1,max=60"`
		UseLLMFallback bool   `json:"use_llm_fallback"`
		ForceLLM       bool   `json:"force_llm"`
		ForceRefresh   bool   `json:"force_refresh"`
	}

	ClipResponse struct {
		Recipe         Recipe `json:"recipe"`
		Cached         bool   `json:"cached"`
		ContentChanged *bool  `json:"content_changed,omitempty"`
	}

	UploadClipRequest struct {
		File *multipart.FileHeader `json:"file" form:"file" validate:"required"`
	}

	UploadFileInfo struct {
		Filename string `json:"filename"`
		Size     int    `json:"size"`
		MimeType string `json:"mime_type"`
		FileType string `json:"file_type"`
	}

	UploadClipResponse struct {
		Recipe        Recipe         `json:"recipe"`
		FileInfo      UploadFileInfo `json:"file_info"`
		ParsingMethod ParsingMethod  `json:"parsing_method"`
	}
)
