package clip

import (
	"context"
	"time"

	"recipeclip/domain"
	"recipeclip/internal/utils/storage"
	"recipeclip/pkg/authz"
	"recipeclip/pkg/cache"
	"recipeclip/pkg/upload"

	"github.com/gofiber/fiber/v2/log"
)

const defaultTimeout = 10 * time.Second

type (
	ClipService interface {
		// Clip extracts a recipe from a URL, consulting and updating the
		// cache around the extraction pipeline.
		Clip(ctx context.Context, req domain.ClipRequest, tier authz.TierInfo) (domain.ClipResponse, error)
		// ClipUpload extracts a recipe from an uploaded image or document
		// via the LLM. Requires the clip_upload permission.
		ClipUpload(ctx context.Context, content []byte, filename string, tier authz.TierInfo) (domain.UploadClipResponse, error)
	}

	clipService struct {
		cacheRepository cache.CacheRepository
		extractor       *Extractor
		llm             LLMParser
		s3              storage.AwsS3
		cacheEnabled    bool
	}
)

func NewClipService(cacheRepository cache.CacheRepository, extractor *Extractor, llm LLMParser, s3 storage.AwsS3, cacheEnabled bool) ClipService {
	return &clipService{
		cacheRepository: cacheRepository,
		extractor:       extractor,
		llm:             llm,
		s3:              s3,
		cacheEnabled:    cacheEnabled,
	}
}

func (s *clipService) Clip(ctx context.Context, req domain.ClipRequest, tier authz.TierInfo) (domain.ClipResponse, error) {
	timeout := defaultTimeout
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Second
	}

	// Cache first, unless the caller wants a refresh. A force_llm request
	// only accepts rows that were themselves parsed by the LLM.
	if s.cacheEnabled && !req.ForceRefresh {
		method := domain.ParsingMethod("")
		if req.ForceLLM {
			method = domain.ParsedWithLLM
		}
		cached, err := s.cacheRepository.Lookup(ctx, req.URL, method)
		if err != nil {
			return domain.ClipResponse{}, err
		}
		if cached != nil {
			return domain.ClipResponse{Recipe: cached.Recipe, Cached: true}, nil
		}
	}

	result, err := s.extractor.Extract(ctx, req.URL, ExtractOptions{
		Timeout:             timeout,
		UseLLMFallback:      req.UseLLMFallback,
		ForceLLM:            req.ForceLLM,
		CheckContentChanged: req.ForceRefresh && s.cacheEnabled,
		Tier:                tier,
	})
	if err != nil {
		return domain.ClipResponse{}, err
	}

	if s.cacheEnabled {
		if _, err := s.cacheRepository.Upsert(ctx, req.URL, result.Recipe, result.ContentHash, result.Method); err != nil {
			return domain.ClipResponse{}, err
		}
	}

	return domain.ClipResponse{
		Recipe:         result.Recipe,
		Cached:         false,
		ContentChanged: result.ContentChanged,
	}, nil
}

func (s *clipService) ClipUpload(ctx context.Context, content []byte, filename string, tier authz.TierInfo) (domain.UploadClipResponse, error) {
	if err := authz.CheckPermission(tier, authz.PermissionClipUpload); err != nil {
		return domain.UploadClipResponse{}, err
	}

	fileInfo, err := upload.Validate(content, filename)
	if err != nil {
		return domain.UploadClipResponse{}, err
	}

	method := domain.ParsedWithLLMDocument
	if fileInfo.FileType == upload.FileTypeImage {
		method = domain.ParsedWithLLMImage
	}

	// Identical uploaded content dedupes to one cache row.
	sourceKey := cache.SyntheticKey("upload", content)

	if s.cacheEnabled {
		cached, err := s.cacheRepository.Lookup(ctx, sourceKey, method)
		if err != nil {
			return domain.UploadClipResponse{}, err
		}
		if cached != nil {
			return uploadResponse(cached.Recipe, fileInfo, filename, len(content), method), nil
		}
	}

	if !s.llm.Configured() {
		return domain.UploadClipResponse{}, domain.ErrLLMNotConfigured
	}

	recipe, err := s.parseUpload(ctx, content, fileInfo)
	if err != nil {
		return domain.UploadClipResponse{}, err
	}
	recipe.SourceURL = sourceKey

	if s.cacheEnabled {
		if _, err := s.cacheRepository.Upsert(ctx, sourceKey, recipe, nil, method); err != nil {
			return domain.UploadClipResponse{}, err
		}
	}

	// Archival is best-effort; a storage failure never fails the clip.
	if s.s3 != nil && s.s3.Enabled() {
		if _, err := s.s3.UploadFile(ctx, "uploads", sourceKey+fileInfo.Extension, content, fileInfo.MimeType); err != nil {
			log.Warnf("failed to archive upload %s: %v", filename, err)
		}
	}

	return uploadResponse(recipe, fileInfo, filename, len(content), method), nil
}

func (s *clipService) parseUpload(ctx context.Context, content []byte, fileInfo upload.FileInfo) (domain.Recipe, error) {
	switch {
	case fileInfo.FileType == upload.FileTypeImage:
		return s.llm.ParseImage(ctx, content, fileInfo.MimeType)
	case fileInfo.Extension == ".pdf":
		return s.llm.ParseDocument(ctx, content)
	case fileInfo.Extension == ".docx":
		text, err := upload.ExtractDocxText(content)
		if err != nil {
			return domain.Recipe{}, err
		}
		return s.llm.ParseText(ctx, text)
	default:
		// txt / md
		return s.llm.ParseText(ctx, string(content))
	}
}

func uploadResponse(recipe domain.Recipe, fileInfo upload.FileInfo, filename string, size int, method domain.ParsingMethod) domain.UploadClipResponse {
	return domain.UploadClipResponse{
		Recipe: recipe,
		FileInfo: domain.UploadFileInfo{
			Filename: filename,
			Size:     size,
			MimeType: fileInfo.MimeType,
			FileType: fileInfo.FileType,
		},
		ParsingMethod: method,
	}
}
