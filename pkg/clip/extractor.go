package clip

import (
	"context"
	"errors"
	"time"

	"recipeclip/domain"
	"recipeclip/pkg/authz"
	"recipeclip/pkg/cache"
)

type (
	// ScraperParser is the fast structured extraction path.
	ScraperParser interface {
		Parse(html []byte, sourceURL string) (domain.Recipe, error)
	}

	// LLMParser is the metered extraction path, attempted only when
	// explicitly requested or as a permitted fallback.
	LLMParser interface {
		Configured() bool
		ParseURL(ctx context.Context, url string) (domain.Recipe, error)
		ParseText(ctx context.Context, text string) (domain.Recipe, error)
		ParseImage(ctx context.Context, data []byte, mimeType string) (domain.Recipe, error)
		ParseDocument(ctx context.Context, data []byte) (domain.Recipe, error)
	}

	// ExtractOptions control one pipeline invocation.
	ExtractOptions struct {
		Timeout             time.Duration
		UseLLMFallback      bool
		ForceLLM            bool
		CheckContentChanged bool
		Tier                authz.TierInfo
	}

	// Result is the pipeline outcome. ContentHash is nil on force-LLM runs
	// (no page fetch happens); ContentChanged is set only when
	// CheckContentChanged was requested.
	Result struct {
		Recipe         domain.Recipe
		Method         domain.ParsingMethod
		ContentHash    *string
		ContentChanged *bool
	}

	// Extractor runs the ordered extraction attempt: cached content check,
	// structured scraper, then LLM.
	Extractor struct {
		fetcher Fetcher
		scraper ScraperParser
		llm     LLMParser
		cache   cache.CacheRepository
	}
)

func NewExtractor(fetcher Fetcher, scraper ScraperParser, llm LLMParser, cacheRepository cache.CacheRepository) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		scraper: scraper,
		llm:     llm,
		cache:   cacheRepository,
	}
}

// Extract runs the extraction decision sequence for a URL.
//
// The scraper is attempted first because it is fast and free; the LLM is a
// last resort, attempted only when enabled and permitted. The permission
// check for the fallback is lazy: a successful scrape never consults it.
func (e *Extractor) Extract(ctx context.Context, url string, opts ExtractOptions) (Result, error) {
	if opts.ForceLLM {
		// Permission and configuration are checked before any network
		// traffic happens.
		if err := e.checkLLMAllowed(opts.Tier); err != nil {
			return Result{}, err
		}
		recipe, err := e.llm.ParseURL(ctx, url)
		if err != nil {
			return Result{}, err
		}
		return Result{Recipe: recipe, Method: domain.ParsedWithLLM}, nil
	}

	body, err := e.fetcher.Fetch(ctx, url, opts.Timeout)
	if err != nil {
		return Result{}, err
	}
	contentHash := cache.HashContent(body)

	var contentChanged *bool
	if opts.CheckContentChanged {
		cached, err := e.cache.Lookup(ctx, url, "")
		if err != nil {
			return Result{}, err
		}
		if cached != nil && cached.ContentHash != nil && *cached.ContentHash == contentHash {
			// Byte-identical page: return the stored recipe and skip
			// re-parsing entirely.
			unchanged := false
			return Result{
				Recipe:         cached.Recipe,
				Method:         cached.ParsingMethod,
				ContentHash:    &contentHash,
				ContentChanged: &unchanged,
			}, nil
		}
		changed := true
		contentChanged = &changed
	}

	recipe, err := e.scraper.Parse(body, url)
	if err == nil {
		return Result{
			Recipe:         recipe,
			Method:         domain.ParsedWithScraper,
			ContentHash:    &contentHash,
			ContentChanged: contentChanged,
		}, nil
	}
	if !errors.Is(err, domain.ErrRecipeParsing) || !opts.UseLLMFallback {
		return Result{}, err
	}

	if err := e.checkLLMAllowed(opts.Tier); err != nil {
		return Result{}, err
	}
	recipe, err = e.llm.ParseURL(ctx, url)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Recipe:         recipe,
		Method:         domain.ParsedWithLLM,
		ContentHash:    &contentHash,
		ContentChanged: contentChanged,
	}, nil
}

func (e *Extractor) checkLLMAllowed(tier authz.TierInfo) error {
	if err := authz.CheckPermission(tier, authz.PermissionClipAI); err != nil {
		return err
	}
	if !e.llm.Configured() {
		return domain.ErrLLMNotConfigured
	}
	return nil
}
