package parser

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipeclip/domain"

	readability "github.com/go-shiori/go-readability"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	defaultModel      = "claude-sonnet-4-5"
	maxTokens         = 4096

	// The LLM call is bounded explicitly rather than relying on transport
	// defaults.
	llmTimeout = 60 * time.Second

	userAgent = "recipeclip/0.1"
)

const recipePrompt = `You are a recipe extraction assistant. Extract the recipe from the provided content. ` +
	`Respond with a single valid JSON object and nothing else, using this shape: ` +
	`{"title": string, "ingredients": [{"name": string, "amount": string, "unit": string, "preparation": string, "display_text": string}], ` +
	`"instructions": [string], "image": string, "metadata": {"author": string, "servings": string, "prep_time": minutes, "cook_time": minutes, "total_time": minutes, "categories": [string]}}. ` +
	`Keep display_text as the original ingredient wording. Omit fields you cannot determine. ` +
	`If the content contains no recipe, respond with {"title": ""}.`

// LLMClient extracts recipes with the Anthropic messages API. It is the
// slow, metered extraction path, attempted only when explicitly requested
// or as a permitted fallback.
type LLMClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewLLMClient(apiKey string) *LLMClient {
	return &LLMClient{
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: llmTimeout},
	}
}

func (c *LLMClient) Configured() bool {
	return c.apiKey != ""
}

// ParseURL extracts a recipe from a web page. The page is fetched fresh by
// this client and distilled to readable text before being sent to the
// model, so the caller's fetched body is never reused here.
func (c *LLMClient) ParseURL(ctx context.Context, pageURL string) (domain.Recipe, error) {
	text, err := c.distillPage(ctx, pageURL)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe, err := c.ParseText(ctx, text)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe.SourceURL = pageURL
	return recipe, nil
}

// ParseText extracts a recipe from plain text (pasted recipes, txt/md
// uploads, distilled pages).
func (c *LLMClient) ParseText(ctx context.Context, text string) (domain.Recipe, error) {
	content := []map[string]any{
		{"type": "text", "text": recipePrompt + "\n\nContent:\n\n" + text},
	}
	return c.complete(ctx, content)
}

// ParseImage extracts a recipe from a photographed or screenshotted recipe.
func (c *LLMClient) ParseImage(ctx context.Context, data []byte, mimeType string) (domain.Recipe, error) {
	content := []map[string]any{
		{
			"type": "image",
			"source": map[string]any{
				"type":       "base64",
				"media_type": mimeType,
				"data":       base64.StdEncoding.EncodeToString(data),
			},
		},
		{"type": "text", "text": recipePrompt},
	}
	return c.complete(ctx, content)
}

// ParseDocument extracts a recipe from a PDF document.
func (c *LLMClient) ParseDocument(ctx context.Context, data []byte) (domain.Recipe, error) {
	content := []map[string]any{
		{
			"type": "document",
			"source": map[string]any{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       base64.StdEncoding.EncodeToString(data),
			},
		},
		{"type": "text", "text": recipePrompt},
	}
	return c.complete(ctx, content)
}

func (c *LLMClient) distillPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d while fetching %s", domain.ErrNetworkFailure, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		// Readability can reject sparse pages; the raw HTML still gives the
		// model something to work with.
		return string(body), nil
	}
	return article.TextContent, nil
}

func (c *LLMClient) complete(ctx context.Context, content []map[string]any) (domain.Recipe, error) {
	if c.apiKey == "" {
		return domain.Recipe{}, domain.ErrLLMNotConfigured
	}

	requestBody := map[string]any{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return domain.Recipe{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicEndpoint, bytes.NewBuffer(requestJSON))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return domain.Recipe{}, fmt.Errorf("%w: API error %s - %s", domain.ErrLLMFailure, resp.Status, string(bodyBytes))
	}

	var apiResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return domain.Recipe{}, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}

	var responseText string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return domain.Recipe{}, fmt.Errorf("%w: empty model response", domain.ErrLLMFailure)
	}

	return decodeRecipeJSON(responseText)
}

// decodeRecipeJSON slices the JSON object out of the model's reply, which
// may be wrapped in prose or a code fence.
func decodeRecipeJSON(responseText string) (domain.Recipe, error) {
	responseText = strings.TrimSpace(responseText)

	startIdx := strings.Index(responseText, "{")
	endIdx := strings.LastIndex(responseText, "}")
	if startIdx == -1 || endIdx == -1 || startIdx > endIdx {
		return domain.Recipe{}, fmt.Errorf("%w: invalid response format: %s", domain.ErrLLMFailure, responseText)
	}

	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(responseText[startIdx:endIdx+1]), &recipe); err != nil {
		return domain.Recipe{}, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}

	if recipe.Title == "" {
		return domain.Recipe{}, fmt.Errorf("%w: model found no recipe in the content", domain.ErrRecipeNotFound)
	}
	return recipe, nil
}
