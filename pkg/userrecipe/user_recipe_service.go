package userrecipe

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"recipeclip/domain"
	"recipeclip/entities"
	"recipeclip/pkg/authz"
	"recipeclip/pkg/cache"
	"recipeclip/pkg/clip"

	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	defaultTimeout   = 10 * time.Second
)

type (
	ListRecipesQuery struct {
		Cursor       string
		Limit        int
		Tags         []string
		ModifiedOnly bool
		Search       string
	}

	UserRecipeService interface {
		SaveRecipe(ctx context.Context, user domain.User, req domain.SaveRecipeRequest, tier authz.TierInfo) (domain.SaveRecipeResponse, error)
		ListRecipes(ctx context.Context, user domain.User, query ListRecipesQuery, tier authz.TierInfo) (domain.ListUserRecipesResponse, error)
		GetRecipe(ctx context.Context, user domain.User, id string, tier authz.TierInfo) (domain.GetUserRecipeResponse, error)
		UpdateRecipe(ctx context.Context, user domain.User, id string, req domain.UpdateUserRecipeRequest, tier authz.TierInfo) (domain.UpdateUserRecipeResponse, error)
		DeleteRecipe(ctx context.Context, user domain.User, id string, tier authz.TierInfo) error
	}

	userRecipeService struct {
		userRecipeRepository UserRecipeRepository
		cacheRepository      cache.CacheRepository
		extractor            *clip.Extractor
	}
)

func NewUserRecipeService(userRecipeRepository UserRecipeRepository, cacheRepository cache.CacheRepository, extractor *clip.Extractor) UserRecipeService {
	return &userRecipeService{
		userRecipeRepository: userRecipeRepository,
		cacheRepository:      cacheRepository,
		extractor:            extractor,
	}
}

func (s *userRecipeService) SaveRecipe(ctx context.Context, user domain.User, req domain.SaveRecipeRequest, tier authz.TierInfo) (domain.SaveRecipeResponse, error) {
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.SourceWeb
	}

	permission := authz.PermissionRecipeSave
	if sourceType != domain.SourceWeb {
		permission = authz.PermissionRecipeCreate
	}
	if err := authz.CheckPermission(tier, permission); err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	var cached *cache.CachedRecipe
	var err error
	switch sourceType {
	case domain.SourceWeb:
		cached, err = s.resolveWebSource(ctx, req, tier)
	default:
		cached, err = s.resolvePayloadSource(ctx, sourceType, req.Recipe)
	}
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	recipeJSON, err := json.Marshal(cached.Recipe)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	row := &entities.UserRecipe{
		UserID:     user.ID,
		RecipeID:   cached.ID,
		RecipeData: string(recipeJSON),
		Notes:      optionalString(req.Notes),
		Tags:       encodeTags(req.Tags),
	}
	saved, isNew, err := s.userRecipeRepository.Save(ctx, row)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	return domain.SaveRecipeResponse{
		UserRecipeID:  saved.ID,
		RecipeID:      cached.ID,
		SourceURL:     cached.SourceURL,
		ParsingMethod: cached.ParsingMethod,
		CreatedAt:     saved.CreatedAt.Format(time.RFC3339),
		IsNew:         isNew,
	}, nil
}

// resolveWebSource reuses the cached extraction for the URL when present,
// otherwise runs the extraction pipeline and caches the result.
func (s *userRecipeService) resolveWebSource(ctx context.Context, req domain.SaveRecipeRequest, tier authz.TierInfo) (*cache.CachedRecipe, error) {
	if req.URL == "" {
		return nil, domain.ErrMissingSavePayload
	}

	cached, err := s.cacheRepository.Lookup(ctx, req.URL, "")
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	timeout := defaultTimeout
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Second
	}
	result, err := s.extractor.Extract(ctx, req.URL, clip.ExtractOptions{
		Timeout:        timeout,
		UseLLMFallback: req.UseLLMFallback,
		Tier:           tier,
	})
	if err != nil {
		return nil, err
	}

	return s.cacheRepository.Upsert(ctx, req.URL, result.Recipe, result.ContentHash, result.Method)
}

// resolvePayloadSource caches a client-supplied recipe payload under a
// synthetic source key so identical payloads share one recipe row.
func (s *userRecipeService) resolvePayloadSource(ctx context.Context, sourceType domain.SourceType, recipe *domain.Recipe) (*cache.CachedRecipe, error) {
	if recipe == nil || recipe.Title == "" {
		return nil, domain.ErrMissingSavePayload
	}

	payload, err := json.Marshal(recipe)
	if err != nil {
		return nil, err
	}
	sourceKey := cache.SyntheticKey(string(sourceType), payload)

	cached, err := s.cacheRepository.Lookup(ctx, sourceKey, "")
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	stored := *recipe
	stored.SourceURL = sourceKey
	return s.cacheRepository.Upsert(ctx, sourceKey, stored, nil, domain.ParsedManually)
}

func (s *userRecipeService) ListRecipes(ctx context.Context, user domain.User, query ListRecipesQuery, tier authz.TierInfo) (domain.ListUserRecipesResponse, error) {
	if err := authz.CheckPermission(tier, authz.PermissionRecipeList); err != nil {
		return domain.ListUserRecipesResponse{}, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, hasMore, err := s.userRecipeRepository.List(ctx, user.ID, query.Cursor, limit, query.ModifiedOnly)
	if err != nil {
		return domain.ListUserRecipesResponse{}, err
	}

	summaries := make([]domain.UserRecipeSummary, 0, len(rows))
	for _, row := range rows {
		var recipe domain.Recipe
		if err := json.Unmarshal([]byte(row.RecipeData), &recipe); err != nil {
			return domain.ListUserRecipesResponse{}, err
		}
		summary := buildSummary(&row, recipe)
		if !matchesTags(summary.Tags, query.Tags) {
			continue
		}
		if !matchesSearch(recipe, summary.Tags, stringValue(row.Notes), query.Search) {
			continue
		}
		summaries = append(summaries, summary)
	}

	response := domain.ListUserRecipesResponse{
		Recipes: summaries,
		HasMore: hasMore,
	}
	if hasMore && len(rows) > 0 {
		response.NextCursor = rows[len(rows)-1].ID
	}
	return response, nil
}

func (s *userRecipeService) GetRecipe(ctx context.Context, user domain.User, id string, tier authz.TierInfo) (domain.GetUserRecipeResponse, error) {
	if err := authz.CheckPermission(tier, authz.PermissionRecipeList); err != nil {
		return domain.GetUserRecipeResponse{}, err
	}

	row, err := s.userRecipeRepository.GetByID(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.GetUserRecipeResponse{}, domain.ErrUserRecipeNotFound
		}
		return domain.GetUserRecipeResponse{}, err
	}

	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(row.RecipeData), &recipe); err != nil {
		return domain.GetUserRecipeResponse{}, err
	}

	response := domain.GetUserRecipeResponse{
		ID:         row.ID,
		IsModified: row.IsModified,
		Notes:      stringValue(row.Notes),
		Tags:       decodeTags(row.Tags),
		Recipe:     recipe,
		CreatedAt:  row.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  row.UpdatedAt.Format(time.RFC3339),
	}
	if row.SourceRecipe != nil {
		response.SourceURL = row.SourceRecipe.SourceURL
		response.ParsingMethod = domain.ParsingMethod(row.SourceRecipe.ParsingMethod)
		response.Lineage = domain.RecipeLineage{
			RecipeID: row.SourceRecipe.ID,
			ParsedAt: row.SourceRecipe.UpdatedAt.Format(time.RFC3339),
		}
	}
	return response, nil
}

func (s *userRecipeService) UpdateRecipe(ctx context.Context, user domain.User, id string, req domain.UpdateUserRecipeRequest, tier authz.TierInfo) (domain.UpdateUserRecipeResponse, error) {
	if err := authz.CheckPermission(tier, authz.PermissionRecipeEdit); err != nil {
		return domain.UpdateUserRecipeResponse{}, err
	}

	row, err := s.userRecipeRepository.GetByID(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UpdateUserRecipeResponse{}, domain.ErrUserRecipeNotFound
		}
		return domain.UpdateUserRecipeResponse{}, err
	}

	// Only replacing the recipe payload marks the copy as modified. Tag
	// and note edits are metadata.
	if req.Recipe != nil {
		recipeJSON, err := json.Marshal(req.Recipe)
		if err != nil {
			return domain.UpdateUserRecipeResponse{}, err
		}
		row.RecipeData = string(recipeJSON)
		row.IsModified = true
	}
	if req.Tags != nil {
		row.Tags = encodeTags(*req.Tags)
	}
	if req.Notes != nil {
		row.Notes = optionalString(*req.Notes)
	}

	if err := s.userRecipeRepository.Update(ctx, row); err != nil {
		return domain.UpdateUserRecipeResponse{}, err
	}

	return domain.UpdateUserRecipeResponse{
		ID:         row.ID,
		IsModified: row.IsModified,
		UpdatedAt:  row.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *userRecipeService) DeleteRecipe(ctx context.Context, user domain.User, id string, tier authz.TierInfo) error {
	if err := authz.CheckPermission(tier, authz.PermissionRecipeDelete); err != nil {
		return err
	}

	if err := s.userRecipeRepository.SoftDelete(ctx, user.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserRecipeNotFound
		}
		return err
	}
	return nil
}

func buildSummary(row *entities.UserRecipe, recipe domain.Recipe) domain.UserRecipeSummary {
	summary := domain.UserRecipeSummary{
		ID:         row.ID,
		Title:      recipe.Title,
		ImageURL:   recipe.Image,
		IsModified: row.IsModified,
		Tags:       decodeTags(row.Tags),
		CreatedAt:  row.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  row.UpdatedAt.Format(time.RFC3339),
	}
	if row.SourceRecipe != nil {
		summary.SourceURL = row.SourceRecipe.SourceURL
	} else {
		summary.SourceURL = recipe.SourceURL
	}
	return summary
}

// matchesTags requires every requested tag to be present on the row.
func matchesTags(rowTags, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	have := make(map[string]bool, len(rowTags))
	for _, tag := range rowTags {
		have[strings.ToLower(tag)] = true
	}
	for _, tag := range wanted {
		if !have[strings.ToLower(tag)] {
			return false
		}
	}
	return true
}

// matchesSearch looks for the term across the title, ingredient names and
// display text, instruction steps, tags and notes.
func matchesSearch(recipe domain.Recipe, tags []string, notes, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)

	if strings.Contains(strings.ToLower(recipe.Title), term) {
		return true
	}
	for _, ingredient := range recipe.Ingredients {
		if strings.Contains(strings.ToLower(ingredient.Name), term) ||
			strings.Contains(strings.ToLower(ingredient.DisplayText), term) {
			return true
		}
	}
	for _, step := range recipe.Instructions {
		if strings.Contains(strings.ToLower(step), term) {
			return true
		}
	}
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(notes), term)
}

func encodeTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	value := string(encoded)
	return &value
}

func decodeTags(tags *string) []string {
	if tags == nil || *tags == "" {
		return nil
	}
	var decoded []string
	if err := json.Unmarshal([]byte(*tags), &decoded); err != nil {
		return nil
	}
	return decoded
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
