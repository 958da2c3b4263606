package userrecipe

import (
	"context"
	"testing"
	"time"

	"recipeclip/domain"
	"recipeclip/entities"
	"recipeclip/pkg/authz"
	"recipeclip/pkg/cache"
	"recipeclip/pkg/clip"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubFetcher struct {
	body  []byte
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	f.calls++
	return f.body, nil
}

type stubScraper struct {
	recipe domain.Recipe
	err    error
}

func (s *stubScraper) Parse(html []byte, sourceURL string) (domain.Recipe, error) {
	if s.err != nil {
		return domain.Recipe{}, s.err
	}
	recipe := s.recipe
	recipe.SourceURL = sourceURL
	return recipe, nil
}

type stubLLM struct{}

func (stubLLM) Configured() bool { return false }
func (stubLLM) ParseURL(ctx context.Context, url string) (domain.Recipe, error) {
	return domain.Recipe{}, domain.ErrLLMNotConfigured
}
func (stubLLM) ParseText(ctx context.Context, text string) (domain.Recipe, error) {
	return domain.Recipe{}, domain.ErrLLMNotConfigured
}
func (stubLLM) ParseImage(ctx context.Context, data []byte, mimeType string) (domain.Recipe, error) {
	return domain.Recipe{}, domain.ErrLLMNotConfigured
}
func (stubLLM) ParseDocument(ctx context.Context, data []byte) (domain.Recipe, error) {
	return domain.Recipe{}, domain.ErrLLMNotConfigured
}

type fixture struct {
	service UserRecipeService
	cache   cache.CacheRepository
	fetcher *stubFetcher
	db      *gorm.DB
}

func newFixture(t *testing.T, scraped domain.Recipe) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ClippedRecipe{}, &entities.UserRecipe{}))

	cacheRepo := cache.NewCacheRepository(db)
	fetcher := &stubFetcher{body: []byte("<html>recipe page</html>")}
	extractor := clip.NewExtractor(fetcher, &stubScraper{recipe: scraped}, stubLLM{}, cacheRepo)

	return &fixture{
		service: NewUserRecipeService(NewUserRecipeRepository(db), cacheRepo, extractor),
		cache:   cacheRepo,
		fetcher: fetcher,
		db:      db,
	}
}

var (
	testUser = domain.User{ID: "user-1"}
	proTier  = authz.TierInfo{Tier: authz.TierPro}
)

func pancakes() domain.Recipe {
	return domain.Recipe{
		Title:        "Pancakes",
		Ingredients:  []domain.Ingredient{{Name: "flour", Amount: "2", Unit: "cups"}},
		Instructions: []string{"mix", "fry"},
	}
}

func TestSaveWebRecipe(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	res, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{
		URL:  "https://example.com/pancakes",
		Tags: []string{"breakfast"},
	}, proTier)
	require.NoError(t, err)
	assert.True(t, res.IsNew)
	assert.Equal(t, "https://example.com/pancakes", res.SourceURL)
	assert.Equal(t, domain.ParsedWithScraper, res.ParsingMethod)
	assert.Equal(t, 1, f.fetcher.calls)

	// extraction result landed in the shared cache
	cached, err := f.cache.Lookup(ctx, "https://example.com/pancakes", "")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, res.RecipeID, cached.ID)
}

func TestSaveWebRecipeReusesCache(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	first, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)

	other := domain.User{ID: "user-2"}
	second, err := f.service.SaveRecipe(ctx, other, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)

	assert.Equal(t, first.RecipeID, second.RecipeID)
	assert.Equal(t, 1, f.fetcher.calls, "second save must hit the cache instead of refetching")
}

func TestSaveTwiceIsIdempotent(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	first, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)
	assert.True(t, first.IsNew)

	second, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)
	assert.False(t, second.IsNew)
	assert.Equal(t, first.UserRecipeID, second.UserRecipeID)
}

func TestSaveManualRequiresPayload(t *testing.T) {
	f := newFixture(t, pancakes())

	_, err := f.service.SaveRecipe(context.Background(), testUser, domain.SaveRecipeRequest{
		SourceType: domain.SourceManual,
	}, proTier)
	require.ErrorIs(t, err, domain.ErrMissingSavePayload)
}

func TestSaveManualRecipe(t *testing.T) {
	f := newFixture(t, pancakes())
	recipe := pancakes()

	res, err := f.service.SaveRecipe(context.Background(), testUser, domain.SaveRecipeRequest{
		SourceType: domain.SourceManual,
		Recipe:     &recipe,
	}, proTier)
	require.NoError(t, err)
	assert.True(t, res.IsNew)
	assert.Equal(t, domain.ParsedManually, res.ParsingMethod)
	assert.Regexp(t, `^manual://`, res.SourceURL)
	assert.Zero(t, f.fetcher.calls)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	saved, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteRecipe(ctx, testUser, saved.UserRecipeID, proTier))

	_, err = f.service.GetRecipe(ctx, testUser, saved.UserRecipeID, proTier)
	require.ErrorIs(t, err, domain.ErrUserRecipeNotFound)

	// deleting again reports not found
	err = f.service.DeleteRecipe(ctx, testUser, saved.UserRecipeID, proTier)
	require.ErrorIs(t, err, domain.ErrUserRecipeNotFound)

	// re-saving restores the original row, reported as an existing save
	restored, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)
	assert.False(t, restored.IsNew)
	assert.Equal(t, saved.UserRecipeID, restored.UserRecipeID, "restore must keep the row id")

	got, err := f.service.GetRecipe(ctx, testUser, saved.UserRecipeID, proTier)
	require.NoError(t, err)
	assert.False(t, got.IsModified)
}

func TestRestorePreservesUserCopy(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	saved, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{
		URL:   "https://example.com/pancakes",
		Tags:  []string{"breakfast"},
		Notes: "family favorite",
	}, proTier)
	require.NoError(t, err)

	edited := pancakes()
	edited.Title = "Fluffy Pancakes"
	_, err = f.service.UpdateRecipe(ctx, testUser, saved.UserRecipeID, domain.UpdateUserRecipeRequest{
		Recipe: &edited,
	}, proTier)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteRecipe(ctx, testUser, saved.UserRecipeID, proTier))

	// a plain re-save brings back the edited copy untouched
	restored, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)
	assert.False(t, restored.IsNew)

	got, err := f.service.GetRecipe(ctx, testUser, saved.UserRecipeID, proTier)
	require.NoError(t, err)
	assert.Equal(t, "Fluffy Pancakes", got.Recipe.Title)
	assert.True(t, got.IsModified)
	assert.Equal(t, []string{"breakfast"}, got.Tags)
	assert.Equal(t, "family favorite", got.Notes)

	// re-saving with new tags replaces them but still leaves the copy alone
	require.NoError(t, f.service.DeleteRecipe(ctx, testUser, saved.UserRecipeID, proTier))
	_, err = f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{
		URL:  "https://example.com/pancakes",
		Tags: []string{"brunch"},
	}, proTier)
	require.NoError(t, err)

	got, err = f.service.GetRecipe(ctx, testUser, saved.UserRecipeID, proTier)
	require.NoError(t, err)
	assert.Equal(t, []string{"brunch"}, got.Tags)
	assert.Equal(t, "family favorite", got.Notes)
	assert.True(t, got.IsModified)
}

func TestGetRecipeLineage(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	saved, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{
		URL:   "https://example.com/pancakes",
		Notes: "family favorite",
	}, proTier)
	require.NoError(t, err)

	got, err := f.service.GetRecipe(ctx, testUser, saved.UserRecipeID, proTier)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Recipe.Title)
	assert.Equal(t, "family favorite", got.Notes)
	assert.Equal(t, saved.RecipeID, got.Lineage.RecipeID)
	assert.NotEmpty(t, got.Lineage.ParsedAt)
}

func TestGetRecipeOwnership(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	saved, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)

	_, err = f.service.GetRecipe(ctx, domain.User{ID: "intruder"}, saved.UserRecipeID, proTier)
	require.ErrorIs(t, err, domain.ErrUserRecipeNotFound)
}

func TestUpdatePayloadMarksModified(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	saved, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)

	edited := pancakes()
	edited.Title = "Fluffy Pancakes"
	res, err := f.service.UpdateRecipe(ctx, testUser, saved.UserRecipeID, domain.UpdateUserRecipeRequest{
		Recipe: &edited,
	}, proTier)
	require.NoError(t, err)
	assert.True(t, res.IsModified)

	got, err := f.service.GetRecipe(ctx, testUser, saved.UserRecipeID, proTier)
	require.NoError(t, err)
	assert.Equal(t, "Fluffy Pancakes", got.Recipe.Title)
}

func TestUpdateMetadataOnlyKeepsUnmodified(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	saved, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/pancakes"}, proTier)
	require.NoError(t, err)

	tags := []string{"weekend"}
	notes := "less sugar"
	res, err := f.service.UpdateRecipe(ctx, testUser, saved.UserRecipeID, domain.UpdateUserRecipeRequest{
		Tags:  &tags,
		Notes: &notes,
	}, proTier)
	require.NoError(t, err)
	assert.False(t, res.IsModified, "metadata edits must not mark the payload as modified")

	got, err := f.service.GetRecipe(ctx, testUser, saved.UserRecipeID, proTier)
	require.NoError(t, err)
	assert.Equal(t, []string{"weekend"}, got.Tags)
	assert.Equal(t, "less sugar", got.Notes)
}

func TestListPaginationAndFilters(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	urls := []string{
		"https://example.com/one",
		"https://example.com/two",
		"https://example.com/three",
	}
	var ids []string
	for _, u := range urls {
		res, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{
			URL:  u,
			Tags: []string{"dinner"},
		}, proTier)
		require.NoError(t, err)
		ids = append(ids, res.UserRecipeID)
		time.Sleep(2 * time.Millisecond)
	}

	page, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{Limit: 2}, proTier)
	require.NoError(t, err)
	require.Len(t, page.Recipes, 2)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)
	// newest first
	assert.Equal(t, ids[2], page.Recipes[0].ID)

	rest, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{Limit: 2, Cursor: page.NextCursor}, proTier)
	require.NoError(t, err)
	require.Len(t, rest.Recipes, 1)
	assert.False(t, rest.HasMore)
	assert.Empty(t, rest.NextCursor)
	assert.Equal(t, ids[0], rest.Recipes[0].ID)

	// deleted rows disappear from listings
	require.NoError(t, f.service.DeleteRecipe(ctx, testUser, ids[1], proTier))
	all, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{}, proTier)
	require.NoError(t, err)
	assert.Len(t, all.Recipes, 2)

	// tag filtering requires every requested tag
	tagged, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{Tags: []string{"dinner"}}, proTier)
	require.NoError(t, err)
	assert.Len(t, tagged.Recipes, 2)

	none, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{Tags: []string{"dinner", "vegan"}}, proTier)
	require.NoError(t, err)
	assert.Empty(t, none.Recipes)

	// title search is case-insensitive
	found, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{Search: "PANCAKE"}, proTier)
	require.NoError(t, err)
	assert.Len(t, found.Recipes, 2)

	missing, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{Search: "lasagna"}, proTier)
	require.NoError(t, err)
	assert.Empty(t, missing.Recipes)
}

func TestListSearchCoversRecipeFields(t *testing.T) {
	recipe := domain.Recipe{
		Title: "Pancakes",
		Ingredients: []domain.Ingredient{
			{Name: "buckwheat flour", DisplayText: "2 cups buckwheat flour"},
		},
		Instructions: []string{"whisk until smooth", "fry on a griddle"},
	}
	f := newFixture(t, recipe)
	ctx := context.Background()

	saved, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{
		URL:   "https://example.com/pancakes",
		Tags:  []string{"breakfast"},
		Notes: "double the batch",
	}, proTier)
	require.NoError(t, err)

	cases := []struct {
		name   string
		search string
	}{
		{"ingredient name", "buckwheat"},
		{"instruction step", "griddle"},
		{"tag", "breakfast"},
		{"notes", "batch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{Search: tc.search}, proTier)
			require.NoError(t, err)
			require.Len(t, page.Recipes, 1)
			assert.Equal(t, saved.UserRecipeID, page.Recipes[0].ID)
		})
	}

	none, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{Search: "lasagna"}, proTier)
	require.NoError(t, err)
	assert.Empty(t, none.Recipes)
}

func TestListModifiedOnly(t *testing.T) {
	f := newFixture(t, pancakes())
	ctx := context.Background()

	first, err := f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/one"}, proTier)
	require.NoError(t, err)
	_, err = f.service.SaveRecipe(ctx, testUser, domain.SaveRecipeRequest{URL: "https://example.com/two"}, proTier)
	require.NoError(t, err)

	edited := pancakes()
	edited.Title = "Edited"
	_, err = f.service.UpdateRecipe(ctx, testUser, first.UserRecipeID, domain.UpdateUserRecipeRequest{Recipe: &edited}, proTier)
	require.NoError(t, err)

	modified, err := f.service.ListRecipes(ctx, testUser, ListRecipesQuery{ModifiedOnly: true}, proTier)
	require.NoError(t, err)
	require.Len(t, modified.Recipes, 1)
	assert.Equal(t, first.UserRecipeID, modified.Recipes[0].ID)
}
