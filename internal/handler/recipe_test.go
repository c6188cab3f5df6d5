package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
	"github.com/forgo/feast/api/internal/service"
)

// ============================================================================
// Fake Stores
// ============================================================================

type fakeRecipeStore struct {
	recipes    map[string]*service.RecipeRecord
	refs       map[string][]model.IngredientRef
	catalog    *fakeIngredientStore
	nextID     int
	listErr    error
	lastFilter model.RecipeFilter
}

func newFakeRecipeStore(catalog *fakeIngredientStore) *fakeRecipeStore {
	return &fakeRecipeStore{
		recipes: make(map[string]*service.RecipeRecord),
		refs:    make(map[string][]model.IngredientRef),
		catalog: catalog,
	}
}

func (f *fakeRecipeStore) Create(ctx context.Context, rec *service.RecipeRecord, lines []model.IngredientRef) error {
	for _, existing := range f.recipes {
		if existing.Name == rec.Name && existing.Text == rec.Text {
			return database.ErrDuplicate
		}
	}
	f.nextID++
	rec.ID = fmt.Sprintf("recipe:%d", f.nextID)
	rec.CreatedOn = time.Now()
	f.recipes[rec.ID] = rec
	f.refs[rec.ID] = lines
	return nil
}

func (f *fakeRecipeStore) GetByID(ctx context.Context, id string) (*service.RecipeRecord, error) {
	return f.recipes[id], nil
}

func (f *fakeRecipeStore) List(ctx context.Context, filter model.RecipeFilter) ([]*service.RecipeRecord, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*service.RecipeRecord
	for _, rec := range f.recipes {
		if filter.AuthorID != "" && rec.AuthorID != filter.AuthorID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRecipeStore) Update(ctx context.Context, rec *service.RecipeRecord, lines []model.IngredientRef) error {
	f.recipes[rec.ID] = rec
	if lines != nil {
		f.refs[rec.ID] = lines
	}
	return nil
}

func (f *fakeRecipeStore) Delete(ctx context.Context, id string) error {
	delete(f.recipes, id)
	delete(f.refs, id)
	return nil
}

func (f *fakeRecipeStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.recipes[id]
	return ok, nil
}

func (f *fakeRecipeStore) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	count := 0
	for _, rec := range f.recipes {
		if rec.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRecipeStore) GetLines(ctx context.Context, recipeID string) ([]model.IngredientLine, error) {
	var lines []model.IngredientLine
	for _, ref := range f.refs[recipeID] {
		ing := f.catalog.ingredients[ref.ID]
		if ing == nil {
			continue
		}
		lines = append(lines, model.IngredientLine{
			IngredientID:    ing.ID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          ref.Amount,
		})
	}
	return lines, nil
}

type fakeTagStore struct {
	tags map[string]*model.Tag
}

func (f *fakeTagStore) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	if t, ok := f.tags[id]; ok {
		return t, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeTagStore) GetByIDs(ctx context.Context, ids []string) ([]*model.Tag, error) {
	out := make([]*model.Tag, 0, len(ids))
	for _, id := range ids {
		t, ok := f.tags[id]
		if !ok {
			return nil, database.ErrNotFound
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTagStore) List(ctx context.Context) ([]*model.Tag, error) {
	out := make([]*model.Tag, 0, len(f.tags))
	for _, t := range f.tags {
		out = append(out, t)
	}
	return out, nil
}

type fakeIngredientStore struct {
	ingredients map[string]*model.Ingredient
}

func (f *fakeIngredientStore) GetByID(ctx context.Context, id string) (*model.Ingredient, error) {
	if ing, ok := f.ingredients[id]; ok {
		return ing, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeIngredientStore) GetByIDs(ctx context.Context, ids []string) ([]*model.Ingredient, error) {
	out := make([]*model.Ingredient, 0, len(ids))
	for _, id := range ids {
		ing, ok := f.ingredients[id]
		if !ok {
			return nil, database.ErrNotFound
		}
		out = append(out, ing)
	}
	return out, nil
}

func (f *fakeIngredientStore) List(ctx context.Context, namePrefix string) ([]*model.Ingredient, error) {
	var out []*model.Ingredient
	for _, ing := range f.ingredients {
		if namePrefix == "" || strings.HasPrefix(strings.ToLower(ing.Name), strings.ToLower(namePrefix)) {
			out = append(out, ing)
		}
	}
	return out, nil
}

type fakeRecipeUserStore struct {
	users map[string]*model.User
}

func (f *fakeRecipeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeRecipeUserStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

type fakeRelationStore struct {
	relations map[string]bool
}

func relationKey(kind model.RelationKind, userID, targetID string) string {
	return string(kind) + "|" + userID + "|" + targetID
}

func (f *fakeRelationStore) Create(ctx context.Context, kind model.RelationKind, userID, targetID string) (*model.Relation, error) {
	key := relationKey(kind, userID, targetID)
	if f.relations[key] {
		return nil, database.ErrDuplicate
	}
	f.relations[key] = true
	return &model.Relation{
		ID:        "relation:" + key,
		Kind:      kind,
		UserID:    userID,
		TargetID:  targetID,
		CreatedOn: time.Now(),
	}, nil
}

func (f *fakeRelationStore) Exists(ctx context.Context, kind model.RelationKind, userID, targetID string) (bool, error) {
	return f.relations[relationKey(kind, userID, targetID)], nil
}

func (f *fakeRelationStore) Delete(ctx context.Context, kind model.RelationKind, userID, targetID string) error {
	delete(f.relations, relationKey(kind, userID, targetID))
	return nil
}

func (f *fakeRelationStore) ListTargets(ctx context.Context, kind model.RelationKind, userID string) ([]string, error) {
	var out []string
	prefix := string(kind) + "|" + userID + "|"
	for key := range f.relations {
		if strings.HasPrefix(key, prefix) {
			out = append(out, strings.TrimPrefix(key, prefix))
		}
	}
	return out, nil
}

type fakeCartStore struct {
	lines []model.CartLine
	err   error
}

func (f *fakeCartStore) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	return f.lines, f.err
}

// ============================================================================
// Test Environment
// ============================================================================

type recipeTestEnv struct {
	handler   *RecipeHandler
	recipes   *fakeRecipeStore
	relations *fakeRelationStore
	cart      *fakeCartStore
}

// newRecipeTestEnv wires the handler to real services over seeded fakes.
// Seeded data: users alice (author of recipe:1), bob, and an admin; one
// breakfast tag; flour and sugar in the ingredient catalog.
func newRecipeTestEnv(t *testing.T) *recipeTestEnv {
	t.Helper()

	ingredients := &fakeIngredientStore{ingredients: map[string]*model.Ingredient{
		"ingredient:flour": {ID: "ingredient:flour", Name: "Flour", MeasurementUnit: "g"},
		"ingredient:sugar": {ID: "ingredient:sugar", Name: "Sugar", MeasurementUnit: "g"},
	}}
	tags := &fakeTagStore{tags: map[string]*model.Tag{
		"tag:breakfast": {ID: "tag:breakfast", Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	}}
	users := &fakeRecipeUserStore{users: map[string]*model.User{
		"user:alice": {ID: "user:alice", Email: "alice@example.com", Username: "alice", Role: model.UserRoleUser},
		"user:bob":   {ID: "user:bob", Email: "bob@example.com", Username: "bob", Role: model.UserRoleUser},
		"user:admin": {ID: "user:admin", Email: "admin@example.com", Username: "admin", Role: model.UserRoleAdmin},
	}}
	recipes := newFakeRecipeStore(ingredients)
	recipes.nextID = 1
	recipes.recipes["recipe:1"] = &service.RecipeRecord{
		ID:          "recipe:1",
		AuthorID:    "user:alice",
		Name:        "Pancakes",
		Text:        "Mix and fry",
		Image:       "pancakes.png",
		CookingTime: 20,
		TagIDs:      []string{"tag:breakfast"},
		CreatedOn:   time.Now(),
	}
	recipes.refs["recipe:1"] = []model.IngredientRef{
		{ID: "ingredient:flour", Amount: 200},
	}
	relations := &fakeRelationStore{relations: make(map[string]bool)}
	cart := &fakeCartStore{}

	recipeService := service.NewRecipeService(service.RecipeServiceConfig{
		Recipes:     recipes,
		Tags:        tags,
		Ingredients: ingredients,
		Users:       users,
		Relations:   relations,
	})
	toggleService := service.NewToggleService(service.ToggleServiceConfig{
		Relations: relations,
		Recipes:   recipes,
		Users:     users,
	})
	cartService := service.NewCartService(cart)

	return &recipeTestEnv{
		handler:   NewRecipeHandler(recipeService, toggleService, cartService),
		recipes:   recipes,
		relations: relations,
		cart:      cart,
	}
}

func recipeRequest(method, path, recipeID, userID string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(body)
		req = httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if recipeID != "" {
		req.SetPathValue("id", recipeID)
	}
	if userID != "" {
		req = withUserContext(req, userID)
	}
	return req
}

func validCreateBody() model.CreateRecipeRequest {
	return model.CreateRecipeRequest{
		Name:        "Shortbread",
		Text:        "Cream, mix, bake",
		Image:       "shortbread.png",
		CookingTime: 45,
		Tags:        []string{"tag:breakfast"},
		Ingredients: []model.IngredientRef{
			{ID: "ingredient:flour", Amount: 300},
			{ID: "ingredient:sugar", Amount: 100},
		},
	}
}

// ============================================================================
// Shopping List Download Tests
// ============================================================================

func TestDownloadShoppingCart_RendersAttachment(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)
	env.cart.lines = []model.CartLine{
		{Name: "Sugar", MeasurementUnit: "g", Total: 50},
		{Name: "Flour", MeasurementUnit: "g", Total: 500},
	}

	req := recipeRequest(http.MethodGet, "/api/recipes/download_shopping_cart", "", "user:bob", nil)
	rr := httptest.NewRecorder()

	env.handler.DownloadShoppingCart(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("expected text/plain content type, got %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=to_buy.txt" {
		t.Errorf("unexpected Content-Disposition: %q", cd)
	}

	want := "Shopping list\n\nFlour, 500 g\nSugar, 50 g\n"
	if rr.Body.String() != want {
		t.Errorf("unexpected body:\ngot:  %q\nwant: %q", rr.Body.String(), want)
	}
}

func TestDownloadShoppingCart_EmptyCart_RendersHeaderOnly(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodGet, "/api/recipes/download_shopping_cart", "", "user:bob", nil)
	rr := httptest.NewRecorder()

	env.handler.DownloadShoppingCart(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != "Shopping list\n\n" {
		t.Errorf("unexpected body: %q", rr.Body.String())
	}
}

func TestDownloadShoppingCart_NoAuth_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodGet, "/api/recipes/download_shopping_cart", "", "", nil)
	rr := httptest.NewRecorder()

	env.handler.DownloadShoppingCart(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

// ============================================================================
// Favorite Tests
// ============================================================================

func TestFavorite_ReturnsCreatedWithShortRecipe(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodPost, "/api/recipes/recipe:1/favorite", "recipe:1", "user:bob", nil)
	rr := httptest.NewRecorder()

	env.handler.Favorite(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var resp DataResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("expected data to be an object")
	}
	if data["name"] != "Pancakes" {
		t.Errorf("expected recipe name 'Pancakes', got %v", data["name"])
	}
	if data["cooking_time"] != float64(20) {
		t.Errorf("expected cooking_time 20, got %v", data["cooking_time"])
	}
}

func TestFavorite_Duplicate_ReturnsBadRequest(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	first := recipeRequest(http.MethodPost, "/api/recipes/recipe:1/favorite", "recipe:1", "user:bob", nil)
	env.handler.Favorite(httptest.NewRecorder(), first)

	second := recipeRequest(http.MethodPost, "/api/recipes/recipe:1/favorite", "recipe:1", "user:bob", nil)
	rr := httptest.NewRecorder()
	env.handler.Favorite(rr, second)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestFavorite_MissingRecipe_ReturnsNotFound(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodPost, "/api/recipes/recipe:999/favorite", "recipe:999", "user:bob", nil)
	rr := httptest.NewRecorder()

	env.handler.Favorite(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestFavorite_NoAuth_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodPost, "/api/recipes/recipe:1/favorite", "recipe:1", "", nil)
	rr := httptest.NewRecorder()

	env.handler.Favorite(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestUnfavorite_ReturnsNoContent(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	add := recipeRequest(http.MethodPost, "/api/recipes/recipe:1/favorite", "recipe:1", "user:bob", nil)
	env.handler.Favorite(httptest.NewRecorder(), add)

	req := recipeRequest(http.MethodDelete, "/api/recipes/recipe:1/favorite", "recipe:1", "user:bob", nil)
	rr := httptest.NewRecorder()
	env.handler.Unfavorite(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}

func TestUnfavorite_NotPresent_ReturnsBadRequest(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodDelete, "/api/recipes/recipe:1/favorite", "recipe:1", "user:bob", nil)
	rr := httptest.NewRecorder()
	env.handler.Unfavorite(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

// ============================================================================
// Shopping Cart Toggle Tests
// ============================================================================

func TestAddToCart_ReturnsCreated(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodPost, "/api/recipes/recipe:1/shopping_cart", "recipe:1", "user:bob", nil)
	rr := httptest.NewRecorder()

	env.handler.AddToCart(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	if !env.relations.relations[relationKey(model.RelationShoppingCart, "user:bob", "recipe:1")] {
		t.Error("expected shopping cart relation to be stored")
	}
}

func TestRemoveFromCart_NotPresent_ReturnsBadRequest(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodDelete, "/api/recipes/recipe:1/shopping_cart", "recipe:1", "user:bob", nil)
	rr := httptest.NewRecorder()
	env.handler.RemoveFromCart(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

// ============================================================================
// CRUD Tests
// ============================================================================

func TestCreateRecipe_ReturnsCreated(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodPost, "/api/recipes", "", "user:bob", validCreateBody())
	rr := httptest.NewRecorder()

	env.handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var resp DataResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("expected data to be an object")
	}
	if data["name"] != "Shortbread" {
		t.Errorf("expected name 'Shortbread', got %v", data["name"])
	}
	author, ok := data["author"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'author' in response")
	}
	if author["username"] != "bob" {
		t.Errorf("expected author 'bob', got %v", author["username"])
	}
}

func TestCreateRecipe_MalformedBody_ReturnsBadRequest(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewBufferString("{broken"))
	req = withUserContext(req, "user:bob")
	rr := httptest.NewRecorder()

	env.handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestCreateRecipe_NoTags_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	body := validCreateBody()
	body.Tags = nil
	req := recipeRequest(http.MethodPost, "/api/recipes", "", "user:bob", body)
	rr := httptest.NewRecorder()

	env.handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestCreateRecipe_DuplicateIngredients_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	body := validCreateBody()
	body.Ingredients = []model.IngredientRef{
		{ID: "ingredient:flour", Amount: 100},
		{ID: "ingredient:flour", Amount: 200},
	}
	req := recipeRequest(http.MethodPost, "/api/recipes", "", "user:bob", body)
	rr := httptest.NewRecorder()

	env.handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestCreateRecipe_DuplicateNameAndText_ReturnsConflict(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	body := validCreateBody()
	body.Name = "Pancakes"
	body.Text = "Mix and fry"
	req := recipeRequest(http.MethodPost, "/api/recipes", "", "user:bob", body)
	rr := httptest.NewRecorder()

	env.handler.Create(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rr.Code)
	}
}

func TestGetRecipe_ReturnsRecipe(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodGet, "/api/recipes/recipe:1", "recipe:1", "", nil)
	rr := httptest.NewRecorder()

	env.handler.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var resp DataResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("expected data to be an object")
	}
	// Anonymous viewers never see flags set
	if data["is_favorited"] != false {
		t.Errorf("expected is_favorited false, got %v", data["is_favorited"])
	}
	if data["is_in_shopping_cart"] != false {
		t.Errorf("expected is_in_shopping_cart false, got %v", data["is_in_shopping_cart"])
	}
}

func TestGetRecipe_NotFound(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodGet, "/api/recipes/recipe:999", "recipe:999", "", nil)
	rr := httptest.NewRecorder()

	env.handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestListRecipes_ReturnsOK(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodGet, "/api/recipes", "", "", nil)
	rr := httptest.NewRecorder()

	env.handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestListRecipes_FavoritedFlag_AcceptsOneAndTrue(t *testing.T) {
	t.Parallel()

	for _, spelling := range []string{"1", "true", "True"} {
		env := newRecipeTestEnv(t)

		req := recipeRequest(http.MethodGet, "/api/recipes?is_favorited="+spelling, "", "user:bob", nil)
		rr := httptest.NewRecorder()

		env.handler.List(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("is_favorited=%s: expected status %d, got %d", spelling, http.StatusOK, rr.Code)
		}
		if got := env.recipes.lastFilter.FavoritedBy; got != "user:bob" {
			t.Errorf("is_favorited=%s: expected filter scoped to user:bob, got %q", spelling, got)
		}
	}
}

func TestListRecipes_CartFlag_AcceptsTrue(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodGet, "/api/recipes?is_in_shopping_cart=true", "", "user:bob", nil)
	rr := httptest.NewRecorder()

	env.handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if got := env.recipes.lastFilter.InCartOf; got != "user:bob" {
		t.Errorf("expected filter scoped to user:bob, got %q", got)
	}
}

func TestListRecipes_FavoritedFlag_AnonymousIgnored(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodGet, "/api/recipes?is_favorited=true", "", "", nil)
	rr := httptest.NewRecorder()

	env.handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if got := env.recipes.lastFilter.FavoritedBy; got != "" {
		t.Errorf("anonymous viewer must not be scoped to favorites, got %q", got)
	}
}

func TestListRecipes_TagsParam_BothForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query string
	}{
		{"repeated", "/api/recipes?tags=breakfast&tags=lunch"},
		{"comma separated", "/api/recipes?tags=breakfast,lunch"},
	}
	for _, tc := range cases {
		env := newRecipeTestEnv(t)

		req := recipeRequest(http.MethodGet, tc.query, "", "", nil)
		rr := httptest.NewRecorder()

		env.handler.List(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", tc.name, http.StatusOK, rr.Code)
		}
		got := env.recipes.lastFilter.TagSlugs
		if len(got) != 2 || got[0] != "breakfast" || got[1] != "lunch" {
			t.Errorf("%s: expected slugs [breakfast lunch], got %v", tc.name, got)
		}
	}
}

func TestListRecipes_StoreFailure_ReturnsInternal(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)
	env.recipes.listErr = errors.New("connection reset")

	req := recipeRequest(http.MethodGet, "/api/recipes", "", "", nil)
	rr := httptest.NewRecorder()

	env.handler.List(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	problem := parseErrorResponse(t, rr.Body.Bytes())
	if problem.Detail != "recipe operation: an unexpected error occurred" {
		t.Errorf("unexpected detail %q", problem.Detail)
	}
}

func TestUpdateRecipe_Stranger_ReturnsForbidden(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	name := "Stolen Pancakes"
	req := recipeRequest(http.MethodPatch, "/api/recipes/recipe:1", "recipe:1", "user:bob", model.UpdateRecipeRequest{
		Name: &name,
	})
	rr := httptest.NewRecorder()

	env.handler.Update(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}
}

func TestUpdateRecipe_Author_ReturnsOK(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	name := "Thick Pancakes"
	req := recipeRequest(http.MethodPatch, "/api/recipes/recipe:1", "recipe:1", "user:alice", model.UpdateRecipeRequest{
		Name: &name,
	})
	rr := httptest.NewRecorder()

	env.handler.Update(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if env.recipes.recipes["recipe:1"].Name != "Thick Pancakes" {
		t.Errorf("expected stored name to be updated, got %q", env.recipes.recipes["recipe:1"].Name)
	}
}

func TestDeleteRecipe_Author_ReturnsNoContent(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodDelete, "/api/recipes/recipe:1", "recipe:1", "user:alice", nil)
	rr := httptest.NewRecorder()

	env.handler.Delete(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if _, ok := env.recipes.recipes["recipe:1"]; ok {
		t.Error("expected recipe to be deleted")
	}
}

func TestDeleteRecipe_Admin_ReturnsNoContent(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodDelete, "/api/recipes/recipe:1", "recipe:1", "user:admin", nil)
	rr := httptest.NewRecorder()

	env.handler.Delete(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}

func TestDeleteRecipe_Stranger_ReturnsForbidden(t *testing.T) {
	t.Parallel()
	env := newRecipeTestEnv(t)

	req := recipeRequest(http.MethodDelete, "/api/recipes/recipe:1", "recipe:1", "user:bob", nil)
	rr := httptest.NewRecorder()

	env.handler.Delete(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}
}
