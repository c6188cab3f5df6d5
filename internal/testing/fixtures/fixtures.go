// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	tag := f.CreateTag(t)
//	recipe := f.CreateRecipe(t, user, fixtures.WithTags(tag))
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Role      model.UserRole
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:     fmt.Sprintf("user_%s@test.local", randomID()),
		Username:  fmt.Sprintf("user_%s", randomID()),
		Password:  "testpass123",
		FirstName: "Test",
		LastName:  "User",
		Role:      model.UserRoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			username: $username,
			hash: $hash,
			first_name: $first_name,
			last_name: $last_name,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":      o.Email,
		"username":   o.Username,
		"hash":       string(hash),
		"first_name": o.FirstName,
		"last_name":  o.LastName,
		"role":       string(o.Role),
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.User{
		ID:        getString(data, "id"),
		Email:     getString(data, "email"),
		Username:  getString(data, "username"),
		FirstName: getString(data, "first_name"),
		LastName:  getString(data, "last_name"),
		Role:      model.UserRole(getString(data, "role")),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

// CreateAdmin creates an admin user
func (f *Factory) CreateAdmin(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.UserRoleAdmin
	})
}

// WithEmail sets the user's email
func WithEmail(email string) func(*UserOpts) {
	return func(o *UserOpts) { o.Email = email }
}

// WithUsername sets the user's username
func WithUsername(username string) func(*UserOpts) {
	return func(o *UserOpts) { o.Username = username }
}

// WithPassword sets the user's password
func WithPassword(password string) func(*UserOpts) {
	return func(o *UserOpts) { o.Password = password }
}

// ============================================================================
// Tag Fixtures
// ============================================================================

// TagOpts customizes tag creation
type TagOpts struct {
	Name  string
	Color string
	Slug  string
}

// CreateTag creates a tag with optional customizations
func (f *Factory) CreateTag(t *testing.T, opts ...func(*TagOpts)) *model.Tag {
	t.Helper()

	id := randomID()
	o := &TagOpts{
		Name:  fmt.Sprintf("Tag %s", id),
		Color: "#E26C2D",
		Slug:  fmt.Sprintf("tag-%s", id),
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE tag CONTENT {
			name: $name,
			color: $color,
			slug: $slug
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":  o.Name,
		"color": o.Color,
		"slug":  o.Slug,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create tag: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.Tag{
		ID:    getString(data, "id"),
		Name:  getString(data, "name"),
		Color: getString(data, "color"),
		Slug:  getString(data, "slug"),
	}
}

// WithSlug sets the tag's slug
func WithSlug(slug string) func(*TagOpts) {
	return func(o *TagOpts) { o.Slug = slug }
}

// ============================================================================
// Ingredient Fixtures
// ============================================================================

// IngredientOpts customizes ingredient creation
type IngredientOpts struct {
	Name            string
	MeasurementUnit string
}

// CreateIngredient creates a catalog ingredient with optional customizations
func (f *Factory) CreateIngredient(t *testing.T, opts ...func(*IngredientOpts)) *model.Ingredient {
	t.Helper()

	o := &IngredientOpts{
		Name:            fmt.Sprintf("Ingredient %s", randomID()),
		MeasurementUnit: "g",
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE ingredient CONTENT {
			name: $name,
			measurement_unit: $measurement_unit
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":             o.Name,
		"measurement_unit": o.MeasurementUnit,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create ingredient: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.Ingredient{
		ID:              getString(data, "id"),
		Name:            getString(data, "name"),
		MeasurementUnit: getString(data, "measurement_unit"),
	}
}

// WithIngredientName sets the ingredient's name
func WithIngredientName(name string) func(*IngredientOpts) {
	return func(o *IngredientOpts) { o.Name = name }
}

// WithUnit sets the ingredient's measurement unit
func WithUnit(unit string) func(*IngredientOpts) {
	return func(o *IngredientOpts) { o.MeasurementUnit = unit }
}

// ============================================================================
// Recipe Fixtures
// ============================================================================

// RecipeLine pairs a catalog ingredient with an amount for recipe creation
type RecipeLine struct {
	Ingredient *model.Ingredient
	Amount     int
}

// RecipeOpts customizes recipe creation
type RecipeOpts struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Tags        []*model.Tag
	Lines       []RecipeLine
}

// CreateRecipe creates a recipe by the given author. When no tags or
// ingredient lines are given, a tag and one ingredient are created so
// the recipe satisfies the catalog constraints.
func (f *Factory) CreateRecipe(t *testing.T, author *model.User, opts ...func(*RecipeOpts)) *model.Recipe {
	t.Helper()

	id := randomID()
	o := &RecipeOpts{
		Name:        fmt.Sprintf("Recipe %s", id),
		Text:        fmt.Sprintf("Instructions for recipe %s", id),
		Image:       fmt.Sprintf("recipes/%s.png", id),
		CookingTime: 30,
	}
	for _, fn := range opts {
		fn(o)
	}

	if len(o.Tags) == 0 {
		o.Tags = []*model.Tag{f.CreateTag(t)}
	}
	if len(o.Lines) == 0 {
		o.Lines = []RecipeLine{{Ingredient: f.CreateIngredient(t), Amount: 100}}
	}

	tagIDs := make([]string, 0, len(o.Tags))
	tagValues := make([]model.Tag, 0, len(o.Tags))
	for _, tag := range o.Tags {
		tagIDs = append(tagIDs, tag.ID)
		tagValues = append(tagValues, *tag)
	}

	query := `
		CREATE recipe CONTENT {
			author_id: $author_id,
			name: $name,
			text: $text,
			image: $image,
			cooking_time: $cooking_time,
			tags: $tags,
			created_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"author_id":    author.ID,
		"name":         o.Name,
		"text":         o.Text,
		"image":        o.Image,
		"cooking_time": o.CookingTime,
		"tags":         tagIDs,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create recipe: %v", err)
	}

	data := extractFirstResult(t, results)
	recipeID := getString(data, "id")

	lines := make([]model.IngredientLine, 0, len(o.Lines))
	for _, line := range o.Lines {
		lineQuery := `
			CREATE recipe_ingredient CONTENT {
				recipe_id: $recipe_id,
				ingredient_id: $ingredient_id,
				amount: $amount
			}
		`
		if _, err := f.db.Query(ctx(), lineQuery, map[string]interface{}{
			"recipe_id":     recipeID,
			"ingredient_id": line.Ingredient.ID,
			"amount":        line.Amount,
		}); err != nil {
			t.Fatalf("fixtures: failed to create ingredient line: %v", err)
		}
		lines = append(lines, model.IngredientLine{
			IngredientID:    line.Ingredient.ID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	return &model.Recipe{
		ID:          recipeID,
		Author:      author.ToProfile(false),
		Name:        getString(data, "name"),
		Text:        getString(data, "text"),
		Image:       getString(data, "image"),
		CookingTime: getInt(data, "cooking_time"),
		Tags:        tagValues,
		Ingredients: lines,
		CreatedOn:   getTime(data, "created_on"),
	}
}

// WithTags sets the recipe's tags
func WithTags(tags ...*model.Tag) func(*RecipeOpts) {
	return func(o *RecipeOpts) { o.Tags = tags }
}

// WithLines sets the recipe's ingredient lines
func WithLines(lines ...RecipeLine) func(*RecipeOpts) {
	return func(o *RecipeOpts) { o.Lines = lines }
}

// WithRecipeName sets the recipe's name
func WithRecipeName(name string) func(*RecipeOpts) {
	return func(o *RecipeOpts) { o.Name = name }
}

// WithCookingTime sets the recipe's cooking time in minutes
func WithCookingTime(minutes int) func(*RecipeOpts) {
	return func(o *RecipeOpts) { o.CookingTime = minutes }
}

// ============================================================================
// Relation Fixtures
// ============================================================================

// Favorite marks a recipe as a favorite of the user
func (f *Factory) Favorite(t *testing.T, user *model.User, recipe *model.Recipe) {
	f.createRelation(t, model.RelationFavorite, user.ID, recipe.ID)
}

// AddToCart puts a recipe in the user's shopping cart
func (f *Factory) AddToCart(t *testing.T, user *model.User, recipe *model.Recipe) {
	f.createRelation(t, model.RelationShoppingCart, user.ID, recipe.ID)
}

// Subscribe subscribes the user to the author
func (f *Factory) Subscribe(t *testing.T, user, author *model.User) {
	f.createRelation(t, model.RelationSubscription, user.ID, author.ID)
}

func (f *Factory) createRelation(t *testing.T, kind model.RelationKind, userID, targetID string) {
	t.Helper()

	query := `
		CREATE relation CONTENT {
			kind: $kind,
			user_id: $user_id,
			target_id: $target_id,
			created_on: time::now()
		}
	`
	if _, err := f.db.Query(ctx(), query, map[string]interface{}{
		"kind":      string(kind),
		"user_id":   userID,
		"target_id": targetID,
	}); err != nil {
		t.Fatalf("fixtures: failed to create %s relation: %v", kind, err)
	}
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB 3 record ID type - could be a struct or map
	if v := data[key]; v != nil {
		// Try to get the ID as a map with "tb" (table) and "id" fields
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(string); ok {
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	}
	if v, ok := data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}
