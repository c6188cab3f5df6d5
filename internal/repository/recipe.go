package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
	"github.com/forgo/feast/api/internal/service"
)

// RecipeRepository handles recipe data access. Ingredient lines live in
// their own table so the cart aggregation can sum them without loading
// whole recipes.
type RecipeRepository struct {
	db database.Database
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db database.Database) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// newRecipeID generates a record id so the recipe and its ingredient
// lines can be written in one atomic batch.
func newRecipeID() string {
	return "recipe:" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create stores a recipe and its ingredient lines atomically
func (r *RecipeRepository) Create(ctx context.Context, rec *service.RecipeRecord, lines []model.IngredientRef) error {
	id := newRecipeID()
	createdOn := time.Now().UTC()

	batch := database.NewAtomicBatch()
	batch.Add(`
		CREATE type::record($rid) CONTENT {
			author_id: $author_id,
			name: $name,
			text: $text,
			image: $image,
			cooking_time: $cooking_time,
			tags: $tags,
			created_on: <datetime>$created_on
		}
	`, map[string]interface{}{
		"rid":          id,
		"author_id":    rec.AuthorID,
		"name":         rec.Name,
		"text":         rec.Text,
		"image":        rec.Image,
		"cooking_time": rec.CookingTime,
		"tags":         rec.TagIDs,
		"created_on":   createdOn.Format(time.RFC3339),
	})
	addLineQueries(batch, id, lines)

	if err := batch.Execute(ctx, r.db); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: recipe with this name and text already exists", database.ErrDuplicate)
		}
		return err
	}

	rec.ID = id
	rec.CreatedOn = createdOn
	return nil
}

// GetByID retrieves a recipe record by ID
func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*service.RecipeRecord, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	rec, err := parseRecipeRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// List returns recipe records newest first, narrowed by the filter.
// Tag slugs are a union: a recipe matches if it carries ANY of them.
func (r *RecipeRepository) List(ctx context.Context, filter model.RecipeFilter) ([]*service.RecipeRecord, error) {
	conditions := []string{}
	vars := map[string]interface{}{}

	if len(filter.TagSlugs) > 0 {
		conditions = append(conditions,
			`tags CONTAINSANY (SELECT VALUE type::string(id) FROM tag WHERE slug IN $tag_slugs)`)
		vars["tag_slugs"] = filter.TagSlugs
	}
	if filter.AuthorID != "" {
		conditions = append(conditions, `author_id = $author_id`)
		vars["author_id"] = filter.AuthorID
	}
	if filter.FavoritedBy != "" {
		conditions = append(conditions,
			`type::string(id) IN (SELECT VALUE target_id FROM relation WHERE kind = 'favorite' AND user_id = $fav_user)`)
		vars["fav_user"] = filter.FavoritedBy
	}
	if filter.InCartOf != "" {
		conditions = append(conditions,
			`type::string(id) IN (SELECT VALUE target_id FROM relation WHERE kind = 'shopping_cart' AND user_id = $cart_user)`)
		vars["cart_user"] = filter.InCartOf
	}

	query := `SELECT * FROM recipe`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_on DESC`
	if filter.Limit > 0 {
		query += ` LIMIT $limit START $offset`
		vars["limit"] = filter.Limit
		vars["offset"] = filter.Offset
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(results)
	if !ok {
		return []*service.RecipeRecord{}, nil
	}

	records := make([]*service.RecipeRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := parseRecipeRecord(row)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Update rewrites a recipe's fields and, when lines is non-nil, replaces
// its ingredient lines. Everything happens in one atomic batch.
func (r *RecipeRepository) Update(ctx context.Context, rec *service.RecipeRecord, lines []model.IngredientRef) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE type::record($rid) SET
			name = $name,
			text = $text,
			image = $image,
			cooking_time = $cooking_time,
			tags = $tags
	`, map[string]interface{}{
		"rid":          rec.ID,
		"name":         rec.Name,
		"text":         rec.Text,
		"image":        rec.Image,
		"cooking_time": rec.CookingTime,
		"tags":         rec.TagIDs,
	})
	if lines != nil {
		batch.Add(`DELETE recipe_ingredient WHERE recipe_id = $rid`,
			map[string]interface{}{"rid": rec.ID})
		addLineQueries(batch, rec.ID, lines)
	}

	if err := batch.Execute(ctx, r.db); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: recipe with this name and text already exists", database.ErrDuplicate)
		}
		return err
	}
	return nil
}

// Delete removes a recipe along with its ingredient lines and any
// favorites or cart items pointing at it
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE recipe_ingredient WHERE recipe_id = $rid`, map[string]interface{}{"rid": id})
	batch.Add(`DELETE relation WHERE target_id = $rid`, map[string]interface{}{"rid": id})
	batch.Add(`DELETE type::record($rid)`, map[string]interface{}{"rid": id})
	return batch.Execute(ctx, r.db)
}

// Exists reports whether a recipe exists
func (r *RecipeRepository) Exists(ctx context.Context, id string) (bool, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// CountByAuthor returns the number of recipes by an author
func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	query := `SELECT count() AS count FROM recipe WHERE author_id = $author_id GROUP ALL`
	vars := map[string]interface{}{"author_id": authorID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count"), nil
	}
	return extractCount(result), nil
}

// GetLines returns a recipe's ingredient lines with names and units resolved
func (r *RecipeRepository) GetLines(ctx context.Context, recipeID string) ([]model.IngredientLine, error) {
	query := `SELECT ingredient_id, amount FROM recipe_ingredient WHERE recipe_id = $rid`
	vars := map[string]interface{}{"rid": recipeID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(results)
	if !ok {
		return []model.IngredientLine{}, nil
	}

	lines := make([]model.IngredientLine, 0, len(rows))
	for _, row := range rows {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		lines = append(lines, model.IngredientLine{
			IngredientID: convertSurrealID(data["ingredient_id"]),
			Amount:       getInt(data, "amount"),
		})
	}

	// Resolve names and units
	for i := range lines {
		ing, err := r.lookupIngredient(ctx, lines[i].IngredientID)
		if err != nil {
			return nil, err
		}
		if ing != nil {
			lines[i].Name = ing.Name
			lines[i].MeasurementUnit = ing.MeasurementUnit
		}
	}
	return lines, nil
}

// CartLines aggregates the ingredient lines of every recipe in the
// user's shopping cart: one row per distinct ingredient with amounts
// summed across recipes.
func (r *RecipeRepository) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	query := `
		SELECT ingredient_id, math::sum(amount) AS total FROM recipe_ingredient
		WHERE recipe_id IN (
			SELECT VALUE target_id FROM relation
			WHERE kind = 'shopping_cart' AND user_id = $uid
		)
		GROUP BY ingredient_id
	`
	vars := map[string]interface{}{"uid": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(results)
	if !ok {
		return []model.CartLine{}, nil
	}

	lines := make([]model.CartLine, 0, len(rows))
	for _, row := range rows {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		ing, err := r.lookupIngredient(ctx, convertSurrealID(data["ingredient_id"]))
		if err != nil {
			return nil, err
		}
		if ing == nil {
			continue
		}
		lines = append(lines, model.CartLine{
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Total:           getInt(data, "total"),
		})
	}
	return lines, nil
}

func (r *RecipeRepository) lookupIngredient(ctx context.Context, id string) (*model.Ingredient, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ing, err := parseIngredientResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ing, nil
}

func addLineQueries(batch *database.AtomicBatch, recipeID string, lines []model.IngredientRef) {
	for _, line := range lines {
		batch.Add(`
			CREATE recipe_ingredient CONTENT {
				recipe_id: $recipe_id,
				ingredient_id: $ingredient_id,
				amount: $amount
			}
		`, map[string]interface{}{
			"recipe_id":     recipeID,
			"ingredient_id": line.ID,
			"amount":        line.Amount,
		})
	}
}

func parseRecipeRecord(result interface{}) (*service.RecipeRecord, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}

	rec := &service.RecipeRecord{
		ID:          getString(data, "id"),
		AuthorID:    getString(data, "author_id"),
		Name:        getString(data, "name"),
		Text:        getString(data, "text"),
		Image:       getString(data, "image"),
		CookingTime: getInt(data, "cooking_time"),
		TagIDs:      getStringSlice(data, "tags"),
	}
	if t := getTime(data, "created_on"); t != nil {
		rec.CreatedOn = *t
	}
	return rec, nil
}
