package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
)

// IngredientRepository handles ingredient catalog data access
type IngredientRepository struct {
	db database.Database
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db database.Database) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Create creates a new ingredient
func (r *IngredientRepository) Create(ctx context.Context, ing *model.Ingredient) error {
	query := `
		CREATE ingredient CONTENT {
			name: $name,
			measurement_unit: $measurement_unit
		}
	`

	vars := map[string]interface{}{
		"name":             ing.Name,
		"measurement_unit": ing.MeasurementUnit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: ingredient already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	ing.ID = created.ID
	return nil
}

// GetByID retrieves an ingredient by ID
func (r *IngredientRepository) GetByID(ctx context.Context, id string) (*model.Ingredient, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
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

// List returns ingredients ordered by name, optionally narrowed by a
// case-insensitive name prefix.
func (r *IngredientRepository) List(ctx context.Context, namePrefix string) ([]*model.Ingredient, error) {
	query := `SELECT * FROM ingredient ORDER BY name ASC`
	var vars map[string]interface{}

	if namePrefix != "" {
		query = `SELECT * FROM ingredient WHERE string::starts_with(string::lowercase(name), $prefix) ORDER BY name ASC`
		vars = map[string]interface{}{"prefix": strings.ToLower(namePrefix)}
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(results)
	if !ok {
		return []*model.Ingredient{}, nil
	}

	ingredients := make([]*model.Ingredient, 0, len(rows))
	for _, row := range rows {
		ing, err := parseIngredientResult(row)
		if err != nil {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

// GetByIDs retrieves ingredients for the given ids
func (r *IngredientRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Ingredient, error) {
	ingredients := make([]*model.Ingredient, 0, len(ids))
	for _, id := range ids {
		ing, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, fmt.Errorf("%w: ingredient %s", database.ErrNotFound, id)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

// Delete deletes an ingredient
func (r *IngredientRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

func parseIngredientResult(result interface{}) (*model.Ingredient, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}

	return &model.Ingredient{
		ID:              getString(data, "id"),
		Name:            getString(data, "name"),
		MeasurementUnit: getString(data, "measurement_unit"),
	}, nil
}
