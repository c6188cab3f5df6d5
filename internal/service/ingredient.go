package service

import (
	"context"
	"errors"
	"strings"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
)

// IngredientWriter extends IngredientStore with catalog mutations
type IngredientWriter interface {
	IngredientStore
	Create(ctx context.Context, ing *model.Ingredient) error
	Delete(ctx context.Context, id string) error
}

// IngredientService handles the ingredient catalog. Reads are public;
// writes are restricted to admins at the routing layer.
type IngredientService struct {
	ingredients IngredientWriter
}

// NewIngredientService creates a new ingredient service
func NewIngredientService(ingredients IngredientWriter) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

// List returns ingredients, optionally narrowed by a case-insensitive
// name prefix
func (s *IngredientService) List(ctx context.Context, namePrefix string) ([]*model.Ingredient, error) {
	return s.ingredients.List(ctx, strings.TrimSpace(namePrefix))
}

// Get returns an ingredient by id
func (s *IngredientService) Get(ctx context.Context, id string) (*model.Ingredient, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, ErrIngredientNotFound
	}
	return ing, nil
}

// Create adds an ingredient to the catalog
func (s *IngredientService) Create(ctx context.Context, req *model.CreateIngredientRequest) (*model.Ingredient, error) {
	ing := &model.Ingredient{
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	}

	if err := s.ingredients.Create(ctx, ing); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrIngredientExists
		}
		return nil, err
	}
	return ing, nil
}

// Delete removes an ingredient from the catalog
func (s *IngredientService) Delete(ctx context.Context, id string) error {
	ing, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ing == nil {
		return ErrIngredientNotFound
	}
	return s.ingredients.Delete(ctx, id)
}
