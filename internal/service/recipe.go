package service

import (
	"context"
	"errors"
	"time"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
)

// RecipeRecord is the storage shape of a recipe. Related data (tags,
// ingredient lines, author) is resolved separately when assembling a
// full model.Recipe.
type RecipeRecord struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Name        string    `json:"name"`
	Text        string    `json:"text"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
	TagIDs      []string  `json:"tags"`
	CreatedOn   time.Time `json:"created_on"`
}

// RecipeStore defines the repository interface for recipes
type RecipeStore interface {
	Create(ctx context.Context, rec *RecipeRecord, lines []model.IngredientRef) error
	GetByID(ctx context.Context, id string) (*RecipeRecord, error)
	List(ctx context.Context, filter model.RecipeFilter) ([]*RecipeRecord, error)
	Update(ctx context.Context, rec *RecipeRecord, lines []model.IngredientRef) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	GetLines(ctx context.Context, recipeID string) ([]model.IngredientLine, error)
}

// TagStore defines the repository interface for tags
type TagStore interface {
	GetByID(ctx context.Context, id string) (*model.Tag, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Tag, error)
	List(ctx context.Context) ([]*model.Tag, error)
}

// IngredientStore defines the repository interface for ingredients
type IngredientStore interface {
	GetByID(ctx context.Context, id string) (*model.Ingredient, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Ingredient, error)
	List(ctx context.Context, namePrefix string) ([]*model.Ingredient, error)
}

// UserStore defines the repository interface for user lookups
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ListRecipesParams narrows a recipe listing. ViewerID is empty for
// anonymous viewers; the Favorited and InCart flags are then no-ops.
type ListRecipesParams struct {
	TagSlugs  []string
	AuthorID  string
	Favorited bool
	InCart    bool
	Limit     int
	Page      int
}

// RecipeServiceConfig holds dependencies for RecipeService
type RecipeServiceConfig struct {
	Recipes     RecipeStore
	Tags        TagStore
	Ingredients IngredientStore
	Users       UserStore
	Relations   RelationStore
}

// RecipeService handles recipe business logic
type RecipeService struct {
	recipes     RecipeStore
	tags        TagStore
	ingredients IngredientStore
	users       UserStore
	relations   RelationStore
}

// NewRecipeService creates a new recipe service
func NewRecipeService(cfg RecipeServiceConfig) *RecipeService {
	return &RecipeService{
		recipes:     cfg.Recipes,
		tags:        cfg.Tags,
		ingredients: cfg.Ingredients,
		users:       cfg.Users,
		relations:   cfg.Relations,
	}
}

// DefaultPageSize bounds recipe listings when the client gives no limit
const DefaultPageSize = 10

// Create validates and stores a new recipe for the author
func (s *RecipeService) Create(ctx context.Context, authorID string, req *model.CreateRecipeRequest) (*model.Recipe, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, ErrRecipeValidation
	}

	// Referenced tags and ingredients must exist before anything is written
	if _, err := s.tags.GetByIDs(ctx, req.Tags); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	ingredientIDs := make([]string, 0, len(req.Ingredients))
	for _, ref := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, ref.ID)
	}
	if _, err := s.ingredients.GetByIDs(ctx, ingredientIDs); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}

	rec := &RecipeRecord{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
	}

	if err := s.recipes.Create(ctx, rec, req.Ingredients); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrRecipeExists
		}
		return nil, err
	}

	return s.assemble(ctx, rec, authorID)
}

// Get returns a recipe with viewer-dependent flags resolved.
// viewerID is empty for anonymous viewers; flags are then false.
func (s *RecipeService) Get(ctx context.Context, id, viewerID string) (*model.Recipe, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecipeNotFound
	}
	return s.assemble(ctx, rec, viewerID)
}

// List returns recipes newest first, narrowed by the given params
func (s *RecipeService) List(ctx context.Context, params ListRecipesParams, viewerID string) ([]*model.Recipe, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	filter := model.RecipeFilter{
		TagSlugs: params.TagSlugs,
		AuthorID: params.AuthorID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	// Viewer-dependent flags are no-ops for anonymous viewers
	if viewerID != "" {
		if params.Favorited {
			filter.FavoritedBy = viewerID
		}
		if params.InCart {
			filter.InCartOf = viewerID
		}
	}

	records, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	recipes := make([]*model.Recipe, 0, len(records))
	for _, rec := range records {
		recipe, err := s.assemble(ctx, rec, viewerID)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// Update applies a partial update. Only the author or an admin may update.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID string, req *model.UpdateRecipeRequest) (*model.Recipe, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, ErrRecipeValidation
	}

	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecipeNotFound
	}

	if err := s.authorizeChange(ctx, actorID, rec); err != nil {
		return nil, err
	}

	if req.Name != nil {
		rec.Name = *req.Name
	}
	if req.Text != nil {
		rec.Text = *req.Text
	}
	if req.Image != nil {
		rec.Image = *req.Image
	}
	if req.CookingTime != nil {
		rec.CookingTime = *req.CookingTime
	}
	if req.Tags != nil {
		if _, err := s.tags.GetByIDs(ctx, req.Tags); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrTagNotFound
			}
			return nil, err
		}
		rec.TagIDs = req.Tags
	}

	lines := req.Ingredients
	if lines != nil {
		ids := make([]string, 0, len(lines))
		for _, ref := range lines {
			ids = append(ids, ref.ID)
		}
		if _, err := s.ingredients.GetByIDs(ctx, ids); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrIngredientNotFound
			}
			return nil, err
		}
	}

	if err := s.recipes.Update(ctx, rec, lines); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrRecipeExists
		}
		return nil, err
	}

	return s.assemble(ctx, rec, actorID)
}

// Delete removes a recipe along with its ingredient lines and relations.
// Only the author or an admin may delete.
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID string) error {
	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrRecipeNotFound
	}

	if err := s.authorizeChange(ctx, actorID, rec); err != nil {
		return err
	}

	return s.recipes.Delete(ctx, recipeID)
}

// Short returns the compact representation of a recipe
func (s *RecipeService) Short(ctx context.Context, id string) (*model.RecipeShort, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecipeNotFound
	}
	return &model.RecipeShort{
		ID:          rec.ID,
		Name:        rec.Name,
		Image:       rec.Image,
		CookingTime: rec.CookingTime,
	}, nil
}

// ShortsByAuthor returns up to limit compact recipes by an author,
// newest first
func (s *RecipeService) ShortsByAuthor(ctx context.Context, authorID string, limit int) ([]model.RecipeShort, error) {
	if limit <= 0 {
		limit = model.DefaultRecipePreview
	}
	records, err := s.recipes.List(ctx, model.RecipeFilter{AuthorID: authorID, Limit: limit})
	if err != nil {
		return nil, err
	}
	shorts := make([]model.RecipeShort, 0, len(records))
	for _, rec := range records {
		shorts = append(shorts, model.RecipeShort{
			ID:          rec.ID,
			Name:        rec.Name,
			Image:       rec.Image,
			CookingTime: rec.CookingTime,
		})
	}
	return shorts, nil
}

// CountByAuthor returns the number of recipes by an author
func (s *RecipeService) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	return s.recipes.CountByAuthor(ctx, authorID)
}

func (s *RecipeService) authorizeChange(ctx context.Context, actorID string, rec *RecipeRecord) error {
	if rec.AuthorID == actorID {
		return nil
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return ErrUserNotFound
	}
	if !actor.IsAdmin() {
		return ErrNotRecipeAuthor
	}
	return nil
}

// assemble resolves a storage record to a full recipe with tags,
// ingredient lines, author profile, and viewer flags.
func (s *RecipeService) assemble(ctx context.Context, rec *RecipeRecord, viewerID string) (*model.Recipe, error) {
	author, err := s.users.GetByID(ctx, rec.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	tags, err := s.tags.GetByIDs(ctx, rec.TagIDs)
	if err != nil {
		return nil, err
	}

	lines, err := s.recipes.GetLines(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	subscribed := false
	favorited := false
	inCart := false
	if viewerID != "" {
		if viewerID != rec.AuthorID {
			subscribed, err = s.relations.Exists(ctx, model.RelationSubscription, viewerID, rec.AuthorID)
			if err != nil {
				return nil, err
			}
		}
		favorited, err = s.relations.Exists(ctx, model.RelationFavorite, viewerID, rec.ID)
		if err != nil {
			return nil, err
		}
		inCart, err = s.relations.Exists(ctx, model.RelationShoppingCart, viewerID, rec.ID)
		if err != nil {
			return nil, err
		}
	}

	tagValues := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		tagValues = append(tagValues, *t)
	}

	return &model.Recipe{
		ID:               rec.ID,
		Author:           author.ToProfile(subscribed),
		Name:             rec.Name,
		Text:             rec.Text,
		Image:            rec.Image,
		CookingTime:      rec.CookingTime,
		Tags:             tagValues,
		Ingredients:      lines,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		CreatedOn:        rec.CreatedOn,
	}, nil
}
