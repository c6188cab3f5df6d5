package service

import (
	"context"
	"errors"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
)

// RelationStore defines the repository interface for toggleable relations
type RelationStore interface {
	Create(ctx context.Context, kind model.RelationKind, userID, targetID string) (*model.Relation, error)
	Exists(ctx context.Context, kind model.RelationKind, userID, targetID string) (bool, error)
	Delete(ctx context.Context, kind model.RelationKind, userID, targetID string) error
	ListTargets(ctx context.Context, kind model.RelationKind, userID string) ([]string, error)
}

// TargetChecker reports whether a relation target exists
type TargetChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ToggleServiceConfig holds dependencies for ToggleService
type ToggleServiceConfig struct {
	Relations RelationStore
	Recipes   TargetChecker // favorite and shopping cart targets
	Users     TargetChecker // subscription targets
}

// ToggleService adds and removes user relations: favorites, shopping
// cart items, and subscriptions. One parametrized implementation covers
// all three kinds; the acting user is always an explicit argument.
type ToggleService struct {
	relations RelationStore
	recipes   TargetChecker
	users     TargetChecker
}

// NewToggleService creates a new toggle service
func NewToggleService(cfg ToggleServiceConfig) *ToggleService {
	return &ToggleService{
		relations: cfg.Relations,
		recipes:   cfg.Recipes,
		users:     cfg.Users,
	}
}

// Add creates the relation for the acting user. Adding twice fails, for
// sequential callers via the existence check and for concurrent callers
// via the store's unique index.
func (s *ToggleService) Add(ctx context.Context, kind model.RelationKind, actorID, targetID string) (*model.Relation, error) {
	if !kind.IsValid() {
		return nil, ErrUnknownRelationKind
	}
	if kind == model.RelationSubscription && actorID == targetID {
		return nil, ErrCannotSubscribeSelf
	}

	exists, err := s.targetExists(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, targetMissingError(kind)
	}

	present, err := s.relations.Exists(ctx, kind, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if present {
		return nil, alreadyExistsError(kind)
	}

	relation, err := s.relations.Create(ctx, kind, actorID, targetID)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// A concurrent add won the race.
			return nil, alreadyExistsError(kind)
		}
		return nil, err
	}

	return relation, nil
}

// Remove deletes the relation for the acting user. Removing a relation
// that is not present fails.
func (s *ToggleService) Remove(ctx context.Context, kind model.RelationKind, actorID, targetID string) error {
	if !kind.IsValid() {
		return ErrUnknownRelationKind
	}
	if kind == model.RelationSubscription && actorID == targetID {
		return ErrCannotSubscribeSelf
	}

	exists, err := s.targetExists(ctx, kind, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return targetMissingError(kind)
	}

	present, err := s.relations.Exists(ctx, kind, actorID, targetID)
	if err != nil {
		return err
	}
	if !present {
		return notPresentError(kind)
	}

	return s.relations.Delete(ctx, kind, actorID, targetID)
}

// Has reports whether the relation is present for the acting user
func (s *ToggleService) Has(ctx context.Context, kind model.RelationKind, actorID, targetID string) (bool, error) {
	if !kind.IsValid() {
		return false, ErrUnknownRelationKind
	}
	return s.relations.Exists(ctx, kind, actorID, targetID)
}

// Targets returns the target ids of the acting user's relations
func (s *ToggleService) Targets(ctx context.Context, kind model.RelationKind, actorID string) ([]string, error) {
	if !kind.IsValid() {
		return nil, ErrUnknownRelationKind
	}
	return s.relations.ListTargets(ctx, kind, actorID)
}

func (s *ToggleService) targetExists(ctx context.Context, kind model.RelationKind, targetID string) (bool, error) {
	if kind.TargetsRecipe() {
		return s.recipes.Exists(ctx, targetID)
	}
	return s.users.Exists(ctx, targetID)
}

func alreadyExistsError(kind model.RelationKind) error {
	switch kind {
	case model.RelationFavorite:
		return ErrAlreadyFavorited
	case model.RelationShoppingCart:
		return ErrAlreadyInCart
	default:
		return ErrAlreadySubscribed
	}
}

func notPresentError(kind model.RelationKind) error {
	switch kind {
	case model.RelationFavorite:
		return ErrNotFavorited
	case model.RelationShoppingCart:
		return ErrNotInCart
	default:
		return ErrNotSubscribed
	}
}

func targetMissingError(kind model.RelationKind) error {
	if kind.TargetsRecipe() {
		return ErrRecipeNotFound
	}
	return ErrUserNotFound
}
