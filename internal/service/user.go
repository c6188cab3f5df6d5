package service

import (
	"context"

	"github.com/forgo/feast/api/internal/model"
)

// UserDirectory defines the repository interface for user listings
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
}

// UserServiceConfig holds dependencies for UserService
type UserServiceConfig struct {
	Users     UserDirectory
	Recipes   RecipeStore
	Relations RelationStore
}

// UserService handles user profiles and subscription listings.
// Profile reads are public; the viewer only affects the is_subscribed
// flag and is empty for anonymous requests.
type UserService struct {
	users     UserDirectory
	recipes   RecipeStore
	relations RelationStore
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{
		users:     cfg.Users,
		recipes:   cfg.Recipes,
		relations: cfg.Relations,
	}
}

// Profile returns a user's public profile with the viewer's
// subscription state resolved
func (s *UserService) Profile(ctx context.Context, id, viewerID string) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	subscribed := false
	if viewerID != "" && viewerID != id {
		subscribed, err = s.relations.Exists(ctx, model.RelationSubscription, viewerID, id)
		if err != nil {
			return nil, err
		}
	}
	return user.ToProfile(subscribed), nil
}

// List returns public profiles ordered by username
func (s *UserService) List(ctx context.Context, limit, page int, viewerID string) ([]*model.Profile, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	users, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]*model.Profile, 0, len(users))
	for _, user := range users {
		subscribed := false
		if viewerID != "" && viewerID != user.ID {
			subscribed, err = s.relations.Exists(ctx, model.RelationSubscription, viewerID, user.ID)
			if err != nil {
				return nil, err
			}
		}
		profiles = append(profiles, user.ToProfile(subscribed))
	}
	return profiles, nil
}

// Subscriptions returns the authors the user is subscribed to, each
// with a recipe count and a capped recipe preview
func (s *UserService) Subscriptions(ctx context.Context, userID string, recipesLimit int) ([]*model.SubscriptionEntry, error) {
	authorIDs, err := s.relations.ListTargets(ctx, model.RelationSubscription, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]*model.SubscriptionEntry, 0, len(authorIDs))
	for _, authorID := range authorIDs {
		entry, err := s.subscriptionEntry(ctx, authorID, recipesLimit)
		if err != nil {
			if err == ErrUserNotFound {
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SubscriptionEntry builds the payload returned when subscribing to an
// author: their profile plus recipes_count and a capped recipe preview
func (s *UserService) SubscriptionEntry(ctx context.Context, authorID string, recipesLimit int) (*model.SubscriptionEntry, error) {
	return s.subscriptionEntry(ctx, authorID, recipesLimit)
}

func (s *UserService) subscriptionEntry(ctx context.Context, authorID string, recipesLimit int) (*model.SubscriptionEntry, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	if recipesLimit <= 0 || recipesLimit > model.DefaultRecipePreview {
		recipesLimit = model.DefaultRecipePreview
	}

	count, err := s.recipes.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	records, err := s.recipes.List(ctx, model.RecipeFilter{AuthorID: authorID, Limit: recipesLimit})
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

	// The entry is only ever rendered for a subscriber, so the flag is
	// always true here.
	return &model.SubscriptionEntry{
		Profile:      author.ToProfile(true),
		Recipes:      shorts,
		RecipesCount: count,
	}, nil
}
