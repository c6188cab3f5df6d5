// Package tests contains end-to-end acceptance tests for the Feast API.
package tests

import (
	"context"
	"testing"

	"github.com/forgo/feast/api/internal/model"
	"github.com/forgo/feast/api/internal/repository"
	"github.com/forgo/feast/api/internal/service"
	"github.com/forgo/feast/api/internal/testing/fixtures"
	"github.com/forgo/feast/api/internal/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
FEATURE: Subscriptions
DOMAIN: Relations

ACCEPTANCE CRITERIA:
===================

AC-SUB-001: Subscribe to Author
  GIVEN two distinct users
  WHEN one subscribes to the other
  THEN the relation is stored
  AND the author's profile reports is_subscribed for the subscriber

AC-SUB-002: Cannot Subscribe to Self
  GIVEN a user
  WHEN the user subscribes to themselves
  THEN the request fails with self-subscription error
  AND unsubscribing from self fails the same way

AC-SUB-003: Duplicate Subscription
  GIVEN an existing subscription
  WHEN the user subscribes again
  THEN the request fails with already-subscribed error

AC-SUB-004: Subscriptions Listing
  GIVEN a user subscribed to authors with recipes
  WHEN the user lists subscriptions
  THEN each entry carries the author's profile, a recipe preview,
  and the author's total recipe count

AC-SUB-005: Unsubscribe
  GIVEN an existing subscription
  WHEN the user unsubscribes
  THEN the relation is gone and the author vanishes from the listing
*/

// createUserService wires the user service over real repositories
func createUserService(tdb *testdb.TestDB) *service.UserService {
	return service.NewUserService(service.UserServiceConfig{
		Users:     repository.NewUserRepository(tdb.DB),
		Recipes:   repository.NewRecipeRepository(tdb.DB),
		Relations: repository.NewRelationRepository(tdb.DB),
	})
}

func TestSubscriptions_Subscribe(t *testing.T) {
	// AC-SUB-001: Subscribe to Author
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	toggle := createToggleService(tdb)
	users := createUserService(tdb)
	ctx := context.Background()

	author := f.CreateUser(t)
	follower := f.CreateUser(t)

	relation, err := toggle.Add(ctx, model.RelationSubscription, follower.ID, author.ID)
	require.NoError(t, err)
	require.NotNil(t, relation)

	profile, err := users.Profile(ctx, author.ID, follower.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	// The author does not appear subscribed to themselves
	ownProfile, err := users.Profile(ctx, author.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, ownProfile.IsSubscribed)
}

func TestSubscriptions_CannotSubscribeSelf(t *testing.T) {
	// AC-SUB-002: Cannot Subscribe to Self
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	toggle := createToggleService(tdb)
	ctx := context.Background()

	user := f.CreateUser(t)

	_, err := toggle.Add(ctx, model.RelationSubscription, user.ID, user.ID)
	require.ErrorIs(t, err, service.ErrCannotSubscribeSelf)

	err = toggle.Remove(ctx, model.RelationSubscription, user.ID, user.ID)
	require.ErrorIs(t, err, service.ErrCannotSubscribeSelf)
}

func TestSubscriptions_Duplicate(t *testing.T) {
	// AC-SUB-003: Duplicate Subscription
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	toggle := createToggleService(tdb)
	ctx := context.Background()

	author := f.CreateUser(t)
	follower := f.CreateUser(t)
	f.Subscribe(t, follower, author)

	_, err := toggle.Add(ctx, model.RelationSubscription, follower.ID, author.ID)
	require.ErrorIs(t, err, service.ErrAlreadySubscribed)
}

func TestSubscriptions_SubscribeMissingUser(t *testing.T) {
	// AC-SUB-001 (variation): Missing target user
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	toggle := createToggleService(tdb)
	ctx := context.Background()

	follower := f.CreateUser(t)

	_, err := toggle.Add(ctx, model.RelationSubscription, follower.ID, "user:doesnotexist")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestSubscriptions_Listing(t *testing.T) {
	// AC-SUB-004: Subscriptions Listing
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	users := createUserService(tdb)
	ctx := context.Background()

	author := f.CreateUser(t)
	follower := f.CreateUser(t)

	f.CreateRecipe(t, author)
	f.CreateRecipe(t, author)
	f.CreateRecipe(t, author)

	f.Subscribe(t, follower, author)

	entries, err := users.Subscriptions(ctx, follower.ID, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, author.ID, entry.ID)
	assert.True(t, entry.IsSubscribed)
	assert.Equal(t, 3, entry.RecipesCount)
	// Preview is capped by the requested limit
	assert.Len(t, entry.Recipes, 2)
}

func TestSubscriptions_Unsubscribe(t *testing.T) {
	// AC-SUB-005: Unsubscribe
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	toggle := createToggleService(tdb)
	users := createUserService(tdb)
	ctx := context.Background()

	author := f.CreateUser(t)
	follower := f.CreateUser(t)
	f.Subscribe(t, follower, author)

	require.NoError(t, toggle.Remove(ctx, model.RelationSubscription, follower.ID, author.ID))

	entries, err := users.Subscriptions(ctx, follower.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = toggle.Remove(ctx, model.RelationSubscription, follower.ID, author.ID)
	require.ErrorIs(t, err, service.ErrNotSubscribed)
}
