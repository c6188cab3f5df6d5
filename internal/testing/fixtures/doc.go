// Package fixtures provides test data factories for the Feast API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(testDB)
//
// # Creating Test Data
//
// Factory methods create domain entities:
//
//	user := f.CreateUser(t)                  // Default user
//	tag := f.CreateTag(t)                    // Catalog tag
//	ing := f.CreateIngredient(t)             // Catalog ingredient
//	recipe := f.CreateRecipe(t, user)        // Recipe by user
//	f.Favorite(t, otherUser, recipe)         // Mark as favorite
//
// # Customization
//
// Use option functions for customization:
//
//	user := f.CreateUser(t, fixtures.WithEmail("custom@example.com"))
//	recipe := f.CreateRecipe(t, user, fixtures.WithTags(tag), fixtures.WithCookingTime(45))
//
// # Random Data
//
// Unique identifiers are generated automatically:
//
//	user1 := f.CreateUser(t) // user_abc123
//	user2 := f.CreateUser(t) // user_def456
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
