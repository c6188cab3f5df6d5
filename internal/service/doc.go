// Package service implements the business logic layer for the Feast API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrRecipeNotFound   = errors.New("recipe not found")
//	    ErrNotRecipeAuthor  = errors.New("only the author can modify this recipe")
//	)
//
// # Example Usage
//
//	service := NewRecipeService(RecipeServiceConfig{
//	    Recipes:     recipeRepository,
//	    Tags:        tagRepository,
//	    Ingredients: ingredientRepository,
//	    Users:       userRepository,
//	    Relations:   relationRepository,
//	})
//	recipe, err := service.Create(ctx, userID, CreateRecipeRequest{
//	    Name: "Pancakes",
//	})
package service
