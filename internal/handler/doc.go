// Package handler provides HTTP request handlers for the Feast API.
//
// The handler package contains all HTTP endpoint implementations organized by domain.
// Each handler struct encapsulates the dependencies needed to serve requests for a
// specific feature area (authentication, recipes, tags, ingredients, users).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the services it depends on
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteCollection: Paginated list of resources
//   - WriteError: RFC 9457 Problem Details error response
//   - WriteNoContent: Empty 204 response
//
// # Authentication
//
// Most handlers require authentication via JWT tokens. The auth middleware
// extracts the user ID and makes it available via GetUserID(r).
//
// # Example Usage
//
//	handler := NewRecipeHandler(recipeService, toggleService, cartService)
//	mux.HandleFunc("GET /v1/recipes", handler.List)
//	mux.HandleFunc("POST /v1/recipes", handler.Create)
package handler
