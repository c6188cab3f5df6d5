// Package model defines domain entities and data structures for the Feast API.
//
// The model package contains all struct definitions for domain objects, request/response
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Application user with authentication credentials
//   - Recipe: Published recipe with tags, ingredient lines, and author
//   - Tag: Recipe classification with a unique slug
//   - Ingredient: Catalog entry with a measurement unit
//   - Relation: Toggleable user link (favorite, shopping cart, subscription)
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Tag struct {
//	    ID    string `json:"id"`
//	    Name  string `json:"name"`
//	    Color string `json:"color"`
//	    Slug  string `json:"slug"`
//	}
//
// # Validation Constants
//
// The package defines validation constants:
//
//	const (
//	    MaxCookingTime      = 3000
//	    MaxIngredientAmount = 10000
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
