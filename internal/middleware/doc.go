// Package middleware provides HTTP middleware for the Feast API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - OptionalAuth: token extraction without requiring one
//   - AdminAuth: Auth plus admin role enforcement for catalog writes
//   - RateLimit: request rate limiting per user/IP
//   - Idempotency: idempotent request handling for unsafe methods
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts user information:
//
//	mux.Handle("POST /api/recipes", auth(recipeHandler))
//
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// Read-only endpoints such as recipe listings use OptionalAuth so
// anonymous browsing works while authenticated viewers get their
// favorite and cart flags resolved.
//
// # Rate Limiting
//
// Rate limiting protects against abuse:
//
//	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{})
//	mux.Handle("/api/", middleware.RateLimit(limiter)(apiHandler))
//
// Buckets are kept in a bounded LRU cache keyed by user ID or IP.
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - GetClaims(ctx): Returns the full token claims
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
