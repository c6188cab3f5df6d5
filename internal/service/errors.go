package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrUsernameRequired   = errors.New("username is required")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Recipe Errors =====
var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrRecipeExists     = errors.New("a recipe with this name and text already exists")
	ErrNotRecipeAuthor  = errors.New("not authorized to modify this recipe")
	ErrRecipeValidation = errors.New("recipe validation failed")
)

// ===== Tag Errors =====
var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrTagSlugExists = errors.New("a tag with this slug already exists")
)

// ===== Ingredient Errors =====
var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("this ingredient already exists")
)

// ===== Relation Errors =====
var (
	ErrAlreadyFavorited    = errors.New("recipe already in favorites")
	ErrNotFavorited        = errors.New("recipe not in favorites")
	ErrAlreadyInCart       = errors.New("recipe already in shopping cart")
	ErrNotInCart           = errors.New("recipe not in shopping cart")
	ErrAlreadySubscribed   = errors.New("already subscribed to this author")
	ErrNotSubscribed       = errors.New("not subscribed to this author")
	ErrCannotSubscribeSelf = errors.New("cannot subscribe to yourself")
	ErrUnknownRelationKind = errors.New("unknown relation kind")
)
