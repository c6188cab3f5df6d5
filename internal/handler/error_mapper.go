package handler

import (
	"errors"

	"github.com/forgo/feast/api/internal/model"
	"github.com/forgo/feast/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// ===== Authentication Errors → 401 =====
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())
	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotRecipeAuthor):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrRecipeNotFound):
		return model.NewNotFoundError("recipe")
	case errors.Is(err, service.ErrTagNotFound):
		return model.NewNotFoundError("tag")
	case errors.Is(err, service.ErrIngredientNotFound):
		return model.NewNotFoundError("ingredient")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrTagSlugExists),
		errors.Is(err, service.ErrIngredientExists),
		errors.Is(err, service.ErrRecipeExists):
		return model.NewConflictError(err.Error())

	// ===== Toggle Errors → 400 =====
	// Adding what is present and removing what is absent are both
	// client mistakes, not conflicts.
	case errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrAlreadyInCart),
		errors.Is(err, service.ErrAlreadySubscribed),
		errors.Is(err, service.ErrNotFavorited),
		errors.Is(err, service.ErrNotInCart),
		errors.Is(err, service.ErrNotSubscribed):
		return model.NewBadRequestError(err.Error())

	case errors.Is(err, service.ErrCannotSubscribeSelf):
		return model.NewSelfReferenceError(err.Error())

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrRecipeValidation):
		return model.NewValidationError([]model.FieldError{{Field: "recipe", Message: err.Error()}})

	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrUsernameRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrWrongPassword):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})

	case errors.Is(err, service.ErrUnknownRelationKind):
		return model.NewBadRequestError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
