package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/forgo/feast/api/internal/middleware"
	"github.com/forgo/feast/api/internal/model"
	"github.com/forgo/feast/api/internal/service"
)

// UserHandler handles user profile and subscription endpoints
type UserHandler struct {
	userService   *service.UserService
	toggleService *service.ToggleService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService, toggleService *service.ToggleService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		toggleService: toggleService,
	}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	limit := queryInt(r, "limit", 0)
	page := queryInt(r, "page", 1)

	profiles, err := h.userService.List(r.Context(), limit, page, viewerID)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list users"))
		return
	}

	WriteCollection(w, http.StatusOK, profiles, nil, map[string]string{
		"self": "/api/users",
	})
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}
	viewerID := middleware.GetUserID(r.Context())

	profile, err := h.userService.Profile(r.Context(), id, viewerID)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	WriteData(w, http.StatusOK, profile, map[string]string{
		"self": "/api/users/" + id,
	})
}

// Subscriptions handles GET /api/users/subscriptions
func (h *UserHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	recipesLimit := queryInt(r, "recipes_limit", 0)

	entries, err := h.userService.Subscriptions(r.Context(), userID, recipesLimit)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list subscriptions"))
		return
	}

	WriteCollection(w, http.StatusOK, entries, nil, map[string]string{
		"self": "/api/users/subscriptions",
	})
}

// Subscribe handles POST /api/users/{id}/subscribe
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	authorID := r.PathValue("id")
	if authorID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	if _, err := h.toggleService.Add(r.Context(), model.RelationSubscription, userID, authorID); err != nil {
		h.handleUserError(w, err)
		return
	}

	recipesLimit := queryInt(r, "recipes_limit", 0)
	entry, err := h.userService.SubscriptionEntry(r.Context(), authorID, recipesLimit)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, entry, map[string]string{
		"self": "/api/users/" + authorID,
	})
}

// Unsubscribe handles DELETE /api/users/{id}/subscribe
func (h *UserHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	authorID := r.PathValue("id")
	if authorID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	if err := h.toggleService.Remove(r.Context(), model.RelationSubscription, userID, authorID); err != nil {
		h.handleUserError(w, err)
		return
	}

	WriteNoContent(w)
}

func (h *UserHandler) handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		WriteError(w, model.NewNotFoundError("user"))
	case errors.Is(err, service.ErrCannotSubscribeSelf):
		WriteError(w, model.NewSelfReferenceError("cannot subscribe to yourself"))
	case errors.Is(err, service.ErrAlreadySubscribed):
		WriteError(w, model.NewBadRequestError("already subscribed to this author"))
	case errors.Is(err, service.ErrNotSubscribed):
		WriteError(w, model.NewBadRequestError("not subscribed to this author"))
	default:
		WriteError(w, MapServiceErrorWithContext(err, "user operation"))
	}
}

// queryInt reads an integer query parameter, returning def when absent
// or malformed
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryBool reads a boolean query flag. Both "1" and "true" (any case)
// count as set; anything else, including absence, does not.
func queryBool(r *http.Request, name string) bool {
	raw := r.URL.Query().Get(name)
	return raw == "1" || strings.EqualFold(raw, "true")
}
