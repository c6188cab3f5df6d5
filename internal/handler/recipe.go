package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/forgo/feast/api/internal/middleware"
	"github.com/forgo/feast/api/internal/model"
	"github.com/forgo/feast/api/internal/service"
)

// RecipeHandler handles recipe endpoints including favorites and the
// shopping cart
type RecipeHandler struct {
	recipeService *service.RecipeService
	toggleService *service.ToggleService
	cartService   *service.CartService
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeService *service.RecipeService, toggleService *service.ToggleService, cartService *service.CartService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		toggleService: toggleService,
		cartService:   cartService,
	}
}

// List handles GET /api/recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	query := r.URL.Query()

	params := service.ListRecipesParams{
		TagSlugs:  splitMulti(query["tags"]),
		AuthorID:  query.Get("author"),
		Favorited: queryBool(r, "is_favorited"),
		InCart:    queryBool(r, "is_in_shopping_cart"),
		Limit:     queryInt(r, "limit", 0),
		Page:      queryInt(r, "page", 1),
	}

	recipes, err := h.recipeService.List(r.Context(), params, viewerID)
	if err != nil {
		h.handleRecipeError(w, err)
		return
	}

	WriteCollection(w, http.StatusOK, recipes, nil, map[string]string{
		"self": "/api/recipes",
	})
}

// Get handles GET /api/recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("recipe ID required"))
		return
	}
	viewerID := middleware.GetUserID(r.Context())

	recipe, err := h.recipeService.Get(r.Context(), id, viewerID)
	if err != nil {
		h.handleRecipeError(w, err)
		return
	}

	WriteData(w, http.StatusOK, recipe, map[string]string{
		"self": "/api/recipes/" + id,
	})
}

// Create handles POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateRecipeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	recipe, err := h.recipeService.Create(r.Context(), userID, &req)
	if err != nil {
		h.handleRecipeError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, recipe, map[string]string{
		"self": "/api/recipes/" + recipe.ID,
	})
}

// Update handles PATCH /api/recipes/{id}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("recipe ID required"))
		return
	}

	var req model.UpdateRecipeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	recipe, err := h.recipeService.Update(r.Context(), userID, id, &req)
	if err != nil {
		h.handleRecipeError(w, err)
		return
	}

	WriteData(w, http.StatusOK, recipe, map[string]string{
		"self": "/api/recipes/" + id,
	})
}

// Delete handles DELETE /api/recipes/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("recipe ID required"))
		return
	}

	if err := h.recipeService.Delete(r.Context(), userID, id); err != nil {
		h.handleRecipeError(w, err)
		return
	}

	WriteNoContent(w)
}

// Favorite handles POST /api/recipes/{id}/favorite
func (h *RecipeHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, model.RelationFavorite)
}

// Unfavorite handles DELETE /api/recipes/{id}/favorite
func (h *RecipeHandler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, model.RelationFavorite)
}

// AddToCart handles POST /api/recipes/{id}/shopping_cart
func (h *RecipeHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, model.RelationShoppingCart)
}

// RemoveFromCart handles DELETE /api/recipes/{id}/shopping_cart
func (h *RecipeHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, model.RelationShoppingCart)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart.
// The aggregated list is served as a plain text attachment.
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	text, err := h.cartService.Render(r.Context(), userID)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to build shopping list"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+service.ShoppingListFilename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// addRelation creates a recipe relation and answers with the compact
// recipe payload
func (h *RecipeHandler) addRelation(w http.ResponseWriter, r *http.Request, kind model.RelationKind) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("recipe ID required"))
		return
	}

	if _, err := h.toggleService.Add(r.Context(), kind, userID, id); err != nil {
		h.handleRecipeError(w, err)
		return
	}

	short, err := h.recipeService.Short(r.Context(), id)
	if err != nil {
		h.handleRecipeError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, short, map[string]string{
		"self": "/api/recipes/" + id,
	})
}

// removeRelation deletes a recipe relation
func (h *RecipeHandler) removeRelation(w http.ResponseWriter, r *http.Request, kind model.RelationKind) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("recipe ID required"))
		return
	}

	if err := h.toggleService.Remove(r.Context(), kind, userID, id); err != nil {
		h.handleRecipeError(w, err)
		return
	}

	WriteNoContent(w)
}

// splitMulti flattens a repeatable query parameter, additionally
// splitting each value on commas so tags=a,b and tags=a&tags=b both work
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *RecipeHandler) handleRecipeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		WriteError(w, model.NewNotFoundError("recipe"))
	case errors.Is(err, service.ErrTagNotFound):
		WriteError(w, model.NewNotFoundError("tag"))
	case errors.Is(err, service.ErrIngredientNotFound):
		WriteError(w, model.NewNotFoundError("ingredient"))
	case errors.Is(err, service.ErrUserNotFound):
		WriteError(w, model.NewNotFoundError("user"))
	case errors.Is(err, service.ErrNotRecipeAuthor):
		WriteError(w, model.NewForbiddenError("only the author or an admin may modify this recipe"))
	case errors.Is(err, service.ErrRecipeExists):
		WriteError(w, model.NewConflictError("a recipe with this name and text already exists"))
	case errors.Is(err, service.ErrRecipeValidation):
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "recipe", Message: "recipe validation failed"},
		}))
	case errors.Is(err, service.ErrAlreadyFavorited):
		WriteError(w, model.NewBadRequestError("recipe already in favorites"))
	case errors.Is(err, service.ErrNotFavorited):
		WriteError(w, model.NewBadRequestError("recipe not in favorites"))
	case errors.Is(err, service.ErrAlreadyInCart):
		WriteError(w, model.NewBadRequestError("recipe already in shopping cart"))
	case errors.Is(err, service.ErrNotInCart):
		WriteError(w, model.NewBadRequestError("recipe not in shopping cart"))
	default:
		WriteError(w, MapServiceErrorWithContext(err, "recipe operation"))
	}
}
