package handler

import (
	"errors"
	"net/http"

	"github.com/forgo/feast/api/internal/model"
	"github.com/forgo/feast/api/internal/service"
)

// IngredientHandler handles ingredient catalog endpoints
type IngredientHandler struct {
	ingredientService *service.IngredientService
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(ingredientService *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// List handles GET /api/ingredients. The optional name parameter narrows
// results to a case-insensitive prefix match.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	namePrefix := r.URL.Query().Get("name")

	ingredients, err := h.ingredientService.List(r.Context(), namePrefix)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list ingredients"))
		return
	}

	WriteCollection(w, http.StatusOK, ingredients, nil, map[string]string{
		"self": "/api/ingredients",
	})
}

// Get handles GET /api/ingredients/{id}
func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("ingredient ID required"))
		return
	}

	ingredient, err := h.ingredientService.Get(r.Context(), id)
	if err != nil {
		h.handleIngredientError(w, err)
		return
	}

	WriteData(w, http.StatusOK, ingredient, map[string]string{
		"self": "/api/ingredients/" + id,
	})
}

// Create handles POST /api/ingredients (admin only)
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateIngredientRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	ingredient, err := h.ingredientService.Create(r.Context(), &req)
	if err != nil {
		h.handleIngredientError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, ingredient, map[string]string{
		"self": "/api/ingredients/" + ingredient.ID,
	})
}

// Delete handles DELETE /api/ingredients/{id} (admin only)
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("ingredient ID required"))
		return
	}

	if err := h.ingredientService.Delete(r.Context(), id); err != nil {
		h.handleIngredientError(w, err)
		return
	}

	WriteNoContent(w)
}

func (h *IngredientHandler) handleIngredientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrIngredientNotFound):
		WriteError(w, model.NewNotFoundError("ingredient"))
	case errors.Is(err, service.ErrIngredientExists):
		WriteError(w, model.NewConflictError("this ingredient already exists"))
	default:
		WriteError(w, MapServiceErrorWithContext(err, "ingredient operation"))
	}
}
