package handler

import (
	"errors"
	"net/http"

	"github.com/forgo/feast/api/internal/model"
	"github.com/forgo/feast/api/internal/service"
)

// TagHandler handles tag catalog endpoints
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// List handles GET /api/tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.List(r.Context())
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list tags"))
		return
	}

	WriteCollection(w, http.StatusOK, tags, nil, map[string]string{
		"self": "/api/tags",
	})
}

// Get handles GET /api/tags/{id}
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("tag ID required"))
		return
	}

	tag, err := h.tagService.Get(r.Context(), id)
	if err != nil {
		h.handleTagError(w, err)
		return
	}

	WriteData(w, http.StatusOK, tag, map[string]string{
		"self": "/api/tags/" + id,
	})
}

// Create handles POST /api/tags (admin only)
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTagRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	tag, err := h.tagService.Create(r.Context(), &req)
	if err != nil {
		h.handleTagError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, tag, map[string]string{
		"self": "/api/tags/" + tag.ID,
	})
}

// Delete handles DELETE /api/tags/{id} (admin only)
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("tag ID required"))
		return
	}

	if err := h.tagService.Delete(r.Context(), id); err != nil {
		h.handleTagError(w, err)
		return
	}

	WriteNoContent(w)
}

func (h *TagHandler) handleTagError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTagNotFound):
		WriteError(w, model.NewNotFoundError("tag"))
	case errors.Is(err, service.ErrTagSlugExists):
		WriteError(w, model.NewConflictError("a tag with this slug already exists"))
	default:
		WriteError(w, MapServiceErrorWithContext(err, "tag operation"))
	}
}
