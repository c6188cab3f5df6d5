package service

import (
	"context"
	"errors"
	"strings"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
)

// TagWriter extends TagStore with catalog mutations
type TagWriter interface {
	TagStore
	Create(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, id string) error
}

// TagService handles the tag catalog. Reads are public; writes are
// restricted to admins at the routing layer.
type TagService struct {
	tags TagWriter
}

// NewTagService creates a new tag service
func NewTagService(tags TagWriter) *TagService {
	return &TagService{tags: tags}
}

// List returns all tags
func (s *TagService) List(ctx context.Context) ([]*model.Tag, error) {
	return s.tags.List(ctx)
}

// Get returns a tag by id
func (s *TagService) Get(ctx context.Context, id string) (*model.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return tag, nil
}

// Create adds a tag to the catalog
func (s *TagService) Create(ctx context.Context, req *model.CreateTagRequest) (*model.Tag, error) {
	tag := &model.Tag{
		Name:  strings.TrimSpace(req.Name),
		Color: strings.TrimSpace(req.Color),
		Slug:  strings.ToLower(strings.TrimSpace(req.Slug)),
	}

	if err := s.tags.Create(ctx, tag); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrTagSlugExists
		}
		return nil, err
	}
	return tag, nil
}

// Delete removes a tag from the catalog
func (s *TagService) Delete(ctx context.Context, id string) error {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrTagNotFound
	}
	return s.tags.Delete(ctx, id)
}
