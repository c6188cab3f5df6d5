package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
)

// TagRepository handles tag data access
type TagRepository struct {
	db database.Database
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db database.Database) *TagRepository {
	return &TagRepository{db: db}
}

// Create creates a new tag
func (r *TagRepository) Create(ctx context.Context, tag *model.Tag) error {
	query := `
		CREATE tag CONTENT {
			name: $name,
			color: $color,
			slug: $slug
		}
	`

	vars := map[string]interface{}{
		"name":  tag.Name,
		"color": tag.Color,
		"slug":  tag.Slug,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: slug already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	tag.ID = created.ID
	return nil
}

// GetByID retrieves a tag by ID
func (r *TagRepository) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	tag, err := parseTagResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tag, nil
}

// List returns all tags ordered by name
func (r *TagRepository) List(ctx context.Context) ([]*model.Tag, error) {
	query := `SELECT * FROM tag ORDER BY name ASC`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(results)
	if !ok {
		return []*model.Tag{}, nil
	}

	tags := make([]*model.Tag, 0, len(rows))
	for _, row := range rows {
		tag, err := parseTagResult(row)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// GetByIDs retrieves tags for the given ids, preserving lookup by id
func (r *TagRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Tag, error) {
	tags := make([]*model.Tag, 0, len(ids))
	for _, id := range ids {
		tag, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return nil, fmt.Errorf("%w: tag %s", database.ErrNotFound, id)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Delete deletes a tag
func (r *TagRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

func parseTagResult(result interface{}) (*model.Tag, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}

	return &model.Tag{
		ID:    getString(data, "id"),
		Name:  getString(data, "name"),
		Color: getString(data, "color"),
		Slug:  getString(data, "slug"),
	}, nil
}
