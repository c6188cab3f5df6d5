package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/model"
)

// RelationRepository handles toggleable user links: favorites, shopping
// cart items, and subscriptions. All kinds share one table with a unique
// (kind, user_id, target_id) index, so a concurrent duplicate insert
// always loses to the index rather than creating a second row.
type RelationRepository struct {
	db database.Database
}

// NewRelationRepository creates a new relation repository
func NewRelationRepository(db database.Database) *RelationRepository {
	return &RelationRepository{db: db}
}

// Create stores a relation. Returns database.ErrDuplicate if the
// relation already exists, including when a concurrent writer won the race.
func (r *RelationRepository) Create(ctx context.Context, kind model.RelationKind, userID, targetID string) (*model.Relation, error) {
	query := `
		CREATE relation CONTENT {
			kind: $kind,
			user_id: $user_id,
			target_id: $target_id,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"kind":      string(kind),
		"user_id":   userID,
		"target_id": targetID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: relation already exists", database.ErrDuplicate)
		}
		return nil, err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return nil, err
	}

	return &model.Relation{
		ID:        created.ID,
		Kind:      kind,
		UserID:    userID,
		TargetID:  targetID,
		CreatedOn: created.CreatedOn,
	}, nil
}

// Exists reports whether the relation is stored
func (r *RelationRepository) Exists(ctx context.Context, kind model.RelationKind, userID, targetID string) (bool, error) {
	query := `
		SELECT count() AS count FROM relation
		WHERE kind = $kind AND user_id = $user_id AND target_id = $target_id
		GROUP ALL
	`

	vars := map[string]interface{}{
		"kind":      string(kind),
		"user_id":   userID,
		"target_id": targetID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count") > 0, nil
	}
	return extractCount(result) > 0, nil
}

// Delete removes a relation
func (r *RelationRepository) Delete(ctx context.Context, kind model.RelationKind, userID, targetID string) error {
	query := `DELETE relation WHERE kind = $kind AND user_id = $user_id AND target_id = $target_id`

	vars := map[string]interface{}{
		"kind":      string(kind),
		"user_id":   userID,
		"target_id": targetID,
	}

	return r.db.Execute(ctx, query, vars)
}

// ListTargets returns the target ids of a user's relations of the given
// kind, newest first.
func (r *RelationRepository) ListTargets(ctx context.Context, kind model.RelationKind, userID string) ([]string, error) {
	query := `
		SELECT target_id FROM relation
		WHERE kind = $kind AND user_id = $user_id
		ORDER BY created_on DESC
	`

	vars := map[string]interface{}{
		"kind":    string(kind),
		"user_id": userID,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(results)
	if !ok {
		return []string{}, nil
	}

	targets := make([]string, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			if t := getString(data, "target_id"); t != "" {
				targets = append(targets, t)
			}
		}
	}
	return targets, nil
}
