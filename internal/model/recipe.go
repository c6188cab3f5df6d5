package model

import (
	"strings"
	"time"
)

// Business constraints
const (
	MaxCookingTime      = 3000  // minutes
	MinCookingTime      = 1
	MaxIngredientAmount = 10000
	MinIngredientAmount = 1

	MaxRecipeNameLength = 200
	MaxTagNameLength    = 60
	MaxSlugLength       = 60
)

// Tag classifies recipes (e.g. breakfast, dinner)
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // hex, e.g. "#E26C2D"
	Slug  string `json:"slug"`
}

// Ingredient is a catalog entry; the (name, measurement_unit) pair is unique
type Ingredient struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// IngredientLine is one ingredient of a recipe with its amount
type IngredientLine struct {
	IngredientID    string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// Recipe represents a published recipe with its related data resolved.
// IsFavorited and IsInShoppingCart are computed for the viewer and are
// always false for anonymous viewers.
type Recipe struct {
	ID               string           `json:"id"`
	Author           *Profile         `json:"author"`
	Name             string           `json:"name"`
	Text             string           `json:"text"`
	Image            string           `json:"image"`
	CookingTime      int              `json:"cooking_time"`
	Tags             []Tag            `json:"tags"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	CreatedOn        time.Time        `json:"created_on"`
}

// RecipeShort is the compact recipe representation returned by the
// favorite and shopping cart toggles.
type RecipeShort struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// ToShort converts a recipe to its compact representation
func (r *Recipe) ToShort() *RecipeShort {
	return &RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// IngredientRef is an ingredient reference with amount in write requests
type IngredientRef struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
}

// CreateRecipeRequest represents a request to create a recipe
type CreateRecipeRequest struct {
	Name        string          `json:"name"`
	Text        string          `json:"text"`
	Image       string          `json:"image"`
	CookingTime int             `json:"cooking_time"`
	Tags        []string        `json:"tags"`
	Ingredients []IngredientRef `json:"ingredients"`
}

// Validate checks the request against the recipe constraints
func (r *CreateRecipeRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxRecipeNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 200 characters or less"})
	}
	if r.Text == "" {
		errors = append(errors, FieldError{Field: "text", Message: "text is required"})
	}
	if r.Image == "" {
		errors = append(errors, FieldError{Field: "image", Message: "image is required"})
	}
	if r.CookingTime < MinCookingTime || r.CookingTime > MaxCookingTime {
		errors = append(errors, FieldError{Field: "cooking_time", Message: "cooking_time must be between 1 and 3000"})
	}
	errors = append(errors, validateTagRefs(r.Tags)...)
	errors = append(errors, validateIngredientRefs(r.Ingredients)...)
	return errors
}

func validateTagRefs(tags []string) []FieldError {
	var errors []FieldError
	if len(tags) == 0 {
		errors = append(errors, FieldError{Field: "tags", Message: "at least one tag is required"})
	}
	seen := make(map[string]bool, len(tags))
	for _, id := range tags {
		if id == "" {
			errors = append(errors, FieldError{Field: "tags", Message: "tag id must not be empty"})
			continue
		}
		if seen[id] {
			errors = append(errors, FieldError{Field: "tags", Message: "tag ids must be distinct"})
		}
		seen[id] = true
	}
	return errors
}

func validateIngredientRefs(ingredients []IngredientRef) []FieldError {
	var errors []FieldError
	if len(ingredients) == 0 {
		errors = append(errors, FieldError{Field: "ingredients", Message: "at least one ingredient is required"})
	}
	seen := make(map[string]bool, len(ingredients))
	for _, ing := range ingredients {
		if ing.ID == "" {
			errors = append(errors, FieldError{Field: "ingredients", Message: "ingredient id must not be empty"})
			continue
		}
		if seen[ing.ID] {
			errors = append(errors, FieldError{Field: "ingredients", Message: "ingredient ids must be distinct"})
		}
		seen[ing.ID] = true
		if ing.Amount < MinIngredientAmount || ing.Amount > MaxIngredientAmount {
			errors = append(errors, FieldError{Field: "ingredients", Message: "amount must be between 1 and 10000"})
		}
	}
	return errors
}

// UpdateRecipeRequest represents a partial update to a recipe
type UpdateRecipeRequest struct {
	Name        *string         `json:"name,omitempty"`
	Text        *string         `json:"text,omitempty"`
	Image       *string         `json:"image,omitempty"`
	CookingTime *int            `json:"cooking_time,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Ingredients []IngredientRef `json:"ingredients,omitempty"`
}

// Validate checks provided fields only; nil fields are left untouched
// by the update and are not checked.
func (r *UpdateRecipeRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name must not be empty"})
		} else if len(*r.Name) > MaxRecipeNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 200 characters or less"})
		}
	}
	if r.Text != nil && *r.Text == "" {
		errors = append(errors, FieldError{Field: "text", Message: "text must not be empty"})
	}
	if r.CookingTime != nil && (*r.CookingTime < MinCookingTime || *r.CookingTime > MaxCookingTime) {
		errors = append(errors, FieldError{Field: "cooking_time", Message: "cooking_time must be between 1 and 3000"})
	}
	if r.Tags != nil {
		errors = append(errors, validateTagRefs(r.Tags)...)
	}
	if r.Ingredients != nil {
		errors = append(errors, validateIngredientRefs(r.Ingredients)...)
	}
	return errors
}

// CreateTagRequest represents a request to create a tag
type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// Validate checks the tag creation request
func (r *CreateTagRequest) Validate() []FieldError {
	var errors []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(r.Slug) == "" {
		errors = append(errors, FieldError{Field: "slug", Message: "slug is required"})
	}
	return errors
}

// CreateIngredientRequest represents a request to create an ingredient
type CreateIngredientRequest struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// Validate checks the ingredient creation request
func (r *CreateIngredientRequest) Validate() []FieldError {
	var errors []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(r.MeasurementUnit) == "" {
		errors = append(errors, FieldError{Field: "measurement_unit", Message: "measurement_unit is required"})
	}
	return errors
}

// RecipeFilter narrows recipe listings. Zero values mean "no constraint".
// FavoritedBy and InCartOf carry the viewer's id when the corresponding
// query flag is set; they stay empty for anonymous viewers so the flags
// are no-ops without a viewer.
type RecipeFilter struct {
	TagSlugs    []string // match recipes carrying ANY of these tags
	AuthorID    string
	FavoritedBy string
	InCartOf    string
	Limit       int
	Offset      int
}
