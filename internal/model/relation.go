package model

import "time"

// RelationKind identifies a user-to-target relation that can be toggled
// on and off: favorites and shopping cart items point at recipes,
// subscriptions point at other users.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
	RelationSubscription RelationKind = "subscription"
)

// IsValid returns true if the kind is a known relation kind
func (k RelationKind) IsValid() bool {
	switch k {
	case RelationFavorite, RelationShoppingCart, RelationSubscription:
		return true
	default:
		return false
	}
}

// TargetsRecipe returns true if the relation points at a recipe
func (k RelationKind) TargetsRecipe() bool {
	return k == RelationFavorite || k == RelationShoppingCart
}

// Relation is a stored (user, target) link of a given kind. The
// (UserID, TargetID) pair is unique per kind.
type Relation struct {
	ID        string       `json:"id"`
	Kind      RelationKind `json:"kind"`
	UserID    string       `json:"user_id"`
	TargetID  string       `json:"target_id"`
	CreatedOn time.Time    `json:"created_on"`
}

// DefaultRecipePreview caps the recipe list embedded in subscription
// responses unless the client asks for fewer via recipes_limit.
const DefaultRecipePreview = 6

// SubscriptionEntry is the payload returned when subscribing to an
// author and when listing subscriptions: the author's profile plus a
// capped preview of their recipes.
type SubscriptionEntry struct {
	*Profile
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int           `json:"recipes_count"`
}

// CartLine is one aggregated row of a shopping list: a distinct
// ingredient with amounts summed across every recipe in the cart.
type CartLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}
