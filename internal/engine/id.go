package engine

import "github.com/google/uuid"

// newIngredientID returns a random identifier, unique per user list.
func newIngredientID() string {
	return uuid.NewString()
}
