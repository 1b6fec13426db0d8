// Package domain defines the core types and interfaces for the recipe browser.
// All other packages depend on domain; domain depends on nothing.
package domain

import "strings"

// MaxRecipeIngredients is the number of ingredient/measure slots a catalog
// recipe carries.
const MaxRecipeIngredients = 20

// Recipe is a catalog recipe. Once fetched it is treated as a value: lists
// hold copies, never back-references.
type Recipe struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Thumbnail    string             `json:"thumbnail"`
	Instructions string             `json:"instructions"`
	Category     string             `json:"category,omitempty"`
	Area         string             `json:"area,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	Ingredients  []RecipeIngredient `json:"ingredients,omitempty"`
}

// RecipeIngredient is one (ingredient, measurement) pair embedded in a
// catalog recipe. Measure may be empty.
type RecipeIngredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// String renders the pair the way a recipe card lists it: "1 tsp Salt".
func (ri RecipeIngredient) String() string {
	if ri.Measure == "" {
		return ri.Name
	}
	return ri.Measure + " " + ri.Name
}

// Steps splits the free-text instructions into non-empty lines.
func (r *Recipe) Steps() []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(r.Instructions, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// Summary returns the listing view of the recipe.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:        r.ID,
		Name:      r.Name,
		Category:  r.Category,
		Thumbnail: r.Thumbnail,
	}
}

// Ingredient is a user-authored entry in the personal ingredient list.
// It is distinct from the ingredient strings embedded in a Recipe.
type Ingredient struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity" yaml:"quantity,omitempty"`
	Unit     string `json:"unit" yaml:"unit,omitempty"`
}

// Amount joins quantity and unit, e.g. "1 tsp". Empty when both are empty.
func (i Ingredient) Amount() string {
	return strings.TrimSpace(i.Quantity + " " + i.Unit)
}
