package mealdb

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// envelope is the response body of every catalog endpoint. Meals is null
// when nothing matched.
type envelope struct {
	Meals []meal `json:"meals"`
}

// meal is one catalog record. The API sends a flat object whose values are
// strings or null, with twenty numbered ingredient/measure slots, so the
// record is kept as a string map and normalized afterwards.
type meal map[string]string

// UnmarshalJSON keeps string fields and drops nulls and non-string values.
func (m *meal) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(meal, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	*m = out
	return nil
}

func (m meal) field(name string) string {
	return strings.TrimSpace(m[name])
}

// recipe converts the wire record into a domain.Recipe. Ingredient slots
// with an empty name are dropped; a named ingredient without a measure
// keeps an empty measure.
func (m meal) recipe() domain.Recipe {
	r := domain.Recipe{
		ID:           m.field("idMeal"),
		Name:         m.field("strMeal"),
		Thumbnail:    m.field("strMealThumb"),
		Instructions: strings.TrimSpace(m["strInstructions"]),
		Category:     m.field("strCategory"),
		Area:         m.field("strArea"),
	}

	if tags := m.field("strTags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				r.Tags = append(r.Tags, t)
			}
		}
	}

	for i := 1; i <= domain.MaxRecipeIngredients; i++ {
		name := m.field(fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		r.Ingredients = append(r.Ingredients, domain.RecipeIngredient{
			Name:    name,
			Measure: m.field(fmt.Sprintf("strMeasure%d", i)),
		})
	}
	return r
}

func toRecipes(meals []meal) []domain.Recipe {
	out := make([]domain.Recipe, 0, len(meals))
	for _, m := range meals {
		r := m.recipe()
		if r.ID == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
