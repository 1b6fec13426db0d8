// Package recipe provides recipe source implementations that live in memory:
// the built-in featured catalog shown when the remote catalog returns nothing.
package recipe

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent use.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with the featured recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := NewEmptySource(log)
	src.seed()
	return src
}

// NewEmptySource creates a recipe source with no recipes.
func NewEmptySource(log *logger.Logger) *MemorySource {
	return &MemorySource{
		recipes: make(map[string]domain.Recipe),
		log:     log,
	}
}

// List returns every recipe sorted by name.
func (s *MemorySource) List(ctx context.Context) []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	s.log.Debug("listing featured recipes, count=%d", len(out))
	return out
}

// Get returns a recipe by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// Put adds or replaces a recipe.
func (s *MemorySource) Put(r domain.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = r
}

// Random returns an arbitrary recipe, or domain.ErrNotFound when empty.
func (s *MemorySource) Random(ctx context.Context) (*domain.Recipe, error) {
	all := s.List(ctx)
	if len(all) == 0 {
		return nil, domain.ErrNotFound
	}
	r := all[rand.IntN(len(all))]
	return &r, nil
}

// Search returns recipes whose name, category, area, tags or ingredients
// contain the query string, sorted by name.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.Recipe, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	s.log.Debug("searching featured recipes for: %s", q)

	out := []domain.Recipe{}
	for _, r := range s.List(ctx) {
		if matches(&r, q) {
			out = append(out, r)
		}
	}
	return out, nil
}

func matches(r *domain.Recipe, query string) bool {
	fields := []string{r.Name, r.Category, r.Area}
	fields = append(fields, r.Tags...)
	for _, ing := range r.Ingredients {
		fields = append(fields, ing.Name)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// seed populates the source with the featured recipes.
func (s *MemorySource) seed() {
	recipes := []domain.Recipe{
		spicyArrabiataPenne(),
		teriyakiChickenCasserole(),
		bakedSalmon(),
		corba(),
	}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	s.log.Debug("seeded %d featured recipes", len(recipes))
}

func spicyArrabiataPenne() domain.Recipe {
	return domain.Recipe{
		ID:        "52771",
		Name:      "Spicy Arrabiata Penne",
		Thumbnail: "https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
		Category:  "Vegetarian",
		Area:      "Italian",
		Tags:      []string{"Pasta", "Curry"},
		Instructions: "Bring a large pot of water to a boil. Add kosher salt to the boiling water, then add the pasta. Cook according to the package instructions, about 9 minutes.\n" +
			"In a large skillet over medium-high heat, add the olive oil and heat until the oil starts to shimmer. Add the garlic and cook, stirring, until fragrant, 1 to 2 minutes.\n" +
			"Add the chopped tomatoes, red chile flakes, Italian seasoning and salt and pepper to taste. Bring to a boil and cook for 5 minutes.\n" +
			"Drain the pasta and add it to the sauce. Garnish with Parmigiano-Reggiano flakes and more basil and serve warm.",
		Ingredients: []domain.RecipeIngredient{
			{Name: "penne rigate", Measure: "1 pound"},
			{Name: "olive oil", Measure: "1/4 cup"},
			{Name: "garlic", Measure: "3 cloves"},
			{Name: "chopped tomatoes", Measure: "1 tin"},
			{Name: "red chilli flakes", Measure: "1/2 teaspoon"},
			{Name: "italian seasoning", Measure: "1/2 teaspoon"},
			{Name: "basil", Measure: "6 leaves"},
			{Name: "Parmigiano-Reggiano", Measure: "sprinkling"},
		},
	}
}

func teriyakiChickenCasserole() domain.Recipe {
	return domain.Recipe{
		ID:        "52772",
		Name:      "Teriyaki Chicken Casserole",
		Thumbnail: "https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg",
		Category:  "Chicken",
		Area:      "Japanese",
		Tags:      []string{"Meat", "Casserole"},
		Instructions: "Preheat oven to 350 F. Spray a 9x13-inch baking pan with non-stick spray.\n" +
			"Combine soy sauce, water, brown sugar, ginger and garlic in a small saucepan and cover. Bring to a boil over medium heat.\n" +
			"Place chicken breasts in the prepared pan. Pour one cup of the sauce over top of chicken. Bake for 35 minutes or until cooked through.\n" +
			"Serve with rice and steamed vegetables.",
		Ingredients: []domain.RecipeIngredient{
			{Name: "soy sauce", Measure: "3/4 cup"},
			{Name: "water", Measure: "1/2 cup"},
			{Name: "brown sugar", Measure: "1/4 cup"},
			{Name: "ground ginger", Measure: "1/2 teaspoon"},
			{Name: "minced garlic", Measure: "1/2 teaspoon"},
			{Name: "cornstarch", Measure: "4 Tablespoons"},
			{Name: "chicken breasts", Measure: "2"},
			{Name: "stir-fry vegetables", Measure: "1 (12 oz.)"},
			{Name: "brown rice", Measure: "3 cups"},
		},
	}
}

func bakedSalmon() domain.Recipe {
	return domain.Recipe{
		ID:        "52959",
		Name:      "Baked salmon with fennel & tomatoes",
		Thumbnail: "https://www.themealdb.com/images/media/meals/1548772327.jpg",
		Category:  "Seafood",
		Area:      "British",
		Tags:      []string{"Paleo", "Keto", "HighFat", "Baking", "LowCarbs"},
		Instructions: "Heat oven to 180C/fan 160C/gas 4.\n" +
			"Trim the fronds from the fennel and set aside. Cut the fennel bulbs in half, then cut each half into 3 wedges.\n" +
			"Cook in boiling salted water for 10 mins, then drain well.\n" +
			"Put the fennel in an ovenproof dish with the tomatoes and lay the salmon on top. Drizzle with olive oil and bake for 20 mins.",
		Ingredients: []domain.RecipeIngredient{
			{Name: "Fennel", Measure: "2 medium"},
			{Name: "Parsley", Measure: "2 tbs chopped"},
			{Name: "Lemon", Measure: "Juice of 1"},
			{Name: "Cherry Tomatoes", Measure: "175g"},
			{Name: "Olive Oil", Measure: "1 tbs"},
			{Name: "Salmon", Measure: "350g"},
			{Name: "Black Olives", Measure: "to serve"},
		},
	}
}

func corba() domain.Recipe {
	return domain.Recipe{
		ID:        "52977",
		Name:      "Corba",
		Thumbnail: "https://www.themealdb.com/images/media/meals/58oia61564916529.jpg",
		Category:  "Side",
		Area:      "Turkish",
		Tags:      []string{"Soup"},
		Instructions: "Pick through your lentils for any foreign debris, rinse them 2 or 3 times, drain, and set aside.\n" +
			"Heat 2 tablespoons of oil in a large pot over medium-high heat. Add the onions and saute until softened.\n" +
			"Add the carrots, tomato paste and spices, then the lentils and 4 cups of water. Simmer for 15 minutes.\n" +
			"Blend the soup until smooth and serve with a lemon wedge.",
		Ingredients: []domain.RecipeIngredient{
			{Name: "Lentils", Measure: "1 cup"},
			{Name: "Onion", Measure: "1 large"},
			{Name: "Carrots", Measure: "1 large"},
			{Name: "Tomato Puree", Measure: "1 tbs"},
			{Name: "Cumin", Measure: "2 tsp"},
			{Name: "Paprika", Measure: "1 tsp"},
			{Name: "Water", Measure: "4 cups"},
			{Name: "Lemon"},
		},
	}
}
