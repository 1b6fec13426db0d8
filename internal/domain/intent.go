package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentHome               // random feed, or search when a query is given
	IntentSearch
	IntentRandom
	IntentShowRecipe
	IntentSelectRecipe // pick a recipe by its number in the last listing
	IntentToggleFavorite
	IntentListFavorites
	IntentListIngredients
	IntentAddIngredient
	IntentRemoveIngredient
	IntentToggleTheme
	IntentSignIn
	IntentSignUp
	IntentSignOut
	IntentWhoAmI
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentHome:
		return "home"
	case IntentSearch:
		return "search"
	case IntentRandom:
		return "random"
	case IntentShowRecipe:
		return "show_recipe"
	case IntentSelectRecipe:
		return "select_recipe"
	case IntentToggleFavorite:
		return "toggle_favorite"
	case IntentListFavorites:
		return "list_favorites"
	case IntentListIngredients:
		return "list_ingredients"
	case IntentAddIngredient:
		return "add_ingredient"
	case IntentRemoveIngredient:
		return "remove_ingredient"
	case IntentToggleTheme:
		return "toggle_theme"
	case IntentSignIn:
		return "sign_in"
	case IntentSignUp:
		return "sign_up"
	case IntentSignOut:
		return "sign_out"
	case IntentWhoAmI:
		return "whoami"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type IntentType
	Args []string // positional arguments, e.g. recipe ID or email + password
}

// Arg returns the i-th argument or "" when absent.
func (in *Intent) Arg(i int) string {
	if i < 0 || i >= len(in.Args) {
		return ""
	}
	return in.Args[i]
}

// intentNames maps snake_case names to IntentType values.
var intentNames = map[string]IntentType{
	"home":              IntentHome,
	"search":            IntentSearch,
	"random":            IntentRandom,
	"show_recipe":       IntentShowRecipe,
	"select_recipe":     IntentSelectRecipe,
	"toggle_favorite":   IntentToggleFavorite,
	"list_favorites":    IntentListFavorites,
	"list_ingredients":  IntentListIngredients,
	"add_ingredient":    IntentAddIngredient,
	"remove_ingredient": IntentRemoveIngredient,
	"toggle_theme":      IntentToggleTheme,
	"sign_in":           IntentSignIn,
	"sign_up":           IntentSignUp,
	"sign_out":          IntentSignOut,
	"whoami":            IntentWhoAmI,
	"help":              IntentHelp,
	"quit":              IntentQuit,
	"unknown":           IntentUnknown,
}

// IntentFromString converts a snake_case intent name to an IntentType.
// Returns IntentUnknown for unrecognized names.
func IntentFromString(name string) IntentType {
	if t, ok := intentNames[name]; ok {
		return t
	}
	return IntentUnknown
}
