package conversation

import (
	"fmt"
	"math/rand/v2"
)

// lines.go centralises every user-facing sentence. Keep them short.

// ── Greeting / Global ────────────────────────────────────────────

func LineWelcome() string {
	return "Hungry? Here is something to cook."
}

func LineBye() string {
	return "Bye. Happy cooking."
}

func LineUnknown(input string) string {
	return fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", input)
}

// ── Browse ───────────────────────────────────────────────────────

func LineNoResults(query string) string {
	if query == "" {
		return "Nothing to show right now. Try a search."
	}
	return fmt.Sprintf("No recipes match %q.", query)
}

func LineResultsFooter() string {
	return "Pick a recipe by number, or 'show <id>'."
}

func LineInvalidSelection(arg string) string {
	return fmt.Sprintf("Invalid selection: %s. Pick a number from the last list.", arg)
}

func LineRecipeNotFound(id string) string {
	return fmt.Sprintf("No recipe with id %s.", id)
}

func LinePickRecipeFirst() string {
	return "Open a recipe first, or pass its id."
}

// ── Session ──────────────────────────────────────────────────────

func LineSignedIn(email string) string {
	return fmt.Sprintf("Signed in as %s.", email)
}

func LineSignedOut() string {
	return "Signed out."
}

func LineNotSignedIn() string {
	return "Not signed in."
}

func LineLoginRequired() string {
	return "Sign in first: 'login <email> <password>'."
}

func LineInvalidCredentials() string {
	return "Email or password is wrong."
}

func LineAccountExists(email string) string {
	return fmt.Sprintf("An account for %s already exists. Try 'login'.", email)
}

// ── Favorites ────────────────────────────────────────────────────

func LineFavoriteAdded(name string) string {
	return fmt.Sprintf("Saved %s to favorites.", name)
}

func LineFavoriteRemoved(id string) string {
	return fmt.Sprintf("Removed %s from favorites.", id)
}

func LineNoFavorites() string {
	return "No favorites yet."
}

// ── Ingredients ──────────────────────────────────────────────────

func LineIngredientAdded(name string) string {
	return fmt.Sprintf("Added %s.", name)
}

func LineIngredientRemoved() string {
	return "Removed."
}

func LineIngredientNameRequired() string {
	return "Ingredient name is required."
}

func LineNoIngredients() string {
	return "Your ingredient list is empty."
}

// ── Theme ────────────────────────────────────────────────────────

func LineTheme(dark bool) string {
	if dark {
		return "Dark mode on."
	}
	return "Dark mode off."
}

// ── Fillers ──────────────────────────────────────────────────────

var fetchingFillers = []string{
	"Looking...",
	"One moment...",
	"Checking the pantry...",
	"Fetching recipes...",
}

// LineFetching returns a random short line shown while waiting on the network.
func LineFetching() string {
	return fetchingFillers[rand.IntN(len(fetchingFillers))]
}
