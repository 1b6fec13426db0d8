package storage

import "strings"

// UserKey holds the serialized signed-in user.
const UserKey = "user"

// FavoritesKey holds the favorites list of a user.
func FavoritesKey(userID string) string { return "favorites_" + userID }

// IngredientsKey holds the personal ingredient list of a user.
func IngredientsKey(userID string) string { return "ingredients_" + userID }

// ThemeKey holds the dark-mode flag of a user.
func ThemeKey(userID string) string { return "theme_" + userID }

// CredentialsKey holds the local credential record for an email address.
// Emails are compared case-insensitively.
func CredentialsKey(email string) string {
	return "credentials_" + strings.ToLower(strings.TrimSpace(email))
}
