package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/conversation"
)

// appFunc returns the app wired by the root command's pre-run hook.
type appFunc func() *app

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", formatText, "output format: text, json or yaml")
}

// ── Browse ───────────────────────────────────────────────────────

func newSearchCmd(appFn appFunc) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the recipe catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			query := strings.Join(args, " ")
			recipes, err := appFn().engine.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(recipes) == 0 && format == formatText {
				fmt.Fprintln(cmd.OutOrStdout(), conversation.LineNoResults(query))
				return nil
			}
			return writeRecipes(cmd.OutOrStdout(), format, recipes)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newHomeCmd(appFn appFunc) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "home [query]",
		Short: "Show the home feed: random picks, or search results for a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			query := strings.Join(args, " ")
			recipes, err := appFn().engine.Home(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(recipes) == 0 && format == formatText {
				fmt.Fprintln(cmd.OutOrStdout(), conversation.LineNoResults(query))
				return nil
			}
			return writeRecipes(cmd.OutOrStdout(), format, recipes)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newRandomCmd(appFn appFunc) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show one random recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			eng := appFn().engine
			r, err := eng.Random(cmd.Context())
			if err != nil {
				return errors.New(conversation.LineNoResults(""))
			}
			return writeRecipe(cmd.OutOrStdout(), format, r, eng.IsFavorite(r.ID))
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newShowCmd(appFn appFunc) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe's ingredients and instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			eng := appFn().engine
			r, err := eng.Recipe(cmd.Context(), args[0])
			if err != nil {
				return errors.New(conversation.LineRecipeNotFound(args[0]))
			}
			return writeRecipe(cmd.OutOrStdout(), format, r, eng.IsFavorite(r.ID))
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

// ── Session ──────────────────────────────────────────────────────

func newLoginCmd(appFn appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := appFn().engine.SignIn(cmd.Context(), args[0], args[1])
			if err != nil {
				return explain(err, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), conversation.LineSignedIn(u.Email))
			return nil
		},
	}
}

func newSignupCmd(appFn appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := appFn().engine.SignUp(cmd.Context(), args[0], args[1])
			if err != nil {
				return explain(err, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), conversation.LineSignedIn(u.Email))
			return nil
		},
	}
}

func newLogoutCmd(appFn appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFn().engine.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), conversation.LineSignedOut())
			return nil
		},
	}
}

func newWhoamiCmd(appFn appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := appFn().engine.CurrentUser()
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), conversation.LineNotSignedIn())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id=%s)\n", u.Email, u.ID)
			return nil
		},
	}
}

// ── Favorites ────────────────────────────────────────────────────

func newFavoritesCmd(appFn appFunc) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favs"},
		Short:   "Manage favorite recipes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List favorite recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			favs, err := appFn().engine.Favorites()
			if err != nil {
				return explain(err, "")
			}
			if len(favs) == 0 && format == formatText {
				fmt.Fprintln(cmd.OutOrStdout(), conversation.LineNoFavorites())
				return nil
			}
			return writeRecipes(cmd.OutOrStdout(), format, favs)
		},
	}
	addFormatFlag(list, &format)

	add := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a recipe to favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := appFn().engine.AddFavorite(cmd.Context(), args[0])
			if err != nil {
				return explain(err, "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), conversation.LineFavoriteAdded(r.Name))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a recipe from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFn().engine.RemoveFavorite(cmd.Context(), args[0]); err != nil {
				return explain(err, "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), conversation.LineFavoriteRemoved(args[0]))
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add or remove a recipe from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := appFn().engine.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return explain(err, "")
			}
			if on {
				fmt.Fprintln(cmd.OutOrStdout(), conversation.LineFavoriteAdded(args[0]))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), conversation.LineFavoriteRemoved(args[0]))
			}
			return nil
		},
	}

	cmd.AddCommand(list, add, remove, toggle)
	return cmd
}

// ── Ingredients ──────────────────────────────────────────────────

func newIngredientsCmd(appFn appFunc) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Manage your personal ingredient list",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List ingredients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ings, err := appFn().engine.Ingredients()
			if err != nil {
				return explain(err, "")
			}
			return writeIngredients(cmd.OutOrStdout(), format, ings)
		},
	}
	addFormatFlag(list, &format)

	add := &cobra.Command{
		Use:   "add <name> [quantity] [unit]",
		Short: "Add an ingredient",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			args = append(args, "", "")
			ing, err := appFn().engine.AddIngredient(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return explain(err, "")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  id=%s\n", conversation.LineIngredientAdded(ing.Name), ing.ID)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an ingredient by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFn().engine.RemoveIngredient(cmd.Context(), args[0]); err != nil {
				return explain(err, "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), conversation.LineIngredientRemoved())
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

// ── Theme ────────────────────────────────────────────────────────

func newThemeCmd(appFn appFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle]",
		Short:     "Show or toggle dark mode",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := appFn().engine
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), conversation.LineTheme(eng.DarkMode()))
				return nil
			}
			dark, err := eng.ToggleTheme(cmd.Context())
			if err != nil {
				return explain(err, "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), conversation.LineTheme(dark))
			return nil
		},
	}
}
