package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Output formats accepted by -o.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (want text, json or yaml)", f)
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return checkFormat(format)
}

func writeRecipes(w io.Writer, format string, recipes []domain.Recipe) error {
	if format != formatText {
		out := make([]domain.RecipeSummary, 0, len(recipes))
		for i := range recipes {
			out = append(out, recipes[i].Summary())
		}
		return encode(w, format, out)
	}
	for i, r := range recipes {
		line := fmt.Sprintf("[%d] %s", i+1, r.Name)
		if r.Category != "" {
			line += " (" + r.Category + ")"
		}
		fmt.Fprintf(w, "%s  id=%s\n", line, r.ID)
	}
	return nil
}

func writeRecipe(w io.Writer, format string, r *domain.Recipe, favorite bool) error {
	if format != formatText {
		return encode(w, format, r)
	}
	mark := ""
	if favorite {
		mark = " ★"
	}
	fmt.Fprintf(w, "=== %s ===%s\n", r.Name, mark)
	var meta []string
	for _, m := range []string{r.Category, r.Area, strings.Join(r.Tags, ", ")} {
		if m != "" {
			meta = append(meta, m)
		}
	}
	if len(meta) > 0 {
		fmt.Fprintln(w, strings.Join(meta, " · "))
	}
	fmt.Fprintf(w, "id=%s\n\nIngredients:\n", r.ID)
	for _, ing := range r.Ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}
	fmt.Fprintln(w, "\nInstructions:")
	for i, step := range r.Steps() {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
	return nil
}

func writeIngredients(w io.Writer, format string, ings []domain.Ingredient) error {
	if format != formatText {
		if ings == nil {
			ings = []domain.Ingredient{}
		}
		return encode(w, format, ings)
	}
	if len(ings) == 0 {
		fmt.Fprintln(w, conversation.LineNoIngredients())
		return nil
	}
	for _, ing := range ings {
		line := ing.Name
		if amt := ing.Amount(); amt != "" {
			line += " - " + amt
		}
		fmt.Fprintf(w, "%s  id=%s\n", line, ing.ID)
	}
	return nil
}

// explain turns domain errors into the sentences shown to the user.
func explain(err error, email string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrLoginRequired):
		return errors.New(conversation.LineLoginRequired())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errors.New(conversation.LineInvalidCredentials())
	case errors.Is(err, domain.ErrAlreadyExists):
		return errors.New(conversation.LineAccountExists(email))
	case errors.Is(err, domain.ErrInvalidIngredient):
		return errors.New(conversation.LineIngredientNameRequired())
	}
	return err
}
