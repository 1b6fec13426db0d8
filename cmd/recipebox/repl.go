package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// runREPL starts the interactive prompt and blocks until the user quits.
func runREPL(ctx context.Context, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eng := a.engine
	ui := display.NewUI(func() display.Status {
		s := display.Status{Dark: eng.DarkMode()}
		if u := eng.CurrentUser(); u != nil {
			s.Email = u.Email
		}
		return s
	})

	repl := &cliApp{
		engine:   eng,
		parser:   conversation.NewKeywordParser(a.log.Named("parser")),
		notifier: conversation.NewCLINotifier(a.log.Named("notify"), ui.Println, ui.Palette),
		log:      a.log,
		ui:       ui,
	}

	fmt.Println(ui.Palette().Splash(display.TermWidth()))
	fmt.Println(ui.Palette().Banner.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		repl.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	err := ui.Run()
	cancel()
	return err
}

type cliApp struct {
	engine   *engine.Engine
	parser   domain.IntentParser
	notifier domain.Notifier
	log      *logger.Logger
	ui       *display.UI
	listed   []domain.Recipe // last listing, for selection by number
	current  string          // id of the recipe last shown
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat(conversation.LineWelcome())
	a.ui.Println("")
	a.home(ctx, "")

	inputCh := a.ui.InputChan()
	for {
		var input string
		var ok bool
		select {
		case <-ctx.Done():
			return
		case input, ok = <-inputCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		a.log.Debug("intent: %s (args=%q)", intent.Type, intent.Args)

		if intent.Type == domain.IntentQuit {
			a.ui.PrintChat(conversation.LineBye())
			return
		}
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentHome:
		a.home(ctx, intent.Arg(0))
	case domain.IntentSearch:
		a.search(ctx, intent.Arg(0))
	case domain.IntentRandom:
		a.random(ctx)
	case domain.IntentShowRecipe:
		a.show(ctx, intent.Arg(0))
	case domain.IntentSelectRecipe:
		a.selectRecipe(ctx, intent.Arg(0))
	case domain.IntentToggleFavorite:
		a.toggleFavorite(ctx, intent.Arg(0))
	case domain.IntentListFavorites:
		a.favorites()
	case domain.IntentListIngredients:
		a.ingredients()
	case domain.IntentAddIngredient:
		a.addIngredient(ctx, intent.Arg(0), intent.Arg(1), intent.Arg(2))
	case domain.IntentRemoveIngredient:
		a.report(a.engine.RemoveIngredient(ctx, intent.Arg(0)), conversation.LineIngredientRemoved())
	case domain.IntentToggleTheme:
		a.toggleTheme(ctx)
	case domain.IntentSignIn:
		u, err := a.engine.SignIn(ctx, intent.Arg(0), intent.Arg(1))
		a.reportSession(u, err, intent.Arg(0))
	case domain.IntentSignUp:
		u, err := a.engine.SignUp(ctx, intent.Arg(0), intent.Arg(1))
		a.reportSession(u, err, intent.Arg(0))
	case domain.IntentSignOut:
		a.report(a.engine.SignOut(ctx), conversation.LineSignedOut())
	case domain.IntentWhoAmI:
		if u := a.engine.CurrentUser(); u != nil {
			a.ui.PrintChat(conversation.LineSignedIn(u.Email))
		} else {
			a.ui.PrintChat(conversation.LineNotSignedIn())
		}
	case domain.IntentUnknown:
		a.ui.PrintHint(conversation.LineUnknown(intent.Arg(0)))
	}
}

// report prints ok on success, or the user-facing explanation of err.
func (a *cliApp) report(err error, ok string) {
	if err != nil {
		a.notifier.NotifyUrgent(context.Background(), explain(err, "").Error())
		return
	}
	a.ui.PrintChat(ok)
}

func (a *cliApp) reportSession(u *domain.User, err error, email string) {
	if err != nil {
		a.notifier.NotifyUrgent(context.Background(), explain(err, email).Error())
		return
	}
	a.ui.PrintChat(conversation.LineSignedIn(u.Email))
}

// ── Browse ───────────────────────────────────────────────────────

func (a *cliApp) home(ctx context.Context, query string) {
	a.ui.PrintHint(conversation.LineFetching())
	recipes, err := a.engine.Home(ctx, query)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading recipes: %v", err))
		return
	}
	a.list(recipes, query)
}

func (a *cliApp) search(ctx context.Context, query string) {
	a.ui.PrintHint(conversation.LineFetching())
	recipes, err := a.engine.Search(ctx, query)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error searching: %v", err))
		return
	}
	a.list(recipes, query)
}

func (a *cliApp) list(recipes []domain.Recipe, query string) {
	if len(recipes) == 0 {
		a.ui.PrintChat(conversation.LineNoResults(query))
		return
	}
	a.listed = recipes
	for i, r := range recipes {
		line := fmt.Sprintf("[%d] %s", i+1, r.Name)
		if a.engine.IsFavorite(r.ID) {
			line += " ★"
		}
		a.ui.PrintLine(line)
		if r.Category != "" || r.Area != "" {
			a.ui.PrintHint(strings.TrimSpace(r.Category + " " + r.Area))
		}
	}
	a.ui.Println("")
	a.ui.PrintChat(conversation.LineResultsFooter())
}

func (a *cliApp) random(ctx context.Context) {
	r, err := a.engine.Random(ctx)
	if err != nil {
		a.ui.PrintChat(conversation.LineNoResults(""))
		return
	}
	a.detail(r)
}

func (a *cliApp) show(ctx context.Context, id string) {
	r, err := a.engine.Recipe(ctx, id)
	if err != nil {
		a.ui.PrintUrgent(conversation.LineRecipeNotFound(id))
		return
	}
	a.detail(r)
}

func (a *cliApp) selectRecipe(ctx context.Context, arg string) {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 1 || idx > len(a.listed) {
		a.ui.PrintChat(conversation.LineInvalidSelection(arg))
		return
	}
	a.show(ctx, a.listed[idx-1].ID)
}

func (a *cliApp) detail(r *domain.Recipe) {
	a.current = r.ID
	title := fmt.Sprintf("=== %s ===", r.Name)
	if a.engine.IsFavorite(r.ID) {
		title += " ★"
	}
	a.ui.PrintHeading(title)
	if len(r.Tags) > 0 {
		a.ui.PrintHint("Tags: " + strings.Join(r.Tags, ", "))
	}
	a.ui.Println("")
	a.ui.PrintHeading("Ingredients:")
	for _, ing := range r.Ingredients {
		a.ui.PrintLine("- " + ing.String())
	}
	a.ui.Println("")
	a.ui.PrintHeading("Instructions:")
	for i, step := range r.Steps() {
		a.ui.PrintLine(fmt.Sprintf("%d. %s", i+1, step))
	}
	a.ui.PrintHint(fmt.Sprintf("id=%s · 'fav' to save", r.ID))
}

// ── Personal data ────────────────────────────────────────────────

func (a *cliApp) toggleFavorite(ctx context.Context, id string) {
	if id == "" {
		id = a.current
	}
	if id == "" {
		a.ui.PrintChat(conversation.LinePickRecipeFirst())
		return
	}
	on, err := a.engine.ToggleFavorite(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.ui.PrintUrgent(conversation.LineRecipeNotFound(id))
	case err != nil:
		a.notifier.NotifyUrgent(ctx, explain(err, "").Error())
	case on:
		a.ui.PrintChat(conversation.LineFavoriteAdded(id))
	default:
		a.ui.PrintChat(conversation.LineFavoriteRemoved(id))
	}
}

func (a *cliApp) favorites() {
	favs, err := a.engine.Favorites()
	if err != nil {
		a.notifier.NotifyUrgent(context.Background(), explain(err, "").Error())
		return
	}
	if len(favs) == 0 {
		a.ui.PrintChat(conversation.LineNoFavorites())
		return
	}
	a.ui.PrintHeading("Favorites:")
	a.list(favs, "")
}

func (a *cliApp) ingredients() {
	ings, err := a.engine.Ingredients()
	if err != nil {
		a.notifier.NotifyUrgent(context.Background(), explain(err, "").Error())
		return
	}
	if len(ings) == 0 {
		a.ui.PrintChat(conversation.LineNoIngredients())
		return
	}
	a.ui.PrintHeading("Ingredients:")
	for _, ing := range ings {
		line := "- " + ing.Name
		if amt := ing.Amount(); amt != "" {
			line += " (" + amt + ")"
		}
		a.ui.PrintLine(line)
		a.ui.PrintHint("  id=" + ing.ID)
	}
}

func (a *cliApp) addIngredient(ctx context.Context, name, qty, unit string) {
	ing, err := a.engine.AddIngredient(ctx, name, qty, unit)
	if err != nil {
		a.notifier.NotifyUrgent(ctx, explain(err, "").Error())
		return
	}
	a.ui.PrintChat(conversation.LineIngredientAdded(ing.Name))
}

func (a *cliApp) toggleTheme(ctx context.Context) {
	dark, err := a.engine.ToggleTheme(ctx)
	if err != nil {
		a.notifier.NotifyUrgent(ctx, explain(err, "").Error())
		return
	}
	a.ui.SetDark(dark)
	a.ui.PrintChat(conversation.LineTheme(dark))
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeading("Commands:")
	for _, line := range []string{
		"home [query]            random picks, or search when a query is given",
		"search <query>          search the catalog",
		"random                  one random recipe",
		"show <id> | <n>         open a recipe by id or list number",
		"fav [id]                add/remove the current recipe from favorites",
		"favorites               list favorites",
		"ingredients             list your ingredients",
		"add <name>[, qty[, unit]]  add an ingredient",
		"rm <id>                 remove an ingredient",
		"theme                   toggle dark mode",
		"login <email> <pw>      sign in",
		"signup <email> <pw>     create an account",
		"logout | whoami",
		"quit",
	} {
		a.ui.PrintLine(line)
	}
}
