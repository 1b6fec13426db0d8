// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches REPL input to intents using keywords and simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

// patternRule maps a regex to an intent. Capture groups after the keyword
// become the intent's arguments unless args overrides that.
type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	args   func(groups []string) []string
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q)$`), intent: domain.IntentQuit},
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), intent: domain.IntentHelp},
		{regex: regexp.MustCompile(`(?i)^(home|feed)(?:\s+(.+))?$`), intent: domain.IntentHome},
		{regex: regexp.MustCompile(`(?i)^(search|find)\s+(.+)$`), intent: domain.IntentSearch},
		{regex: regexp.MustCompile(`(?i)^(random|surprise me|r)$`), intent: domain.IntentRandom},
		{regex: regexp.MustCompile(`(?i)^(show|open|view)\s+(\S+)$`), intent: domain.IntentShowRecipe},
		{regex: regexp.MustCompile(`(?i)^(select|pick)\s+(\d+)$`), intent: domain.IntentSelectRecipe},
		{regex: regexp.MustCompile(`(?i)^(favorites|favourites|favs)$`), intent: domain.IntentListFavorites},
		{regex: regexp.MustCompile(`(?i)^(fav|favorite|favourite|like|unfav)(?:\s+(\S+))?$`), intent: domain.IntentToggleFavorite},
		{regex: regexp.MustCompile(`(?i)^(ingredients|shopping|list)$`), intent: domain.IntentListIngredients},
		{regex: regexp.MustCompile(`(?i)^(add)\s+(.+)$`), intent: domain.IntentAddIngredient, args: ingredientArgs},
		{regex: regexp.MustCompile(`(?i)^(remove|rm|del)\s+(\S+)$`), intent: domain.IntentRemoveIngredient},
		{regex: regexp.MustCompile(`(?i)^(theme|dark|dark mode|light)$`), intent: domain.IntentToggleTheme},
		{regex: regexp.MustCompile(`(?i)^(login|signin|sign in)\s+(\S+)\s+(\S+)$`), intent: domain.IntentSignIn},
		{regex: regexp.MustCompile(`(?i)^(signup|register|sign up)\s+(\S+)\s+(\S+)$`), intent: domain.IntentSignUp},
		{regex: regexp.MustCompile(`(?i)^(logout|signout|sign out)$`), intent: domain.IntentSignOut},
		{regex: regexp.MustCompile(`(?i)^(whoami|who am i|me)$`), intent: domain.IntentWhoAmI},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number picks from the last listing.
	if len(trimmed) <= 2 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentSelectRecipe, Args: []string{trimmed}}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		var args []string
		if rule.args != nil {
			args = rule.args(m[2:])
		} else {
			args = nonEmpty(m[2:])
		}
		return &domain.Intent{Type: rule.intent, Args: args}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Args: []string{trimmed}}, nil
}

// ingredientArgs splits "name, qty, unit". Without commas the quantity is
// the first word after the name that starts with a digit, and everything
// after it is the unit. With no such word the whole input is the name.
func ingredientArgs(groups []string) []string {
	raw := groups[0]
	var parts []string
	if strings.Contains(raw, ",") {
		parts = strings.SplitN(raw, ",", 3)
	} else {
		fields := strings.Fields(raw)
		parts = []string{strings.Join(fields, " ")}
		for i := 1; i < len(fields); i++ {
			if startsWithDigit(fields[i]) {
				parts = []string{
					strings.Join(fields[:i], " "),
					fields[i],
					strings.Join(fields[i+1:], " "),
				}
				break
			}
		}
	}
	out := make([]string, 3)
	for i := range parts {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func nonEmpty(groups []string) []string {
	var out []string
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
