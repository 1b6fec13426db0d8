package conversation

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

var _ domain.Notifier = (*CLINotifier)(nil)

// PrintFunc writes one line. display.UI.Println satisfies it.
type PrintFunc func(a ...interface{})

// PaletteFunc returns the palette in effect right now.
type PaletteFunc func() display.Palette

// CLINotifier styles notifications with the active palette, so a theme
// toggle takes effect on the next message.
type CLINotifier struct {
	log     *logger.Logger
	out     PrintFunc
	palette PaletteFunc
}

// NewCLINotifier creates a notifier. A nil out writes to stdout and a
// nil palette uses the dark palette.
func NewCLINotifier(log *logger.Logger, out PrintFunc, palette PaletteFunc) *CLINotifier {
	if out == nil {
		out = func(a ...interface{}) { fmt.Println(a...) }
	}
	if palette == nil {
		palette = func() display.Palette { return display.DarkPalette }
	}
	return &CLINotifier{log: log, out: out, palette: palette}
}

// Notify prints message in the chat style.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.out(n.palette().Chat.Render(message))
	return nil
}

// NotifyUrgent prints message in the urgent style.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.out(n.palette().Urgent.Render(message))
	return nil
}
