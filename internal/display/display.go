// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a status bar (signed-in user and theme) and an
// input prompt at the bottom of the terminal. All application output is
// printed above the rendered area via Program.Println / Printf,
// ensuring concurrent writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const promptText = "recipebox> "

// Status is what the status bar shows.
type Status struct {
	Email string // empty when signed out
	Dark  bool
}

// StatusFunc reports the current status. Called from the UI goroutine.
type StatusFunc func() Status

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	status  StatusFunc
	done    atomic.Bool

	mu      sync.RWMutex
	palette Palette
}

// NewUI creates the display. Call Run() to start.
func NewUI(status StatusFunc) *UI {
	if status == nil {
		status = func() Status { return Status{} }
	}
	return &UI{
		status:  status,
		palette: PaletteFor(status().Dark),
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// SetDark switches the output palette.
func (u *UI) SetDark(dark bool) {
	u.mu.Lock()
	u.palette = PaletteFor(dark)
	u.mu.Unlock()
}

// Palette returns the palette currently in use.
func (u *UI) Palette() Palette {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.palette
}

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintChat prints a conversational line.
func (u *UI) PrintChat(text string) {
	u.Println(u.Palette().Chat.Render("  " + text))
}

// PrintHeading prints a section header like a recipe title.
func (u *UI) PrintHeading(text string) {
	u.Println(u.Palette().Heading.Render("  " + text))
}

// PrintLine prints primary text.
func (u *UI) PrintLine(text string) {
	u.Println(u.Palette().Primary.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(u.Palette().Secondary.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(u.Palette().Urgent.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	p := u.Palette()
	u.Println(p.Prompt.Render("recipebox") + p.Secondary.Render("> ") + p.Echo.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	p := u.Palette()
	ti := textinput.New()
	// Plain-text prompt keeps the textinput width math correct.
	ti.Prompt = promptText
	ti.PromptStyle = p.Prompt
	ti.TextStyle = p.Echo
	ti.Cursor.Style = p.Prompt
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		status:  u.status,
		ui:      u,
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn:  u.PrintUserInput,
	}
	m.current = u.status()

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	status  StatusFunc
	ui      *UI
	current Status
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	width   int
}

type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd so Update never blocks on Println.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case tickMsg:
		next := m.status()
		if next.Dark != m.current.Dark {
			m.ui.SetDark(next.Dark)
			p := m.ui.Palette()
			m.input.PromptStyle = p.Prompt
			m.input.TextStyle = p.Echo
			m.input.Cursor.Style = p.Prompt
		}
		m.current = next
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(m.titleStr()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) titleStr() string {
	if m.current.Email == "" {
		return "recipebox"
	}
	return "recipebox | " + m.current.Email
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(renderBar(m.ui.Palette(), m.current, m.width))
	b.WriteByte('\n')
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

// renderBar draws the status line for s at width w.
func renderBar(p Palette, s Status, w int) string {
	user := "signed out"
	if s.Email != "" {
		user = s.Email
	}
	theme := "light"
	if s.Dark {
		theme = "dark"
	}
	parts := []string{
		p.BarLabel.Render("user: ") + p.BarValue.Render(user),
		p.BarLabel.Render("theme: ") + p.BarValue.Render(theme),
	}
	content := " " + strings.Join(parts, p.Separator.Render("  │  ")) + " "

	if w <= 0 {
		w = 80
	}
	return p.Bar.Width(w).Render(content)
}
