// Package tui lets a human play a seat against bot policies in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/history"
	"github.com/lox/revolver/internal/policy"
)

// Model is the Bubble Tea model for one game. The human plays one seat and
// every other seat is driven by a policy.
type Model struct {
	logger *log.Logger

	table   game.Table
	names   map[game.PlayerID]string
	human   game.PlayerID
	bots    map[game.PlayerID]policy.Policy
	delay   time.Duration
	turn    int
	steps   []history.Step
	outcome game.Outcome
	done    bool

	gameLog  []string
	viewport viewport.Model
	width    int
	height   int
	quitting bool
}

// botMsg asks the bot whose turn it is to act. Stale ticks are ignored.
type botMsg struct {
	turn int
}

// Option configures a Model.
type Option func(*Model)

// WithBotDelay sets the pause before a bot acts so the human can follow.
func WithBotDelay(d time.Duration) Option {
	return func(m *Model) { m.delay = d }
}

// New creates a model. names maps every seat to its display name; bots must
// hold a policy for every seat except human.
func New(table game.Table, names map[game.PlayerID]string, human game.PlayerID, bots map[game.PlayerID]policy.Policy, logger *log.Logger, opts ...Option) *Model {
	m := &Model{
		logger:   logger.WithPrefix("tui"),
		table:    table,
		names:    names,
		human:    human,
		bots:     bots,
		delay:    600 * time.Millisecond,
		turn:     1,
		viewport: viewport.New(10, 5),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.addLog(InfoStyle.Render(fmt.Sprintf("%d players, %d chambers, %d loaded",
		len(table.Hands), table.Revolver.Remaining(), table.Revolver.LoadedCount())))
	return m
}

// Init starts the first bot turn if a bot acts first.
func (m *Model) Init() tea.Cmd {
	return m.next()
}

// Outcome returns the terminal outcome once the game is over.
func (m *Model) Outcome() (game.Outcome, bool) {
	return m.outcome, m.done
}

// Steps returns the turns resolved so far.
func (m *Model) Steps() []history.Step {
	return m.steps
}

// HumansTurn reports whether the game is waiting on the human.
func (m *Model) HumansTurn() bool {
	return !m.done && m.table.Hands.Current().ID == m.human
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-32, 10)
		m.viewport.Height = max(msg.Height-6, 3)
		m.viewport.SetContent(strings.Join(m.gameLog, "\n"))
		m.viewport.GotoBottom()
		return m, nil

	case botMsg:
		if m.done || msg.turn != m.turn {
			return m, nil
		}
		return m, m.botTurn()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "f", "s", "t":
			if !m.HumansTurn() {
				return m, nil
			}
			action, _ := game.ParseAction(msg.String())
			return m, m.apply(action, "")
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// next schedules whatever should happen after a resolution.
func (m *Model) next() tea.Cmd {
	if m.done || m.HumansTurn() {
		return nil
	}
	turn := m.turn
	if m.delay <= 0 {
		return func() tea.Msg { return botMsg{turn: turn} }
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return botMsg{turn: turn} })
}

func (m *Model) botTurn() tea.Cmd {
	view := m.table.ViewFor(m.turn)
	p := m.bots[view.Player]
	if p == nil {
		m.logger.Error("No policy for seat, folding", "player", view.Player)
		return m.apply(game.Fold, "error")
	}

	action, err := p.Decide(context.Background(), view)
	switch {
	case err != nil:
		m.logger.Warn("Bot failed, folding", "player", view.Player, "error", err)
		return m.apply(game.Fold, "error")
	case action != game.Fold && action != game.Slide && action != game.Trigger:
		return m.apply(game.Fold, "invalid_action")
	}
	return m.apply(action, "")
}

// apply resolves action for the current player.
func (m *Model) apply(action game.Action, fallback string) tea.Cmd {
	player := m.table.Hands.Current()
	out := game.Resolve(m.table, action)

	step := history.Step{
		Turn:     m.turn,
		Player:   player.ID,
		Action:   action,
		Fallback: fallback,
		Status:   out.Status,
	}
	if !out.Terminal() {
		step.Chambers = out.Table.Revolver.Remaining()
		step.Players = len(out.Table.Hands)
	}
	m.steps = append(m.steps, step)
	m.logger.Debug("Turn resolved", "turn", m.turn, "player", player.ID, "action", action, "status", out.Status)

	m.addLog(m.describe(player, action, out))
	m.turn++

	if out.Terminal() {
		m.done = true
		m.outcome = out
		m.addLog(m.describeOutcome(out))
		return nil
	}
	m.table = out.Table
	return m.next()
}

func (m *Model) describe(player game.Hand, action game.Action, out game.Outcome) string {
	name := m.name(player.ID)
	switch {
	case action == game.Slide && player.PrevAction == game.Slide:
		return fmt.Sprintf("%s tries to slide again and is folded", name)
	case action == game.Slide:
		return fmt.Sprintf("%s slides the revolver along", name)
	case action == game.Fold:
		return fmt.Sprintf("%s folds", name)
	case out.Status == game.PlayerEliminated:
		return LoadedStyle.Render(fmt.Sprintf("%s pulls the trigger... BANG", name))
	default:
		return fmt.Sprintf("%s pulls the trigger... click", name)
	}
}

func (m *Model) describeOutcome(out game.Outcome) string {
	switch out.Status {
	case game.PlayerEliminated:
		if out.Player == m.human {
			return ErrorStyle.Render("You were eliminated.")
		}
		return SuccessStyle.Render(fmt.Sprintf("%s was eliminated. You survived!", m.name(out.Player)))
	case game.PlayerWon:
		if out.Player == m.human {
			return SuccessStyle.Render("You took the last chamber and won!")
		}
		return WarningStyle.Render(fmt.Sprintf("%s took the last chamber and won.", m.name(out.Player)))
	default:
		return WarningStyle.Render("Everybody folded.")
	}
}

func (m *Model) name(id game.PlayerID) string {
	if n, ok := m.names[id]; ok {
		return n
	}
	return id.String()
}

func (m *Model) addLog(line string) {
	m.gameLog = append(m.gameLog, line)
	m.viewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.viewport.GotoBottom()
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render(fmt.Sprintf("Revolver  turn %d", m.turn))
	logPane := paneStyle.Render(m.viewport.View())
	sidebar := paneStyle.Width(26).Height(m.viewport.Height).Render(m.renderSidebar())
	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)

	return lipgloss.JoinVertical(lipgloss.Left, header, top, m.renderActions())
}

func (m *Model) renderSidebar() string {
	var b strings.Builder

	if m.done {
		b.WriteString(InfoStyle.Render("Game over"))
		b.WriteString("\n")
		return b.String()
	}

	view := m.table.ViewFor(m.turn)
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Chambers: %d", view.Chambers)))
	b.WriteString("\n")
	b.WriteString(LoadedStyle.Render(fmt.Sprintf("Odds: %.0f%%", 100*view.LoadedOdds())))
	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("Acting order:"))
	b.WriteString("\n")

	// The last hand acts now, then the order wraps.
	hands := m.table.Hands
	for i := len(hands) - 1; i >= 0; i-- {
		h := hands[i]
		line := m.name(h.ID)
		if h.ID == m.human {
			line += " (you)"
		}
		if h.PrevAction != game.NoAction {
			line += fmt.Sprintf(" (%s)", h.PrevAction)
		}
		if i == len(hands)-1 {
			b.WriteString(CurrentStyle.Render("> " + line))
		} else {
			b.WriteString(PlayerStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderActions() string {
	switch {
	case m.done:
		return InfoStyle.Render("q to quit")
	case !m.HumansTurn():
		return InfoStyle.Render(fmt.Sprintf("Waiting for %s...", m.name(m.table.Hands.Current().ID)))
	}

	slide := "[s]lide"
	if !m.table.ViewFor(m.turn).CanSlide() {
		slide = "[s]lide (folds)"
	}
	return ActionsStyle.Render(fmt.Sprintf("[f]old  %s  [t]rigger   q to quit", slide))
}

// Run plays the model until the human quits.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
