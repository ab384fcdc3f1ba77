/*
Package tui
File: tui.go
Description:
    The bubbletea model of the terminal client.
    A scrolling log on the left, the player and market on the right and
    a command prompt below.
*/

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/everforgeworks/dopewars/internal/game"
)

type model struct {
	game       *game.Game
	textInput  textinput.Model
	viewport   viewport.Model
	transcript []string // Rendered log, with the player's commands echoed
	seen       int      // Game log lines already in the transcript
	runID      string
	notice     string // Parse error or rejection of the last command
	width      int
	height     int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
)

const helpText = "buy/sell <drug> <n|max>, travel <place>, borrow/repay <n>, heal, gun <weapon>, equip <weapon>, stash buy|put|take, fight/run/bribe [n]/surrender, restart, quit"

func NewModel(g *game.Game) model {
	ti := textinput.New()
	ti.Placeholder = "What do you do?"
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 60

	m := model{
		game:      g,
		textInput: ti,
		runID:     g.RunID(),
	}
	m.syncLog()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			line := strings.TrimSpace(m.textInput.Value())
			if line == "" {
				return m, nil
			}
			m.textInput.Reset()
			if quit := m.execute(line); quit {
				return m, tea.Quit
			}
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), msg.Height-6)
		} else {
			m.viewport.Width = m.logWidth()
			m.viewport.Height = msg.Height - 6
		}
		m.refresh()
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// execute runs one typed line and reports whether to quit.
func (m *model) execute(line string) bool {
	m.notice = ""
	m.transcript = append(m.transcript, userStyle.Render("> "+line))

	cmd, err := ParseCommand(line)
	if err != nil {
		m.notice = err.Error()
		return false
	}
	switch cmd.Verb {
	case "quit":
		return true
	case "help":
		m.notice = helpText
		return false
	}

	if _, err := cmd.Run(m.game); err != nil {
		var rej *game.RejectedError
		if errors.As(err, &rej) {
			m.notice = rej.Error()
		} else {
			m.notice = err.Error()
		}
	}
	m.syncLog()
	return false
}

// syncLog appends new game log lines to the transcript. A restart starts
// the game log over, so the whole new log is appended.
func (m *model) syncLog() {
	if id := m.game.RunID(); id != m.runID {
		m.runID, m.seen = id, 0
		m.transcript = append(m.transcript, helpStyle.Render("--- new game ---"))
	}
	m.transcript = append(m.transcript, m.game.LogSince(m.seen)...)
	m.seen = m.game.LogLen()
}

func (m *model) refresh() {
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.6)
}

func (m model) View() string {
	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)

	prompt := ""
	if enc, ok := m.game.Encounter(); ok {
		prompt = noticeStyle.Render(fmt.Sprintf("Police! They want your $%d stash. fight, run, bribe [n] or surrender?", enc.Value)) + "\n"
	} else if st := m.game.Status(); st.Over {
		prompt = noticeStyle.Render(st.Reason+" Type restart to play again.") + "\n"
	}
	if m.notice != "" {
		prompt += noticeStyle.Render(m.notice) + "\n"
	}

	help := helpStyle.Render("Type help for commands, quit to leave.")

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+prompt+m.textInput.View(),
		"\n"+help,
	) + "\n"
}

func (m model) renderLog() string {
	w := m.logWidth()
	var b strings.Builder
	for _, line := range m.transcript {
		b.WriteString(gameStyle.Width(w).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderState() string {
	p := m.game.Player()
	mk := m.game.Market()
	rules := m.game.Balance().Rules

	var b strings.Builder

	// Status
	b.WriteString(titleStyle.Render("STATUS") + "\n")
	fmt.Fprintf(&b, "Day %d/%d in %s\n", min(p.Day, rules.DayLimit), rules.DayLimit, p.Location)
	fmt.Fprintf(&b, "Cash $%d  Debt $%d\n", p.Cash, p.Debt)
	fmt.Fprintf(&b, "Health %d  Coat %d/%d\n", p.Health, p.TotalItems(), p.Capacity)
	if p.Armed() {
		fmt.Fprintf(&b, "Weapon %s\n", p.Equipped)
	}
	b.WriteString("\n")

	// Market
	b.WriteString(titleStyle.Render("MARKET") + "\n")
	for _, s := range game.Substances() {
		fmt.Fprintf(&b, "%-8s $%-6d %s  x%d\n", s, mk.Prices[s], trend(mk.Prices[s], mk.History[s]), p.Inventory[s])
	}

	// Stash houses
	if owned := p.OwnedStashLocations(); len(owned) > 0 {
		b.WriteString("\n" + titleStyle.Render("STASH") + "\n")
		for _, l := range owned {
			h := p.StashHouses[l]
			fmt.Fprintf(&b, "%s %d/%d\n", l, h.TotalItems(), h.Capacity)
		}
	}

	width := m.width - m.logWidth() - 4
	return stateStyle.Width(max(width, 20)).Height(m.viewport.Height).Render(b.String())
}

// trend compares today's price with yesterday's. History ends with
// today's generated price, which a travel price shock may have moved
// since, so the displayed price is compared with the entry before it.
func trend(price int, history []int) string {
	if len(history) < 2 {
		return " "
	}
	prev := history[len(history)-2]
	switch {
	case price > prev:
		return upStyle.Render("▲")
	case price < prev:
		return downStyle.Render("▼")
	}
	return "="
}

// Run starts the terminal client on g.
func Run(g *game.Game) error {
	p := tea.NewProgram(NewModel(g), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
