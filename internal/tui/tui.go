// Package tui is the pass-and-play terminal interface. Players share one
// terminal: each looks at their private card in turn, then the group reveals
// cards on the board until the table has a winner.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/undercover/internal/game"
	"github.com/lox/undercover/internal/table"
)

type screen int

const (
	screenCount screen = iota
	screenLobby
	screenCard
	screenBoard
	screenGuess
	screenResult
)

func (s screen) String() string {
	switch s {
	case screenCount:
		return "count"
	case screenLobby:
		return "lobby"
	case screenCard:
		return "card"
	case screenBoard:
		return "board"
	case screenGuess:
		return "guess"
	case screenResult:
		return "result"
	}
	return "unknown"
}

// boardColumns is how many cards the board shows per row.
const boardColumns = 4

// Model is the Bubble Tea model for one table.
type Model struct {
	ctx    context.Context
	table  *table.Table
	logger *log.Logger

	screen screen

	nameInput  textinput.Model
	guessInput textinput.Model

	countChoice int
	lobbyCursor int
	boardCursor int

	// card is the player whose private card is on screen.
	card        game.Player
	cardVisible bool

	status    string
	statusErr bool

	width    int
	height   int
	quitting bool
}

// New creates a model for tbl, starting on the screen that matches the
// table's current session.
func New(ctx context.Context, tbl *table.Table, logger *log.Logger) *Model {
	name := textinput.New()
	name.Placeholder = "Player name"
	name.CharLimit = 24
	name.Width = 30
	name.Prompt = "> "
	name.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	guess := textinput.New()
	guess.Placeholder = "The civilians' word"
	guess.CharLimit = 40
	guess.Width = 30
	guess.Prompt = "? "
	guess.PromptStyle = MrWhiteStyle

	m := &Model{
		ctx:        ctx,
		table:      tbl,
		logger:     logger.WithPrefix("tui"),
		nameInput:  name,
		guessInput: guess,
	}
	m.syncScreen()
	return m
}

// syncScreen picks the screen for the table's session.
func (m *Model) syncScreen() {
	s := m.table.Session()
	lim := m.table.Limits()

	switch s.Phase() {
	case game.PhaseEnded:
		m.screen = screenResult
	case game.PhaseInProgress:
		if s.PendingGuess != "" {
			m.enterGuess()
		} else {
			m.screen = screenBoard
		}
	default:
		if s.PlayerCount == 0 {
			m.screen = screenCount
			m.countChoice = max(lim.Min, min(6, lim.Max))
		} else {
			m.enterLobby()
		}
	}
}

// Screen reports the name of the current screen.
func (m *Model) Screen() string {
	return m.screen.String()
}

// Status returns the last message shown to the players.
func (m *Model) Status() string {
	return m.status
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+r":
			m.reset()
			return m, nil
		}

		switch m.screen {
		case screenCount:
			return m.updateCount(msg)
		case screenLobby:
			return m.updateLobby(msg)
		case screenCard:
			return m.updateCard(msg)
		case screenBoard:
			return m.updateBoard(msg)
		case screenGuess:
			return m.updateGuess(msg)
		case screenResult:
			return m.updateResult(msg)
		}
	}

	return m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenLobby:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case screenGuess:
		m.guessInput, cmd = m.guessInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateCount(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lim := m.table.Limits()
	switch msg.String() {
	case "left", "down", "-", "h", "j":
		m.countChoice = max(lim.Min, m.countChoice-1)
	case "right", "up", "+", "l", "k":
		m.countChoice = min(lim.Max, m.countChoice+1)
	case "enter":
		if err := m.table.ChoosePlayerCount(m.countChoice); err != nil {
			m.fail(err)
			return m, nil
		}
		m.info(fmt.Sprintf("Table set for %d players", m.countChoice))
		m.enterLobby()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) updateLobby(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.table.Session()

	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			return m.startGame()
		}
		p, err := m.table.AddPlayer(name)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.nameInput.SetValue("")
		m.card = p
		m.cardVisible = false
		m.screen = screenCard
		m.status = ""
		return m, nil

	case "up":
		if m.lobbyCursor > 0 {
			m.lobbyCursor--
		}
		return m, nil

	case "down":
		if m.lobbyCursor < len(s.Players)-1 {
			m.lobbyCursor++
		}
		return m, nil

	case "ctrl+x", "delete":
		if len(s.Players) == 0 {
			return m, nil
		}
		p := s.Players[m.lobbyCursor]
		if err := m.table.RemovePlayer(p.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.info(fmt.Sprintf("%s left the table", p.Name))
		m.lobbyCursor = max(0, min(m.lobbyCursor, len(s.Players)-2))
		return m, nil

	case "ctrl+n":
		m.screen = screenCount
		m.countChoice = max(s.PlayerCount, len(s.Players), m.table.Limits().Min)
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m *Model) startGame() (tea.Model, tea.Cmd) {
	s := m.table.Session()
	if !s.CanStart(m.table.Limits()) {
		m.fail(fmt.Errorf("seat %d more player(s) first", s.PlayerCount-len(s.Players)))
		return m, nil
	}
	reassigned, err := m.table.Start()
	if err != nil {
		m.fail(err)
		return m, nil
	}
	if reassigned {
		m.info("Roles were dealt again: everyone check your card before playing")
	} else {
		m.info("Game on! Describe your word, then reveal the suspect")
	}
	m.boardCursor = 0
	m.screen = screenBoard
	return m, nil
}

func (m *Model) updateCard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "enter":
		if !m.cardVisible {
			m.cardVisible = true
			return m, nil
		}
		if msg.String() == "enter" {
			m.card = game.Player{}
			m.cardVisible = false
			m.enterLobby()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.table.Session().Players)
	switch msg.String() {
	case "left", "h":
		if m.boardCursor > 0 {
			m.boardCursor--
		}
	case "right", "l":
		if m.boardCursor < n-1 {
			m.boardCursor++
		}
	case "up", "k":
		if m.boardCursor-boardColumns >= 0 {
			m.boardCursor -= boardColumns
		}
	case "down", "j":
		if m.boardCursor+boardColumns < n {
			m.boardCursor += boardColumns
		}
	case "enter", " ":
		out, err := m.table.Reveal(m.boardCursor)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.info(fmt.Sprintf("%s was %s", out.Player.Name, out.Player.Role))
		switch {
		case out.GuessRequired:
			m.enterGuess()
			return m, textinput.Blink
		case out.Winner != game.NoRole:
			m.screen = screenResult
		}
	}
	return m, nil
}

func (m *Model) updateGuess(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitGuess(m.guessInput.Value())
	case "esc":
		// Giving up counts as a wrong guess.
		return m.submitGuess("")
	}
	return m.updateInputs(msg)
}

func (m *Model) submitGuess(guess string) (tea.Model, tea.Cmd) {
	out, err := m.table.SubmitGuess(guess)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.guessInput.SetValue("")
	m.guessInput.Blur()

	if out.Correct {
		m.info("Mr. White guessed the word!")
	} else {
		m.info("Wrong guess. Mr. White is out")
	}
	if out.Winner != game.NoRole {
		m.screen = screenResult
	} else {
		m.screen = screenBoard
	}
	return m, nil
}

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "r":
		m.reset()
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) enterLobby() {
	m.screen = screenLobby
	m.guessInput.Blur()
	m.nameInput.Focus()
	if n := len(m.table.Session().Players); m.lobbyCursor >= n {
		m.lobbyCursor = max(0, n-1)
	}
}

func (m *Model) enterGuess() {
	m.screen = screenGuess
	m.nameInput.Blur()
	m.guessInput.SetValue("")
	m.guessInput.Focus()
}

func (m *Model) reset() {
	if err := m.table.Reset(m.ctx); err != nil {
		m.fail(fmt.Errorf("could not clear saved game: %w", err))
	} else {
		m.info("New game")
	}
	m.card = game.Player{}
	m.cardVisible = false
	m.lobbyCursor = 0
	m.boardCursor = 0
	m.nameInput.SetValue("")
	m.guessInput.SetValue("")
	m.syncScreen()
}

func (m *Model) info(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) fail(err error) {
	m.logger.Debug("Action declined", "screen", m.screen, "error", err)
	m.status = declineMessage(err)
	m.statusErr = true
}

// declineMessage turns an error into something to show the players.
func declineMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrAlreadyRevealed):
		return "That card is already face up"
	case errors.Is(err, game.ErrRosterFull):
		return "Every seat is taken. Press enter to start"
	case errors.Is(err, game.ErrEmptyName):
		return "Type a name first"
	}
	msg := err.Error()
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case screenCount:
		body = m.viewCount()
	case screenLobby:
		body = m.viewLobby()
	case screenCard:
		body = m.viewCard()
	case screenBoard:
		body = m.viewBoard()
	case screenGuess:
		body = m.viewGuess()
	case screenResult:
		body = m.viewResult()
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("UNDERCOVER"))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(ErrorStyle.Render(m.status))
		} else {
			b.WriteString(SuccessStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render(m.help()))
	return b.String()
}

func (m *Model) help() string {
	switch m.screen {
	case screenCount:
		return "←/→ change • Enter confirm • Ctrl+C quit"
	case screenLobby:
		return "Enter add player (empty to start) • ↑/↓ select • Ctrl+X remove • Ctrl+N player count • Ctrl+R reset"
	case screenCard:
		return "Space show card • Enter hide and pass on"
	case screenBoard:
		return "Arrows move • Enter reveal • Ctrl+R reset • Ctrl+C quit"
	case screenGuess:
		return "Enter submit guess • Esc give up"
	case screenResult:
		return "Enter new game • Q quit"
	}
	return ""
}

func (m *Model) viewCount() string {
	q := game.RequiredRoles(m.countChoice)
	var b strings.Builder
	b.WriteString(TitleStyle.Render("How many players?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  ◀ %s ▶", WordStyle.Render(fmt.Sprintf("%2d", m.countChoice))))
	b.WriteString("\n\n")
	b.WriteString(quotaLine(q))
	return b.String()
}

func quotaLine(q game.RoleQuota) string {
	return strings.Join([]string{
		UndercoverStyle.Render(fmt.Sprintf("%d Undercover", q.Undercover)),
		MrWhiteStyle.Render(fmt.Sprintf("%d Mr. White", q.MrWhite)),
		CivilianStyle.Render(fmt.Sprintf("%d Civilians", q.Civilian)),
	}, " • ")
}

func (m *Model) viewLobby() string {
	s := m.table.Session()
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Lobby: %d/%d seated", len(s.Players), s.PlayerCount)))
	b.WriteString("\n")
	b.WriteString(quotaLine(s.Quota()))
	b.WriteString("\n\n")

	for i, p := range s.Players {
		cursor := "  "
		if i == m.lobbyCursor {
			cursor = "▸ "
		}
		b.WriteString(fmt.Sprintf("%s%d. %s\n", cursor, i+1, p.Name))
	}
	if len(s.Players) > 0 {
		b.WriteString("\n")
	}

	if s.CanStart(m.table.Limits()) {
		b.WriteString(SuccessStyle.Render("Everyone is seated. Press enter to start."))
	} else {
		b.WriteString(m.nameInput.View())
	}
	return b.String()
}

func (m *Model) viewCard() string {
	p := m.card
	if !m.cardVisible {
		return PrivateCardStyle.Render(fmt.Sprintf(
			"Pass the device to %s\n\n%s",
			TitleStyle.Render(p.Name),
			InfoStyle.Render("Press space when nobody else is looking")))
	}

	var lines []string
	lines = append(lines, TitleStyle.Render(p.Name))
	lines = append(lines, "You are "+RoleStyle(p.Role).Render(p.Role.String()))
	if p.Role.HasWord() {
		word, _ := p.SecretWord()
		lines = append(lines, "Your word: "+WordStyle.Render(word))
	} else {
		lines = append(lines, "You have no word. Listen closely and blend in.")
	}
	return PrivateCardStyle.Render(strings.Join(lines, "\n\n"))
}

func (m *Model) viewBoard() string {
	s := m.table.Session()
	var rows []string
	var row []string
	for i, p := range s.Players {
		row = append(row, m.renderCard(i, p))
		if len(row) == boardColumns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	title := TitleStyle.Render(fmt.Sprintf("Revealed %d of %d", s.RevealedCount, len(s.Players)))
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, rows...)...)
}

func (m *Model) renderCard(i int, p game.Player) string {
	style := CardStyle
	if i == m.boardCursor {
		style = SelectedCardStyle
	}
	label := InfoStyle.Render("?")
	if p.Revealed {
		label = RoleStyle(p.Role).Render(p.Role.String())
	}
	return style.Render(p.Name + "\n" + label)
}

func (m *Model) viewGuess() string {
	s := m.table.Session()
	name := "Mr. White"
	if idx := s.Players.IndexOf(s.PendingGuess); idx >= 0 {
		name = s.Players[idx].Name
	}
	var b strings.Builder
	b.WriteString(MrWhiteStyle.Render(name + " is Mr. White!"))
	b.WriteString("\n\n")
	b.WriteString("Guess the civilians' word to win the game outright.\n\n")
	b.WriteString(m.guessInput.View())
	return b.String()
}

func (m *Model) viewResult() string {
	s := m.table.Session()
	var b strings.Builder

	b.WriteString(BannerStyle.Render(RoleStyle(s.Winner).Render(winnerLine(s.Winner))))
	b.WriteString("\n\n")
	if s.Pair != nil {
		b.WriteString(fmt.Sprintf("Civilian word: %s   Undercover word: %s\n\n",
			CivilianStyle.Render(s.Pair.Civilian),
			UndercoverStyle.Render(s.Pair.Undercover)))
	}
	for _, p := range s.Players {
		b.WriteString(fmt.Sprintf("  %-16s %s\n", p.Name, RoleStyle(p.Role).Render(p.Role.String())))
	}
	return strings.TrimRight(b.String(), "\n")
}

func winnerLine(r game.Role) string {
	switch r {
	case game.Civilian:
		return "Civilians win!"
	case game.Undercover:
		return "Undercover wins!"
	case game.MrWhite:
		return "Mr. White wins!"
	}
	return "Game over"
}
