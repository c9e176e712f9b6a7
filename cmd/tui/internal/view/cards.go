package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pizzangooo/loyalty/internal/loyalty"
)

type cardsState int

const (
	cardsStateBrowse cardsState = iota
	cardsStateRecord
)

type CardsModel struct {
	CommonModel
	svc *loyalty.Service

	state cardsState
	table table.Model
	cards []loyalty.Card
	names map[string]string
	form  *huh.Form

	loading bool
	err     error
	status  string

	formAmount string
}

func NewCardsModel(svc *loyalty.Service) CardsModel {
	columns := []table.Column{
		{Title: "Card", Width: 24},
		{Title: "Customer", Width: 24},
		{Title: "Type", Width: 10},
		{Title: "Points", Width: 8},
		{Title: "Expires", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return CardsModel{
		svc:   svc,
		table: t,
		names: map[string]string{},
	}
}

func (m CardsModel) Title() string { return "Cards" }

func (m CardsModel) ShortHelp() string {
	if m.state == cardsStateRecord {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | t: record transaction | x: delete card | r: refresh"
}

func (m CardsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CardsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCardsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.cards = msg.cards
		m.names = msg.names
		m.refreshTable()
		return m, nil

	case cardMutatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}
		m.state = cardsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case cardsStateBrowse:
		return m.updateBrowse(msg)
	case cardsStateRecord:
		return m.updateRecord(msg)
	}

	return m, nil
}

func (m CardsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			return m.enterRecordMode()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m CardsModel) enterRecordMode() (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	m.formAmount = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount (Rp)").
				Placeholder("75000").
				Value(&m.formAmount).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative whole amount")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = cardsStateRecord
	m.table.Blur()
	return m, m.form.Init()
}

func (m CardsModel) updateRecord(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = cardsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.recordCmd()
}

func (m CardsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading cards...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == cardsStateRecord && m.form != nil {
		card := m.selected()
		title := "Record Transaction"
		if card != nil {
			title = fmt.Sprintf("Record Transaction\n\nCard: %s (%s)", card.ID, card.Type)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *CardsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.cards))
	for _, c := range m.cards {
		points := strconv.Itoa(c.Points)
		if c.Type == loyalty.CardTypeFidelity && c.Points >= loyalty.RewardPoints {
			points += " ★"
		}

		rows = append(rows, table.Row{
			c.ID,
			m.names[c.CustomerID],
			string(c.Type),
			points,
			FormatDate(c.ExpiresAt),
		})
	}
	m.table.SetRows(rows)
}

func (m CardsModel) selected() *loyalty.Card {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.cards) {
		return nil
	}
	return &m.cards[idx]
}

// Messages

type loadCardsMsg struct {
	cards []loyalty.Card
	names map[string]string
	err   error
}

func (m CardsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cards, err := m.svc.Cards(ctx)
		if err != nil {
			return loadCardsMsg{err: err}
		}

		customers, err := m.svc.Customers(ctx)
		if err != nil {
			return loadCardsMsg{err: err}
		}

		names := make(map[string]string, len(customers))
		for _, c := range customers {
			names[c.ID] = c.Name
		}

		return loadCardsMsg{cards: cards, names: names}
	}
}

type cardMutatedMsg struct {
	status string
	err    error
}

func (m CardsModel) recordCmd() tea.Cmd {
	card := m.selected()
	if card == nil {
		return nil
	}

	cardID := card.ID
	amount, _ := strconv.ParseInt(strings.TrimSpace(m.formAmount), 10, 64)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, updated, err := m.svc.RecordTransaction(ctx, cardID, amount)
		if err != nil {
			return cardMutatedMsg{err: err}
		}

		status := fmt.Sprintf("Recorded %s earning %d points", FormatAmount(tx.Amount), tx.PointsEarned)
		if updated != nil {
			status = fmt.Sprintf("%s (balance now %d)", status, updated.Points)
		}

		return cardMutatedMsg{status: status}
	}
}

func (m CardsModel) deleteCmd() tea.Cmd {
	card := m.selected()
	if card == nil {
		return nil
	}

	id := card.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		deleted, err := m.svc.RemoveCard(ctx, id)
		if err != nil {
			return cardMutatedMsg{err: err}
		}

		return cardMutatedMsg{
			status: fmt.Sprintf("Deleted card %s and %d transactions", id, len(deleted)),
		}
	}
}
