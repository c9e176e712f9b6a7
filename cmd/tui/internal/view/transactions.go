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

type transactionsState int

const (
	transactionsStateBrowse transactionsState = iota
	transactionsStateRevise
)

type TransactionsModel struct {
	CommonModel
	svc *loyalty.Service

	state transactionsState
	table table.Model
	txs   []loyalty.Transaction
	form  *huh.Form

	loading bool
	err     error
	status  string

	formAmount string
}

func NewTransactionsModel(svc *loyalty.Service) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Card", Width: 24},
		{Title: "Amount", Width: 12},
		{Title: "Points", Width: 8},
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

	return TransactionsModel{
		svc:   svc,
		table: t,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == transactionsStateRevise {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | e: revise amount | x: delete | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTransactionsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.refreshTable()
		return m, nil

	case transactionMutatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}
		m.state = transactionsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case transactionsStateBrowse:
		return m.updateBrowse(msg)
	case transactionsStateRevise:
		return m.updateRevise(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterReviseMode()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m TransactionsModel) enterReviseMode() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.formAmount = strconv.FormatInt(tx.Amount, 10)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("New Amount (Rp)").
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

	m.state = transactionsStateRevise
	m.table.Blur()
	return m, m.form.Init()
}

func (m TransactionsModel) updateRevise(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = transactionsStateBrowse
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

	return m, m.reviseCmd()
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == transactionsStateRevise && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Revise Transaction\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.CardID,
			FormatAmount(tx.Amount),
			strconv.Itoa(tx.PointsEarned),
		})
	}
	m.table.SetRows(rows)
}

func (m TransactionsModel) selected() *loyalty.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}
	return &m.txs[idx]
}

// Messages

type loadTransactionsMsg struct {
	txs []loyalty.Transaction
	err error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.svc.Transactions(ctx)
		return loadTransactionsMsg{txs: txs, err: err}
	}
}

type transactionMutatedMsg struct {
	status string
	err    error
}

func (m TransactionsModel) reviseCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	id := tx.ID
	amount, _ := strconv.ParseInt(strings.TrimSpace(m.formAmount), 10, 64)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		revised, updated, err := m.svc.ReviseTransactionAmount(ctx, id, amount)
		if err != nil {
			return transactionMutatedMsg{err: err}
		}

		status := fmt.Sprintf("Revised to %s earning %d points", FormatAmount(revised.Amount), revised.PointsEarned)
		if updated != nil {
			status = fmt.Sprintf("%s (balance now %d)", status, updated.Points)
		}

		return transactionMutatedMsg{status: status}
	}
}

func (m TransactionsModel) deleteCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	id := tx.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.svc.RemoveTransaction(ctx, id)
		if err != nil {
			return transactionMutatedMsg{err: err}
		}

		status := fmt.Sprintf("Deleted transaction %s", id)
		if updated != nil {
			status = fmt.Sprintf("%s (balance now %d)", status, updated.Points)
		}

		return transactionMutatedMsg{status: status}
	}
}
