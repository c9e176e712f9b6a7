package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pizzangooo/loyalty/internal/loyalty"
)

type customersState int

const (
	customersStateBrowse customersState = iota
	customersStateRegister
)

type CustomersModel struct {
	CommonModel
	svc *loyalty.Service

	state     customersState
	table     table.Model
	customers []loyalty.Customer
	form      *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formName         string
	formInstagram    string
	formCountryCode  string
	formNumber       string
	formRegisteredBy string
	formDOB          string
	formCardType     loyalty.CardType
	formFeePaid      bool
}

func NewCustomersModel(svc *loyalty.Service) CustomersModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Instagram", Width: 18},
		{Title: "Phone", Width: 16},
		{Title: "Registered", Width: 12},
		{Title: "Fee", Width: 6},
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

	return CustomersModel{
		svc:   svc,
		table: t,
	}
}

func (m CustomersModel) Title() string { return "Customers" }

func (m CustomersModel) ShortHelp() string {
	if m.state == customersStateRegister {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | n: register | f: toggle fee | x: delete | r: refresh"
}

func (m CustomersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCustomersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.customers = msg.customers
		m.refreshTable()
		return m, nil

	case customerMutatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}
		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case customersStateBrowse:
		return m.updateBrowse(msg)
	case customersStateRegister:
		return m.updateRegister(msg)
	}

	return m, nil
}

func (m CustomersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterRegisterMode()
		case "f":
			return m, m.toggleFeeCmd()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m CustomersModel) enterRegisterMode() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formInstagram = ""
	m.formCountryCode = "+62"
	m.formNumber = ""
	m.formRegisteredBy = ""
	m.formDOB = ""
	m.formCardType = loyalty.CardTypeFidelity
	m.formFeePaid = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("instagram").
				Title("Instagram").
				Placeholder("@handle").
				Value(&m.formInstagram),

			huh.NewInput().
				Key("country_code").
				Title("Country Code").
				Value(&m.formCountryCode),

			huh.NewInput().
				Key("number").
				Title("Phone Number").
				Value(&m.formNumber),

			huh.NewInput().
				Key("registered_by").
				Title("Registered By").
				Placeholder("staff name (optional)").
				Value(&m.formRegisteredBy),

			huh.NewInput().
				Key("dob").
				Title("Date of Birth").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.formDOB).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewSelect[loyalty.CardType]().
				Key("card_type").
				Title("Card Type").
				Options(
					huh.NewOption("Fidelity", loyalty.CardTypeFidelity),
					huh.NewOption("VIP", loyalty.CardTypeVIP),
				).
				Value(&m.formCardType),

			huh.NewConfirm().
				Key("fee_paid").
				Title("Entry Fee Paid?").
				Value(&m.formFeePaid),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = customersStateRegister
	m.table.Blur()
	return m, m.form.Init()
}

func (m CustomersModel) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = customersStateBrowse
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

	return m, m.registerCmd()
}

func (m CustomersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading customers...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == customersStateRegister && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Register Customer\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *CustomersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.customers))
	for _, c := range m.customers {
		fee := "no"
		if c.EntryFeePaid {
			fee = "yes"
		}
		rows = append(rows, table.Row{
			c.Name,
			c.Instagram,
			c.Phone.CountryCode + " " + c.Phone.Number,
			FormatDate(c.RegisteredAt),
			fee,
		})
	}
	m.table.SetRows(rows)
}

func (m CustomersModel) selected() *loyalty.Customer {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.customers) {
		return nil
	}
	return &m.customers[idx]
}

// Messages

type loadCustomersMsg struct {
	customers []loyalty.Customer
	err       error
}

func (m CustomersModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		customers, err := m.svc.Customers(ctx)
		return loadCustomersMsg{customers: customers, err: err}
	}
}

type customerMutatedMsg struct {
	status string
	err    error
}

func (m CustomersModel) registerCmd() tea.Cmd {
	params := loyalty.RegisterParams{
		Name:      strings.TrimSpace(m.formName),
		Instagram: strings.TrimSpace(m.formInstagram),
		Phone: loyalty.Phone{
			CountryCode: strings.TrimSpace(m.formCountryCode),
			Number:      strings.TrimSpace(m.formNumber),
		},
		RegisteredBy: strings.TrimSpace(m.formRegisteredBy),
		EntryFeePaid: m.formFeePaid,
		CardType:     m.formCardType,
	}

	if dob := strings.TrimSpace(m.formDOB); dob != "" {
		if parsed, err := time.Parse("2006-01-02", dob); err == nil {
			params.DOB = &parsed
		}
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		customer, card, err := m.svc.RegisterCustomer(ctx, params)
		if err != nil {
			return customerMutatedMsg{err: err}
		}

		return customerMutatedMsg{
			status: fmt.Sprintf("Registered %s with card %s", customer.Name, card.ID),
		}
	}
}

func (m CustomersModel) toggleFeeCmd() tea.Cmd {
	c := m.selected()
	if c == nil {
		return nil
	}

	id := c.ID
	paid := !c.EntryFeePaid

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		customer, err := m.svc.SetEntryFeePaid(ctx, id, paid)
		if err != nil {
			return customerMutatedMsg{err: err}
		}

		return customerMutatedMsg{
			status: fmt.Sprintf("Entry fee for %s set to %v", customer.Name, customer.EntryFeePaid),
		}
	}
}

func (m CustomersModel) deleteCmd() tea.Cmd {
	c := m.selected()
	if c == nil {
		return nil
	}

	id := c.ID
	name := c.Name

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.RemoveCustomer(ctx, id); err != nil {
			return customerMutatedMsg{err: err}
		}

		return customerMutatedMsg{status: fmt.Sprintf("Deleted %s and their cards", name)}
	}
}
