package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/pizzangooo/loyalty/cmd/tui/internal/view"
	"github.com/pizzangooo/loyalty/internal/cloud"
	"github.com/pizzangooo/loyalty/internal/config"
	"github.com/pizzangooo/loyalty/internal/database"
	"github.com/pizzangooo/loyalty/internal/export"
	"github.com/pizzangooo/loyalty/internal/importer"
	"github.com/pizzangooo/loyalty/internal/loyalty"
	"github.com/pizzangooo/loyalty/internal/store"
)

type model struct {
	loyaltyService *loyalty.Service
	exportService  *export.Service
	importService  *importer.Service
	cloudManager   *cloud.Manager

	currentView View

	customersView    view.CustomersModel
	cardsView        view.CardsModel
	transactionsView view.TransactionsModel
	dataView         view.DataModel
}

type View int

const (
	ViewMenu         View = 0
	ViewCustomers    View = 1
	ViewCards        View = 2
	ViewTransactions View = 3
	ViewData         View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewSQLite(cfg.DB.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	if err := store.MigrateSQLite(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	st := store.New(store.NewSQLiteKV(db))
	cm := cloud.NewManager(st, cfg.Sync.URL,
		cloud.WithHTTPClient(&http.Client{Timeout: cfg.Sync.Timeout}))
	st.SetPusher(cm)

	loyaltySvc := loyalty.NewService(st)
	expSvc := export.NewService(st)
	impSvc := importer.NewService(st)

	return model{
		loyaltyService:   loyaltySvc,
		exportService:    expSvc,
		importService:    impSvc,
		cloudManager:     cm,
		currentView:      ViewMenu,
		customersView:    view.NewCustomersModel(loyaltySvc),
		cardsView:        view.NewCardsModel(loyaltySvc),
		transactionsView: view.NewTransactionsModel(loyaltySvc),
		dataView:         view.NewDataModel(expSvc, impSvc, cm),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCustomers
				m.customersView = view.NewCustomersModel(m.loyaltyService)

				return m, m.customersView.Init()
			case "2":
				m.currentView = ViewCards
				m.cardsView = view.NewCardsModel(m.loyaltyService)

				return m, m.cardsView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.loyaltyService)

				return m, m.transactionsView.Init()
			case "4":
				m.currentView = ViewData
				m.dataView = view.NewDataModel(m.exportService, m.importService, m.cloudManager)

				return m, m.dataView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customersView.Update(msg)
		m.customersView = newModel.(view.CustomersModel)
	case ViewCards:
		var newModel tea.Model
		newModel, cmd = m.cardsView.Update(msg)
		m.cardsView = newModel.(view.CardsModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewData:
		var newModel tea.Model
		newModel, cmd = m.dataView.Update(msg)
		m.dataView = newModel.(view.DataModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Pizzangooo Loyalty\n\n" +
				"1. Customers\n" +
				"2. Cards\n" +
				"3. Transactions\n" +
				"4. Data & Sync\n\n" +
				"q. Quit",
		)
	case ViewCustomers:
		return m.customersView.View()
	case ViewCards:
		return m.cardsView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewData:
		return m.dataView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
