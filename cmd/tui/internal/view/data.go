package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pizzangooo/loyalty/internal/cloud"
	"github.com/pizzangooo/loyalty/internal/export"
	"github.com/pizzangooo/loyalty/internal/importer"
)

type dataState int

const (
	dataStateMenu dataState = iota
	dataStateForm
	dataStateRunning
	dataStateResult
)

type dataAction string

const (
	actionExportJSON dataAction = "export_json"
	actionExportCSV  dataAction = "export_csv"
	actionImport     dataAction = "import"
	actionSyncPull   dataAction = "sync_pull"
	actionSyncURL    dataAction = "sync_url"
)

const syncTimeout = 30 * time.Second

type DataModel struct {
	CommonModel
	exportService *export.Service
	importService *importer.Service
	cloudManager  *cloud.Manager

	state   dataState
	action  dataAction
	form    *huh.Form
	spinner spinner.Model

	err     error
	summary string

	formPath string
	formURL  string
}

func NewDataModel(exp *export.Service, imp *importer.Service, cm *cloud.Manager) DataModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DataModel{
		exportService: exp,
		importService: imp,
		cloudManager:  cm,
		spinner:       s,
		formPath:      "./exports",
	}
}

func (m DataModel) Title() string { return "Data & Sync" }

func (m DataModel) ShortHelp() string {
	switch m.state {
	case dataStateResult:
		return "Esc: back to menu"
	case dataStateRunning:
		return "Working..."
	}
	return "Esc: back | Enter: confirm"
}

func (m DataModel) Init() tea.Cmd {
	return nil
}

func (m DataModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(dataResultMsg); ok {
		m.state = dataStateResult
		m.err = result.err
		m.summary = result.summary
		return m, nil
	}

	switch m.state {
	case dataStateMenu:
		return m.updateMenu(msg)
	case dataStateForm:
		return m.updateForm(msg)
	case dataStateRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case dataStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = dataStateMenu
			return m, nil
		}
	}

	return m, nil
}

func (m DataModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "1":
		return m.startAction(actionExportJSON)
	case "2":
		return m.startAction(actionExportCSV)
	case "3":
		return m.startAction(actionImport)
	case "4":
		return m.startAction(actionSyncPull)
	case "5":
		return m.startAction(actionSyncURL)
	}

	return m, nil
}

func (m DataModel) startAction(action dataAction) (tea.Model, tea.Cmd) {
	m.action = action
	m.err = nil
	m.summary = ""

	switch action {
	case actionExportJSON, actionExportCSV:
		m.form = m.pathForm("Output Directory", "Directory will be created if it doesn't exist")
	case actionImport:
		m.formPath = ""
		m.form = m.pathForm("File to Import", "JSON dataset exported from this app")
	case actionSyncURL:
		ctx, cancel := DbCtx()
		url, err := m.cloudManager.Endpoint(ctx)
		cancel()
		if err != nil {
			m.state = dataStateResult
			m.err = err
			return m, nil
		}

		m.formURL = url
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("url").
					Title("Sync Endpoint").
					Description("Leave empty to disable remote sync").
					Placeholder("https://...").
					Value(&m.formURL),
			),
		).WithWidth(60).WithShowHelp(false)
	case actionSyncPull:
		m.state = dataStateRunning
		return m, tea.Batch(m.spinner.Tick, m.syncPullCmd())
	}

	m.state = dataStateForm
	return m, m.form.Init()
}

func (m DataModel) pathForm(title, description string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title(title).
				Description(description).
				Value(&m.formPath),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m DataModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = dataStateMenu
			m.form = nil
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

	m.state = dataStateRunning

	switch m.action {
	case actionExportJSON:
		return m, tea.Batch(m.spinner.Tick, m.exportCmd(export.FormatJSON))
	case actionExportCSV:
		return m, tea.Batch(m.spinner.Tick, m.exportCmd(export.FormatCSV))
	case actionImport:
		return m, tea.Batch(m.spinner.Tick, m.importCmd())
	case actionSyncURL:
		return m, tea.Batch(m.spinner.Tick, m.setSyncURLCmd())
	}

	return m, nil
}

func (m DataModel) View() string {
	switch m.state {
	case dataStateMenu:
		return lipgloss.NewStyle().Padding(1).Render(
			"Data & Sync\n\n" +
				"1. Export as JSON\n" +
				"2. Export as CSV\n" +
				"3. Import from file\n" +
				"4. Pull from remote\n" +
				"5. Set sync endpoint\n\n" +
				"Esc. Back",
		)

	case dataStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case dataStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Working...", m.spinner.View()),
		)

	case dataStateResult:
		return m.viewResult()
	}

	return ""
}

func (m DataModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Done!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary),
	)
}

// Messages

type dataResultMsg struct {
	summary string
	err     error
}

func (m DataModel) exportCmd(format export.Format) tea.Cmd {
	dir := m.formPath

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		payload, err := m.exportService.Export(ctx, format)
		if err != nil {
			return dataResultMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dataResultMsg{err: err}
		}

		path := filepath.Join(dir, m.exportService.Filename(format))
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return dataResultMsg{err: err}
		}

		return dataResultMsg{summary: fmt.Sprintf("Wrote %s", path)}
	}
}

func (m DataModel) importCmd() tea.Cmd {
	path := m.formPath

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return dataResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		ds, err := m.importService.Import(ctx, f)
		if err != nil {
			return dataResultMsg{err: err}
		}

		return dataResultMsg{summary: fmt.Sprintf(
			"Imported %d customers, %d cards, %d transactions",
			len(ds.Customers), len(ds.Cards), len(ds.Transactions),
		)}
	}
}

func (m DataModel) syncPullCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		synced, err := m.cloudManager.Pull(ctx)
		if err != nil {
			return dataResultMsg{err: err}
		}

		if !synced {
			return dataResultMsg{summary: "Sync is disabled; nothing pulled"}
		}

		return dataResultMsg{summary: "Pulled latest data from remote"}
	}
}

func (m DataModel) setSyncURLCmd() tea.Cmd {
	url := m.formURL

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.cloudManager.SetEndpoint(ctx, url); err != nil {
			return dataResultMsg{err: err}
		}

		if url == "" {
			return dataResultMsg{summary: "Remote sync disabled"}
		}

		return dataResultMsg{summary: fmt.Sprintf("Sync endpoint set to %s", url)}
	}
}
