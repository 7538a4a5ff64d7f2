package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/till/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/till/internal/config"
	"github.com/MrJamesThe3rd/till/internal/logger"
	"github.com/MrJamesThe3rd/till/internal/posapi"
	"github.com/MrJamesThe3rd/till/internal/product"
	"github.com/MrJamesThe3rd/till/internal/transaction"
)

type model struct {
	appName    string
	productSvc *product.Service
	txSvc      *transaction.Service
	checkouter *posapi.Client
	settings   view.Settings

	currentView View
	size        *tea.WindowSizeMsg

	registerView     view.RegisterModel
	productsView     view.ProductsModel
	transactionsView view.TransactionsModel
}

type View int

const (
	ViewMenu         View = 0
	ViewRegister     View = 1
	ViewProducts     View = 2
	ViewTransactions View = 3
)

func initialModel(cfg *config.Config) model {
	client := posapi.New(cfg.API.URL, cfg.API.Timeout,
		posapi.WithAdminKey(cfg.API.AdminKey),
		posapi.WithLogger(slog.Default()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		slog.Warn("api health check failed", "url", cfg.API.URL, "error", err)
	}

	return model{
		appName:    cfg.App.Name,
		productSvc: product.NewService(client),
		txSvc:      transaction.NewService(client),
		checkouter: client,
		settings: view.Settings{
			Timeout:   cfg.API.Timeout,
			PageSize:  cfg.Transactions.PageSize,
			ExportDir: cfg.Export.Dir,
		},
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// open starts a screen with a fresh model and replays the last known window
// size so it can lay itself out.
func (m model) open(v View, screen tea.Model) (model, tea.Model, tea.Cmd) {
	m.currentView = v
	cmd := screen.Init()

	if m.size != nil {
		var sizeCmd tea.Cmd
		screen, sizeCmd = screen.Update(*m.size)
		cmd = tea.Batch(cmd, sizeCmd)
	}

	return m, screen, cmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = &msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			var screen tea.Model

			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m, screen, cmd = m.open(ViewRegister, view.NewRegisterModel(m.productSvc, m.checkouter, m.settings))
				m.registerView = screen.(view.RegisterModel)

				return m, cmd
			case "2":
				m, screen, cmd = m.open(ViewProducts, view.NewProductsModel(m.productSvc, m.settings))
				m.productsView = screen.(view.ProductsModel)

				return m, cmd
			case "3":
				m, screen, cmd = m.open(ViewTransactions, view.NewTransactionsModel(m.txSvc, m.settings))
				m.transactionsView = screen.(view.TransactionsModel)

				return m, cmd
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Register\n" +
				"2. Products\n" +
				"3. Transactions\n\n" +
				"q. Quit",
		)
	case ViewRegister:
		return m.registerView.View()
	case ViewProducts:
		return m.productsView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := logger.Open(cfg.Log.File)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger.New(logFile, logger.Options{App: cfg.App.Name, Level: cfg.Log.Level})

	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
