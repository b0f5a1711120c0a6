package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/tembill/tembill/cmd/review/internal/view"
	"github.com/tembill/tembill/internal/batch"
	batchStore "github.com/tembill/tembill/internal/batch/store"
	"github.com/tembill/tembill/internal/carrier"
	"github.com/tembill/tembill/internal/carrier/att"
	"github.com/tembill/tembill/internal/carrier/centurylink"
	"github.com/tembill/tembill/internal/carrier/verizon"
	chargeStore "github.com/tembill/tembill/internal/charge/store"
	"github.com/tembill/tembill/internal/config"
	"github.com/tembill/tembill/internal/database"
)

type model struct {
	batchService *batch.Service
	reviewer     string

	currentView View

	reviewView view.ReviewModel
	listView   view.ListModel
}

type View int

const (
	ViewMenu   View = 0
	ViewReview View = 1
	ViewList   View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	charges := chargeStore.New(db)

	registry := carrier.NewRegistry()
	registry.Register("att", att.New(charges))
	registry.Register("verizon", verizon.New(charges))
	registry.Register("centurylink", centurylink.New(charges))

	batchSvc := batch.NewService(batchStore.New(db), registry)

	reviewer := os.Getenv("REVIEWER")
	if reviewer == "" {
		reviewer = os.Getenv("USER")
	}

	return model{
		batchService: batchSvc,
		reviewer:     reviewer,
		currentView:  ViewMenu,
		reviewView:   view.NewReviewModel(batchSvc, reviewer),
		listView:     view.NewListModel(batchSvc),
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
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.batchService, m.reviewer)

				return m, m.reviewView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.batchService)

				return m, m.listView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Tembill Review\n\n" +
				"1. Review Pending Batches\n" +
				"2. List All Batches\n\n" +
				"q. Quit",
		)
	case ViewReview:
		return m.reviewView.View()
	case ViewList:
		return m.listView.View()
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
