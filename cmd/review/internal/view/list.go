package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tembill/tembill/internal/batch"
)

type ListModel struct {
	CommonModel
	batchService *batch.Service

	table   table.Model
	batches []*batch.Batch

	statusFilterIdx int
	filter          batch.ListFilter

	loading bool
	err     error
}

func NewListModel(batchSvc *batch.Service) ListModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Carrier", Width: 12},
		{Title: "Status", Width: 18},
		{Title: "File", Width: 36},
		{Title: "Uploaded By", Width: 16},
		{Title: "Reviewed By", Width: 16},
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

	return ListModel{
		batchService: batchSvc,
		table:        t,
		filter:       batch.ListFilter{},
	}
}

func (m ListModel) Init() tea.Cmd {
	return m.loadBatchesCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.batches = msg.batches
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadBatchesCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 5
			m.applyFilter()

			return m, m.loadBatchesCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading batches...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabels := []string{"All", "Pending", "Approved", "Rejected", "Failed"}

	header := fmt.Sprintf("Filter: [s] Status: %s | [r] Refresh | Esc: back",
		activeStyle(statusLabels[m.statusFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func statusPtr(s batch.Status) *batch.Status {
	return &s
}

func (m *ListModel) applyFilter() {
	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = statusPtr(batch.StatusPendingApproval)
	case 2:
		m.filter.Status = statusPtr(batch.StatusApproved)
	case 3:
		m.filter.Status = statusPtr(batch.StatusRejected)
	case 4:
		m.filter.Status = statusPtr(batch.StatusFailed)
	default:
		m.filter.Status = nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.batches))

	for _, b := range m.batches {
		reviewedBy := ""
		if b.ReviewedBy != nil {
			reviewedBy = *b.ReviewedBy
		}

		rows = append(rows, table.Row{
			FormatDate(b.CreatedAt),
			b.Carrier,
			string(b.Status),
			b.SourceFilename,
			b.UploadedBy,
			reviewedBy,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	batches []*batch.Batch
	err     error
}

func (m ListModel) loadBatchesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		batches, err := m.batchService.List(ctx, m.filter)

		return loadListMsg{batches: batches, err: err}
	}
}
