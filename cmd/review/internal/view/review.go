package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/charge"
)

type reviewState int

const (
	reviewStateBrowse reviewState = iota
	reviewStateInspect
	reviewStateDecide
)

// ReviewModel walks the pending queue: pick a batch, inspect its staged
// charges, approve or reject it.
type ReviewModel struct {
	CommonModel
	batchService *batch.Service
	reviewer     string

	state reviewState

	batchTable  table.Model
	chargeTable table.Model
	pending     []*batch.Batch
	current     *batch.Batch
	charges     []*charge.Charge

	form       *huh.Form
	formAction batch.Action
	formReason string

	loading bool
	status  string
	err     error
}

func NewReviewModel(batchSvc *batch.Service, reviewer string) ReviewModel {
	batchCols := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Carrier", Width: 12},
		{Title: "File", Width: 40},
		{Title: "Uploaded By", Width: 16},
	}

	bt := table.New(
		table.WithColumns(batchCols),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	chargeCols := []table.Column{
		{Title: "Account", Width: 14},
		{Title: "Invoice", Width: 14},
		{Title: "Item", Width: 8},
		{Title: "Product", Width: 24},
		{Title: "Qty", Width: 5},
		{Title: "Total", Width: 10},
		{Title: "Recurring", Width: 10},
	}

	ct := table.New(
		table.WithColumns(chargeCols),
		table.WithHeight(12),
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
	bt.SetStyles(s)
	ct.SetStyles(s)

	return ReviewModel{
		batchService: batchSvc,
		reviewer:     reviewer,
		batchTable:   bt,
		chargeTable:  ct,
		loading:      true,
	}
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadPendingCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.pending = msg.batches
		m.refreshBatchTable()

		if len(m.pending) == 0 {
			m.status = "No batches pending approval."
		}

		return m, nil

	case loadChargesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading charges: %v", msg.err)
			m.state = reviewStateBrowse

			return m, nil
		}

		m.charges = msg.charges
		m.refreshChargeTable()
		m.state = reviewStateInspect

		return m, nil

	case decisionMsg:
		m.form = nil
		m.current = nil
		m.loading = true
		m.state = reviewStateBrowse

		if msg.err != nil {
			switch {
			case errors.Is(msg.err, batch.ErrAlreadyDecided):
				m.status = "Batch was already decided by someone else."
			default:
				m.status = fmt.Sprintf("Decision failed: %v", msg.err)
			}
		} else if msg.action == batch.ActionApprove {
			m.status = "Batch approved."
		} else {
			m.status = "Batch rejected."
		}

		return m, m.loadPendingCmd()

	case tea.WindowSizeMsg:
		m.batchTable.SetHeight(msg.Height - 10)
		m.chargeTable.SetHeight(msg.Height - 12)

		return m, nil
	}

	switch m.state {
	case reviewStateBrowse:
		return m.updateBrowse(msg)
	case reviewStateInspect:
		return m.updateInspect(msg)
	case reviewStateDecide:
		return m.updateDecide(msg)
	}

	return m, nil
}

func (m ReviewModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPendingCmd()
		case "enter":
			idx := m.batchTable.Cursor()
			if idx < 0 || idx >= len(m.pending) {
				return m, nil
			}

			m.current = m.pending[idx]
			m.loading = true

			return m, m.loadChargesCmd(m.current)
		}
	}

	var cmd tea.Cmd
	m.batchTable, cmd = m.batchTable.Update(msg)

	return m, cmd
}

func (m ReviewModel) updateInspect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = reviewStateBrowse
			m.current = nil

			return m, nil
		case "d":
			return m.enterDecideMode()
		}
	}

	var cmd tea.Cmd
	m.chargeTable, cmd = m.chargeTable.Update(msg)

	return m, cmd
}

func (m ReviewModel) enterDecideMode() (tea.Model, tea.Cmd) {
	m.formAction = batch.ActionApprove
	m.formReason = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[batch.Action]().
				Key("action").
				Title("Decision").
				Options(
					huh.NewOption("Approve", batch.ActionApprove),
					huh.NewOption("Reject", batch.ActionReject),
				).
				Value(&m.formAction),

			huh.NewInput().
				Key("reason").
				Title("Rejection Reason").
				Placeholder("required when rejecting").
				Value(&m.formReason),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = reviewStateDecide

	return m, m.form.Init()
}

func (m ReviewModel) updateDecide(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = reviewStateInspect
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

	if m.formAction == batch.ActionReject && strings.TrimSpace(m.formReason) == "" {
		m.status = "A rejection needs a reason."

		return m.enterDecideMode()
	}

	return m, m.decideCmd()
}

func (m ReviewModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.state {
	case reviewStateBrowse:
		header := "Pending Batches | Enter: inspect | r: refresh | Esc: back"

		content := lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			m.batchTable.View(),
		)

		if m.status != "" {
			content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
		}

		return lipgloss.NewStyle().Padding(1).Render(content)

	case reviewStateInspect, reviewStateDecide:
		header := fmt.Sprintf("%s | %s | %d staged charges | d: decide | Esc: back",
			m.current.Carrier, m.current.SourceFilename, len(m.charges))

		content := lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			m.chargeTable.View(),
		)

		if m.state == reviewStateDecide && m.form != nil {
			panel := lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Width(54).
				Render(m.form.View())

			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
		}

		if m.status != "" {
			content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
		}

		return lipgloss.NewStyle().Padding(1).Render(content)
	}

	return ""
}

func (m *ReviewModel) refreshBatchTable() {
	rows := make([]table.Row, 0, len(m.pending))

	for _, b := range m.pending {
		rows = append(rows, table.Row{
			FormatDate(b.CreatedAt),
			b.Carrier,
			b.SourceFilename,
			b.UploadedBy,
		})
	}

	m.batchTable.SetRows(rows)
}

func (m *ReviewModel) refreshChargeTable() {
	rows := make([]table.Row, 0, len(m.charges))

	for _, c := range m.charges {
		rows = append(rows, table.Row{
			c.AccountNumber,
			c.InvoiceNumber,
			c.ItemNumber,
			c.ProductID,
			fmt.Sprintf("%d", c.Quantity),
			FormatAmount(c.TotalCharge),
			FormatAmount(c.RecurringCharge),
		})
	}

	m.chargeTable.SetRows(rows)
}

type loadPendingMsg struct {
	batches []*batch.Batch
	err     error
}

func (m ReviewModel) loadPendingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		batches, err := m.batchService.List(ctx, batch.ListFilter{
			Status: statusPtr(batch.StatusPendingApproval),
		})

		return loadPendingMsg{batches: batches, err: err}
	}
}

type loadChargesMsg struct {
	charges []*charge.Charge
	err     error
}

func (m ReviewModel) loadChargesCmd(b *batch.Batch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, charges, err := m.batchService.Staged(ctx, b.ID)

		return loadChargesMsg{charges: charges, err: err}
	}
}

type decisionMsg struct {
	action batch.Action
	err    error
}

func (m ReviewModel) decideCmd() tea.Cmd {
	b := m.current
	action := m.formAction
	reason := m.formReason

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.batchService.Decide(ctx, b.ID, action, m.reviewer, reason)

		return decisionMsg{action: action, err: err}
	}
}
