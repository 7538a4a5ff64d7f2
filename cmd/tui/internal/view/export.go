package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/transaction"
)

type exportKind int

const (
	exportList exportKind = iota
	exportReceipts
)

type exportState int

const (
	exportStatePath exportState = iota
	exportStateExporting
	exportStateResult
)

// ExportClosedMsg tells the transactions screen the export panel is done.
type ExportClosedMsg struct{}

func exportClosed() tea.Msg {
	return ExportClosedMsg{}
}

// ExportModel asks for a directory and writes either the filtered list or one
// receipt per transaction into it.
type ExportModel struct {
	txService *transaction.Service

	kind  exportKind
	txs   []*transaction.Transaction
	state exportState
	err   error

	form    *huh.Form
	path    *string
	spinner spinner.Model
	files   []string
}

func NewExportModel(svc *transaction.Service, kind exportKind, txs []*transaction.Transaction, dir string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		txService: svc,
		kind:      kind,
		txs:       txs,
		path:      &dir,
		spinner:   s,
	}
	m.form = m.buildPathForm()

	return m
}

func (m ExportModel) Title() string {
	if m.kind == exportReceipts {
		return fmt.Sprintf("Export %d Receipts", len(m.txs))
	}

	return fmt.Sprintf("Export %d Transactions", len(m.txs))
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (ExportModel, tea.Cmd) {
	switch m.state {
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (ExportModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, exportClosed
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(strings.TrimSpace(*m.path)))
}

func (m ExportModel) updateExporting(msg tea.Msg) (ExportModel, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.files = result.files

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (ExportModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			return m, exportClosed
		}
	}

	return m, nil
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(m.path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	title := titleStyle(m.Title())

	switch m.state {
	case exportStatePath:
		return lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View(), "", helpStyle("Esc: cancel"))

	case exportStateExporting:
		what := "Writing transactions..."
		if m.kind == exportReceipts {
			what = "Fetching and writing receipts..."
		}

		return lipgloss.JoinVertical(lipgloss.Left, title, "", fmt.Sprintf("%s %s", m.spinner.View(), what))

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
			"",
			helpStyle("Enter/Esc: close"),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		fmt.Sprintf("%d file(s) written:", len(m.files)),
		"",
		strings.Join(m.files, "\n"),
		"",
		helpStyle("Enter/Esc: close"),
	)
}

type exportResultMsg struct {
	files []string
	err   error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(dir string) tea.Cmd {
	svc := m.txService
	kind := m.kind
	txs := m.txs

	return func() tea.Msg {
		if kind == exportList {
			path, err := transaction.WriteListExport(txs, dir)
			if err != nil {
				return exportResultMsg{err: err}
			}

			return exportResultMsg{files: []string{path}}
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		files, err := svc.ExportReceipts(ctx, txs, dir)

		return exportResultMsg{files: files, err: err}
	}
}
