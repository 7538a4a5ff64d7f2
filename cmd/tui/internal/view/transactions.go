package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/transaction"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateFilter
	txStateDateRange
	txStateDetail
	txStateExport
)

type filterFormValues struct {
	query    string
	pageSize string
}

type TransactionsModel struct {
	CommonModel
	txService *transaction.Service
	settings  Settings

	filter *transaction.Filter
	state  txState
	table  table.Model

	form   *huh.Form
	values *filterFormValues
	picker DateRangePicker

	detail *transaction.Transaction
	items  table.Model

	export ExportModel

	notice  *Notice
	loading bool
}

func NewTransactionsModel(txSvc *transaction.Service, settings Settings) TransactionsModel {
	t := newTable([]table.Column{
		{Title: "ID", Width: 8},
		{Title: "Time", Width: 21},
		{Title: "Total", Width: 12},
	}, minTableHeight)

	items := newTable([]table.Column{
		{Title: "Product", Width: 8},
		{Title: "Qty", Width: 6},
		{Title: "Price", Width: 10},
		{Title: "Subtotal", Width: 12},
	}, 10)

	return TransactionsModel{
		txService: txSvc,
		settings:  settings,
		filter:    transaction.NewFilter(settings.PageSize),
		table:     t,
		items:     items,
		picker:    NewDateRangePicker(),
		notice:    newNotice("transactions"),
		loading:   true,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateFilter:
		return "Navigate form | Esc: cancel"
	case txStateDetail:
		return "Esc: back | s: save receipt"
	case txStateDateRange, txStateExport:
		return ""
	}

	return "Esc: back | Enter: detail | f: filter | d: dates | c: clear | ←/→: page | r: refresh | x: export list | X: export receipts"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.refreshTable()

		return m, nil

	case clearNoticeMsg:
		m.notice.clear(msg)
		return m, nil

	case txsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.notice.Error(errMessage(msg.err, "Failed to load transactions"))
		}

		m.filter.SetTransactions(msg.txs)
		m.refreshTable()

		return m, nil

	case txDetailMsg:
		return m.openDetail(msg)

	case receiptSavedMsg:
		if msg.err != nil {
			return m, m.notice.Error(fmt.Sprintf("Saving receipt failed: %v", msg.err))
		}

		return m, m.notice.Success("Saved " + msg.path)

	case DateRangeSelectedMsg:
		m.filter.SetDateRange(msg.From, msg.To)
		m.state = txStateBrowse
		m.refreshTable()

		return m, nil

	case DateRangeCanceledMsg:
		m.state = txStateBrowse
		return m, nil

	case ExportClosedMsg:
		m.state = txStateBrowse
		return m, nil
	}

	switch m.state {
	case txStateBrowse:
		return m.updateBrowse(msg)
	case txStateFilter:
		return m.updateFilter(msg)
	case txStateDateRange:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	case txStateDetail:
		return m.updateDetail(msg)
	case txStateExport:
		var cmd tea.Cmd
		m.export, cmd = m.export.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "f", "/":
			return m.openFilterForm()
		case "d":
			filters := m.filter.Filters()
			m.picker.Reset(filters.From, filters.To)
			m.state = txStateDateRange

			return m, nil
		case "c":
			m.filter.ClearFilters()
			m.refreshTable()

			return m, m.notice.Info("Filters cleared")
		case "right", "l", "n", "pgdown":
			m.filter.NextPage()
			m.refreshTable()

			return m, nil
		case "left", "h", "p", "pgup":
			m.filter.PrevPage()
			m.refreshTable()

			return m, nil
		case "enter":
			tx := m.selected()
			if tx == nil {
				return m, nil
			}

			return m, m.loadDetailCmd(tx.ID)
		case "x", "X":
			return m.openExport(keyMsg.String() == "X")
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) selected() *transaction.Transaction {
	page := m.filter.Page()

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(page) {
		return nil
	}

	return page[idx]
}

func (m TransactionsModel) openFilterForm() (tea.Model, tea.Cmd) {
	filters := m.filter.Filters()
	m.values = &filterFormValues{
		query:    filters.Query,
		pageSize: strconv.Itoa(filters.PageSize),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("query").
				Title("Search").
				Description("Matches transaction id or time").
				Value(&m.values.query),

			huh.NewInput().
				Key("page_size").
				Title("Rows per page").
				Value(&m.values.pageSize).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("enter a whole number")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateFilter
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateBrowse
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

	// A blank or invalid size falls back to the default inside the filter.
	pageSize, _ := strconv.Atoi(strings.TrimSpace(m.values.pageSize))

	filters := m.filter.Filters()
	filters.Query = m.values.query
	filters.PageSize = pageSize
	m.filter.SetFilters(filters)

	m.state = txStateBrowse
	m.form = nil
	m.table.Focus()
	m.refreshTable()

	return m, nil
}

func (m TransactionsModel) openDetail(msg txDetailMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, transaction.ErrNotFound) {
			return m, m.notice.Error("Transaction not found")
		}

		return m, m.notice.Error(errMessage(msg.err, "Failed to load transaction details"))
	}

	if m.state != txStateBrowse {
		return m, nil
	}

	m.detail = msg.tx
	m.state = txStateDetail

	rows := make([]table.Row, 0, len(msg.tx.Items))
	for _, it := range msg.tx.Items {
		rows = append(rows, table.Row{
			strconv.FormatInt(it.ProductID, 10),
			strconv.Itoa(it.Quantity),
			FormatMoney(it.PriceAtSale),
			FormatMoney(it.Subtotal()),
		})
	}

	m.items.SetRows(rows)
	m.items.SetCursor(0)

	return m, nil
}

func (m TransactionsModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			m.state = txStateBrowse
			m.detail = nil

			return m, nil
		case "s":
			return m, m.saveReceiptCmd(m.detail)
		}
	}

	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)

	return m, cmd
}

func (m TransactionsModel) openExport(receipts bool) (tea.Model, tea.Cmd) {
	txs := m.filter.Filtered()
	if len(txs) == 0 {
		return m, m.notice.Error("Nothing to export")
	}

	kind := exportList
	if receipts {
		kind = exportReceipts
	}

	m.export = NewExportModel(m.txService, kind, txs, m.settings.ExportDir)
	m.state = txStateExport

	return m, m.export.Init()
}

func (m TransactionsModel) View() string {
	var body string

	switch m.state {
	case txStateDateRange:
		body = m.picker.View()
	case txStateExport:
		body = m.export.View()
	case txStateDetail:
		body = m.detailView()
	default:
		body = m.listView()
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.header(),
			m.notice.View(),
			body,
			"",
			helpStyle(m.ShortHelp()),
		),
	)
}

func (m TransactionsModel) header() string {
	st := m.filter.Stats()

	header := fmt.Sprintf("%s   Count: %s | Revenue: %s | Latest: %s",
		titleStyle("Transactions"),
		activeStyle(strconv.Itoa(st.Count)),
		activeStyle(FormatMoney(st.Revenue)),
		activeStyle(st.Last),
	)

	if m.loading {
		header += helpStyle("  loading...")
	}

	return header
}

func (m TransactionsModel) listView() string {
	filters := m.filter.Filters()
	info := m.filter.PageInfo()

	query := filters.Query
	if query == "" {
		query = "-"
	}

	from, to := filters.From, filters.To
	if from == "" {
		from = "…"
	}

	if to == "" {
		to = "…"
	}

	filterLine := fmt.Sprintf("[f] Search: %s | [d] Dates: %s to %s | Page %d/%d (%d matching, %d per page)",
		activeStyle(query), activeStyle(from), activeStyle(to),
		info.Page, info.Pages, info.Count, filters.PageSize,
	)

	content := lipgloss.JoinVertical(lipgloss.Left, filterLine, boxed(m.table.View()))

	if m.state == txStateFilter && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Filter\n\n"+m.form.View()))
	}

	return content
}

func (m TransactionsModel) detailView() string {
	if m.detail == nil {
		return ""
	}

	info := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Transaction #%d\nTime: %s\nTotal: %s",
			m.detail.ID,
			m.detail.Timestamp,
			FormatMoney(m.detail.TotalAmount),
		))

	if len(m.detail.Items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, info, "", helpStyle("No line items."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, info, "", boxed(m.items.View()))
}

func (m *TransactionsModel) refreshTable() {
	page := m.filter.Page()

	rows := make([]table.Row, 0, len(page))
	for _, tx := range page {
		rows = append(rows, table.Row{
			strconv.FormatInt(tx.ID, 10),
			tx.Timestamp,
			FormatMoney(tx.TotalAmount),
		})
	}

	m.table.SetRows(rows)
	m.table.SetHeight(m.tableHeight(len(rows)))

	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

const (
	// minTableHeight fits the header and one row.
	minTableHeight = 2
	// listChrome is the number of lines the list screen spends outside the table.
	listChrome = 14
)

// tableHeight sizes the list to the rows on the page, capped by the window so
// a large page size scrolls instead of growing the table.
func (m TransactionsModel) tableHeight(rows int) int {
	h := max(rows, 1) + 1

	if m.Height > 0 {
		h = min(h, max(m.Height-listChrome, minTableHeight))
	}

	return h
}

// Messages

type txsLoadedMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	svc := m.txService
	settings := m.settings

	return func() tea.Msg {
		ctx, cancel := settings.requestCtx()
		defer cancel()

		txs, err := svc.List(ctx)

		return txsLoadedMsg{txs: txs, err: err}
	}
}

type txDetailMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m TransactionsModel) loadDetailCmd(id int64) tea.Cmd {
	svc := m.txService
	settings := m.settings

	return func() tea.Msg {
		ctx, cancel := settings.requestCtx()
		defer cancel()

		tx, err := svc.Get(ctx, id)

		return txDetailMsg{tx: tx, err: err}
	}
}

type receiptSavedMsg struct {
	path string
	err  error
}

func (m TransactionsModel) saveReceiptCmd(tx *transaction.Transaction) tea.Cmd {
	dir := m.settings.ExportDir

	return func() tea.Msg {
		path, err := transaction.WriteReceipt(tx, dir)
		return receiptSavedMsg{path: path, err: err}
	}
}
