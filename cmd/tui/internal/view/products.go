package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/product"
)

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateForm
	productsStateConfirm
)

type productAction int

const (
	actionDelete productAction = iota
	actionReset
)

// productFormValues lives on the heap so the form keeps writing to the same
// fields however often the model is copied.
type productFormValues struct {
	name  string
	price string
	cost  string
	stock string
}

func newProductFormValues(p *product.Product) *productFormValues {
	if p == nil {
		return &productFormValues{stock: "0"}
	}

	return &productFormValues{
		name:  p.Name,
		price: p.Price.String(),
		cost:  p.Cost.String(),
		stock: strconv.Itoa(p.Stock),
	}
}

func (v *productFormValues) fields() (product.Fields, error) {
	price, err := parseMoney(v.price)
	if err != nil {
		return product.Fields{}, fmt.Errorf("price: %w", err)
	}

	cost, err := parseMoney(v.cost)
	if err != nil {
		return product.Fields{}, fmt.Errorf("cost: %w", err)
	}

	stock, err := parseStock(v.stock)
	if err != nil {
		return product.Fields{}, fmt.Errorf("stock: %w", err)
	}

	return product.Fields{
		Name:  strings.TrimSpace(v.name),
		Price: price,
		Cost:  cost,
		Stock: stock,
	}, nil
}

var (
	errNotANumber = errors.New("enter a number")
	errNegative   = errors.New("must not be negative")
)

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, errNotANumber
	}

	if d.IsNegative() {
		return decimal.Decimal{}, errNegative
	}

	return d, nil
}

// parseStock treats a blank field as zero.
func parseStock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errNotANumber
	}

	if n < 0 {
		return 0, errNegative
	}

	return n, nil
}

type ProductsModel struct {
	CommonModel
	productService *product.Service
	settings       Settings

	catalog *product.Catalog
	state   productsState
	table   table.Model

	form    *huh.Form
	values  *productFormValues
	editing *product.Product

	action    productAction
	target    *product.Product
	confirmed *bool

	notice  *Notice
	loading bool
}

func NewProductsModel(productSvc *product.Service, settings Settings) ProductsModel {
	t := newTable([]table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 30},
		{Title: "Price", Width: 10},
		{Title: "Cost", Width: 10},
		{Title: "Stock", Width: 7},
	}, 15)

	return ProductsModel{
		productService: productSvc,
		settings:       settings,
		catalog:        &product.Catalog{},
		table:          t,
		notice:         newNotice("products"),
		loading:        true,
	}
}

func (m ProductsModel) Title() string { return "Products" }

func (m ProductsModel) ShortHelp() string {
	switch m.state {
	case productsStateForm:
		return "Navigate form | Esc: cancel"
	case productsStateConfirm:
		return "←/→: choose | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | d: delete | r: refresh | R: reset demo data"
}

func (m ProductsModel) Init() tea.Cmd {
	return m.listCmd()
}

// refresh starts a product list fetch tagged with a new catalog sequence.
func (m *ProductsModel) refresh() tea.Cmd {
	m.loading = true
	return m.listCmd()
}

func (m *ProductsModel) listCmd() tea.Cmd {
	svc := m.productService

	return m.catalogCmd(func(ctx context.Context) ([]*product.Product, error) {
		return svc.List(ctx)
	}, "Failed to load products", "")
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil

	case clearNoticeMsg:
		m.notice.clear(msg)
		return m, nil

	case catalogMsg:
		return m.applyCatalog(msg)

	case productFetchedMsg:
		return m.openEditForm(msg)
	}

	switch m.state {
	case productsStateBrowse:
		return m.updateBrowse(msg)
	case productsStateForm:
		return m.updateForm(msg)
	case productsStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ProductsModel) applyCatalog(msg catalogMsg) (tea.Model, tea.Cmd) {
	// Replies to a previously opened products screen belong to its catalog.
	if msg.catalog != m.catalog {
		return m, nil
	}

	if msg.seq == m.catalog.Latest() {
		m.loading = false
	}

	if msg.err != nil {
		return m, m.notice.Error(errMessage(msg.err, msg.failure))
	}

	if m.catalog.Apply(msg.seq, msg.products) {
		m.refreshTable()
	}

	if msg.success == "" {
		return m, nil
	}

	return m, m.notice.Success(msg.success)
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			cmd := m.refresh()
			return m, cmd
		case "n":
			return m.openForm(nil)
		case "e", "enter":
			p := m.selected()
			if p == nil {
				return m, nil
			}

			return m, m.fetchProductCmd(p.ID)
		case "d":
			p := m.selected()
			if p == nil {
				return m, nil
			}

			return m.openConfirm(actionDelete, p)
		case "R":
			return m.openConfirm(actionReset, nil)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) selected() *product.Product {
	products := m.catalog.Products()

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(products) {
		return nil
	}

	return products[idx]
}

func (m ProductsModel) openEditForm(msg productFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, product.ErrNotFound) {
			cmd := m.refresh()
			return m, tea.Batch(m.notice.Error("Product no longer exists"), cmd)
		}

		return m, m.notice.Error(errMessage(msg.err, "Failed to load product"))
	}

	if m.state != productsStateBrowse {
		return m, nil
	}

	return m.openForm(msg.product)
}

// openForm edits p, or creates a product when p is nil.
func (m ProductsModel) openForm(p *product.Product) (tea.Model, tea.Cmd) {
	m.editing = p
	m.values = newProductFormValues(p)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.values.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("price").
				Title("Price").
				Placeholder("0.00").
				Value(&m.values.price).
				Validate(func(s string) error {
					_, err := parseMoney(s)
					return err
				}),

			huh.NewInput().
				Key("cost").
				Title("Cost").
				Placeholder("0.00").
				Value(&m.values.cost).
				Validate(func(s string) error {
					_, err := parseMoney(s)
					return err
				}),

			huh.NewInput().
				Key("stock").
				Title("Stock").
				Placeholder("0").
				Value(&m.values.stock).
				Validate(func(s string) error {
					_, err := parseStock(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m.closeOverlay(), nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	fields, err := m.values.fields()
	if err != nil {
		return m.closeOverlay(), m.notice.Error(err.Error())
	}

	if err := m.productService.Validate(fields); err != nil {
		return m.closeOverlay(), m.notice.Error(err.Error())
	}

	return m.closeOverlay(), m.saveCmd(m.editing, fields)
}

func (m *ProductsModel) saveCmd(editing *product.Product, fields product.Fields) tea.Cmd {
	svc := m.productService

	if editing == nil {
		return m.catalogCmd(func(ctx context.Context) ([]*product.Product, error) {
			return svc.Create(ctx, fields)
		}, "Failed to add product", fmt.Sprintf("Added %s", fields.Name))
	}

	id := editing.ID

	return m.catalogCmd(func(ctx context.Context) ([]*product.Product, error) {
		return svc.Update(ctx, id, fields)
	}, "Failed to update product", fmt.Sprintf("Updated %s", fields.Name))
}

func (m ProductsModel) openConfirm(action productAction, target *product.Product) (tea.Model, tea.Cmd) {
	title := "Reset demo data?"
	desc := "All products and transactions are replaced with the sample set."

	if action == actionDelete {
		title = fmt.Sprintf("Delete %s?", target.Name)
		desc = "This cannot be undone."
	}

	m.action = action
	m.target = target
	m.confirmed = new(false)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(title).
				Description(desc).
				Affirmative("Yes").
				Negative("No").
				Value(m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m.closeOverlay(), nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m = m.closeOverlay()

	if !*m.confirmed {
		return m, nil
	}

	svc := m.productService

	if m.action == actionReset {
		return m, m.catalogCmd(svc.ResetDemoData, "Failed to reset demo data", "Demo data restored")
	}

	id, name := m.target.ID, m.target.Name

	return m, m.catalogCmd(func(ctx context.Context) ([]*product.Product, error) {
		return svc.Delete(ctx, id)
	}, "Failed to delete product", fmt.Sprintf("Deleted %s", name))
}

func (m ProductsModel) closeOverlay() ProductsModel {
	m.state = productsStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m ProductsModel) View() string {
	stats := m.catalog.Stats()

	header := fmt.Sprintf("%s   Products: %s | Total stock: %s",
		titleStyle("Products"),
		activeStyle(strconv.Itoa(stats.Count)),
		activeStyle(strconv.Itoa(stats.TotalStock)),
	)
	if m.loading {
		header += helpStyle("  loading...")
	}

	content := boxed(m.table.View())

	if m.form != nil {
		title := "New Product"

		switch {
		case m.state == productsStateConfirm:
			title = "Confirm"
		case m.editing != nil:
			title = fmt.Sprintf("Edit Product #%d", m.editing.ID)
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(title+"\n\n"+m.form.View()))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			m.notice.View(),
			content,
			"",
			helpStyle(m.ShortHelp()),
		),
	)
}

func (m *ProductsModel) refreshTable() {
	products := m.catalog.Products()

	rows := make([]table.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, table.Row{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			FormatMoney(p.Price),
			FormatMoney(p.Cost),
			strconv.Itoa(p.Stock),
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Messages

// catalogMsg carries the product list produced by a fetch or a mutation,
// tagged with the catalog and sequence issued when the request was sent.
type catalogMsg struct {
	catalog  *product.Catalog
	seq      uint64
	products []*product.Product
	err      error
	failure  string
	success  string
}

// catalogCmd runs op, which returns the refreshed product list, as the newest
// catalog request.
func (m *ProductsModel) catalogCmd(op func(context.Context) ([]*product.Product, error), failure, success string) tea.Cmd {
	catalog := m.catalog
	seq := catalog.Begin()
	settings := m.settings

	return func() tea.Msg {
		ctx, cancel := settings.requestCtx()
		defer cancel()

		products, err := op(ctx)

		return catalogMsg{catalog: catalog, seq: seq, products: products, err: err, failure: failure, success: success}
	}
}

type productFetchedMsg struct {
	product *product.Product
	err     error
}

func (m ProductsModel) fetchProductCmd(id int64) tea.Cmd {
	svc := m.productService
	settings := m.settings

	return func() tea.Msg {
		ctx, cancel := settings.requestCtx()
		defer cancel()

		p, err := svc.Get(ctx, id)

		return productFetchedMsg{product: p, err: err}
	}
}
