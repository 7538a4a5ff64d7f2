package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/cart"
	"github.com/MrJamesThe3rd/till/internal/product"
)

type registerState int

const (
	registerStateBrowse registerState = iota
	registerStateSearch
	registerStateQuantity
	registerStateConfirm
	registerStateCheckingOut
)

type registerFocus int

const (
	focusProducts registerFocus = iota
	focusCart
)

const suggestionLimit = 8

type RegisterModel struct {
	CommonModel
	productService *product.Service
	settings       Settings

	cart  *cart.Cart
	state registerState
	focus registerFocus

	products table.Model
	lines    table.Model

	search      textinput.Model
	suggestions []*product.Product
	suggestion  int

	quantity textinput.Model

	form      *huh.Form
	confirmed *bool

	spinner spinner.Model
	notice  *Notice
	loading bool
}

func NewRegisterModel(productSvc *product.Service, checkouter cart.Checkouter, settings Settings) RegisterModel {
	products := newTable([]table.Column{
		{Title: "ID", Width: 5},
		{Title: "Product", Width: 24},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 6},
	}, 15)

	lines := newTable([]table.Column{
		{Title: "Item", Width: 20},
		{Title: "Qty", Width: 5},
		{Title: "Price", Width: 10},
		{Title: "Subtotal", Width: 10},
	}, 15)
	lines.Blur()

	search := textinput.New()
	search.Placeholder = "Search products"
	search.Prompt = "/ "
	search.Width = 30

	qty := textinput.New()
	qty.Prompt = "Quantity: "
	qty.CharLimit = 6
	qty.Width = 8

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return RegisterModel{
		productService: productSvc,
		settings:       settings,
		cart:           cart.New(checkouter),
		products:       products,
		lines:          lines,
		search:         search,
		quantity:       qty,
		spinner:        s,
		notice:         newNotice("register"),
		loading:        true,
	}
}

func (m RegisterModel) Title() string { return "Register" }

func (m RegisterModel) ShortHelp() string {
	switch m.state {
	case registerStateSearch:
		return "Type to search | ↑/↓: pick | Enter: add | Esc: close"
	case registerStateQuantity:
		return "Enter: set quantity | Esc: cancel"
	case registerStateConfirm:
		return "←/→: choose | Enter: confirm | Esc: cancel"
	case registerStateCheckingOut:
		return "Submitting..."
	}

	if m.focus == focusCart {
		return "Esc: back | Tab: products | +/-: quantity | e: edit qty | d: remove | C: clear | c: checkout"
	}

	return "Esc: back | Tab: cart | Enter: add | /: search | r: refresh | C: clear | c: checkout"
}

func (m RegisterModel) Init() tea.Cmd {
	return m.loadProductsCmd()
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		h := max(msg.Height-14, 5)
		m.products.SetHeight(h)
		m.lines.SetHeight(h)

		return m, nil

	case clearNoticeMsg:
		m.notice.clear(msg)
		return m, nil

	case checkoutMsg:
		return m.finishCheckout(msg)
	}

	// The cart belongs to the checkout command until it reports back.
	if m.state == registerStateCheckingOut {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if msg, ok := msg.(registerProductsMsg); ok {
		return m.applyProducts(msg)
	}

	switch m.state {
	case registerStateBrowse:
		return m.updateBrowse(msg)
	case registerStateSearch:
		return m.updateSearch(msg)
	case registerStateQuantity:
		return m.updateQuantity(msg)
	case registerStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m RegisterModel) applyProducts(msg registerProductsMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	if msg.err != nil {
		return m, m.notice.Error(errMessage(msg.err, "Failed to load products"))
	}

	m.cart.SetProducts(msg.products)
	m.refreshProducts()

	if m.state == registerStateSearch {
		m.refreshSuggestions()
	}

	return m, nil
}

func (m RegisterModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "tab":
			m.toggleFocus()
			return m, nil
		case "/":
			m.state = registerStateSearch
			m.search.SetValue("")
			m.suggestions = nil
			m.suggestion = 0
			m.search.Focus()

			return m, textinput.Blink
		case "r":
			m.loading = true
			return m, m.loadProductsCmd()
		case "C":
			m.cart.Clear()
			m.refreshLines()

			return m, m.notice.Info("Cart cleared")
		case "c":
			return m.confirmCheckout()
		}

		if m.focus == focusProducts {
			switch keyMsg.String() {
			case "enter", "a":
				return m.addSelected()
			}
		} else {
			switch keyMsg.String() {
			case "+", "=":
				return m.bumpQuantity(1)
			case "-":
				return m.bumpQuantity(-1)
			case "e":
				return m.editQuantity()
			case "d", "delete", "backspace":
				return m.removeLine()
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == focusProducts {
		m.products, cmd = m.products.Update(msg)
	} else {
		m.lines, cmd = m.lines.Update(msg)
	}

	return m, cmd
}

func (m *RegisterModel) toggleFocus() {
	if m.focus == focusProducts {
		m.focus = focusCart
		m.products.Blur()
		m.lines.Focus()

		return
	}

	m.focus = focusProducts
	m.lines.Blur()
	m.products.Focus()
}

func (m RegisterModel) addSelected() (tea.Model, tea.Cmd) {
	products := m.cart.Products()

	idx := m.products.Cursor()
	if idx < 0 || idx >= len(products) {
		return m, nil
	}

	return m.addProduct(products[idx].ID)
}

func (m RegisterModel) addProduct(id int64) (tea.Model, tea.Cmd) {
	p, err := m.cart.AddOne(id)
	if err != nil {
		return m, m.notice.Error(cartErrMessage(err))
	}

	m.refreshLines()

	return m, m.notice.Success(fmt.Sprintf("%s added to cart", p.Name))
}

func (m RegisterModel) bumpQuantity(delta int) (tea.Model, tea.Cmd) {
	lines := m.cart.Lines()

	idx := m.lines.Cursor()
	if idx < 0 || idx >= len(lines) {
		return m, nil
	}

	if err := m.cart.SetQuantity(idx, lines[idx].Quantity+delta); err != nil {
		return m, m.notice.Error(cartErrMessage(err))
	}

	m.refreshLines()

	return m, nil
}

func (m RegisterModel) editQuantity() (tea.Model, tea.Cmd) {
	lines := m.cart.Lines()

	idx := m.lines.Cursor()
	if idx < 0 || idx >= len(lines) {
		return m, nil
	}

	m.state = registerStateQuantity
	m.quantity.SetValue(strconv.Itoa(lines[idx].Quantity))
	m.quantity.CursorEnd()
	m.quantity.Focus()

	return m, textinput.Blink
}

func (m RegisterModel) updateQuantity(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = registerStateBrowse
			m.quantity.Blur()

			return m, nil
		case tea.KeyEnter:
			m.state = registerStateBrowse
			m.quantity.Blur()

			if err := m.cart.ChangeQuantity(m.lines.Cursor(), m.quantity.Value()); err != nil {
				return m, m.notice.Error(cartErrMessage(err))
			}

			m.refreshLines()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.quantity, cmd = m.quantity.Update(msg)

	return m, cmd
}

func (m RegisterModel) removeLine() (tea.Model, tea.Cmd) {
	lines := m.cart.Lines()

	idx := m.lines.Cursor()
	if idx < 0 || idx >= len(lines) {
		return m, nil
	}

	if err := m.cart.Remove(idx); err != nil {
		return m, m.notice.Error(cartErrMessage(err))
	}

	m.refreshLines()

	return m, m.notice.Info(fmt.Sprintf("%s removed", lines[idx].Name))
}

func (m RegisterModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.closeSearch()
			return m, nil
		case tea.KeyUp:
			if m.suggestion > 0 {
				m.suggestion--
			}

			return m, nil
		case tea.KeyDown:
			if m.suggestion < len(m.suggestions)-1 {
				m.suggestion++
			}

			return m, nil
		case tea.KeyEnter:
			p := m.pickSuggestion()
			if p == nil {
				return m, m.notice.Error("Product not found")
			}

			m.closeSearch()

			return m.addProduct(p.ID)
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshSuggestions()

	return m, cmd
}

// pickSuggestion prefers the highlighted suggestion and falls back to the
// best match for whatever was typed.
func (m RegisterModel) pickSuggestion() *product.Product {
	if m.suggestion >= 0 && m.suggestion < len(m.suggestions) {
		return m.suggestions[m.suggestion]
	}

	return m.cart.BestMatch(strings.TrimSpace(m.search.Value()))
}

func (m *RegisterModel) refreshSuggestions() {
	m.suggestions = m.cart.Search(strings.TrimSpace(m.search.Value()), suggestionLimit)
	m.suggestion = min(m.suggestion, max(len(m.suggestions)-1, 0))
}

func (m *RegisterModel) closeSearch() {
	m.state = registerStateBrowse
	m.search.Blur()
	m.search.SetValue("")
	m.suggestions = nil
	m.suggestion = 0
}

func (m RegisterModel) confirmCheckout() (tea.Model, tea.Cmd) {
	if m.cart.Len() == 0 {
		return m, m.notice.Error(cartErrMessage(cart.ErrEmptyCart))
	}

	m.confirmed = new(true)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title("Complete this sale?").
				Description(m.receiptPreview()).
				Affirmative("Checkout").
				Negative("Cancel").
				Value(m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = registerStateConfirm

	return m, m.form.Init()
}

func (m RegisterModel) receiptPreview() string {
	var b strings.Builder

	for _, l := range m.cart.Lines() {
		fmt.Fprintf(&b, "%s x %d  %s\n", l.Name, l.Quantity, FormatMoney(l.Subtotal()))
	}

	total, _ := m.cart.Totals()
	fmt.Fprintf(&b, "\nTotal due: %s", FormatMoney(total))

	return b.String()
}

func (m RegisterModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = registerStateBrowse
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

	m.form = nil

	if !*m.confirmed {
		m.state = registerStateBrowse
		return m, nil
	}

	m.state = registerStateCheckingOut

	return m, tea.Batch(m.spinner.Tick, m.checkoutCmd())
}

func (m RegisterModel) finishCheckout(msg checkoutMsg) (tea.Model, tea.Cmd) {
	m.state = registerStateBrowse
	m.refreshLines()

	if msg.err != nil {
		// A product list that arrived mid-checkout was dropped, so fetch it again.
		if m.loading {
			return m, tea.Batch(m.notice.Error(cartErrMessage(msg.err)), m.loadProductsCmd())
		}

		return m, m.notice.Error(cartErrMessage(msg.err))
	}

	m.loading = true

	return m, tea.Batch(
		m.notice.Success(fmt.Sprintf("Checkout complete, transaction #%d", msg.receipt.TransactionID)),
		m.loadProductsCmd(),
	)
}

func cartErrMessage(err error) string {
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, cart.ErrInsufficientStock):
		return "Insufficient stock"
	case errors.Is(err, cart.ErrEmptyCart):
		return "Cart is empty"
	case errors.Is(err, cart.ErrLineNotFound):
		return "No such cart line"
	}

	return errMessage(err, "Checkout failed")
}

func (m RegisterModel) View() string {
	header := titleStyle("Register")
	if m.loading {
		header += helpStyle("  loading products...")
	}

	if m.state == registerStateCheckingOut {
		return lipgloss.NewStyle().Padding(1).Render(
			header + "\n\n" + fmt.Sprintf("%s Submitting checkout...", m.spinner.View()),
		)
	}

	left := boxed(m.products.View())
	if m.state == registerStateSearch {
		left = lipgloss.JoinVertical(lipgloss.Left, m.searchView(), left)
	}

	total, count := m.cart.Totals()
	summary := fmt.Sprintf("Items: %d   Total: %s", count, activeStyle(FormatMoney(total)))

	right := lipgloss.JoinVertical(lipgloss.Left, boxed(m.lines.View()), summary)
	if m.state == registerStateQuantity {
		right = lipgloss.JoinVertical(lipgloss.Left, right, m.quantity.View())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	if m.state == registerStateConfirm && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Checkout\n\n"+m.form.View()))
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

func (m RegisterModel) searchView() string {
	var b strings.Builder

	b.WriteString(m.search.View())

	for i, p := range m.suggestions {
		line := fmt.Sprintf("%s  %s  (stock %d)", p.Name, FormatMoney(p.Price), p.Stock)
		if i == m.suggestion {
			line = activeStyle("> " + line)
		} else {
			line = "  " + line
		}

		b.WriteString("\n" + line)
	}

	if len(m.suggestions) == 0 && strings.TrimSpace(m.search.Value()) != "" {
		b.WriteString("\n" + helpStyle("  no matches"))
	}

	return b.String()
}

func (m *RegisterModel) refreshProducts() {
	products := m.cart.Products()

	rows := make([]table.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, table.Row{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			FormatMoney(p.Price),
			strconv.Itoa(p.Stock),
		})
	}

	m.products.SetRows(rows)
}

func (m *RegisterModel) refreshLines() {
	lines := m.cart.Lines()

	rows := make([]table.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, table.Row{
			l.Name,
			strconv.Itoa(l.Quantity),
			FormatMoney(l.Price),
			FormatMoney(l.Subtotal()),
		})
	}

	m.lines.SetRows(rows)

	if c := m.lines.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.lines.SetCursor(len(rows) - 1)
	}
}

// Messages

type registerProductsMsg struct {
	products []*product.Product
	err      error
}

func (m RegisterModel) loadProductsCmd() tea.Cmd {
	svc := m.productService
	settings := m.settings

	return func() tea.Msg {
		ctx, cancel := settings.requestCtx()
		defer cancel()

		products, err := svc.List(ctx)

		return registerProductsMsg{products: products, err: err}
	}
}

type checkoutMsg struct {
	receipt *cart.Receipt
	err     error
}

func (m RegisterModel) checkoutCmd() tea.Cmd {
	c := m.cart
	settings := m.settings

	return func() tea.Msg {
		ctx, cancel := settings.requestCtx()
		defer cancel()

		receipt, err := c.Checkout(ctx)

		return checkoutMsg{receipt: receipt, err: err}
	}
}
